package client

import (
	"encoding/json"
	"fmt"
	"net/http"
	"strings"

	"github.com/ds124wfegd/eventhive/internal/entity"
)

// APIError is a failed call. errors.Is matches the entity error kind, and the
// transport cause when there is one.
type APIError struct {
	Status int
	Detail string

	kind  error
	cause error
}

func (e *APIError) Error() string {
	switch {
	case e.Status == 0 && e.cause != nil:
		return fmt.Sprintf("%s: %v", e.Detail, e.cause)
	case e.cause != nil:
		return fmt.Sprintf("%d %s: %v", e.Status, e.Detail, e.cause)
	case e.Detail != "":
		return fmt.Sprintf("%d: %s", e.Status, e.Detail)
	default:
		return fmt.Sprintf("%d: %s", e.Status, http.StatusText(e.Status))
	}
}

func (e *APIError) Unwrap() []error {
	if e.cause != nil {
		return []error{e.kind, e.cause}
	}
	return []error{e.kind}
}

func remoteError(status int, detail string, cause error) *APIError {
	return &APIError{Status: status, Detail: detail, kind: entity.ErrRemote, cause: cause}
}

func newAPIError(status int, body []byte) *APIError {
	detail := extractDetail(body)
	return &APIError{Status: status, Detail: detail, kind: kindForStatus(status, detail)}
}

func kindForStatus(status int, detail string) error {
	switch status {
	case http.StatusBadRequest, http.StatusUnprocessableEntity:
		if strings.Contains(strings.ToLower(detail), "already") {
			return entity.ErrConflict
		}
		return entity.ErrValidation
	case http.StatusUnauthorized:
		return entity.ErrUnauthenticated
	case http.StatusForbidden:
		return entity.ErrForbidden
	case http.StatusNotFound:
		return entity.ErrNotFound
	case http.StatusConflict:
		return entity.ErrConflict
	default:
		return entity.ErrRemote
	}
}

// extractDetail pulls the human readable message out of an error body:
// {"detail": "..."}, {"detail": [{"msg": "..."}]}, {"error": "..."} or
// {"message": "..."}. Anything else is returned trimmed as plain text.
func extractDetail(body []byte) string {
	var fields map[string]json.RawMessage
	if err := json.Unmarshal(body, &fields); err != nil {
		text := strings.TrimSpace(string(body))
		if len(text) > 200 {
			text = text[:200]
		}
		return text
	}

	for _, key := range []string{"detail", "error", "message"} {
		raw, ok := fields[key]
		if !ok {
			continue
		}
		var s string
		if err := json.Unmarshal(raw, &s); err == nil && s != "" {
			return s
		}
		var items []struct {
			Msg string `json:"msg"`
		}
		if err := json.Unmarshal(raw, &items); err == nil && len(items) > 0 && items[0].Msg != "" {
			return items[0].Msg
		}
	}
	return ""
}
