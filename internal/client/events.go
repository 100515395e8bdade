package client

import (
	"bytes"
	"context"
	"encoding/json"
	"fmt"
	"mime/multipart"
	"net/http"
	"net/textproto"
	"sort"

	"github.com/ds124wfegd/eventhive/internal/entity"
)

// ListEvents is GET /events/all-events/.
func (c *Client) ListEvents(ctx context.Context) ([]entity.Event, error) {
	var payload []eventDTO
	if err := c.getJSON(ctx, "/events/all-events/", &payload); err != nil {
		return nil, fmt.Errorf("list events: %w", err)
	}
	return eventsFromDTO(payload), nil
}

// CreateEvent posts the event fields as a multipart form, with the image as
// the "file" part when given.
func (c *Client) CreateEvent(ctx context.Context, in entity.EventInput, image *File) (entity.Event, error) {
	if err := in.Validate(); err != nil {
		return entity.Event{}, err
	}

	body, contentType, err := c.multipartBody(fieldsFromInput(in).formValues(), image)
	if err != nil {
		return entity.Event{}, err
	}

	var created eventDTO
	if err := c.do(ctx, request{method: http.MethodPost, path: "/events/", body: body, contentType: contentType}, &created); err != nil {
		return entity.Event{}, fmt.Errorf("create event: %w", err)
	}
	return created.toEntity(), nil
}

// UpdateEvent sends only the changed fields, JSON encoded in the "updates"
// part.
func (c *Client) UpdateEvent(ctx context.Context, id entity.ID, upd entity.EventUpdate, image *File) (entity.Event, error) {
	if err := requireID(id); err != nil {
		return entity.Event{}, err
	}
	if err := upd.Validate(); err != nil {
		return entity.Event{}, err
	}

	updates, err := json.Marshal(fieldsFromUpdate(upd))
	if err != nil {
		return entity.Event{}, fmt.Errorf("failed to marshal updates: %w", err)
	}

	body, contentType, err := c.multipartBody(map[string]string{"updates": string(updates)}, image)
	if err != nil {
		return entity.Event{}, err
	}

	var updated eventDTO
	if err := c.do(ctx, request{method: http.MethodPut, path: "/events/" + escape(id), body: body, contentType: contentType}, &updated); err != nil {
		return entity.Event{}, fmt.Errorf("update event %s: %w", id, err)
	}
	return updated.toEntity(), nil
}

func (c *Client) DeleteEvent(ctx context.Context, id entity.ID) error {
	if err := requireID(id); err != nil {
		return err
	}
	if err := c.do(ctx, request{method: http.MethodDelete, path: "/events/" + escape(id)}, nil); err != nil {
		return fmt.Errorf("delete event %s: %w", id, err)
	}
	return nil
}

// Participants is GET /events/{id}/users, normalised so that both lists are
// non-nil and every volunteer is also a participant.
func (c *Client) Participants(ctx context.Context, id entity.ID) (entity.Roster, error) {
	if err := requireID(id); err != nil {
		return entity.Roster{}, err
	}
	var payload participantsDTO
	if err := c.getJSON(ctx, "/events/"+escape(id)+"/users", &payload); err != nil {
		return entity.Roster{}, fmt.Errorf("participants of %s: %w", id, err)
	}
	return payload.toRoster(id), nil
}

func (c *Client) multipartBody(fields map[string]string, image *File) (*bytes.Buffer, string, error) {
	var buf bytes.Buffer
	w := multipart.NewWriter(&buf)

	keys := make([]string, 0, len(fields))
	for k := range fields {
		keys = append(keys, k)
	}
	sort.Strings(keys)
	for _, k := range keys {
		if err := w.WriteField(k, fields[k]); err != nil {
			return nil, "", fmt.Errorf("failed to write field %s: %w", k, err)
		}
	}

	if image != nil && image.Reader != nil {
		img, err := prepareImage(*image, c.images)
		if err != nil {
			return nil, "", err
		}
		h := make(textproto.MIMEHeader)
		h.Set("Content-Disposition", fmt.Sprintf(`form-data; name="file"; filename=%q`, img.name))
		h.Set("Content-Type", img.contentType)
		part, err := w.CreatePart(h)
		if err != nil {
			return nil, "", fmt.Errorf("failed to create file part: %w", err)
		}
		if _, err := part.Write(img.data); err != nil {
			return nil, "", fmt.Errorf("failed to write file part: %w", err)
		}
	}

	if err := w.Close(); err != nil {
		return nil, "", fmt.Errorf("failed to close multipart body: %w", err)
	}
	return &buf, w.FormDataContentType(), nil
}
