package entity

import (
	"bytes"
	"encoding/json"
	"fmt"
	"strconv"
	"strings"
	"time"
)

// ID is an opaque identifier. The remote side uses UUID strings, older
// payloads carry integers; both decode into the same value.
type ID string

func (id *ID) UnmarshalJSON(b []byte) error {
	b = bytes.TrimSpace(b)
	if bytes.Equal(b, []byte("null")) {
		*id = ""
		return nil
	}
	if len(b) > 0 && b[0] == '"' {
		var s string
		if err := json.Unmarshal(b, &s); err != nil {
			return err
		}
		*id = ID(s)
		return nil
	}
	var n json.Number
	if err := json.Unmarshal(b, &n); err != nil {
		return fmt.Errorf("cannot decode %s into ID", string(b))
	}
	*id = ID(n.String())
	return nil
}

func (id ID) String() string {
	return string(id)
}

// IsZero reports an unset identifier.
func (id ID) IsZero() bool {
	return strings.TrimSpace(string(id)) == ""
}

const (
	DateLayout       = "2006-01-02"
	clockLayout      = "15:04"
	localTimeLayout  = "2006-01-02T15:04:05"
	customTimeLayout = "2006-01-02T15:04"
)

// ParseDateTime accepts every timestamp shape seen on the wire.
func ParseDateTime(s string) (time.Time, error) {
	s = strings.TrimSpace(s)
	if s == "" {
		return time.Time{}, nil
	}
	for _, layout := range []string{time.RFC3339Nano, time.RFC3339, localTimeLayout, customTimeLayout, "2006-01-02 15:04:05", DateLayout} {
		if t, err := time.Parse(layout, s); err == nil {
			return t, nil
		}
	}
	return time.Time{}, fmt.Errorf("unrecognised date %q", s)
}

// CombineDateTime joins separate date and clock fields ("2024-07-15", "18:00").
func CombineDateTime(date, clock string) (time.Time, error) {
	date = strings.TrimSpace(date)
	clock = strings.TrimSpace(clock)
	if date == "" {
		return time.Time{}, nil
	}
	if clock == "" {
		return time.Parse(DateLayout, date)
	}
	if len(clock) > len(clockLayout) {
		clock = clock[:len(clockLayout)]
	}
	return time.Parse(customTimeLayout, date+"T"+clock)
}

// Money renders a fee amount the way listings show it.
func Money(amount float64) string {
	if amount <= 0 {
		return "Free"
	}
	return strconv.FormatFloat(amount, 'f', 2, 64)
}
