package entity

import (
	"strings"
	"time"
)

type Event struct {
	ID          ID        `json:"id"`
	Title       string    `json:"title"`
	Description string    `json:"description"`
	StartsAt    time.Time `json:"starts_at"`
	Location    string    `json:"location"`
	Capacity    int       `json:"capacity"`
	Fee         float64   `json:"fee"`
	Category    string    `json:"category"`
	ImageURL    string    `json:"image_url,omitempty"`
	Volunteers  []Person  `json:"volunteers,omitempty"`

	// Attendees is a display counter: loaded from the participants count and
	// nudged locally after register/unregister. It is never authoritative.
	Attendees int `json:"attendees"`
}

// UnknownCapacity marks an event whose payload carried no capacity.
const UnknownCapacity = -1

func (e Event) HasCapacity() bool {
	return e.Capacity >= 0
}

// IsFull reports whether the locally known attendee count reached capacity.
// An event without a known capacity is never full locally.
func (e Event) IsFull() bool {
	return e.HasCapacity() && e.Attendees >= e.Capacity
}

// SeatsLeft never goes below zero. It is -1 when capacity is unknown.
func (e Event) SeatsLeft() int {
	if !e.HasCapacity() {
		return UnknownCapacity
	}
	if left := e.Capacity - e.Attendees; left > 0 {
		return left
	}
	return 0
}

// Date is the calendar date used by date filters.
func (e Event) Date() string {
	if e.StartsAt.IsZero() {
		return ""
	}
	return e.StartsAt.Format(DateLayout)
}

// Matches is the case-insensitive free-text predicate over title,
// description and location.
func (e Event) Matches(query string) bool {
	q := strings.ToLower(strings.TrimSpace(query))
	if q == "" {
		return true
	}
	return strings.Contains(strings.ToLower(e.Title), q) ||
		strings.Contains(strings.ToLower(e.Description), q) ||
		strings.Contains(strings.ToLower(e.Location), q)
}

// EventInput carries the fields of a new event.
type EventInput struct {
	Title       string
	Description string
	StartsAt    time.Time
	Location    string
	Capacity    int
	Fee         float64
	Category    string
}

func (in EventInput) Validate() error {
	if strings.TrimSpace(in.Title) == "" {
		return ErrMissingTitle
	}
	if in.Capacity < 1 {
		return ErrInvalidCapacity
	}
	if in.Fee < 0 {
		return ErrInvalidFee
	}
	return nil
}

// EventUpdate holds only the changed fields; nil means unchanged.
type EventUpdate struct {
	Title       *string
	Description *string
	StartsAt    *time.Time
	Location    *string
	Capacity    *int
	Fee         *float64
	Category    *string
}

func (u EventUpdate) Validate() error {
	if u.Title != nil && strings.TrimSpace(*u.Title) == "" {
		return ErrMissingTitle
	}
	if u.Capacity != nil && *u.Capacity < 1 {
		return ErrInvalidCapacity
	}
	if u.Fee != nil && *u.Fee < 0 {
		return ErrInvalidFee
	}
	return nil
}

// IsEmpty reports an update that changes nothing.
func (u EventUpdate) IsEmpty() bool {
	return u.Title == nil && u.Description == nil && u.StartsAt == nil && u.Location == nil &&
		u.Capacity == nil && u.Fee == nil && u.Category == nil
}
