package service

import (
	"strings"

	"github.com/ds124wfegd/eventhive/internal/entity"
)

// EventFilter represents filters for searching events. Zero fields match
// everything; all set predicates must hold.
type EventFilter struct {
	Search   string   `json:"search,omitempty"`   // title, description or location
	Category string   `json:"category,omitempty"` // exact, case-insensitive
	Date     string   `json:"date,omitempty"`     // YYYY-MM-DD
	Location string   `json:"location,omitempty"` // substring
	MinFee   *float64 `json:"min_fee,omitempty"`
	MaxFee   *float64 `json:"max_fee,omitempty"`
}

// FilterEvents returns the events matching f in their original order. The
// input slice is not modified.
func FilterEvents(events []entity.Event, f EventFilter) []entity.Event {
	out := make([]entity.Event, 0, len(events))
	for _, e := range events {
		if f.matches(e) {
			out = append(out, e)
		}
	}
	return out
}

func (f EventFilter) matches(e entity.Event) bool {
	if !e.Matches(f.Search) {
		return false
	}
	if c := strings.TrimSpace(f.Category); c != "" && !strings.EqualFold(e.Category, c) {
		return false
	}
	if d := strings.TrimSpace(f.Date); d != "" && e.Date() != d {
		return false
	}
	if l := strings.ToLower(strings.TrimSpace(f.Location)); l != "" && !strings.Contains(strings.ToLower(e.Location), l) {
		return false
	}
	if f.MinFee != nil && e.Fee < *f.MinFee {
		return false
	}
	if f.MaxFee != nil && e.Fee > *f.MaxFee {
		return false
	}
	return true
}
