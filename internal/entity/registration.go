package entity

import "time"

// Registration exists while the user is registered; deleting it unregisters.
type Registration struct {
	ID        ID        `json:"id"`
	EventID   ID        `json:"event_id"`
	UserID    ID        `json:"user_id,omitempty"`
	CreatedAt time.Time `json:"created_at,omitempty"`
}

// RegisteredEvent pairs a registration with the event it points at.
type RegisteredEvent struct {
	Registration Registration `json:"registration"`
	Event        Event        `json:"event"`
}

// MyEvents splits the caller's registered events around a point in time.
type MyEvents struct {
	Upcoming []RegisteredEvent `json:"upcoming"`
	Past     []RegisteredEvent `json:"past"`
}
