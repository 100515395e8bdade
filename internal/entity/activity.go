package entity

import "time"

type ActivityType string

const (
	ActivityRegistered       ActivityType = "registered"
	ActivityUnregistered     ActivityType = "unregistered"
	ActivityVolunteerAdded   ActivityType = "volunteer_assigned"
	ActivityVolunteerRemoved ActivityType = "volunteer_removed"
)

// Activity records one successful mutating workflow call.
type Activity struct {
	ID       string       `json:"id"`
	Type     ActivityType `json:"type"`
	EventID  ID           `json:"event_id"`
	PersonID ID           `json:"person_id,omitempty"`
	ActorID  ID           `json:"actor_id,omitempty"`
	At       time.Time    `json:"at"`
}
