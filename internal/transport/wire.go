package transport

import (
	"time"

	"github.com/ds124wfegd/eventhive/internal/entity"
)

// Response shapes of the remote API contract.

type personResponse struct {
	ID    entity.ID `json:"id"`
	Name  string    `json:"name"`
	Email string    `json:"email"`
}

type eventResponse struct {
	ID                 entity.ID        `json:"id"`
	Title              string           `json:"title"`
	Description        string           `json:"description"`
	DateTime           string           `json:"date_time"`
	Location           string           `json:"location"`
	Capacity           int              `json:"capacity"`
	Fees               float64          `json:"fees"`
	EventType          string           `json:"event_type"`
	ImageURL           string           `json:"image_url,omitempty"`
	Volunteers         []personResponse `json:"volunteers"`
	TotalRegistrations int              `json:"total_registrations"`
}

type registrationResponse struct {
	ID        entity.ID `json:"id"`
	EventID   entity.ID `json:"event_id"`
	UserID    entity.ID `json:"user_id"`
	CreatedAt string    `json:"created_at"`
}

type participantsResponse struct {
	TotalCount int              `json:"total_count"`
	Users      []personResponse `json:"users"`
	Volunteers []personResponse `json:"volunteers"`
}

type userResponse struct {
	ID    entity.ID   `json:"id"`
	Name  string      `json:"name"`
	Email string      `json:"email"`
	Role  entity.Role `json:"role"`
}

type tokenResponse struct {
	AccessToken string       `json:"access_token"`
	TokenType   string       `json:"token_type"`
	User        userResponse `json:"user"`
}

func toPeople(in []entity.Person) []personResponse {
	out := make([]personResponse, 0, len(in))
	for _, p := range in {
		out = append(out, personResponse{ID: p.ID, Name: p.Name, Email: p.Email})
	}
	return out
}

func toEventResponse(e *entity.Event) eventResponse {
	resp := eventResponse{
		ID:                 e.ID,
		Title:              e.Title,
		Description:        e.Description,
		Location:           e.Location,
		Capacity:           e.Capacity,
		Fees:               e.Fee,
		EventType:          e.Category,
		ImageURL:           e.ImageURL,
		Volunteers:         toPeople(e.Volunteers),
		TotalRegistrations: e.Attendees,
	}
	if !e.StartsAt.IsZero() {
		resp.DateTime = e.StartsAt.Format(time.RFC3339)
	}
	return resp
}

func toRegistrationResponse(r *entity.Registration) registrationResponse {
	return registrationResponse{
		ID:        r.ID,
		EventID:   r.EventID,
		UserID:    r.UserID,
		CreatedAt: r.CreatedAt.Format(time.RFC3339),
	}
}

func toUserResponse(u *entity.User) userResponse {
	return userResponse{ID: u.ID, Name: u.Name, Email: u.Email, Role: u.Role}
}
