package client

import (
	"encoding/json"
	"strconv"
	"strings"
	"time"

	"github.com/ds124wfegd/eventhive/internal/entity"
	"github.com/sirupsen/logrus"
)

// Wire shapes of the remote API. Nothing outside this file depends on the
// remote field names.

// flexFloat decodes a number or a numeric string.
type flexFloat float64

func (f *flexFloat) UnmarshalJSON(b []byte) error {
	s := strings.Trim(strings.TrimSpace(string(b)), `"`)
	if s == "" || s == "null" {
		*f = 0
		return nil
	}
	v, err := strconv.ParseFloat(s, 64)
	if err != nil {
		return err
	}
	*f = flexFloat(v)
	return nil
}

type eventDTO struct {
	ID          entity.ID   `json:"id"`
	Title       string      `json:"title"`
	Description string      `json:"description"`
	DateTime    string      `json:"date_time"`
	Date        string      `json:"date"`
	Time        string      `json:"time"`
	Location    string      `json:"location"`
	Capacity    *flexFloat  `json:"capacity"`
	Fees        *flexFloat  `json:"fees"`
	Price       *flexFloat  `json:"price"`
	EventType   string      `json:"event_type"`
	Category    string      `json:"category"`
	ImageURL    string      `json:"image_url"`
	Image       string      `json:"image"`
	Volunteers  []personDTO `json:"volunteers"`
	Attendees   *int        `json:"attendees"`
	TotalRegs   *int        `json:"total_registrations"`
}

func (d eventDTO) toEntity() entity.Event {
	e := entity.Event{
		ID:          d.ID,
		Title:       d.Title,
		Description: d.Description,
		Location:    d.Location,
		Capacity:    entity.UnknownCapacity,
		Category:    firstNonEmpty(d.EventType, d.Category),
		ImageURL:    firstNonEmpty(d.ImageURL, d.Image),
		Volunteers:  people(d.Volunteers),
	}

	if d.Capacity != nil {
		e.Capacity = int(*d.Capacity)
	}

	switch {
	case d.Fees != nil:
		e.Fee = float64(*d.Fees)
	case d.Price != nil:
		e.Fee = float64(*d.Price)
	}

	switch {
	case d.TotalRegs != nil:
		e.Attendees = *d.TotalRegs
	case d.Attendees != nil:
		e.Attendees = *d.Attendees
	}

	var (
		startsAt time.Time
		err      error
	)
	if d.DateTime != "" {
		startsAt, err = entity.ParseDateTime(d.DateTime)
	} else {
		startsAt, err = entity.CombineDateTime(d.Date, d.Time)
	}
	if err != nil {
		logrus.WithFields(logrus.Fields{"event_id": d.ID, "error": err}).Debug("Unparseable event date")
	}
	e.StartsAt = startsAt

	return e
}

func eventsFromDTO(in []eventDTO) []entity.Event {
	out := make([]entity.Event, 0, len(in))
	for _, d := range in {
		out = append(out, d.toEntity())
	}
	return out
}

type personDTO struct {
	ID       entity.ID `json:"id"`
	Name     string    `json:"name"`
	FullName string    `json:"full_name"`
	Username string    `json:"username"`
	Email    string    `json:"email"`
}

func (d personDTO) toEntity() entity.Person {
	return entity.Person{
		ID:    d.ID,
		Name:  firstNonEmpty(d.Name, d.FullName, d.Username, d.Email),
		Email: d.Email,
	}
}

func people(in []personDTO) []entity.Person {
	out := make([]entity.Person, 0, len(in))
	for _, d := range in {
		out = append(out, d.toEntity())
	}
	return out
}

// participantsDTO is the GET /events/{id}/users payload; either list may be
// missing or null.
type participantsDTO struct {
	TotalCount *int        `json:"total_count"`
	Users      []personDTO `json:"users"`
	Volunteers []personDTO `json:"volunteers"`
}

func (d participantsDTO) toRoster(eventID entity.ID) entity.Roster {
	total := 0
	if d.TotalCount != nil {
		total = *d.TotalCount
	}
	return entity.NewRoster(eventID, total, people(d.Users), people(d.Volunteers))
}

type registrationDTO struct {
	ID        entity.ID `json:"id"`
	EventID   entity.ID `json:"event_id"`
	UserID    entity.ID `json:"user_id"`
	CreatedAt string    `json:"created_at"`
}

func (d registrationDTO) toEntity() entity.Registration {
	created, _ := entity.ParseDateTime(d.CreatedAt)
	return entity.Registration{
		ID:        d.ID,
		EventID:   d.EventID,
		UserID:    d.UserID,
		CreatedAt: created,
	}
}

type userDTO struct {
	ID       entity.ID `json:"id"`
	Name     string    `json:"name"`
	FullName string    `json:"full_name"`
	Email    string    `json:"email"`
	Role     string    `json:"role"`
}

func (d userDTO) toEntity() entity.User {
	role, _ := entity.ParseRole(d.Role)
	return entity.User{
		ID:    d.ID,
		Name:  firstNonEmpty(d.Name, d.FullName),
		Email: d.Email,
		Role:  role,
	}
}

// authDTO covers both the login response and the sign-up response, which may
// be either {access_token, user} or the bare user.
type authDTO struct {
	AccessToken string   `json:"access_token"`
	TokenType   string   `json:"token_type"`
	User        *userDTO `json:"user"`
	userDTO
}

// eventFields is the canonical outgoing shape of an event, also used as the
// JSON "updates" part of an update.
type eventFields struct {
	Title       *string  `json:"title,omitempty"`
	Description *string  `json:"description,omitempty"`
	DateTime    *string  `json:"date_time,omitempty"`
	Location    *string  `json:"location,omitempty"`
	Capacity    *int     `json:"capacity,omitempty"`
	Fees        *float64 `json:"fees,omitempty"`
	EventType   *string  `json:"event_type,omitempty"`
}

func fieldsFromInput(in entity.EventInput) eventFields {
	f := eventFields{
		Title:       &in.Title,
		Description: &in.Description,
		Location:    &in.Location,
		Capacity:    &in.Capacity,
		Fees:        &in.Fee,
		EventType:   &in.Category,
	}
	if !in.StartsAt.IsZero() {
		s := formatDateTime(in.StartsAt)
		f.DateTime = &s
	}
	return f
}

func fieldsFromUpdate(u entity.EventUpdate) eventFields {
	f := eventFields{
		Title:       u.Title,
		Description: u.Description,
		Location:    u.Location,
		Capacity:    u.Capacity,
		Fees:        u.Fee,
		EventType:   u.Category,
	}
	if u.StartsAt != nil {
		s := formatDateTime(*u.StartsAt)
		f.DateTime = &s
	}
	return f
}

// formValues flattens the non-nil fields into multipart form values.
func (f eventFields) formValues() map[string]string {
	raw, _ := json.Marshal(f)
	var generic map[string]any
	_ = json.Unmarshal(raw, &generic)

	out := make(map[string]string, len(generic))
	for k, v := range generic {
		switch t := v.(type) {
		case string:
			out[k] = t
		case float64:
			out[k] = strconv.FormatFloat(t, 'f', -1, 64)
		}
	}
	return out
}

func formatDateTime(t time.Time) string {
	return t.Format(time.RFC3339)
}

func firstNonEmpty(values ...string) string {
	for _, v := range values {
		if strings.TrimSpace(v) != "" {
			return v
		}
	}
	return ""
}
