package service

import (
	"context"
	"time"

	"github.com/ds124wfegd/eventhive/config"
	"github.com/ds124wfegd/eventhive/internal/client"
	"github.com/ds124wfegd/eventhive/internal/entity"
)

// Remote side, implemented by *client.Client.

type EventAPI interface {
	ListEvents(ctx context.Context) ([]entity.Event, error)
	CreateEvent(ctx context.Context, in entity.EventInput, image *client.File) (entity.Event, error)
	UpdateEvent(ctx context.Context, id entity.ID, upd entity.EventUpdate, image *client.File) (entity.Event, error)
	DeleteEvent(ctx context.Context, id entity.ID) error
	Participants(ctx context.Context, id entity.ID) (entity.Roster, error)
}

type RegistrationAPI interface {
	Register(ctx context.Context, eventID entity.ID) (entity.Registration, error)
	Unregister(ctx context.Context, eventID entity.ID) error
	MyRegistrations(ctx context.Context) ([]entity.Registration, error)
}

type VolunteerAPI interface {
	Participants(ctx context.Context, id entity.ID) (entity.Roster, error)
	AssignVolunteer(ctx context.Context, eventID, personID entity.ID) error
	RemoveVolunteer(ctx context.Context, eventID, personID entity.ID) error
}

type AuthAPI interface {
	SignIn(ctx context.Context, email, password string, role entity.Role) (client.AuthResult, error)
	SignUp(ctx context.Context, req entity.SignUpRequest) (client.AuthResult, error)
}

type Remote interface {
	EventAPI
	RegistrationAPI
	VolunteerAPI
	AuthAPI
}

var _ Remote = (*client.Client)(nil)

// SessionStore is the part of *session.Session the workflows need.
type SessionStore interface {
	User() (entity.User, bool)
	RequireRole(roles ...entity.Role) (entity.User, error)
	Set(ctx context.Context, token string, user entity.User) error
	Clear(ctx context.Context) error
}

type AuthService interface {
	SignIn(ctx context.Context, email, password string, role entity.Role) (entity.User, error)
	SignUp(ctx context.Context, req entity.SignUpRequest) (entity.User, error)
	Logout(ctx context.Context) error
	CurrentUser() (entity.User, bool)
}

type EventService interface {
	// Основные операции
	ListEvents(ctx context.Context) ([]entity.Event, error)
	ListEventsWithCounts(ctx context.Context) ([]entity.Event, error)
	Event(id entity.ID) (entity.Event, bool)
	Filter(filter EventFilter) []entity.Event
	Stats(events []entity.Event) entity.EventStats

	// Администрирование
	CreateEvent(ctx context.Context, in entity.EventInput, image *client.File) (entity.Event, error)
	UpdateEvent(ctx context.Context, id entity.ID, upd entity.EventUpdate, image *client.File) (entity.Event, error)
	DeleteEvent(ctx context.Context, id entity.ID) error
	Participants(ctx context.Context, id entity.ID) (entity.Roster, error)
}

type RegistrationService interface {
	Register(ctx context.Context, eventID entity.ID) (entity.Registration, error)
	Unregister(ctx context.Context, eventID entity.ID) error
	MyRegistrations(ctx context.Context) ([]entity.Registration, error)
	MyEvents(ctx context.Context) (entity.MyEvents, error)
	IsRegistered(eventID entity.ID) bool
	Registering(eventID entity.ID) bool
}

type VolunteerService interface {
	LoadRoster(ctx context.Context, eventID entity.ID) (entity.Roster, error)
	Roster(eventID entity.ID) (entity.Roster, bool)
	Assignable(eventID entity.ID) []entity.Person
	Assign(ctx context.Context, eventID, personID entity.ID) error
	Remove(ctx context.Context, eventID, personID entity.ID) error
	Pending(eventID, personID entity.ID) bool
}

// Deps are shared by all workflows of one session.
type Deps struct {
	API       Remote
	Session   SessionStore
	State     *State
	Publisher ActivityPublisher
	Workflow  config.WorkflowConfig
	Clock     func() time.Time
}

type Service struct {
	Auth          AuthService
	Events        EventService
	Registrations RegistrationService
	Volunteers    VolunteerService
}

func NewService(d Deps) *Service {
	b := newBase(d)
	return &Service{
		Auth:          NewAuthService(b),
		Events:        NewEventService(b),
		Registrations: NewRegistrationService(b),
		Volunteers:    NewVolunteerService(b),
	}
}
