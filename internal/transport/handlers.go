package transport

import (
	repository "github.com/ds124wfegd/eventhive/internal/database/memory"
	"github.com/ds124wfegd/eventhive/internal/transport/middleware"
)

func NewHandlers(repos *repository.Repositories, tokens *middleware.TokenManager) Handlers {
	return Handlers{
		Auth:          NewAuthHandler(repos.Users, tokens),
		Events:        NewEventHandler(repos.Events, repos.Volunteers),
		Registrations: NewRegistrationHandler(repos.Registrations),
		Volunteers:    NewVolunteerHandler(repos.Volunteers),
	}
}
