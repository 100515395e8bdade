package repository

import (
	"context"

	"github.com/ds124wfegd/eventhive/internal/entity"
)

type UserRepository interface {
	Create(ctx context.Context, user *entity.User, passwordHash []byte) error
	// GetCredentials returns the user and the stored bcrypt hash.
	GetCredentials(ctx context.Context, email string) (*entity.User, []byte, error)
}

type EventRepository interface {
	Create(ctx context.Context, event *entity.Event) error
	GetByID(ctx context.Context, id entity.ID) (*entity.Event, error)
	GetAll(ctx context.Context) ([]*entity.Event, error)

	// CRUD операции
	Update(ctx context.Context, event *entity.Event) error
	Delete(ctx context.Context, id entity.ID) error
}

type RegistrationRepository interface {
	// Create registers userID for eventID unless already registered or full.
	// The check and the insert happen atomically.
	Create(ctx context.Context, eventID, userID entity.ID) (*entity.Registration, error)
	Delete(ctx context.Context, eventID, userID entity.ID) error
	GetByUserID(ctx context.Context, userID entity.ID) ([]*entity.Registration, error)
}

type VolunteerRepository interface {
	Assign(ctx context.Context, eventID, userID entity.ID) error
	Remove(ctx context.Context, eventID, userID entity.ID) error
	// Participants lists registrants and the volunteers among them.
	Participants(ctx context.Context, eventID entity.ID) (users, volunteers []entity.Person, err error)
}
