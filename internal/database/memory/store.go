// Package repository is the in-memory store behind the mock API server.
package repository

import (
	"context"
	"fmt"
	"sync"
	"time"

	"github.com/ds124wfegd/eventhive/internal/entity"
	"github.com/google/uuid"
	"github.com/sirupsen/logrus"
	"golang.org/x/crypto/bcrypt"
)

type storedUser struct {
	user entity.User
	hash []byte
}

// Store keeps every table of the mock backend behind one lock so that
// check-then-write sequences are atomic.
type Store struct {
	mu sync.RWMutex

	users        map[entity.ID]*storedUser
	usersByEmail map[string]entity.ID

	eventOrder []entity.ID
	events     map[entity.ID]entity.Event

	// event id -> registrations in creation order
	registrations map[entity.ID][]entity.Registration
	// event id -> volunteer user ids in assignment order
	volunteers map[entity.ID][]entity.ID

	now func() time.Time
}

func NewStore() *Store {
	return &Store{
		users:         make(map[entity.ID]*storedUser),
		usersByEmail:  make(map[string]entity.ID),
		events:        make(map[entity.ID]entity.Event),
		registrations: make(map[entity.ID][]entity.Registration),
		volunteers:    make(map[entity.ID][]entity.ID),
		now:           time.Now,
	}
}

type Repositories struct {
	Users         UserRepository
	Events        EventRepository
	Registrations RegistrationRepository
	Volunteers    VolunteerRepository
}

func NewRepositories(s *Store) *Repositories {
	return &Repositories{
		Users:         NewUserRepository(s),
		Events:        NewEventRepository(s),
		Registrations: NewRegistrationRepository(s),
		Volunteers:    NewVolunteerRepository(s),
	}
}

func newID() entity.ID {
	return entity.ID(uuid.NewString())
}

// Seed accounts, both signing in with the same password.
const (
	SeedAdminEmail   = "admin@eventhive.local"
	SeedStudentEmail = "student@eventhive.local"
)

// Seed fills the store with two accounts and the demo events.
func Seed(ctx context.Context, repos *Repositories, password string) error {
	hash, err := bcrypt.GenerateFromPassword([]byte(password), bcrypt.DefaultCost)
	if err != nil {
		return fmt.Errorf("failed to hash seed password: %w", err)
	}

	users := []*entity.User{
		{Name: "Event Admin", Email: SeedAdminEmail, Role: entity.RoleAdmin},
		{Name: "Sample Student", Email: SeedStudentEmail, Role: entity.RoleStudent},
	}
	for _, u := range users {
		if err := repos.Users.Create(ctx, u, hash); err != nil {
			return fmt.Errorf("failed to seed user %s: %w", u.Email, err)
		}
	}

	for _, e := range seedEvents() {
		if err := repos.Events.Create(ctx, &e); err != nil {
			return fmt.Errorf("failed to seed event %q: %w", e.Title, err)
		}
	}

	logrus.WithFields(logrus.Fields{
		"users":  len(users),
		"events": len(seedEvents()),
	}).Info("Mock store seeded")
	return nil
}

func seedEvents() []entity.Event {
	at := func(date, clock string) time.Time {
		t, _ := entity.CombineDateTime(date, clock)
		return t
	}
	return []entity.Event{
		{
			Title:       "Summer Music Festival 2024",
			Description: "Join us for an unforgettable music festival featuring top artists from around the world.",
			StartsAt:    at("2024-07-15", "18:00"),
			Location:    "Central Park, New York",
			Category:    "Music",
			Fee:         89.99,
			Capacity:    5000,
			ImageURL:    "https://images.unsplash.com/photo-1459749411175-04bf5292ceea",
		},
		{
			Title:       "Tech Innovation Summit 2024",
			Description: "Discover the latest trends in technology and innovation from industry leaders.",
			StartsAt:    at("2024-08-20", "09:00"),
			Location:    "Silicon Valley, CA",
			Category:    "Technology",
			Fee:         149.99,
			Capacity:    1000,
			ImageURL:    "https://images.unsplash.com/photo-1540575467063-178a50c2df87",
		},
		{
			Title:       "Food & Wine Festival",
			Description: "Savor the finest cuisine and wines from renowned chefs and vineyards.",
			StartsAt:    at("2024-09-10", "19:00"),
			Location:    "Napa Valley, CA",
			Category:    "Food & Drink",
			Fee:         75.00,
			Capacity:    800,
			ImageURL:    "https://images.unsplash.com/photo-1555939594-58d7cb561ad1",
		},
	}
}
