package repository

import (
	"context"
	"fmt"
	"sync"
	"testing"

	"github.com/ds124wfegd/eventhive/internal/entity"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"golang.org/x/crypto/bcrypt"
)

func newRepos(t *testing.T) *Repositories {
	t.Helper()
	repos := NewRepositories(NewStore())
	require.NoError(t, Seed(context.Background(), repos, "password"))
	return repos
}

func newUser(t *testing.T, repos *Repositories, email string) entity.User {
	t.Helper()
	u := &entity.User{Name: email, Email: email, Role: entity.RoleStudent}
	require.NoError(t, repos.Users.Create(context.Background(), u, []byte("hash")))
	return *u
}

func TestSeed(t *testing.T) {
	repos := newRepos(t)
	ctx := context.Background()

	events, err := repos.Events.GetAll(ctx)
	require.NoError(t, err)
	assert.Len(t, events, 3)

	admin, hash, err := repos.Users.GetCredentials(ctx, "  ADMIN@eventhive.local ")
	require.NoError(t, err)
	assert.Equal(t, entity.RoleAdmin, admin.Role)
	assert.NoError(t, bcrypt.CompareHashAndPassword(hash, []byte("password")))

	err = repos.Users.Create(ctx, &entity.User{Email: SeedStudentEmail}, nil)
	assert.ErrorIs(t, err, entity.ErrEmailTaken)
}

// TestRegistrationCapacity тестирует атомарную проверку вместимости
func TestRegistrationCapacity(t *testing.T) {
	repos := newRepos(t)
	ctx := context.Background()

	event := &entity.Event{Title: "Small", Capacity: 3}
	require.NoError(t, repos.Events.Create(ctx, event))

	const users = 10
	var (
		wg      sync.WaitGroup
		mu      sync.Mutex
		created int
		full    int
	)
	for i := 0; i < users; i++ {
		u := newUser(t, repos, fmt.Sprintf("u%d@example.com", i))
		wg.Add(1)
		go func() {
			defer wg.Done()
			_, err := repos.Registrations.Create(ctx, event.ID, u.ID)
			mu.Lock()
			defer mu.Unlock()
			switch {
			case err == nil:
				created++
			case assert.ErrorIs(t, err, entity.ErrEventFull):
				full++
			}
		}()
	}
	wg.Wait()

	assert.Equal(t, 3, created)
	assert.Equal(t, users-3, full)

	stored, err := repos.Events.GetByID(ctx, event.ID)
	require.NoError(t, err)
	assert.Equal(t, 3, stored.Attendees)
}

func TestRegistrationErrors(t *testing.T) {
	repos := newRepos(t)
	ctx := context.Background()
	u := newUser(t, repos, "one@example.com")

	event := &entity.Event{Title: "Talk", Capacity: 10}
	require.NoError(t, repos.Events.Create(ctx, event))

	_, err := repos.Registrations.Create(ctx, "missing", u.ID)
	assert.ErrorIs(t, err, entity.ErrNotFound)

	_, err = repos.Registrations.Create(ctx, event.ID, u.ID)
	require.NoError(t, err)
	_, err = repos.Registrations.Create(ctx, event.ID, u.ID)
	assert.ErrorIs(t, err, entity.ErrAlreadyRegistered)

	regs, err := repos.Registrations.GetByUserID(ctx, u.ID)
	require.NoError(t, err)
	require.Len(t, regs, 1)

	require.NoError(t, repos.Registrations.Delete(ctx, event.ID, u.ID))
	assert.ErrorIs(t, repos.Registrations.Delete(ctx, event.ID, u.ID), entity.ErrNotRegistered)
}

// TestVolunteers тестирует, что волонтёры остаются подмножеством участников
func TestVolunteers(t *testing.T) {
	repos := newRepos(t)
	ctx := context.Background()
	p1 := newUser(t, repos, "p1@example.com")
	p2 := newUser(t, repos, "p2@example.com")

	event := &entity.Event{Title: "Cleanup", Capacity: 10}
	require.NoError(t, repos.Events.Create(ctx, event))
	for _, u := range []entity.User{p1, p2} {
		_, err := repos.Registrations.Create(ctx, event.ID, u.ID)
		require.NoError(t, err)
	}

	outsider := newUser(t, repos, "out@example.com")
	assert.ErrorIs(t, repos.Volunteers.Assign(ctx, event.ID, outsider.ID), entity.ErrNotParticipant)

	require.NoError(t, repos.Volunteers.Assign(ctx, event.ID, p1.ID))
	assert.ErrorIs(t, repos.Volunteers.Assign(ctx, event.ID, p1.ID), entity.ErrAlreadyVolunteer)

	users, volunteers, err := repos.Volunteers.Participants(ctx, event.ID)
	require.NoError(t, err)
	assert.Len(t, users, 2)
	require.Len(t, volunteers, 1)
	assert.Equal(t, p1.ID, volunteers[0].ID)

	// leaving the event also ends the volunteer assignment
	require.NoError(t, repos.Registrations.Delete(ctx, event.ID, p1.ID))
	_, volunteers, err = repos.Volunteers.Participants(ctx, event.ID)
	require.NoError(t, err)
	assert.Empty(t, volunteers)
	assert.ErrorIs(t, repos.Volunteers.Remove(ctx, event.ID, p1.ID), entity.ErrNotVolunteer)
}

func TestEventUpdateAndDelete(t *testing.T) {
	repos := newRepos(t)
	ctx := context.Background()

	event := &entity.Event{Title: "Draft", Capacity: 5}
	require.NoError(t, repos.Events.Create(ctx, event))

	event.Title = "Final"
	require.NoError(t, repos.Events.Update(ctx, event))
	got, err := repos.Events.GetByID(ctx, event.ID)
	require.NoError(t, err)
	assert.Equal(t, "Final", got.Title)

	require.NoError(t, repos.Events.Delete(ctx, event.ID))
	_, err = repos.Events.GetByID(ctx, event.ID)
	assert.ErrorIs(t, err, entity.ErrNotFound)
	assert.ErrorIs(t, repos.Events.Update(ctx, event), entity.ErrNotFound)
}
