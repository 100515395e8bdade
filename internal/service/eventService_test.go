package service

import (
	"context"
	"errors"
	"testing"
	"time"

	"github.com/ds124wfegd/eventhive/config"
	"github.com/ds124wfegd/eventhive/internal/client"
	"github.com/ds124wfegd/eventhive/internal/entity"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/mock"
	"github.com/stretchr/testify/require"
)

// TestListEventsWithCounts тестирует подсчёт участников с ограниченным параллелизмом
func TestListEventsWithCounts(t *testing.T) {
	f := newFixture(t, student, config.WorkflowConfig{CountConcurrency: 2})
	events := []entity.Event{
		{ID: "E1", Capacity: 10},
		{ID: "E2", Capacity: 10, Attendees: 7},
		{ID: "E3", Capacity: 10},
	}
	f.api.On("ListEvents", mock.Anything).Return(events, nil).Once()
	f.api.On("Participants", mock.Anything, entity.ID("E1")).
		Return(entity.Roster{EventID: "E1", TotalCount: 4}, nil).Once()
	f.api.On("Participants", mock.Anything, entity.ID("E2")).
		Return(entity.Roster{}, errors.New("403: forbidden")).Once()
	f.api.On("Participants", mock.Anything, entity.ID("E3")).
		Return(entity.Roster{EventID: "E3", TotalCount: 9}, nil).Once()

	got, err := f.svc.Events.ListEventsWithCounts(context.Background())
	require.NoError(t, err)

	require.Len(t, got, 3)
	assert.Equal(t, 4, got[0].Attendees)
	assert.Equal(t, 0, got[1].Attendees)
	assert.Equal(t, 9, got[2].Attendees)
	assert.Equal(t, 7, events[1].Attendees, "input must not be modified")
	assert.Equal(t, 9, f.attendees(t, "E3"))
}

func TestListEventsFailure(t *testing.T) {
	f := newFixture(t, student, config.WorkflowConfig{})
	f.api.On("ListEvents", mock.Anything).Return(nil, errors.New("connection refused")).Once()

	_, err := f.svc.Events.ListEvents(context.Background())

	assert.Error(t, err)
	assert.False(t, isLoaded(&f.base.state.Events))
}

func TestFilterCachedEvents(t *testing.T) {
	f := newFixture(t, student, config.WorkflowConfig{})
	f.loadEvents(t,
		entity.Event{ID: "E1", Title: "Summer Music Festival", Category: "Music"},
		entity.Event{ID: "E2", Title: "Tech Conference", Category: "Technology"},
	)

	got := f.svc.Events.Filter(EventFilter{Category: "music"})

	require.Len(t, got, 1)
	assert.Equal(t, entity.ID("E1"), got[0].ID)
}

func TestStats(t *testing.T) {
	f := newFixture(t, student, config.WorkflowConfig{})
	stats := f.svc.Events.Stats([]entity.Event{
		{ID: "E1", Fee: 10, Attendees: 3, StartsAt: fixedNow.Add(time.Hour)},
		{ID: "E2", Fee: 20, Attendees: 1, StartsAt: fixedNow.Add(-time.Hour)},
	})

	assert.Equal(t, 2, stats.TotalEvents)
	assert.Equal(t, 4, stats.TotalRegistrations)
	assert.Equal(t, 15.0, stats.AverageFee)
	require.Len(t, stats.Upcoming, 1)
	assert.Equal(t, entity.ID("E1"), stats.Upcoming[0].ID)
}

// TestCreateEvent тестирует создание события администратором
func TestCreateEvent(t *testing.T) {
	in := entity.EventInput{Title: "Workshop", Capacity: 20, Fee: 5, Category: "Technology"}

	t.Run("admin", func(t *testing.T) {
		f := newFixture(t, admin, config.WorkflowConfig{})
		f.loadEvents(t, entity.Event{ID: "E1"})
		created := entity.Event{ID: "E2", Title: "Workshop", Capacity: 20}
		f.api.On("CreateEvent", mock.Anything, in, (*client.File)(nil)).Return(created, nil).Once()

		got, err := f.svc.Events.CreateEvent(context.Background(), in, nil)

		require.NoError(t, err)
		assert.Equal(t, created, got)
		_, ok := f.svc.Events.Event("E2")
		assert.True(t, ok)
	})

	t.Run("student", func(t *testing.T) {
		f := newFixture(t, student, config.WorkflowConfig{})
		_, err := f.svc.Events.CreateEvent(context.Background(), in, nil)
		assert.ErrorIs(t, err, entity.ErrForbidden)
		assert.Empty(t, f.api.Calls)
	})

	t.Run("invalid input", func(t *testing.T) {
		f := newFixture(t, admin, config.WorkflowConfig{})
		bad := in
		bad.Capacity = 0
		_, err := f.svc.Events.CreateEvent(context.Background(), bad, nil)
		assert.ErrorIs(t, err, entity.ErrInvalidCapacity)
		assert.Empty(t, f.api.Calls)
	})
}

func TestUpdateEventKeepsAttendees(t *testing.T) {
	f := newFixture(t, admin, config.WorkflowConfig{})
	f.loadEvents(t, entity.Event{ID: "E1", Title: "Old", Capacity: 10, Attendees: 6})

	title := "New"
	upd := entity.EventUpdate{Title: &title}
	f.api.On("UpdateEvent", mock.Anything, entity.ID("E1"), upd, (*client.File)(nil)).
		Return(entity.Event{ID: "E1", Title: "New", Capacity: 10}, nil).Once()

	_, err := f.svc.Events.UpdateEvent(context.Background(), "E1", upd, nil)
	require.NoError(t, err)

	e, ok := f.svc.Events.Event("E1")
	require.True(t, ok)
	assert.Equal(t, "New", e.Title)
	assert.Equal(t, 6, e.Attendees)
}

func TestDeleteEvent(t *testing.T) {
	f := newFixture(t, admin, config.WorkflowConfig{})
	f.loadEvents(t, entity.Event{ID: "E1"}, entity.Event{ID: "E2"})
	f.loadRegistrations(t, entity.Registration{ID: "R1", EventID: "E1"})
	f.loadRoster(t, roster("E1", []entity.ID{"P1"}, nil))
	f.api.On("DeleteEvent", mock.Anything, entity.ID("E1")).Return(nil).Once()

	require.NoError(t, f.svc.Events.DeleteEvent(context.Background(), "E1"))

	_, ok := f.svc.Events.Event("E1")
	assert.False(t, ok)
	assert.False(t, f.svc.Registrations.IsRegistered("E1"))
	_, ok = f.svc.Volunteers.Roster("E1")
	assert.False(t, ok)
}
