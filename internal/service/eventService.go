package service

import (
	"context"
	"fmt"

	"github.com/ds124wfegd/eventhive/internal/client"
	"github.com/ds124wfegd/eventhive/internal/entity"
	"github.com/sirupsen/logrus"
	"golang.org/x/sync/errgroup"
)

type eventService struct {
	*base
}

func NewEventService(b *base) EventService {
	return &eventService{base: b}
}

func (s *eventService) ListEvents(ctx context.Context) ([]entity.Event, error) {
	if _, err := s.sess.RequireRole(); err != nil {
		return nil, err
	}
	events, err := s.loadEvents(ctx)
	if err != nil {
		return nil, fmt.Errorf("failed to get events: %w", err)
	}
	return events, nil
}

// ListEventsWithCounts lists events and fills Attendees from each event's
// participant listing, a bounded number of listings at a time. An event
// whose listing fails gets 0.
func (s *eventService) ListEventsWithCounts(ctx context.Context) ([]entity.Event, error) {
	if _, err := s.sess.RequireRole(); err != nil {
		return nil, err
	}

	mark := s.state.Events.Mark()
	events, err := s.api.ListEvents(ctx)
	if err != nil {
		return nil, fmt.Errorf("failed to get events: %w", s.fail(ctx, err))
	}

	counted := make([]entity.Event, len(events))
	copy(counted, events)

	g, gctx := errgroup.WithContext(ctx)
	g.SetLimit(s.workflow.CountConcurrency)
	for i := range counted {
		g.Go(func() error {
			roster, err := s.api.Participants(gctx, counted[i].ID)
			if err != nil {
				logrus.WithFields(logrus.Fields{
					"event_id": counted[i].ID,
					"error":    err,
				}).Debug("Participant count unavailable")
				counted[i].Attendees = 0
				return nil
			}
			counted[i].Attendees = roster.TotalCount
			return nil
		})
	}
	_ = g.Wait()

	if err := ctx.Err(); err != nil {
		return nil, err
	}
	s.state.Events.Load(mark, counted)
	return counted, nil
}

func (s *eventService) Event(id entity.ID) (entity.Event, bool) {
	events, _ := s.state.Events.Get()
	return findEvent(events, id)
}

// Filter applies f to the cached event list.
func (s *eventService) Filter(f EventFilter) []entity.Event {
	events, _ := s.state.Events.Get()
	return FilterEvents(events, f)
}

func (s *eventService) Stats(events []entity.Event) entity.EventStats {
	return entity.ComputeStats(events, s.now())
}

func (s *eventService) CreateEvent(ctx context.Context, in entity.EventInput, image *client.File) (entity.Event, error) {
	if err := in.Validate(); err != nil {
		return entity.Event{}, err
	}
	if _, err := s.sess.RequireRole(entity.RoleAdmin); err != nil {
		return entity.Event{}, err
	}

	created, err := s.api.CreateEvent(ctx, in, image)
	if err != nil {
		return entity.Event{}, s.fail(ctx, err)
	}
	s.state.Events.Apply(s.state.Events.Mark(), withEvent(created))

	logrus.WithFields(logrus.Fields{
		"event_id": created.ID,
		"title":    created.Title,
	}).Info("Event created")
	return created, nil
}

func (s *eventService) UpdateEvent(ctx context.Context, id entity.ID, upd entity.EventUpdate, image *client.File) (entity.Event, error) {
	if id.IsZero() {
		return entity.Event{}, entity.ErrEmptyID
	}
	if err := upd.Validate(); err != nil {
		return entity.Event{}, err
	}
	if _, err := s.sess.RequireRole(entity.RoleAdmin); err != nil {
		return entity.Event{}, err
	}

	updated, err := s.api.UpdateEvent(ctx, id, upd, image)
	if err != nil {
		return entity.Event{}, s.fail(ctx, err)
	}
	if updated.ID.IsZero() {
		updated.ID = id
	}
	s.state.Events.Apply(s.state.Events.Mark(), func(cur []entity.Event) []entity.Event {
		// the update response does not carry the local attendee count
		if prev, ok := findEvent(cur, id); ok && updated.Attendees == 0 {
			updated.Attendees = prev.Attendees
		}
		return withEvent(updated)(cur)
	})
	return updated, nil
}

func (s *eventService) DeleteEvent(ctx context.Context, id entity.ID) error {
	if id.IsZero() {
		return entity.ErrEmptyID
	}
	if _, err := s.sess.RequireRole(entity.RoleAdmin); err != nil {
		return err
	}

	if err := s.api.DeleteEvent(ctx, id); err != nil {
		return s.fail(ctx, err)
	}
	s.state.Events.Apply(s.state.Events.Mark(), withoutEvent(id))
	s.state.Registrations.Apply(s.state.Registrations.Mark(), withoutRegistration(id))
	s.state.dropRoster(id)

	logrus.WithField("event_id", id).Info("Event deleted")
	return nil
}

func (s *eventService) Participants(ctx context.Context, id entity.ID) (entity.Roster, error) {
	if id.IsZero() {
		return entity.Roster{}, entity.ErrEmptyID
	}
	if _, err := s.sess.RequireRole(entity.RoleAdmin); err != nil {
		return entity.Roster{}, err
	}
	return s.loadRoster(ctx, id)
}
