package service

import (
	"context"
	"errors"
	"fmt"
	"sort"

	"github.com/ds124wfegd/eventhive/internal/entity"
	"github.com/sirupsen/logrus"
)

type registrationService struct {
	*base
}

func NewRegistrationService(b *base) RegistrationService {
	return &registrationService{base: b}
}

func registerKey(eventID entity.ID) string {
	return "register:" + eventID.String()
}

func unregisterKey(eventID entity.ID) string {
	return "unregister:" + eventID.String()
}

// Register signs the current user up for an event.
//
// The user's registrations are consulted first (fetched if not cached yet):
// a known registration or a full event is refused without a mutating call.
// Concurrent calls for the same event share one request. The projections
// change only after the remote side accepted the registration.
func (s *registrationService) Register(ctx context.Context, eventID entity.ID) (entity.Registration, error) {
	if eventID.IsZero() {
		return entity.Registration{}, entity.ErrEmptyID
	}
	user, err := s.sess.RequireRole()
	if err != nil {
		return entity.Registration{}, err
	}

	return share(ctx, s.flight, registerKey(eventID), func() (entity.Registration, error) {
		regs, ok := s.state.Registrations.Get()
		if !ok {
			loaded, err := s.loadRegistrations(ctx)
			if err != nil {
				return entity.Registration{}, fmt.Errorf("failed to check registrations: %w", err)
			}
			regs = loaded
		}
		if hasRegistration(regs, eventID) {
			return entity.Registration{}, entity.ErrAlreadyRegistered
		}

		if events, ok := s.state.Events.Get(); ok {
			if event, found := findEvent(events, eventID); found && event.IsFull() {
				return entity.Registration{}, entity.ErrEventFull
			}
		}

		reg, err := s.api.Register(ctx, eventID)
		if err != nil {
			logrus.WithFields(logrus.Fields{
				"event_id": eventID,
				"error":    err,
			}).Debug("Registration rejected")
			return entity.Registration{}, s.fail(ctx, err)
		}
		if ctx.Err() != nil {
			s.state.Events.Invalidate()
			return entity.Registration{}, abandoned(ctx, &s.state.Registrations)
		}

		s.state.Registrations.Apply(s.state.Registrations.Mark(), withRegistration(reg))
		s.state.Events.Apply(s.state.Events.Mark(), withAttendeeDelta(eventID, 1))

		logrus.WithFields(logrus.Fields{
			"event_id": eventID,
			"user_id":  user.ID,
		}).Info("Registered for event")

		s.notifier.notify(ctx, entity.ActivityRegistered, eventID, user.ID, user.ID)
		return reg, nil
	})
}

// Unregister removes the current user's registration. A registration the
// remote side does not know counts as removed.
func (s *registrationService) Unregister(ctx context.Context, eventID entity.ID) error {
	if eventID.IsZero() {
		return entity.ErrEmptyID
	}
	user, err := s.sess.RequireRole()
	if err != nil {
		return err
	}

	_, err = share(ctx, s.flight, unregisterKey(eventID), func() (struct{}, error) {
		removed := true
		if err := s.api.Unregister(ctx, eventID); err != nil {
			if !errors.Is(err, entity.ErrNotFound) {
				return struct{}{}, s.fail(ctx, err)
			}
			logrus.WithField("event_id", eventID).Debug("Registration already gone")
			removed = false
		}
		if ctx.Err() != nil {
			s.state.Events.Invalidate()
			return struct{}{}, abandoned(ctx, &s.state.Registrations)
		}

		s.state.Registrations.Apply(s.state.Registrations.Mark(), withoutRegistration(eventID))
		if removed {
			s.state.Events.Apply(s.state.Events.Mark(), withAttendeeDelta(eventID, -1))
			s.notifier.notify(ctx, entity.ActivityUnregistered, eventID, user.ID, user.ID)
		}
		return struct{}{}, nil
	})
	return err
}

func (s *registrationService) MyRegistrations(ctx context.Context) ([]entity.Registration, error) {
	if _, err := s.sess.RequireRole(); err != nil {
		return nil, err
	}
	return s.loadRegistrations(ctx)
}

// MyEvents joins the user's registrations with the event list. Upcoming
// events are sorted soonest first, past ones most recent first. Registrations
// whose event no longer exists are skipped.
func (s *registrationService) MyEvents(ctx context.Context) (entity.MyEvents, error) {
	regs, err := s.MyRegistrations(ctx)
	if err != nil {
		return entity.MyEvents{}, err
	}
	events, err := s.events(ctx)
	if err != nil {
		return entity.MyEvents{}, err
	}

	now := s.now()
	out := entity.MyEvents{
		Upcoming: []entity.RegisteredEvent{},
		Past:     []entity.RegisteredEvent{},
	}
	for _, reg := range regs {
		event, ok := findEvent(events, reg.EventID)
		if !ok {
			continue
		}
		item := entity.RegisteredEvent{Registration: reg, Event: event}
		if event.StartsAt.Before(now) {
			out.Past = append(out.Past, item)
		} else {
			out.Upcoming = append(out.Upcoming, item)
		}
	}

	sort.SliceStable(out.Upcoming, func(i, j int) bool {
		return out.Upcoming[i].Event.StartsAt.Before(out.Upcoming[j].Event.StartsAt)
	})
	sort.SliceStable(out.Past, func(i, j int) bool {
		return out.Past[i].Event.StartsAt.After(out.Past[j].Event.StartsAt)
	})
	return out, nil
}

func (s *registrationService) IsRegistered(eventID entity.ID) bool {
	regs, _ := s.state.Registrations.Get()
	return hasRegistration(regs, eventID)
}

// Registering reports an outstanding register or unregister call.
func (s *registrationService) Registering(eventID entity.ID) bool {
	return s.flight.Pending(registerKey(eventID)) || s.flight.Pending(unregisterKey(eventID))
}
