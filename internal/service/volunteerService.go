package service

import (
	"context"

	"github.com/ds124wfegd/eventhive/internal/entity"
	"github.com/sirupsen/logrus"
)

type volunteerService struct {
	*base
}

func NewVolunteerService(b *base) VolunteerService {
	return &volunteerService{base: b}
}

func assignKey(eventID, personID entity.ID) string {
	return "assign:" + eventID.String() + ":" + personID.String()
}

func removeKey(eventID, personID entity.ID) string {
	return "remove:" + eventID.String() + ":" + personID.String()
}

// LoadRoster fetches the event's participants and volunteers and replaces
// the cached roster.
func (s *volunteerService) LoadRoster(ctx context.Context, eventID entity.ID) (entity.Roster, error) {
	if eventID.IsZero() {
		return entity.Roster{}, entity.ErrEmptyID
	}
	if _, err := s.sess.RequireRole(entity.RoleAdmin); err != nil {
		return entity.Roster{}, err
	}
	return s.loadRoster(ctx, eventID)
}

func (s *volunteerService) Roster(eventID entity.ID) (entity.Roster, bool) {
	return s.state.Roster(eventID).Get()
}

// Assignable is the cached participants minus the cached volunteers.
func (s *volunteerService) Assignable(eventID entity.ID) []entity.Person {
	roster, _ := s.Roster(eventID)
	return roster.Assignable()
}

// roster returns the cached roster, fetching it when nothing is cached.
func (s *volunteerService) roster(ctx context.Context, eventID entity.ID) (entity.Roster, error) {
	if roster, ok := s.Roster(eventID); ok {
		return roster, nil
	}
	return s.loadRoster(ctx, eventID)
}

// Assign makes a participant a volunteer. The person must be a participant
// and not yet a volunteer according to the cached roster; otherwise nothing
// is sent. With refetch_after_write the roster is reloaded afterwards.
func (s *volunteerService) Assign(ctx context.Context, eventID, personID entity.ID) error {
	if eventID.IsZero() || personID.IsZero() {
		return entity.ErrEmptyID
	}
	admin, err := s.sess.RequireRole(entity.RoleAdmin)
	if err != nil {
		return err
	}

	_, err = share(ctx, s.flight, assignKey(eventID, personID), func() (struct{}, error) {
		roster, err := s.roster(ctx, eventID)
		if err != nil {
			return struct{}{}, err
		}
		switch {
		case !roster.IsParticipant(personID):
			return struct{}{}, entity.ErrNotParticipant
		case roster.IsVolunteer(personID):
			return struct{}{}, entity.ErrAlreadyVolunteer
		}

		if err := s.api.AssignVolunteer(ctx, eventID, personID); err != nil {
			return struct{}{}, s.fail(ctx, err)
		}

		p := s.state.Roster(eventID)
		if ctx.Err() != nil {
			return struct{}{}, abandoned(ctx, p)
		}
		p.Apply(p.Mark(), func(r entity.Roster) entity.Roster {
			return r.WithVolunteer(personID)
		})

		logrus.WithFields(logrus.Fields{
			"event_id":  eventID,
			"person_id": personID,
		}).Info("Volunteer assigned")

		if s.workflow.RefetchAfterWrite {
			s.refetch(ctx, eventID)
		}
		s.notifier.notify(ctx, entity.ActivityVolunteerAdded, eventID, personID, admin.ID)
		return struct{}{}, nil
	})
	return err
}

// Remove takes a volunteer back to the assignable set. The roster is always
// reloaded afterwards since the person may have left the event meanwhile.
func (s *volunteerService) Remove(ctx context.Context, eventID, personID entity.ID) error {
	if eventID.IsZero() || personID.IsZero() {
		return entity.ErrEmptyID
	}
	admin, err := s.sess.RequireRole(entity.RoleAdmin)
	if err != nil {
		return err
	}

	_, err = share(ctx, s.flight, removeKey(eventID, personID), func() (struct{}, error) {
		roster, err := s.roster(ctx, eventID)
		if err != nil {
			return struct{}{}, err
		}
		if !roster.IsVolunteer(personID) {
			return struct{}{}, entity.ErrNotVolunteer
		}

		if err := s.api.RemoveVolunteer(ctx, eventID, personID); err != nil {
			return struct{}{}, s.fail(ctx, err)
		}

		p := s.state.Roster(eventID)
		if ctx.Err() != nil {
			return struct{}{}, abandoned(ctx, p)
		}
		p.Apply(p.Mark(), func(r entity.Roster) entity.Roster {
			return r.WithoutVolunteer(personID)
		})

		logrus.WithFields(logrus.Fields{
			"event_id":  eventID,
			"person_id": personID,
		}).Info("Volunteer removed")

		s.refetch(ctx, eventID)
		s.notifier.notify(ctx, entity.ActivityVolunteerRemoved, eventID, personID, admin.ID)
		return struct{}{}, nil
	})
	return err
}

// Pending reports an outstanding assign or remove for the pair.
func (s *volunteerService) Pending(eventID, personID entity.ID) bool {
	return s.flight.Pending(assignKey(eventID, personID)) || s.flight.Pending(removeKey(eventID, personID))
}

func (s *volunteerService) refetch(ctx context.Context, eventID entity.ID) {
	if _, err := s.loadRoster(ctx, eventID); err != nil {
		logrus.WithFields(logrus.Fields{
			"event_id": eventID,
			"error":    err,
		}).Warn("Failed to refresh roster after write")
	}
}
