package repository

import (
	"context"
	"slices"

	"github.com/ds124wfegd/eventhive/internal/entity"
)

type volunteerRepository struct {
	s *Store
}

func NewVolunteerRepository(s *Store) VolunteerRepository {
	return &volunteerRepository{s: s}
}

func (r *volunteerRepository) Assign(ctx context.Context, eventID, userID entity.ID) error {
	r.s.mu.Lock()
	defer r.s.mu.Unlock()

	if _, ok := r.s.events[eventID]; !ok {
		return entity.ErrNotFound
	}
	if !r.s.isRegistered(eventID, userID) {
		return entity.ErrNotParticipant
	}
	if slices.Contains(r.s.volunteers[eventID], userID) {
		return entity.ErrAlreadyVolunteer
	}
	r.s.volunteers[eventID] = append(slices.Clone(r.s.volunteers[eventID]), userID)
	return nil
}

func (r *volunteerRepository) Remove(ctx context.Context, eventID, userID entity.ID) error {
	r.s.mu.Lock()
	defer r.s.mu.Unlock()

	if _, ok := r.s.events[eventID]; !ok {
		return entity.ErrNotFound
	}
	if !slices.Contains(r.s.volunteers[eventID], userID) {
		return entity.ErrNotVolunteer
	}
	r.s.volunteers[eventID] = without(r.s.volunteers[eventID], userID)
	return nil
}

func (r *volunteerRepository) Participants(ctx context.Context, eventID entity.ID) ([]entity.Person, []entity.Person, error) {
	r.s.mu.RLock()
	defer r.s.mu.RUnlock()

	if _, ok := r.s.events[eventID]; !ok {
		return nil, nil, entity.ErrNotFound
	}

	users := make([]entity.Person, 0, len(r.s.registrations[eventID]))
	for _, reg := range r.s.registrations[eventID] {
		users = append(users, r.s.person(reg.UserID))
	}
	volunteers := make([]entity.Person, 0, len(r.s.volunteers[eventID]))
	for _, uid := range r.s.volunteers[eventID] {
		volunteers = append(volunteers, r.s.person(uid))
	}
	return users, volunteers, nil
}

func (s *Store) isRegistered(eventID, userID entity.ID) bool {
	for _, reg := range s.registrations[eventID] {
		if reg.UserID == userID {
			return true
		}
	}
	return false
}
