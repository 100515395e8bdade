package repository

import (
	"context"

	"github.com/ds124wfegd/eventhive/internal/entity"
)

type registrationRepository struct {
	s *Store
}

func NewRegistrationRepository(s *Store) RegistrationRepository {
	return &registrationRepository{s: s}
}

func (r *registrationRepository) Create(ctx context.Context, eventID, userID entity.ID) (*entity.Registration, error) {
	r.s.mu.Lock()
	defer r.s.mu.Unlock()

	event, ok := r.s.events[eventID]
	if !ok {
		return nil, entity.ErrNotFound
	}
	regs := r.s.registrations[eventID]
	for _, reg := range regs {
		if reg.UserID == userID {
			return nil, entity.ErrAlreadyRegistered
		}
	}
	if len(regs) >= event.Capacity {
		return nil, entity.ErrEventFull
	}

	reg := entity.Registration{
		ID:        newID(),
		EventID:   eventID,
		UserID:    userID,
		CreatedAt: r.s.now().UTC(),
	}
	r.s.registrations[eventID] = append(regs, reg)
	return &reg, nil
}

// Delete also drops a volunteer assignment, since volunteers must stay
// registered.
func (r *registrationRepository) Delete(ctx context.Context, eventID, userID entity.ID) error {
	r.s.mu.Lock()
	defer r.s.mu.Unlock()

	regs := r.s.registrations[eventID]
	idx := -1
	for i, reg := range regs {
		if reg.UserID == userID {
			idx = i
			break
		}
	}
	if idx < 0 {
		return entity.ErrNotRegistered
	}

	next := make([]entity.Registration, 0, len(regs)-1)
	next = append(next, regs[:idx]...)
	r.s.registrations[eventID] = append(next, regs[idx+1:]...)
	r.s.volunteers[eventID] = without(r.s.volunteers[eventID], userID)
	return nil
}

func (r *registrationRepository) GetByUserID(ctx context.Context, userID entity.ID) ([]*entity.Registration, error) {
	r.s.mu.RLock()
	defer r.s.mu.RUnlock()

	out := make([]*entity.Registration, 0)
	for _, eventID := range r.s.eventOrder {
		for _, reg := range r.s.registrations[eventID] {
			if reg.UserID == userID {
				reg := reg
				out = append(out, &reg)
			}
		}
	}
	return out, nil
}

func without(ids []entity.ID, id entity.ID) []entity.ID {
	out := make([]entity.ID, 0, len(ids))
	for _, existing := range ids {
		if existing != id {
			out = append(out, existing)
		}
	}
	return out
}
