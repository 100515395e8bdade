package repository

import (
	"context"

	"github.com/ds124wfegd/eventhive/internal/entity"
)

type eventRepository struct {
	s *Store
}

func NewEventRepository(s *Store) EventRepository {
	return &eventRepository{s: s}
}

func (r *eventRepository) Create(ctx context.Context, event *entity.Event) error {
	r.s.mu.Lock()
	defer r.s.mu.Unlock()

	event.ID = newID()
	event.Attendees = 0
	event.Volunteers = nil
	r.s.events[event.ID] = *event
	r.s.eventOrder = append(r.s.eventOrder, event.ID)
	return nil
}

func (r *eventRepository) GetByID(ctx context.Context, id entity.ID) (*entity.Event, error) {
	r.s.mu.RLock()
	defer r.s.mu.RUnlock()

	event, ok := r.s.withDerived(id)
	if !ok {
		return nil, entity.ErrNotFound
	}
	return &event, nil
}

func (r *eventRepository) GetAll(ctx context.Context) ([]*entity.Event, error) {
	r.s.mu.RLock()
	defer r.s.mu.RUnlock()

	out := make([]*entity.Event, 0, len(r.s.eventOrder))
	for _, id := range r.s.eventOrder {
		event, _ := r.s.withDerived(id)
		out = append(out, &event)
	}
	return out, nil
}

func (r *eventRepository) Update(ctx context.Context, event *entity.Event) error {
	r.s.mu.Lock()
	defer r.s.mu.Unlock()

	if _, ok := r.s.events[event.ID]; !ok {
		return entity.ErrNotFound
	}
	stored := *event
	stored.Attendees = 0
	stored.Volunteers = nil
	r.s.events[event.ID] = stored
	return nil
}

// Delete removes the event with its registrations and volunteers.
func (r *eventRepository) Delete(ctx context.Context, id entity.ID) error {
	r.s.mu.Lock()
	defer r.s.mu.Unlock()

	if _, ok := r.s.events[id]; !ok {
		return entity.ErrNotFound
	}
	delete(r.s.events, id)
	delete(r.s.registrations, id)
	delete(r.s.volunteers, id)

	order := r.s.eventOrder[:0:0]
	for _, existing := range r.s.eventOrder {
		if existing != id {
			order = append(order, existing)
		}
	}
	r.s.eventOrder = order
	return nil
}

// withDerived fills the attendee count and volunteer list. Callers hold the
// lock.
func (s *Store) withDerived(id entity.ID) (entity.Event, bool) {
	event, ok := s.events[id]
	if !ok {
		return entity.Event{}, false
	}
	event.Attendees = len(s.registrations[id])
	event.Volunteers = make([]entity.Person, 0, len(s.volunteers[id]))
	for _, uid := range s.volunteers[id] {
		event.Volunteers = append(event.Volunteers, s.person(uid))
	}
	return event, true
}

func (s *Store) person(id entity.ID) entity.Person {
	stored, ok := s.users[id]
	if !ok {
		return entity.Person{ID: id}
	}
	return entity.Person{ID: id, Name: stored.user.Name, Email: stored.user.Email}
}
