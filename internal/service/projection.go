package service

import (
	"sync"

	"github.com/ds124wfegd/eventhive/internal/entity"
)

// Projection is a locally cached view of remote data.
//
// Every fetch and every successful write takes a mark from the projection's
// own counter. A snapshot is installed only if its fetch started after the
// installed snapshot's fetch and after the last applied write. A write is
// applied on top of the current value only if no snapshot fetched after the
// write completed has been installed since, as that snapshot contains it.
//
// Update functions receive the current value and must return a new one
// without modifying their argument.
type Projection[T any] struct {
	mu      sync.RWMutex
	value   T
	loaded  bool
	seq     uint64
	at      uint64
	written uint64
}

// Mark hands out the next position on the projection's timeline.
func (p *Projection[T]) Mark() uint64 {
	p.mu.Lock()
	defer p.mu.Unlock()
	p.seq++
	return p.seq
}

// Load installs a server snapshot whose fetch started at mark.
func (p *Projection[T]) Load(mark uint64, v T) bool {
	p.mu.Lock()
	defer p.mu.Unlock()
	if mark < p.at || mark < p.written {
		return false
	}
	p.value = v
	p.loaded = true
	p.at = mark
	return true
}

// Apply runs fn for a write that completed at mark.
func (p *Projection[T]) Apply(mark uint64, fn func(T) T) bool {
	p.mu.Lock()
	defer p.mu.Unlock()
	if !p.loaded || p.at > mark {
		return false
	}
	p.value = fn(p.value)
	if mark > p.written {
		p.written = mark
	}
	return true
}

func (p *Projection[T]) Get() (T, bool) {
	p.mu.RLock()
	defer p.mu.RUnlock()
	return p.value, p.loaded
}

// Invalidate forgets the value. Fetches and writes started before the call
// can no longer land.
func (p *Projection[T]) Invalidate() {
	p.mu.Lock()
	defer p.mu.Unlock()
	var zero T
	p.value = zero
	p.loaded = false
	p.seq++
	p.at = p.seq
}

// State holds every projection of one signed-in session.
type State struct {
	Events        Projection[[]entity.Event]
	Registrations Projection[[]entity.Registration]

	mu      sync.Mutex
	rosters map[entity.ID]*Projection[entity.Roster]
}

func NewState() *State {
	return &State{rosters: make(map[entity.ID]*Projection[entity.Roster])}
}

// Roster returns the roster projection of an event, creating an empty one.
func (s *State) Roster(eventID entity.ID) *Projection[entity.Roster] {
	s.mu.Lock()
	defer s.mu.Unlock()
	p, ok := s.rosters[eventID]
	if !ok {
		p = &Projection[entity.Roster]{}
		s.rosters[eventID] = p
	}
	return p
}

func (s *State) dropRoster(eventID entity.ID) {
	s.mu.Lock()
	p := s.rosters[eventID]
	delete(s.rosters, eventID)
	s.mu.Unlock()
	if p != nil {
		p.Invalidate()
	}
}

// Reset drops everything, e.g. on sign-out.
func (s *State) Reset() {
	s.Events.Invalidate()
	s.Registrations.Invalidate()

	s.mu.Lock()
	old := s.rosters
	s.rosters = make(map[entity.ID]*Projection[entity.Roster])
	s.mu.Unlock()

	for _, p := range old {
		p.Invalidate()
	}
}

// Pure updates used with Apply.

func withRegistration(reg entity.Registration) func([]entity.Registration) []entity.Registration {
	return func(cur []entity.Registration) []entity.Registration {
		for _, r := range cur {
			if r.EventID == reg.EventID {
				return cur
			}
		}
		next := make([]entity.Registration, 0, len(cur)+1)
		next = append(next, cur...)
		return append(next, reg)
	}
}

func withoutRegistration(eventID entity.ID) func([]entity.Registration) []entity.Registration {
	return func(cur []entity.Registration) []entity.Registration {
		next := make([]entity.Registration, 0, len(cur))
		for _, r := range cur {
			if r.EventID != eventID {
				next = append(next, r)
			}
		}
		return next
	}
}

func withAttendeeDelta(eventID entity.ID, delta int) func([]entity.Event) []entity.Event {
	return func(cur []entity.Event) []entity.Event {
		next := make([]entity.Event, len(cur))
		copy(next, cur)
		for i := range next {
			if next[i].ID == eventID {
				next[i].Attendees += delta
				if next[i].Attendees < 0 {
					next[i].Attendees = 0
				}
			}
		}
		return next
	}
}

func withEvent(e entity.Event) func([]entity.Event) []entity.Event {
	return func(cur []entity.Event) []entity.Event {
		next := make([]entity.Event, 0, len(cur)+1)
		replaced := false
		for _, existing := range cur {
			if existing.ID == e.ID {
				next = append(next, e)
				replaced = true
				continue
			}
			next = append(next, existing)
		}
		if !replaced {
			next = append(next, e)
		}
		return next
	}
}

func withoutEvent(eventID entity.ID) func([]entity.Event) []entity.Event {
	return func(cur []entity.Event) []entity.Event {
		next := make([]entity.Event, 0, len(cur))
		for _, e := range cur {
			if e.ID != eventID {
				next = append(next, e)
			}
		}
		return next
	}
}

func findEvent(events []entity.Event, id entity.ID) (entity.Event, bool) {
	for _, e := range events {
		if e.ID == id {
			return e, true
		}
	}
	return entity.Event{}, false
}

func hasRegistration(regs []entity.Registration, eventID entity.ID) bool {
	for _, r := range regs {
		if r.EventID == eventID {
			return true
		}
	}
	return false
}
