package session

import (
	"context"
	"errors"
	"sync"

	"github.com/ds124wfegd/eventhive/internal/entity"
)

// ErrNoSession is returned by Storage.Load when nothing is persisted.
var ErrNoSession = errors.New("no persisted session")

// Record is what gets persisted between runs: the access token and the user
// it belongs to. Both are written and removed together.
type Record struct {
	Token string      `json:"token"`
	User  entity.User `json:"user"`
}

// Storage is the durable store behind a Session.
type Storage interface {
	Load(ctx context.Context) (Record, error)
	Save(ctx context.Context, rec Record) error
	Delete(ctx context.Context) error
	Close() error
}

type memoryStorage struct {
	mu  sync.Mutex
	rec *Record
}

// NewMemoryStorage keeps the record in process memory only.
func NewMemoryStorage() Storage {
	return &memoryStorage{}
}

func (s *memoryStorage) Load(ctx context.Context) (Record, error) {
	s.mu.Lock()
	defer s.mu.Unlock()
	if s.rec == nil {
		return Record{}, ErrNoSession
	}
	return *s.rec, nil
}

func (s *memoryStorage) Save(ctx context.Context, rec Record) error {
	s.mu.Lock()
	defer s.mu.Unlock()
	s.rec = &rec
	return nil
}

func (s *memoryStorage) Delete(ctx context.Context) error {
	s.mu.Lock()
	defer s.mu.Unlock()
	s.rec = nil
	return nil
}

func (s *memoryStorage) Close() error {
	return nil
}
