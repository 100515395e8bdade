package repository

import (
	"context"
	"strings"

	"github.com/ds124wfegd/eventhive/internal/entity"
)

type userRepository struct {
	s *Store
}

func NewUserRepository(s *Store) UserRepository {
	return &userRepository{s: s}
}

func normalizeEmail(email string) string {
	return strings.ToLower(strings.TrimSpace(email))
}

func (r *userRepository) Create(ctx context.Context, user *entity.User, passwordHash []byte) error {
	r.s.mu.Lock()
	defer r.s.mu.Unlock()

	email := normalizeEmail(user.Email)
	if _, exists := r.s.usersByEmail[email]; exists {
		return entity.ErrEmailTaken
	}

	user.ID = newID()
	user.Email = email
	r.s.users[user.ID] = &storedUser{user: *user, hash: passwordHash}
	r.s.usersByEmail[email] = user.ID
	return nil
}

func (r *userRepository) GetCredentials(ctx context.Context, email string) (*entity.User, []byte, error) {
	r.s.mu.RLock()
	defer r.s.mu.RUnlock()

	id, ok := r.s.usersByEmail[normalizeEmail(email)]
	if !ok {
		return nil, nil, entity.ErrNotFound
	}
	stored := r.s.users[id]
	user := stored.user
	return &user, stored.hash, nil
}
