// Package session holds the access token and signed-in user shared by every
// authenticated call.
package session

import (
	"context"
	"errors"
	"fmt"
	"slices"
	"strings"
	"sync"
	"time"

	"github.com/ds124wfegd/eventhive/internal/entity"
	"github.com/golang-jwt/jwt/v5"
	"github.com/sirupsen/logrus"
)

type Session struct {
	storage Storage

	mu  sync.RWMutex
	rec Record
}

func New(storage Storage) *Session {
	return &Session{storage: storage}
}

// Init loads whatever the storage holds. An empty store is not an error.
func (s *Session) Init(ctx context.Context) error {
	rec, err := s.storage.Load(ctx)
	if err != nil {
		if errors.Is(err, ErrNoSession) {
			s.replace(Record{})
			return nil
		}
		return fmt.Errorf("failed to init session: %w", err)
	}
	s.replace(rec)
	return nil
}

// Set replaces token and user together and persists them.
func (s *Session) Set(ctx context.Context, token string, user entity.User) error {
	rec := Record{Token: strings.TrimSpace(token), User: user}
	if err := s.storage.Save(ctx, rec); err != nil {
		return fmt.Errorf("failed to persist session: %w", err)
	}
	s.replace(rec)

	logrus.WithFields(logrus.Fields{
		"user_id": user.ID,
		"role":    user.Role,
	}).Debug("Session set")
	return nil
}

// Clear drops token and user from memory and storage.
func (s *Session) Clear(ctx context.Context) error {
	s.replace(Record{})
	if err := s.storage.Delete(ctx); err != nil {
		return fmt.Errorf("failed to clear session: %w", err)
	}
	logrus.Debug("Session cleared")
	return nil
}

// Token reads the store at call time so a sign-in made by another process is
// visible to the next request. If the store is unreachable the last known
// token is used.
func (s *Session) Token(ctx context.Context) string {
	rec, err := s.storage.Load(ctx)
	switch {
	case err == nil:
		s.replace(rec)
		return rec.Token
	case errors.Is(err, ErrNoSession):
		s.replace(Record{})
		return ""
	default:
		logrus.WithError(err).Warn("Session storage unavailable, using cached token")
		s.mu.RLock()
		defer s.mu.RUnlock()
		return s.rec.Token
	}
}

// User is the signed-in user; ok is false without a session.
func (s *Session) User() (entity.User, bool) {
	s.mu.RLock()
	defer s.mu.RUnlock()
	if s.rec.Token == "" || s.rec.User.ID.IsZero() {
		return entity.User{}, false
	}
	return s.rec.User, true
}

func (s *Session) Authenticated() bool {
	_, ok := s.User()
	return ok
}

// Expired reports whether the token's exp claim lies before now. The
// signature is not checked; that is the server's job. A token without exp
// never expires, one that cannot be decoded counts as expired.
func (s *Session) Expired(now time.Time) bool {
	s.mu.RLock()
	token := s.rec.Token
	s.mu.RUnlock()
	return TokenExpired(token, now)
}

// RequireRole gates role-restricted operations. Without roles any signed-in
// user passes.
func (s *Session) RequireRole(roles ...entity.Role) (entity.User, error) {
	user, ok := s.User()
	if !ok {
		return entity.User{}, entity.ErrUnauthenticated
	}
	if len(roles) > 0 && !slices.Contains(roles, user.Role) {
		return entity.User{}, fmt.Errorf("role %q: %w", user.Role, entity.ErrForbidden)
	}
	return user, nil
}

func (s *Session) Close() error {
	return s.storage.Close()
}

func (s *Session) replace(rec Record) {
	s.mu.Lock()
	s.rec = rec
	s.mu.Unlock()
}

// TokenExpired inspects the exp claim of a JWT without verifying it.
func TokenExpired(token string, now time.Time) bool {
	if token == "" {
		return true
	}
	claims := jwt.RegisteredClaims{}
	if _, _, err := jwt.NewParser().ParseUnverified(token, &claims); err != nil {
		return true
	}
	if claims.ExpiresAt == nil {
		return false
	}
	return !now.Before(claims.ExpiresAt.Time)
}
