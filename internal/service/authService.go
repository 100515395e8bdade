package service

import (
	"context"
	"fmt"

	"github.com/ds124wfegd/eventhive/internal/entity"
	"github.com/sirupsen/logrus"
)

type authService struct {
	*base
}

func NewAuthService(b *base) AuthService {
	return &authService{base: b}
}

// SignIn replaces the session with the new token and user. Projections of a
// previous user are dropped.
func (s *authService) SignIn(ctx context.Context, email, password string, role entity.Role) (entity.User, error) {
	res, err := s.api.SignIn(ctx, email, password, role)
	if err != nil {
		return entity.User{}, err
	}
	if err := s.sess.Set(ctx, res.Token, res.User); err != nil {
		return entity.User{}, fmt.Errorf("failed to store session: %w", err)
	}
	s.state.Reset()

	logrus.WithFields(logrus.Fields{
		"user_id": res.User.ID,
		"role":    res.User.Role,
	}).Info("Signed in")
	return res.User, nil
}

// SignUp creates the account. If the remote side returns a token the user is
// signed in as well.
func (s *authService) SignUp(ctx context.Context, req entity.SignUpRequest) (entity.User, error) {
	if req.Role == "" {
		req.Role = entity.RoleStudent
	}
	res, err := s.api.SignUp(ctx, req)
	if err != nil {
		return entity.User{}, err
	}
	if res.Token != "" {
		if err := s.sess.Set(ctx, res.Token, res.User); err != nil {
			return entity.User{}, fmt.Errorf("failed to store session: %w", err)
		}
		s.state.Reset()
	}
	return res.User, nil
}

func (s *authService) Logout(ctx context.Context) error {
	s.state.Reset()
	return s.sess.Clear(ctx)
}

func (s *authService) CurrentUser() (entity.User, bool) {
	return s.sess.User()
}
