package service

import (
	"context"
	"fmt"
	"testing"

	"github.com/ds124wfegd/eventhive/config"
	"github.com/ds124wfegd/eventhive/internal/client"
	"github.com/ds124wfegd/eventhive/internal/entity"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/mock"
	"github.com/stretchr/testify/require"
)

func TestSignIn(t *testing.T) {
	f := newFixture(t, entity.User{}, config.WorkflowConfig{})
	f.base.state.Events.Load(f.base.state.Events.Mark(), []entity.Event{{ID: "E1"}})
	f.api.On("SignIn", mock.Anything, "admin@example.com", "secret", entity.RoleAdmin).
		Return(client.AuthResult{Token: "jwt", User: admin}, nil).Once()

	user, err := f.svc.Auth.SignIn(context.Background(), "admin@example.com", "secret", entity.RoleAdmin)

	require.NoError(t, err)
	assert.Equal(t, admin, user)
	current, ok := f.svc.Auth.CurrentUser()
	assert.True(t, ok)
	assert.Equal(t, admin.ID, current.ID)
	assert.Equal(t, "jwt", f.sess.Token(context.Background()))
	assert.False(t, isLoaded(&f.base.state.Events), "previous user's projections are dropped")
}

func TestSignInFailureKeepsSignedOut(t *testing.T) {
	f := newFixture(t, entity.User{}, config.WorkflowConfig{})
	f.api.On("SignIn", mock.Anything, mock.Anything, mock.Anything, mock.Anything).
		Return(client.AuthResult{}, fmt.Errorf("401: %w", entity.ErrUnauthenticated)).Once()

	_, err := f.svc.Auth.SignIn(context.Background(), "a@b.c", "wrong", entity.RoleStudent)

	assert.Equal(t, entity.KindUnauthenticated, entity.KindOf(err))
	assert.False(t, f.sess.Authenticated())
}

func TestSignUp(t *testing.T) {
	tests := []struct {
		name       string
		result     client.AuthResult
		wantSigned bool
	}{
		{name: "token returned", result: client.AuthResult{Token: "jwt", User: student}, wantSigned: true},
		{name: "no token", result: client.AuthResult{User: student}},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			f := newFixture(t, entity.User{}, config.WorkflowConfig{})
			req := entity.SignUpRequest{Name: "Sample", Email: "s@example.com", Password: "pw"}
			want := req
			want.Role = entity.RoleStudent
			f.api.On("SignUp", mock.Anything, want).Return(tt.result, nil).Once()

			_, err := f.svc.Auth.SignUp(context.Background(), req)

			require.NoError(t, err)
			assert.Equal(t, tt.wantSigned, f.sess.Authenticated())
		})
	}
}

func TestLogout(t *testing.T) {
	f := newFixture(t, student, config.WorkflowConfig{})
	f.loadRegistrations(t, entity.Registration{ID: "R1", EventID: "E1"})

	require.NoError(t, f.svc.Auth.Logout(context.Background()))

	assert.False(t, f.sess.Authenticated())
	assert.False(t, f.svc.Registrations.IsRegistered("E1"))
	assert.Equal(t, "", f.sess.Token(context.Background()))
}
