package session

import (
	"context"
	"errors"
	"path/filepath"
	"testing"
	"time"

	"github.com/ds124wfegd/eventhive/internal/entity"
	"github.com/golang-jwt/jwt/v5"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

var testUser = entity.User{ID: "U1", Name: "Sample Student", Email: "student@example.com", Role: entity.RoleStudent}

func newSQLite(t *testing.T, path string) Storage {
	t.Helper()
	s, err := NewSQLiteStorage(context.Background(), path, "default")
	require.NoError(t, err)
	t.Cleanup(func() { s.Close() })
	return s
}

func signed(t *testing.T, claims jwt.MapClaims) string {
	t.Helper()
	token, err := jwt.NewWithClaims(jwt.SigningMethodHS256, claims).SignedString([]byte("secret"))
	require.NoError(t, err)
	return token
}

// TestStorageRoundTrip тестирует сохранение и удаление сессии во всех хранилищах
func TestStorageRoundTrip(t *testing.T) {
	storages := map[string]func(t *testing.T) Storage{
		"memory": func(t *testing.T) Storage { return NewMemoryStorage() },
		"sqlite": func(t *testing.T) Storage { return newSQLite(t, filepath.Join(t.TempDir(), "session.db")) },
	}

	for name, open := range storages {
		t.Run(name, func(t *testing.T) {
			ctx := context.Background()
			storage := open(t)

			_, err := storage.Load(ctx)
			assert.ErrorIs(t, err, ErrNoSession)

			rec := Record{Token: "tok-1", User: testUser}
			require.NoError(t, storage.Save(ctx, rec))
			got, err := storage.Load(ctx)
			require.NoError(t, err)
			assert.Equal(t, rec, got)

			rec.Token = "tok-2"
			require.NoError(t, storage.Save(ctx, rec))
			got, err = storage.Load(ctx)
			require.NoError(t, err)
			assert.Equal(t, "tok-2", got.Token)

			require.NoError(t, storage.Delete(ctx))
			_, err = storage.Load(ctx)
			assert.ErrorIs(t, err, ErrNoSession)
		})
	}
}

func TestSQLiteProfilesAreSeparate(t *testing.T) {
	ctx := context.Background()
	path := filepath.Join(t.TempDir(), "nested", "session.db")

	work, err := NewSQLiteStorage(ctx, path, "work")
	require.NoError(t, err)
	defer work.Close()
	home := newSQLite(t, path)

	require.NoError(t, work.Save(ctx, Record{Token: "w", User: testUser}))

	_, err = home.Load(ctx)
	assert.ErrorIs(t, err, ErrNoSession)
}

// TestSessionLifecycle тестирует установку и очистку сессии
func TestSessionLifecycle(t *testing.T) {
	ctx := context.Background()
	s := New(NewMemoryStorage())
	require.NoError(t, s.Init(ctx))

	_, ok := s.User()
	assert.False(t, ok)
	assert.Equal(t, "", s.Token(ctx))

	require.NoError(t, s.Set(ctx, "  tok  ", testUser))
	user, ok := s.User()
	assert.True(t, ok)
	assert.Equal(t, testUser, user)
	assert.Equal(t, "tok", s.Token(ctx))

	require.NoError(t, s.Clear(ctx))
	assert.False(t, s.Authenticated())
	assert.Equal(t, "", s.Token(ctx))
}

func TestSessionWithoutUserIDIsSignedOut(t *testing.T) {
	s := New(NewMemoryStorage())
	require.NoError(t, s.Set(context.Background(), "tok", entity.User{Name: "nobody"}))
	assert.False(t, s.Authenticated())
}

// TestTokenReadAtCallTime тестирует чтение токена, сохранённого другим процессом
func TestTokenReadAtCallTime(t *testing.T) {
	ctx := context.Background()
	path := filepath.Join(t.TempDir(), "session.db")

	first := New(newSQLite(t, path))
	second := New(newSQLite(t, path))
	require.NoError(t, second.Init(ctx))
	assert.False(t, second.Authenticated())

	require.NoError(t, first.Set(ctx, "shared", testUser))

	assert.Equal(t, "shared", second.Token(ctx))
	assert.True(t, second.Authenticated())

	require.NoError(t, first.Clear(ctx))
	assert.Equal(t, "", second.Token(ctx))
	assert.False(t, second.Authenticated())
}

type brokenStorage struct {
	Storage
}

func (brokenStorage) Load(ctx context.Context) (Record, error) {
	return Record{}, errors.New("disk on fire")
}

func TestTokenFallsBackToCache(t *testing.T) {
	ctx := context.Background()
	s := New(brokenStorage{Storage: NewMemoryStorage()})
	require.NoError(t, s.Set(ctx, "cached", testUser))

	assert.Equal(t, "cached", s.Token(ctx))
	assert.Error(t, s.Init(ctx))
}

// TestTokenExpired тестирует проверку срока действия токена
func TestTokenExpired(t *testing.T) {
	now := time.Date(2024, 8, 1, 12, 0, 0, 0, time.UTC)

	tests := []struct {
		name  string
		token string
		want  bool
	}{
		{name: "empty", token: "", want: true},
		{name: "garbage", token: "not-a-jwt", want: true},
		{name: "no exp", token: signed(t, jwt.MapClaims{"sub": "U1"}), want: false},
		{name: "future exp", token: signed(t, jwt.MapClaims{"exp": now.Add(time.Hour).Unix()}), want: false},
		{name: "past exp", token: signed(t, jwt.MapClaims{"exp": now.Add(-time.Minute).Unix()}), want: true},
		{name: "exp now", token: signed(t, jwt.MapClaims{"exp": now.Unix()}), want: true},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			assert.Equal(t, tt.want, TokenExpired(tt.token, now))
		})
	}

	s := New(NewMemoryStorage())
	require.NoError(t, s.Set(context.Background(), signed(t, jwt.MapClaims{"exp": now.Add(-time.Hour).Unix()}), testUser))
	assert.True(t, s.Expired(now))
}

// TestRequireRole тестирует проверку роли
func TestRequireRole(t *testing.T) {
	ctx := context.Background()
	s := New(NewMemoryStorage())

	_, err := s.RequireRole()
	assert.ErrorIs(t, err, entity.ErrUnauthenticated)

	require.NoError(t, s.Set(ctx, "tok", testUser))

	user, err := s.RequireRole()
	require.NoError(t, err)
	assert.Equal(t, testUser.ID, user.ID)

	_, err = s.RequireRole(entity.RoleStudent, entity.RoleAdmin)
	assert.NoError(t, err)

	_, err = s.RequireRole(entity.RoleAdmin)
	assert.ErrorIs(t, err, entity.ErrForbidden)
	assert.Equal(t, entity.KindForbidden, entity.KindOf(err))
}
