package session

import (
	"context"
	"os"
	"testing"
	"time"

	"github.com/ds124wfegd/eventhive/config"
	"github.com/ds124wfegd/eventhive/pkg/redis"
	"github.com/google/uuid"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

// TestRedisStorage требует Redis, адрес берётся из EVENTHIVE_TEST_REDIS_ADDR.
func TestRedisStorage(t *testing.T) {
	addr := os.Getenv("EVENTHIVE_TEST_REDIS_ADDR")
	if addr == "" {
		t.Skip("EVENTHIVE_TEST_REDIS_ADDR not set")
	}
	ctx := context.Background()

	client, err := redis.NewRedisClient(ctx, &config.RedisConfig{Addr: addr, DialTimeout: time.Second})
	require.NoError(t, err)

	profile := "test-" + uuid.NewString()
	storage := NewRedisStorage(client, profile)
	defer storage.Close()
	defer storage.Delete(ctx)

	_, err = storage.Load(ctx)
	assert.ErrorIs(t, err, ErrNoSession)

	first := New(storage)
	require.NoError(t, first.Set(ctx, "tok", testUser))

	second := New(NewRedisStorage(client, profile))
	require.NoError(t, second.Init(ctx))
	user, ok := second.User()
	assert.True(t, ok)
	assert.Equal(t, testUser, user)

	require.NoError(t, first.Clear(ctx))
	assert.Equal(t, "", second.Token(ctx))
}
