package session

import (
	"context"
	"encoding/json"
	"fmt"

	"github.com/redis/go-redis/v9"
)

type redisStorage struct {
	client *redis.Client
	key    string
}

// NewRedisStorage keeps the session in a redis hash so several hosts can
// share one sign-in.
func NewRedisStorage(client *redis.Client, profile string) Storage {
	return &redisStorage{client: client, key: "eventhive:session:" + profile}
}

func (s *redisStorage) Load(ctx context.Context) (Record, error) {
	values, err := s.client.HGetAll(ctx, s.key).Result()
	if err != nil {
		return Record{}, fmt.Errorf("failed to read session: %w", err)
	}
	return decodeRecord(values)
}

func (s *redisStorage) Save(ctx context.Context, rec Record) error {
	user, err := json.Marshal(rec.User)
	if err != nil {
		return fmt.Errorf("failed to marshal user: %w", err)
	}

	// token and user land in one MULTI so readers never see half a session
	_, err = s.client.TxPipelined(ctx, func(pipe redis.Pipeliner) error {
		pipe.Del(ctx, s.key)
		pipe.HSet(ctx, s.key, keyToken, rec.Token, keyUser, string(user))
		return nil
	})
	if err != nil {
		return fmt.Errorf("failed to save session: %w", err)
	}
	return nil
}

func (s *redisStorage) Delete(ctx context.Context) error {
	return s.client.Del(ctx, s.key).Err()
}

func (s *redisStorage) Close() error {
	return s.client.Close()
}
