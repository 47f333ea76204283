package auth

import (
	"context"
	"fmt"
	"time"

	"github.com/go-redis/redis/v8"
	"github.com/google/uuid"
)

const sessionKeyPrefix = "session:"

// RedisSessionStore keeps sessions in redis so logins survive restarts.
type RedisSessionStore struct {
	Client *redis.Client
	TTL    time.Duration
}

func NewRedisSessionStore(client *redis.Client, ttl time.Duration) *RedisSessionStore {
	return &RedisSessionStore{Client: client, TTL: ttl}
}

func (s *RedisSessionStore) Create(ctx context.Context) (string, error) {
	token := uuid.New().String()
	if err := s.Client.Set(ctx, sessionKeyPrefix+token, "1", s.TTL).Err(); err != nil {
		return "", fmt.Errorf("failed to store session: %w", err)
	}
	return token, nil
}

func (s *RedisSessionStore) Validate(ctx context.Context, token string) (bool, error) {
	_, err := s.Client.Get(ctx, sessionKeyPrefix+token).Result()
	if err == redis.Nil {
		return false, nil
	}
	if err != nil {
		return false, fmt.Errorf("failed to look up session: %w", err)
	}
	return true, nil
}

func (s *RedisSessionStore) Delete(ctx context.Context, token string) error {
	return s.Client.Del(ctx, sessionKeyPrefix+token).Err()
}
