// internal/pkg/session/redis_store.go
package session

import (
	"context"
	"errors"
	"fmt"
	"time"

	"github.com/redis/go-redis/v9"
)

// RedisStore keeps the token in Redis under "session:<key>".
type RedisStore struct {
	client *redis.Client
	key    string
	ttl    time.Duration
}

// NewRedisStore builds a store; ttl of zero keeps the token until it is deleted.
func NewRedisStore(client *redis.Client, key string, ttl time.Duration) *RedisStore {
	if key == "" {
		key = DefaultTokenKey
	}
	return &RedisStore{client: client, key: key, ttl: ttl}
}

func (s *RedisStore) Load(ctx context.Context) (string, error) {
	token, err := s.client.Get(ctx, s.redisKey()).Result()
	if errors.Is(err, redis.Nil) {
		return "", nil
	}
	if err != nil {
		return "", fmt.Errorf("failed to read token from redis: %w", err)
	}
	return token, nil
}

func (s *RedisStore) Save(ctx context.Context, token string) error {
	if err := s.client.Set(ctx, s.redisKey(), token, s.ttl).Err(); err != nil {
		return fmt.Errorf("failed to store token in redis: %w", err)
	}
	return nil
}

func (s *RedisStore) Delete(ctx context.Context) error {
	if err := s.client.Del(ctx, s.redisKey()).Err(); err != nil {
		return fmt.Errorf("failed to delete token from redis: %w", err)
	}
	return nil
}

func (s *RedisStore) redisKey() string {
	return fmt.Sprintf("session:%s", s.key)
}
