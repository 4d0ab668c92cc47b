package session

import (
	"context"
	"errors"
	"fmt"
	"time"

	"github.com/redis/go-redis/v9"

	"campus/pkg/sentinel"
)

const (
	redisKeyPrefix = "campus:session:"

	// defaultTTL bounds how long abandoned browser sessions linger in Redis.
	// Tokens are re-written on every login, refreshing the clock.
	defaultTTL = 30 * 24 * time.Hour
)

// RedisStore persists the session key space in Redis so sessions survive
// gateway restarts and are shared between replicas.
type RedisStore struct {
	client redis.Cmdable
	ttl    time.Duration
}

// RedisStoreOption configures the RedisStore.
type RedisStoreOption func(*RedisStore)

// WithTTL overrides the retention applied to every key.
func WithTTL(ttl time.Duration) RedisStoreOption {
	return func(s *RedisStore) {
		s.ttl = ttl
	}
}

// NewRedisStore constructs a Redis-backed session store.
func NewRedisStore(client redis.Cmdable, opts ...RedisStoreOption) *RedisStore {
	s := &RedisStore{client: client, ttl: defaultTTL}
	for _, opt := range opts {
		opt(s)
	}
	return s
}

func (s *RedisStore) Get(ctx context.Context, key Key) (string, error) {
	value, err := s.client.Get(ctx, redisKeyPrefix+string(key)).Result()
	if errors.Is(err, redis.Nil) {
		return "", fmt.Errorf("session key %q: %w", key, sentinel.ErrNotFound)
	}
	if err != nil {
		return "", fmt.Errorf("redis get %q: %w", key, err)
	}
	return value, nil
}

func (s *RedisStore) Set(ctx context.Context, key Key, value string) error {
	if err := s.client.Set(ctx, redisKeyPrefix+string(key), value, s.ttl).Err(); err != nil {
		return fmt.Errorf("redis set %q: %w", key, err)
	}
	return nil
}

func (s *RedisStore) Remove(ctx context.Context, key Key) error {
	if err := s.client.Del(ctx, redisKeyPrefix+string(key)).Err(); err != nil {
		return fmt.Errorf("redis del %q: %w", key, err)
	}
	return nil
}
