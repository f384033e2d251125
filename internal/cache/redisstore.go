package cache

import (
	"context"
	"time"

	"github.com/redis/go-redis/v9"
	"github.com/rs/zerolog/log"
)

// RedisStore is the optional external cache substrate (spec.md §4.E /
// §6 "one optional handle"). Functionally identical to MemStore's contract:
// read errors degrade to a miss, write errors are logged and swallowed.
type RedisStore struct {
	client *redis.Client
}

// NewRedisStore wraps an already-configured go-redis client.
func NewRedisStore(client *redis.Client) *RedisStore {
	return &RedisStore{client: client}
}

// Get returns the raw bytes for key, or a miss on any Redis error (including
// redis.Nil for an absent key).
func (s *RedisStore) Get(ctx context.Context, key string) ([]byte, bool) {
	value, err := s.client.Get(ctx, key).Bytes()
	if err != nil {
		if err != redis.Nil {
			log.Warn().Err(err).Str("key", key).Msg("cache: redis read failed, treating as miss")
		}
		return nil, false
	}
	return value, true
}

// Set stores value under key with the given TTL; failures are logged and
// swallowed so a degraded cache never fails the request.
func (s *RedisStore) Set(ctx context.Context, key string, value []byte, ttl time.Duration) {
	if err := s.client.Set(ctx, key, value, ttl).Err(); err != nil {
		log.Warn().Err(err).Str("key", key).Msg("cache: redis write failed")
	}
}
