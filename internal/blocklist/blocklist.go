// Package blocklist records revoked token ids (jti) in Redis. Entries
// carry a TTL equal to the access-token lifetime, so the list never grows
// past a token's natural life.
package blocklist

import (
	"context"
	"fmt"
	"time"

	"github.com/redis/go-redis/v9"

	"github.com/bookly-project/bookly/internal/errs"
)

// Store is the revocation check the token guard depends on.
type Store interface {
	Record(ctx context.Context, jti string) error
	IsRevoked(ctx context.Context, jti string) (bool, error)
}

type RedisStore struct {
	client *redis.Client
	ttl    time.Duration
}

// NewRedisStore wraps an existing client. ttl should be the access-token
// lifetime.
func NewRedisStore(client *redis.Client, ttl time.Duration) *RedisStore {
	return &RedisStore{client: client, ttl: ttl}
}

// Connect dials Redis and verifies the connection before returning a store.
func Connect(ctx context.Context, addr, password string, db int, ttl time.Duration) (*RedisStore, error) {
	client := redis.NewClient(&redis.Options{
		Addr:     addr,
		Password: password,
		DB:       db,
	})

	if err := client.Ping(ctx).Err(); err != nil {
		return nil, fmt.Errorf("failed to connect to redis: %w", err)
	}

	return NewRedisStore(client, ttl), nil
}

func (s *RedisStore) key(jti string) string {
	return "blocklist:" + jti
}

// Record inserts jti with the configured TTL. Re-recording an already
// revoked jti just refreshes the entry; the operation is idempotent.
func (s *RedisStore) Record(ctx context.Context, jti string) error {
	if err := s.client.Set(ctx, s.key(jti), "", s.ttl).Err(); err != nil {
		return fmt.Errorf("%w: %v", errs.ErrBlocklistUnavailable, err)
	}
	return nil
}

// IsRevoked reports whether jti is present. Store unavailability is
// returned as ErrBlocklistUnavailable, never as a revocation verdict.
func (s *RedisStore) IsRevoked(ctx context.Context, jti string) (bool, error) {
	n, err := s.client.Exists(ctx, s.key(jti)).Result()
	if err != nil {
		return false, fmt.Errorf("%w: %v", errs.ErrBlocklistUnavailable, err)
	}
	return n > 0, nil
}

func (s *RedisStore) Close() error {
	return s.client.Close()
}
