package cache

import (
	"context"
	"errors"
	"fmt"
	"time"

	"github.com/redis/go-redis/v9"
)

// DefaultKeyPrefix namespaces every key this service writes into a shared Redis.
const DefaultKeyPrefix = "sku-tracker:"

// RedisOption customizes a RedisAdapter.
type RedisOption func(*RedisAdapter)

// WithKeyPrefix replaces DefaultKeyPrefix.
func WithKeyPrefix(prefix string) RedisOption {
	return func(r *RedisAdapter) {
		r.prefix = prefix
	}
}

// RedisAdapter implements Cache on top of a Redis instance that may be shared with other services.
type RedisAdapter struct {
	client *redis.Client
	prefix string
}

// NewRedisAdapter parses redisURL (redis://[:password@]host[:port][/database]) and builds the client.
// No connection is made until the first command.
func NewRedisAdapter(redisURL string, opts ...RedisOption) (*RedisAdapter, error) {
	parsed, err := redis.ParseURL(redisURL)
	if err != nil {
		return nil, fmt.Errorf("failed to parse Redis URL: %w", err)
	}

	r := &RedisAdapter{
		client: redis.NewClient(parsed),
		prefix: DefaultKeyPrefix,
	}
	for _, opt := range opts {
		opt(r)
	}
	return r, nil
}

func (r *RedisAdapter) key(k string) string {
	return r.prefix + k
}

func (r *RedisAdapter) Get(ctx context.Context, key string) ([]byte, error) {
	val, err := r.client.Get(ctx, r.key(key)).Bytes()
	switch {
	case errors.Is(err, redis.Nil):
		return nil, ErrCacheMiss
	case err != nil:
		return nil, fmt.Errorf("redis get %s: %w", key, err)
	}
	return val, nil
}

func (r *RedisAdapter) Set(ctx context.Context, key string, value []byte, ttl time.Duration) error {
	if err := r.client.Set(ctx, r.key(key), value, ttl).Err(); err != nil {
		return fmt.Errorf("redis set %s: %w", key, err)
	}
	return nil
}

func (r *RedisAdapter) Delete(ctx context.Context, key string) error {
	if err := r.client.Del(ctx, r.key(key)).Err(); err != nil {
		return fmt.Errorf("redis del %s: %w", key, err)
	}
	return nil
}

// Ping is used by the readiness probe.
func (r *RedisAdapter) Ping(ctx context.Context) error {
	if err := r.client.Ping(ctx).Err(); err != nil {
		return fmt.Errorf("redis ping failed: %w", err)
	}
	return nil
}

func (r *RedisAdapter) Close() error {
	return r.client.Close()
}

var _ Cache = (*RedisAdapter)(nil)
