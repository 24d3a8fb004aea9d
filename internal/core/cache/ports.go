package cache

import (
	"context"
	"errors"
	"time"
)

// ErrCacheMiss is returned by Get when the key does not exist or has expired.
var ErrCacheMiss = errors.New("cache miss")

// Cache holds short-lived opaque values, such as carrier access tokens, shared by every
// connector in the process.
type Cache interface {
	// Get returns ErrCacheMiss when the key is absent or expired.
	Get(ctx context.Context, key string) ([]byte, error)
	// Set stores value under key. A zero ttl keeps it until deleted.
	Set(ctx context.Context, key string, value []byte, ttl time.Duration) error
	Delete(ctx context.Context, key string) error
	Ping(ctx context.Context) error
	Close() error
}

// New returns a Redis-backed cache for redisURL, or a process-local one when redisURL is empty.
func New(redisURL string) (Cache, error) {
	if redisURL == "" {
		return NewMemoryCache(), nil
	}
	return NewRedisAdapter(redisURL)
}
