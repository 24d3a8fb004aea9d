package cache

import (
	"context"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestMemoryCache_GetSetDelete(t *testing.T) {
	c := NewMemoryCache()
	ctx := context.Background()

	_, err := c.Get(ctx, "oauth:fedex:id")
	assert.ErrorIs(t, err, ErrCacheMiss)

	value := []byte("token")
	require.NoError(t, c.Set(ctx, "oauth:fedex:id", value, 0))
	value[0] = 'X'

	got, err := c.Get(ctx, "oauth:fedex:id")
	require.NoError(t, err)
	assert.Equal(t, []byte("token"), got)

	require.NoError(t, c.Delete(ctx, "oauth:fedex:id"))
	_, err = c.Get(ctx, "oauth:fedex:id")
	assert.ErrorIs(t, err, ErrCacheMiss)
}

func TestMemoryCache_Expiry(t *testing.T) {
	c := NewMemoryCache()
	now := time.Date(2024, 3, 1, 12, 0, 0, 0, time.UTC)
	c.now = func() time.Time { return now }
	ctx := context.Background()

	require.NoError(t, c.Set(ctx, "k", []byte("v"), time.Minute))

	now = now.Add(59 * time.Second)
	_, err := c.Get(ctx, "k")
	assert.NoError(t, err)

	now = now.Add(time.Second)
	_, err = c.Get(ctx, "k")
	assert.ErrorIs(t, err, ErrCacheMiss)
	assert.Empty(t, c.entries)
}

func TestNew(t *testing.T) {
	c, err := New("")
	require.NoError(t, err)
	assert.IsType(t, &MemoryCache{}, c)
	assert.NoError(t, c.Ping(context.Background()))

	c, err = New("redis://localhost:6379/0")
	require.NoError(t, err)
	assert.IsType(t, &RedisAdapter{}, c)
	assert.NoError(t, c.Close())

	_, err = New("invalid://url")
	assert.Error(t, err)
}
