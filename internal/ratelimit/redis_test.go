package ratelimit

import (
	"context"
	"testing"
	"time"

	"github.com/alicebob/miniredis/v2"
	"github.com/redis/go-redis/v9"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func newTestRedisStore(t *testing.T) (*RedisStore, *miniredis.Miniredis) {
	t.Helper()
	mr := miniredis.RunT(t)
	client := redis.NewClient(&redis.Options{Addr: mr.Addr()})
	t.Cleanup(func() { client.Close() })
	return NewRedisStore(client), mr
}

func TestRedisStoreHit(t *testing.T) {
	ctx := context.Background()

	t.Run("allows up to the limit", func(t *testing.T) {
		s, _ := newTestRedisStore(t)
		for i := 0; i < 3; i++ {
			allowed, _, err := s.Hit(ctx, "api:1.2.3.4", 3, time.Minute)
			require.NoError(t, err)
			assert.True(t, allowed)
		}

		allowed, retry, err := s.Hit(ctx, "api:1.2.3.4", 3, time.Minute)
		require.NoError(t, err)
		assert.False(t, allowed)
		assert.Greater(t, retry, time.Duration(0))
	})

	t.Run("counter expires with the window", func(t *testing.T) {
		s, mr := newTestRedisStore(t)

		_, _, err := s.Hit(ctx, "k", 1, time.Minute)
		require.NoError(t, err)

		allowed, _, err := s.Hit(ctx, "k", 1, time.Minute)
		require.NoError(t, err)
		assert.False(t, allowed)

		mr.FastForward(61 * time.Second)

		allowed, _, err = s.Hit(ctx, "k", 1, time.Minute)
		require.NoError(t, err)
		assert.True(t, allowed)
	})

	t.Run("store failure surfaces as error", func(t *testing.T) {
		s, mr := newTestRedisStore(t)
		mr.Close()

		_, _, err := s.Hit(ctx, "k", 1, time.Minute)
		assert.Error(t, err)
	})
}
