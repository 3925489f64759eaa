package ratelimit

import (
	"context"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestMemoryStoreHit(t *testing.T) {
	ctx := context.Background()

	t.Run("allows up to the limit", func(t *testing.T) {
		s := NewMemoryStore()
		for i := 0; i < 3; i++ {
			allowed, _, err := s.Hit(ctx, "k", 3, time.Minute)
			require.NoError(t, err)
			assert.True(t, allowed, "hit %d should be allowed", i+1)
		}

		allowed, retry, err := s.Hit(ctx, "k", 3, time.Minute)
		require.NoError(t, err)
		assert.False(t, allowed)
		assert.GreaterOrEqual(t, retry, time.Second)
		assert.LessOrEqual(t, retry, time.Minute)
	})

	t.Run("keys are independent", func(t *testing.T) {
		s := NewMemoryStore()
		_, _, err := s.Hit(ctx, "a", 1, time.Minute)
		require.NoError(t, err)

		allowed, _, err := s.Hit(ctx, "b", 1, time.Minute)
		require.NoError(t, err)
		assert.True(t, allowed)
	})

	t.Run("window slides", func(t *testing.T) {
		s := NewMemoryStore()
		now := time.Now()
		s.now = func() time.Time { return now }

		allowed, _, err := s.Hit(ctx, "k", 1, time.Minute)
		require.NoError(t, err)
		assert.True(t, allowed)

		allowed, _, err = s.Hit(ctx, "k", 1, time.Minute)
		require.NoError(t, err)
		assert.False(t, allowed)

		now = now.Add(61 * time.Second)
		allowed, _, err = s.Hit(ctx, "k", 1, time.Minute)
		require.NoError(t, err)
		assert.True(t, allowed)
	})
}

func TestMemoryStoreSweep(t *testing.T) {
	ctx := context.Background()
	s := NewMemoryStore()
	now := time.Now()
	s.now = func() time.Time { return now }

	_, _, err := s.Hit(ctx, "stale", 5, time.Minute)
	require.NoError(t, err)

	now = now.Add(2 * time.Minute)
	_, _, err = s.Hit(ctx, "fresh", 5, time.Minute)
	require.NoError(t, err)

	s.Sweep()

	s.mu.Lock()
	defer s.mu.Unlock()
	assert.NotContains(t, s.hits, "stale")
	assert.Contains(t, s.hits, "fresh")
}
