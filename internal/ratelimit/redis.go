package ratelimit

import (
	"context"
	"fmt"
	"time"

	"github.com/redis/go-redis/v9"
)

const redisKeyPrefix = "rl:" // rl:{bucket}:{identifier}

// RedisStore counts hits in Redis so multiple instances share one budget.
// INCR plus a window-long expiry approximates the sliding window; the first
// hit sets the TTL, later hits ride it out.
type RedisStore struct {
	client *redis.Client
}

func NewRedisStore(client *redis.Client) *RedisStore {
	return &RedisStore{client: client}
}

func (s *RedisStore) Hit(ctx context.Context, key string, limit int, window time.Duration) (bool, time.Duration, error) {
	redisKey := redisKeyPrefix + key

	count, err := s.client.Incr(ctx, redisKey).Result()
	if err != nil {
		return false, 0, fmt.Errorf("rate limit incr: %w", err)
	}
	if count == 1 {
		if err := s.client.PExpire(ctx, redisKey, window).Err(); err != nil {
			return false, 0, fmt.Errorf("rate limit expire: %w", err)
		}
	}

	if count <= int64(limit) {
		return true, 0, nil
	}

	ttl, err := s.client.PTTL(ctx, redisKey).Result()
	if err != nil || ttl < 0 {
		ttl = window
	}
	return false, ttl, nil
}
