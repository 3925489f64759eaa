// Package ratelimit is a best-effort request limiter behind an explicit,
// injected counter store: in-process for single-instance deployments, Redis
// when several instances share the budget. Concurrent hits on the same key
// may slightly overshoot the limit; that slack is accepted, not a bug.
package ratelimit

import (
	"context"
	"log"
	"sync"
	"time"

	"github.com/robfig/cron/v3"
)

// Store counts a hit against a key and reports whether it stays within
// limit hits per window, plus how long the caller should back off when it
// does not.
type Store interface {
	Hit(ctx context.Context, key string, limit int, window time.Duration) (allowed bool, retryAfter time.Duration, err error)
}

// MemoryStore keeps per-key hit timestamps in process memory and trims them
// against a sliding window. Stale keys are removed by Sweep, which
// StartSweeper schedules explicitly rather than piggybacking on request
// traffic.
type MemoryStore struct {
	mu     sync.Mutex
	hits   map[string][]time.Time
	maxAge time.Duration
	now    func() time.Time
}

func NewMemoryStore() *MemoryStore {
	return &MemoryStore{
		hits: make(map[string][]time.Time),
		now:  time.Now,
	}
}

func (s *MemoryStore) Hit(_ context.Context, key string, limit int, window time.Duration) (bool, time.Duration, error) {
	now := s.now()
	windowStart := now.Add(-window)

	s.mu.Lock()
	defer s.mu.Unlock()

	if window > s.maxAge {
		s.maxAge = window
	}

	recent := s.hits[key][:0]
	for _, t := range s.hits[key] {
		if t.After(windowStart) {
			recent = append(recent, t)
		}
	}

	if len(recent) >= limit {
		s.hits[key] = recent
		retry := window - now.Sub(recent[0])
		if retry < time.Second {
			retry = time.Second
		}
		return false, retry, nil
	}

	s.hits[key] = append(recent, now)
	return true, 0, nil
}

// Sweep drops keys whose every hit has aged out of the largest window seen.
func (s *MemoryStore) Sweep() {
	s.mu.Lock()
	defer s.mu.Unlock()

	cutoff := s.now().Add(-s.maxAge)
	for key, times := range s.hits {
		live := times[:0]
		for _, t := range times {
			if t.After(cutoff) {
				live = append(live, t)
			}
		}
		if len(live) == 0 {
			delete(s.hits, key)
		} else {
			s.hits[key] = live
		}
	}
}

// StartSweeper runs Sweep on a fixed schedule and returns the cron handle
// so the caller owns the lifecycle.
func (s *MemoryStore) StartSweeper(spec string) (*cron.Cron, error) {
	c := cron.New()
	if _, err := c.AddFunc(spec, s.Sweep); err != nil {
		return nil, err
	}
	c.Start()
	log.Printf("rate limit sweeper started (%s)", spec)
	return c, nil
}
