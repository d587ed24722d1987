package ratelimit

import (
	"context"
	"sync"
	"time"
)

const sweepInterval = 60 * time.Second

// MemoryLimiter is a sliding-window limiter backed by an in-process
// map. Buckets live only as long as the process: counters reset on
// restart and are not shared between instances. That is acceptable
// because the limiter dampens abuse, it is not a hard guarantee.
type MemoryLimiter struct {
	mu        sync.Mutex
	cfg       Config
	buckets   map[string][]time.Time
	lastSweep time.Time

	// now is swapped in tests to control the clock.
	now func() time.Time
}

func NewMemoryLimiter(cfg Config) *MemoryLimiter {
	return &MemoryLimiter{
		cfg:     cfg,
		buckets: make(map[string][]time.Time),
		now:     time.Now,
	}
}

// Allow records a request for key if the trailing window still has
// room. When the window is full the decision carries the time until
// the oldest counted request falls out of the window.
func (l *MemoryLimiter) Allow(_ context.Context, key string) (Decision, error) {
	l.mu.Lock()
	defer l.mu.Unlock()

	now := l.now()
	cutoff := now.Add(-l.cfg.Window)

	valid := prune(l.buckets[key], cutoff)

	if len(valid) >= l.cfg.MaxRequests {
		l.buckets[key] = valid
		l.sweepLocked(now, cutoff)
		return Decision{
			Allowed:    false,
			Remaining:  0,
			RetryAfter: valid[0].Add(l.cfg.Window).Sub(now),
		}, nil
	}

	valid = append(valid, now)
	l.buckets[key] = valid
	l.sweepLocked(now, cutoff)

	return Decision{
		Allowed:   true,
		Remaining: l.cfg.MaxRequests - len(valid),
	}, nil
}

// sweepLocked drops buckets with no timestamps left in the window so
// the map does not grow with every caller ever seen. It runs at most
// once per sweepInterval; the hot path only pays a timestamp check.
func (l *MemoryLimiter) sweepLocked(now time.Time, cutoff time.Time) {
	if now.Sub(l.lastSweep) < sweepInterval {
		return
	}
	l.lastSweep = now

	for key, stamps := range l.buckets {
		if valid := prune(stamps, cutoff); len(valid) == 0 {
			delete(l.buckets, key)
		}
	}
}

// prune returns the timestamps newer than cutoff. Timestamps are
// appended in order, so the first kept index bounds the result.
func prune(stamps []time.Time, cutoff time.Time) []time.Time {
	i := 0
	for i < len(stamps) && !stamps[i].After(cutoff) {
		i++
	}
	return stamps[i:]
}
