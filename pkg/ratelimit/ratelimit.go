package ratelimit

import (
	"context"
	"time"
)

// Decision is the outcome of a rate-limit check.
type Decision struct {
	Allowed    bool
	Remaining  int
	RetryAfter time.Duration
}

// Limiter counts events per key inside a trailing window. The backing
// store is an implementation detail: the in-memory limiter is
// per-process and best-effort, the Redis limiter shares counters
// across instances. Call sites depend only on this interface.
type Limiter interface {
	Allow(ctx context.Context, key string) (Decision, error)
}

// Config holds the per-route limiter settings.
type Config struct {
	Window      time.Duration
	MaxRequests int
}

// RetryAfterSeconds converts a retry delay to whole seconds, rounding
// up so a client that waits the advertised time is always admitted.
func RetryAfterSeconds(d time.Duration) int {
	if d <= 0 {
		return 0
	}
	secs := int(d / time.Second)
	if d%time.Second != 0 {
		secs++
	}
	return secs
}
