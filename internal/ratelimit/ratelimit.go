// Package ratelimit bounds how many contact submissions a single client
// address may make inside a fixed window.
//
// MemoryLimiter keeps its counters in the process and is the default.
// RedisLimiter shares the same window semantics across instances.
package ratelimit

import (
	"context"
	"time"
)

// Decision is the outcome of a single Allow call
type Decision struct {
	Allowed bool
	// Count is the number of requests counted in the current window
	Count int
	Limit int
	// ResetAt is when the current window ends
	ResetAt time.Time
}

// Remaining returns how many more requests fit in the window
func (d Decision) Remaining() int {
	if r := d.Limit - d.Count; r > 0 {
		return r
	}
	return 0
}

// RetryAfter returns the time left until the window resets, relative to now
func (d Decision) RetryAfter(now time.Time) time.Duration {
	if wait := d.ResetAt.Sub(now); wait > 0 {
		return wait
	}
	return 0
}

// Limiter decides whether a request identified by key may proceed.
// Implementations record the request as a side effect.
type Limiter interface {
	Allow(ctx context.Context, key string) (Decision, error)
}

// Clock returns the current time
type Clock func() time.Time
