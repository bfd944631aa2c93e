package ratelimit

import (
	"context"
	"sync"
	"time"
)

// MemoryLimiter is a fixed-window counter keyed by client address and held in
// process memory. Counters are lost on restart.
type MemoryLimiter struct {
	mu      sync.Mutex
	entries map[string]*entry
	max     int
	window  time.Duration
	now     Clock
}

type entry struct {
	count       int
	windowStart time.Time
}

type MemoryOption func(*MemoryLimiter)

// WithClock overrides the time source
func WithClock(c Clock) MemoryOption {
	return func(l *MemoryLimiter) { l.now = c }
}

func NewMemoryLimiter(max int, window time.Duration, opts ...MemoryOption) *MemoryLimiter {
	l := &MemoryLimiter{
		entries: make(map[string]*entry),
		max:     max,
		window:  window,
		now:     time.Now,
	}
	for _, opt := range opts {
		opt(l)
	}
	return l
}

// Allow implements Limiter. A denied request is not counted.
func (l *MemoryLimiter) Allow(_ context.Context, key string) (Decision, error) {
	now := l.now()

	l.mu.Lock()
	defer l.mu.Unlock()

	l.sweep(now)

	e, ok := l.entries[key]
	if !ok {
		e = &entry{windowStart: now}
		l.entries[key] = e
	} else if l.expired(e, now) {
		e.count = 0
		e.windowStart = now
	}

	dec := Decision{Limit: l.max, ResetAt: e.windowStart.Add(l.window)}
	if e.count >= l.max {
		dec.Count = e.count
		return dec, nil
	}

	e.count++
	dec.Count = e.count
	dec.Allowed = true
	return dec, nil
}

// Len returns the number of tracked addresses
func (l *MemoryLimiter) Len() int {
	l.mu.Lock()
	defer l.mu.Unlock()
	return len(l.entries)
}

// sweep evicts entries whose window has elapsed. Caller holds mu.
func (l *MemoryLimiter) sweep(now time.Time) {
	for k, e := range l.entries {
		if l.expired(e, now) {
			delete(l.entries, k)
		}
	}
}

func (l *MemoryLimiter) expired(e *entry, now time.Time) bool {
	return now.Sub(e.windowStart) > l.window
}
