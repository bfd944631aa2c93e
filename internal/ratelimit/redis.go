package ratelimit

import (
	"context"
	"fmt"
	"strings"
	"time"

	"github.com/redis/go-redis/v9"
)

// The counter key expires with the window, so Redis does the sweep for us.
// Returns {count, pttl, allowed}.
var fixedWindowScript = redis.NewScript(`
local current = tonumber(redis.call('GET', KEYS[1]) or '0')
if current >= tonumber(ARGV[1]) then
  return {current, redis.call('PTTL', KEYS[1]), 0}
end
current = redis.call('INCR', KEYS[1])
if current == 1 then
  redis.call('PEXPIRE', KEYS[1], ARGV[2])
end
return {current, redis.call('PTTL', KEYS[1]), 1}
`)

// RedisLimiter shares fixed-window counters between server instances
type RedisLimiter struct {
	rdb    redis.UniversalClient
	prefix string
	max    int
	window time.Duration
	now    Clock
}

type RedisOption func(*RedisLimiter)

func WithPrefix(prefix string) RedisOption {
	return func(l *RedisLimiter) { l.prefix = strings.Trim(prefix, ":") }
}

func WithRedisClock(c Clock) RedisOption {
	return func(l *RedisLimiter) { l.now = c }
}

func NewRedisLimiter(rdb redis.UniversalClient, max int, window time.Duration, opts ...RedisOption) *RedisLimiter {
	l := &RedisLimiter{
		rdb:    rdb,
		prefix: "ratelimit:contact",
		max:    max,
		window: window,
		now:    time.Now,
	}
	for _, opt := range opts {
		opt(l)
	}
	return l
}

// Allow implements Limiter
func (l *RedisLimiter) Allow(ctx context.Context, key string) (Decision, error) {
	res, err := fixedWindowScript.Run(ctx, l.rdb,
		[]string{l.prefix + ":" + key},
		l.max, l.window.Milliseconds(),
	).Int64Slice()
	if err != nil {
		return Decision{}, fmt.Errorf("rate limit script: %w", err)
	}
	if len(res) != 3 {
		return Decision{}, fmt.Errorf("rate limit script: unexpected reply %v", res)
	}

	ttl := time.Duration(res[1]) * time.Millisecond
	if ttl < 0 {
		ttl = l.window
	}

	return Decision{
		Allowed: res[2] == 1,
		Count:   int(res[0]),
		Limit:   l.max,
		ResetAt: l.now().Add(ttl),
	}, nil
}
