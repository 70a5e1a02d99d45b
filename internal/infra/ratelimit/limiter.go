// Package ratelimit throttles secret guessing on the door-access endpoint.
package ratelimit

import (
	"context"
	"strconv"
	"sync"
	"time"

	"meeting-room-booking/internal/pkg/config"
	"meeting-room-booking/internal/pkg/errs"

	"github.com/redis/go-redis/v9"
)

var errUnexpectedScriptResult = errs.New("ratelimit: unexpected script result")

type Decision struct {
	Allowed    bool
	Limit      int
	Remaining  int64
	RetryAfter time.Duration
}

type Limiter interface {
	Allow(ctx context.Context, key string) (Decision, error)
}

var tokenBucketScript = redis.NewScript(`
	local key = KEYS[1]
	local now_ms = tonumber(ARGV[1])
	local capacity = tonumber(ARGV[2])
	local interval_ms = tonumber(ARGV[3])
	local ttl_seconds = tonumber(ARGV[4])

	local state = redis.call('HMGET', key, 'tokens', 'last_refill_ms')
	local tokens = tonumber(state[1])
	local last_refill = tonumber(state[2])

	if tokens == nil or last_refill == nil then
		tokens = capacity
		last_refill = now_ms
	end

	if interval_ms > 0 then
		local elapsed = math.max(0, now_ms - last_refill)
		local intervals = math.floor(elapsed / interval_ms)
		if intervals > 0 then
			tokens = math.min(capacity, tokens + intervals)
			last_refill = last_refill + (intervals * interval_ms)
		end
	end

	local allowed = 0
	local retry_after_ms = 0
	if tokens > 0 then
		allowed = 1
		tokens = tokens - 1
	else
		retry_after_ms = math.max(0, interval_ms - (now_ms - last_refill))
	end

	redis.call('HSET', key, 'tokens', tokens, 'last_refill_ms', last_refill)
	redis.call('EXPIRE', key, ttl_seconds)

	return { allowed, tokens, retry_after_ms }
`)

// RedisLimiter shares one bucket per key across every API instance.
type RedisLimiter struct {
	rdb *redis.Client
	cfg config.RateLimitConfig
	now func() time.Time
}

func NewRedisLimiter(rdb *redis.Client, cfg config.RateLimitConfig) *RedisLimiter {
	return &RedisLimiter{rdb: rdb, cfg: cfg, now: time.Now}
}

func (l *RedisLimiter) Allow(ctx context.Context, key string) (Decision, error) {
	args := []any{
		l.now().UnixMilli(),
		l.cfg.Capacity,
		l.cfg.RefillInterval.Milliseconds(),
		int64(l.cfg.TTL / time.Second),
	}
	vals, err := tokenBucketScript.Run(ctx, l.rdb, []string{l.cfg.Prefix + ":" + key}, args...).Result()
	if err != nil {
		return Decision{}, errs.Wrap(err, "ratelimit: script failed")
	}

	arr, ok := vals.([]any)
	if !ok || len(arr) != 3 {
		return Decision{}, errs.Wrapf(errUnexpectedScriptResult, "got %#v", vals)
	}
	return Decision{
		Allowed:    asInt64(arr[0]) == 1,
		Limit:      l.cfg.Capacity,
		Remaining:  asInt64(arr[1]),
		RetryAfter: time.Duration(asInt64(arr[2])) * time.Millisecond,
	}, nil
}

func asInt64(v any) int64 {
	switch t := v.(type) {
	case int64:
		return t
	case int:
		return int64(t)
	case string:
		if n, err := strconv.ParseInt(t, 10, 64); err == nil {
			return n
		}
	}
	return 0
}

// minSweepSize is the map size that forces an eviction pass before the
// periodic one is due.
const minSweepSize = 10_000

// MemoryLimiter is the single-process fallback used when Redis is disabled.
// Buckets idle for longer than the TTL are dropped, the same as the Redis
// key expiry: a pass runs once per TTL, or early when the map doubles past
// its size after the previous pass.
type MemoryLimiter struct {
	mu        sync.Mutex
	cfg       config.RateLimitConfig
	buckets   map[string]*bucket
	lastSweep time.Time
	sweepAt   int
	now       func() time.Time
}

type bucket struct {
	tokens     int
	lastRefill time.Time
	lastSeen   time.Time
}

func NewMemoryLimiter(cfg config.RateLimitConfig) *MemoryLimiter {
	return &MemoryLimiter{
		cfg:     cfg,
		buckets: make(map[string]*bucket),
		sweepAt: minSweepSize,
		now:     time.Now,
	}
}

func (l *MemoryLimiter) Allow(_ context.Context, key string) (Decision, error) {
	l.mu.Lock()
	defer l.mu.Unlock()

	now := l.now()
	l.evictIdle(now)

	b, ok := l.buckets[key]
	if !ok || l.idle(b, now) {
		b = &bucket{tokens: l.cfg.Capacity, lastRefill: now}
		l.buckets[key] = b
	}
	b.lastSeen = now

	if l.cfg.RefillInterval > 0 {
		if intervals := int(now.Sub(b.lastRefill) / l.cfg.RefillInterval); intervals > 0 {
			b.tokens = min(l.cfg.Capacity, b.tokens+intervals)
			b.lastRefill = b.lastRefill.Add(time.Duration(intervals) * l.cfg.RefillInterval)
		}
	}

	d := Decision{Limit: l.cfg.Capacity}
	if b.tokens > 0 {
		b.tokens--
		d.Allowed = true
	} else {
		d.RetryAfter = max(0, l.cfg.RefillInterval-now.Sub(b.lastRefill))
	}
	d.Remaining = int64(b.tokens)
	return d, nil
}

func (l *MemoryLimiter) idle(b *bucket, now time.Time) bool {
	return now.Sub(b.lastSeen) > l.cfg.TTL
}

// evictIdle must be called with mu held.
func (l *MemoryLimiter) evictIdle(now time.Time) {
	if now.Sub(l.lastSweep) < l.cfg.TTL && len(l.buckets) < l.sweepAt {
		return
	}
	l.lastSweep = now
	for key, b := range l.buckets {
		if l.idle(b, now) {
			delete(l.buckets, key)
		}
	}
	l.sweepAt = max(minSweepSize, 2*len(l.buckets))
}

// Len reports the number of live buckets.
func (l *MemoryLimiter) Len() int {
	l.mu.Lock()
	defer l.mu.Unlock()
	return len(l.buckets)
}
