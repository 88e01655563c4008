package redisstore

import (
	"context"
	"fmt"
	"time"

	"github.com/redis/go-redis/v9"
)

// Limiter is a fixed-window request counter. The first hit in a window
// starts its expiry; every hit after the limit is refused until the key
// expires.
type Limiter struct {
	rdb    *redis.Client
	limit  int64
	window time.Duration
	prefix string
}

// NewLimiter allows limit hits per key every window.
func NewLimiter(rdb *redis.Client, limit int, window time.Duration) *Limiter {
	return &Limiter{rdb: rdb, limit: int64(limit), window: window, prefix: "ratelimit:"}
}

// allowScript counts a hit and sets the window expiry in one step. A key
// left without a TTL by an earlier failure gets one on its next hit.
var allowScript = redis.NewScript(`
local n = redis.call('INCR', KEYS[1])
if n == 1 or redis.call('PTTL', KEYS[1]) < 0 then
	redis.call('PEXPIRE', KEYS[1], ARGV[1])
end
return n
`)

// Allow records a hit for key and reports whether it is within the limit.
func (l *Limiter) Allow(ctx context.Context, key string) (bool, error) {
	n, err := allowScript.Run(ctx, l.rdb, []string{l.prefix + key}, l.window.Milliseconds()).Int64()
	if err != nil {
		return false, fmt.Errorf("redisstore.Limiter.Allow: %w", err)
	}
	return n <= l.limit, nil
}
