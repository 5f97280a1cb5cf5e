package service

import (
	"context"
	"fmt"
	"time"

	"github.com/redis/go-redis/v9"
	"github.com/rs/zerolog/log"
)

// quotaScript is a Lua script for sliding window rate limiting
var quotaScript = redis.NewScript(`
local key = KEYS[1]
local now = tonumber(ARGV[1])
local window = tonumber(ARGV[2])
local limit = tonumber(ARGV[3])

local windowStart = now - window

redis.call('ZREMRANGEBYSCORE', key, '-inf', windowStart)

local count = redis.call('ZCARD', key)

if count >= limit then
    local oldest = redis.call('ZRANGE', key, 0, 0, 'WITHSCORES')
    local resetAt = 0
    if #oldest >= 2 then
        resetAt = tonumber(oldest[2]) + window
    else
        resetAt = now + window
    end
    return {0, resetAt}
end

redis.call('ZADD', key, now, now .. '-' .. math.random())
redis.call('EXPIRE', key, window + 10)

local resetAt = now + window
return {1, resetAt}
`)

// QuotaLimiter enforces a fixed request quota per rolling time window,
// keyed by caller session. It is constructed once at process start. The
// window state lives in Redis, so the quota holds across instances; a Redis
// failure denies the request rather than letting the quota slip.
type QuotaLimiter struct {
	client *redis.Client
	limit  int
	window time.Duration
	prefix string
}

func NewQuotaLimiter(client *redis.Client, prefix string, limit int, window time.Duration) *QuotaLimiter {
	return &QuotaLimiter{
		client: client,
		limit:  limit,
		window: window,
		prefix: prefix,
	}
}

// TryConsume reports whether the caller identified by key may make another
// request, and when the window resets if not.
func (l *QuotaLimiter) TryConsume(ctx context.Context, key string) (allowed bool, resetAt time.Time) {
	now := time.Now().Unix()
	fullKey := fmt.Sprintf("%s:%s", l.prefix, key)

	result, err := quotaScript.Run(
		ctx,
		l.client,
		[]string{fullKey},
		now,
		int64(l.window.Seconds()),
		l.limit,
	).Int64Slice()

	if err != nil {
		log.Warn().
			Err(err).
			Str("key", key).
			Msg("quota check failed, denying request for safety")
		return false, time.Now().Add(l.window)
	}

	if len(result) != 2 {
		log.Warn().Str("key", key).Msg("unexpected quota result, denying request for safety")
		return false, time.Now().Add(l.window)
	}

	return result[0] == 1, time.Unix(result[1], 0)
}
