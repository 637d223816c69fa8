package middleware

import (
	"context"
	"net/http"
	"strconv"
	"time"

	"github.com/labstack/echo/v4"
	"github.com/redis/go-redis/v9"

	"github.com/iliyamo/hotel-reservation/internal/config"
)

// tokenBucketScript refills and consumes one token atomically.  State is
// two hash fields per key: tokens and the last refill timestamp in
// microseconds.  Returns {allowed, remaining, retry_after_ms}.
var tokenBucketScript = redis.NewScript(`
local key      = KEYS[1]
local capacity = tonumber(ARGV[1])
local rate     = tonumber(ARGV[2])
local now_us   = tonumber(ARGV[3])
local ttl_sec  = tonumber(ARGV[4])

local state  = redis.call('HMGET', key, 'tokens', 'ts')
local tokens = tonumber(state[1])
local ts     = tonumber(state[2])
if tokens == nil then
  tokens = capacity
  ts = now_us
end

local elapsed = (now_us - ts) / 1000000.0
if elapsed > 0 then
  tokens = math.min(capacity, tokens + elapsed * rate)
  ts = now_us
end

local allowed = 0
local retry_ms = 0
if tokens >= 1 then
  allowed = 1
  tokens = tokens - 1
else
  retry_ms = math.ceil(((1 - tokens) / rate) * 1000)
end

redis.call('HMSET', key, 'tokens', tokens, 'ts', ts)
redis.call('EXPIRE', key, ttl_sec)
return {allowed, math.floor(tokens), retry_ms}
`)

// NewTokenBucket returns a distributed rate limiter backed by Redis.
// When rdb is nil or the config disables limiting, requests pass
// through untouched.  On Redis failure the limiter fails open.
func NewTokenBucket(cfg config.RateLimitConfig, rdb *redis.Client) echo.MiddlewareFunc {
	return func(next echo.HandlerFunc) echo.HandlerFunc {
		return func(c echo.Context) error {
			if rdb == nil || !cfg.Enabled {
				return next(c)
			}

			key := buildRateKey(c, cfg)
			ctx, cancel := context.WithTimeout(c.Request().Context(), 200*time.Millisecond)
			defer cancel()

			res, err := tokenBucketScript.Run(ctx, rdb, []string{key},
				cfg.Capacity,
				cfg.RefillRate,
				time.Now().UnixMicro(),
				int64(cfg.Window.Seconds()),
			).Result()
			if err != nil {
				// Fail open; a Redis hiccup must not break bookings.
				return next(c)
			}

			vals, ok := res.([]interface{})
			if !ok || len(vals) != 3 {
				return next(c)
			}
			allowed := asInt64(vals[0]) == 1
			remaining := asInt64(vals[1])
			retryMS := asInt64(vals[2])

			c.Response().Header().Set("X-RateLimit-Limit", strconv.FormatInt(cfg.Capacity, 10))
			c.Response().Header().Set("X-RateLimit-Remaining", strconv.FormatInt(remaining, 10))
			if !allowed {
				retry := time.Duration(retryMS) * time.Millisecond
				c.Response().Header().Set("Retry-After", strconv.Itoa(int(retry.Seconds())+1))
				return echo.NewHTTPError(http.StatusTooManyRequests, "rate limit exceeded")
			}
			return next(c)
		}
	}
}

// buildRateKey picks the bucket key.  "user" falls back to IP for
// anonymous requests, which is the normal case on the public routes.
func buildRateKey(c echo.Context, cfg config.RateLimitConfig) string {
	ident := c.RealIP()
	if cfg.KeyStrategy == "user" {
		if id := userID(c); id != "" {
			ident = "u:" + id
		}
	}
	return cfg.Prefix + ":" + ident
}

func asInt64(v interface{}) int64 {
	switch n := v.(type) {
	case int64:
		return n
	case int:
		return int64(n)
	case string:
		parsed, _ := strconv.ParseInt(n, 10, 64)
		return parsed
	default:
		return 0
	}
}
