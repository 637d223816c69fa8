package config

// Rate limit settings for the public hotel listing endpoints.  All values
// come from environment variables so operators can tune the token bucket
// without a rebuild.

import (
	"os"
	"strconv"
	"strings"
	"time"
)

// RateLimitConfig carries the token bucket parameters applied to the
// public route group.
//
// Fields:
//   Enabled    – master switch; when false the middleware is a no-op
//   Capacity   – bucket size (burst allowance)
//   RefillRate – tokens added per second
//   Window     – key expiry; idle buckets vanish after this period
//   KeyStrategy – "ip" or "user" (authenticated user id when present)
//   Prefix     – Redis key namespace
type RateLimitConfig struct {
	Enabled     bool
	Capacity    int64
	RefillRate  float64
	Window      time.Duration
	KeyStrategy string
	Prefix      string
}

// LoadRateLimitConfig reads RATE_LIMIT_* variables and falls back to
// defaults suited to anonymous traffic on the hotel catalogue.
func LoadRateLimitConfig() RateLimitConfig {
	return RateLimitConfig{
		Enabled:     envBool("RATE_LIMIT_ENABLED", true),
		Capacity:    int64(envInt("RATE_LIMIT_CAPACITY", 30)),
		RefillRate:  envFloat("RATE_LIMIT_REFILL_PER_SEC", 10),
		Window:      envDur("RATE_LIMIT_WINDOW", time.Minute),
		KeyStrategy: envStr("RATE_LIMIT_KEY", "ip"),
		Prefix:      envStr("RATE_LIMIT_PREFIX", "rl:hotels"),
	}
}

func envStr(key, def string) string {
	if v := strings.TrimSpace(os.Getenv(key)); v != "" {
		return v
	}
	return def
}

func envBool(key string, def bool) bool {
	v := strings.TrimSpace(os.Getenv(key))
	if v == "" {
		return def
	}
	b, err := strconv.ParseBool(v)
	if err != nil {
		return def
	}
	return b
}

func envInt(key string, def int) int {
	v := strings.TrimSpace(os.Getenv(key))
	if v == "" {
		return def
	}
	n, err := strconv.Atoi(v)
	if err != nil {
		return def
	}
	return n
}

func envFloat(key string, def float64) float64 {
	v := strings.TrimSpace(os.Getenv(key))
	if v == "" {
		return def
	}
	f, err := strconv.ParseFloat(v, 64)
	if err != nil {
		return def
	}
	return f
}

func envDur(key string, def time.Duration) time.Duration {
	v := strings.TrimSpace(os.Getenv(key))
	if v == "" {
		return def
	}
	d, err := time.ParseDuration(v)
	if err != nil {
		return def
	}
	return d
}
