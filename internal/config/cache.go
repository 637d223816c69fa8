package config

// Response cache settings for the public hotel routes.  The hotel
// catalogue and per-day occupancy reports are read-heavy and tolerate a
// short staleness window, so successful GET responses are cached in
// Redis for a few seconds.

import (
	"strings"
	"time"
)

// CacheConfig controls the Redis response cache middleware.
//
// Fields:
//   Enabled – master switch
//   TTL     – lifetime of a cached response
//   Prefix  – Redis key namespace
//   Methods – HTTP methods eligible for caching (normally GET only)
//   MaxBody – largest response body, in bytes, worth caching
type CacheConfig struct {
	Enabled bool
	TTL     time.Duration
	Prefix  string
	Methods map[string]bool
	MaxBody int
}

// LoadCacheConfig reads CACHE_* variables with defaults tuned for the
// hotel catalogue endpoints.
func LoadCacheConfig() CacheConfig {
	return CacheConfig{
		Enabled: envBool("CACHE_ENABLED", true),
		TTL:     envDur("CACHE_TTL", 15*time.Second),
		Prefix:  envStr("CACHE_PREFIX", "cache:hotels"),
		Methods: parseMethods(envStr("CACHE_METHODS", "GET")),
		MaxBody: envInt("CACHE_MAX_BODY", 1<<20),
	}
}

func parseMethods(raw string) map[string]bool {
	out := make(map[string]bool)
	for _, m := range strings.Split(raw, ",") {
		m = strings.ToUpper(strings.TrimSpace(m))
		if m != "" {
			out[m] = true
		}
	}
	if len(out) == 0 {
		out["GET"] = true
	}
	return out
}
