package config

import (
	"strings"
	"time"
)

// CacheConfig drives the Redis response cache in front of the public
// browse endpoints.  Show and package listings change rarely compared
// to how often guests load them, so short-lived cached copies absorb
// most of that traffic.
type CacheConfig struct {
	Enabled      bool
	Methods      map[string]bool // HTTP methods worth caching
	TTL          time.Duration   // entry lifetime
	KeyStrategy  string          // which request parts form the key
	Prefix       string          // Redis key namespace
	MaxBodyBytes int             // bodies above this are not cached
}

// LoadCacheConfig reads the CACHE_* variables with defaults tuned for
// the public listings.
func LoadCacheConfig() CacheConfig {
	return CacheConfig{
		Enabled:      envBool("CACHE_ENABLED", true),
		Methods:      methodSet(envStr("CACHE_METHODS", "GET")),
		TTL:          envDur("CACHE_TTL", 30*time.Second),
		KeyStrategy:  envStr("CACHE_KEY_STRATEGY", "route_query"),
		Prefix:       envStr("CACHE_PREFIX", "cache"),
		MaxBodyBytes: envInt("CACHE_MAX_BODY_BYTES", 1<<20),
	}
}

func methodSet(s string) map[string]bool {
	m := make(map[string]bool)
	for _, p := range strings.Split(s, ",") {
		if p = strings.ToUpper(strings.TrimSpace(p)); p != "" {
			m[p] = true
		}
	}
	return m
}
