package config

import (
	"context"
	"crypto/tls"
	"time"

	"github.com/redis/go-redis/v9"
)

// NewRedisClient connects to Redis using the REDIS_* variables.  The
// response cache and the rate limiter are optional features: when the
// ping fails the function returns nil and the server runs without
// them.
func NewRedisClient() *redis.Client {
	client := redis.NewClient(&redis.Options{
		Addr:      redisAddr(),
		Password:  envStr("REDIS_PASSWORD", ""),
		DB:        envInt("REDIS_DB", 0),
		TLSConfig: redisTLS(),
	})

	ctx, cancel := context.WithTimeout(context.Background(), 2*time.Second)
	defer cancel()
	if err := client.Ping(ctx).Err(); err != nil {
		return nil
	}
	return client
}

// redisAddr prefers REDIS_HOST/REDIS_PORT, then REDIS_ADDR, then the
// local default.
func redisAddr() string {
	host := envStr("REDIS_HOST", "")
	port := envStr("REDIS_PORT", "")
	if host != "" && port != "" {
		return host + ":" + port
	}
	return envStr("REDIS_ADDR", "localhost:6379")
}

func redisTLS() *tls.Config {
	if !envBool("REDIS_TLS", false) {
		return nil
	}
	return &tls.Config{InsecureSkipVerify: true}
}
