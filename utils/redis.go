package utils

import (
	"context"
	"log"
	"strings"

	"github.com/nur922184/server-workbd/config"
	redis "github.com/redis/go-redis/v9"
)

// RedisClient is an optional shared Redis client used for cross-process
// coordination (the income distributor's lease lock). Nil when no Redis
// address is configured.
var RedisClient *redis.Client

// InitRedis connects the shared client. Startup does not fail on Redis
// errors; callers fall back to process-local guards.
func InitRedis() {
	addr := strings.TrimSpace(config.Get().RedisAddr)
	if addr == "" {
		return
	}
	opts := &redis.Options{Addr: addr}
	if p := config.Get().RedisPass; p != "" {
		opts.Password = p
	}
	rc := redis.NewClient(opts)
	if err := rc.Ping(context.Background()).Err(); err != nil {
		log.Printf("[redis] ping failed, continuing without redis: %v", err)
		return
	}
	RedisClient = rc
}
