package database

import (
	"os"

	"github.com/redis/go-redis/v9"
)

// RedisInstance returns a client for the configured redis, or nil when no
// REDIS_ADDR is set. Callers fall back to the in-process mutex in that case.
func RedisInstance() *redis.Client {
	addr := os.Getenv("REDIS_ADDR")
	if addr == "" {
		return nil
	}
	return redis.NewClient(&redis.Options{Addr: addr})
}
