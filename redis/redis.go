package redis

import (
	"context"
	"log"
	"os"

	"github.com/redis/go-redis/v9"
)

// Client is nil when redis is not configured; callers fall back to
// synchronous behaviour in that case.
var Client *redis.Client

// Init connects to redis when REDIS_ADDR is set. The mail queue degrades
// to synchronous sends without it, so a missing address is not fatal.
func Init() {
	addr := os.Getenv("REDIS_ADDR")
	if addr == "" {
		log.Println("REDIS_ADDR not set, running without redis")
		return
	}

	client := redis.NewClient(&redis.Options{
		Addr: addr,
		DB:   0,
	})

	if _, err := client.Ping(context.Background()).Result(); err != nil {
		log.Printf("Failed to connect to redis at %s, running without it: %v", addr, err)
		return
	}

	Client = client
	log.Println("Connected to redis")
}
