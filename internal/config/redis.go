package config

import (
	"context"
	"log"
	"time"

	"github.com/redis/go-redis/v9"
)

// ConnectRedis connects to the lookup cache. A failed connection is not
// fatal: the service degrades to serving lookups straight from the database,
// so a nil client is returned instead of an error.
func ConnectRedis(cfg *Config) *redis.Client {
	client := redis.NewClient(&redis.Options{
		Addr:     cfg.Redis.Host + ":" + cfg.Redis.Port,
		Password: cfg.Redis.Password,
		DB:       cfg.Redis.DB,
	})

	ctx, cancel := context.WithTimeout(context.Background(), 5*time.Second)
	defer cancel()

	if err := client.Ping(ctx).Err(); err != nil {
		log.Printf("⚠️ Redis unavailable, lookup caching disabled: %v", err)
		return nil
	}

	log.Printf("✅ Redis connected successfully [%s:%s]", cfg.Redis.Host, cfg.Redis.Port)
	return client
}
