package config

import (
	"context"
	"log"
	"time"

	"github.com/redis/go-redis/v9"
)

// NewRedisClient connects to REDIS_ADDR. It returns nil when Redis is not
// configured, caching is disabled, or the server does not answer a ping;
// callers then run without the search cache.
func NewRedisClient(cfg *Config) *redis.Client {
	if !cfg.CacheEnabled || cfg.RedisAddr == "" {
		return nil
	}
	client := redis.NewClient(&redis.Options{
		Addr:     cfg.RedisAddr,
		Password: cfg.RedisPassword,
		DB:       cfg.RedisDB,
	})

	ctx, cancel := context.WithTimeout(context.Background(), 2*time.Second)
	defer cancel()
	if err := client.Ping(ctx).Err(); err != nil {
		log.Printf("level=warn msg=redis unavailable, search cache disabled addr=%s err=%v", cfg.RedisAddr, err)
		_ = client.Close()
		return nil
	}
	return client
}
