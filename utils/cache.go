// File: utils/cache.go
package utils

import (
	"context"
	"log"
	"time"

	"glowhub/config"

	"github.com/go-redis/redis/v8"
)

// CacheClient backs slot holds and booking attempt snapshots.
var CacheClient *redis.Client

// InitCache initializes the Redis client used by the booking core.
func InitCache() {
	CacheClient = redis.NewClient(&redis.Options{
		Addr:     config.AppConfig.RedisAddr,
		Password: config.AppConfig.RedisPassword,
		DB:       config.AppConfig.RedisCacheDB,
	})
	ctx, cancel := context.WithTimeout(context.Background(), 2*time.Second)
	defer cancel()
	_, err := CacheClient.Ping(ctx).Result()
	if err != nil {
		log.Fatalf("Failed to connect to Redis (Cache): %v", err)
	}
}

// GetCacheClient returns the booking cache client.
func GetCacheClient() *redis.Client {
	if CacheClient == nil {
		InitCache()
	}
	return CacheClient
}
