// File: utils/cache.go
package utils

import (
	"context"
	"fmt"
	"time"

	"keyscal/config"

	"github.com/go-redis/redis/v8"
)

// CacheClient is the slot read-cache client; nil when REDIS_ADDR is empty.
var CacheClient *redis.Client

// InitCache connects the Redis cache client when one is configured.
func InitCache(ctx context.Context) (*redis.Client, error) {
	if config.AppConfig.RedisAddr == "" {
		return nil, nil
	}
	client := redis.NewClient(&redis.Options{
		Addr:     config.AppConfig.RedisAddr,
		Password: config.AppConfig.RedisPassword,
		DB:       config.AppConfig.RedisCacheDB,
	})
	ctx, cancel := context.WithTimeout(ctx, 2*time.Second)
	defer cancel()
	if err := client.Ping(ctx).Err(); err != nil {
		_ = client.Close()
		return nil, fmt.Errorf("failed to connect to Redis (Cache): %w", err)
	}
	CacheClient = client
	return client, nil
}
