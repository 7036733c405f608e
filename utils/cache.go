// File: utils/cache.go
package utils

import (
	"context"
	"log"
	"time"

	"github.com/go-redis/redis/v8"

	"crewcal/config"
)

// AvailabilityCacheClient is the dedicated client for availability document
// caching.
var AvailabilityCacheClient *redis.Client

// InitAvailabilityCache initializes the Redis client for availability
// payload caching (using its own logical DB from AppConfig).
func InitAvailabilityCache() {
	AvailabilityCacheClient = redis.NewClient(&redis.Options{
		Addr:     config.AppConfig.RedisAddr,
		Password: config.AppConfig.RedisPassword,
		DB:       config.AppConfig.RedisAvailabilityDB,
	})
	ctx, cancel := context.WithTimeout(context.Background(), 2*time.Second)
	defer cancel()
	_, err := AvailabilityCacheClient.Ping(ctx).Result()
	if err != nil {
		log.Fatalf("Failed to connect to Redis (Availability Cache): %v", err)
	}
}

// GetAvailabilityCacheClient returns the Redis client for availability
// payload caching.
func GetAvailabilityCacheClient() *redis.Client {
	if AvailabilityCacheClient == nil {
		InitAvailabilityCache()
	}
	return AvailabilityCacheClient
}
