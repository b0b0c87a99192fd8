// File: utils/cache.go
package utils

import (
	"clinicbook/config"
	"context"
	"fmt"
	"log"
	"time"

	"github.com/go-redis/redis/v8"
)

var (
	// CacheClient caches doctor lists and normalized schedules.
	CacheClient *redis.Client
	// QueueCacheClient holds per-patient queue numbers for confirmed bookings.
	QueueCacheClient *redis.Client
)

// InitCache initializes the Redis client for schedule/doctor caching.
func InitCache() {
	CacheClient = redis.NewClient(&redis.Options{
		Addr:     config.AppConfig.RedisAddr,
		Password: config.AppConfig.RedisPassword,
		DB:       config.AppConfig.RedisCacheDB,
	})
	ctx, cancel := context.WithTimeout(context.Background(), 2*time.Second)
	defer cancel()
	if _, err := CacheClient.Ping(ctx).Result(); err != nil {
		log.Fatalf("Failed to connect to Redis (Cache): %v", err)
	}
}

// GetCacheClient returns the schedule cache client.
func GetCacheClient() *redis.Client {
	if CacheClient == nil {
		InitCache()
	}
	return CacheClient
}

// InitQueueCache initializes the Redis client for queue-number caching.
func InitQueueCache() {
	QueueCacheClient = redis.NewClient(&redis.Options{
		Addr:     config.AppConfig.RedisAddr,
		Password: config.AppConfig.RedisPassword,
		DB:       config.AppConfig.RedisQueueDB,
	})
	ctx, cancel := context.WithTimeout(context.Background(), 2*time.Second)
	defer cancel()
	if _, err := QueueCacheClient.Ping(ctx).Result(); err != nil {
		log.Fatalf("Failed to connect to Redis (Queue Cache): %v", err)
	}
}

// GetQueueCacheClient returns the queue-number cache client.
func GetQueueCacheClient() *redis.Client {
	if QueueCacheClient == nil {
		InitQueueCache()
	}
	return QueueCacheClient
}

// InitRedis initializes all Redis clients at startup.
func InitRedis() {
	InitCache()
	InitQueueCache()
}

// QueueNumberKey is the cache key holding a patient's queue number.
func QueueNumberKey(userID string) string {
	return fmt.Sprintf("queue:%s", userID)
}

// ScheduleCacheKey is the cache key for a doctor's normalized schedule.
func ScheduleCacheKey(doctorID string) string {
	return fmt.Sprintf("schedule:%s", doctorID)
}

// DoctorListCacheKey is the cache key for the doctors directory.
const DoctorListCacheKey = "doctors:all"

// ScheduleCacheTTL returns the configured TTL for cached schedules.
func ScheduleCacheTTL() time.Duration {
	secs := config.AppConfig.ScheduleCacheTTLSeconds
	if secs <= 0 {
		secs = 60
	}
	return time.Duration(secs) * time.Second
}
