package lib

import (
	"context"
	"log"
	"os"

	"github.com/redis/go-redis/v9"
)

var redisClient *redis.Client

const SlotsCacheKey = "timeslots:available"

func GetRedisClient() *redis.Client {
	if redisClient != nil {
		return redisClient
	}
	redisHost := os.Getenv("REDIS_HOST")
	opt, err := redis.ParseURL(redisHost)
	if err != nil {
		log.Printf("[redis] Error parsing connection string: %s\n", err.Error())
		return nil
	}
	rdb := redis.NewClient(opt)
	redisClient = rdb
	return rdb
}

// InvalidateSlotsCache drops the cached availability listing after a
// reservation or release changes slot counters.
func InvalidateSlotsCache(ctx context.Context) {
	rdb := GetRedisClient()
	if rdb == nil {
		return
	}
	if err := rdb.Del(ctx, SlotsCacheKey).Err(); err != nil && err != redis.Nil {
		log.Printf("[redis] Failed to invalidate %s: %s\n", SlotsCacheKey, err.Error())
	}
}

// NewRedisClient Replace redis instance with custom client implementation
func NewRedisClient(c *redis.Client) *redis.Client {
	redisClient = c
	return redisClient
}
