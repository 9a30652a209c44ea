package database

import (
	"context"
	"time"

	"library-seating/pkg/utils"

	"github.com/redis/go-redis/v9"
)

// InitRedis connects to Redis for rate limiting. Returns nil when the server
// is unreachable; callers treat a nil client as "limiting disabled".
func InitRedis(config utils.RedisConfig) *redis.Client {
	client := redis.NewClient(&redis.Options{
		Addr:     config.Addr,
		Password: config.Password,
		DB:       config.DB,
	})

	ctx, cancel := context.WithTimeout(context.Background(), 2*time.Second)
	defer cancel()

	if err := client.Ping(ctx).Err(); err != nil {
		return nil
	}
	return client
}
