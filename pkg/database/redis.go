package database

import (
	"context"
	"fmt"
	"time"

	"movie-booking/pkg/utils"

	"github.com/redis/go-redis/v9"
)

// InitRedis connects to Redis and pings it. Callers decide what to do when
// Redis is not configured; this function expects an address.
func InitRedis(config utils.RedisConfig) (redis.UniversalClient, error) {
	client := redis.NewClient(&redis.Options{
		Addr:         config.Addr,
		Password:     config.Password,
		DB:           config.DB,
		DialTimeout:  5 * time.Second,
		ReadTimeout:  3 * time.Second,
		WriteTimeout: 3 * time.Second,
	})

	pingCtx, cancel := context.WithTimeout(context.Background(), 3*time.Second)
	defer cancel()

	if err := client.Ping(pingCtx).Err(); err != nil {
		client.Close()
		return nil, fmt.Errorf("ping redis failed: %w", err)
	}

	return client, nil
}
