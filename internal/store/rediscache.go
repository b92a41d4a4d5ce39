package store

import (
	"context"
	"errors"
	"time"

	"github.com/redis/go-redis/v9"
	"github.com/serroba/linktrack-go/internal/stats"
)

// RedisCache is the Redis implementation of the stats cache.
type RedisCache struct {
	client *redis.Client
}

// NewRedisCache creates a Redis-backed cache store.
func NewRedisCache(client *redis.Client) *RedisCache {
	return &RedisCache{client: client}
}

func (r *RedisCache) Get(ctx context.Context, key string) (string, error) {
	value, err := r.client.Get(ctx, key).Result()
	if err != nil {
		if errors.Is(err, redis.Nil) {
			return "", stats.ErrCacheMiss
		}

		return "", err
	}

	return value, nil
}

func (r *RedisCache) Set(ctx context.Context, key, value string, ttl time.Duration) error {
	return r.client.Set(ctx, key, value, ttl).Err()
}

// Shutdown is a no-op; the client is managed externally.
func (r *RedisCache) Shutdown() error {
	return nil
}

// Compile-time check.
var _ stats.CacheStore = (*RedisCache)(nil)
