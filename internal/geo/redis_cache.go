package geo

import (
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"time"

	"github.com/redis/go-redis/v9"
)

const redisKeyPrefix = "geocode:"

// RedisCache shares geocoding results between processes
type RedisCache struct {
	client *redis.Client
	ttl    time.Duration
}

// NewRedisCache connects to the Redis instance at url (redis://...)
func NewRedisCache(ctx context.Context, url string, ttl time.Duration) (*RedisCache, error) {
	opts, err := redis.ParseURL(url)
	if err != nil {
		return nil, fmt.Errorf("parse redis url: %w", err)
	}

	client := redis.NewClient(opts)
	if err := client.Ping(ctx).Err(); err != nil {
		_ = client.Close()
		return nil, fmt.Errorf("ping redis: %w", err)
	}
	return &RedisCache{client: client, ttl: ttl}, nil
}

// NewRedisCacheWithClient wraps an existing client
func NewRedisCacheWithClient(client *redis.Client, ttl time.Duration) *RedisCache {
	return &RedisCache{client: client, ttl: ttl}
}

// Get reads an entry; a missing key is a miss, not an error
func (r *RedisCache) Get(ctx context.Context, key string) (Coordinates, bool, error) {
	raw, err := r.client.Get(ctx, redisKeyPrefix+key).Bytes()
	if errors.Is(err, redis.Nil) {
		return Coordinates{}, false, nil
	}
	if err != nil {
		return Coordinates{}, false, fmt.Errorf("redis get: %w", err)
	}

	var c Coordinates
	if err := json.Unmarshal(raw, &c); err != nil {
		return Coordinates{}, false, fmt.Errorf("decode cached coordinates: %w", err)
	}
	return c, true, nil
}

// Set stores an entry with the cache TTL
func (r *RedisCache) Set(ctx context.Context, key string, c Coordinates) error {
	raw, err := json.Marshal(c)
	if err != nil {
		return err
	}
	if err := r.client.Set(ctx, redisKeyPrefix+key, raw, r.ttl).Err(); err != nil {
		return fmt.Errorf("redis set: %w", err)
	}
	return nil
}

// Close releases the client
func (r *RedisCache) Close() error {
	return r.client.Close()
}
