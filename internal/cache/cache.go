// Package cache is a thin JSON cache over Redis for the read endpoints.
// A Cache built with a nil client is a no-op, so the service runs unchanged
// when Redis is not configured.
package cache

import (
	"context"       // Context for Redis operations
	"encoding/json" // JSON encoding/decoding
	"time"          // Time durations

	"github.com/redis/go-redis/v9" // Redis client
)

// TTL is how long cached read responses stay valid; mutations invalidate
// affected keys before that.
const TTL = 60 * time.Second

// Cache wraps an optional Redis client.
type Cache struct {
	rdb *redis.Client
}

// New wraps rdb; a nil client disables caching.
func New(rdb *redis.Client) *Cache {
	return &Cache{rdb: rdb}
}

// Enabled reports whether a Redis client is configured.
func (c *Cache) Enabled() bool {
	return c.rdb != nil
}

// Get retrieves a value and unmarshals it into dest. A disabled cache or a
// missing key reports found=false.
func (c *Cache) Get(ctx context.Context, key string, dest any) (bool, error) {
	if c.rdb == nil {
		return false, nil
	}
	val, err := c.rdb.Get(ctx, key).Result() // Get value from Redis
	if err == redis.Nil {
		return false, nil // Key does not exist
	} else if err != nil {
		return false, err // Other Redis error
	}
	return true, json.Unmarshal([]byte(val), dest) // Unmarshal JSON into dest
}

// Set stores a value with the package TTL.
func (c *Cache) Set(ctx context.Context, key string, value any) error {
	if c.rdb == nil {
		return nil
	}
	b, err := json.Marshal(value) // Marshal value to JSON
	if err != nil {
		return err
	}
	return c.rdb.Set(ctx, key, b, TTL).Err()
}

// Invalidate deletes the given keys.
func (c *Cache) Invalidate(ctx context.Context, keys ...string) error {
	if c.rdb == nil || len(keys) == 0 {
		return nil
	}
	return c.rdb.Del(ctx, keys...).Err()
}
