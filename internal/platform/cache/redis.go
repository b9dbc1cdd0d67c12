// Package cache provides a Redis-backed cache-aside store for task list pages.
package cache

import (
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"slices"
	"sync/atomic"
	"time"

	"github.com/redis/go-redis/v9"
)

// scanBatch is the COUNT hint for SCAN during pattern deletes.
const scanBatch = 100

// generationKey holds the invalidation counter under the cache prefix. It
// survives InvalidateAll.
const generationKey = "generation"

// RedisCache stores JSON-encoded values under a key prefix with a fixed TTL.
type RedisCache struct {
	client *redis.Client
	prefix string
	ttl    time.Duration
	stats  stats
}

type stats struct {
	hits    atomic.Uint64
	misses  atomic.Uint64
	sets    atomic.Uint64
	deletes atomic.Uint64
	errors  atomic.Uint64
}

// Stats is a snapshot of cache counters.
type Stats struct {
	Hits    uint64  `json:"hits"`
	Misses  uint64  `json:"misses"`
	Sets    uint64  `json:"sets"`
	Deletes uint64  `json:"deletes"`
	Errors  uint64  `json:"errors"`
	HitRate float64 `json:"hit_rate"`
}

// NewRedisCache creates a cache over client. prefix is prepended to every key
// followed by a colon; a zero ttl stores entries without expiry.
func NewRedisCache(client *redis.Client, prefix string, ttl time.Duration) *RedisCache {
	if prefix != "" {
		prefix += ":"
	}
	return &RedisCache{client: client, prefix: prefix, ttl: ttl}
}

// Connect opens a client for addr and verifies it answers PING.
func Connect(ctx context.Context, addr, prefix string, ttl time.Duration) (*RedisCache, error) {
	client := redis.NewClient(&redis.Options{Addr: addr})
	if err := client.Ping(ctx).Err(); err != nil {
		_ = client.Close()
		return nil, fmt.Errorf("redis ping %s: %w", addr, err)
	}
	return NewRedisCache(client, prefix, ttl), nil
}

// Get decodes the value stored under key into dest. It reports false on a miss.
func (c *RedisCache) Get(ctx context.Context, key string, dest any) (bool, error) {
	data, err := c.client.Get(ctx, c.prefix+key).Bytes()
	if err != nil {
		if errors.Is(err, redis.Nil) {
			c.stats.misses.Add(1)
			return false, nil
		}
		c.stats.errors.Add(1)
		return false, fmt.Errorf("cache get error: %w", err)
	}

	if err := json.Unmarshal(data, dest); err != nil {
		c.stats.errors.Add(1)
		return false, fmt.Errorf("cache unmarshal error: %w", err)
	}

	c.stats.hits.Add(1)
	return true, nil
}

// Set stores value under key with the cache TTL.
func (c *RedisCache) Set(ctx context.Context, key string, value any) error {
	data, err := json.Marshal(value)
	if err != nil {
		c.stats.errors.Add(1)
		return fmt.Errorf("cache marshal error: %w", err)
	}

	if err := c.client.Set(ctx, c.prefix+key, data, c.ttl).Err(); err != nil {
		c.stats.errors.Add(1)
		return fmt.Errorf("cache set error: %w", err)
	}

	c.stats.sets.Add(1)
	return nil
}

// DeletePattern removes every key matching the glob pattern.
func (c *RedisCache) DeletePattern(ctx context.Context, pattern string) error {
	return c.deleteMatching(ctx, pattern, "")
}

// Generation returns the invalidation counter, 0 before the first InvalidateAll.
func (c *RedisCache) Generation(ctx context.Context) (int64, error) {
	gen, err := c.client.Get(ctx, c.prefix+generationKey).Int64()
	if errors.Is(err, redis.Nil) {
		return 0, nil
	}
	if err != nil {
		c.stats.errors.Add(1)
		return 0, fmt.Errorf("cache generation error: %w", err)
	}
	return gen, nil
}

// InvalidateAll advances the generation and then removes every other entry
// under the cache prefix.
func (c *RedisCache) InvalidateAll(ctx context.Context) error {
	if err := c.client.Incr(ctx, c.prefix+generationKey).Err(); err != nil {
		c.stats.errors.Add(1)
		return fmt.Errorf("cache generation error: %w", err)
	}
	return c.deleteMatching(ctx, "*", c.prefix+generationKey)
}

func (c *RedisCache) deleteMatching(ctx context.Context, pattern, keep string) error {
	var cursor uint64
	for {
		keys, next, err := c.client.Scan(ctx, cursor, c.prefix+pattern, scanBatch).Result()
		if err != nil {
			c.stats.errors.Add(1)
			return fmt.Errorf("cache scan error: %w", err)
		}

		if keep != "" {
			keys = slices.DeleteFunc(keys, func(k string) bool { return k == keep })
		}
		if len(keys) > 0 {
			if err := c.client.Del(ctx, keys...).Err(); err != nil {
				c.stats.errors.Add(1)
				return fmt.Errorf("cache delete error: %w", err)
			}
			c.stats.deletes.Add(uint64(len(keys)))
		}

		cursor = next
		if cursor == 0 {
			return nil
		}
	}
}

// Stats returns the current counters.
func (c *RedisCache) Stats() Stats {
	hits := c.stats.hits.Load()
	misses := c.stats.misses.Load()

	var hitRate float64
	if total := hits + misses; total > 0 {
		hitRate = float64(hits) / float64(total) * 100
	}

	return Stats{
		Hits:    hits,
		Misses:  misses,
		Sets:    c.stats.sets.Load(),
		Deletes: c.stats.deletes.Load(),
		Errors:  c.stats.errors.Load(),
		HitRate: hitRate,
	}
}

// Ping checks if the Redis connection is healthy.
func (c *RedisCache) Ping(ctx context.Context) error {
	return c.client.Ping(ctx).Err()
}

// Close closes the Redis client connection.
func (c *RedisCache) Close() error {
	return c.client.Close()
}
