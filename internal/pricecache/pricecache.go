// Package pricecache caches token USD prices in Redis with a TTL so
// repeated watch calls don't hammer the upstream price APIs.
package pricecache

import (
	"context"
	"strings"
	"time"

	"github.com/redis/go-redis/v9"
)

const keyPrefix = "price:"

// Cache is a TTL-bounded token price cache backed by Redis.
type Cache struct {
	rdb *redis.Client
	ttl time.Duration
}

// New creates a Cache from a Redis URL. Entries expire after ttl.
func New(redisURL, password string, ttl time.Duration) (*Cache, error) {
	opts, err := redis.ParseURL(redisURL)
	if err != nil {
		return nil, err
	}
	if password != "" {
		opts.Password = password
	}
	rdb := redis.NewClient(opts)

	ctx, cancel := context.WithTimeout(context.Background(), 5*time.Second)
	defer cancel()
	if err := rdb.Ping(ctx).Err(); err != nil {
		return nil, err
	}
	if ttl <= 0 {
		ttl = 5 * time.Minute
	}
	return &Cache{rdb: rdb, ttl: ttl}, nil
}

// Close shuts down the Redis connection.
func (c *Cache) Close() error {
	return c.rdb.Close()
}

// Get returns the cached USD price for a token address, if present.
func (c *Cache) Get(ctx context.Context, token string) (float64, bool) {
	v, err := c.rdb.Get(ctx, key(token)).Float64()
	if err != nil {
		return 0, false
	}
	return v, true
}

// Set stores a token's USD price until the TTL elapses.
func (c *Cache) Set(ctx context.Context, token string, price float64) {
	c.rdb.Set(ctx, key(token), price, c.ttl) //nolint:errcheck
}

func key(token string) string {
	return keyPrefix + strings.ToLower(token)
}
