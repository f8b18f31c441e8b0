// Package cache keeps the latest market snapshot close to the API so that requests do not
// re-read artifacts on every call.
package cache

import (
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"sync"
	"time"

	"github.com/redis/go-redis/v9"

	"github.com/jonathan/skill-monitor/internal/types"
)

// DefaultKey is the redis key holding the latest snapshot
const DefaultKey = "skill-monitor:market:latest"

// SnapshotCache stores the latest market snapshot. Get returns nil, nil when nothing is cached.
type SnapshotCache interface {
	Get(ctx context.Context) (*types.MarketSnapshot, error)
	Set(ctx context.Context, snapshot *types.MarketSnapshot) error
}

// NewRedisClient connects to redis and verifies the connection
func NewRedisClient(ctx context.Context, addr, password string) (*redis.Client, error) {
	rdb := redis.NewClient(&redis.Options{
		Addr:     addr,
		Password: password,
		DB:       0,
	})

	if err := rdb.Ping(ctx).Err(); err != nil {
		_ = rdb.Close()
		return nil, fmt.Errorf("can not connect Redis: %w", err)
	}
	return rdb, nil
}

// RedisCache stores the snapshot as a JSON string
type RedisCache struct {
	client redis.Cmdable
	key    string
	ttl    time.Duration
}

// NewRedisCache creates a redis-backed cache. A zero ttl keeps the snapshot until replaced.
func NewRedisCache(client redis.Cmdable, ttl time.Duration) *RedisCache {
	return &RedisCache{client: client, key: DefaultKey, ttl: ttl}
}

// Get loads the cached snapshot
func (c *RedisCache) Get(ctx context.Context) (*types.MarketSnapshot, error) {
	val, err := c.client.Get(ctx, c.key).Result()
	if errors.Is(err, redis.Nil) {
		return nil, nil
	}
	if err != nil {
		return nil, fmt.Errorf("failed to read cached snapshot: %w", err)
	}

	var snapshot types.MarketSnapshot
	if err := json.Unmarshal([]byte(val), &snapshot); err != nil {
		return nil, fmt.Errorf("failed to decode cached snapshot: %w", err)
	}
	return &snapshot, nil
}

// Set replaces the cached snapshot
func (c *RedisCache) Set(ctx context.Context, snapshot *types.MarketSnapshot) error {
	data, err := json.Marshal(snapshot)
	if err != nil {
		return fmt.Errorf("failed to encode snapshot: %w", err)
	}
	if err := c.client.Set(ctx, c.key, data, c.ttl).Err(); err != nil {
		return fmt.Errorf("failed to cache snapshot: %w", err)
	}
	return nil
}

// MemoryCache is an in-process SnapshotCache used when no redis is configured
type MemoryCache struct {
	mu       sync.RWMutex
	snapshot *types.MarketSnapshot
}

// NewMemoryCache creates an empty in-process cache
func NewMemoryCache() *MemoryCache {
	return &MemoryCache{}
}

// Get returns the cached snapshot
func (c *MemoryCache) Get(_ context.Context) (*types.MarketSnapshot, error) {
	c.mu.RLock()
	defer c.mu.RUnlock()
	return c.snapshot, nil
}

// Set replaces the cached snapshot
func (c *MemoryCache) Set(_ context.Context, snapshot *types.MarketSnapshot) error {
	c.mu.Lock()
	defer c.mu.Unlock()
	c.snapshot = snapshot
	return nil
}
