// Package cache provides an optional Redis-backed read-through cache for
// taxonomy stats. The engine itself stays cache-free; this sits in front of
// it at the transport layer.
package cache

import (
	"context"
	"encoding/json"
	"fmt"
	"time"

	"autoparts-catalog/internal/domain"
	"github.com/redis/go-redis/v9"
)

const statsKey = "taxonomy:stats"

// Connect creates a Redis client and verifies the connection with a ping.
func Connect(addr, password string) (*redis.Client, error) {
	client := redis.NewClient(&redis.Options{
		Addr:     addr,
		Password: password,
		DB:       0,
	})

	ctx, cancel := context.WithTimeout(context.Background(), 5*time.Second)
	defer cancel()

	if err := client.Ping(ctx).Err(); err != nil {
		return nil, fmt.Errorf("redis ping: %w", err)
	}
	return client, nil
}

// StatsCache caches a single TaxonomyStats snapshot with a TTL. A nil
// *StatsCache is a no-op, so callers can wire it unconditionally.
type StatsCache struct {
	client *redis.Client
	ttl    time.Duration
}

func NewStatsCache(client *redis.Client, ttl time.Duration) *StatsCache {
	return &StatsCache{client: client, ttl: ttl}
}

// Get returns the cached snapshot, or nil on miss or any cache error.
func (c *StatsCache) Get(ctx context.Context) *domain.TaxonomyStats {
	if c == nil {
		return nil
	}
	raw, err := c.client.Get(ctx, statsKey).Bytes()
	if err != nil {
		return nil
	}
	var stats domain.TaxonomyStats
	if err := json.Unmarshal(raw, &stats); err != nil {
		return nil
	}
	return &stats
}

// Set stores the snapshot; cache errors are ignored, the next read
// recomputes.
func (c *StatsCache) Set(ctx context.Context, stats *domain.TaxonomyStats) {
	if c == nil || stats == nil {
		return
	}
	raw, err := json.Marshal(stats)
	if err != nil {
		return
	}
	c.client.Set(ctx, statsKey, raw, c.ttl)
}

// Invalidate drops the snapshot after a taxonomy mutation.
func (c *StatsCache) Invalidate(ctx context.Context) {
	if c == nil {
		return
	}
	c.client.Del(ctx, statsKey)
}
