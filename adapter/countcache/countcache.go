// Package countcache implements gridify.CountCachePort against Redis,
// letting repeated pages of the same filter+sort skip the pre-paging count
// query GridifyQueryable/GridifyAsync would otherwise issue on every call.
package countcache

import (
	"context"
	"crypto/sha256"
	"encoding/hex"
	"fmt"
	"time"

	"github.com/redis/go-redis/v9"
	"github.com/uniedit/gridify"
	"github.com/uniedit/gridify/internal/shared/metrics"
)

const keyPrefix = "gridify:count:"

var _ gridify.CountCachePort = (*Cache)(nil)

// Cache implements gridify.CountCachePort against a Redis client.
type Cache struct {
	client  redis.UniversalClient
	prefix  string
	ttl     time.Duration
	metrics *metrics.Metrics // optional
}

// New builds a Cache. ttl <= 0 disables expiry (entries live until the
// underlying key is evicted or overwritten).
func New(client redis.UniversalClient, namespace string, ttl time.Duration) *Cache {
	return &Cache{client: client, prefix: keyPrefix + namespace + ":", ttl: ttl}
}

// WithMetrics attaches hit/miss counters, returning the same *Cache for
// chaining at construction time.
func (c *Cache) WithMetrics(m *metrics.Metrics) *Cache {
	c.metrics = m
	return c
}

func (c *Cache) redisKey(key string) string {
	sum := sha256.Sum256([]byte(key))
	return c.prefix + hex.EncodeToString(sum[:16])
}

// Get implements gridify.CountCachePort.
func (c *Cache) Get(ctx context.Context, key string) (int64, bool, error) {
	val, err := c.client.Get(ctx, c.redisKey(key)).Int64()
	if err != nil {
		if err == redis.Nil {
			c.recordMiss()
			return 0, false, nil
		}
		return 0, false, fmt.Errorf("countcache: get: %w", err)
	}
	c.recordHit()
	return val, true, nil
}

// Set implements gridify.CountCachePort.
func (c *Cache) Set(ctx context.Context, key string, total int64) error {
	if err := c.client.Set(ctx, c.redisKey(key), total, c.ttl).Err(); err != nil {
		return fmt.Errorf("countcache: set: %w", err)
	}
	return nil
}

func (c *Cache) recordHit() {
	if c.metrics != nil {
		c.metrics.CountCacheHitsTotal.Inc()
	}
}

func (c *Cache) recordMiss() {
	if c.metrics != nil {
		c.metrics.CountCacheMissesTotal.Inc()
	}
}
