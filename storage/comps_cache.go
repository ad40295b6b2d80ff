package storage

import (
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"strings"
	"time"

	"github.com/redis/go-redis/v9"
	"github.com/shopspring/decimal"

	"deal-scanner/utils"
)

// CompSource supplies sale prices of completed listings.
type CompSource interface {
	SearchCompletedSales(ctx context.Context, title string, limit int) ([]decimal.Decimal, error)
}

// CompCache keeps completed-sale price lists in Redis in front of a
// CompSource. Upstream errors are never cached; Redis errors fall through
// to the source.
type CompCache struct {
	source CompSource
	client *redis.Client
	ttl    time.Duration
	logger *utils.Logger
}

// NewCompCache wraps source with a Redis cache whose entries live for ttl.
func NewCompCache(source CompSource, client *redis.Client, ttl time.Duration, logger *utils.Logger) *CompCache {
	if ttl <= 0 {
		ttl = 30 * time.Minute
	}
	return &CompCache{source: source, client: client, ttl: ttl, logger: logger}
}

// Ping checks the connection to the Redis server.
func (c *CompCache) Ping(ctx context.Context) error {
	return c.client.Ping(ctx).Err()
}

// keyFor returns the Redis key for a title and comp limit.
func (c *CompCache) keyFor(title string, limit int) string {
	return fmt.Sprintf("comps:%d:%s", limit, strings.ToLower(strings.TrimSpace(title)))
}

func (c *CompCache) SearchCompletedSales(ctx context.Context, title string, limit int) ([]decimal.Decimal, error) {
	key := c.keyFor(title, limit)

	raw, err := c.client.Get(ctx, key).Bytes()
	switch {
	case err == nil:
		var prices []decimal.Decimal
		if err := json.Unmarshal(raw, &prices); err == nil {
			c.logger.Debug("[cache] Hit %s (%d comps)", key, len(prices))
			return prices, nil
		}
		c.logger.Warn("[cache] Dropping unreadable entry %s", key)
	case !errors.Is(err, redis.Nil):
		c.logger.Warn("[cache] Get %s failed: %v", key, err)
	}

	prices, err := c.source.SearchCompletedSales(ctx, title, limit)
	if err != nil {
		return nil, err
	}

	if data, err := json.Marshal(prices); err == nil {
		if err := c.client.Set(ctx, key, data, c.ttl).Err(); err != nil {
			c.logger.Warn("[cache] Set %s failed: %v", key, err)
		}
	}
	return prices, nil
}

// Close closes the Redis client.
func (c *CompCache) Close() error {
	return c.client.Close()
}
