package cache

import (
	"context"
	"fmt"
	"time"

	"github.com/redis/go-redis/v9"

	"github.com/yenminh269/themepark-checkout/internal/usecase"
)

// RedisStockCache holds the last-known stock level per (store, item).
// Values are written by the stock change listener and read by the
// inventory guard for soft validation; the park backend remains the
// authority.
type RedisStockCache struct {
	rdb *redis.Client
	ttl time.Duration
}

func NewRedisStockCache(rdb *redis.Client, ttl time.Duration) *RedisStockCache {
	return &RedisStockCache{rdb: rdb, ttl: ttl}
}

func stockKey(storeID, itemID int64) string {
	return fmt.Sprintf("stock:%d:%d", storeID, itemID)
}

func (c *RedisStockCache) Stock(ctx context.Context, storeID, itemID int64) (int, bool, error) {
	qty, err := c.rdb.Get(ctx, stockKey(storeID, itemID)).Int()
	if err == redis.Nil {
		return 0, false, nil
	}
	if err != nil {
		return 0, false, fmt.Errorf("rdb.Get: %w", err)
	}
	return qty, true, nil
}

func (c *RedisStockCache) SetStock(ctx context.Context, storeID, itemID int64, qty int) error {
	if err := c.rdb.Set(ctx, stockKey(storeID, itemID), qty, c.ttl).Err(); err != nil {
		return fmt.Errorf("rdb.Set: %w", err)
	}
	return nil
}

var _ usecase.StockReader = (*RedisStockCache)(nil)
var _ usecase.StockWriter = (*RedisStockCache)(nil)
