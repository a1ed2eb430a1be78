package cache

import (
	"context"
	"encoding/json"
	"fmt"
	"time"

	"github.com/redis/go-redis/v9"

	domain "github.com/yenminh269/themepark-checkout/internal/entity"
	"github.com/yenminh269/themepark-checkout/internal/usecase"
)

// RedisCartArchive persists each session's cart as one JSON blob so
// the cart outlives a process restart. Best-effort by contract; the
// cart store logs and carries on if writes fail.
type RedisCartArchive struct {
	rdb *redis.Client
	ttl time.Duration
}

func NewRedisCartArchive(rdb *redis.Client, ttl time.Duration) *RedisCartArchive {
	return &RedisCartArchive{rdb: rdb, ttl: ttl}
}

func cartKey(sessionID string) string { return "cart:" + sessionID }

func (a *RedisCartArchive) Save(ctx context.Context, sessionID string, lines []domain.LineItem) error {
	body, err := json.Marshal(lines)
	if err != nil {
		return fmt.Errorf("marshal cart: %w", err)
	}
	if err := a.rdb.Set(ctx, cartKey(sessionID), body, a.ttl).Err(); err != nil {
		return fmt.Errorf("rdb.Set: %w", err)
	}
	return nil
}

func (a *RedisCartArchive) Load(ctx context.Context, sessionID string) ([]domain.LineItem, bool, error) {
	body, err := a.rdb.Get(ctx, cartKey(sessionID)).Bytes()
	if err == redis.Nil {
		return nil, false, nil
	}
	if err != nil {
		return nil, false, fmt.Errorf("rdb.Get: %w", err)
	}

	var lines []domain.LineItem
	if err := json.Unmarshal(body, &lines); err != nil {
		return nil, false, fmt.Errorf("unmarshal cart: %w", err)
	}
	return lines, true, nil
}

func (a *RedisCartArchive) Delete(ctx context.Context, sessionID string) error {
	if err := a.rdb.Del(ctx, cartKey(sessionID)).Err(); err != nil {
		return fmt.Errorf("rdb.Del: %w", err)
	}
	return nil
}

var _ usecase.CartArchive = (*RedisCartArchive)(nil)
