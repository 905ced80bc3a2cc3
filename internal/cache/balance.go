package cache

import (
	"context"
	"fmt"
	"time"

	"github.com/redis/go-redis/v9"

	"seva-ledger/internal/logger"
)

// BalanceCache is a read-through, invalidate-on-write cache for wallet
// balances. It serves dashboard reads only; the ledger never consults it
// when deciding an award, spend or transfer. Misses and backend failures
// degrade to the database.
type BalanceCache interface {
	Get(ctx context.Context, ownerID int64) (int64, bool)
	Set(ctx context.Context, ownerID int64, balance int64)
	Invalidate(ctx context.Context, ownerID int64)
}

type redisBalanceCache struct {
	client *redis.Client
	ttl    time.Duration
}

func NewRedisBalanceCache(client *redis.Client, ttl time.Duration) BalanceCache {
	return &redisBalanceCache{client: client, ttl: ttl}
}

func balanceKey(ownerID int64) string {
	return fmt.Sprintf("seva:balance:%d", ownerID)
}

func (c *redisBalanceCache) Get(ctx context.Context, ownerID int64) (int64, bool) {
	val, err := c.client.Get(ctx, balanceKey(ownerID)).Int64()
	if err != nil {
		return 0, false
	}
	return val, true
}

func (c *redisBalanceCache) Set(ctx context.Context, ownerID int64, balance int64) {
	if err := c.client.Set(ctx, balanceKey(ownerID), balance, c.ttl).Err(); err != nil {
		logger.Debug("balance cache set failed", "owner_id", ownerID, "error", err)
	}
}

func (c *redisBalanceCache) Invalidate(ctx context.Context, ownerID int64) {
	if err := c.client.Del(ctx, balanceKey(ownerID)).Err(); err != nil {
		logger.Warn("balance cache invalidation failed", "owner_id", ownerID, "error", err)
	}
}

// Noop returns a cache that stores nothing, used when redis is not configured.
func Noop() BalanceCache {
	return noopCache{}
}

type noopCache struct{}

func (noopCache) Get(context.Context, int64) (int64, bool) { return 0, false }
func (noopCache) Set(context.Context, int64, int64)        {}
func (noopCache) Invalidate(context.Context, int64)        {}
