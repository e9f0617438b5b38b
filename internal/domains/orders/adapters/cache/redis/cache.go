package redis

import (
	"context"
	"errors"
	"time"

	"github.com/redis/go-redis/v9"

	"github.com/Apurer/go-order-saga/internal/domains/orders/ports"
)

const keyPrefix = "ordersaga:"

var _ ports.Cache = (*Cache)(nil)

// Cache backs the read-through cache with Redis so several orchestrator
// replicas observe the same stock/price entries. Expiry is delegated to
// Redis key ttls.
type Cache struct {
	client *redis.Client
}

// NewCache wraps an existing Redis client. Caller manages its lifecycle.
func NewCache(client *redis.Client) *Cache {
	return &Cache{client: client}
}

func (c *Cache) Get(ctx context.Context, key string) (float64, bool, error) {
	value, err := c.client.Get(ctx, keyPrefix+key).Float64()
	if errors.Is(err, redis.Nil) {
		return 0, false, nil
	}
	if err != nil {
		return 0, false, err
	}
	return value, true, nil
}

func (c *Cache) Set(ctx context.Context, key string, value float64, ttl time.Duration) error {
	return c.client.Set(ctx, keyPrefix+key, value, ttl).Err()
}

func (c *Cache) Invalidate(ctx context.Context, key string) error {
	return c.client.Del(ctx, keyPrefix+key).Err()
}
