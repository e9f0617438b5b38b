package memory

import (
	"context"
	"testing"
	"time"

	"github.com/stretchr/testify/require"

	"github.com/Apurer/go-order-saga/internal/domains/orders/ports"
)

func TestCache_SetGet(t *testing.T) {
	cache := NewCache()
	ctx := context.Background()

	require.NoError(t, cache.Set(ctx, ports.PriceKey(1), 9.99, time.Minute))
	value, ok, err := cache.Get(ctx, ports.PriceKey(1))
	require.NoError(t, err)
	require.True(t, ok)
	require.Equal(t, 9.99, value)

	_, ok, err = cache.Get(ctx, ports.PriceKey(2))
	require.NoError(t, err)
	require.False(t, ok)
}

func TestCache_ExpiryHonoursClock(t *testing.T) {
	cache := NewCache()
	ctx := context.Background()
	now := time.Now()
	cache.WithClock(func() time.Time { return now })

	require.NoError(t, cache.Set(ctx, ports.StockKey(1), 40, 30*time.Second))

	now = now.Add(29 * time.Second)
	_, ok, err := cache.Get(ctx, ports.StockKey(1))
	require.NoError(t, err)
	require.True(t, ok)

	now = now.Add(2 * time.Second)
	_, ok, err = cache.Get(ctx, ports.StockKey(1))
	require.NoError(t, err)
	require.False(t, ok)
}

func TestCache_SetRefreshesExpiry(t *testing.T) {
	cache := NewCache()
	ctx := context.Background()
	now := time.Now()
	cache.WithClock(func() time.Time { return now })

	require.NoError(t, cache.Set(ctx, ports.StockKey(1), 40, 30*time.Second))
	now = now.Add(20 * time.Second)
	require.NoError(t, cache.Set(ctx, ports.StockKey(1), 35, 30*time.Second))

	now = now.Add(25 * time.Second)
	value, ok, err := cache.Get(ctx, ports.StockKey(1))
	require.NoError(t, err)
	require.True(t, ok)
	require.Equal(t, float64(35), value)
}

func TestCache_InvalidateIsolatesKeys(t *testing.T) {
	cache := NewCache()
	ctx := context.Background()

	require.NoError(t, cache.Set(ctx, ports.StockKey(1), 40, time.Minute))
	require.NoError(t, cache.Set(ctx, ports.PriceKey(1), 9.99, time.Minute))
	require.NoError(t, cache.Set(ctx, ports.StockKey(2), 12, time.Minute))

	require.NoError(t, cache.Invalidate(ctx, ports.StockKey(1)))

	_, ok, _ := cache.Get(ctx, ports.StockKey(1))
	require.False(t, ok)
	_, ok, _ = cache.Get(ctx, ports.PriceKey(1))
	require.True(t, ok)
	_, ok, _ = cache.Get(ctx, ports.StockKey(2))
	require.True(t, ok)
}

func TestCache_InvalidateMissingKeyIsNoop(t *testing.T) {
	cache := NewCache()
	require.NoError(t, cache.Invalidate(context.Background(), ports.StockKey(99)))
}
