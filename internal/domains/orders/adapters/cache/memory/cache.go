package memory

import (
	"context"
	"sync"
	"time"

	"github.com/Apurer/go-order-saga/internal/domains/orders/ports"
)

var _ ports.Cache = (*Cache)(nil)

// Cache is an in-process ttl cache shared by all concurrent
// orchestrations. Mutation of one key never affects unrelated keys.
type Cache struct {
	mu      sync.RWMutex
	entries map[string]entry
	now     func() time.Time
}

type entry struct {
	value     float64
	expiresAt time.Time
}

// NewCache constructs an empty cache.
func NewCache() *Cache {
	return &Cache{
		entries: map[string]entry{},
		now:     time.Now,
	}
}

// WithClock overrides the time source for deterministic testing.
func (c *Cache) WithClock(now func() time.Time) {
	if now != nil {
		c.now = now
	}
}

// Get returns the cached value, treating an expired entry as absent and
// dropping it.
func (c *Cache) Get(_ context.Context, key string) (float64, bool, error) {
	c.mu.RLock()
	e, ok := c.entries[key]
	c.mu.RUnlock()
	if !ok {
		return 0, false, nil
	}
	if c.now().After(e.expiresAt) {
		c.mu.Lock()
		if stored, still := c.entries[key]; still && stored.expiresAt.Equal(e.expiresAt) {
			delete(c.entries, key)
		}
		c.mu.Unlock()
		return 0, false, nil
	}
	return e.value, true, nil
}

// Set overwrites any existing entry for key with a fresh expiry.
func (c *Cache) Set(_ context.Context, key string, value float64, ttl time.Duration) error {
	c.mu.Lock()
	defer c.mu.Unlock()
	c.entries[key] = entry{value: value, expiresAt: c.now().Add(ttl)}
	return nil
}

// Invalidate removes the entry regardless of remaining ttl.
func (c *Cache) Invalidate(_ context.Context, key string) error {
	c.mu.Lock()
	defer c.mu.Unlock()
	delete(c.entries, key)
	return nil
}
