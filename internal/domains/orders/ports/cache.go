package ports

import (
	"context"
	"fmt"
	"time"
)

// Cache stores stock and price observations with a time to live. It is a
// performance optimization over the collaborator services, never the
// source of truth. Implementations must be safe for concurrent use and
// atomic per key.
type Cache interface {
	// Get returns the cached value and true, or false when the key is
	// absent or its ttl has elapsed.
	Get(ctx context.Context, key string) (float64, bool, error)
	// Set overwrites the value for key with a fresh ttl.
	Set(ctx context.Context, key string, value float64, ttl time.Duration) error
	// Invalidate forces the next Get for key to miss regardless of any
	// remaining ttl.
	Invalidate(ctx context.Context, key string) error
}

// StockKey names the cached stock quantity for a product.
func StockKey(productID int64) string {
	return fmt.Sprintf("stock:%d", productID)
}

// PriceKey names the cached unit price for a product.
func PriceKey(productID int64) string {
	return fmt.Sprintf("price:%d", productID)
}
