package ports

import (
	"context"

	"github.com/Apurer/go-order-saga/internal/domains/inventory/domain"
)

// ProductCatalog verifies products against the catalog service.
type ProductCatalog interface {
	GetUnitPrice(ctx context.Context, productID int64) (float64, error)
}

// Service exposes inventory use cases to adapters.
type Service interface {
	GetStock(ctx context.Context, productID int64) (*domain.StockLevel, error)
	ListStocks(ctx context.Context) ([]*domain.StockLevel, error)
	AddStock(ctx context.Context, productID int64, quantity int32) (*domain.StockLevel, error)
	ReduceStock(ctx context.Context, productID int64, quantity int32) (*domain.StockLevel, error)
	RevertStock(ctx context.Context, productID int64, quantity int32) (*domain.StockLevel, error)
}
