package ports

import (
	"context"
	"errors"

	"github.com/Apurer/go-order-saga/internal/domains/purchases/domain"
)

var ErrNotFound = errors.New("purchase not found")

// Repository persists purchase records.
type Repository interface {
	Save(ctx context.Context, purchase *domain.Purchase) (*domain.Purchase, error)
	GetByID(ctx context.Context, id int64) (*domain.Purchase, error)
	List(ctx context.Context) ([]*domain.Purchase, error)
	Delete(ctx context.Context, id int64) error
}

// Service exposes purchase use cases to adapters.
type Service interface {
	CreatePurchase(ctx context.Context, productID int64, quantity int32, totalPrice float64, paymentMethod, mailingAddress string) (*domain.Purchase, error)
	GetPurchase(ctx context.Context, id int64) (*domain.Purchase, error)
	ListPurchases(ctx context.Context) ([]*domain.Purchase, error)
	// DeletePurchase removes a record, treating an absent one as
	// already deleted so retried compensations stay idempotent.
	DeletePurchase(ctx context.Context, id int64) error
}
