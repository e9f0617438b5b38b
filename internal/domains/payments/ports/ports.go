package ports

import (
	"context"
	"errors"

	"github.com/Apurer/go-order-saga/internal/domains/payments/domain"
)

var ErrNotFound = errors.New("payment not found")

// Repository persists payments.
type Repository interface {
	Save(ctx context.Context, payment *domain.Payment) (*domain.Payment, error)
	GetByID(ctx context.Context, id int64) (*domain.Payment, error)
	List(ctx context.Context) ([]*domain.Payment, error)
	Delete(ctx context.Context, id int64) error
}

// Catalog resolves unit prices for charged products.
type Catalog interface {
	GetUnitPrice(ctx context.Context, productID int64) (float64, error)
}

// Inventory withdraws stock as part of taking a payment and hands it
// back when the payment cannot be stored.
type Inventory interface {
	ReduceStock(ctx context.Context, productID int64, quantity int32) error
	RevertStock(ctx context.Context, productID int64, quantity int32) error
}

// Service exposes payment use cases to adapters.
type Service interface {
	// CreatePayment prices the charge, withdraws stock, and records the
	// payment. Stock is withdrawn before the payment is stored so a
	// rejected withdrawal leaves nothing behind.
	CreatePayment(ctx context.Context, productID int64, quantity int32, method domain.Method) (*domain.Payment, error)
	GetPayment(ctx context.Context, id int64) (*domain.Payment, error)
	ListPayments(ctx context.Context) ([]*domain.Payment, error)
	// DeletePayment removes a payment. Deleting an absent payment is a
	// no-op success so retried compensations stay idempotent.
	DeletePayment(ctx context.Context, id int64) error
}
