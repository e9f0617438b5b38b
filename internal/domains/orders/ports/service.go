package ports

import (
	"context"

	"github.com/Apurer/go-order-saga/internal/domains/orders/domain"
)

// CreateOrderInput carries the raw inbound order request.
type CreateOrderInput struct {
	ProductID      int64
	Quantity       int32
	PaymentMethod  string
	MailingAddress string
}

// OrderConfirmation is returned once the saga reaches committed.
type OrderConfirmation struct {
	OrderID    string
	State      domain.State
	ProductID  int64
	Quantity   int32
	UnitPrice  float64
	TotalPrice float64
	PaymentID  int64
	PurchaseID int64
}

// Service exposes the order saga to transport adapters.
type Service interface {
	CreateOrder(ctx context.Context, input CreateOrderInput) (*OrderConfirmation, error)
}
