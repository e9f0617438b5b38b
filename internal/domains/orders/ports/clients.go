package ports

import (
	"context"
	"errors"
)

// Failure taxonomy shared by every collaborator client. Transport errors,
// timeouts, and 5xx responses map to ErrUnavailable; 404 maps to
// ErrNotFound; any other 4xx maps to ErrRejected.
var (
	ErrNotFound    = errors.New("resource not found")
	ErrRejected    = errors.New("request rejected")
	ErrUnavailable = errors.New("collaborator unavailable")
)

// CreatePaymentRequest is the payload for the payment service.
type CreatePaymentRequest struct {
	ProductID     int64
	Quantity      int32
	PaymentMethod string
}

// CreatePurchaseRequest is the payload for the purchase-record service.
type CreatePurchaseRequest struct {
	ProductID      int64
	Quantity       int32
	TotalPrice     float64
	PaymentMethod  string
	MailingAddress string
}

// CatalogClient resolves product pricing.
type CatalogClient interface {
	GetUnitPrice(ctx context.Context, productID int64) (float64, error)
}

// InventoryClient reads stock and reverts prior reductions. RevertStock is
// idempotent: reverting an already-reverted reduction succeeds as a no-op.
type InventoryClient interface {
	GetStockQuantity(ctx context.Context, productID int64) (int32, error)
	RevertStock(ctx context.Context, productID int64, quantity int32) error
}

// PaymentClient creates and deletes payments. DeletePayment is idempotent.
type PaymentClient interface {
	CreatePayment(ctx context.Context, req CreatePaymentRequest) (int64, error)
	DeletePayment(ctx context.Context, paymentID int64) error
}

// PurchaseClient creates and deletes purchase records. DeletePurchase is
// idempotent.
type PurchaseClient interface {
	CreatePurchase(ctx context.Context, req CreatePurchaseRequest) (int64, error)
	DeletePurchase(ctx context.Context, purchaseID int64) error
}
