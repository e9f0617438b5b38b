package ports

import (
	"context"
	"errors"

	"github.com/Apurer/go-order-saga/internal/domains/inventory/domain"
)

var ErrNotFound = errors.New("stock record not found")

// Repository persists stock levels and the movement ledger. Level
// adjustments are atomic per product: concurrent withdrawals can never
// drive a quantity negative.
type Repository interface {
	GetStock(ctx context.Context, productID int64) (*domain.StockLevel, error)
	ListStocks(ctx context.Context) ([]*domain.StockLevel, error)
	// AddStock upserts the level, creating it at zero first when absent.
	AddStock(ctx context.Context, productID int64, quantity int32) (*domain.StockLevel, error)
	// ReduceStock withdraws quantity, failing with
	// domain.ErrInsufficientStock when the level cannot cover it.
	ReduceStock(ctx context.Context, productID int64, quantity int32) (*domain.StockLevel, error)
	// RevertStock returns withdrawn quantity to an existing level. The
	// applied amount is clamped to the ledger's outstanding withdrawals
	// (sum of out minus sum of revert) and the revert movement is
	// recorded in the same atomic section, so overlapping reverts can
	// never inflate the level. Returns the resulting level and the
	// quantity actually applied; zero applied is a no-op success.
	RevertStock(ctx context.Context, productID int64, quantity int32) (*domain.StockLevel, int32, error)
	AppendMovement(ctx context.Context, movement *domain.Movement) error
	SumMovements(ctx context.Context, productID int64, direction domain.Direction) (int64, error)
}
