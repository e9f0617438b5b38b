package domain

import (
	"errors"
	"time"
)

var (
	ErrInvalidProductID  = errors.New("product id must be greater than zero")
	ErrInvalidQuantity   = errors.New("quantity must be greater than zero")
	ErrInsufficientStock = errors.New("insufficient stock for this withdrawal")
)

// Direction classifies a stock movement in the ledger.
type Direction string

const (
	// DirectionIn records stock added by an operator.
	DirectionIn Direction = "in"
	// DirectionOut records a withdrawal (a sale in flight).
	DirectionOut Direction = "out"
	// DirectionRevert records a compensated withdrawal returned to stock.
	DirectionRevert Direction = "revert"
)

// StockLevel is the current quantity held for a product.
type StockLevel struct {
	ProductID int64
	Quantity  int32
	UpdatedAt time.Time
}

// Movement is one append-only ledger entry. Reverts are clamped so the
// sum of reverts never exceeds the sum of withdrawals for a product.
type Movement struct {
	ID         int64
	ProductID  int64
	Quantity   int32
	Direction  Direction
	RecordedAt time.Time
}

// NewMovement validates and constructs a ledger entry.
func NewMovement(productID int64, quantity int32, direction Direction) (*Movement, error) {
	if productID <= 0 {
		return nil, ErrInvalidProductID
	}
	if quantity <= 0 {
		return nil, ErrInvalidQuantity
	}
	switch direction {
	case DirectionIn, DirectionOut, DirectionRevert:
	default:
		return nil, errors.New("movement direction is invalid")
	}
	return &Movement{
		ProductID:  productID,
		Quantity:   quantity,
		Direction:  direction,
		RecordedAt: time.Now(),
	}, nil
}
