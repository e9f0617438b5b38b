package domain

import (
	"errors"
	"time"
)

var (
	ErrInvalidProductID = errors.New("product id must be greater than zero")
	ErrInvalidQuantity  = errors.New("quantity must be greater than zero")
	ErrInvalidMethod    = errors.New("payment method is not supported")
)

// Method is the instrument used to settle a payment.
type Method string

const (
	MethodCard         Method = "card"
	MethodWallet       Method = "wallet"
	MethodBankTransfer Method = "bank-transfer"
)

// Payment is a settled charge for a quantity of one product. Amount is
// derived from the catalog price at creation time and never recomputed.
type Payment struct {
	ID        int64
	ProductID int64
	Quantity  int32
	Method    Method
	Amount    float64
	CreatedAt time.Time
}

// NewPayment validates inputs and prices the charge.
func NewPayment(productID int64, quantity int32, method Method, unitPrice float64) (*Payment, error) {
	if productID <= 0 {
		return nil, ErrInvalidProductID
	}
	if quantity <= 0 {
		return nil, ErrInvalidQuantity
	}
	switch method {
	case MethodCard, MethodWallet, MethodBankTransfer:
	default:
		return nil, ErrInvalidMethod
	}
	return &Payment{
		ProductID: productID,
		Quantity:  quantity,
		Method:    method,
		Amount:    unitPrice * float64(quantity),
		CreatedAt: time.Now(),
	}, nil
}
