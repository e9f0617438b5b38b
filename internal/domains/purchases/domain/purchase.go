package domain

import (
	"errors"
	"strings"
	"time"
)

var (
	ErrInvalidProductID  = errors.New("product id must be greater than zero")
	ErrInvalidQuantity   = errors.New("quantity must be greater than zero")
	ErrInvalidTotalPrice = errors.New("total price must be greater than zero")
	ErrEmptyAddress      = errors.New("mailing address must not be empty")
)

// Purchase is the fulfilment record written once an order is paid. The
// payment method is recorded as reported by the payment service and not
// re-validated here.
type Purchase struct {
	ID             int64
	ProductID      int64
	Quantity       int32
	TotalPrice     float64
	PaymentMethod  string
	MailingAddress string
	PurchasedAt    time.Time
}

// NewPurchase validates inputs and constructs the record.
func NewPurchase(productID int64, quantity int32, totalPrice float64, paymentMethod, mailingAddress string) (*Purchase, error) {
	if productID <= 0 {
		return nil, ErrInvalidProductID
	}
	if quantity <= 0 {
		return nil, ErrInvalidQuantity
	}
	if totalPrice <= 0 {
		return nil, ErrInvalidTotalPrice
	}
	mailingAddress = strings.TrimSpace(mailingAddress)
	if mailingAddress == "" {
		return nil, ErrEmptyAddress
	}
	return &Purchase{
		ProductID:      productID,
		Quantity:       quantity,
		TotalPrice:     totalPrice,
		PaymentMethod:  strings.TrimSpace(paymentMethod),
		MailingAddress: mailingAddress,
		PurchasedAt:    time.Now(),
	}, nil
}
