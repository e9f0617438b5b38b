package application

import (
	"errors"
	"fmt"

	"github.com/Apurer/go-order-saga/internal/domains/orders/domain"
)

var (
	// ErrInvalidInput signals the request violated a domain invariant and
	// was rejected before any remote call.
	ErrInvalidInput = errors.New("invalid order input")

	// ErrInsufficientStock signals the advisory stock check failed. No
	// remote mutation has happened, so no compensation is owed.
	ErrInsufficientStock = errors.New("insufficient stock")
)

func mapError(err error) error {
	if err == nil {
		return nil
	}
	if errors.Is(err, domain.ErrInvalidProductID) ||
		errors.Is(err, domain.ErrInvalidQuantity) ||
		errors.Is(err, domain.ErrInvalidPaymentMethod) ||
		errors.Is(err, domain.ErrEmptyMailingAddress) {
		return fmt.Errorf("%w: %w", ErrInvalidInput, err)
	}
	return err
}
