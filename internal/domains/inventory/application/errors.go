package application

import (
	"errors"
	"fmt"

	"github.com/Apurer/go-order-saga/internal/domains/inventory/domain"
)

var (
	// ErrInvalidInput marks request validation failures.
	ErrInvalidInput = errors.New("invalid inventory input")
	// ErrUnknownProduct marks stock operations on products the catalog
	// has never seen.
	ErrUnknownProduct = errors.New("product does not exist in the catalog")
)

func mapError(err error) error {
	switch {
	case errors.Is(err, domain.ErrInvalidProductID),
		errors.Is(err, domain.ErrInvalidQuantity):
		return fmt.Errorf("%w: %w", ErrInvalidInput, err)
	default:
		return err
	}
}
