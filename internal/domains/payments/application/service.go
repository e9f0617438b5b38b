// Package application implements payment use cases on top of the
// repository and collaborator ports.
package application

import (
	"context"
	"errors"
	"fmt"
	"io"
	"log/slog"

	collab "github.com/Apurer/go-order-saga/internal/domains/orders/ports"
	"github.com/Apurer/go-order-saga/internal/domains/payments/domain"
	"github.com/Apurer/go-order-saga/internal/domains/payments/ports"
)

var (
	// ErrInvalidInput marks request validation failures.
	ErrInvalidInput = errors.New("invalid payment input")
	// ErrUnknownProduct marks charges against products the catalog has
	// never seen.
	ErrUnknownProduct = errors.New("product does not exist in the catalog")
	// ErrStockRejected marks charges the inventory refused to cover.
	ErrStockRejected = errors.New("inventory rejected the withdrawal")
)

var _ ports.Service = (*Service)(nil)

// Service coordinates pricing, stock withdrawal, and persistence for
// payments.
type Service struct {
	repo      ports.Repository
	catalog   ports.Catalog
	inventory ports.Inventory
	logger    *slog.Logger
}

// Option customises Service construction.
type Option func(*Service)

// WithLogger attaches a structured logger.
func WithLogger(logger *slog.Logger) Option {
	return func(s *Service) {
		if logger != nil {
			s.logger = logger
		}
	}
}

// NewService wires the payment use cases.
func NewService(repo ports.Repository, catalog ports.Catalog, inventory ports.Inventory, opts ...Option) *Service {
	s := &Service{
		repo:      repo,
		catalog:   catalog,
		inventory: inventory,
		logger:    slog.New(slog.NewTextHandler(io.Discard, nil)),
	}
	for _, opt := range opts {
		opt(s)
	}
	return s
}

// CreatePayment prices the charge from the catalog, withdraws stock,
// and stores the payment. The withdrawal happens first: a refused
// withdrawal must leave no payment behind for anyone to compensate.
func (s *Service) CreatePayment(ctx context.Context, productID int64, quantity int32, method domain.Method) (*domain.Payment, error) {
	unitPrice, err := s.catalog.GetUnitPrice(ctx, productID)
	if err != nil {
		if errors.Is(err, collab.ErrNotFound) {
			return nil, fmt.Errorf("%w: id %d", ErrUnknownProduct, productID)
		}
		return nil, fmt.Errorf("resolve unit price for product %d: %w", productID, err)
	}
	payment, err := domain.NewPayment(productID, quantity, method, unitPrice)
	if err != nil {
		return nil, fmt.Errorf("%w: %w", ErrInvalidInput, err)
	}
	if err := s.inventory.ReduceStock(ctx, productID, quantity); err != nil {
		if errors.Is(err, collab.ErrRejected) || errors.Is(err, collab.ErrNotFound) {
			return nil, fmt.Errorf("%w: %w", ErrStockRejected, err)
		}
		return nil, fmt.Errorf("withdraw stock for product %d: %w", productID, err)
	}
	stored, err := s.repo.Save(ctx, payment)
	if err != nil {
		// The withdrawal already happened. Hand the stock back so a
		// storage fault does not leak inventory.
		s.returnStock(ctx, productID, quantity)
		return nil, fmt.Errorf("store payment: %w", err)
	}
	s.logger.InfoContext(ctx, "payment created",
		slog.Int64("payment_id", stored.ID),
		slog.Int64("product_id", productID),
		slog.Float64("amount", stored.Amount))
	return stored, nil
}

// GetPayment returns a payment by identifier.
func (s *Service) GetPayment(ctx context.Context, id int64) (*domain.Payment, error) {
	if id <= 0 {
		return nil, fmt.Errorf("%w: payment id must be a positive integer", ErrInvalidInput)
	}
	return s.repo.GetByID(ctx, id)
}

// ListPayments returns every stored payment.
func (s *Service) ListPayments(ctx context.Context) ([]*domain.Payment, error) {
	return s.repo.List(ctx)
}

// DeletePayment removes a payment, treating an absent record as
// already deleted.
func (s *Service) DeletePayment(ctx context.Context, id int64) error {
	if id <= 0 {
		return fmt.Errorf("%w: payment id must be a positive integer", ErrInvalidInput)
	}
	if err := s.repo.Delete(ctx, id); err != nil {
		if errors.Is(err, ports.ErrNotFound) {
			s.logger.InfoContext(ctx, "payment already deleted", slog.Int64("payment_id", id))
			return nil
		}
		return err
	}
	return nil
}

func (s *Service) returnStock(ctx context.Context, productID int64, quantity int32) {
	if err := s.inventory.RevertStock(ctx, productID, quantity); err != nil {
		s.logger.ErrorContext(ctx, "return stock after storage fault failed",
			slog.Int64("product_id", productID),
			slog.String("error", err.Error()))
	}
}
