// Package application implements purchase record use cases.
package application

import (
	"context"
	"errors"
	"fmt"
	"io"
	"log/slog"

	"github.com/Apurer/go-order-saga/internal/domains/purchases/domain"
	"github.com/Apurer/go-order-saga/internal/domains/purchases/ports"
)

// ErrInvalidInput marks request validation failures.
var ErrInvalidInput = errors.New("invalid purchase input")

var _ ports.Service = (*Service)(nil)

// Service coordinates purchase record persistence.
type Service struct {
	repo   ports.Repository
	logger *slog.Logger
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

// NewService wires the purchase use cases.
func NewService(repo ports.Repository, opts ...Option) *Service {
	s := &Service{
		repo:   repo,
		logger: slog.New(slog.NewTextHandler(io.Discard, nil)),
	}
	for _, opt := range opts {
		opt(s)
	}
	return s
}

// CreatePurchase validates and stores the fulfilment record.
func (s *Service) CreatePurchase(ctx context.Context, productID int64, quantity int32, totalPrice float64, paymentMethod, mailingAddress string) (*domain.Purchase, error) {
	purchase, err := domain.NewPurchase(productID, quantity, totalPrice, paymentMethod, mailingAddress)
	if err != nil {
		return nil, fmt.Errorf("%w: %w", ErrInvalidInput, err)
	}
	stored, err := s.repo.Save(ctx, purchase)
	if err != nil {
		return nil, fmt.Errorf("store purchase: %w", err)
	}
	s.logger.InfoContext(ctx, "purchase created",
		slog.Int64("purchase_id", stored.ID),
		slog.Int64("product_id", productID))
	return stored, nil
}

// GetPurchase returns a record by identifier.
func (s *Service) GetPurchase(ctx context.Context, id int64) (*domain.Purchase, error) {
	if id <= 0 {
		return nil, fmt.Errorf("%w: purchase id must be a positive integer", ErrInvalidInput)
	}
	return s.repo.GetByID(ctx, id)
}

// ListPurchases returns every stored record.
func (s *Service) ListPurchases(ctx context.Context) ([]*domain.Purchase, error) {
	return s.repo.List(ctx)
}

// DeletePurchase removes a record, treating an absent one as already
// deleted.
func (s *Service) DeletePurchase(ctx context.Context, id int64) error {
	if id <= 0 {
		return fmt.Errorf("%w: purchase id must be a positive integer", ErrInvalidInput)
	}
	if err := s.repo.Delete(ctx, id); err != nil {
		if errors.Is(err, ports.ErrNotFound) {
			s.logger.InfoContext(ctx, "purchase already deleted", slog.Int64("purchase_id", id))
			return nil
		}
		return err
	}
	return nil
}
