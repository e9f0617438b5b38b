// Package application implements inventory use cases on top of the
// repository and catalog ports.
package application

import (
	"context"
	"errors"
	"fmt"
	"io"
	"log/slog"

	"github.com/Apurer/go-order-saga/internal/domains/inventory/domain"
	"github.com/Apurer/go-order-saga/internal/domains/inventory/ports"
	collab "github.com/Apurer/go-order-saga/internal/domains/orders/ports"
)

var _ ports.Service = (*Service)(nil)

// Service coordinates stock levels and the movement ledger.
type Service struct {
	repo    ports.Repository
	catalog ports.ProductCatalog
	logger  *slog.Logger
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

// NewService wires the inventory use cases. The catalog gateway may be
// nil, in which case product existence is not verified on AddStock.
func NewService(repo ports.Repository, catalog ports.ProductCatalog, opts ...Option) *Service {
	s := &Service{
		repo:    repo,
		catalog: catalog,
		logger:  slog.New(slog.NewTextHandler(io.Discard, nil)),
	}
	for _, opt := range opts {
		opt(s)
	}
	return s
}

// GetStock returns the current level for a product.
func (s *Service) GetStock(ctx context.Context, productID int64) (*domain.StockLevel, error) {
	if productID <= 0 {
		return nil, mapError(domain.ErrInvalidProductID)
	}
	return s.repo.GetStock(ctx, productID)
}

// ListStocks returns every known stock level.
func (s *Service) ListStocks(ctx context.Context) ([]*domain.StockLevel, error) {
	return s.repo.ListStocks(ctx)
}

// AddStock increases the level for a product, creating it when absent.
// The product must exist in the catalog.
func (s *Service) AddStock(ctx context.Context, productID int64, quantity int32) (*domain.StockLevel, error) {
	movement, err := domain.NewMovement(productID, quantity, domain.DirectionIn)
	if err != nil {
		return nil, mapError(err)
	}
	if s.catalog != nil {
		if _, err := s.catalog.GetUnitPrice(ctx, productID); err != nil {
			if errors.Is(err, collab.ErrNotFound) {
				return nil, fmt.Errorf("%w: id %d", ErrUnknownProduct, productID)
			}
			return nil, fmt.Errorf("verify product %d: %w", productID, err)
		}
	}
	level, err := s.repo.AddStock(ctx, productID, quantity)
	if err != nil {
		return nil, err
	}
	s.appendMovement(ctx, movement)
	return level, nil
}

// ReduceStock withdraws quantity for a sale in flight.
func (s *Service) ReduceStock(ctx context.Context, productID int64, quantity int32) (*domain.StockLevel, error) {
	movement, err := domain.NewMovement(productID, quantity, domain.DirectionOut)
	if err != nil {
		return nil, mapError(err)
	}
	level, err := s.repo.ReduceStock(ctx, productID, quantity)
	if err != nil {
		return nil, err
	}
	s.appendMovement(ctx, movement)
	return level, nil
}

// RevertStock returns a previous withdrawal to stock. The repository
// clamps the applied quantity to the outstanding withdrawals in one
// atomic section, so a retried or overlapping compensation can never
// inflate the level; once nothing is left to revert the call is a
// no-op success.
func (s *Service) RevertStock(ctx context.Context, productID int64, quantity int32) (*domain.StockLevel, error) {
	if productID <= 0 {
		return nil, mapError(domain.ErrInvalidProductID)
	}
	if quantity <= 0 {
		return nil, mapError(domain.ErrInvalidQuantity)
	}
	level, applied, err := s.repo.RevertStock(ctx, productID, quantity)
	if err != nil {
		return nil, err
	}
	switch {
	case applied == 0:
		s.logger.InfoContext(ctx, "revert skipped, nothing outstanding",
			slog.Int64("product_id", productID),
			slog.Int("requested", int(quantity)))
	case applied < quantity:
		s.logger.InfoContext(ctx, "revert clamped to outstanding withdrawals",
			slog.Int64("product_id", productID),
			slog.Int("requested", int(quantity)),
			slog.Int("applied", int(applied)))
	}
	return level, nil
}

// appendMovement records the ledger entry. The level change already
// happened, so a ledger write failure is logged rather than surfaced.
func (s *Service) appendMovement(ctx context.Context, movement *domain.Movement) {
	if err := s.repo.AppendMovement(ctx, movement); err != nil {
		s.logger.ErrorContext(ctx, "append stock movement failed",
			slog.Int64("product_id", movement.ProductID),
			slog.String("direction", string(movement.Direction)),
			slog.String("error", err.Error()))
	}
}
