// Package memory offers an in-memory inventory repository for tests
// and local runs.
package memory

import (
	"context"
	"sort"
	"sync"
	"time"

	"github.com/Apurer/go-order-saga/internal/domains/inventory/domain"
	"github.com/Apurer/go-order-saga/internal/domains/inventory/ports"
)

var _ ports.Repository = (*Repository)(nil)

// Repository keeps stock levels and movements behind a mutex.
type Repository struct {
	mu        sync.RWMutex
	levels    map[int64]*domain.StockLevel
	movements []*domain.Movement
	nextID    int64
}

// NewRepository builds an empty in-memory repository.
func NewRepository() *Repository {
	return &Repository{
		levels: make(map[int64]*domain.StockLevel),
		nextID: 1,
	}
}

// GetStock returns a copy of the level for a product.
func (r *Repository) GetStock(_ context.Context, productID int64) (*domain.StockLevel, error) {
	r.mu.RLock()
	defer r.mu.RUnlock()
	level, ok := r.levels[productID]
	if !ok {
		return nil, ports.ErrNotFound
	}
	return cloneLevel(level), nil
}

// ListStocks returns all levels ordered by product id.
func (r *Repository) ListStocks(_ context.Context) ([]*domain.StockLevel, error) {
	r.mu.RLock()
	defer r.mu.RUnlock()
	levels := make([]*domain.StockLevel, 0, len(r.levels))
	for _, level := range r.levels {
		levels = append(levels, cloneLevel(level))
	}
	sort.Slice(levels, func(i, j int) bool { return levels[i].ProductID < levels[j].ProductID })
	return levels, nil
}

// AddStock upserts the level for a product.
func (r *Repository) AddStock(_ context.Context, productID int64, quantity int32) (*domain.StockLevel, error) {
	r.mu.Lock()
	defer r.mu.Unlock()
	level, ok := r.levels[productID]
	if !ok {
		level = &domain.StockLevel{ProductID: productID}
		r.levels[productID] = level
	}
	level.Quantity += quantity
	level.UpdatedAt = time.Now()
	return cloneLevel(level), nil
}

// ReduceStock withdraws quantity if the level covers it.
func (r *Repository) ReduceStock(_ context.Context, productID int64, quantity int32) (*domain.StockLevel, error) {
	r.mu.Lock()
	defer r.mu.Unlock()
	level, ok := r.levels[productID]
	if !ok {
		return nil, ports.ErrNotFound
	}
	if level.Quantity < quantity {
		return nil, domain.ErrInsufficientStock
	}
	level.Quantity -= quantity
	level.UpdatedAt = time.Now()
	return cloneLevel(level), nil
}

// RevertStock returns withdrawn quantity to the level. The clamp
// against outstanding withdrawals, the level update, and the ledger
// entry all happen under one lock so overlapping reverts serialize.
func (r *Repository) RevertStock(_ context.Context, productID int64, quantity int32) (*domain.StockLevel, int32, error) {
	r.mu.Lock()
	defer r.mu.Unlock()
	level, ok := r.levels[productID]
	if !ok {
		return nil, 0, ports.ErrNotFound
	}
	outstanding := r.sumLocked(productID, domain.DirectionOut) - r.sumLocked(productID, domain.DirectionRevert)
	applied := int64(quantity)
	if applied > outstanding {
		applied = outstanding
	}
	if applied <= 0 {
		return cloneLevel(level), 0, nil
	}
	level.Quantity += int32(applied)
	level.UpdatedAt = time.Now()
	r.movements = append(r.movements, &domain.Movement{
		ID:         r.nextID,
		ProductID:  productID,
		Quantity:   int32(applied),
		Direction:  domain.DirectionRevert,
		RecordedAt: time.Now(),
	})
	r.nextID++
	return cloneLevel(level), int32(applied), nil
}

// AppendMovement records one ledger entry.
func (r *Repository) AppendMovement(_ context.Context, movement *domain.Movement) error {
	r.mu.Lock()
	defer r.mu.Unlock()
	entry := *movement
	entry.ID = r.nextID
	r.nextID++
	r.movements = append(r.movements, &entry)
	return nil
}

// SumMovements totals ledger quantities for a product and direction.
func (r *Repository) SumMovements(_ context.Context, productID int64, direction domain.Direction) (int64, error) {
	r.mu.RLock()
	defer r.mu.RUnlock()
	return r.sumLocked(productID, direction), nil
}

func (r *Repository) sumLocked(productID int64, direction domain.Direction) int64 {
	var total int64
	for _, movement := range r.movements {
		if movement.ProductID == productID && movement.Direction == direction {
			total += int64(movement.Quantity)
		}
	}
	return total
}

func cloneLevel(level *domain.StockLevel) *domain.StockLevel {
	clone := *level
	return &clone
}
