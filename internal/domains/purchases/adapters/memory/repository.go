// Package memory offers an in-memory purchase repository for tests and
// local runs.
package memory

import (
	"context"
	"sort"
	"sync"

	"github.com/Apurer/go-order-saga/internal/domains/purchases/domain"
	"github.com/Apurer/go-order-saga/internal/domains/purchases/ports"
)

var _ ports.Repository = (*Repository)(nil)

// Repository keeps purchases behind a mutex.
type Repository struct {
	mu        sync.RWMutex
	purchases map[int64]*domain.Purchase
	nextID    int64
}

// NewRepository builds an empty in-memory repository.
func NewRepository() *Repository {
	return &Repository{
		purchases: make(map[int64]*domain.Purchase),
		nextID:    1,
	}
}

// Save stores a purchase, assigning an identifier when absent.
func (r *Repository) Save(_ context.Context, purchase *domain.Purchase) (*domain.Purchase, error) {
	r.mu.Lock()
	defer r.mu.Unlock()
	stored := *purchase
	if stored.ID == 0 {
		stored.ID = r.nextID
		r.nextID++
	}
	r.purchases[stored.ID] = &stored
	return clone(&stored), nil
}

// GetByID returns a copy of the purchase.
func (r *Repository) GetByID(_ context.Context, id int64) (*domain.Purchase, error) {
	r.mu.RLock()
	defer r.mu.RUnlock()
	purchase, ok := r.purchases[id]
	if !ok {
		return nil, ports.ErrNotFound
	}
	return clone(purchase), nil
}

// List returns all purchases ordered by identifier.
func (r *Repository) List(_ context.Context) ([]*domain.Purchase, error) {
	r.mu.RLock()
	defer r.mu.RUnlock()
	purchases := make([]*domain.Purchase, 0, len(r.purchases))
	for _, purchase := range r.purchases {
		purchases = append(purchases, clone(purchase))
	}
	sort.Slice(purchases, func(i, j int) bool { return purchases[i].ID < purchases[j].ID })
	return purchases, nil
}

// Delete removes a purchase by identifier.
func (r *Repository) Delete(_ context.Context, id int64) error {
	r.mu.Lock()
	defer r.mu.Unlock()
	if _, ok := r.purchases[id]; !ok {
		return ports.ErrNotFound
	}
	delete(r.purchases, id)
	return nil
}

func clone(purchase *domain.Purchase) *domain.Purchase {
	copied := *purchase
	return &copied
}
