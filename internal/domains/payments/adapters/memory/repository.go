// Package memory offers an in-memory payment repository for tests and
// local runs.
package memory

import (
	"context"
	"sort"
	"sync"

	"github.com/Apurer/go-order-saga/internal/domains/payments/domain"
	"github.com/Apurer/go-order-saga/internal/domains/payments/ports"
)

var _ ports.Repository = (*Repository)(nil)

// Repository keeps payments behind a mutex.
type Repository struct {
	mu       sync.RWMutex
	payments map[int64]*domain.Payment
	nextID   int64
}

// NewRepository builds an empty in-memory repository.
func NewRepository() *Repository {
	return &Repository{
		payments: make(map[int64]*domain.Payment),
		nextID:   1,
	}
}

// Save stores a payment, assigning an identifier when absent.
func (r *Repository) Save(_ context.Context, payment *domain.Payment) (*domain.Payment, error) {
	r.mu.Lock()
	defer r.mu.Unlock()
	stored := *payment
	if stored.ID == 0 {
		stored.ID = r.nextID
		r.nextID++
	}
	r.payments[stored.ID] = &stored
	return clone(&stored), nil
}

// GetByID returns a copy of the payment.
func (r *Repository) GetByID(_ context.Context, id int64) (*domain.Payment, error) {
	r.mu.RLock()
	defer r.mu.RUnlock()
	payment, ok := r.payments[id]
	if !ok {
		return nil, ports.ErrNotFound
	}
	return clone(payment), nil
}

// List returns all payments ordered by identifier.
func (r *Repository) List(_ context.Context) ([]*domain.Payment, error) {
	r.mu.RLock()
	defer r.mu.RUnlock()
	payments := make([]*domain.Payment, 0, len(r.payments))
	for _, payment := range r.payments {
		payments = append(payments, clone(payment))
	}
	sort.Slice(payments, func(i, j int) bool { return payments[i].ID < payments[j].ID })
	return payments, nil
}

// Delete removes a payment by identifier.
func (r *Repository) Delete(_ context.Context, id int64) error {
	r.mu.Lock()
	defer r.mu.Unlock()
	if _, ok := r.payments[id]; !ok {
		return ports.ErrNotFound
	}
	delete(r.payments, id)
	return nil
}

func clone(payment *domain.Payment) *domain.Payment {
	copied := *payment
	return &copied
}
