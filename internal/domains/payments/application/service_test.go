package application

import (
	"context"
	"errors"
	"testing"

	"github.com/stretchr/testify/require"

	collab "github.com/Apurer/go-order-saga/internal/domains/orders/ports"
	"github.com/Apurer/go-order-saga/internal/domains/payments/adapters/memory"
	"github.com/Apurer/go-order-saga/internal/domains/payments/domain"
	"github.com/Apurer/go-order-saga/internal/domains/payments/ports"
)

type stubCatalog struct {
	price float64
	err   error
}

func (s *stubCatalog) GetUnitPrice(context.Context, int64) (float64, error) {
	if s.err != nil {
		return 0, s.err
	}
	return s.price, nil
}

type stubInventory struct {
	reduceErr   error
	reduceCalls int
	revertCalls int
}

func (s *stubInventory) ReduceStock(context.Context, int64, int32) error {
	s.reduceCalls++
	return s.reduceErr
}

func (s *stubInventory) RevertStock(context.Context, int64, int32) error {
	s.revertCalls++
	return nil
}

type failingRepo struct {
	ports.Repository
}

func (failingRepo) Save(context.Context, *domain.Payment) (*domain.Payment, error) {
	return nil, errors.New("disk full")
}

func TestCreatePayment_PricesAndStores(t *testing.T) {
	repo := memory.NewRepository()
	inventory := &stubInventory{}
	svc := NewService(repo, &stubCatalog{price: 25.5}, inventory)

	payment, err := svc.CreatePayment(context.Background(), 42, 3, domain.MethodCard)
	require.NoError(t, err)
	require.Equal(t, int64(1), payment.ID)
	require.InDelta(t, 76.5, payment.Amount, 1e-9)
	require.Equal(t, 1, inventory.reduceCalls)

	stored, err := svc.GetPayment(context.Background(), payment.ID)
	require.NoError(t, err)
	require.Equal(t, payment.Amount, stored.Amount)
}

func TestCreatePayment_UnknownProduct(t *testing.T) {
	inventory := &stubInventory{}
	svc := NewService(memory.NewRepository(), &stubCatalog{err: collab.ErrNotFound}, inventory)

	_, err := svc.CreatePayment(context.Background(), 42, 3, domain.MethodCard)
	require.ErrorIs(t, err, ErrUnknownProduct)
	require.Zero(t, inventory.reduceCalls)
}

func TestCreatePayment_InvalidMethod(t *testing.T) {
	inventory := &stubInventory{}
	svc := NewService(memory.NewRepository(), &stubCatalog{price: 10}, inventory)

	_, err := svc.CreatePayment(context.Background(), 42, 3, domain.Method("cheque"))
	require.ErrorIs(t, err, ErrInvalidInput)
	require.Zero(t, inventory.reduceCalls)
}

func TestCreatePayment_StockRejected_NothingStored(t *testing.T) {
	repo := memory.NewRepository()
	inventory := &stubInventory{reduceErr: collab.ErrRejected}
	svc := NewService(repo, &stubCatalog{price: 10}, inventory)

	_, err := svc.CreatePayment(context.Background(), 42, 3, domain.MethodCard)
	require.ErrorIs(t, err, ErrStockRejected)

	payments, err := svc.ListPayments(context.Background())
	require.NoError(t, err)
	require.Empty(t, payments)
}

func TestCreatePayment_StorageFaultReturnsStock(t *testing.T) {
	inventory := &stubInventory{}
	svc := NewService(failingRepo{}, &stubCatalog{price: 10}, inventory)

	_, err := svc.CreatePayment(context.Background(), 42, 3, domain.MethodCard)
	require.Error(t, err)
	require.Equal(t, 1, inventory.reduceCalls)
	require.Equal(t, 1, inventory.revertCalls)
}

func TestDeletePayment_Idempotent(t *testing.T) {
	repo := memory.NewRepository()
	svc := NewService(repo, &stubCatalog{price: 10}, &stubInventory{})

	payment, err := svc.CreatePayment(context.Background(), 42, 3, domain.MethodCard)
	require.NoError(t, err)

	require.NoError(t, svc.DeletePayment(context.Background(), payment.ID))
	// Second deletion finds nothing and still succeeds.
	require.NoError(t, svc.DeletePayment(context.Background(), payment.ID))

	_, err = svc.GetPayment(context.Background(), payment.ID)
	require.ErrorIs(t, err, ports.ErrNotFound)
}
