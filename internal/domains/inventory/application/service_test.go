package application

import (
	"context"
	"sync"
	"testing"

	"github.com/stretchr/testify/require"

	"github.com/Apurer/go-order-saga/internal/domains/inventory/adapters/memory"
	"github.com/Apurer/go-order-saga/internal/domains/inventory/domain"
	"github.com/Apurer/go-order-saga/internal/domains/inventory/ports"
	collab "github.com/Apurer/go-order-saga/internal/domains/orders/ports"
)

type stubCatalog struct {
	price float64
	err   error
	calls int
}

func (s *stubCatalog) GetUnitPrice(context.Context, int64) (float64, error) {
	s.calls++
	if s.err != nil {
		return 0, s.err
	}
	return s.price, nil
}

func newTestService(t *testing.T, catalog ports.ProductCatalog) (*Service, *memory.Repository) {
	t.Helper()
	repo := memory.NewRepository()
	return NewService(repo, catalog), repo
}

func TestAddStock_CreatesAndAccumulates(t *testing.T) {
	svc, _ := newTestService(t, &stubCatalog{price: 10})

	level, err := svc.AddStock(context.Background(), 1, 40)
	require.NoError(t, err)
	require.Equal(t, int32(40), level.Quantity)

	level, err = svc.AddStock(context.Background(), 1, 10)
	require.NoError(t, err)
	require.Equal(t, int32(50), level.Quantity)
}

func TestAddStock_UnknownProduct(t *testing.T) {
	svc, _ := newTestService(t, &stubCatalog{err: collab.ErrNotFound})

	_, err := svc.AddStock(context.Background(), 9, 5)
	require.ErrorIs(t, err, ErrUnknownProduct)

	_, err = svc.GetStock(context.Background(), 9)
	require.ErrorIs(t, err, ports.ErrNotFound)
}

func TestAddStock_InvalidQuantity(t *testing.T) {
	catalog := &stubCatalog{price: 10}
	svc, _ := newTestService(t, catalog)

	_, err := svc.AddStock(context.Background(), 1, 0)
	require.ErrorIs(t, err, ErrInvalidInput)
	require.Zero(t, catalog.calls)
}

func TestReduceStock_WithdrawsAndGuards(t *testing.T) {
	svc, _ := newTestService(t, &stubCatalog{price: 10})
	_, err := svc.AddStock(context.Background(), 1, 10)
	require.NoError(t, err)

	level, err := svc.ReduceStock(context.Background(), 1, 4)
	require.NoError(t, err)
	require.Equal(t, int32(6), level.Quantity)

	_, err = svc.ReduceStock(context.Background(), 1, 7)
	require.ErrorIs(t, err, domain.ErrInsufficientStock)

	_, err = svc.ReduceStock(context.Background(), 2, 1)
	require.ErrorIs(t, err, ports.ErrNotFound)
}

func TestRevertStock_ClampedToOutstanding(t *testing.T) {
	svc, _ := newTestService(t, &stubCatalog{price: 10})
	_, err := svc.AddStock(context.Background(), 1, 10)
	require.NoError(t, err)
	_, err = svc.ReduceStock(context.Background(), 1, 4)
	require.NoError(t, err)

	// Asking for more than was withdrawn returns only the withdrawal.
	level, err := svc.RevertStock(context.Background(), 1, 9)
	require.NoError(t, err)
	require.Equal(t, int32(10), level.Quantity)

	// Nothing outstanding: the retry is a no-op success.
	level, err = svc.RevertStock(context.Background(), 1, 4)
	require.NoError(t, err)
	require.Equal(t, int32(10), level.Quantity)
}

func TestRevertStock_PartialThenExhausted(t *testing.T) {
	svc, _ := newTestService(t, &stubCatalog{price: 10})
	_, err := svc.AddStock(context.Background(), 1, 10)
	require.NoError(t, err)
	_, err = svc.ReduceStock(context.Background(), 1, 6)
	require.NoError(t, err)

	level, err := svc.RevertStock(context.Background(), 1, 2)
	require.NoError(t, err)
	require.Equal(t, int32(6), level.Quantity)

	level, err = svc.RevertStock(context.Background(), 1, 10)
	require.NoError(t, err)
	require.Equal(t, int32(10), level.Quantity)
}

func TestRevertStock_OverlappingRetriesDoNotInflate(t *testing.T) {
	svc, _ := newTestService(t, &stubCatalog{price: 10})
	_, err := svc.AddStock(context.Background(), 1, 10)
	require.NoError(t, err)
	_, err = svc.ReduceStock(context.Background(), 1, 6)
	require.NoError(t, err)

	// A client-timeout retry racing its first attempt: every call asks
	// for the full withdrawal, only one may win it.
	var wg sync.WaitGroup
	errs := make(chan error, 8)
	for i := 0; i < 8; i++ {
		wg.Add(1)
		go func() {
			defer wg.Done()
			_, err := svc.RevertStock(context.Background(), 1, 6)
			errs <- err
		}()
	}
	wg.Wait()
	close(errs)
	for err := range errs {
		require.NoError(t, err)
	}

	level, err := svc.GetStock(context.Background(), 1)
	require.NoError(t, err)
	require.Equal(t, int32(10), level.Quantity)
}

func TestLedger_TracksDirections(t *testing.T) {
	svc, repo := newTestService(t, &stubCatalog{price: 10})
	ctx := context.Background()
	_, err := svc.AddStock(ctx, 1, 10)
	require.NoError(t, err)
	_, err = svc.ReduceStock(ctx, 1, 3)
	require.NoError(t, err)
	_, err = svc.RevertStock(ctx, 1, 3)
	require.NoError(t, err)

	in, err := repo.SumMovements(ctx, 1, domain.DirectionIn)
	require.NoError(t, err)
	require.Equal(t, int64(10), in)
	out, err := repo.SumMovements(ctx, 1, domain.DirectionOut)
	require.NoError(t, err)
	require.Equal(t, int64(3), out)
	reverted, err := repo.SumMovements(ctx, 1, domain.DirectionRevert)
	require.NoError(t, err)
	require.Equal(t, int64(3), reverted)
}
