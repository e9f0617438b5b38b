package application

import (
	"context"
	"errors"
	"sync"
	"testing"
	"time"

	"github.com/stretchr/testify/require"

	cachememory "github.com/Apurer/go-order-saga/internal/domains/orders/adapters/cache/memory"
	"github.com/Apurer/go-order-saga/internal/domains/orders/domain"
	"github.com/Apurer/go-order-saga/internal/domains/orders/ports"
)

type revertCall struct {
	productID int64
	quantity  int32
}

// fakeCollaborators implements all four client ports with programmable
// failures and per-call counters.
type fakeCollaborators struct {
	mu sync.Mutex

	stock     int32
	stockErrs []error
	price     float64
	priceErrs []error

	paymentID   int64
	paymentErr  error
	purchaseID  int64
	purchaseErr error

	deletePaymentErr error
	revertErr        error

	stockCalls          int
	priceCalls          int
	createPaymentCalls  int
	createPurchaseCalls int
	deletedPayments     []int64
	deletedPurchases    []int64
	reverts             []revertCall
}

func newFakeCollaborators() *fakeCollaborators {
	return &fakeCollaborators{stock: 100, price: 25.5, paymentID: 7, purchaseID: 11}
}

func (f *fakeCollaborators) clients() Clients {
	return Clients{Catalog: f, Inventory: f, Payments: f, Purchases: f}
}

func (f *fakeCollaborators) nextErr(errs *[]error) error {
	if len(*errs) == 0 {
		return nil
	}
	err := (*errs)[0]
	*errs = (*errs)[1:]
	return err
}

func (f *fakeCollaborators) GetUnitPrice(_ context.Context, _ int64) (float64, error) {
	f.mu.Lock()
	defer f.mu.Unlock()
	f.priceCalls++
	if err := f.nextErr(&f.priceErrs); err != nil {
		return 0, err
	}
	return f.price, nil
}

func (f *fakeCollaborators) GetStockQuantity(_ context.Context, _ int64) (int32, error) {
	f.mu.Lock()
	defer f.mu.Unlock()
	f.stockCalls++
	if err := f.nextErr(&f.stockErrs); err != nil {
		return 0, err
	}
	return f.stock, nil
}

func (f *fakeCollaborators) RevertStock(_ context.Context, productID int64, quantity int32) error {
	f.mu.Lock()
	defer f.mu.Unlock()
	f.reverts = append(f.reverts, revertCall{productID: productID, quantity: quantity})
	return f.revertErr
}

func (f *fakeCollaborators) CreatePayment(_ context.Context, _ ports.CreatePaymentRequest) (int64, error) {
	f.mu.Lock()
	defer f.mu.Unlock()
	f.createPaymentCalls++
	if f.paymentErr != nil {
		return 0, f.paymentErr
	}
	return f.paymentID, nil
}

func (f *fakeCollaborators) DeletePayment(_ context.Context, paymentID int64) error {
	f.mu.Lock()
	defer f.mu.Unlock()
	f.deletedPayments = append(f.deletedPayments, paymentID)
	return f.deletePaymentErr
}

func (f *fakeCollaborators) CreatePurchase(_ context.Context, _ ports.CreatePurchaseRequest) (int64, error) {
	f.mu.Lock()
	defer f.mu.Unlock()
	f.createPurchaseCalls++
	if f.purchaseErr != nil {
		return 0, f.purchaseErr
	}
	return f.purchaseID, nil
}

func (f *fakeCollaborators) DeletePurchase(_ context.Context, purchaseID int64) error {
	f.mu.Lock()
	defer f.mu.Unlock()
	f.deletedPurchases = append(f.deletedPurchases, purchaseID)
	return nil
}

// brokenCache fails every operation; the saga must treat it as absent.
type brokenCache struct{}

func (brokenCache) Get(context.Context, string) (float64, bool, error) {
	return 0, false, errors.New("cache down")
}
func (brokenCache) Set(context.Context, string, float64, time.Duration) error {
	return errors.New("cache down")
}
func (brokenCache) Invalidate(context.Context, string) error {
	return errors.New("cache down")
}

// invalidateRecordingCache captures the context state seen by each
// Invalidate call.
type invalidateRecordingCache struct {
	ports.Cache

	mu            sync.Mutex
	invalidateErr []error
}

func (c *invalidateRecordingCache) Invalidate(ctx context.Context, key string) error {
	c.mu.Lock()
	c.invalidateErr = append(c.invalidateErr, ctx.Err())
	c.mu.Unlock()
	return c.Cache.Invalidate(ctx, key)
}

func validInput() ports.CreateOrderInput {
	return ports.CreateOrderInput{
		ProductID:      42,
		Quantity:       3,
		PaymentMethod:  "card",
		MailingAddress: "1 Main St",
	}
}

func TestCreateOrder_Commits(t *testing.T) {
	collab := newFakeCollaborators()
	cache := cachememory.NewCache()
	svc := NewService(collab.clients(), cache)

	confirmation, err := svc.CreateOrder(context.Background(), validInput())
	require.NoError(t, err)
	require.Equal(t, domain.StateCommitted, confirmation.State)
	require.NotEmpty(t, confirmation.OrderID)
	require.Equal(t, int64(7), confirmation.PaymentID)
	require.Equal(t, int64(11), confirmation.PurchaseID)
	require.Equal(t, 25.5, confirmation.UnitPrice)
	require.InDelta(t, 76.5, confirmation.TotalPrice, 1e-9)

	require.Equal(t, 1, collab.createPaymentCalls)
	require.Equal(t, 1, collab.createPurchaseCalls)
	require.Empty(t, collab.deletedPayments)
	require.Empty(t, collab.deletedPurchases)
	require.Empty(t, collab.reverts)

	// Commit invalidates the stock entry but keeps the price entry.
	_, ok, err := cache.Get(context.Background(), ports.StockKey(42))
	require.NoError(t, err)
	require.False(t, ok)
	price, ok, err := cache.Get(context.Background(), ports.PriceKey(42))
	require.NoError(t, err)
	require.True(t, ok)
	require.Equal(t, 25.5, price)
}

func TestCreateOrder_ReadsThroughCache(t *testing.T) {
	collab := newFakeCollaborators()
	cache := cachememory.NewCache()
	svc := NewService(collab.clients(), cache)

	_, err := svc.CreateOrder(context.Background(), validInput())
	require.NoError(t, err)
	_, err = svc.CreateOrder(context.Background(), validInput())
	require.NoError(t, err)

	// The stock entry was invalidated on the first commit, so it is
	// refetched; the price entry survives and is served from cache.
	require.Equal(t, 2, collab.stockCalls)
	require.Equal(t, 1, collab.priceCalls)
}

func TestCreateOrder_InsufficientStock_NoSideEffects(t *testing.T) {
	collab := newFakeCollaborators()
	collab.stock = 2
	svc := NewService(collab.clients(), cachememory.NewCache())

	_, err := svc.CreateOrder(context.Background(), validInput())
	require.ErrorIs(t, err, ErrInsufficientStock)

	require.Zero(t, collab.createPaymentCalls)
	require.Zero(t, collab.createPurchaseCalls)
	require.Empty(t, collab.deletedPayments)
	require.Empty(t, collab.reverts)
}

func TestCreateOrder_InvalidInput_NoCalls(t *testing.T) {
	collab := newFakeCollaborators()
	svc := NewService(collab.clients(), cachememory.NewCache())

	input := validInput()
	input.PaymentMethod = "cheque"
	_, err := svc.CreateOrder(context.Background(), input)
	require.ErrorIs(t, err, ErrInvalidInput)
	require.Zero(t, collab.stockCalls)
	require.Zero(t, collab.createPaymentCalls)
}

func TestCreateOrder_PaymentRejected_NoCompensations(t *testing.T) {
	collab := newFakeCollaborators()
	collab.paymentErr = ports.ErrRejected
	svc := NewService(collab.clients(), cachememory.NewCache())

	_, err := svc.CreateOrder(context.Background(), validInput())
	require.ErrorIs(t, err, ports.ErrRejected)

	// The payment never existed, so there is nothing to undo.
	require.Equal(t, 1, collab.createPaymentCalls)
	require.Empty(t, collab.deletedPayments)
	require.Empty(t, collab.reverts)
	require.Zero(t, collab.createPurchaseCalls)
}

func TestCreateOrder_PurchaseFails_UndoesPaymentAndStock(t *testing.T) {
	collab := newFakeCollaborators()
	collab.purchaseErr = ports.ErrRejected
	svc := NewService(collab.clients(), cachememory.NewCache())

	_, err := svc.CreateOrder(context.Background(), validInput())
	require.ErrorIs(t, err, ports.ErrRejected)

	// Exactly one deletion of the created payment, then one revert of
	// the reduced stock, in that order.
	require.Equal(t, []int64{7}, collab.deletedPayments)
	require.Equal(t, []revertCall{{productID: 42, quantity: 3}}, collab.reverts)
	require.Empty(t, collab.deletedPurchases)
}

func TestCreateOrder_CompensationFailureNotPropagated(t *testing.T) {
	collab := newFakeCollaborators()
	collab.purchaseErr = ports.ErrRejected
	collab.revertErr = ports.ErrUnavailable
	svc := NewService(collab.clients(), cachememory.NewCache(),
		WithCompensationRetry(RetryPolicy{MaxAttempts: 3}))

	_, err := svc.CreateOrder(context.Background(), validInput())

	// The caller sees the original failure, not the revert exhaustion.
	require.ErrorIs(t, err, ports.ErrRejected)
	require.NotErrorIs(t, err, ports.ErrUnavailable)
	// The failing revert was retried; the payment deletion still ran.
	require.Len(t, collab.reverts, 3)
	require.Equal(t, []int64{7}, collab.deletedPayments)
}

func TestCreateOrder_RetriesUnavailableReads(t *testing.T) {
	collab := newFakeCollaborators()
	collab.stockErrs = []error{ports.ErrUnavailable}
	collab.priceErrs = []error{ports.ErrUnavailable}
	svc := NewService(collab.clients(), cachememory.NewCache())

	confirmation, err := svc.CreateOrder(context.Background(), validInput())
	require.NoError(t, err)
	require.Equal(t, domain.StateCommitted, confirmation.State)
	require.Equal(t, 2, collab.stockCalls)
	require.Equal(t, 2, collab.priceCalls)
}

func TestCreateOrder_ProductNotFound_NotRetried(t *testing.T) {
	collab := newFakeCollaborators()
	collab.priceErrs = []error{ports.ErrNotFound, ports.ErrNotFound}
	svc := NewService(collab.clients(), cachememory.NewCache())

	_, err := svc.CreateOrder(context.Background(), validInput())
	require.ErrorIs(t, err, ports.ErrNotFound)
	require.Equal(t, 1, collab.priceCalls)
	require.Zero(t, collab.createPaymentCalls)
}

func TestCreateOrder_InvalidationSurvivesCallerDisconnect(t *testing.T) {
	collab := newFakeCollaborators()
	cache := &invalidateRecordingCache{Cache: cachememory.NewCache()}
	svc := NewService(collab.clients(), cache)

	// The inbound request is already cancelled when the saga reaches the
	// commit; the stock invalidation must still run on a live context.
	ctx, cancel := context.WithCancel(context.Background())
	cancel()
	confirmation, err := svc.CreateOrder(ctx, validInput())
	require.NoError(t, err)
	require.Equal(t, domain.StateCommitted, confirmation.State)

	require.Len(t, cache.invalidateErr, 1)
	require.NoError(t, cache.invalidateErr[0])
	_, ok, err := cache.Get(context.Background(), ports.StockKey(42))
	require.NoError(t, err)
	require.False(t, ok)
}

func TestCreateOrder_CacheFailuresDoNotFailOrder(t *testing.T) {
	collab := newFakeCollaborators()
	svc := NewService(collab.clients(), brokenCache{})

	confirmation, err := svc.CreateOrder(context.Background(), validInput())
	require.NoError(t, err)
	require.Equal(t, domain.StateCommitted, confirmation.State)
	// Every read went to the collaborator since the cache is down.
	require.Equal(t, 1, collab.stockCalls)
	require.Equal(t, 1, collab.priceCalls)
}
