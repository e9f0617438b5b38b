package application

import (
	"context"
	"fmt"
	"io"
	"log/slog"
	"time"

	"github.com/google/uuid"

	"github.com/Apurer/go-order-saga/internal/domains/orders/domain"
	"github.com/Apurer/go-order-saga/internal/domains/orders/ports"
)

const (
	defaultCacheTTL        = 30 * time.Second
	defaultMutationTimeout = 10 * time.Second
)

// Clients bundles the four collaborator clients the saga drives.
type Clients struct {
	Catalog   ports.CatalogClient
	Inventory ports.InventoryClient
	Payments  ports.PaymentClient
	Purchases ports.PurchaseClient
}

// Service drives an order through the saga: advisory stock check, price
// resolution, payment, purchase record, cache invalidation. On a failed
// forward step it undoes completed steps in reverse order.
type Service struct {
	clients Clients
	cache   ports.Cache
	logger  *slog.Logger

	readRetry       RetryPolicy
	undoRetry       RetryPolicy
	cacheTTL        time.Duration
	mutationTimeout time.Duration
}

type Option func(*Service)

// WithLogger injects a slog logger.
func WithLogger(logger *slog.Logger) Option {
	return func(s *Service) {
		if logger != nil {
			s.logger = logger
		}
	}
}

// WithReadRetry overrides the policy for stock/price reads.
func WithReadRetry(policy RetryPolicy) Option {
	return func(s *Service) { s.readRetry = policy }
}

// WithCompensationRetry overrides the policy for compensating calls.
func WithCompensationRetry(policy RetryPolicy) Option {
	return func(s *Service) { s.undoRetry = policy }
}

// WithCacheTTL overrides the ttl applied on cache fills.
func WithCacheTTL(ttl time.Duration) Option {
	return func(s *Service) {
		if ttl > 0 {
			s.cacheTTL = ttl
		}
	}
}

// WithMutationTimeout bounds the detached context used for remote
// mutations and compensations.
func WithMutationTimeout(timeout time.Duration) Option {
	return func(s *Service) {
		if timeout > 0 {
			s.mutationTimeout = timeout
		}
	}
}

// NewService wires the saga orchestrator with its collaborators.
func NewService(clients Clients, cache ports.Cache, opts ...Option) *Service {
	s := &Service{
		clients: clients,
		cache:   cache,
		logger:  slog.New(slog.NewTextHandler(io.Discard, nil)),
		// Reads get one retry attempt; they are idempotent.
		readRetry:       RetryPolicy{MaxAttempts: 2},
		undoRetry:       RetryPolicy{MaxAttempts: 3, Delay: 100 * time.Millisecond},
		cacheTTL:        defaultCacheTTL,
		mutationTimeout: defaultMutationTimeout,
	}
	for _, opt := range opts {
		if opt != nil {
			opt(s)
		}
	}
	return s
}

// compensation is a queued undo action for a completed forward step.
type compensation struct {
	name string
	run  func(ctx context.Context) error
}

// sagaRun is the per-request coordinator state. It is never shared
// between requests.
type sagaRun struct {
	id            string
	state         domain.State
	intent        *domain.OrderIntent
	compensations []compensation
}

func (r *sagaRun) advance(state domain.State) {
	r.state = state
}

// pushUndo queues an undo action. Compensations execute in reverse push
// order, so actions for later steps run before those of earlier steps.
func (r *sagaRun) pushUndo(name string, run func(ctx context.Context) error) {
	r.compensations = append(r.compensations, compensation{name: name, run: run})
}

// CreateOrder runs one saga to completion. The caller always receives a
// terminal outcome: a committed confirmation or the first failure.
func (s *Service) CreateOrder(ctx context.Context, input ports.CreateOrderInput) (*ports.OrderConfirmation, error) {
	intent, err := domain.NewOrderIntent(input.ProductID, input.Quantity, domain.PaymentMethod(input.PaymentMethod), input.MailingAddress)
	if err != nil {
		return nil, mapError(err)
	}
	run := &sagaRun{id: uuid.NewString(), state: domain.StateInit, intent: intent}
	logger := s.logger.With(slog.String("saga.id", run.id), slog.Int64("product.id", intent.ProductID))

	// Step 1: advisory stock check through the cache.
	stock, err := s.stockThroughCache(ctx, intent.ProductID)
	if err != nil {
		return nil, s.abort(ctx, logger, run, fmt.Errorf("check stock: %w", err))
	}
	intent.StockSnapshot = stock
	if !intent.CoversQuantity() {
		run.advance(domain.StateFailed)
		return nil, fmt.Errorf("%w: have %d, want %d", ErrInsufficientStock, intent.StockSnapshot, intent.Quantity)
	}
	run.advance(domain.StateStockChecked)

	// Step 2: price resolution through the cache.
	unitPrice, err := s.priceThroughCache(ctx, intent.ProductID)
	if err != nil {
		return nil, s.abort(ctx, logger, run, fmt.Errorf("resolve price: %w", err))
	}
	intent.ResolvePrice(unitPrice)
	run.advance(domain.StatePriceResolved)

	// Step 3: payment. Not retried: a duplicate attempt could double
	// charge. The payment service reduces stock as part of this call, so
	// undoing it means deleting the payment and reverting the reduction.
	paymentID, err := s.createPayment(ctx, intent)
	if err != nil {
		return nil, s.abort(ctx, logger, run, fmt.Errorf("create payment: %w", err))
	}
	intent.PaymentID = paymentID
	run.pushUndo("revert stock", func(ctx context.Context) error {
		return s.clients.Inventory.RevertStock(ctx, intent.ProductID, intent.Quantity)
	})
	run.pushUndo("delete payment", func(ctx context.Context) error {
		return s.clients.Payments.DeletePayment(ctx, paymentID)
	})
	run.advance(domain.StatePaymentCreated)
	logger.Info("payment created", slog.Int64("payment.id", paymentID), slog.Float64("order.total", intent.TotalPrice))

	// Step 4: purchase record.
	purchaseID, err := s.createPurchase(ctx, intent)
	if err != nil {
		return nil, s.abort(ctx, logger, run, fmt.Errorf("create purchase: %w", err))
	}
	intent.PurchaseID = purchaseID
	run.pushUndo("delete purchase", func(ctx context.Context) error {
		return s.clients.Purchases.DeletePurchase(ctx, purchaseID)
	})
	run.advance(domain.StatePurchaseCreated)

	// Step 5: commit. The stock entry is stale now; drop it so the next
	// feasibility check observes the mutated remote state. Runs detached
	// like the mutations: a client disconnect after the purchase landed
	// must not leave the stale entry behind for the TTL.
	invalidateCtx, cancelInvalidate := context.WithTimeout(context.WithoutCancel(ctx), s.mutationTimeout)
	if err := s.cache.Invalidate(invalidateCtx, ports.StockKey(intent.ProductID)); err != nil {
		logger.Warn("failed to invalidate stock cache entry", slog.String("error", err.Error()))
	}
	cancelInvalidate()
	run.advance(domain.StateCommitted)
	logger.Info("order committed", slog.Int64("purchase.id", purchaseID))

	return &ports.OrderConfirmation{
		OrderID:    run.id,
		State:      run.state,
		ProductID:  intent.ProductID,
		Quantity:   intent.Quantity,
		UnitPrice:  intent.UnitPrice,
		TotalPrice: intent.TotalPrice,
		PaymentID:  intent.PaymentID,
		PurchaseID: intent.PurchaseID,
	}, nil
}

// abort records the failure, undoes completed steps, and returns the
// original error. Compensation failures are logged, never propagated: the
// caller's response is determined by the first failure alone.
func (s *Service) abort(ctx context.Context, logger *slog.Logger, run *sagaRun, cause error) error {
	if len(run.compensations) > 0 {
		run.advance(domain.StateCompensating)
		s.compensate(ctx, logger, run)
	}
	run.advance(domain.StateFailed)
	logger.Warn("order saga aborted", slog.String("error", cause.Error()))
	return cause
}

// compensate undoes completed steps in reverse completion order. Each
// action is retried; exhaustion raises an operational alarm in the log.
// Runs on a detached context so a cancelled inbound request cannot leave
// a remote mutation without its undo.
func (s *Service) compensate(ctx context.Context, logger *slog.Logger, run *sagaRun) {
	undoCtx, cancel := context.WithTimeout(context.WithoutCancel(ctx), s.mutationTimeout)
	defer cancel()
	for i := len(run.compensations) - 1; i >= 0; i-- {
		action := run.compensations[i]
		if err := s.undoRetry.Run(undoCtx, action.name, action.run); err != nil {
			logger.Error("compensation failed, manual follow-up required",
				slog.String("compensation", action.name),
				slog.String("error", err.Error()),
			)
			continue
		}
		logger.Info("compensation applied", slog.String("compensation", action.name))
	}
}

func (s *Service) stockThroughCache(ctx context.Context, productID int64) (int32, error) {
	key := ports.StockKey(productID)
	if value, ok := s.cacheGet(ctx, key); ok {
		return int32(value), nil
	}
	var quantity int32
	err := s.readRetry.Run(ctx, "get stock", func(ctx context.Context) error {
		var opErr error
		quantity, opErr = s.clients.Inventory.GetStockQuantity(ctx, productID)
		return opErr
	})
	if err != nil {
		return 0, err
	}
	s.cacheSet(ctx, key, float64(quantity))
	return quantity, nil
}

func (s *Service) priceThroughCache(ctx context.Context, productID int64) (float64, error) {
	key := ports.PriceKey(productID)
	if value, ok := s.cacheGet(ctx, key); ok {
		return value, nil
	}
	var unitPrice float64
	err := s.readRetry.Run(ctx, "get price", func(ctx context.Context) error {
		var opErr error
		unitPrice, opErr = s.clients.Catalog.GetUnitPrice(ctx, productID)
		return opErr
	})
	if err != nil {
		return 0, err
	}
	s.cacheSet(ctx, key, unitPrice)
	return unitPrice, nil
}

// cacheGet treats cache errors as misses: the cache is never allowed to
// fail an order.
func (s *Service) cacheGet(ctx context.Context, key string) (float64, bool) {
	value, ok, err := s.cache.Get(ctx, key)
	if err != nil {
		s.logger.Warn("cache read failed", slog.String("key", key), slog.String("error", err.Error()))
		return 0, false
	}
	return value, ok
}

func (s *Service) cacheSet(ctx context.Context, key string, value float64) {
	if err := s.cache.Set(ctx, key, value, s.cacheTTL); err != nil {
		s.logger.Warn("cache write failed", slog.String("key", key), slog.String("error", err.Error()))
	}
}

// createPayment runs on a detached context: once the request has reached
// a remote mutation, client disconnects must not abandon it mid-flight.
func (s *Service) createPayment(ctx context.Context, intent *domain.OrderIntent) (int64, error) {
	mctx, cancel := context.WithTimeout(context.WithoutCancel(ctx), s.mutationTimeout)
	defer cancel()
	return s.clients.Payments.CreatePayment(mctx, ports.CreatePaymentRequest{
		ProductID:     intent.ProductID,
		Quantity:      intent.Quantity,
		PaymentMethod: string(intent.PaymentMethod),
	})
}

func (s *Service) createPurchase(ctx context.Context, intent *domain.OrderIntent) (int64, error) {
	mctx, cancel := context.WithTimeout(context.WithoutCancel(ctx), s.mutationTimeout)
	defer cancel()
	return s.clients.Purchases.CreatePurchase(mctx, ports.CreatePurchaseRequest{
		ProductID:      intent.ProductID,
		Quantity:       intent.Quantity,
		TotalPrice:     intent.TotalPrice,
		PaymentMethod:  string(intent.PaymentMethod),
		MailingAddress: intent.MailingAddress,
	})
}

var _ ports.Service = (*Service)(nil)
