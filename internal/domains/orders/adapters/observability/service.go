package observability

import (
	"context"
	"errors"
	"io"
	"log/slog"

	"go.opentelemetry.io/otel/attribute"
	"go.opentelemetry.io/otel/codes"
	"go.opentelemetry.io/otel/metric"
	"go.opentelemetry.io/otel/trace"
	nooptrace "go.opentelemetry.io/otel/trace/noop"

	"github.com/Apurer/go-order-saga/internal/domains/orders/application"
	"github.com/Apurer/go-order-saga/internal/domains/orders/ports"
)

const tracerName = "github.com/Apurer/go-order-saga/internal/domains/orders/adapters/observability/service"

// Service decorates the order saga port with tracing, logging, and
// metrics.
type Service struct {
	inner   ports.Service
	tracer  trace.Tracer
	logger  *slog.Logger
	metrics serviceMetrics
}

type Option func(*Service)

// WithLogger injects a slog logger.
func WithLogger(logger *slog.Logger) Option {
	return func(s *Service) {
		s.logger = logger
	}
}

// WithTracer injects a tracer implementation.
func WithTracer(tr trace.Tracer) Option {
	return func(s *Service) {
		s.tracer = tr
	}
}

// WithMeter injects the meter used to create service metrics instruments.
func WithMeter(m metric.Meter) Option {
	return func(s *Service) {
		s.metrics = newServiceMetrics(m)
	}
}

// New wires a decorator around the core saga service.
func New(inner ports.Service, opts ...Option) ports.Service {
	s := &Service{
		inner:   inner,
		tracer:  nooptrace.NewTracerProvider().Tracer(tracerName),
		logger:  defaultLogger(),
		metrics: newServiceMetrics(nil),
	}
	for _, opt := range opts {
		if opt != nil {
			opt(s)
		}
	}
	if s.tracer == nil {
		s.tracer = nooptrace.NewTracerProvider().Tracer(tracerName)
	}
	if s.logger == nil {
		s.logger = defaultLogger()
	}
	return s
}

// CreateOrder runs the saga with instrumentation.
func (s *Service) CreateOrder(ctx context.Context, input ports.CreateOrderInput) (*ports.OrderConfirmation, error) {
	ctx, span := s.tracer.Start(ctx, "Service.CreateOrder",
		trace.WithAttributes(
			attribute.Int64("order.product_id", input.ProductID),
			attribute.Int("order.quantity", int(input.Quantity)),
			attribute.String("order.payment_method", input.PaymentMethod),
		),
	)
	defer span.End()

	s.logInfo(ctx, "placing order",
		slog.Int64("product.id", input.ProductID),
		slog.Int("quantity", int(input.Quantity)),
	)
	confirmation, err := s.inner.CreateOrder(ctx, input)
	if err != nil {
		reason := failureReason(err)
		span.RecordError(err)
		span.SetStatus(codes.Error, err.Error())
		span.SetAttributes(attribute.String("order.failure_reason", reason))
		s.metrics.recordFailed(ctx, reason)
		s.logError(ctx, "order failed", err,
			slog.Int64("product.id", input.ProductID),
			slog.String("reason", reason),
		)
		return nil, err
	}
	span.SetAttributes(
		attribute.String("order.saga_id", confirmation.OrderID),
		attribute.Int64("order.payment_id", confirmation.PaymentID),
		attribute.Int64("order.purchase_id", confirmation.PurchaseID),
		attribute.Float64("order.total_price", confirmation.TotalPrice),
	)
	s.metrics.recordCommitted(ctx)
	s.logInfo(ctx, "order committed",
		slog.String("saga.id", confirmation.OrderID),
		slog.Int64("purchase.id", confirmation.PurchaseID),
		slog.Float64("total", confirmation.TotalPrice),
	)
	return confirmation, nil
}

func failureReason(err error) string {
	switch {
	case errors.Is(err, application.ErrInvalidInput):
		return "invalid_input"
	case errors.Is(err, application.ErrInsufficientStock):
		return "insufficient_stock"
	case errors.Is(err, ports.ErrRejected):
		return "rejected"
	case errors.Is(err, ports.ErrNotFound):
		return "not_found"
	case errors.Is(err, ports.ErrUnavailable):
		return "unavailable"
	default:
		return "internal"
	}
}

func (s *Service) logInfo(ctx context.Context, msg string, attrs ...slog.Attr) {
	if s.logger == nil {
		return
	}
	s.logger.LogAttrs(ctx, slog.LevelInfo, msg, attrs...)
}

func (s *Service) logError(ctx context.Context, msg string, err error, attrs ...slog.Attr) {
	if s.logger == nil {
		return
	}
	if err != nil {
		attrs = append(attrs, slog.String("error", err.Error()))
	}
	s.logger.LogAttrs(ctx, slog.LevelError, msg, attrs...)
}

func defaultLogger() *slog.Logger {
	return slog.New(slog.NewTextHandler(io.Discard, nil))
}

type serviceMetrics struct {
	ordersCommitted metric.Int64Counter
	ordersFailed    metric.Int64Counter
}

func newServiceMetrics(m metric.Meter) serviceMetrics {
	if m == nil {
		return serviceMetrics{}
	}
	committed, _ := m.Int64Counter("orders.saga.committed", metric.WithDescription("Number of order sagas committed"))
	failed, _ := m.Int64Counter("orders.saga.failed", metric.WithDescription("Number of order sagas aborted"))
	return serviceMetrics{
		ordersCommitted: committed,
		ordersFailed:    failed,
	}
}

func (m serviceMetrics) recordCommitted(ctx context.Context) {
	addCounter(ctx, m.ordersCommitted, 1)
}

func (m serviceMetrics) recordFailed(ctx context.Context, reason string) {
	addCounter(ctx, m.ordersFailed, 1, attribute.String("order.failure_reason", reason))
}

func addCounter(ctx context.Context, counter metric.Int64Counter, value int64, attrs ...attribute.KeyValue) {
	if counter == nil {
		return
	}
	counter.Add(ctx, value, metric.WithAttributes(attrs...))
}

var _ ports.Service = (*Service)(nil)
