package application

import (
	"context"
	"errors"
	"fmt"
	"time"

	"github.com/Apurer/go-order-saga/internal/domains/orders/ports"
)

// RetryPolicy re-runs an idempotent operation while it keeps failing with
// ports.ErrUnavailable. Semantic failures (ErrNotFound, ErrRejected) are
// returned immediately: retrying them would not change the outcome.
type RetryPolicy struct {
	MaxAttempts int
	Delay       time.Duration
}

// Run invokes op up to MaxAttempts times. On exhaustion the last error is
// surfaced, tagged with the attempt count.
func (p RetryPolicy) Run(ctx context.Context, name string, op func(ctx context.Context) error) error {
	attempts := p.MaxAttempts
	if attempts < 1 {
		attempts = 1
	}
	var err error
	for attempt := 1; attempt <= attempts; attempt++ {
		err = op(ctx)
		if err == nil {
			return nil
		}
		if !errors.Is(err, ports.ErrUnavailable) {
			return fmt.Errorf("%s: %w", name, err)
		}
		if attempt == attempts {
			break
		}
		if p.Delay > 0 {
			select {
			case <-ctx.Done():
				return fmt.Errorf("%s: %w", name, ctx.Err())
			case <-time.After(p.Delay):
			}
		}
	}
	return fmt.Errorf("%s failed after %d attempts: %w", name, attempts, err)
}
