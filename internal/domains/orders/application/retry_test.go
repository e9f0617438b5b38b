package application

import (
	"context"
	"testing"
	"time"

	"github.com/stretchr/testify/require"

	"github.com/Apurer/go-order-saga/internal/domains/orders/ports"
)

func TestRetryPolicy_RetriesUnavailable(t *testing.T) {
	policy := RetryPolicy{MaxAttempts: 3}
	calls := 0
	err := policy.Run(context.Background(), "get stock", func(context.Context) error {
		calls++
		if calls < 3 {
			return ports.ErrUnavailable
		}
		return nil
	})
	require.NoError(t, err)
	require.Equal(t, 3, calls)
}

func TestRetryPolicy_SemanticFailureReturnedImmediately(t *testing.T) {
	policy := RetryPolicy{MaxAttempts: 5}
	calls := 0
	err := policy.Run(context.Background(), "create payment", func(context.Context) error {
		calls++
		return ports.ErrRejected
	})
	require.ErrorIs(t, err, ports.ErrRejected)
	require.Equal(t, 1, calls)
	require.Contains(t, err.Error(), "create payment")
}

func TestRetryPolicy_ExhaustionTagsAttemptCount(t *testing.T) {
	policy := RetryPolicy{MaxAttempts: 3}
	calls := 0
	err := policy.Run(context.Background(), "revert stock", func(context.Context) error {
		calls++
		return ports.ErrUnavailable
	})
	require.ErrorIs(t, err, ports.ErrUnavailable)
	require.Equal(t, 3, calls)
	require.Contains(t, err.Error(), "failed after 3 attempts")
}

func TestRetryPolicy_ZeroAttemptsRunsOnce(t *testing.T) {
	policy := RetryPolicy{}
	calls := 0
	err := policy.Run(context.Background(), "op", func(context.Context) error {
		calls++
		return nil
	})
	require.NoError(t, err)
	require.Equal(t, 1, calls)
}

func TestRetryPolicy_ContextCancelledDuringDelay(t *testing.T) {
	policy := RetryPolicy{MaxAttempts: 3, Delay: time.Hour}
	ctx, cancel := context.WithCancel(context.Background())
	cancel()
	calls := 0
	err := policy.Run(ctx, "get price", func(context.Context) error {
		calls++
		return ports.ErrUnavailable
	})
	require.ErrorIs(t, err, context.Canceled)
	require.Equal(t, 1, calls)
}
