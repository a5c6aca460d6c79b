package provider_test

import (
	"context"
	"errors"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"docdiff/internal/provider"
)

func TestIsTransient(t *testing.T) {
	transient := []string{
		"429 Too Many Requests",
		"upstream returned 503 Service Unavailable",
		"POST https://example.com: 502 Bad Gateway",
		"socket hang up",
		"read tcp: connection reset by peer",
		"context deadline exceeded (Client.Timeout exceeded): request timed out",
		"the model is overloaded",
		"RESOURCE_EXHAUSTED: quota exceeded",
		"rate limit reached",
	}
	for _, msg := range transient {
		assert.True(t, provider.IsTransient(errors.New(msg)), msg)
	}

	permanent := []string{
		"400 invalid request",
		"401 unauthorized",
		"processor not found",
		"invalid JSON in response",
	}
	for _, msg := range permanent {
		assert.False(t, provider.IsTransient(errors.New(msg)), msg)
	}

	assert.False(t, provider.IsTransient(nil))
}

func TestRetryPolicy_TransientThenSuccess(t *testing.T) {
	var delays []time.Duration
	policy := provider.NewRetryPolicyWithSleep(3, 2*time.Second, func(_ context.Context, d time.Duration) error {
		delays = append(delays, d)
		return nil
	})

	calls := 0
	err := policy.Do(context.Background(), func() error {
		calls++
		if calls <= 2 {
			return errors.New("503 service unavailable")
		}
		return nil
	})

	require.NoError(t, err)
	assert.Equal(t, 3, calls)
	assert.Equal(t, []time.Duration{2 * time.Second, 4 * time.Second}, delays)
}

func TestRetryPolicy_NonTransientFailsImmediately(t *testing.T) {
	policy := provider.NewRetryPolicyWithSleep(3, 2*time.Second, func(_ context.Context, _ time.Duration) error {
		t.Fatal("should not sleep on a non-transient error")
		return nil
	})

	permanent := errors.New("400 bad request")
	calls := 0
	err := policy.Do(context.Background(), func() error {
		calls++
		return permanent
	})

	assert.ErrorIs(t, err, permanent)
	assert.Equal(t, 1, calls)
}

func TestRetryPolicy_ExhaustsBudget(t *testing.T) {
	var delays []time.Duration
	policy := provider.NewRetryPolicyWithSleep(3, 2*time.Second, func(_ context.Context, d time.Duration) error {
		delays = append(delays, d)
		return nil
	})

	transient := errors.New("429 too many requests")
	calls := 0
	err := policy.Do(context.Background(), func() error {
		calls++
		return transient
	})

	assert.ErrorIs(t, err, transient)
	assert.Equal(t, 4, calls) // initial attempt + 3 retries
	assert.Equal(t, []time.Duration{2 * time.Second, 4 * time.Second, 8 * time.Second}, delays)
}

func TestRetryPolicy_ContextCancelledDuringBackoff(t *testing.T) {
	policy := provider.NewRetryPolicyWithSleep(3, 2*time.Second, func(ctx context.Context, _ time.Duration) error {
		return ctx.Err()
	})

	ctx, cancel := context.WithCancel(context.Background())
	cancel()

	calls := 0
	err := policy.Do(ctx, func() error {
		calls++
		return errors.New("503 service unavailable")
	})

	assert.ErrorIs(t, err, context.Canceled)
	assert.Equal(t, 1, calls)
}

func TestDoWithResult(t *testing.T) {
	policy := provider.NewRetryPolicyWithSleep(2, time.Second, func(_ context.Context, _ time.Duration) error {
		return nil
	})

	calls := 0
	got, err := provider.DoWithResult(context.Background(), policy, func() (string, error) {
		calls++
		if calls == 1 {
			return "", errors.New("gateway timeout")
		}
		return "ok", nil
	})

	require.NoError(t, err)
	assert.Equal(t, "ok", got)
	assert.Equal(t, 2, calls)
}
