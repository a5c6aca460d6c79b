// Package provider holds the shared plumbing for external AI provider calls:
// the transient-failure classifier, the exponential-backoff retry policy, and
// the comparison prompt.
package provider

import (
	"context"
	"log"
	"strings"
	"time"
)

const (
	defaultMaxRetries = 3
	defaultBaseDelay  = 2 * time.Second
)

// transientSignals are matched case-insensitively against error messages.
// They cover HTTP overload statuses and their textual equivalents, connection
// reset/timeout/abort conditions, and vendor overload phrases.
var transientSignals = []string{
	"429", "too many requests",
	"502", "bad gateway",
	"503", "service unavailable",
	"504", "gateway timeout",
	"socket hang up",
	"connection reset",
	"connection aborted",
	"timeout",
	"timed out",
	"overloaded",
	"resource exhausted",
	"rate limit",
}

// IsTransient reports whether an error looks like a transient provider
// failure worth retrying.
func IsTransient(err error) bool {
	if err == nil {
		return false
	}
	msg := strings.ToLower(err.Error())
	for _, signal := range transientSignals {
		if strings.Contains(msg, signal) {
			return true
		}
	}
	return false
}

// RetryPolicy retries transient failures with exponential backoff. It never
// inspects an operation's result, only whether it returned an error.
type RetryPolicy struct {
	MaxRetries int
	BaseDelay  time.Duration

	// sleep is replaceable in tests to avoid real delays.
	sleep func(ctx context.Context, d time.Duration) error
}

// NewRetryPolicy creates a RetryPolicy with the default budget: 3 retries at
// 2s, 4s, 8s.
func NewRetryPolicy() *RetryPolicy {
	return &RetryPolicy{
		MaxRetries: defaultMaxRetries,
		BaseDelay:  defaultBaseDelay,
		sleep:      sleepCtx,
	}
}

// NewRetryPolicyWithSleep creates a RetryPolicy with an injected sleep
// function (for testing).
func NewRetryPolicyWithSleep(maxRetries int, baseDelay time.Duration, sleep func(ctx context.Context, d time.Duration) error) *RetryPolicy {
	return &RetryPolicy{MaxRetries: maxRetries, BaseDelay: baseDelay, sleep: sleep}
}

// Do runs op, retrying transient failures up to MaxRetries additional times.
// Non-transient errors and the final attempt's error propagate without delay.
func (p *RetryPolicy) Do(ctx context.Context, op func() error) error {
	var lastErr error

	for attempt := 0; attempt <= p.MaxRetries; attempt++ {
		lastErr = op()
		if lastErr == nil {
			return nil
		}

		if !IsTransient(lastErr) || attempt == p.MaxRetries {
			return lastErr
		}

		delay := p.BaseDelay << attempt // 2s, 4s, 8s
		log.Printf("provider.RetryPolicy: transient failure, retrying in %s (attempt %d/%d): %v",
			delay, attempt+1, p.MaxRetries+1, lastErr)
		if err := p.sleep(ctx, delay); err != nil {
			return err
		}
	}

	return lastErr
}

// DoWithResult runs op under policy p and returns its result.
func DoWithResult[T any](ctx context.Context, p *RetryPolicy, op func() (T, error)) (T, error) {
	var result T
	err := p.Do(ctx, func() error {
		var opErr error
		result, opErr = op()
		return opErr
	})
	return result, err
}

func sleepCtx(ctx context.Context, d time.Duration) error {
	timer := time.NewTimer(d)
	defer timer.Stop()
	select {
	case <-ctx.Done():
		return ctx.Err()
	case <-timer.C:
		return nil
	}
}
