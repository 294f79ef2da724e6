// Package resilience provides bounded retry with exponential backoff for
// outbound provider calls.
package resilience

import (
	"context"
	"fmt"
	"math"
	"math/rand"
	"time"
)

// RetryConfig holds configuration for the exponential backoff retry logic.
type RetryConfig struct {
	MaxRetries int           // Maximum number of retry attempts
	BaseDelay  time.Duration // Initial delay before first retry
	MaxDelay   time.Duration // Maximum delay cap
}

// DefaultRetryConfig returns the defaults used for provider calls: a small
// bounded number of retries so a flapping backend delays a chat turn by at
// most a couple of seconds.
func DefaultRetryConfig() RetryConfig {
	return RetryConfig{
		MaxRetries: 2,
		BaseDelay:  300 * time.Millisecond,
		MaxDelay:   2 * time.Second,
	}
}

// RetryableFunc is a function that can be retried. It should return a
// non-nil error to trigger a retry.
type RetryableFunc func(ctx context.Context) error

// Retryable classifies whether an error is worth retrying. Provider
// adapters supply a predicate that matches transient (5xx) failures only.
type Retryable func(err error) bool

// Retry executes fn with exponential backoff and full jitter:
// delay = rand(0, min(maxDelay, baseDelay * 2^attempt)).
// It respects context cancellation at every step.
func Retry(ctx context.Context, cfg RetryConfig, retryable Retryable, fn RetryableFunc) error {
	var lastErr error

	for attempt := 0; attempt <= cfg.MaxRetries; attempt++ {
		select {
		case <-ctx.Done():
			return fmt.Errorf("retry: context cancelled: %w", ctx.Err())
		default:
		}

		lastErr = fn(ctx)
		if lastErr == nil {
			return nil
		}

		if attempt == cfg.MaxRetries {
			break
		}

		if retryable != nil && !retryable(lastErr) {
			return lastErr
		}

		delay := calculateDelay(attempt, cfg.BaseDelay, cfg.MaxDelay)

		select {
		case <-ctx.Done():
			return fmt.Errorf("retry: context cancelled during backoff: %w", ctx.Err())
		case <-time.After(delay):
		}
	}

	return fmt.Errorf("retry: max retries (%d) exceeded: %w", cfg.MaxRetries, lastErr)
}

// calculateDelay computes the jittered backoff delay.
func calculateDelay(attempt int, baseDelay, maxDelay time.Duration) time.Duration {
	expDelay := float64(baseDelay) * math.Pow(2, float64(attempt))

	if expDelay > float64(maxDelay) {
		expDelay = float64(maxDelay)
	}

	jitteredDelay := time.Duration(rand.Float64() * expDelay)

	if jitteredDelay < time.Millisecond {
		jitteredDelay = time.Millisecond
	}

	return jitteredDelay
}
