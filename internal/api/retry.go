package api

import (
	"context"
	"fmt"
	"math/rand"
	"time"
)

// Retry configuration constants
const (
	MaxRetryAttempts  = 3
	InitialBackoff    = 500 * time.Millisecond
	MaxBackoff        = 5 * time.Second
	BackoffMultiplier = 2.0
)

// CalculateBackoff returns the delay before the given retry attempt:
// exponential growth with full jitter of plus or minus half the base
// delay, capped at MaxBackoff.
func CalculateBackoff(attempt int) time.Duration {
	backoff := InitialBackoff
	for i := 0; i < attempt; i++ {
		backoff = time.Duration(float64(backoff) * BackoffMultiplier)
		if backoff > MaxBackoff {
			backoff = MaxBackoff
			break
		}
	}

	// Jitter spreads concurrent clients so they do not retry in lockstep.
	jitter := time.Duration(rand.Int63n(int64(backoff))) - backoff/2
	backoff += jitter
	if backoff > MaxBackoff {
		backoff = MaxBackoff
	}
	if backoff < 0 {
		backoff = 0
	}
	return backoff
}

// RetryableFunc is a function that can be retried
type RetryableFunc[T any] func() (T, error)

// WithRetry executes fn with retry logic for transient failures.
// Rate limits, timeouts, transport failures, and 5xx responses are
// retried with exponential backoff; everything else returns
// immediately. When all attempts fail, the error from the final
// attempt is returned unchanged so callers can still classify it.
func WithRetry[T any](ctx context.Context, fn RetryableFunc[T]) (T, error) {
	var lastErr error
	var zero T

	for attempt := 0; attempt < MaxRetryAttempts; attempt++ {
		if err := ctx.Err(); err != nil {
			return zero, fmt.Errorf("operation cancelled: %w", err)
		}

		result, err := fn()
		if err == nil {
			return result, nil
		}
		lastErr = err

		apiErr, ok := AsAPIError(err)
		if !ok || !apiErr.Retryable() {
			return zero, err
		}

		if attempt < MaxRetryAttempts-1 {
			select {
			case <-ctx.Done():
				return zero, fmt.Errorf("operation cancelled: %w", ctx.Err())
			case <-time.After(CalculateBackoff(attempt)):
			}
		}
	}

	return zero, lastErr
}

// WithStreamRetry opens a stream with retry logic for connection
// failures. Only the connection attempt is retried; once a session is
// established, a mid-stream failure surfaces to the caller because the
// partial response cannot be safely replayed.
func WithStreamRetry(ctx context.Context, fn func() (*StreamSession, error)) (*StreamSession, error) {
	var lastErr error

	for attempt := 0; attempt < MaxRetryAttempts; attempt++ {
		if err := ctx.Err(); err != nil {
			return nil, fmt.Errorf("operation cancelled: %w", err)
		}

		session, err := fn()
		if err == nil {
			return session, nil
		}
		lastErr = err

		apiErr, ok := AsAPIError(err)
		if !ok || !apiErr.Retryable() {
			return nil, err
		}

		if attempt < MaxRetryAttempts-1 {
			select {
			case <-ctx.Done():
				return nil, fmt.Errorf("operation cancelled: %w", ctx.Err())
			case <-time.After(CalculateBackoff(attempt)):
			}
		}
	}

	return nil, lastErr
}
