package api

import (
	"context"
	"errors"
	"testing"
	"time"
)

func TestCalculateBackoffBounds(t *testing.T) {
	for attempt := 0; attempt < 10; attempt++ {
		for i := 0; i < 50; i++ {
			d := CalculateBackoff(attempt)
			if d < 0 {
				t.Fatalf("attempt %d: negative backoff %v", attempt, d)
			}
			if d > MaxBackoff {
				t.Fatalf("attempt %d: backoff %v exceeds cap %v", attempt, d, MaxBackoff)
			}
		}
	}
}

func TestWithRetryTransientThenSuccess(t *testing.T) {
	calls := 0
	result, err := WithRetry(context.Background(), func() (string, error) {
		calls++
		if calls < 3 {
			return "", &APIError{Kind: KindTimeout, Message: "deadline exceeded"}
		}
		return "ok", nil
	})
	if err != nil {
		t.Fatalf("WithRetry() error = %v", err)
	}
	if result != "ok" {
		t.Errorf("result = %q", result)
	}
	if calls != 3 {
		t.Errorf("calls = %d, want 3", calls)
	}
}

func TestWithRetryNonRetryable(t *testing.T) {
	tests := []struct {
		name string
		err  error
	}{
		{"auth", &APIError{Kind: KindAuth, StatusCode: 401, Message: "bad key"}},
		{"validation", &APIError{Kind: KindValidation, StatusCode: 422, Message: "bad input"}},
		{"not found", &APIError{Kind: KindNotFound, StatusCode: 404, Message: "gone"}},
		{"plain error", errors.New("not an api error")},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			calls := 0
			_, err := WithRetry(context.Background(), func() (string, error) {
				calls++
				return "", tt.err
			})
			if calls != 1 {
				t.Errorf("calls = %d, want 1 (no retry on non-retryable error)", calls)
			}
			if !errors.Is(err, tt.err) {
				t.Errorf("error = %v, want %v", err, tt.err)
			}
		})
	}
}

func TestWithRetryExhaustionReturnsLastError(t *testing.T) {
	first := &APIError{Kind: KindServer, StatusCode: 502, Message: "bad gateway"}
	last := &APIError{Kind: KindRateLimited, StatusCode: 429, Message: "slow down"}

	calls := 0
	_, err := WithRetry(context.Background(), func() (string, error) {
		calls++
		if calls < MaxRetryAttempts {
			return "", first
		}
		return "", last
	})

	if calls != MaxRetryAttempts {
		t.Errorf("calls = %d, want %d", calls, MaxRetryAttempts)
	}
	// The final attempt's error must come back unchanged, not wrapped
	// and not an earlier attempt's error.
	apiErr, ok := AsAPIError(err)
	if !ok {
		t.Fatalf("error = %v, want *APIError", err)
	}
	if apiErr != last {
		t.Errorf("error = %v, want the last attempt's error verbatim", err)
	}
}

func TestWithRetryContextCancelled(t *testing.T) {
	ctx, cancel := context.WithCancel(context.Background())
	cancel()

	calls := 0
	_, err := WithRetry(ctx, func() (string, error) {
		calls++
		return "", &APIError{Kind: KindServer, StatusCode: 500}
	})
	if calls != 0 {
		t.Errorf("calls = %d, want 0 after cancellation", calls)
	}
	if !errors.Is(err, context.Canceled) {
		t.Errorf("error = %v, want context.Canceled", err)
	}
}

func TestWithRetryContextCancelledDuringBackoff(t *testing.T) {
	ctx, cancel := context.WithCancel(context.Background())

	calls := 0
	done := make(chan error, 1)
	go func() {
		_, err := WithRetry(ctx, func() (string, error) {
			calls++
			return "", &APIError{Kind: KindRateLimited, StatusCode: 429}
		})
		done <- err
	}()

	time.Sleep(50 * time.Millisecond)
	cancel()

	select {
	case err := <-done:
		if !errors.Is(err, context.Canceled) {
			t.Errorf("error = %v, want context.Canceled", err)
		}
	case <-time.After(2 * time.Second):
		t.Fatal("WithRetry did not return after cancellation")
	}
}
