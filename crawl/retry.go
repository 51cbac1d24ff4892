package crawl

import (
	"context"
	"time"
)

// AttemptFunc is one attempt of a retried operation.
type AttemptFunc func(ctx context.Context) error

// RetryFunc is called before each retry with the attempt number about to
// run and the error of the previous attempt.
type RetryFunc func(attempt int, err error)

// DefaultRetryDelays returns the backoff delays for navigation retries:
// a single retry after 1s.
func DefaultRetryDelays() []time.Duration {
	return []time.Duration{1 * time.Second}
}

// WithRetry runs attempt until it succeeds, waiting delays[i] before retry
// i+1. It makes len(delays)+1 attempts at most and returns the last error.
// The onRetry callback, if provided, is called for each retry.
func WithRetry(ctx context.Context, delays []time.Duration, attempt AttemptFunc, onRetry RetryFunc) error {
	maxAttempts := len(delays) + 1 // 1 initial + N retries

	var lastErr error
	for i := 0; i < maxAttempts; i++ {
		err := attempt(ctx)
		if err == nil {
			return nil
		}
		lastErr = err

		// Don't retry after the last attempt
		if i >= maxAttempts-1 {
			break
		}

		if ctx.Err() != nil {
			return ctx.Err()
		}

		if onRetry != nil {
			onRetry(i+2, err)
		}

		select {
		case <-ctx.Done():
			return ctx.Err()
		case <-time.After(delays[i]):
		}
	}

	return lastErr
}
