package httputil

import (
	"context"
	"errors"
	"time"
)

// MaxDelay caps the backoff between two attempts.
const MaxDelay = 30 * time.Second

// RetryableError marks a failure as transient. [Retry] only retries errors
// that carry one in their chain.
type RetryableError struct{ Err error }

func (e *RetryableError) Error() string { return e.Err.Error() }
func (e *RetryableError) Unwrap() error { return e.Err }

// Retry runs fn up to attempts times (at least once). The delay before the
// next attempt doubles after every retryable failure, up to [MaxDelay].
// Non-retryable errors are returned immediately; after the last attempt the
// last error is returned, and ctx.Err() if ctx ends while waiting.
func Retry(ctx context.Context, attempts int, delay time.Duration, fn func() error) error {
	attempts = max(attempts, 1)

	var err error
	for i := 0; i < attempts; i++ {
		if err = fn(); err == nil || !isRetryable(err) {
			return err
		}
		if i == attempts-1 {
			break
		}

		t := time.NewTimer(delay)
		select {
		case <-ctx.Done():
			t.Stop()
			return ctx.Err()
		case <-t.C:
		}
		delay = min(delay*2, MaxDelay)
	}
	return err
}

func isRetryable(err error) bool {
	var re *RetryableError
	return errors.As(err, &re)
}
