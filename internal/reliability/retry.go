// Package reliability provides the retry strategies used around network
// calls. Each call site selects its strategy explicitly; the interactive
// dialogue path fails fast and lets the user re-ask, while batch work
// retries rate limits with backoff. The two policies are deliberately kept
// as distinct named types rather than unified.
package reliability

import (
	"context"
	"fmt"
	"time"
)

// Strategy runs an operation under a retry policy.
type Strategy interface {
	Do(ctx context.Context, op func(ctx context.Context) error) error
}

// FailFast performs exactly one attempt and returns its error unchanged.
type FailFast struct{}

func (FailFast) Do(ctx context.Context, op func(ctx context.Context) error) error {
	return op(ctx)
}

// BackoffRetry reattempts an operation with exponential backoff while
// RetryIf reports the error as retryable. A nil RetryIf retries every
// error. After MaxAttempts the last error is returned as terminal.
type BackoffRetry struct {
	MaxAttempts int
	BaseDelay   time.Duration
	RetryIf     func(error) bool

	// sleep is swapped out by tests.
	sleep func(ctx context.Context, d time.Duration) error
}

func NewBackoffRetry(maxAttempts int, baseDelay time.Duration, retryIf func(error) bool) *BackoffRetry {
	if maxAttempts <= 0 {
		maxAttempts = 3
	}
	if baseDelay <= 0 {
		baseDelay = time.Second
	}
	return &BackoffRetry{
		MaxAttempts: maxAttempts,
		BaseDelay:   baseDelay,
		RetryIf:     retryIf,
		sleep:       sleepCtx,
	}
}

func (b *BackoffRetry) Do(ctx context.Context, op func(ctx context.Context) error) error {
	sleep := b.sleep
	if sleep == nil {
		sleep = sleepCtx
	}

	var lastErr error
	for attempt := 0; attempt < b.MaxAttempts; attempt++ {
		if attempt > 0 {
			if err := sleep(ctx, ExponentialBackoff(attempt-1, b.BaseDelay, 0)); err != nil {
				return err
			}
		}
		lastErr = op(ctx)
		if lastErr == nil {
			return nil
		}
		if b.RetryIf != nil && !b.RetryIf(lastErr) {
			return lastErr
		}
	}
	return fmt.Errorf("retries exhausted after %d attempts: %w", b.MaxAttempts, lastErr)
}

// ExponentialBackoff computes a deterministic backoff duration: base at
// attempt 0, doubling each attempt. A cap of 0 means uncapped.
func ExponentialBackoff(attempt int, base, cap time.Duration) time.Duration {
	if attempt <= 0 {
		return base
	}
	d := base
	for i := 0; i < attempt; i++ {
		d *= 2
		if cap > 0 && d >= cap {
			return cap
		}
	}
	return d
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
