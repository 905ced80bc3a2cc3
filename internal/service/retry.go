package service

import (
	"context"
	"errors"
	"time"

	"seva-ledger/internal/domain"
	"seva-ledger/internal/logger"
)

const defaultConflictRetries = 3

// retryOnConflict re-runs an atomic unit on ErrConcurrentConflict with a
// linear backoff, up to retries extra attempts. Every other error, and a
// conflict that survives exhaustion, surfaces to the caller unchanged.
func retryOnConflict[T any](ctx context.Context, retries int, backoff time.Duration, op string, fn func() (T, error)) (T, error) {
	var (
		zero    T
		lastErr error
	)
	for attempt := 0; attempt <= retries; attempt++ {
		if attempt > 0 {
			select {
			case <-ctx.Done():
				return zero, ctx.Err()
			case <-time.After(time.Duration(attempt) * backoff):
			}
			logger.Warn("ledger operation conflicted, retrying", "operation", op, "attempt", attempt)
		}
		v, err := fn()
		if !errors.Is(err, domain.ErrConcurrentConflict) {
			return v, err
		}
		lastErr = err
	}
	return zero, lastErr
}
