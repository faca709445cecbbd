package afip

import (
	"context"
	"errors"
	"time"
)

// retryable: only transport-class failures may be retried — the request
// never reached (or never committed on) the invoicing service, so no
// comprobante number was claimed. FiscalRejection is explicitly excluded.
func retryable(err error) bool {
	var te *TransportError
	return errors.As(err, &te)
}

// withRetry calls fn up to maxAttempts times with exponential backoff
// (attempt 1 immediate, then 1s, 2s, …). Non-retryable errors abort at once.
func withRetry(ctx context.Context, maxAttempts int, fn func(attempt int) error) error {
	var lastErr error
	for i := 0; i < maxAttempts; i++ {
		if i > 0 {
			wait := time.Duration(1<<uint(i-1)) * time.Second
			select {
			case <-ctx.Done():
				return ctx.Err()
			case <-time.After(wait):
			}
		}
		err := fn(i)
		if err == nil {
			return nil
		}
		if !retryable(err) {
			return err
		}
		lastErr = err
	}
	return lastErr
}
