package ledger

import (
	"context"
	"time"

	"go.uber.org/zap"
)

// withRetry runs fn up to maxRetries+1 times with exponential backoff,
// honoring context cancellation between attempts.
func withRetry(ctx context.Context, maxRetries int, baseDelay time.Duration, logger *zap.Logger, fn func(context.Context) error) error {
	if maxRetries < 0 {
		maxRetries = 0
	}
	if baseDelay <= 0 {
		baseDelay = 100 * time.Millisecond
	}

	delay := baseDelay
	for attempt := 0; ; attempt++ {
		err := fn(ctx)
		if err == nil {
			return nil
		}
		if attempt >= maxRetries {
			return err
		}

		logger.Debug("retrying",
			zap.Int("attempt", attempt+1),
			zap.Int("remaining", maxRetries-attempt),
			zap.Duration("delay", delay),
			zap.Error(err),
		)

		timer := time.NewTimer(delay)
		select {
		case <-ctx.Done():
			timer.Stop()
			return ctx.Err()
		case <-timer.C:
		}

		delay *= 2
	}
}
