// internal/runner/retry.go
package runner

import (
	"context"
	"log/slog"
	"time"
)

// Retry calls fn until it succeeds or ctx ends, waiting backoff between
// attempts. Used for devices and channels that may not exist yet.
func Retry(ctx context.Context, log *slog.Logger, what string, backoff time.Duration, fn func() error) error {
	for attempt := 1; ; attempt++ {
		err := fn()
		if err == nil {
			if attempt > 1 {
				log.Info("available", "what", what, "attempts", attempt)
			}
			return nil
		}
		log.Warn("not available, retrying", "what", what, "attempt", attempt, "err", err)
		if err := sleep(ctx, backoff); err != nil {
			return err
		}
	}
}
