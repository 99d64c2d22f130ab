// internal/poller/runner.go
package poller

import (
	"context"
	"log/slog"
	"time"
)

// Run starts the ticker loop and emits PollResult on the provided channel.
// One goroutine per source. No overlap. No retries.
func (p *Poller) Run(ctx context.Context, out chan<- PollResult) {
	ticker := time.NewTicker(p.cfg.Interval)
	defer ticker.Stop()

	for {
		select {
		case <-ctx.Done():
			return
		case <-ticker.C:
			select {
			case out <- p.PollOnce():
			case <-ctx.Done():
				return
			}
		}
	}
}

// Deliver applies every result from in to sink until in closes or ctx ends.
// Failed cycles are logged once per failure streak.
func Deliver(ctx context.Context, in <-chan PollResult, sink *Sink, log *slog.Logger) {
	failing := false
	for {
		select {
		case <-ctx.Done():
			return
		case res, ok := <-in:
			if !ok {
				return
			}
			err := sink.Apply(res)
			switch {
			case err != nil && !failing:
				log.Warn("sensor poll failed", "source", res.SourceID, "err", err)
			case err == nil && failing:
				log.Info("sensor poll recovered", "source", res.SourceID)
			}
			failing = err != nil
		}
	}
}
