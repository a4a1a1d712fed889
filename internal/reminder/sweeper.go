package reminder

import (
	"context"
	"log/slog"
	"time"
)

// Sweeper runs the dispatcher's sweep on a fixed interval. It is optional;
// deployments that prefer an external scheduler hit the cron endpoint
// instead and leave the interval at zero.
type Sweeper struct {
	dispatcher *Dispatcher
	interval   time.Duration
	logger     *slog.Logger
}

// NewSweeper creates a sweeper over the dispatcher.
func NewSweeper(dispatcher *Dispatcher, interval time.Duration, logger *slog.Logger) *Sweeper {
	if logger == nil {
		logger = slog.Default()
	}
	return &Sweeper{dispatcher: dispatcher, interval: interval, logger: logger}
}

// Run blocks, sweeping every interval until ctx is cancelled. Sweep
// errors are logged, never fatal.
func (s *Sweeper) Run(ctx context.Context) {
	if s.interval <= 0 {
		return
	}
	ticker := time.NewTicker(s.interval)
	defer ticker.Stop()

	for {
		select {
		case <-ctx.Done():
			return
		case <-ticker.C:
			result, err := s.dispatcher.Sweep(ctx)
			if err != nil {
				s.logger.Error("reminder sweep failed", "error", err)
				continue
			}
			s.logger.Info("reminder sweep finished",
				"sent", result.SentCount, "failures", len(result.Failures))
		}
	}
}
