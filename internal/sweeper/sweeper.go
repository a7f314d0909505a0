package sweeper

import (
	"context"
	"log/slog"
	"time"
)

// DefaultInterval is the time between two sweeps.
const DefaultInterval = time.Hour

// finalSweepTimeout bounds the sweep that runs on shutdown.
const finalSweepTimeout = 30 * time.Second

// Cleaner removes expired ledger records and reports how many went away.
type Cleaner interface {
	CleanupExpired(ctx context.Context, now time.Time) (int64, error)
}

// Sweeper runs ledger cleanup on a fixed interval.
// It keeps no state between runs: every tick deletes whatever has expired by then.
type Sweeper struct {
	interval time.Duration
	cleaner  Cleaner
	nowFn    func() time.Time
}

// New creates a sweeper. An interval <= 0 falls back to DefaultInterval.
func New(interval time.Duration, cleaner Cleaner) *Sweeper {
	if interval <= 0 {
		interval = DefaultInterval
	}
	return &Sweeper{
		interval: interval,
		cleaner:  cleaner,
		nowFn: func() time.Time {
			return time.Now().UTC()
		},
	}
}

// Start sweeps once immediately, then on every tick until ctx is cancelled.
// A last sweep runs on shutdown.
func (s *Sweeper) Start(ctx context.Context) error {
	ticker := time.NewTicker(s.interval)
	defer ticker.Stop()

	slog.Info("[Sweeper] Starting ledger sweeper", "interval", s.interval)

	s.Sweep(ctx)

	for {
		select {
		case <-ticker.C:
			s.Sweep(ctx)
		case <-ctx.Done():
			slog.Info("[Sweeper] Stopping (context cancelled)")

			shutdownCtx, cancel := context.WithTimeout(context.Background(), finalSweepTimeout)
			defer cancel()

			slog.Info("[Sweeper] Running final sweep before shutdown...")
			s.Sweep(shutdownCtx)
			slog.Info("[Sweeper] Final sweep complete")

			return nil
		}
	}
}

// Sweep runs one cleanup pass. Errors are logged; the next tick tries again.
func (s *Sweeper) Sweep(ctx context.Context) (int64, error) {
	start := time.Now()
	now := s.nowFn()

	deleted, err := s.cleaner.CleanupExpired(ctx, now)
	if err != nil {
		slog.Error("[Sweeper] Cleanup failed",
			"error", err,
			"cutoff", now,
			"deleted", deleted,
		)
		return deleted, err
	}

	slog.Info("[Sweeper] Cleanup complete",
		"deleted", deleted,
		"cutoff", now,
		"duration", time.Since(start),
	)
	return deleted, nil
}
