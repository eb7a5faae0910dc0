package store

import (
	"context"
	"log/slog"
	"time"
)

// Janitor periodically sweeps expired files from the store.
type Janitor struct {
	store    *Store
	interval time.Duration
	logger   *slog.Logger
}

// NewJanitor creates a Janitor sweeping at the given interval.
func NewJanitor(s *Store, interval time.Duration, logger *slog.Logger) *Janitor {
	if logger == nil {
		logger = slog.Default()
	}
	if interval <= 0 {
		interval = 10 * time.Minute
	}
	return &Janitor{store: s, interval: interval, logger: logger}
}

// Run sweeps once immediately and then on every tick. It blocks until ctx
// is cancelled. Run it in a goroutine:
//
//	go janitor.Run(ctx)
func (j *Janitor) Run(ctx context.Context) {
	ticker := time.NewTicker(j.interval)
	defer ticker.Stop()

	j.sweep(ctx)
	j.logger.Info("janitor started", "interval", j.interval)

	for {
		select {
		case <-ctx.Done():
			j.logger.Info("janitor stopped")
			return
		case <-ticker.C:
			j.sweep(ctx)
		}
	}
}

func (j *Janitor) sweep(ctx context.Context) {
	removed, err := j.store.SweepExpired(ctx)
	if err != nil {
		j.logger.Error("janitor sweep failed", "error", err)
		return
	}
	if removed > 0 {
		j.logger.Info("janitor swept expired files", "removed", removed)
	}
}
