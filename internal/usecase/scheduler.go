package usecase

import (
	"context"
	"log/slog"
	"path/filepath"
	"strings"
	"time"

	"NewsNarrator/internal/domain"
	"NewsNarrator/internal/ports"
)

// RunFunc executes one scheduled run for the given trigger time.
type RunFunc func(ctx context.Context, trigger time.Time) (domain.Episode, error)

// Scheduler wires the cron-like driver with a run of the whole pipeline.
type Scheduler struct {
	driver ports.Scheduler
	run    RunFunc
	logger *slog.Logger
}

// NewScheduler returns a helper to start/stop recurring jobs.
func NewScheduler(driver ports.Scheduler, run RunFunc, logger *slog.Logger) *Scheduler {
	if logger == nil {
		logger = slog.New(slog.DiscardHandler)
	}
	return &Scheduler{driver: driver, run: run, logger: logger}
}

// Start registers the run with the provided scheduler. Run failures are
// logged and never stop the schedule.
func (s *Scheduler) Start(ctx context.Context) error {
	if s.driver == nil || s.run == nil {
		return nil
	}

	job := func(trigger time.Time) {
		episode, err := s.run(ctx, trigger)
		if err != nil {
			s.logger.Error("scheduled run failed", "trigger", trigger, "error", err)
			return
		}
		s.logger.Info("scheduled run done", "run_id", episode.RunID, "audio", episode.AudioPath)
	}

	return s.driver.Start(ctx, job)
}

// Stop gracefully tears down the underlying scheduler.
func (s *Scheduler) Stop(ctx context.Context) error {
	if s.driver == nil {
		return nil
	}

	return s.driver.Stop(ctx)
}

// StampedPath inserts a trigger timestamp before the extension:
// "out/podcast.mp3" at 06:00 becomes "out/podcast-20261018-0600.mp3".
// An empty path stays empty.
func StampedPath(base string, trigger time.Time) string {
	if base == "" {
		return ""
	}
	ext := filepath.Ext(base)
	stem := strings.TrimSuffix(base, ext)
	return stem + "-" + trigger.Format("20060102-1504") + ext
}
