package usecase

import (
	"bytes"
	"context"
	"errors"
	"log/slog"
	"strings"
	"testing"
	"time"

	"NewsNarrator/internal/domain"
)

type fakeDriver struct {
	triggers []time.Time
	started  bool
	stopped  bool
}

func (d *fakeDriver) Start(_ context.Context, job func(time.Time)) error {
	d.started = true
	for _, trigger := range d.triggers {
		job(trigger)
	}
	return nil
}

func (d *fakeDriver) Stop(context.Context) error {
	d.stopped = true
	return nil
}

func TestSchedulerRunsJobPerTrigger(t *testing.T) {
	t.Parallel()

	first := time.Date(2026, 10, 18, 6, 0, 0, 0, time.UTC)
	second := first.Add(24 * time.Hour)
	driver := &fakeDriver{triggers: []time.Time{first, second}}

	var logs bytes.Buffer
	var seen []time.Time
	run := func(_ context.Context, trigger time.Time) (domain.Episode, error) {
		seen = append(seen, trigger)
		if trigger.Equal(first) {
			return domain.Episode{}, errors.New("tts quota exceeded")
		}
		return domain.Episode{RunID: "run-2", AudioPath: StampedPath("podcast.mp3", trigger)}, nil
	}

	sched := NewScheduler(driver, run, slog.New(slog.NewTextHandler(&logs, nil)))
	if err := sched.Start(context.Background()); err != nil {
		t.Fatalf("start: %v", err)
	}
	if err := sched.Stop(context.Background()); err != nil {
		t.Fatalf("stop: %v", err)
	}

	if !driver.started || !driver.stopped {
		t.Fatalf("driver not driven: started=%v stopped=%v", driver.started, driver.stopped)
	}
	if len(seen) != 2 {
		t.Fatalf("expected 2 runs, got %d", len(seen))
	}
	out := logs.String()
	if !strings.Contains(out, "scheduled run failed") || !strings.Contains(out, "tts quota exceeded") {
		t.Fatalf("failure not logged: %s", out)
	}
	if !strings.Contains(out, "run_id=run-2") || !strings.Contains(out, "podcast-20261019-0600.mp3") {
		t.Fatalf("success not logged: %s", out)
	}
}

func TestSchedulerWithoutDriver(t *testing.T) {
	t.Parallel()

	sched := NewScheduler(nil, nil, nil)
	if err := sched.Start(context.Background()); err != nil {
		t.Fatalf("start: %v", err)
	}
	if err := sched.Stop(context.Background()); err != nil {
		t.Fatalf("stop: %v", err)
	}
}

func TestStampedPath(t *testing.T) {
	t.Parallel()

	trigger := time.Date(2026, 10, 18, 6, 0, 0, 0, time.UTC)
	if got := StampedPath("out/podcast.mp3", trigger); got != "out/podcast-20261018-0600.mp3" {
		t.Fatalf("unexpected path %q", got)
	}
	if got := StampedPath("episode", trigger); got != "episode-20261018-0600" {
		t.Fatalf("unexpected path %q", got)
	}
	if got := StampedPath("", trigger); got != "" {
		t.Fatalf("empty path stamped as %q", got)
	}
}
