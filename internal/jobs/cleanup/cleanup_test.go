package cleanup

import (
	"context"
	"errors"
	"testing"
	"time"
)

type fakeWindowPurger struct {
	windows []time.Time
	now     time.Time
	calls   int
	err     error
}

func (f *fakeWindowPurger) PurgeExpired(_ context.Context, window time.Duration) (int64, error) {
	f.calls++
	if f.err != nil {
		return 0, f.err
	}

	var kept []time.Time
	var deleted int64
	for _, startedAt := range f.windows {
		if !startedAt.Add(window).After(f.now) {
			deleted++
			continue
		}
		kept = append(kept, startedAt)
	}
	f.windows = kept
	return deleted, nil
}

func TestRunPurgesOnlyExpiredWindows(t *testing.T) {
	now := time.Date(2026, time.March, 3, 9, 0, 0, 0, time.UTC)

	purger := &fakeWindowPurger{
		now: now,
		windows: []time.Time{
			now.Add(-25 * time.Hour),
			now.Add(-23 * time.Hour),
		},
	}

	job := New(purger, time.Hour, nil)

	if err := job.Run(context.Background()); err != nil {
		t.Fatalf("run cleanup job: %v", err)
	}

	if len(purger.windows) != 1 {
		t.Fatalf("expected one live window to remain, got %d", len(purger.windows))
	}
	if !purger.windows[0].Equal(now.Add(-23 * time.Hour)) {
		t.Fatalf("wrong window survived: %v", purger.windows[0])
	}
}

func TestRunWrapsStoreError(t *testing.T) {
	storeErr := errors.New("connection refused")
	job := New(&fakeWindowPurger{err: storeErr}, time.Hour, nil)

	err := job.Run(context.Background())
	if !errors.Is(err, storeErr) {
		t.Fatalf("expected wrapped store error, got %v", err)
	}
}

func TestRunWithoutStoreIsNoop(t *testing.T) {
	job := New(nil, time.Hour, nil)
	if err := job.Run(context.Background()); err != nil {
		t.Fatalf("expected noop, got %v", err)
	}
}
