package rate

import (
	"context"
	"fmt"
	"strconv"
	"time"
)

type WindowStore interface {
	IncrementWindow(ctx context.Context, key string, window time.Duration) (int64, time.Duration, error)
	WindowState(ctx context.Context, key string) (int64, time.Duration, error)
}

// window is one fixed counting interval with its own budget.
type window struct {
	suffix string
	span   time.Duration
	budget int64
}

// Limiter throttles swipe bursts on two fixed windows. This sits in
// front of the daily like quota and only smooths request spikes.
type Limiter struct {
	store   WindowStore
	windows []window
}

func NewLimiter(store WindowStore, perMinute, per10Sec int) *Limiter {
	l := &Limiter{store: store}
	if perMinute > 0 {
		l.windows = append(l.windows, window{suffix: "min", span: time.Minute, budget: int64(perMinute)})
	}
	if per10Sec > 0 {
		l.windows = append(l.windows, window{suffix: "10s", span: 10 * time.Second, budget: int64(per10Sec)})
	}
	return l
}

// AllowSwipe consumes one slot from every window. When any window is
// over budget it reports the seconds until the slowest one resets.
func (l *Limiter) AllowSwipe(ctx context.Context, userID int64) (int64, bool, error) {
	if userID <= 0 {
		return 0, false, fmt.Errorf("invalid user id")
	}
	if l.store == nil {
		return 0, false, fmt.Errorf("rate limiter store is nil")
	}

	var retryAfterSec int64
	for _, w := range l.windows {
		count, ttl, err := l.store.IncrementWindow(ctx, swipeKey(w, userID), w.span)
		if err != nil {
			return 0, false, err
		}
		if count > w.budget {
			retryAfterSec = maxInt64(retryAfterSec, ceilSeconds(ttl))
		}
	}

	if retryAfterSec > 0 {
		return retryAfterSec, false, nil
	}
	return 0, true, nil
}

// RetryAfterSwipe reads the current block state without consuming.
func (l *Limiter) RetryAfterSwipe(ctx context.Context, userID int64) (int64, error) {
	if userID <= 0 {
		return 0, fmt.Errorf("invalid user id")
	}
	if l.store == nil {
		return 0, fmt.Errorf("rate limiter store is nil")
	}

	var retryAfterSec int64
	for _, w := range l.windows {
		count, ttl, err := l.store.WindowState(ctx, swipeKey(w, userID))
		if err != nil {
			return 0, err
		}
		if count >= w.budget {
			retryAfterSec = maxInt64(retryAfterSec, ceilSeconds(ttl))
		}
	}

	return retryAfterSec, nil
}

func swipeKey(w window, userID int64) string {
	return "rate:swipes:" + w.suffix + ":" + strconv.FormatInt(userID, 10)
}

func ceilSeconds(d time.Duration) int64 {
	if d <= 0 {
		return 0
	}
	sec := int64(d / time.Second)
	if d%time.Second != 0 {
		sec++
	}
	if sec <= 0 {
		sec = 1
	}
	return sec
}

func maxInt64(a, b int64) int64 {
	if a > b {
		return a
	}
	return b
}
