package cleanup

import (
	"context"
	"fmt"
	"time"

	"go.uber.org/zap"

	"github.com/dxvzz/blend/internal/domain/rules"
)

// windowPurger removes like windows whose reset moment has passed.
type windowPurger interface {
	PurgeExpired(ctx context.Context, window time.Duration) (int64, error)
}

type Job struct {
	quota    windowPurger
	window   time.Duration
	interval time.Duration
	logger   *zap.Logger
}

func New(quota windowPurger, interval time.Duration, logger *zap.Logger) *Job {
	if interval <= 0 {
		interval = 6 * time.Hour
	}
	if logger == nil {
		logger = zap.NewNop()
	}

	return &Job{
		quota:    quota,
		window:   rules.LikeWindow,
		interval: interval,
		logger:   logger,
	}
}

// Run performs one purge pass.
func (j *Job) Run(ctx context.Context) error {
	if j.quota == nil {
		return nil
	}

	rows, err := j.quota.PurgeExpired(ctx, j.window)
	if err != nil {
		return fmt.Errorf("purge expired like windows: %w", err)
	}
	if rows > 0 {
		j.logger.Info("purged expired like windows", zap.Int64("deleted", rows))
	}
	return nil
}

// Start loops Run on the configured interval until ctx is cancelled.
func (j *Job) Start(ctx context.Context) {
	ticker := time.NewTicker(j.interval)
	defer ticker.Stop()

	for {
		select {
		case <-ctx.Done():
			return
		case <-ticker.C:
			if err := j.Run(ctx); err != nil {
				j.logger.Warn("like window cleanup failed", zap.Error(err))
			}
		}
	}
}
