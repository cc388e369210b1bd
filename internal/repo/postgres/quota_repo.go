package postgres

import (
	"context"
	"errors"
	"fmt"
	"time"

	"github.com/jackc/pgx/v5"
	"github.com/jackc/pgx/v5/pgxpool"
)

var ErrLikeLimitReached = errors.New("like limit reached")

type QuotaRepo struct {
	pool *pgxpool.Pool
}

type LikeWindow struct {
	UserID    int64
	StartedAt time.Time
	LikesUsed int
}

func NewQuotaRepo(pool *pgxpool.Pool) *QuotaRepo {
	return &QuotaRepo{pool: pool}
}

// ConsumeLikeTx claims one like from the rolling window in a single
// statement. A fresh window is opened when none exists or the current
// one is older than windowDur; otherwise the counter increments only
// while it sits below limit. No row coming back means the window is
// live and full, which maps to ErrLikeLimitReached.
func (r *QuotaRepo) ConsumeLikeTx(ctx context.Context, tx pgx.Tx, userID int64, limit int, windowDur time.Duration) (LikeWindow, error) {
	if userID <= 0 || limit <= 0 || windowDur <= 0 {
		return LikeWindow{}, fmt.Errorf("invalid quota parameters")
	}
	if tx == nil {
		return LikeWindow{}, fmt.Errorf("transaction is required")
	}

	const query = `
INSERT INTO like_windows (user_id, window_started_at, likes_used)
VALUES ($1, NOW(), 1)
ON CONFLICT (user_id) DO UPDATE SET
	window_started_at = CASE
		WHEN like_windows.window_started_at <= NOW() - $3::interval THEN NOW()
		ELSE like_windows.window_started_at
	END,
	likes_used = CASE
		WHEN like_windows.window_started_at <= NOW() - $3::interval THEN 1
		ELSE like_windows.likes_used + 1
	END
WHERE like_windows.window_started_at <= NOW() - $3::interval
	OR like_windows.likes_used < $2
RETURNING user_id, window_started_at, likes_used
`

	var win LikeWindow
	err := tx.QueryRow(ctx, query, userID, limit, windowDur).Scan(
		&win.UserID,
		&win.StartedAt,
		&win.LikesUsed,
	)
	if err != nil {
		if errors.Is(err, pgx.ErrNoRows) {
			return LikeWindow{}, ErrLikeLimitReached
		}
		return LikeWindow{}, fmt.Errorf("consume like: %w", err)
	}

	return win, nil
}

// GetWindow returns the stored window without mutating it. A missing
// row is reported as a zero-value window: no likes spent yet.
func (r *QuotaRepo) GetWindow(ctx context.Context, userID int64) (LikeWindow, error) {
	if userID <= 0 {
		return LikeWindow{}, fmt.Errorf("invalid user id")
	}
	if r.pool == nil {
		return LikeWindow{}, fmt.Errorf("postgres pool is nil")
	}

	var win LikeWindow
	err := r.pool.QueryRow(ctx, `
SELECT user_id, window_started_at, likes_used
FROM like_windows
WHERE user_id = $1
`, userID).Scan(&win.UserID, &win.StartedAt, &win.LikesUsed)
	if err != nil {
		if errors.Is(err, pgx.ErrNoRows) {
			return LikeWindow{UserID: userID}, nil
		}
		return LikeWindow{}, fmt.Errorf("get like window: %w", err)
	}

	return win, nil
}

// PurgeExpired drops windows that finished more than windowDur ago.
// Those rows are equivalent to no row at all, so the cleanup job can
// reclaim them without changing observable quota state.
func (r *QuotaRepo) PurgeExpired(ctx context.Context, windowDur time.Duration) (int64, error) {
	if windowDur <= 0 {
		return 0, fmt.Errorf("invalid window duration")
	}
	if r.pool == nil {
		return 0, fmt.Errorf("postgres pool is nil")
	}

	tag, err := r.pool.Exec(ctx, `
DELETE FROM like_windows
WHERE window_started_at <= NOW() - $1::interval
`, windowDur)
	if err != nil {
		return 0, fmt.Errorf("purge expired like windows: %w", err)
	}

	return tag.RowsAffected(), nil
}
