package postgres

import (
	"context"
	"fmt"

	"github.com/jackc/pgx/v5"
	"github.com/jackc/pgx/v5/pgxpool"
)

type SwipeDirection string

const (
	SwipeLike    SwipeDirection = "like"
	SwipeDislike SwipeDirection = "dislike"
)

type SwipeRepo struct {
	pool *pgxpool.Pool
}

func NewSwipeRepo(pool *pgxpool.Pool) *SwipeRepo {
	return &SwipeRepo{pool: pool}
}

// CreateTx records the swipe once per actor/target pair. The returned
// bool reports whether a new row was written; a repeated swipe in either
// direction hits the unique constraint and comes back false.
func (r *SwipeRepo) CreateTx(ctx context.Context, tx pgx.Tx, actorID, targetID int64, direction SwipeDirection) (bool, error) {
	if actorID <= 0 || targetID <= 0 {
		return false, fmt.Errorf("invalid swipe payload")
	}
	if direction != SwipeLike && direction != SwipeDislike {
		return false, fmt.Errorf("invalid swipe direction: %s", direction)
	}
	if tx == nil {
		return false, fmt.Errorf("transaction is required")
	}

	tag, err := tx.Exec(ctx, `
INSERT INTO swipes (actor_id, target_id, direction, created_at)
VALUES ($1, $2, $3, NOW())
ON CONFLICT (actor_id, target_id) DO NOTHING
`, actorID, targetID, string(direction))
	if err != nil {
		return false, fmt.Errorf("insert swipe: %w", err)
	}

	return tag.RowsAffected() > 0, nil
}

// HasLikeTx reports whether actorID has previously liked targetID. Used
// for the reciprocal check after a new like lands.
func (r *SwipeRepo) HasLikeTx(ctx context.Context, tx pgx.Tx, actorID, targetID int64) (bool, error) {
	if actorID <= 0 || targetID <= 0 {
		return false, fmt.Errorf("invalid swipe lookup")
	}
	if tx == nil {
		return false, fmt.Errorf("transaction is required")
	}

	var exists bool
	err := tx.QueryRow(ctx, `
SELECT EXISTS (
	SELECT 1
	FROM swipes
	WHERE actor_id = $1 AND target_id = $2 AND direction = 'like'
)
`, actorID, targetID).Scan(&exists)
	if err != nil {
		return false, fmt.Errorf("check reciprocal like: %w", err)
	}

	return exists, nil
}
