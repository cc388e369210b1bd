package postgres

import (
	"context"
	"errors"
	"fmt"
	"time"

	"github.com/jackc/pgx/v5"
	"github.com/jackc/pgx/v5/pgxpool"
)

type MatchRepo struct {
	pool *pgxpool.Pool
}

type MatchRecord struct {
	ID        int64
	UserA     int64
	UserB     int64
	CreatedAt time.Time
}

type MatchSummary struct {
	MatchID     int64
	UserID      int64
	DisplayName string
	PhotoURL    string
	University  string
	Course      string
	MatchedAt   time.Time
}

func NewMatchRepo(pool *pgxpool.Pool) *MatchRepo {
	return &MatchRepo{pool: pool}
}

// CreateTx stores the match under the ordered pair so the same two
// users can never produce two rows. Returns the match and whether this
// call inserted it.
func (r *MatchRepo) CreateTx(ctx context.Context, tx pgx.Tx, userID, otherID int64) (MatchRecord, bool, error) {
	if userID <= 0 || otherID <= 0 || userID == otherID {
		return MatchRecord{}, false, fmt.Errorf("invalid match pair")
	}
	if tx == nil {
		return MatchRecord{}, false, fmt.Errorf("transaction is required")
	}

	a, b := userID, otherID
	if a > b {
		a, b = b, a
	}

	var match MatchRecord
	err := tx.QueryRow(ctx, `
INSERT INTO matches (user_a, user_b, created_at)
VALUES ($1, $2, NOW())
ON CONFLICT (user_a, user_b) DO NOTHING
RETURNING id, user_a, user_b, created_at
`, a, b).Scan(&match.ID, &match.UserA, &match.UserB, &match.CreatedAt)
	if err != nil {
		if errors.Is(err, pgx.ErrNoRows) {
			existing, lookupErr := r.getByPairTx(ctx, tx, a, b)
			if lookupErr != nil {
				return MatchRecord{}, false, lookupErr
			}
			return existing, false, nil
		}
		return MatchRecord{}, false, fmt.Errorf("insert match: %w", err)
	}

	return match, true, nil
}

func (r *MatchRepo) getByPairTx(ctx context.Context, tx pgx.Tx, a, b int64) (MatchRecord, error) {
	var match MatchRecord
	err := tx.QueryRow(ctx, `
SELECT id, user_a, user_b, created_at
FROM matches
WHERE user_a = $1 AND user_b = $2
`, a, b).Scan(&match.ID, &match.UserA, &match.UserB, &match.CreatedAt)
	if err != nil {
		return MatchRecord{}, fmt.Errorf("get match by pair: %w", err)
	}
	return match, nil
}

// ExistsForPair reports whether the two users have matched, in either
// swipe order.
func (r *MatchRepo) ExistsForPair(ctx context.Context, userID, otherID int64) (bool, error) {
	if userID <= 0 || otherID <= 0 || userID == otherID {
		return false, fmt.Errorf("invalid match pair")
	}
	if r.pool == nil {
		return false, fmt.Errorf("postgres pool is nil")
	}

	a, b := userID, otherID
	if a > b {
		a, b = b, a
	}

	var exists bool
	err := r.pool.QueryRow(ctx, `
SELECT EXISTS (
	SELECT 1 FROM matches WHERE user_a = $1 AND user_b = $2
)
`, a, b).Scan(&exists)
	if err != nil {
		return false, fmt.Errorf("check match pair: %w", err)
	}

	return exists, nil
}

// ListForUser returns the counterpart side of every match, newest
// first, with enough profile detail for the matches screen.
func (r *MatchRepo) ListForUser(ctx context.Context, userID int64) ([]MatchSummary, error) {
	if userID <= 0 {
		return nil, fmt.Errorf("invalid user id")
	}
	if r.pool == nil {
		return nil, fmt.Errorf("postgres pool is nil")
	}

	rows, err := r.pool.Query(ctx, `
SELECT
	m.id,
	u.id,
	u.display_name,
	u.photo_url,
	COALESCE(p.university, ''),
	COALESCE(p.course, ''),
	m.created_at
FROM matches m
JOIN users u ON u.id = CASE WHEN m.user_a = $1 THEN m.user_b ELSE m.user_a END
LEFT JOIN profiles p ON p.user_id = u.id
WHERE m.user_a = $1 OR m.user_b = $1
ORDER BY m.created_at DESC, m.id DESC
`, userID)
	if err != nil {
		return nil, fmt.Errorf("list matches: %w", err)
	}
	defer rows.Close()

	var out []MatchSummary
	for rows.Next() {
		var s MatchSummary
		if err := rows.Scan(
			&s.MatchID,
			&s.UserID,
			&s.DisplayName,
			&s.PhotoURL,
			&s.University,
			&s.Course,
			&s.MatchedAt,
		); err != nil {
			return nil, fmt.Errorf("scan match row: %w", err)
		}
		out = append(out, s)
	}
	if err := rows.Err(); err != nil {
		return nil, fmt.Errorf("iterate matches: %w", err)
	}

	return out, nil
}
