package postgres

import (
	"context"
	"errors"
	"fmt"
	"time"

	"github.com/jackc/pgx/v5"
	"github.com/jackc/pgx/v5/pgxpool"
)

var ErrFeedViewerNotFound = errors.New("feed viewer not found")

type FeedRepo struct {
	pool *pgxpool.Pool
}

type CandidateRecord struct {
	UserID      int64
	DisplayName string
	PhotoURL    string
	University  string
	Campus      string
	Course      string
	Year        int
	Age         int
	Bio         string
	Interests   []string
	LookingFor  string
	JoinedAt    time.Time
}

func NewFeedRepo(pool *pgxpool.Pool) *FeedRepo {
	return &FeedRepo{pool: pool}
}

// ListCandidates builds the discover deck for a viewer: everyone the
// viewer has not already swiped, never the viewer themselves, newest
// sign-ups first. The order is deterministic so repeated fetches with
// no intervening swipes return the same page.
func (r *FeedRepo) ListCandidates(ctx context.Context, viewerID int64, limit int) ([]CandidateRecord, error) {
	if viewerID <= 0 {
		return nil, fmt.Errorf("invalid viewer id")
	}
	if limit <= 0 {
		return nil, fmt.Errorf("invalid feed limit")
	}
	if r.pool == nil {
		return nil, fmt.Errorf("postgres pool is nil")
	}

	var one int
	if err := r.pool.QueryRow(ctx, `SELECT 1 FROM users WHERE id = $1`, viewerID).Scan(&one); err != nil {
		if errors.Is(err, pgx.ErrNoRows) {
			return nil, ErrFeedViewerNotFound
		}
		return nil, fmt.Errorf("check feed viewer: %w", err)
	}

	rows, err := r.pool.Query(ctx, `
SELECT
	u.id,
	u.display_name,
	u.photo_url,
	COALESCE(p.university, ''),
	COALESCE(p.campus, ''),
	COALESCE(p.course, ''),
	COALESCE(p.year, 0),
	COALESCE(p.age, 0),
	COALESCE(p.bio, ''),
	COALESCE(p.interests, '{}'),
	COALESCE(p.looking_for, ''),
	u.created_at
FROM users u
LEFT JOIN profiles p ON p.user_id = u.id
WHERE u.id <> $1
	AND NOT EXISTS (
		SELECT 1
		FROM swipes s
		WHERE s.actor_id = $1 AND s.target_id = u.id
	)
ORDER BY u.created_at DESC, u.id DESC
LIMIT $2
`, viewerID, limit)
	if err != nil {
		return nil, fmt.Errorf("list feed candidates: %w", err)
	}
	defer rows.Close()

	var out []CandidateRecord
	for rows.Next() {
		var c CandidateRecord
		if err := rows.Scan(
			&c.UserID,
			&c.DisplayName,
			&c.PhotoURL,
			&c.University,
			&c.Campus,
			&c.Course,
			&c.Year,
			&c.Age,
			&c.Bio,
			&c.Interests,
			&c.LookingFor,
			&c.JoinedAt,
		); err != nil {
			return nil, fmt.Errorf("scan feed candidate: %w", err)
		}
		out = append(out, c)
	}
	if err := rows.Err(); err != nil {
		return nil, fmt.Errorf("iterate feed candidates: %w", err)
	}

	return out, nil
}
