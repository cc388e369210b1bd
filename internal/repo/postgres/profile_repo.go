package postgres

import (
	"context"
	"errors"
	"fmt"

	"github.com/jackc/pgx/v5"
	"github.com/jackc/pgx/v5/pgxpool"
)

var ErrProfileNotFound = errors.New("profile not found")

type ProfileRepo struct {
	pool *pgxpool.Pool
}

type ProfileRecord struct {
	UserID     int64
	University string
	Campus     string
	Course     string
	Year       int
	Age        int
	Bio        string
	Interests  []string
	LookingFor string
	Onboarded  bool
}

func NewProfileRepo(pool *pgxpool.Pool) *ProfileRepo {
	return &ProfileRepo{pool: pool}
}

func (r *ProfileRepo) Upsert(ctx context.Context, p ProfileRecord) error {
	if p.UserID <= 0 {
		return fmt.Errorf("invalid profile payload")
	}
	if r.pool == nil {
		return fmt.Errorf("postgres pool is nil")
	}

	const query = `
INSERT INTO profiles (
	user_id,
	university,
	campus,
	course,
	year,
	age,
	bio,
	interests,
	looking_for,
	onboarded,
	updated_at
) VALUES ($1, $2, $3, $4, $5, $6, $7, $8, $9, $10, NOW())
ON CONFLICT (user_id) DO UPDATE SET
	university = EXCLUDED.university,
	campus = EXCLUDED.campus,
	course = EXCLUDED.course,
	year = EXCLUDED.year,
	age = EXCLUDED.age,
	bio = EXCLUDED.bio,
	interests = EXCLUDED.interests,
	looking_for = EXCLUDED.looking_for,
	onboarded = EXCLUDED.onboarded,
	updated_at = NOW()
`

	if _, err := r.pool.Exec(
		ctx,
		query,
		p.UserID,
		p.University,
		p.Campus,
		p.Course,
		p.Year,
		p.Age,
		p.Bio,
		p.Interests,
		p.LookingFor,
		p.Onboarded,
	); err != nil {
		return fmt.Errorf("upsert profile: %w", err)
	}

	return nil
}

func (r *ProfileRepo) GetByUserID(ctx context.Context, userID int64) (ProfileRecord, error) {
	if userID <= 0 {
		return ProfileRecord{}, fmt.Errorf("invalid user id")
	}
	if r.pool == nil {
		return ProfileRecord{}, ErrProfileNotFound
	}

	var p ProfileRecord
	err := r.pool.QueryRow(ctx, `
SELECT
	user_id,
	COALESCE(university, ''),
	COALESCE(campus, ''),
	COALESCE(course, ''),
	COALESCE(year, 0),
	COALESCE(age, 0),
	COALESCE(bio, ''),
	COALESCE(interests, '{}'),
	COALESCE(looking_for, ''),
	onboarded
FROM profiles
WHERE user_id = $1
`, userID).Scan(
		&p.UserID,
		&p.University,
		&p.Campus,
		&p.Course,
		&p.Year,
		&p.Age,
		&p.Bio,
		&p.Interests,
		&p.LookingFor,
		&p.Onboarded,
	)
	if err != nil {
		if errors.Is(err, pgx.ErrNoRows) {
			return ProfileRecord{}, ErrProfileNotFound
		}
		return ProfileRecord{}, fmt.Errorf("get profile by user id: %w", err)
	}

	return p, nil
}
