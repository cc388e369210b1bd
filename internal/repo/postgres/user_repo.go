package postgres

import (
	"context"
	"errors"
	"fmt"
	"strings"

	"github.com/jackc/pgx/v5"
	"github.com/jackc/pgx/v5/pgxpool"
)

var ErrUserNotFound = errors.New("user not found")

type UserRepo struct {
	pool *pgxpool.Pool
}

type UserRecord struct {
	ID          int64
	GoogleID    string
	Email       string
	DisplayName string
	PhotoURL    string
}

func NewUserRepo(pool *pgxpool.Pool) *UserRepo {
	return &UserRepo{pool: pool}
}

// GetOrCreateByGoogleID backs first sign-in: the user row is created the
// first time an identity shows up and refreshed on every later login.
func (r *UserRepo) GetOrCreateByGoogleID(ctx context.Context, googleID, email, displayName, photoURL string) (UserRecord, error) {
	if strings.TrimSpace(googleID) == "" {
		return UserRecord{}, fmt.Errorf("invalid google id")
	}
	if r.pool == nil {
		return UserRecord{}, fmt.Errorf("postgres pool is nil")
	}

	var user UserRecord
	err := r.pool.QueryRow(ctx, `
INSERT INTO users (google_id, email, display_name, photo_url, created_at, updated_at)
VALUES ($1, $2, $3, $4, NOW(), NOW())
ON CONFLICT (google_id) DO UPDATE SET
	email = EXCLUDED.email,
	display_name = CASE WHEN users.display_name = '' THEN EXCLUDED.display_name ELSE users.display_name END,
	photo_url = CASE WHEN users.photo_url = '' THEN EXCLUDED.photo_url ELSE users.photo_url END,
	updated_at = NOW()
RETURNING id, google_id, email, display_name, photo_url
`, strings.TrimSpace(googleID), email, displayName, photoURL).Scan(
		&user.ID,
		&user.GoogleID,
		&user.Email,
		&user.DisplayName,
		&user.PhotoURL,
	)
	if err != nil {
		return UserRecord{}, fmt.Errorf("get or create user by google_id: %w", err)
	}

	return user, nil
}

func (r *UserRepo) GetByID(ctx context.Context, userID int64) (UserRecord, error) {
	if userID <= 0 {
		return UserRecord{}, fmt.Errorf("invalid user id")
	}
	if r.pool == nil {
		return UserRecord{}, fmt.Errorf("postgres pool is nil")
	}

	var user UserRecord
	err := r.pool.QueryRow(ctx, `
SELECT id, google_id, email, display_name, photo_url
FROM users
WHERE id = $1
`, userID).Scan(&user.ID, &user.GoogleID, &user.Email, &user.DisplayName, &user.PhotoURL)
	if err != nil {
		if errors.Is(err, pgx.ErrNoRows) {
			return UserRecord{}, ErrUserNotFound
		}
		return UserRecord{}, fmt.Errorf("get user by id: %w", err)
	}

	return user, nil
}

// ExistsTx is used inside swipe transactions to reject unknown targets.
func (r *UserRepo) ExistsTx(ctx context.Context, tx pgx.Tx, userID int64) (bool, error) {
	if userID <= 0 {
		return false, fmt.Errorf("invalid user id")
	}
	if tx == nil {
		return false, fmt.Errorf("transaction is required")
	}

	var one int
	err := tx.QueryRow(ctx, `
SELECT 1
FROM users
WHERE id = $1
`, userID).Scan(&one)
	if err != nil {
		if errors.Is(err, pgx.ErrNoRows) {
			return false, nil
		}
		return false, fmt.Errorf("check user exists: %w", err)
	}

	return true, nil
}

func (r *UserRepo) UpdateDisplayName(ctx context.Context, userID int64, displayName string) error {
	if r.pool == nil {
		return fmt.Errorf("postgres pool is nil")
	}
	if userID <= 0 || strings.TrimSpace(displayName) == "" {
		return nil
	}

	if _, err := r.pool.Exec(ctx, `
UPDATE users
SET display_name = $2, updated_at = NOW()
WHERE id = $1
`, userID, strings.TrimSpace(displayName)); err != nil {
		return fmt.Errorf("update user display name: %w", err)
	}

	return nil
}

func (r *UserRepo) UpdatePhotoURL(ctx context.Context, userID int64, photoURL string) error {
	if r.pool == nil {
		return fmt.Errorf("postgres pool is nil")
	}
	if userID <= 0 || strings.TrimSpace(photoURL) == "" {
		return nil
	}

	if _, err := r.pool.Exec(ctx, `
UPDATE users
SET photo_url = $2, updated_at = NOW()
WHERE id = $1
`, userID, strings.TrimSpace(photoURL)); err != nil {
		return fmt.Errorf("update user photo url: %w", err)
	}

	return nil
}
