package integration_test

import (
	"context"
	"errors"
	"os"
	"testing"
	"time"

	"github.com/google/uuid"
	"github.com/jackc/pgx/v5/pgxpool"

	pgrepo "github.com/dxvzz/blend/internal/repo/postgres"
)

// quotaTestPool connects to the database named by TEST_POSTGRES_DSN and
// applies the schema. Tests that need postgres skip when the variable
// is unset, so the suite stays green on machines without one.
func quotaTestPool(t *testing.T) *pgxpool.Pool {
	t.Helper()

	dsn := os.Getenv("TEST_POSTGRES_DSN")
	if dsn == "" {
		t.Skip("TEST_POSTGRES_DSN is not set")
	}

	ctx, cancel := context.WithTimeout(context.Background(), 10*time.Second)
	defer cancel()

	pool, err := pgrepo.NewPool(ctx, dsn)
	if err != nil {
		t.Fatalf("connect postgres: %v", err)
	}
	t.Cleanup(pool.Close)

	schema, err := os.ReadFile("../../migrations/001_init.sql")
	if err != nil {
		t.Fatalf("read schema: %v", err)
	}
	if _, err := pool.Exec(ctx, string(schema)); err != nil {
		t.Fatalf("apply schema: %v", err)
	}

	return pool
}

func createQuotaUser(t *testing.T, pool *pgxpool.Pool) int64 {
	t.Helper()

	user, err := pgrepo.NewUserRepo(pool).GetOrCreateByGoogleID(
		context.Background(), "it-"+uuid.NewString(), "quota@uni.example", "Quota", "")
	if err != nil {
		t.Fatalf("create user: %v", err)
	}
	t.Cleanup(func() {
		_, _ = pool.Exec(context.Background(), "DELETE FROM users WHERE id = $1", user.ID)
	})

	return user.ID
}

func consumeLike(t *testing.T, pool *pgxpool.Pool, userID int64, limit int, window time.Duration) (pgrepo.LikeWindow, error) {
	t.Helper()

	ctx := context.Background()
	tx, err := pool.Begin(ctx)
	if err != nil {
		t.Fatalf("begin tx: %v", err)
	}

	win, consumeErr := pgrepo.NewQuotaRepo(pool).ConsumeLikeTx(ctx, tx, userID, limit, window)
	if consumeErr != nil {
		_ = tx.Rollback(ctx)
		return pgrepo.LikeWindow{}, consumeErr
	}
	if err := tx.Commit(ctx); err != nil {
		t.Fatalf("commit tx: %v", err)
	}

	return win, nil
}

func TestConsumeLikeStopsAtLimit(t *testing.T) {
	pool := quotaTestPool(t)
	userID := createQuotaUser(t, pool)

	const limit = 20
	window := 24 * time.Hour

	for i := 1; i <= limit; i++ {
		win, err := consumeLike(t, pool, userID, limit, window)
		if err != nil {
			t.Fatalf("like %d: %v", i, err)
		}
		if win.LikesUsed != i {
			t.Fatalf("like %d: counter at %d", i, win.LikesUsed)
		}
	}

	if _, err := consumeLike(t, pool, userID, limit, window); !errors.Is(err, pgrepo.ErrLikeLimitReached) {
		t.Fatalf("like %d: got %v want ErrLikeLimitReached", limit+1, err)
	}

	// The rejected attempt must not have touched the stored window.
	win, err := pgrepo.NewQuotaRepo(pool).GetWindow(context.Background(), userID)
	if err != nil {
		t.Fatalf("get window: %v", err)
	}
	if win.LikesUsed != limit {
		t.Fatalf("stored counter: got %d want %d", win.LikesUsed, limit)
	}
}

func TestConsumeLikeReopensExpiredWindow(t *testing.T) {
	pool := quotaTestPool(t)
	userID := createQuotaUser(t, pool)

	const limit = 2
	window := 500 * time.Millisecond

	for i := 1; i <= limit; i++ {
		if _, err := consumeLike(t, pool, userID, limit, window); err != nil {
			t.Fatalf("like %d: %v", i, err)
		}
	}
	if _, err := consumeLike(t, pool, userID, limit, window); !errors.Is(err, pgrepo.ErrLikeLimitReached) {
		t.Fatalf("full window: got %v want ErrLikeLimitReached", err)
	}

	time.Sleep(window + 200*time.Millisecond)

	win, err := consumeLike(t, pool, userID, limit, window)
	if err != nil {
		t.Fatalf("like after expiry: %v", err)
	}
	if win.LikesUsed != 1 {
		t.Fatalf("reopened window counter: got %d want 1", win.LikesUsed)
	}
}
