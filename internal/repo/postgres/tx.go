package postgres

import (
	"context"
	"encoding/binary"
	"errors"
	"fmt"
	"hash/fnv"

	"github.com/jackc/pgx/v5"
	"github.com/jackc/pgx/v5/pgxpool"
)

func WithTx(ctx context.Context, pool *pgxpool.Pool, fn func(context.Context, pgx.Tx) error) error {
	if pool == nil {
		return errors.New("postgres pool is nil")
	}

	tx, err := pool.BeginTx(ctx, pgx.TxOptions{})
	if err != nil {
		return fmt.Errorf("begin tx: %w", err)
	}

	defer func() {
		_ = tx.Rollback(ctx)
	}()

	if err := fn(ctx, tx); err != nil {
		return err
	}

	if err := tx.Commit(ctx); err != nil {
		return fmt.Errorf("commit tx: %w", err)
	}

	return nil
}

// AcquirePairLock serializes every transaction touching the unordered
// user pair for the remainder of the current transaction. Mutual-match
// detection depends on the two sides of a pair never interleaving their
// like-then-check sequences.
func AcquirePairLock(ctx context.Context, tx pgx.Tx, userID, targetID int64) error {
	if tx == nil {
		return fmt.Errorf("transaction is required")
	}

	if _, err := tx.Exec(ctx, `SELECT pg_advisory_xact_lock($1)`, pairLockKey(userID, targetID)); err != nil {
		return fmt.Errorf("acquire pair lock: %w", err)
	}

	return nil
}

// pairLockKey folds the unordered pair into one bigint lock key. The
// two-int4 advisory form would overflow bigserial ids, so the ordered
// pair is hashed instead; a collision only serializes an unrelated pair.
func pairLockKey(userID, targetID int64) int64 {
	a, b := userID, targetID
	if a > b {
		a, b = b, a
	}

	var buf [16]byte
	binary.BigEndian.PutUint64(buf[:8], uint64(a))
	binary.BigEndian.PutUint64(buf[8:], uint64(b))

	h := fnv.New64a()
	_, _ = h.Write(buf[:])
	return int64(h.Sum64())
}
