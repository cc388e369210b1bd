package postgres

import (
	"context"
	"errors"
	"fmt"
	"time"

	"github.com/jackc/pgx/v5"
	"github.com/jackc/pgx/v5/pgxpool"
)

var ErrConversationNotFound = errors.New("conversation not found")

type ConversationRepo struct {
	pool *pgxpool.Pool
}

type ConversationRecord struct {
	ID              int64
	UserA           int64
	UserB           int64
	LastMessage     string
	LastMessageTime time.Time
	CreatedAt       time.Time
}

type ConversationSummary struct {
	ID              int64
	PeerID          int64
	PeerName        string
	PeerPhotoURL    string
	LastMessage     string
	LastMessageTime time.Time
}

type MessageRecord struct {
	ID             int64
	ConversationID int64
	SenderID       int64
	Body           string
	CreatedAt      time.Time
}

func NewConversationRepo(pool *pgxpool.Pool) *ConversationRepo {
	return &ConversationRepo{pool: pool}
}

// CreateForPairTx opens the conversation the moment a match forms.
// Keyed by the ordered pair, so replays of the same match are no-ops.
func (r *ConversationRepo) CreateForPairTx(ctx context.Context, tx pgx.Tx, userID, otherID int64) (int64, error) {
	if userID <= 0 || otherID <= 0 || userID == otherID {
		return 0, fmt.Errorf("invalid conversation pair")
	}
	if tx == nil {
		return 0, fmt.Errorf("transaction is required")
	}

	a, b := userID, otherID
	if a > b {
		a, b = b, a
	}

	var id int64
	err := tx.QueryRow(ctx, `
INSERT INTO conversations (user_a, user_b, created_at)
VALUES ($1, $2, NOW())
ON CONFLICT (user_a, user_b) DO UPDATE SET user_a = EXCLUDED.user_a
RETURNING id
`, a, b).Scan(&id)
	if err != nil {
		return 0, fmt.Errorf("create conversation: %w", err)
	}

	return id, nil
}

func (r *ConversationRepo) GetByID(ctx context.Context, conversationID int64) (ConversationRecord, error) {
	if conversationID <= 0 {
		return ConversationRecord{}, fmt.Errorf("invalid conversation id")
	}
	if r.pool == nil {
		return ConversationRecord{}, fmt.Errorf("postgres pool is nil")
	}

	var c ConversationRecord
	err := r.pool.QueryRow(ctx, `
SELECT id, user_a, user_b, COALESCE(last_message, ''), COALESCE(last_message_time, 'epoch'::timestamptz), created_at
FROM conversations
WHERE id = $1
`, conversationID).Scan(&c.ID, &c.UserA, &c.UserB, &c.LastMessage, &c.LastMessageTime, &c.CreatedAt)
	if err != nil {
		if errors.Is(err, pgx.ErrNoRows) {
			return ConversationRecord{}, ErrConversationNotFound
		}
		return ConversationRecord{}, fmt.Errorf("get conversation: %w", err)
	}

	return c, nil
}

func (r *ConversationRepo) GetByPair(ctx context.Context, userID, otherID int64) (ConversationRecord, error) {
	if userID <= 0 || otherID <= 0 {
		return ConversationRecord{}, fmt.Errorf("invalid conversation pair")
	}
	if r.pool == nil {
		return ConversationRecord{}, fmt.Errorf("postgres pool is nil")
	}

	a, b := userID, otherID
	if a > b {
		a, b = b, a
	}

	var c ConversationRecord
	err := r.pool.QueryRow(ctx, `
SELECT id, user_a, user_b, COALESCE(last_message, ''), COALESCE(last_message_time, 'epoch'::timestamptz), created_at
FROM conversations
WHERE user_a = $1 AND user_b = $2
`, a, b).Scan(&c.ID, &c.UserA, &c.UserB, &c.LastMessage, &c.LastMessageTime, &c.CreatedAt)
	if err != nil {
		if errors.Is(err, pgx.ErrNoRows) {
			return ConversationRecord{}, ErrConversationNotFound
		}
		return ConversationRecord{}, fmt.Errorf("get conversation by pair: %w", err)
	}

	return c, nil
}

// ListForUser orders by recency of activity. Conversations that have
// never seen a message sort last by creation time.
func (r *ConversationRepo) ListForUser(ctx context.Context, userID int64) ([]ConversationSummary, error) {
	if userID <= 0 {
		return nil, fmt.Errorf("invalid user id")
	}
	if r.pool == nil {
		return nil, fmt.Errorf("postgres pool is nil")
	}

	rows, err := r.pool.Query(ctx, `
SELECT
	c.id,
	u.id,
	u.display_name,
	u.photo_url,
	COALESCE(c.last_message, ''),
	COALESCE(c.last_message_time, 'epoch'::timestamptz)
FROM conversations c
JOIN users u ON u.id = CASE WHEN c.user_a = $1 THEN c.user_b ELSE c.user_a END
WHERE c.user_a = $1 OR c.user_b = $1
ORDER BY COALESCE(c.last_message_time, c.created_at) DESC, c.id DESC
`, userID)
	if err != nil {
		return nil, fmt.Errorf("list conversations: %w", err)
	}
	defer rows.Close()

	var out []ConversationSummary
	for rows.Next() {
		var s ConversationSummary
		if err := rows.Scan(
			&s.ID,
			&s.PeerID,
			&s.PeerName,
			&s.PeerPhotoURL,
			&s.LastMessage,
			&s.LastMessageTime,
		); err != nil {
			return nil, fmt.Errorf("scan conversation row: %w", err)
		}
		out = append(out, s)
	}
	if err := rows.Err(); err != nil {
		return nil, fmt.Errorf("iterate conversations: %w", err)
	}

	return out, nil
}

// InsertMessageTx appends the message and bumps the conversation's
// last-message snapshot in one transaction.
func (r *ConversationRepo) InsertMessageTx(ctx context.Context, tx pgx.Tx, conversationID, senderID int64, body string) (MessageRecord, error) {
	if conversationID <= 0 || senderID <= 0 || body == "" {
		return MessageRecord{}, fmt.Errorf("invalid message payload")
	}
	if tx == nil {
		return MessageRecord{}, fmt.Errorf("transaction is required")
	}

	var msg MessageRecord
	err := tx.QueryRow(ctx, `
INSERT INTO messages (conversation_id, sender_id, body, created_at)
VALUES ($1, $2, $3, NOW())
RETURNING id, conversation_id, sender_id, body, created_at
`, conversationID, senderID, body).Scan(
		&msg.ID,
		&msg.ConversationID,
		&msg.SenderID,
		&msg.Body,
		&msg.CreatedAt,
	)
	if err != nil {
		return MessageRecord{}, fmt.Errorf("insert message: %w", err)
	}

	if _, err := tx.Exec(ctx, `
UPDATE conversations
SET last_message = $2, last_message_time = $3
WHERE id = $1
`, conversationID, msg.Body, msg.CreatedAt); err != nil {
		return MessageRecord{}, fmt.Errorf("update conversation last message: %w", err)
	}

	return msg, nil
}

// ListMessages returns the full transcript oldest first. Ties on the
// timestamp break on id so the order is stable.
func (r *ConversationRepo) ListMessages(ctx context.Context, conversationID int64) ([]MessageRecord, error) {
	if conversationID <= 0 {
		return nil, fmt.Errorf("invalid conversation id")
	}
	if r.pool == nil {
		return nil, fmt.Errorf("postgres pool is nil")
	}

	rows, err := r.pool.Query(ctx, `
SELECT id, conversation_id, sender_id, body, created_at
FROM messages
WHERE conversation_id = $1
ORDER BY created_at ASC, id ASC
`, conversationID)
	if err != nil {
		return nil, fmt.Errorf("list messages: %w", err)
	}
	defer rows.Close()

	var out []MessageRecord
	for rows.Next() {
		var m MessageRecord
		if err := rows.Scan(&m.ID, &m.ConversationID, &m.SenderID, &m.Body, &m.CreatedAt); err != nil {
			return nil, fmt.Errorf("scan message row: %w", err)
		}
		out = append(out, m)
	}
	if err := rows.Err(); err != nil {
		return nil, fmt.Errorf("iterate messages: %w", err)
	}

	return out, nil
}
