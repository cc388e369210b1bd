package chats

import (
	"context"
	"errors"
	"fmt"
	"strings"
	"time"

	"github.com/jackc/pgx/v5"
	"github.com/jackc/pgx/v5/pgxpool"

	"github.com/dxvzz/blend/internal/pkg/validate"
	pgrepo "github.com/dxvzz/blend/internal/repo/postgres"
)

const maxMessageLen = 2000

var (
	ErrValidation = errors.New("validation error")
	ErrNotFound   = errors.New("conversation not found")
	ErrForbidden  = errors.New("not a participant of this conversation")
	ErrNotMatched = errors.New("pair has not matched")
)

type ConversationStore interface {
	GetByID(ctx context.Context, conversationID int64) (pgrepo.ConversationRecord, error)
	GetByPair(ctx context.Context, userID, otherID int64) (pgrepo.ConversationRecord, error)
	CreateForPairTx(ctx context.Context, tx pgx.Tx, userID, otherID int64) (int64, error)
	ListForUser(ctx context.Context, userID int64) ([]pgrepo.ConversationSummary, error)
	InsertMessageTx(ctx context.Context, tx pgx.Tx, conversationID, senderID int64, body string) (pgrepo.MessageRecord, error)
	ListMessages(ctx context.Context, conversationID int64) ([]pgrepo.MessageRecord, error)
}

// MatchStore gates conversation access on an existing match.
type MatchStore interface {
	ExistsForPair(ctx context.Context, userID, otherID int64) (bool, error)
}

type Summary struct {
	ID              int64
	PeerID          int64
	PeerName        string
	PeerPhotoURL    string
	LastMessage     string
	LastMessageTime time.Time
}

type Message struct {
	ID             int64
	ConversationID int64
	SenderID       int64
	Body           string
	CreatedAt      time.Time
}

type Conversation struct {
	ID       int64
	PeerID   int64
	Messages []Message
}

type Service struct {
	store   ConversationStore
	matches MatchStore

	runTx func(ctx context.Context, fn func(context.Context, pgx.Tx) error) error
}

func NewService(pool *pgxpool.Pool, store ConversationStore, matches MatchStore) *Service {
	return &Service{
		store:   store,
		matches: matches,
		runTx: func(ctx context.Context, fn func(context.Context, pgx.Tx) error) error {
			return pgrepo.WithTx(ctx, pool, fn)
		},
	}
}

// List returns the user's conversations ordered by latest activity.
func (s *Service) List(ctx context.Context, userID int64) ([]Summary, error) {
	if userID <= 0 {
		return nil, ErrValidation
	}
	if s.store == nil {
		return nil, fmt.Errorf("conversation store is not configured")
	}

	records, err := s.store.ListForUser(ctx, userID)
	if err != nil {
		return nil, fmt.Errorf("list conversations: %w", err)
	}

	out := make([]Summary, 0, len(records))
	for _, rec := range records {
		out = append(out, Summary{
			ID:              rec.ID,
			PeerID:          rec.PeerID,
			PeerName:        rec.PeerName,
			PeerPhotoURL:    rec.PeerPhotoURL,
			LastMessage:     rec.LastMessage,
			LastMessageTime: rec.LastMessageTime,
		})
	}

	return out, nil
}

// Get loads a conversation transcript for one of its participants.
func (s *Service) Get(ctx context.Context, userID, conversationID int64) (Conversation, error) {
	if userID <= 0 || conversationID <= 0 {
		return Conversation{}, ErrValidation
	}
	if s.store == nil {
		return Conversation{}, fmt.Errorf("conversation store is not configured")
	}

	record, err := s.resolveParticipant(ctx, userID, conversationID)
	if err != nil {
		return Conversation{}, err
	}

	return s.transcript(ctx, record, userID)
}

// Resolve finds the conversation between the caller and another user.
// Only matched pairs have conversations; the row is normally created
// the moment the match forms, but Resolve recreates it if missing.
func (s *Service) Resolve(ctx context.Context, userID, otherID int64) (Conversation, error) {
	if userID <= 0 || otherID <= 0 || userID == otherID {
		return Conversation{}, ErrValidation
	}
	if s.store == nil || s.matches == nil {
		return Conversation{}, fmt.Errorf("conversation dependencies are not configured")
	}

	matched, err := s.matches.ExistsForPair(ctx, userID, otherID)
	if err != nil {
		return Conversation{}, fmt.Errorf("check match for pair: %w", err)
	}
	if !matched {
		return Conversation{}, ErrNotMatched
	}

	record, err := s.store.GetByPair(ctx, userID, otherID)
	if errors.Is(err, pgrepo.ErrConversationNotFound) {
		record, err = s.backfillConversation(ctx, userID, otherID)
	}
	if err != nil {
		return Conversation{}, err
	}

	return s.transcript(ctx, record, userID)
}

func (s *Service) backfillConversation(ctx context.Context, userID, otherID int64) (pgrepo.ConversationRecord, error) {
	var id int64
	if err := s.runTx(ctx, func(txCtx context.Context, tx pgx.Tx) error {
		created, err := s.store.CreateForPairTx(txCtx, tx, userID, otherID)
		id = created
		return err
	}); err != nil {
		return pgrepo.ConversationRecord{}, fmt.Errorf("backfill conversation: %w", err)
	}

	record, err := s.store.GetByID(ctx, id)
	if err != nil {
		return pgrepo.ConversationRecord{}, fmt.Errorf("load backfilled conversation: %w", err)
	}
	return record, nil
}

func (s *Service) transcript(ctx context.Context, record pgrepo.ConversationRecord, userID int64) (Conversation, error) {
	records, err := s.store.ListMessages(ctx, record.ID)
	if err != nil {
		return Conversation{}, fmt.Errorf("list messages: %w", err)
	}

	conversation := Conversation{
		ID:       record.ID,
		PeerID:   peerOf(record, userID),
		Messages: make([]Message, 0, len(records)),
	}
	for _, rec := range records {
		conversation.Messages = append(conversation.Messages, messageFromRecord(rec))
	}

	return conversation, nil
}

// Append posts a message. Only participants may write, and the
// conversation only exists at all once the pair has matched.
func (s *Service) Append(ctx context.Context, senderID, conversationID int64, body string) (Message, error) {
	if senderID <= 0 || conversationID <= 0 {
		return Message{}, ErrValidation
	}

	body = strings.TrimSpace(body)
	if !validate.Required(body) || !validate.MaxLen(body, maxMessageLen) {
		return Message{}, ErrValidation
	}

	if s.store == nil {
		return Message{}, fmt.Errorf("conversation store is not configured")
	}

	if _, err := s.resolveParticipant(ctx, senderID, conversationID); err != nil {
		return Message{}, err
	}

	var message Message
	if err := s.runTx(ctx, func(txCtx context.Context, tx pgx.Tx) error {
		record, err := s.store.InsertMessageTx(txCtx, tx, conversationID, senderID, body)
		if err != nil {
			return err
		}
		message = messageFromRecord(record)
		return nil
	}); err != nil {
		return Message{}, fmt.Errorf("append message: %w", err)
	}

	return message, nil
}

func (s *Service) resolveParticipant(ctx context.Context, userID, conversationID int64) (pgrepo.ConversationRecord, error) {
	record, err := s.store.GetByID(ctx, conversationID)
	if err != nil {
		if errors.Is(err, pgrepo.ErrConversationNotFound) {
			return pgrepo.ConversationRecord{}, ErrNotFound
		}
		return pgrepo.ConversationRecord{}, fmt.Errorf("get conversation: %w", err)
	}

	if record.UserA != userID && record.UserB != userID {
		return pgrepo.ConversationRecord{}, ErrForbidden
	}

	return record, nil
}

func peerOf(record pgrepo.ConversationRecord, userID int64) int64 {
	if record.UserA == userID {
		return record.UserB
	}
	return record.UserA
}

func messageFromRecord(rec pgrepo.MessageRecord) Message {
	return Message{
		ID:             rec.ID,
		ConversationID: rec.ConversationID,
		SenderID:       rec.SenderID,
		Body:           rec.Body,
		CreatedAt:      rec.CreatedAt,
	}
}
