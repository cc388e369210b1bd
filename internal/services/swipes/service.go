package swipes

import (
	"context"
	"errors"
	"fmt"
	"strings"
	"time"

	"github.com/jackc/pgx/v5"
	"github.com/jackc/pgx/v5/pgxpool"

	"github.com/dxvzz/blend/internal/domain/rules"
	pgrepo "github.com/dxvzz/blend/internal/repo/postgres"
)

const (
	DirectionLike    = "LIKE"
	DirectionDislike = "DISLIKE"
)

var (
	ErrValidation           = errors.New("validation error")
	ErrUnsupportedDirection = errors.New("unsupported swipe direction")
	ErrSelfSwipe            = errors.New("cannot swipe on yourself")
	ErrTargetNotFound       = errors.New("swipe target not found")
)

// LimitError reports an exhausted like quota together with the moment
// the rolling window opens again.
type LimitError struct {
	ResetAt time.Time
}

func (e LimitError) Error() string {
	return "like limit reached"
}

func IsLimit(err error) (LimitError, bool) {
	var le LimitError
	if errors.As(err, &le) {
		return le, true
	}
	return LimitError{}, false
}

// TooFastError reports a burst-limiter block, not a quota one.
type TooFastError struct {
	RetryAfterSec int64
}

func (e TooFastError) Error() string {
	return "too many swipes, slow down"
}

func IsTooFast(err error) (TooFastError, bool) {
	var tf TooFastError
	if errors.As(err, &tf) {
		return tf, true
	}
	return TooFastError{}, false
}

type SwipeStore interface {
	CreateTx(ctx context.Context, tx pgx.Tx, actorID, targetID int64, direction pgrepo.SwipeDirection) (bool, error)
	HasLikeTx(ctx context.Context, tx pgx.Tx, actorID, targetID int64) (bool, error)
}

type UserStore interface {
	ExistsTx(ctx context.Context, tx pgx.Tx, userID int64) (bool, error)
}

type QuotaStore interface {
	ConsumeLikeTx(ctx context.Context, tx pgx.Tx, userID int64, limit int, window time.Duration) (pgrepo.LikeWindow, error)
	GetWindow(ctx context.Context, userID int64) (pgrepo.LikeWindow, error)
}

type MatchStore interface {
	CreateTx(ctx context.Context, tx pgx.Tx, userID, otherID int64) (pgrepo.MatchRecord, bool, error)
}

type ConversationStore interface {
	CreateForPairTx(ctx context.Context, tx pgx.Tx, userID, otherID int64) (int64, error)
}

type RateLimiter interface {
	AllowSwipe(ctx context.Context, userID int64) (int64, bool, error)
}

type Config struct {
	LikesPerWindow int
	Window         time.Duration
}

// Snapshot is the quota view returned alongside every swipe and from
// the quota endpoint.
type Snapshot struct {
	Limit     int
	Used      int
	Remaining int
	ResetAt   time.Time
}

type Result struct {
	Recorded       bool
	MatchCreated   bool
	MatchID        int64
	ConversationID int64
	Quota          Snapshot
}

type Dependencies struct {
	Pool          *pgxpool.Pool
	SwipeStore    SwipeStore
	UserStore     UserStore
	QuotaStore    QuotaStore
	MatchStore    MatchStore
	Conversations ConversationStore
	RateLimiter   RateLimiter
}

type Service struct {
	swipeStore    SwipeStore
	userStore     UserStore
	quotaStore    QuotaStore
	matchStore    MatchStore
	conversations ConversationStore
	rateLimiter   RateLimiter
	cfg           Config
	now           func() time.Time

	runTx    func(ctx context.Context, fn func(context.Context, pgx.Tx) error) error
	lockPair func(ctx context.Context, tx pgx.Tx, userID, targetID int64) error
}

func NewService(deps Dependencies, cfg Config) *Service {
	if cfg.LikesPerWindow <= 0 {
		cfg.LikesPerWindow = rules.DailyLikeLimit
	}
	if cfg.Window <= 0 {
		cfg.Window = rules.LikeWindow
	}

	return &Service{
		swipeStore:    deps.SwipeStore,
		userStore:     deps.UserStore,
		quotaStore:    deps.QuotaStore,
		matchStore:    deps.MatchStore,
		conversations: deps.Conversations,
		rateLimiter:   deps.RateLimiter,
		cfg:           cfg,
		now:           time.Now,
		runTx: func(ctx context.Context, fn func(context.Context, pgx.Tx) error) error {
			return pgrepo.WithTx(ctx, deps.Pool, fn)
		},
		lockPair: pgrepo.AcquirePairLock,
	}
}

// Swipe records one verdict and settles all its consequences in a
// single transaction: quota for likes, mutual-match detection and the
// conversation that a new match opens.
func (s *Service) Swipe(ctx context.Context, actorID, targetID int64, direction string) (Result, error) {
	if actorID <= 0 || targetID <= 0 {
		return Result{}, ErrValidation
	}
	if actorID == targetID {
		return Result{}, ErrSelfSwipe
	}

	normalized, err := normalizeDirection(direction)
	if err != nil {
		return Result{}, err
	}

	if s.swipeStore == nil || s.userStore == nil || s.quotaStore == nil || s.matchStore == nil || s.conversations == nil {
		return Result{}, fmt.Errorf("swipe dependencies are not configured")
	}

	if s.rateLimiter != nil {
		retryAfter, allowed, err := s.rateLimiter.AllowSwipe(ctx, actorID)
		if err != nil {
			return Result{}, fmt.Errorf("apply swipe rate limiter: %w", err)
		}
		if !allowed {
			return Result{}, TooFastError{RetryAfterSec: retryAfter}
		}
	}

	repoDirection := pgrepo.SwipeLike
	if normalized == DirectionDislike {
		repoDirection = pgrepo.SwipeDislike
	}

	result := Result{}
	if err := s.runTx(ctx, func(txCtx context.Context, tx pgx.Tx) error {
		if err := s.lockPair(txCtx, tx, actorID, targetID); err != nil {
			return err
		}

		exists, err := s.userStore.ExistsTx(txCtx, tx, targetID)
		if err != nil {
			return err
		}
		if !exists {
			return ErrTargetNotFound
		}

		recorded, err := s.swipeStore.CreateTx(txCtx, tx, actorID, targetID, repoDirection)
		if err != nil {
			return err
		}
		result.Recorded = recorded
		if !recorded {
			// Repeat verdict on the same target: no quota spent,
			// no new match, nothing to do.
			return nil
		}

		if normalized != DirectionLike {
			return nil
		}

		if _, err := s.quotaStore.ConsumeLikeTx(txCtx, tx, actorID, s.cfg.LikesPerWindow, s.cfg.Window); err != nil {
			return err
		}

		reciprocal, err := s.swipeStore.HasLikeTx(txCtx, tx, targetID, actorID)
		if err != nil {
			return err
		}
		if !reciprocal {
			return nil
		}

		match, created, err := s.matchStore.CreateTx(txCtx, tx, actorID, targetID)
		if err != nil {
			return err
		}
		result.MatchCreated = created
		result.MatchID = match.ID

		conversationID, err := s.conversations.CreateForPairTx(txCtx, tx, actorID, targetID)
		if err != nil {
			return err
		}
		result.ConversationID = conversationID
		return nil
	}); err != nil {
		if errors.Is(err, pgrepo.ErrLikeLimitReached) {
			return Result{}, s.limitError(ctx, actorID)
		}
		return Result{}, err
	}

	snapshot, err := s.QuotaSnapshot(ctx, actorID)
	if err != nil {
		return Result{}, err
	}
	result.Quota = snapshot

	return result, nil
}

// QuotaSnapshot reads the like window without spending anything.
func (s *Service) QuotaSnapshot(ctx context.Context, userID int64) (Snapshot, error) {
	if userID <= 0 {
		return Snapshot{}, ErrValidation
	}
	if s.quotaStore == nil {
		return Snapshot{}, fmt.Errorf("quota store is not configured")
	}

	win, err := s.quotaStore.GetWindow(ctx, userID)
	if err != nil {
		return Snapshot{}, fmt.Errorf("read like window: %w", err)
	}

	now := s.now().UTC()
	snapshot := Snapshot{Limit: s.cfg.LikesPerWindow}
	if rules.WindowExpired(win.StartedAt, now) {
		snapshot.Remaining = s.cfg.LikesPerWindow
		return snapshot, nil
	}

	snapshot.Used = win.LikesUsed
	snapshot.Remaining = s.cfg.LikesPerWindow - win.LikesUsed
	if snapshot.Remaining < 0 {
		snapshot.Remaining = 0
	}
	snapshot.ResetAt = rules.ResetAt(win.StartedAt, now)
	return snapshot, nil
}

func (s *Service) limitError(ctx context.Context, userID int64) error {
	win, err := s.quotaStore.GetWindow(ctx, userID)
	if err != nil {
		return fmt.Errorf("read like window after limit: %w", err)
	}
	return LimitError{ResetAt: rules.ResetAt(win.StartedAt, s.now().UTC())}
}

func normalizeDirection(input string) (string, error) {
	value := strings.ToUpper(strings.TrimSpace(input))
	switch value {
	case DirectionLike, DirectionDislike:
		return value, nil
	default:
		return "", ErrUnsupportedDirection
	}
}
