package swipes

import (
	"context"
	"errors"
	"testing"
	"time"

	"github.com/jackc/pgx/v5"

	pgrepo "github.com/dxvzz/blend/internal/repo/postgres"
)

type swipeStoreStub struct {
	created   map[[2]int64]pgrepo.SwipeDirection
	likes     map[[2]int64]bool
	createErr error
}

func newSwipeStoreStub() *swipeStoreStub {
	return &swipeStoreStub{
		created: map[[2]int64]pgrepo.SwipeDirection{},
		likes:   map[[2]int64]bool{},
	}
}

func (s *swipeStoreStub) CreateTx(_ context.Context, _ pgx.Tx, actorID, targetID int64, direction pgrepo.SwipeDirection) (bool, error) {
	if s.createErr != nil {
		return false, s.createErr
	}
	key := [2]int64{actorID, targetID}
	if _, ok := s.created[key]; ok {
		return false, nil
	}
	s.created[key] = direction
	if direction == pgrepo.SwipeLike {
		s.likes[key] = true
	}
	return true, nil
}

func (s *swipeStoreStub) HasLikeTx(_ context.Context, _ pgx.Tx, actorID, targetID int64) (bool, error) {
	return s.likes[[2]int64{actorID, targetID}], nil
}

type userStoreStub struct {
	known map[int64]bool
}

func (s *userStoreStub) ExistsTx(_ context.Context, _ pgx.Tx, userID int64) (bool, error) {
	return s.known[userID], nil
}

type quotaStoreStub struct {
	limit   int
	windows map[int64]pgrepo.LikeWindow
	now     time.Time
}

func newQuotaStoreStub(limit int, now time.Time) *quotaStoreStub {
	return &quotaStoreStub{
		limit:   limit,
		windows: map[int64]pgrepo.LikeWindow{},
		now:     now,
	}
}

func (s *quotaStoreStub) ConsumeLikeTx(_ context.Context, _ pgx.Tx, userID int64, limit int, window time.Duration) (pgrepo.LikeWindow, error) {
	win, ok := s.windows[userID]
	if !ok || s.now.Sub(win.StartedAt) >= window {
		win = pgrepo.LikeWindow{UserID: userID, StartedAt: s.now, LikesUsed: 1}
		s.windows[userID] = win
		return win, nil
	}
	if win.LikesUsed >= limit {
		return pgrepo.LikeWindow{}, pgrepo.ErrLikeLimitReached
	}
	win.LikesUsed++
	s.windows[userID] = win
	return win, nil
}

func (s *quotaStoreStub) GetWindow(_ context.Context, userID int64) (pgrepo.LikeWindow, error) {
	win, ok := s.windows[userID]
	if !ok {
		return pgrepo.LikeWindow{UserID: userID}, nil
	}
	return win, nil
}

type matchStoreStub struct {
	matches map[[2]int64]int64
	nextID  int64
}

func newMatchStoreStub() *matchStoreStub {
	return &matchStoreStub{matches: map[[2]int64]int64{}, nextID: 1}
}

func (s *matchStoreStub) CreateTx(_ context.Context, _ pgx.Tx, userID, otherID int64) (pgrepo.MatchRecord, bool, error) {
	a, b := userID, otherID
	if a > b {
		a, b = b, a
	}
	key := [2]int64{a, b}
	if id, ok := s.matches[key]; ok {
		return pgrepo.MatchRecord{ID: id, UserA: a, UserB: b}, false, nil
	}
	id := s.nextID
	s.nextID++
	s.matches[key] = id
	return pgrepo.MatchRecord{ID: id, UserA: a, UserB: b}, true, nil
}

type conversationStoreStub struct {
	conversations map[[2]int64]int64
	nextID        int64
}

func newConversationStoreStub() *conversationStoreStub {
	return &conversationStoreStub{conversations: map[[2]int64]int64{}, nextID: 100}
}

func (s *conversationStoreStub) CreateForPairTx(_ context.Context, _ pgx.Tx, userID, otherID int64) (int64, error) {
	a, b := userID, otherID
	if a > b {
		a, b = b, a
	}
	key := [2]int64{a, b}
	if id, ok := s.conversations[key]; ok {
		return id, nil
	}
	id := s.nextID
	s.nextID++
	s.conversations[key] = id
	return id, nil
}

type rateLimiterStub struct {
	allowed    bool
	retryAfter int64
}

func (s rateLimiterStub) AllowSwipe(context.Context, int64) (int64, bool, error) {
	return s.retryAfter, s.allowed, nil
}

func newTestService(t *testing.T, now time.Time) (*Service, *swipeStoreStub, *quotaStoreStub, *matchStoreStub, *conversationStoreStub) {
	t.Helper()

	swipeStore := newSwipeStoreStub()
	quotaStore := newQuotaStoreStub(20, now)
	matchStore := newMatchStoreStub()
	convStore := newConversationStoreStub()

	svc := NewService(Dependencies{
		SwipeStore:    swipeStore,
		UserStore:     &userStoreStub{known: map[int64]bool{101: true, 202: true, 303: true}},
		QuotaStore:    quotaStore,
		MatchStore:    matchStore,
		Conversations: convStore,
		RateLimiter:   rateLimiterStub{allowed: true},
	}, Config{LikesPerWindow: 20, Window: 24 * time.Hour})

	svc.now = func() time.Time { return now }
	svc.runTx = func(ctx context.Context, fn func(context.Context, pgx.Tx) error) error {
		return fn(ctx, nil)
	}
	svc.lockPair = func(context.Context, pgx.Tx, int64, int64) error { return nil }

	return svc, swipeStore, quotaStore, matchStore, convStore
}

func TestSwipeLikeWithoutReciprocalDoesNotMatch(t *testing.T) {
	now := time.Date(2026, 3, 2, 12, 0, 0, 0, time.UTC)
	svc, _, _, _, _ := newTestService(t, now)

	result, err := svc.Swipe(context.Background(), 101, 202, "like")
	if err != nil {
		t.Fatalf("swipe: %v", err)
	}
	if !result.Recorded {
		t.Fatalf("expected swipe to be recorded")
	}
	if result.MatchCreated {
		t.Fatalf("unexpected match without reciprocal like")
	}
	if result.Quota.Used != 1 || result.Quota.Remaining != 19 {
		t.Fatalf("unexpected quota after one like: used=%d remaining=%d", result.Quota.Used, result.Quota.Remaining)
	}
}

func TestSwipeMutualLikeCreatesMatchAndConversation(t *testing.T) {
	now := time.Date(2026, 3, 2, 12, 0, 0, 0, time.UTC)
	svc, _, _, _, _ := newTestService(t, now)

	ctx := context.Background()
	if _, err := svc.Swipe(ctx, 202, 101, "like"); err != nil {
		t.Fatalf("first like: %v", err)
	}

	result, err := svc.Swipe(ctx, 101, 202, "like")
	if err != nil {
		t.Fatalf("reciprocal like: %v", err)
	}
	if !result.MatchCreated {
		t.Fatalf("expected match on reciprocal like")
	}
	if result.MatchID == 0 {
		t.Fatalf("expected match id to be set")
	}
	if result.ConversationID == 0 {
		t.Fatalf("expected conversation to open with the match")
	}
}

func TestSwipeDuplicateIsIdempotent(t *testing.T) {
	now := time.Date(2026, 3, 2, 12, 0, 0, 0, time.UTC)
	svc, _, quotaStore, _, _ := newTestService(t, now)

	ctx := context.Background()
	if _, err := svc.Swipe(ctx, 101, 202, "like"); err != nil {
		t.Fatalf("first swipe: %v", err)
	}

	result, err := svc.Swipe(ctx, 101, 202, "like")
	if err != nil {
		t.Fatalf("duplicate swipe: %v", err)
	}
	if result.Recorded {
		t.Fatalf("duplicate swipe must not record a new verdict")
	}
	if result.MatchCreated {
		t.Fatalf("duplicate swipe must not create a match")
	}
	if quotaStore.windows[101].LikesUsed != 1 {
		t.Fatalf("duplicate swipe must not consume quota, used=%d", quotaStore.windows[101].LikesUsed)
	}
}

func TestSwipeDislikeSkipsQuota(t *testing.T) {
	now := time.Date(2026, 3, 2, 12, 0, 0, 0, time.UTC)
	svc, swipeStore, quotaStore, _, _ := newTestService(t, now)

	result, err := svc.Swipe(context.Background(), 101, 202, "dislike")
	if err != nil {
		t.Fatalf("dislike: %v", err)
	}
	if !result.Recorded {
		t.Fatalf("expected dislike to be recorded")
	}
	if _, ok := quotaStore.windows[101]; ok {
		t.Fatalf("dislike must not touch the like window")
	}
	if got := swipeStore.created[[2]int64{101, 202}]; got != pgrepo.SwipeDislike {
		t.Fatalf("unexpected stored direction: %s", got)
	}
}

func TestSwipeLikeLimitReached(t *testing.T) {
	now := time.Date(2026, 3, 2, 12, 0, 0, 0, time.UTC)
	svc, _, quotaStore, _, _ := newTestService(t, now)

	quotaStore.windows[101] = pgrepo.LikeWindow{
		UserID:    101,
		StartedAt: now.Add(-2 * time.Hour),
		LikesUsed: 20,
	}

	_, err := svc.Swipe(context.Background(), 101, 202, "like")
	limitErr, ok := IsLimit(err)
	if !ok {
		t.Fatalf("expected LimitError, got %v", err)
	}

	wantReset := now.Add(-2 * time.Hour).Add(24 * time.Hour)
	if !limitErr.ResetAt.Equal(wantReset) {
		t.Fatalf("unexpected reset_at: got %v want %v", limitErr.ResetAt, wantReset)
	}
}

func TestSwipeLimitResetsAfterWindow(t *testing.T) {
	now := time.Date(2026, 3, 2, 12, 0, 0, 0, time.UTC)
	svc, _, quotaStore, _, _ := newTestService(t, now)

	quotaStore.windows[101] = pgrepo.LikeWindow{
		UserID:    101,
		StartedAt: now.Add(-25 * time.Hour),
		LikesUsed: 20,
	}

	result, err := svc.Swipe(context.Background(), 101, 202, "like")
	if err != nil {
		t.Fatalf("like after window expiry: %v", err)
	}
	if !result.Recorded {
		t.Fatalf("expected like to be recorded in a fresh window")
	}
	if result.Quota.Used != 1 {
		t.Fatalf("fresh window must count the recorded like once, used=%d", result.Quota.Used)
	}
}

func TestSwipeRejectsSelfAndUnknownDirection(t *testing.T) {
	now := time.Date(2026, 3, 2, 12, 0, 0, 0, time.UTC)
	svc, _, _, _, _ := newTestService(t, now)

	if _, err := svc.Swipe(context.Background(), 101, 101, "like"); !errors.Is(err, ErrSelfSwipe) {
		t.Fatalf("expected self swipe error, got %v", err)
	}
	if _, err := svc.Swipe(context.Background(), 101, 202, "superlike"); !errors.Is(err, ErrUnsupportedDirection) {
		t.Fatalf("expected unsupported direction error, got %v", err)
	}
}

func TestSwipeUnknownTarget(t *testing.T) {
	now := time.Date(2026, 3, 2, 12, 0, 0, 0, time.UTC)
	svc, _, _, _, _ := newTestService(t, now)

	if _, err := svc.Swipe(context.Background(), 101, 999, "like"); !errors.Is(err, ErrTargetNotFound) {
		t.Fatalf("expected target-not-found error, got %v", err)
	}
}

func TestSwipeBlockedByBurstLimiter(t *testing.T) {
	now := time.Date(2026, 3, 2, 12, 0, 0, 0, time.UTC)
	svc, _, _, _, _ := newTestService(t, now)
	svc.rateLimiter = rateLimiterStub{allowed: false, retryAfter: 7}

	_, err := svc.Swipe(context.Background(), 101, 202, "like")
	tooFast, ok := IsTooFast(err)
	if !ok {
		t.Fatalf("expected TooFastError, got %v", err)
	}
	if tooFast.RetryAfterSec != 7 {
		t.Fatalf("unexpected retry_after: %d", tooFast.RetryAfterSec)
	}
}

func TestQuotaSnapshotFreshUser(t *testing.T) {
	now := time.Date(2026, 3, 2, 12, 0, 0, 0, time.UTC)
	svc, _, _, _, _ := newTestService(t, now)

	snapshot, err := svc.QuotaSnapshot(context.Background(), 101)
	if err != nil {
		t.Fatalf("quota snapshot: %v", err)
	}
	if snapshot.Used != 0 || snapshot.Remaining != 20 {
		t.Fatalf("unexpected fresh snapshot: used=%d remaining=%d", snapshot.Used, snapshot.Remaining)
	}
	if !snapshot.ResetAt.IsZero() {
		t.Fatalf("fresh snapshot must not carry a reset time, got %v", snapshot.ResetAt)
	}
}
