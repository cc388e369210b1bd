package rules

import "time"

const (
	// DailyLikeLimit caps recorded likes inside one rolling window.
	DailyLikeLimit = 20

	// LikeWindow is anchored at the first like of the window, not at
	// calendar midnight.
	LikeWindow = 24 * time.Hour
)

// WindowExpired reports whether a like at now starts a fresh window.
// A zero startedAt means the user has never liked anyone.
func WindowExpired(startedAt, now time.Time) bool {
	if startedAt.IsZero() {
		return true
	}
	return !now.Before(startedAt.Add(LikeWindow))
}

// ResetAt is the instant the current window stops constraining likes.
func ResetAt(startedAt, now time.Time) time.Time {
	if WindowExpired(startedAt, now) {
		return now.UTC()
	}
	return startedAt.Add(LikeWindow).UTC()
}

func LikesLeft(used int) int {
	left := DailyLikeLimit - used
	if left < 0 {
		return 0
	}
	return left
}
