package matches

import (
	"context"
	"errors"
	"fmt"
	"time"

	pgrepo "github.com/dxvzz/blend/internal/repo/postgres"
)

var ErrValidation = errors.New("validation error")

type MatchStore interface {
	ListForUser(ctx context.Context, userID int64) ([]pgrepo.MatchSummary, error)
}

// Match is one mutual-like pairing seen from the requesting user's
// side: the counterpart's card plus when the match formed.
type Match struct {
	MatchID     int64
	UserID      int64
	DisplayName string
	PhotoURL    string
	University  string
	Course      string
	MatchedAt   time.Time
}

type Service struct {
	store MatchStore
}

func NewService(store MatchStore) *Service {
	return &Service{store: store}
}

func (s *Service) List(ctx context.Context, userID int64) ([]Match, error) {
	if userID <= 0 {
		return nil, ErrValidation
	}
	if s.store == nil {
		return nil, fmt.Errorf("match store is not configured")
	}

	records, err := s.store.ListForUser(ctx, userID)
	if err != nil {
		return nil, fmt.Errorf("list matches: %w", err)
	}

	out := make([]Match, 0, len(records))
	for _, rec := range records {
		out = append(out, Match{
			MatchID:     rec.MatchID,
			UserID:      rec.UserID,
			DisplayName: rec.DisplayName,
			PhotoURL:    rec.PhotoURL,
			University:  rec.University,
			Course:      rec.Course,
			MatchedAt:   rec.MatchedAt,
		})
	}

	return out, nil
}
