package feed

import (
	"context"
	"errors"
	"fmt"
	"time"

	pgrepo "github.com/dxvzz/blend/internal/repo/postgres"
)

var (
	ErrValidation     = errors.New("validation error")
	ErrViewerNotFound = errors.New("feed viewer not found")
)

type CandidateStore interface {
	ListCandidates(ctx context.Context, viewerID int64, limit int) ([]pgrepo.CandidateRecord, error)
}

type Config struct {
	DefaultLimit int
	MaxLimit     int
}

// Candidate is one discoverable profile card.
type Candidate struct {
	UserID      int64
	DisplayName string
	PhotoURL    string
	University  string
	Campus      string
	Course      string
	Year        int
	Age         int
	Bio         string
	Interests   []string
	LookingFor  string
	JoinedAt    time.Time
}

type Service struct {
	store CandidateStore
	cfg   Config
}

func NewService(store CandidateStore, cfg Config) *Service {
	if cfg.DefaultLimit <= 0 {
		cfg.DefaultLimit = 20
	}
	if cfg.MaxLimit <= 0 {
		cfg.MaxLimit = 50
	}

	return &Service{store: store, cfg: cfg}
}

// List returns the viewer's deck: unswiped profiles, never the viewer
// themselves. A zero limit falls back to the configured page size.
func (s *Service) List(ctx context.Context, viewerID int64, limit int) ([]Candidate, error) {
	if viewerID <= 0 {
		return nil, ErrValidation
	}
	if s.store == nil {
		return nil, fmt.Errorf("feed store is not configured")
	}

	if limit <= 0 {
		limit = s.cfg.DefaultLimit
	}
	if limit > s.cfg.MaxLimit {
		limit = s.cfg.MaxLimit
	}

	records, err := s.store.ListCandidates(ctx, viewerID, limit)
	if err != nil {
		if errors.Is(err, pgrepo.ErrFeedViewerNotFound) {
			return nil, ErrViewerNotFound
		}
		return nil, fmt.Errorf("list feed candidates: %w", err)
	}

	out := make([]Candidate, 0, len(records))
	for _, rec := range records {
		out = append(out, Candidate{
			UserID:      rec.UserID,
			DisplayName: rec.DisplayName,
			PhotoURL:    rec.PhotoURL,
			University:  rec.University,
			Campus:      rec.Campus,
			Course:      rec.Course,
			Year:        rec.Year,
			Age:         rec.Age,
			Bio:         rec.Bio,
			Interests:   rec.Interests,
			LookingFor:  rec.LookingFor,
			JoinedAt:    rec.JoinedAt,
		})
	}

	return out, nil
}
