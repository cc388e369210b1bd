package profiles

import (
	"context"
	"errors"
	"fmt"
	"strconv"
	"strings"

	"github.com/dxvzz/blend/internal/domain/rules"
	pgrepo "github.com/dxvzz/blend/internal/repo/postgres"
)

var (
	ErrValidation   = errors.New("validation error")
	ErrUserNotFound = errors.New("user not found")
)

// FieldError names the onboarding answer that failed validation.
type FieldError struct {
	Field  string
	Reason string
}

func (e FieldError) Error() string {
	return fmt.Sprintf("invalid %s: %s", e.Field, e.Reason)
}

func IsFieldError(err error) (FieldError, bool) {
	var fe FieldError
	if errors.As(err, &fe) {
		return fe, true
	}
	return FieldError{}, false
}

type ProfileStore interface {
	Upsert(ctx context.Context, p pgrepo.ProfileRecord) error
	GetByUserID(ctx context.Context, userID int64) (pgrepo.ProfileRecord, error)
}

type UserStore interface {
	GetByID(ctx context.Context, userID int64) (pgrepo.UserRecord, error)
	UpdateDisplayName(ctx context.Context, userID int64, displayName string) error
}

// Me is the combined account and profile view.
type Me struct {
	UserID      int64
	Email       string
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
	Onboarded   bool
}

type Question struct {
	Key    string
	Prompt string
}

type Service struct {
	profiles ProfileStore
	users    UserStore
}

func NewService(profiles ProfileStore, users UserStore) *Service {
	return &Service{profiles: profiles, users: users}
}

// Questions exposes the onboarding wizard steps in order.
func (s *Service) Questions() []Question {
	fields := rules.OnboardingFields()
	out := make([]Question, 0, len(fields))
	for _, field := range fields {
		out = append(out, Question{Key: field.Key, Prompt: field.Prompt})
	}
	return out
}

// SubmitOnboarding validates the full answer set and writes the
// profile. The display name lives on the account row, the rest on the
// profile. Resubmitting overwrites the previous answers.
func (s *Service) SubmitOnboarding(ctx context.Context, userID int64, answers map[string]string) (Me, error) {
	if userID <= 0 || answers == nil {
		return Me{}, ErrValidation
	}
	if s.profiles == nil || s.users == nil {
		return Me{}, fmt.Errorf("profile dependencies are not configured")
	}

	if key, err := rules.ValidateOnboarding(answers); err != nil {
		return Me{}, FieldError{Field: key, Reason: err.Error()}
	}

	year, err := strconv.Atoi(strings.TrimSpace(answers["year"]))
	if err != nil {
		return Me{}, FieldError{Field: "year", Reason: "year must be a number"}
	}

	age := 0
	if raw := strings.TrimSpace(answers["age"]); raw != "" {
		parsed, err := strconv.Atoi(raw)
		if err != nil || parsed < 16 || parsed > 120 {
			return Me{}, FieldError{Field: "age", Reason: "age must be a plausible number"}
		}
		age = parsed
	}

	record := pgrepo.ProfileRecord{
		UserID:     userID,
		University: strings.TrimSpace(answers["university"]),
		Campus:     strings.TrimSpace(answers["campus"]),
		Course:     strings.TrimSpace(answers["course"]),
		Year:       year,
		Age:        age,
		Bio:        strings.TrimSpace(answers["bio"]),
		Interests:  rules.SplitInterests(answers["interests"]),
		LookingFor: strings.ToLower(strings.TrimSpace(answers["looking_for"])),
		Onboarded:  true,
	}

	if err := s.users.UpdateDisplayName(ctx, userID, answers["display_name"]); err != nil {
		return Me{}, fmt.Errorf("update display name: %w", err)
	}
	if err := s.profiles.Upsert(ctx, record); err != nil {
		return Me{}, fmt.Errorf("upsert profile: %w", err)
	}

	return s.Get(ctx, userID)
}

// Get assembles the /me view. A missing profile row is a user who has
// not finished onboarding, not an error.
func (s *Service) Get(ctx context.Context, userID int64) (Me, error) {
	if userID <= 0 {
		return Me{}, ErrValidation
	}
	if s.profiles == nil || s.users == nil {
		return Me{}, fmt.Errorf("profile dependencies are not configured")
	}

	user, err := s.users.GetByID(ctx, userID)
	if err != nil {
		if errors.Is(err, pgrepo.ErrUserNotFound) {
			return Me{}, ErrUserNotFound
		}
		return Me{}, fmt.Errorf("get user: %w", err)
	}

	me := Me{
		UserID:      user.ID,
		Email:       user.Email,
		DisplayName: user.DisplayName,
		PhotoURL:    user.PhotoURL,
	}

	profile, err := s.profiles.GetByUserID(ctx, userID)
	if err != nil {
		if errors.Is(err, pgrepo.ErrProfileNotFound) {
			return me, nil
		}
		return Me{}, fmt.Errorf("get profile: %w", err)
	}

	me.University = profile.University
	me.Campus = profile.Campus
	me.Course = profile.Course
	me.Year = profile.Year
	me.Age = profile.Age
	me.Bio = profile.Bio
	me.Interests = profile.Interests
	me.LookingFor = profile.LookingFor
	me.Onboarded = profile.Onboarded

	return me, nil
}
