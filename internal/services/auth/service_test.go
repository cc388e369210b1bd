package auth

import (
	"context"
	"errors"
	"testing"
	"time"
)

type sessionStoreStub struct {
	sessions map[string]SessionRecord
	refresh  map[string]string
	deleted  []string
	allUsers []int64
}

func newSessionStoreStub() *sessionStoreStub {
	return &sessionStoreStub{
		sessions: map[string]SessionRecord{},
		refresh:  map[string]string{},
	}
}

func (s *sessionStoreStub) Create(_ context.Context, session SessionRecord, refreshToken string) error {
	s.sessions[session.SID] = session
	s.refresh[refreshToken] = session.SID
	return nil
}

func (s *sessionStoreStub) GetSession(_ context.Context, sid string) (SessionRecord, error) {
	session, ok := s.sessions[sid]
	if !ok {
		return SessionRecord{}, ErrSessionNotFound
	}
	return session, nil
}

func (s *sessionStoreStub) GetByRefreshToken(_ context.Context, refreshToken string) (SessionRecord, error) {
	sid, ok := s.refresh[refreshToken]
	if !ok {
		return SessionRecord{}, ErrRefreshNotFound
	}
	return s.sessions[sid], nil
}

func (s *sessionStoreStub) RotateRefresh(_ context.Context, sid, oldToken, newToken string, expiresAt time.Time) error {
	storedSID, ok := s.refresh[oldToken]
	if !ok || (sid != "" && sid != storedSID) {
		return ErrRefreshNotFound
	}
	delete(s.refresh, oldToken)
	s.refresh[newToken] = storedSID

	session := s.sessions[storedSID]
	session.ExpiresAt = expiresAt
	s.sessions[storedSID] = session
	return nil
}

func (s *sessionStoreStub) DeleteSession(_ context.Context, sid string) error {
	delete(s.sessions, sid)
	s.deleted = append(s.deleted, sid)
	return nil
}

func (s *sessionStoreStub) DeleteAllForUser(_ context.Context, userID int64) error {
	s.allUsers = append(s.allUsers, userID)
	for sid, session := range s.sessions {
		if session.UserID == userID {
			delete(s.sessions, sid)
		}
	}
	return nil
}

type userStoreStub struct {
	users  map[string]User
	nextID int64
}

func (s *userStoreStub) GetOrCreateByGoogleID(_ context.Context, googleID, email, displayName, photoURL string) (User, error) {
	if user, ok := s.users[googleID]; ok {
		return user, nil
	}
	s.nextID++
	user := User{ID: s.nextID, Email: email, DisplayName: displayName, PhotoURL: photoURL}
	if s.users == nil {
		s.users = map[string]User{}
	}
	s.users[googleID] = user
	return user, nil
}

type googleVerifierStub struct {
	user GoogleUser
	err  error
}

func (s googleVerifierStub) Exchange(context.Context, string) (GoogleUser, error) {
	return s.user, s.err
}

func newTestService(google GoogleVerifier) (*Service, *sessionStoreStub, *userStoreStub) {
	sessions := newSessionStoreStub()
	users := &userStoreStub{}
	jwtManager := NewJWTManager("test-secret", 15*time.Minute)
	svc := NewService(jwtManager, sessions, users, google, 30*24*time.Hour)
	return svc, sessions, users
}

func TestLoginGoogleCreatesAccountAndSession(t *testing.T) {
	svc, sessions, users := newTestService(googleVerifierStub{
		user: GoogleUser{ID: "g-123", Email: "alex@uni.example", Name: "Alex", Picture: "https://pic"},
	})

	result, err := svc.LoginGoogle(context.Background(), "auth-code")
	if err != nil {
		t.Fatalf("login: %v", err)
	}

	if result.AccessToken == "" || result.RefreshToken == "" {
		t.Fatalf("expected tokens to be issued")
	}
	if result.User.ID == 0 || result.User.Email != "alex@uni.example" {
		t.Fatalf("unexpected user in result: %+v", result.User)
	}
	if len(sessions.sessions) != 1 {
		t.Fatalf("expected one session, got %d", len(sessions.sessions))
	}
	if len(users.users) != 1 {
		t.Fatalf("expected one account, got %d", len(users.users))
	}
}

func TestLoginGoogleSameIdentityReusesAccount(t *testing.T) {
	svc, _, users := newTestService(googleVerifierStub{
		user: GoogleUser{ID: "g-123", Email: "alex@uni.example", Name: "Alex"},
	})

	first, err := svc.LoginGoogle(context.Background(), "code-1")
	if err != nil {
		t.Fatalf("first login: %v", err)
	}
	second, err := svc.LoginGoogle(context.Background(), "code-2")
	if err != nil {
		t.Fatalf("second login: %v", err)
	}

	if first.User.ID != second.User.ID {
		t.Fatalf("same google identity must map to one account: %d vs %d", first.User.ID, second.User.ID)
	}
	if len(users.users) != 1 {
		t.Fatalf("expected a single account, got %d", len(users.users))
	}
}

func TestRefreshRotatesToken(t *testing.T) {
	svc, sessions, _ := newTestService(googleVerifierStub{
		user: GoogleUser{ID: "g-123", Email: "alex@uni.example"},
	})

	login, err := svc.LoginGoogle(context.Background(), "code")
	if err != nil {
		t.Fatalf("login: %v", err)
	}

	refreshed, err := svc.Refresh(context.Background(), login.RefreshToken)
	if err != nil {
		t.Fatalf("refresh: %v", err)
	}
	if refreshed.RefreshToken == login.RefreshToken {
		t.Fatalf("refresh token must rotate")
	}

	if _, err := svc.Refresh(context.Background(), login.RefreshToken); !errors.Is(err, ErrUnauthorized) {
		t.Fatalf("old refresh token must be rejected, got %v", err)
	}
	if _, ok := sessions.refresh[refreshed.RefreshToken]; !ok {
		t.Fatalf("new refresh token not stored")
	}
}

func TestValidateAccessTokenRoundTrip(t *testing.T) {
	svc, _, _ := newTestService(googleVerifierStub{
		user: GoogleUser{ID: "g-55", Email: "sam@uni.example"},
	})

	login, err := svc.LoginGoogle(context.Background(), "code")
	if err != nil {
		t.Fatalf("login: %v", err)
	}

	claims, err := svc.ValidateAccessToken(context.Background(), login.AccessToken)
	if err != nil {
		t.Fatalf("validate: %v", err)
	}
	if claims.UserID != login.User.ID {
		t.Fatalf("claims user mismatch: %d vs %d", claims.UserID, login.User.ID)
	}

	if _, err := svc.ValidateAccessToken(context.Background(), "garbage"); !errors.Is(err, ErrUnauthorized) {
		t.Fatalf("expected unauthorized for garbage token, got %v", err)
	}
}

func TestLogoutInvalidatesSession(t *testing.T) {
	svc, _, _ := newTestService(googleVerifierStub{
		user: GoogleUser{ID: "g-9"},
	})

	login, err := svc.LoginGoogle(context.Background(), "code")
	if err != nil {
		t.Fatalf("login: %v", err)
	}

	claims, err := svc.ValidateAccessToken(context.Background(), login.AccessToken)
	if err != nil {
		t.Fatalf("validate before logout: %v", err)
	}

	if err := svc.Logout(context.Background(), claims.SID); err != nil {
		t.Fatalf("logout: %v", err)
	}

	if _, err := svc.ValidateAccessToken(context.Background(), login.AccessToken); !errors.Is(err, ErrUnauthorized) {
		t.Fatalf("expected unauthorized after logout, got %v", err)
	}
}

func TestLogoutAllInvalidatesEverySession(t *testing.T) {
	svc, sessions, _ := newTestService(googleVerifierStub{
		user: GoogleUser{ID: "g-9"},
	})

	first, err := svc.LoginGoogle(context.Background(), "code-1")
	if err != nil {
		t.Fatalf("first login: %v", err)
	}
	if _, err := svc.LoginGoogle(context.Background(), "code-2"); err != nil {
		t.Fatalf("second login: %v", err)
	}

	if err := svc.LogoutAll(context.Background(), first.User.ID); err != nil {
		t.Fatalf("logout all: %v", err)
	}
	if len(sessions.sessions) != 0 {
		t.Fatalf("expected all sessions gone, %d left", len(sessions.sessions))
	}
}
