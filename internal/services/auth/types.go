package auth

import (
	"errors"
	"time"
)

const RoleUser = "user"

var (
	ErrInvalidInput    = errors.New("invalid input")
	ErrUnauthorized    = errors.New("unauthorized")
	ErrSessionNotFound = errors.New("session not found")
	ErrRefreshNotFound = errors.New("refresh token not found")
)

type SessionRecord struct {
	SID       string
	UserID    int64
	Role      string
	ExpiresAt time.Time
}

type AccessClaims struct {
	UserID    int64
	SID       string
	Role      string
	ExpiresAt time.Time
}

// User is the account view auth needs: enough to issue tokens and
// echo who just signed in.
type User struct {
	ID          int64
	Email       string
	DisplayName string
	PhotoURL    string
}

type AuthResult struct {
	AccessToken   string
	RefreshToken  string
	AccessExpires time.Time
	User          User
	Role          string
}
