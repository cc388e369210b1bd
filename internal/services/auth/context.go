package auth

import "context"

type identityKey struct{}

// Identity is the authenticated caller attached to a request once its
// access token has been validated against the redis session.
type Identity struct {
	UserID int64
	SID    string
	Role   string
}

func (id Identity) Valid() bool {
	return id.UserID > 0 && id.SID != ""
}

func WithIdentity(ctx context.Context, identity Identity) context.Context {
	return context.WithValue(ctx, identityKey{}, identity)
}

// IdentityFromContext returns the caller's identity. The second value
// is false when the request never passed the auth middleware or the
// stored identity is malformed.
func IdentityFromContext(ctx context.Context) (Identity, bool) {
	identity, ok := ctx.Value(identityKey{}).(Identity)
	if !ok || !identity.Valid() {
		return Identity{}, false
	}
	return identity, true
}

// UserIDFromContext is a shorthand for handlers that only need the
// caller's user id.
func UserIDFromContext(ctx context.Context) (int64, bool) {
	identity, ok := IdentityFromContext(ctx)
	return identity.UserID, ok
}
