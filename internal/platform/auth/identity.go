package auth

import "context"

type contextKey string

const identityKey contextKey = "caller_identity"

// Identity is the authenticated caller attached to a request after the
// bearer middleware has verified the token and the account's standing.
// Handlers pass it explicitly into domain services; nothing downstream
// reads ambient auth state.
type Identity struct {
	UserID  int64
	TokenID string
}

// WithIdentity returns a child context carrying the caller identity.
func WithIdentity(ctx context.Context, id Identity) context.Context {
	return context.WithValue(ctx, identityKey, id)
}

// IdentityFromContext returns the caller identity and whether one is set.
func IdentityFromContext(ctx context.Context) (Identity, bool) {
	id, ok := ctx.Value(identityKey).(Identity)
	return id, ok
}
