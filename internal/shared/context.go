package shared

import "context"

// Identity describes the authenticated caller attached to a request.
// It is produced by the auth gate after token verification and is the
// only way downstream handlers learn who is calling.
type Identity struct {
	UserID string
	Email  string
}

type identityContextKey struct{}

// ContextWithIdentity stores the caller identity in context.
func ContextWithIdentity(ctx context.Context, ident Identity) context.Context {
	return context.WithValue(ctx, identityContextKey{}, ident)
}

// IdentityFromContext extracts the caller identity from context.
// The second return value reports whether an identity was attached.
func IdentityFromContext(ctx context.Context) (Identity, bool) {
	ident, ok := ctx.Value(identityContextKey{}).(Identity)
	return ident, ok
}
