package domain

import "context"

type contextKey string

const identityContextKey contextKey = "sso_identity"

// SetIdentity returns a context carrying the authenticated identity.
func SetIdentity(ctx context.Context, identity *Identity) context.Context {
	return context.WithValue(ctx, identityContextKey, identity)
}

// IdentityFromContext retrieves the identity attached by the authentication
// gate. The second return value is false when the request was never gated or
// the gate did not authenticate it.
func IdentityFromContext(ctx context.Context) (*Identity, bool) {
	identity, ok := ctx.Value(identityContextKey).(*Identity)
	if !ok || identity == nil {
		return nil, false
	}
	return identity, true
}
