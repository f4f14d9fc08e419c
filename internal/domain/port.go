package domain

import "context"

// TokenVerifier checks an opaque access token against the identity provider.
type TokenVerifier interface {
	VerifyToken(ctx context.Context, token string) (*Identity, error)
}

// CodeExchanger trades an OAuth authorization code for an access token.
type CodeExchanger interface {
	ExchangeCode(ctx context.Context, code string) (string, error)
}

// VerificationCache provides read/write access to verified token identities.
type VerificationCache interface {
	Get(token string) (*Identity, bool)
	Set(token string, identity Identity)
	Invalidate(token string)
}

// AuthURLSource builds provider URLs for the interactive login flow.
type AuthURLSource interface {
	LoginURL(state string) string
	LogoutURL() string
}
