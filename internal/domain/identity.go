package domain

// SessionCookieName is the cookie carrying the SSO access token.
const SessionCookieName = "maestrist_sso_token"

// Identity represents an authenticated user as reported by the SSO provider.
// Fields the provider omits are left empty.
type Identity struct {
	Subject string
	Name    string
	Role    string
	Email   string
}
