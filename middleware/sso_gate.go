package middleware

import (
	"context"
	"fmt"
	"net/http"
	"strings"

	"sso-gate/internal/domain"
	"sso-gate/utils/logger"

	"github.com/labstack/echo/v4"
)

// TokenChecker verifies a credential and returns the identity it belongs to.
type TokenChecker interface {
	Execute(ctx context.Context, token string) (*domain.Identity, error)
}

// SSOGate enforces SSO authentication on every route the path policy does not
// admit. Verified requests carry the identity in the request context;
// everything else is rejected before reaching a handler.
type SSOGate struct {
	checker TokenChecker
	urls    domain.AuthURLSource
	policy  *domain.PathPolicy
	cookie  TokenExtractor
	bearer  TokenExtractor
}

// NewSSOGate creates the authentication gate.
func NewSSOGate(checker TokenChecker, urls domain.AuthURLSource, policy *domain.PathPolicy) *SSOGate {
	return &SSOGate{
		checker: checker,
		urls:    urls,
		policy:  policy,
		cookie:  CookieTokenExtractor(domain.SessionCookieName),
		bearer:  BearerTokenExtractor(),
	}
}

// Middleware returns the Echo middleware enforcing authentication.
func (g *SSOGate) Middleware() echo.MiddlewareFunc {
	return func(next echo.HandlerFunc) echo.HandlerFunc {
		return func(c echo.Context) error {
			req := c.Request()
			ctx := req.Context()

			if reqID := req.Header.Get(echo.HeaderXRequestID); reqID != "" {
				ctx = logger.WithRequestID(ctx, reqID)
				c.SetRequest(req.WithContext(ctx))
				req = c.Request()
			}

			// Allow public paths through without authentication
			if g.policy.IsPublic(req.URL.Path) {
				return next(c)
			}

			token, source := g.extractToken(req)
			if token == "" {
				return g.challenge(c)
			}

			identity, err := g.checker.Execute(ctx, token)
			if err != nil {
				return g.challenge(c)
			}

			// Attach the identity so downstream handlers can use it
			ctx = domain.SetIdentity(ctx, identity)
			ctx = logger.WithUserID(ctx, identity.Subject)
			ctx = logger.WithTokenSource(ctx, source)
			ctx = logger.WithAuthDecision(ctx, "allowed")
			c.SetRequest(req.WithContext(ctx))

			return next(c)
		}
	}
}

// extractToken returns the credential and where it came from. The session
// cookie wins over the Authorization header when both are present.
func (g *SSOGate) extractToken(r *http.Request) (string, string) {
	if token := g.cookie(r); token != "" {
		return token, "cookie"
	}
	if token := g.bearer(r); token != "" {
		return token, "bearer"
	}
	return "", ""
}

// challenge returns a 401 JSON response or a login redirect depending on the
// client.
func (g *SSOGate) challenge(c echo.Context) error {
	req := c.Request()
	c.SetRequest(req.WithContext(logger.WithAuthDecision(req.Context(), "challenged")))

	if isBrowserRequest(req) {
		originalURL := c.Scheme() + "://" + req.Host + req.URL.RequestURI()
		return c.Redirect(http.StatusFound, g.urls.LoginURL(originalURL))
	}

	return c.JSON(http.StatusUnauthorized, map[string]string{
		"error": "authentication_required",
		"message": fmt.Sprintf(
			"SSO authentication is required. Provide a valid token via the %q cookie or an Authorization: Bearer header.",
			domain.SessionCookieName),
	})
}

// isBrowserRequest reports whether the caller is likely an interactive
// browser rather than an API client.
func isBrowserRequest(r *http.Request) bool {
	return strings.Contains(r.Header.Get("Accept"), "text/html")
}
