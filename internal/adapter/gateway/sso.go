package gateway

import (
	"bytes"
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"io"
	"net/http"
	"net/url"
	"strings"
	"time"

	"sso-gate/internal/domain"

	"golang.org/x/oauth2"
)

// SSOGateway talks to the SSO provider. Implements domain.TokenVerifier,
// domain.CodeExchanger and domain.AuthURLSource.
type SSOGateway struct {
	issuer     string
	oauth      *oauth2.Config
	httpClient *http.Client
}

// NewSSOGateway creates a gateway with tuned HTTP transport. The timeout
// bounds every provider call, verification and code exchange alike.
func NewSSOGateway(issuer, clientID, clientSecret, callbackURL string, timeout time.Duration) *SSOGateway {
	issuer = strings.TrimRight(issuer, "/")

	transport := &http.Transport{
		MaxIdleConns:        100,
		MaxIdleConnsPerHost: 20,
		IdleConnTimeout:     90 * time.Second,
	}

	httpClient := &http.Client{
		Timeout:   timeout,
		Transport: transport,
	}

	oauthConfig := &oauth2.Config{
		ClientID:     clientID,
		ClientSecret: clientSecret,
		RedirectURL:  callbackURL,
		Scopes:       []string{"openid", "profile", "email"},
		Endpoint: oauth2.Endpoint{
			AuthURL:  issuer + "/authorize",
			TokenURL: issuer + "/api/token",
			// The provider expects client credentials in the form body.
			AuthStyle: oauth2.AuthStyleInParams,
		},
	}

	return &SSOGateway{
		issuer:     issuer,
		oauth:      oauthConfig,
		httpClient: httpClient,
	}
}

// verifyRequest is the body posted to the token verification endpoint.
type verifyRequest struct {
	Token string `json:"token"`
}

// verifyResponse is the identity payload returned for a valid token.
type verifyResponse struct {
	Sub   string `json:"sub"`
	Name  string `json:"name"`
	Role  string `json:"role"`
	Email string `json:"email"`
}

// VerifyToken posts the token to the provider's verification endpoint and
// returns the identity it reports. A non-200 answer means the credential is
// invalid or revoked; a transport failure means the provider is unreachable.
func (g *SSOGateway) VerifyToken(ctx context.Context, token string) (*domain.Identity, error) {
	if token == "" {
		return nil, domain.ErrMissingCredential
	}

	body, err := json.Marshal(verifyRequest{Token: token})
	if err != nil {
		return nil, fmt.Errorf("marshal verify request: %w", err)
	}

	verifyURL := fmt.Sprintf("%s/api/token/verify", g.issuer)

	req, err := http.NewRequestWithContext(ctx, http.MethodPost, verifyURL, bytes.NewReader(body))
	if err != nil {
		return nil, fmt.Errorf("%w: %w", domain.ErrProviderUnreachable, err)
	}
	req.Header.Set("Content-Type", "application/json")

	resp, err := g.httpClient.Do(req)
	if err != nil {
		return nil, fmt.Errorf("%w: %w", domain.ErrProviderUnreachable, err)
	}
	defer resp.Body.Close()

	if resp.StatusCode != http.StatusOK {
		excerpt, _ := io.ReadAll(io.LimitReader(resp.Body, 200))
		return nil, fmt.Errorf("%w: verification returned status %d: %s",
			domain.ErrInvalidCredential, resp.StatusCode, string(excerpt))
	}

	// The provider accepted the token. Missing or unparseable identity
	// fields degrade to empty values rather than failing the request.
	var payload verifyResponse
	if err := json.NewDecoder(resp.Body).Decode(&payload); err != nil {
		payload = verifyResponse{}
	}

	return &domain.Identity{
		Subject: payload.Sub,
		Name:    payload.Name,
		Role:    payload.Role,
		Email:   payload.Email,
	}, nil
}

// ExchangeCode trades an authorization code for the provider access token.
func (g *SSOGateway) ExchangeCode(ctx context.Context, code string) (string, error) {
	ctx = context.WithValue(ctx, oauth2.HTTPClient, g.httpClient)

	token, err := g.oauth.Exchange(ctx, code)
	if err != nil {
		var retrieveErr *oauth2.RetrieveError
		if errors.As(err, &retrieveErr) {
			return "", fmt.Errorf("%w: token endpoint returned status %d: %s",
				domain.ErrProviderRejected, retrieveErr.Response.StatusCode, truncateBody(retrieveErr.Body))
		}
		var urlErr *url.Error
		if errors.As(err, &urlErr) {
			return "", fmt.Errorf("%w: %w", domain.ErrProviderUnreachable, err)
		}
		return "", fmt.Errorf("%w: %w", domain.ErrMalformedResponse, err)
	}

	if token.AccessToken == "" {
		return "", fmt.Errorf("%w: token response missing access_token", domain.ErrMalformedResponse)
	}

	return token.AccessToken, nil
}

// LoginURL returns the provider authorization URL. The state parameter
// carries the URL to return to after login and is omitted when empty.
func (g *SSOGateway) LoginURL(state string) string {
	return g.oauth.AuthCodeURL(state)
}

// LogoutURL returns the provider logout URL. The provider expects the
// redirect_uri verbatim, so the callback URL is not query-encoded here.
func (g *SSOGateway) LogoutURL() string {
	return fmt.Sprintf("%s/logout?redirect_uri=%s", g.issuer, g.oauth.RedirectURL)
}

// truncateBody limits provider response bodies quoted in error messages.
func truncateBody(body []byte) string {
	const limit = 300
	if len(body) > limit {
		return string(body[:limit]) + "..."
	}
	return string(body)
}
