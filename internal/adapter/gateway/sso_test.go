package gateway

import (
	"context"
	"encoding/json"
	"errors"
	"io"
	"net/http"
	"net/http/httptest"
	"net/url"
	"testing"
	"time"

	"sso-gate/internal/domain"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestSSOGateway_VerifyToken_Success(t *testing.T) {
	server := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		assert.Equal(t, http.MethodPost, r.Method)
		assert.Equal(t, "/api/token/verify", r.URL.Path)
		assert.Equal(t, "application/json", r.Header.Get("Content-Type"))

		var req verifyRequest
		require.NoError(t, json.NewDecoder(r.Body).Decode(&req))
		assert.Equal(t, "valid-token", req.Token)

		w.Header().Set("Content-Type", "application/json")
		json.NewEncoder(w).Encode(verifyResponse{
			Sub:   "user-abc-123",
			Name:  "Test User",
			Role:  "admin",
			Email: "test@example.com",
		})
	}))
	defer server.Close()

	gw := NewSSOGateway(server.URL, "client-id", "client-secret", "https://app.example.com/auth/callback", 5*time.Second)
	identity, err := gw.VerifyToken(context.Background(), "valid-token")

	assert.NoError(t, err)
	assert.Equal(t, "user-abc-123", identity.Subject)
	assert.Equal(t, "Test User", identity.Name)
	assert.Equal(t, "admin", identity.Role)
	assert.Equal(t, "test@example.com", identity.Email)
}

func TestSSOGateway_VerifyToken_Rejected(t *testing.T) {
	server := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		w.WriteHeader(http.StatusUnauthorized)
	}))
	defer server.Close()

	gw := NewSSOGateway(server.URL, "client-id", "client-secret", "https://app.example.com/auth/callback", 5*time.Second)
	identity, err := gw.VerifyToken(context.Background(), "revoked-token")

	assert.Nil(t, identity)
	assert.True(t, errors.Is(err, domain.ErrInvalidCredential))
	assert.Contains(t, err.Error(), "401")
}

func TestSSOGateway_VerifyToken_ProviderDown(t *testing.T) {
	server := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {}))
	server.Close()

	gw := NewSSOGateway(server.URL, "client-id", "client-secret", "https://app.example.com/auth/callback", 1*time.Second)
	identity, err := gw.VerifyToken(context.Background(), "any-token")

	assert.Nil(t, identity)
	assert.True(t, errors.Is(err, domain.ErrProviderUnreachable))
}

func TestSSOGateway_VerifyToken_MalformedPayload(t *testing.T) {
	server := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		w.Header().Set("Content-Type", "application/json")
		io.WriteString(w, "not json at all")
	}))
	defer server.Close()

	gw := NewSSOGateway(server.URL, "client-id", "client-secret", "https://app.example.com/auth/callback", 5*time.Second)
	identity, err := gw.VerifyToken(context.Background(), "valid-token")

	// A 200 means the provider accepted the token; identity fields degrade to empty.
	assert.NoError(t, err)
	assert.Equal(t, "", identity.Subject)
	assert.Equal(t, "", identity.Email)
}

func TestSSOGateway_VerifyToken_PartialPayload(t *testing.T) {
	server := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		w.Header().Set("Content-Type", "application/json")
		io.WriteString(w, `{"sub":"user-1"}`)
	}))
	defer server.Close()

	gw := NewSSOGateway(server.URL, "client-id", "client-secret", "https://app.example.com/auth/callback", 5*time.Second)
	identity, err := gw.VerifyToken(context.Background(), "valid-token")

	assert.NoError(t, err)
	assert.Equal(t, "user-1", identity.Subject)
	assert.Equal(t, "", identity.Name)
	assert.Equal(t, "", identity.Role)
	assert.Equal(t, "", identity.Email)
}

func TestSSOGateway_VerifyToken_EmptyToken(t *testing.T) {
	gw := NewSSOGateway("http://unused", "client-id", "client-secret", "https://app.example.com/auth/callback", 5*time.Second)
	identity, err := gw.VerifyToken(context.Background(), "")

	assert.Nil(t, identity)
	assert.True(t, errors.Is(err, domain.ErrMissingCredential))
}

func TestSSOGateway_ExchangeCode_Success(t *testing.T) {
	server := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		assert.Equal(t, http.MethodPost, r.Method)
		assert.Equal(t, "/api/token", r.URL.Path)

		require.NoError(t, r.ParseForm())
		assert.Equal(t, "authorization_code", r.PostForm.Get("grant_type"))
		assert.Equal(t, "auth-code-xyz", r.PostForm.Get("code"))
		assert.Equal(t, "https://app.example.com/auth/callback", r.PostForm.Get("redirect_uri"))
		assert.Equal(t, "client-id", r.PostForm.Get("client_id"))
		assert.Equal(t, "client-secret", r.PostForm.Get("client_secret"))

		w.Header().Set("Content-Type", "application/json")
		io.WriteString(w, `{"access_token":"provider-access-token","token_type":"Bearer"}`)
	}))
	defer server.Close()

	gw := NewSSOGateway(server.URL, "client-id", "client-secret", "https://app.example.com/auth/callback", 5*time.Second)
	token, err := gw.ExchangeCode(context.Background(), "auth-code-xyz")

	assert.NoError(t, err)
	assert.Equal(t, "provider-access-token", token)
}

func TestSSOGateway_ExchangeCode_Rejected(t *testing.T) {
	server := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		w.Header().Set("Content-Type", "application/json")
		w.WriteHeader(http.StatusUnauthorized)
		io.WriteString(w, `{"error":"invalid_grant"}`)
	}))
	defer server.Close()

	gw := NewSSOGateway(server.URL, "client-id", "client-secret", "https://app.example.com/auth/callback", 5*time.Second)
	token, err := gw.ExchangeCode(context.Background(), "expired-code")

	assert.Empty(t, token)
	assert.True(t, errors.Is(err, domain.ErrProviderRejected))
	assert.Contains(t, err.Error(), "401")
}

func TestSSOGateway_ExchangeCode_ProviderDown(t *testing.T) {
	server := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {}))
	server.Close()

	gw := NewSSOGateway(server.URL, "client-id", "client-secret", "https://app.example.com/auth/callback", 1*time.Second)
	token, err := gw.ExchangeCode(context.Background(), "any-code")

	assert.Empty(t, token)
	assert.True(t, errors.Is(err, domain.ErrProviderUnreachable))
}

func TestSSOGateway_ExchangeCode_MissingAccessToken(t *testing.T) {
	server := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		w.Header().Set("Content-Type", "application/json")
		io.WriteString(w, `{"token_type":"Bearer"}`)
	}))
	defer server.Close()

	gw := NewSSOGateway(server.URL, "client-id", "client-secret", "https://app.example.com/auth/callback", 5*time.Second)
	token, err := gw.ExchangeCode(context.Background(), "auth-code-xyz")

	assert.Empty(t, token)
	assert.True(t, errors.Is(err, domain.ErrMalformedResponse))
}

func TestSSOGateway_ExchangeCode_UnparseableResponse(t *testing.T) {
	server := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		w.Header().Set("Content-Type", "application/json")
		io.WriteString(w, "{invalid")
	}))
	defer server.Close()

	gw := NewSSOGateway(server.URL, "client-id", "client-secret", "https://app.example.com/auth/callback", 5*time.Second)
	token, err := gw.ExchangeCode(context.Background(), "auth-code-xyz")

	assert.Empty(t, token)
	assert.True(t, errors.Is(err, domain.ErrMalformedResponse))
}

func TestSSOGateway_LoginURL(t *testing.T) {
	gw := NewSSOGateway("https://login.example.com", "client-id", "client-secret", "https://app.example.com/auth/callback", 5*time.Second)

	loginURL := gw.LoginURL("https://app.example.com/dashboard")

	parsed, err := url.Parse(loginURL)
	assert.NoError(t, err)
	assert.Equal(t, "login.example.com", parsed.Host)
	assert.Equal(t, "/authorize", parsed.Path)

	query := parsed.Query()
	assert.Equal(t, "code", query.Get("response_type"))
	assert.Equal(t, "client-id", query.Get("client_id"))
	assert.Equal(t, "https://app.example.com/auth/callback", query.Get("redirect_uri"))
	assert.Equal(t, "openid profile email", query.Get("scope"))
	assert.Equal(t, "https://app.example.com/dashboard", query.Get("state"))
}

func TestSSOGateway_LoginURL_NoState(t *testing.T) {
	gw := NewSSOGateway("https://login.example.com", "client-id", "client-secret", "https://app.example.com/auth/callback", 5*time.Second)

	parsed, err := url.Parse(gw.LoginURL(""))
	assert.NoError(t, err)
	assert.False(t, parsed.Query().Has("state"))
}

func TestSSOGateway_LogoutURL(t *testing.T) {
	gw := NewSSOGateway("https://login.example.com", "client-id", "client-secret", "https://app.example.com/auth/callback", 5*time.Second)

	assert.Equal(t,
		"https://login.example.com/logout?redirect_uri=https://app.example.com/auth/callback",
		gw.LogoutURL())
}

func TestSSOGateway_TrimsTrailingIssuerSlash(t *testing.T) {
	gw := NewSSOGateway("https://login.example.com/", "client-id", "client-secret", "https://app.example.com/auth/callback", 5*time.Second)

	parsed, err := url.Parse(gw.LoginURL("s"))
	assert.NoError(t, err)
	assert.Equal(t, "/authorize", parsed.Path)
}
