package middleware

import (
	"net/http"
	"strings"
)

// TokenExtractor pulls a credential from a request. An empty string means no
// credential was presented.
type TokenExtractor func(r *http.Request) string

// CookieTokenExtractor returns an extractor reading the named cookie.
func CookieTokenExtractor(name string) TokenExtractor {
	return func(r *http.Request) string {
		cookie, err := r.Cookie(name)
		if err != nil {
			return ""
		}
		return cookie.Value
	}
}

// BearerTokenExtractor returns an extractor reading the Authorization header.
// The scheme match is case-insensitive; any scheme other than Bearer is
// treated as no credential.
func BearerTokenExtractor() TokenExtractor {
	return func(r *http.Request) string {
		header := r.Header.Get("Authorization")
		if header == "" {
			return ""
		}
		parts := strings.Fields(header)
		if len(parts) != 2 || !strings.EqualFold(parts[0], "bearer") {
			return ""
		}
		return parts[1]
	}
}
