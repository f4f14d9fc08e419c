package config

import (
	"fmt"
	"os"
	"strconv"
	"strings"
	"time"
)

// Config holds the application configuration
type Config struct {
	Issuer          string        // Base URL of the SSO provider
	ClientID        string        // OAuth2 client ID
	ClientSecret    string        // OAuth2 client secret, needed for code exchange
	CallbackURL     string        // OAuth2 redirect URI
	Port            string        // Service port
	CacheTTL        time.Duration // Verification cache TTL
	CacheMaxEntries int           // Verification cache size bound, 0 means unbounded
	ProviderTimeout time.Duration // HTTP timeout for provider calls
	PublicPaths     []string      // Paths public by exact match
	PublicPrefixes  []string      // Paths public by prefix match
}

// Load reads configuration from environment variables with sensible defaults
func Load() (*Config, error) {
	config := &Config{
		Issuer:          getEnv("SSO_ISSUER", "https://login.orcest.ai"),
		ClientID:        getEnv("SSO_CLIENT_ID", "maestrist"),
		ClientSecret:    getEnv("SSO_CLIENT_SECRET", ""),
		CallbackURL:     getEnv("SSO_CALLBACK_URL", "https://agent.orcest.ai/auth/callback"),
		Port:            getEnv("PORT", "8888"),
		CacheTTL:        5 * time.Minute, // Default 5 minutes
		CacheMaxEntries: 8192,
		ProviderTimeout: 10 * time.Second,
		PublicPaths:     splitPaths(getEnv("SSO_PUBLIC_PATHS", "/health,/alive")),
		PublicPrefixes: splitPaths(getEnv("SSO_PUBLIC_PREFIXES",
			"/health,/alive,/auth/callback,/auth/logout,/api/litellm-models,/api/options/models")),
	}

	// Parse CACHE_TTL if provided
	if cacheTTLStr := os.Getenv("CACHE_TTL"); cacheTTLStr != "" {
		duration, err := time.ParseDuration(cacheTTLStr)
		if err != nil {
			return nil, fmt.Errorf("invalid CACHE_TTL format: %w", err)
		}
		config.CacheTTL = duration
	}

	// Parse CACHE_MAX_ENTRIES if provided
	if maxStr := os.Getenv("CACHE_MAX_ENTRIES"); maxStr != "" {
		n, err := strconv.Atoi(maxStr)
		if err != nil {
			return nil, fmt.Errorf("invalid CACHE_MAX_ENTRIES format: %w", err)
		}
		config.CacheMaxEntries = n
	}

	// Parse SSO_HTTP_TIMEOUT if provided
	if timeoutStr := os.Getenv("SSO_HTTP_TIMEOUT"); timeoutStr != "" {
		duration, err := time.ParseDuration(timeoutStr)
		if err != nil {
			return nil, fmt.Errorf("invalid SSO_HTTP_TIMEOUT format: %w", err)
		}
		config.ProviderTimeout = duration
	}

	// Validate configuration
	if err := config.Validate(); err != nil {
		return nil, err
	}

	return config, nil
}

// Validate checks if the configuration is valid. The client secret is not
// required here: a gate that only verifies tokens never exchanges codes.
func (c *Config) Validate() error {
	if c.Issuer == "" {
		return fmt.Errorf("SSO_ISSUER cannot be empty")
	}

	if c.ClientID == "" {
		return fmt.Errorf("SSO_CLIENT_ID cannot be empty")
	}

	if c.CallbackURL == "" {
		return fmt.Errorf("SSO_CALLBACK_URL cannot be empty")
	}

	if c.Port == "" {
		return fmt.Errorf("PORT cannot be empty")
	}

	if c.CacheTTL <= 0 {
		return fmt.Errorf("CACHE_TTL must be positive")
	}

	if c.CacheMaxEntries < 0 {
		return fmt.Errorf("CACHE_MAX_ENTRIES cannot be negative")
	}

	if c.ProviderTimeout <= 0 {
		return fmt.Errorf("SSO_HTTP_TIMEOUT must be positive")
	}

	return nil
}

// splitPaths parses a comma-separated path list.
func splitPaths(s string) []string {
	parts := strings.Split(s, ",")
	paths := make([]string, 0, len(parts))
	for _, p := range parts {
		if p = strings.TrimSpace(p); p != "" {
			paths = append(paths, p)
		}
	}
	return paths
}

// getEnv retrieves an environment variable or returns a fallback value
func getEnv(key, fallback string) string {
	// Check for _FILE suffix
	if fileValue := os.Getenv(key + "_FILE"); fileValue != "" {
		content, err := os.ReadFile(fileValue)
		if err == nil {
			return strings.TrimSpace(string(content))
		}
	}

	if value := os.Getenv(key); value != "" {
		return value
	}
	return fallback
}
