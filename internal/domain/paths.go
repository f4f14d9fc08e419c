package domain

import "strings"

// PathPolicy decides which request paths are admitted without authentication.
type PathPolicy struct {
	exact    map[string]struct{}
	prefixes []string
}

// NewPathPolicy builds a policy from exact paths and path prefixes.
func NewPathPolicy(exact, prefixes []string) *PathPolicy {
	m := make(map[string]struct{}, len(exact))
	for _, p := range exact {
		m[p] = struct{}{}
	}
	return &PathPolicy{exact: m, prefixes: prefixes}
}

// IsPublic reports whether path bypasses the authentication gate.
func (p *PathPolicy) IsPublic(path string) bool {
	if _, ok := p.exact[path]; ok {
		return true
	}
	for _, prefix := range p.prefixes {
		if strings.HasPrefix(path, prefix) {
			return true
		}
	}
	return false
}
