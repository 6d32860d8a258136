// Package credential resolves the backend API key for one request.
package credential

import (
	"strings"

	"videosummary_backend/platform/apperr"
)

// debugPrefixLen bounds how much of a key may ever be surfaced for diagnostics.
const debugPrefixLen = 4

// Credential is an opaque backend API key. The full value is never logged;
// only DebugPrefix may appear in diagnostics.
type Credential struct {
	key string
}

// Key returns the raw key for use in backend requests.
func (c Credential) Key() string {
	return c.key
}

// DebugPrefix returns at most the first four characters of the key.
func (c Credential) DebugPrefix() string {
	if len(c.key) <= debugPrefixLen {
		return c.key
	}
	return c.key[:debugPrefixLen]
}

// Resolver resolves the backend key from an ordered fallback chain:
// a key supplied with the request wins over the environment-derived key.
// No network validation happens here; an invalid key is only discovered
// when the backend call is made.
type Resolver struct {
	envKey string
}

// NewResolver creates a resolver with the environment-derived fallback key.
func NewResolver(envKey string) *Resolver {
	return &Resolver{envKey: strings.TrimSpace(envKey)}
}

// Resolve returns the credential for one request, preferring the
// request-provided key.
func (r *Resolver) Resolve(userProvidedKey string) (Credential, error) {
	if key := strings.TrimSpace(userProvidedKey); key != "" {
		return Credential{key: key}, nil
	}
	if r.envKey != "" {
		return Credential{key: r.envKey}, nil
	}
	return Credential{}, apperr.MissingCredential("no API key provided and GOOGLE_API_KEY is not set")
}
