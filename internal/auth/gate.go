// Package auth implements the shared-secret admin check.
//
// There are no sessions or user accounts: the admin password itself is
// the bearer token, and every gated request is checked against it.
package auth

import (
	"crypto/subtle"
	"net/http"
	"strings"

	"github.com/goccy/go-json"

	"github.com/meur/raidmap/internal/logging"
)

const bearerPrefix = "Bearer "

// Gate checks credentials against the configured admin secret
type Gate struct {
	secret []byte
}

// NewGate creates a gate for secret. An empty secret rejects everything.
func NewGate(secret string) *Gate {
	return &Gate{secret: []byte(secret)}
}

// Validate reports whether header is exactly "Bearer <secret>".
// The comparison is case-sensitive.
func (g *Gate) Validate(header string) bool {
	if !strings.HasPrefix(header, bearerPrefix) {
		return false
	}
	return g.match(strings.TrimPrefix(header, bearerPrefix))
}

// CheckPassword reports whether pw equals the secret
func (g *Gate) CheckPassword(pw string) bool {
	return g.match(pw)
}

func (g *Gate) match(candidate string) bool {
	if len(g.secret) == 0 {
		return false
	}
	return subtle.ConstantTimeCompare([]byte(candidate), g.secret) == 1
}

// RequireAdmin rejects requests without a valid Authorization header
// with 401 before they reach next
func (g *Gate) RequireAdmin(next http.Handler) http.Handler {
	return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		if !g.Validate(r.Header.Get("Authorization")) {
			logging.Ctx(r.Context()).Warn().
				Str("method", r.Method).
				Str("path", r.URL.Path).
				Msg("unauthorized admin request")

			w.Header().Set("Content-Type", "application/json")
			w.WriteHeader(http.StatusUnauthorized)
			json.NewEncoder(w).Encode(map[string]string{"error": "Unauthorized"})
			return
		}
		next.ServeHTTP(w, r)
	})
}
