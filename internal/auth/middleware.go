package auth

import (
	"context"
	"encoding/json"
	"net/http"
	"strings"
)

// contextKey is unexported so only this package can read or write the claims
// stored in a request context.
type contextKey struct{}

// Gate failure messages. They are part of the public API contract.
const (
	msgMissingToken = "Token is required"
	msgInvalidToken = "Invalid token"
)

// RequireAuth is the authorization gate for protected routes.
//
// It reads "Authorization: <scheme> <token>", keeps only the second
// whitespace-separated segment and verifies it:
//
//   - no token            → 401 {"error":"Token is required"}
//   - verification fails  → 403 {"error":"Invalid token"}
//   - valid               → Claims stored in the context, next handler runs
//
// The scheme itself is not checked.
func RequireAuth(tokens *TokenService) func(http.Handler) http.Handler {
	return func(next http.Handler) http.Handler {
		return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
			raw := bearerToken(r)
			if raw == "" {
				reject(w, http.StatusUnauthorized, msgMissingToken)
				return
			}

			claims, err := tokens.Verify(raw)
			if err != nil {
				reject(w, http.StatusForbidden, msgInvalidToken)
				return
			}

			next.ServeHTTP(w, r.WithContext(WithClaims(r.Context(), claims)))
		})
	}
}

// WithClaims returns a copy of ctx carrying claims. RequireAuth calls it for
// every verified request; tests use it to fake an authenticated caller.
func WithClaims(ctx context.Context, claims *Claims) context.Context {
	return context.WithValue(ctx, contextKey{}, claims)
}

// ClaimsFromContext returns the verified caller, or (nil, false) when the
// request did not pass through RequireAuth.
func ClaimsFromContext(ctx context.Context) (*Claims, bool) {
	c, ok := ctx.Value(contextKey{}).(*Claims)
	return c, ok && c != nil && c.UserID != ""
}

func bearerToken(r *http.Request) string {
	parts := strings.Fields(r.Header.Get("Authorization"))
	if len(parts) < 2 {
		return ""
	}
	return parts[1]
}

func reject(w http.ResponseWriter, status int, message string) {
	w.Header().Set("Content-Type", "application/json")
	w.WriteHeader(status)
	_ = json.NewEncoder(w).Encode(map[string]string{"error": message})
}
