package auth

import (
	"context"
	"encoding/json"
	"net/http"
	"strings"

	"github.com/noteful/noteful/internal/errs"
)

// Context keys for auth data
type contextKey string

const userContextKey contextKey = "user"

var errMissingToken = errs.New(errs.Unauthorized, "missing credentials")

// Middleware provides bearer-token authentication for HTTP handlers.
type Middleware struct {
	issuer *TokenIssuer
}

// NewMiddleware creates a new auth middleware.
func NewMiddleware(issuer *TokenIssuer) *Middleware {
	return &Middleware{issuer: issuer}
}

// RequireAuth rejects requests without a valid bearer token with 401.
// On success the verified user is placed on the request context.
func (m *Middleware) RequireAuth(next http.Handler) http.Handler {
	return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		token, ok := bearerToken(r)
		if !ok {
			writeUnauthorized(w, "missing credentials")
			return
		}

		user, err := m.issuer.Verify(token)
		if err != nil {
			writeUnauthorized(w, "invalid credentials")
			return
		}

		ctx := context.WithValue(r.Context(), userContextKey, user)
		next.ServeHTTP(w, r.WithContext(ctx))
	})
}

// UserFromRequest verifies the request's bearer token without going through
// the middleware chain. Used by rate limiting to key on the user ID before
// the auth middleware has run.
func (m *Middleware) UserFromRequest(r *http.Request) (*User, error) {
	token, ok := bearerToken(r)
	if !ok {
		return nil, errMissingToken
	}
	return m.issuer.Verify(token)
}

// UserFrom retrieves the authenticated user from the request context.
// Returns nil if no user is authenticated.
func UserFrom(ctx context.Context) *User {
	user, _ := ctx.Value(userContextKey).(*User)
	return user
}

func bearerToken(r *http.Request) (string, bool) {
	header := r.Header.Get("Authorization")
	token, ok := strings.CutPrefix(header, "Bearer ")
	if !ok || token == "" {
		return "", false
	}
	return token, true
}

func writeUnauthorized(w http.ResponseWriter, message string) {
	w.Header().Set("Content-Type", "application/json")
	w.WriteHeader(http.StatusUnauthorized)
	json.NewEncoder(w).Encode(map[string]string{"message": message})
}
