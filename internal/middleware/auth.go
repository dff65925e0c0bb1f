// Package middleware provides HTTP middlewares for authentication and logging.
package middleware

import (
	"context"
	"net/http"
	"strings"

	"github.com/teameicu/careportal/internal/models"
)

type ctxKey string

const userKey ctxKey = "user"

// TokenVerifier validates an access token and returns the email it was
// issued for.
type TokenVerifier interface {
	VerifyToken(token string) (string, error)
}

// UserSource resolves an authenticated email to its account, for role
// checks.
type UserSource interface {
	FindByUsernameOrEmail(ctx context.Context, identifier string) (*models.User, error)
}

// BearerAuth enforces Authorization: Bearer <token> on the wrapped
// routes. On success the token's email is stored in the request context
// as the authenticated user ID.
func BearerAuth(verifier TokenVerifier) func(http.Handler) http.Handler {
	return func(next http.Handler) http.Handler {
		return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
			header := r.Header.Get("Authorization")
			token, ok := strings.CutPrefix(header, "Bearer ")
			if !ok || token == "" {
				http.Error(w, "invalid or expired token", http.StatusUnauthorized)
				return
			}

			email, err := verifier.VerifyToken(token)
			if err != nil {
				http.Error(w, "invalid or expired token", http.StatusUnauthorized)
				return
			}

			ctx := context.WithValue(r.Context(), userKey, email)
			next.ServeHTTP(w, r.WithContext(ctx))
		})
	}
}

// RequireRoles allows only authenticated users whose account role matches
// one of the allowed roles, compared case-insensitively. Must be mounted
// inside BearerAuth.
func RequireRoles(users UserSource, allowed ...models.Role) func(http.Handler) http.Handler {
	return func(next http.Handler) http.Handler {
		return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
			email := GetUserFromContext(r.Context())
			if email == "" {
				http.Error(w, "invalid or expired token", http.StatusUnauthorized)
				return
			}

			user, err := users.FindByUsernameOrEmail(r.Context(), email)
			if err != nil {
				http.Error(w, "internal error", http.StatusInternalServerError)
				return
			}
			if user == nil {
				http.Error(w, "user not found", http.StatusNotFound)
				return
			}

			for _, role := range allowed {
				if strings.EqualFold(string(user.Role), string(role)) {
					next.ServeHTTP(w, r)
					return
				}
			}
			http.Error(w, "access denied", http.StatusForbidden)
		})
	}
}

// GetUserFromContext extracts the authenticated user's email from the
// request context. Returns an empty string if not found.
func GetUserFromContext(ctx context.Context) string {
	val := ctx.Value(userKey)
	if s, ok := val.(string); ok {
		return s
	}
	return ""
}

// WithUser returns a context carrying the authenticated email; used by
// handler tests.
func WithUser(ctx context.Context, email string) context.Context {
	return context.WithValue(ctx, userKey, email)
}
