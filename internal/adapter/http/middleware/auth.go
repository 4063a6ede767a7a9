package middleware

import (
	"context"
	"errors"
	"net/http"
	"strings"

	"github.com/iho/partytreasury/internal/domain"
	"github.com/iho/partytreasury/internal/infrastructure/auth"
	"github.com/iho/partytreasury/internal/infrastructure/logging"
)

// ContextKey is the type for context keys
type ContextKey string

const (
	// UserContextKey is the context key for the authenticated user
	UserContextKey ContextKey = "user"
)

// TokenVerifier verifies session tokens.
type TokenVerifier interface {
	Verify(tokenString string) (*auth.Claims, error)
}

// AuthObserver is told about rejected credentials.
type AuthObserver interface {
	AuthFailed(reason string)
}

// AuthMiddleware creates an authentication middleware
func AuthMiddleware(verifier TokenVerifier, observer AuthObserver) func(http.Handler) http.Handler {
	fail := func(w http.ResponseWriter, reason, message string) {
		if observer != nil {
			observer.AuthFailed(reason)
		}
		writeJSONError(w, http.StatusUnauthorized, message)
	}

	return func(next http.Handler) http.Handler {
		return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
			// Extract token from Authorization header
			authHeader := r.Header.Get("Authorization")
			if authHeader == "" {
				fail(w, "missing", "missing authorization header")
				return
			}

			// Parse Bearer token
			parts := strings.SplitN(authHeader, " ", 2)
			if len(parts) != 2 || parts[0] != "Bearer" || parts[1] == "" {
				fail(w, "malformed", "invalid authorization header format")
				return
			}

			claims, err := verifier.Verify(parts[1])
			if err != nil {
				reason := "invalid"
				if errors.Is(err, domain.ErrExpiredToken) {
					reason = "expired"
				}
				fail(w, reason, "invalid or expired token")
				return
			}

			user := &domain.User{
				ID:     claims.UserID,
				Email:  claims.Email,
				Name:   claims.Name,
				Active: true,
			}

			ctx := WithUser(r.Context(), user)
			next.ServeHTTP(w, r.WithContext(ctx))
		})
	}
}

// WithUser stores the authenticated user in ctx.
func WithUser(ctx context.Context, user *domain.User) context.Context {
	ctx = context.WithValue(ctx, UserContextKey, user)
	return logging.ContextWith(ctx, logging.UserIDKey, user.ID)
}

// GetUserFromContext extracts the authenticated user from context
func GetUserFromContext(ctx context.Context) (*domain.User, bool) {
	user, ok := ctx.Value(UserContextKey).(*domain.User)
	return user, ok && user != nil
}
