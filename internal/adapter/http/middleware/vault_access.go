package middleware

import (
	"context"
	"errors"
	"net/http"

	"github.com/go-chi/chi/v5"

	"github.com/iho/partytreasury/internal/domain"
	"github.com/iho/partytreasury/internal/infrastructure/logging"
	"github.com/iho/partytreasury/internal/usecase"
)

const (
	// AccessContextKey is the context key for the caller's vault access
	AccessContextKey ContextKey = "vault_access"

	// VaultIDParam is the route parameter naming the vault
	VaultIDParam = "vaultID"
)

// VaultAccess resolves the caller's membership in the vault named by the
// route. Callers who are not members see 404 so vault ids cannot be probed.
func VaultAccess(resolver usecase.AccessResolver) func(http.Handler) http.Handler {
	return func(next http.Handler) http.Handler {
		return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
			user, ok := GetUserFromContext(r.Context())
			if !ok {
				writeJSONError(w, http.StatusUnauthorized, "unauthorized")
				return
			}

			vaultID := chi.URLParam(r, VaultIDParam)
			if vaultID == "" {
				writeJSONError(w, http.StatusBadRequest, "missing vault ID")
				return
			}

			access, err := resolver.ResolveAccess(r.Context(), vaultID, user.ID)
			if err != nil {
				if errors.Is(err, domain.ErrNotFound) {
					writeJSONError(w, http.StatusNotFound, "vault not found")
					return
				}
				writeJSONError(w, http.StatusInternalServerError, "failed to resolve vault access")
				return
			}

			ctx := WithAccess(r.Context(), access)
			ctx = logging.ContextWith(ctx, logging.VaultIDKey, vaultID)
			next.ServeHTTP(w, r.WithContext(ctx))
		})
	}
}

// RequireCapability rejects callers whose vault access lacks capability.
func RequireCapability(capability domain.Capability) func(http.Handler) http.Handler {
	return func(next http.Handler) http.Handler {
		return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
			access, ok := GetAccessFromContext(r.Context())
			if !ok {
				writeJSONError(w, http.StatusNotFound, "vault not found")
				return
			}

			if !access.Can(capability) {
				writeJSONError(w, http.StatusForbidden, "insufficient vault permissions")
				return
			}

			next.ServeHTTP(w, r)
		})
	}
}

// WithAccess stores resolved vault access in ctx.
func WithAccess(ctx context.Context, access *domain.Access) context.Context {
	return context.WithValue(ctx, AccessContextKey, access)
}

// GetAccessFromContext extracts the caller's vault access from context
func GetAccessFromContext(ctx context.Context) (*domain.Access, bool) {
	access, ok := ctx.Value(AccessContextKey).(*domain.Access)
	return access, ok && access != nil
}
