package middleware

import (
	"net/http"
	"net/http/httptest"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/iho/partytreasury/internal/domain"
	"github.com/iho/partytreasury/internal/infrastructure/auth"
)

type fakeVerifier struct {
	claims *auth.Claims
	err    error
}

func (f fakeVerifier) Verify(string) (*auth.Claims, error) {
	return f.claims, f.err
}

type countingObserver struct {
	reasons     []string
	rateLimited int
}

func (o *countingObserver) AuthFailed(reason string) { o.reasons = append(o.reasons, reason) }
func (o *countingObserver) RateLimited()             { o.rateLimited++ }

func TestAuthMiddleware(t *testing.T) {
	tests := []struct {
		name       string
		header     string
		verifier   fakeVerifier
		wantStatus int
		wantReason string
	}{
		{name: "missing header", header: "", wantStatus: http.StatusUnauthorized, wantReason: "missing"},
		{name: "wrong scheme", header: "Basic abc", wantStatus: http.StatusUnauthorized, wantReason: "malformed"},
		{
			name:       "expired token",
			header:     "Bearer tok",
			verifier:   fakeVerifier{err: domain.ErrExpiredToken},
			wantStatus: http.StatusUnauthorized,
			wantReason: "expired",
		},
		{
			name:       "invalid token",
			header:     "Bearer tok",
			verifier:   fakeVerifier{err: domain.ErrInvalidToken},
			wantStatus: http.StatusUnauthorized,
			wantReason: "invalid",
		},
		{
			name:       "valid token",
			header:     "Bearer tok",
			verifier:   fakeVerifier{claims: &auth.Claims{UserID: "user-1", Email: "a@b.c"}},
			wantStatus: http.StatusNoContent,
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			observer := &countingObserver{}
			var gotUser *domain.User

			next := http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
				gotUser, _ = GetUserFromContext(r.Context())
				w.WriteHeader(http.StatusNoContent)
			})

			req := httptest.NewRequest(http.MethodGet, "/api/v1/vaults", nil)
			if tt.header != "" {
				req.Header.Set("Authorization", tt.header)
			}
			rec := httptest.NewRecorder()

			AuthMiddleware(tt.verifier, observer)(next).ServeHTTP(rec, req)

			assert.Equal(t, tt.wantStatus, rec.Code)
			if tt.wantReason != "" {
				assert.Equal(t, []string{tt.wantReason}, observer.reasons)
				assert.Nil(t, gotUser)
				return
			}
			require.NotNil(t, gotUser)
			assert.Equal(t, "user-1", gotUser.ID)
			assert.Empty(t, observer.reasons)
		})
	}
}

func TestAuthMiddlewareNilObserver(t *testing.T) {
	req := httptest.NewRequest(http.MethodGet, "/", nil)
	rec := httptest.NewRecorder()

	AuthMiddleware(fakeVerifier{}, nil)(http.NotFoundHandler()).ServeHTTP(rec, req)

	assert.Equal(t, http.StatusUnauthorized, rec.Code)
}
