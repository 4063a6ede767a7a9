package middleware

import (
	"bytes"
	"net/http"
	"net/http/httptest"
	"strings"
	"testing"

	"github.com/go-chi/chi/v5"
	chimiddleware "github.com/go-chi/chi/v5/middleware"
	"github.com/rs/zerolog"
	"github.com/stretchr/testify/assert"
)

func TestRecoveryReturnsJSONError(t *testing.T) {
	var logs bytes.Buffer
	logger := zerolog.New(&logs)

	handler := Recovery(logger)(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		panic("split exploded")
	}))

	rec := httptest.NewRecorder()
	handler.ServeHTTP(rec, httptest.NewRequest(http.MethodPost, "/api/v1/vaults/v1/coin/split", nil))

	assert.Equal(t, http.StatusInternalServerError, rec.Code)
	assert.JSONEq(t, `{"error":"internal server error"}`, rec.Body.String())
	assert.Contains(t, logs.String(), "split exploded")
	assert.Contains(t, logs.String(), "panic recovered")
}

func TestLoggingMiddlewareWritesRequestLine(t *testing.T) {
	var logs bytes.Buffer
	lm := NewLoggingMiddleware(zerolog.New(&logs))

	r := chi.NewRouter()
	r.Use(chimiddleware.RequestID)
	r.Use(lm.Wrap)
	r.Get("/api/v1/vaults", func(w http.ResponseWriter, r *http.Request) {
		w.WriteHeader(http.StatusAccepted)
	})
	r.Get("/boom", func(w http.ResponseWriter, r *http.Request) {
		w.WriteHeader(http.StatusBadGateway)
	})

	r.ServeHTTP(httptest.NewRecorder(), httptest.NewRequest(http.MethodGet, "/api/v1/vaults", nil))
	r.ServeHTTP(httptest.NewRecorder(), httptest.NewRequest(http.MethodGet, "/boom", nil))

	lines := strings.Split(strings.TrimSpace(logs.String()), "\n")
	if assert.Len(t, lines, 2) {
		assert.Contains(t, lines[0], `"status":202`)
		assert.Contains(t, lines[0], `"level":"info"`)
		assert.Contains(t, lines[0], `"request_id":"`)
		assert.Contains(t, lines[1], `"level":"error"`)
	}
}
