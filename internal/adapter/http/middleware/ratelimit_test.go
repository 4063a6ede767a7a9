package middleware

import (
	"net/http"
	"net/http/httptest"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
)

func TestRateLimiterThrottlesPerClient(t *testing.T) {
	observer := &countingObserver{}
	rl := NewRateLimiter(1, 1).WithObserver(observer)
	handler := rl.Limit(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		w.WriteHeader(http.StatusOK)
	}))

	send := func(remote string) int {
		req := httptest.NewRequest(http.MethodGet, "/health", nil)
		req.RemoteAddr = remote
		rec := httptest.NewRecorder()
		handler.ServeHTTP(rec, req)
		return rec.Code
	}

	assert.Equal(t, http.StatusOK, send("1.2.3.4:1000"))
	assert.Equal(t, http.StatusTooManyRequests, send("1.2.3.4:2000"), "same host on another port shares the limiter")
	assert.Equal(t, http.StatusOK, send("5.6.7.8:1000"))
	assert.Equal(t, 1, observer.rateLimited)
}

func TestClientIP(t *testing.T) {
	tests := []struct {
		name   string
		header map[string]string
		remote string
		want   string
	}{
		{name: "forwarded chain", header: map[string]string{"X-Forwarded-For": "9.9.9.9, 10.0.0.1"}, remote: "1.1.1.1:1", want: "9.9.9.9"},
		{name: "real ip", header: map[string]string{"X-Real-IP": "8.8.8.8"}, remote: "1.1.1.1:1", want: "8.8.8.8"},
		{name: "remote addr", remote: "7.7.7.7:5555", want: "7.7.7.7"},
		{name: "remote without port", remote: "7.7.7.7", want: "7.7.7.7"},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			req := httptest.NewRequest(http.MethodGet, "/", nil)
			req.RemoteAddr = tt.remote
			for k, v := range tt.header {
				req.Header.Set(k, v)
			}
			assert.Equal(t, tt.want, clientIP(req))
		})
	}
}

func TestCleanupLimitersDropsIdleVisitors(t *testing.T) {
	now := time.Date(2024, 1, 1, 12, 0, 0, 0, time.UTC)
	rl := NewRateLimiter(1, 1)
	rl.now = func() time.Time { return now }

	rl.getLimiter("old")
	now = now.Add(2 * time.Hour)
	rl.getLimiter("fresh")

	removed := rl.CleanupLimiters(time.Hour)

	assert.Equal(t, 1, removed)
	assert.Contains(t, rl.visitors, "fresh")
	assert.NotContains(t, rl.visitors, "old")
}
