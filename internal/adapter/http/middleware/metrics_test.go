package middleware

import (
	"net/http"
	"net/http/httptest"
	"sync"
	"testing"
	"time"

	"github.com/go-chi/chi/v5"
	"github.com/stretchr/testify/assert"
)

type observation struct {
	method string
	path   string
	status int
}

type recordingObserver struct {
	mu       sync.Mutex
	inFlight float64
	peak     float64
	observed []observation
}

func (o *recordingObserver) InFlight(delta float64) {
	o.mu.Lock()
	defer o.mu.Unlock()
	o.inFlight += delta
	if o.inFlight > o.peak {
		o.peak = o.inFlight
	}
}

func (o *recordingObserver) ObserveHTTP(method, path string, status int, _ time.Duration) {
	o.mu.Lock()
	defer o.mu.Unlock()
	o.observed = append(o.observed, observation{method: method, path: path, status: status})
}

func TestMetricsMiddlewareRecordsRequest(t *testing.T) {
	testCases := []struct {
		name       string
		method     string
		path       string
		statusCode int
		wantPath   string
	}{
		{
			name:       "labels vault routes by pattern",
			method:     http.MethodGet,
			path:       "/api/v1/vaults/01HX/coin/balances",
			statusCode: http.StatusTeapot,
			wantPath:   "/api/v1/vaults/{vaultID}/coin/balances",
		},
		{
			name:       "keeps static routes",
			method:     http.MethodPost,
			path:       "/health",
			statusCode: http.StatusCreated,
			wantPath:   "/health",
		},
		{
			name:       "collapses unknown paths",
			method:     http.MethodGet,
			path:       "/nope/123",
			statusCode: http.StatusNotFound,
			wantPath:   "unmatched",
		},
	}

	for _, tc := range testCases {
		t.Run(tc.name, func(t *testing.T) {
			observer := &recordingObserver{}

			r := chi.NewRouter()
			r.Use(Metrics(observer))
			reply := func(w http.ResponseWriter, r *http.Request) { w.WriteHeader(tc.statusCode) }
			r.Get("/api/v1/vaults/{vaultID}/coin/balances", reply)
			r.Post("/health", reply)

			rr := httptest.NewRecorder()
			r.ServeHTTP(rr, httptest.NewRequest(tc.method, tc.path, nil))

			assert.Equal(t, tc.statusCode, rr.Code)
			assert.Equal(t, []observation{{method: tc.method, path: tc.wantPath, status: tc.statusCode}}, observer.observed)
			assert.Equal(t, float64(1), observer.peak)
			assert.Equal(t, float64(0), observer.inFlight)
		})
	}
}
