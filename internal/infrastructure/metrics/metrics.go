package metrics

import (
	"strconv"
	"time"

	"github.com/prometheus/client_golang/prometheus"
	"github.com/prometheus/client_golang/prometheus/promauto"
)

const namespace = "treasury"

// Metrics holds all Prometheus metrics
type Metrics struct {
	// Treasury metrics
	SplitsCompleted *prometheus.CounterVec
	SplitDuration   *prometheus.HistogramVec
	SplitCurrencies prometheus.Histogram
	CoinEntries     *prometheus.CounterVec
	CacheLookups    *prometheus.CounterVec

	// API metrics
	HTTPRequests *prometheus.CounterVec
	HTTPDuration *prometheus.HistogramVec
	HTTPInFlight prometheus.Gauge

	// Authentication metrics
	AuthFailures *prometheus.CounterVec

	// Rate limiting metrics
	RateLimitHits prometheus.Counter

	// Event relay metrics
	EventsPublished *prometheus.CounterVec
}

// New creates all metrics and registers them with reg.
func New(reg prometheus.Registerer) *Metrics {
	factory := promauto.With(reg)

	return &Metrics{
		SplitsCompleted: factory.NewCounterVec(
			prometheus.CounterOpts{
				Namespace: namespace,
				Name:      "splits_completed_total",
				Help:      "Total number of coin splits committed",
			},
			[]string{"mode"},
		),
		SplitDuration: factory.NewHistogramVec(
			prometheus.HistogramOpts{
				Namespace: namespace,
				Name:      "split_duration_seconds",
				Help:      "Duration of split transactions",
				Buckets:   prometheus.DefBuckets,
			},
			[]string{"mode"},
		),
		SplitCurrencies: factory.NewHistogram(prometheus.HistogramOpts{
			Namespace: namespace,
			Name:      "split_currencies",
			Help:      "Number of currencies divided per split",
			Buckets:   []float64{1, 2, 3, 4, 6, 8, 12},
		}),
		CoinEntries: factory.NewCounterVec(
			prometheus.CounterOpts{
				Namespace: namespace,
				Name:      "coin_entries_written_total",
				Help:      "Total coin entries written by kind",
			},
			[]string{"kind"},
		),
		CacheLookups: factory.NewCounterVec(
			prometheus.CounterOpts{
				Namespace: namespace,
				Name:      "cache_lookups_total",
				Help:      "Cache lookups by cache name and result",
			},
			[]string{"cache", "result"},
		),

		HTTPRequests: factory.NewCounterVec(
			prometheus.CounterOpts{
				Namespace: namespace,
				Name:      "http_requests_total",
				Help:      "Total HTTP requests",
			},
			[]string{"method", "path", "status"},
		),
		HTTPDuration: factory.NewHistogramVec(
			prometheus.HistogramOpts{
				Namespace: namespace,
				Name:      "http_request_duration_seconds",
				Help:      "HTTP request duration in seconds",
				Buckets:   []float64{.001, .005, .01, .025, .05, .1, .25, .5, 1, 2.5, 5, 10},
			},
			[]string{"method", "path"},
		),
		HTTPInFlight: factory.NewGauge(prometheus.GaugeOpts{
			Namespace: namespace,
			Name:      "http_requests_in_flight",
			Help:      "Number of HTTP requests currently being processed",
		}),

		AuthFailures: factory.NewCounterVec(
			prometheus.CounterOpts{
				Namespace: namespace,
				Name:      "auth_failures_total",
				Help:      "Total authentication failures",
			},
			[]string{"reason"},
		),

		RateLimitHits: factory.NewCounter(prometheus.CounterOpts{
			Namespace: namespace,
			Name:      "rate_limit_hits_total",
			Help:      "Total requests rejected by the rate limiter",
		}),

		EventsPublished: factory.NewCounterVec(
			prometheus.CounterOpts{
				Namespace: namespace,
				Name:      "events_published_total",
				Help:      "Outbox events relayed by type",
			},
			[]string{"event_type"},
		),
	}
}

// SplitCompleted implements usecase.Metrics.
func (m *Metrics) SplitCompleted(mode string, currencies int, duration time.Duration) {
	m.SplitsCompleted.WithLabelValues(mode).Inc()
	m.SplitDuration.WithLabelValues(mode).Observe(duration.Seconds())
	m.SplitCurrencies.Observe(float64(currencies))
}

// CoinEntriesWritten implements usecase.Metrics.
func (m *Metrics) CoinEntriesWritten(kind string, n int) {
	m.CoinEntries.WithLabelValues(kind).Add(float64(n))
}

// CacheLookup implements usecase.Metrics.
func (m *Metrics) CacheLookup(name string, hit bool) {
	result := "miss"
	if hit {
		result = "hit"
	}
	m.CacheLookups.WithLabelValues(name, result).Inc()
}

// ObserveHTTP records one finished request.
func (m *Metrics) ObserveHTTP(method, path string, status int, duration time.Duration) {
	m.HTTPRequests.WithLabelValues(method, path, strconv.Itoa(status)).Inc()
	m.HTTPDuration.WithLabelValues(method, path).Observe(duration.Seconds())
}

// EventPublished counts one relayed outbox event.
func (m *Metrics) EventPublished(eventType string) {
	m.EventsPublished.WithLabelValues(eventType).Inc()
}

// InFlight adjusts the in-flight request gauge.
func (m *Metrics) InFlight(delta float64) {
	m.HTTPInFlight.Add(delta)
}

// AuthFailed counts a rejected credential.
func (m *Metrics) AuthFailed(reason string) {
	m.AuthFailures.WithLabelValues(reason).Inc()
}

// RateLimited counts a throttled request.
func (m *Metrics) RateLimited() {
	m.RateLimitHits.Inc()
}
