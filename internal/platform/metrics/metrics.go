package metrics

import (
	"time"

	"github.com/prometheus/client_golang/prometheus"
	"github.com/prometheus/client_golang/prometheus/promauto"
)

// Metrics holds all Prometheus metrics for the gateway.
type Metrics struct {
	GateDecisions   *prometheus.CounterVec
	CacheHits       *prometheus.CounterVec
	CacheMisses     *prometheus.CounterVec
	RefreshAttempts prometheus.Counter
	RefreshFailures prometheus.Counter
	RefreshShared   prometheus.Counter
	UpstreamLatency *prometheus.HistogramVec
}

// New creates and registers all Prometheus metrics with the provided
// registerer. Pass prometheus.DefaultRegisterer in main; tests use a fresh
// registry so parallel suites don't collide.
func New(reg prometheus.Registerer) *Metrics {
	factory := promauto.With(reg)
	return &Metrics{
		GateDecisions: factory.NewCounterVec(prometheus.CounterOpts{
			Name: "brandreach_gate_decisions_total",
			Help: "Session gate outcomes by decision (allow, redirect, passthrough)",
		}, []string{"decision"}),
		CacheHits: factory.NewCounterVec(prometheus.CounterOpts{
			Name: "brandreach_cache_hits_total",
			Help: "Gateway cache hits by cache (user, refresh)",
		}, []string{"cache"}),
		CacheMisses: factory.NewCounterVec(prometheus.CounterOpts{
			Name: "brandreach_cache_misses_total",
			Help: "Gateway cache misses by cache (user, refresh)",
		}, []string{"cache"}),
		RefreshAttempts: factory.NewCounter(prometheus.CounterOpts{
			Name: "brandreach_token_refresh_attempts_total",
			Help: "Token refresh exchanges attempted against the identity backend",
		}),
		RefreshFailures: factory.NewCounter(prometheus.CounterOpts{
			Name: "brandreach_token_refresh_failures_total",
			Help: "Token refresh exchanges that failed",
		}),
		RefreshShared: factory.NewCounter(prometheus.CounterOpts{
			Name: "brandreach_token_refresh_shared_total",
			Help: "Refresh calls that piggybacked on an in-flight exchange",
		}),
		UpstreamLatency: factory.NewHistogramVec(prometheus.HistogramOpts{
			Name:    "brandreach_upstream_latency_seconds",
			Help:    "Latency of identity backend calls by endpoint",
			Buckets: []float64{0.005, 0.01, 0.025, 0.05, 0.1, 0.25, 0.5, 1, 2.5, 5},
		}, []string{"endpoint"}),
	}
}

// ObserveUpstream records one backend round-trip.
func (m *Metrics) ObserveUpstream(endpoint string, took time.Duration) {
	m.UpstreamLatency.WithLabelValues(endpoint).Observe(took.Seconds())
}
