// Package metrics provides Prometheus metrics for the roaster.
package metrics

import (
	"net/http"

	"github.com/prometheus/client_golang/prometheus"
	"github.com/prometheus/client_golang/prometheus/promhttp"
)

// Metrics holds all Prometheus metrics for a roaster instance.
type Metrics struct {
	GatewayRequests *prometheus.CounterVec
	CacheEvents     *prometheus.CounterVec
	ProviderCalls   *prometheus.CounterVec
	RoastsTotal     *prometheus.CounterVec

	registry *prometheus.Registry
}

// New creates and registers all metrics on a private registry.
func New() *Metrics {
	reg := prometheus.NewRegistry()

	m := &Metrics{
		GatewayRequests: prometheus.NewCounterVec(
			prometheus.CounterOpts{
				Name: "gitroast_gateway_requests_total",
				Help: "GitHub gateway calls by operation and status.",
			},
			[]string{"operation", "status"},
		),
		CacheEvents: prometheus.NewCounterVec(
			prometheus.CounterOpts{
				Name: "gitroast_cache_events_total",
				Help: "Gateway cache hits and misses by cache name.",
			},
			[]string{"cache", "event"},
		),
		ProviderCalls: prometheus.NewCounterVec(
			prometheus.CounterOpts{
				Name: "gitroast_provider_calls_total",
				Help: "LLM provider calls by provider and status.",
			},
			[]string{"provider", "status"},
		),
		RoastsTotal: prometheus.NewCounterVec(
			prometheus.CounterOpts{
				Name: "gitroast_roasts_total",
				Help: "Completed roasts by target kind and status.",
			},
			[]string{"kind", "status"},
		),
		registry: reg,
	}

	reg.MustRegister(m.GatewayRequests)
	reg.MustRegister(m.CacheEvents)
	reg.MustRegister(m.ProviderCalls)
	reg.MustRegister(m.RoastsTotal)

	return m
}

// Handler returns an http.Handler for a /metrics endpoint.
func (m *Metrics) Handler() http.Handler {
	return promhttp.HandlerFor(m.registry, promhttp.HandlerOpts{})
}

// RecordGatewayRequest increments the gateway call counter.
func (m *Metrics) RecordGatewayRequest(operation, status string) {
	m.GatewayRequests.WithLabelValues(operation, status).Inc()
}

// RecordCacheHit increments the hit counter for a named cache.
func (m *Metrics) RecordCacheHit(cache string) {
	m.CacheEvents.WithLabelValues(cache, "hit").Inc()
}

// RecordCacheMiss increments the miss counter for a named cache.
func (m *Metrics) RecordCacheMiss(cache string) {
	m.CacheEvents.WithLabelValues(cache, "miss").Inc()
}

// RecordProviderCall increments the LLM call counter.
func (m *Metrics) RecordProviderCall(provider, status string) {
	m.ProviderCalls.WithLabelValues(provider, status).Inc()
}

// RecordRoast increments the roast counter.
func (m *Metrics) RecordRoast(kind, status string) {
	m.RoastsTotal.WithLabelValues(kind, status).Inc()
}
