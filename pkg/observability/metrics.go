package observability

import (
	"github.com/prometheus/client_golang/prometheus"
)

// Metrics holds all Prometheus metrics for the session layer
type Metrics struct {
	// Session metrics
	SessionTransitionsTotal *prometheus.CounterVec
	SessionListeners        prometheus.Gauge

	// Refresh metrics
	RefreshTotal          *prometheus.CounterVec
	RefreshCoalescedTotal prometheus.Counter

	// Executor metrics
	ExecutorRequestsTotal *prometheus.CounterVec
	ExecutorRetriesTotal  prometheus.Counter

	// Profile metrics
	ProfileCacheHitsTotal   prometheus.Counter
	ProfileCacheMissesTotal prometheus.Counter
	ProfileFallbacksTotal   prometheus.Counter

	// Vault metrics
	VaultOperationsTotal *prometheus.CounterVec
	VaultErrorsTotal     *prometheus.CounterVec
}

// NewMetrics creates and registers all Prometheus metrics
func NewMetrics(registry *prometheus.Registry) *Metrics {
	m := &Metrics{
		SessionTransitionsTotal: prometheus.NewCounterVec(
			prometheus.CounterOpts{
				Name: "fieldlink_session_transitions_total",
				Help: "Total number of session state transitions",
			},
			[]string{"phase", "method"},
		),
		SessionListeners: prometheus.NewGauge(
			prometheus.GaugeOpts{
				Name: "fieldlink_session_listeners",
				Help: "Number of registered session listeners",
			},
		),
		RefreshTotal: prometheus.NewCounterVec(
			prometheus.CounterOpts{
				Name: "fieldlink_refresh_total",
				Help: "Total number of credential refresh attempts",
			},
			[]string{"outcome"},
		),
		RefreshCoalescedTotal: prometheus.NewCounter(
			prometheus.CounterOpts{
				Name: "fieldlink_refresh_coalesced_total",
				Help: "Refresh triggers coalesced onto an in-flight refresh",
			},
		),
		ExecutorRequestsTotal: prometheus.NewCounterVec(
			prometheus.CounterOpts{
				Name: "fieldlink_executor_requests_total",
				Help: "Total number of backend requests by method and status",
			},
			[]string{"method", "status"},
		),
		ExecutorRetriesTotal: prometheus.NewCounter(
			prometheus.CounterOpts{
				Name: "fieldlink_executor_retries_total",
				Help: "Requests retried after a 401-triggered refresh",
			},
		),
		ProfileCacheHitsTotal: prometheus.NewCounter(
			prometheus.CounterOpts{
				Name: "fieldlink_profile_cache_hits_total",
				Help: "Profile reads served from the in-memory cache",
			},
		),
		ProfileCacheMissesTotal: prometheus.NewCounter(
			prometheus.CounterOpts{
				Name: "fieldlink_profile_cache_misses_total",
				Help: "Profile reads that went to the profile service",
			},
		),
		ProfileFallbacksTotal: prometheus.NewCounter(
			prometheus.CounterOpts{
				Name: "fieldlink_profile_fallbacks_total",
				Help: "Sessions established with a locally built fallback profile",
			},
		),
		VaultOperationsTotal: prometheus.NewCounterVec(
			prometheus.CounterOpts{
				Name: "fieldlink_vault_operations_total",
				Help: "Total number of credential vault operations",
			},
			[]string{"backend", "operation"},
		),
		VaultErrorsTotal: prometheus.NewCounterVec(
			prometheus.CounterOpts{
				Name: "fieldlink_vault_errors_total",
				Help: "Total number of credential vault operation failures",
			},
			[]string{"backend", "operation"},
		),
	}

	registry.MustRegister(
		m.SessionTransitionsTotal,
		m.SessionListeners,
		m.RefreshTotal,
		m.RefreshCoalescedTotal,
		m.ExecutorRequestsTotal,
		m.ExecutorRetriesTotal,
		m.ProfileCacheHitsTotal,
		m.ProfileCacheMissesTotal,
		m.ProfileFallbacksTotal,
		m.VaultOperationsTotal,
		m.VaultErrorsTotal,
	)

	return m
}

// NewNopMetrics creates metrics bound to a throwaway registry. Useful for
// tests and for embedders that do not scrape.
func NewNopMetrics() *Metrics {
	return NewMetrics(prometheus.NewRegistry())
}
