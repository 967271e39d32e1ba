package observability

import (
	"github.com/prometheus/client_golang/prometheus"
)

const namespace = "venue"

// Metrics holds the Prometheus collectors for provider calls, caching, and suggestions.
type Metrics struct {
	ProviderRequests    *prometheus.CounterVec   // labels: provider, operation={search,category,details}, outcome={success,error,not_found}
	ProviderAPIDuration *prometheus.HistogramVec // labels: provider, operation
	ProviderRetries     *prometheus.CounterVec   // labels: provider
	CacheLookups        *prometheus.CounterVec   // labels: provider, result={hit,miss}
	ActiveProvider      *prometheus.GaugeVec     // labels: provider; 1 for the active provider

	DateSearchDuration prometheus.Histogram
	DateSearchErrors   prometheus.Counter

	Suggestions *prometheus.CounterVec // labels: outcome={stored,published,publish_error,error}
}

// NewMetrics creates and registers all service metrics with the default Prometheus registry.
func NewMetrics() *Metrics {
	m := newMetrics()
	prometheus.MustRegister(
		m.ProviderRequests,
		m.ProviderAPIDuration,
		m.ProviderRetries,
		m.CacheLookups,
		m.ActiveProvider,
		m.DateSearchDuration,
		m.DateSearchErrors,
		m.Suggestions,
	)
	return m
}

// NewMetricsForTesting creates unregistered Metrics to avoid
// "already registered" panics when called from multiple tests.
func NewMetricsForTesting() *Metrics {
	return newMetrics()
}

func newMetrics() *Metrics {
	return &Metrics{
		ProviderRequests: prometheus.NewCounterVec(prometheus.CounterOpts{
			Namespace: namespace,
			Name:      "provider_requests_total",
			Help:      "Venue provider requests by provider, operation and outcome.",
		}, []string{"provider", "operation", "outcome"}),
		ProviderAPIDuration: prometheus.NewHistogramVec(prometheus.HistogramOpts{
			Namespace: namespace,
			Name:      "provider_api_duration_seconds",
			Help:      "Upstream venue API request duration in seconds.",
			Buckets:   []float64{0.01, 0.05, 0.1, 0.25, 0.5, 1, 2.5, 5},
		}, []string{"provider", "operation"}),
		ProviderRetries: prometheus.NewCounterVec(prometheus.CounterOpts{
			Namespace: namespace,
			Name:      "provider_retries_total",
			Help:      "Retried upstream requests after a transient failure.",
		}, []string{"provider"}),
		CacheLookups: prometheus.NewCounterVec(prometheus.CounterOpts{
			Namespace: namespace,
			Name:      "cache_lookups_total",
			Help:      "Provider result cache lookups by provider and result.",
		}, []string{"provider", "result"}),
		ActiveProvider: prometheus.NewGaugeVec(prometheus.GaugeOpts{
			Namespace: namespace,
			Name:      "active_provider",
			Help:      "1 for the provider currently serving requests, 0 otherwise.",
		}, []string{"provider"}),
		DateSearchDuration: prometheus.NewHistogram(prometheus.HistogramOpts{
			Namespace: namespace,
			Name:      "date_search_duration_seconds",
			Help:      "Duration of a four-category date venue search.",
			Buckets:   []float64{0.05, 0.1, 0.25, 0.5, 1, 2.5, 5, 10},
		}),
		DateSearchErrors: prometheus.NewCounter(prometheus.CounterOpts{
			Namespace: namespace,
			Name:      "date_search_errors_total",
			Help:      "Date venue searches that failed.",
		}),
		Suggestions: prometheus.NewCounterVec(prometheus.CounterOpts{
			Namespace: namespace,
			Name:      "suggestions_total",
			Help:      "Venue suggestions by outcome.",
		}, []string{"outcome"}),
	}
}
