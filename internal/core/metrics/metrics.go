package metrics

import (
	"net/http"
	"strconv"
	"time"

	"github.com/prometheus/client_golang/prometheus"
	"github.com/prometheus/client_golang/prometheus/collectors"
	"github.com/prometheus/client_golang/prometheus/promhttp"
)

const namespace = "sku_tracker"

// Registry holds every collector exposed on /metrics.
var Registry = prometheus.NewRegistry()

var (
	// ProviderRequests counts outbound provider calls by provider and HTTP status ("error" on transport failure).
	ProviderRequests = prometheus.NewCounterVec(prometheus.CounterOpts{
		Namespace: namespace,
		Name:      "provider_requests_total",
		Help:      "Outbound provider HTTP requests by provider and status code.",
	}, []string{"provider", "code"})

	// ProviderRequestDuration observes outbound provider latency.
	ProviderRequestDuration = prometheus.NewHistogramVec(prometheus.HistogramOpts{
		Namespace: namespace,
		Name:      "provider_request_duration_seconds",
		Help:      "Outbound provider HTTP request latency.",
		Buckets:   []float64{0.05, 0.1, 0.25, 0.5, 1, 2.5, 5, 10, 30},
	}, []string{"provider"})

	// IngestedEvents counts events persisted by the ingestion pipeline.
	IngestedEvents = prometheus.NewCounterVec(prometheus.CounterOpts{
		Namespace: namespace,
		Name:      "ingested_events_total",
		Help:      "Events persisted by the ingestion pipeline by provider.",
	}, []string{"provider"})

	// IngestionFailures counts ingestion calls that returned an error, by reason.
	IngestionFailures = prometheus.NewCounterVec(prometheus.CounterOpts{
		Namespace: namespace,
		Name:      "ingestion_failures_total",
		Help:      "Failed ingestion or lookup calls by provider and reason.",
	}, []string{"provider", "reason"})

	// TokenCache counts OAuth token cache lookups by result (hit, miss, error).
	TokenCache = prometheus.NewCounterVec(prometheus.CounterOpts{
		Namespace: namespace,
		Name:      "oauth_token_cache_total",
		Help:      "OAuth token cache lookups by provider and result.",
	}, []string{"provider", "result"})
)

func init() {
	Registry.MustRegister(
		collectors.NewGoCollector(),
		collectors.NewProcessCollector(collectors.ProcessCollectorOpts{}),
		ProviderRequests,
		ProviderRequestDuration,
		IngestedEvents,
		IngestionFailures,
		TokenCache,
	)
}

// ObserveProviderRequest records one outbound call. A zero status means the transport failed.
func ObserveProviderRequest(provider string, status int, elapsed time.Duration) {
	code := "error"
	if status > 0 {
		code = strconv.Itoa(status)
	}
	ProviderRequests.WithLabelValues(provider, code).Inc()
	ProviderRequestDuration.WithLabelValues(provider).Observe(elapsed.Seconds())
}

// Handler exposes the registry in the Prometheus text format.
func Handler() http.Handler {
	return promhttp.HandlerFor(Registry, promhttp.HandlerOpts{})
}
