package metrics

import (
	"net/http"
	"strconv"
	"time"

	"github.com/prometheus/client_golang/prometheus"
	"github.com/prometheus/client_golang/prometheus/collectors"
	"github.com/prometheus/client_golang/prometheus/promauto"
	"github.com/prometheus/client_golang/prometheus/promhttp"
)

// Metrics holds the service collectors. A nil *Metrics records nothing.
type Metrics struct {
	registry prometheus.Gatherer

	AuthAttempts      *prometheus.CounterVec
	Searches          *prometheus.CounterVec
	ExternalRequests  *prometheus.CounterVec
	ExternalLatency   *prometheus.HistogramVec
	EventPublishFails prometheus.Counter
}

// New creates the collectors and registers them on a fresh registry.
func New(namespace string) *Metrics {
	reg := prometheus.NewRegistry()
	reg.MustRegister(
		collectors.NewGoCollector(),
		collectors.NewProcessCollector(collectors.ProcessCollectorOpts{}),
	)
	factory := promauto.With(reg)

	return &Metrics{
		registry: reg,
		AuthAttempts: factory.NewCounterVec(
			prometheus.CounterOpts{
				Namespace: namespace,
				Name:      "auth_attempts_total",
				Help:      "Auth operations by operation and result",
			},
			[]string{"operation", "result"},
		),
		Searches: factory.NewCounterVec(
			prometheus.CounterOpts{
				Namespace: namespace,
				Name:      "searches_total",
				Help:      "Restaurant searches by outcome",
			},
			[]string{"outcome"},
		),
		ExternalRequests: factory.NewCounterVec(
			prometheus.CounterOpts{
				Namespace: namespace,
				Name:      "geoapify_requests_total",
				Help:      "Geoapify requests by operation and HTTP status",
			},
			[]string{"operation", "status"},
		),
		ExternalLatency: factory.NewHistogramVec(
			prometheus.HistogramOpts{
				Namespace: namespace,
				Name:      "geoapify_request_duration_seconds",
				Help:      "Geoapify request latency in seconds",
				Buckets:   []float64{0.05, 0.1, 0.25, 0.5, 1, 2.5, 5, 10},
			},
			[]string{"operation"},
		),
		EventPublishFails: factory.NewCounter(
			prometheus.CounterOpts{
				Namespace: namespace,
				Name:      "event_publish_errors_total",
				Help:      "Search events that could not be published",
			},
		),
	}
}

// RecordAuth counts one auth operation.
func (m *Metrics) RecordAuth(operation string, success bool) {
	if m == nil {
		return
	}
	result := "success"
	if !success {
		result = "failure"
	}
	m.AuthAttempts.WithLabelValues(operation, result).Inc()
}

// RecordSearch counts one search by outcome (found, not_found, error).
func (m *Metrics) RecordSearch(outcome string) {
	if m == nil {
		return
	}
	m.Searches.WithLabelValues(outcome).Inc()
}

// RecordExternal records one Geoapify call. status 0 means a transport error.
func (m *Metrics) RecordExternal(operation string, status int, latency time.Duration) {
	if m == nil {
		return
	}
	label := "error"
	if status > 0 {
		label = strconv.Itoa(status)
	}
	m.ExternalRequests.WithLabelValues(operation, label).Inc()
	m.ExternalLatency.WithLabelValues(operation).Observe(latency.Seconds())
}

// RecordPublishFailure counts a failed event publish.
func (m *Metrics) RecordPublishFailure() {
	if m == nil {
		return
	}
	m.EventPublishFails.Inc()
}

// Handler returns the Prometheus HTTP handler for this registry.
func (m *Metrics) Handler() http.Handler {
	return promhttp.HandlerFor(m.registry, promhttp.HandlerOpts{})
}
