// Package metrics exposes the Prometheus instrumentation for the service.
package metrics

import (
	"github.com/prometheus/client_golang/prometheus"
	"github.com/prometheus/client_golang/prometheus/promauto"
)

// Metrics holds the service's Prometheus collectors.
type Metrics struct {
	HTTPRequestsTotal     *prometheus.CounterVec
	HTTPRequestDuration   *prometheus.HistogramVec
	ApplicationsSubmitted prometheus.Counter
	ApplicationConflicts  prometheus.Counter
}

// New registers the collectors with the given registerer.
func New(reg prometheus.Registerer) *Metrics {
	factory := promauto.With(reg)

	return &Metrics{
		HTTPRequestsTotal: factory.NewCounterVec(prometheus.CounterOpts{
			Name: "rentora_http_requests_total",
			Help: "Total HTTP requests by method, route and status code.",
		}, []string{"method", "route", "status"}),
		HTTPRequestDuration: factory.NewHistogramVec(prometheus.HistogramOpts{
			Name:    "rentora_http_request_duration_seconds",
			Help:    "HTTP request latency by method and route.",
			Buckets: prometheus.DefBuckets,
		}, []string{"method", "route"}),
		ApplicationsSubmitted: factory.NewCounter(prometheus.CounterOpts{
			Name: "rentora_applications_submitted_total",
			Help: "Property applications successfully submitted.",
		}),
		ApplicationConflicts: factory.NewCounter(prometheus.CounterOpts{
			Name: "rentora_application_conflicts_total",
			Help: "Application submissions rejected as duplicates.",
		}),
	}
}
