// Package metrics exposes Prometheus instrumentation for calls to external services.
package metrics

import (
	"net/http"
	"time"

	"github.com/prometheus/client_golang/prometheus"
	"github.com/prometheus/client_golang/prometheus/collectors"
	"github.com/prometheus/client_golang/prometheus/promauto"
	"github.com/prometheus/client_golang/prometheus/promhttp"
)

// Component labels.
const (
	ComponentLanguage    = "language"
	ComponentRecognition = "recognition"
	ComponentSynthesis   = "synthesis"
	ComponentGeocoding   = "geocoding"
)

// Outcome labels.
const (
	OutcomeSuccess = "success"
	OutcomeFailure = "failure"
)

// Recorder records upstream call outcomes.
type Recorder interface {
	ObserveUpstream(component string, elapsed time.Duration, err error)
}

// Registry owns the collectors of one process.
type Registry struct {
	reg              *prometheus.Registry
	upstreamRequests *prometheus.CounterVec
	upstreamDuration *prometheus.HistogramVec
	httpRequests     *prometheus.CounterVec
}

// New creates a registry with Go runtime collectors and the application metrics.
func New() *Registry {
	reg := prometheus.NewRegistry()
	reg.MustRegister(collectors.NewGoCollector())
	reg.MustRegister(collectors.NewProcessCollector(collectors.ProcessCollectorOpts{}))

	factory := promauto.With(reg)

	return &Registry{
		reg: reg,
		upstreamRequests: factory.NewCounterVec(
			prometheus.CounterOpts{
				Name: "ava_upstream_requests_total",
				Help: "Total number of calls to external services",
			},
			[]string{"component", "outcome"},
		),
		upstreamDuration: factory.NewHistogramVec(
			prometheus.HistogramOpts{
				Name:    "ava_upstream_request_duration_seconds",
				Help:    "Duration of calls to external services in seconds",
				Buckets: []float64{0.05, 0.1, 0.25, 0.5, 1, 2.5, 5, 10, 30, 60},
			},
			[]string{"component"},
		),
		httpRequests: factory.NewCounterVec(
			prometheus.CounterOpts{
				Name: "ava_http_requests_total",
				Help: "Total number of HTTP requests served",
			},
			[]string{"method", "route", "status"},
		),
	}
}

// ObserveUpstream implements Recorder.
func (r *Registry) ObserveUpstream(component string, elapsed time.Duration, err error) {
	outcome := OutcomeSuccess
	if err != nil {
		outcome = OutcomeFailure
	}
	r.upstreamRequests.WithLabelValues(component, outcome).Inc()
	r.upstreamDuration.WithLabelValues(component).Observe(elapsed.Seconds())
}

// ObserveHTTP counts one served request.
func (r *Registry) ObserveHTTP(method, route, status string) {
	r.httpRequests.WithLabelValues(method, route, status).Inc()
}

// Handler serves the registry in the Prometheus text format.
func (r *Registry) Handler() http.Handler {
	return promhttp.HandlerFor(r.reg, promhttp.HandlerOpts{})
}

// Gatherer exposes the underlying registry for tests.
func (r *Registry) Gatherer() prometheus.Gatherer {
	return r.reg
}

// Nop discards every observation.
type Nop struct{}

// ObserveUpstream implements Recorder.
func (Nop) ObserveUpstream(string, time.Duration, error) {}
