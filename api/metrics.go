package api

import (
	"net/http"
	"strconv"
	"time"

	"github.com/prometheus/client_golang/prometheus"
	"github.com/prometheus/client_golang/prometheus/collectors"
	"github.com/prometheus/client_golang/prometheus/promhttp"

	"isofit/core/types"
	"isofit/internal/errors"
)

// Metrics collects calculation and request metrics on a private registry.
// It implements engine.Observer.
type Metrics struct {
	registry     *prometheus.Registry
	calculations *prometheus.CounterVec
	failures     *prometheus.CounterVec
	calcDuration prometheus.Histogram
	requests     *prometheus.HistogramVec
}

// NewMetrics creates and registers the collectors
func NewMetrics() *Metrics {
	m := &Metrics{
		registry: prometheus.NewRegistry(),
		calculations: prometheus.NewCounterVec(prometheus.CounterOpts{
			Name: "isofit_calculations_total",
			Help: "Successful tolerance calculations by mode and fit type.",
		}, []string{"mode", "fit_type"}),
		failures: prometheus.NewCounterVec(prometheus.CounterOpts{
			Name: "isofit_calculation_errors_total",
			Help: "Failed tolerance calculations by error kind.",
		}, []string{"kind"}),
		calcDuration: prometheus.NewHistogram(prometheus.HistogramOpts{
			Name:    "isofit_calculation_duration_seconds",
			Help:    "Time spent in a single calculation.",
			Buckets: []float64{.00001, .00005, .0001, .0005, .001, .005, .01},
		}),
		requests: prometheus.NewHistogramVec(prometheus.HistogramOpts{
			Name:    "isofit_http_request_duration_seconds",
			Help:    "HTTP request latency by route and status code.",
			Buckets: prometheus.DefBuckets,
		}, []string{"route", "code"}),
	}

	m.registry.MustRegister(
		m.calculations,
		m.failures,
		m.calcDuration,
		m.requests,
		collectors.NewGoCollector(),
		collectors.NewProcessCollector(collectors.ProcessCollectorOpts{}),
	)
	return m
}

// ObserveCalculation records a successful calculation
func (m *Metrics) ObserveCalculation(mode types.Mode, fit types.FitType, elapsed time.Duration) {
	m.calculations.WithLabelValues(string(mode), fit.Key()).Inc()
	m.calcDuration.Observe(elapsed.Seconds())
}

// ObserveError records a failed calculation
func (m *Metrics) ObserveError(kind errors.Type) {
	m.failures.WithLabelValues(string(kind)).Inc()
}

// ObserveRequest records a served HTTP request
func (m *Metrics) ObserveRequest(route string, code int, elapsed time.Duration) {
	m.requests.WithLabelValues(route, strconv.Itoa(code)).Observe(elapsed.Seconds())
}

// Handler serves the registry in the Prometheus exposition format
func (m *Metrics) Handler() http.Handler {
	return promhttp.HandlerFor(m.registry, promhttp.HandlerOpts{Registry: m.registry})
}
