package metrics

import (
	"strconv"
	"time"

	"github.com/prometheus/client_golang/prometheus"
	"github.com/prometheus/client_golang/prometheus/promauto"
	"github.com/uniedit/gridify"
)

var _ gridify.MetricsPort = (*Metrics)(nil)

// Metrics holds all application metrics.
type Metrics struct {
	// HTTP metrics
	HTTPRequestsTotal    *prometheus.CounterVec
	HTTPRequestDuration  *prometheus.HistogramVec
	HTTPRequestsInFlight prometheus.Gauge

	// Gridify compiler metrics
	CompileTotal    *prometheus.CounterVec
	CompileDuration *prometheus.HistogramVec

	// Query source metrics
	QueryDuration *prometheus.HistogramVec

	// Count cache metrics
	CountCacheHitsTotal   prometheus.Counter
	CountCacheMissesTotal prometheus.Counter
}

// New creates a new Metrics instance with all metrics registered against
// the default Prometheus registry.
func New(namespace string) *Metrics {
	if namespace == "" {
		namespace = "gridify"
	}

	return &Metrics{
		HTTPRequestsTotal: promauto.NewCounterVec(
			prometheus.CounterOpts{
				Namespace: namespace,
				Subsystem: "http",
				Name:      "requests_total",
				Help:      "Total number of HTTP requests",
			},
			[]string{"method", "path", "status"},
		),
		HTTPRequestDuration: promauto.NewHistogramVec(
			prometheus.HistogramOpts{
				Namespace: namespace,
				Subsystem: "http",
				Name:      "request_duration_seconds",
				Help:      "HTTP request duration in seconds",
				Buckets:   []float64{.005, .01, .025, .05, .1, .25, .5, 1, 2.5, 5, 10},
			},
			[]string{"method", "path"},
		),
		HTTPRequestsInFlight: promauto.NewGauge(
			prometheus.GaugeOpts{
				Namespace: namespace,
				Subsystem: "http",
				Name:      "requests_in_flight",
				Help:      "Current number of HTTP requests being processed",
			},
		),

		CompileTotal: promauto.NewCounterVec(
			prometheus.CounterOpts{
				Namespace: namespace,
				Subsystem: "compile",
				Name:      "total",
				Help:      "Total number of filter/ordering compilations by stage and outcome",
			},
			[]string{"stage", "outcome"}, // stage: filter, ordering; outcome: ok, parse_error, unknown_field, unsupported_operator, error
		),
		CompileDuration: promauto.NewHistogramVec(
			prometheus.HistogramOpts{
				Namespace: namespace,
				Subsystem: "compile",
				Name:      "duration_seconds",
				Help:      "Filter/ordering compilation duration in seconds",
				Buckets:   []float64{.0001, .0005, .001, .005, .01, .05, .1},
			},
			[]string{"stage", "outcome"},
		),

		QueryDuration: promauto.NewHistogramVec(
			prometheus.HistogramOpts{
				Namespace: namespace,
				Subsystem: "query",
				Name:      "duration_seconds",
				Help:      "Time spent materialising a query source (Count or ToListAsync)",
				Buckets:   []float64{.001, .005, .01, .05, .1, .25, .5, 1, 2.5, 5},
			},
			[]string{"op"}, // count, list
		),

		CountCacheHitsTotal: promauto.NewCounter(
			prometheus.CounterOpts{
				Namespace: namespace,
				Subsystem: "count_cache",
				Name:      "hits_total",
				Help:      "Total number of pre-paging count cache hits",
			},
		),
		CountCacheMissesTotal: promauto.NewCounter(
			prometheus.CounterOpts{
				Namespace: namespace,
				Subsystem: "count_cache",
				Name:      "misses_total",
				Help:      "Total number of pre-paging count cache misses",
			},
		),
	}
}

// RecordCompile implements gridify.MetricsPort.
func (m *Metrics) RecordCompile(stage, outcome string, d time.Duration) {
	m.CompileTotal.WithLabelValues(stage, outcome).Inc()
	m.CompileDuration.WithLabelValues(stage, outcome).Observe(d.Seconds())
}

// RecordQuery implements gridify.MetricsPort.
func (m *Metrics) RecordQuery(op string, d time.Duration) {
	m.QueryDuration.WithLabelValues(op).Observe(d.Seconds())
}

// RecordHTTPRequest records one HTTP request/response cycle.
func (m *Metrics) RecordHTTPRequest(method, path string, status int, d time.Duration) {
	m.HTTPRequestsTotal.WithLabelValues(method, path, strconv.Itoa(status)).Inc()
	m.HTTPRequestDuration.WithLabelValues(method, path).Observe(d.Seconds())
}
