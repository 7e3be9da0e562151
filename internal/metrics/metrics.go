package metrics

import (
	"net/http"
	"strconv"
	"time"

	"github.com/gin-gonic/gin"
	"github.com/prometheus/client_golang/prometheus"
	"github.com/prometheus/client_golang/prometheus/promhttp"
)

// Metrics holds the Prometheus collectors of the API.
type Metrics struct {
	registry *prometheus.Registry

	requestTotal    *prometheus.CounterVec
	requestDuration *prometheus.HistogramVec
	requestInFlight prometheus.Gauge

	filterDuration  *prometheus.HistogramVec
	filteredResults *prometheus.HistogramVec
	droppedRecords  *prometheus.CounterVec
	activeSessions  prometheus.Gauge
}

// New creates the collectors on a private registry.
func New(service string) *Metrics {
	registry := prometheus.NewRegistry()
	constLabels := prometheus.Labels{"service": service}

	m := &Metrics{
		registry: registry,
		requestTotal: prometheus.NewCounterVec(prometheus.CounterOpts{
			Namespace:   "epdmap",
			Subsystem:   "http",
			Name:        "requests_total",
			Help:        "Total HTTP requests processed.",
			ConstLabels: constLabels,
		}, []string{"method", "path", "status"}),
		requestDuration: prometheus.NewHistogramVec(prometheus.HistogramOpts{
			Namespace:   "epdmap",
			Subsystem:   "http",
			Name:        "request_duration_seconds",
			Help:        "HTTP request duration in seconds.",
			Buckets:     prometheus.DefBuckets,
			ConstLabels: constLabels,
		}, []string{"method", "path"}),
		requestInFlight: prometheus.NewGauge(prometheus.GaugeOpts{
			Namespace:   "epdmap",
			Subsystem:   "http",
			Name:        "in_flight_requests",
			Help:        "Number of in-flight HTTP requests.",
			ConstLabels: constLabels,
		}),
		filterDuration: prometheus.NewHistogramVec(prometheus.HistogramOpts{
			Namespace:   "epdmap",
			Subsystem:   "engine",
			Name:        "filter_duration_seconds",
			Help:        "Duration of one filter pass.",
			Buckets:     []float64{.0001, .0005, .001, .005, .01, .05, .1},
			ConstLabels: constLabels,
		}, []string{"mode"}),
		filteredResults: prometheus.NewHistogramVec(prometheus.HistogramOpts{
			Namespace:   "epdmap",
			Subsystem:   "engine",
			Name:        "filtered_locations",
			Help:        "Locations left after one filter pass.",
			Buckets:     []float64{0, 1, 10, 50, 100, 250, 500, 1000},
			ConstLabels: constLabels,
		}, []string{"mode"}),
		droppedRecords: prometheus.NewCounterVec(prometheus.CounterOpts{
			Namespace:   "epdmap",
			Subsystem:   "engine",
			Name:        "dropped_records_total",
			Help:        "Raw records skipped during normalization.",
			ConstLabels: constLabels,
		}, []string{"reason"}),
		activeSessions: prometheus.NewGauge(prometheus.GaugeOpts{
			Namespace:   "epdmap",
			Subsystem:   "sessions",
			Name:        "active",
			Help:        "Number of live selection sessions.",
			ConstLabels: constLabels,
		}),
	}

	registry.MustRegister(
		m.requestTotal,
		m.requestDuration,
		m.requestInFlight,
		m.filterDuration,
		m.filteredResults,
		m.droppedRecords,
		m.activeSessions,
	)
	return m
}

// Handler serves the registry in the Prometheus exposition format.
func (m *Metrics) Handler() http.Handler {
	return promhttp.HandlerFor(m.registry, promhttp.HandlerOpts{})
}

// Middleware records request count, latency and concurrency. Paths are
// labelled by route template so session ids do not explode cardinality.
func (m *Metrics) Middleware() gin.HandlerFunc {
	return func(c *gin.Context) {
		start := time.Now()
		m.requestInFlight.Inc()
		defer m.requestInFlight.Dec()

		c.Next()

		path := c.FullPath()
		if path == "" {
			path = "unmatched"
		}
		m.requestTotal.WithLabelValues(c.Request.Method, path, strconv.Itoa(c.Writer.Status())).Inc()
		m.requestDuration.WithLabelValues(c.Request.Method, path).Observe(time.Since(start).Seconds())
	}
}

// ObserveFilter records one filter pass.
func (m *Metrics) ObserveFilter(mode string, results int, d time.Duration) {
	m.filterDuration.WithLabelValues(mode).Observe(d.Seconds())
	m.filteredResults.WithLabelValues(mode).Observe(float64(results))
}

// AddDropped counts records skipped by the normalizer.
func (m *Metrics) AddDropped(reason string, n int) {
	if n <= 0 {
		return
	}
	m.droppedRecords.WithLabelValues(reason).Add(float64(n))
}

// SetActiveSessions reports the session store size.
func (m *Metrics) SetActiveSessions(n int) {
	m.activeSessions.Set(float64(n))
}
