package metrics

import (
	"strconv"
	"time"

	"github.com/prometheus/client_golang/prometheus"
	"github.com/prometheus/client_golang/prometheus/promauto"
)

// PrometheusCollector implements Collector using Prometheus metrics
type PrometheusCollector struct {
	config *Config

	// HTTP metrics
	httpRequestsTotal   *prometheus.CounterVec
	httpRequestDuration *prometheus.HistogramVec

	// WebSocket metrics
	websocketConnections *prometheus.CounterVec

	// Analytics metrics
	computationDuration *prometheus.HistogramVec
	samplesIngested     *prometheus.CounterVec
}

// NewPrometheusCollector creates a new Prometheus metrics collector
func NewPrometheusCollector(config *Config) *PrometheusCollector {
	if config == nil {
		config = &Config{
			Enabled: true,
			Prefix:  "pmc",
		}
	}

	prefix := config.Prefix

	collector := &PrometheusCollector{config: config}

	collector.httpRequestsTotal = promauto.NewCounterVec(
		prometheus.CounterOpts{
			Name: prefix + "_http_requests_total",
			Help: "Total number of HTTP requests",
		},
		[]string{"method", "path", "status"},
	)

	collector.httpRequestDuration = promauto.NewHistogramVec(
		prometheus.HistogramOpts{
			Name:    prefix + "_http_request_duration_seconds",
			Help:    "HTTP request duration in seconds",
			Buckets: prometheus.DefBuckets,
		},
		[]string{"method", "path"},
	)

	collector.websocketConnections = promauto.NewCounterVec(
		prometheus.CounterOpts{
			Name: prefix + "_websocket_connections_total",
			Help: "Total number of WebSocket connection events",
		},
		[]string{"event"},
	)

	collector.computationDuration = promauto.NewHistogramVec(
		prometheus.HistogramOpts{
			Name:    prefix + "_analytics_computation_duration_seconds",
			Help:    "Duration of analytics computations in seconds",
			Buckets: []float64{.0001, .0005, .001, .005, .01, .05, .1, .5, 1},
		},
		[]string{"operation", "granularity", "kind"},
	)

	collector.samplesIngested = promauto.NewCounterVec(
		prometheus.CounterOpts{
			Name: prefix + "_samples_ingested_total",
			Help: "Total number of metric samples ingested",
		},
		[]string{"metric"},
	)

	return collector
}

// RecordHTTPRequest records an HTTP request with its outcome
func (pc *PrometheusCollector) RecordHTTPRequest(method, path string, statusCode int, duration time.Duration) {
	if !pc.config.Enabled {
		return
	}
	pc.httpRequestsTotal.WithLabelValues(method, path, strconv.Itoa(statusCode)).Inc()
	pc.httpRequestDuration.WithLabelValues(method, path).Observe(duration.Seconds())
}

// RecordWebSocketConnection records a WebSocket connection event
func (pc *PrometheusCollector) RecordWebSocketConnection(event string) {
	if !pc.config.Enabled {
		return
	}
	pc.websocketConnections.WithLabelValues(event).Inc()
}

// RecordComputation records one analytics computation
func (pc *PrometheusCollector) RecordComputation(operation, granularity, kind string, duration time.Duration) {
	if !pc.config.Enabled {
		return
	}
	pc.computationDuration.WithLabelValues(operation, granularity, kind).Observe(duration.Seconds())
}

// RecordSamplesIngested records ingested sample counts per metric
func (pc *PrometheusCollector) RecordSamplesIngested(metric string, count int) {
	if !pc.config.Enabled {
		return
	}
	pc.samplesIngested.WithLabelValues(metric).Add(float64(count))
}
