package metrics

import (
	"net/http"
	"time"

	"github.com/prometheus/client_golang/prometheus"
	"github.com/prometheus/client_golang/prometheus/collectors"
	"github.com/prometheus/client_golang/prometheus/promhttp"
)

// Metrics encapsulates the Prometheus registry and the HTTP server responsible
// for exposing application metrics.
//
// The metrics server is deliberately separate from the application server: the
// autoscaler scrapes it on a fixed interval, so scraping must never contend
// with inference traffic on the application port.
type Metrics struct {
	// Server is the HTTP server exposing the /metrics endpoint.
	Server *http.Server

	// Registry is the Prometheus registry where all metrics are registered.
	// Each service maintains its own isolated registry to prevent metric
	// name collisions.
	Registry *prometheus.Registry

	// Core serving metrics
	requestsTotal     *prometheus.CounterVec
	errorsTotal       *prometheus.CounterVec
	requestLatency    *prometheus.HistogramVec
	inferenceBatch    prometheus.Histogram
	inferenceInflight prometheus.Gauge
}

// NewMetrics initializes and returns a new Metrics instance.
// It sets up a dedicated Prometheus registry, registers the serving metrics
// and (optionally) the default system collectors, wraps everything with a
// constant `service` label, and creates an HTTP server exposing /metrics.
func NewMetrics(cfg Config) *Metrics {
	registry := prometheus.NewRegistry()

	// All metrics emitted by this service automatically carry the label
	// service="<cfg.ServiceName>".
	wrappedRegistry := prometheus.WrapRegistererWith(
		prometheus.Labels{"service": cfg.ServiceName},
		registry,
	)

	m := &Metrics{
		Registry: registry,
	}

	m.requestsTotal = createCounterVec(
		"requests_total",
		"Total number of processed requests",
		[]string{"route", "status"},
	)
	m.errorsTotal = createCounterVec(
		"errors_total",
		"Total number of failed requests by error kind",
		[]string{"route", "kind"},
	)
	m.requestLatency = createHistogramVec(
		"request_latency_seconds",
		"Latency of HTTP requests in seconds",
		[]string{"route", "status"},
		prometheus.DefBuckets,
	)
	m.inferenceBatch = prometheus.NewHistogram(prometheus.HistogramOpts{
		Name:    "inference_batch_size",
		Help:    "Number of texts per inference call",
		Buckets: []float64{1, 2, 4, 8, 16, 32, 64},
	})
	m.inferenceInflight = prometheus.NewGauge(prometheus.GaugeOpts{
		Name: "inference_inflight",
		Help: "Number of inference calls currently executing or queued",
	})

	wrappedRegistry.MustRegister(
		m.requestsTotal,
		m.errorsTotal,
		m.requestLatency,
		m.inferenceBatch,
		m.inferenceInflight,
	)

	// Standard collectors provide essential runtime metrics for Go processes:
	//   - GoCollector: memory usage, goroutines, GC stats
	//   - ProcessCollector: CPU, file descriptors, memory stats
	//   - BuildInfoCollector: binary version/build info
	if cfg.EnableDefaultCollectors {
		wrappedRegistry.MustRegister(
			collectors.NewGoCollector(),
			collectors.NewProcessCollector(collectors.ProcessCollectorOpts{}),
			collectors.NewBuildInfoCollector(),
		)
	}

	handler := promhttp.HandlerFor(registry, promhttp.HandlerOpts{})

	server := &http.Server{
		Addr:    cfg.Address,
		Handler: handler,
	}

	m.Server = server

	return m
}

// RecordRequest records the outcome of one handled request. It only updates
// in-memory counters and histograms and therefore cannot fail the request.
func (m *Metrics) RecordRequest(route, status string, latency time.Duration) {
	m.requestsTotal.WithLabelValues(route, status).Inc()
	m.requestLatency.WithLabelValues(route, status).Observe(latency.Seconds())
}

// RecordError increments the error counter for a route with the stable
// error-kind string from the API error taxonomy.
func (m *Metrics) RecordError(route, kind string) {
	m.errorsTotal.WithLabelValues(route, kind).Inc()
}

// ObserveBatchSize records the number of texts in one inference call.
func (m *Metrics) ObserveBatchSize(n int) {
	m.inferenceBatch.Observe(float64(n))
}

// InflightInc increments the in-flight inference gauge.
func (m *Metrics) InflightInc() {
	m.inferenceInflight.Inc()
}

// InflightDec decrements the in-flight inference gauge.
func (m *Metrics) InflightDec() {
	m.inferenceInflight.Dec()
}
