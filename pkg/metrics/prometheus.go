// Package metrics exposes Prometheus collectors shared by both services.
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

type Manager struct {
	namespace   string
	buckets     []float64
	constLabels prometheus.Labels
	registry    *prometheus.Registry

	httpRequests        *prometheus.CounterVec
	httpRequestDuration *prometheus.HistogramVec

	documentsServed prometheus.Counter
	catalogErrors   prometheus.Counter

	diagnoses        *prometheus.CounterVec
	inferenceLatency prometheus.Histogram
	cacheLookups     *prometheus.CounterVec
	modelLoaded      prometheus.Gauge
}

// NewManager registers every collector on its own registry, plus the Go and
// process collectors.
func NewManager(opts ...Option) *Manager {
	m := &Manager{
		namespace: "eyecheck",
		buckets:   prometheus.DefBuckets,
		registry:  prometheus.NewRegistry(),
	}
	for _, opt := range opts {
		opt(m)
	}

	m.registry.MustRegister(
		collectors.NewGoCollector(),
		collectors.NewProcessCollector(collectors.ProcessCollectorOpts{}),
	)

	auto := promauto.With(m.registry)

	m.httpRequests = auto.NewCounterVec(prometheus.CounterOpts{
		Namespace:   m.namespace,
		Subsystem:   "http",
		Name:        "requests_total",
		Help:        "HTTP requests by route, method and status code.",
		ConstLabels: m.constLabels,
	}, []string{"route", "method", "status"})

	m.httpRequestDuration = auto.NewHistogramVec(prometheus.HistogramOpts{
		Namespace:   m.namespace,
		Subsystem:   "http",
		Name:        "request_duration_seconds",
		Help:        "HTTP request latency.",
		Buckets:     m.buckets,
		ConstLabels: m.constLabels,
	}, []string{"route", "method", "status"})

	m.documentsServed = auto.NewCounter(prometheus.CounterOpts{
		Namespace:   m.namespace,
		Subsystem:   "catalog",
		Name:        "documents_served_total",
		Help:        "Documents returned by the listing endpoint.",
		ConstLabels: m.constLabels,
	})

	m.catalogErrors = auto.NewCounter(prometheus.CounterOpts{
		Namespace:   m.namespace,
		Subsystem:   "catalog",
		Name:        "store_errors_total",
		Help:        "Failed reads against the document store.",
		ConstLabels: m.constLabels,
	})

	m.diagnoses = auto.NewCounterVec(prometheus.CounterOpts{
		Namespace:   m.namespace,
		Subsystem:   "diagnosis",
		Name:        "results_total",
		Help:        "Per-eye diagnosis results by label.",
		ConstLabels: m.constLabels,
	}, []string{"eye", "label"})

	m.inferenceLatency = auto.NewHistogram(prometheus.HistogramOpts{
		Namespace:   m.namespace,
		Subsystem:   "diagnosis",
		Name:        "inference_duration_seconds",
		Help:        "Preprocessing plus forward pass latency for one image.",
		Buckets:     m.buckets,
		ConstLabels: m.constLabels,
	})

	m.cacheLookups = auto.NewCounterVec(prometheus.CounterOpts{
		Namespace:   m.namespace,
		Subsystem:   "diagnosis",
		Name:        "cache_lookups_total",
		Help:        "Diagnosis cache lookups by outcome.",
		ConstLabels: m.constLabels,
	}, []string{"outcome"})

	m.modelLoaded = auto.NewGauge(prometheus.GaugeOpts{
		Namespace:   m.namespace,
		Subsystem:   "diagnosis",
		Name:        "model_loaded",
		Help:        "1 when the classifier is loaded, 0 otherwise.",
		ConstLabels: m.constLabels,
	})

	return m
}

func (m *Manager) Registry() *prometheus.Registry { return m.registry }

// Handler serves the registry in the Prometheus exposition format.
func (m *Manager) Handler() http.Handler {
	return promhttp.HandlerFor(m.registry, promhttp.HandlerOpts{})
}

func (m *Manager) RecordHTTPRequest(route, method string, status int, d time.Duration) {
	code := strconv.Itoa(status)
	m.httpRequests.WithLabelValues(route, method, code).Inc()
	m.httpRequestDuration.WithLabelValues(route, method, code).Observe(d.Seconds())
}

func (m *Manager) RecordDocumentsServed(n int) {
	m.documentsServed.Add(float64(n))
}

func (m *Manager) RecordCatalogError() {
	m.catalogErrors.Inc()
}

func (m *Manager) RecordDiagnosis(eye, label string) {
	m.diagnoses.WithLabelValues(eye, label).Inc()
}

func (m *Manager) ObserveInference(d time.Duration) {
	m.inferenceLatency.Observe(d.Seconds())
}

func (m *Manager) RecordCacheLookup(hit bool) {
	outcome := "miss"
	if hit {
		outcome = "hit"
	}
	m.cacheLookups.WithLabelValues(outcome).Inc()
}

func (m *Manager) SetModelLoaded(loaded bool) {
	if loaded {
		m.modelLoaded.Set(1)
		return
	}
	m.modelLoaded.Set(0)
}
