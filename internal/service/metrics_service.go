package service

import (
	"fmt"
	"net/http"
	"runtime"
	"time"

	"github.com/prometheus/client_golang/prometheus"
	"github.com/prometheus/client_golang/prometheus/promhttp"
)

// MetricsService encapsulates Prometheus instrumentation for the HTTP
// surface and the card pipeline.
type MetricsService struct {
	registry        *prometheus.Registry
	handler         http.Handler
	requestDuration *prometheus.HistogramVec
	requestTotal    *prometheus.CounterVec
	cardsCreated    prometheus.Counter
	cardsDeleted    prometheus.Counter
	exportsTotal    *prometheus.CounterVec
	exportFailures  prometheus.Counter
}

// NewMetricsService registers the collectors.
func NewMetricsService() *MetricsService {
	registry := prometheus.NewRegistry()

	requestDuration := prometheus.NewHistogramVec(prometheus.HistogramOpts{
		Name:    "http_request_duration_seconds",
		Help:    "Duration of HTTP requests in seconds",
		Buckets: prometheus.DefBuckets,
	}, []string{"method", "path", "status"})

	requestTotal := prometheus.NewCounterVec(prometheus.CounterOpts{
		Name: "http_requests_total",
		Help: "Total number of HTTP requests",
	}, []string{"method", "path", "status"})

	cardsCreated := prometheus.NewCounter(prometheus.CounterOpts{
		Name: "cards_created_total",
		Help: "Total number of cards created",
	})

	cardsDeleted := prometheus.NewCounter(prometheus.CounterOpts{
		Name: "cards_deleted_total",
		Help: "Total number of cards deleted",
	})

	exportsTotal := prometheus.NewCounterVec(prometheus.CounterOpts{
		Name: "card_exports_total",
		Help: "Total number of successful card exports",
	}, []string{"format"})

	exportFailures := prometheus.NewCounter(prometheus.CounterOpts{
		Name: "card_export_failures_total",
		Help: "Total number of failed card exports",
	})

	goroutines := prometheus.NewGaugeFunc(prometheus.GaugeOpts{
		Name: "goroutines_total",
		Help: "Total number of goroutines",
	}, func() float64 {
		return float64(runtime.NumGoroutine())
	})

	registry.MustRegister(requestDuration, requestTotal, cardsCreated, cardsDeleted, exportsTotal, exportFailures, goroutines)

	return &MetricsService{
		registry:        registry,
		handler:         promhttp.HandlerFor(registry, promhttp.HandlerOpts{}),
		requestDuration: requestDuration,
		requestTotal:    requestTotal,
		cardsCreated:    cardsCreated,
		cardsDeleted:    cardsDeleted,
		exportsTotal:    exportsTotal,
		exportFailures:  exportFailures,
	}
}

// Handler exposes the Prometheus HTTP handler.
func (m *MetricsService) Handler() http.Handler {
	if m == nil {
		return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
			w.WriteHeader(http.StatusServiceUnavailable)
		})
	}
	return m.handler
}

// ObserveHTTPRequest records request metrics.
func (m *MetricsService) ObserveHTTPRequest(method, path string, status int, duration time.Duration) {
	if m == nil {
		return
	}
	labelStatus := fmt.Sprintf("%d", status)
	m.requestDuration.WithLabelValues(method, path, labelStatus).Observe(duration.Seconds())
	m.requestTotal.WithLabelValues(method, path, labelStatus).Inc()
}

// RecordCardCreated increments the creation counter.
func (m *MetricsService) RecordCardCreated() {
	if m == nil {
		return
	}
	m.cardsCreated.Inc()
}

// RecordCardDeleted increments the deletion counter.
func (m *MetricsService) RecordCardDeleted() {
	if m == nil {
		return
	}
	m.cardsDeleted.Inc()
}

// RecordExport tracks export outcomes per format.
func (m *MetricsService) RecordExport(format string, ok bool) {
	if m == nil {
		return
	}
	if ok {
		m.exportsTotal.WithLabelValues(format).Inc()
		return
	}
	m.exportFailures.Inc()
}
