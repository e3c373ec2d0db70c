package service

import (
	"net/http"
	"runtime"
	"time"

	"github.com/prometheus/client_golang/prometheus"
	"github.com/prometheus/client_golang/prometheus/promhttp"
)

// MetricsService encapsulates Prometheus instrumentation for the moderation
// and notification pipeline.
type MetricsService struct {
	registry        *prometheus.Registry
	handler         http.Handler
	requestDuration *prometheus.HistogramVec
	requestTotal    *prometheus.CounterVec

	moderationDecisions *prometheus.CounterVec
	notificationsSent   prometheus.Counter
	notificationsFailed prometheus.Counter
	retentionWarned     prometheus.Counter
	retentionDeleted    prometheus.Counter
	retentionErrors     prometheus.Counter
}

// NewMetricsService registers core Prometheus collectors.
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

	moderationDecisions := prometheus.NewCounterVec(prometheus.CounterOpts{
		Name: "moderation_decisions_total",
		Help: "Moderation decisions applied, by action",
	}, []string{"action"})

	notificationsSent := prometheus.NewCounter(prometheus.CounterOpts{
		Name: "notifications_sent_total",
		Help: "Notification sends the transport accepted",
	})

	notificationsFailed := prometheus.NewCounter(prometheus.CounterOpts{
		Name: "notifications_failed_total",
		Help: "Notification sends that failed",
	})

	retentionWarned := prometheus.NewCounter(prometheus.CounterOpts{
		Name: "retention_warnings_total",
		Help: "Retention warning emails sent",
	})

	retentionDeleted := prometheus.NewCounter(prometheus.CounterOpts{
		Name: "retention_deletions_total",
		Help: "Accounts deleted by the retention batch",
	})

	retentionErrors := prometheus.NewCounter(prometheus.CounterOpts{
		Name: "retention_errors_total",
		Help: "Per-account failures during retention batches",
	})

	goroutines := prometheus.NewGaugeFunc(prometheus.GaugeOpts{
		Name: "goroutines_total",
		Help: "Total number of goroutines",
	}, func() float64 {
		return float64(runtime.NumGoroutine())
	})

	registry.MustRegister(
		requestDuration,
		requestTotal,
		moderationDecisions,
		notificationsSent,
		notificationsFailed,
		retentionWarned,
		retentionDeleted,
		retentionErrors,
		goroutines,
	)

	return &MetricsService{
		registry:            registry,
		handler:             promhttp.HandlerFor(registry, promhttp.HandlerOpts{}),
		requestDuration:     requestDuration,
		requestTotal:        requestTotal,
		moderationDecisions: moderationDecisions,
		notificationsSent:   notificationsSent,
		notificationsFailed: notificationsFailed,
		retentionWarned:     retentionWarned,
		retentionDeleted:    retentionDeleted,
		retentionErrors:     retentionErrors,
	}
}

// Handler returns the Prometheus scrape handler.
func (s *MetricsService) Handler() http.Handler {
	return s.handler
}

// ObserveHTTPRequest records request metrics.
func (s *MetricsService) ObserveHTTPRequest(method, path string, status int, duration time.Duration) {
	if s == nil {
		return
	}
	labels := []string{method, path, httpStatusLabel(status)}
	s.requestDuration.WithLabelValues(labels...).Observe(duration.Seconds())
	s.requestTotal.WithLabelValues(labels...).Inc()
}

// RecordModerationDecision counts an applied approve/reject.
func (s *MetricsService) RecordModerationDecision(action string) {
	if s == nil {
		return
	}
	s.moderationDecisions.WithLabelValues(action).Inc()
}

// RecordNotificationResults folds a dispatch summary into the counters.
func (s *MetricsService) RecordNotificationResults(delivered, failed int) {
	if s == nil {
		return
	}
	s.notificationsSent.Add(float64(delivered))
	s.notificationsFailed.Add(float64(failed))
}

// RecordRetentionRun folds a batch summary into the counters.
func (s *MetricsService) RecordRetentionRun(warned, deleted, errs int) {
	if s == nil {
		return
	}
	s.retentionWarned.Add(float64(warned))
	s.retentionDeleted.Add(float64(deleted))
	s.retentionErrors.Add(float64(errs))
}

func httpStatusLabel(status int) string {
	switch {
	case status >= 500:
		return "5xx"
	case status >= 400:
		return "4xx"
	case status >= 300:
		return "3xx"
	default:
		return "2xx"
	}
}
