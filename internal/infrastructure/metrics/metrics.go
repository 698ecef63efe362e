package metrics

import (
	"github.com/prometheus/client_golang/prometheus"
	"github.com/prometheus/client_golang/prometheus/promauto"
)

var (
	RequestsTotal = promauto.NewCounterVec(
		prometheus.CounterOpts{
			Namespace: "video_drop",
			Subsystem: "api",
			Name:      "requests_total",
			Help:      "Total number of HTTP requests",
		},
		[]string{"method", "route", "status"},
	)

	RequestDuration = promauto.NewHistogramVec(
		prometheus.HistogramOpts{
			Namespace: "video_drop",
			Subsystem: "api",
			Name:      "request_duration_seconds",
			Help:      "HTTP request duration in seconds",
			Buckets:   []float64{0.01, 0.05, 0.1, 0.5, 1, 2, 5},
		},
		[]string{"method", "route"},
	)

	// Presign operations, labelled by "put" (upload) or "get" (view).
	PresignTotal = promauto.NewCounterVec(
		prometheus.CounterOpts{
			Namespace: "video_drop",
			Subsystem: "storage",
			Name:      "presign_total",
			Help:      "Total presigned URL generations",
		},
		[]string{"operation", "status"},
	)

	PresignDuration = promauto.NewHistogramVec(
		prometheus.HistogramOpts{
			Namespace: "video_drop",
			Subsystem: "storage",
			Name:      "presign_duration_seconds",
			Help:      "Presigned URL generation duration in seconds",
			Buckets:   []float64{0.001, 0.005, 0.01, 0.05, 0.1, 0.5},
		},
		[]string{"operation"},
	)

	NotificationsTotal = promauto.NewCounterVec(
		prometheus.CounterOpts{
			Namespace: "video_drop",
			Subsystem: "notification",
			Name:      "emails_total",
			Help:      "Upload notification attempts by outcome",
		},
		[]string{"status"},
	)
)

// RecordRequest records an HTTP request.
func RecordRequest(method, route, status string, durationSec float64) {
	RequestsTotal.WithLabelValues(method, route, status).Inc()
	RequestDuration.WithLabelValues(method, route).Observe(durationSec)
}

// RecordPresign records a presigned URL generation.
func RecordPresign(operation string, err error, durationSec float64) {
	status := "success"
	if err != nil {
		status = "error"
	}
	PresignTotal.WithLabelValues(operation, status).Inc()
	PresignDuration.WithLabelValues(operation).Observe(durationSec)
}

// RecordNotification records the outcome of one notification attempt.
func RecordNotification(status string) {
	NotificationsTotal.WithLabelValues(status).Inc()
}
