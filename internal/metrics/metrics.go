package metrics

import (
	"github.com/prometheus/client_golang/prometheus"
	"github.com/prometheus/client_golang/prometheus/promauto"
)

var (
	HTTPRequestsTotal = promauto.NewCounterVec(
		prometheus.CounterOpts{
			Name: "bookstore_http_requests_total",
			Help: "Total number of HTTP requests",
		},
		[]string{"method", "path", "status"},
	)

	HTTPRequestDuration = promauto.NewHistogramVec(
		prometheus.HistogramOpts{
			Name:    "bookstore_http_request_duration_seconds",
			Help:    "Duration of HTTP requests",
			Buckets: []float64{0.05, 0.1, 0.25, 0.5, 1, 2.5, 5, 10},
		},
		[]string{"method", "path", "status"},
	)

	checkoutsTotal = promauto.NewCounterVec(
		prometheus.CounterOpts{
			Name: "bookstore_checkouts_total",
			Help: "Checkouts by payment method and result",
		},
		[]string{"payment_method", "result"},
	)

	paymentsResolved = promauto.NewCounterVec(
		prometheus.CounterOpts{
			Name: "bookstore_payments_resolved_total",
			Help: "Payment sessions reaching a terminal state",
		},
		[]string{"path", "status"},
	)

	reportCache = promauto.NewCounterVec(
		prometheus.CounterOpts{
			Name: "bookstore_report_cache_total",
			Help: "Top-selling report cache lookups",
		},
		[]string{"result"},
	)
)

// RecordCheckout counts a checkout attempt.
func RecordCheckout(paymentMethod string, err error) {
	result := "success"
	if err != nil {
		result = "error"
	}
	checkoutsTotal.WithLabelValues(paymentMethod, result).Inc()
}

// RecordPaymentResolved counts a session settling via the given path (verify, callback, timeout).
func RecordPaymentResolved(path, status string) {
	paymentsResolved.WithLabelValues(path, status).Inc()
}

// RecordReportCache counts a cache hit or miss.
func RecordReportCache(hit bool) {
	result := "miss"
	if hit {
		result = "hit"
	}
	reportCache.WithLabelValues(result).Inc()
}
