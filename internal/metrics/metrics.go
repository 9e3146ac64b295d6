// Package metrics declares the Prometheus collectors of the API.
package metrics

import (
	"strconv"

	"github.com/prometheus/client_golang/prometheus"
	"github.com/prometheus/client_golang/prometheus/promauto"
)

const namespace = "room_management"

var (
	HTTPRequests = promauto.NewCounterVec(prometheus.CounterOpts{
		Namespace: namespace,
		Name:      "http_requests_total",
		Help:      "Handled HTTP requests by route pattern, method and status.",
	}, []string{"route", "method", "status"})

	HTTPDuration = promauto.NewHistogramVec(prometheus.HistogramOpts{
		Namespace: namespace,
		Name:      "http_request_duration_seconds",
		Help:      "HTTP request latency by route pattern and method.",
		Buckets:   prometheus.DefBuckets,
	}, []string{"route", "method"})

	AnalyticsRuns = promauto.NewCounterVec(prometheus.CounterOpts{
		Namespace: namespace,
		Name:      "analytics_runs_total",
		Help:      "Analytics reports served by report kind and cache outcome.",
	}, []string{"report", "cache"})

	LeaseNotifications = promauto.NewCounterVec(prometheus.CounterOpts{
		Namespace: namespace,
		Name:      "lease_notifications_total",
		Help:      "Lease expiry notifications by stage and result.",
	}, []string{"stage", "result"})
)

// ObserveRequest records one finished HTTP request.
func ObserveRequest(route, method string, status int, seconds float64) {
	HTTPRequests.WithLabelValues(route, method, strconv.Itoa(status)).Inc()
	HTTPDuration.WithLabelValues(route, method).Observe(seconds)
}

// CacheOutcome renders a cache lookup result as a label value.
func CacheOutcome(hit bool) string {
	if hit {
		return "hit"
	}
	return "miss"
}
