package metrics

import (
	"sync"
	"time"

	"github.com/prometheus/client_golang/prometheus"
)

var (
	once sync.Once

	backendRequests = prometheus.NewCounterVec(
		prometheus.CounterOpts{
			Namespace: "wedhub",
			Name:      "backend_requests_total",
			Help:      "Backend REST calls by endpoint and outcome.",
		},
		[]string{"endpoint", "outcome"},
	)

	backendDuration = prometheus.NewHistogramVec(
		prometheus.HistogramOpts{
			Namespace: "wedhub",
			Name:      "backend_request_duration_seconds",
			Help:      "Backend REST call latency by endpoint.",
			Buckets:   prometheus.DefBuckets,
		},
		[]string{"endpoint"},
	)

	transitions = prometheus.NewCounterVec(
		prometheus.CounterOpts{
			Namespace: "wedhub",
			Name:      "booking_transitions_total",
			Help:      "Booking status transitions issued, by target status.",
		},
		[]string{"target"},
	)

	dashboardRequests = prometheus.NewCounterVec(
		prometheus.CounterOpts{
			Namespace: "wedhub",
			Name:      "dashboard_requests_total",
			Help:      "Dashboard HTTP requests by endpoint.",
		},
		[]string{"endpoint"},
	)
)

// Register registers Prometheus metrics. Safe to call multiple times.
func Register() {
	once.Do(func() {
		prometheus.MustRegister(backendRequests, backendDuration, transitions, dashboardRequests)
	})
}

// ObserveBackend records one backend call with its outcome and latency.
func ObserveBackend(endpoint, outcome string, elapsed time.Duration) {
	backendRequests.WithLabelValues(endpoint, outcome).Inc()
	backendDuration.WithLabelValues(endpoint).Observe(elapsed.Seconds())
}

// IncTransition counts a status transition toward the target status.
func IncTransition(target string) {
	transitions.WithLabelValues(target).Inc()
}

// IncDashboard increments the counter for a dashboard endpoint label.
func IncDashboard(endpoint string) {
	dashboardRequests.WithLabelValues(endpoint).Inc()
}
