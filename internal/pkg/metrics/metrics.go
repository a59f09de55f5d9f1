package metrics

import "github.com/prometheus/client_golang/prometheus"

// Prometheus metrics for the post lifecycle
var (
	PostsCreatedTotal = prometheus.NewCounter(
		prometheus.CounterOpts{
			Name: "posts_created_total",
			Help: "Total number of posts created",
		},
	)

	PostTransitionsTotal = prometheus.NewCounterVec(
		prometheus.CounterOpts{
			Name: "post_transitions_total",
			Help: "Total number of post status transitions by target status and outcome",
		},
		[]string{"status", "outcome"},
	)

	HandshakeDuration = prometheus.NewHistogramVec(
		prometheus.HistogramOpts{
			Name:    "post_handshake_duration_seconds",
			Help:    "Duration of the drain-then-publish notification handshake",
			Buckets: prometheus.DefBuckets,
		},
		[]string{"queue"},
	)

	NotificationsTotal = prometheus.NewCounterVec(
		prometheus.CounterOpts{
			Name: "notifications_total",
			Help: "Total number of customer notifications by outcome (sent, rejected, unavailable)",
		},
		[]string{"outcome"},
	)

	PostCacheRequestsTotal = prometheus.NewCounterVec(
		prometheus.CounterOpts{
			Name: "post_cache_requests_total",
			Help: "Total number of post cache lookups by result (hit, miss, error)",
		},
		[]string{"result"},
	)

	OverduePosts = prometheus.NewGauge(
		prometheus.GaugeOpts{
			Name: "posts_overdue",
			Help: "Number of undelivered posts past their estimated delivery date at the last check",
		},
	)
)

// Register registers all Prometheus metrics
func Register() {
	prometheus.MustRegister(PostsCreatedTotal)
	prometheus.MustRegister(PostTransitionsTotal)
	prometheus.MustRegister(HandshakeDuration)
	prometheus.MustRegister(NotificationsTotal)
	prometheus.MustRegister(PostCacheRequestsTotal)
	prometheus.MustRegister(OverduePosts)
}
