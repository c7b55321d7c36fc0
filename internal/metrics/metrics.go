package metrics

import (
	"strconv"
	"time"

	"github.com/prometheus/client_golang/prometheus"
	"github.com/prometheus/client_golang/prometheus/promauto"
)

var (
	// HTTP
	APIRequestsTotal = promauto.NewCounterVec(
		prometheus.CounterOpts{
			Name: "streakd_api_requests_total",
			Help: "Total number of API requests",
		},
		[]string{"method", "route", "status"},
	)

	APIRequestDuration = promauto.NewHistogramVec(
		prometheus.HistogramOpts{
			Name:    "streakd_api_request_duration_seconds",
			Help:    "Duration of API requests in seconds",
			Buckets: prometheus.DefBuckets,
		},
		[]string{"method", "route"},
	)

	// Reactions
	ReactionTogglesTotal = promauto.NewCounterVec(
		prometheus.CounterOpts{
			Name: "streakd_reaction_toggles_total",
			Help: "Reaction toggles by outcome",
		},
		[]string{"outcome"}, // "added", "removed", "switched", "error"
	)

	ReactionToggleDuration = promauto.NewHistogram(
		prometheus.HistogramOpts{
			Name:    "streakd_reaction_toggle_duration_seconds",
			Help:    "Time spent in a reaction toggle, lock wait included",
			Buckets: []float64{0.001, 0.005, 0.01, 0.025, 0.05, 0.1, 0.25, 0.5, 1},
		},
	)

	ReactionCountersRepaired = promauto.NewCounter(
		prometheus.CounterOpts{
			Name: "streakd_reaction_counters_repaired_total",
			Help: "Posts whose cached counters were corrected by reconciliation",
		},
	)

	// Feed
	FeedPosts = promauto.NewHistogram(
		prometheus.HistogramOpts{
			Name:    "streakd_feed_posts",
			Help:    "Number of posts returned per feed request",
			Buckets: []float64{0, 1, 5, 10, 25, 50, 100, 250},
		},
	)

	// Reminders
	StreakRemindersTotal = promauto.NewCounterVec(
		prometheus.CounterOpts{
			Name: "streakd_streak_reminders_total",
			Help: "Streak reminders by kind and result",
		},
		[]string{"kind", "result"},
	)

	// Blob store
	BlobOperationsTotal = promauto.NewCounterVec(
		prometheus.CounterOpts{
			Name: "streakd_blob_operations_total",
			Help: "Blob store operations by kind and result",
		},
		[]string{"operation", "result"},
	)
)

// RecordAPIRequest records an API request metric
func RecordAPIRequest(method, route string, status int, duration time.Duration) {
	APIRequestsTotal.WithLabelValues(method, route, strconv.Itoa(status)).Inc()
	APIRequestDuration.WithLabelValues(method, route).Observe(duration.Seconds())
}

// RecordToggle records the outcome of one reaction toggle.
func RecordToggle(outcome string, duration time.Duration) {
	ReactionTogglesTotal.WithLabelValues(outcome).Inc()
	ReactionToggleDuration.Observe(duration.Seconds())
}

func RecordBlobOperation(operation string, err error) {
	result := "ok"
	if err != nil {
		result = "error"
	}
	BlobOperationsTotal.WithLabelValues(operation, result).Inc()
}
