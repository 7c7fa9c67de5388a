package observability

import (
	"time"

	"github.com/prometheus/client_golang/prometheus"
	"github.com/prometheus/client_golang/prometheus/promauto"
	"gorm.io/gorm"
)

var (
	// DatabaseQueryLatency records database query latency by operation and table.
	DatabaseQueryLatency = promauto.NewHistogramVec(prometheus.HistogramOpts{
		Name:    "ovra_database_query_latency_seconds",
		Help:    "Database query latency in seconds",
		Buckets: prometheus.DefBuckets,
	}, []string{"operation", "table"})

	// NotificationFanoutJobs counts fan-out jobs by outcome.
	NotificationFanoutJobs = promauto.NewCounterVec(prometheus.CounterOpts{
		Name: "ovra_notification_fanout_jobs_total",
		Help: "Total number of notification fan-out jobs by outcome",
	}, []string{"outcome"})

	// NotificationFanoutQueueDepth is the gauge of jobs waiting in the fan-out queue.
	NotificationFanoutQueueDepth = promauto.NewGauge(prometheus.GaugeOpts{
		Name: "ovra_notification_fanout_queue_depth",
		Help: "Number of fan-out jobs currently queued",
	})

	// NotificationsDelivered counts notifications written by the fan-out worker.
	NotificationsDelivered = promauto.NewCounter(prometheus.CounterOpts{
		Name: "ovra_notifications_delivered_total",
		Help: "Total notifications written by the fan-out worker",
	})

	// SentimentRequests counts sentiment analysis calls by outcome.
	SentimentRequests = promauto.NewCounterVec(prometheus.CounterOpts{
		Name: "ovra_sentiment_requests_total",
		Help: "Total sentiment analysis requests by outcome",
	}, []string{"outcome"})
)

// DatabaseMetrics wraps DB access for recording query latency.
type DatabaseMetrics struct {
	db *gorm.DB
}

// NewDatabaseMetrics returns a new DatabaseMetrics instance.
func NewDatabaseMetrics(db *gorm.DB) *DatabaseMetrics {
	return &DatabaseMetrics{db: db}
}

// ObserveQuery records the latency of a database query.
func (m *DatabaseMetrics) ObserveQuery(operation, table string, start time.Time) {
	latency := time.Since(start).Seconds()
	DatabaseQueryLatency.WithLabelValues(operation, table).Observe(latency)
}

// TrackQuery returns a function that records query latency when called (e.g. defer).
func (m *DatabaseMetrics) TrackQuery(operation, table string) func() {
	start := time.Now()
	return func() {
		m.ObserveQuery(operation, table, start)
	}
}
