package metrics

import (
	"net/http"
	"strconv"
	"time"

	"github.com/gin-gonic/gin"
	"github.com/prometheus/client_golang/prometheus"
	"github.com/prometheus/client_golang/prometheus/promauto"
	"github.com/prometheus/client_golang/prometheus/promhttp"
)

// Submission triggers.
const (
	TriggerManual = "manual"
	TriggerTimer  = "timer"
)

var (
	httpRequests = promauto.NewCounterVec(prometheus.CounterOpts{
		Namespace: "interview",
		Name:      "http_requests_total",
		Help:      "Total number of HTTP requests received",
	}, []string{"method", "path", "status"})

	httpLatency = promauto.NewHistogramVec(prometheus.HistogramOpts{
		Namespace: "interview",
		Name:      "http_request_duration_seconds",
		Help:      "Duration of HTTP requests in seconds",
		Buckets:   prometheus.DefBuckets,
	}, []string{"method", "path"})

	interviewsStarted = promauto.NewCounter(prometheus.CounterOpts{
		Namespace: "interview",
		Name:      "sessions_started_total",
		Help:      "Interview sessions started",
	})

	interviewsCompleted = promauto.NewCounter(prometheus.CounterOpts{
		Namespace: "interview",
		Name:      "sessions_completed_total",
		Help:      "Interview sessions that ran through all questions",
	})

	interviewsReset = promauto.NewCounter(prometheus.CounterOpts{
		Namespace: "interview",
		Name:      "sessions_reset_total",
		Help:      "In-progress sessions discarded by reset",
	})

	answersSubmitted = promauto.NewCounterVec(prometheus.CounterOpts{
		Namespace: "interview",
		Name:      "answers_submitted_total",
		Help:      "Answers submitted, by trigger (manual or timer)",
	}, []string{"trigger"})

	sessionScore = promauto.NewHistogram(prometheus.HistogramOpts{
		Namespace: "interview",
		Name:      "session_total_score",
		Help:      "Total score of completed sessions",
		Buckets:   []float64{60, 65, 70, 75, 80, 85, 90, 95, 100},
	})

	snapshotFailures = promauto.NewCounterVec(prometheus.CounterOpts{
		Namespace: "interview",
		Name:      "snapshot_failures_total",
		Help:      "Snapshot load/save failures, by operation",
	}, []string{"op"})
)

// SessionStarted records a new interview session.
func SessionStarted() { interviewsStarted.Inc() }

// SessionCompleted records a finished session and its total score.
func SessionCompleted(totalScore float64) {
	interviewsCompleted.Inc()
	sessionScore.Observe(totalScore)
}

// SessionReset records a discarded session.
func SessionReset() { interviewsReset.Inc() }

// AnswerSubmitted records one submission by trigger.
func AnswerSubmitted(trigger string) { answersSubmitted.WithLabelValues(trigger).Inc() }

// SnapshotFailed records a failed snapshot operation ("load" or "save").
func SnapshotFailed(op string) { snapshotFailures.WithLabelValues(op).Inc() }

// Handler exposes the default registry.
func Handler() http.Handler {
	return promhttp.Handler()
}

// Middleware records request counts and latency by route template.
func Middleware() gin.HandlerFunc {
	return func(c *gin.Context) {
		start := time.Now()
		c.Next()

		path := c.FullPath()
		if path == "" {
			path = "unmatched"
		}
		httpRequests.WithLabelValues(c.Request.Method, path, strconv.Itoa(c.Writer.Status())).Inc()
		httpLatency.WithLabelValues(c.Request.Method, path).Observe(time.Since(start).Seconds())
	}
}
