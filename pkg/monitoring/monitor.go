package monitoring

import (
	"strconv"
	"time"

	"github.com/gin-gonic/gin"
	"github.com/prometheus/client_golang/prometheus"
	"github.com/prometheus/client_golang/prometheus/promhttp"
)

var (
	RequestCounter = prometheus.NewCounterVec(
		prometheus.CounterOpts{
			Name: "http_requests_total",
			Help: "Total number of HTTP requests",
		},
		[]string{"method", "endpoint", "status"},
	)

	RequestDuration = prometheus.NewHistogramVec(
		prometheus.HistogramOpts{
			Name:    "http_request_duration_seconds",
			Help:    "Duration of HTTP requests",
			Buckets: []float64{0.1, 0.5, 1, 2, 5},
		},
		[]string{"method", "endpoint"},
	)

	CoachingRunCounter = prometheus.NewCounterVec(
		prometheus.CounterOpts{
			Name: "coaching_runs_total",
			Help: "Total number of coaching session runs",
		},
		[]string{"status"},
	)

	CoachingRunDuration = prometheus.NewHistogram(
		prometheus.HistogramOpts{
			Name:    "coaching_run_duration_seconds",
			Help:    "Duration of a full coaching run per student",
			Buckets: []float64{0.05, 0.1, 0.5, 1, 2, 5},
		},
	)

	WeakAreasUpserted = prometheus.NewCounter(
		prometheus.CounterOpts{
			Name: "weak_areas_upserted_total",
			Help: "Total number of weak areas written by the classifier",
		},
	)

	MilestonesEmitted = prometheus.NewCounter(
		prometheus.CounterOpts{
			Name: "improvement_milestones_total",
			Help: "Total number of improvement milestones emitted",
		},
	)
)

func Init() {
	prometheus.MustRegister(RequestCounter)
	prometheus.MustRegister(RequestDuration)
	prometheus.MustRegister(CoachingRunCounter)
	prometheus.MustRegister(CoachingRunDuration)
	prometheus.MustRegister(WeakAreasUpserted)
	prometheus.MustRegister(MilestonesEmitted)
}

func MetricsMiddleware() gin.HandlerFunc {
	return func(c *gin.Context) {
		start := time.Now()
		c.Next()

		duration := time.Since(start).Seconds()
		status := c.Writer.Status()

		RequestCounter.WithLabelValues(
			c.Request.Method,
			c.FullPath(),
			strconv.Itoa(status),
		).Inc()

		RequestDuration.WithLabelValues(
			c.Request.Method,
			c.FullPath(),
		).Observe(duration)
	}
}

func PrometheusHandler() gin.HandlerFunc {
	h := promhttp.Handler()
	return func(c *gin.Context) {
		h.ServeHTTP(c.Writer, c.Request)
	}
}
