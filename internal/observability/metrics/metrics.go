package metrics

import (
	"strconv"
	"strings"
	"time"

	"github.com/gin-gonic/gin"
	"github.com/prometheus/client_golang/prometheus"
)

// HTTPMetrics exposes request counters and latency histograms.
type HTTPMetrics struct {
	requests *prometheus.CounterVec
	duration *prometheus.HistogramVec
}

// NewHTTPMetrics registers HTTP metrics on the given registerer.
func NewHTTPMetrics(reg prometheus.Registerer) *HTTPMetrics {
	m := &HTTPMetrics{
		requests: prometheus.NewCounterVec(prometheus.CounterOpts{
			Name: "http_requests_total",
			Help: "Total HTTP requests by method, route and status.",
		}, []string{"method", "route", "status"}),
		duration: prometheus.NewHistogramVec(prometheus.HistogramOpts{
			Name:    "http_request_duration_seconds",
			Help:    "HTTP request latency by method and route.",
			Buckets: prometheus.DefBuckets,
		}, []string{"method", "route"}),
	}
	reg.MustRegister(m.requests, m.duration)
	return m
}

// GinMiddleware records request metrics after each handler.
func GinMiddleware(m *HTTPMetrics) gin.HandlerFunc {
	return func(c *gin.Context) {
		if m == nil {
			c.Next()
			return
		}
		start := time.Now()
		c.Next()

		route := c.FullPath()
		if strings.TrimSpace(route) == "" {
			route = "unknown"
		}
		m.requests.WithLabelValues(c.Request.Method, route, strconv.Itoa(c.Writer.Status())).Inc()
		m.duration.WithLabelValues(c.Request.Method, route).Observe(time.Since(start).Seconds())
	}
}

// SyncMetrics instruments the corpus sync job.
type SyncMetrics struct {
	runs       *prometheus.CounterVec
	newEntries prometheus.Counter
	duration   prometheus.Histogram
}

// NewSyncMetrics registers sync job metrics on the given registerer.
func NewSyncMetrics(reg prometheus.Registerer) *SyncMetrics {
	m := &SyncMetrics{
		runs: prometheus.NewCounterVec(prometheus.CounterOpts{
			Name: "corpus_sync_runs_total",
			Help: "Total corpus sync runs by outcome.",
		}, []string{"outcome"}),
		newEntries: prometheus.NewCounter(prometheus.CounterOpts{
			Name: "corpus_sync_new_entries_total",
			Help: "Total new corpus entries written by sync runs.",
		}),
		duration: prometheus.NewHistogram(prometheus.HistogramOpts{
			Name:    "corpus_sync_duration_seconds",
			Help:    "Corpus sync run duration.",
			Buckets: prometheus.ExponentialBuckets(0.01, 2, 12),
		}),
	}
	reg.MustRegister(m.runs, m.newEntries, m.duration)
	return m
}

func (m *SyncMetrics) ObserveRun(outcome string, newEntries int, elapsed time.Duration) {
	if m == nil {
		return
	}
	m.runs.WithLabelValues(outcome).Inc()
	if newEntries > 0 {
		m.newEntries.Add(float64(newEntries))
	}
	m.duration.Observe(elapsed.Seconds())
}
