// Package metrics defines the Prometheus collectors and the gin
// middleware that feeds the HTTP ones.
package metrics

import (
	"strconv"
	"time"

	"github.com/gin-gonic/gin"
	"github.com/prometheus/client_golang/prometheus"
	"github.com/prometheus/client_golang/prometheus/promhttp"
)

var (
	HTTPRequests = prometheus.NewCounterVec(
		prometheus.CounterOpts{Name: "http_requests_total", Help: "HTTP requests by route, method and status."},
		[]string{"path", "method", "status"},
	)
	HTTPLatency = prometheus.NewHistogramVec(
		prometheus.HistogramOpts{Name: "http_request_duration_seconds", Help: "HTTP request latency in seconds.", Buckets: prometheus.DefBuckets},
		[]string{"path", "method"},
	)
	TasksCreated           = prometheus.NewCounter(prometheus.CounterOpts{Name: "tasks_created_total", Help: "Tasks posted by clients."})
	ProvidersRegistered    = prometheus.NewCounter(prometheus.CounterOpts{Name: "providers_registered_total", Help: "Provider profiles created."})
	UpdateRequestsReviewed = prometheus.NewCounterVec(
		prometheus.CounterOpts{Name: "provider_update_requests_reviewed_total", Help: "Provider update requests reviewed by outcome."},
		[]string{"outcome"},
	)
	ReviewsAdded = prometheus.NewCounter(prometheus.CounterOpts{Name: "provider_reviews_total", Help: "Provider reviews accepted."})
	RateLimited  = prometheus.NewCounterVec(
		prometheus.CounterOpts{Name: "rate_limited_requests_total", Help: "Requests rejected by the rate limiter."},
		[]string{"limiter"},
	)
)

func init() {
	prometheus.MustRegister(HTTPRequests, HTTPLatency, TasksCreated, ProvidersRegistered, UpdateRequestsReviewed, ReviewsAdded, RateLimited)
}

// Handler returns the middleware recording request counts and latency.
func Handler() gin.HandlerFunc {
	return func(c *gin.Context) {
		start := time.Now()
		c.Next()
		path := c.FullPath()
		if path == "" {
			path = "unmatched"
		}
		HTTPLatency.WithLabelValues(path, c.Request.Method).Observe(time.Since(start).Seconds())
		HTTPRequests.WithLabelValues(path, c.Request.Method, strconv.Itoa(c.Writer.Status())).Inc()
	}
}

// Exposer serves the default registry.
func Exposer() gin.HandlerFunc { return gin.WrapH(promhttp.Handler()) }
