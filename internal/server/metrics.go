package server

import (
	"strconv"
	"time"

	"github.com/gin-gonic/gin"
	"github.com/prometheus/client_golang/prometheus"
	"github.com/prometheus/client_golang/prometheus/promauto"
)

var (
	httpRequestsTotal = promauto.NewCounterVec(
		prometheus.CounterOpts{
			Name: "growthai_http_requests_total",
			Help: "HTTP requests by route, method and status",
		},
		[]string{"route", "method", "status"},
	)

	httpRequestDuration = promauto.NewHistogramVec(
		prometheus.HistogramOpts{
			Name:    "growthai_http_request_duration_seconds",
			Help:    "HTTP request latency by route",
			Buckets: []float64{0.001, 0.005, 0.01, 0.05, 0.1, 0.25, 0.5, 1, 2.5, 5},
		},
		[]string{"route"},
	)

	recommendationsServed = promauto.NewCounterVec(
		prometheus.CounterOpts{
			Name: "growthai_recommendations_served_total",
			Help: "Recommendation responses by path taken",
		},
		[]string{"mode"}, // warm, cold_start, degraded
	)

	campaignsGenerated = promauto.NewCounterVec(
		prometheus.CounterOpts{
			Name: "growthai_campaigns_generated_total",
			Help: "Retention campaigns generated by risk segment",
		},
		[]string{"risk_segment"},
	)
)

// metricsMiddleware records the request counter and latency histogram,
// labeled with the registered route pattern so path params don't explode
// cardinality.
func metricsMiddleware() gin.HandlerFunc {
	return func(c *gin.Context) {
		start := time.Now()
		c.Next()
		route := c.FullPath()
		if route == "" {
			route = "unmatched"
		}
		httpRequestsTotal.WithLabelValues(route, c.Request.Method, strconv.Itoa(c.Writer.Status())).Inc()
		httpRequestDuration.WithLabelValues(route).Observe(time.Since(start).Seconds())
	}
}
