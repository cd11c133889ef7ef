// Package metrics exposes request counters for the HTTP surface and the bot
// loop on the standard Prometheus registry.
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

var (
	httpRequests = promauto.NewCounterVec(prometheus.CounterOpts{
		Name: "taskbot_http_requests_total",
		Help: "HTTP requests by method, route and status code.",
	}, []string{"method", "route", "status"})

	httpDuration = promauto.NewHistogramVec(prometheus.HistogramOpts{
		Name:    "taskbot_http_request_duration_seconds",
		Help:    "HTTP request latency by route.",
		Buckets: prometheus.DefBuckets,
	}, []string{"route"})

	BotCommands = promauto.NewCounterVec(prometheus.CounterOpts{
		Name: "taskbot_bot_commands_total",
		Help: "Bot commands handled, by command name.",
	}, []string{"command"})

	BotUpdates = promauto.NewCounter(prometheus.CounterOpts{
		Name: "taskbot_bot_updates_total",
		Help: "Updates received from the bot long-poll loop.",
	})

	DecompositionFallbacks = promauto.NewCounter(prometheus.CounterOpts{
		Name: "taskbot_decomposition_fallbacks_total",
		Help: "Decompositions served by the local heuristic instead of the provider.",
	})
)

// Handler serves the Prometheus scrape endpoint.
func Handler() http.Handler {
	return promhttp.Handler()
}

// GinMiddleware records a counter and latency sample per request. The route
// template is used, not the raw path, so ids do not explode cardinality.
func GinMiddleware() gin.HandlerFunc {
	return func(c *gin.Context) {
		start := time.Now()
		c.Next()

		route := c.FullPath()
		if route == "" {
			route = "unmatched"
		}
		httpRequests.WithLabelValues(c.Request.Method, route, strconv.Itoa(c.Writer.Status())).Inc()
		httpDuration.WithLabelValues(route).Observe(time.Since(start).Seconds())
	}
}
