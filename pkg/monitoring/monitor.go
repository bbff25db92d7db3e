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

	PortfolioExportCounter = prometheus.NewCounterVec(
		prometheus.CounterOpts{
			Name: "portfolio_exports_total",
			Help: "Total number of e-portfolio export attempts",
		},
		[]string{"result"},
	)

	PortfolioAttachmentsSkipped = prometheus.NewCounter(
		prometheus.CounterOpts{
			Name: "portfolio_attachments_skipped_total",
			Help: "Attachments that could not be merged into an export",
		},
	)

	ChatMessageCounter = prometheus.NewCounterVec(
		prometheus.CounterOpts{
			Name: "chat_messages_total",
			Help: "Chat messages by direction",
		},
		[]string{"direction"},
	)

	ChatConnectedClients = prometheus.NewGauge(
		prometheus.GaugeOpts{
			Name: "chat_connected_clients",
			Help: "Currently connected chat clients",
		},
	)
)

func Init() {
	prometheus.MustRegister(RequestCounter)
	prometheus.MustRegister(RequestDuration)
	prometheus.MustRegister(PortfolioExportCounter)
	prometheus.MustRegister(PortfolioAttachmentsSkipped)
	prometheus.MustRegister(ChatMessageCounter)
	prometheus.MustRegister(ChatConnectedClients)
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
