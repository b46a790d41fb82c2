package observability

import (
	"net/http"
	"sync"
	"time"

	"github.com/prometheus/client_golang/prometheus"
	"github.com/prometheus/client_golang/prometheus/promhttp"
)

var (
	// HTTP metrics
	httpRequestsTotal = prometheus.NewCounterVec(
		prometheus.CounterOpts{
			Name: "storyforge_http_requests_total",
			Help: "Total number of HTTP requests",
		},
		[]string{"method", "path", "status"},
	)

	httpRequestDuration = prometheus.NewHistogramVec(
		prometheus.HistogramOpts{
			Name:    "storyforge_http_request_duration_seconds",
			Help:    "HTTP request duration in seconds",
			Buckets: prometheus.DefBuckets,
		},
		[]string{"method", "path"},
	)

	// Generation metrics
	generationsTotal = prometheus.NewCounterVec(
		prometheus.CounterOpts{
			Name: "storyforge_generations_total",
			Help: "Total number of content generations",
		},
		[]string{"type", "status"},
	)

	generationDuration = prometheus.NewHistogramVec(
		prometheus.HistogramOpts{
			Name:    "storyforge_generation_duration_seconds",
			Help:    "Content generation duration in seconds",
			Buckets: prometheus.DefBuckets,
		},
		[]string{"type"},
	)

	generationCostTotal = prometheus.NewCounter(
		prometheus.CounterOpts{
			Name: "storyforge_generation_cost_dollars_total",
			Help: "Cumulative estimated generation cost in dollars",
		},
	)

	// Export metrics
	exportPagesTotal = prometheus.NewCounterVec(
		prometheus.CounterOpts{
			Name: "storyforge_export_pages_total",
			Help: "Total number of pages exported to Notion",
		},
		[]string{"status"},
	)

	// Analytics snapshot gauges, refreshed periodically in serve mode
	analyticsSessions = prometheus.NewGauge(
		prometheus.GaugeOpts{
			Name: "storyforge_analytics_sessions",
			Help: "Total sessions recorded",
		},
	)

	analyticsGenerations = prometheus.NewGauge(
		prometheus.GaugeOpts{
			Name: "storyforge_analytics_generations",
			Help: "Total generations recorded",
		},
	)

	analyticsCost = prometheus.NewGauge(
		prometheus.GaugeOpts{
			Name: "storyforge_analytics_cost_dollars",
			Help: "Total estimated cost across recorded generations",
		},
	)

	initOnce sync.Once
)

// InitMetrics initializes Prometheus metrics
func InitMetrics() {
	initOnce.Do(func() {
		prometheus.MustRegister(
			httpRequestsTotal,
			httpRequestDuration,
			generationsTotal,
			generationDuration,
			generationCostTotal,
			exportPagesTotal,
			analyticsSessions,
			analyticsGenerations,
			analyticsCost,
		)
	})
}

// MetricsHandler returns an HTTP handler for Prometheus metrics
func MetricsHandler() http.Handler {
	return promhttp.Handler()
}

// RecordHTTPRequest records HTTP request metrics
func RecordHTTPRequest(method, path, status string, duration time.Duration) {
	httpRequestsTotal.WithLabelValues(method, path, status).Inc()
	httpRequestDuration.WithLabelValues(method, path).Observe(duration.Seconds())
}

// RecordGeneration records one generation attempt
func RecordGeneration(genType, status string, cost float64, duration time.Duration) {
	generationsTotal.WithLabelValues(genType, status).Inc()
	generationDuration.WithLabelValues(genType).Observe(duration.Seconds())
	generationCostTotal.Add(cost)
}

// RecordExportPage records one Notion page export attempt
func RecordExportPage(status string) {
	exportPagesTotal.WithLabelValues(status).Inc()
}

// SetAnalyticsSnapshot updates the analytics snapshot gauges
func SetAnalyticsSnapshot(sessions, generations int, cost float64) {
	analyticsSessions.Set(float64(sessions))
	analyticsGenerations.Set(float64(generations))
	analyticsCost.Set(cost)
}
