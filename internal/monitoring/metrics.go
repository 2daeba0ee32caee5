package monitoring

import (
	"net/http"
	"time"

	"github.com/prometheus/client_golang/prometheus"
	"github.com/prometheus/client_golang/prometheus/promauto"
	"github.com/prometheus/client_golang/prometheus/promhttp"
)

// Metrics holds all Prometheus metrics the toolkit emits.
type Metrics struct {
	// Tool dispatch metrics
	ToolExecutions *prometheus.CounterVec
	ToolDuration   *prometheus.HistogramVec

	// Scraping metrics
	PagesFetched    *prometheus.CounterVec
	FilesDownloaded prometheus.Counter

	// Conversation metrics
	Turns         prometheus.Counter
	ModelRequests *prometheus.CounterVec

	// registry is retained so Handler exposes exactly the collectors above.
	registry *prometheus.Registry
}

// NewMetrics creates a metrics collector registered on its own registry so
// tests can construct multiple instances without collisions.
func NewMetrics() *Metrics {
	reg := prometheus.NewRegistry()
	factory := promauto.With(reg)

	m := &Metrics{
		ToolExecutions: factory.NewCounterVec(
			prometheus.CounterOpts{
				Name: "scrapebot_tool_executions_total",
				Help: "Total number of tool executions",
			},
			[]string{"tool", "status"},
		),
		ToolDuration: factory.NewHistogramVec(
			prometheus.HistogramOpts{
				Name:    "scrapebot_tool_duration_seconds",
				Help:    "Tool execution duration in seconds",
				Buckets: prometheus.DefBuckets,
			},
			[]string{"tool"},
		),
		PagesFetched: factory.NewCounterVec(
			prometheus.CounterOpts{
				Name: "scrapebot_pages_fetched_total",
				Help: "Total number of page fetch attempts",
			},
			[]string{"status"},
		),
		FilesDownloaded: factory.NewCounter(
			prometheus.CounterOpts{
				Name: "scrapebot_files_downloaded_total",
				Help: "Total number of files downloaded",
			},
		),
		Turns: factory.NewCounter(
			prometheus.CounterOpts{
				Name: "scrapebot_conversation_turns_total",
				Help: "Total number of conversation turns",
			},
		),
		ModelRequests: factory.NewCounterVec(
			prometheus.CounterOpts{
				Name: "scrapebot_model_requests_total",
				Help: "Total number of model completion requests",
			},
			[]string{"status"},
		),
	}

	m.registry = reg
	return m
}

// RecordToolExecution records one dispatch outcome.
func (m *Metrics) RecordToolExecution(tool string, err error, elapsed time.Duration) {
	status := "success"
	if err != nil {
		status = "error"
	}
	m.ToolExecutions.WithLabelValues(tool, status).Inc()
	m.ToolDuration.WithLabelValues(tool).Observe(elapsed.Seconds())
}

// RecordFetch records one page fetch attempt.
func (m *Metrics) RecordFetch(ok bool) {
	status := "success"
	if !ok {
		status = "error"
	}
	m.PagesFetched.WithLabelValues(status).Inc()
}

// RecordModelRequest records one model round-trip.
func (m *Metrics) RecordModelRequest(err error) {
	status := "success"
	if err != nil {
		status = "error"
	}
	m.ModelRequests.WithLabelValues(status).Inc()
}

// Handler returns an HTTP handler exposing the metrics.
func (m *Metrics) Handler() http.Handler {
	return promhttp.HandlerFor(m.registry, promhttp.HandlerOpts{})
}
