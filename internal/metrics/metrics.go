// Package metrics exposes Prometheus collectors for pipeline runs, recommendations and the HTTP API.
package metrics

import (
	"net/http"
	"strconv"
	"time"

	"github.com/prometheus/client_golang/prometheus"
	"github.com/prometheus/client_golang/prometheus/promhttp"
)

// Pipeline run outcomes
const (
	StatusCompleted = "completed"
	StatusFailed    = "failed"
)

// Metrics holds the collectors registered on a private registry
type Metrics struct {
	registry *prometheus.Registry

	PipelineRuns             *prometheus.CounterVec
	PipelineDuration         prometheus.Histogram
	ListingsProcessed        *prometheus.CounterVec
	SkillsExtracted          prometheus.Counter
	RecommendationsGenerated prometheus.Counter
	HTTPRequests             *prometheus.CounterVec
	HTTPDuration             *prometheus.HistogramVec
}

// New creates and registers all collectors
func New() *Metrics {
	m := &Metrics{
		registry: prometheus.NewRegistry(),
		PipelineRuns: prometheus.NewCounterVec(
			prometheus.CounterOpts{
				Name: "skillmon_pipeline_runs_total",
				Help: "Total number of market pipeline runs",
			},
			[]string{"status"},
		),
		PipelineDuration: prometheus.NewHistogram(
			prometheus.HistogramOpts{
				Name:    "skillmon_pipeline_duration_seconds",
				Help:    "Market pipeline run duration in seconds",
				Buckets: prometheus.DefBuckets,
			},
		),
		ListingsProcessed: prometheus.NewCounterVec(
			prometheus.CounterOpts{
				Name: "skillmon_listings_total",
				Help: "Listings read by the pipeline",
			},
			[]string{"result"},
		),
		SkillsExtracted: prometheus.NewCounter(
			prometheus.CounterOpts{
				Name: "skillmon_skills_extracted_total",
				Help: "Skill mentions extracted from listings",
			},
		),
		RecommendationsGenerated: prometheus.NewCounter(
			prometheus.CounterOpts{
				Name: "skillmon_recommendations_total",
				Help: "Recommendations generated for users",
			},
		),
		HTTPRequests: prometheus.NewCounterVec(
			prometheus.CounterOpts{
				Name: "http_requests_total",
				Help: "Total number of HTTP requests",
			},
			[]string{"method", "endpoint", "status"},
		),
		HTTPDuration: prometheus.NewHistogramVec(
			prometheus.HistogramOpts{
				Name:    "http_request_duration_seconds",
				Help:    "HTTP request duration in seconds",
				Buckets: prometheus.DefBuckets,
			},
			[]string{"method", "endpoint"},
		),
	}

	m.registry.MustRegister(
		m.PipelineRuns,
		m.PipelineDuration,
		m.ListingsProcessed,
		m.SkillsExtracted,
		m.RecommendationsGenerated,
		m.HTTPRequests,
		m.HTTPDuration,
	)
	return m
}

// Registry returns the registry holding the collectors
func (m *Metrics) Registry() *prometheus.Registry {
	return m.registry
}

// Handler serves the collectors in the Prometheus exposition format
func (m *Metrics) Handler() http.Handler {
	return promhttp.HandlerFor(m.registry, promhttp.HandlerOpts{})
}

// ObservePipeline records one pipeline run. Safe on a nil receiver.
func (m *Metrics) ObservePipeline(status string, elapsed time.Duration, processed, skipped, skills int) {
	if m == nil {
		return
	}
	m.PipelineRuns.WithLabelValues(status).Inc()
	m.PipelineDuration.Observe(elapsed.Seconds())
	m.ListingsProcessed.WithLabelValues("processed").Add(float64(processed))
	m.ListingsProcessed.WithLabelValues("skipped").Add(float64(skipped))
	m.SkillsExtracted.Add(float64(skills))
}

// IncRecommendations counts generated recommendations. Safe on a nil receiver.
func (m *Metrics) IncRecommendations(n int) {
	if m == nil {
		return
	}
	m.RecommendationsGenerated.Add(float64(n))
}

// ObserveHTTP records one served request. Safe on a nil receiver.
func (m *Metrics) ObserveHTTP(method, endpoint string, status int, elapsed time.Duration) {
	if m == nil {
		return
	}
	m.HTTPRequests.WithLabelValues(method, endpoint, strconv.Itoa(status)).Inc()
	m.HTTPDuration.WithLabelValues(method, endpoint).Observe(elapsed.Seconds())
}
