package metrics

import (
	"net/http"
	"net/http/httptest"
	"testing"
	"time"

	"github.com/prometheus/client_golang/prometheus/testutil"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestObservePipeline(t *testing.T) {
	m := New()

	m.ObservePipeline(StatusCompleted, 2*time.Second, 8, 2, 15)
	m.ObservePipeline(StatusFailed, time.Second, 0, 0, 0)

	assert.Equal(t, 1.0, testutil.ToFloat64(m.PipelineRuns.WithLabelValues(StatusCompleted)))
	assert.Equal(t, 1.0, testutil.ToFloat64(m.PipelineRuns.WithLabelValues(StatusFailed)))
	assert.Equal(t, 8.0, testutil.ToFloat64(m.ListingsProcessed.WithLabelValues("processed")))
	assert.Equal(t, 2.0, testutil.ToFloat64(m.ListingsProcessed.WithLabelValues("skipped")))
	assert.Equal(t, 15.0, testutil.ToFloat64(m.SkillsExtracted))
}

func TestIncRecommendations(t *testing.T) {
	m := New()
	m.IncRecommendations(3)
	assert.Equal(t, 3.0, testutil.ToFloat64(m.RecommendationsGenerated))
}

func TestObserveHTTP(t *testing.T) {
	m := New()
	m.ObserveHTTP(http.MethodGet, "/v1/market/matrix", http.StatusOK, 10*time.Millisecond)
	m.ObserveHTTP(http.MethodGet, "/v1/market/matrix", http.StatusOK, 10*time.Millisecond)

	assert.Equal(t, 2.0, testutil.ToFloat64(m.HTTPRequests.WithLabelValues("GET", "/v1/market/matrix", "200")))
	assert.Equal(t, 1, testutil.CollectAndCount(m.HTTPDuration))
}

func TestNilMetrics(t *testing.T) {
	var m *Metrics
	assert.NotPanics(t, func() {
		m.ObservePipeline(StatusCompleted, time.Second, 1, 0, 1)
		m.IncRecommendations(1)
		m.ObserveHTTP("GET", "/health", 200, time.Millisecond)
	})
}

func TestHandler(t *testing.T) {
	m := New()
	m.IncRecommendations(1)

	rec := httptest.NewRecorder()
	m.Handler().ServeHTTP(rec, httptest.NewRequest(http.MethodGet, "/metrics", nil))

	require.Equal(t, http.StatusOK, rec.Code)
	assert.Contains(t, rec.Body.String(), "skillmon_recommendations_total 1")
}
