package service

import (
	"net/http"
	"net/http/httptest"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestMetricsServiceSnapshotAverages(t *testing.T) {
	m := NewMetricsService()
	m.ObserveHTTPRequest(http.MethodGet, "/api/v1/dashboard", http.StatusOK, 10*time.Millisecond)
	m.ObserveHTTPRequest(http.MethodGet, "/api/v1/dashboard", http.StatusOK, 30*time.Millisecond)
	m.ObserveDBQuery("count_sessions", 4*time.Millisecond)
	m.RecordReport("summary", "tabular")
	m.RecordSectionFailure("geographic", false)

	snap := m.Snapshot()
	assert.Equal(t, uint64(2), snap.RequestsTotal)
	assert.InDelta(t, 20, snap.AverageRequestDurationMs, 0.001)
	assert.Equal(t, uint64(1), snap.SourceQueries)
	assert.InDelta(t, 4, snap.AverageSourceQueryMs, 0.001)
	assert.Equal(t, uint64(1), snap.ReportsGenerated)
	assert.Equal(t, uint64(1), snap.ReportSectionsFailed)
}

func TestMetricsServiceExposesNamespacedCollectors(t *testing.T) {
	m := NewMetricsService()
	m.ObserveAudienceCall("ADMIN", "/api/v1/analytics/metrics")
	m.RecordReport("trend", "document")

	rec := httptest.NewRecorder()
	m.Handler().ServeHTTP(rec, httptest.NewRequest(http.MethodGet, "/metrics", nil))

	require.Equal(t, http.StatusOK, rec.Code)
	body := rec.Body.String()
	assert.Contains(t, body, `observation_analytics_http_audience_calls_total{role="ADMIN",route="/api/v1/analytics/metrics"} 1`)
	assert.Contains(t, body, `observation_analytics_reports_generated_total{format="document",template="trend"} 1`)
}

func TestNilMetricsServiceIsSafe(t *testing.T) {
	var m *MetricsService
	m.ObserveHTTPRequest(http.MethodGet, "/", http.StatusOK, time.Millisecond)
	m.RecordSectionFailure("summary", true)
	assert.Equal(t, SystemMetrics{}, m.Snapshot())

	rec := httptest.NewRecorder()
	m.Handler().ServeHTTP(rec, httptest.NewRequest(http.MethodGet, "/metrics", nil))
	assert.Equal(t, http.StatusServiceUnavailable, rec.Code)
}
