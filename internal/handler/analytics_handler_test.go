package handler

import (
	"context"
	"encoding/json"
	"net/http"
	"testing"

	"github.com/gin-gonic/gin"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/noah-isme/observation-analytics-api/internal/models"
	"github.com/noah-isme/observation-analytics-api/internal/service"
	appErrors "github.com/noah-isme/observation-analytics-api/pkg/errors"
)

type fakeAnalytics struct {
	scope      models.ScopePredicate
	filter     models.MetricFilter
	entityType string
}

func (f *fakeAnalytics) Metrics(_ context.Context, scope models.ScopePredicate, filter models.MetricFilter) (*models.PerformanceMetrics, error) {
	f.scope, f.filter = scope, filter
	return &models.PerformanceMetrics{TotalSessions: 10, CompletedSessions: 8, CompletionRate: 80}, nil
}

func (f *fakeAnalytics) Geographic(_ context.Context, _ service.Audience, _ models.MetricFilter, entityType string) ([]models.GeographicPerformance, error) {
	f.entityType = entityType
	if entityType == "blimp" {
		return nil, appErrors.InvalidArgument("entityType", entityType, models.HierarchyLevelNames())
	}
	return []models.GeographicPerformance{{EntityID: "s-1", Ranking: 1}}, nil
}

func (f *fakeAnalytics) Subjects(context.Context, models.ScopePredicate, models.MetricFilter) ([]models.SubjectPerformance, error) {
	return []models.SubjectPerformance{}, nil
}

type fakeTrends struct {
	request service.TrendRequest
}

func (f *fakeTrends) TimeSeries(context.Context, models.ScopePredicate, models.MetricFilter, string) ([]models.TrendSeries, error) {
	return []models.TrendSeries{}, nil
}

func (f *fakeTrends) AnalyzeTrend(_ context.Context, _ models.ScopePredicate, _ models.MetricFilter, req service.TrendRequest) (*models.TrendAnalysis, error) {
	f.request = req
	return &models.TrendAnalysis{Metric: models.MetricID(req.Metric), Direction: models.TrendDown}, nil
}

func (f *fakeTrends) Seasonal(context.Context, models.ScopePredicate, models.MetricFilter, string) (*models.SeasonalAnalysis, error) {
	return &models.SeasonalAnalysis{}, nil
}

type fakeOverview struct{}

func (fakeOverview) Overview(context.Context, models.ScopePredicate, models.MetricFilter) (*models.AnalyticsOverview, error) {
	return &models.AnalyticsOverview{}, nil
}

func (fakeOverview) Realtime(context.Context, models.ScopePredicate) (*models.RealtimeSnapshot, error) {
	return &models.RealtimeSnapshot{Date: "2024-06-20"}, nil
}

type fakeComparison struct {
	request service.ComparisonRequest
}

func (f *fakeComparison) Compare(_ context.Context, _ service.Audience, _ models.MetricFilter, req service.ComparisonRequest) (*models.ComparisonAnalysis, error) {
	f.request = req
	return &models.ComparisonAnalysis{EntityType: models.HierarchyLevel(req.EntityType)}, nil
}

func analyticsRouter(t *testing.T, analytics *fakeAnalytics, trends *fakeTrends, comparison *fakeComparison) *gin.Engine {
	aud := testAudience(t, models.RoleAdmin)
	h := NewAnalyticsHandler(analytics, trends, fakeOverview{}, comparison, nil)
	return newTestRouter(&aud, func(r gin.IRoutes) {
		r.GET("/analytics/metrics", h.Metrics)
		r.GET("/analytics/geographic", h.Geographic)
		r.GET("/analytics/trends", h.Trends)
		r.GET("/analytics/realtime", h.Realtime)
		r.POST("/analytics/compare", h.Compare)
	})
}

func TestMetricsEndpointParsesFilter(t *testing.T) {
	analytics := &fakeAnalytics{}
	r := analyticsRouter(t, analytics, &fakeTrends{}, &fakeComparison{})

	rec := perform(r, http.MethodGet, "/analytics/metrics?dateFrom=2024-01-01&dateTo=2024-03-31&subject=Math&subject=Khmer&status=COMPLETED", nil)

	require.Equal(t, http.StatusOK, rec.Code)
	env := decode(t, rec)
	var metrics models.PerformanceMetrics
	require.NoError(t, json.Unmarshal(env.Data, &metrics))
	assert.Equal(t, 80.0, metrics.CompletionRate)
	assert.Contains(t, env.Meta, "processing_time_ms")
	assert.Equal(t, "all", env.Meta["scope"])

	assert.True(t, analytics.scope.Unrestricted)
	assert.Equal(t, []string{"Math", "Khmer"}, analytics.filter.Subjects)
	assert.Equal(t, []string{"COMPLETED"}, analytics.filter.Statuses)
	require.NotNil(t, analytics.filter.DateFrom)
	assert.Equal(t, "2024-01-01", analytics.filter.DateFrom.Format("2006-01-02"))
}

func TestMetricsEndpointRejectsBadFilter(t *testing.T) {
	r := analyticsRouter(t, &fakeAnalytics{}, &fakeTrends{}, &fakeComparison{})

	rec := perform(r, http.MethodGet, "/analytics/metrics?dateFrom=yesterday", nil)
	assert.Equal(t, http.StatusBadRequest, rec.Code)

	rec = perform(r, http.MethodGet, "/analytics/metrics?status=ARCHIVED", nil)
	assert.Equal(t, http.StatusBadRequest, rec.Code)
}

func TestGeographicInvalidEntityType(t *testing.T) {
	r := analyticsRouter(t, &fakeAnalytics{}, &fakeTrends{}, &fakeComparison{})

	rec := perform(r, http.MethodGet, "/analytics/geographic?entityType=blimp", nil)
	require.Equal(t, http.StatusBadRequest, rec.Code)
	env := decode(t, rec)
	require.NotNil(t, env.Error)
	assert.Equal(t, "INVALID_ARGUMENT", env.Error.Code)
	assert.Equal(t, `invalid entityType "blimp": must be one of zone, province, department, cluster, school`, env.Error.Message)

	rec = perform(r, http.MethodGet, "/analytics/geographic", nil)
	assert.Equal(t, http.StatusBadRequest, rec.Code)
}

func TestTrendsEndpointPassesOptions(t *testing.T) {
	trends := &fakeTrends{}
	r := analyticsRouter(t, &fakeAnalytics{}, trends, &fakeComparison{})

	rec := perform(r, http.MethodGet, "/analytics/trends?metric=session_count&granularity=weekly&periods=8&prediction=true", nil)
	require.Equal(t, http.StatusOK, rec.Code)
	assert.Equal(t, service.TrendRequest{Metric: "session_count", Granularity: "weekly", Periods: 8, IncludePrediction: true}, trends.request)

	rec = perform(r, http.MethodGet, "/analytics/trends", nil)
	assert.Equal(t, http.StatusBadRequest, rec.Code)
}

func TestCompareEndpoint(t *testing.T) {
	comparison := &fakeComparison{}
	r := analyticsRouter(t, &fakeAnalytics{}, &fakeTrends{}, comparison)

	rec := perform(r, http.MethodPost, "/analytics/compare", map[string]interface{}{
		"entityIds":  []string{"s-1", "s-2"},
		"entityType": "school",
	})
	require.Equal(t, http.StatusOK, rec.Code)
	assert.Equal(t, []string{"s-1", "s-2"}, comparison.request.EntityIDs)

	rec = perform(r, http.MethodPost, "/analytics/compare", map[string]interface{}{"entityType": "school"})
	assert.Equal(t, http.StatusBadRequest, rec.Code)
}

func TestAnalyticsRequiresAudience(t *testing.T) {
	h := NewAnalyticsHandler(&fakeAnalytics{}, &fakeTrends{}, fakeOverview{}, &fakeComparison{}, nil)
	r := newTestRouter(nil, func(r gin.IRoutes) { r.GET("/analytics/realtime", h.Realtime) })

	rec := perform(r, http.MethodGet, "/analytics/realtime", nil)
	assert.Equal(t, http.StatusUnauthorized, rec.Code)
}
