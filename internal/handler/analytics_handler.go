package handler

import (
	"context"

	"github.com/gin-gonic/gin"
	"github.com/go-playground/validator/v10"

	"github.com/noah-isme/observation-analytics-api/internal/dto"
	"github.com/noah-isme/observation-analytics-api/internal/models"
	"github.com/noah-isme/observation-analytics-api/internal/service"
	"github.com/noah-isme/observation-analytics-api/pkg/response"
)

type analyticsProvider interface {
	Metrics(ctx context.Context, scope models.ScopePredicate, filter models.MetricFilter) (*models.PerformanceMetrics, error)
	Geographic(ctx context.Context, aud service.Audience, filter models.MetricFilter, entityType string) ([]models.GeographicPerformance, error)
	Subjects(ctx context.Context, scope models.ScopePredicate, filter models.MetricFilter) ([]models.SubjectPerformance, error)
}

type trendProvider interface {
	TimeSeries(ctx context.Context, scope models.ScopePredicate, filter models.MetricFilter, granularity string) ([]models.TrendSeries, error)
	AnalyzeTrend(ctx context.Context, scope models.ScopePredicate, filter models.MetricFilter, req service.TrendRequest) (*models.TrendAnalysis, error)
	Seasonal(ctx context.Context, scope models.ScopePredicate, filter models.MetricFilter, metric string) (*models.SeasonalAnalysis, error)
}

type overviewProvider interface {
	Overview(ctx context.Context, scope models.ScopePredicate, filter models.MetricFilter) (*models.AnalyticsOverview, error)
	Realtime(ctx context.Context, scope models.ScopePredicate) (*models.RealtimeSnapshot, error)
}

type comparisonProvider interface {
	Compare(ctx context.Context, aud service.Audience, filter models.MetricFilter, req service.ComparisonRequest) (*models.ComparisonAnalysis, error)
}

// AnalyticsHandler exposes scoped analytics endpoints.
type AnalyticsHandler struct {
	analytics  analyticsProvider
	trends     trendProvider
	overview   overviewProvider
	comparison comparisonProvider
	validate   *validator.Validate
}

// NewAnalyticsHandler constructs the analytics handler.
func NewAnalyticsHandler(analytics analyticsProvider, trends trendProvider, overview overviewProvider, comparison comparisonProvider, validate *validator.Validate) *AnalyticsHandler {
	if validate == nil {
		validate = validator.New()
	}
	return &AnalyticsHandler{analytics: analytics, trends: trends, overview: overview, comparison: comparison, validate: validate}
}

// filterRequest binds the query into target and returns the caller's audience and filter.
func (h *AnalyticsHandler) filterRequest(c *gin.Context, target interface{}, query *dto.FilterQuery) (service.Audience, models.MetricFilter, bool) {
	aud, ok := audienceFromContext(c)
	if !ok {
		return aud, models.MetricFilter{}, false
	}
	if !bindQuery(c, h.validate, target) {
		return aud, models.MetricFilter{}, false
	}
	filter, err := query.ToFilter()
	if err != nil {
		response.Error(c, err)
		return aud, filter, false
	}
	return aud, filter, true
}

// Overview godoc
// @Summary Analytics overview
// @Description Metrics, key trends, insights, alerts and recommendations for the caller's scope
// @Tags Analytics
// @Produce json
// @Param dateFrom query string false "Start date (YYYY-MM-DD)"
// @Param dateTo query string false "End date (YYYY-MM-DD)"
// @Success 200 {object} response.Envelope
// @Router /analytics/overview [get]
func (h *AnalyticsHandler) Overview(c *gin.Context) {
	var query dto.FilterQuery
	aud, filter, ok := h.filterRequest(c, &query, &query)
	if !ok {
		return
	}
	result, err := h.overview.Overview(c.Request.Context(), aud.Scope, filter)
	if err != nil {
		response.Error(c, err)
		return
	}
	respondOK(c, result)
}

// Metrics godoc
// @Summary Performance metrics
// @Tags Analytics
// @Produce json
// @Success 200 {object} response.Envelope
// @Router /analytics/metrics [get]
func (h *AnalyticsHandler) Metrics(c *gin.Context) {
	var query dto.FilterQuery
	aud, filter, ok := h.filterRequest(c, &query, &query)
	if !ok {
		return
	}
	result, err := h.analytics.Metrics(c.Request.Context(), aud.Scope, filter)
	if err != nil {
		response.Error(c, err)
		return
	}
	respondOK(c, result)
}

// Geographic godoc
// @Summary Geographic performance
// @Description Per-entity performance at one hierarchy level, ranked by average score
// @Tags Analytics
// @Produce json
// @Param entityType query string true "zone, province, department, cluster or school"
// @Success 200 {object} response.Envelope
// @Failure 400 {object} response.Envelope
// @Failure 403 {object} response.Envelope
// @Router /analytics/geographic [get]
func (h *AnalyticsHandler) Geographic(c *gin.Context) {
	var query dto.GeographicQuery
	aud, filter, ok := h.filterRequest(c, &query, &query.FilterQuery)
	if !ok {
		return
	}
	result, err := h.analytics.Geographic(c.Request.Context(), aud, filter, query.EntityType)
	if err != nil {
		response.Error(c, err)
		return
	}
	respondOK(c, result)
}

// Subjects godoc
// @Summary Subject performance
// @Tags Analytics
// @Produce json
// @Success 200 {object} response.Envelope
// @Router /analytics/subjects [get]
func (h *AnalyticsHandler) Subjects(c *gin.Context) {
	var query dto.FilterQuery
	aud, filter, ok := h.filterRequest(c, &query, &query)
	if !ok {
		return
	}
	result, err := h.analytics.Subjects(c.Request.Context(), aud.Scope, filter)
	if err != nil {
		response.Error(c, err)
		return
	}
	respondOK(c, result)
}

// TimeSeries godoc
// @Summary Key metric time series
// @Tags Analytics
// @Produce json
// @Param granularity query string false "daily, weekly, monthly or quarterly"
// @Success 200 {object} response.Envelope
// @Router /analytics/timeseries [get]
func (h *AnalyticsHandler) TimeSeries(c *gin.Context) {
	var query dto.TimeSeriesQuery
	aud, filter, ok := h.filterRequest(c, &query, &query.FilterQuery)
	if !ok {
		return
	}
	result, err := h.trends.TimeSeries(c.Request.Context(), aud.Scope, filter, query.Granularity)
	if err != nil {
		response.Error(c, err)
		return
	}
	respondOK(c, result)
}

// Trends godoc
// @Summary Trend analysis
// @Description Classified series for one metric with optional linear forecast
// @Tags Analytics
// @Produce json
// @Param metric query string true "Metric id"
// @Param granularity query string false "daily, weekly, monthly or quarterly"
// @Param periods query int false "Number of periods"
// @Param prediction query bool false "Include forecast"
// @Success 200 {object} response.Envelope
// @Router /analytics/trends [get]
func (h *AnalyticsHandler) Trends(c *gin.Context) {
	var query dto.TrendQuery
	aud, filter, ok := h.filterRequest(c, &query, &query.FilterQuery)
	if !ok {
		return
	}
	result, err := h.trends.AnalyzeTrend(c.Request.Context(), aud.Scope, filter, service.TrendRequest{
		Metric:            query.Metric,
		Granularity:       query.Granularity,
		Periods:           query.Periods,
		IncludePrediction: query.Prediction,
	})
	if err != nil {
		response.Error(c, err)
		return
	}
	respondOK(c, result)
}

// Seasonal godoc
// @Summary Seasonal analysis
// @Tags Analytics
// @Produce json
// @Param metric query string true "Metric id"
// @Success 200 {object} response.Envelope
// @Router /analytics/seasonal [get]
func (h *AnalyticsHandler) Seasonal(c *gin.Context) {
	var query dto.SeasonalQuery
	aud, filter, ok := h.filterRequest(c, &query, &query.FilterQuery)
	if !ok {
		return
	}
	result, err := h.trends.Seasonal(c.Request.Context(), aud.Scope, filter, query.Metric)
	if err != nil {
		response.Error(c, err)
		return
	}
	respondOK(c, result)
}

// Realtime godoc
// @Summary Today's metrics
// @Tags Analytics
// @Produce json
// @Success 200 {object} response.Envelope
// @Router /analytics/realtime [get]
func (h *AnalyticsHandler) Realtime(c *gin.Context) {
	aud, ok := audienceFromContext(c)
	if !ok {
		return
	}
	result, err := h.overview.Realtime(c.Request.Context(), aud.Scope)
	if err != nil {
		response.Error(c, err)
		return
	}
	respondOK(c, result)
}

// Compare godoc
// @Summary Compare entities
// @Description Latest-month metrics per entity with leaders, laggards and rankings
// @Tags Analytics
// @Accept json
// @Produce json
// @Param payload body dto.CompareRequest true "Comparison request"
// @Success 200 {object} response.Envelope
// @Router /analytics/compare [post]
func (h *AnalyticsHandler) Compare(c *gin.Context) {
	aud, ok := audienceFromContext(c)
	if !ok {
		return
	}
	var req dto.CompareRequest
	if !bindJSON(c, h.validate, &req) {
		return
	}
	filter, err := req.Filter.ToFilter()
	if err != nil {
		response.Error(c, err)
		return
	}
	result, err := h.comparison.Compare(c.Request.Context(), aud, filter, service.ComparisonRequest{
		EntityIDs:  req.EntityIDs,
		EntityType: req.EntityType,
		Metrics:    req.Metrics,
	})
	if err != nil {
		response.Error(c, err)
		return
	}
	respondOK(c, result)
}
