package service

import (
	"context"

	"github.com/jonboulle/clockwork"
	"go.uber.org/zap"
	"golang.org/x/sync/errgroup"

	"github.com/noah-isme/observation-analytics-api/internal/models"
)

const (
	overviewTrendPeriods = 6
	realtimeDateLayout   = "2006-01-02"
)

// OverviewService combines metrics, key trends and generated guidance.
type OverviewService struct {
	analytics metricsComputer
	trends    trendAnalyzer
	guidance  guidanceGenerator
	clock     clockwork.Clock
	logger    *zap.Logger
}

// NewOverviewService constructs an OverviewService.
func NewOverviewService(analytics metricsComputer, trends trendAnalyzer, guidance guidanceGenerator, clock clockwork.Clock, logger *zap.Logger) *OverviewService {
	if clock == nil {
		clock = clockwork.NewRealClock()
	}
	if logger == nil {
		logger = zap.NewNop()
	}
	return &OverviewService{analytics: analytics, trends: trends, guidance: guidance, clock: clock, logger: logger}
}

// Overview computes metrics and the monthly key-metric trends concurrently, then derives guidance.
func (s *OverviewService) Overview(ctx context.Context, scope models.ScopePredicate, filter models.MetricFilter) (*models.AnalyticsOverview, error) {
	var metrics *models.PerformanceMetrics
	trends := make([]models.TrendAnalysis, len(keyTrendMetrics))

	g, gctx := errgroup.WithContext(ctx)
	g.Go(func() (err error) {
		metrics, err = s.analytics.Metrics(gctx, scope, filter)
		return err
	})
	for i, metric := range keyTrendMetrics {
		i, metric := i, metric
		g.Go(func() error {
			trend, err := s.trends.AnalyzeTrend(gctx, scope, filter, TrendRequest{
				Metric:            string(metric),
				Granularity:       string(models.GranularityMonthly),
				Periods:           overviewTrendPeriods,
				IncludePrediction: true,
			})
			if err != nil {
				return err
			}
			trends[i] = *trend
			return nil
		})
	}
	if err := g.Wait(); err != nil {
		return nil, err
	}

	guidance := s.guidance.Generate(*metrics, trends)
	return &models.AnalyticsOverview{
		Metrics:         *metrics,
		Trends:          trends,
		Insights:        guidance.Insights,
		Alerts:          guidance.Alerts,
		Recommendations: guidance.Recommendations,
		GeneratedAt:     s.clock.Now(),
	}, nil
}

// Realtime returns metrics for the current day.
func (s *OverviewService) Realtime(ctx context.Context, scope models.ScopePredicate) (*models.RealtimeSnapshot, error) {
	now := s.clock.Now()
	today := startOfDay(now)
	metrics, err := s.analytics.Metrics(ctx, scope, models.MetricFilter{}.WithRange(today, now))
	if err != nil {
		return nil, err
	}
	return &models.RealtimeSnapshot{
		Date:        today.Format(realtimeDateLayout),
		Metrics:     *metrics,
		GeneratedAt: now,
	}, nil
}
