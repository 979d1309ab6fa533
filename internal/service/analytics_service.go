package service

import (
	"context"
	"math"
	"sort"
	"time"

	"go.uber.org/zap"
	"golang.org/x/sync/errgroup"

	"github.com/noah-isme/observation-analytics-api/internal/models"
	appErrors "github.com/noah-isme/observation-analytics-api/pkg/errors"
)

// ObservationSource is the scoped record source behind every aggregation.
type ObservationSource interface {
	CountSessions(ctx context.Context, scope models.ScopePredicate, filter models.MetricFilter) (int, error)
	CountCompletedSessions(ctx context.Context, scope models.ScopePredicate, filter models.MetricFilter) (int, error)
	AverageIndicatorScore(ctx context.Context, scope models.ScopePredicate, filter models.MetricFilter) (float64, error)
	CountImprovementPlans(ctx context.Context, scope models.ScopePredicate, filter models.MetricFilter) (int, error)
	CountActiveUsers(ctx context.Context, scope models.ScopePredicate, filter models.MetricFilter) (int, error)
	AverageSessionDuration(ctx context.Context, scope models.ScopePredicate, filter models.MetricFilter) (float64, error)
	IndicatorPerformance(ctx context.Context, scope models.ScopePredicate, filter models.MetricFilter) ([]models.IndicatorPerformance, error)
	EntityAggregates(ctx context.Context, scope models.ScopePredicate, filter models.MetricFilter, level models.HierarchyLevel) ([]models.EntityAggregate, error)
	SubjectAggregates(ctx context.Context, scope models.ScopePredicate, filter models.MetricFilter) ([]models.SubjectAggregate, error)
	SessionFacts(ctx context.Context, scope models.ScopePredicate, filter models.MetricFilter) ([]models.SessionFact, error)
	EntityNames(ctx context.Context, level models.HierarchyLevel, ids []string) (map[string]string, error)
}

// AnalyticsServiceConfig tunes aggregation.
type AnalyticsServiceConfig struct {
	TopIndicators        int
	ImprovementThreshold float64
}

// AnalyticsService computes scoped performance metrics and breakdowns.
type AnalyticsService struct {
	source  ObservationSource
	metrics *MetricsService
	logger  *zap.Logger
	cfg     AnalyticsServiceConfig
}

// NewAnalyticsService constructs the aggregation engine.
func NewAnalyticsService(source ObservationSource, metrics *MetricsService, logger *zap.Logger, cfg AnalyticsServiceConfig) *AnalyticsService {
	if logger == nil {
		logger = zap.NewNop()
	}
	if cfg.TopIndicators <= 0 {
		cfg.TopIndicators = 5
	}
	if cfg.ImprovementThreshold <= 0 {
		cfg.ImprovementThreshold = 2.0
	}
	return &AnalyticsService{source: source, metrics: metrics, logger: logger, cfg: cfg}
}

func (s *AnalyticsService) observe(label string, start time.Time) {
	s.metrics.ObserveDBQuery(label, time.Since(start))
}

// Metrics runs the independent scalar aggregations concurrently and combines them.
func (s *AnalyticsService) Metrics(ctx context.Context, scope models.ScopePredicate, filter models.MetricFilter) (*models.PerformanceMetrics, error) {
	var (
		result     models.PerformanceMetrics
		indicators []models.IndicatorPerformance
	)
	g, gctx := errgroup.WithContext(ctx)
	g.Go(func() (err error) {
		defer s.observe("session_count", time.Now())
		result.TotalSessions, err = s.source.CountSessions(gctx, scope, filter)
		return err
	})
	g.Go(func() (err error) {
		defer s.observe("completed_sessions", time.Now())
		result.CompletedSessions, err = s.source.CountCompletedSessions(gctx, scope, filter)
		return err
	})
	g.Go(func() (err error) {
		defer s.observe("average_score", time.Now())
		result.AverageScore, err = s.source.AverageIndicatorScore(gctx, scope, filter)
		return err
	})
	g.Go(func() (err error) {
		defer s.observe("improvement_plans", time.Now())
		result.ImprovementPlans, err = s.source.CountImprovementPlans(gctx, scope, filter)
		return err
	})
	g.Go(func() (err error) {
		defer s.observe("active_users", time.Now())
		result.ActiveUsers, err = s.source.CountActiveUsers(gctx, scope, filter)
		return err
	})
	g.Go(func() (err error) {
		defer s.observe("average_duration", time.Now())
		result.AverageDuration, err = s.source.AverageSessionDuration(gctx, scope, filter)
		return err
	})
	g.Go(func() (err error) {
		defer s.observe("indicator_performance", time.Now())
		indicators, err = s.source.IndicatorPerformance(gctx, scope, filter)
		return err
	})
	if err := g.Wait(); err != nil {
		return nil, appErrors.Wrap(err, appErrors.ErrInternal.Code, appErrors.ErrInternal.Status, "failed to compute performance metrics")
	}

	if result.CompletedSessions > result.TotalSessions {
		s.logger.Warn("completed sessions exceed total", zap.Int("completed", result.CompletedSessions), zap.Int("total", result.TotalSessions))
		result.CompletedSessions = result.TotalSessions
	}
	result.CompletionRate = round2(percentage(float64(result.CompletedSessions), float64(result.TotalSessions)))
	result.AverageScore = round2(result.AverageScore)
	result.AverageDuration = round2(result.AverageDuration)
	result.TopIndicators, result.BottomIndicators = s.rankIndicators(indicators)
	return &result, nil
}

// rankIndicators returns the best and worst indicators by average score.
func (s *AnalyticsService) rankIndicators(rows []models.IndicatorPerformance) ([]models.IndicatorPerformance, []models.IndicatorPerformance) {
	sorted := make([]models.IndicatorPerformance, len(rows))
	copy(sorted, rows)
	for i := range sorted {
		sorted[i].AverageScore = round2(sorted[i].AverageScore)
		sorted[i].ImprovementNeeded = sorted[i].AverageScore < s.cfg.ImprovementThreshold
	}
	sort.SliceStable(sorted, func(i, j int) bool { return sorted[i].AverageScore > sorted[j].AverageScore })

	n := s.cfg.TopIndicators
	if n > len(sorted) {
		n = len(sorted)
	}
	top := append([]models.IndicatorPerformance{}, sorted[:n]...)
	bottom := make([]models.IndicatorPerformance, 0, n)
	for i := len(sorted) - 1; i >= len(sorted)-n; i-- {
		bottom = append(bottom, sorted[i])
	}
	return top, bottom
}

// Geographic breaks metrics down by the requested entity type, best average score first.
func (s *AnalyticsService) Geographic(ctx context.Context, aud Audience, filter models.MetricFilter, entityType string) ([]models.GeographicPerformance, error) {
	level, err := aud.parseEntityType(entityType)
	if err != nil {
		return nil, err
	}
	return s.geographic(ctx, aud.Scope, filter, level)
}

func (s *AnalyticsService) geographic(ctx context.Context, scope models.ScopePredicate, filter models.MetricFilter, level models.HierarchyLevel) ([]models.GeographicPerformance, error) {
	start := time.Now()
	rows, err := s.source.EntityAggregates(ctx, scope, filter, level)
	s.observe("entity_aggregates", start)
	if err != nil {
		return nil, appErrors.Wrap(err, appErrors.ErrInternal.Code, appErrors.ErrInternal.Status, "failed to load geographic performance")
	}

	out := make([]models.GeographicPerformance, 0, len(rows))
	for _, row := range rows {
		out = append(out, models.GeographicPerformance{
			EntityID:        row.EntityID,
			EntityName:      row.EntityName,
			EntityType:      level,
			TotalSessions:   row.TotalSessions,
			AverageScore:    round2(safeDiv(row.ScoreSum, float64(row.ResponseCount))),
			CompletionRate:  round2(percentage(float64(row.CompletedSessions), float64(row.TotalSessions))),
			ImprovementRate: round2(safeDiv(float64(row.PlanCount), float64(row.TotalSessions))),
		})
	}
	sort.SliceStable(out, func(i, j int) bool { return out[i].AverageScore > out[j].AverageScore })
	for i := range out {
		out[i].Ranking = i + 1
	}
	return out, nil
}

// Subjects summarises each subject in scope, best average score first.
func (s *AnalyticsService) Subjects(ctx context.Context, scope models.ScopePredicate, filter models.MetricFilter) ([]models.SubjectPerformance, error) {
	start := time.Now()
	rows, err := s.source.SubjectAggregates(ctx, scope, filter)
	s.observe("subject_aggregates", start)
	if err != nil {
		return nil, appErrors.Wrap(err, appErrors.ErrInternal.Code, appErrors.ErrInternal.Status, "failed to load subject performance")
	}
	out := make([]models.SubjectPerformance, 0, len(rows))
	for _, row := range rows {
		out = append(out, models.SubjectPerformance{
			Subject:        row.Subject,
			TotalSessions:  row.TotalSessions,
			AverageScore:   round2(safeDiv(row.ScoreSum, float64(row.ResponseCount))),
			CompletionRate: round2(percentage(float64(row.CompletedSessions), float64(row.TotalSessions))),
		})
	}
	sort.SliceStable(out, func(i, j int) bool { return out[i].AverageScore > out[j].AverageScore })
	return out, nil
}

func safeDiv(num, den float64) float64 {
	if den == 0 {
		return 0
	}
	return num / den
}

func percentage(part, total float64) float64 {
	return safeDiv(part, total) * 100
}

// percentChange is (current-previous)/previous*100, 0 when previous is 0.
func percentChange(current, previous float64) float64 {
	if previous == 0 {
		return 0
	}
	return (current - previous) / previous * 100
}

func round2(v float64) float64 {
	if math.IsNaN(v) || math.IsInf(v, 0) {
		return 0
	}
	return math.Round(v*100) / 100
}
