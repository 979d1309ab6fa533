package service

import (
	"context"
	"errors"
	"sort"
	"time"

	"github.com/jonboulle/clockwork"
	"go.uber.org/zap"
	"golang.org/x/sync/errgroup"

	"github.com/noah-isme/observation-analytics-api/internal/models"
	appErrors "github.com/noah-isme/observation-analytics-api/pkg/errors"
)

const (
	scoreDeadBand      = 0.1
	completionDeadBand = 2.0
)

var topPerformerLevels = []models.HierarchyLevel{models.LevelSchool, models.LevelCluster, models.LevelDepartment}

var keyTrendMetrics = []models.MetricID{models.MetricSessionCount, models.MetricAverageScore, models.MetricCompletionRate}

type metricsComputer interface {
	Metrics(ctx context.Context, scope models.ScopePredicate, filter models.MetricFilter) (*models.PerformanceMetrics, error)
}

type geographicRanker interface {
	Geographic(ctx context.Context, aud Audience, filter models.MetricFilter, entityType string) ([]models.GeographicPerformance, error)
}

type trendAnalyzer interface {
	AnalyzeTrend(ctx context.Context, scope models.ScopePredicate, filter models.MetricFilter, req TrendRequest) (*models.TrendAnalysis, error)
}

type guidanceGenerator interface {
	Generate(metrics models.PerformanceMetrics, trends []models.TrendAnalysis) Guidance
}

type preferenceReader interface {
	Preference(ctx context.Context, actorID string, key models.SettingKey) (string, bool, error)
}

// DashboardRequest selects the dashboard window.
type DashboardRequest struct {
	TimePeriod string
	From       *time.Time
	To         *time.Time
}

// DashboardServiceConfig tunes dashboard behaviour.
type DashboardServiceConfig struct {
	TopPerformers     int
	TopPerEntityType  int
	DefaultTimePeriod string
}

// DashboardService composes metrics, trends and rankings into a dashboard.
type DashboardService struct {
	analytics   metricsComputer
	geographic  geographicRanker
	trends      trendAnalyzer
	guidance    guidanceGenerator
	preferences preferenceReader
	clock       clockwork.Clock
	logger      *zap.Logger
	cfg         DashboardServiceConfig
}

// DashboardServiceParams groups constructor dependencies.
type DashboardServiceParams struct {
	Analytics   metricsComputer
	Geographic  geographicRanker
	Trends      trendAnalyzer
	Guidance    guidanceGenerator
	Preferences preferenceReader
	Clock       clockwork.Clock
	Logger      *zap.Logger
	Config      DashboardServiceConfig
}

// NewDashboardService constructs a DashboardService with sane defaults.
func NewDashboardService(params DashboardServiceParams) *DashboardService {
	cfg := params.Config
	if cfg.TopPerformers <= 0 {
		cfg.TopPerformers = 10
	}
	if cfg.TopPerEntityType <= 0 {
		cfg.TopPerEntityType = 3
	}
	if _, ok := models.ParseTimePeriod(cfg.DefaultTimePeriod); !ok || cfg.DefaultTimePeriod == string(models.PeriodCustom) {
		cfg.DefaultTimePeriod = string(models.PeriodLast30Days)
	}
	logger := params.Logger
	if logger == nil {
		logger = zap.NewNop()
	}
	clock := params.Clock
	if clock == nil {
		clock = clockwork.NewRealClock()
	}
	return &DashboardService{
		analytics:   params.Analytics,
		geographic:  params.Geographic,
		trends:      params.Trends,
		guidance:    params.Guidance,
		preferences: params.Preferences,
		clock:       clock,
		logger:      logger,
		cfg:         cfg,
	}
}

type dashboardWindow struct {
	period      models.TimePeriod
	current     models.DateRange
	previous    models.DateRange
	granularity models.Granularity
	periods     int
}

func startOfDay(t time.Time) time.Time {
	y, m, d := t.Date()
	return time.Date(y, m, d, 0, 0, 0, 0, t.Location())
}

// resolvePeriod picks the requested window, then the actor's saved default, then the configured default.
func (s *DashboardService) resolvePeriod(ctx context.Context, aud Audience, raw string) (models.TimePeriod, error) {
	if raw != "" {
		period, ok := models.ParseTimePeriod(raw)
		if !ok {
			return "", appErrors.InvalidArgument("timePeriod", raw, models.TimePeriodNames())
		}
		return period, nil
	}
	if s.preferences != nil {
		saved, ok, err := s.preferences.Preference(ctx, aud.Actor.ID, models.SettingDashboardDefaultPeriod)
		if err != nil {
			s.logger.Warn("failed to read dashboard preference", zap.String("actor_id", aud.Actor.ID), zap.Error(err))
		} else if ok {
			if period, valid := models.ParseTimePeriod(saved); valid && period != models.PeriodCustom {
				return period, nil
			}
		}
	}
	period, _ := models.ParseTimePeriod(s.cfg.DefaultTimePeriod)
	return period, nil
}

func (s *DashboardService) window(period models.TimePeriod, req DashboardRequest) (dashboardWindow, error) {
	now := s.clock.Now()
	today := startOfDay(now)
	w := dashboardWindow{period: period}

	var days int
	switch period {
	case models.PeriodLast7Days:
		days = 7
	case models.PeriodLast30Days:
		days = 30
	case models.PeriodLast90Days:
		days = 90
	case models.PeriodLastYear:
		days = 365
	case models.PeriodCustom:
		if req.From == nil || req.To == nil {
			return w, appErrors.Clone(appErrors.ErrValidation, "custom time period requires from and to")
		}
		from, to := startOfDay(*req.From), startOfDay(*req.To)
		if to.Before(from) {
			return w, appErrors.Clone(appErrors.ErrValidation, "from must not be after to")
		}
		days = int(to.Sub(from).Hours()/24) + 1
		w.current = models.DateRange{From: from, To: to.AddDate(0, 0, 1).Add(-time.Nanosecond)}
	}
	if period != models.PeriodCustom {
		w.current = models.DateRange{From: today.AddDate(0, 0, -(days - 1)), To: now}
	}
	w.previous = models.DateRange{From: w.current.From.AddDate(0, 0, -days), To: w.current.From.Add(-time.Nanosecond)}

	switch {
	case days <= 31:
		w.granularity, w.periods = models.GranularityDaily, days
	case days <= 120:
		w.granularity, w.periods = models.GranularityWeekly, days/7+1
	default:
		w.granularity, w.periods = models.GranularityMonthly, days/30+1
	}
	return w, nil
}

// Compose builds the dashboard. Metrics and trends must all succeed; top performers tolerate a
// failing entity type, which is logged and omitted.
func (s *DashboardService) Compose(ctx context.Context, aud Audience, req DashboardRequest) (*models.DashboardData, error) {
	period, err := s.resolvePeriod(ctx, aud, req.TimePeriod)
	if err != nil {
		return nil, err
	}
	w, err := s.window(period, req)
	if err != nil {
		return nil, err
	}

	currentFilter := models.MetricFilter{}.WithRange(w.current.From, w.current.To)
	previousFilter := models.MetricFilter{}.WithRange(w.previous.From, w.previous.To)

	var (
		current, previous *models.PerformanceMetrics
		trends            = make([]models.TrendAnalysis, len(keyTrendMetrics))
		performers        = make([][]models.TopPerformer, len(topPerformerLevels))
	)
	g, gctx := errgroup.WithContext(ctx)
	g.Go(func() (err error) {
		current, err = s.analytics.Metrics(gctx, aud.Scope, currentFilter)
		return err
	})
	g.Go(func() (err error) {
		previous, err = s.analytics.Metrics(gctx, aud.Scope, previousFilter)
		return err
	})
	for i, metric := range keyTrendMetrics {
		i, metric := i, metric
		g.Go(func() error {
			trend, err := s.trends.AnalyzeTrend(gctx, aud.Scope, currentFilter, TrendRequest{
				Metric:      string(metric),
				Granularity: string(w.granularity),
				Periods:     w.periods,
			})
			if err != nil {
				return err
			}
			trends[i] = *trend
			return nil
		})
	}
	for i, level := range topPerformerLevels {
		i, level := i, level
		g.Go(func() error {
			rows, err := s.topPerformers(gctx, aud, currentFilter, level)
			if err != nil {
				return err
			}
			performers[i] = rows
			return nil
		})
	}
	if err := g.Wait(); err != nil {
		return nil, err
	}

	guidance := s.guidance.Generate(*current, trends)
	return &models.DashboardData{
		TimePeriod:      w.period,
		Range:           w.current,
		PreviousRange:   w.previous,
		Metrics:         *current,
		PreviousMetrics: *previous,
		TrendsDirection: trendsDirection(*current, *previous),
		Trends:          trends,
		TopPerformers:   s.mergePerformers(performers),
		Alerts:          guidance.Alerts,
		QuickStats:      quickStats(*current, *previous),
		Charts:          charts(*current, trends),
		GeneratedAt:     s.clock.Now(),
	}, nil
}

// topPerformers lists the best entities of one level. A level outside the caller's
// visibility is omitted; any other failure aborts the dashboard.
func (s *DashboardService) topPerformers(ctx context.Context, aud Audience, filter models.MetricFilter, level models.HierarchyLevel) ([]models.TopPerformer, error) {
	rows, err := s.geographic.Geographic(ctx, aud, filter, string(level))
	if errors.Is(err, appErrors.ErrForbidden) {
		s.logger.Warn("omitting entity type from top performers", zap.String("entity_type", string(level)), zap.String("actor_id", aud.Actor.ID), zap.Error(err))
		return nil, nil
	}
	if err != nil {
		return nil, err
	}
	if len(rows) > s.cfg.TopPerEntityType {
		rows = rows[:s.cfg.TopPerEntityType]
	}
	out := make([]models.TopPerformer, 0, len(rows))
	for _, row := range rows {
		out = append(out, models.TopPerformer{
			EntityID:     row.EntityID,
			EntityName:   row.EntityName,
			EntityType:   level,
			AverageScore: row.AverageScore,
			Sessions:     row.TotalSessions,
		})
	}
	return out, nil
}

// mergePerformers flattens per-type lists in a fixed order, sorts by score and re-ranks.
func (s *DashboardService) mergePerformers(groups [][]models.TopPerformer) []models.TopPerformer {
	merged := make([]models.TopPerformer, 0, len(groups)*s.cfg.TopPerEntityType)
	for _, group := range groups {
		merged = append(merged, group...)
	}
	sort.SliceStable(merged, func(i, j int) bool { return merged[i].AverageScore > merged[j].AverageScore })
	if len(merged) > s.cfg.TopPerformers {
		merged = merged[:s.cfg.TopPerformers]
	}
	for i := range merged {
		merged[i].Rank = i + 1
	}
	return merged
}

func signWithDeadBand(delta, band float64) int {
	switch {
	case delta > band:
		return 1
	case delta < -band:
		return -1
	}
	return 0
}

// trendsDirection is the majority vote of the session, score and completion deltas.
func trendsDirection(current, previous models.PerformanceMetrics) models.TrendDirection {
	votes := []int{
		signWithDeadBand(float64(current.TotalSessions-previous.TotalSessions), 0),
		signWithDeadBand(current.AverageScore-previous.AverageScore, scoreDeadBand),
		signWithDeadBand(current.CompletionRate-previous.CompletionRate, completionDeadBand),
	}
	var up, down int
	for _, v := range votes {
		switch v {
		case 1:
			up++
		case -1:
			down++
		}
	}
	switch {
	case up >= 2:
		return models.TrendUp
	case down >= 2:
		return models.TrendDown
	}
	return models.TrendStable
}

func quickStat(key string, label models.LocalizedText, value, previous float64) models.QuickStat {
	pct := round2(percentChange(value, previous))
	return models.QuickStat{
		Key:           key,
		Label:         label,
		Value:         value,
		PreviousValue: previous,
		Change:        round2(value - previous),
		ChangePercent: pct,
		Direction:     classify(pct),
	}
}

func quickStats(current, previous models.PerformanceMetrics) []models.QuickStat {
	return []models.QuickStat{
		quickStat("total_sessions", models.LocalizedText{En: "Total Sessions", Km: "វគ្គសរុប"}, float64(current.TotalSessions), float64(previous.TotalSessions)),
		quickStat("average_score", models.LocalizedText{En: "Average Score", Km: "ពិន្ទុមធ្យម"}, current.AverageScore, previous.AverageScore),
		quickStat("completion_rate", models.LocalizedText{En: "Completion Rate", Km: "អត្រាបញ្ចប់"}, current.CompletionRate, previous.CompletionRate),
		quickStat("improvement_plans", models.LocalizedText{En: "Improvement Plans", Km: "ផែនការកែលម្អ"}, float64(current.ImprovementPlans), float64(previous.ImprovementPlans)),
	}
}

func charts(current models.PerformanceMetrics, trends []models.TrendAnalysis) []models.ChartSeries {
	out := make([]models.ChartSeries, 0, len(trends)+1)
	for _, t := range trends {
		points := make([]models.ChartPoint, 0, len(t.Series.Points))
		for _, p := range t.Series.Points {
			points = append(points, models.ChartPoint{Label: p.Period, Value: p.Value})
		}
		out = append(out, models.ChartSeries{Key: string(t.Metric), Label: t.Name, Type: "line", Points: points})
	}
	indicators := make([]models.ChartPoint, 0, len(current.TopIndicators))
	for _, ind := range current.TopIndicators {
		indicators = append(indicators, models.ChartPoint{Label: ind.IndicatorName, Value: ind.AverageScore})
	}
	out = append(out, models.ChartSeries{
		Key:    "top_indicators",
		Label:  models.LocalizedText{En: "Top Indicators", Km: "សូចនាករល្អបំផុត"},
		Type:   "bar",
		Points: indicators,
	})
	return out
}
