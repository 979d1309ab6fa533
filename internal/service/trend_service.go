package service

import (
	"context"
	"fmt"
	"math"
	"sort"
	"time"

	"github.com/jonboulle/clockwork"
	"go.uber.org/zap"

	"github.com/noah-isme/observation-analytics-api/internal/models"
	appErrors "github.com/noah-isme/observation-analytics-api/pkg/errors"
)

const (
	directionThreshold   = 2.0
	notableChangePercent = 10.0
	severeChangePercent  = 25.0
	slopeDeadBand        = 0.1
	seasonalPeriods      = 24
	minForecastPoints    = 3
)

// TrendServiceConfig tunes series construction and forecasting.
type TrendServiceConfig struct {
	ForecastWindow int
	DefaultPeriods int
}

// TrendRequest parameterises a trend analysis.
type TrendRequest struct {
	Metric            string
	Granularity       string
	Periods           int
	IncludePrediction bool
}

// TrendService buckets session facts into period series and classifies them.
type TrendService struct {
	source  ObservationSource
	metrics *MetricsService
	clock   clockwork.Clock
	logger  *zap.Logger
	cfg     TrendServiceConfig
}

// NewTrendService constructs the trend analyzer.
func NewTrendService(source ObservationSource, metrics *MetricsService, clock clockwork.Clock, logger *zap.Logger, cfg TrendServiceConfig) *TrendService {
	if clock == nil {
		clock = clockwork.NewRealClock()
	}
	if logger == nil {
		logger = zap.NewNop()
	}
	if cfg.ForecastWindow < minForecastPoints {
		cfg.ForecastWindow = 6
	}
	if cfg.DefaultPeriods <= 0 {
		cfg.DefaultPeriods = 12
	}
	return &TrendService{source: source, metrics: metrics, clock: clock, logger: logger, cfg: cfg}
}

// periodStart returns the first instant of the period containing t.
func periodStart(g models.Granularity, t time.Time) time.Time {
	y, m, d := t.Date()
	loc := t.Location()
	switch g {
	case models.GranularityDaily:
		return time.Date(y, m, d, 0, 0, 0, 0, loc)
	case models.GranularityWeekly:
		offset := (int(t.Weekday()) + 6) % 7
		return time.Date(y, m, d-offset, 0, 0, 0, 0, loc)
	case models.GranularityQuarterly:
		return time.Date(y, m-(m-1)%3, 1, 0, 0, 0, 0, loc)
	default:
		return time.Date(y, m, 1, 0, 0, 0, 0, loc)
	}
}

// shiftPeriod moves a period start by n periods.
func shiftPeriod(g models.Granularity, start time.Time, n int) time.Time {
	switch g {
	case models.GranularityDaily:
		return start.AddDate(0, 0, n)
	case models.GranularityWeekly:
		return start.AddDate(0, 0, 7*n)
	case models.GranularityQuarterly:
		return start.AddDate(0, 3*n, 0)
	default:
		return start.AddDate(0, n, 0)
	}
}

// periodLabel renders the period key for a period start.
func periodLabel(g models.Granularity, start time.Time) string {
	switch g {
	case models.GranularityDaily:
		return start.Format("2006-01-02")
	case models.GranularityWeekly:
		year, week := start.ISOWeek()
		return fmt.Sprintf("%d-W%02d", year, week)
	case models.GranularityQuarterly:
		return fmt.Sprintf("%d-Q%d", start.Year(), (int(start.Month())-1)/3+1)
	default:
		return start.Format("2006-01")
	}
}

type periodBucket struct {
	start         time.Time
	sessions      int
	completed     int
	scoreSum      float64
	responses     int
	plans         int
	durationSum   float64
	timedSessions int
}

func (b *periodBucket) add(f models.SessionFact) {
	b.sessions++
	if f.Status == models.SessionStatusCompleted {
		b.completed++
	}
	b.scoreSum += f.ScoreSum
	b.responses += f.ResponseCount
	b.plans += f.PlanCount
	if f.DurationMinutes > 0 {
		b.durationSum += f.DurationMinutes
		b.timedSessions++
	}
}

func (b *periodBucket) value(metric models.MetricID) float64 {
	switch metric {
	case models.MetricSessionCount:
		return float64(b.sessions)
	case models.MetricCompletedSessions:
		return float64(b.completed)
	case models.MetricAverageScore:
		return safeDiv(b.scoreSum, float64(b.responses))
	case models.MetricCompletionRate:
		return percentage(float64(b.completed), float64(b.sessions))
	case models.MetricImprovementPlans:
		return float64(b.plans)
	case models.MetricAverageDuration:
		return safeDiv(b.durationSum, float64(b.timedSessions))
	}
	return 0
}

// bucketFacts groups facts by period and returns the most recent periods in ascending order.
// Periods without facts are absent.
func bucketFacts(facts []models.SessionFact, metric models.MetricID, g models.Granularity, periods int) []models.TimeSeriesPoint {
	buckets := make(map[time.Time]*periodBucket)
	for _, f := range facts {
		start := periodStart(g, f.DateObserved)
		b, ok := buckets[start]
		if !ok {
			b = &periodBucket{start: start}
			buckets[start] = b
		}
		b.add(f)
	}

	ordered := make([]*periodBucket, 0, len(buckets))
	for _, b := range buckets {
		ordered = append(ordered, b)
	}
	sort.Slice(ordered, func(i, j int) bool { return ordered[i].start.Before(ordered[j].start) })
	if periods > 0 && len(ordered) > periods {
		ordered = ordered[len(ordered)-periods:]
	}

	points := make([]models.TimeSeriesPoint, 0, len(ordered))
	for _, b := range ordered {
		points = append(points, models.TimeSeriesPoint{
			Period:      periodLabel(g, b.start),
			PeriodStart: b.start,
			Value:       round2(b.value(metric)),
		})
	}
	return points
}

func parseMetric(raw string) (models.MetricDefinition, error) {
	def, ok := models.LookupMetric(raw)
	if !ok {
		return models.MetricDefinition{}, appErrors.InvalidArgument("metric", raw, models.MetricNames())
	}
	return def, nil
}

func parseGranularity(raw string) (models.Granularity, error) {
	if raw == "" {
		return models.GranularityMonthly, nil
	}
	g, ok := models.ParseGranularity(raw)
	if !ok {
		return "", appErrors.InvalidArgument("granularity", raw, models.GranularityNames())
	}
	return g, nil
}

// lookback bounds an open-ended filter to the window the series needs.
func (s *TrendService) lookback(filter models.MetricFilter, g models.Granularity, periods int) models.MetricFilter {
	if filter.DateFrom == nil {
		from := shiftPeriod(g, periodStart(g, s.clock.Now()), -(periods - 1))
		filter.DateFrom = &from
	}
	return filter
}

// BuildSeries buckets in-scope sessions into the most recent periods of a granularity.
func (s *TrendService) BuildSeries(ctx context.Context, scope models.ScopePredicate, filter models.MetricFilter, metric models.MetricID, g models.Granularity, periods int) (models.TrendSeries, error) {
	if periods <= 0 {
		periods = s.cfg.DefaultPeriods
	}
	start := time.Now()
	facts, err := s.source.SessionFacts(ctx, scope, s.lookback(filter, g, periods))
	s.metrics.ObserveDBQuery("session_facts", time.Since(start))
	if err != nil {
		return models.TrendSeries{}, appErrors.Wrap(err, appErrors.ErrInternal.Code, appErrors.ErrInternal.Status, "failed to build time series")
	}
	return models.TrendSeries{Metric: metric, Granularity: g, Points: bucketFacts(facts, metric, g, periods)}, nil
}

// TimeSeries returns session count, average score and completion rate series for a granularity.
func (s *TrendService) TimeSeries(ctx context.Context, scope models.ScopePredicate, filter models.MetricFilter, granularity string) ([]models.TrendSeries, error) {
	g, err := parseGranularity(granularity)
	if err != nil {
		return nil, err
	}
	periods := s.cfg.DefaultPeriods
	start := time.Now()
	facts, err := s.source.SessionFacts(ctx, scope, s.lookback(filter, g, periods))
	s.metrics.ObserveDBQuery("session_facts", time.Since(start))
	if err != nil {
		return nil, appErrors.Wrap(err, appErrors.ErrInternal.Code, appErrors.ErrInternal.Status, "failed to build time series")
	}
	keys := []models.MetricID{models.MetricSessionCount, models.MetricAverageScore, models.MetricCompletionRate}
	out := make([]models.TrendSeries, 0, len(keys))
	for _, metric := range keys {
		out = append(out, models.TrendSeries{Metric: metric, Granularity: g, Points: bucketFacts(facts, metric, g, periods)})
	}
	return out, nil
}

// AnalyzeTrend builds and classifies a series for one metric.
func (s *TrendService) AnalyzeTrend(ctx context.Context, scope models.ScopePredicate, filter models.MetricFilter, req TrendRequest) (*models.TrendAnalysis, error) {
	def, err := parseMetric(req.Metric)
	if err != nil {
		return nil, err
	}
	g, err := parseGranularity(req.Granularity)
	if err != nil {
		return nil, err
	}
	series, err := s.BuildSeries(ctx, scope, filter, def.ID, g, req.Periods)
	if err != nil {
		return nil, err
	}
	analysis := s.AnalyzeSeries(def, series, req.IncludePrediction)
	return &analysis, nil
}

func classify(changePercent float64) models.TrendDirection {
	switch {
	case changePercent > directionThreshold:
		return models.TrendUp
	case changePercent < -directionThreshold:
		return models.TrendDown
	}
	return models.TrendStable
}

// AnalyzeSeries computes per-point deltas, the overall direction from the last two points,
// change insights and an optional forecast.
func (s *TrendService) AnalyzeSeries(def models.MetricDefinition, series models.TrendSeries, includePrediction bool) models.TrendAnalysis {
	points := make([]models.TimeSeriesPoint, len(series.Points))
	copy(points, series.Points)

	insights := make([]models.TrendInsight, 0)
	for i := range points {
		points[i].Direction = models.TrendStable
		if i == 0 {
			continue
		}
		prev := points[i-1].Value
		points[i].Change = round2(points[i].Value - prev)
		pct := percentChange(points[i].Value, prev)
		points[i].ChangePercent = round2(pct)
		points[i].Direction = classify(pct)

		if math.Abs(pct) > notableChangePercent {
			insights = append(insights, changeInsight(def, points[i], pct))
		}
	}
	series.Points = points

	analysis := models.TrendAnalysis{
		Metric:      def.ID,
		Name:        def.Name,
		Granularity: series.Granularity,
		Direction:   models.TrendStable,
		Series:      series,
	}
	if n := len(points); n > 0 {
		analysis.CurrentValue = points[n-1].Value
		if n > 1 {
			analysis.PreviousValue = points[n-2].Value
		}
		analysis.OverallChange = round2(analysis.CurrentValue - analysis.PreviousValue)
		overall := percentChange(analysis.CurrentValue, analysis.PreviousValue)
		analysis.OverallChangePercent = round2(overall)
		analysis.Direction = classify(overall)
	}
	if n := len(points); n >= 3 {
		last := points[n-1].Direction
		if last != models.TrendStable && points[n-2].Direction == last && points[n-3].Direction == last {
			insights = append(insights, consistentInsight(def, last, points[n-1].Period))
		}
	}
	analysis.Insights = insights

	if includePrediction {
		prediction := s.Forecast(series)
		analysis.Prediction = &prediction
	}
	return analysis
}

func changeInsight(def models.MetricDefinition, p models.TimeSeriesPoint, pct float64) models.TrendInsight {
	severity := models.SeverityMedium
	if math.Abs(pct) > severeChangePercent {
		severity = models.SeverityHigh
	}
	value := p.Value
	insight := models.TrendInsight{Severity: severity, Period: p.Period, Value: &value}
	if pct > 0 {
		insight.Type = models.TrendInsightImprovement
		insight.Message = models.LocalizedText{
			En: fmt.Sprintf("%s rose %.1f%% in %s", def.Name.En, pct, p.Period),
			Km: fmt.Sprintf("%s បានកើនឡើង %.1f%% នៅ %s", def.Name.Km, pct, p.Period),
		}
		return insight
	}
	insight.Type = models.TrendInsightDecline
	insight.Message = models.LocalizedText{
		En: fmt.Sprintf("%s fell %.1f%% in %s", def.Name.En, math.Abs(pct), p.Period),
		Km: fmt.Sprintf("%s បានថយចុះ %.1f%% នៅ %s", def.Name.Km, math.Abs(pct), p.Period),
	}
	return insight
}

func consistentInsight(def models.MetricDefinition, direction models.TrendDirection, period string) models.TrendInsight {
	en, km := "upward", "កើនឡើង"
	severity := models.SeverityLow
	if direction == models.TrendDown {
		en, km = "downward", "ថយចុះ"
		severity = models.SeverityHigh
	}
	return models.TrendInsight{
		Type:     models.TrendInsightConsistent,
		Severity: severity,
		Period:   period,
		Message: models.LocalizedText{
			En: fmt.Sprintf("%s has moved %s for three consecutive periods", def.Name.En, en),
			Km: fmt.Sprintf("%s បាន%sអស់រយៈពេលបីជាប់គ្នា", def.Name.Km, km),
		},
	}
}

// Forecast fits an ordinary least squares line over the most recent points and projects the
// next period. Fewer than three points yields a no-data prediction.
func (s *TrendService) Forecast(series models.TrendSeries) models.Prediction {
	points := series.Points
	next := ""
	if n := len(points); n > 0 {
		next = periodLabel(series.Granularity, shiftPeriod(series.Granularity, points[n-1].PeriodStart, 1))
	}
	if len(points) > s.cfg.ForecastWindow {
		points = points[len(points)-s.cfg.ForecastWindow:]
	}
	if len(points) < minForecastPoints {
		return models.Prediction{NextPeriod: next, Direction: models.TrendStable, NoData: true}
	}

	n := float64(len(points))
	var sumX, sumY, sumXY, sumXX float64
	for i, p := range points {
		x := float64(i)
		sumX += x
		sumY += p.Value
		sumXY += x * p.Value
		sumXX += x * x
	}
	slope := safeDiv(n*sumXY-sumX*sumY, n*sumXX-sumX*sumX)
	intercept := (sumY - slope*sumX) / n

	meanY := sumY / n
	var ssTot, ssRes float64
	for i, p := range points {
		fitted := slope*float64(i) + intercept
		ssTot += (p.Value - meanY) * (p.Value - meanY)
		ssRes += (p.Value - fitted) * (p.Value - fitted)
	}
	confidence := 0.0
	if ssTot > 0 {
		confidence = math.Max(0, math.Min(100, (1-ssRes/ssTot)*100))
	}

	direction := models.TrendStable
	switch {
	case slope > slopeDeadBand:
		direction = models.TrendUp
	case slope < -slopeDeadBand:
		direction = models.TrendDown
	}

	return models.Prediction{
		NextPeriod:     next,
		PredictedValue: round2(math.Max(0, slope*n+intercept)),
		Confidence:     round2(confidence),
		Direction:      direction,
		Slope:          round2(slope),
		Intercept:      round2(intercept),
	}
}

// Seasonal groups two years of monthly values by calendar month.
func (s *TrendService) Seasonal(ctx context.Context, scope models.ScopePredicate, filter models.MetricFilter, metric string) (*models.SeasonalAnalysis, error) {
	def, err := parseMetric(metric)
	if err != nil {
		return nil, err
	}
	series, err := s.BuildSeries(ctx, scope, filter, def.ID, models.GranularityMonthly, seasonalPeriods)
	if err != nil {
		return nil, err
	}

	grouped := make(map[time.Month][]float64)
	for _, p := range series.Points {
		grouped[p.PeriodStart.Month()] = append(grouped[p.PeriodStart.Month()], p.Value)
	}

	result := &models.SeasonalAnalysis{Metric: def.ID, Name: def.Name, Months: make([]models.MonthlyPattern, 0, len(grouped)), Insights: make([]models.TrendInsight, 0, 2)}
	for month := time.January; month <= time.December; month++ {
		values, ok := grouped[month]
		if !ok {
			continue
		}
		mean, stddev := meanStdDev(values)
		result.Months = append(result.Months, models.MonthlyPattern{Month: int(month), Mean: round2(mean), StdDev: round2(stddev), Samples: len(values)})
	}
	if len(result.Months) < 2 {
		return result, nil
	}

	peak, low := result.Months[0], result.Months[0]
	for _, m := range result.Months[1:] {
		if m.Mean > peak.Mean {
			peak = m
		}
		if m.Mean < low.Mean {
			low = m
		}
	}
	if peak.Mean == low.Mean {
		return result, nil
	}
	result.PeakMonth, result.LowMonth = peak.Month, low.Month
	peakValue, lowValue := peak.Mean, low.Mean
	result.Insights = append(result.Insights,
		models.TrendInsight{
			Type:     models.TrendInsightPeak,
			Severity: models.SeverityLow,
			Period:   time.Month(peak.Month).String(),
			Value:    &peakValue,
			Message: models.LocalizedText{
				En: fmt.Sprintf("%s peaks in %s", def.Name.En, time.Month(peak.Month)),
				Km: fmt.Sprintf("%s ខ្ពស់បំផុតនៅខែទី %d", def.Name.Km, peak.Month),
			},
		},
		models.TrendInsight{
			Type:     models.TrendInsightLow,
			Severity: models.SeverityMedium,
			Period:   time.Month(low.Month).String(),
			Value:    &lowValue,
			Message: models.LocalizedText{
				En: fmt.Sprintf("%s is lowest in %s", def.Name.En, time.Month(low.Month)),
				Km: fmt.Sprintf("%s ទាបបំផុតនៅខែទី %d", def.Name.Km, low.Month),
			},
		},
	)
	return result, nil
}

// meanStdDev returns the mean and population standard deviation.
func meanStdDev(values []float64) (float64, float64) {
	if len(values) == 0 {
		return 0, 0
	}
	var sum float64
	for _, v := range values {
		sum += v
	}
	mean := sum / float64(len(values))
	var sq float64
	for _, v := range values {
		sq += (v - mean) * (v - mean)
	}
	return mean, math.Sqrt(sq / float64(len(values)))
}
