package service

import (
	"context"
	"fmt"
	"sort"

	"github.com/jonboulle/clockwork"
	"go.uber.org/zap"
	"golang.org/x/sync/errgroup"

	"github.com/noah-isme/observation-analytics-api/internal/models"
	appErrors "github.com/noah-isme/observation-analytics-api/pkg/errors"
)

const (
	leaderFactor          = 1.2
	laggardFactor         = 0.8
	comparisonLookbackMos = 12
)

var defaultComparisonMetrics = []models.MetricID{models.MetricAverageScore, models.MetricCompletionRate, models.MetricSessionCount}

// ComparisonRequest names the peers and metrics to compare.
type ComparisonRequest struct {
	EntityIDs  []string
	EntityType string
	Metrics    []string
}

type seriesBuilder interface {
	BuildSeries(ctx context.Context, scope models.ScopePredicate, filter models.MetricFilter, metric models.MetricID, g models.Granularity, periods int) (models.TrendSeries, error)
}

type entityNamer interface {
	EntityNames(ctx context.Context, level models.HierarchyLevel, ids []string) (map[string]string, error)
}

// ComparisonService ranks peer entities of one hierarchy level.
type ComparisonService struct {
	series seriesBuilder
	names  entityNamer
	clock  clockwork.Clock
	logger *zap.Logger
}

// NewComparisonService constructs the ranking engine.
func NewComparisonService(series seriesBuilder, names entityNamer, clock clockwork.Clock, logger *zap.Logger) *ComparisonService {
	if clock == nil {
		clock = clockwork.NewRealClock()
	}
	if logger == nil {
		logger = zap.NewNop()
	}
	return &ComparisonService{series: series, names: names, clock: clock, logger: logger}
}

func (s *ComparisonService) parseMetrics(raw []string) ([]models.MetricDefinition, error) {
	if len(raw) == 0 {
		defs := make([]models.MetricDefinition, 0, len(defaultComparisonMetrics))
		for _, id := range defaultComparisonMetrics {
			def, _ := models.LookupMetric(string(id))
			defs = append(defs, def)
		}
		return defs, nil
	}
	seen := make(map[string]bool, len(raw))
	defs := make([]models.MetricDefinition, 0, len(raw))
	for _, name := range raw {
		if seen[name] {
			continue
		}
		seen[name] = true
		def, err := parseMetric(name)
		if err != nil {
			return nil, err
		}
		defs = append(defs, def)
	}
	return defs, nil
}

func dedupe(ids []string) []string {
	seen := make(map[string]bool, len(ids))
	out := make([]string, 0, len(ids))
	for _, id := range ids {
		if id == "" || seen[id] {
			continue
		}
		seen[id] = true
		out = append(out, id)
	}
	return out
}

// Compare fetches the latest-period value of each metric per entity, then summarises and
// ranks the peers.
func (s *ComparisonService) Compare(ctx context.Context, aud Audience, filter models.MetricFilter, req ComparisonRequest) (*models.ComparisonAnalysis, error) {
	level, err := aud.parseEntityType(req.EntityType)
	if err != nil {
		return nil, err
	}
	defs, err := s.parseMetrics(req.Metrics)
	if err != nil {
		return nil, err
	}
	ids := dedupe(req.EntityIDs)
	if len(ids) == 0 {
		return nil, appErrors.Clone(appErrors.ErrValidation, "entityIds must name at least one entity")
	}
	if filter.DateFrom == nil {
		from := s.clock.Now().AddDate(0, -comparisonLookbackMos, 0)
		filter.DateFrom = &from
	}

	names, err := s.names.EntityNames(ctx, level, ids)
	if err != nil {
		s.logger.Warn("failed to resolve entity names", zap.String("entity_type", string(level)), zap.Error(err))
		names = map[string]string{}
	}

	entities := make([]models.ComparisonEntity, len(ids))
	g, gctx := errgroup.WithContext(ctx)
	for i, id := range ids {
		i, id := i, id
		name := names[id]
		if name == "" {
			name = id
		}
		entities[i] = models.ComparisonEntity{ID: id, Name: name, Metrics: make(map[models.MetricID]float64, len(defs))}
		values := make([]float64, len(defs))
		g.Go(func() error {
			for j, def := range defs {
				series, err := s.series.BuildSeries(gctx, aud.Scope, filter.WithEntity(level, id), def.ID, models.GranularityMonthly, 1)
				if err != nil {
					return err
				}
				if n := len(series.Points); n > 0 {
					values[j] = series.Points[n-1].Value
				}
			}
			for j, def := range defs {
				entities[i].Metrics[def.ID] = values[j]
			}
			return nil
		})
	}
	if err := g.Wait(); err != nil {
		return nil, err
	}

	result := &models.ComparisonAnalysis{EntityType: level, Entities: entities}
	result.Metrics, result.Insights = summarizeMetrics(entities, defs)
	result.Rankings = rankEntities(entities, defs)
	return result, nil
}

// summarizeMetrics computes best/worst/mean/stddev per metric and flags leaders and laggards.
func summarizeMetrics(entities []models.ComparisonEntity, defs []models.MetricDefinition) ([]models.ComparisonMetric, []models.ComparisonInsight) {
	metrics := make([]models.ComparisonMetric, 0, len(defs))
	insights := make([]models.ComparisonInsight, 0)
	for _, def := range defs {
		values := make([]float64, len(entities))
		summary := models.ComparisonMetric{Metric: def.ID, Name: def.Name}
		for i, e := range entities {
			v := e.Metrics[def.ID]
			values[i] = v
			if i == 0 || v > summary.Best {
				summary.Best, summary.BestID = v, e.ID
			}
			if i == 0 || v < summary.Worst {
				summary.Worst, summary.WorstID = v, e.ID
			}
		}
		mean, stddev := meanStdDev(values)
		summary.Average, summary.StdDev = round2(mean), round2(stddev)
		metrics = append(metrics, summary)

		for i, e := range entities {
			v := values[i]
			switch {
			case v > leaderFactor*mean:
				insights = append(insights, models.ComparisonInsight{
					EntityID: e.ID, Metric: def.ID, Leader: true, Value: v, Mean: round2(mean),
					Message: models.LocalizedText{
						En: fmt.Sprintf("%s leads on %s (%.2f vs mean %.2f)", e.Name, def.Name.En, v, mean),
						Km: fmt.Sprintf("%s នាំមុខលើ %s (%.2f ធៀបមធ្យម %.2f)", e.Name, def.Name.Km, v, mean),
					},
				})
			case v < laggardFactor*mean:
				insights = append(insights, models.ComparisonInsight{
					EntityID: e.ID, Metric: def.ID, Laggard: true, Value: v, Mean: round2(mean),
					Message: models.LocalizedText{
						En: fmt.Sprintf("%s trails on %s (%.2f vs mean %.2f)", e.Name, def.Name.En, v, mean),
						Km: fmt.Sprintf("%s នៅពីក្រោយលើ %s (%.2f ធៀបមធ្យម %.2f)", e.Name, def.Name.Km, v, mean),
					},
				})
			}
		}
	}
	return metrics, insights
}

// rankEntities ranks each metric descending with ties broken by input order, scores each
// entity as the mean of (N - rank + 1) and assigns overall ranks 1..N.
func rankEntities(entities []models.ComparisonEntity, defs []models.MetricDefinition) []models.EntityRanking {
	n := len(entities)
	rankings := make([]models.EntityRanking, n)
	for i, e := range entities {
		rankings[i] = models.EntityRanking{EntityID: e.ID, Name: e.Name, MetricRanks: make(map[models.MetricID]int, len(defs))}
	}

	order := make([]int, n)
	for _, def := range defs {
		for i := range order {
			order[i] = i
		}
		sort.SliceStable(order, func(a, b int) bool {
			return entities[order[a]].Metrics[def.ID] > entities[order[b]].Metrics[def.ID]
		})
		for pos, idx := range order {
			rank := pos + 1
			rankings[idx].MetricRanks[def.ID] = rank
			rankings[idx].OverallScore += float64(n - rank + 1)
		}
	}
	for i := range rankings {
		rankings[i].OverallScore = round2(safeDiv(rankings[i].OverallScore, float64(len(defs))))
	}

	sort.SliceStable(rankings, func(a, b int) bool { return rankings[a].OverallScore > rankings[b].OverallScore })
	for i := range rankings {
		rankings[i].Rank = i + 1
	}
	return rankings
}
