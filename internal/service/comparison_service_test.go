package service

import (
	"context"
	"errors"
	"testing"
	"time"

	"github.com/jonboulle/clockwork"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/noah-isme/observation-analytics-api/internal/models"
	appErrors "github.com/noah-isme/observation-analytics-api/pkg/errors"
)

func newComparison(t *testing.T, source *fakeObservationSource) *ComparisonService {
	t.Helper()
	clock := clockwork.NewFakeClockAt(time.Date(2024, 6, 20, 0, 0, 0, 0, time.UTC))
	trends := NewTrendService(source, nil, clock, nil, TrendServiceConfig{})
	return NewComparisonService(trends, source, clock, nil)
}

func adminAudience(t *testing.T) Audience {
	t.Helper()
	aud, err := ResolveAudience(models.Actor{ID: "admin-1", Name: "Admin", Role: models.RoleAdmin})
	require.NoError(t, err)
	return aud
}

func TestCompareLeadersLaggardsAndRanks(t *testing.T) {
	source := &fakeObservationSource{
		factsByEntity: map[string][]models.SessionFact{
			"s-1": monthlyFacts(2024, 5, 3.0),
			"s-2": monthlyFacts(2024, 3, 1.0, 2.0),
			"s-3": monthlyFacts(2024, 6, 1.0),
		},
		names: map[string]string{"s-1": "Riverside", "s-2": "Hillside"},
	}
	svc := newComparison(t, source)

	result, err := svc.Compare(context.Background(), adminAudience(t), models.MetricFilter{}, ComparisonRequest{
		EntityIDs:  []string{"s-1", "s-2", "s-3"},
		EntityType: "school",
		Metrics:    []string{"average_score"},
	})
	require.NoError(t, err)

	require.Len(t, result.Entities, 3)
	assert.Equal(t, "Riverside", result.Entities[0].Name)
	assert.Equal(t, "s-3", result.Entities[2].Name, "unknown names fall back to the id")
	assert.Equal(t, 2.0, result.Entities[1].Metrics[models.MetricAverageScore], "latest period only")

	require.Len(t, result.Metrics, 1)
	assert.Equal(t, 2.0, result.Metrics[0].Average)
	assert.Equal(t, "s-1", result.Metrics[0].BestID)
	assert.Equal(t, "s-3", result.Metrics[0].WorstID)

	require.Len(t, result.Insights, 2)
	assert.Equal(t, "s-1", result.Insights[0].EntityID)
	assert.True(t, result.Insights[0].Leader)
	assert.Equal(t, "s-3", result.Insights[1].EntityID)
	assert.True(t, result.Insights[1].Laggard)

	require.Len(t, result.Rankings, 3)
	for i, id := range []string{"s-1", "s-2", "s-3"} {
		assert.Equal(t, id, result.Rankings[i].EntityID)
		assert.Equal(t, i+1, result.Rankings[i].Rank)
	}
	assert.Equal(t, 3.0, result.Rankings[0].OverallScore)

	for _, f := range source.factFilters {
		require.NotNil(t, f.Entity)
		assert.Equal(t, models.LevelSchool, f.Entity.Level)
		require.NotNil(t, f.DateFrom)
	}
}

func TestRankEntitiesIsBijection(t *testing.T) {
	defs := make([]models.MetricDefinition, 0, 2)
	for _, id := range []string{"average_score", "session_count"} {
		def, _ := models.LookupMetric(id)
		defs = append(defs, def)
	}
	entities := []models.ComparisonEntity{
		{ID: "a", Metrics: map[models.MetricID]float64{models.MetricAverageScore: 2, models.MetricSessionCount: 5}},
		{ID: "b", Metrics: map[models.MetricID]float64{models.MetricAverageScore: 2, models.MetricSessionCount: 9}},
		{ID: "c", Metrics: map[models.MetricID]float64{models.MetricAverageScore: 1, models.MetricSessionCount: 5}},
		{ID: "d", Metrics: map[models.MetricID]float64{models.MetricAverageScore: 3, models.MetricSessionCount: 1}},
	}

	rankings := rankEntities(entities, defs)
	seen := map[int]bool{}
	for i, r := range rankings {
		seen[r.Rank] = true
		if i > 0 {
			assert.GreaterOrEqual(t, rankings[i-1].OverallScore, r.OverallScore)
		}
	}
	assert.Len(t, seen, 4)
	for rank := 1; rank <= 4; rank++ {
		assert.True(t, seen[rank])
	}
	assert.Equal(t, "a", rankings[0].EntityID, "ties keep input order")
	assert.Equal(t, "c", rankings[3].EntityID)
}

func TestCompareValidation(t *testing.T) {
	svc := newComparison(t, &fakeObservationSource{})
	aud := adminAudience(t)

	_, err := svc.Compare(context.Background(), aud, models.MetricFilter{}, ComparisonRequest{EntityIDs: []string{"x"}, EntityType: "blimp"})
	assert.True(t, errors.Is(err, appErrors.ErrInvalidArgument))

	_, err = svc.Compare(context.Background(), aud, models.MetricFilter{}, ComparisonRequest{EntityIDs: []string{"x"}, EntityType: "school", Metrics: []string{"joy"}})
	assert.True(t, errors.Is(err, appErrors.ErrInvalidArgument))

	_, err = svc.Compare(context.Background(), aud, models.MetricFilter{}, ComparisonRequest{EntityType: "school"})
	assert.True(t, errors.Is(err, appErrors.ErrValidation))
}

func TestCompareFailsWhenSeriesFails(t *testing.T) {
	svc := newComparison(t, &fakeObservationSource{err: errors.New("boom")})

	_, err := svc.Compare(context.Background(), adminAudience(t), models.MetricFilter{}, ComparisonRequest{EntityIDs: []string{"a", "b"}, EntityType: "school"})
	require.Error(t, err)
}
