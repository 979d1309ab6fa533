package service

import (
	"context"
	"errors"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/noah-isme/observation-analytics-api/internal/models"
	appErrors "github.com/noah-isme/observation-analytics-api/pkg/errors"
)

func TestAnalyticsServiceMetricsCombinesAggregates(t *testing.T) {
	source := &fakeObservationSource{
		sessions:     10,
		completed:    8,
		averageScore: 2.6,
		plans:        3,
		activeUsers:  4,
		duration:     42.456,
		indicators: []models.IndicatorPerformance{
			{IndicatorID: "i1", AverageScore: 2.9},
			{IndicatorID: "i2", AverageScore: 1.4},
			{IndicatorID: "i3", AverageScore: 2.1},
			{IndicatorID: "i4", AverageScore: 1.99},
			{IndicatorID: "i5", AverageScore: 2.5},
			{IndicatorID: "i6", AverageScore: 2.7},
		},
	}
	svc := NewAnalyticsService(source, nil, nil, AnalyticsServiceConfig{})
	scope := models.SubtreeScope(models.LevelSchool, "s-1")

	metrics, err := svc.Metrics(context.Background(), scope, models.MetricFilter{})
	require.NoError(t, err)

	assert.Equal(t, 10, metrics.TotalSessions)
	assert.Equal(t, 8, metrics.CompletedSessions)
	assert.Equal(t, 80.0, metrics.CompletionRate)
	assert.Equal(t, 2.6, metrics.AverageScore)
	assert.Equal(t, 42.46, metrics.AverageDuration)

	require.Len(t, metrics.TopIndicators, 5)
	assert.Equal(t, "i1", metrics.TopIndicators[0].IndicatorID)
	assert.Equal(t, "i6", metrics.TopIndicators[1].IndicatorID)
	require.Len(t, metrics.BottomIndicators, 5)
	assert.Equal(t, "i2", metrics.BottomIndicators[0].IndicatorID)
	assert.True(t, metrics.BottomIndicators[0].ImprovementNeeded)
	assert.True(t, metrics.BottomIndicators[1].ImprovementNeeded, "1.99 is below the 2.0 threshold")
	assert.False(t, metrics.TopIndicators[0].ImprovementNeeded)

	for _, s := range source.scopes {
		assert.Equal(t, scope, s)
	}
}

func TestAnalyticsServiceMetricsEmptyScope(t *testing.T) {
	svc := NewAnalyticsService(&fakeObservationSource{}, nil, nil, AnalyticsServiceConfig{})

	metrics, err := svc.Metrics(context.Background(), models.UnrestrictedScope(), models.MetricFilter{})
	require.NoError(t, err)
	assert.Zero(t, metrics.TotalSessions)
	assert.Zero(t, metrics.CompletionRate)
	assert.Empty(t, metrics.TopIndicators)
	assert.Empty(t, metrics.BottomIndicators)
}

func TestAnalyticsServiceMetricsFailsWhenAnyAggregateFails(t *testing.T) {
	svc := NewAnalyticsService(&fakeObservationSource{err: errors.New("db down")}, nil, nil, AnalyticsServiceConfig{})

	_, err := svc.Metrics(context.Background(), models.UnrestrictedScope(), models.MetricFilter{})
	require.Error(t, err)
	assert.True(t, errors.Is(err, appErrors.ErrInternal))
}

func TestAnalyticsServiceGeographicSortsAndRanks(t *testing.T) {
	source := &fakeObservationSource{entities: map[models.HierarchyLevel][]models.EntityAggregate{
		models.LevelSchool: {
			{EntityID: "a", EntityName: "A", TotalSessions: 4, CompletedSessions: 2, ScoreSum: 4, ResponseCount: 4, PlanCount: 1},
			{EntityID: "b", EntityName: "B", TotalSessions: 2, CompletedSessions: 2, ScoreSum: 6, ResponseCount: 2},
			{EntityID: "c", EntityName: "C", TotalSessions: 1, CompletedSessions: 0, ScoreSum: 2, ResponseCount: 2},
			{EntityID: "d", EntityName: "D"},
		},
	}}
	svc := NewAnalyticsService(source, nil, nil, AnalyticsServiceConfig{})
	aud, err := ResolveAudience(models.Actor{ID: "admin", Role: models.RoleAdmin})
	require.NoError(t, err)

	rows, err := svc.Geographic(context.Background(), aud, models.MetricFilter{}, "school")
	require.NoError(t, err)
	require.Len(t, rows, 4)

	assert.Equal(t, []string{"b", "a", "c", "d"}, []string{rows[0].EntityID, rows[1].EntityID, rows[2].EntityID, rows[3].EntityID})
	for i, row := range rows {
		assert.Equal(t, i+1, row.Ranking)
		if i > 0 {
			assert.GreaterOrEqual(t, rows[i-1].AverageScore, row.AverageScore)
		}
	}
	assert.Equal(t, 50.0, rows[1].CompletionRate)
	assert.Equal(t, 0.25, rows[1].ImprovementRate)
	assert.Zero(t, rows[3].CompletionRate)
}

func TestAnalyticsServiceGeographicRejectsUnknownType(t *testing.T) {
	svc := NewAnalyticsService(&fakeObservationSource{}, nil, nil, AnalyticsServiceConfig{})
	aud, err := ResolveAudience(models.Actor{ID: "admin", Role: models.RoleSuperAdmin})
	require.NoError(t, err)

	_, err = svc.Geographic(context.Background(), aud, models.MetricFilter{}, "blimp")
	require.Error(t, err)
	appErr := appErrors.FromError(err)
	assert.Equal(t, appErrors.ErrInvalidArgument.Code, appErr.Code)
	for _, name := range []string{"zone", "province", "department", "cluster", "school"} {
		assert.Contains(t, appErr.Message, name)
	}
}

func TestAnalyticsServiceSubjects(t *testing.T) {
	source := &fakeObservationSource{subjects: []models.SubjectAggregate{
		{Subject: "math", TotalSessions: 2, CompletedSessions: 1, ScoreSum: 3, ResponseCount: 2},
		{Subject: "khmer", TotalSessions: 1, CompletedSessions: 1, ScoreSum: 5, ResponseCount: 2},
	}}
	svc := NewAnalyticsService(source, nil, nil, AnalyticsServiceConfig{})

	rows, err := svc.Subjects(context.Background(), models.UnrestrictedScope(), models.MetricFilter{})
	require.NoError(t, err)
	require.Len(t, rows, 2)
	assert.Equal(t, "khmer", rows[0].Subject)
	assert.Equal(t, 2.5, rows[0].AverageScore)
	assert.Equal(t, 50.0, rows[1].CompletionRate)
}
