package service

import (
	"fmt"
	"testing"
	"time"

	"github.com/jonboulle/clockwork"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/noah-isme/observation-analytics-api/internal/models"
)

func newGenerator() *InsightGenerator {
	return NewInsightGenerator(clockwork.NewFakeClockAt(time.Date(2024, 6, 1, 8, 0, 0, 0, time.UTC)))
}

func insightIDs(items []models.Insight) []string {
	out := make([]string, len(items))
	for i, item := range items {
		out[i] = item.ID
	}
	return out
}

func alertIDs(items []models.Alert) []string {
	out := make([]string, len(items))
	for i, item := range items {
		out[i] = item.ID
	}
	return out
}

func recIDs(items []models.Recommendation) []string {
	out := make([]string, len(items))
	for i, item := range items {
		out[i] = item.ID
	}
	return out
}

func TestGenerateHighPerformanceScenario(t *testing.T) {
	g := newGenerator().Generate(models.PerformanceMetrics{TotalSessions: 10, CompletedSessions: 8, AverageScore: 2.6, CompletionRate: 80}, nil)

	require.Len(t, g.Insights, 1)
	assert.Equal(t, "High Performance Achievement", g.Insights[0].Title.En)
	assert.NotEmpty(t, g.Insights[0].Title.Km)
	assert.Equal(t, models.ImpactLow, g.Insights[0].Impact)
	assert.Empty(t, g.Alerts)
	assert.Equal(t, []string{"share-practices"}, recIDs(g.Recommendations))
}

func TestGenerateLowCompletionAndCriticalScore(t *testing.T) {
	g := newGenerator().Generate(models.PerformanceMetrics{TotalSessions: 10, AverageScore: 1.2, CompletionRate: 50}, nil)

	assert.Equal(t, []string{"low-completion"}, insightIDs(g.Insights))
	assert.True(t, g.Insights[0].Actionable)
	assert.Equal(t, []string{"critical-score", "low-completion"}, alertIDs(g.Alerts))
	assert.Equal(t, models.AlertCritical, g.Alerts[0].Level)
	assert.Equal(t, time.Date(2024, 6, 1, 8, 0, 0, 0, time.UTC), g.Alerts[0].CreatedAt)
	assert.Equal(t, []string{"improve-completion"}, recIDs(g.Recommendations))
}

func TestGenerateWarningBand(t *testing.T) {
	g := newGenerator().Generate(models.PerformanceMetrics{TotalSessions: 3, AverageScore: 1.5, CompletionRate: 65}, nil)

	assert.Equal(t, []string{"low-score"}, alertIDs(g.Alerts))
	assert.Equal(t, models.AlertWarning, g.Alerts[0].Level)
	assert.Equal(t, []string{"improve-completion"}, recIDs(g.Recommendations))
	assert.Empty(t, g.Insights)
}

func TestGenerateEmptyScopeIsQuiet(t *testing.T) {
	g := newGenerator().Generate(models.PerformanceMetrics{}, nil)
	assert.Empty(t, g.Insights)
	assert.Empty(t, g.Alerts)
	assert.Empty(t, g.Recommendations)
}

func TestGenerateTrendRules(t *testing.T) {
	name := models.LocalizedText{En: "Average Score", Km: "ពិន្ទុមធ្យម"}
	trends := []models.TrendAnalysis{
		{Metric: models.MetricAverageScore, Name: name, Direction: models.TrendDown, OverallChangePercent: -25},
		{Metric: models.MetricSessionCount, Name: name, Direction: models.TrendDown, OverallChangePercent: -14.29},
		{Metric: models.MetricCompletionRate, Name: name, Direction: models.TrendUp, OverallChangePercent: 40},
	}
	g := newGenerator().Generate(models.PerformanceMetrics{TotalSessions: 5, AverageScore: 2.2, CompletionRate: 90}, trends)

	assert.Equal(t, []string{"declining-average_score"}, alertIDs(g.Alerts))
	assert.ElementsMatch(t, []string{"intervention-average_score", "intervention-session_count"}, recIDs(g.Recommendations))
}

func TestGenerateDedupesSortsAndTruncatesInsights(t *testing.T) {
	var insights []models.TrendInsight
	for i := 0; i < 14; i++ {
		severity := models.SeverityMedium
		if i%3 == 0 {
			severity = models.SeverityHigh
		}
		insights = append(insights, models.TrendInsight{Type: models.TrendInsightDecline, Severity: severity, Period: fmt.Sprintf("2024-%02d", i+1)})
	}
	trend := models.TrendAnalysis{Metric: models.MetricSessionCount, Direction: models.TrendStable, Insights: insights}

	g := newGenerator().Generate(models.PerformanceMetrics{TotalSessions: 2, AverageScore: 2.7, CompletionRate: 100}, []models.TrendAnalysis{trend, trend})

	require.Len(t, g.Insights, 10)
	for i := 1; i < len(g.Insights); i++ {
		assert.LessOrEqual(t, impactOrder[g.Insights[i-1].Impact], impactOrder[g.Insights[i].Impact])
	}
	assert.Equal(t, models.ImpactHigh, g.Insights[0].Impact)
	assert.NotContains(t, insightIDs(g.Insights), "high-performance", "low impact insights are cut first")
}
