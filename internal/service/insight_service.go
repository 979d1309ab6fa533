package service

import (
	"fmt"
	"math"
	"sort"

	"github.com/jonboulle/clockwork"

	"github.com/noah-isme/observation-analytics-api/internal/models"
)

const (
	highPerformanceScore = 2.5
	criticalScore        = 1.5
	warningScore         = 2.0
	lowCompletionRate    = 60.0
	completionTargetRate = 70.0
	alertDeclinePercent  = 20.0
	interventionDecline  = 10.0
	maxGeneratedInsights = 10
)

var (
	impactOrder   = map[models.Impact]int{models.ImpactHigh: 0, models.ImpactMedium: 1, models.ImpactLow: 2}
	alertOrder    = map[models.AlertLevel]int{models.AlertCritical: 0, models.AlertWarning: 1, models.AlertInfo: 2}
	priorityOrder = map[models.Priority]int{models.PriorityHigh: 0, models.PriorityMedium: 1, models.PriorityLow: 2}
)

// Guidance is the generated output for one set of metrics and trends.
type Guidance struct {
	Insights        []models.Insight
	Alerts          []models.Alert
	Recommendations []models.Recommendation
}

// InsightGenerator maps metric and trend thresholds to bilingual guidance. It holds no state
// besides the clock used to stamp alerts.
type InsightGenerator struct {
	clock clockwork.Clock
}

// NewInsightGenerator constructs the rules engine.
func NewInsightGenerator(clock clockwork.Clock) *InsightGenerator {
	if clock == nil {
		clock = clockwork.NewRealClock()
	}
	return &InsightGenerator{clock: clock}
}

// Generate applies the rule table. Metric rules only fire when sessions exist in scope so an
// empty scope stays a quiet no-data state.
func (g *InsightGenerator) Generate(metrics models.PerformanceMetrics, trends []models.TrendAnalysis) Guidance {
	b := newGuidanceBuilder(g.clock)
	if metrics.TotalSessions > 0 {
		b.metricRules(metrics)
	}
	for _, trend := range trends {
		b.trendRules(trend)
	}
	return b.finish()
}

type guidanceBuilder struct {
	clock    clockwork.Clock
	insights map[string]models.Insight
	alerts   map[string]models.Alert
	recs     map[string]models.Recommendation
}

func newGuidanceBuilder(clock clockwork.Clock) *guidanceBuilder {
	return &guidanceBuilder{
		clock:    clock,
		insights: make(map[string]models.Insight),
		alerts:   make(map[string]models.Alert),
		recs:     make(map[string]models.Recommendation),
	}
}

func (b *guidanceBuilder) insight(i models.Insight) {
	if _, ok := b.insights[i.ID]; !ok {
		b.insights[i.ID] = i
	}
}

func (b *guidanceBuilder) alert(a models.Alert) {
	if _, ok := b.alerts[a.ID]; !ok {
		a.CreatedAt = b.clock.Now()
		b.alerts[a.ID] = a
	}
}

func (b *guidanceBuilder) recommend(r models.Recommendation) {
	if _, ok := b.recs[r.ID]; !ok {
		b.recs[r.ID] = r
	}
}

func (b *guidanceBuilder) metricRules(m models.PerformanceMetrics) {
	score := m.AverageScore
	rate := m.CompletionRate

	if score > highPerformanceScore {
		b.insight(models.Insight{
			ID:     "high-performance",
			Type:   "achievement",
			Title:  models.LocalizedText{En: "High Performance Achievement", Km: "សមិទ្ធផលខ្ពស់"},
			Impact: models.ImpactLow,
			Metric: models.MetricAverageScore,
			Value:  score,
			Description: models.LocalizedText{
				En: fmt.Sprintf("Average indicator score is %.2f, above the %.1f benchmark", score, highPerformanceScore),
				Km: fmt.Sprintf("ពិន្ទុសូចនាករមធ្យមគឺ %.2f ខ្ពស់ជាងកម្រិត %.1f", score, highPerformanceScore),
			},
		})
		b.recommend(models.Recommendation{
			ID:       "share-practices",
			Category: "recognition",
			Priority: models.PriorityMedium,
			Title:    models.LocalizedText{En: "Recognize and share effective practices", Km: "ទទួលស្គាល់ និងចែករំលែកការអនុវត្តល្អ"},
			Description: models.LocalizedText{
				En: "Teachers in scope are performing strongly; document what works and spread it.",
				Km: "គ្រូក្នុងវិសាលភាពកំពុងអនុវត្តបានល្អ សូមកត់ត្រា និងផ្សព្វផ្សាយ។",
			},
			Actions: []models.LocalizedText{
				{En: "Run peer observation visits", Km: "រៀបចំការសង្កេតរវាងមិត្តរួមការងារ"},
				{En: "Publish a short case study", Km: "ចេញផ្សាយករណីសិក្សាខ្លី"},
			},
		})
	}

	if rate < lowCompletionRate {
		b.insight(models.Insight{
			ID:         "low-completion",
			Type:       "completion",
			Title:      models.LocalizedText{En: "Low Session Completion", Km: "ការបញ្ចប់វគ្គទាប"},
			Impact:     models.ImpactHigh,
			Actionable: true,
			Metric:     models.MetricCompletionRate,
			Value:      rate,
			Description: models.LocalizedText{
				En: fmt.Sprintf("Only %.1f%% of sessions are completed", rate),
				Km: fmt.Sprintf("មានតែ %.1f%% នៃវគ្គដែលបានបញ្ចប់", rate),
			},
		})
		b.alert(models.Alert{
			ID:        "low-completion",
			Level:     models.AlertWarning,
			Title:     models.LocalizedText{En: "Low completion rate", Km: "អត្រាបញ្ចប់ទាប"},
			Metric:    models.MetricCompletionRate,
			Value:     rate,
			Threshold: lowCompletionRate,
			Message: models.LocalizedText{
				En: fmt.Sprintf("Completion rate %.1f%% is below %.0f%%", rate, lowCompletionRate),
				Km: fmt.Sprintf("អត្រាបញ្ចប់ %.1f%% ទាបជាង %.0f%%", rate, lowCompletionRate),
			},
		})
	}

	switch {
	case score < criticalScore:
		b.alert(models.Alert{
			ID:        "critical-score",
			Level:     models.AlertCritical,
			Title:     models.LocalizedText{En: "Critical performance level", Km: "កម្រិតសមត្ថភាពធ្ងន់ធ្ងរ"},
			Metric:    models.MetricAverageScore,
			Value:     score,
			Threshold: criticalScore,
			Message: models.LocalizedText{
				En: fmt.Sprintf("Average score %.2f is below %.1f", score, criticalScore),
				Km: fmt.Sprintf("ពិន្ទុមធ្យម %.2f ទាបជាង %.1f", score, criticalScore),
			},
		})
	case score < warningScore:
		b.alert(models.Alert{
			ID:        "low-score",
			Level:     models.AlertWarning,
			Title:     models.LocalizedText{En: "Performance below target", Km: "សមត្ថភាពទាបជាងគោលដៅ"},
			Metric:    models.MetricAverageScore,
			Value:     score,
			Threshold: warningScore,
			Message: models.LocalizedText{
				En: fmt.Sprintf("Average score %.2f is below %.1f", score, warningScore),
				Km: fmt.Sprintf("ពិន្ទុមធ្យម %.2f ទាបជាង %.1f", score, warningScore),
			},
		})
	}

	if rate < completionTargetRate {
		b.recommend(models.Recommendation{
			ID:       "improve-completion",
			Category: "process",
			Priority: models.PriorityHigh,
			Title:    models.LocalizedText{En: "Improve session completion", Km: "បង្កើនការបញ្ចប់វគ្គ"},
			Description: models.LocalizedText{
				En: fmt.Sprintf("Completion is %.1f%%, under the %.0f%% target", rate, completionTargetRate),
				Km: fmt.Sprintf("ការបញ្ចប់គឺ %.1f%% ក្រោមគោលដៅ %.0f%%", rate, completionTargetRate),
			},
			Actions: []models.LocalizedText{
				{En: "Follow up open sessions weekly", Km: "តាមដានវគ្គមិនទាន់បញ្ចប់ប្រចាំសប្តាហ៍"},
				{En: "Schedule observer time in advance", Km: "កំណត់ពេលអ្នកសង្កេតជាមុន"},
			},
		})
	}
}

func (b *guidanceBuilder) trendRules(t models.TrendAnalysis) {
	for _, ti := range t.Insights {
		impact := models.ImpactMedium
		switch ti.Severity {
		case models.SeverityCritical, models.SeverityHigh:
			impact = models.ImpactHigh
		case models.SeverityLow:
			impact = models.ImpactLow
		}
		insight := models.Insight{
			ID:          fmt.Sprintf("trend-%s-%s-%s", t.Metric, ti.Type, ti.Period),
			Type:        string(ti.Type),
			Title:       t.Name,
			Description: ti.Message,
			Impact:      impact,
			Actionable:  ti.Type == models.TrendInsightDecline,
			Metric:      t.Metric,
		}
		if ti.Value != nil {
			insight.Value = *ti.Value
		}
		b.insight(insight)
	}

	if t.Direction != models.TrendDown {
		return
	}
	drop := math.Abs(t.OverallChangePercent)
	if drop > alertDeclinePercent {
		b.alert(models.Alert{
			ID:        "declining-" + string(t.Metric),
			Level:     models.AlertWarning,
			Title:     models.LocalizedText{En: "Declining trend", Km: "និន្នាការធ្លាក់ចុះ"},
			Metric:    t.Metric,
			Value:     t.OverallChangePercent,
			Threshold: -alertDeclinePercent,
			Message: models.LocalizedText{
				En: fmt.Sprintf("%s dropped %.1f%% in the latest period", t.Name.En, drop),
				Km: fmt.Sprintf("%s បានធ្លាក់ %.1f%% ក្នុងរយៈពេលចុងក្រោយ", t.Name.Km, drop),
			},
		})
	}
	if drop > interventionDecline {
		b.recommend(models.Recommendation{
			ID:       "intervention-" + string(t.Metric),
			Category: "intervention",
			Priority: models.PriorityHigh,
			Title:    models.LocalizedText{En: "Plan a targeted intervention", Km: "រៀបចំអន្តរាគមន៍គោលដៅ"},
			Description: models.LocalizedText{
				En: fmt.Sprintf("%s is falling (%.1f%%); review the affected schools", t.Name.En, t.OverallChangePercent),
				Km: fmt.Sprintf("%s កំពុងធ្លាក់ (%.1f%%) សូមពិនិត្យសាលាដែលរងផលប៉ះពាល់", t.Name.Km, t.OverallChangePercent),
			},
			Actions: []models.LocalizedText{
				{En: "Identify schools driving the decline", Km: "កំណត់សាលាដែលបណ្តាលឱ្យធ្លាក់"},
				{En: "Assign coaching follow-ups", Km: "ចាត់តាំងការបង្វឹកតាមដាន"},
			},
		})
	}
}

func (b *guidanceBuilder) finish() Guidance {
	out := Guidance{
		Insights:        make([]models.Insight, 0, len(b.insights)),
		Alerts:          make([]models.Alert, 0, len(b.alerts)),
		Recommendations: make([]models.Recommendation, 0, len(b.recs)),
	}
	for _, i := range b.insights {
		out.Insights = append(out.Insights, i)
	}
	for _, a := range b.alerts {
		out.Alerts = append(out.Alerts, a)
	}
	for _, r := range b.recs {
		out.Recommendations = append(out.Recommendations, r)
	}

	sort.Slice(out.Insights, func(i, j int) bool {
		a, c := out.Insights[i], out.Insights[j]
		if impactOrder[a.Impact] != impactOrder[c.Impact] {
			return impactOrder[a.Impact] < impactOrder[c.Impact]
		}
		return a.ID < c.ID
	})
	if len(out.Insights) > maxGeneratedInsights {
		out.Insights = out.Insights[:maxGeneratedInsights]
	}
	sort.Slice(out.Alerts, func(i, j int) bool {
		a, c := out.Alerts[i], out.Alerts[j]
		if alertOrder[a.Level] != alertOrder[c.Level] {
			return alertOrder[a.Level] < alertOrder[c.Level]
		}
		return a.ID < c.ID
	})
	sort.Slice(out.Recommendations, func(i, j int) bool {
		a, c := out.Recommendations[i], out.Recommendations[j]
		if priorityOrder[a.Priority] != priorityOrder[c.Priority] {
			return priorityOrder[a.Priority] < priorityOrder[c.Priority]
		}
		return a.ID < c.ID
	})
	return out
}
