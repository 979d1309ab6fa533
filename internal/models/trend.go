package models

import "time"

// Granularity is the period-bucketing unit of a series.
type Granularity string

const (
	GranularityDaily     Granularity = "daily"
	GranularityWeekly    Granularity = "weekly"
	GranularityMonthly   Granularity = "monthly"
	GranularityQuarterly Granularity = "quarterly"
)

// Granularities lists the supported units.
var Granularities = []Granularity{GranularityDaily, GranularityWeekly, GranularityMonthly, GranularityQuarterly}

// ParseGranularity resolves a granularity name.
func ParseGranularity(value string) (Granularity, bool) {
	for _, g := range Granularities {
		if string(g) == value {
			return g, true
		}
	}
	return "", false
}

// GranularityNames returns the names for error messages.
func GranularityNames() []string {
	out := make([]string, len(Granularities))
	for i, g := range Granularities {
		out[i] = string(g)
	}
	return out
}

// TrendDirection classifies a change.
type TrendDirection string

const (
	TrendUp     TrendDirection = "up"
	TrendDown   TrendDirection = "down"
	TrendStable TrendDirection = "stable"
)

// TimeSeriesPoint is one bucket of a series.
type TimeSeriesPoint struct {
	Period        string         `json:"period"`
	PeriodStart   time.Time      `json:"period_start"`
	Value         float64        `json:"value"`
	Change        float64        `json:"change"`
	ChangePercent float64        `json:"change_percent"`
	Direction     TrendDirection `json:"direction"`
}

// TrendSeries is ordered by PeriodStart ascending.
type TrendSeries struct {
	Metric      MetricID          `json:"metric"`
	Granularity Granularity       `json:"granularity"`
	Points      []TimeSeriesPoint `json:"points"`
}

// Prediction is a next-period linear forecast.
type Prediction struct {
	NextPeriod     string         `json:"next_period"`
	PredictedValue float64        `json:"predicted_value"`
	Confidence     float64        `json:"confidence"`
	Direction      TrendDirection `json:"direction"`
	Slope          float64        `json:"slope"`
	Intercept      float64        `json:"intercept"`
	NoData         bool           `json:"no_data,omitempty"`
}

// Severity ranks insights and alerts.
type Severity string

const (
	SeverityCritical Severity = "critical"
	SeverityHigh     Severity = "high"
	SeverityMedium   Severity = "medium"
	SeverityLow      Severity = "low"
)

// TrendInsightType names the kind of trend observation.
type TrendInsightType string

const (
	TrendInsightImprovement TrendInsightType = "improvement"
	TrendInsightDecline     TrendInsightType = "decline"
	TrendInsightConsistent  TrendInsightType = "consistent_trend"
	TrendInsightPeak        TrendInsightType = "peak_month"
	TrendInsightLow         TrendInsightType = "low_month"
)

// TrendInsight is an observation attached to a trend.
type TrendInsight struct {
	Type     TrendInsightType `json:"type"`
	Severity Severity         `json:"severity"`
	Message  LocalizedText    `json:"message"`
	Period   string           `json:"period,omitempty"`
	Value    *float64         `json:"value,omitempty"`
}

// TrendAnalysis is the classified view of a series.
type TrendAnalysis struct {
	Metric               MetricID       `json:"metric"`
	Name                 LocalizedText  `json:"name"`
	Granularity          Granularity    `json:"granularity"`
	CurrentValue         float64        `json:"current_value"`
	PreviousValue        float64        `json:"previous_value"`
	OverallChange        float64        `json:"overall_change"`
	OverallChangePercent float64        `json:"overall_change_percent"`
	Direction            TrendDirection `json:"direction"`
	Series               TrendSeries    `json:"series"`
	Prediction           *Prediction    `json:"prediction,omitempty"`
	Insights             []TrendInsight `json:"insights"`
}

// MonthlyPattern is the calendar-month aggregate of a seasonal analysis.
type MonthlyPattern struct {
	Month   int     `json:"month"`
	Mean    float64 `json:"mean"`
	StdDev  float64 `json:"std_dev"`
	Samples int     `json:"samples"`
}

// SeasonalAnalysis groups two years of monthly values by calendar month.
type SeasonalAnalysis struct {
	Metric    MetricID         `json:"metric"`
	Name      LocalizedText    `json:"name"`
	Months    []MonthlyPattern `json:"months"`
	PeakMonth int              `json:"peak_month,omitempty"`
	LowMonth  int              `json:"low_month,omitempty"`
	Insights  []TrendInsight   `json:"insights"`
}
