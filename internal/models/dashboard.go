package models

import "time"

// TimePeriod is a named dashboard window.
type TimePeriod string

const (
	PeriodLast7Days  TimePeriod = "last_7_days"
	PeriodLast30Days TimePeriod = "last_30_days"
	PeriodLast90Days TimePeriod = "last_90_days"
	PeriodLastYear   TimePeriod = "last_year"
	PeriodCustom     TimePeriod = "custom"
)

// TimePeriods lists the accepted windows.
var TimePeriods = []TimePeriod{PeriodLast7Days, PeriodLast30Days, PeriodLast90Days, PeriodLastYear, PeriodCustom}

// ParseTimePeriod resolves a window name.
func ParseTimePeriod(value string) (TimePeriod, bool) {
	for _, p := range TimePeriods {
		if string(p) == value {
			return p, true
		}
	}
	return "", false
}

// TimePeriodNames returns the names for error messages.
func TimePeriodNames() []string {
	out := make([]string, len(TimePeriods))
	for i, p := range TimePeriods {
		out[i] = string(p)
	}
	return out
}

// DateRange is an inclusive window.
type DateRange struct {
	From time.Time `json:"from"`
	To   time.Time `json:"to"`
}

// TopPerformer is a merged entry across entity types.
type TopPerformer struct {
	EntityID     string         `json:"entity_id"`
	EntityName   string         `json:"entity_name"`
	EntityType   HierarchyLevel `json:"entity_type"`
	AverageScore float64        `json:"average_score"`
	Sessions     int            `json:"sessions"`
	Rank         int            `json:"rank"`
}

// QuickStat is a headline card with its delta against the previous period.
type QuickStat struct {
	Key           string         `json:"key"`
	Label         LocalizedText  `json:"label"`
	Value         float64        `json:"value"`
	PreviousValue float64        `json:"previous_value"`
	Change        float64        `json:"change"`
	ChangePercent float64        `json:"change_percent"`
	Direction     TrendDirection `json:"direction"`
}

// ChartPoint is an x/y pair for chart rendering.
type ChartPoint struct {
	Label string  `json:"label"`
	Value float64 `json:"value"`
}

// ChartSeries is a chart-ready series.
type ChartSeries struct {
	Key    string        `json:"key"`
	Label  LocalizedText `json:"label"`
	Type   string        `json:"type"`
	Points []ChartPoint  `json:"points"`
}

// DashboardData is the composed dashboard payload.
type DashboardData struct {
	TimePeriod      TimePeriod         `json:"time_period"`
	Range           DateRange          `json:"range"`
	PreviousRange   DateRange          `json:"previous_range"`
	Metrics         PerformanceMetrics `json:"metrics"`
	PreviousMetrics PerformanceMetrics `json:"previous_metrics"`
	TrendsDirection TrendDirection     `json:"trends_direction"`
	Trends          []TrendAnalysis    `json:"trends"`
	TopPerformers   []TopPerformer     `json:"top_performers"`
	Alerts          []Alert            `json:"alerts"`
	QuickStats      []QuickStat        `json:"quick_stats"`
	Charts          []ChartSeries      `json:"charts"`
	GeneratedAt     time.Time          `json:"generated_at"`
}
