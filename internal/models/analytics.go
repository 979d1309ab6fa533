package models

import "time"

// IndicatorPerformance is the average score of one indicator across responses in scope.
type IndicatorPerformance struct {
	IndicatorID       string  `db:"indicator_id" json:"indicator_id"`
	IndicatorName     string  `db:"indicator_name" json:"indicator_name"`
	IndicatorNameKm   string  `db:"indicator_name_km" json:"indicator_name_km"`
	AverageScore      float64 `db:"average_score" json:"average_score"`
	ResponseCount     int     `db:"response_count" json:"response_count"`
	ImprovementNeeded bool    `db:"-" json:"improvement_needed"`
}

// PerformanceMetrics summarises sessions, responses and plans in scope.
type PerformanceMetrics struct {
	TotalSessions     int                    `json:"total_sessions"`
	CompletedSessions int                    `json:"completed_sessions"`
	AverageScore      float64                `json:"average_score"`
	CompletionRate    float64                `json:"completion_rate"`
	ImprovementPlans  int                    `json:"improvement_plans"`
	ActiveUsers       int                    `json:"active_users"`
	AverageDuration   float64                `json:"average_duration"`
	TopIndicators     []IndicatorPerformance `json:"top_indicators"`
	BottomIndicators  []IndicatorPerformance `json:"bottom_indicators"`
}

// EntityAggregate is the raw per-entity row a geographic breakdown is built from.
type EntityAggregate struct {
	EntityID          string  `db:"entity_id"`
	EntityName        string  `db:"entity_name"`
	TotalSessions     int     `db:"total_sessions"`
	CompletedSessions int     `db:"completed_sessions"`
	ScoreSum          float64 `db:"score_sum"`
	ResponseCount     int     `db:"response_count"`
	PlanCount         int     `db:"plan_count"`
}

// GeographicPerformance is one ranked row of a breakdown by hierarchy level.
type GeographicPerformance struct {
	EntityID        string         `json:"entity_id"`
	EntityName      string         `json:"entity_name"`
	EntityType      HierarchyLevel `json:"entity_type"`
	TotalSessions   int            `json:"total_sessions"`
	AverageScore    float64        `json:"average_score"`
	CompletionRate  float64        `json:"completion_rate"`
	ImprovementRate float64        `json:"improvement_rate"` // plans per session, not a percentage
	Ranking         int            `json:"ranking"`
}

// SubjectAggregate is the raw per-subject row.
type SubjectAggregate struct {
	Subject           string  `db:"subject"`
	TotalSessions     int     `db:"total_sessions"`
	CompletedSessions int     `db:"completed_sessions"`
	ScoreSum          float64 `db:"score_sum"`
	ResponseCount     int     `db:"response_count"`
}

// SubjectPerformance summarises one subject.
type SubjectPerformance struct {
	Subject        string  `json:"subject"`
	TotalSessions  int     `json:"total_sessions"`
	AverageScore   float64 `json:"average_score"`
	CompletionRate float64 `json:"completion_rate"`
}

// RealtimeSnapshot holds today's metrics.
type RealtimeSnapshot struct {
	Date        string             `json:"date"`
	Metrics     PerformanceMetrics `json:"metrics"`
	GeneratedAt time.Time          `json:"generated_at"`
}

// AnalyticsOverview bundles metrics, key trends and generated guidance.
type AnalyticsOverview struct {
	Metrics         PerformanceMetrics `json:"metrics"`
	Trends          []TrendAnalysis    `json:"trends"`
	Insights        []Insight          `json:"insights"`
	Alerts          []Alert            `json:"alerts"`
	Recommendations []Recommendation   `json:"recommendations"`
	GeneratedAt     time.Time          `json:"generated_at"`
}
