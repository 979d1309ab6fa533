package models

import "time"

// Impact orders insights.
type Impact string

const (
	ImpactHigh   Impact = "high"
	ImpactMedium Impact = "medium"
	ImpactLow    Impact = "low"
)

// AlertLevel orders alerts.
type AlertLevel string

const (
	AlertCritical AlertLevel = "critical"
	AlertWarning  AlertLevel = "warning"
	AlertInfo     AlertLevel = "info"
)

// Priority orders recommendations.
type Priority string

const (
	PriorityHigh   Priority = "high"
	PriorityMedium Priority = "medium"
	PriorityLow    Priority = "low"
)

// Insight is a generated observation about metrics or trends.
type Insight struct {
	ID          string        `json:"id"`
	Type        string        `json:"type"`
	Title       LocalizedText `json:"title"`
	Description LocalizedText `json:"description"`
	Impact      Impact        `json:"impact"`
	Actionable  bool          `json:"actionable"`
	Metric      MetricID      `json:"metric,omitempty"`
	Value       float64       `json:"value"`
}

// Alert is a threshold breach that needs attention.
type Alert struct {
	ID        string        `json:"id"`
	Level     AlertLevel    `json:"level"`
	Title     LocalizedText `json:"title"`
	Message   LocalizedText `json:"message"`
	Metric    MetricID      `json:"metric,omitempty"`
	Value     float64       `json:"value"`
	Threshold float64       `json:"threshold"`
	CreatedAt time.Time     `json:"created_at"`
}

// Recommendation is a suggested action.
type Recommendation struct {
	ID          string          `json:"id"`
	Category    string          `json:"category"`
	Priority    Priority        `json:"priority"`
	Title       LocalizedText   `json:"title"`
	Description LocalizedText   `json:"description"`
	Actions     []LocalizedText `json:"actions"`
}
