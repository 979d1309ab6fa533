package models

// SettingKey is an allowlisted preference key.
type SettingKey string

const (
	SettingDashboardDefaultPeriod SettingKey = "dashboard.default_period"
	SettingReportsLocale          SettingKey = "reports.locale"
)

// Setting is a per-actor preference value.
type Setting struct {
	Key   SettingKey `json:"key"`
	Value string     `json:"value"`
}
