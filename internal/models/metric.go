package models

// MetricKind selects how per-period values are aggregated.
type MetricKind string

const (
	MetricKindCount   MetricKind = "count"
	MetricKindAverage MetricKind = "average"
	MetricKindRatio   MetricKind = "ratio"
)

// MetricID names a metric in the catalogue.
type MetricID string

const (
	MetricSessionCount      MetricID = "session_count"
	MetricCompletedSessions MetricID = "completed_sessions"
	MetricAverageScore      MetricID = "average_score"
	MetricCompletionRate    MetricID = "completion_rate"
	MetricImprovementPlans  MetricID = "improvement_plans"
	MetricAverageDuration   MetricID = "average_duration"
)

// LocalizedText carries English and Khmer renditions of a message.
type LocalizedText struct {
	En string `json:"en"`
	Km string `json:"km"`
}

// Pick returns the text for the locale, falling back to English.
func (t LocalizedText) Pick(locale string) string {
	if locale == "km" && t.Km != "" {
		return t.Km
	}
	return t.En
}

// MetricDefinition describes a catalogue entry.
type MetricDefinition struct {
	ID   MetricID      `json:"id"`
	Name LocalizedText `json:"name"`
	Kind MetricKind    `json:"kind"`
}

// MetricCatalogue is ordered for stable listing.
var MetricCatalogue = []MetricDefinition{
	{ID: MetricSessionCount, Name: LocalizedText{En: "Observation Sessions", Km: "វគ្គសង្កេត"}, Kind: MetricKindCount},
	{ID: MetricCompletedSessions, Name: LocalizedText{En: "Completed Sessions", Km: "វគ្គបានបញ្ចប់"}, Kind: MetricKindCount},
	{ID: MetricAverageScore, Name: LocalizedText{En: "Average Score", Km: "ពិន្ទុមធ្យម"}, Kind: MetricKindAverage},
	{ID: MetricCompletionRate, Name: LocalizedText{En: "Completion Rate", Km: "អត្រាបញ្ចប់"}, Kind: MetricKindRatio},
	{ID: MetricImprovementPlans, Name: LocalizedText{En: "Improvement Plans", Km: "ផែនការកែលម្អ"}, Kind: MetricKindCount},
	{ID: MetricAverageDuration, Name: LocalizedText{En: "Average Duration (min)", Km: "រយៈពេលមធ្យម (នាទី)"}, Kind: MetricKindAverage},
}

// LookupMetric finds a catalogue entry.
func LookupMetric(id string) (MetricDefinition, bool) {
	for _, def := range MetricCatalogue {
		if string(def.ID) == id {
			return def, true
		}
	}
	return MetricDefinition{}, false
}

// MetricNames returns catalogue ids for error messages.
func MetricNames() []string {
	out := make([]string, len(MetricCatalogue))
	for i, def := range MetricCatalogue {
		out[i] = string(def.ID)
	}
	return out
}
