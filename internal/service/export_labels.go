package service

import "github.com/noah-isme/observation-analytics-api/internal/models"

// exportLabels holds every heading printed by the exporters. Keys are the English text.
var exportLabels = map[string]string{
	"Report ID":          "លេខសម្គាល់របាយការណ៍",
	"Generated At":       "កាលបរិច្ឆេទបង្កើត",
	"Generated By":       "បង្កើតដោយ",
	"Period":             "រយៈពេល",
	"Grades":             "កម្រិតថ្នាក់",
	"Subjects":           "មុខវិជ្ជា",
	"Statuses":           "ស្ថានភាព",
	"Observers":          "អ្នកសង្កេត",
	"Metrics":            "រង្វាស់",
	"Metric":             "រង្វាស់",
	"Value":              "តម្លៃ",
	"Indicators":         "សូចនាករ",
	"Group":              "ក្រុម",
	"Indicator":          "សូចនាករ",
	"Average Score":      "ពិន្ទុមធ្យម",
	"Responses":          "ចំនួនចម្លើយ",
	"Improvement Needed": "ត្រូវការកែលម្អ",
	"Top":                "ខ្ពស់បំផុត",
	"Bottom":             "ទាបបំផុត",
	"Trends":             "និន្នាការ",
	"Change %":           "ការប្រែប្រួល %",
	"Direction":          "ទិសដៅ",
	"Confidence":         "កម្រិតទំនុកចិត្ត",
	"forecast":           "ការព្យាករ",
	"Trend Insights":     "ការយល់ដឹងពីនិន្នាការ",
	"Type":               "ប្រភេទ",
	"Severity":           "កម្រិតធ្ងន់ធ្ងរ",
	"Message":            "សារ",
	"Geographic":         "ភូមិសាស្ត្រ",
	"Rank":               "ចំណាត់ថ្នាក់",
	"Entity":             "អង្គភាព",
	"Sessions":           "វគ្គ",
	"Completion Rate":    "អត្រាបញ្ចប់",
	"Improvement Rate":   "អត្រាកែលម្អ",
	"Subject":            "មុខវិជ្ជា",
	"Comparison":         "ការប្រៀបធៀប",
	"Overall Score":      "ពិន្ទុរួម",
	"Comparison Values":  "តម្លៃប្រៀបធៀប",
	"Metric Rank":        "ចំណាត់ថ្នាក់តាមរង្វាស់",
	"Comparison Metrics": "ស្ថិតិប្រៀបធៀប",
	"Best":               "ល្អបំផុត",
	"Best Entity":        "អង្គភាពល្អបំផុត",
	"Worst":              "ខ្សោយបំផុត",
	"Worst Entity":       "អង្គភាពខ្សោយបំផុត",
	"Average":            "មធ្យម",
	"Std Dev":            "គម្លាតស្តង់ដារ",
	"Comparison Flags":   "សញ្ញាប្រៀបធៀប",
	"Flag":               "សញ្ញា",
	"Leader":             "នាំមុខ",
	"Laggard":            "យឺតយ៉ាវ",
	"Mean":               "មធ្យមភាគ",
	"Summary":            "សេចក្តីសង្ខេប",
	"Item":               "ធាតុ",
	"Total Sessions":     "វគ្គសរុប",
	"Completed Sessions": "វគ្គបានបញ្ចប់",
	"Improvement Plans":  "ផែនការកែលម្អ",
	"Active Users":       "អ្នកប្រើសកម្ម",
	"Average Duration":   "រយៈពេលមធ្យម",
	"Trend":              "និន្នាការ",
	"Top Entity":         "អង្គភាពឈានមុខ",
	"Highlight":          "ចំណុចសំខាន់",
}

// label returns the heading for key in the report locale.
func label(key, locale string) string {
	if locale == "km" {
		if km, ok := exportLabels[key]; ok {
			return km
		}
	}
	return key
}

func metricLabel(id models.MetricID, locale string) string {
	if def, ok := models.LookupMetric(string(id)); ok {
		return def.Name.Pick(locale)
	}
	return string(id)
}
