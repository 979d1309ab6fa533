package models

import "time"

// ReportTemplateID names a fixed report template.
type ReportTemplateID string

const (
	TemplateSummary    ReportTemplateID = "summary"
	TemplateDetailed   ReportTemplateID = "detailed"
	TemplateTrend      ReportTemplateID = "trend"
	TemplateComparison ReportTemplateID = "comparison"
)

// SectionType selects the component that fills a report section.
type SectionType string

const (
	SectionMetrics    SectionType = "metrics"
	SectionTrends     SectionType = "trends"
	SectionGeographic SectionType = "geographic"
	SectionSubjects   SectionType = "subjects"
	SectionComparison SectionType = "comparison"
	SectionSummary    SectionType = "summary"
)

// SectionTypes lists the known section types.
var SectionTypes = []SectionType{SectionMetrics, SectionTrends, SectionGeographic, SectionSubjects, SectionComparison, SectionSummary}

// ParseSectionType resolves a section type name.
func ParseSectionType(value string) (SectionType, bool) {
	for _, s := range SectionTypes {
		if string(s) == value {
			return s, true
		}
	}
	return "", false
}

// SectionTypeNames returns the names for error messages.
func SectionTypeNames() []string {
	out := make([]string, len(SectionTypes))
	for i, s := range SectionTypes {
		out[i] = string(s)
	}
	return out
}

// ReportFormat enumerates supported export formats.
type ReportFormat string

const (
	ReportFormatTabular     ReportFormat = "tabular"
	ReportFormatSpreadsheet ReportFormat = "spreadsheet"
	ReportFormatDocument    ReportFormat = "document"
)

// ReportFormats lists the supported formats.
var ReportFormats = []ReportFormat{ReportFormatTabular, ReportFormatSpreadsheet, ReportFormatDocument}

// ParseReportFormat resolves a format name.
func ParseReportFormat(value string) (ReportFormat, bool) {
	for _, f := range ReportFormats {
		if string(f) == value {
			return f, true
		}
	}
	return "", false
}

// ReportFormatNames returns the names for error messages.
func ReportFormatNames() []string {
	out := make([]string, len(ReportFormats))
	for i, f := range ReportFormats {
		out[i] = string(f)
	}
	return out
}

// ReportSection is one ordered entry of a template.
type ReportSection struct {
	ID           string      `json:"id"`
	Type         SectionType `json:"type"`
	Required     bool        `json:"required"`
	Configurable bool        `json:"configurable"`
}

// ReportTemplate is a named ordered set of sections.
type ReportTemplate struct {
	ID          ReportTemplateID `json:"id"`
	Name        LocalizedText    `json:"name"`
	Description LocalizedText    `json:"description"`
	Sections    []ReportSection  `json:"sections"`
}

// ReportSummary is built last and references the other sections of the same report.
type ReportSummary struct {
	TotalSessions   int                         `json:"total_sessions"`
	AverageScore    float64                     `json:"average_score"`
	CompletionRate  float64                     `json:"completion_rate"`
	TrendDirections map[MetricID]TrendDirection `json:"trend_directions,omitempty"`
	TopEntity       string                      `json:"top_entity,omitempty"`
	Highlights      []LocalizedText             `json:"highlights"`
}

// ReportData is the assembled, renderer-neutral report.
type ReportData struct {
	ID          string                  `json:"id"`
	TemplateID  ReportTemplateID        `json:"template_id,omitempty"`
	Title       string                  `json:"title"`
	GeneratedAt time.Time               `json:"generated_at"`
	GeneratedBy string                  `json:"generated_by"`
	Filter      MetricFilter            `json:"filter"`
	Sections    []ReportSection         `json:"sections"`
	Metrics     *PerformanceMetrics     `json:"metrics,omitempty"`
	Trends      []TrendAnalysis         `json:"trends,omitempty"`
	Geographic  []GeographicPerformance `json:"geographic,omitempty"`
	Subjects    []SubjectPerformance    `json:"subjects,omitempty"`
	Comparison  *ComparisonAnalysis     `json:"comparison,omitempty"`
	Summary     *ReportSummary          `json:"summary,omitempty"`
}

// ReportFile is a rendered report ready for download.
type ReportFile struct {
	ReportID    string       `json:"report_id"`
	Format      ReportFormat `json:"format"`
	Filename    string       `json:"filename"`
	ContentType string       `json:"content_type"`
	Body        []byte       `json:"-"`
}
