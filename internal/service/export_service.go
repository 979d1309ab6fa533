package service

import (
	"errors"
	"fmt"
	"strconv"
	"strings"
	"time"

	"go.uber.org/zap"

	"github.com/noah-isme/observation-analytics-api/internal/models"
	appErrors "github.com/noah-isme/observation-analytics-api/pkg/errors"
	"github.com/noah-isme/observation-analytics-api/pkg/export"
)

type formatSpec struct {
	extension   string
	contentType string
}

var formatSpecs = map[models.ReportFormat]formatSpec{
	models.ReportFormatTabular:     {extension: "csv", contentType: "text/csv; charset=utf-8"},
	models.ReportFormatSpreadsheet: {extension: "xlsx", contentType: "application/vnd.openxmlformats-officedocument.spreadsheetml.sheet"},
	models.ReportFormatDocument:    {extension: "pdf", contentType: "application/pdf"},
}

// ExportService serializes assembled reports. It only formats data already present on the report.
type ExportService struct {
	renderers map[models.ReportFormat]export.Renderer
	logger    *zap.Logger
}

// NewExportService constructs an ExportService. Nil renderers fall back to the built-in exporters.
func NewExportService(csv, xlsx, pdf export.Renderer, logger *zap.Logger) *ExportService {
	if csv == nil {
		csv = export.NewCSVExporter()
	}
	if xlsx == nil {
		xlsx = export.NewXLSXExporter()
	}
	if pdf == nil {
		pdf = export.NewPDFExporter()
	}
	if logger == nil {
		logger = zap.NewNop()
	}
	return &ExportService{
		renderers: map[models.ReportFormat]export.Renderer{
			models.ReportFormatTabular:     csv,
			models.ReportFormatSpreadsheet: xlsx,
			models.ReportFormatDocument:    pdf,
		},
		logger: logger,
	}
}

func parseReportFormat(raw string) (models.ReportFormat, error) {
	format, ok := models.ParseReportFormat(raw)
	if !ok {
		return "", appErrors.InvalidArgument("format", raw, models.ReportFormatNames())
	}
	return format, nil
}

// Render serializes the report in the requested format.
func (s *ExportService) Render(report *models.ReportData, format models.ReportFormat, locale string) (*models.ReportFile, error) {
	renderer, ok := s.renderers[format]
	if !ok {
		return nil, appErrors.InvalidArgument("format", string(format), models.ReportFormatNames())
	}
	body, err := renderer.Render(BuildDocument(report, locale))
	if errors.Is(err, export.ErrUnsupportedText) {
		s.logger.Warn("report text not renderable in format", zap.String("report_id", report.ID), zap.String("format", string(format)), zap.String("locale", locale), zap.Error(err))
		return nil, appErrors.Wrap(err, appErrors.ErrInvalidArgument.Code, appErrors.ErrInvalidArgument.Status,
			fmt.Sprintf("format %s cannot render locale %s without a unicode font; configure REPORTS_PDF_FONT_PATH or choose another format", format, locale))
	}
	if err != nil {
		s.logger.Error("failed to render report", zap.String("report_id", report.ID), zap.String("format", string(format)), zap.Error(err))
		return nil, appErrors.Wrap(err, appErrors.ErrInternal.Code, appErrors.ErrInternal.Status, "failed to render report")
	}
	spec := formatSpecs[format]
	return &models.ReportFile{
		ReportID:    report.ID,
		Format:      format,
		Filename:    reportFilename(report, spec.extension),
		ContentType: spec.contentType,
		Body:        body,
	}, nil
}

func reportFilename(report *models.ReportData, ext string) string {
	name := string(report.TemplateID)
	if name == "" {
		name = "custom"
	}
	return fmt.Sprintf("report_%s_%s.%s", name, report.GeneratedAt.UTC().Format("20060102_150405"), ext)
}

func formatFloat(v float64) string {
	return strconv.FormatFloat(v, 'f', 2, 64)
}

func formatInt(v int) string {
	return strconv.Itoa(v)
}

func formatDate(t *time.Time) string {
	if t == nil {
		return ""
	}
	return t.Format("2006-01-02")
}

// BuildDocument maps a report onto the renderer-neutral document, in section order.
// Headings follow the report locale so every format carries the same text.
func BuildDocument(report *models.ReportData, locale string) export.Document {
	doc := export.Document{
		Title: report.Title,
		Fields: []export.Field{
			{Label: label("Report ID", locale), Value: report.ID},
			{Label: label("Generated At", locale), Value: report.GeneratedAt.UTC().Format(time.RFC3339)},
			{Label: label("Generated By", locale), Value: report.GeneratedBy},
		},
	}
	doc.Fields = append(doc.Fields, filterFields(report.Filter, locale)...)

	for _, section := range report.Sections {
		switch section.Type {
		case models.SectionMetrics:
			if report.Metrics != nil {
				doc.Datasets = append(doc.Datasets, metricsDataset(*report.Metrics, locale), indicatorsDataset(*report.Metrics, locale))
			}
		case models.SectionTrends:
			if len(report.Trends) > 0 {
				doc.Datasets = append(doc.Datasets, trendsDataset(report.Trends, locale))
				if insights := trendInsightsDataset(report.Trends, locale); len(insights.Rows) > 0 {
					doc.Datasets = append(doc.Datasets, insights)
				}
			}
		case models.SectionGeographic:
			if len(report.Geographic) > 0 {
				doc.Datasets = append(doc.Datasets, geographicDataset(report.Geographic, locale))
			}
		case models.SectionSubjects:
			if len(report.Subjects) > 0 {
				doc.Datasets = append(doc.Datasets, subjectsDataset(report.Subjects, locale))
			}
		case models.SectionComparison:
			if report.Comparison != nil {
				doc.Datasets = append(doc.Datasets, comparisonDatasets(*report.Comparison, locale)...)
			}
		case models.SectionSummary:
			if report.Summary != nil {
				doc.Datasets = append(doc.Datasets, summaryDataset(*report.Summary, locale))
			}
		}
	}
	return doc
}

func filterFields(f models.MetricFilter, locale string) []export.Field {
	var fields []export.Field
	if f.DateFrom != nil || f.DateTo != nil {
		fields = append(fields, export.Field{
			Label: label("Period", locale),
			Value: strings.TrimSpace(formatDate(f.DateFrom) + " - " + formatDate(f.DateTo)),
		})
	}
	lists := []struct {
		key    string
		values []string
	}{
		{"Grades", f.Grades},
		{"Subjects", f.Subjects},
		{"Statuses", f.Statuses},
		{"Observers", f.ObserverIDs},
	}
	for _, l := range lists {
		if len(l.values) > 0 {
			fields = append(fields, export.Field{Label: label(l.key, locale), Value: strings.Join(l.values, ", ")})
		}
	}
	return fields
}

// table builds a dataset whose headings are localised once; rows are positional.
type table struct {
	ds export.Dataset
}

func newTable(locale, name string, headers ...string) *table {
	t := &table{ds: export.Dataset{Name: label(name, locale)}}
	for _, h := range headers {
		t.ds.Headers = append(t.ds.Headers, label(h, locale))
	}
	return t
}

func (t *table) add(values ...string) {
	row := make(map[string]string, len(t.ds.Headers))
	for i, h := range t.ds.Headers {
		if i < len(values) {
			row[h] = values[i]
		}
	}
	t.ds.Rows = append(t.ds.Rows, row)
}

func metricsDataset(m models.PerformanceMetrics, locale string) export.Dataset {
	t := newTable(locale, "Metrics", "Metric", "Value")
	t.add(label("Total Sessions", locale), formatInt(m.TotalSessions))
	t.add(label("Completed Sessions", locale), formatInt(m.CompletedSessions))
	t.add(label("Average Score", locale), formatFloat(m.AverageScore))
	t.add(label("Completion Rate", locale), formatFloat(m.CompletionRate))
	t.add(label("Improvement Plans", locale), formatInt(m.ImprovementPlans))
	t.add(label("Active Users", locale), formatInt(m.ActiveUsers))
	t.add(label("Average Duration", locale), formatFloat(m.AverageDuration))
	return t.ds
}

func indicatorsDataset(m models.PerformanceMetrics, locale string) export.Dataset {
	t := newTable(locale, "Indicators", "Group", "Indicator", "Average Score", "Responses", "Improvement Needed")
	add := func(group string, rows []models.IndicatorPerformance) {
		for _, ind := range rows {
			name := ind.IndicatorName
			if locale == "km" && ind.IndicatorNameKm != "" {
				name = ind.IndicatorNameKm
			}
			t.add(label(group, locale), name, formatFloat(ind.AverageScore), formatInt(ind.ResponseCount), strconv.FormatBool(ind.ImprovementNeeded))
		}
	}
	add("Top", m.TopIndicators)
	add("Bottom", m.BottomIndicators)
	return t.ds
}

func trendsDataset(trends []models.TrendAnalysis, locale string) export.Dataset {
	t := newTable(locale, "Trends", "Metric", "Period", "Value", "Change %", "Direction", "Confidence")
	for _, tr := range trends {
		name := tr.Name.Pick(locale)
		for _, p := range tr.Series.Points {
			t.add(name, p.Period, formatFloat(p.Value), formatFloat(p.ChangePercent), string(p.Direction), "")
		}
		if tr.Prediction != nil && !tr.Prediction.NoData {
			t.add(name,
				fmt.Sprintf("%s (%s)", tr.Prediction.NextPeriod, label("forecast", locale)),
				formatFloat(tr.Prediction.PredictedValue),
				"",
				string(tr.Prediction.Direction),
				formatFloat(tr.Prediction.Confidence),
			)
		}
	}
	return t.ds
}

func trendInsightsDataset(trends []models.TrendAnalysis, locale string) export.Dataset {
	t := newTable(locale, "Trend Insights", "Metric", "Type", "Severity", "Period", "Message")
	for _, tr := range trends {
		for _, in := range tr.Insights {
			t.add(tr.Name.Pick(locale), string(in.Type), string(in.Severity), in.Period, in.Message.Pick(locale))
		}
	}
	return t.ds
}

func geographicDataset(rows []models.GeographicPerformance, locale string) export.Dataset {
	t := newTable(locale, "Geographic", "Rank", "Entity", "Type", "Sessions", "Average Score", "Completion Rate", "Improvement Rate")
	for _, r := range rows {
		t.add(formatInt(r.Ranking), r.EntityName, string(r.EntityType), formatInt(r.TotalSessions),
			formatFloat(r.AverageScore), formatFloat(r.CompletionRate), formatFloat(r.ImprovementRate))
	}
	return t.ds
}

func subjectsDataset(rows []models.SubjectPerformance, locale string) export.Dataset {
	t := newTable(locale, "Subjects", "Subject", "Sessions", "Average Score", "Completion Rate")
	for _, r := range rows {
		t.add(r.Subject, formatInt(r.TotalSessions), formatFloat(r.AverageScore), formatFloat(r.CompletionRate))
	}
	return t.ds
}

// comparisonDatasets exports the overall ranking, the entity by metric matrix,
// the per-metric statistics and the leader/laggard flags.
func comparisonDatasets(c models.ComparisonAnalysis, locale string) []export.Dataset {
	names := make(map[string]string, len(c.Entities))
	for _, e := range c.Entities {
		names[e.ID] = e.Name
	}
	name := func(id string) string {
		if n, ok := names[id]; ok && n != "" {
			return n
		}
		return id
	}
	metricName := func(id models.MetricID) string {
		for _, m := range c.Metrics {
			if m.Metric == id && m.Name.En != "" {
				return m.Name.Pick(locale)
			}
		}
		return metricLabel(id, locale)
	}

	ranking := newTable(locale, "Comparison", "Rank", "Entity", "Overall Score")
	ranks := make(map[string]map[models.MetricID]int, len(c.Rankings))
	for _, r := range c.Rankings {
		ranking.add(formatInt(r.Rank), name(r.EntityID), formatFloat(r.OverallScore))
		ranks[r.EntityID] = r.MetricRanks
	}

	values := newTable(locale, "Comparison Values", "Entity", "Metric", "Value", "Metric Rank")
	for _, e := range c.Entities {
		for _, m := range c.Metrics {
			v, ok := e.Metrics[m.Metric]
			if !ok {
				continue
			}
			rank := ""
			if r, ok := ranks[e.ID][m.Metric]; ok {
				rank = formatInt(r)
			}
			values.add(name(e.ID), metricName(m.Metric), formatFloat(v), rank)
		}
	}

	stats := newTable(locale, "Comparison Metrics", "Metric", "Best", "Best Entity", "Worst", "Worst Entity", "Average", "Std Dev")
	for _, m := range c.Metrics {
		stats.add(metricName(m.Metric), formatFloat(m.Best), name(m.BestID), formatFloat(m.Worst), name(m.WorstID),
			formatFloat(m.Average), formatFloat(m.StdDev))
	}

	flags := newTable(locale, "Comparison Flags", "Entity", "Metric", "Flag", "Value", "Mean", "Message")
	for _, in := range c.Insights {
		flag := label("Leader", locale)
		if in.Laggard {
			flag = label("Laggard", locale)
		}
		flags.add(name(in.EntityID), metricName(in.Metric), flag, formatFloat(in.Value), formatFloat(in.Mean), in.Message.Pick(locale))
	}

	return []export.Dataset{ranking.ds, values.ds, stats.ds, flags.ds}
}

func summaryDataset(s models.ReportSummary, locale string) export.Dataset {
	t := newTable(locale, "Summary", "Item", "Value")
	t.add(label("Total Sessions", locale), formatInt(s.TotalSessions))
	t.add(label("Average Score", locale), formatFloat(s.AverageScore))
	t.add(label("Completion Rate", locale), formatFloat(s.CompletionRate))
	for _, metric := range keyTrendMetrics {
		if dir, ok := s.TrendDirections[metric]; ok {
			t.add(label("Trend", locale)+": "+metricLabel(metric, locale), string(dir))
		}
	}
	if s.TopEntity != "" {
		t.add(label("Top Entity", locale), s.TopEntity)
	}
	for _, h := range s.Highlights {
		t.add(label("Highlight", locale), h.Pick(locale))
	}
	return t.ds
}
