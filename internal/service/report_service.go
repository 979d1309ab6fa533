package service

import (
	"context"
	"errors"
	"fmt"

	"github.com/google/uuid"
	"github.com/jonboulle/clockwork"
	"go.uber.org/zap"
	"golang.org/x/sync/errgroup"

	"github.com/noah-isme/observation-analytics-api/internal/models"
	appErrors "github.com/noah-isme/observation-analytics-api/pkg/errors"
)

const (
	reportTrendPeriods      = 12
	reportComparisonTopN    = 5
	reportSummaryHighlights = 5
)

var defaultReportLevel = models.LevelSchool

func section(t models.SectionType, required, configurable bool) models.ReportSection {
	return models.ReportSection{ID: string(t), Type: t, Required: required, Configurable: configurable}
}

var reportTemplates = []models.ReportTemplate{
	{
		ID:          models.TemplateSummary,
		Name:        models.LocalizedText{En: "Summary Report", Km: "របាយការណ៍សង្ខេប"},
		Description: models.LocalizedText{En: "Key metrics with a short summary", Km: "សូចនាករសំខាន់ៗ និងសេចក្តីសង្ខេប"},
		Sections: []models.ReportSection{
			section(models.SectionMetrics, true, false),
			section(models.SectionTrends, false, false),
			section(models.SectionSummary, true, false),
		},
	},
	{
		ID:          models.TemplateDetailed,
		Name:        models.LocalizedText{En: "Detailed Report", Km: "របាយការណ៍លម្អិត"},
		Description: models.LocalizedText{En: "Metrics, trends, geographic and subject breakdowns", Km: "សូចនាករ និន្នាការ ភូមិសាស្ត្រ និងមុខវិជ្ជា"},
		Sections: []models.ReportSection{
			section(models.SectionMetrics, true, false),
			section(models.SectionTrends, true, false),
			section(models.SectionGeographic, false, true),
			section(models.SectionSubjects, false, false),
			section(models.SectionSummary, true, false),
		},
	},
	{
		ID:          models.TemplateTrend,
		Name:        models.LocalizedText{En: "Trend Report", Km: "របាយការណ៍និន្នាការ"},
		Description: models.LocalizedText{En: "Monthly trends with forecasts", Km: "និន្នាការប្រចាំខែ និងការព្យាករណ៍"},
		Sections: []models.ReportSection{
			section(models.SectionMetrics, true, false),
			section(models.SectionTrends, true, true),
			section(models.SectionSummary, true, false),
		},
	},
	{
		ID:          models.TemplateComparison,
		Name:        models.LocalizedText{En: "Comparison Report", Km: "របាយការណ៍ប្រៀបធៀប"},
		Description: models.LocalizedText{En: "Ranking and benchmarking across entities", Km: "ចំណាត់ថ្នាក់ និងការប្រៀបធៀប"},
		Sections: []models.ReportSection{
			section(models.SectionGeographic, true, true),
			section(models.SectionComparison, true, true),
			section(models.SectionSummary, true, false),
		},
	},
}

var customReportName = models.LocalizedText{En: "Custom Report", Km: "របាយការណ៍ផ្ទាល់ខ្លួន"}

func templateNames() []string {
	out := make([]string, len(reportTemplates))
	for i, t := range reportTemplates {
		out[i] = string(t.ID)
	}
	return out
}

func lookupTemplate(raw string) (models.ReportTemplate, error) {
	for _, t := range reportTemplates {
		if string(t.ID) == raw {
			return t, nil
		}
	}
	return models.ReportTemplate{}, appErrors.InvalidArgument("templateId", raw, templateNames())
}

type subjectsProvider interface {
	Subjects(ctx context.Context, scope models.ScopePredicate, filter models.MetricFilter) ([]models.SubjectPerformance, error)
}

type entityComparer interface {
	Compare(ctx context.Context, aud Audience, filter models.MetricFilter, req ComparisonRequest) (*models.ComparisonAnalysis, error)
}

type reportRenderer interface {
	Render(report *models.ReportData, format models.ReportFormat, locale string) (*models.ReportFile, error)
}

// ReportRequest describes a report to assemble and export.
type ReportRequest struct {
	TemplateID string
	Sections   []string
	Filter     models.MetricFilter
	Format     string
	EntityType string
	EntityIDs  []string
	Locale     string
}

// ReportServiceConfig configures report framing.
type ReportServiceConfig struct {
	DefaultLocale    string
	OrganizationName string
}

// ReportServiceParams groups constructor dependencies.
type ReportServiceParams struct {
	Analytics   metricsComputer
	Geographic  geographicRanker
	Subjects    subjectsProvider
	Trends      trendAnalyzer
	Comparison  entityComparer
	Guidance    guidanceGenerator
	Exporter    reportRenderer
	Preferences preferenceReader
	Metrics     *MetricsService
	Clock       clockwork.Clock
	Logger      *zap.Logger
	Config      ReportServiceConfig
}

// ReportService assembles template-driven reports and hands them to the exporter.
type ReportService struct {
	analytics   metricsComputer
	geographic  geographicRanker
	subjects    subjectsProvider
	trends      trendAnalyzer
	comparison  entityComparer
	guidance    guidanceGenerator
	exporter    reportRenderer
	preferences preferenceReader
	metrics     *MetricsService
	clock       clockwork.Clock
	logger      *zap.Logger
	cfg         ReportServiceConfig
}

// NewReportService constructs a ReportService.
func NewReportService(params ReportServiceParams) *ReportService {
	cfg := params.Config
	if cfg.DefaultLocale != "km" {
		cfg.DefaultLocale = "en"
	}
	logger := params.Logger
	if logger == nil {
		logger = zap.NewNop()
	}
	clock := params.Clock
	if clock == nil {
		clock = clockwork.NewRealClock()
	}
	return &ReportService{
		analytics:   params.Analytics,
		geographic:  params.Geographic,
		subjects:    params.Subjects,
		trends:      params.Trends,
		comparison:  params.Comparison,
		guidance:    params.Guidance,
		exporter:    params.Exporter,
		preferences: params.Preferences,
		metrics:     params.Metrics,
		clock:       clock,
		logger:      logger,
		cfg:         cfg,
	}
}

// Templates lists the templates the audience may generate.
func (s *ReportService) Templates(aud Audience) []models.ReportTemplate {
	out := make([]models.ReportTemplate, 0, len(reportTemplates))
	for _, t := range reportTemplates {
		if aud.Capability.CanUseTemplate(t.ID) {
			out = append(out, t)
		}
	}
	return out
}

// Generate assembles a fixed template and exports it.
func (s *ReportService) Generate(ctx context.Context, aud Audience, req ReportRequest) (*models.ReportFile, error) {
	format, err := parseReportFormat(req.Format)
	if err != nil {
		return nil, err
	}
	tmpl, err := lookupTemplate(req.TemplateID)
	if err != nil {
		return nil, err
	}
	if !aud.Capability.CanUseTemplate(tmpl.ID) {
		return nil, appErrors.Clone(appErrors.ErrForbidden, fmt.Sprintf("role %s may not generate the %s report", aud.Actor.Role, tmpl.ID))
	}
	locale, err := s.locale(ctx, aud, req.Locale)
	if err != nil {
		return nil, err
	}
	report, err := s.Assemble(ctx, aud, tmpl.ID, tmpl.Name.Pick(locale), tmpl.Sections, req)
	if err != nil {
		return nil, err
	}
	return s.export(report, format, locale)
}

// GenerateCustom assembles a caller-chosen list of sections. Every listed section is required.
func (s *ReportService) GenerateCustom(ctx context.Context, aud Audience, req ReportRequest) (*models.ReportFile, error) {
	format, err := parseReportFormat(req.Format)
	if err != nil {
		return nil, err
	}
	sections, err := customSections(req.Sections)
	if err != nil {
		return nil, err
	}
	if !aud.Capability.CanUseTemplate(models.TemplateDetailed) {
		return nil, appErrors.Clone(appErrors.ErrForbidden, fmt.Sprintf("role %s may not generate custom reports", aud.Actor.Role))
	}
	locale, err := s.locale(ctx, aud, req.Locale)
	if err != nil {
		return nil, err
	}
	report, err := s.Assemble(ctx, aud, "", customReportName.Pick(locale), sections, req)
	if err != nil {
		return nil, err
	}
	return s.export(report, format, locale)
}

func (s *ReportService) export(report *models.ReportData, format models.ReportFormat, locale string) (*models.ReportFile, error) {
	file, err := s.exporter.Render(report, format, locale)
	if err != nil {
		return nil, err
	}
	template := string(report.TemplateID)
	if template == "" {
		template = "custom"
	}
	s.metrics.RecordReport(template, string(format))
	s.logger.Info("report generated",
		zap.String("report_id", report.ID),
		zap.String("template", template),
		zap.String("format", string(format)),
		zap.Int("bytes", len(file.Body)),
	)
	return file, nil
}

func customSections(raw []string) ([]models.ReportSection, error) {
	if len(raw) == 0 {
		return nil, appErrors.Clone(appErrors.ErrValidation, "sections must name at least one section")
	}
	seen := make(map[models.SectionType]bool, len(raw))
	out := make([]models.ReportSection, 0, len(raw))
	wantSummary := false
	for _, name := range raw {
		t, ok := models.ParseSectionType(name)
		if !ok {
			return nil, appErrors.InvalidArgument("section", name, models.SectionTypeNames())
		}
		if seen[t] {
			continue
		}
		seen[t] = true
		if t == models.SectionSummary {
			wantSummary = true
			continue
		}
		out = append(out, section(t, true, true))
	}
	if wantSummary {
		out = append(out, section(models.SectionSummary, true, false))
	}
	return out, nil
}

func (s *ReportService) locale(ctx context.Context, aud Audience, requested string) (string, error) {
	switch requested {
	case "en", "km":
		return requested, nil
	case "":
	default:
		return "", appErrors.InvalidArgument("locale", requested, []string{"en", "km"})
	}
	if s.preferences != nil {
		value, ok, err := s.preferences.Preference(ctx, aud.Actor.ID, models.SettingReportsLocale)
		if err != nil {
			s.logger.Warn("failed to read report locale preference", zap.String("actor_id", aud.Actor.ID), zap.Error(err))
		} else if ok && (value == "en" || value == "km") {
			return value, nil
		}
	}
	return s.cfg.DefaultLocale, nil
}

// Assemble runs each section in order. The summary section always runs last so it can read the
// sections computed before it. A failing optional section is logged and left out of the report.
func (s *ReportService) Assemble(ctx context.Context, aud Audience, templateID models.ReportTemplateID, name string, sections []models.ReportSection, req ReportRequest) (*models.ReportData, error) {
	title := name
	if s.cfg.OrganizationName != "" {
		title = s.cfg.OrganizationName + " - " + name
	}
	generatedBy := aud.Actor.Name
	if generatedBy == "" {
		generatedBy = aud.Actor.ID
	}
	report := &models.ReportData{
		ID:          uuid.NewString(),
		TemplateID:  templateID,
		Title:       title,
		GeneratedAt: s.clock.Now(),
		GeneratedBy: generatedBy,
		Filter:      req.Filter,
	}

	var summary *models.ReportSection
	for i := range sections {
		sec := sections[i]
		if sec.Type == models.SectionSummary {
			summary = &sec
			continue
		}
		if err := s.runSection(ctx, aud, report, sec, req); err != nil {
			if err := s.sectionFailed(report, sec, err); err != nil {
				return nil, err
			}
			continue
		}
		report.Sections = append(report.Sections, sec)
	}
	if summary != nil {
		if err := s.buildSummary(ctx, aud, report, req); err != nil {
			if err := s.sectionFailed(report, *summary, err); err != nil {
				return nil, err
			}
		} else {
			report.Sections = append(report.Sections, *summary)
		}
	}
	return report, nil
}

func (s *ReportService) sectionFailed(report *models.ReportData, sec models.ReportSection, err error) error {
	s.metrics.RecordSectionFailure(sec.ID, sec.Required)
	if !sec.Required {
		s.logger.Warn("omitting optional report section", zap.String("report_id", report.ID), zap.String("section", sec.ID), zap.Error(err))
		return nil
	}
	if errors.Is(err, appErrors.ErrInvalidArgument) || errors.Is(err, appErrors.ErrForbidden) || errors.Is(err, appErrors.ErrUnprocessable) {
		return err
	}
	s.logger.Error("required report section failed", zap.String("report_id", report.ID), zap.String("section", sec.ID), zap.Error(err))
	return appErrors.Wrap(err, appErrors.ErrUnprocessable.Code, appErrors.ErrUnprocessable.Status, fmt.Sprintf("required section %s could not be produced", sec.ID))
}

func (s *ReportService) runSection(ctx context.Context, aud Audience, report *models.ReportData, sec models.ReportSection, req ReportRequest) error {
	switch sec.Type {
	case models.SectionMetrics:
		metrics, err := s.analytics.Metrics(ctx, aud.Scope, req.Filter)
		if err != nil {
			return err
		}
		report.Metrics = metrics
	case models.SectionTrends:
		trends, err := s.keyTrends(ctx, aud.Scope, req.Filter)
		if err != nil {
			return err
		}
		report.Trends = trends
	case models.SectionGeographic:
		rows, err := s.geographic.Geographic(ctx, aud, req.Filter, reportEntityType(req))
		if err != nil {
			return err
		}
		report.Geographic = rows
	case models.SectionSubjects:
		rows, err := s.subjects.Subjects(ctx, aud.Scope, req.Filter)
		if err != nil {
			return err
		}
		report.Subjects = rows
	case models.SectionComparison:
		return s.comparisonSection(ctx, aud, report, req)
	}
	return nil
}

func reportEntityType(req ReportRequest) string {
	if req.EntityType == "" {
		return string(defaultReportLevel)
	}
	return req.EntityType
}

func (s *ReportService) keyTrends(ctx context.Context, scope models.ScopePredicate, filter models.MetricFilter) ([]models.TrendAnalysis, error) {
	trends := make([]models.TrendAnalysis, len(keyTrendMetrics))
	g, gctx := errgroup.WithContext(ctx)
	for i, metric := range keyTrendMetrics {
		i, metric := i, metric
		g.Go(func() error {
			trend, err := s.trends.AnalyzeTrend(gctx, scope, filter, TrendRequest{
				Metric:            string(metric),
				Granularity:       string(models.GranularityMonthly),
				Periods:           reportTrendPeriods,
				IncludePrediction: true,
			})
			if err != nil {
				return err
			}
			trends[i] = *trend
			return nil
		})
	}
	if err := g.Wait(); err != nil {
		return nil, err
	}
	return trends, nil
}

// comparisonSection compares the requested entities, or the leading rows of the geographic
// breakdown when none are named.
func (s *ReportService) comparisonSection(ctx context.Context, aud Audience, report *models.ReportData, req ReportRequest) error {
	ids := req.EntityIDs
	if len(ids) == 0 {
		rows := report.Geographic
		if rows == nil {
			var err error
			rows, err = s.geographic.Geographic(ctx, aud, req.Filter, reportEntityType(req))
			if err != nil {
				return err
			}
		}
		for i, row := range rows {
			if i == reportComparisonTopN {
				break
			}
			ids = append(ids, row.EntityID)
		}
	}
	if len(ids) == 0 {
		return appErrors.Clone(appErrors.ErrUnprocessable, "no entities in scope to compare")
	}
	analysis, err := s.comparison.Compare(ctx, aud, req.Filter, ComparisonRequest{
		EntityIDs:  ids,
		EntityType: reportEntityType(req),
	})
	if err != nil {
		return err
	}
	report.Comparison = analysis
	return nil
}

// buildSummary reads the sections already on the report and only computes metrics itself when
// the report has none.
func (s *ReportService) buildSummary(ctx context.Context, aud Audience, report *models.ReportData, req ReportRequest) error {
	metrics := report.Metrics
	if metrics == nil {
		var err error
		metrics, err = s.analytics.Metrics(ctx, aud.Scope, req.Filter)
		if err != nil {
			return err
		}
	}
	summary := &models.ReportSummary{
		TotalSessions:  metrics.TotalSessions,
		AverageScore:   metrics.AverageScore,
		CompletionRate: metrics.CompletionRate,
		Highlights:     []models.LocalizedText{},
	}
	if len(report.Trends) > 0 {
		summary.TrendDirections = make(map[models.MetricID]models.TrendDirection, len(report.Trends))
		for _, t := range report.Trends {
			summary.TrendDirections[t.Metric] = t.Direction
		}
	}
	switch {
	case len(report.Geographic) > 0:
		summary.TopEntity = report.Geographic[0].EntityName
	case report.Comparison != nil && len(report.Comparison.Rankings) > 0:
		summary.TopEntity = report.Comparison.Rankings[0].Name
	}
	for _, insight := range s.guidance.Generate(*metrics, report.Trends).Insights {
		if len(summary.Highlights) == reportSummaryHighlights {
			break
		}
		summary.Highlights = append(summary.Highlights, insight.Title)
	}
	report.Summary = summary
	return nil
}
