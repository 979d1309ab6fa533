package handler

import (
	"context"
	"net/http"
	"testing"

	"github.com/gin-gonic/gin"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/noah-isme/observation-analytics-api/internal/models"
	"github.com/noah-isme/observation-analytics-api/internal/service"
	appErrors "github.com/noah-isme/observation-analytics-api/pkg/errors"
)

type fakeReports struct {
	request service.ReportRequest
	err     error
}

func (f *fakeReports) Templates(aud service.Audience) []models.ReportTemplate {
	out := []models.ReportTemplate{}
	for _, id := range []models.ReportTemplateID{models.TemplateSummary, models.TemplateDetailed} {
		if aud.Capability.CanUseTemplate(id) {
			out = append(out, models.ReportTemplate{ID: id})
		}
	}
	return out
}

func (f *fakeReports) Generate(_ context.Context, _ service.Audience, req service.ReportRequest) (*models.ReportFile, error) {
	f.request = req
	if f.err != nil {
		return nil, f.err
	}
	return &models.ReportFile{Filename: "report_summary.csv", ContentType: "text/csv; charset=utf-8", Body: []byte("Summary Report\n")}, nil
}

func (f *fakeReports) GenerateCustom(_ context.Context, _ service.Audience, req service.ReportRequest) (*models.ReportFile, error) {
	f.request = req
	return &models.ReportFile{Filename: "report_custom.pdf", ContentType: "application/pdf", Body: []byte("%PDF-1.3")}, nil
}

func reportRouter(t *testing.T, role models.UserRole, svc *fakeReports) *gin.Engine {
	aud := testAudience(t, role)
	h := NewReportHandler(svc, nil)
	return newTestRouter(&aud, func(r gin.IRoutes) {
		r.GET("/reports/templates", h.Templates)
		r.POST("/reports/generate", h.Generate)
		r.POST("/reports/custom", h.Custom)
	})
}

func TestReportTemplatesFollowRole(t *testing.T) {
	rec := perform(reportRouter(t, models.RoleObserver, &fakeReports{}), http.MethodGet, "/reports/templates", nil)
	require.Equal(t, http.StatusOK, rec.Code)
	assert.JSONEq(t, `[{"id":"summary","name":{"en":"","km":""},"description":{"en":"","km":""},"sections":null}]`, string(decode(t, rec).Data))
}

func TestGenerateReportStreamsFile(t *testing.T) {
	svc := &fakeReports{}
	rec := perform(reportRouter(t, models.RoleAdmin, svc), http.MethodPost, "/reports/generate", map[string]interface{}{
		"templateId": "summary",
		"format":     "tabular",
		"filter":     map[string]interface{}{"dateFrom": "2024-01-01"},
	})

	require.Equal(t, http.StatusOK, rec.Code)
	assert.Equal(t, "text/csv; charset=utf-8", rec.Header().Get("Content-Type"))
	assert.Equal(t, `attachment; filename="report_summary.csv"`, rec.Header().Get("Content-Disposition"))
	assert.Equal(t, "Summary Report\n", rec.Body.String())
	assert.Equal(t, "summary", svc.request.TemplateID)
	require.NotNil(t, svc.request.Filter.DateFrom)
}

func TestGenerateReportErrors(t *testing.T) {
	svc := &fakeReports{err: appErrors.Clone(appErrors.ErrUnprocessable, "required section metrics could not be produced")}
	r := reportRouter(t, models.RoleAdmin, svc)

	rec := perform(r, http.MethodPost, "/reports/generate", map[string]interface{}{"templateId": "summary", "format": "tabular"})
	assert.Equal(t, http.StatusUnprocessableEntity, rec.Code)

	rec = perform(r, http.MethodPost, "/reports/generate", map[string]interface{}{"format": "tabular"})
	assert.Equal(t, http.StatusBadRequest, rec.Code)
}

func TestCustomReport(t *testing.T) {
	svc := &fakeReports{}
	rec := perform(reportRouter(t, models.RoleAdmin, svc), http.MethodPost, "/reports/custom", map[string]interface{}{
		"sections": []string{"metrics", "summary"},
		"format":   "document",
	})
	require.Equal(t, http.StatusOK, rec.Code)
	assert.Equal(t, "application/pdf", rec.Header().Get("Content-Type"))
	assert.Equal(t, []string{"metrics", "summary"}, svc.request.Sections)
}
