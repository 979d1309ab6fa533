package handler

import (
	"context"

	"github.com/gin-gonic/gin"
	"github.com/go-playground/validator/v10"

	"github.com/noah-isme/observation-analytics-api/internal/dto"
	"github.com/noah-isme/observation-analytics-api/internal/models"
	"github.com/noah-isme/observation-analytics-api/internal/service"
	"github.com/noah-isme/observation-analytics-api/pkg/response"
)

type reportGenerator interface {
	Templates(aud service.Audience) []models.ReportTemplate
	Generate(ctx context.Context, aud service.Audience, req service.ReportRequest) (*models.ReportFile, error)
	GenerateCustom(ctx context.Context, aud service.Audience, req service.ReportRequest) (*models.ReportFile, error)
}

// ReportHandler exposes report templates and synchronous report downloads.
type ReportHandler struct {
	service  reportGenerator
	validate *validator.Validate
}

// NewReportHandler constructs a ReportHandler.
func NewReportHandler(svc reportGenerator, validate *validator.Validate) *ReportHandler {
	if validate == nil {
		validate = validator.New()
	}
	return &ReportHandler{service: svc, validate: validate}
}

// Templates godoc
// @Summary List report templates
// @Tags Reports
// @Produce json
// @Success 200 {object} response.Envelope
// @Router /reports/templates [get]
func (h *ReportHandler) Templates(c *gin.Context) {
	aud, ok := audienceFromContext(c)
	if !ok {
		return
	}
	respondOK(c, h.service.Templates(aud))
}

// Generate godoc
// @Summary Generate report
// @Description Assembles a template and returns the file in the requested format
// @Tags Reports
// @Accept json
// @Produce text/csv,application/pdf,application/vnd.openxmlformats-officedocument.spreadsheetml.sheet
// @Param payload body dto.GenerateReportRequest true "Report request"
// @Success 200 {file} file
// @Failure 400 {object} response.Envelope
// @Failure 403 {object} response.Envelope
// @Failure 422 {object} response.Envelope
// @Router /reports/generate [post]
func (h *ReportHandler) Generate(c *gin.Context) {
	aud, ok := audienceFromContext(c)
	if !ok {
		return
	}
	var req dto.GenerateReportRequest
	if !bindJSON(c, h.validate, &req) {
		return
	}
	filter, err := req.Filter.ToFilter()
	if err != nil {
		response.Error(c, err)
		return
	}
	file, err := h.service.Generate(c.Request.Context(), aud, service.ReportRequest{
		TemplateID: req.TemplateID,
		Filter:     filter,
		Format:     req.Format,
		EntityType: req.EntityType,
		EntityIDs:  req.EntityIDs,
		Locale:     req.Locale,
	})
	if err != nil {
		response.Error(c, err)
		return
	}
	response.Attachment(c, file.Filename, file.ContentType, file.Body)
}

// Custom godoc
// @Summary Generate custom report
// @Tags Reports
// @Accept json
// @Produce text/csv,application/pdf,application/vnd.openxmlformats-officedocument.spreadsheetml.sheet
// @Param payload body dto.CustomReportRequest true "Custom report request"
// @Success 200 {file} file
// @Router /reports/custom [post]
func (h *ReportHandler) Custom(c *gin.Context) {
	aud, ok := audienceFromContext(c)
	if !ok {
		return
	}
	var req dto.CustomReportRequest
	if !bindJSON(c, h.validate, &req) {
		return
	}
	filter, err := req.Filter.ToFilter()
	if err != nil {
		response.Error(c, err)
		return
	}
	file, err := h.service.GenerateCustom(c.Request.Context(), aud, service.ReportRequest{
		Sections:   req.Sections,
		Filter:     filter,
		Format:     req.Format,
		EntityType: req.EntityType,
		EntityIDs:  req.EntityIDs,
		Locale:     req.Locale,
	})
	if err != nil {
		response.Error(c, err)
		return
	}
	response.Attachment(c, file.Filename, file.ContentType, file.Body)
}
