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

type dashboardComposer interface {
	Compose(ctx context.Context, aud service.Audience, req service.DashboardRequest) (*models.DashboardData, error)
}

// DashboardHandler serves the composed dashboard.
type DashboardHandler struct {
	service  dashboardComposer
	validate *validator.Validate
}

// NewDashboardHandler builds a DashboardHandler.
func NewDashboardHandler(svc dashboardComposer, validate *validator.Validate) *DashboardHandler {
	if validate == nil {
		validate = validator.New()
	}
	return &DashboardHandler{service: svc, validate: validate}
}

// Dashboard godoc
// @Summary Dashboard
// @Description Period metrics with previous-period deltas, trends, top performers, alerts and charts
// @Tags Dashboard
// @Produce json
// @Param timePeriod query string false "last_7_days, last_30_days, last_90_days, last_year or custom"
// @Param from query string false "Custom range start (YYYY-MM-DD)"
// @Param to query string false "Custom range end (YYYY-MM-DD)"
// @Success 200 {object} response.Envelope
// @Router /dashboard [get]
func (h *DashboardHandler) Dashboard(c *gin.Context) {
	aud, ok := audienceFromContext(c)
	if !ok {
		return
	}
	var query dto.DashboardQuery
	if !bindQuery(c, h.validate, &query) {
		return
	}
	from, to, err := query.Dates()
	if err != nil {
		response.Error(c, err)
		return
	}
	data, err := h.service.Compose(c.Request.Context(), aud, service.DashboardRequest{
		TimePeriod: query.TimePeriod,
		From:       from,
		To:         to,
	})
	if err != nil {
		response.Error(c, err)
		return
	}
	respondOK(c, data)
}
