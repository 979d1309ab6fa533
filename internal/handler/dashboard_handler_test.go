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

type fakeDashboard struct {
	request service.DashboardRequest
}

func (f *fakeDashboard) Compose(_ context.Context, _ service.Audience, req service.DashboardRequest) (*models.DashboardData, error) {
	f.request = req
	if req.TimePeriod == "custom" && (req.From == nil || req.To == nil) {
		return nil, appErrors.Clone(appErrors.ErrValidation, "custom time period requires from and to")
	}
	return &models.DashboardData{TimePeriod: models.TimePeriod(req.TimePeriod)}, nil
}

func dashboardRouter(t *testing.T, svc *fakeDashboard) *gin.Engine {
	aud := testAudience(t, models.RoleZoneManager)
	h := NewDashboardHandler(svc, nil)
	return newTestRouter(&aud, func(r gin.IRoutes) { r.GET("/dashboard", h.Dashboard) })
}

func TestDashboardCustomRange(t *testing.T) {
	svc := &fakeDashboard{}
	r := dashboardRouter(t, svc)

	rec := perform(r, http.MethodGet, "/dashboard?timePeriod=custom&from=2024-01-01&to=2024-01-31", nil)
	require.Equal(t, http.StatusOK, rec.Code)
	require.NotNil(t, svc.request.From)
	require.NotNil(t, svc.request.To)
	assert.Equal(t, "2024-01-31", svc.request.To.Format("2006-01-02"))
}

func TestDashboardCustomWithoutRange(t *testing.T) {
	r := dashboardRouter(t, &fakeDashboard{})
	rec := perform(r, http.MethodGet, "/dashboard?timePeriod=custom", nil)
	assert.Equal(t, http.StatusBadRequest, rec.Code)
}

func TestDashboardRejectsMalformedDate(t *testing.T) {
	r := dashboardRouter(t, &fakeDashboard{})
	rec := perform(r, http.MethodGet, "/dashboard?timePeriod=custom&from=01-01-2024", nil)
	assert.Equal(t, http.StatusBadRequest, rec.Code)
}
