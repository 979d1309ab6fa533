package handler

import (
	"context"

	"github.com/gin-gonic/gin"
	"github.com/go-playground/validator/v10"

	"github.com/noah-isme/observation-analytics-api/internal/dto"
	"github.com/noah-isme/observation-analytics-api/internal/models"
	"github.com/noah-isme/observation-analytics-api/pkg/response"
)

type settingsManager interface {
	Get(ctx context.Context, actor models.Actor, key string) (*models.Setting, error)
	Set(ctx context.Context, actor models.Actor, key, value string) (*models.Setting, error)
	Delete(ctx context.Context, actor models.Actor, key string) error
}

// SettingsHandler manages the caller's own preferences.
type SettingsHandler struct {
	service  settingsManager
	validate *validator.Validate
}

// NewSettingsHandler constructs a SettingsHandler.
func NewSettingsHandler(svc settingsManager, validate *validator.Validate) *SettingsHandler {
	if validate == nil {
		validate = validator.New()
	}
	return &SettingsHandler{service: svc, validate: validate}
}

// Get godoc
// @Summary Get preference
// @Tags Settings
// @Produce json
// @Param key path string true "Setting key"
// @Success 200 {object} response.Envelope
// @Failure 404 {object} response.Envelope
// @Router /settings/{key} [get]
func (h *SettingsHandler) Get(c *gin.Context) {
	aud, ok := audienceFromContext(c)
	if !ok {
		return
	}
	setting, err := h.service.Get(c.Request.Context(), aud.Actor, c.Param("key"))
	if err != nil {
		response.Error(c, err)
		return
	}
	respondOK(c, setting)
}

// Put godoc
// @Summary Store preference
// @Tags Settings
// @Accept json
// @Produce json
// @Param key path string true "Setting key"
// @Param payload body dto.UpdateSettingRequest true "Setting value"
// @Success 200 {object} response.Envelope
// @Router /settings/{key} [put]
func (h *SettingsHandler) Put(c *gin.Context) {
	aud, ok := audienceFromContext(c)
	if !ok {
		return
	}
	var req dto.UpdateSettingRequest
	if !bindJSON(c, h.validate, &req) {
		return
	}
	setting, err := h.service.Set(c.Request.Context(), aud.Actor, c.Param("key"), req.Value)
	if err != nil {
		response.Error(c, err)
		return
	}
	respondOK(c, setting)
}

// Delete godoc
// @Summary Remove preference
// @Tags Settings
// @Param key path string true "Setting key"
// @Success 204
// @Router /settings/{key} [delete]
func (h *SettingsHandler) Delete(c *gin.Context) {
	aud, ok := audienceFromContext(c)
	if !ok {
		return
	}
	if err := h.service.Delete(c.Request.Context(), aud.Actor, c.Param("key")); err != nil {
		response.Error(c, err)
		return
	}
	response.NoContent(c)
}
