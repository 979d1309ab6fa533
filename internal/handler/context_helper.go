package handler

import (
	"net/http"

	"github.com/gin-gonic/gin"
	"github.com/go-playground/validator/v10"

	"github.com/noah-isme/observation-analytics-api/internal/middleware"
	"github.com/noah-isme/observation-analytics-api/internal/service"
	appErrors "github.com/noah-isme/observation-analytics-api/pkg/errors"
	"github.com/noah-isme/observation-analytics-api/pkg/response"
)

func audienceFromContext(c *gin.Context) (service.Audience, bool) {
	aud, ok := middleware.AudienceFromContext(c)
	if !ok {
		response.Error(c, appErrors.ErrUnauthorized)
		return aud, false
	}
	middleware.SetMeta(c, "scope", aud.Scope.String())
	return aud, true
}

func bindQuery(c *gin.Context, validate *validator.Validate, target interface{}) bool {
	if err := c.ShouldBindQuery(target); err != nil {
		response.Error(c, appErrors.Wrap(err, appErrors.ErrValidation.Code, http.StatusBadRequest, "invalid query parameters"))
		return false
	}
	if err := validate.Struct(target); err != nil {
		response.Error(c, appErrors.Wrap(err, appErrors.ErrValidation.Code, http.StatusBadRequest, "invalid query parameters"))
		return false
	}
	return true
}

func bindJSON(c *gin.Context, validate *validator.Validate, target interface{}) bool {
	if err := c.ShouldBindJSON(target); err != nil {
		response.Error(c, appErrors.Wrap(err, appErrors.ErrValidation.Code, http.StatusBadRequest, "invalid request payload"))
		return false
	}
	if err := validate.Struct(target); err != nil {
		response.Error(c, appErrors.Wrap(err, appErrors.ErrValidation.Code, http.StatusBadRequest, "invalid request payload"))
		return false
	}
	return true
}

func respondOK(c *gin.Context, data interface{}) {
	response.JSON(c, http.StatusOK, data, middleware.ExtractMeta(c))
}
