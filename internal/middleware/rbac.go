package middleware

import (
	"github.com/gin-gonic/gin"

	"github.com/noah-isme/observation-analytics-api/internal/models"
	appErrors "github.com/noah-isme/observation-analytics-api/pkg/errors"
	"github.com/noah-isme/observation-analytics-api/pkg/response"
)

// RequireCapability admits requests whose capability row satisfies allow.
func RequireCapability(allow func(models.Capability) bool) gin.HandlerFunc {
	return func(c *gin.Context) {
		aud, ok := AudienceFromContext(c)
		if !ok {
			response.Error(c, appErrors.ErrUnauthorized)
			c.Abort()
			return
		}
		if !allow(aud.Capability) {
			response.Error(c, appErrors.ErrForbidden)
			c.Abort()
			return
		}
		c.Next()
	}
}

// RequireTemplate admits roles permitted to generate the given report template.
func RequireTemplate(id models.ReportTemplateID) gin.HandlerFunc {
	return RequireCapability(func(capability models.Capability) bool {
		return capability.CanUseTemplate(id)
	})
}
