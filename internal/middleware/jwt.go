package middleware

import (
	"strings"

	"github.com/gin-gonic/gin"

	"github.com/noah-isme/observation-analytics-api/internal/models"
	"github.com/noah-isme/observation-analytics-api/internal/service"
	appErrors "github.com/noah-isme/observation-analytics-api/pkg/errors"
	"github.com/noah-isme/observation-analytics-api/pkg/logger"
	"github.com/noah-isme/observation-analytics-api/pkg/response"
)

const (
	// ContextUserKey is the gin context key storing JWT claims.
	ContextUserKey = "currentUser"
	// ContextAudienceKey is the gin context key storing the resolved service.Audience.
	ContextAudienceKey = "audience"
)

type tokenValidator interface {
	ValidateToken(token string) (*models.JWTClaims, error)
}

// JWT requires a valid bearer token and resolves the caller's audience once per request.
func JWT(tokens tokenValidator) gin.HandlerFunc {
	return func(c *gin.Context) {
		header := c.GetHeader("Authorization")
		if header == "" {
			response.Error(c, appErrors.ErrUnauthorized)
			c.Abort()
			return
		}

		parts := strings.SplitN(header, " ", 2)
		if len(parts) != 2 || !strings.EqualFold(parts[0], "Bearer") {
			response.Error(c, appErrors.Clone(appErrors.ErrUnauthorized, "invalid authorization header"))
			c.Abort()
			return
		}

		claims, err := tokens.ValidateToken(parts[1])
		if err != nil {
			response.Error(c, err)
			c.Abort()
			return
		}

		aud, err := service.ResolveAudience(claims.Actor())
		if err != nil {
			response.Error(c, err)
			c.Abort()
			return
		}

		c.Set(ContextUserKey, claims)
		c.Set(ContextAudienceKey, aud)
		c.Set(logger.ActorKey, claims.UserID)
		c.Next()
	}
}

// AudienceFromContext returns the audience stored by JWT.
func AudienceFromContext(c *gin.Context) (service.Audience, bool) {
	value, exists := c.Get(ContextAudienceKey)
	if !exists {
		return service.Audience{}, false
	}
	aud, ok := value.(service.Audience)
	return aud, ok
}
