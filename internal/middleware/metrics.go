package middleware

import (
	"time"

	"github.com/gin-gonic/gin"

	"github.com/noah-isme/observation-analytics-api/internal/service"
)

const unmatchedRoute = "unmatched"

// Metrics times every request and, once the JWT middleware has resolved an
// audience, attributes the call to the caller's role.
func Metrics(metricsSvc *service.MetricsService) gin.HandlerFunc {
	return func(c *gin.Context) {
		if metricsSvc == nil {
			c.Next()
			return
		}
		start := time.Now()
		c.Next()

		route := c.FullPath()
		if route == "" {
			route = unmatchedRoute
		}
		metricsSvc.ObserveHTTPRequest(c.Request.Method, route, c.Writer.Status(), time.Since(start))
		if aud, ok := AudienceFromContext(c); ok {
			metricsSvc.ObserveAudienceCall(string(aud.Actor.Role), route)
		}
	}
}
