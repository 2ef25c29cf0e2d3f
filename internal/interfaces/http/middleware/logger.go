package middleware

import (
	"time"

	"github.com/gin-gonic/gin"
	"go.uber.org/zap"

	"bpi.backend/pkg/logger"
)

// quietPaths are polled by probes and scrapers and are not access-logged.
var quietPaths = map[string]bool{
	"/health":  true,
	"/metrics": true,
}

// LoggerMiddleware writes one access log line per request, tagged with the
// caller's user id once AuthMiddleware has run.
func LoggerMiddleware() gin.HandlerFunc {
	return func(c *gin.Context) {
		start := time.Now()
		path := c.Request.URL.Path
		raw := c.Request.URL.RawQuery

		c.Next()

		if quietPaths[path] {
			return
		}
		if raw != "" {
			path = path + "?" + raw
		}

		var extra []zap.Field
		if userID, ok := GetUserID(c); ok {
			extra = append(extra, zap.String("user_id", userID.String()))
		}
		if len(c.Errors) > 0 {
			extra = append(extra, zap.String("errors", c.Errors.String()))
		}
		logger.LogRequest(c.Request.Context(), c.Request.Method, path, c.Writer.Status(), time.Since(start), c.ClientIP(), extra...)
	}
}
