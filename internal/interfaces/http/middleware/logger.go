package middleware

import (
	"time"

	"github.com/gin-gonic/gin"
	"go.uber.org/zap"
	"orbit.backend/pkg/logger"
)

// LoggerMiddleware logs HTTP requests using the structured logger
func LoggerMiddleware() gin.HandlerFunc {
	return func(c *gin.Context) {
		start := time.Now()
		path := c.Request.URL.Path
		raw := c.Request.URL.RawQuery

		c.Next()

		if raw != "" {
			path = path + "?" + raw
		}
		logger.LogRequest(c.Request.Context(), c.Request.Method, path, c.Writer.Status(), time.Since(start), c.ClientIP(), requestLogFields(c)...)
	}
}

// requestLogFields attributes admin requests to the operator that made them.
func requestLogFields(c *gin.Context) []zap.Field {
	if id, ok := GetOperatorID(c); ok {
		return []zap.Field{zap.String("operator_id", id.String())}
	}
	return nil
}
