package server

import (
	"strconv"
	"time"

	"github.com/brightpath/tutordesk/pkg/log/ctxlogger"
	"github.com/brightpath/tutordesk/pkg/telemetry"
	"github.com/brightpath/tutordesk/pkg/telemetry/correlation"
	"github.com/gin-gonic/gin"
	"go.uber.org/zap"
)

const headerCorrelationID = "X-Correlation-ID"

// RequestMiddleware seeds a correlation ID, logs each request, and records
// the API metrics.
func RequestMiddleware(base *zap.Logger, metrics *telemetry.Metrics) gin.HandlerFunc {
	return func(c *gin.Context) {
		start := time.Now()

		ctx := c.Request.Context()
		if incoming := c.GetHeader(headerCorrelationID); incoming != "" {
			ctx = correlation.ContextWithCorrelationID(ctx, incoming)
		}
		ctx, cid := correlation.EnsureCorrelationID(ctx)
		c.Request = c.Request.WithContext(ctx)
		c.Writer.Header().Set(headerCorrelationID, cid)

		c.Next()

		route := c.FullPath()
		if route == "" {
			route = "unmatched"
		}
		status := c.Writer.Status()
		duration := time.Since(start)

		if metrics != nil {
			metrics.ObserveAPIRequest(c.Request.Method, route, strconv.Itoa(status), duration)
		}

		logger := ctxlogger.WithContext(ctx, base)
		fields := []zap.Field{
			zap.String("method", c.Request.Method),
			zap.String("route", route),
			zap.Int("status", status),
			zap.Duration("duration", duration),
		}
		if status >= 500 {
			logger.Error("request failed", fields...)
			return
		}
		logger.Info("request", fields...)
	}
}
