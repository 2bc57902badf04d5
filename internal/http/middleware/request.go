package middleware

import (
	"time"

	"rpg_tracker/internal/logger"
	"rpg_tracker/internal/service"

	"github.com/gin-gonic/gin"
	"github.com/google/uuid"
)

const RequestIDHeader = "X-Request-ID"

// RequestContext tags every request with an id and caller details and
// writes one log line when it completes.
func RequestContext() gin.HandlerFunc {
	return func(c *gin.Context) {
		start := time.Now()

		reqID := c.GetHeader(RequestIDHeader)
		if reqID == "" || len(reqID) > 64 {
			reqID = uuid.NewString()
		}
		c.Header(RequestIDHeader, reqID)

		ctx := service.WithRequestMeta(c.Request.Context(), service.RequestMeta{
			RequestID: reqID,
			IP:        c.ClientIP(),
			UserAgent: c.Request.UserAgent(),
		})
		ctx = logger.ContextWith(ctx, "request_id", reqID)
		c.Request = c.Request.WithContext(ctx)

		c.Next()

		status := c.Writer.Status()
		log := logger.WithContext(c.Request.Context())
		args := []any{
			"method", c.Request.Method,
			"path", c.Request.URL.Path,
			"status", status,
			"latency_ms", time.Since(start).Milliseconds(),
		}
		switch {
		case status >= 500:
			log.Error("request", args...)
		case status >= 400:
			log.Warn("request", args...)
		default:
			log.Info("request", args...)
		}
	}
}
