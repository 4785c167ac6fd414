package handlers

import (
	"net/http"
	"time"

	"plainlaw-backend/logger"

	"github.com/gin-gonic/gin"
	"github.com/google/uuid"
	"go.uber.org/zap"
)

const (
	callerHeader = "X-User-ID"
	callerKey    = "caller_id"
)

// RequireCaller reads the authenticated user id set by the upstream gateway
func RequireCaller() gin.HandlerFunc {
	return func(c *gin.Context) {
		id, err := uuid.Parse(c.GetHeader(callerHeader))
		if err != nil || id == uuid.Nil {
			respondError(c, http.StatusUnauthorized, "UNAUTHORIZED", "Missing or invalid "+callerHeader+" header")
			return
		}
		c.Set(callerKey, id)
		c.Next()
	}
}

func callerID(c *gin.Context) uuid.UUID {
	id, _ := c.MustGet(callerKey).(uuid.UUID)
	return id
}

// RequestLogger attaches a request-scoped logger to the context and logs
// each completed request.
func RequestLogger(base *zap.Logger) gin.HandlerFunc {
	return func(c *gin.Context) {
		start := time.Now()
		reqLogger := base.With(
			zap.String("method", c.Request.Method),
			zap.String("path", c.Request.URL.Path),
		)
		c.Request = c.Request.WithContext(logger.ContextWithLogger(c.Request.Context(), reqLogger))

		c.Next()

		fields := []zap.Field{
			zap.Int("status", c.Writer.Status()),
			zap.Duration("latency", time.Since(start)),
			zap.String("client_ip", c.ClientIP()),
		}
		if id, ok := c.Get(callerKey); ok {
			fields = append(fields, zap.Stringer("user_id", id.(uuid.UUID)))
		}

		switch status := c.Writer.Status(); {
		case status >= http.StatusInternalServerError:
			reqLogger.Error("request completed", fields...)
		case status >= http.StatusBadRequest:
			reqLogger.Warn("request completed", fields...)
		default:
			reqLogger.Info("request completed", fields...)
		}
	}
}
