package middleware

import (
	"time"

	"github.com/kpata360-rgb/workisready-backend1/internal/common"

	"github.com/gin-gonic/gin"
	"github.com/google/uuid"
	"go.uber.org/zap"
)

const (
	RequestIDHeader     = "X-Request-ID"
	RequestIDContextKey = "requestID"
)

// requestID echoes a client-supplied id or mints one.
func requestID(c *gin.Context) string {
	if id := c.GetHeader(RequestIDHeader); id != "" && len(id) <= 128 {
		return id
	}
	return uuid.NewString()
}

// ZapLogger tags each request with an id, stores a logger carrying that id
// under common.LoggerKey, and writes one access line once the handler returns.
func ZapLogger(logger *zap.Logger) gin.HandlerFunc {
	access := logger.Named("http")
	return func(c *gin.Context) {
		start := time.Now()
		id := requestID(c)
		c.Header(RequestIDHeader, id)
		c.Set(RequestIDContextKey, id)
		reqLog := access.With(zap.String("request_id", id))
		c.Set(common.LoggerKey, reqLog)

		c.Next()

		status := c.Writer.Status()
		fields := append(make([]zap.Field, 0, 10),
			zap.String("method", c.Request.Method),
			zap.String("path", c.Request.URL.Path),
			zap.String("route", c.FullPath()),
			zap.Int("status", status),
			zap.Int("bytes", c.Writer.Size()),
			zap.Duration("latency", time.Since(start)),
			zap.String("ip", c.ClientIP()),
		)
		if q := c.Request.URL.RawQuery; q != "" {
			fields = append(fields, zap.String("query", q))
		}
		if uid := common.GetUserIDFromContext(c); uid != uuid.Nil {
			fields = append(fields, zap.Stringer("user_id", uid))
		}
		if msg := c.Errors.ByType(gin.ErrorTypePrivate).String(); msg != "" {
			fields = append(fields, zap.String("errors", msg))
		}

		switch {
		case status >= 500:
			reqLog.Error("request failed", fields...)
		case status >= 400:
			reqLog.Warn("request rejected", fields...)
		default:
			reqLog.Info("request", fields...)
		}
	}
}
