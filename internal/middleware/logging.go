package middleware

import (
	"fmt"
	"time"

	"taskboard/internal/logger"
	"taskboard/pkg/response"

	"github.com/gin-gonic/gin"
	"github.com/google/uuid"
	"github.com/sirupsen/logrus"
)

// RequestIDHeader carries the request id in both directions.
const RequestIDHeader = "X-Request-ID"

// RequestIDKey is the context key for the request id.
const RequestIDKey = "requestID"

// RequestLogger assigns each request an id and logs it once it completes.
// An incoming X-Request-ID is reused.
func RequestLogger(log logrus.FieldLogger) gin.HandlerFunc {
	return func(c *gin.Context) {
		start := time.Now()

		requestID := c.GetHeader(RequestIDHeader)
		if requestID == "" {
			requestID = uuid.NewString()
		}
		c.Set(RequestIDKey, requestID)
		c.Header(RequestIDHeader, requestID)

		c.Next()

		entry := log.WithFields(logrus.Fields{
			"request_id": requestID,
			"method":     c.Request.Method,
			"path":       c.Request.URL.Path,
			"status":     c.Writer.Status(),
			"latency_ms": time.Since(start).Milliseconds(),
			"client_ip":  c.ClientIP(),
		})
		if actor, ok := GetActor(c); ok {
			entry = entry.WithField("user_id", actor.ID.Hex())
		}

		switch status := c.Writer.Status(); {
		case status >= 500:
			entry.Error("request failed")
		case status >= 400:
			entry.Warn("request rejected")
		default:
			entry.Info("request completed")
		}
	}
}

// GetRequestID returns the id assigned by RequestLogger.
func GetRequestID(c *gin.Context) string {
	return c.GetString(RequestIDKey)
}

// Recovery turns a panic into a 500 response and reports it.
func Recovery(log logrus.FieldLogger) gin.HandlerFunc {
	return func(c *gin.Context) {
		defer func() {
			if r := recover(); r != nil {
				logger.CaptureError(log, "panic", fmt.Errorf("panic: %v", r), map[string]interface{}{
					"request_id": GetRequestID(c),
					"path":       c.Request.URL.Path,
				})
				response.InternalError(c)
				c.Abort()
			}
		}()
		c.Next()
	}
}
