package middleware

import (
	"io"
	"time"

	"github.com/gin-contrib/logger"
	"github.com/gin-gonic/gin"
	gonanoid "github.com/matoous/go-nanoid/v2"
	"github.com/rs/zerolog"
)

const (
	RequestIDHeader = "X-Request-ID"
	ctxRequestID    = "request_id"

	requestIDAlphabet = "0123456789abcdefghijklmnopqrstuvwxyzABCDEFGHIJKLMNOPQRSTUVWXYZ"
	requestIDSize     = 21
)

// RequestID tags every request with an id, reusing a client supplied one.
func RequestID() gin.HandlerFunc {
	return func(c *gin.Context) {
		id := c.GetHeader(RequestIDHeader)
		if id == "" || len(id) > 64 {
			id = gonanoid.MustGenerate(requestIDAlphabet, requestIDSize)
		}
		c.Set(ctxRequestID, id)
		c.Header(RequestIDHeader, id)
		c.Next()
	}
}

// GetRequestID returns the id set by RequestID, if any.
func GetRequestID(c *gin.Context) string {
	return c.GetString(ctxRequestID)
}

// AccessLog writes one line per request to w, tagged with the request id.
func AccessLog(w io.Writer, skipPaths ...string) gin.HandlerFunc {
	zerolog.TimeFieldFormat = time.RFC3339
	return logger.SetLogger(
		logger.WithWriter(w),
		logger.WithUTC(true),
		logger.WithSkipPath(skipPaths),
		logger.WithLogger(func(c *gin.Context, l zerolog.Logger) zerolog.Logger {
			return l.With().Str("request_id", GetRequestID(c)).Logger()
		}),
	)
}
