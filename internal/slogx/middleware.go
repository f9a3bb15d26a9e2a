package slogx

import (
	"log/slog"
	"time"

	"github.com/gin-gonic/gin"
	"github.com/oklog/ulid/v2"
)

const RequestIDHeader = "X-Request-ID"

// GinMiddleware tags each request with an id, puts a request-scoped logger in
// the request context and logs the outcome.
func GinMiddleware(base *slog.Logger) gin.HandlerFunc {
	return func(ctx *gin.Context) {
		start := time.Now()

		reqID := ctx.GetHeader(RequestIDHeader)
		if reqID == "" {
			reqID = ulid.Make().String()
			ctx.Request.Header.Set(RequestIDHeader, reqID)
		}
		ctx.Header(RequestIDHeader, reqID)

		scoped := WithContext(ctx.Request.Context(), base.With(
			"method", ctx.Request.Method,
			"path", ctx.Request.URL.Path,
			"remote_addr", ctx.ClientIP(),
		))
		scoped = WithRequestID(scoped, reqID)
		ctx.Request = ctx.Request.WithContext(scoped)
		logger := FromContext(scoped)

		ctx.Next()

		logger.Info("http_request",
			"status", ctx.Writer.Status(),
			"duration_ms", time.Since(start).Milliseconds(),
			"user_agent", ctx.Request.UserAgent(),
		)
	}
}
