package middleware

import (
	"context"
	"net/http"
	"time"

	"github.com/gin-gonic/gin"

	"github.com/jsamuelsen/quote-rotator/internal/adapters/http/dto"
)

// Timeout puts a deadline on the request context. Handlers are expected to
// honour it; a handler that returns context.DeadlineExceeded without having
// written gets a 503 TIMEOUT envelope.
func Timeout(timeout time.Duration) gin.HandlerFunc {
	return func(c *gin.Context) {
		ctx, cancel := context.WithTimeout(c.Request.Context(), timeout)
		defer cancel()

		c.Request = c.Request.WithContext(ctx)
		c.Next()

		if ctx.Err() == context.DeadlineExceeded && !c.Writer.Written() {
			c.AbortWithStatusJSON(http.StatusServiceUnavailable,
				dto.NewErrorResponse(dto.ErrorCodeTimeout, "request timeout exceeded").
					WithTraceID(dto.TraceIDFromContext(ctx)))
		}
	}
}

// BodyLimit caps the request body at maxBytes. Reads past the cap fail and
// JSON binding reports them as a bad request.
func BodyLimit(maxBytes int64) gin.HandlerFunc {
	return func(c *gin.Context) {
		if c.Request.ContentLength > maxBytes {
			c.AbortWithStatusJSON(http.StatusRequestEntityTooLarge,
				dto.NewErrorResponse(dto.ErrorCodePayloadTooLarge, "request body too large").
					WithTraceID(dto.TraceIDFromContext(c.Request.Context())))

			return
		}

		c.Request.Body = http.MaxBytesReader(c.Writer, c.Request.Body, maxBytes)
		c.Next()
	}
}
