package middleware

import (
	"context"

	"github.com/gin-gonic/gin"
	"github.com/google/uuid"

	"github.com/skillstream/edu-notify/internal/infra/logger"
)

const requestIDHeader = "X-Request-ID"

// RequestID tags every request with a correlation id. An id supplied by the
// caller is kept so platform-wide traces survive the hop; otherwise one is
// generated. The id is echoed in the response header and stored on the request
// context for the logger.
func RequestID() gin.HandlerFunc {
	return func(c *gin.Context) {
		id := c.GetHeader(requestIDHeader)
		if id == "" {
			id = uuid.NewString()
		}

		c.Writer.Header().Set(requestIDHeader, id)
		c.Request = c.Request.WithContext(
			context.WithValue(c.Request.Context(), logger.RequestIDKey{}, id),
		)

		c.Next()
	}
}
