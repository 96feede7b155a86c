package middleware

import (
	"log"

	"github.com/gin-gonic/gin"
	"github.com/google/uuid"
)

const (
	RequestIDHeader = "X-Request-ID"
	requestIDKey    = "requestID"
)

// RequestID tags every request with a UUID, reusing a well-formed incoming
// X-Request-ID.
func RequestID() gin.HandlerFunc {
	return func(c *gin.Context) {
		id := c.GetHeader(RequestIDHeader)
		if _, err := uuid.Parse(id); err != nil {
			id = uuid.NewString()
		}
		c.Set(requestIDKey, id)
		c.Header(RequestIDHeader, id)
		c.Next()
	}
}

func RequestIDFrom(c *gin.Context) string {
	return c.GetString(requestIDKey)
}

// logf logs a request-scoped line prefixed with the request ID.
func logf(c *gin.Context, format string, args ...any) {
	log.Printf("[%s] "+format, append([]any{RequestIDFrom(c)}, args...)...)
}

// Logf is logf for handlers.
func Logf(c *gin.Context, format string, args ...any) {
	logf(c, format, args...)
}
