package apiutil

import (
	"github.com/Aidin1998/algohost/common/errors"
	"github.com/gin-gonic/gin"
	"github.com/google/uuid"
)

// RequestIDHeader carries the per-request identifier.
const RequestIDHeader = "X-Request-ID"

// RequestIDMiddleware propagates the caller's X-Request-ID or generates one,
// exposing it on the response and as the problem-details trace id.
func RequestIDMiddleware() gin.HandlerFunc {
	return func(c *gin.Context) {
		id := c.GetHeader(RequestIDHeader)
		if id == "" {
			id = uuid.NewString()
		}
		c.Set(errors.TraceIDKey, id)
		c.Header(RequestIDHeader, id)
		c.Next()
	}
}

// RequestID returns the id stored by RequestIDMiddleware.
func RequestID(c *gin.Context) string {
	return c.GetString(errors.TraceIDKey)
}
