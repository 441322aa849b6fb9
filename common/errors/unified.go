package errors

import (
	"net/http"

	"github.com/gin-gonic/gin"
)

// TraceIDKey is the gin context key holding the request trace id.
const TraceIDKey = "trace_id"

// Write sends problem as application/problem+json and aborts the chain.
func Write(c *gin.Context, problem *ProblemDetails) {
	if traceID := getTraceID(c); traceID != "" {
		problem.WithTraceID(traceID)
	}
	c.Header("Content-Type", "application/problem+json")
	c.AbortWithStatusJSON(problem.Status, problem)
}

// NotFound is a gin NoRoute handler.
func NotFound(c *gin.Context) {
	Write(c, NewNotFoundError("No route for "+c.Request.Method+" "+c.Request.URL.Path, c.Request.URL.Path))
}

// MethodNotAllowed is a gin NoMethod handler.
func MethodNotAllowed(c *gin.Context) {
	Write(c, NewMethodNotAllowedError("Method "+c.Request.Method+" is not supported here", c.Request.URL.Path))
}

// RateLimited is used as the limiter's reached handler.
func RateLimited(c *gin.Context) {
	Write(c, FromStatus(http.StatusTooManyRequests, c.Request.URL.Path))
}

// Recovered answers a request whose handler panicked. The panic itself is
// logged by the recovery middleware.
func Recovered(c *gin.Context, _ any) {
	Write(c, FromStatus(http.StatusInternalServerError, c.Request.URL.Path))
}

func getTraceID(c *gin.Context) string {
	if traceID, exists := c.Get(TraceIDKey); exists {
		if id, ok := traceID.(string); ok {
			return id
		}
	}
	return c.GetHeader("X-Trace-ID")
}
