package errors

import (
	"fmt"
	"net/http"
	"time"
)

// ProblemDetails represents RFC 7807 compliant error response
// RFC 7807: Problem Details for HTTP APIs
type ProblemDetails struct {
	// Type is a URI reference that identifies the problem type
	Type string `json:"type"`
	// Title is a short, human-readable summary of the problem type
	Title string `json:"title"`
	// Status is the HTTP status code
	Status int `json:"status"`
	// Detail is a human-readable explanation specific to this occurrence of the problem
	Detail string `json:"detail"`
	// Instance is a URI reference that identifies the specific occurrence of the problem
	Instance string `json:"instance,omitempty"`
	// Timestamp when the error occurred
	Timestamp time.Time `json:"timestamp"`
	// TraceID for request tracing and debugging
	TraceID string `json:"traceId,omitempty"`
}

// Standard error types
const (
	TypeNotFound         = "about:blank#not-found"
	TypeMethodNotAllowed = "about:blank#method-not-allowed"
	TypeRateLimit        = "about:blank#rate-limit"
	TypeInternalError    = "about:blank#internal-error"
)

// Standard error titles
const (
	TitleNotFound         = "Not Found"
	TitleMethodNotAllowed = "Method Not Allowed"
	TitleRateLimit        = "Rate Limit Exceeded"
	TitleInternalError    = "Internal Server Error"
)

// NewProblemDetails creates a new RFC 7807 compliant error
func NewProblemDetails(problemType, title string, status int, detail, instance string) *ProblemDetails {
	return &ProblemDetails{
		Type:      problemType,
		Title:     title,
		Status:    status,
		Detail:    detail,
		Instance:  instance,
		Timestamp: time.Now().UTC(),
	}
}

// WithTraceID adds a trace ID to the problem details
func (p *ProblemDetails) WithTraceID(traceID string) *ProblemDetails {
	p.TraceID = traceID
	return p
}

// Error implements the error interface
func (p *ProblemDetails) Error() string {
	return fmt.Sprintf("[%d] %s: %s", p.Status, p.Title, p.Detail)
}

// Common error constructors

func NewNotFoundError(detail, instance string) *ProblemDetails {
	return NewProblemDetails(TypeNotFound, TitleNotFound, http.StatusNotFound, detail, instance)
}

func NewMethodNotAllowedError(detail, instance string) *ProblemDetails {
	return NewProblemDetails(TypeMethodNotAllowed, TitleMethodNotAllowed, http.StatusMethodNotAllowed, detail, instance)
}

func NewRateLimitError(detail, instance string) *ProblemDetails {
	return NewProblemDetails(TypeRateLimit, TitleRateLimit, http.StatusTooManyRequests, detail, instance)
}

func NewInternalError(detail, instance string) *ProblemDetails {
	return NewProblemDetails(TypeInternalError, TitleInternalError, http.StatusInternalServerError, detail, instance)
}

// FromStatus builds a problem for a bare status code.
func FromStatus(status int, instance string) *ProblemDetails {
	switch status {
	case http.StatusNotFound:
		return NewNotFoundError("Resource not found", instance)
	case http.StatusMethodNotAllowed:
		return NewMethodNotAllowedError("Method not allowed", instance)
	case http.StatusTooManyRequests:
		return NewRateLimitError("Rate limit exceeded", instance)
	case http.StatusInternalServerError:
		return NewInternalError("Internal server error", instance)
	default:
		return NewProblemDetails(TypeInternalError, http.StatusText(status), status, fmt.Sprintf("HTTP %d error", status), instance)
	}
}
