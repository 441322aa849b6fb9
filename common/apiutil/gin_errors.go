package apiutil

import (
	"github.com/gin-gonic/gin"
)

// WriteText writes msg verbatim as a text/plain body with the given status.
func WriteText(c *gin.Context, status int, msg string) {
	c.Data(status, "text/plain; charset=utf-8", []byte(msg))
}

// WriteJSON writes an already encoded JSON payload.
func WriteJSON(c *gin.Context, status int, payload []byte) {
	c.Data(status, "application/json", payload)
}
