package errors

import (
	"encoding/json"
	"net/http"
	"net/http/httptest"
	"testing"

	ginzap "github.com/gin-contrib/zap"
	"github.com/gin-gonic/gin"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"go.uber.org/zap"
)

func TestFromStatus(t *testing.T) {
	p := FromStatus(http.StatusNotFound, "/x")
	assert.Equal(t, TypeNotFound, p.Type)
	assert.Equal(t, "/x", p.Instance)

	p = FromStatus(http.StatusTeapot, "/x")
	assert.Equal(t, http.StatusTeapot, p.Status)
	assert.Equal(t, "I'm a teapot", p.Title)
}

func TestNotFoundHandler(t *testing.T) {
	gin.SetMode(gin.TestMode)
	r := gin.New()
	r.Use(func(c *gin.Context) { c.Set(TraceIDKey, "abc"); c.Next() })
	r.NoRoute(NotFound)

	w := httptest.NewRecorder()
	req, _ := http.NewRequest(http.MethodGet, "/missing", nil)
	r.ServeHTTP(w, req)

	assert.Equal(t, http.StatusNotFound, w.Code)
	assert.Equal(t, "application/problem+json", w.Header().Get("Content-Type"))

	var p ProblemDetails
	require.NoError(t, json.Unmarshal(w.Body.Bytes(), &p))
	assert.Equal(t, TitleNotFound, p.Title)
	assert.Equal(t, "abc", p.TraceID)
	assert.Contains(t, p.Detail, "/missing")
}

func TestRecoveredHandler(t *testing.T) {
	gin.SetMode(gin.TestMode)
	r := gin.New()
	r.Use(ginzap.CustomRecoveryWithZap(zap.NewNop(), false, Recovered))
	r.GET("/boom", func(*gin.Context) { panic("template exploded") })

	w := httptest.NewRecorder()
	req, _ := http.NewRequest(http.MethodGet, "/boom", nil)
	r.ServeHTTP(w, req)

	assert.Equal(t, http.StatusInternalServerError, w.Code)
	assert.Equal(t, "application/problem+json", w.Header().Get("Content-Type"))

	var p ProblemDetails
	require.NoError(t, json.Unmarshal(w.Body.Bytes(), &p))
	assert.Equal(t, TypeInternalError, p.Type)
	assert.Equal(t, TitleInternalError, p.Title)
	assert.Equal(t, "/boom", p.Instance)
	assert.NotContains(t, w.Body.String(), "template exploded")
}
