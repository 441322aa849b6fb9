package api

import (
	"encoding/json"
	"errors"
	"fmt"
	"html/template"
	"io"
	"net/http"

	"github.com/Aidin1998/algohost/common/apiutil"
	"github.com/Aidin1998/algohost/internal/invoke"
	"github.com/Aidin1998/algohost/internal/manifest"
	"github.com/gin-gonic/gin"
	"github.com/microcosm-cc/bluemonday"
	"go.uber.org/zap"
)

const maxBodyBytes = 10 << 20

type parameterView struct {
	Name        string
	Type        manifest.ParamType
	Description template.HTML
}

// pageView is the template data shared by the form and the docs page.
type pageView struct {
	ServiceName     string
	Description     template.HTML
	Parameters      []parameterView
	Implementations []manifest.Implementation
	Example         string
}

func newPageView(m *manifest.Manifest, policy *bluemonday.Policy) (pageView, error) {
	example, err := json.MarshalIndent(m.ExampleRequest(), "", "  ")
	if err != nil {
		return pageView{}, fmt.Errorf("encode example request: %w", err)
	}

	params := make([]parameterView, len(m.Parameters))
	for i, p := range m.Parameters {
		params[i] = parameterView{
			Name:        p.Name,
			Type:        p.Type,
			Description: template.HTML(policy.Sanitize(p.Description)),
		}
	}

	return pageView{
		ServiceName:     m.ServiceName,
		Description:     template.HTML(policy.Sanitize(m.Description)),
		Parameters:      params,
		Implementations: m.Implementations,
		Example:         string(example),
	}, nil
}

func (s *Server) render(c *gin.Context, name, active string) {
	c.HTML(http.StatusOK, name, gin.H{
		"Page":   s.view,
		"Active": active,
	})
}

// GET /
func (s *Server) serviceForm(c *gin.Context) {
	s.render(c, "service.html", "service")
}

// GET /api
func (s *Server) apiDocs(c *gin.Context) {
	s.render(c, "api.html", "api")
}

// GET /api/openapi.json
func (s *Server) openAPI(c *gin.Context) {
	apiutil.WriteJSON(c, http.StatusOK, s.openapi)
}

// OPTIONS / without a CORS pre-flight
func (s *Server) options(c *gin.Context) {
	c.Header("Allow", "GET, POST, OPTIONS")
	c.Status(http.StatusOK)
}

// POST / runs the selected implementation. Client errors are 400 and all
// other failures 500, both with the error text as a plain body.
func (s *Server) invokeService(c *gin.Context) {
	if c.Request.Body == nil {
		c.Request.Body = http.NoBody
	}
	body, err := decodeBody(http.MaxBytesReader(c.Writer, c.Request.Body, maxBodyBytes))
	if err != nil {
		apiutil.WriteText(c, http.StatusBadRequest, err.Error())
		return
	}

	result, err := s.invoker.Invoke(c.Request.Context(), body)
	if err != nil {
		status := http.StatusInternalServerError
		if invoke.IsInvalidArgument(err) {
			status = http.StatusBadRequest
		}
		_ = c.Error(err)
		apiutil.WriteText(c, status, err.Error())
		return
	}

	payload, err := json.Marshal(result)
	if err != nil {
		s.logger.Error("Failed to encode result",
			zap.String("request_id", apiutil.RequestID(c)),
			zap.Error(err))
		apiutil.WriteText(c, http.StatusInternalServerError, err.Error())
		return
	}
	apiutil.WriteJSON(c, http.StatusOK, payload)
}

// GET /health
func (s *Server) healthCheck(c *gin.Context) {
	c.JSON(http.StatusOK, gin.H{
		"status":  "ok",
		"service": s.manifest.ServiceName,
	})
}

var errNotObject = errors.New("request body must be a JSON object")

func decodeBody(r io.Reader) (map[string]any, error) {
	dec := json.NewDecoder(r)
	dec.UseNumber()

	var body map[string]any
	if err := dec.Decode(&body); err != nil {
		if errors.Is(err, io.EOF) {
			return nil, errNotObject
		}
		var typeErr *json.UnmarshalTypeError
		if errors.As(err, &typeErr) {
			return nil, errNotObject
		}
		return nil, fmt.Errorf("invalid JSON body: %v", err)
	}
	if body == nil {
		return nil, errNotObject
	}
	if _, err := dec.Token(); !errors.Is(err, io.EOF) {
		return nil, errors.New("invalid JSON body: unexpected data after object")
	}
	return body, nil
}
