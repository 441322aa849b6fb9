package manifest

import (
	"context"
	"fmt"
	"net/http"

	"github.com/getkin/kin-openapi/openapi3"
)

// Schema returns the OpenAPI schema matching the parameter type.
func (t ParamType) Schema() *openapi3.Schema {
	switch t {
	case TypeInteger:
		return openapi3.NewIntegerSchema()
	case TypeString:
		return openapi3.NewStringSchema()
	case TypeBoolean:
		return openapi3.NewBoolSchema()
	case TypeArray:
		return openapi3.NewArraySchema().WithItems(openapi3.NewSchema())
	case TypeObject:
		return openapi3.NewObjectSchema()
	default:
		return openapi3.NewFloat64Schema()
	}
}

// OpenAPI describes the service routes as an OpenAPI 3 document.
func (m *Manifest) OpenAPI(version string) (*openapi3.T, error) {
	ids := make([]any, 0, len(m.Implementations))
	for _, impl := range m.Implementations {
		ids = append(ids, impl.ID)
	}

	body := openapi3.NewObjectSchema()
	implID := openapi3.NewStringSchema().WithEnum(ids...)
	implID.Description = "Identifier of the implementation to invoke"
	body.WithProperty(ImplIDKey, implID)
	if len(m.Implementations) > 1 {
		body.Required = []string{ImplIDKey}
	}
	for _, p := range m.Parameters {
		s := p.Type.Schema()
		s.Description = p.Description
		body.WithProperty(p.Name, s)
	}

	invoke := &openapi3.Operation{
		OperationID: "invoke",
		Summary:     fmt.Sprintf("Invoke %s", m.ServiceName),
		Description: m.Description,
		RequestBody: &openapi3.RequestBodyRef{
			Value: openapi3.NewRequestBody().WithRequired(true).WithJSONSchema(body),
		},
		Responses: openapi3.NewResponses(
			openapi3.WithStatus(http.StatusOK, &openapi3.ResponseRef{
				Value: openapi3.NewResponse().
					WithDescription("Serialized result of the implementation").
					WithContent(openapi3.NewContentWithJSONSchema(openapi3.NewSchema())),
			}),
			openapi3.WithStatus(http.StatusBadRequest, textResponse("Invalid argument; the body is the error message")),
			openapi3.WithStatus(http.StatusInternalServerError, textResponse("Implementation failure; the body is the error message")),
		),
	}

	form := &openapi3.Operation{
		OperationID: "form",
		Summary:     "HTML form for the service",
		Responses: openapi3.NewResponses(
			openapi3.WithStatus(http.StatusOK, &openapi3.ResponseRef{
				Value: openapi3.NewResponse().
					WithDescription("Rendered form").
					WithContent(openapi3.NewContentWithSchema(openapi3.NewStringSchema(), []string{"text/html"})),
			}),
		),
	}

	doc := &openapi3.T{
		OpenAPI: "3.0.3",
		Info: &openapi3.Info{
			Title:       m.ServiceName,
			Description: m.Description,
			Version:     version,
		},
		Paths: openapi3.NewPaths(
			openapi3.WithPath("/", &openapi3.PathItem{Get: form, Post: invoke}),
		),
	}
	if err := doc.Validate(context.Background()); err != nil {
		return nil, fmt.Errorf("build openapi document: %w", err)
	}
	return doc, nil
}

func textResponse(description string) *openapi3.ResponseRef {
	return &openapi3.ResponseRef{
		Value: openapi3.NewResponse().
			WithDescription(description).
			WithContent(openapi3.NewContentWithSchema(openapi3.NewStringSchema(), []string{"text/plain"})),
	}
}
