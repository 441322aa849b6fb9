// Package manifest describes the single operation a service exposes: its
// display name, the parameters it accepts and the implementations a caller
// can choose between. A manifest is loaded once at startup and is read-only
// afterwards.
package manifest

import (
	"bytes"
	"encoding/json"
	"errors"
	"fmt"
	"io"
	"os"
	"path/filepath"
	"reflect"
	"strings"

	"github.com/go-playground/validator/v10"
	"gopkg.in/yaml.v3"
)

// ParamType is the declared type of a parameter.
type ParamType string

const (
	TypeNumber  ParamType = "number"
	TypeInteger ParamType = "integer"
	TypeString  ParamType = "string"
	TypeBoolean ParamType = "boolean"
	TypeArray   ParamType = "array"
	TypeObject  ParamType = "object"
)

// Parameter is a named input of the operation.
type Parameter struct {
	Name        string    `yaml:"name" json:"name" validate:"required"`
	Description string    `yaml:"description,omitempty" json:"description,omitempty"`
	Type        ParamType `yaml:"type,omitempty" json:"type,omitempty" validate:"omitempty,oneof=number integer string boolean array object"`
}

// Implementation is one selectable backend for the operation.
type Implementation struct {
	ID        string `yaml:"id" json:"id" validate:"required"`
	Name      string `yaml:"name" json:"name" validate:"required"`
	Framework string `yaml:"fw,omitempty" json:"fw,omitempty"`
}

// Manifest is the runtime description of a service.
type Manifest struct {
	ServiceName     string           `yaml:"service_name" json:"service_name" validate:"required"`
	Description     string           `yaml:"description,omitempty" json:"description,omitempty"`
	Parameters      []Parameter      `yaml:"parameters,omitempty" json:"parameters,omitempty" validate:"dive"`
	Implementations []Implementation `yaml:"implementations" json:"implementations" validate:"required,min=1,dive"`
	Requirements    []string         `yaml:"requirements,omitempty" json:"requirements,omitempty"`
}

// ErrInvalid is wrapped by every error returned from Validate.
var ErrInvalid = errors.New("invalid manifest")

var validate = newValidator()

func newValidator() *validator.Validate {
	v := validator.New(validator.WithRequiredStructEnabled())
	v.RegisterTagNameFunc(func(fld reflect.StructField) string {
		name := strings.SplitN(fld.Tag.Get("yaml"), ",", 2)[0]
		if name == "-" {
			return ""
		}
		return name
	})
	return v
}

// Load reads a manifest from a .yaml/.yml or .json file, applies defaults
// and validates it.
func Load(path string) (*Manifest, error) {
	data, err := os.ReadFile(path)
	if err != nil {
		return nil, fmt.Errorf("read manifest: %w", err)
	}

	var m *Manifest
	switch strings.ToLower(filepath.Ext(path)) {
	case ".json":
		m, err = ParseJSON(bytes.NewReader(data))
	default:
		m, err = ParseYAML(bytes.NewReader(data))
	}
	if err != nil {
		return nil, fmt.Errorf("parse manifest %s: %w", path, err)
	}
	if err := m.Validate(); err != nil {
		return nil, err
	}
	return m, nil
}

// ParseYAML decodes a manifest, rejecting unknown keys.
func ParseYAML(r io.Reader) (*Manifest, error) {
	dec := yaml.NewDecoder(r)
	dec.KnownFields(true)

	var m Manifest
	if err := dec.Decode(&m); err != nil {
		return nil, err
	}
	m.applyDefaults()
	return &m, nil
}

// ParseJSON decodes a manifest, rejecting unknown keys.
func ParseJSON(r io.Reader) (*Manifest, error) {
	dec := json.NewDecoder(r)
	dec.DisallowUnknownFields()

	var m Manifest
	if err := dec.Decode(&m); err != nil {
		return nil, err
	}
	m.applyDefaults()
	return &m, nil
}

// Encode writes m as YAML in the form Load reads back.
func (m *Manifest) Encode(w io.Writer) error {
	enc := yaml.NewEncoder(w)
	enc.SetIndent(2)
	if err := enc.Encode(m); err != nil {
		return err
	}
	return enc.Close()
}

func (m *Manifest) applyDefaults() {
	for i := range m.Parameters {
		if m.Parameters[i].Type == "" {
			m.Parameters[i].Type = TypeNumber
		}
	}
}

// Validate checks struct constraints and identifier uniqueness.
func (m *Manifest) Validate() error {
	if err := validate.Struct(m); err != nil {
		var fieldErrs validator.ValidationErrors
		if errors.As(err, &fieldErrs) {
			msgs := make([]string, 0, len(fieldErrs))
			for _, fe := range fieldErrs {
				msgs = append(msgs, fmt.Sprintf("%s failed %q", strings.TrimPrefix(fe.Namespace(), "Manifest."), fe.Tag()))
			}
			return fmt.Errorf("%w: %s", ErrInvalid, strings.Join(msgs, "; "))
		}
		return fmt.Errorf("%w: %v", ErrInvalid, err)
	}

	// The service name doubles as the bundle root directory.
	if strings.ContainsAny(m.ServiceName, `/\`) || m.ServiceName == "." || m.ServiceName == ".." {
		return fmt.Errorf("%w: service_name %q must not contain path separators", ErrInvalid, m.ServiceName)
	}

	seen := make(map[string]struct{}, len(m.Implementations))
	for _, impl := range m.Implementations {
		if _, dup := seen[impl.ID]; dup {
			return fmt.Errorf("%w: duplicate implementation id %q", ErrInvalid, impl.ID)
		}
		seen[impl.ID] = struct{}{}
	}

	seen = make(map[string]struct{}, len(m.Parameters))
	for _, p := range m.Parameters {
		if p.Name == ImplIDKey {
			return fmt.Errorf("%w: parameter name %q is reserved", ErrInvalid, ImplIDKey)
		}
		if _, dup := seen[p.Name]; dup {
			return fmt.Errorf("%w: duplicate parameter %q", ErrInvalid, p.Name)
		}
		seen[p.Name] = struct{}{}
	}
	return nil
}

// ImplIDKey is the request field selecting the implementation.
const ImplIDKey = "impl_id"

// Implementation returns the implementation registered under id.
func (m *Manifest) Implementation(id string) (Implementation, bool) {
	for _, impl := range m.Implementations {
		if impl.ID == id {
			return impl, true
		}
	}
	return Implementation{}, false
}

// Parameter returns the parameter declared under name.
func (m *Manifest) Parameter(name string) (Parameter, bool) {
	for _, p := range m.Parameters {
		if p.Name == name {
			return p, true
		}
	}
	return Parameter{}, false
}

// ImplementationIDs lists ids in declaration order.
func (m *Manifest) ImplementationIDs() []string {
	ids := make([]string, len(m.Implementations))
	for i, impl := range m.Implementations {
		ids[i] = impl.ID
	}
	return ids
}

// ServiceNameFromAlgorithm derives a service name from an algorithm node
// id: everything before the first underscore.
func ServiceNameFromAlgorithm(algorithm string) string {
	if i := strings.Index(algorithm, "_"); i >= 0 {
		return algorithm[:i]
	}
	return algorithm
}

// ExampleRequest builds a request body selecting the first implementation
// with a placeholder value for every parameter.
func (m *Manifest) ExampleRequest() map[string]any {
	req := make(map[string]any, len(m.Parameters)+1)
	if len(m.Implementations) > 0 {
		req[ImplIDKey] = m.Implementations[0].ID
	}
	for _, p := range m.Parameters {
		req[p.Name] = p.Type.Example()
	}
	return req
}

// Example returns a placeholder value of the type.
func (t ParamType) Example() any {
	switch t {
	case TypeInteger:
		return 15
	case TypeString:
		return "text"
	case TypeBoolean:
		return true
	case TypeArray:
		return []any{}
	case TypeObject:
		return map[string]any{}
	default:
		return 1.5
	}
}
