package invoke

import (
	"encoding/json"
	"errors"
	"math"
	"sort"
	"strconv"
	"strings"

	"github.com/Aidin1998/algohost/internal/manifest"
)

// Args holds the request parameters handed to an implementation. Declared
// parameters are already coerced to their manifest type; undeclared request
// fields are passed through as decoded.
type Args struct {
	values map[string]any
}

// NewArgs wraps values without coercion.
func NewArgs(values map[string]any) Args {
	if values == nil {
		values = map[string]any{}
	}
	return Args{values: values}
}

// Raw returns the value as stored.
func (a Args) Raw(name string) (any, bool) {
	v, ok := a.values[name]
	return v, ok
}

// Names lists the supplied parameter names sorted.
func (a Args) Names() []string {
	names := make([]string, 0, len(a.values))
	for name := range a.values {
		names = append(names, name)
	}
	sort.Strings(names)
	return names
}

// Map returns a copy of the values.
func (a Args) Map() map[string]any {
	out := make(map[string]any, len(a.values))
	for k, v := range a.values {
		out[k] = v
	}
	return out
}

func (a Args) required(name string) (any, error) {
	v, ok := a.values[name]
	if !ok || v == nil {
		return nil, InvalidArgumentf("missing parameter %q", name)
	}
	return v, nil
}

// Float returns name as a number.
func (a Args) Float(name string) (float64, error) {
	v, err := a.required(name)
	if err != nil {
		return 0, err
	}
	return toFloat(name, v)
}

// Int returns name as an integer.
func (a Args) Int(name string) (int64, error) {
	v, err := a.required(name)
	if err != nil {
		return 0, err
	}
	return toInt(name, v)
}

// String returns name as a string.
func (a Args) String(name string) (string, error) {
	v, err := a.required(name)
	if err != nil {
		return "", err
	}
	return toString(name, v)
}

// Bool returns name as a boolean.
func (a Args) Bool(name string) (bool, error) {
	v, err := a.required(name)
	if err != nil {
		return false, err
	}
	return toBool(name, v)
}

// bindArgs coerces declared parameters in body to their manifest types.
// The impl_id field is not part of the arguments.
func bindArgs(m *manifest.Manifest, body map[string]any) (Args, error) {
	values := make(map[string]any, len(body))
	for name, v := range body {
		if name == manifest.ImplIDKey {
			continue
		}
		values[name] = v
	}
	for _, p := range m.Parameters {
		v, ok := values[p.Name]
		if !ok || v == nil {
			continue
		}
		coerced, err := coerce(p, v)
		if err != nil {
			return Args{}, err
		}
		values[p.Name] = coerced
	}
	return Args{values: values}, nil
}

func coerce(p manifest.Parameter, v any) (any, error) {
	switch p.Type {
	case manifest.TypeInteger:
		return toInt(p.Name, v)
	case manifest.TypeString:
		return toString(p.Name, v)
	case manifest.TypeBoolean:
		return toBool(p.Name, v)
	case manifest.TypeArray:
		if arr, ok := v.([]any); ok {
			return arr, nil
		}
		return nil, typeError(p.Name, "an array", v)
	case manifest.TypeObject:
		if obj, ok := v.(map[string]any); ok {
			return obj, nil
		}
		return nil, typeError(p.Name, "an object", v)
	default:
		return toFloat(p.Name, v)
	}
}

func toFloat(name string, v any) (float64, error) {
	switch n := v.(type) {
	case float64:
		return checkFloat(name, v, n, nil)
	case int:
		return float64(n), nil
	case int64:
		return float64(n), nil
	case json.Number:
		f, err := n.Float64()
		return checkFloat(name, v, f, err)
	case string:
		f, err := strconv.ParseFloat(strings.TrimSpace(n), 64)
		return checkFloat(name, v, f, err)
	}
	return 0, typeError(name, "a number", v)
}

// checkFloat turns a parse result into a finite number or an argument error.
// NaN and infinities are rejected.
func checkFloat(name string, v any, f float64, err error) (float64, error) {
	if errors.Is(err, strconv.ErrRange) {
		return 0, rangeError(name)
	}
	if err != nil {
		return 0, typeError(name, "a number", v)
	}
	if math.IsNaN(f) || math.IsInf(f, 0) {
		return 0, typeError(name, "a finite number", v)
	}
	return f, nil
}

func toInt(name string, v any) (int64, error) {
	switch n := v.(type) {
	case int64:
		return n, nil
	case int:
		return int64(n), nil
	case float64:
		if math.IsNaN(n) || n != math.Trunc(n) {
			return 0, typeError(name, "an integer", v)
		}
		if n >= math.MaxInt64 || n < math.MinInt64 {
			return 0, rangeError(name)
		}
		return int64(n), nil
	case json.Number:
		if i, err := n.Int64(); err == nil {
			return i, nil
		}
		f, err := n.Float64()
		if errors.Is(err, strconv.ErrRange) {
			return 0, rangeError(name)
		}
		if err != nil {
			return 0, typeError(name, "an integer", v)
		}
		return toInt(name, f)
	case string:
		i, err := strconv.ParseInt(strings.TrimSpace(n), 10, 64)
		if errors.Is(err, strconv.ErrRange) {
			return 0, rangeError(name)
		}
		if err != nil {
			return 0, typeError(name, "an integer", v)
		}
		return i, nil
	}
	return 0, typeError(name, "an integer", v)
}

func toString(name string, v any) (string, error) {
	if s, ok := v.(string); ok {
		return s, nil
	}
	return "", typeError(name, "a string", v)
}

func toBool(name string, v any) (bool, error) {
	switch b := v.(type) {
	case bool:
		return b, nil
	case string:
		parsed, err := strconv.ParseBool(strings.TrimSpace(b))
		if err != nil {
			return false, typeError(name, "a boolean", v)
		}
		return parsed, nil
	}
	return false, typeError(name, "a boolean", v)
}

func rangeError(name string) error {
	return InvalidArgumentf("parameter %q is out of range", name)
}

func typeError(name, want string, got any) error {
	return InvalidArgumentf("parameter %q must be %s, got %s", name, want, jsonKind(got))
}

func jsonKind(v any) string {
	switch v.(type) {
	case nil:
		return "null"
	case bool:
		return "boolean"
	case string:
		return "string"
	case float64, json.Number, int, int64:
		return "number"
	case []any:
		return "array"
	case map[string]any:
		return "object"
	default:
		return "value"
	}
}
