// Package schema declares the shape of model responses as static data and
// validates decoded JSON against it. Backends translate a Shape into their
// own SDK representation; nothing here depends on a particular SDK.
package schema

import (
	"bytes"
	"encoding/json"
	"fmt"
	"math"
	"strings"

	"go.uber.org/multierr"
)

type Kind string

const (
	String  Kind = "string"
	Integer Kind = "integer"
	Number  Kind = "number"
	Boolean Kind = "boolean"
	Array   Kind = "array"
	Object  Kind = "object"
)

// Shape describes one JSON value.
type Shape struct {
	Kind        Kind
	Description string
	Enum        []string // closed vocabulary for String shapes
	Items       *Shape   // element shape for Array shapes
	Fields      []Field  // properties for Object shapes, in declaration order
	MinItems    int
	MaxItems    int // 0 means unbounded
	Minimum     *float64
	Maximum     *float64
}

// Field is a named property of an Object shape.
type Field struct {
	Name     string
	Shape    *Shape
	Optional bool
}

// Validator is implemented by response types that carry invariants a Shape
// cannot express, e.g. an index that must point into a sibling array.
type Validator interface {
	Validate() error
}

func Str(description string) *Shape {
	return &Shape{Kind: String, Description: description}
}

func Enum(values ...string) *Shape {
	return &Shape{Kind: String, Enum: values}
}

func Int(description string) *Shape {
	return &Shape{Kind: Integer, Description: description}
}

func Num(description string) *Shape {
	return &Shape{Kind: Number, Description: description}
}

func Bool(description string) *Shape {
	return &Shape{Kind: Boolean, Description: description}
}

func Arr(items *Shape) *Shape {
	return &Shape{Kind: Array, Items: items}
}

func Obj(fields ...Field) *Shape {
	return &Shape{Kind: Object, Fields: fields}
}

func Req(name string, shape *Shape) Field {
	return Field{Name: name, Shape: shape}
}

func Opt(name string, shape *Shape) Field {
	return Field{Name: name, Shape: shape, Optional: true}
}

// Describe returns a copy of s with the description set.
func (s *Shape) Describe(description string) *Shape {
	c := *s
	c.Description = description
	return &c
}

// Between returns a copy of s bounded to [min, max].
func (s *Shape) Between(min, max float64) *Shape {
	c := *s
	c.Minimum = &min
	c.Maximum = &max
	return &c
}

// Len returns a copy of an Array shape that must hold exactly n items.
func (s *Shape) Len(n int) *Shape {
	c := *s
	c.MinItems = n
	c.MaxItems = n
	return &c
}

// Required lists the names of the non-optional fields.
func (s *Shape) Required() []string {
	out := make([]string, 0, len(s.Fields))
	for _, f := range s.Fields {
		if !f.Optional {
			out = append(out, f.Name)
		}
	}
	return out
}

// Validate checks a value produced by json.Decoder with UseNumber against the
// shape. All violations are reported, not only the first one.
func Validate(shape *Shape, v any) error {
	return validate(shape, v, "$")
}

func validate(shape *Shape, v any, path string) error {
	if v == nil {
		return fmt.Errorf("%s: must not be null", path)
	}
	switch shape.Kind {
	case String:
		s, ok := v.(string)
		if !ok {
			return typeError(path, shape.Kind, v)
		}
		if len(shape.Enum) > 0 && !contains(shape.Enum, s) {
			return fmt.Errorf("%s: %q is not one of [%s]", path, s, strings.Join(shape.Enum, ", "))
		}
		return nil
	case Integer:
		n, ok := v.(json.Number)
		if !ok {
			return typeError(path, shape.Kind, v)
		}
		f, err := n.Float64()
		if err != nil || f != math.Trunc(f) {
			return fmt.Errorf("%s: %s is not an integer", path, n)
		}
		return checkRange(shape, f, path)
	case Number:
		n, ok := v.(json.Number)
		if !ok {
			return typeError(path, shape.Kind, v)
		}
		f, err := n.Float64()
		if err != nil {
			return fmt.Errorf("%s: %s is not a number", path, n)
		}
		return checkRange(shape, f, path)
	case Boolean:
		if _, ok := v.(bool); !ok {
			return typeError(path, shape.Kind, v)
		}
		return nil
	case Array:
		items, ok := v.([]any)
		if !ok {
			return typeError(path, shape.Kind, v)
		}
		var errs error
		if len(items) < shape.MinItems {
			errs = multierr.Append(errs, fmt.Errorf("%s: expected at least %d items, got %d", path, shape.MinItems, len(items)))
		}
		if shape.MaxItems > 0 && len(items) > shape.MaxItems {
			errs = multierr.Append(errs, fmt.Errorf("%s: expected at most %d items, got %d", path, shape.MaxItems, len(items)))
		}
		if shape.Items != nil {
			for i, item := range items {
				errs = multierr.Append(errs, validate(shape.Items, item, fmt.Sprintf("%s[%d]", path, i)))
			}
		}
		return errs
	case Object:
		obj, ok := v.(map[string]any)
		if !ok {
			return typeError(path, shape.Kind, v)
		}
		var errs error
		for _, f := range shape.Fields {
			fv, present := obj[f.Name]
			if !present || fv == nil {
				if !f.Optional {
					errs = multierr.Append(errs, fmt.Errorf("%s.%s: required field missing", path, f.Name))
				}
				continue
			}
			errs = multierr.Append(errs, validate(f.Shape, fv, path+"."+f.Name))
		}
		return errs
	default:
		return fmt.Errorf("%s: unknown shape kind %q", path, shape.Kind)
	}
}

// Decode parses a model response, validates it against shape and fills a T.
// When T implements Validator its invariants are checked last.
func Decode[T any](raw string, shape *Shape) (T, error) {
	var out T
	body := []byte(StripFence(raw))

	dec := json.NewDecoder(bytes.NewReader(body))
	dec.UseNumber()
	var generic any
	if err := dec.Decode(&generic); err != nil {
		return out, fmt.Errorf("malformed JSON: %w", err)
	}
	if err := Validate(shape, generic); err != nil {
		return out, err
	}
	if err := json.Unmarshal(body, &out); err != nil {
		return out, fmt.Errorf("decode response: %w", err)
	}
	if v, ok := any(&out).(Validator); ok {
		if err := v.Validate(); err != nil {
			return out, err
		}
	}
	return out, nil
}

// StripFence removes a surrounding ```json fence some models emit even in
// JSON mode.
func StripFence(raw string) string {
	s := strings.TrimSpace(raw)
	if !strings.HasPrefix(s, "```") {
		return s
	}
	s = strings.TrimPrefix(s, "```")
	if nl := strings.IndexByte(s, '\n'); nl >= 0 {
		s = s[nl+1:]
	}
	s = strings.TrimSuffix(strings.TrimSpace(s), "```")
	return strings.TrimSpace(s)
}

func checkRange(shape *Shape, f float64, path string) error {
	if shape.Minimum != nil && f < *shape.Minimum {
		return fmt.Errorf("%s: %v is below minimum %v", path, f, *shape.Minimum)
	}
	if shape.Maximum != nil && f > *shape.Maximum {
		return fmt.Errorf("%s: %v is above maximum %v", path, f, *shape.Maximum)
	}
	return nil
}

func typeError(path string, want Kind, v any) error {
	return fmt.Errorf("%s: expected %s, got %s", path, want, jsonKind(v))
}

func jsonKind(v any) string {
	switch v.(type) {
	case string:
		return "string"
	case json.Number:
		return "number"
	case bool:
		return "boolean"
	case []any:
		return "array"
	case map[string]any:
		return "object"
	default:
		return fmt.Sprintf("%T", v)
	}
}

func contains(values []string, s string) bool {
	for _, v := range values {
		if v == s {
			return true
		}
	}
	return false
}
