// Package schema models the per-type property schemas used by component and
// node catalogs as a closed set of variants.
package schema

import (
	"encoding/json"
	"errors"
	"fmt"
	"strconv"
	"strings"
)

// Kind discriminates property variants on the wire.
type Kind string

const (
	KindString  Kind = "string"
	KindNumber  Kind = "number"
	KindBoolean Kind = "boolean"
	KindSelect  Kind = "select"
	KindArray   Kind = "array"
)

var (
	// ErrInvalidValue reports a value that cannot be represented by the property kind.
	ErrInvalidValue = errors.New("schema: invalid property value")
	// ErrRequired reports a missing value for a required property.
	ErrRequired = errors.New("schema: property value is required")
	// ErrUnknownKind reports a wire spec with an unsupported type.
	ErrUnknownKind = errors.New("schema: unknown property kind")
)

// Meta carries the fields every property variant shares.
type Meta struct {
	Name  string
	Label string
}

// Describe returns the shared metadata.
func (m Meta) Describe() Meta { return m }

// Property is implemented by StringProp, NumberProp, BooleanProp, SelectProp and ArrayProp.
type Property interface {
	Describe() Meta
	Kind() Kind
	// Coerce converts value into the canonical Go representation for the kind.
	Coerce(value any) (any, error)
	isProperty()
}

// Option is a single select choice.
type Option struct {
	Label string `json:"label" yaml:"label"`
	Value any    `json:"value" yaml:"value"`
}

// StringProp holds free text.
type StringProp struct{ Meta }

// NumberProp holds a float64. Min and Max are presentation hints.
type NumberProp struct {
	Meta
	Min *float64
	Max *float64
}

// BooleanProp holds a bool.
type BooleanProp struct{ Meta }

// SelectProp holds one of Options.
type SelectProp struct {
	Meta
	Options []Option
}

// ArrayProp holds a list of arbitrary values.
type ArrayProp struct{ Meta }

func (StringProp) Kind() Kind  { return KindString }
func (NumberProp) Kind() Kind  { return KindNumber }
func (BooleanProp) Kind() Kind { return KindBoolean }
func (SelectProp) Kind() Kind  { return KindSelect }
func (ArrayProp) Kind() Kind   { return KindArray }

func (StringProp) isProperty()  {}
func (NumberProp) isProperty()  {}
func (BooleanProp) isProperty() {}
func (SelectProp) isProperty()  {}
func (ArrayProp) isProperty()   {}

// Coerce accepts strings and JSON numbers.
func (p StringProp) Coerce(value any) (any, error) {
	switch v := value.(type) {
	case nil:
		return "", nil
	case string:
		return v, nil
	case json.Number:
		return v.String(), nil
	default:
		return nil, invalid(p.Meta, value)
	}
}

// Coerce accepts any numeric type or a numeric string and returns float64.
func (p NumberProp) Coerce(value any) (any, error) {
	if f, ok := toFloat(value); ok {
		return f, nil
	}
	return nil, invalid(p.Meta, value)
}

// Coerce accepts bools and the strings understood by strconv.ParseBool.
func (p BooleanProp) Coerce(value any) (any, error) {
	switch v := value.(type) {
	case bool:
		return v, nil
	case string:
		b, err := strconv.ParseBool(strings.TrimSpace(v))
		if err != nil {
			return nil, invalid(p.Meta, value)
		}
		return b, nil
	default:
		return nil, invalid(p.Meta, value)
	}
}

// Coerce accepts scalar values; membership in Options is not enforced.
func (p SelectProp) Coerce(value any) (any, error) {
	switch v := value.(type) {
	case nil:
		return nil, nil
	case string, bool:
		return v, nil
	default:
		if f, ok := toFloat(value); ok {
			return f, nil
		}
		return nil, invalid(p.Meta, value)
	}
}

// OptionValues returns the option values in declaration order.
func (p SelectProp) OptionValues() []any {
	out := make([]any, len(p.Options))
	for i, opt := range p.Options {
		out[i] = opt.Value
	}
	return out
}

// Coerce accepts slices and returns a deep-copied []any.
func (p ArrayProp) Coerce(value any) (any, error) {
	switch v := value.(type) {
	case nil:
		return []any{}, nil
	case []any:
		return CloneValue(v), nil
	case []string:
		out := make([]any, len(v))
		for i, s := range v {
			out[i] = s
		}
		return out, nil
	case []map[string]any:
		out := make([]any, len(v))
		for i, m := range v {
			out[i] = CloneMap(m)
		}
		return out, nil
	default:
		return nil, invalid(p.Meta, value)
	}
}

// Required reports ErrRequired when value is nil, blank text or an empty list.
func Required(p Property, value any) error {
	empty := false
	switch v := value.(type) {
	case nil:
		empty = true
	case string:
		empty = strings.TrimSpace(v) == ""
	case []any:
		empty = len(v) == 0
	}
	if empty {
		return fmt.Errorf("%w: %s", ErrRequired, p.Describe().Name)
	}
	return nil
}

func invalid(meta Meta, value any) error {
	return fmt.Errorf("%w: %s does not accept %T", ErrInvalidValue, meta.Name, value)
}

func toFloat(value any) (float64, bool) {
	switch v := value.(type) {
	case float64:
		return v, true
	case float32:
		return float64(v), true
	case int:
		return float64(v), true
	case int8:
		return float64(v), true
	case int16:
		return float64(v), true
	case int32:
		return float64(v), true
	case int64:
		return float64(v), true
	case uint:
		return float64(v), true
	case uint8:
		return float64(v), true
	case uint16:
		return float64(v), true
	case uint32:
		return float64(v), true
	case uint64:
		return float64(v), true
	case json.Number:
		f, err := v.Float64()
		return f, err == nil
	case string:
		f, err := strconv.ParseFloat(strings.TrimSpace(v), 64)
		return f, err == nil
	default:
		return 0, false
	}
}
