package schema

import (
	"bytes"
	"encoding/json"
	"fmt"
	"sync"

	"github.com/santhosh-tekuri/jsonschema/v5"
)

// JSONValidator validates decoded JSON documents against a JSON Schema that is
// compiled on first use.
type JSONValidator struct {
	name string
	raw  []byte

	once     sync.Once
	compiled *jsonschema.Schema
	err      error
}

// NewJSONValidator builds a validator for the raw schema document.
func NewJSONValidator(name string, raw []byte) *JSONValidator {
	return &JSONValidator{name: name, raw: raw}
}

// Validate checks an already decoded value (as produced by json.Unmarshal into any).
func (v *JSONValidator) Validate(payload any) error {
	compiled, err := v.schema()
	if err != nil {
		return err
	}
	if err := compiled.Validate(payload); err != nil {
		return fmt.Errorf("schema: %s failed validation: %w", v.name, err)
	}
	return nil
}

// ValidateJSON decodes data and validates it.
func (v *JSONValidator) ValidateJSON(data []byte) error {
	var payload any
	if err := json.Unmarshal(data, &payload); err != nil {
		return fmt.Errorf("schema: decode %s: %w", v.name, err)
	}
	return v.Validate(payload)
}

func (v *JSONValidator) schema() (*jsonschema.Schema, error) {
	v.once.Do(func() {
		compiler := jsonschema.NewCompiler()
		if err := compiler.AddResource(v.name, bytes.NewReader(v.raw)); err != nil {
			v.err = fmt.Errorf("schema: load %s: %w", v.name, err)
			return
		}
		v.compiled, v.err = compiler.Compile(v.name)
		if v.err != nil {
			v.err = fmt.Errorf("schema: compile %s: %w", v.name, v.err)
		}
	})
	return v.compiled, v.err
}
