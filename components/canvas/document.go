package canvas

import (
	"encoding/json"
	"fmt"
	"io"

	"github.com/goliatone/go-designer/components/schema"
)

const componentsSchema = `{
	"$schema": "http://json-schema.org/draft-07/schema#",
	"type": "array",
	"items": {
		"type": "object",
		"required": ["id", "type"],
		"properties": {
			"id": {"type": "string", "minLength": 1},
			"type": {"type": "string", "minLength": 1},
			"props": {"type": "object"},
			"size": {
				"type": "object",
				"required": ["height"],
				"properties": {
					"width": {"type": ["string", "number"]},
					"height": {"type": "number"}
				}
			},
			"events": {
				"type": "object",
				"additionalProperties": {"type": "string"}
			}
		}
	}
}`

var componentsValidator = schema.NewJSONValidator("canvas-components.json", []byte(componentsSchema))

// EncodeComponents writes the list as the plain JSON array the editor exports.
func EncodeComponents(w io.Writer, items []ComponentInstance) error {
	if items == nil {
		items = []ComponentInstance{}
	}
	encoder := json.NewEncoder(w)
	encoder.SetIndent("", "  ")
	if err := encoder.Encode(items); err != nil {
		return fmt.Errorf("canvas: encode components: %w", err)
	}
	return nil
}

// DecodeComponents reads an exported JSON array, checks required fields, and
// fills defaults for omitted props and size.
func DecodeComponents(r io.Reader) ([]ComponentInstance, error) {
	data, err := io.ReadAll(r)
	if err != nil {
		return nil, fmt.Errorf("canvas: read components: %w", err)
	}
	return ParseComponents(data)
}

// ParseComponents is DecodeComponents over an in-memory payload.
func ParseComponents(data []byte) ([]ComponentInstance, error) {
	if err := componentsValidator.ValidateJSON(data); err != nil {
		return nil, fmt.Errorf("canvas: invalid components document: %w", err)
	}
	var items []ComponentInstance
	if err := json.Unmarshal(data, &items); err != nil {
		return nil, fmt.Errorf("canvas: decode components: %w", err)
	}
	for i := range items {
		if items[i].Props == nil {
			items[i].Props = map[string]any{}
		}
		if items[i].Size == (Size{}) {
			items[i].Size = DefaultSize(items[i].Type)
		}
		if items[i].Size.Width == "" {
			items[i].Size.Width = FillWidth
		}
	}
	if items == nil {
		items = []ComponentInstance{}
	}
	return items, nil
}
