// Package canvas implements the low-code canvas editor: an ordered list of
// component instances, the drop-index heuristics used while dragging, and the
// catalog of component definitions the palette offers.
package canvas

import (
	"bytes"
	"encoding/json"
	"strconv"

	"github.com/goliatone/go-designer/components/schema"
)

const (
	// FillWidth is the width every instance is created with.
	FillWidth Length = "100%"
	// MultilineType is the component type that gets the taller default height.
	MultilineType = "TextArea"

	defaultHeight          = 80
	defaultMultilineHeight = 100
)

// Length is a dimension expressed either as bare pixels ("320") or a CSS
// string ("100%"). Pixel values serialize as JSON numbers.
type Length string

// Pixels returns the numeric value when the length is a bare number.
func (l Length) Pixels() (float64, bool) {
	f, err := strconv.ParseFloat(string(l), 64)
	return f, err == nil
}

func (l Length) MarshalJSON() ([]byte, error) {
	if _, ok := l.Pixels(); ok && json.Valid([]byte(l)) {
		return []byte(l), nil
	}
	return json.Marshal(string(l))
}

func (l *Length) UnmarshalJSON(data []byte) error {
	data = bytes.TrimSpace(data)
	if len(data) > 0 && data[0] == '"' {
		var s string
		if err := json.Unmarshal(data, &s); err != nil {
			return err
		}
		*l = Length(s)
		return nil
	}
	var n json.Number
	if err := json.Unmarshal(data, &n); err != nil {
		return err
	}
	*l = Length(n.String())
	return nil
}

// Size is the rendered box of an instance. Only Height affects vertical layout.
type Size struct {
	Width  Length  `json:"width" yaml:"width"`
	Height float64 `json:"height" yaml:"height"`
}

// ComponentInstance is one configured component placed on the canvas.
type ComponentInstance struct {
	ID     string            `json:"id" yaml:"id"`
	Type   string            `json:"type" yaml:"type"`
	Props  map[string]any    `json:"props" yaml:"props"`
	Size   Size              `json:"size" yaml:"size"`
	Events map[string]string `json:"events,omitempty" yaml:"events,omitempty"`
}

// Clone deep-copies the instance.
func (c ComponentInstance) Clone() ComponentInstance {
	out := c
	out.Props = schema.CloneMap(c.Props)
	if c.Events != nil {
		out.Events = make(map[string]string, len(c.Events))
		for k, v := range c.Events {
			out.Events[k] = v
		}
	}
	return out
}

// EventDefinition names an event a component type can raise.
type EventDefinition struct {
	Name  string `json:"name" yaml:"name"`
	Label string `json:"label" yaml:"label"`
}

// ComponentDefinition describes a palette entry.
type ComponentDefinition struct {
	Type           string            `json:"type" yaml:"type"`
	Label          string            `json:"label" yaml:"label"`
	LabelLocalized map[string]string `json:"label_localized,omitempty" yaml:"label_localized,omitempty"`
	Category       string            `json:"category,omitempty" yaml:"category,omitempty"`
	Properties     schema.Properties `json:"properties" yaml:"properties"`
	Events         []EventDefinition `json:"events" yaml:"events"`
	DefaultProps   map[string]any    `json:"default_props,omitempty" yaml:"default_props,omitempty"`
}

// HasEvent reports whether the definition declares the event.
func (def ComponentDefinition) HasEvent(name string) bool {
	for _, evt := range def.Events {
		if evt.Name == name {
			return true
		}
	}
	return false
}

// DefaultSize returns the size new instances of typ start with.
func DefaultSize(typ string) Size {
	height := float64(defaultHeight)
	if typ == MultilineType {
		height = defaultMultilineHeight
	}
	return Size{Width: FillWidth, Height: height}
}

func cloneInstances(items []ComponentInstance) []ComponentInstance {
	if items == nil {
		return []ComponentInstance{}
	}
	out := make([]ComponentInstance, len(items))
	for i, item := range items {
		out[i] = item.Clone()
	}
	return out
}
