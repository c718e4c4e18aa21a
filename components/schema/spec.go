package schema

import (
	"encoding/json"
	"fmt"

	"gopkg.in/yaml.v3"
)

// Spec is the flat wire form of a Property, matching the catalog JSON/YAML shape.
type Spec struct {
	Name    string   `json:"name" yaml:"name"`
	Label   string   `json:"label" yaml:"label"`
	Type    Kind     `json:"type" yaml:"type"`
	Options []Option `json:"options,omitempty" yaml:"options,omitempty"`
	Min     *float64 `json:"min,omitempty" yaml:"min,omitempty"`
	Max     *float64 `json:"max,omitempty" yaml:"max,omitempty"`
}

// Property converts the wire spec into its variant.
func (s Spec) Property() (Property, error) {
	meta := Meta{Name: s.Name, Label: s.Label}
	if meta.Name == "" {
		return nil, fmt.Errorf("schema: property name is required")
	}
	switch s.Type {
	case KindString, "":
		return StringProp{Meta: meta}, nil
	case KindNumber:
		return NumberProp{Meta: meta, Min: s.Min, Max: s.Max}, nil
	case KindBoolean:
		return BooleanProp{Meta: meta}, nil
	case KindSelect:
		return SelectProp{Meta: meta, Options: append([]Option(nil), s.Options...)}, nil
	case KindArray:
		return ArrayProp{Meta: meta}, nil
	default:
		return nil, fmt.Errorf("%w %q for %s", ErrUnknownKind, s.Type, s.Name)
	}
}

// SpecOf flattens a Property into its wire form.
func SpecOf(p Property) Spec {
	meta := p.Describe()
	spec := Spec{Name: meta.Name, Label: meta.Label, Type: p.Kind()}
	switch v := p.(type) {
	case NumberProp:
		spec.Min, spec.Max = v.Min, v.Max
	case SelectProp:
		spec.Options = append([]Option(nil), v.Options...)
	}
	return spec
}

// Properties is an ordered list of property variants that serializes as []Spec.
type Properties []Property

// Lookup finds a property by name.
func (ps Properties) Lookup(name string) (Property, bool) {
	for _, p := range ps {
		if p.Describe().Name == name {
			return p, true
		}
	}
	return nil, false
}

// Specs flattens the list.
func (ps Properties) Specs() []Spec {
	out := make([]Spec, len(ps))
	for i, p := range ps {
		out[i] = SpecOf(p)
	}
	return out
}

// FromSpecs builds Properties from wire specs.
func FromSpecs(specs []Spec) (Properties, error) {
	out := make(Properties, 0, len(specs))
	for _, spec := range specs {
		p, err := spec.Property()
		if err != nil {
			return nil, err
		}
		out = append(out, p)
	}
	return out, nil
}

func (ps Properties) MarshalJSON() ([]byte, error) {
	return json.Marshal(ps.Specs())
}

func (ps *Properties) UnmarshalJSON(data []byte) error {
	var specs []Spec
	if err := json.Unmarshal(data, &specs); err != nil {
		return err
	}
	out, err := FromSpecs(specs)
	if err != nil {
		return err
	}
	*ps = out
	return nil
}

func (ps Properties) MarshalYAML() (any, error) {
	return ps.Specs(), nil
}

func (ps *Properties) UnmarshalYAML(node *yaml.Node) error {
	var specs []Spec
	if err := node.Decode(&specs); err != nil {
		return err
	}
	out, err := FromSpecs(specs)
	if err != nil {
		return err
	}
	*ps = out
	return nil
}
