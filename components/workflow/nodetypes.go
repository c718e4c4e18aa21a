package workflow

import (
	"bytes"
	_ "embed"
	"errors"
	"fmt"
	"io"
	"os"
	"sync"

	"gopkg.in/yaml.v3"

	"github.com/goliatone/go-designer/components/schema"
)

const (
	nodeManifestVersionV1 = "1"
	// DefaultNodeColor is used for types registered without a color.
	DefaultNodeColor = "#1890ff"
)

//go:embed catalog/node_types.yaml
var defaultNodeTypes []byte

// NodeTypeDefinition is a palette entry: display title, accent color and the
// property template copied into every new node of the type.
type NodeTypeDefinition struct {
	Type       NodeType       `json:"type" yaml:"type"`
	Title      string         `json:"title" yaml:"title"`
	Color      string         `json:"color,omitempty" yaml:"color,omitempty"`
	Properties []NodeProperty `json:"properties" yaml:"properties"`
}

// TypeCatalog resolves node types.
type TypeCatalog interface {
	NodeType(typ NodeType) (NodeTypeDefinition, bool)
}

// NodeTypeHook lets packages extend new type registries during init().
type NodeTypeHook func(reg *TypeRegistry) error

var (
	nodeHookMu sync.Mutex
	nodeHooks  []NodeTypeHook
)

// RegisterNodeTypeHook registers a hook executed against new type registries.
func RegisterNodeTypeHook(h NodeTypeHook) {
	nodeHookMu.Lock()
	defer nodeHookMu.Unlock()
	nodeHooks = append(nodeHooks, h)
}

// TypeRegistry is the node palette.
type TypeRegistry struct {
	mu    sync.RWMutex
	types map[NodeType]NodeTypeDefinition
	order []NodeType
}

// NewTypeRegistry builds a registry with the built-in node types and hooks applied.
func NewTypeRegistry() *TypeRegistry {
	reg := NewEmptyTypeRegistry()
	for _, def := range DefaultNodeTypes() {
		_ = reg.Register(def)
	}
	_ = reg.ApplyHooks()
	return reg
}

// NewEmptyTypeRegistry builds a registry without defaults.
func NewEmptyTypeRegistry() *TypeRegistry {
	return &TypeRegistry{types: map[NodeType]NodeTypeDefinition{}}
}

// ApplyHooks executes registered hooks.
func (r *TypeRegistry) ApplyHooks() error {
	nodeHookMu.Lock()
	defer nodeHookMu.Unlock()
	for _, hook := range nodeHooks {
		if err := hook(r); err != nil {
			return err
		}
	}
	return nil
}

// Register validates def, normalizes its template values and stores it.
func (r *TypeRegistry) Register(def NodeTypeDefinition) error {
	normalized, err := normalizeNodeType(def)
	if err != nil {
		return err
	}
	r.mu.Lock()
	defer r.mu.Unlock()
	if _, exists := r.types[normalized.Type]; !exists {
		r.order = append(r.order, normalized.Type)
	}
	r.types[normalized.Type] = normalized
	return nil
}

// NodeType returns a deep copy of the definition for typ.
func (r *TypeRegistry) NodeType(typ NodeType) (NodeTypeDefinition, bool) {
	r.mu.RLock()
	defer r.mu.RUnlock()
	def, ok := r.types[typ]
	if !ok {
		return NodeTypeDefinition{}, false
	}
	def.Properties = cloneProperties(def.Properties)
	return def, true
}

// Definitions returns every definition in registration order.
func (r *TypeRegistry) Definitions() []NodeTypeDefinition {
	r.mu.RLock()
	defer r.mu.RUnlock()
	out := make([]NodeTypeDefinition, 0, len(r.order))
	for _, typ := range r.order {
		def := r.types[typ]
		def.Properties = cloneProperties(def.Properties)
		out = append(out, def)
	}
	return out
}

// Color returns the accent color for typ, or DefaultNodeColor.
func (r *TypeRegistry) Color(typ NodeType) string {
	if def, ok := r.NodeType(typ); ok {
		return def.Color
	}
	return DefaultNodeColor
}

func normalizeNodeType(def NodeTypeDefinition) (NodeTypeDefinition, error) {
	if def.Type == "" {
		return def, errors.New("workflow: node type is required")
	}
	if def.Title == "" {
		def.Title = string(def.Type)
	}
	if def.Color == "" {
		def.Color = DefaultNodeColor
	}
	props, err := normalizeProperties(def.Properties)
	if err != nil {
		return def, fmt.Errorf("workflow: node type %s: %w", def.Type, err)
	}
	def.Properties = props
	return def, nil
}

// normalizeProperties checks ids and kinds and coerces every value so
// templates loaded from YAML compare equal to graphs decoded from JSON.
func normalizeProperties(props []NodeProperty) ([]NodeProperty, error) {
	out := make([]NodeProperty, len(props))
	seen := make(map[string]struct{}, len(props))
	for i, p := range props {
		if p.ID == "" {
			return nil, fmt.Errorf("property at index %d is missing an id", i)
		}
		if _, dup := seen[p.ID]; dup {
			return nil, fmt.Errorf("duplicate property id %s", p.ID)
		}
		seen[p.ID] = struct{}{}
		switch p.Type {
		case schema.KindString, schema.KindNumber, schema.KindBoolean, schema.KindSelect:
		case "":
			p.Type = schema.KindString
		default:
			return nil, fmt.Errorf("%w %q for %s", schema.ErrUnknownKind, p.Type, p.ID)
		}
		if p.Type == schema.KindSelect && len(p.Options) == 0 {
			return nil, fmt.Errorf("select property %s declares no options", p.ID)
		}
		prop, err := p.Property()
		if err != nil {
			return nil, err
		}
		value, err := prop.Coerce(p.Value)
		if err != nil {
			return nil, err
		}
		p.Value = value
		out[i] = p.Clone()
	}
	return out, nil
}

// NodeTypeManifest is the YAML document describing node types.
type NodeTypeManifest struct {
	Version string               `json:"version" yaml:"version"`
	Name    string               `json:"name,omitempty" yaml:"name,omitempty"`
	Types   []NodeTypeDefinition `json:"types" yaml:"types"`
	Source  string               `json:"-" yaml:"-"`
}

// DefaultNodeTypes returns the built-in palette: start, approval, condition,
// task and end.
func DefaultNodeTypes() []NodeTypeDefinition {
	doc, err := DecodeNodeTypeManifest(bytes.NewReader(defaultNodeTypes))
	if err != nil {
		panic(fmt.Errorf("workflow: built-in node types are invalid: %w", err))
	}
	return doc.Types
}

// LoadManifestFile reads a node-type manifest and registers its types.
func (r *TypeRegistry) LoadManifestFile(path string) (*NodeTypeManifest, error) {
	f, err := os.Open(path) //nolint:gosec
	if err != nil {
		return nil, fmt.Errorf("workflow: open manifest %s: %w", path, err)
	}
	defer f.Close()
	doc, err := DecodeNodeTypeManifest(f)
	if err != nil {
		return nil, fmt.Errorf("workflow: decode manifest %s: %w", path, err)
	}
	doc.Source = path
	for _, def := range doc.Types {
		if err := r.Register(def); err != nil {
			return nil, fmt.Errorf("workflow: register node type %s from %s: %w", def.Type, path, err)
		}
	}
	return doc, nil
}

// DecodeNodeTypeManifest reads and validates a manifest.
func DecodeNodeTypeManifest(r io.Reader) (*NodeTypeManifest, error) {
	decoder := yaml.NewDecoder(r)
	decoder.KnownFields(true)
	var doc NodeTypeManifest
	if err := decoder.Decode(&doc); err != nil {
		if errors.Is(err, io.EOF) {
			return nil, errors.New("workflow: manifest is empty")
		}
		return nil, fmt.Errorf("workflow: parse manifest: %w", err)
	}
	if doc.Version == "" {
		doc.Version = nodeManifestVersionV1
	}
	if doc.Version != nodeManifestVersionV1 {
		return nil, fmt.Errorf("workflow: unsupported manifest version %q", doc.Version)
	}
	seen := make(map[NodeType]struct{}, len(doc.Types))
	for i, def := range doc.Types {
		normalized, err := normalizeNodeType(def)
		if err != nil {
			return nil, err
		}
		if _, dup := seen[normalized.Type]; dup {
			return nil, fmt.Errorf("workflow: manifest duplicates node type %s", normalized.Type)
		}
		seen[normalized.Type] = struct{}{}
		doc.Types[i] = normalized
	}
	return &doc, nil
}
