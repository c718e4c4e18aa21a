package canvas

import (
	"bytes"
	_ "embed"
	"errors"
	"fmt"
	"io"
	"os"

	"gopkg.in/yaml.v3"
)

const (
	manifestVersionV1 = "1"
	// ManifestVersion exposes the current catalog manifest format version for tooling.
	ManifestVersion = manifestVersionV1
)

//go:embed catalog/default.yaml
var defaultCatalog []byte

// CatalogManifest models a YAML/JSON manifest describing component types.
type CatalogManifest struct {
	Version    string              `json:"version" yaml:"version"`
	Name       string              `json:"name,omitempty" yaml:"name,omitempty"`
	Package    string              `json:"package,omitempty" yaml:"package,omitempty"`
	Components []ManifestComponent `json:"components" yaml:"components"`
	Source     string              `json:"-" yaml:"-"`
}

// ManifestComponent is a single catalog entry within a manifest.
type ManifestComponent struct {
	Definition  ComponentDefinition `json:"definition" yaml:"definition"`
	Maintainers []string            `json:"maintainers,omitempty" yaml:"maintainers,omitempty"`
	Tags        []string            `json:"tags,omitempty" yaml:"tags,omitempty"`
}

// DefaultDefinitions returns the built-in component catalog.
func DefaultDefinitions() []ComponentDefinition {
	doc, err := DecodeManifest(bytes.NewReader(defaultCatalog))
	if err != nil {
		panic(fmt.Errorf("canvas: built-in catalog is invalid: %w", err))
	}
	defs := make([]ComponentDefinition, len(doc.Components))
	for i, entry := range doc.Components {
		defs[i] = entry.Definition
	}
	return defs
}

// LoadManifestFile reads a manifest from disk and registers it.
func (r *Registry) LoadManifestFile(path string) (*CatalogManifest, error) {
	doc, err := ReadManifest(path)
	if err != nil {
		return nil, err
	}
	if err := r.LoadManifestDocument(doc); err != nil {
		return nil, err
	}
	return doc, nil
}

// LoadManifestDocument registers every component from a decoded manifest.
func (r *Registry) LoadManifestDocument(doc *CatalogManifest) error {
	if doc == nil {
		return errors.New("canvas: manifest document is nil")
	}
	for _, entry := range doc.Components {
		if err := r.RegisterDefinition(entry.Definition); err != nil {
			return fmt.Errorf("canvas: register component %s from %s: %w", entry.Definition.Type, doc.Source, err)
		}
		r.recordManifestMetadata(entry)
	}
	return nil
}

// ReadManifest loads a manifest file from disk without registering it.
func ReadManifest(path string) (*CatalogManifest, error) {
	f, err := os.Open(path) //nolint:gosec
	if err != nil {
		return nil, fmt.Errorf("canvas: open manifest %s: %w", path, err)
	}
	defer f.Close()
	doc, err := DecodeManifest(f)
	if err != nil {
		return nil, fmt.Errorf("canvas: decode manifest %s: %w", path, err)
	}
	doc.Source = path
	return doc, nil
}

// DecodeManifest reads a manifest from any reader.
func DecodeManifest(r io.Reader) (*CatalogManifest, error) {
	decoder := yaml.NewDecoder(r)
	decoder.KnownFields(true)
	var doc CatalogManifest
	if err := decoder.Decode(&doc); err != nil {
		if errors.Is(err, io.EOF) {
			return nil, errors.New("canvas: manifest is empty")
		}
		return nil, fmt.Errorf("canvas: parse manifest: %w", err)
	}
	if doc.Version == "" {
		doc.Version = manifestVersionV1
	}
	if err := doc.Validate(); err != nil {
		return nil, err
	}
	return &doc, nil
}

// Validate ensures the manifest satisfies required fields.
func (doc *CatalogManifest) Validate() error {
	if doc.Version != manifestVersionV1 {
		return fmt.Errorf("canvas: unsupported manifest version %q", doc.Version)
	}
	seen := make(map[string]struct{}, len(doc.Components))
	for idx, entry := range doc.Components {
		def := entry.Definition
		if def.Type == "" {
			return fmt.Errorf("canvas: manifest component at index %d is missing definition.type", idx)
		}
		if def.Label == "" {
			return fmt.Errorf("canvas: manifest component %s missing definition.label", def.Type)
		}
		if _, exists := seen[def.Type]; exists {
			return fmt.Errorf("canvas: manifest duplicates component type %s", def.Type)
		}
		seen[def.Type] = struct{}{}
		events := make(map[string]struct{}, len(def.Events))
		for _, evt := range def.Events {
			if evt.Name == "" {
				return fmt.Errorf("canvas: component %s declares an event without a name", def.Type)
			}
			if _, dup := events[evt.Name]; dup {
				return fmt.Errorf("canvas: component %s duplicates event %s", def.Type, evt.Name)
			}
			events[evt.Name] = struct{}{}
		}
	}
	return nil
}

// Encode writes the manifest as YAML.
func (doc *CatalogManifest) Encode(w io.Writer) error {
	encoder := yaml.NewEncoder(w)
	encoder.SetIndent(2)
	if err := encoder.Encode(doc); err != nil {
		return fmt.Errorf("canvas: write manifest: %w", err)
	}
	return encoder.Close()
}
