package canvas

import (
	"fmt"
	"sync"
)

// CatalogHook lets packages register component definitions during init().
type CatalogHook func(reg *Registry) error

var (
	globalHookMu sync.Mutex
	globalHooks  []CatalogHook
)

// RegisterCatalogHook registers a hook executed against new registries.
func RegisterCatalogHook(h CatalogHook) {
	globalHookMu.Lock()
	defer globalHookMu.Unlock()
	globalHooks = append(globalHooks, h)
}

// Catalog resolves component definitions by type.
type Catalog interface {
	Definition(typ string) (ComponentDefinition, bool)
}

// Registry is the palette catalog. Definitions keep registration order so the
// palette renders deterministically.
type Registry struct {
	mu           sync.RWMutex
	definitions  map[string]ComponentDefinition
	order        []string
	manifestMeta map[string]ManifestComponent
}

// NewRegistry builds a registry seeded with the built-in catalog and global hooks.
func NewRegistry() *Registry {
	reg := NewEmptyRegistry()
	for _, def := range DefaultDefinitions() {
		_ = reg.RegisterDefinition(def)
	}
	_ = reg.ApplyHooks()
	return reg
}

// NewEmptyRegistry builds a registry without defaults or hooks.
func NewEmptyRegistry() *Registry {
	return &Registry{
		definitions:  map[string]ComponentDefinition{},
		manifestMeta: map[string]ManifestComponent{},
	}
}

// ApplyHooks executes registered catalog hooks.
func (r *Registry) ApplyHooks() error {
	globalHookMu.Lock()
	defer globalHookMu.Unlock()
	for _, hook := range globalHooks {
		if err := hook(r); err != nil {
			return err
		}
	}
	return nil
}

// RegisterDefinition stores or replaces a component definition.
func (r *Registry) RegisterDefinition(def ComponentDefinition) error {
	if def.Type == "" {
		return fmt.Errorf("canvas: component definition type is required")
	}
	if def.Label == "" {
		def.Label = def.Type
	}
	def.LabelLocalized = normalizeLocaleMap(def.LabelLocalized)
	r.mu.Lock()
	defer r.mu.Unlock()
	if _, exists := r.definitions[def.Type]; !exists {
		r.order = append(r.order, def.Type)
	}
	r.definitions[def.Type] = def
	return nil
}

// Definition fetches a component definition by type.
func (r *Registry) Definition(typ string) (ComponentDefinition, bool) {
	r.mu.RLock()
	defer r.mu.RUnlock()
	def, ok := r.definitions[typ]
	return def, ok
}

// Definitions returns all definitions in registration order.
func (r *Registry) Definitions() []ComponentDefinition {
	r.mu.RLock()
	defer r.mu.RUnlock()
	defs := make([]ComponentDefinition, 0, len(r.order))
	for _, typ := range r.order {
		defs = append(defs, r.definitions[typ])
	}
	return defs
}

// Types lists registered component types in registration order.
func (r *Registry) Types() []string {
	r.mu.RLock()
	defer r.mu.RUnlock()
	return append([]string(nil), r.order...)
}

// ManifestMetadata returns manifest tags/maintainers recorded for a type.
func (r *Registry) ManifestMetadata(typ string) (ManifestComponent, bool) {
	r.mu.RLock()
	defer r.mu.RUnlock()
	meta, ok := r.manifestMeta[typ]
	return meta, ok
}

func (r *Registry) recordManifestMetadata(entry ManifestComponent) {
	if len(entry.Tags) == 0 && len(entry.Maintainers) == 0 {
		return
	}
	r.mu.Lock()
	defer r.mu.Unlock()
	r.manifestMeta[entry.Definition.Type] = entry
}
