package canvas

import (
	"context"
	"errors"
	"fmt"
	"sort"
	"strings"
	"sync"
	"time"

	"github.com/goliatone/go-designer/components/ids"
)

var (
	// ErrConfigNotFound is returned when a named configuration does not exist.
	ErrConfigNotFound = errors.New("canvas: configuration not found")
	// ErrConfigName is returned for blank configuration names.
	ErrConfigName = errors.New("canvas: configuration name is required")
)

// SavedConfig is a named snapshot of a component list.
type SavedConfig struct {
	ID         string              `json:"id"`
	Name       string              `json:"name"`
	Components []ComponentInstance `json:"components"`
	CreatedAt  time.Time           `json:"createdAt"`
	UpdatedAt  time.Time           `json:"updatedAt"`
}

// ConfigStore persists named configurations.
type ConfigStore interface {
	SaveConfig(ctx context.Context, name string, components []ComponentInstance) (SavedConfig, error)
	LoadConfig(ctx context.Context, name string) (SavedConfig, error)
	DeleteConfig(ctx context.Context, name string) error
	ListConfigs(ctx context.Context) ([]SavedConfig, error)
}

// InMemoryLibrary is a concurrency-safe ConfigStore. Saving an existing name
// overwrites its components and keeps its id and creation time.
type InMemoryLibrary struct {
	mu      sync.RWMutex
	data    map[string]SavedConfig
	current string
	ids     ids.Generator
	now     func() time.Time
}

// NewInMemoryLibrary creates an empty library.
func NewInMemoryLibrary(gen ids.Generator) *InMemoryLibrary {
	return &InMemoryLibrary{
		data: map[string]SavedConfig{},
		ids:  ids.Normalize(gen),
		now:  time.Now,
	}
}

// SaveConfig stores a deep copy of components under name and makes it current.
func (l *InMemoryLibrary) SaveConfig(_ context.Context, name string, components []ComponentInstance) (SavedConfig, error) {
	name = strings.TrimSpace(name)
	if name == "" {
		return SavedConfig{}, ErrConfigName
	}
	now := l.now()
	l.mu.Lock()
	defer l.mu.Unlock()
	cfg, exists := l.data[name]
	if !exists {
		cfg = SavedConfig{ID: l.ids.NewID("cfg"), Name: name, CreatedAt: now}
	}
	cfg.Components = cloneInstances(components)
	cfg.UpdatedAt = now
	l.data[name] = cfg
	l.current = name
	return copyConfig(cfg), nil
}

// LoadConfig returns a deep copy of the named configuration and makes it current.
func (l *InMemoryLibrary) LoadConfig(_ context.Context, name string) (SavedConfig, error) {
	l.mu.Lock()
	defer l.mu.Unlock()
	cfg, ok := l.data[strings.TrimSpace(name)]
	if !ok {
		return SavedConfig{}, fmt.Errorf("%w: %s", ErrConfigNotFound, name)
	}
	l.current = cfg.Name
	return copyConfig(cfg), nil
}

// DeleteConfig removes the named configuration. Missing names are ignored.
func (l *InMemoryLibrary) DeleteConfig(_ context.Context, name string) error {
	name = strings.TrimSpace(name)
	l.mu.Lock()
	defer l.mu.Unlock()
	delete(l.data, name)
	if l.current == name {
		l.current = ""
	}
	return nil
}

// ListConfigs returns every configuration ordered by name.
func (l *InMemoryLibrary) ListConfigs(context.Context) ([]SavedConfig, error) {
	l.mu.RLock()
	defer l.mu.RUnlock()
	out := make([]SavedConfig, 0, len(l.data))
	for _, cfg := range l.data {
		out = append(out, copyConfig(cfg))
	}
	sort.Slice(out, func(i, j int) bool { return out[i].Name < out[j].Name })
	return out, nil
}

// Current returns the most recently saved or loaded configuration.
func (l *InMemoryLibrary) Current() (SavedConfig, bool) {
	l.mu.RLock()
	defer l.mu.RUnlock()
	if l.current == "" {
		return SavedConfig{}, false
	}
	cfg, ok := l.data[l.current]
	if !ok {
		return SavedConfig{}, false
	}
	return copyConfig(cfg), true
}

func copyConfig(cfg SavedConfig) SavedConfig {
	cfg.Components = cloneInstances(cfg.Components)
	return cfg
}
