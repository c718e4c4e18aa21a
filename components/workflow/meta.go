package workflow

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

// Status is the lifecycle state of a workflow definition.
type Status string

const (
	StatusActive   Status = "active"
	StatusInactive Status = "inactive"
	StatusDraft    Status = "draft"
)

// Valid reports whether s is a known status.
func (s Status) Valid() bool {
	switch s {
	case StatusActive, StatusInactive, StatusDraft:
		return true
	}
	return false
}

var (
	ErrWorkflowNotFound = errors.New("workflow: definition not found")
	ErrWorkflowName     = errors.New("workflow: definition name is required")
	ErrInvalidStatus    = errors.New("workflow: invalid status")
)

// Meta describes a workflow definition in the management list.
type Meta struct {
	ID          string    `json:"id"`
	Name        string    `json:"name"`
	Description string    `json:"description,omitempty"`
	Status      Status    `json:"status"`
	CreatedAt   time.Time `json:"createdAt"`
	UpdatedAt   time.Time `json:"updatedAt"`
}

// Definition pairs a workflow's metadata with its saved graph.
type Definition struct {
	Meta
	Graph Graph `json:"graph"`
}

// Catalog is an in-memory, concurrency-safe list of workflow definitions.
type Catalog struct {
	mu    sync.RWMutex
	items map[string]Definition
	ids   ids.Generator
	now   func() time.Time
}

// NewCatalog creates an empty catalog.
func NewCatalog(gen ids.Generator) *Catalog {
	return &Catalog{
		items: map[string]Definition{},
		ids:   ids.Normalize(gen),
		now:   time.Now,
	}
}

// Create stores a new definition. An empty status becomes draft.
func (c *Catalog) Create(_ context.Context, meta Meta) (Meta, error) {
	meta, err := normalizeMeta(meta)
	if err != nil {
		return Meta{}, err
	}
	now := c.now()
	c.mu.Lock()
	defer c.mu.Unlock()
	meta.ID = c.ids.NewID("wf")
	meta.CreatedAt, meta.UpdatedAt = now, now
	c.items[meta.ID] = Definition{Meta: meta, Graph: Graph{Nodes: []Node{}, Edges: []Edge{}}}
	return meta, nil
}

// Update replaces the name, description and status of an existing definition.
func (c *Catalog) Update(_ context.Context, meta Meta) (Meta, error) {
	meta, err := normalizeMeta(meta)
	if err != nil {
		return Meta{}, err
	}
	c.mu.Lock()
	defer c.mu.Unlock()
	def, ok := c.items[meta.ID]
	if !ok {
		return Meta{}, fmt.Errorf("%w: %s", ErrWorkflowNotFound, meta.ID)
	}
	def.Name, def.Description, def.Status = meta.Name, meta.Description, meta.Status
	def.UpdatedAt = c.now()
	c.items[meta.ID] = def
	return def.Meta, nil
}

// Delete removes a definition.
func (c *Catalog) Delete(_ context.Context, id string) error {
	c.mu.Lock()
	defer c.mu.Unlock()
	if _, ok := c.items[id]; !ok {
		return fmt.Errorf("%w: %s", ErrWorkflowNotFound, id)
	}
	delete(c.items, id)
	return nil
}

// Get returns a definition with a deep copy of its graph.
func (c *Catalog) Get(_ context.Context, id string) (Definition, error) {
	c.mu.RLock()
	defer c.mu.RUnlock()
	def, ok := c.items[id]
	if !ok {
		return Definition{}, fmt.Errorf("%w: %s", ErrWorkflowNotFound, id)
	}
	def.Graph = def.Graph.Clone()
	return def, nil
}

// List returns metadata ordered by creation time, then id.
func (c *Catalog) List(_ context.Context) ([]Meta, error) {
	c.mu.RLock()
	defer c.mu.RUnlock()
	out := make([]Meta, 0, len(c.items))
	for _, def := range c.items {
		out = append(out, def.Meta)
	}
	sort.Slice(out, func(i, j int) bool {
		if !out[i].CreatedAt.Equal(out[j].CreatedAt) {
			return out[i].CreatedAt.Before(out[j].CreatedAt)
		}
		return out[i].ID < out[j].ID
	})
	return out, nil
}

// SaveGraph stores the designer graph for a definition.
func (c *Catalog) SaveGraph(_ context.Context, id string, g Graph) error {
	if err := g.Validate(); err != nil {
		return err
	}
	c.mu.Lock()
	defer c.mu.Unlock()
	def, ok := c.items[id]
	if !ok {
		return fmt.Errorf("%w: %s", ErrWorkflowNotFound, id)
	}
	def.Graph = g.Clone()
	def.UpdatedAt = c.now()
	c.items[id] = def
	return nil
}

func normalizeMeta(meta Meta) (Meta, error) {
	meta.Name = strings.TrimSpace(meta.Name)
	meta.Description = strings.TrimSpace(meta.Description)
	if meta.Name == "" {
		return meta, ErrWorkflowName
	}
	if meta.Status == "" {
		meta.Status = StatusDraft
	}
	if !meta.Status.Valid() {
		return meta, fmt.Errorf("%w: %s", ErrInvalidStatus, meta.Status)
	}
	return meta, nil
}
