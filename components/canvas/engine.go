package canvas

import (
	"errors"
	"fmt"

	"github.com/goliatone/go-designer/components/ids"
	"github.com/goliatone/go-designer/components/schema"
)

// SizeProperty is the pseudo-property that replaces an instance's Size.
const SizeProperty = "size"

var (
	// ErrUnknownComponentType is returned when a type is missing from the catalog.
	ErrUnknownComponentType = errors.New("canvas: unknown component type")
	// ErrDuplicateComponentID is returned when a replacement list repeats an id.
	ErrDuplicateComponentID = errors.New("canvas: duplicate component id")
	// ErrMissingComponentID is returned when a replacement list holds an empty id.
	ErrMissingComponentID = errors.New("canvas: component id is required")
	// ErrInvalidSize is returned when a size update cannot be decoded.
	ErrInvalidSize = errors.New("canvas: invalid size")
)

// IsRejection reports whether err is an invalid-operation outcome that left
// the engine untouched.
func IsRejection(err error) bool {
	return errors.Is(err, ErrUnknownComponentType) ||
		errors.Is(err, ErrDuplicateComponentID) ||
		errors.Is(err, ErrMissingComponentID) ||
		errors.Is(err, ErrInvalidSize) ||
		errors.Is(err, schema.ErrInvalidValue)
}

// EngineOptions configures an Engine.
type EngineOptions struct {
	// Catalog validates types on insert. A nil catalog accepts any type.
	Catalog Catalog
	IDs     ids.Generator
	// IDPrefix is passed to the id generator; defaults to "cmp".
	IDPrefix string
}

// Engine owns the ordered component list for one editing session. The list
// is never mutated in place: every change swaps in a new slice, so any slice
// handed out earlier stays a valid snapshot. Engine is not safe for
// concurrent use.
type Engine struct {
	catalog Catalog
	ids     ids.Generator
	prefix  string

	items    []ComponentInstance
	selected string
	dragging string

	previewing bool
	design     []ComponentInstance
}

// NewEngine builds an empty engine.
func NewEngine(opts EngineOptions) *Engine {
	prefix := opts.IDPrefix
	if prefix == "" {
		prefix = "cmp"
	}
	return &Engine{
		catalog: opts.Catalog,
		ids:     ids.Normalize(opts.IDs),
		prefix:  prefix,
		items:   []ComponentInstance{},
	}
}

// Components returns a deep copy of the ordered list.
func (e *Engine) Components() []ComponentInstance {
	return cloneInstances(e.items)
}

// Len returns the number of instances.
func (e *Engine) Len() int { return len(e.items) }

// Component returns a copy of the instance with id.
func (e *Engine) Component(id string) (ComponentInstance, bool) {
	idx := e.indexOf(id)
	if idx < 0 {
		return ComponentInstance{}, false
	}
	return e.items[idx].Clone(), true
}

// InsertNew appends a fresh instance of typ and selects it.
func (e *Engine) InsertNew(typ string) (ComponentInstance, error) {
	return e.InsertNewAt(typ, len(e.items))
}

// InsertNewAt inserts a fresh instance of typ at index (clamped) and selects it.
func (e *Engine) InsertNewAt(typ string, index int) (ComponentInstance, error) {
	props := map[string]any{}
	if e.catalog != nil {
		def, ok := e.catalog.Definition(typ)
		if !ok {
			return ComponentInstance{}, fmt.Errorf("%w: %s", ErrUnknownComponentType, typ)
		}
		if def.DefaultProps != nil {
			props = schema.CloneMap(def.DefaultProps)
		}
	}
	inst := ComponentInstance{
		ID:    e.ids.NewID(e.prefix),
		Type:  typ,
		Props: props,
		Size:  DefaultSize(typ),
	}
	index = clamp(index, 0, len(e.items))
	next := make([]ComponentInstance, 0, len(e.items)+1)
	next = append(next, e.items[:index]...)
	next = append(next, inst)
	next = append(next, e.items[index:]...)
	e.items = next
	e.selected = inst.ID
	return inst.Clone(), nil
}

// BeginDrag marks id as the drag source. It reports false for unknown ids.
func (e *Engine) BeginDrag(id string) bool {
	if e.indexOf(id) < 0 {
		return false
	}
	e.dragging = id
	return true
}

// Dragging returns the current drag source.
func (e *Engine) Dragging() (string, bool) {
	return e.dragging, e.dragging != ""
}

// CancelDrag discards the drag source without touching the list.
func (e *Engine) CancelDrag() { e.dragging = "" }

// EndDrag commits the active drag at targetIndex and clears the drag source.
func (e *Engine) EndDrag(targetIndex int) ([]ComponentInstance, bool) {
	id := e.dragging
	e.dragging = ""
	if id == "" {
		return e.Components(), false
	}
	return e.CommitReorder(id, targetIndex)
}

// DropIndex computes the drop index for pointerY, excluding the drag source.
func (e *Engine) DropIndex(pointerY float64, bounds []ItemBounds) int {
	return ComputeDropIndex(pointerY, e.dragging, bounds)
}

// LayoutDropIndex computes the drop index against the engine's own flow layout.
func (e *Engine) LayoutDropIndex(pointerY float64, layout FlowLayout) int {
	return e.DropIndex(pointerY, layout.Bounds(e.items))
}

// CommitReorder moves draggedID so it lands in the slot displayed at
// targetIndex. When the item sits before the target, the target shifts down by
// one to account for the removal. Unknown ids and no-op moves return the list
// unchanged with false.
func (e *Engine) CommitReorder(draggedID string, targetIndex int) ([]ComponentInstance, bool) {
	src := e.indexOf(draggedID)
	if src < 0 {
		return e.Components(), false
	}
	target := clamp(targetIndex, 0, len(e.items))
	if src < target {
		target--
	}
	if src == target {
		return e.Components(), false
	}
	moved := e.items[src]
	rest := make([]ComponentInstance, 0, len(e.items))
	rest = append(rest, e.items[:src]...)
	rest = append(rest, e.items[src+1:]...)
	next := make([]ComponentInstance, 0, len(e.items))
	next = append(next, rest[:target]...)
	next = append(next, moved)
	next = append(next, rest[target:]...)
	e.items = next
	return e.Components(), true
}

// MoveTo places id at the final position index.
func (e *Engine) MoveTo(id string, index int) ([]ComponentInstance, bool) {
	src := e.indexOf(id)
	if src < 0 {
		return e.Components(), false
	}
	if index > src {
		index++
	}
	return e.CommitReorder(id, index)
}

// DeleteItem removes id, clearing selection and drag state that referenced it.
func (e *Engine) DeleteItem(id string) ([]ComponentInstance, bool) {
	idx := e.indexOf(id)
	if idx < 0 {
		return e.Components(), false
	}
	next := make([]ComponentInstance, 0, len(e.items)-1)
	next = append(next, e.items[:idx]...)
	next = append(next, e.items[idx+1:]...)
	e.items = next
	if e.selected == id {
		e.selected = ""
	}
	if e.dragging == id {
		e.dragging = ""
	}
	return e.Components(), true
}

// UpdateProperty sets props[name] on id. The "size" pseudo-property replaces
// Size instead, unless the value is a string and the type declares its own
// size prop. Declared properties are coerced through their schema variant.
func (e *Engine) UpdateProperty(id, name string, value any) (bool, error) {
	idx := e.indexOf(id)
	if idx < 0 {
		return false, nil
	}
	updated := e.items[idx].Clone()
	if name == SizeProperty && !e.scalarSizeProp(updated.Type, value) {
		size, err := decodeSize(value, updated.Size)
		if err != nil {
			return false, err
		}
		updated.Size = size
	} else {
		coerced, err := e.coerce(updated.Type, name, value)
		if err != nil {
			return false, err
		}
		if updated.Props == nil {
			updated.Props = map[string]any{}
		}
		updated.Props[name] = coerced
	}
	e.replace(idx, updated)
	return true, nil
}

// UpdateEvent stores script for eventName on id. An empty script removes it.
func (e *Engine) UpdateEvent(id, eventName, script string) bool {
	idx := e.indexOf(id)
	if idx < 0 || eventName == "" {
		return false
	}
	updated := e.items[idx].Clone()
	if script == "" {
		delete(updated.Events, eventName)
		if len(updated.Events) == 0 {
			updated.Events = nil
		}
	} else {
		if updated.Events == nil {
			updated.Events = map[string]string{}
		}
		updated.Events[eventName] = script
	}
	e.replace(idx, updated)
	return true
}

// Select marks id as the selected instance.
func (e *Engine) Select(id string) bool {
	if e.indexOf(id) < 0 {
		return false
	}
	e.selected = id
	return true
}

// ClearSelection deselects.
func (e *Engine) ClearSelection() { e.selected = "" }

// Selected returns a copy of the selected instance.
func (e *Engine) Selected() (ComponentInstance, bool) {
	if e.selected == "" {
		return ComponentInstance{}, false
	}
	return e.Component(e.selected)
}

// SetComponents atomically replaces the list. Duplicate or empty ids and
// types missing from the catalog reject the whole replacement.
func (e *Engine) SetComponents(list []ComponentInstance) error {
	seen := make(map[string]struct{}, len(list))
	for _, item := range list {
		if item.ID == "" {
			return ErrMissingComponentID
		}
		if _, dup := seen[item.ID]; dup {
			return fmt.Errorf("%w: %s", ErrDuplicateComponentID, item.ID)
		}
		seen[item.ID] = struct{}{}
		if e.catalog != nil {
			if _, ok := e.catalog.Definition(item.Type); !ok {
				return fmt.Errorf("%w: %s", ErrUnknownComponentType, item.Type)
			}
		}
	}
	e.items = cloneInstances(list)
	if _, ok := seen[e.selected]; !ok {
		e.selected = ""
	}
	e.dragging = ""
	return nil
}

// EnterPreview snapshots the design list; ExitPreview restores it.
func (e *Engine) EnterPreview() bool {
	if e.previewing {
		return false
	}
	e.design = e.items
	e.previewing = true
	return true
}

// ExitPreview restores the list captured by EnterPreview.
func (e *Engine) ExitPreview() bool {
	if !e.previewing {
		return false
	}
	e.items = e.design
	e.design = nil
	e.previewing = false
	if e.indexOf(e.selected) < 0 {
		e.selected = ""
	}
	return true
}

// Previewing reports whether preview mode is active.
func (e *Engine) Previewing() bool { return e.previewing }

func (e *Engine) coerce(typ, name string, value any) (any, error) {
	if e.catalog == nil {
		return schema.CloneValue(value), nil
	}
	def, ok := e.catalog.Definition(typ)
	if !ok {
		return schema.CloneValue(value), nil
	}
	prop, ok := def.Properties.Lookup(name)
	if !ok {
		return schema.CloneValue(value), nil
	}
	return prop.Coerce(value)
}

// scalarSizeProp reports whether a "size" update is a plain value aimed at a
// declared size prop (small/middle/large) rather than the layout box.
func (e *Engine) scalarSizeProp(typ string, value any) bool {
	if _, ok := value.(string); !ok || e.catalog == nil {
		return false
	}
	def, ok := e.catalog.Definition(typ)
	if !ok {
		return false
	}
	_, declared := def.Properties.Lookup(SizeProperty)
	return declared
}

func (e *Engine) replace(idx int, inst ComponentInstance) {
	next := make([]ComponentInstance, len(e.items))
	copy(next, e.items)
	next[idx] = inst
	e.items = next
}

func (e *Engine) indexOf(id string) int {
	if id == "" {
		return -1
	}
	for i := range e.items {
		if e.items[i].ID == id {
			return i
		}
	}
	return -1
}

func decodeSize(value any, current Size) (Size, error) {
	switch v := value.(type) {
	case Size:
		return v, nil
	case *Size:
		if v == nil {
			return Size{}, ErrInvalidSize
		}
		return *v, nil
	case map[string]any:
		out := current
		if w, ok := v["width"]; ok {
			switch wv := w.(type) {
			case string:
				out.Width = Length(wv)
			default:
				f, err := (schema.NumberProp{}).Coerce(wv)
				if err != nil {
					return Size{}, fmt.Errorf("%w: width %v", ErrInvalidSize, w)
				}
				out.Width = Length(formatFloat(f.(float64)))
			}
		}
		if h, ok := v["height"]; ok {
			f, err := (schema.NumberProp{}).Coerce(h)
			if err != nil {
				return Size{}, fmt.Errorf("%w: height %v", ErrInvalidSize, h)
			}
			out.Height = f.(float64)
		}
		return out, nil
	default:
		return Size{}, fmt.Errorf("%w: %T", ErrInvalidSize, value)
	}
}

func clamp(v, lo, hi int) int {
	if v < lo {
		return lo
	}
	if v > hi {
		return hi
	}
	return v
}
