package designer

import (
	"context"
	"fmt"
	"io"

	"github.com/goliatone/go-designer/components/canvas"
	"github.com/goliatone/go-designer/components/scripting"
)

// CanvasState is a snapshot of a canvas editing session.
type CanvasState struct {
	Session    string                     `json:"session"`
	Components []canvas.ComponentInstance `json:"components"`
	Selected   string                     `json:"selected,omitempty"`
	Dragging   string                     `json:"dragging,omitempty"`
	Previewing bool                       `json:"previewing"`
}

// PaletteEntry is a catalog entry resolved for a locale.
type PaletteEntry struct {
	Type     string `json:"type"`
	Label    string `json:"label"`
	Category string `json:"category,omitempty"`
}

// DropRequest ends a component drag at a pointer position. Bounds are the
// rendered item extents; when empty the configured flow layout is used.
type DropRequest struct {
	PointerY float64             `json:"pointerY"`
	Bounds   []canvas.ItemBounds `json:"bounds,omitempty"`
}

// OpenCanvas returns the session state, creating the session when needed.
// An empty id allocates a new session.
func (s *Service) OpenCanvas(ctx context.Context, session string) (CanvasState, error) {
	s.mu.Lock()
	if session == "" {
		session = s.opts.IDs.NewID("canvas")
	}
	sess, ok := s.canvases[session]
	if !ok {
		sess = &canvasSession{engine: canvas.NewEngine(canvas.EngineOptions{
			Catalog: s.opts.Catalog,
			IDs:     s.opts.IDs,
		})}
		s.canvases[session] = sess
	}
	s.mu.Unlock()
	if !ok {
		s.opts.Logger.Info("designer session opened", "session", session, "editor", EditorCanvas)
	}
	return s.CanvasState(ctx, session)
}

// CanvasState returns a snapshot of the session.
func (s *Service) CanvasState(_ context.Context, session string) (CanvasState, error) {
	var state CanvasState
	err := s.withCanvas(session, func(e *canvas.Engine) error {
		state = canvasSnapshot(session, e)
		return nil
	})
	return state, err
}

func canvasSnapshot(session string, e *canvas.Engine) CanvasState {
	state := CanvasState{
		Session:    session,
		Components: e.Components(),
		Previewing: e.Previewing(),
	}
	if sel, ok := e.Selected(); ok {
		state.Selected = sel.ID
	}
	if id, ok := e.Dragging(); ok {
		state.Dragging = id
	}
	return state
}

// Palette lists the catalog with labels resolved for locale.
func (s *Service) Palette(locale string) []PaletteEntry {
	defs := s.opts.Catalog.Definitions()
	out := make([]PaletteEntry, 0, len(defs))
	for _, def := range defs {
		out = append(out, PaletteEntry{
			Type:     def.Type,
			Label:    def.LabelForLocale(locale),
			Category: def.Category,
		})
	}
	return out
}

// InsertComponent creates an instance of typ. A nil index appends.
func (s *Service) InsertComponent(ctx context.Context, session, typ string, index *int) (canvas.ComponentInstance, error) {
	var inst canvas.ComponentInstance
	err := s.withCanvas(session, func(e *canvas.Engine) error {
		var err error
		if index != nil {
			inst, err = e.InsertNewAt(typ, *index)
		} else {
			inst, err = e.InsertNew(typ)
		}
		return err
	})
	if err != nil {
		return canvas.ComponentInstance{}, s.rejected(session, "insert", err)
	}
	return inst, s.commit(ctx, change{
		session:  session,
		editor:   EditorCanvas,
		reason:   "component.insert",
		object:   "canvas_component",
		objectID: inst.ID,
		metadata: map[string]any{"type": typ},
	})
}

// BeginComponentDrag marks id as the drag source.
func (s *Service) BeginComponentDrag(_ context.Context, session, id string) error {
	return s.withCanvas(session, func(e *canvas.Engine) error {
		if !e.BeginDrag(id) {
			return s.rejected(session, "drag.begin", fmt.Errorf("%w: %s", ErrGestureRefused, id))
		}
		return nil
	})
}

// CancelComponentDrag abandons the drag.
func (s *Service) CancelComponentDrag(_ context.Context, session string) error {
	return s.withCanvas(session, func(e *canvas.Engine) error {
		e.CancelDrag()
		return nil
	})
}

// DropComponent ends the drag at the drop index derived from req. A drop with
// no drag in progress, e.g. after the dragged component was deleted, is a no-op.
func (s *Service) DropComponent(ctx context.Context, session string, req DropRequest) error {
	var (
		dragged string
		index   int
		changed bool
	)
	err := s.withCanvas(session, func(e *canvas.Engine) error {
		id, ok := e.Dragging()
		if !ok {
			return nil
		}
		dragged = id
		if len(req.Bounds) > 0 {
			index = e.DropIndex(req.PointerY, req.Bounds)
		} else {
			index = e.LayoutDropIndex(req.PointerY, s.opts.Layout)
		}
		_, changed = e.EndDrag(index)
		return nil
	})
	if err != nil {
		return s.rejected(session, "drop", err)
	}
	if !changed {
		return nil
	}
	return s.commit(ctx, change{
		session:  session,
		editor:   EditorCanvas,
		reason:   "component.reorder",
		object:   "canvas_component",
		objectID: dragged,
		metadata: map[string]any{"target_index": index},
	})
}

// ReorderComponent moves id into the slot displayed at target.
func (s *Service) ReorderComponent(ctx context.Context, session, id string, target int) error {
	var changed bool
	if err := s.withCanvas(session, func(e *canvas.Engine) error {
		_, changed = e.CommitReorder(id, target)
		return nil
	}); err != nil {
		return err
	}
	if !changed {
		return nil
	}
	return s.commit(ctx, change{
		session:  session,
		editor:   EditorCanvas,
		reason:   "component.reorder",
		object:   "canvas_component",
		objectID: id,
		metadata: map[string]any{"target_index": target},
	})
}

// MoveComponent places id at its final index.
func (s *Service) MoveComponent(ctx context.Context, session, id string, index int) error {
	var changed bool
	if err := s.withCanvas(session, func(e *canvas.Engine) error {
		_, changed = e.MoveTo(id, index)
		return nil
	}); err != nil {
		return err
	}
	if !changed {
		return nil
	}
	return s.commit(ctx, change{
		session:  session,
		editor:   EditorCanvas,
		reason:   "component.move",
		object:   "canvas_component",
		objectID: id,
		metadata: map[string]any{"index": index},
	})
}

// DeleteComponent removes id.
func (s *Service) DeleteComponent(ctx context.Context, session, id string) error {
	var changed bool
	if err := s.withCanvas(session, func(e *canvas.Engine) error {
		_, changed = e.DeleteItem(id)
		return nil
	}); err != nil {
		return err
	}
	if !changed {
		return nil
	}
	s.opts.Charts.Forget(session, id)
	return s.commit(ctx, change{
		session:  session,
		editor:   EditorCanvas,
		reason:   "component.delete",
		object:   "canvas_component",
		objectID: id,
	})
}

// UpdateComponentProperty sets one prop (or the size) of id.
func (s *Service) UpdateComponentProperty(ctx context.Context, session, id, name string, value any) error {
	var changed bool
	err := s.withCanvas(session, func(e *canvas.Engine) error {
		var err error
		changed, err = e.UpdateProperty(id, name, value)
		return err
	})
	if err != nil {
		return s.rejected(session, "property", err)
	}
	if !changed {
		return nil
	}
	return s.commit(ctx, change{
		session:  session,
		editor:   EditorCanvas,
		reason:   "component.property",
		object:   "canvas_component",
		objectID: id,
		metadata: map[string]any{"property": name},
	})
}

// UpdateComponentEvent stores the handler script for an event of id.
func (s *Service) UpdateComponentEvent(ctx context.Context, session, id, event, script string) error {
	var changed bool
	if err := s.withCanvas(session, func(e *canvas.Engine) error {
		changed = e.UpdateEvent(id, event, script)
		return nil
	}); err != nil {
		return err
	}
	if !changed {
		return nil
	}
	return s.commit(ctx, change{
		session:  session,
		editor:   EditorCanvas,
		reason:   "component.event",
		object:   "canvas_component",
		objectID: id,
		metadata: map[string]any{"event": event},
	})
}

// SelectComponent selects id; an empty id clears the selection.
func (s *Service) SelectComponent(ctx context.Context, session, id string) error {
	var changed bool
	if err := s.withCanvas(session, func(e *canvas.Engine) error {
		if id == "" {
			e.ClearSelection()
			changed = true
			return nil
		}
		changed = e.Select(id)
		return nil
	}); err != nil {
		return err
	}
	if !changed {
		return nil
	}
	return s.commit(ctx, change{
		session:  session,
		editor:   EditorCanvas,
		reason:   "component.select",
		object:   "canvas_component",
		objectID: id,
		quiet:    true,
	})
}

// SetPreview switches the session in or out of preview mode. Leaving
// preview restores the design list captured on entry.
func (s *Service) SetPreview(ctx context.Context, session string, on bool) error {
	var changed bool
	if err := s.withCanvas(session, func(e *canvas.Engine) error {
		if on {
			changed = e.EnterPreview()
		} else {
			changed = e.ExitPreview()
		}
		return nil
	}); err != nil {
		return err
	}
	if !changed {
		return nil
	}
	reason := "preview.exit"
	if on {
		reason = "preview.enter"
	}
	return s.commit(ctx, change{
		session: session,
		editor:  EditorCanvas,
		reason:  reason,
		object:  "canvas",
		quiet:   true,
	})
}

// ImportComponents replaces the session list with a JSON document.
func (s *Service) ImportComponents(ctx context.Context, session string, data []byte) error {
	items, err := canvas.ParseComponents(data)
	if err != nil {
		return s.rejected(session, "import", fmt.Errorf("%w: %w", ErrInvalidDocument, err))
	}
	return s.replaceComponents(ctx, session, items, "document.import", nil)
}

func (s *Service) replaceComponents(ctx context.Context, session string, items []canvas.ComponentInstance, reason string, metadata map[string]any) error {
	if err := s.withCanvas(session, func(e *canvas.Engine) error {
		return e.SetComponents(items)
	}); err != nil {
		return s.rejected(session, reason, err)
	}
	s.opts.Charts.ForgetSession(session)
	if metadata == nil {
		metadata = map[string]any{}
	}
	metadata["count"] = len(items)
	s.opts.Logger.Info("designer canvas replaced", "session", session, "reason", reason, "count", len(items))
	return s.commit(ctx, change{
		session:  session,
		editor:   EditorCanvas,
		reason:   reason,
		object:   "canvas",
		metadata: metadata,
	})
}

// ExportComponents writes the session list as a JSON document.
func (s *Service) ExportComponents(_ context.Context, session string, w io.Writer) error {
	var items []canvas.ComponentInstance
	if err := s.withCanvas(session, func(e *canvas.Engine) error {
		items = e.Components()
		return nil
	}); err != nil {
		return err
	}
	return canvas.EncodeComponents(w, items)
}

// SaveConfig stores the session list under name.
func (s *Service) SaveConfig(ctx context.Context, session, name string) (canvas.SavedConfig, error) {
	var items []canvas.ComponentInstance
	if err := s.withCanvas(session, func(e *canvas.Engine) error {
		items = e.Components()
		return nil
	}); err != nil {
		return canvas.SavedConfig{}, err
	}
	cfg, err := s.opts.Library.SaveConfig(ctx, name, items)
	if err != nil {
		return canvas.SavedConfig{}, err
	}
	return cfg, s.commit(ctx, change{
		session:  session,
		editor:   EditorCanvas,
		reason:   "config.save",
		object:   "canvas_config",
		objectID: cfg.ID,
		metadata: map[string]any{"name": cfg.Name},
	})
}

// LoadConfig replaces the session list with the named configuration.
func (s *Service) LoadConfig(ctx context.Context, session, name string) error {
	if _, err := s.canvasSession(session); err != nil {
		return err
	}
	cfg, err := s.opts.Library.LoadConfig(ctx, name)
	if err != nil {
		return err
	}
	return s.replaceComponents(ctx, session, cfg.Components, "config.load", map[string]any{"name": cfg.Name})
}

// ListConfigs lists saved configurations.
func (s *Service) ListConfigs(ctx context.Context) ([]canvas.SavedConfig, error) {
	return s.opts.Library.ListConfigs(ctx)
}

// DeleteConfig removes a saved configuration.
func (s *Service) DeleteConfig(ctx context.Context, name string) error {
	if err := s.opts.Library.DeleteConfig(ctx, name); err != nil {
		return err
	}
	s.recordTelemetry(ctx, "designer.canvas.config.delete", map[string]any{"name": name})
	return nil
}

// DispatchEvent runs the handler bound to event on component id. The script
// runs outside the session lock so a slow handler never blocks editing.
func (s *Service) DispatchEvent(ctx context.Context, session, id, event string, payload map[string]any) (scripting.Result, bool, error) {
	inst, err := s.component(session, id)
	if err != nil {
		return scripting.Result{}, false, err
	}
	res, ran, err := s.dispatcher.Dispatch(ctx, inst, event, payload)
	if ran {
		s.recordTelemetry(ctx, "designer.canvas.event.dispatch", map[string]any{
			"session":   session,
			"object_id": id,
			"event":     event,
			"failed":    err != nil,
		})
	}
	return res, ran, err
}

// PreviewComponent renders a Chart component.
func (s *Service) PreviewComponent(_ context.Context, session, id string) (ChartPreview, error) {
	inst, err := s.component(session, id)
	if err != nil {
		return ChartPreview{}, err
	}
	return s.opts.Charts.Preview(session, inst)
}

func (s *Service) component(session, id string) (canvas.ComponentInstance, error) {
	var (
		inst canvas.ComponentInstance
		ok   bool
	)
	if err := s.withCanvas(session, func(e *canvas.Engine) error {
		inst, ok = e.Component(id)
		return nil
	}); err != nil {
		return canvas.ComponentInstance{}, err
	}
	if !ok {
		return canvas.ComponentInstance{}, fmt.Errorf("%w: %s", ErrUnknownTarget, id)
	}
	return inst, nil
}
