package canvas

import (
	"context"

	"github.com/goliatone/go-designer/components/schema"
	"github.com/goliatone/go-designer/components/scripting"
)

// EventDispatcher runs the handler stored on an instance for a given event.
type EventDispatcher struct {
	sandbox scripting.Sandbox
}

// NewEventDispatcher wraps sandbox; nil falls back to a no-op sandbox.
func NewEventDispatcher(sandbox scripting.Sandbox) *EventDispatcher {
	if sandbox == nil {
		sandbox = scripting.Noop()
	}
	return &EventDispatcher{sandbox: sandbox}
}

// Dispatch runs inst.Events[event]. It reports false when no handler is bound.
func (d *EventDispatcher) Dispatch(ctx context.Context, inst ComponentInstance, event string, payload map[string]any) (scripting.Result, bool, error) {
	script, ok := inst.Events[event]
	if !ok || script == "" {
		return scripting.Result{}, false, nil
	}
	evt := schema.CloneMap(payload)
	if evt == nil {
		evt = map[string]any{}
	}
	evt["type"] = event
	res, err := d.sandbox.Run(ctx, script, scripting.Invocation{
		Event: evt,
		Component: map[string]any{
			"id":    inst.ID,
			"type":  inst.Type,
			"props": schema.CloneMap(inst.Props),
			"size": map[string]any{
				"width":  string(inst.Size.Width),
				"height": inst.Size.Height,
			},
		},
	})
	return res, true, err
}
