package designer

import (
	"context"
	"errors"
	"io"
	"strconv"

	"github.com/goliatone/go-designer/components/canvas"
)

// ErrRendererMissing is returned when a page render is requested without a renderer.
var ErrRendererMissing = errors.New("designer: renderer not configured")

// PreviewTemplate is the template used for canvas preview pages.
const PreviewTemplate = "preview"

// Renderer describes the template renderer contract needed for preview pages.
type Renderer interface {
	Render(name string, data any, out ...io.Writer) (string, error)
}

// RenderPreviewPage renders the session canvas as a standalone HTML page.
// Chart components carry their rendered markup; charts that cannot render
// fall back to the plain component block.
func (s *Service) RenderPreviewPage(ctx context.Context, session, locale string, w io.Writer) error {
	if s.opts.Renderer == nil {
		return ErrRendererMissing
	}
	state, err := s.CanvasState(ctx, session)
	if err != nil {
		return err
	}
	components := make([]map[string]any, 0, len(state.Components))
	for _, inst := range state.Components {
		components = append(components, s.previewComponent(session, inst, locale))
	}
	data := map[string]any{
		"session":    session,
		"locale":     locale,
		"previewing": state.Previewing,
		"components": components,
	}
	_, err = s.opts.Renderer.Render(PreviewTemplate, data, w)
	return err
}

func (s *Service) previewComponent(session string, inst canvas.ComponentInstance, locale string) map[string]any {
	label := inst.Type
	if def, ok := s.opts.Catalog.Definition(inst.Type); ok {
		label = def.LabelForLocale(locale)
	}
	props := make([]map[string]any, 0, len(inst.Props))
	for _, key := range sortedKeys(inst.Props) {
		props = append(props, map[string]any{"name": key, "value": inst.Props[key]})
	}
	out := map[string]any{
		"id":     inst.ID,
		"type":   inst.Type,
		"label":  label,
		"props":  props,
		"height": inst.Size.Height,
		"width":  cssLength(inst.Size.Width),
	}
	if inst.Type == ChartComponentType {
		if chart, err := s.opts.Charts.Preview(session, inst); err == nil {
			out["chart_html"] = chart.HTML
		} else {
			s.opts.Logger.Debug("designer chart preview skipped", "component", inst.ID, "error", err)
		}
	}
	return out
}

func cssLength(l canvas.Length) string {
	if px, ok := l.Pixels(); ok {
		return strconv.FormatFloat(px, 'f', -1, 64) + "px"
	}
	if l == "" {
		return string(canvas.FillWidth)
	}
	return string(l)
}
