package queries

import (
	"bytes"
	"context"
	"io"

	gocommand "github.com/goliatone/go-command"

	"github.com/goliatone/go-designer/components/canvas"
	"github.com/goliatone/go-designer/components/designer"
	"github.com/goliatone/go-designer/components/scripting"
)

// SessionInput names an editing session.
type SessionInput struct {
	Session string `json:"session"`
}

type canvasStateService interface {
	CanvasState(ctx context.Context, session string) (designer.CanvasState, error)
}

// CanvasStateQuery returns a canvas session snapshot.
type CanvasStateQuery struct {
	service canvasStateService
}

// NewCanvasStateQuery builds the query.
func NewCanvasStateQuery(service canvasStateService) *CanvasStateQuery {
	return &CanvasStateQuery{service: service}
}

var _ gocommand.Querier[SessionInput, designer.CanvasState] = (*CanvasStateQuery)(nil)

// Query resolves the session state.
func (q *CanvasStateQuery) Query(ctx context.Context, input SessionInput) (designer.CanvasState, error) {
	return q.service.CanvasState(ctx, input.Session)
}

// PaletteInput selects the locale used for palette labels.
type PaletteInput struct {
	Locale string `json:"locale"`
}

type paletteService interface {
	Palette(locale string) []designer.PaletteEntry
}

// PaletteQuery lists the component catalog.
type PaletteQuery struct {
	service paletteService
}

// NewPaletteQuery builds the query.
func NewPaletteQuery(service paletteService) *PaletteQuery {
	return &PaletteQuery{service: service}
}

var _ gocommand.Querier[PaletteInput, []designer.PaletteEntry] = (*PaletteQuery)(nil)

// Query lists palette entries.
func (q *PaletteQuery) Query(_ context.Context, input PaletteInput) ([]designer.PaletteEntry, error) {
	return q.service.Palette(input.Locale), nil
}

// ListConfigsInput is the empty input of ListConfigsQuery.
type ListConfigsInput struct{}

type configListService interface {
	ListConfigs(ctx context.Context) ([]canvas.SavedConfig, error)
}

// ListConfigsQuery lists saved canvas configurations.
type ListConfigsQuery struct {
	service configListService
}

// NewListConfigsQuery builds the query.
func NewListConfigsQuery(service configListService) *ListConfigsQuery {
	return &ListConfigsQuery{service: service}
}

var _ gocommand.Querier[ListConfigsInput, []canvas.SavedConfig] = (*ListConfigsQuery)(nil)

// Query lists configurations.
func (q *ListConfigsQuery) Query(ctx context.Context, _ ListConfigsInput) ([]canvas.SavedConfig, error) {
	return q.service.ListConfigs(ctx)
}

// DispatchEventInput triggers a component event handler.
type DispatchEventInput struct {
	Session string         `json:"session"`
	ID      string         `json:"id"`
	Event   string         `json:"event"`
	Payload map[string]any `json:"payload,omitempty"`
}

// DispatchEventResult reports what the handler produced.
type DispatchEventResult struct {
	Handled bool             `json:"handled"`
	Result  scripting.Result `json:"result"`
}

type dispatchService interface {
	DispatchEvent(ctx context.Context, session, id, event string, payload map[string]any) (scripting.Result, bool, error)
}

// DispatchEventQuery runs a handler. Handlers never change the canvas, so
// dispatch is modeled as a read.
type DispatchEventQuery struct {
	service dispatchService
}

// NewDispatchEventQuery builds the query.
func NewDispatchEventQuery(service dispatchService) *DispatchEventQuery {
	return &DispatchEventQuery{service: service}
}

var _ gocommand.Querier[DispatchEventInput, DispatchEventResult] = (*DispatchEventQuery)(nil)

// Query runs the handler bound to the event.
func (q *DispatchEventQuery) Query(ctx context.Context, input DispatchEventInput) (DispatchEventResult, error) {
	res, handled, err := q.service.DispatchEvent(ctx, input.Session, input.ID, input.Event, input.Payload)
	if err != nil {
		return DispatchEventResult{}, err
	}
	return DispatchEventResult{Handled: handled, Result: res}, nil
}

// ComponentInput names a canvas component.
type ComponentInput struct {
	Session string `json:"session"`
	ID      string `json:"id"`
}

type chartService interface {
	PreviewComponent(ctx context.Context, session, id string) (designer.ChartPreview, error)
}

// ChartPreviewQuery renders a Chart component.
type ChartPreviewQuery struct {
	service chartService
}

// NewChartPreviewQuery builds the query.
func NewChartPreviewQuery(service chartService) *ChartPreviewQuery {
	return &ChartPreviewQuery{service: service}
}

var _ gocommand.Querier[ComponentInput, designer.ChartPreview] = (*ChartPreviewQuery)(nil)

// Query renders the chart.
func (q *ChartPreviewQuery) Query(ctx context.Context, input ComponentInput) (designer.ChartPreview, error) {
	return q.service.PreviewComponent(ctx, input.Session, input.ID)
}

// PreviewPageInput selects the session and locale of a preview page.
type PreviewPageInput struct {
	Session string `json:"session"`
	Locale  string `json:"locale"`
}

type previewPageService interface {
	RenderPreviewPage(ctx context.Context, session, locale string, w io.Writer) error
}

// PreviewPageQuery renders the canvas preview page as HTML.
type PreviewPageQuery struct {
	service previewPageService
}

// NewPreviewPageQuery builds the query.
func NewPreviewPageQuery(service previewPageService) *PreviewPageQuery {
	return &PreviewPageQuery{service: service}
}

var _ gocommand.Querier[PreviewPageInput, string] = (*PreviewPageQuery)(nil)

// Query renders the page.
func (q *PreviewPageQuery) Query(ctx context.Context, input PreviewPageInput) (string, error) {
	var buf bytes.Buffer
	if err := q.service.RenderPreviewPage(ctx, input.Session, input.Locale, &buf); err != nil {
		return "", err
	}
	return buf.String(), nil
}

type exportComponentsService interface {
	ExportComponents(ctx context.Context, session string, w io.Writer) error
}

// ExportComponentsQuery serializes a canvas as its JSON document.
type ExportComponentsQuery struct {
	service exportComponentsService
}

// NewExportComponentsQuery builds the query.
func NewExportComponentsQuery(service exportComponentsService) *ExportComponentsQuery {
	return &ExportComponentsQuery{service: service}
}

var _ gocommand.Querier[SessionInput, []byte] = (*ExportComponentsQuery)(nil)

// Query writes the document.
func (q *ExportComponentsQuery) Query(ctx context.Context, input SessionInput) ([]byte, error) {
	var buf bytes.Buffer
	if err := q.service.ExportComponents(ctx, input.Session, &buf); err != nil {
		return nil, err
	}
	return buf.Bytes(), nil
}
