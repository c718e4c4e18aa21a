package designer

import (
	"bytes"
	"errors"
	"fmt"
	"io"
	"os"
	"strings"

	"github.com/go-echarts/go-echarts/v2/charts"
	"github.com/go-echarts/go-echarts/v2/opts"
	"github.com/go-echarts/go-echarts/v2/types"

	"github.com/goliatone/go-designer/components/canvas"
)

const (
	// ChartComponentType is the canvas type rendered through ECharts.
	ChartComponentType = "Chart"
	defaultChartHeight = "360px"
	// envEChartsCDN overrides the ECharts assets host, e.g. a self-hosted bucket.
	envEChartsCDN = "DESIGNER_ECHARTS_CDN"
)

var (
	ErrNotChart         = errors.New("designer: component is not a chart")
	ErrChartSeries      = errors.New("designer: chart series is required")
	ErrUnsupportedChart = errors.New("designer: unsupported chart type")
)

// ChartPreview is the server-rendered markup for a Chart component.
type ChartPreview struct {
	ComponentID string `json:"componentId"`
	ChartType   string `json:"chartType"`
	Title       string `json:"title"`
	Subtitle    string `json:"subtitle,omitempty"`
	Theme       string `json:"theme"`
	HTML        string `json:"html"`
}

// ChartRenderer turns Chart component props into go-echarts markup.
type ChartRenderer struct {
	cache      RenderCache
	theme      string
	assetsHost string
}

// ChartRendererOption customizes renderer behavior.
type ChartRendererOption func(*ChartRenderer)

// WithChartCache injects a render cache. Nil disables caching.
func WithChartCache(cache RenderCache) ChartRendererOption {
	return func(r *ChartRenderer) {
		r.cache = cache
	}
}

// WithChartTheme sets the fallback theme (defaults to Westeros).
func WithChartTheme(theme string) ChartRendererOption {
	return func(r *ChartRenderer) {
		r.theme = theme
	}
}

// WithChartAssetsHost rewrites the assets host so ECharts JS loads from a CDN.
func WithChartAssetsHost(host string) ChartRendererOption {
	return func(r *ChartRenderer) {
		r.assetsHost = host
	}
}

// NewChartRenderer builds a renderer. The assets host defaults to
// DefaultChartAssetsHost.
func NewChartRenderer(options ...ChartRendererOption) *ChartRenderer {
	r := &ChartRenderer{theme: types.ThemeWesteros, assetsHost: DefaultChartAssetsHost()}
	for _, opt := range options {
		opt(r)
	}
	return r
}

// DefaultChartAssetsHost returns DESIGNER_ECHARTS_CDN when set, otherwise ""
// so go-echarts keeps its public CDN.
func DefaultChartAssetsHost() string {
	return ensureTrailingSlash(strings.TrimSpace(os.Getenv(envEChartsCDN)))
}

func ensureTrailingSlash(value string) string {
	if value == "" || strings.HasSuffix(value, "/") {
		return value
	}
	return value + "/"
}

// Preview renders inst, which must be a Chart component placed in session.
func (r *ChartRenderer) Preview(session string, inst canvas.ComponentInstance) (ChartPreview, error) {
	if inst.Type != ChartComponentType {
		return ChartPreview{}, fmt.Errorf("%w: %s", ErrNotChart, inst.Type)
	}
	cfg := inst.Props
	if cfg == nil {
		cfg = map[string]any{}
	}

	preview := ChartPreview{
		ComponentID: inst.ID,
		ChartType:   strings.ToLower(stringValue(cfg["chartType"], "line")),
		Title:       stringValue(cfg["title"], "Chart"),
		Subtitle:    stringValue(cfg["subtitle"], ""),
		Theme:       r.theme,
	}
	if override := strings.TrimSpace(stringValue(cfg["theme"], "")); override != "" {
		preview.Theme = override
	}

	series := parseChartSeries(cfg["series"])
	if len(series) == 0 {
		return ChartPreview{}, ErrChartSeries
	}
	xAxis := stringSliceValue(cfg["xAxis"])
	if len(xAxis) == 0 {
		xAxis = inferredAxisLabels(series)
	}

	render := func() (string, error) {
		return r.render(preview, xAxis, series)
	}
	var (
		html string
		err  error
	)
	if r.cache != nil {
		key := ChartKey{Session: session, ComponentID: inst.ID, Digest: propsDigest(r.theme, cfg)}
		html, err = r.cache.GetOrRender(key, render)
	} else {
		html, err = render()
	}
	if err != nil {
		return ChartPreview{}, err
	}
	preview.HTML = html
	return preview, nil
}

// Forget evicts the cached markup of one component.
func (r *ChartRenderer) Forget(session, componentID string) {
	if r != nil && r.cache != nil {
		r.cache.Forget(session, componentID)
	}
}

// ForgetSession evicts every cached chart of session.
func (r *ChartRenderer) ForgetSession(session string) {
	if r != nil && r.cache != nil {
		r.cache.ForgetSession(session)
	}
}

func (r *ChartRenderer) render(p ChartPreview, xAxis []string, series []ChartSeries) (string, error) {
	global := r.globalChartOptions(p)
	switch p.ChartType {
	case "bar":
		bar := charts.NewBar()
		bar.SetGlobalOptions(global...)
		bar.SetXAxis(xAxis)
		for _, s := range series {
			bar.AddSeries(s.Name, toBarData(s.Points))
		}
		return renderChart(bar)
	case "line", "area":
		line := charts.NewLine()
		line.SetGlobalOptions(global...)
		line.SetXAxis(xAxis)
		for _, s := range series {
			line.AddSeries(s.Name, toLineData(s.Points))
		}
		seriesOpts := []charts.SeriesOpts{charts.WithLineChartOpts(opts.LineChart{Smooth: opts.Bool(true)})}
		if p.ChartType == "area" {
			seriesOpts = append(seriesOpts, charts.WithAreaStyleOpts(opts.AreaStyle{}))
		}
		line.SetSeriesOptions(seriesOpts...)
		return renderChart(line)
	case "pie":
		pie := charts.NewPie()
		pie.SetGlobalOptions(global...)
		for _, s := range series {
			pie.AddSeries(s.Name, toPieData(s.Points, xAxis))
		}
		return renderChart(pie)
	default:
		return "", fmt.Errorf("%w: %s", ErrUnsupportedChart, p.ChartType)
	}
}

func renderChart(renderable interface{ Render(io.Writer) error }) (string, error) {
	var buf bytes.Buffer
	if err := renderable.Render(&buf); err != nil {
		return "", err
	}
	return buf.String(), nil
}

func (r *ChartRenderer) globalChartOptions(p ChartPreview) []charts.GlobalOpts {
	initOpts := opts.Initialization{
		Theme:  p.Theme,
		Width:  "100%",
		Height: defaultChartHeight,
	}
	if r.assetsHost != "" {
		initOpts.AssetsHost = r.assetsHost
	}
	return []charts.GlobalOpts{
		charts.WithTitleOpts(opts.Title{Title: p.Title, Subtitle: p.Subtitle}),
		charts.WithInitializationOpts(initOpts),
		charts.WithLegendOpts(opts.Legend{Show: opts.Bool(true)}),
		charts.WithTooltipOpts(opts.Tooltip{Show: opts.Bool(true)}),
	}
}

// ChartSeries is one legend entry of a chart.
type ChartSeries struct {
	Name   string
	Points []ChartPoint
}

// ChartPoint is an individual, optionally labeled, value.
type ChartPoint struct {
	Label string
	Value float64
}

func parseChartSeries(v any) []ChartSeries {
	items, ok := v.([]any)
	if !ok {
		return nil
	}
	out := make([]ChartSeries, 0, len(items))
	for _, item := range items {
		m, ok := item.(map[string]any)
		if !ok {
			continue
		}
		series := ChartSeries{
			Name:   stringValue(m["name"], "Series"),
			Points: parseChartPoints(m["data"]),
		}
		if len(series.Points) > 0 {
			out = append(out, series)
		}
	}
	return out
}

func parseChartPoints(v any) []ChartPoint {
	items, ok := v.([]any)
	if !ok {
		return nil
	}
	points := make([]ChartPoint, 0, len(items))
	for _, item := range items {
		switch val := item.(type) {
		case map[string]any:
			points = append(points, ChartPoint{
				Label: stringValue(val["name"], ""),
				Value: float64Value(val["value"]),
			})
		default:
			points = append(points, ChartPoint{Value: float64Value(val)})
		}
	}
	return points
}

func inferredAxisLabels(series []ChartSeries) []string {
	longest := 0
	for _, s := range series {
		if len(s.Points) > longest {
			longest = len(s.Points)
		}
	}
	labels := make([]string, longest)
	for i := range labels {
		labels[i] = fmt.Sprintf("%d", i+1)
		for _, s := range series {
			if i < len(s.Points) && s.Points[i].Label != "" {
				labels[i] = s.Points[i].Label
				break
			}
		}
	}
	return labels
}

func toBarData(points []ChartPoint) []opts.BarData {
	data := make([]opts.BarData, len(points))
	for i, point := range points {
		data[i] = opts.BarData{Name: point.Label, Value: point.Value}
	}
	return data
}

func toLineData(points []ChartPoint) []opts.LineData {
	data := make([]opts.LineData, len(points))
	for i, point := range points {
		data[i] = opts.LineData{Name: point.Label, Value: point.Value}
	}
	return data
}

func toPieData(points []ChartPoint, axis []string) []opts.PieData {
	data := make([]opts.PieData, len(points))
	for i, point := range points {
		name := point.Label
		if name == "" && i < len(axis) {
			name = axis[i]
		}
		if name == "" {
			name = fmt.Sprintf("Slice %d", i+1)
		}
		data[i] = opts.PieData{Name: name, Value: point.Value}
	}
	return data
}

func stringValue(v any, fallback string) string {
	if s, ok := v.(string); ok && s != "" {
		return s
	}
	return fallback
}

func stringSliceValue(v any) []string {
	switch val := v.(type) {
	case []string:
		return append([]string(nil), val...)
	case []any:
		out := make([]string, 0, len(val))
		for _, item := range val {
			out = append(out, fmt.Sprint(item))
		}
		return out
	default:
		return nil
	}
}

func float64Value(v any) float64 {
	switch val := v.(type) {
	case float64:
		return val
	case float32:
		return float64(val)
	case int:
		return float64(val)
	case int64:
		return float64(val)
	default:
		return 0
	}
}
