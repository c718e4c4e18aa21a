package workflow

import (
	"errors"
	"fmt"
	"io"
	"math"

	"github.com/fogleman/gg"
	"github.com/golang/freetype/truetype"
	"golang.org/x/image/font"
	"golang.org/x/image/font/gofont/gomono"

	"github.com/goliatone/go-designer/components/geometry"
)

// ErrEmptyGraph is returned when exporting a graph without nodes.
var ErrEmptyGraph = errors.New("workflow: nothing to export")

// RenderOptions controls PNG export.
type RenderOptions struct {
	// Types supplies node colors; nil uses the built-in palette.
	Types *TypeRegistry
	// Padding around the graph bounds in pixels. Defaults to 40.
	Padding float64
	// Scale multiplies every coordinate. Defaults to 1.
	Scale float64
	// FontSize in points. Defaults to 12.
	FontSize   float64
	Background string
	EdgeColor  string
	// Face overrides the default monospace face, e.g. with a CJK font.
	Face font.Face
}

func (o RenderOptions) normalize() RenderOptions {
	if o.Types == nil {
		o.Types = NewTypeRegistry()
	}
	if o.Padding <= 0 {
		o.Padding = 40
	}
	if o.Scale <= 0 {
		o.Scale = 1
	}
	if o.FontSize <= 0 {
		o.FontSize = 12
	}
	if o.Background == "" {
		o.Background = "#ffffff"
	}
	if o.EdgeColor == "" {
		o.EdgeColor = "#999999"
	}
	return o
}

// RenderPNG draws the graph and writes it as PNG.
func RenderPNG(w io.Writer, g Graph, opts RenderOptions) error {
	opts = opts.normalize()
	bounds, ok := graphBounds(g.Nodes)
	if !ok {
		return ErrEmptyGraph
	}
	bounds = bounds.Inset(opts.Padding)
	width := int(math.Ceil(bounds.Width * opts.Scale))
	height := int(math.Ceil(bounds.Height * opts.Scale))

	dc := gg.NewContext(width, height)
	dc.SetHexColor(opts.Background)
	dc.Clear()
	dc.Scale(opts.Scale, opts.Scale)
	dc.Translate(-bounds.X, -bounds.Y)

	face := opts.Face
	if face == nil {
		ttf, err := truetype.Parse(gomono.TTF)
		if err != nil {
			return fmt.Errorf("workflow: parse font: %w", err)
		}
		face = truetype.NewFace(ttf, &truetype.Options{
			Size:    opts.FontSize,
			DPI:     72,
			Hinting: font.HintingFull,
		})
	}
	dc.SetFontFace(face)

	nodes := make(map[string]Node, len(g.Nodes))
	for _, n := range g.Nodes {
		nodes[n.ID] = n
	}

	// Edges first so nodes draw on top.
	for _, edge := range g.Edges {
		source, ok := nodes[edge.Source]
		if !ok {
			continue
		}
		target, ok := nodes[edge.Target]
		if !ok {
			continue
		}
		drawEdgePNG(dc, EdgeCurve(source, target), edge.Label, opts)
	}
	for _, n := range g.Nodes {
		drawNodePNG(dc, n, opts.Types.Color(n.Type))
	}

	if err := dc.EncodePNG(w); err != nil {
		return fmt.Errorf("workflow: encode png: %w", err)
	}
	return nil
}

func drawEdgePNG(dc *gg.Context, c geometry.Cubic, label string, opts RenderOptions) {
	dc.SetHexColor(opts.EdgeColor)
	dc.SetLineWidth(2)
	dc.MoveTo(c.Start.X, c.Start.Y)
	dc.CubicTo(c.Control1.X, c.Control1.Y, c.Control2.X, c.Control2.Y, c.End.X, c.End.Y)
	dc.Stroke()

	// Arrow head along the last control leg.
	dx, dy := c.End.X-c.Control2.X, c.End.Y-c.Control2.Y
	length := math.Hypot(dx, dy)
	if length < 0.1 {
		dx, dy, length = 1, 0, 1
	}
	dx, dy = dx/length, dy/length
	const size, spread = 8.0, 0.5
	dc.MoveTo(c.End.X, c.End.Y)
	dc.LineTo(c.End.X-size*dx+size*dy*spread, c.End.Y-size*dy-size*dx*spread)
	dc.LineTo(c.End.X-size*dx-size*dy*spread, c.End.Y-size*dy+size*dx*spread)
	dc.ClosePath()
	dc.Fill()

	if label == "" {
		return
	}
	p := LabelPoint(c)
	dc.SetHexColor("#333333")
	dc.DrawStringAnchored(label, p.X, p.Y, 0.5, 0.5)
}

func drawNodePNG(dc *gg.Context, n Node, color string) {
	x, y := n.Position.X, n.Position.Y
	dc.DrawRoundedRectangle(x, y, NodeWidth, NodeHeight, 4)
	dc.SetHexColor("#ffffff")
	dc.FillPreserve()
	dc.SetHexColor(color)
	dc.SetLineWidth(2)
	dc.Stroke()

	dc.DrawRectangle(x, y, NodeWidth, 6)
	dc.Fill()

	dc.SetHexColor("#262626")
	dc.DrawStringAnchored(n.Title, x+NodeWidth/2, y+NodeHeight/2, 0.5, 0.5)

	dc.SetHexColor(color)
	for _, kind := range []AnchorKind{AnchorInput, AnchorOutput} {
		p := AnchorPoint(n, kind)
		dc.DrawCircle(p.X, p.Y, 4)
		dc.Fill()
	}
}
