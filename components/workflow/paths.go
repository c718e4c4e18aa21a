package workflow

import (
	"fmt"
	"math"

	"github.com/goliatone/go-designer/components/geometry"
)

// NodeBounds is the box a node occupies on the canvas.
func NodeBounds(n Node) geometry.Rect {
	return geometry.Rect{X: n.Position.X, Y: n.Position.Y, Width: NodeWidth, Height: NodeHeight}
}

// AnchorPoint returns the anchor position: outputs sit on the right edge,
// inputs on the left, both at AnchorOffsetY.
func AnchorPoint(n Node, kind AnchorKind) Position {
	p := Position{X: n.Position.X, Y: n.Position.Y + AnchorOffsetY}
	if kind == AnchorOutput {
		p.X += NodeWidth
	}
	return p
}

// EdgeCurve is the connector from source's output anchor to target's input anchor.
func EdgeCurve(source, target Node) geometry.Cubic {
	return geometry.HorizontalCubic(AnchorPoint(source, AnchorOutput), AnchorPoint(target, AnchorInput))
}

// LabelPoint is where an edge label is drawn: midway between the anchors,
// lifted above the line.
func LabelPoint(c geometry.Cubic) Position {
	mid := geometry.Midpoint(c.Start, c.End)
	return Position{X: mid.X, Y: mid.Y - labelLift}
}

// SVGPath formats a curve as an SVG path command.
func SVGPath(c geometry.Cubic) string {
	return fmt.Sprintf("M%s,%s C%s,%s %s,%s %s,%s",
		num(c.Start.X), num(c.Start.Y),
		num(c.Control1.X), num(c.Control1.Y),
		num(c.Control2.X), num(c.Control2.Y),
		num(c.End.X), num(c.End.Y))
}

// AnchorPosition returns the anchor of a node.
func (e *Engine) AnchorPosition(nodeID string, kind AnchorKind) (Position, bool) {
	idx, ok := e.index[nodeID]
	if !ok || !kind.Valid() {
		return Position{}, false
	}
	return AnchorPoint(e.nodes[idx], kind), true
}

// EdgePath returns the curve drawn for an edge.
func (e *Engine) EdgePath(edgeID string) (geometry.Cubic, bool) {
	idx := e.edgeIndex(edgeID)
	if idx < 0 {
		return geometry.Cubic{}, false
	}
	return e.curve(e.edges[idx])
}

// EdgeLabelPosition returns where the edge label is drawn.
func (e *Engine) EdgeLabelPosition(edgeID string) (Position, bool) {
	c, ok := e.EdgePath(edgeID)
	if !ok {
		return Position{}, false
	}
	return LabelPoint(c), true
}

// NodeAt returns the topmost node containing p. Later nodes draw on top.
func (e *Engine) NodeAt(p Position) (Node, bool) {
	for i := len(e.nodes) - 1; i >= 0; i-- {
		if NodeBounds(e.nodes[i]).Contains(p) {
			return e.nodes[i].Clone(), true
		}
	}
	return Node{}, false
}

// HitTestEdge returns the edge nearest to p within EdgeHitTolerance.
func (e *Engine) HitTestEdge(p Position) (Edge, bool) {
	best := -1
	bestDistance := math.Inf(1)
	for i, edge := range e.edges {
		c, ok := e.curve(edge)
		if !ok || !c.Hit(p, EdgeHitTolerance) {
			continue
		}
		if d := c.Distance(p); d < bestDistance {
			best, bestDistance = i, d
		}
	}
	if best < 0 {
		return Edge{}, false
	}
	return e.edges[best], true
}

// Bounds returns the box enclosing every node, or false for an empty graph.
func (e *Engine) Bounds() (geometry.Rect, bool) {
	return graphBounds(e.nodes)
}

func graphBounds(nodes []Node) (geometry.Rect, bool) {
	if len(nodes) == 0 {
		return geometry.Rect{}, false
	}
	r := NodeBounds(nodes[0])
	for _, n := range nodes[1:] {
		r = r.Union(NodeBounds(n))
	}
	return r, true
}

func (e *Engine) curve(edge Edge) (geometry.Cubic, bool) {
	si, ok := e.index[edge.Source]
	if !ok {
		return geometry.Cubic{}, false
	}
	ti, ok := e.index[edge.Target]
	if !ok {
		return geometry.Cubic{}, false
	}
	return EdgeCurve(e.nodes[si], e.nodes[ti]), true
}

func num(f float64) string {
	return fmt.Sprintf("%g", f)
}
