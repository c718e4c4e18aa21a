package workflow

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/goliatone/go-designer/components/geometry"
)

func twoNodeGraph(t *testing.T) (*Engine, Node, Node, Edge) {
	t.Helper()
	e := newTestEngine()
	a := mustAdd(t, e, NodeStart, Position{X: 0, Y: 0})
	b := mustAdd(t, e, NodeEnd, Position{X: 300, Y: 0})
	edge, err := connect(t, e, a.ID, AnchorOutput, b.ID, AnchorInput)
	require.NoError(t, err)
	return e, a, b, edge
}

func TestAnchorsAndEdgePath(t *testing.T) {
	e, a, b, edge := twoNodeGraph(t)

	out, ok := e.AnchorPosition(a.ID, AnchorOutput)
	require.True(t, ok)
	assert.Equal(t, Position{X: 150, Y: 35}, out)
	in, ok := e.AnchorPosition(b.ID, AnchorInput)
	require.True(t, ok)
	assert.Equal(t, Position{X: 300, Y: 35}, in)

	path, ok := e.EdgePath(edge.ID)
	require.True(t, ok)
	assert.Equal(t, geometry.Cubic{
		Start:    Position{X: 150, Y: 35},
		Control1: Position{X: 225, Y: 35},
		Control2: Position{X: 225, Y: 35},
		End:      Position{X: 300, Y: 35},
	}, path)
	assert.Equal(t, "M150,35 C225,35 225,35 300,35", SVGPath(path))

	label, ok := e.EdgeLabelPosition(edge.ID)
	require.True(t, ok)
	assert.Equal(t, Position{X: 225, Y: 25}, label)

	_, ok = e.EdgePath("missing")
	assert.False(t, ok)
}

func TestEdgePathFollowsMovedNodes(t *testing.T) {
	e, a, _, edge := twoNodeGraph(t)
	require.True(t, e.MoveNode(a.ID, Position{X: 0, Y: 100}))
	path, _ := e.EdgePath(edge.ID)
	assert.Equal(t, Position{X: 150, Y: 135}, path.Start)
}

func TestHitTestEdgeUsesTolerance(t *testing.T) {
	e, _, _, edge := twoNodeGraph(t)

	hit, ok := e.HitTestEdge(Position{X: 225, Y: 39})
	require.True(t, ok)
	assert.Equal(t, edge.ID, hit.ID)

	_, ok = e.HitTestEdge(Position{X: 225, Y: 35 + EdgeHitTolerance + 1})
	assert.False(t, ok)
}

func TestNodeAtPrefersTopmost(t *testing.T) {
	e := newTestEngine()
	a := mustAdd(t, e, NodeStart, Position{X: 0, Y: 0})
	b := mustAdd(t, e, NodeTask, Position{X: 100, Y: 20})

	got, ok := e.NodeAt(Position{X: 120, Y: 40})
	require.True(t, ok)
	assert.Equal(t, b.ID, got.ID)
	got, ok = e.NodeAt(Position{X: 10, Y: 10})
	require.True(t, ok)
	assert.Equal(t, a.ID, got.ID)
	_, ok = e.NodeAt(Position{X: 600, Y: 600})
	assert.False(t, ok)

	bounds, ok := e.Bounds()
	require.True(t, ok)
	assert.Equal(t, geometry.Rect{X: 0, Y: 0, Width: 250, Height: 90}, bounds)
}
