package workflow

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/goliatone/go-designer/components/ids"
	"github.com/goliatone/go-designer/components/schema"
)

func newTestEngine() *Engine {
	return NewEngine(EngineOptions{IDs: ids.NewSequence()})
}

func mustAdd(t *testing.T, e *Engine, typ NodeType, p Position) Node {
	t.Helper()
	n, err := e.AddNode(typ, p)
	require.NoError(t, err)
	return n
}

func connect(t *testing.T, e *Engine, from string, fromKind AnchorKind, to string, toKind AnchorKind) (Edge, error) {
	t.Helper()
	draft, ok := e.BeginConnection(from, fromKind)
	require.True(t, ok)
	edge, _, err := e.CompleteConnection(draft, to, toKind)
	return edge, err
}

func TestAddNodeCopiesTemplate(t *testing.T) {
	e := newTestEngine()
	a := mustAdd(t, e, NodeApproval, Position{X: 10, Y: 20})
	b := mustAdd(t, e, NodeApproval, Position{X: 200, Y: 20})

	assert.Equal(t, "node-1", a.ID)
	assert.Equal(t, "审批", a.Title)
	assert.Equal(t, Selection{Kind: SelectNode, ID: b.ID}, e.Selection())
	require.Len(t, a.Properties, 3)
	assert.Equal(t, 24.0, a.Properties[2].Value)

	changed, err := e.UpdateNodeProperties(a.ID, map[string]any{"prop1": "张经理"})
	require.NoError(t, err)
	assert.True(t, changed)

	got, _ := e.Node(b.ID)
	assert.Equal(t, "", got.Properties[0].Value)
	again := mustAdd(t, e, NodeApproval, Position{})
	assert.Equal(t, "", again.Properties[0].Value)

	a.Properties[1].Options[0] = "mutated"
	stored, _ := e.Node(a.ID)
	assert.Equal(t, "单人审批", stored.Properties[1].Options[0])
}

func TestAddNodeUnknownType(t *testing.T) {
	e := newTestEngine()
	_, err := e.AddNode("loop", Position{})
	assert.ErrorIs(t, err, ErrUnknownNodeType)
	assert.True(t, IsRejection(err))
	assert.Empty(t, e.Nodes())
}

func TestMoveNodeClampsToOrigin(t *testing.T) {
	e := newTestEngine()
	n := mustAdd(t, e, NodeStart, Position{X: -5, Y: 40})
	assert.Equal(t, Position{X: 0, Y: 40}, n.Position)

	assert.True(t, e.MoveNode(n.ID, Position{X: 30, Y: -12}))
	assert.True(t, e.MoveNode(n.ID, Position{X: 30, Y: -12}))
	got, _ := e.Node(n.ID)
	assert.Equal(t, Position{X: 30, Y: 0}, got.Position)
	assert.False(t, e.MoveNode("missing", Position{}))
}

func TestDeleteNodeCascadesEdges(t *testing.T) {
	e := newTestEngine()
	a := mustAdd(t, e, NodeStart, Position{})
	b := mustAdd(t, e, NodeApproval, Position{X: 200})
	c := mustAdd(t, e, NodeEnd, Position{X: 400})
	_, err := connect(t, e, a.ID, AnchorOutput, b.ID, AnchorInput)
	require.NoError(t, err)
	bc, err := connect(t, e, b.ID, AnchorOutput, c.ID, AnchorInput)
	require.NoError(t, err)
	require.Equal(t, Selection{Kind: SelectEdge, ID: bc.ID}, e.Selection())

	require.True(t, e.DeleteNode(b.ID))
	assert.Empty(t, e.Edges())
	assert.Len(t, e.Nodes(), 2)
	assert.Equal(t, Selection{}, e.Selection())
	assert.True(t, e.MoveNode(c.ID, Position{X: 500}))
	assert.False(t, e.DeleteNode(b.ID))
}

func TestCompleteConnectionRules(t *testing.T) {
	e := newTestEngine()
	a := mustAdd(t, e, NodeStart, Position{})
	b := mustAdd(t, e, NodeTask, Position{X: 300})

	_, err := connect(t, e, b.ID, AnchorInput, b.ID, AnchorOutput)
	assert.ErrorIs(t, err, ErrSelfConnection)
	_, err = connect(t, e, a.ID, AnchorOutput, b.ID, AnchorOutput)
	assert.ErrorIs(t, err, ErrAnchorMismatch)
	assert.Empty(t, e.Edges())
	assert.Equal(t, GestureIdle, e.Gesture().Mode)

	edge, err := connect(t, e, b.ID, AnchorInput, a.ID, AnchorOutput)
	require.NoError(t, err)
	assert.Equal(t, a.ID, edge.Source)
	assert.Equal(t, b.ID, edge.Target)
	assert.Equal(t, DefaultEdgeLabel, edge.Label)
	assert.Equal(t, "e"+a.ID+"-"+b.ID, edge.ID)

	_, err = connect(t, e, a.ID, AnchorOutput, b.ID, AnchorInput)
	assert.ErrorIs(t, err, ErrDuplicateConnection)
	assert.True(t, IsRejection(err))
	assert.Len(t, e.Edges(), 1)

	reverse, err := connect(t, e, b.ID, AnchorOutput, a.ID, AnchorInput)
	require.NoError(t, err)
	assert.Equal(t, b.ID, reverse.Source)
	assert.Len(t, e.Edges(), 2)
}

func TestCompleteConnectionUnknownTargetIsNoop(t *testing.T) {
	e := newTestEngine()
	a := mustAdd(t, e, NodeStart, Position{})
	draft, ok := e.BeginConnection(a.ID, AnchorOutput)
	require.True(t, ok)

	edge, created, err := e.CompleteConnection(draft, "ghost", AnchorInput)
	require.NoError(t, err)
	assert.False(t, created)
	assert.Empty(t, edge.ID)
	assert.Empty(t, e.Edges())
	assert.Equal(t, GestureIdle, e.Gesture().Mode)
}

func TestCompleteConnectionAfterEndpointDeleted(t *testing.T) {
	e := newTestEngine()
	a := mustAdd(t, e, NodeStart, Position{})
	b := mustAdd(t, e, NodeEnd, Position{X: 300})

	draft, ok := e.BeginConnection(a.ID, AnchorOutput)
	require.True(t, ok)
	require.True(t, e.DeleteNode(b.ID))
	_, created, err := e.CompleteConnection(draft, b.ID, AnchorInput)
	require.NoError(t, err)
	assert.False(t, created)

	c := mustAdd(t, e, NodeEnd, Position{X: 300})
	draft, ok = e.BeginConnection(c.ID, AnchorInput)
	require.True(t, ok)
	require.True(t, e.DeleteNode(c.ID))
	_, created, err = e.CompleteConnection(draft, a.ID, AnchorOutput)
	require.NoError(t, err)
	assert.False(t, created)
	assert.Empty(t, e.Edges())
}

func TestUpdateEdgeLabelAndDeleteEdge(t *testing.T) {
	e := newTestEngine()
	a := mustAdd(t, e, NodeStart, Position{})
	b := mustAdd(t, e, NodeEnd, Position{X: 300})
	edge, err := connect(t, e, a.ID, AnchorOutput, b.ID, AnchorInput)
	require.NoError(t, err)

	assert.True(t, e.UpdateEdgeLabel(edge.ID, "提交", "amount > 100"))
	got, _ := e.Edge(edge.ID)
	assert.Equal(t, "提交", got.Label)
	assert.Equal(t, "amount > 100", got.Condition)
	assert.False(t, e.UpdateEdgeLabel("missing", "x", ""))

	assert.True(t, e.DeleteEdge(edge.ID))
	assert.False(t, e.DeleteEdge(edge.ID))
	assert.Len(t, e.Nodes(), 2)
	assert.Equal(t, Selection{}, e.Selection())
}

func TestUpdateNodeProperties(t *testing.T) {
	e := newTestEngine()
	n := mustAdd(t, e, NodeApproval, Position{})

	changed, err := e.UpdateNodeProperties(n.ID, map[string]any{"prop1": "李主管", "prop3": "48"})
	require.NoError(t, err)
	assert.True(t, changed)
	got, _ := e.Node(n.ID)
	assert.Equal(t, "李主管", got.Properties[0].Value)
	assert.Equal(t, 48.0, got.Properties[2].Value)
	assert.Equal(t, "审批", got.Title)

	_, err = e.UpdateNodeProperties(n.ID, map[string]any{"prop1": "王总", "prop3": "soon"})
	assert.ErrorIs(t, err, schema.ErrInvalidValue)
	_, err = e.UpdateNodeProperties(n.ID, map[string]any{"prop1": "  "})
	assert.ErrorIs(t, err, schema.ErrRequired)
	_, err = e.UpdateNodeProperties(n.ID, map[string]any{"prop9": "x"})
	assert.ErrorIs(t, err, ErrUnknownProperty)

	got, _ = e.Node(n.ID)
	assert.Equal(t, "李主管", got.Properties[0].Value)

	changed, err = e.UpdateNodeProperties("missing", map[string]any{"prop1": "x"})
	assert.NoError(t, err)
	assert.False(t, changed)
}

func TestTaskTitleFollowsTaskName(t *testing.T) {
	e := newTestEngine()
	task := mustAdd(t, e, NodeTask, Position{})
	approval := mustAdd(t, e, NodeApproval, Position{})

	_, err := e.UpdateNodeProperties(task.ID, map[string]any{"prop1": "合同归档"})
	require.NoError(t, err)
	got, _ := e.Node(task.ID)
	assert.Equal(t, "合同归档", got.Title)

	_, err = e.UpdateNodeProperties(approval.ID, map[string]any{"prop1": "合同归档"})
	require.NoError(t, err)
	got, _ = e.Node(approval.ID)
	assert.Equal(t, "审批", got.Title)
}

func TestSetNodesPrunesDanglingEdges(t *testing.T) {
	e := newTestEngine()
	a := mustAdd(t, e, NodeStart, Position{})
	b := mustAdd(t, e, NodeEnd, Position{X: 300})
	_, err := connect(t, e, a.ID, AnchorOutput, b.ID, AnchorInput)
	require.NoError(t, err)

	require.NoError(t, e.SetNodes([]Node{a}))
	assert.Empty(t, e.Edges())
	assert.Equal(t, Selection{}, e.Selection())

	err = e.SetNodes([]Node{a, a})
	assert.ErrorIs(t, err, ErrDuplicateID)
	err = e.SetNodes([]Node{{ID: "x", Type: "loop"}})
	assert.ErrorIs(t, err, ErrUnknownNodeType)
	assert.Len(t, e.Nodes(), 1)
}

func TestSetEdgesValidates(t *testing.T) {
	e := newTestEngine()
	a := mustAdd(t, e, NodeStart, Position{})
	b := mustAdd(t, e, NodeEnd, Position{X: 300})

	cases := map[string]struct {
		edges []Edge
		err   error
	}{
		"dangling":  {[]Edge{{ID: "e1", Source: a.ID, Target: "ghost"}}, ErrDanglingEdge},
		"self loop": {[]Edge{{ID: "e1", Source: a.ID, Target: a.ID}}, ErrSelfConnection},
		"duplicate pair": {[]Edge{
			{ID: "e1", Source: a.ID, Target: b.ID},
			{ID: "e2", Source: a.ID, Target: b.ID},
		}, ErrDuplicateConnection},
		"duplicate id": {[]Edge{
			{ID: "e1", Source: a.ID, Target: b.ID},
			{ID: "e1", Source: b.ID, Target: a.ID},
		}, ErrDuplicateID},
	}
	for name, tc := range cases {
		t.Run(name, func(t *testing.T) {
			assert.ErrorIs(t, e.SetEdges(tc.edges), tc.err)
			assert.Empty(t, e.Edges())
		})
	}

	require.NoError(t, e.SetEdges([]Edge{{ID: "e1", Source: a.ID, Target: b.ID, Label: "完成"}}))
	assert.Len(t, e.Edges(), 1)
}

func TestLoadIsAtomic(t *testing.T) {
	e := newTestEngine()
	mustAdd(t, e, NodeStart, Position{})

	bad := Graph{
		Nodes: []Node{{ID: "1", Type: NodeStart}},
		Edges: []Edge{{ID: "e", Source: "1", Target: "2"}},
	}
	assert.ErrorIs(t, e.Load(bad), ErrDanglingEdge)
	assert.Len(t, e.Nodes(), 1)

	good := sampleGraph()
	require.NoError(t, e.Load(good))
	assert.Equal(t, good, e.Graph())

	good.Nodes[0].Properties[0].Value = "changed"
	n, _ := e.Node("1")
	assert.Equal(t, "手动触发", n.Properties[0].Value)
}

func TestSnapshotsDoNotAlias(t *testing.T) {
	e := newTestEngine()
	n := mustAdd(t, e, NodeApproval, Position{})
	nodes := e.Nodes()
	nodes[0].Properties[0].Value = "x"
	nodes[0].Title = "y"
	got, _ := e.Node(n.ID)
	assert.Equal(t, "", got.Properties[0].Value)
	assert.Equal(t, "审批", got.Title)
}

func sampleGraph() Graph {
	return Graph{
		Nodes: []Node{
			{ID: "1", Type: NodeStart, Title: "开始", Position: Position{X: 100, Y: 100}, Properties: []NodeProperty{
				{ID: "prop1", Name: "触发条件", Type: schema.KindSelect, Value: "手动触发", Options: []string{"手动触发", "定时触发", "事件触发"}},
			}},
			{ID: "2", Type: NodeApproval, Title: "经理审批", Position: Position{X: 100, Y: 250}, Properties: []NodeProperty{
				{ID: "prop1", Name: "审批人", Type: schema.KindString, Value: "张经理"},
				{ID: "prop3", Name: "超时时间(小时)", Type: schema.KindNumber, Value: 24.0},
			}},
			{ID: "3", Type: NodeEnd, Title: "结束", Position: Position{X: 100, Y: 400}, Properties: []NodeProperty{}},
		},
		Edges: []Edge{
			{ID: "e1-2", Source: "1", Target: "2", Label: "提交"},
			{ID: "e2-3", Source: "2", Target: "3", Label: "完成", Condition: "approved"},
		},
	}
}
