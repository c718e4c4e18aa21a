package designer

import (
	"bytes"
	"context"
	"image/png"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/goliatone/go-designer/components/workflow"
)

func openWorkflow(t *testing.T, svc *Service, session string) {
	t.Helper()
	_, err := svc.OpenWorkflow(context.Background(), session)
	require.NoError(t, err)
}

func TestWorkflowBuildAndConnect(t *testing.T) {
	svc, hook, _ := newTestService(t)
	ctx := context.Background()
	openWorkflow(t, svc, "w1")

	start, err := svc.AddNode(ctx, "w1", workflow.NodeStart, workflow.Position{X: 100, Y: 100})
	require.NoError(t, err)
	task, err := svc.AddNode(ctx, "w1", workflow.NodeTask, workflow.Position{X: 100, Y: 250})
	require.NoError(t, err)

	edge, err := svc.Connect(ctx, "w1", ConnectRequest{
		SourceID:     start.ID,
		SourceAnchor: workflow.AnchorOutput,
		TargetID:     task.ID,
		TargetAnchor: workflow.AnchorInput,
	})
	require.NoError(t, err)
	assert.Equal(t, "e"+start.ID+"-"+task.ID, edge.ID)
	assert.Equal(t, workflow.DefaultEdgeLabel, edge.Label)

	_, err = svc.Connect(ctx, "w1", ConnectRequest{
		SourceID:     start.ID,
		SourceAnchor: workflow.AnchorOutput,
		TargetID:     task.ID,
		TargetAnchor: workflow.AnchorInput,
	})
	require.ErrorIs(t, err, workflow.ErrDuplicateConnection)
	assert.True(t, IsRejection(err))

	missing, err := svc.Connect(ctx, "w1", ConnectRequest{
		SourceID:     "ghost",
		SourceAnchor: workflow.AnchorOutput,
		TargetID:     task.ID,
		TargetAnchor: workflow.AnchorInput,
	})
	require.NoError(t, err)
	assert.Empty(t, missing.ID)

	state, err := svc.WorkflowState(ctx, "w1")
	require.NoError(t, err)
	assert.Len(t, state.Graph.Nodes, 2)
	assert.Len(t, state.Graph.Edges, 1)
	assert.Equal(t, workflow.Selection{Kind: workflow.SelectEdge, ID: edge.ID}, state.Selection)
	assert.Equal(t, workflow.GestureIdle, state.Gesture.Mode)
	assert.Equal(t, []string{"node.add", "node.add", "edge.add"}, hook.reasons())
}

func TestWorkflowConnectionGesture(t *testing.T) {
	svc, _, _ := newTestService(t)
	ctx := context.Background()
	openWorkflow(t, svc, "w1")
	a, err := svc.AddNode(ctx, "w1", workflow.NodeStart, workflow.Position{})
	require.NoError(t, err)
	b, err := svc.AddNode(ctx, "w1", workflow.NodeEnd, workflow.Position{X: 300})
	require.NoError(t, err)

	draft, err := svc.BeginConnection(ctx, "w1", b.ID, workflow.AnchorInput)
	require.NoError(t, err)
	assert.Equal(t, workflow.Position{X: 300, Y: workflow.AnchorOffsetY}, draft.Origin)

	_, err = svc.BeginConnection(ctx, "w1", a.ID, workflow.AnchorOutput)
	assert.ErrorIs(t, err, ErrGestureRefused)

	edge, err := svc.CompleteConnection(ctx, "w1", a.ID, workflow.AnchorOutput)
	require.NoError(t, err)
	assert.Equal(t, a.ID, edge.Source)
	assert.Equal(t, b.ID, edge.Target)

	again, err := svc.CompleteConnection(ctx, "w1", a.ID, workflow.AnchorOutput)
	require.NoError(t, err)
	assert.Empty(t, again.ID)
}

func TestCompleteConnectionAfterTargetDeleted(t *testing.T) {
	svc, hook, _ := newTestService(t)
	ctx := context.Background()
	openWorkflow(t, svc, "w1")
	a, err := svc.AddNode(ctx, "w1", workflow.NodeStart, workflow.Position{})
	require.NoError(t, err)
	b, err := svc.AddNode(ctx, "w1", workflow.NodeEnd, workflow.Position{X: 300})
	require.NoError(t, err)

	_, err = svc.BeginConnection(ctx, "w1", a.ID, workflow.AnchorOutput)
	require.NoError(t, err)
	require.NoError(t, svc.DeleteNode(ctx, "w1", b.ID))

	edge, err := svc.CompleteConnection(ctx, "w1", b.ID, workflow.AnchorInput)
	require.NoError(t, err)
	assert.False(t, IsRejection(err))
	assert.Empty(t, edge.ID)

	state, err := svc.WorkflowState(ctx, "w1")
	require.NoError(t, err)
	assert.Empty(t, state.Graph.Edges)
	assert.Equal(t, workflow.GestureIdle, state.Gesture.Mode)
	assert.Equal(t, []string{"node.add", "node.add", "node.delete"}, hook.reasons())
}

func TestCompleteConnectionAfterOriginDeleted(t *testing.T) {
	svc, _, _ := newTestService(t)
	ctx := context.Background()
	openWorkflow(t, svc, "w1")
	a, err := svc.AddNode(ctx, "w1", workflow.NodeStart, workflow.Position{})
	require.NoError(t, err)
	b, err := svc.AddNode(ctx, "w1", workflow.NodeEnd, workflow.Position{X: 300})
	require.NoError(t, err)

	_, err = svc.BeginConnection(ctx, "w1", a.ID, workflow.AnchorOutput)
	require.NoError(t, err)
	require.NoError(t, svc.DeleteNode(ctx, "w1", a.ID))

	edge, err := svc.CompleteConnection(ctx, "w1", b.ID, workflow.AnchorInput)
	require.NoError(t, err)
	assert.Empty(t, edge.ID)
}

func TestWorkflowDragGesture(t *testing.T) {
	svc, hook, _ := newTestService(t)
	ctx := context.Background()
	openWorkflow(t, svc, "w1")
	node, err := svc.AddNode(ctx, "w1", workflow.NodeTask, workflow.Position{X: 100, Y: 100})
	require.NoError(t, err)

	require.NoError(t, svc.BeginNodeDrag(ctx, "w1", node.ID, workflow.Position{X: 110, Y: 120}))
	require.NoError(t, svc.DragNode(ctx, "w1", workflow.Position{X: 210, Y: 320}))
	require.NoError(t, svc.EndNodeDrag(ctx, "w1"))

	state, err := svc.WorkflowState(ctx, "w1")
	require.NoError(t, err)
	assert.Equal(t, workflow.Position{X: 200, Y: 300}, state.Graph.Nodes[0].Position)
	assert.Equal(t, []string{"node.add", "node.move", "node.drag"}, hook.reasons())

	assert.ErrorIs(t, svc.BeginNodeDrag(ctx, "w1", "ghost", workflow.Position{}), ErrGestureRefused)
}

func TestWorkflowPropertiesAndDeletion(t *testing.T) {
	svc, _, _ := newTestService(t)
	ctx := context.Background()
	openWorkflow(t, svc, "w1")
	a, err := svc.AddNode(ctx, "w1", workflow.NodeApproval, workflow.Position{})
	require.NoError(t, err)
	b, err := svc.AddNode(ctx, "w1", workflow.NodeEnd, workflow.Position{X: 300})
	require.NoError(t, err)
	edge, err := svc.Connect(ctx, "w1", ConnectRequest{
		SourceID: a.ID, SourceAnchor: workflow.AnchorOutput,
		TargetID: b.ID, TargetAnchor: workflow.AnchorInput,
	})
	require.NoError(t, err)

	require.NoError(t, svc.UpdateNodeProperties(ctx, "w1", a.ID, map[string]any{"prop3": "48"}))
	err = svc.UpdateNodeProperties(ctx, "w1", a.ID, map[string]any{"prop3": "soon"})
	assert.True(t, IsRejection(err))

	require.NoError(t, svc.UpdateEdgeLabel(ctx, "w1", edge.ID, "通过", "approved == true"))
	geo, err := svc.EdgeGeometry(ctx, "w1", edge.ID)
	require.NoError(t, err)
	assert.Equal(t, "M150,35 C225,35 225,35 300,35", geo.Path)
	assert.Equal(t, workflow.Position{X: 225, Y: 25}, geo.Label)

	hit, err := svc.HitTest(ctx, "w1", workflow.Position{X: 225, Y: 37})
	require.NoError(t, err)
	require.NotNil(t, hit.Edge)
	assert.Equal(t, edge.ID, hit.Edge.ID)

	hit, err = svc.HitTest(ctx, "w1", workflow.Position{X: 10, Y: 10})
	require.NoError(t, err)
	require.NotNil(t, hit.Node)
	assert.Equal(t, a.ID, hit.Node.ID)

	require.NoError(t, svc.DeleteNode(ctx, "w1", b.ID))
	state, err := svc.WorkflowState(ctx, "w1")
	require.NoError(t, err)
	assert.Empty(t, state.Graph.Edges)
	prop, ok := state.Graph.Nodes[0].Property("prop3")
	require.True(t, ok)
	assert.Equal(t, float64(48), prop.Value)

	_, err = svc.EdgeGeometry(ctx, "w1", edge.ID)
	assert.ErrorIs(t, err, ErrUnknownTarget)
}

func TestWorkflowImportExportAndPNG(t *testing.T) {
	svc, _, _ := newTestService(t)
	ctx := context.Background()
	openWorkflow(t, svc, "w1")

	doc := []byte(`{
		"nodes": [
			{"id": "1", "type": "start", "title": "开始", "position": {"x": 100, "y": 100}},
			{"id": "2", "type": "approval", "title": "审批", "position": {"x": 100, "y": 250}}
		],
		"edges": [{"id": "e1-2", "source": "1", "target": "2", "label": "提交"}]
	}`)
	require.NoError(t, svc.ImportGraph(ctx, "w1", doc))

	var buf bytes.Buffer
	require.NoError(t, svc.ExportGraph(ctx, "w1", &buf))
	g, err := workflow.ParseGraph(buf.Bytes())
	require.NoError(t, err)
	assert.Len(t, g.Nodes, 2)
	assert.Equal(t, "提交", g.Edges[0].Label)

	var img bytes.Buffer
	require.NoError(t, svc.ExportPNG(ctx, "w1", &img, workflow.RenderOptions{Padding: 10}))
	decoded, err := png.Decode(&img)
	require.NoError(t, err)
	assert.Equal(t, 170, decoded.Bounds().Dx())

	err = svc.ImportGraph(ctx, "w1", []byte(`{"nodes": [{"id": "x"}]}`))
	assert.ErrorIs(t, err, ErrInvalidDocument)
}

func TestWorkflowDefinitionLifecycle(t *testing.T) {
	svc, _, _ := newTestService(t)
	ctx := context.Background()
	openWorkflow(t, svc, "w1")

	meta, err := svc.CreateWorkflow(ctx, workflow.Meta{Name: "请假审批"})
	require.NoError(t, err)
	assert.Equal(t, workflow.StatusDraft, meta.Status)

	_, err = svc.AddNode(ctx, "w1", workflow.NodeStart, workflow.Position{})
	require.NoError(t, err)
	require.NoError(t, svc.SaveDefinition(ctx, "w1", meta.ID))

	openWorkflow(t, svc, "w2")
	require.NoError(t, svc.OpenDefinition(ctx, "w2", meta.ID))
	state, err := svc.WorkflowState(ctx, "w2")
	require.NoError(t, err)
	assert.Equal(t, meta.ID, state.DefinitionID)
	assert.Len(t, state.Graph.Nodes, 1)

	meta.Status = workflow.StatusActive
	updated, err := svc.UpdateWorkflow(ctx, meta)
	require.NoError(t, err)
	assert.Equal(t, workflow.StatusActive, updated.Status)

	list, err := svc.ListWorkflows(ctx)
	require.NoError(t, err)
	assert.Len(t, list, 1)

	require.NoError(t, svc.DeleteWorkflow(ctx, meta.ID))
	err = svc.OpenDefinition(ctx, "w2", meta.ID)
	assert.True(t, IsNotFound(err))
}
