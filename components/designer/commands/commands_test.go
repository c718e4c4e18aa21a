package commands

import (
	"context"
	"errors"
	"testing"

	"github.com/goliatone/go-designer/components/designer"
	"github.com/goliatone/go-designer/components/ids"
	"github.com/goliatone/go-designer/components/workflow"
)

type stubTelemetry struct {
	calls  int
	events []string
}

func (s *stubTelemetry) Record(_ context.Context, event string, _ map[string]any) {
	s.calls++
	s.events = append(s.events, event)
}

type stubCanvasService struct {
	reorderCalls int
	lastTarget   int
	deleteCalls  int
	err          error
}

func (s *stubCanvasService) ReorderComponent(_ context.Context, _, _ string, target int) error {
	s.reorderCalls++
	s.lastTarget = target
	return s.err
}

func (s *stubCanvasService) DeleteComponent(context.Context, string, string) error {
	s.deleteCalls++
	return s.err
}

func TestReorderComponentCommand(t *testing.T) {
	service := &stubCanvasService{}
	telemetry := &stubTelemetry{}
	cmd := NewReorderComponentCommand(service, telemetry)
	if err := cmd.Execute(context.Background(), ReorderComponentInput{Session: "s1", ID: "cmp-1", Target: 2}); err != nil {
		t.Fatalf("Execute returned error: %v", err)
	}
	if service.reorderCalls != 1 || service.lastTarget != 2 {
		t.Fatalf("expected reorder call with target 2, got %+v", service)
	}
	if len(telemetry.events) != 1 || telemetry.events[0] != "designer.component.reorder" {
		t.Fatalf("unexpected telemetry %v", telemetry.events)
	}
}

func TestCommandSkipsTelemetryOnError(t *testing.T) {
	service := &stubCanvasService{err: errors.New("boom")}
	telemetry := &stubTelemetry{}
	cmd := NewDeleteComponentCommand(service, telemetry)
	if err := cmd.Execute(context.Background(), ComponentInput{Session: "s1", ID: "x"}); err == nil {
		t.Fatalf("expected error")
	}
	if telemetry.calls != 0 {
		t.Fatalf("expected no telemetry, got %d", telemetry.calls)
	}
}

func TestCommandRequiresService(t *testing.T) {
	cmd := NewDeleteComponentCommand(nil, nil)
	if err := cmd.Execute(context.Background(), ComponentInput{}); err == nil {
		t.Fatalf("expected error when service missing")
	}
}

func TestOpenSessionCommand(t *testing.T) {
	service := designer.NewService(designer.Options{IDs: ids.NewSequence()})
	cmd := NewOpenSessionCommand(service, nil)
	ctx := context.Background()

	if err := cmd.Execute(ctx, OpenSessionInput{Session: "w1", Editor: designer.EditorWorkflow}); err != nil {
		t.Fatalf("Execute returned error: %v", err)
	}
	if got := service.Sessions(designer.EditorWorkflow); len(got) != 1 || got[0] != "w1" {
		t.Fatalf("expected workflow session w1, got %v", got)
	}
	if err := cmd.Execute(ctx, OpenSessionInput{Session: "x", Editor: "sketch"}); err == nil {
		t.Fatalf("expected unknown editor error")
	}
	if err := cmd.Execute(ctx, OpenSessionInput{Editor: designer.EditorCanvas}); err == nil {
		t.Fatalf("expected missing session error")
	}
}

func TestWorkflowCommandsAgainstService(t *testing.T) {
	service := designer.NewService(designer.Options{IDs: ids.NewSequence()})
	ctx := context.Background()
	if _, err := service.OpenWorkflow(ctx, "w1"); err != nil {
		t.Fatalf("OpenWorkflow returned error: %v", err)
	}
	add := NewAddNodeCommand(service, nil)
	for _, in := range []AddNodeInput{
		{Session: "w1", Type: workflow.NodeStart, Position: workflow.Position{X: 0, Y: 0}},
		{Session: "w1", Type: workflow.NodeEnd, Position: workflow.Position{X: 300, Y: 0}},
	} {
		if err := add.Execute(ctx, in); err != nil {
			t.Fatalf("AddNode returned error: %v", err)
		}
	}
	state, _ := service.WorkflowState(ctx, "w1")
	a, b := state.Graph.Nodes[0].ID, state.Graph.Nodes[1].ID

	connect := NewConnectCommand(service, nil)
	req := ConnectInput{Session: "w1", ConnectRequest: designer.ConnectRequest{
		SourceID: a, SourceAnchor: workflow.AnchorOutput,
		TargetID: b, TargetAnchor: workflow.AnchorInput,
	}}
	if err := connect.Execute(ctx, req); err != nil {
		t.Fatalf("Connect returned error: %v", err)
	}
	err := connect.Execute(ctx, req)
	if !designer.IsRejection(err) {
		t.Fatalf("expected rejection for duplicate connection, got %v", err)
	}

	del := NewDeleteNodeCommand(service, nil)
	if err := del.Execute(ctx, NodeInput{Session: "w1", ID: b}); err != nil {
		t.Fatalf("DeleteNode returned error: %v", err)
	}
	state, _ = service.WorkflowState(ctx, "w1")
	if len(state.Graph.Edges) != 0 {
		t.Fatalf("expected edges to cascade, got %+v", state.Graph.Edges)
	}
}

func TestCanvasCommandsAgainstService(t *testing.T) {
	service := designer.NewService(designer.Options{IDs: ids.NewSequence()})
	ctx := context.Background()
	if _, err := service.OpenCanvas(ctx, "c1"); err != nil {
		t.Fatalf("OpenCanvas returned error: %v", err)
	}
	insert := NewInsertComponentCommand(service, nil)
	if err := insert.Execute(ctx, InsertComponentInput{Session: "c1", Type: "Input"}); err != nil {
		t.Fatalf("InsertComponent returned error: %v", err)
	}
	state, _ := service.CanvasState(ctx, "c1")
	id := state.Selected

	prop := NewUpdateComponentPropertyCommand(service, nil)
	if err := prop.Execute(ctx, UpdateComponentPropertyInput{Session: "c1", ID: id, Name: "placeholder", Value: "名字"}); err != nil {
		t.Fatalf("UpdateComponentProperty returned error: %v", err)
	}
	save := NewSaveConfigCommand(service, nil)
	if err := save.Execute(ctx, ConfigInput{Session: "c1", Name: "demo"}); err != nil {
		t.Fatalf("SaveConfig returned error: %v", err)
	}
	configs, _ := service.ListConfigs(ctx)
	if len(configs) != 1 || configs[0].Components[0].Props["placeholder"] != "名字" {
		t.Fatalf("unexpected configs %+v", configs)
	}
}
