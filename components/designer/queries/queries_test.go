package queries

import (
	"context"
	"errors"
	"io"
	"strings"
	"testing"

	"github.com/goliatone/go-designer/components/designer"
	"github.com/goliatone/go-designer/components/ids"
	"github.com/goliatone/go-designer/components/scripting"
	"github.com/goliatone/go-designer/components/workflow"
)

type stubStateService struct {
	calls int
}

func (s *stubStateService) CanvasState(_ context.Context, session string) (designer.CanvasState, error) {
	s.calls++
	return designer.CanvasState{Session: session}, nil
}

func TestCanvasStateQuery(t *testing.T) {
	service := &stubStateService{}
	query := NewCanvasStateQuery(service)
	state, err := query.Query(context.Background(), SessionInput{Session: "s1"})
	if err != nil {
		t.Fatalf("Query returned error: %v", err)
	}
	if service.calls != 1 || state.Session != "s1" {
		t.Fatalf("unexpected result %+v after %d calls", state, service.calls)
	}
}

type stubDispatchService struct {
	err error
}

func (s stubDispatchService) DispatchEvent(context.Context, string, string, string, map[string]any) (scripting.Result, bool, error) {
	if s.err != nil {
		return scripting.Result{}, false, s.err
	}
	return scripting.Result{Value: "ok"}, true, nil
}

func TestDispatchEventQuery(t *testing.T) {
	res, err := NewDispatchEventQuery(stubDispatchService{}).Query(context.Background(), DispatchEventInput{Session: "s1", ID: "c", Event: "onClick"})
	if err != nil {
		t.Fatalf("Query returned error: %v", err)
	}
	if !res.Handled || res.Result.Value != "ok" {
		t.Fatalf("unexpected result %+v", res)
	}

	_, err = NewDispatchEventQuery(stubDispatchService{err: errors.New("boom")}).Query(context.Background(), DispatchEventInput{})
	if err == nil {
		t.Fatalf("expected error")
	}
}

type stubPageService struct{}

func (stubPageService) RenderPreviewPage(_ context.Context, session, _ string, w io.Writer) error {
	_, err := io.WriteString(w, "<main>"+session+"</main>")
	return err
}

func TestPreviewPageQuery(t *testing.T) {
	html, err := NewPreviewPageQuery(stubPageService{}).Query(context.Background(), PreviewPageInput{Session: "s1"})
	if err != nil {
		t.Fatalf("Query returned error: %v", err)
	}
	if html != "<main>s1</main>" {
		t.Fatalf("unexpected html %q", html)
	}
}

func TestWorkflowQueriesAgainstService(t *testing.T) {
	service := designer.NewService(designer.Options{IDs: ids.NewSequence()})
	ctx := context.Background()
	if _, err := service.OpenWorkflow(ctx, "w1"); err != nil {
		t.Fatalf("OpenWorkflow returned error: %v", err)
	}
	node, err := service.AddNode(ctx, "w1", workflow.NodeStart, workflow.Position{X: 10, Y: 10})
	if err != nil {
		t.Fatalf("AddNode returned error: %v", err)
	}

	hit, err := NewHitTestQuery(service).Query(ctx, HitTestInput{Session: "w1", Point: workflow.Position{X: 20, Y: 20}})
	if err != nil || hit.Node == nil || hit.Node.ID != node.ID {
		t.Fatalf("expected node hit, got %+v (%v)", hit, err)
	}

	types, _ := NewNodeTypesQuery(service).Query(ctx, NodeTypesInput{})
	if len(types) != 5 {
		t.Fatalf("expected 5 node types, got %d", len(types))
	}

	png, err := NewExportPNGQuery(service).Query(ctx, ExportPNGInput{Session: "w1"})
	if err != nil {
		t.Fatalf("ExportPNG returned error: %v", err)
	}
	if !strings.HasPrefix(string(png), "\x89PNG") {
		t.Fatalf("expected PNG signature")
	}

	_, err = NewWorkflowStateQuery(service).Query(ctx, SessionInput{Session: "nope"})
	if !designer.IsNotFound(err) {
		t.Fatalf("expected not found, got %v", err)
	}
}
