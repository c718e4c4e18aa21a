package httpapi

import (
	"bytes"
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"net/http"
	"net/http/httptest"
	"testing"

	"github.com/goliatone/go-designer/components/canvas"
	"github.com/goliatone/go-designer/components/designer"
	"github.com/goliatone/go-designer/components/designer/commands"
	"github.com/goliatone/go-designer/components/designer/queries"
	"github.com/goliatone/go-designer/components/workflow"
)

type stubCommander[T any] struct {
	last  T
	calls int
	err   error
}

func (s *stubCommander[T]) Execute(ctx context.Context, msg T) error {
	s.last = msg
	s.calls++
	return s.err
}

type stubQuerier[In any, Out any] struct {
	last   In
	result Out
	err    error
}

func (s *stubQuerier[In, Out]) Query(ctx context.Context, msg In) (Out, error) {
	s.last = msg
	return s.result, s.err
}

func TestHandleOpenSession(t *testing.T) {
	open := &stubCommander[commands.OpenSessionInput]{}
	api := &Handlers{Open: open}
	buf, _ := json.Marshal(commands.OpenSessionInput{Session: "c1", Editor: designer.EditorCanvas})
	req := httptest.NewRequest(http.MethodPost, "/sessions", bytes.NewReader(buf))
	rec := httptest.NewRecorder()
	api.HandleOpenSession(rec, req)
	if rec.Code != http.StatusCreated {
		t.Fatalf("expected 201, got %d", rec.Code)
	}
	if open.last.Editor != designer.EditorCanvas {
		t.Fatalf("expected editor propagation")
	}
}

func TestHandleInsertComponentReturnsState(t *testing.T) {
	insert := &stubCommander[commands.InsertComponentInput]{}
	view := &stubQuerier[queries.SessionInput, designer.CanvasState]{result: designer.CanvasState{Session: "c1", Selected: "c-1"}}
	api := &Handlers{Insert: insert, CanvasView: view}
	req := httptest.NewRequest(http.MethodPost, "/canvas/c1/components", bytes.NewBufferString(`{"type":"Button"}`))
	rec := httptest.NewRecorder()
	api.HandleInsertComponent(rec, req, "c1")
	if rec.Code != http.StatusCreated {
		t.Fatalf("expected 201, got %d", rec.Code)
	}
	if insert.last.Session != "c1" || insert.last.Type != "Button" {
		t.Fatalf("unexpected input %+v", insert.last)
	}
	var state designer.CanvasState
	if err := json.Unmarshal(rec.Body.Bytes(), &state); err != nil {
		t.Fatalf("decode response: %v", err)
	}
	if state.Selected != "c-1" {
		t.Fatalf("expected selection in response, got %+v", state)
	}
}

func TestHandleReorderRejected(t *testing.T) {
	reorder := &stubCommander[commands.ReorderComponentInput]{err: fmt.Errorf("reorder: %w", designer.ErrUnknownTarget)}
	api := &Handlers{Reorder: reorder}
	req := httptest.NewRequest(http.MethodPost, "/canvas/c1/reorder", bytes.NewBufferString(`{"id":"x","target":2}`))
	rec := httptest.NewRecorder()
	api.HandleReorderComponent(rec, req, "c1")
	if rec.Code != http.StatusUnprocessableEntity {
		t.Fatalf("expected 422, got %d", rec.Code)
	}
	if reorder.last.Target != 2 {
		t.Fatalf("expected target propagation")
	}
}

func TestHandleRemoveComponent(t *testing.T) {
	remove := &stubCommander[commands.ComponentInput]{}
	api := &Handlers{Remove: remove}
	req := httptest.NewRequest(http.MethodDelete, "/canvas/c1/components/a", nil)
	rec := httptest.NewRecorder()
	api.HandleRemoveComponent(rec, req, "c1", "a")
	if rec.Code != http.StatusNoContent {
		t.Fatalf("expected 204, got %d", rec.Code)
	}
	if remove.last.ID != "a" {
		t.Fatalf("expected component id propagation")
	}
}

func TestHandleUpdatePropertyBadBody(t *testing.T) {
	property := &stubCommander[commands.UpdateComponentPropertyInput]{}
	api := &Handlers{Property: property}
	req := httptest.NewRequest(http.MethodPost, "/canvas/c1/components/a/props", bytes.NewBufferString(`{`))
	rec := httptest.NewRecorder()
	api.HandleUpdateProperty(rec, req, "c1", "a")
	if rec.Code != http.StatusBadRequest {
		t.Fatalf("expected 400, got %d", rec.Code)
	}
	if property.calls != 0 {
		t.Fatalf("expected command to be skipped")
	}
}

func TestHandleWorkflowStateNotFound(t *testing.T) {
	view := &stubQuerier[queries.SessionInput, designer.WorkflowState]{err: designer.ErrSessionNotFound}
	api := &Handlers{GraphView: view}
	req := httptest.NewRequest(http.MethodGet, "/workflow/w1", nil)
	rec := httptest.NewRecorder()
	api.HandleWorkflowState(rec, req, "w1")
	if rec.Code != http.StatusNotFound {
		t.Fatalf("expected 404, got %d", rec.Code)
	}
}

func TestHandleConnect(t *testing.T) {
	connect := &stubCommander[commands.ConnectInput]{}
	api := &Handlers{Connect: connect}
	req := httptest.NewRequest(http.MethodPost, "/workflow/w1/connections", bytes.NewBufferString(`{"sourceId":"a","targetId":"b"}`))
	rec := httptest.NewRecorder()
	api.HandleConnect(rec, req, "w1")
	if rec.Code != http.StatusCreated {
		t.Fatalf("expected 201, got %d", rec.Code)
	}
	if connect.last.Session != "w1" || connect.last.SourceID != "a" {
		t.Fatalf("unexpected input %+v", connect.last)
	}
}

func TestStatusFor(t *testing.T) {
	cases := map[int]error{
		http.StatusOK:                  nil,
		http.StatusBadRequest:          fmt.Errorf("%w: %w", designer.ErrInvalidDocument, canvas.ErrDuplicateComponentID),
		http.StatusNotFound:            workflow.ErrWorkflowNotFound,
		http.StatusUnprocessableEntity: workflow.ErrSelfConnection,
		http.StatusInternalServerError: errors.New("disk full"),
	}
	for want, err := range cases {
		if got := StatusFor(err); got != want {
			t.Fatalf("StatusFor(%v) = %d, want %d", err, got, want)
		}
	}
}

func TestCommandExecutorAgainstService(t *testing.T) {
	service := designer.NewService(designer.Options{})
	exec := NewCommandExecutor(service, nil)
	ctx := context.Background()

	if err := Run(ctx, exec.OpenSession, commands.OpenSessionInput{Session: "c1", Editor: designer.EditorCanvas}); err != nil {
		t.Fatalf("open session: %v", err)
	}
	if err := Run(ctx, exec.InsertComponent, commands.InsertComponentInput{Session: "c1", Type: "Button"}); err != nil {
		t.Fatalf("insert: %v", err)
	}
	state, err := Ask(ctx, exec.CanvasState, queries.SessionInput{Session: "c1"})
	if err != nil {
		t.Fatalf("state: %v", err)
	}
	if len(state.Components) != 1 || state.Selected != state.Components[0].ID {
		t.Fatalf("unexpected state %+v", state)
	}

	empty := &CommandExecutor{}
	err = Run(ctx, empty.DeleteEdge, commands.EdgeInput{})
	if StatusFor(err) != http.StatusNotImplemented {
		t.Fatalf("expected 501 for unwired command, got %v", err)
	}
}
