package httpapi

import (
	"encoding/json"
	"errors"
	"net/http"

	gocommand "github.com/goliatone/go-command"

	"github.com/goliatone/go-designer/components/designer"
	"github.com/goliatone/go-designer/components/designer/commands"
	"github.com/goliatone/go-designer/components/designer/queries"
)

// Handlers exposes HTTP endpoints backed by shared commands.
type Handlers struct {
	Open       gocommand.Commander[commands.OpenSessionInput]
	Insert     gocommand.Commander[commands.InsertComponentInput]
	Reorder    gocommand.Commander[commands.ReorderComponentInput]
	Remove     gocommand.Commander[commands.ComponentInput]
	Property   gocommand.Commander[commands.UpdateComponentPropertyInput]
	AddNode    gocommand.Commander[commands.AddNodeInput]
	Connect    gocommand.Commander[commands.ConnectInput]
	CanvasView gocommand.Querier[queries.SessionInput, designer.CanvasState]
	GraphView  gocommand.Querier[queries.SessionInput, designer.WorkflowState]
}

// StatusFor maps service errors onto HTTP status codes.
func StatusFor(err error) int {
	switch {
	case err == nil:
		return http.StatusOK
	case errors.Is(err, ErrNotWired):
		return http.StatusNotImplemented
	case errors.Is(err, designer.ErrInvalidDocument):
		return http.StatusBadRequest
	case designer.IsNotFound(err):
		return http.StatusNotFound
	case designer.IsRejection(err):
		return http.StatusUnprocessableEntity
	default:
		return http.StatusInternalServerError
	}
}

func writeError(w http.ResponseWriter, err error) {
	http.Error(w, err.Error(), StatusFor(err))
}

func writeJSON(w http.ResponseWriter, status int, payload any) {
	w.Header().Set("Content-Type", "application/json")
	w.WriteHeader(status)
	_ = json.NewEncoder(w).Encode(payload)
}

func decode[T any](w http.ResponseWriter, r *http.Request, into *T) bool {
	if err := json.NewDecoder(r.Body).Decode(into); err != nil {
		http.Error(w, err.Error(), http.StatusBadRequest)
		return false
	}
	return true
}

func (h *Handlers) HandleOpenSession(w http.ResponseWriter, r *http.Request) {
	var payload commands.OpenSessionInput
	if !decode(w, r, &payload) {
		return
	}
	if err := h.Open.Execute(r.Context(), payload); err != nil {
		writeError(w, err)
		return
	}
	w.WriteHeader(http.StatusCreated)
}

func (h *Handlers) HandleCanvasState(w http.ResponseWriter, r *http.Request, session string) {
	state, err := h.CanvasView.Query(r.Context(), queries.SessionInput{Session: session})
	if err != nil {
		writeError(w, err)
		return
	}
	writeJSON(w, http.StatusOK, state)
}

// HandleInsertComponent responds with the canvas state so callers can read
// the new component id from the selection.
func (h *Handlers) HandleInsertComponent(w http.ResponseWriter, r *http.Request, session string) {
	var payload commands.InsertComponentInput
	if !decode(w, r, &payload) {
		return
	}
	payload.Session = session
	if err := h.Insert.Execute(r.Context(), payload); err != nil {
		writeError(w, err)
		return
	}
	if h.CanvasView == nil {
		w.WriteHeader(http.StatusCreated)
		return
	}
	state, err := h.CanvasView.Query(r.Context(), queries.SessionInput{Session: session})
	if err != nil {
		writeError(w, err)
		return
	}
	writeJSON(w, http.StatusCreated, state)
}

func (h *Handlers) HandleReorderComponent(w http.ResponseWriter, r *http.Request, session string) {
	var payload commands.ReorderComponentInput
	if !decode(w, r, &payload) {
		return
	}
	payload.Session = session
	if err := h.Reorder.Execute(r.Context(), payload); err != nil {
		writeError(w, err)
		return
	}
	w.WriteHeader(http.StatusOK)
}

func (h *Handlers) HandleRemoveComponent(w http.ResponseWriter, r *http.Request, session, id string) {
	if err := h.Remove.Execute(r.Context(), commands.ComponentInput{Session: session, ID: id}); err != nil {
		writeError(w, err)
		return
	}
	w.WriteHeader(http.StatusNoContent)
}

func (h *Handlers) HandleUpdateProperty(w http.ResponseWriter, r *http.Request, session, id string) {
	var payload commands.UpdateComponentPropertyInput
	if !decode(w, r, &payload) {
		return
	}
	payload.Session = session
	payload.ID = id
	if err := h.Property.Execute(r.Context(), payload); err != nil {
		writeError(w, err)
		return
	}
	w.WriteHeader(http.StatusOK)
}

func (h *Handlers) HandleWorkflowState(w http.ResponseWriter, r *http.Request, session string) {
	state, err := h.GraphView.Query(r.Context(), queries.SessionInput{Session: session})
	if err != nil {
		writeError(w, err)
		return
	}
	writeJSON(w, http.StatusOK, state)
}

func (h *Handlers) HandleAddNode(w http.ResponseWriter, r *http.Request, session string) {
	var payload commands.AddNodeInput
	if !decode(w, r, &payload) {
		return
	}
	payload.Session = session
	if err := h.AddNode.Execute(r.Context(), payload); err != nil {
		writeError(w, err)
		return
	}
	w.WriteHeader(http.StatusCreated)
}

func (h *Handlers) HandleConnect(w http.ResponseWriter, r *http.Request, session string) {
	var payload commands.ConnectInput
	if !decode(w, r, &payload) {
		return
	}
	payload.Session = session
	if err := h.Connect.Execute(r.Context(), payload); err != nil {
		writeError(w, err)
		return
	}
	w.WriteHeader(http.StatusCreated)
}
