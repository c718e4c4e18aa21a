package workflow

import "fmt"

// GestureMode is the pointer gesture currently in progress.
type GestureMode string

const (
	GestureIdle       GestureMode = "idle"
	GestureDragging   GestureMode = "dragging"
	GestureConnecting GestureMode = "connecting"
)

// Gesture snapshots the gesture state. Only one gesture is active at a time.
type Gesture struct {
	Mode   GestureMode `json:"mode"`
	NodeID string      `json:"nodeId,omitempty"`
	// Grab is the pointer offset from the node origin while dragging.
	Grab Position `json:"grab"`
	// Draft is set while connecting.
	Draft *ConnectionDraft `json:"draft,omitempty"`
}

// Active reports whether a drag or connection is in progress.
func (g Gesture) Active() bool {
	return g.Mode == GestureDragging || g.Mode == GestureConnecting
}

// Gesture returns the current gesture state.
func (e *Engine) Gesture() Gesture {
	g := e.gesture
	if g.Mode == "" {
		g.Mode = GestureIdle
	}
	if g.Draft != nil {
		draft := *g.Draft
		g.Draft = &draft
	}
	return g
}

// BeginDrag starts moving a node. pointer is the canvas position where the
// node was grabbed. It is refused while another gesture is active.
func (e *Engine) BeginDrag(id string, pointer Position) bool {
	if e.gesture.Active() {
		return false
	}
	idx, ok := e.index[id]
	if !ok {
		return false
	}
	e.gesture = Gesture{
		Mode:   GestureDragging,
		NodeID: id,
		Grab:   pointer.Sub(e.nodes[idx].Position),
	}
	e.selection = Selection{Kind: SelectNode, ID: id}
	return true
}

// DragTo moves the dragged node so the grab point follows pointer. Moves are
// committed immediately; ending or abandoning the drag does not revert them.
func (e *Engine) DragTo(pointer Position) bool {
	if e.gesture.Mode != GestureDragging {
		return false
	}
	return e.MoveNode(e.gesture.NodeID, pointer.Sub(e.gesture.Grab))
}

// EndDrag finishes the drag gesture.
func (e *Engine) EndDrag() bool {
	if e.gesture.Mode != GestureDragging {
		return false
	}
	e.gesture = Gesture{}
	return true
}

// BeginConnection opens a connection draft at a node anchor. Either anchor
// kind may start the gesture.
func (e *Engine) BeginConnection(nodeID string, anchor AnchorKind) (ConnectionDraft, bool) {
	if e.gesture.Active() || !anchor.Valid() {
		return ConnectionDraft{}, false
	}
	idx, ok := e.index[nodeID]
	if !ok {
		return ConnectionDraft{}, false
	}
	draft := ConnectionDraft{
		NodeID: nodeID,
		Anchor: anchor,
		Origin: AnchorPoint(e.nodes[idx], anchor),
	}
	e.gesture = Gesture{Mode: GestureConnecting, NodeID: nodeID, Draft: &draft}
	return draft, true
}

// CompleteConnection closes draft on the target anchor. The resulting edge
// always runs from the output side to the input side, gets DefaultEdgeLabel
// and is selected. The draft is discarded whether or not an edge is created.
// A draft whose origin or target node no longer exists yields no edge and no
// error.
func (e *Engine) CompleteConnection(draft ConnectionDraft, targetID string, targetAnchor AnchorKind) (Edge, bool, error) {
	if e.gesture.Mode == GestureConnecting {
		e.gesture = Gesture{}
	}
	if _, ok := e.index[draft.NodeID]; !ok {
		return Edge{}, false, nil
	}
	if _, ok := e.index[targetID]; !ok {
		return Edge{}, false, nil
	}
	if targetID == draft.NodeID {
		return Edge{}, false, ErrSelfConnection
	}
	if !draft.Anchor.Valid() || targetAnchor != draft.Anchor.Complement() {
		return Edge{}, false, ErrAnchorMismatch
	}
	source, target := draft.NodeID, targetID
	if draft.Anchor == AnchorInput {
		source, target = targetID, draft.NodeID
	}
	if e.hasPair(source, target) {
		return Edge{}, false, fmt.Errorf("%w: %s -> %s", ErrDuplicateConnection, source, target)
	}
	id := "e" + source + "-" + target
	if e.edgeIndex(id) >= 0 {
		id = e.ids.NewID("edge")
	}
	edge := Edge{ID: id, Source: source, Target: target, Label: DefaultEdgeLabel}
	e.edges = append(e.edges, edge)
	e.selection = Selection{Kind: SelectEdge, ID: edge.ID}
	return edge, true, nil
}

// CancelConnection discards the open draft.
func (e *Engine) CancelConnection() bool {
	if e.gesture.Mode != GestureConnecting {
		return false
	}
	e.gesture = Gesture{}
	return true
}
