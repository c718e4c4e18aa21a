package designer

import (
	"context"
	"fmt"
	"io"

	"github.com/goliatone/go-designer/components/geometry"
	"github.com/goliatone/go-designer/components/workflow"
)

// WorkflowState is a snapshot of a workflow editing session.
type WorkflowState struct {
	Session      string             `json:"session"`
	DefinitionID string             `json:"definitionId,omitempty"`
	Graph        workflow.Graph     `json:"graph"`
	Selection    workflow.Selection `json:"selection"`
	Gesture      workflow.Gesture   `json:"gesture"`
}

// ConnectRequest joins two node anchors in one step.
type ConnectRequest struct {
	SourceID     string              `json:"sourceId"`
	SourceAnchor workflow.AnchorKind `json:"sourceAnchor"`
	TargetID     string              `json:"targetId"`
	TargetAnchor workflow.AnchorKind `json:"targetAnchor"`
}

// HitResult reports what lies under a canvas point.
type HitResult struct {
	Node *workflow.Node `json:"node,omitempty"`
	Edge *workflow.Edge `json:"edge,omitempty"`
}

// EdgeGeometry is the rendered shape of an edge.
type EdgeGeometry struct {
	EdgeID string            `json:"edgeId"`
	Path   string            `json:"path"`
	Label  workflow.Position `json:"label"`
	Bounds geometry.Rect     `json:"bounds"`
}

// OpenWorkflow returns the session state, creating the session when needed.
// An empty id allocates a new session.
func (s *Service) OpenWorkflow(ctx context.Context, session string) (WorkflowState, error) {
	s.mu.Lock()
	if session == "" {
		session = s.opts.IDs.NewID("workflow")
	}
	sess, ok := s.workflows[session]
	if !ok {
		sess = &workflowSession{engine: workflow.NewEngine(workflow.EngineOptions{
			Types: s.opts.NodeTypes,
			IDs:   s.opts.IDs,
		})}
		s.workflows[session] = sess
	}
	s.mu.Unlock()
	if !ok {
		s.opts.Logger.Info("designer session opened", "session", session, "editor", EditorWorkflow)
	}
	return s.WorkflowState(ctx, session)
}

// WorkflowState returns a snapshot of the session.
func (s *Service) WorkflowState(_ context.Context, session string) (WorkflowState, error) {
	var state WorkflowState
	err := s.withWorkflow(session, func(sess *workflowSession) error {
		state = WorkflowState{
			Session:      session,
			DefinitionID: sess.definitionID,
			Graph:        sess.engine.Graph(),
			Selection:    sess.engine.Selection(),
			Gesture:      sess.engine.Gesture(),
		}
		return nil
	})
	return state, err
}

// NodeTypes lists the node palette.
func (s *Service) NodeTypes() []workflow.NodeTypeDefinition {
	return s.opts.NodeTypes.Definitions()
}

// AddNode creates a node of typ at pos from its type template.
func (s *Service) AddNode(ctx context.Context, session string, typ workflow.NodeType, pos workflow.Position) (workflow.Node, error) {
	var node workflow.Node
	err := s.withWorkflow(session, func(sess *workflowSession) error {
		var err error
		node, err = sess.engine.AddNode(typ, pos)
		return err
	})
	if err != nil {
		return workflow.Node{}, s.rejected(session, "node.add", err)
	}
	return node, s.commit(ctx, change{
		session:  session,
		editor:   EditorWorkflow,
		reason:   "node.add",
		object:   "workflow_node",
		objectID: node.ID,
		metadata: map[string]any{"type": string(typ)},
	})
}

// MoveNode places node id at pos.
func (s *Service) MoveNode(ctx context.Context, session, id string, pos workflow.Position) error {
	var changed bool
	if err := s.withWorkflow(session, func(sess *workflowSession) error {
		changed = sess.engine.MoveNode(id, pos)
		return nil
	}); err != nil {
		return err
	}
	if !changed {
		return nil
	}
	return s.commit(ctx, change{
		session:  session,
		editor:   EditorWorkflow,
		reason:   "node.move",
		object:   "workflow_node",
		objectID: id,
		quiet:    true,
	})
}

// BeginNodeDrag grabs node id at pointer.
func (s *Service) BeginNodeDrag(_ context.Context, session, id string, pointer workflow.Position) error {
	return s.withWorkflow(session, func(sess *workflowSession) error {
		if !sess.engine.BeginDrag(id, pointer) {
			return s.rejected(session, "drag.begin", fmt.Errorf("%w: %s", ErrGestureRefused, id))
		}
		return nil
	})
}

// DragNode moves the grabbed node so the grab point follows pointer.
func (s *Service) DragNode(ctx context.Context, session string, pointer workflow.Position) error {
	var (
		changed bool
		id      string
	)
	if err := s.withWorkflow(session, func(sess *workflowSession) error {
		id = sess.engine.Gesture().NodeID
		changed = sess.engine.DragTo(pointer)
		return nil
	}); err != nil {
		return err
	}
	if !changed {
		return nil
	}
	return s.commit(ctx, change{
		session:  session,
		editor:   EditorWorkflow,
		reason:   "node.move",
		object:   "workflow_node",
		objectID: id,
		quiet:    true,
	})
}

// EndNodeDrag releases the grabbed node.
func (s *Service) EndNodeDrag(ctx context.Context, session string) error {
	var (
		ended bool
		id    string
		pos   workflow.Position
	)
	if err := s.withWorkflow(session, func(sess *workflowSession) error {
		id = sess.engine.Gesture().NodeID
		ended = sess.engine.EndDrag()
		if node, ok := sess.engine.Node(id); ok {
			pos = node.Position
		}
		return nil
	}); err != nil {
		return err
	}
	if !ended {
		return nil
	}
	return s.commit(ctx, change{
		session:  session,
		editor:   EditorWorkflow,
		reason:   "node.drag",
		object:   "workflow_node",
		objectID: id,
		metadata: map[string]any{"x": pos.X, "y": pos.Y},
	})
}

// BeginConnection opens a connection draft at a node anchor.
func (s *Service) BeginConnection(_ context.Context, session, nodeID string, anchor workflow.AnchorKind) (workflow.ConnectionDraft, error) {
	var draft workflow.ConnectionDraft
	err := s.withWorkflow(session, func(sess *workflowSession) error {
		var ok bool
		draft, ok = sess.engine.BeginConnection(nodeID, anchor)
		if !ok {
			return s.rejected(session, "connect.begin", fmt.Errorf("%w: %s", ErrGestureRefused, nodeID))
		}
		return nil
	})
	return draft, err
}

// CompleteConnection closes the open draft on a target anchor. A completion
// with no open draft, or whose endpoints were deleted meanwhile, is a no-op
// and returns the zero Edge.
func (s *Service) CompleteConnection(ctx context.Context, session, targetID string, anchor workflow.AnchorKind) (workflow.Edge, error) {
	var (
		edge    workflow.Edge
		created bool
	)
	err := s.withWorkflow(session, func(sess *workflowSession) error {
		g := sess.engine.Gesture()
		if g.Mode != workflow.GestureConnecting || g.Draft == nil {
			return nil
		}
		var err error
		edge, created, err = sess.engine.CompleteConnection(*g.Draft, targetID, anchor)
		return err
	})
	if err != nil {
		return workflow.Edge{}, s.rejected(session, "connect", err)
	}
	if !created {
		return workflow.Edge{}, nil
	}
	return edge, s.commitEdge(ctx, session, edge)
}

// CancelConnection discards the open draft.
func (s *Service) CancelConnection(_ context.Context, session string) error {
	return s.withWorkflow(session, func(sess *workflowSession) error {
		sess.engine.CancelConnection()
		return nil
	})
}

// Connect runs a whole connection gesture in one call. Missing endpoints
// make it a no-op returning the zero Edge.
func (s *Service) Connect(ctx context.Context, session string, req ConnectRequest) (workflow.Edge, error) {
	var (
		edge    workflow.Edge
		created bool
	)
	err := s.withWorkflow(session, func(sess *workflowSession) error {
		draft, ok := sess.engine.BeginConnection(req.SourceID, req.SourceAnchor)
		if !ok {
			if _, exists := sess.engine.Node(req.SourceID); !exists {
				return nil
			}
			return fmt.Errorf("%w: %s", ErrGestureRefused, req.SourceID)
		}
		var err error
		edge, created, err = sess.engine.CompleteConnection(draft, req.TargetID, req.TargetAnchor)
		return err
	})
	if err != nil {
		return workflow.Edge{}, s.rejected(session, "connect", err)
	}
	if !created {
		return workflow.Edge{}, nil
	}
	return edge, s.commitEdge(ctx, session, edge)
}

func (s *Service) commitEdge(ctx context.Context, session string, edge workflow.Edge) error {
	return s.commit(ctx, change{
		session:  session,
		editor:   EditorWorkflow,
		reason:   "edge.add",
		object:   "workflow_edge",
		objectID: edge.ID,
		metadata: map[string]any{"source": edge.Source, "target": edge.Target},
	})
}

// UpdateEdgeLabel sets the label and condition of edge id.
func (s *Service) UpdateEdgeLabel(ctx context.Context, session, id, label, condition string) error {
	var changed bool
	if err := s.withWorkflow(session, func(sess *workflowSession) error {
		changed = sess.engine.UpdateEdgeLabel(id, label, condition)
		return nil
	}); err != nil {
		return err
	}
	if !changed {
		return nil
	}
	return s.commit(ctx, change{
		session:  session,
		editor:   EditorWorkflow,
		reason:   "edge.label",
		object:   "workflow_edge",
		objectID: id,
		metadata: map[string]any{"label": label},
	})
}

// DeleteNode removes node id and its edges.
func (s *Service) DeleteNode(ctx context.Context, session, id string) error {
	var changed bool
	if err := s.withWorkflow(session, func(sess *workflowSession) error {
		changed = sess.engine.DeleteNode(id)
		return nil
	}); err != nil {
		return err
	}
	if !changed {
		return nil
	}
	return s.commit(ctx, change{
		session:  session,
		editor:   EditorWorkflow,
		reason:   "node.delete",
		object:   "workflow_node",
		objectID: id,
	})
}

// DeleteEdge removes edge id.
func (s *Service) DeleteEdge(ctx context.Context, session, id string) error {
	var changed bool
	if err := s.withWorkflow(session, func(sess *workflowSession) error {
		changed = sess.engine.DeleteEdge(id)
		return nil
	}); err != nil {
		return err
	}
	if !changed {
		return nil
	}
	return s.commit(ctx, change{
		session:  session,
		editor:   EditorWorkflow,
		reason:   "edge.delete",
		object:   "workflow_edge",
		objectID: id,
	})
}

// UpdateNodeProperties writes property values keyed by property id.
func (s *Service) UpdateNodeProperties(ctx context.Context, session, id string, values map[string]any) error {
	var changed bool
	err := s.withWorkflow(session, func(sess *workflowSession) error {
		var err error
		changed, err = sess.engine.UpdateNodeProperties(id, values)
		return err
	})
	if err != nil {
		return s.rejected(session, "node.properties", err)
	}
	if !changed {
		return nil
	}
	keys := make([]string, 0, len(values))
	for k := range values {
		keys = append(keys, k)
	}
	return s.commit(ctx, change{
		session:  session,
		editor:   EditorWorkflow,
		reason:   "node.properties",
		object:   "workflow_node",
		objectID: id,
		metadata: map[string]any{"properties": keys},
	})
}

// SelectWorkflowItem selects a node or edge; an empty kind clears.
func (s *Service) SelectWorkflowItem(ctx context.Context, session string, kind workflow.SelectionKind, id string) error {
	var changed bool
	if err := s.withWorkflow(session, func(sess *workflowSession) error {
		if kind == "" {
			sess.engine.ClearSelection()
			changed = true
			return nil
		}
		changed = sess.engine.Select(kind, id)
		return nil
	}); err != nil {
		return err
	}
	if !changed {
		return nil
	}
	return s.commit(ctx, change{
		session:  session,
		editor:   EditorWorkflow,
		reason:   "select",
		object:   "workflow_" + string(kind),
		objectID: id,
		quiet:    true,
	})
}

// LoadGraph replaces the session graph.
func (s *Service) LoadGraph(ctx context.Context, session string, g workflow.Graph) error {
	if err := s.withWorkflow(session, func(sess *workflowSession) error {
		return sess.engine.Load(g)
	}); err != nil {
		return s.rejected(session, "graph.load", err)
	}
	s.opts.Logger.Info("designer workflow replaced", "session", session, "nodes", len(g.Nodes), "edges", len(g.Edges))
	return s.commit(ctx, change{
		session:  session,
		editor:   EditorWorkflow,
		reason:   "graph.load",
		object:   "workflow",
		metadata: map[string]any{"nodes": len(g.Nodes), "edges": len(g.Edges)},
	})
}

// ImportGraph parses a JSON graph document into the session.
func (s *Service) ImportGraph(ctx context.Context, session string, data []byte) error {
	g, err := workflow.ParseGraph(data)
	if err != nil {
		return s.rejected(session, "graph.import", fmt.Errorf("%w: %w", ErrInvalidDocument, err))
	}
	return s.LoadGraph(ctx, session, g)
}

// ExportGraph writes the session graph as JSON.
func (s *Service) ExportGraph(_ context.Context, session string, w io.Writer) error {
	g, err := s.graph(session)
	if err != nil {
		return err
	}
	return workflow.EncodeGraph(w, g)
}

// ExportPNG renders the session graph as a PNG image.
func (s *Service) ExportPNG(_ context.Context, session string, w io.Writer, opts workflow.RenderOptions) error {
	g, err := s.graph(session)
	if err != nil {
		return err
	}
	if opts.Types == nil {
		opts.Types = s.opts.NodeTypes
	}
	return workflow.RenderPNG(w, g, opts)
}

func (s *Service) graph(session string) (workflow.Graph, error) {
	var g workflow.Graph
	err := s.withWorkflow(session, func(sess *workflowSession) error {
		g = sess.engine.Graph()
		return nil
	})
	return g, err
}

// HitTest reports the topmost node at p, or else the nearest edge.
func (s *Service) HitTest(_ context.Context, session string, p workflow.Position) (HitResult, error) {
	var hit HitResult
	err := s.withWorkflow(session, func(sess *workflowSession) error {
		if node, ok := sess.engine.NodeAt(p); ok {
			hit.Node = &node
			return nil
		}
		if edge, ok := sess.engine.HitTestEdge(p); ok {
			hit.Edge = &edge
		}
		return nil
	})
	return hit, err
}

// EdgeGeometry returns the SVG path and label anchor of edge id.
func (s *Service) EdgeGeometry(_ context.Context, session, id string) (EdgeGeometry, error) {
	var (
		out EdgeGeometry
		ok  bool
	)
	err := s.withWorkflow(session, func(sess *workflowSession) error {
		var curve geometry.Cubic
		curve, ok = sess.engine.EdgePath(id)
		if !ok {
			return nil
		}
		out = EdgeGeometry{
			EdgeID: id,
			Path:   workflow.SVGPath(curve),
			Label:  workflow.LabelPoint(curve),
			Bounds: curve.Bounds(),
		}
		return nil
	})
	if err != nil {
		return EdgeGeometry{}, err
	}
	if !ok {
		return EdgeGeometry{}, fmt.Errorf("%w: %s", ErrUnknownTarget, id)
	}
	return out, nil
}

// CreateWorkflow adds a definition to the management list.
func (s *Service) CreateWorkflow(ctx context.Context, meta workflow.Meta) (workflow.Meta, error) {
	created, err := s.opts.Workflows.Create(ctx, meta)
	if err != nil {
		return workflow.Meta{}, err
	}
	s.recordTelemetry(ctx, "designer.workflow.definition.create", map[string]any{"object_id": created.ID})
	return created, nil
}

// UpdateWorkflow replaces a definition's metadata.
func (s *Service) UpdateWorkflow(ctx context.Context, meta workflow.Meta) (workflow.Meta, error) {
	updated, err := s.opts.Workflows.Update(ctx, meta)
	if err != nil {
		return workflow.Meta{}, err
	}
	s.recordTelemetry(ctx, "designer.workflow.definition.update", map[string]any{"object_id": updated.ID})
	return updated, nil
}

// DeleteWorkflow removes a definition.
func (s *Service) DeleteWorkflow(ctx context.Context, id string) error {
	if err := s.opts.Workflows.Delete(ctx, id); err != nil {
		return err
	}
	s.recordTelemetry(ctx, "designer.workflow.definition.delete", map[string]any{"object_id": id})
	return nil
}

// ListWorkflows lists definitions.
func (s *Service) ListWorkflows(ctx context.Context) ([]workflow.Meta, error) {
	return s.opts.Workflows.List(ctx)
}

// OpenDefinition loads a saved definition graph into the session and binds
// the session to it.
func (s *Service) OpenDefinition(ctx context.Context, session, definitionID string) error {
	def, err := s.opts.Workflows.Get(ctx, definitionID)
	if err != nil {
		return err
	}
	if err := s.withWorkflow(session, func(sess *workflowSession) error {
		if err := sess.engine.Load(def.Graph); err != nil {
			return err
		}
		sess.definitionID = def.ID
		return nil
	}); err != nil {
		return s.rejected(session, "definition.open", err)
	}
	return s.commit(ctx, change{
		session:  session,
		editor:   EditorWorkflow,
		reason:   "definition.open",
		object:   "workflow",
		objectID: def.ID,
	})
}

// SaveDefinition stores the session graph on its bound definition, or on
// definitionID when given.
func (s *Service) SaveDefinition(ctx context.Context, session, definitionID string) error {
	var g workflow.Graph
	if err := s.withWorkflow(session, func(sess *workflowSession) error {
		if definitionID == "" {
			definitionID = sess.definitionID
		}
		g = sess.engine.Graph()
		return nil
	}); err != nil {
		return err
	}
	if err := s.opts.Workflows.SaveGraph(ctx, definitionID, g); err != nil {
		return err
	}
	_ = s.withWorkflow(session, func(sess *workflowSession) error {
		sess.definitionID = definitionID
		return nil
	})
	return s.commit(ctx, change{
		session:  session,
		editor:   EditorWorkflow,
		reason:   "definition.save",
		object:   "workflow",
		objectID: definitionID,
	})
}
