package workflow

import (
	"errors"
	"fmt"

	"github.com/goliatone/go-designer/components/ids"
	"github.com/goliatone/go-designer/components/schema"
)

var (
	// ErrUnknownNodeType is returned when a type is missing from the catalog.
	ErrUnknownNodeType = errors.New("workflow: unknown node type")
	// ErrUnknownProperty is returned when a property update names a missing property.
	ErrUnknownProperty = errors.New("workflow: unknown node property")
	// ErrSelfConnection rejects a connection that starts and ends on one node.
	ErrSelfConnection = errors.New("workflow: cannot connect a node to itself")
	// ErrAnchorMismatch rejects a connection between two anchors of the same kind.
	ErrAnchorMismatch = errors.New("workflow: connections must join an output to an input")
	// ErrDuplicateConnection rejects a second edge for the same source and target.
	ErrDuplicateConnection = errors.New("workflow: connection already exists")
	// ErrDanglingEdge rejects an edge whose source or target is not a node.
	ErrDanglingEdge = errors.New("workflow: edge references a missing node")
	// ErrDuplicateID rejects a replacement list that repeats or omits an id.
	ErrDuplicateID = errors.New("workflow: duplicate or empty id")
)

// IsRejection reports whether err is an invalid-operation outcome that left
// the engine untouched.
func IsRejection(err error) bool {
	for _, target := range []error{
		ErrUnknownNodeType, ErrUnknownProperty,
		ErrSelfConnection, ErrAnchorMismatch, ErrDuplicateConnection,
		ErrDanglingEdge, ErrDuplicateID,
		schema.ErrInvalidValue, schema.ErrRequired,
	} {
		if errors.Is(err, target) {
			return true
		}
	}
	return false
}

// SelectionKind tells which entity kind is selected.
type SelectionKind string

const (
	SelectNone SelectionKind = ""
	SelectNode SelectionKind = "node"
	SelectEdge SelectionKind = "edge"
)

// Selection is the entity shown in the property panel. At most one node or
// one edge is selected.
type Selection struct {
	Kind SelectionKind `json:"kind,omitempty"`
	ID   string        `json:"id,omitempty"`
}

// EngineOptions configures an Engine.
type EngineOptions struct {
	// Types supplies node templates. Nil uses the built-in palette.
	Types TypeCatalog
	IDs   ids.Generator
	// NodePrefix defaults to "node".
	NodePrefix string
}

// Engine owns the nodes and edges of one workflow editing session. It is
// not safe for concurrent use.
type Engine struct {
	types  TypeCatalog
	ids    ids.Generator
	prefix string

	nodes []Node
	index map[string]int
	edges []Edge

	selection Selection
	gesture   Gesture
}

// NewEngine builds an empty engine.
func NewEngine(opts EngineOptions) *Engine {
	types := opts.Types
	if types == nil {
		types = NewTypeRegistry()
	}
	prefix := opts.NodePrefix
	if prefix == "" {
		prefix = "node"
	}
	return &Engine{
		types:  types,
		ids:    ids.Normalize(opts.IDs),
		prefix: prefix,
		nodes:  []Node{},
		index:  map[string]int{},
		edges:  []Edge{},
	}
}

// Nodes returns a deep copy of the nodes in insertion order.
func (e *Engine) Nodes() []Node { return cloneNodes(e.nodes) }

// Edges returns a copy of the edges in insertion order.
func (e *Engine) Edges() []Edge { return cloneEdges(e.edges) }

// Graph returns the full serializable state.
func (e *Engine) Graph() Graph {
	return Graph{Nodes: e.Nodes(), Edges: e.Edges()}
}

// Node returns a copy of the node with id.
func (e *Engine) Node(id string) (Node, bool) {
	idx, ok := e.index[id]
	if !ok {
		return Node{}, false
	}
	return e.nodes[idx].Clone(), true
}

// Edge returns the edge with id.
func (e *Engine) Edge(id string) (Edge, bool) {
	idx := e.edgeIndex(id)
	if idx < 0 {
		return Edge{}, false
	}
	return e.edges[idx], true
}

// AddNode creates a node of typ at position from the type's template and
// selects it.
func (e *Engine) AddNode(typ NodeType, position Position) (Node, error) {
	def, ok := e.types.NodeType(typ)
	if !ok {
		return Node{}, fmt.Errorf("%w: %s", ErrUnknownNodeType, typ)
	}
	node := Node{
		ID:         e.ids.NewID(e.prefix),
		Type:       typ,
		Title:      def.Title,
		Position:   position.ClampNonNegative(),
		Properties: cloneProperties(def.Properties),
	}
	e.index[node.ID] = len(e.nodes)
	e.nodes = append(e.nodes, node)
	e.selection = Selection{Kind: SelectNode, ID: node.ID}
	return node.Clone(), nil
}

// MoveNode sets the node position, clamping both coordinates to zero.
func (e *Engine) MoveNode(id string, position Position) bool {
	idx, ok := e.index[id]
	if !ok {
		return false
	}
	e.nodes[idx].Position = position.ClampNonNegative()
	return true
}

// UpdateEdgeLabel replaces the label and condition of an edge.
func (e *Engine) UpdateEdgeLabel(id, label, condition string) bool {
	idx := e.edgeIndex(id)
	if idx < 0 {
		return false
	}
	e.edges[idx].Label = label
	e.edges[idx].Condition = condition
	return true
}

// DeleteNode removes the node and every edge attached to it.
func (e *Engine) DeleteNode(id string) bool {
	idx, ok := e.index[id]
	if !ok {
		return false
	}
	nodes := make([]Node, 0, len(e.nodes)-1)
	nodes = append(nodes, e.nodes[:idx]...)
	nodes = append(nodes, e.nodes[idx+1:]...)
	e.nodes = nodes
	e.reindex()

	edges := make([]Edge, 0, len(e.edges))
	removedSelected := false
	for _, edge := range e.edges {
		if edge.Source == id || edge.Target == id {
			if e.selection.Kind == SelectEdge && e.selection.ID == edge.ID {
				removedSelected = true
			}
			continue
		}
		edges = append(edges, edge)
	}
	e.edges = edges

	if removedSelected || (e.selection.Kind == SelectNode && e.selection.ID == id) {
		e.selection = Selection{}
	}
	if e.gesture.NodeID == id {
		e.gesture = Gesture{}
	}
	return true
}

// DeleteEdge removes a single edge.
func (e *Engine) DeleteEdge(id string) bool {
	idx := e.edgeIndex(id)
	if idx < 0 {
		return false
	}
	edges := make([]Edge, 0, len(e.edges)-1)
	edges = append(edges, e.edges[:idx]...)
	edges = append(edges, e.edges[idx+1:]...)
	e.edges = edges
	if e.selection.Kind == SelectEdge && e.selection.ID == id {
		e.selection = Selection{}
	}
	return true
}

// UpdateNodeProperties writes values keyed by property id. Each value is
// coerced to the property kind and must not be empty. Nothing is written
// unless every value is accepted. A task node's title follows its task-name
// property.
func (e *Engine) UpdateNodeProperties(id string, values map[string]any) (bool, error) {
	idx, ok := e.index[id]
	if !ok {
		return false, nil
	}
	node := e.nodes[idx].Clone()
	positions := make(map[string]int, len(node.Properties))
	for i, p := range node.Properties {
		positions[p.ID] = i
	}
	for propID, raw := range values {
		i, ok := positions[propID]
		if !ok {
			return false, fmt.Errorf("%w: %s on %s", ErrUnknownProperty, propID, id)
		}
		prop, err := node.Properties[i].Property()
		if err != nil {
			return false, err
		}
		value, err := prop.Coerce(raw)
		if err != nil {
			return false, err
		}
		if err := schema.Required(prop, value); err != nil {
			return false, err
		}
		node.Properties[i].Value = schema.CloneValue(value)
	}
	if node.Type == NodeTask {
		for _, p := range node.Properties {
			if p.Name != TaskTitleProperty {
				continue
			}
			if title, ok := p.Value.(string); ok && title != "" {
				node.Title = title
			}
		}
	}
	e.nodes[idx] = node
	return true, nil
}

// Select marks a node or edge as selected.
func (e *Engine) Select(kind SelectionKind, id string) bool {
	switch kind {
	case SelectNode:
		if _, ok := e.index[id]; !ok {
			return false
		}
	case SelectEdge:
		if e.edgeIndex(id) < 0 {
			return false
		}
	default:
		return false
	}
	e.selection = Selection{Kind: kind, ID: id}
	return true
}

// ClearSelection deselects everything.
func (e *Engine) ClearSelection() { e.selection = Selection{} }

// Selection returns the current selection.
func (e *Engine) Selection() Selection { return e.selection }

// SetNodes replaces every node. Edges that no longer reference two existing
// nodes are dropped. The call fails without changes on duplicate ids or
// unknown types.
func (e *Engine) SetNodes(nodes []Node) error {
	index, err := e.indexNodes(nodes)
	if err != nil {
		return err
	}
	e.nodes = cloneNodes(nodes)
	e.index = index
	edges := make([]Edge, 0, len(e.edges))
	for _, edge := range e.edges {
		if _, ok := index[edge.Source]; !ok {
			continue
		}
		if _, ok := index[edge.Target]; !ok {
			continue
		}
		edges = append(edges, edge)
	}
	e.edges = edges
	e.resetTransient()
	return nil
}

// SetEdges replaces every edge after checking references, self-loops and
// duplicate pairs against the current nodes.
func (e *Engine) SetEdges(edges []Edge) error {
	if err := validateEdges(e.index, edges); err != nil {
		return err
	}
	e.edges = cloneEdges(edges)
	e.resetTransient()
	return nil
}

// Load replaces the whole graph atomically.
func (e *Engine) Load(g Graph) error {
	index, err := e.indexNodes(g.Nodes)
	if err != nil {
		return err
	}
	if err := validateEdges(index, g.Edges); err != nil {
		return err
	}
	e.nodes = cloneNodes(g.Nodes)
	e.index = index
	e.edges = cloneEdges(g.Edges)
	e.resetTransient()
	return nil
}

func (e *Engine) indexNodes(nodes []Node) (map[string]int, error) {
	index := make(map[string]int, len(nodes))
	for i, n := range nodes {
		if n.ID == "" {
			return nil, fmt.Errorf("%w: node at index %d", ErrDuplicateID, i)
		}
		if _, dup := index[n.ID]; dup {
			return nil, fmt.Errorf("%w: node %s", ErrDuplicateID, n.ID)
		}
		if _, ok := e.types.NodeType(n.Type); !ok {
			return nil, fmt.Errorf("%w: %s", ErrUnknownNodeType, n.Type)
		}
		index[n.ID] = i
	}
	return index, nil
}

func validateEdges(index map[string]int, edges []Edge) error {
	edgeIDs := make(map[string]struct{}, len(edges))
	pairs := make(map[[2]string]struct{}, len(edges))
	for i, edge := range edges {
		if edge.ID == "" {
			return fmt.Errorf("%w: edge at index %d", ErrDuplicateID, i)
		}
		if _, dup := edgeIDs[edge.ID]; dup {
			return fmt.Errorf("%w: edge %s", ErrDuplicateID, edge.ID)
		}
		edgeIDs[edge.ID] = struct{}{}
		if _, ok := index[edge.Source]; !ok {
			return fmt.Errorf("%w: %s source %s", ErrDanglingEdge, edge.ID, edge.Source)
		}
		if _, ok := index[edge.Target]; !ok {
			return fmt.Errorf("%w: %s target %s", ErrDanglingEdge, edge.ID, edge.Target)
		}
		if edge.Source == edge.Target {
			return fmt.Errorf("%w: %s", ErrSelfConnection, edge.ID)
		}
		pair := [2]string{edge.Source, edge.Target}
		if _, dup := pairs[pair]; dup {
			return fmt.Errorf("%w: %s -> %s", ErrDuplicateConnection, edge.Source, edge.Target)
		}
		pairs[pair] = struct{}{}
	}
	return nil
}

func (e *Engine) resetTransient() {
	e.gesture = Gesture{}
	switch e.selection.Kind {
	case SelectNode:
		if _, ok := e.index[e.selection.ID]; !ok {
			e.selection = Selection{}
		}
	case SelectEdge:
		if e.edgeIndex(e.selection.ID) < 0 {
			e.selection = Selection{}
		}
	}
}

func (e *Engine) reindex() {
	e.index = make(map[string]int, len(e.nodes))
	for i, n := range e.nodes {
		e.index[n.ID] = i
	}
}

func (e *Engine) edgeIndex(id string) int {
	for i, edge := range e.edges {
		if edge.ID == id {
			return i
		}
	}
	return -1
}

func (e *Engine) hasPair(source, target string) bool {
	for _, edge := range e.edges {
		if edge.Source == source && edge.Target == target {
			return true
		}
	}
	return false
}
