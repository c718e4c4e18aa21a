// Package workflow implements the workflow graph editor core: positioned
// nodes, directed labeled edges, the drag and connection gestures, and the
// edge geometry used for hit-testing.
package workflow

import (
	"github.com/goliatone/go-designer/components/geometry"
	"github.com/goliatone/go-designer/components/schema"
)

// NodeType enumerates the node kinds offered by the palette.
type NodeType string

const (
	NodeStart     NodeType = "start"
	NodeApproval  NodeType = "approval"
	NodeCondition NodeType = "condition"
	NodeTask      NodeType = "task"
	NodeEnd       NodeType = "end"
)

const (
	// NodeWidth and NodeHeight are the rendered node box dimensions.
	NodeWidth  = 150.0
	NodeHeight = 70.0
	// AnchorOffsetY is the vertical offset of both anchors from the node top.
	AnchorOffsetY = 35.0
	// EdgeHitTolerance is the padding around an edge curve that still selects it.
	EdgeHitTolerance = 5.0
	// DefaultEdgeLabel is assigned to edges created by a connection gesture.
	DefaultEdgeLabel = "连接"
	// TaskTitleProperty is the task property mirrored into the node title.
	TaskTitleProperty = "任务名称"
	// labelLift raises edge labels above the curve midpoint.
	labelLift = 10.0
)

// Position is a canvas-local pixel coordinate.
type Position = geometry.Point

// NodeProperty is one editable field on a node.
type NodeProperty struct {
	ID      string      `json:"id" yaml:"id"`
	Name    string      `json:"name" yaml:"name"`
	Type    schema.Kind `json:"type" yaml:"type"`
	Value   any         `json:"value" yaml:"value"`
	Options []string    `json:"options,omitempty" yaml:"options,omitempty"`
}

// Property returns the schema variant that validates this field's values.
func (p NodeProperty) Property() (schema.Property, error) {
	spec := schema.Spec{Name: p.ID, Label: p.Name, Type: p.Type}
	for _, opt := range p.Options {
		spec.Options = append(spec.Options, schema.Option{Label: opt, Value: opt})
	}
	return spec.Property()
}

// Clone deep-copies the property.
func (p NodeProperty) Clone() NodeProperty {
	out := p
	out.Value = schema.CloneValue(p.Value)
	if p.Options != nil {
		out.Options = append([]string(nil), p.Options...)
	}
	return out
}

// Node is a positioned workflow step.
type Node struct {
	ID         string         `json:"id"`
	Type       NodeType       `json:"type"`
	Title      string         `json:"title"`
	Position   Position       `json:"position"`
	Properties []NodeProperty `json:"properties"`
}

// Clone deep-copies the node including its properties.
func (n Node) Clone() Node {
	out := n
	out.Properties = cloneProperties(n.Properties)
	return out
}

// Property returns the property with id.
func (n Node) Property(id string) (NodeProperty, bool) {
	for _, p := range n.Properties {
		if p.ID == id {
			return p.Clone(), true
		}
	}
	return NodeProperty{}, false
}

// Edge is a directed connection from Source's output anchor to Target's
// input anchor.
type Edge struct {
	ID        string `json:"id"`
	Source    string `json:"source"`
	Target    string `json:"target"`
	Label     string `json:"label"`
	Condition string `json:"condition,omitempty"`
}

// AnchorKind identifies the side of a node a connection attaches to.
type AnchorKind string

const (
	AnchorInput  AnchorKind = "input"
	AnchorOutput AnchorKind = "output"
)

// Valid reports whether k is input or output.
func (k AnchorKind) Valid() bool { return k == AnchorInput || k == AnchorOutput }

// Complement returns the opposite anchor kind.
func (k AnchorKind) Complement() AnchorKind {
	if k == AnchorInput {
		return AnchorOutput
	}
	return AnchorInput
}

// ConnectionDraft is the origin of an in-progress connection gesture.
type ConnectionDraft struct {
	NodeID string     `json:"nodeId"`
	Anchor AnchorKind `json:"anchor"`
	// Origin is the anchor position when the gesture started, used to draw
	// the rubber-band line.
	Origin Position `json:"origin"`
}

// Graph is the full serializable editor state.
type Graph struct {
	Nodes []Node `json:"nodes"`
	Edges []Edge `json:"edges"`
}

// Clone deep-copies the graph.
func (g Graph) Clone() Graph {
	return Graph{Nodes: cloneNodes(g.Nodes), Edges: cloneEdges(g.Edges)}
}

func cloneProperties(props []NodeProperty) []NodeProperty {
	if props == nil {
		return []NodeProperty{}
	}
	out := make([]NodeProperty, len(props))
	for i, p := range props {
		out[i] = p.Clone()
	}
	return out
}

func cloneNodes(nodes []Node) []Node {
	out := make([]Node, len(nodes))
	for i, n := range nodes {
		out[i] = n.Clone()
	}
	return out
}

func cloneEdges(edges []Edge) []Edge {
	out := make([]Edge, len(edges))
	copy(out, edges)
	return out
}
