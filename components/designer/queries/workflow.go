package queries

import (
	"bytes"
	"context"
	"io"

	gocommand "github.com/goliatone/go-command"

	"github.com/goliatone/go-designer/components/designer"
	"github.com/goliatone/go-designer/components/workflow"
)

type workflowStateService interface {
	WorkflowState(ctx context.Context, session string) (designer.WorkflowState, error)
}

// WorkflowStateQuery returns a workflow session snapshot.
type WorkflowStateQuery struct {
	service workflowStateService
}

// NewWorkflowStateQuery builds the query.
func NewWorkflowStateQuery(service workflowStateService) *WorkflowStateQuery {
	return &WorkflowStateQuery{service: service}
}

var _ gocommand.Querier[SessionInput, designer.WorkflowState] = (*WorkflowStateQuery)(nil)

// Query resolves the session state.
func (q *WorkflowStateQuery) Query(ctx context.Context, input SessionInput) (designer.WorkflowState, error) {
	return q.service.WorkflowState(ctx, input.Session)
}

// NodeTypesInput is the empty input of NodeTypesQuery.
type NodeTypesInput struct{}

type nodeTypesService interface {
	NodeTypes() []workflow.NodeTypeDefinition
}

// NodeTypesQuery lists the node palette.
type NodeTypesQuery struct {
	service nodeTypesService
}

// NewNodeTypesQuery builds the query.
func NewNodeTypesQuery(service nodeTypesService) *NodeTypesQuery {
	return &NodeTypesQuery{service: service}
}

var _ gocommand.Querier[NodeTypesInput, []workflow.NodeTypeDefinition] = (*NodeTypesQuery)(nil)

// Query lists node types.
func (q *NodeTypesQuery) Query(context.Context, NodeTypesInput) ([]workflow.NodeTypeDefinition, error) {
	return q.service.NodeTypes(), nil
}

// HitTestInput locates what lies under a canvas point.
type HitTestInput struct {
	Session string            `json:"session"`
	Point   workflow.Position `json:"point"`
}

type hitTestService interface {
	HitTest(ctx context.Context, session string, p workflow.Position) (designer.HitResult, error)
}

// HitTestQuery resolves the node or edge under a point.
type HitTestQuery struct {
	service hitTestService
}

// NewHitTestQuery builds the query.
func NewHitTestQuery(service hitTestService) *HitTestQuery {
	return &HitTestQuery{service: service}
}

var _ gocommand.Querier[HitTestInput, designer.HitResult] = (*HitTestQuery)(nil)

// Query hit-tests the point.
func (q *HitTestQuery) Query(ctx context.Context, input HitTestInput) (designer.HitResult, error) {
	return q.service.HitTest(ctx, input.Session, input.Point)
}

// EdgeInput names a workflow edge.
type EdgeInput struct {
	Session string `json:"session"`
	ID      string `json:"id"`
}

type edgeGeometryService interface {
	EdgeGeometry(ctx context.Context, session, id string) (designer.EdgeGeometry, error)
}

// EdgeGeometryQuery returns the path and label anchor of an edge.
type EdgeGeometryQuery struct {
	service edgeGeometryService
}

// NewEdgeGeometryQuery builds the query.
func NewEdgeGeometryQuery(service edgeGeometryService) *EdgeGeometryQuery {
	return &EdgeGeometryQuery{service: service}
}

var _ gocommand.Querier[EdgeInput, designer.EdgeGeometry] = (*EdgeGeometryQuery)(nil)

// Query resolves the edge geometry.
func (q *EdgeGeometryQuery) Query(ctx context.Context, input EdgeInput) (designer.EdgeGeometry, error) {
	return q.service.EdgeGeometry(ctx, input.Session, input.ID)
}

// ExportPNGInput selects the session and scale of a PNG export.
type ExportPNGInput struct {
	Session string  `json:"session"`
	Scale   float64 `json:"scale,omitempty"`
}

type exportPNGService interface {
	ExportPNG(ctx context.Context, session string, w io.Writer, opts workflow.RenderOptions) error
}

// ExportPNGQuery renders the session graph as PNG bytes.
type ExportPNGQuery struct {
	service exportPNGService
}

// NewExportPNGQuery builds the query.
func NewExportPNGQuery(service exportPNGService) *ExportPNGQuery {
	return &ExportPNGQuery{service: service}
}

var _ gocommand.Querier[ExportPNGInput, []byte] = (*ExportPNGQuery)(nil)

// Query renders the image.
func (q *ExportPNGQuery) Query(ctx context.Context, input ExportPNGInput) ([]byte, error) {
	var buf bytes.Buffer
	if err := q.service.ExportPNG(ctx, input.Session, &buf, workflow.RenderOptions{Scale: input.Scale}); err != nil {
		return nil, err
	}
	return buf.Bytes(), nil
}

// ListWorkflowsInput is the empty input of ListWorkflowsQuery.
type ListWorkflowsInput struct{}

type workflowListService interface {
	ListWorkflows(ctx context.Context) ([]workflow.Meta, error)
}

// ListWorkflowsQuery lists workflow definitions.
type ListWorkflowsQuery struct {
	service workflowListService
}

// NewListWorkflowsQuery builds the query.
func NewListWorkflowsQuery(service workflowListService) *ListWorkflowsQuery {
	return &ListWorkflowsQuery{service: service}
}

var _ gocommand.Querier[ListWorkflowsInput, []workflow.Meta] = (*ListWorkflowsQuery)(nil)

// Query lists definitions.
func (q *ListWorkflowsQuery) Query(ctx context.Context, _ ListWorkflowsInput) ([]workflow.Meta, error) {
	return q.service.ListWorkflows(ctx)
}

type exportGraphService interface {
	ExportGraph(ctx context.Context, session string, w io.Writer) error
}

// ExportGraphQuery serializes a workflow graph as JSON.
type ExportGraphQuery struct {
	service exportGraphService
}

// NewExportGraphQuery builds the query.
func NewExportGraphQuery(service exportGraphService) *ExportGraphQuery {
	return &ExportGraphQuery{service: service}
}

var _ gocommand.Querier[SessionInput, []byte] = (*ExportGraphQuery)(nil)

// Query writes the graph document.
func (q *ExportGraphQuery) Query(ctx context.Context, input SessionInput) ([]byte, error) {
	var buf bytes.Buffer
	if err := q.service.ExportGraph(ctx, input.Session, &buf); err != nil {
		return nil, err
	}
	return buf.Bytes(), nil
}
