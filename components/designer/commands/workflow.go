package commands

import (
	"context"
	"encoding/json"
	"errors"

	gocommand "github.com/goliatone/go-command"

	"github.com/goliatone/go-designer/components/designer"
	"github.com/goliatone/go-designer/components/workflow"
)

// AddNodeInput creates a node from its type template.
type AddNodeInput struct {
	Session  string            `json:"session"`
	Type     workflow.NodeType `json:"type"`
	Position workflow.Position `json:"position"`
}

// NodePositionInput addresses a node together with a canvas point.
type NodePositionInput struct {
	Session  string            `json:"session"`
	ID       string            `json:"id"`
	Position workflow.Position `json:"position"`
}

// PointerInput carries the pointer position of a running gesture.
type PointerInput struct {
	Session string            `json:"session"`
	Pointer workflow.Position `json:"pointer"`
}

// NodeInput names a node of a workflow session.
type NodeInput struct {
	Session string `json:"session"`
	ID      string `json:"id"`
}

// EdgeInput names an edge of a workflow session.
type EdgeInput struct {
	Session string `json:"session"`
	ID      string `json:"id"`
}

// AnchorInput addresses a node anchor.
type AnchorInput struct {
	Session string              `json:"session"`
	NodeID  string              `json:"nodeId"`
	Anchor  workflow.AnchorKind `json:"anchor"`
}

// ConnectInput joins two anchors in one step.
type ConnectInput struct {
	Session string `json:"session"`
	designer.ConnectRequest
}

// EdgeLabelInput sets an edge label and condition.
type EdgeLabelInput struct {
	Session   string `json:"session"`
	ID        string `json:"id"`
	Label     string `json:"label"`
	Condition string `json:"condition,omitempty"`
}

// NodePropertiesInput writes node property values keyed by property id.
type NodePropertiesInput struct {
	Session string         `json:"session"`
	ID      string         `json:"id"`
	Values  map[string]any `json:"values"`
}

// SelectItemInput selects a node or edge. An empty Kind clears the selection.
type SelectItemInput struct {
	Session string                 `json:"session"`
	Kind    workflow.SelectionKind `json:"kind"`
	ID      string                 `json:"id"`
}

// ImportGraphInput replaces a workflow with a JSON graph document.
type ImportGraphInput struct {
	Session  string          `json:"session"`
	Document json.RawMessage `json:"document"`
}

// DefinitionInput binds a session to a saved workflow definition.
type DefinitionInput struct {
	Session      string `json:"session"`
	DefinitionID string `json:"definitionId"`
}

// WorkflowMetaInput creates or updates a workflow definition.
type WorkflowMetaInput struct {
	workflow.Meta
}

// WorkflowIDInput names a workflow definition.
type WorkflowIDInput struct {
	ID string `json:"id"`
}

type addNodeService interface {
	AddNode(ctx context.Context, session string, typ workflow.NodeType, pos workflow.Position) (workflow.Node, error)
}

// AddNodeCommand wraps Service.AddNode.
type AddNodeCommand struct {
	service   addNodeService
	telemetry Telemetry
}

// NewAddNodeCommand builds the command.
func NewAddNodeCommand(service addNodeService, telemetry Telemetry) *AddNodeCommand {
	return &AddNodeCommand{service: service, telemetry: normalizeTelemetry(telemetry)}
}

var _ gocommand.Commander[AddNodeInput] = (*AddNodeCommand)(nil)

// Execute creates the node.
func (c *AddNodeCommand) Execute(ctx context.Context, msg AddNodeInput) error {
	if c.service == nil {
		return errors.New("add node command requires service")
	}
	if err := discard(c.service.AddNode(ctx, msg.Session, msg.Type, msg.Position)); err != nil {
		return err
	}
	c.telemetry.Record(ctx, "designer.node.add", map[string]any{
		"session": msg.Session,
		"type":    string(msg.Type),
	})
	return nil
}

type moveNodeService interface {
	MoveNode(ctx context.Context, session, id string, pos workflow.Position) error
}

// MoveNodeCommand wraps Service.MoveNode.
type MoveNodeCommand struct {
	service   moveNodeService
	telemetry Telemetry
}

// NewMoveNodeCommand builds the command.
func NewMoveNodeCommand(service moveNodeService, telemetry Telemetry) *MoveNodeCommand {
	return &MoveNodeCommand{service: service, telemetry: normalizeTelemetry(telemetry)}
}

var _ gocommand.Commander[NodePositionInput] = (*MoveNodeCommand)(nil)

// Execute places the node.
func (c *MoveNodeCommand) Execute(ctx context.Context, msg NodePositionInput) error {
	if c.service == nil {
		return errors.New("move node command requires service")
	}
	if err := c.service.MoveNode(ctx, msg.Session, msg.ID, msg.Position); err != nil {
		return err
	}
	c.telemetry.Record(ctx, "designer.node.move", map[string]any{
		"session": msg.Session,
		"id":      msg.ID,
	})
	return nil
}

type beginNodeDragService interface {
	BeginNodeDrag(ctx context.Context, session, id string, pointer workflow.Position) error
}

// BeginNodeDragCommand wraps Service.BeginNodeDrag.
type BeginNodeDragCommand struct {
	service   beginNodeDragService
	telemetry Telemetry
}

// NewBeginNodeDragCommand builds the command.
func NewBeginNodeDragCommand(service beginNodeDragService, telemetry Telemetry) *BeginNodeDragCommand {
	return &BeginNodeDragCommand{service: service, telemetry: normalizeTelemetry(telemetry)}
}

var _ gocommand.Commander[NodePositionInput] = (*BeginNodeDragCommand)(nil)

// Execute grabs the node at the pointer.
func (c *BeginNodeDragCommand) Execute(ctx context.Context, msg NodePositionInput) error {
	if c.service == nil {
		return errors.New("begin node drag command requires service")
	}
	if err := c.service.BeginNodeDrag(ctx, msg.Session, msg.ID, msg.Position); err != nil {
		return err
	}
	c.telemetry.Record(ctx, "designer.node.drag.begin", map[string]any{
		"session": msg.Session,
		"id":      msg.ID,
	})
	return nil
}

type dragNodeService interface {
	DragNode(ctx context.Context, session string, pointer workflow.Position) error
}

// DragNodeCommand wraps Service.DragNode.
type DragNodeCommand struct {
	service   dragNodeService
	telemetry Telemetry
}

// NewDragNodeCommand builds the command.
func NewDragNodeCommand(service dragNodeService, telemetry Telemetry) *DragNodeCommand {
	return &DragNodeCommand{service: service, telemetry: normalizeTelemetry(telemetry)}
}

var _ gocommand.Commander[PointerInput] = (*DragNodeCommand)(nil)

// Execute moves the grabbed node.
func (c *DragNodeCommand) Execute(ctx context.Context, msg PointerInput) error {
	if c.service == nil {
		return errors.New("drag node command requires service")
	}
	if err := c.service.DragNode(ctx, msg.Session, msg.Pointer); err != nil {
		return err
	}
	c.telemetry.Record(ctx, "designer.node.drag", map[string]any{
		"session": msg.Session,
	})
	return nil
}

type endNodeDragService interface {
	EndNodeDrag(ctx context.Context, session string) error
}

// EndNodeDragCommand wraps Service.EndNodeDrag.
type EndNodeDragCommand struct {
	service   endNodeDragService
	telemetry Telemetry
}

// NewEndNodeDragCommand builds the command.
func NewEndNodeDragCommand(service endNodeDragService, telemetry Telemetry) *EndNodeDragCommand {
	return &EndNodeDragCommand{service: service, telemetry: normalizeTelemetry(telemetry)}
}

var _ gocommand.Commander[SessionInput] = (*EndNodeDragCommand)(nil)

// Execute releases the grabbed node.
func (c *EndNodeDragCommand) Execute(ctx context.Context, msg SessionInput) error {
	if c.service == nil {
		return errors.New("end node drag command requires service")
	}
	if err := c.service.EndNodeDrag(ctx, msg.Session); err != nil {
		return err
	}
	c.telemetry.Record(ctx, "designer.node.drag.end", map[string]any{
		"session": msg.Session,
	})
	return nil
}

type deleteNodeService interface {
	DeleteNode(ctx context.Context, session, id string) error
}

// DeleteNodeCommand wraps Service.DeleteNode.
type DeleteNodeCommand struct {
	service   deleteNodeService
	telemetry Telemetry
}

// NewDeleteNodeCommand builds the command.
func NewDeleteNodeCommand(service deleteNodeService, telemetry Telemetry) *DeleteNodeCommand {
	return &DeleteNodeCommand{service: service, telemetry: normalizeTelemetry(telemetry)}
}

var _ gocommand.Commander[NodeInput] = (*DeleteNodeCommand)(nil)

// Execute removes the node and its edges.
func (c *DeleteNodeCommand) Execute(ctx context.Context, msg NodeInput) error {
	if c.service == nil {
		return errors.New("delete node command requires service")
	}
	if err := c.service.DeleteNode(ctx, msg.Session, msg.ID); err != nil {
		return err
	}
	c.telemetry.Record(ctx, "designer.node.delete", map[string]any{
		"session": msg.Session,
		"id":      msg.ID,
	})
	return nil
}

type nodePropertiesService interface {
	UpdateNodeProperties(ctx context.Context, session, id string, values map[string]any) error
}

// UpdateNodePropertiesCommand wraps Service.UpdateNodeProperties.
type UpdateNodePropertiesCommand struct {
	service   nodePropertiesService
	telemetry Telemetry
}

// NewUpdateNodePropertiesCommand builds the command.
func NewUpdateNodePropertiesCommand(service nodePropertiesService, telemetry Telemetry) *UpdateNodePropertiesCommand {
	return &UpdateNodePropertiesCommand{service: service, telemetry: normalizeTelemetry(telemetry)}
}

var _ gocommand.Commander[NodePropertiesInput] = (*UpdateNodePropertiesCommand)(nil)

// Execute writes the property values.
func (c *UpdateNodePropertiesCommand) Execute(ctx context.Context, msg NodePropertiesInput) error {
	if c.service == nil {
		return errors.New("node properties command requires service")
	}
	if err := c.service.UpdateNodeProperties(ctx, msg.Session, msg.ID, msg.Values); err != nil {
		return err
	}
	c.telemetry.Record(ctx, "designer.node.properties", map[string]any{
		"session": msg.Session,
		"id":      msg.ID,
		"count":   len(msg.Values),
	})
	return nil
}

type beginConnectionService interface {
	BeginConnection(ctx context.Context, session, nodeID string, anchor workflow.AnchorKind) (workflow.ConnectionDraft, error)
}

// BeginConnectionCommand wraps Service.BeginConnection.
type BeginConnectionCommand struct {
	service   beginConnectionService
	telemetry Telemetry
}

// NewBeginConnectionCommand builds the command.
func NewBeginConnectionCommand(service beginConnectionService, telemetry Telemetry) *BeginConnectionCommand {
	return &BeginConnectionCommand{service: service, telemetry: normalizeTelemetry(telemetry)}
}

var _ gocommand.Commander[AnchorInput] = (*BeginConnectionCommand)(nil)

// Execute opens a connection draft.
func (c *BeginConnectionCommand) Execute(ctx context.Context, msg AnchorInput) error {
	if c.service == nil {
		return errors.New("begin connection command requires service")
	}
	if err := discard(c.service.BeginConnection(ctx, msg.Session, msg.NodeID, msg.Anchor)); err != nil {
		return err
	}
	c.telemetry.Record(ctx, "designer.connection.begin", map[string]any{
		"session": msg.Session,
		"node_id": msg.NodeID,
		"anchor":  string(msg.Anchor),
	})
	return nil
}

type completeConnectionService interface {
	CompleteConnection(ctx context.Context, session, targetID string, anchor workflow.AnchorKind) (workflow.Edge, error)
}

// CompleteConnectionCommand wraps Service.CompleteConnection.
type CompleteConnectionCommand struct {
	service   completeConnectionService
	telemetry Telemetry
}

// NewCompleteConnectionCommand builds the command.
func NewCompleteConnectionCommand(service completeConnectionService, telemetry Telemetry) *CompleteConnectionCommand {
	return &CompleteConnectionCommand{service: service, telemetry: normalizeTelemetry(telemetry)}
}

var _ gocommand.Commander[AnchorInput] = (*CompleteConnectionCommand)(nil)

// Execute closes the draft on the target anchor.
func (c *CompleteConnectionCommand) Execute(ctx context.Context, msg AnchorInput) error {
	if c.service == nil {
		return errors.New("complete connection command requires service")
	}
	if err := discard(c.service.CompleteConnection(ctx, msg.Session, msg.NodeID, msg.Anchor)); err != nil {
		return err
	}
	c.telemetry.Record(ctx, "designer.connection.complete", map[string]any{
		"session": msg.Session,
		"node_id": msg.NodeID,
		"anchor":  string(msg.Anchor),
	})
	return nil
}

type cancelConnectionService interface {
	CancelConnection(ctx context.Context, session string) error
}

// CancelConnectionCommand wraps Service.CancelConnection.
type CancelConnectionCommand struct {
	service   cancelConnectionService
	telemetry Telemetry
}

// NewCancelConnectionCommand builds the command.
func NewCancelConnectionCommand(service cancelConnectionService, telemetry Telemetry) *CancelConnectionCommand {
	return &CancelConnectionCommand{service: service, telemetry: normalizeTelemetry(telemetry)}
}

var _ gocommand.Commander[SessionInput] = (*CancelConnectionCommand)(nil)

// Execute discards the draft.
func (c *CancelConnectionCommand) Execute(ctx context.Context, msg SessionInput) error {
	if c.service == nil {
		return errors.New("cancel connection command requires service")
	}
	if err := c.service.CancelConnection(ctx, msg.Session); err != nil {
		return err
	}
	c.telemetry.Record(ctx, "designer.connection.cancel", map[string]any{
		"session": msg.Session,
	})
	return nil
}

type connectService interface {
	Connect(ctx context.Context, session string, req designer.ConnectRequest) (workflow.Edge, error)
}

// ConnectCommand wraps Service.Connect.
type ConnectCommand struct {
	service   connectService
	telemetry Telemetry
}

// NewConnectCommand builds the command.
func NewConnectCommand(service connectService, telemetry Telemetry) *ConnectCommand {
	return &ConnectCommand{service: service, telemetry: normalizeTelemetry(telemetry)}
}

var _ gocommand.Commander[ConnectInput] = (*ConnectCommand)(nil)

// Execute creates the edge.
func (c *ConnectCommand) Execute(ctx context.Context, msg ConnectInput) error {
	if c.service == nil {
		return errors.New("connect command requires service")
	}
	if err := discard(c.service.Connect(ctx, msg.Session, msg.ConnectRequest)); err != nil {
		return err
	}
	c.telemetry.Record(ctx, "designer.connection.create", map[string]any{
		"session": msg.Session,
		"source":  msg.SourceID,
		"target":  msg.TargetID,
	})
	return nil
}

type edgeLabelService interface {
	UpdateEdgeLabel(ctx context.Context, session, id, label, condition string) error
}

// UpdateEdgeLabelCommand wraps Service.UpdateEdgeLabel.
type UpdateEdgeLabelCommand struct {
	service   edgeLabelService
	telemetry Telemetry
}

// NewUpdateEdgeLabelCommand builds the command.
func NewUpdateEdgeLabelCommand(service edgeLabelService, telemetry Telemetry) *UpdateEdgeLabelCommand {
	return &UpdateEdgeLabelCommand{service: service, telemetry: normalizeTelemetry(telemetry)}
}

var _ gocommand.Commander[EdgeLabelInput] = (*UpdateEdgeLabelCommand)(nil)

// Execute relabels the edge.
func (c *UpdateEdgeLabelCommand) Execute(ctx context.Context, msg EdgeLabelInput) error {
	if c.service == nil {
		return errors.New("edge label command requires service")
	}
	if err := c.service.UpdateEdgeLabel(ctx, msg.Session, msg.ID, msg.Label, msg.Condition); err != nil {
		return err
	}
	c.telemetry.Record(ctx, "designer.edge.label", map[string]any{
		"session": msg.Session,
		"id":      msg.ID,
	})
	return nil
}

type deleteEdgeService interface {
	DeleteEdge(ctx context.Context, session, id string) error
}

// DeleteEdgeCommand wraps Service.DeleteEdge.
type DeleteEdgeCommand struct {
	service   deleteEdgeService
	telemetry Telemetry
}

// NewDeleteEdgeCommand builds the command.
func NewDeleteEdgeCommand(service deleteEdgeService, telemetry Telemetry) *DeleteEdgeCommand {
	return &DeleteEdgeCommand{service: service, telemetry: normalizeTelemetry(telemetry)}
}

var _ gocommand.Commander[EdgeInput] = (*DeleteEdgeCommand)(nil)

// Execute removes the edge.
func (c *DeleteEdgeCommand) Execute(ctx context.Context, msg EdgeInput) error {
	if c.service == nil {
		return errors.New("delete edge command requires service")
	}
	if err := c.service.DeleteEdge(ctx, msg.Session, msg.ID); err != nil {
		return err
	}
	c.telemetry.Record(ctx, "designer.edge.delete", map[string]any{
		"session": msg.Session,
		"id":      msg.ID,
	})
	return nil
}

type selectItemService interface {
	SelectWorkflowItem(ctx context.Context, session string, kind workflow.SelectionKind, id string) error
}

// SelectItemCommand wraps Service.SelectWorkflowItem.
type SelectItemCommand struct {
	service   selectItemService
	telemetry Telemetry
}

// NewSelectItemCommand builds the command.
func NewSelectItemCommand(service selectItemService, telemetry Telemetry) *SelectItemCommand {
	return &SelectItemCommand{service: service, telemetry: normalizeTelemetry(telemetry)}
}

var _ gocommand.Commander[SelectItemInput] = (*SelectItemCommand)(nil)

// Execute updates the selection.
func (c *SelectItemCommand) Execute(ctx context.Context, msg SelectItemInput) error {
	if c.service == nil {
		return errors.New("select item command requires service")
	}
	if err := c.service.SelectWorkflowItem(ctx, msg.Session, msg.Kind, msg.ID); err != nil {
		return err
	}
	c.telemetry.Record(ctx, "designer.workflow.select", map[string]any{
		"session": msg.Session,
		"kind":    string(msg.Kind),
	})
	return nil
}

type importGraphService interface {
	ImportGraph(ctx context.Context, session string, data []byte) error
}

// ImportGraphCommand wraps Service.ImportGraph.
type ImportGraphCommand struct {
	service   importGraphService
	telemetry Telemetry
}

// NewImportGraphCommand builds the command.
func NewImportGraphCommand(service importGraphService, telemetry Telemetry) *ImportGraphCommand {
	return &ImportGraphCommand{service: service, telemetry: normalizeTelemetry(telemetry)}
}

var _ gocommand.Commander[ImportGraphInput] = (*ImportGraphCommand)(nil)

// Execute replaces the graph.
func (c *ImportGraphCommand) Execute(ctx context.Context, msg ImportGraphInput) error {
	if c.service == nil {
		return errors.New("import graph command requires service")
	}
	if err := c.service.ImportGraph(ctx, msg.Session, msg.Document); err != nil {
		return err
	}
	c.telemetry.Record(ctx, "designer.workflow.import", map[string]any{
		"session": msg.Session,
		"bytes":   len(msg.Document),
	})
	return nil
}

type openDefinitionService interface {
	OpenDefinition(ctx context.Context, session, definitionID string) error
}

// OpenDefinitionCommand wraps Service.OpenDefinition.
type OpenDefinitionCommand struct {
	service   openDefinitionService
	telemetry Telemetry
}

// NewOpenDefinitionCommand builds the command.
func NewOpenDefinitionCommand(service openDefinitionService, telemetry Telemetry) *OpenDefinitionCommand {
	return &OpenDefinitionCommand{service: service, telemetry: normalizeTelemetry(telemetry)}
}

var _ gocommand.Commander[DefinitionInput] = (*OpenDefinitionCommand)(nil)

// Execute loads the saved graph.
func (c *OpenDefinitionCommand) Execute(ctx context.Context, msg DefinitionInput) error {
	if c.service == nil {
		return errors.New("open definition command requires service")
	}
	if err := c.service.OpenDefinition(ctx, msg.Session, msg.DefinitionID); err != nil {
		return err
	}
	c.telemetry.Record(ctx, "designer.definition.open", map[string]any{
		"session":       msg.Session,
		"definition_id": msg.DefinitionID,
	})
	return nil
}

type saveDefinitionService interface {
	SaveDefinition(ctx context.Context, session, definitionID string) error
}

// SaveDefinitionCommand wraps Service.SaveDefinition.
type SaveDefinitionCommand struct {
	service   saveDefinitionService
	telemetry Telemetry
}

// NewSaveDefinitionCommand builds the command.
func NewSaveDefinitionCommand(service saveDefinitionService, telemetry Telemetry) *SaveDefinitionCommand {
	return &SaveDefinitionCommand{service: service, telemetry: normalizeTelemetry(telemetry)}
}

var _ gocommand.Commander[DefinitionInput] = (*SaveDefinitionCommand)(nil)

// Execute stores the session graph.
func (c *SaveDefinitionCommand) Execute(ctx context.Context, msg DefinitionInput) error {
	if c.service == nil {
		return errors.New("save definition command requires service")
	}
	if err := c.service.SaveDefinition(ctx, msg.Session, msg.DefinitionID); err != nil {
		return err
	}
	c.telemetry.Record(ctx, "designer.definition.save", map[string]any{
		"session":       msg.Session,
		"definition_id": msg.DefinitionID,
	})
	return nil
}

type createWorkflowService interface {
	CreateWorkflow(ctx context.Context, meta workflow.Meta) (workflow.Meta, error)
}

// CreateWorkflowCommand wraps Service.CreateWorkflow.
type CreateWorkflowCommand struct {
	service   createWorkflowService
	telemetry Telemetry
}

// NewCreateWorkflowCommand builds the command.
func NewCreateWorkflowCommand(service createWorkflowService, telemetry Telemetry) *CreateWorkflowCommand {
	return &CreateWorkflowCommand{service: service, telemetry: normalizeTelemetry(telemetry)}
}

var _ gocommand.Commander[WorkflowMetaInput] = (*CreateWorkflowCommand)(nil)

// Execute adds the definition.
func (c *CreateWorkflowCommand) Execute(ctx context.Context, msg WorkflowMetaInput) error {
	if c.service == nil {
		return errors.New("create workflow command requires service")
	}
	if err := discard(c.service.CreateWorkflow(ctx, msg.Meta)); err != nil {
		return err
	}
	c.telemetry.Record(ctx, "designer.definition.create", map[string]any{
		"name": msg.Name,
	})
	return nil
}

type updateWorkflowService interface {
	UpdateWorkflow(ctx context.Context, meta workflow.Meta) (workflow.Meta, error)
}

// UpdateWorkflowCommand wraps Service.UpdateWorkflow.
type UpdateWorkflowCommand struct {
	service   updateWorkflowService
	telemetry Telemetry
}

// NewUpdateWorkflowCommand builds the command.
func NewUpdateWorkflowCommand(service updateWorkflowService, telemetry Telemetry) *UpdateWorkflowCommand {
	return &UpdateWorkflowCommand{service: service, telemetry: normalizeTelemetry(telemetry)}
}

var _ gocommand.Commander[WorkflowMetaInput] = (*UpdateWorkflowCommand)(nil)

// Execute replaces the metadata.
func (c *UpdateWorkflowCommand) Execute(ctx context.Context, msg WorkflowMetaInput) error {
	if c.service == nil {
		return errors.New("update workflow command requires service")
	}
	if err := discard(c.service.UpdateWorkflow(ctx, msg.Meta)); err != nil {
		return err
	}
	c.telemetry.Record(ctx, "designer.definition.update", map[string]any{
		"id":     msg.ID,
		"status": string(msg.Status),
	})
	return nil
}

type deleteWorkflowService interface {
	DeleteWorkflow(ctx context.Context, id string) error
}

// DeleteWorkflowCommand wraps Service.DeleteWorkflow.
type DeleteWorkflowCommand struct {
	service   deleteWorkflowService
	telemetry Telemetry
}

// NewDeleteWorkflowCommand builds the command.
func NewDeleteWorkflowCommand(service deleteWorkflowService, telemetry Telemetry) *DeleteWorkflowCommand {
	return &DeleteWorkflowCommand{service: service, telemetry: normalizeTelemetry(telemetry)}
}

var _ gocommand.Commander[WorkflowIDInput] = (*DeleteWorkflowCommand)(nil)

// Execute removes the definition.
func (c *DeleteWorkflowCommand) Execute(ctx context.Context, msg WorkflowIDInput) error {
	if c.service == nil {
		return errors.New("delete workflow command requires service")
	}
	if err := c.service.DeleteWorkflow(ctx, msg.ID); err != nil {
		return err
	}
	c.telemetry.Record(ctx, "designer.definition.delete", map[string]any{
		"id": msg.ID,
	})
	return nil
}
