package httpapi

import (
	"context"
	"errors"

	gocommand "github.com/goliatone/go-command"

	"github.com/goliatone/go-designer/components/canvas"
	"github.com/goliatone/go-designer/components/designer"
	"github.com/goliatone/go-designer/components/designer/commands"
	"github.com/goliatone/go-designer/components/designer/queries"
	"github.com/goliatone/go-designer/components/workflow"
)

// ErrNotWired is returned when an endpoint's command or query is nil.
var ErrNotWired = errors.New("httpapi: operation not configured")

// CommandExecutor groups the commands and queries behind the designer API.
// Nil entries answer with ErrNotWired.
type CommandExecutor struct {
	OpenSession  gocommand.Commander[commands.OpenSessionInput]
	CloseSession gocommand.Commander[commands.SessionInput]

	InsertComponent  gocommand.Commander[commands.InsertComponentInput]
	ReorderComponent gocommand.Commander[commands.ReorderComponentInput]
	MoveComponent    gocommand.Commander[commands.MoveComponentInput]
	DeleteComponent  gocommand.Commander[commands.ComponentInput]
	UpdateProperty   gocommand.Commander[commands.UpdateComponentPropertyInput]
	UpdateEvent      gocommand.Commander[commands.UpdateComponentEventInput]
	SelectComponent  gocommand.Commander[commands.ComponentInput]
	BeginDrag        gocommand.Commander[commands.ComponentInput]
	Drop             gocommand.Commander[commands.DropComponentInput]
	CancelDrag       gocommand.Commander[commands.SessionInput]
	SetPreview       gocommand.Commander[commands.SetPreviewInput]
	ImportComponents gocommand.Commander[commands.ImportComponentsInput]
	SaveConfig       gocommand.Commander[commands.ConfigInput]
	LoadConfig       gocommand.Commander[commands.ConfigInput]
	DeleteConfig     gocommand.Commander[commands.ConfigInput]

	AddNode              gocommand.Commander[commands.AddNodeInput]
	MoveNode             gocommand.Commander[commands.NodePositionInput]
	BeginNodeDrag        gocommand.Commander[commands.NodePositionInput]
	DragNode             gocommand.Commander[commands.PointerInput]
	EndNodeDrag          gocommand.Commander[commands.SessionInput]
	DeleteNode           gocommand.Commander[commands.NodeInput]
	UpdateNodeProperties gocommand.Commander[commands.NodePropertiesInput]
	BeginConnection      gocommand.Commander[commands.AnchorInput]
	CompleteConnection   gocommand.Commander[commands.AnchorInput]
	CancelConnection     gocommand.Commander[commands.SessionInput]
	Connect              gocommand.Commander[commands.ConnectInput]
	UpdateEdgeLabel      gocommand.Commander[commands.EdgeLabelInput]
	DeleteEdge           gocommand.Commander[commands.EdgeInput]
	SelectItem           gocommand.Commander[commands.SelectItemInput]
	ImportGraph          gocommand.Commander[commands.ImportGraphInput]
	OpenDefinition       gocommand.Commander[commands.DefinitionInput]
	SaveDefinition       gocommand.Commander[commands.DefinitionInput]
	CreateWorkflow       gocommand.Commander[commands.WorkflowMetaInput]
	UpdateWorkflow       gocommand.Commander[commands.WorkflowMetaInput]
	DeleteWorkflow       gocommand.Commander[commands.WorkflowIDInput]

	CanvasState      gocommand.Querier[queries.SessionInput, designer.CanvasState]
	Palette          gocommand.Querier[queries.PaletteInput, []designer.PaletteEntry]
	ListConfigs      gocommand.Querier[queries.ListConfigsInput, []canvas.SavedConfig]
	DispatchEvent    gocommand.Querier[queries.DispatchEventInput, queries.DispatchEventResult]
	ChartPreview     gocommand.Querier[queries.ComponentInput, designer.ChartPreview]
	PreviewPage      gocommand.Querier[queries.PreviewPageInput, string]
	ExportComponents gocommand.Querier[queries.SessionInput, []byte]
	WorkflowState    gocommand.Querier[queries.SessionInput, designer.WorkflowState]
	NodeTypes        gocommand.Querier[queries.NodeTypesInput, []workflow.NodeTypeDefinition]
	HitTest          gocommand.Querier[queries.HitTestInput, designer.HitResult]
	EdgeGeometry     gocommand.Querier[queries.EdgeInput, designer.EdgeGeometry]
	ExportGraph      gocommand.Querier[queries.SessionInput, []byte]
	ExportPNG        gocommand.Querier[queries.ExportPNGInput, []byte]
	ListWorkflows    gocommand.Querier[queries.ListWorkflowsInput, []workflow.Meta]
}

// NewCommandExecutor wires every command and query to service.
func NewCommandExecutor(service *designer.Service, telemetry commands.Telemetry) *CommandExecutor {
	return &CommandExecutor{
		OpenSession:  commands.NewOpenSessionCommand(service, telemetry),
		CloseSession: commands.NewCloseSessionCommand(service, telemetry),

		InsertComponent:  commands.NewInsertComponentCommand(service, telemetry),
		ReorderComponent: commands.NewReorderComponentCommand(service, telemetry),
		MoveComponent:    commands.NewMoveComponentCommand(service, telemetry),
		DeleteComponent:  commands.NewDeleteComponentCommand(service, telemetry),
		UpdateProperty:   commands.NewUpdateComponentPropertyCommand(service, telemetry),
		UpdateEvent:      commands.NewUpdateComponentEventCommand(service, telemetry),
		SelectComponent:  commands.NewSelectComponentCommand(service, telemetry),
		BeginDrag:        commands.NewBeginComponentDragCommand(service, telemetry),
		Drop:             commands.NewDropComponentCommand(service, telemetry),
		CancelDrag:       commands.NewCancelComponentDragCommand(service, telemetry),
		SetPreview:       commands.NewSetPreviewCommand(service, telemetry),
		ImportComponents: commands.NewImportComponentsCommand(service, telemetry),
		SaveConfig:       commands.NewSaveConfigCommand(service, telemetry),
		LoadConfig:       commands.NewLoadConfigCommand(service, telemetry),
		DeleteConfig:     commands.NewDeleteConfigCommand(service, telemetry),

		AddNode:              commands.NewAddNodeCommand(service, telemetry),
		MoveNode:             commands.NewMoveNodeCommand(service, telemetry),
		BeginNodeDrag:        commands.NewBeginNodeDragCommand(service, telemetry),
		DragNode:             commands.NewDragNodeCommand(service, telemetry),
		EndNodeDrag:          commands.NewEndNodeDragCommand(service, telemetry),
		DeleteNode:           commands.NewDeleteNodeCommand(service, telemetry),
		UpdateNodeProperties: commands.NewUpdateNodePropertiesCommand(service, telemetry),
		BeginConnection:      commands.NewBeginConnectionCommand(service, telemetry),
		CompleteConnection:   commands.NewCompleteConnectionCommand(service, telemetry),
		CancelConnection:     commands.NewCancelConnectionCommand(service, telemetry),
		Connect:              commands.NewConnectCommand(service, telemetry),
		UpdateEdgeLabel:      commands.NewUpdateEdgeLabelCommand(service, telemetry),
		DeleteEdge:           commands.NewDeleteEdgeCommand(service, telemetry),
		SelectItem:           commands.NewSelectItemCommand(service, telemetry),
		ImportGraph:          commands.NewImportGraphCommand(service, telemetry),
		OpenDefinition:       commands.NewOpenDefinitionCommand(service, telemetry),
		SaveDefinition:       commands.NewSaveDefinitionCommand(service, telemetry),
		CreateWorkflow:       commands.NewCreateWorkflowCommand(service, telemetry),
		UpdateWorkflow:       commands.NewUpdateWorkflowCommand(service, telemetry),
		DeleteWorkflow:       commands.NewDeleteWorkflowCommand(service, telemetry),

		CanvasState:      queries.NewCanvasStateQuery(service),
		Palette:          queries.NewPaletteQuery(service),
		ListConfigs:      queries.NewListConfigsQuery(service),
		DispatchEvent:    queries.NewDispatchEventQuery(service),
		ChartPreview:     queries.NewChartPreviewQuery(service),
		PreviewPage:      queries.NewPreviewPageQuery(service),
		ExportComponents: queries.NewExportComponentsQuery(service),
		WorkflowState:    queries.NewWorkflowStateQuery(service),
		NodeTypes:        queries.NewNodeTypesQuery(service),
		HitTest:          queries.NewHitTestQuery(service),
		EdgeGeometry:     queries.NewEdgeGeometryQuery(service),
		ExportGraph:      queries.NewExportGraphQuery(service),
		ExportPNG:        queries.NewExportPNGQuery(service),
		ListWorkflows:    queries.NewListWorkflowsQuery(service),
	}
}

// Run executes cmd, reporting ErrNotWired when it is nil.
func Run[T any](ctx context.Context, cmd gocommand.Commander[T], msg T) error {
	if cmd == nil {
		return ErrNotWired
	}
	return cmd.Execute(ctx, msg)
}

// Ask resolves q, reporting ErrNotWired when it is nil.
func Ask[In any, Out any](ctx context.Context, q gocommand.Querier[In, Out], msg In) (Out, error) {
	if q == nil {
		var zero Out
		return zero, ErrNotWired
	}
	return q.Query(ctx, msg)
}
