package commands

import (
	"context"
	"encoding/json"
	"errors"

	gocommand "github.com/goliatone/go-command"

	"github.com/goliatone/go-designer/components/canvas"
	"github.com/goliatone/go-designer/components/designer"
)

// InsertComponentInput adds a component to a canvas. A nil Index appends.
type InsertComponentInput struct {
	Session string `json:"session"`
	Type    string `json:"type"`
	Index   *int   `json:"index,omitempty"`
}

// ReorderComponentInput moves a component into the slot displayed at Target.
type ReorderComponentInput struct {
	Session string `json:"session"`
	ID      string `json:"id"`
	Target  int    `json:"target"`
}

// MoveComponentInput places a component at its final Index.
type MoveComponentInput struct {
	Session string `json:"session"`
	ID      string `json:"id"`
	Index   int    `json:"index"`
}

// ComponentInput names one component of a canvas.
type ComponentInput struct {
	Session string `json:"session"`
	ID      string `json:"id"`
}

// UpdateComponentPropertyInput sets one prop, or the size when Name is "size".
type UpdateComponentPropertyInput struct {
	Session string `json:"session"`
	ID      string `json:"id"`
	Name    string `json:"name"`
	Value   any    `json:"value"`
}

// UpdateComponentEventInput stores an event handler script. An empty Script removes it.
type UpdateComponentEventInput struct {
	Session string `json:"session"`
	ID      string `json:"id"`
	Event   string `json:"event"`
	Script  string `json:"script"`
}

// DropComponentInput ends a component drag.
type DropComponentInput struct {
	Session string `json:"session"`
	designer.DropRequest
}

// SetPreviewInput toggles preview mode.
type SetPreviewInput struct {
	Session string `json:"session"`
	Enabled bool   `json:"enabled"`
}

// ImportComponentsInput replaces a canvas with a JSON document.
type ImportComponentsInput struct {
	Session  string          `json:"session"`
	Document json.RawMessage `json:"document"`
}

// ConfigInput names a saved configuration, optionally for a session.
type ConfigInput struct {
	Session string `json:"session,omitempty"`
	Name    string `json:"name"`
}

type insertService interface {
	InsertComponent(ctx context.Context, session, typ string, index *int) (canvas.ComponentInstance, error)
}

// InsertComponentCommand wraps Service.InsertComponent.
type InsertComponentCommand struct {
	service   insertService
	telemetry Telemetry
}

// NewInsertComponentCommand builds the command.
func NewInsertComponentCommand(service insertService, telemetry Telemetry) *InsertComponentCommand {
	return &InsertComponentCommand{service: service, telemetry: normalizeTelemetry(telemetry)}
}

var _ gocommand.Commander[InsertComponentInput] = (*InsertComponentCommand)(nil)

// Execute adds the component.
func (c *InsertComponentCommand) Execute(ctx context.Context, msg InsertComponentInput) error {
	if c.service == nil {
		return errors.New("insert component command requires service")
	}
	if err := discard(c.service.InsertComponent(ctx, msg.Session, msg.Type, msg.Index)); err != nil {
		return err
	}
	c.telemetry.Record(ctx, "designer.component.insert", map[string]any{
		"session": msg.Session,
		"type":    msg.Type,
	})
	return nil
}

type reorderService interface {
	ReorderComponent(ctx context.Context, session, id string, target int) error
}

// ReorderComponentCommand wraps Service.ReorderComponent.
type ReorderComponentCommand struct {
	service   reorderService
	telemetry Telemetry
}

// NewReorderComponentCommand builds the command.
func NewReorderComponentCommand(service reorderService, telemetry Telemetry) *ReorderComponentCommand {
	return &ReorderComponentCommand{service: service, telemetry: normalizeTelemetry(telemetry)}
}

var _ gocommand.Commander[ReorderComponentInput] = (*ReorderComponentCommand)(nil)

// Execute applies the new ordering.
func (c *ReorderComponentCommand) Execute(ctx context.Context, msg ReorderComponentInput) error {
	if c.service == nil {
		return errors.New("reorder component command requires service")
	}
	if err := c.service.ReorderComponent(ctx, msg.Session, msg.ID, msg.Target); err != nil {
		return err
	}
	c.telemetry.Record(ctx, "designer.component.reorder", map[string]any{
		"session": msg.Session,
		"id":      msg.ID,
		"target":  msg.Target,
	})
	return nil
}

type moveService interface {
	MoveComponent(ctx context.Context, session, id string, index int) error
}

// MoveComponentCommand wraps Service.MoveComponent.
type MoveComponentCommand struct {
	service   moveService
	telemetry Telemetry
}

// NewMoveComponentCommand builds the command.
func NewMoveComponentCommand(service moveService, telemetry Telemetry) *MoveComponentCommand {
	return &MoveComponentCommand{service: service, telemetry: normalizeTelemetry(telemetry)}
}

var _ gocommand.Commander[MoveComponentInput] = (*MoveComponentCommand)(nil)

// Execute moves the component.
func (c *MoveComponentCommand) Execute(ctx context.Context, msg MoveComponentInput) error {
	if c.service == nil {
		return errors.New("move component command requires service")
	}
	if err := c.service.MoveComponent(ctx, msg.Session, msg.ID, msg.Index); err != nil {
		return err
	}
	c.telemetry.Record(ctx, "designer.component.move", map[string]any{
		"session": msg.Session,
		"id":      msg.ID,
		"index":   msg.Index,
	})
	return nil
}

type deleteComponentService interface {
	DeleteComponent(ctx context.Context, session, id string) error
}

// DeleteComponentCommand wraps Service.DeleteComponent.
type DeleteComponentCommand struct {
	service   deleteComponentService
	telemetry Telemetry
}

// NewDeleteComponentCommand builds the command.
func NewDeleteComponentCommand(service deleteComponentService, telemetry Telemetry) *DeleteComponentCommand {
	return &DeleteComponentCommand{service: service, telemetry: normalizeTelemetry(telemetry)}
}

var _ gocommand.Commander[ComponentInput] = (*DeleteComponentCommand)(nil)

// Execute removes the component.
func (c *DeleteComponentCommand) Execute(ctx context.Context, msg ComponentInput) error {
	if c.service == nil {
		return errors.New("delete component command requires service")
	}
	if err := c.service.DeleteComponent(ctx, msg.Session, msg.ID); err != nil {
		return err
	}
	c.telemetry.Record(ctx, "designer.component.delete", map[string]any{
		"session": msg.Session,
		"id":      msg.ID,
	})
	return nil
}

type propertyService interface {
	UpdateComponentProperty(ctx context.Context, session, id, name string, value any) error
}

// UpdateComponentPropertyCommand wraps Service.UpdateComponentProperty.
type UpdateComponentPropertyCommand struct {
	service   propertyService
	telemetry Telemetry
}

// NewUpdateComponentPropertyCommand builds the command.
func NewUpdateComponentPropertyCommand(service propertyService, telemetry Telemetry) *UpdateComponentPropertyCommand {
	return &UpdateComponentPropertyCommand{service: service, telemetry: normalizeTelemetry(telemetry)}
}

var _ gocommand.Commander[UpdateComponentPropertyInput] = (*UpdateComponentPropertyCommand)(nil)

// Execute writes the property.
func (c *UpdateComponentPropertyCommand) Execute(ctx context.Context, msg UpdateComponentPropertyInput) error {
	if c.service == nil {
		return errors.New("update property command requires service")
	}
	if err := c.service.UpdateComponentProperty(ctx, msg.Session, msg.ID, msg.Name, msg.Value); err != nil {
		return err
	}
	c.telemetry.Record(ctx, "designer.component.property", map[string]any{
		"session":  msg.Session,
		"id":       msg.ID,
		"property": msg.Name,
	})
	return nil
}

type eventService interface {
	UpdateComponentEvent(ctx context.Context, session, id, event, script string) error
}

// UpdateComponentEventCommand wraps Service.UpdateComponentEvent.
type UpdateComponentEventCommand struct {
	service   eventService
	telemetry Telemetry
}

// NewUpdateComponentEventCommand builds the command.
func NewUpdateComponentEventCommand(service eventService, telemetry Telemetry) *UpdateComponentEventCommand {
	return &UpdateComponentEventCommand{service: service, telemetry: normalizeTelemetry(telemetry)}
}

var _ gocommand.Commander[UpdateComponentEventInput] = (*UpdateComponentEventCommand)(nil)

// Execute stores the handler.
func (c *UpdateComponentEventCommand) Execute(ctx context.Context, msg UpdateComponentEventInput) error {
	if c.service == nil {
		return errors.New("update event command requires service")
	}
	if err := c.service.UpdateComponentEvent(ctx, msg.Session, msg.ID, msg.Event, msg.Script); err != nil {
		return err
	}
	c.telemetry.Record(ctx, "designer.component.event", map[string]any{
		"session": msg.Session,
		"id":      msg.ID,
		"event":   msg.Event,
	})
	return nil
}

type selectComponentService interface {
	SelectComponent(ctx context.Context, session, id string) error
}

// SelectComponentCommand wraps Service.SelectComponent.
type SelectComponentCommand struct {
	service   selectComponentService
	telemetry Telemetry
}

// NewSelectComponentCommand builds the command.
func NewSelectComponentCommand(service selectComponentService, telemetry Telemetry) *SelectComponentCommand {
	return &SelectComponentCommand{service: service, telemetry: normalizeTelemetry(telemetry)}
}

var _ gocommand.Commander[ComponentInput] = (*SelectComponentCommand)(nil)

// Execute updates the selection.
func (c *SelectComponentCommand) Execute(ctx context.Context, msg ComponentInput) error {
	if c.service == nil {
		return errors.New("select component command requires service")
	}
	if err := c.service.SelectComponent(ctx, msg.Session, msg.ID); err != nil {
		return err
	}
	c.telemetry.Record(ctx, "designer.component.select", map[string]any{
		"session": msg.Session,
		"id":      msg.ID,
	})
	return nil
}

type beginDragService interface {
	BeginComponentDrag(ctx context.Context, session, id string) error
}

// BeginComponentDragCommand wraps Service.BeginComponentDrag.
type BeginComponentDragCommand struct {
	service   beginDragService
	telemetry Telemetry
}

// NewBeginComponentDragCommand builds the command.
func NewBeginComponentDragCommand(service beginDragService, telemetry Telemetry) *BeginComponentDragCommand {
	return &BeginComponentDragCommand{service: service, telemetry: normalizeTelemetry(telemetry)}
}

var _ gocommand.Commander[ComponentInput] = (*BeginComponentDragCommand)(nil)

// Execute marks the drag source.
func (c *BeginComponentDragCommand) Execute(ctx context.Context, msg ComponentInput) error {
	if c.service == nil {
		return errors.New("begin drag command requires service")
	}
	if err := c.service.BeginComponentDrag(ctx, msg.Session, msg.ID); err != nil {
		return err
	}
	c.telemetry.Record(ctx, "designer.component.drag", map[string]any{
		"session": msg.Session,
		"id":      msg.ID,
	})
	return nil
}

type dropService interface {
	DropComponent(ctx context.Context, session string, req designer.DropRequest) error
}

// DropComponentCommand wraps Service.DropComponent.
type DropComponentCommand struct {
	service   dropService
	telemetry Telemetry
}

// NewDropComponentCommand builds the command.
func NewDropComponentCommand(service dropService, telemetry Telemetry) *DropComponentCommand {
	return &DropComponentCommand{service: service, telemetry: normalizeTelemetry(telemetry)}
}

var _ gocommand.Commander[DropComponentInput] = (*DropComponentCommand)(nil)

// Execute commits the drag at the pointer.
func (c *DropComponentCommand) Execute(ctx context.Context, msg DropComponentInput) error {
	if c.service == nil {
		return errors.New("drop component command requires service")
	}
	if err := c.service.DropComponent(ctx, msg.Session, msg.DropRequest); err != nil {
		return err
	}
	c.telemetry.Record(ctx, "designer.component.drop", map[string]any{
		"session":   msg.Session,
		"pointer_y": msg.PointerY,
	})
	return nil
}

type cancelDragService interface {
	CancelComponentDrag(ctx context.Context, session string) error
}

// CancelComponentDragCommand wraps Service.CancelComponentDrag.
type CancelComponentDragCommand struct {
	service   cancelDragService
	telemetry Telemetry
}

// NewCancelComponentDragCommand builds the command.
func NewCancelComponentDragCommand(service cancelDragService, telemetry Telemetry) *CancelComponentDragCommand {
	return &CancelComponentDragCommand{service: service, telemetry: normalizeTelemetry(telemetry)}
}

var _ gocommand.Commander[SessionInput] = (*CancelComponentDragCommand)(nil)

// Execute abandons the drag.
func (c *CancelComponentDragCommand) Execute(ctx context.Context, msg SessionInput) error {
	if c.service == nil {
		return errors.New("cancel drag command requires service")
	}
	if err := c.service.CancelComponentDrag(ctx, msg.Session); err != nil {
		return err
	}
	c.telemetry.Record(ctx, "designer.component.drag.cancel", map[string]any{
		"session": msg.Session,
	})
	return nil
}

type previewService interface {
	SetPreview(ctx context.Context, session string, on bool) error
}

// SetPreviewCommand wraps Service.SetPreview.
type SetPreviewCommand struct {
	service   previewService
	telemetry Telemetry
}

// NewSetPreviewCommand builds the command.
func NewSetPreviewCommand(service previewService, telemetry Telemetry) *SetPreviewCommand {
	return &SetPreviewCommand{service: service, telemetry: normalizeTelemetry(telemetry)}
}

var _ gocommand.Commander[SetPreviewInput] = (*SetPreviewCommand)(nil)

// Execute switches preview mode.
func (c *SetPreviewCommand) Execute(ctx context.Context, msg SetPreviewInput) error {
	if c.service == nil {
		return errors.New("preview command requires service")
	}
	if err := c.service.SetPreview(ctx, msg.Session, msg.Enabled); err != nil {
		return err
	}
	c.telemetry.Record(ctx, "designer.canvas.preview", map[string]any{
		"session": msg.Session,
		"enabled": msg.Enabled,
	})
	return nil
}

type importComponentsService interface {
	ImportComponents(ctx context.Context, session string, data []byte) error
}

// ImportComponentsCommand wraps Service.ImportComponents.
type ImportComponentsCommand struct {
	service   importComponentsService
	telemetry Telemetry
}

// NewImportComponentsCommand builds the command.
func NewImportComponentsCommand(service importComponentsService, telemetry Telemetry) *ImportComponentsCommand {
	return &ImportComponentsCommand{service: service, telemetry: normalizeTelemetry(telemetry)}
}

var _ gocommand.Commander[ImportComponentsInput] = (*ImportComponentsCommand)(nil)

// Execute replaces the canvas.
func (c *ImportComponentsCommand) Execute(ctx context.Context, msg ImportComponentsInput) error {
	if c.service == nil {
		return errors.New("import components command requires service")
	}
	if err := c.service.ImportComponents(ctx, msg.Session, msg.Document); err != nil {
		return err
	}
	c.telemetry.Record(ctx, "designer.canvas.import", map[string]any{
		"session": msg.Session,
		"bytes":   len(msg.Document),
	})
	return nil
}

type saveConfigService interface {
	SaveConfig(ctx context.Context, session, name string) (canvas.SavedConfig, error)
}

// SaveConfigCommand wraps Service.SaveConfig.
type SaveConfigCommand struct {
	service   saveConfigService
	telemetry Telemetry
}

// NewSaveConfigCommand builds the command.
func NewSaveConfigCommand(service saveConfigService, telemetry Telemetry) *SaveConfigCommand {
	return &SaveConfigCommand{service: service, telemetry: normalizeTelemetry(telemetry)}
}

var _ gocommand.Commander[ConfigInput] = (*SaveConfigCommand)(nil)

// Execute stores the canvas under the name.
func (c *SaveConfigCommand) Execute(ctx context.Context, msg ConfigInput) error {
	if c.service == nil {
		return errors.New("save config command requires service")
	}
	if err := discard(c.service.SaveConfig(ctx, msg.Session, msg.Name)); err != nil {
		return err
	}
	c.telemetry.Record(ctx, "designer.config.save", map[string]any{
		"session": msg.Session,
		"name":    msg.Name,
	})
	return nil
}

type loadConfigService interface {
	LoadConfig(ctx context.Context, session, name string) error
}

// LoadConfigCommand wraps Service.LoadConfig.
type LoadConfigCommand struct {
	service   loadConfigService
	telemetry Telemetry
}

// NewLoadConfigCommand builds the command.
func NewLoadConfigCommand(service loadConfigService, telemetry Telemetry) *LoadConfigCommand {
	return &LoadConfigCommand{service: service, telemetry: normalizeTelemetry(telemetry)}
}

var _ gocommand.Commander[ConfigInput] = (*LoadConfigCommand)(nil)

// Execute loads the named configuration.
func (c *LoadConfigCommand) Execute(ctx context.Context, msg ConfigInput) error {
	if c.service == nil {
		return errors.New("load config command requires service")
	}
	if err := c.service.LoadConfig(ctx, msg.Session, msg.Name); err != nil {
		return err
	}
	c.telemetry.Record(ctx, "designer.config.load", map[string]any{
		"session": msg.Session,
		"name":    msg.Name,
	})
	return nil
}

type deleteConfigService interface {
	DeleteConfig(ctx context.Context, name string) error
}

// DeleteConfigCommand wraps Service.DeleteConfig.
type DeleteConfigCommand struct {
	service   deleteConfigService
	telemetry Telemetry
}

// NewDeleteConfigCommand builds the command.
func NewDeleteConfigCommand(service deleteConfigService, telemetry Telemetry) *DeleteConfigCommand {
	return &DeleteConfigCommand{service: service, telemetry: normalizeTelemetry(telemetry)}
}

var _ gocommand.Commander[ConfigInput] = (*DeleteConfigCommand)(nil)

// Execute removes the configuration.
func (c *DeleteConfigCommand) Execute(ctx context.Context, msg ConfigInput) error {
	if c.service == nil {
		return errors.New("delete config command requires service")
	}
	if err := c.service.DeleteConfig(ctx, msg.Name); err != nil {
		return err
	}
	c.telemetry.Record(ctx, "designer.config.delete", map[string]any{
		"name": msg.Name,
	})
	return nil
}

func discard[T any](_ T, err error) error {
	return err
}
