package commands

import (
	"context"
	"errors"
	"fmt"

	gocommand "github.com/goliatone/go-command"

	"github.com/goliatone/go-designer/components/designer"
)

// OpenSessionInput opens (or re-opens) an editing session.
type OpenSessionInput struct {
	Session string          `json:"session"`
	Editor  designer.Editor `json:"editor"`
}

type openService interface {
	OpenCanvas(ctx context.Context, session string) (designer.CanvasState, error)
	OpenWorkflow(ctx context.Context, session string) (designer.WorkflowState, error)
}

// OpenSessionCommand creates the session for the requested editor.
type OpenSessionCommand struct {
	service   openService
	telemetry Telemetry
}

// NewOpenSessionCommand builds the command.
func NewOpenSessionCommand(service openService, telemetry Telemetry) *OpenSessionCommand {
	return &OpenSessionCommand{service: service, telemetry: normalizeTelemetry(telemetry)}
}

var _ gocommand.Commander[OpenSessionInput] = (*OpenSessionCommand)(nil)

// Execute opens the session. A blank session id is rejected here because
// callers need a known id to query the state afterwards.
func (c *OpenSessionCommand) Execute(ctx context.Context, msg OpenSessionInput) error {
	if c.service == nil {
		return errors.New("open session command requires service")
	}
	if msg.Session == "" {
		return errors.New("open session command requires session id")
	}
	var err error
	switch msg.Editor {
	case designer.EditorCanvas:
		_, err = c.service.OpenCanvas(ctx, msg.Session)
	case designer.EditorWorkflow:
		_, err = c.service.OpenWorkflow(ctx, msg.Session)
	default:
		return fmt.Errorf("open session command: unknown editor %q", msg.Editor)
	}
	if err != nil {
		return err
	}
	c.telemetry.Record(ctx, "designer.session.open", map[string]any{
		"session": msg.Session,
		"editor":  string(msg.Editor),
	})
	return nil
}

// SessionInput names a session.
type SessionInput struct {
	Session string `json:"session"`
}

type closeService interface {
	CloseSession(ctx context.Context, session string) error
}

// CloseSessionCommand discards a session.
type CloseSessionCommand struct {
	service   closeService
	telemetry Telemetry
}

// NewCloseSessionCommand builds the command.
func NewCloseSessionCommand(service closeService, telemetry Telemetry) *CloseSessionCommand {
	return &CloseSessionCommand{service: service, telemetry: normalizeTelemetry(telemetry)}
}

var _ gocommand.Commander[SessionInput] = (*CloseSessionCommand)(nil)

// Execute closes the session.
func (c *CloseSessionCommand) Execute(ctx context.Context, msg SessionInput) error {
	if c.service == nil {
		return errors.New("close session command requires service")
	}
	if err := c.service.CloseSession(ctx, msg.Session); err != nil {
		return err
	}
	c.telemetry.Record(ctx, "designer.session.close", map[string]any{"session": msg.Session})
	return nil
}
