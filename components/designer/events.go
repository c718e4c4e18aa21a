package designer

import (
	"context"
	"time"
)

// Editor names the editor a session belongs to.
type Editor string

const (
	EditorCanvas   Editor = "canvas"
	EditorWorkflow Editor = "workflow"
)

// DesignEvent describes a committed change in an editing session.
type DesignEvent struct {
	Session    string    `json:"session"`
	Editor     Editor    `json:"editor"`
	Reason     string    `json:"reason"`
	ObjectID   string    `json:"objectId,omitempty"`
	OccurredAt time.Time `json:"occurredAt"`
}

// RefreshHook is notified after every committed change so transports can
// push updates to connected editors.
type RefreshHook interface {
	DesignUpdated(ctx context.Context, event DesignEvent) error
}

// RefreshHookFunc adapts a function into a RefreshHook.
type RefreshHookFunc func(ctx context.Context, event DesignEvent) error

// DesignUpdated calls fn.
func (fn RefreshHookFunc) DesignUpdated(ctx context.Context, event DesignEvent) error {
	return fn(ctx, event)
}

type noopRefreshHook struct{}

func (noopRefreshHook) DesignUpdated(context.Context, DesignEvent) error { return nil }

// NotificationsClient is the minimal surface needed from a notifications service.
type NotificationsClient interface {
	PublishDesignEvent(ctx context.Context, event DesignEvent) error
}

// NotificationsHook forwards design events to an external notifications client.
type NotificationsHook struct {
	Client NotificationsClient
}

// DesignUpdated publishes the event when a client is configured.
func (h *NotificationsHook) DesignUpdated(ctx context.Context, event DesignEvent) error {
	if h == nil || h.Client == nil {
		return nil
	}
	return h.Client.PublishDesignEvent(ctx, event)
}

// MultiHook notifies every hook in order and stops at the first error.
type MultiHook []RefreshHook

// DesignUpdated fans the event out.
func (m MultiHook) DesignUpdated(ctx context.Context, event DesignEvent) error {
	for _, hook := range m {
		if hook == nil {
			continue
		}
		if err := hook.DesignUpdated(ctx, event); err != nil {
			return err
		}
	}
	return nil
}
