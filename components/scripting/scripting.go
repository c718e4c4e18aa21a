// Package scripting runs component event handlers in an isolated JavaScript
// runtime, or dispatches them to Go callbacks registered by name.
package scripting

import (
	"context"
	"errors"
	"io"
	"log/slog"
	"time"
)

const (
	// DefaultTimeout bounds a single handler invocation.
	DefaultTimeout = 250 * time.Millisecond
	// HandlerPrefix marks a script that names a registered handler ("@submitForm").
	HandlerPrefix = "@"
)

var (
	ErrTimeout         = errors.New("scripting: handler timed out")
	ErrScriptFailed    = errors.New("scripting: handler failed")
	ErrUnknownHandler  = errors.New("scripting: unknown handler")
	ErrInvalidHandler  = errors.New("scripting: handler name and func are required")
	ErrDuplicateHandle = errors.New("scripting: handler already registered")
)

// Invocation is the context a handler runs against.
type Invocation struct {
	Event     map[string]any `json:"event"`
	Component map[string]any `json:"component"`
}

// Notification is a toast emitted through api.message.*.
type Notification struct {
	Level   string `json:"level"`
	Message string `json:"message"`
}

// Dialog is a modal emitted through api.Modal.*.
type Dialog struct {
	Kind    string `json:"kind"`
	Title   string `json:"title,omitempty"`
	Content string `json:"content,omitempty"`
}

// Result collects what a handler produced.
type Result struct {
	Value         any            `json:"value,omitempty"`
	Notifications []Notification `json:"notifications,omitempty"`
	Dialogs       []Dialog       `json:"dialogs,omitempty"`
}

// Sandbox executes handler scripts.
type Sandbox interface {
	Run(ctx context.Context, script string, inv Invocation) (Result, error)
}

// Options configures a GojaSandbox.
type Options struct {
	Timeout      time.Duration
	MaxCallStack int
	Handlers     *Handlers
	Logger       *slog.Logger
}

func (o Options) normalize() Options {
	if o.Timeout <= 0 {
		o.Timeout = DefaultTimeout
	}
	if o.MaxCallStack <= 0 {
		o.MaxCallStack = 512
	}
	if o.Handlers == nil {
		o.Handlers = NewHandlers()
	}
	if o.Logger == nil {
		o.Logger = slog.New(slog.NewTextHandler(io.Discard, nil))
	}
	return o
}

type noopSandbox struct{}

func (noopSandbox) Run(context.Context, string, Invocation) (Result, error) { return Result{}, nil }

// Noop returns a sandbox that ignores every script.
func Noop() Sandbox { return noopSandbox{} }
