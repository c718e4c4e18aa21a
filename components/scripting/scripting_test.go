package scripting

import (
	"context"
	"errors"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestGojaSandboxBindsContext(t *testing.T) {
	sb := NewGojaSandbox(Options{})
	res, err := sb.Run(context.Background(), `
		api.message.success("saved " + component.id);
		api.Modal.confirm({title: "确认", content: event.value});
		return event.value + "!";
	`, Invocation{
		Event:     map[string]any{"value": "hello"},
		Component: map[string]any{"id": "cmp-1"},
	})
	require.NoError(t, err)
	assert.Equal(t, "hello!", res.Value)
	require.Len(t, res.Notifications, 1)
	assert.Equal(t, Notification{Level: "success", Message: "saved cmp-1"}, res.Notifications[0])
	require.Len(t, res.Dialogs, 1)
	assert.Equal(t, Dialog{Kind: "confirm", Title: "确认", Content: "hello"}, res.Dialogs[0])
}

func TestGojaSandboxIsolatesGlobals(t *testing.T) {
	sb := NewGojaSandbox(Options{})
	_, err := sb.Run(context.Background(), `globalThis.leaked = 1;`, Invocation{})
	require.NoError(t, err)
	res, err := sb.Run(context.Background(), `return typeof leaked;`, Invocation{})
	require.NoError(t, err)
	assert.Equal(t, "undefined", res.Value)
}

func TestGojaSandboxRemovesEval(t *testing.T) {
	sb := NewGojaSandbox(Options{})
	res, err := sb.Run(context.Background(), `return typeof eval;`, Invocation{})
	require.NoError(t, err)
	assert.Equal(t, "undefined", res.Value)
}

func TestGojaSandboxTimeout(t *testing.T) {
	sb := NewGojaSandbox(Options{Timeout: 20 * time.Millisecond})
	_, err := sb.Run(context.Background(), `for (;;) {}`, Invocation{})
	assert.ErrorIs(t, err, ErrTimeout)
}

func TestGojaSandboxContextCancel(t *testing.T) {
	sb := NewGojaSandbox(Options{Timeout: time.Minute})
	ctx, cancel := context.WithTimeout(context.Background(), 20*time.Millisecond)
	defer cancel()
	_, err := sb.Run(ctx, `while (true) {}`, Invocation{})
	assert.ErrorIs(t, err, context.DeadlineExceeded)
}

func TestGojaSandboxThrownError(t *testing.T) {
	sb := NewGojaSandbox(Options{})
	res, err := sb.Run(context.Background(), `api.message.info("before"); throw new Error("boom");`, Invocation{})
	assert.ErrorIs(t, err, ErrScriptFailed)
	assert.Contains(t, err.Error(), "boom")
	assert.Len(t, res.Notifications, 1)
}

func TestNamedHandlerDispatch(t *testing.T) {
	handlers := NewHandlers()
	require.NoError(t, handlers.Register("submitForm", func(_ context.Context, inv Invocation) (Result, error) {
		return Result{Value: inv.Component["id"]}, nil
	}))
	assert.ErrorIs(t, handlers.Register("submitForm", func(context.Context, Invocation) (Result, error) { return Result{}, nil }), ErrDuplicateHandle)
	assert.ErrorIs(t, handlers.Register("", nil), ErrInvalidHandler)

	sb := NewGojaSandbox(Options{Handlers: handlers})
	res, err := sb.Run(context.Background(), " @submitForm ", Invocation{Component: map[string]any{"id": "form-1"}})
	require.NoError(t, err)
	assert.Equal(t, "form-1", res.Value)

	_, err = sb.Run(context.Background(), "@missing", Invocation{})
	assert.True(t, errors.Is(err, ErrUnknownHandler))
	assert.Equal(t, []string{"submitForm"}, handlers.Names())
}

func TestHandlerName(t *testing.T) {
	name, ok := HandlerName("@save")
	assert.True(t, ok)
	assert.Equal(t, "save", name)
	_, ok = HandlerName("@save(); alert(1)")
	assert.False(t, ok)
	_, ok = HandlerName("console.log(1)")
	assert.False(t, ok)
}

func TestEmptyScriptIsNoop(t *testing.T) {
	res, err := NewGojaSandbox(Options{}).Run(context.Background(), "   ", Invocation{})
	require.NoError(t, err)
	assert.Equal(t, Result{}, res)
}
