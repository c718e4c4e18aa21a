package scripting

import (
	"context"
	"errors"
	"fmt"
	"strings"
	"time"

	"github.com/dop251/goja"
)

// GojaSandbox runs each invocation in a fresh goja runtime. Globals never
// leak between invocations and runaway scripts are interrupted.
type GojaSandbox struct {
	opts Options
}

// NewGojaSandbox builds a sandbox with defaults applied.
func NewGojaSandbox(opts Options) *GojaSandbox {
	return &GojaSandbox{opts: opts.normalize()}
}

// Handlers exposes the named handler registry.
func (s *GojaSandbox) Handlers() *Handlers { return s.opts.Handlers }

// Run executes script with event, component and api bound.
func (s *GojaSandbox) Run(ctx context.Context, script string, inv Invocation) (Result, error) {
	if ctx == nil {
		ctx = context.Background()
	}
	if err := ctx.Err(); err != nil {
		return Result{}, err
	}
	if name, ok := HandlerName(script); ok {
		fn, found := s.opts.Handlers.Lookup(name)
		if !found {
			return Result{}, fmt.Errorf("%w: %s", ErrUnknownHandler, name)
		}
		return fn(ctx, inv)
	}
	if strings.TrimSpace(script) == "" {
		return Result{}, nil
	}

	vm := goja.New()
	vm.SetFieldNameMapper(goja.TagFieldNameMapper("json", true))
	vm.SetMaxCallStackSize(s.opts.MaxCallStack)
	_ = vm.GlobalObject().Delete("eval")

	collector := &collector{}
	if err := vm.Set("event", orEmpty(inv.Event)); err != nil {
		return Result{}, err
	}
	if err := vm.Set("component", orEmpty(inv.Component)); err != nil {
		return Result{}, err
	}
	if err := vm.Set("api", collector.api()); err != nil {
		return Result{}, err
	}

	timer := time.AfterFunc(s.opts.Timeout, func() { vm.Interrupt(ErrTimeout) })
	defer timer.Stop()
	stop := context.AfterFunc(ctx, func() { vm.Interrupt(ctx.Err()) })
	defer stop()

	started := time.Now()
	value, err := vm.RunString(wrap(script))
	if err != nil {
		return collector.result(nil), s.translate(err, time.Since(started))
	}
	var exported any
	if value != nil && !goja.IsUndefined(value) && !goja.IsNull(value) {
		exported = value.Export()
	}
	return collector.result(exported), nil
}

func (s *GojaSandbox) translate(err error, elapsed time.Duration) error {
	var interrupted *goja.InterruptedError
	if errors.As(err, &interrupted) {
		if cause, ok := interrupted.Value().(error); ok {
			s.opts.Logger.Debug("script interrupted", "cause", cause, "elapsed", elapsed)
			return cause
		}
		return ErrTimeout
	}
	var exception *goja.Exception
	if errors.As(err, &exception) {
		return fmt.Errorf("%w: %s", ErrScriptFailed, exception.Error())
	}
	return fmt.Errorf("%w: %v", ErrScriptFailed, err)
}

func wrap(script string) string {
	return "(function(event, component, api) {\n" + script + "\n})(event, component, api)"
}

func orEmpty(m map[string]any) map[string]any {
	if m == nil {
		return map[string]any{}
	}
	return m
}

type collector struct {
	notifications []Notification
	dialogs       []Dialog
}

func (c *collector) api() map[string]any {
	message := map[string]any{}
	for _, level := range []string{"success", "error", "warning", "info", "loading"} {
		message[level] = c.notify(level)
	}
	modal := map[string]any{}
	for _, kind := range []string{"info", "success", "error", "warning", "confirm"} {
		modal[kind] = c.dialog(kind)
	}
	return map[string]any{
		"message": message,
		"Modal":   modal,
	}
}

func (c *collector) notify(level string) func(goja.FunctionCall) goja.Value {
	return func(call goja.FunctionCall) goja.Value {
		c.notifications = append(c.notifications, Notification{
			Level:   level,
			Message: call.Argument(0).String(),
		})
		return goja.Undefined()
	}
}

func (c *collector) dialog(kind string) func(goja.FunctionCall) goja.Value {
	return func(call goja.FunctionCall) goja.Value {
		d := Dialog{Kind: kind}
		if cfg, ok := call.Argument(0).Export().(map[string]any); ok {
			d.Title = stringField(cfg, "title")
			d.Content = stringField(cfg, "content")
		} else if arg := call.Argument(0); !goja.IsUndefined(arg) {
			d.Content = arg.String()
		}
		c.dialogs = append(c.dialogs, d)
		return goja.Undefined()
	}
}

func (c *collector) result(value any) Result {
	return Result{
		Value:         value,
		Notifications: c.notifications,
		Dialogs:       c.dialogs,
	}
}

func stringField(m map[string]any, key string) string {
	if v, ok := m[key]; ok && v != nil {
		return fmt.Sprint(v)
	}
	return ""
}
