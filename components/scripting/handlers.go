package scripting

import (
	"context"
	"fmt"
	"sort"
	"strings"
	"sync"
)

// HandlerFunc is a Go callback invoked in place of script text.
type HandlerFunc func(ctx context.Context, inv Invocation) (Result, error)

// Handlers is a registry of named callbacks.
type Handlers struct {
	mu  sync.RWMutex
	fns map[string]HandlerFunc
}

// NewHandlers builds an empty registry.
func NewHandlers() *Handlers {
	return &Handlers{fns: map[string]HandlerFunc{}}
}

// Register stores fn under name. Names are case-sensitive.
func (h *Handlers) Register(name string, fn HandlerFunc) error {
	name = strings.TrimSpace(name)
	if name == "" || fn == nil {
		return ErrInvalidHandler
	}
	h.mu.Lock()
	defer h.mu.Unlock()
	if _, exists := h.fns[name]; exists {
		return fmt.Errorf("%w: %s", ErrDuplicateHandle, name)
	}
	h.fns[name] = fn
	return nil
}

// Lookup returns the handler registered under name.
func (h *Handlers) Lookup(name string) (HandlerFunc, bool) {
	h.mu.RLock()
	defer h.mu.RUnlock()
	fn, ok := h.fns[name]
	return fn, ok
}

// Names lists registered handler names in sorted order.
func (h *Handlers) Names() []string {
	h.mu.RLock()
	defer h.mu.RUnlock()
	names := make([]string, 0, len(h.fns))
	for name := range h.fns {
		names = append(names, name)
	}
	sort.Strings(names)
	return names
}

// HandlerName returns the registered handler name a script refers to, if any.
func HandlerName(script string) (string, bool) {
	script = strings.TrimSpace(script)
	if !strings.HasPrefix(script, HandlerPrefix) {
		return "", false
	}
	name := strings.TrimSpace(strings.TrimPrefix(script, HandlerPrefix))
	if name == "" || strings.ContainsAny(name, " \n\t;(){}") {
		return "", false
	}
	return name, true
}
