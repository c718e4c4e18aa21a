package designer

import (
	"context"
	"errors"
	"io"
	"log/slog"
	"sort"
	"sync"
	"time"

	"github.com/goliatone/go-designer/components/canvas"
	"github.com/goliatone/go-designer/components/ids"
	"github.com/goliatone/go-designer/components/scripting"
	"github.com/goliatone/go-designer/components/workflow"
	"github.com/goliatone/go-designer/pkg/activity"
)

var (
	// ErrSessionNotFound is returned when an operation names a session that was never opened.
	ErrSessionNotFound = errors.New("designer: session not found")
	// ErrGestureRefused is returned when a gesture cannot start.
	ErrGestureRefused = errors.New("designer: gesture refused")
	// ErrUnknownTarget is returned when an operation names a missing component, node or edge.
	ErrUnknownTarget = errors.New("designer: unknown target")
	// ErrInvalidDocument wraps import payloads that fail to parse or validate.
	ErrInvalidDocument = errors.New("designer: invalid document")
)

// IsRejection reports whether err is an invalid-operation outcome from either
// editor. Rejected operations leave the session untouched.
func IsRejection(err error) bool {
	return canvas.IsRejection(err) ||
		workflow.IsRejection(err) ||
		errors.Is(err, ErrGestureRefused) ||
		errors.Is(err, ErrUnknownTarget) ||
		errors.Is(err, ErrNotChart) ||
		errors.Is(err, ErrChartSeries) ||
		errors.Is(err, ErrUnsupportedChart) ||
		errors.Is(err, canvas.ErrConfigName) ||
		errors.Is(err, workflow.ErrWorkflowName) ||
		errors.Is(err, workflow.ErrInvalidStatus)
}

// IsNotFound reports whether err names a missing session, saved
// configuration or workflow definition.
func IsNotFound(err error) bool {
	return errors.Is(err, ErrSessionNotFound) ||
		errors.Is(err, canvas.ErrConfigNotFound) ||
		errors.Is(err, workflow.ErrWorkflowNotFound)
}

// Palette is the component catalog the canvas editor offers.
type Palette interface {
	canvas.Catalog
	Definitions() []canvas.ComponentDefinition
}

// Options configures the designer Service. Every collaborator has a working
// in-memory default.
type Options struct {
	Catalog        Palette
	NodeTypes      *workflow.TypeRegistry
	IDs            ids.Generator
	Sandbox        scripting.Sandbox
	Library        canvas.ConfigStore
	Workflows      *workflow.Catalog
	RefreshHook    RefreshHook
	Telemetry      Telemetry
	Logger         *slog.Logger
	ActivityHooks  activity.Hooks
	ActivityConfig activity.Config
	Charts         *ChartRenderer
	Renderer       Renderer
	// Layout drives drop index computation when a drop carries no bounds.
	Layout canvas.FlowLayout
}

// Service owns the editing sessions of both editors. Each session is guarded
// by its own mutex so sessions never block one another.
type Service struct {
	opts       Options
	dispatcher *canvas.EventDispatcher
	activity   *activity.Emitter
	now        func() time.Time

	mu        sync.RWMutex
	canvases  map[string]*canvasSession
	workflows map[string]*workflowSession
}

type canvasSession struct {
	mu     sync.Mutex
	engine *canvas.Engine
}

type workflowSession struct {
	mu           sync.Mutex
	engine       *workflow.Engine
	definitionID string
}

// NewService builds a Service instance with safe defaults.
func NewService(opts Options) *Service {
	opts.IDs = ids.Normalize(opts.IDs)
	if opts.Catalog == nil {
		opts.Catalog = canvas.NewRegistry()
	}
	if opts.NodeTypes == nil {
		opts.NodeTypes = workflow.NewTypeRegistry()
	}
	if opts.Sandbox == nil {
		opts.Sandbox = scripting.NewGojaSandbox(scripting.Options{Logger: opts.Logger})
	}
	if opts.Library == nil {
		opts.Library = canvas.NewInMemoryLibrary(opts.IDs)
	}
	if opts.Workflows == nil {
		opts.Workflows = workflow.NewCatalog(opts.IDs)
	}
	if opts.RefreshHook == nil {
		opts.RefreshHook = noopRefreshHook{}
	}
	opts.Telemetry = normalizeTelemetry(opts.Telemetry)
	if opts.Logger == nil {
		opts.Logger = slog.New(slog.NewTextHandler(io.Discard, nil))
	}
	if opts.Charts == nil {
		opts.Charts = NewChartRenderer(WithChartCache(NewChartCache(5 * time.Minute)))
	}
	return &Service{
		opts:       opts,
		dispatcher: canvas.NewEventDispatcher(opts.Sandbox),
		activity:   activity.NewEmitter(opts.ActivityHooks, opts.ActivityConfig),
		now:        time.Now,
		canvases:   map[string]*canvasSession{},
		workflows:  map[string]*workflowSession{},
	}
}

// Sessions lists the open session ids of an editor in lexical order.
func (s *Service) Sessions(editor Editor) []string {
	s.mu.RLock()
	defer s.mu.RUnlock()
	var out []string
	switch editor {
	case EditorCanvas:
		for id := range s.canvases {
			out = append(out, id)
		}
	case EditorWorkflow:
		for id := range s.workflows {
			out = append(out, id)
		}
	}
	sort.Strings(out)
	return out
}

// CloseSession discards a session of either editor.
func (s *Service) CloseSession(ctx context.Context, session string) error {
	s.mu.Lock()
	editor := Editor("")
	if _, ok := s.canvases[session]; ok {
		delete(s.canvases, session)
		editor = EditorCanvas
	} else if _, ok := s.workflows[session]; ok {
		delete(s.workflows, session)
		editor = EditorWorkflow
	}
	s.mu.Unlock()
	if editor == "" {
		return ErrSessionNotFound
	}
	if editor == EditorCanvas {
		s.opts.Charts.ForgetSession(session)
	}
	s.opts.Logger.Info("designer session closed", "session", session, "editor", editor)
	return s.commit(ctx, change{
		session:  session,
		editor:   editor,
		reason:   "session.close",
		object:   "session",
		objectID: session,
	})
}

func (s *Service) canvasSession(id string) (*canvasSession, error) {
	s.mu.RLock()
	defer s.mu.RUnlock()
	sess, ok := s.canvases[id]
	if !ok {
		return nil, ErrSessionNotFound
	}
	return sess, nil
}

func (s *Service) workflowSession(id string) (*workflowSession, error) {
	s.mu.RLock()
	defer s.mu.RUnlock()
	sess, ok := s.workflows[id]
	if !ok {
		return nil, ErrSessionNotFound
	}
	return sess, nil
}

// withCanvas runs fn while holding the session lock.
func (s *Service) withCanvas(id string, fn func(*canvas.Engine) error) error {
	sess, err := s.canvasSession(id)
	if err != nil {
		return err
	}
	sess.mu.Lock()
	defer sess.mu.Unlock()
	return fn(sess.engine)
}

// withWorkflow runs fn while holding the session lock.
func (s *Service) withWorkflow(id string, fn func(*workflowSession) error) error {
	sess, err := s.workflowSession(id)
	if err != nil {
		return err
	}
	sess.mu.Lock()
	defer sess.mu.Unlock()
	return fn(sess)
}

// change describes one committed mutation.
type change struct {
	session  string
	editor   Editor
	reason   string
	object   string
	objectID string
	metadata map[string]any
	// quiet skips activity, used for high-frequency pointer moves.
	quiet bool
}

func (c change) verb() string {
	return "designer." + string(c.editor) + "." + c.reason
}

// commit publishes a committed mutation: refresh hook first, then telemetry
// and activity.
func (s *Service) commit(ctx context.Context, c change) error {
	event := DesignEvent{
		Session:    c.session,
		Editor:     c.editor,
		Reason:     c.reason,
		ObjectID:   c.objectID,
		OccurredAt: s.now(),
	}
	if err := s.opts.RefreshHook.DesignUpdated(ctx, event); err != nil {
		return err
	}
	payload := map[string]any{"session": c.session}
	if c.objectID != "" {
		payload["object_id"] = c.objectID
	}
	for k, v := range c.metadata {
		payload[k] = v
	}
	s.recordTelemetry(ctx, c.verb(), payload)
	if !c.quiet {
		s.emitActivity(ctx, c, payload)
	}
	return nil
}

func (s *Service) recordTelemetry(ctx context.Context, event string, payload map[string]any) {
	s.opts.Telemetry.Record(ctx, event, payload)
}

func (s *Service) emitActivity(ctx context.Context, c change, metadata map[string]any) {
	if !s.activity.Enabled() {
		return
	}
	meta := activityContextFrom(ctx)
	err := s.activity.Emit(ctx, activity.Event{
		Verb:           c.verb(),
		ActorID:        meta.ActorID,
		UserID:         meta.UserID,
		TenantID:       meta.TenantID,
		ObjectType:     c.object,
		ObjectID:       c.objectID,
		DefinitionCode: "designer." + string(c.editor),
		Metadata:       metadata,
		OccurredAt:     s.now(),
	})
	if err != nil {
		s.opts.Logger.Warn("designer activity emit failed", "verb", c.verb(), "error", err)
	}
}

// rejected logs a refused operation and hands err back.
func (s *Service) rejected(session, op string, err error) error {
	s.opts.Logger.Debug("designer operation rejected", "session", session, "op", op, "error", err)
	return err
}
