package gorouter

import (
	"context"
	"encoding/json"
	"errors"
	"net/http"
	"strconv"
	"strings"

	gocommand "github.com/goliatone/go-command"
	router "github.com/goliatone/go-router"

	"github.com/goliatone/go-designer/components/designer"
	"github.com/goliatone/go-designer/components/designer/commands"
	"github.com/goliatone/go-designer/components/designer/httpapi"
	"github.com/goliatone/go-designer/components/designer/queries"
	"github.com/goliatone/go-designer/components/workflow"
)

// ActivityResolver converts a router.Context into the actor recorded on
// designer activity events.
type ActivityResolver func(router.Context) designer.ActivityContext

// Config wires go-router with the designer commands, queries and hooks.
type Config[T any] struct {
	Router           router.Router[T]
	API              *httpapi.CommandExecutor
	Broadcast        *designer.BroadcastHook
	ActivityResolver ActivityResolver
	BasePath         string
	Routes           RouteConfig
}

// RouteConfig customizes the relative paths used for designer endpoints.
type RouteConfig struct {
	Sessions    string
	Palette     string
	NodeTypes   string
	Canvas      string
	Workflow    string
	Configs     string
	Definitions string
	WebSocket   string
}

type deps struct {
	api      *httpapi.CommandExecutor
	activity ActivityResolver
}

// Register mounts designer routes (JSON, HTML preview, PNG export, WebSocket)
// on a go-router router.
func Register[T any](cfg Config[T]) error {
	if cfg.Router == nil {
		return errors.New("gorouter: router is required")
	}
	if cfg.API == nil {
		return errors.New("gorouter: api is required")
	}
	routes := cfg.routes()
	base := cfg.BasePath
	if base == "" {
		base = "/admin"
	}
	activity := cfg.ActivityResolver
	if activity == nil {
		activity = defaultActivityResolver
	}
	d := deps{api: cfg.API, activity: activity}

	group := cfg.Router.Group(base)
	registerSessions(group, d, routes)
	registerCanvas(group, d, routes)
	registerWorkflow(group, d, routes)

	if cfg.Broadcast != nil {
		registerWebSocket(group, cfg.Broadcast, routes.WebSocket)
	}
	return nil
}

func registerSessions[T any](r router.Router[T], d deps, routes RouteConfig) {
	r.Post(routes.Sessions, command(d, d.api.OpenSession, http.StatusCreated, nil))
	r.Delete(routes.Sessions+"/:session", command(d, d.api.CloseSession, http.StatusNoContent, func(ctx router.Context, m *commands.SessionInput) {
		m.Session = ctx.Param("session")
	}))

	r.Get(routes.Palette, query(d, d.api.Palette, func(ctx router.Context) (queries.PaletteInput, error) {
		return queries.PaletteInput{Locale: inferLocale(ctx)}, nil
	}))
	r.Get(routes.NodeTypes, query(d, d.api.NodeTypes, func(router.Context) (queries.NodeTypesInput, error) {
		return queries.NodeTypesInput{}, nil
	}))
}

func registerCanvas[T any](r router.Router[T], d deps, routes RouteConfig) {
	c := routes.Canvas + "/:session"
	component := c + "/components/:id"

	r.Get(c, query(d, d.api.CanvasState, sessionInput))
	r.Post(c+"/components", commandThen(d, d.api.InsertComponent, func(ctx router.Context, m *commands.InsertComponentInput) {
		m.Session = ctx.Param("session")
	}, canvasState))
	r.Post(c+"/reorder", command(d, d.api.ReorderComponent, http.StatusOK, func(ctx router.Context, m *commands.ReorderComponentInput) {
		m.Session = ctx.Param("session")
	}))
	r.Post(c+"/move", command(d, d.api.MoveComponent, http.StatusOK, func(ctx router.Context, m *commands.MoveComponentInput) {
		m.Session = ctx.Param("session")
	}))
	r.Post(c+"/select", command(d, d.api.SelectComponent, http.StatusOK, func(ctx router.Context, m *commands.ComponentInput) {
		m.Session = ctx.Param("session")
	}))
	r.Post(c+"/drag", command(d, d.api.BeginDrag, http.StatusOK, func(ctx router.Context, m *commands.ComponentInput) {
		m.Session = ctx.Param("session")
	}))
	r.Post(c+"/drop", commandThen(d, d.api.Drop, func(ctx router.Context, m *commands.DropComponentInput) {
		m.Session = ctx.Param("session")
	}, canvasState))
	r.Delete(c+"/drag", command(d, d.api.CancelDrag, http.StatusNoContent, func(ctx router.Context, m *commands.SessionInput) {
		m.Session = ctx.Param("session")
	}))
	r.Post(c+"/preview", command(d, d.api.SetPreview, http.StatusOK, func(ctx router.Context, m *commands.SetPreviewInput) {
		m.Session = ctx.Param("session")
	}))
	r.Get(c+"/preview", router.WrapHandler(func(ctx router.Context) error {
		input := queries.PreviewPageInput{Session: ctx.Param("session"), Locale: inferLocale(ctx)}
		html, err := httpapi.Ask(d.requestContext(ctx), d.api.PreviewPage, input)
		if err != nil {
			return respondError(ctx, httpapi.StatusFor(err), err)
		}
		ctx.SetHeader("Content-Type", "text/html; charset=utf-8")
		return ctx.Send([]byte(html))
	}))
	r.Post(c+"/import", commandThen(d, d.api.ImportComponents, func(ctx router.Context, m *commands.ImportComponentsInput) {
		m.Session = ctx.Param("session")
	}, canvasState))
	r.Get(c+"/export", bytesQuery(d, d.api.ExportComponents, "application/json", sessionInput))

	r.Delete(component, command(d, d.api.DeleteComponent, http.StatusNoContent, func(ctx router.Context, m *commands.ComponentInput) {
		m.Session, m.ID = ctx.Param("session"), ctx.Param("id")
	}))
	r.Post(component+"/props", command(d, d.api.UpdateProperty, http.StatusOK, func(ctx router.Context, m *commands.UpdateComponentPropertyInput) {
		m.Session, m.ID = ctx.Param("session"), ctx.Param("id")
	}))
	r.Post(component+"/events", command(d, d.api.UpdateEvent, http.StatusOK, func(ctx router.Context, m *commands.UpdateComponentEventInput) {
		m.Session, m.ID = ctx.Param("session"), ctx.Param("id")
	}))
	r.Post(component+"/dispatch", router.WrapHandler(func(ctx router.Context) error {
		var input queries.DispatchEventInput
		if err := bind(ctx, &input); err != nil {
			return respondError(ctx, http.StatusBadRequest, err)
		}
		input.Session, input.ID = ctx.Param("session"), ctx.Param("id")
		res, err := httpapi.Ask(d.requestContext(ctx), d.api.DispatchEvent, input)
		if err != nil {
			return respondError(ctx, httpapi.StatusFor(err), err)
		}
		return ctx.JSON(http.StatusOK, res)
	}))
	r.Get(component+"/chart", query(d, d.api.ChartPreview, func(ctx router.Context) (queries.ComponentInput, error) {
		return queries.ComponentInput{Session: ctx.Param("session"), ID: ctx.Param("id")}, nil
	}))

	r.Get(routes.Configs, query(d, d.api.ListConfigs, func(router.Context) (queries.ListConfigsInput, error) {
		return queries.ListConfigsInput{}, nil
	}))
	r.Post(c+"/configs", command(d, d.api.SaveConfig, http.StatusCreated, func(ctx router.Context, m *commands.ConfigInput) {
		m.Session = ctx.Param("session")
	}))
	r.Post(c+"/configs/:name", commandThen(d, d.api.LoadConfig, func(ctx router.Context, m *commands.ConfigInput) {
		m.Session, m.Name = ctx.Param("session"), ctx.Param("name")
	}, canvasState))
	r.Delete(routes.Configs+"/:name", command(d, d.api.DeleteConfig, http.StatusNoContent, func(ctx router.Context, m *commands.ConfigInput) {
		m.Name = ctx.Param("name")
	}))
}

func registerWorkflow[T any](r router.Router[T], d deps, routes RouteConfig) {
	w := routes.Workflow + "/:session"
	node := w + "/nodes/:id"
	edge := w + "/edges/:id"

	r.Get(w, query(d, d.api.WorkflowState, sessionInput))
	r.Post(w+"/nodes", commandThen(d, d.api.AddNode, func(ctx router.Context, m *commands.AddNodeInput) {
		m.Session = ctx.Param("session")
	}, workflowState))
	r.Post(node+"/move", command(d, d.api.MoveNode, http.StatusOK, func(ctx router.Context, m *commands.NodePositionInput) {
		m.Session, m.ID = ctx.Param("session"), ctx.Param("id")
	}))
	r.Post(node+"/drag", command(d, d.api.BeginNodeDrag, http.StatusOK, func(ctx router.Context, m *commands.NodePositionInput) {
		m.Session, m.ID = ctx.Param("session"), ctx.Param("id")
	}))
	r.Post(w+"/drag", command(d, d.api.DragNode, http.StatusOK, func(ctx router.Context, m *commands.PointerInput) {
		m.Session = ctx.Param("session")
	}))
	r.Delete(w+"/drag", commandThen(d, d.api.EndNodeDrag, func(ctx router.Context, m *commands.SessionInput) {
		m.Session = ctx.Param("session")
	}, workflowState))
	r.Delete(node, command(d, d.api.DeleteNode, http.StatusNoContent, func(ctx router.Context, m *commands.NodeInput) {
		m.Session, m.ID = ctx.Param("session"), ctx.Param("id")
	}))
	r.Post(node+"/props", command(d, d.api.UpdateNodeProperties, http.StatusOK, func(ctx router.Context, m *commands.NodePropertiesInput) {
		m.Session, m.ID = ctx.Param("session"), ctx.Param("id")
	}))

	r.Post(w+"/connections", commandThen(d, d.api.Connect, func(ctx router.Context, m *commands.ConnectInput) {
		m.Session = ctx.Param("session")
	}, workflowState))
	r.Post(w+"/connections/begin", command(d, d.api.BeginConnection, http.StatusOK, func(ctx router.Context, m *commands.AnchorInput) {
		m.Session = ctx.Param("session")
	}))
	r.Post(w+"/connections/complete", commandThen(d, d.api.CompleteConnection, func(ctx router.Context, m *commands.AnchorInput) {
		m.Session = ctx.Param("session")
	}, workflowState))
	r.Delete(w+"/connections/pending", command(d, d.api.CancelConnection, http.StatusNoContent, func(ctx router.Context, m *commands.SessionInput) {
		m.Session = ctx.Param("session")
	}))

	r.Post(edge+"/label", command(d, d.api.UpdateEdgeLabel, http.StatusOK, func(ctx router.Context, m *commands.EdgeLabelInput) {
		m.Session, m.ID = ctx.Param("session"), ctx.Param("id")
	}))
	r.Delete(edge, command(d, d.api.DeleteEdge, http.StatusNoContent, func(ctx router.Context, m *commands.EdgeInput) {
		m.Session, m.ID = ctx.Param("session"), ctx.Param("id")
	}))
	r.Get(edge+"/geometry", query(d, d.api.EdgeGeometry, func(ctx router.Context) (queries.EdgeInput, error) {
		return queries.EdgeInput{Session: ctx.Param("session"), ID: ctx.Param("id")}, nil
	}))

	r.Post(w+"/select", command(d, d.api.SelectItem, http.StatusOK, func(ctx router.Context, m *commands.SelectItemInput) {
		m.Session = ctx.Param("session")
	}))
	r.Get(w+"/hit", query(d, d.api.HitTest, hitTestInput))
	r.Post(w+"/import", commandThen(d, d.api.ImportGraph, func(ctx router.Context, m *commands.ImportGraphInput) {
		m.Session = ctx.Param("session")
	}, workflowState))
	r.Get(w+"/export", bytesQuery(d, d.api.ExportGraph, "application/json", sessionInput))
	r.Get(w+"/png", bytesQuery(d, d.api.ExportPNG, "image/png", pngInput))
	r.Post(w+"/definition", commandThen(d, d.api.OpenDefinition, func(ctx router.Context, m *commands.DefinitionInput) {
		m.Session = ctx.Param("session")
	}, workflowState))
	r.Post(w+"/definition/save", command(d, d.api.SaveDefinition, http.StatusOK, func(ctx router.Context, m *commands.DefinitionInput) {
		m.Session = ctx.Param("session")
	}))

	r.Get(routes.Definitions, query(d, d.api.ListWorkflows, func(router.Context) (queries.ListWorkflowsInput, error) {
		return queries.ListWorkflowsInput{}, nil
	}))
	r.Post(routes.Definitions, command(d, d.api.CreateWorkflow, http.StatusCreated, nil))
	r.Post(routes.Definitions+"/:id", command(d, d.api.UpdateWorkflow, http.StatusOK, func(ctx router.Context, m *commands.WorkflowMetaInput) {
		m.ID = ctx.Param("id")
	}))
	r.Delete(routes.Definitions+"/:id", command(d, d.api.DeleteWorkflow, http.StatusNoContent, func(ctx router.Context, m *commands.WorkflowIDInput) {
		m.ID = ctx.Param("id")
	}))
}

func registerWebSocket[T any](r router.Router[T], hook *designer.BroadcastHook, path string) {
	cfg := router.DefaultWebSocketConfig()
	r.WebSocket(path, cfg, func(ws router.WebSocketContext) error {
		events, cancel := hook.SubscribeSession(ws.Query("session"))
		defer cancel()
		for {
			select {
			case event, ok := <-events:
				if !ok {
					return nil
				}
				if err := ws.WriteJSON(event); err != nil {
					return err
				}
			case <-ws.Context().Done():
				return ws.Close()
			}
		}
	})
}

// responder writes the reply of a successful command.
type responder func(ctx router.Context, d deps) error

func command[T any](d deps, cmd gocommand.Commander[T], status int, fill func(router.Context, *T)) router.HandlerFunc {
	return commandThen(d, cmd, fill, func(ctx router.Context, _ deps) error {
		return ctx.JSON(status, map[string]string{"status": "ok"})
	})
}

func commandThen[T any](d deps, cmd gocommand.Commander[T], fill func(router.Context, *T), respond responder) router.HandlerFunc {
	return router.WrapHandler(func(ctx router.Context) error {
		var msg T
		if err := bind(ctx, &msg); err != nil {
			return respondError(ctx, http.StatusBadRequest, err)
		}
		if fill != nil {
			fill(ctx, &msg)
		}
		if err := httpapi.Run(d.requestContext(ctx), cmd, msg); err != nil {
			return respondError(ctx, httpapi.StatusFor(err), err)
		}
		return respond(ctx, d)
	})
}

func query[In any, Out any](d deps, q gocommand.Querier[In, Out], build func(router.Context) (In, error)) router.HandlerFunc {
	return router.WrapHandler(func(ctx router.Context) error {
		input, err := build(ctx)
		if err != nil {
			return respondError(ctx, http.StatusBadRequest, err)
		}
		out, err := httpapi.Ask(d.requestContext(ctx), q, input)
		if err != nil {
			return respondError(ctx, httpapi.StatusFor(err), err)
		}
		return ctx.JSON(http.StatusOK, out)
	})
}

func bytesQuery[In any](d deps, q gocommand.Querier[In, []byte], contentType string, build func(router.Context) (In, error)) router.HandlerFunc {
	return router.WrapHandler(func(ctx router.Context) error {
		input, err := build(ctx)
		if err != nil {
			return respondError(ctx, http.StatusBadRequest, err)
		}
		out, err := httpapi.Ask(d.requestContext(ctx), q, input)
		if err != nil {
			return respondError(ctx, httpapi.StatusFor(err), err)
		}
		ctx.SetHeader("Content-Type", contentType)
		return ctx.Send(out)
	})
}

func canvasState(ctx router.Context, d deps) error {
	state, err := httpapi.Ask(d.requestContext(ctx), d.api.CanvasState, queries.SessionInput{Session: ctx.Param("session")})
	if err != nil {
		return respondError(ctx, httpapi.StatusFor(err), err)
	}
	return ctx.JSON(http.StatusOK, state)
}

func workflowState(ctx router.Context, d deps) error {
	state, err := httpapi.Ask(d.requestContext(ctx), d.api.WorkflowState, queries.SessionInput{Session: ctx.Param("session")})
	if err != nil {
		return respondError(ctx, httpapi.StatusFor(err), err)
	}
	return ctx.JSON(http.StatusOK, state)
}

func sessionInput(ctx router.Context) (queries.SessionInput, error) {
	return queries.SessionInput{Session: ctx.Param("session")}, nil
}

func hitTestInput(ctx router.Context) (queries.HitTestInput, error) {
	x, err := strconv.ParseFloat(ctx.Query("x"), 64)
	if err != nil {
		return queries.HitTestInput{}, errors.New("x must be a number")
	}
	y, err := strconv.ParseFloat(ctx.Query("y"), 64)
	if err != nil {
		return queries.HitTestInput{}, errors.New("y must be a number")
	}
	return queries.HitTestInput{Session: ctx.Param("session"), Point: workflow.Position{X: x, Y: y}}, nil
}

func pngInput(ctx router.Context) (queries.ExportPNGInput, error) {
	input := queries.ExportPNGInput{Session: ctx.Param("session")}
	if raw := strings.TrimSpace(ctx.Query("scale")); raw != "" {
		scale, err := strconv.ParseFloat(raw, 64)
		if err != nil || scale <= 0 {
			return input, errors.New("scale must be a positive number")
		}
		input.Scale = scale
	}
	return input, nil
}

func bind[T any](ctx router.Context, into *T) error {
	body := ctx.Body()
	if len(body) == 0 {
		return nil
	}
	return json.Unmarshal(body, into)
}

func (d deps) requestContext(ctx router.Context) context.Context {
	c := ctx.Context()
	if d.activity == nil {
		return c
	}
	meta := d.activity(ctx)
	if meta == (designer.ActivityContext{}) {
		return c
	}
	return designer.ContextWithActivity(c, meta)
}

func defaultActivityResolver(ctx router.Context) designer.ActivityContext {
	var meta designer.ActivityContext
	if v, ok := ctx.Locals("user_id").(string); ok {
		meta.UserID = v
		meta.ActorID = v
	}
	if v, ok := ctx.Locals("actor_id").(string); ok && v != "" {
		meta.ActorID = v
	}
	if v, ok := ctx.Locals("tenant_id").(string); ok {
		meta.TenantID = v
	}
	return meta
}

func inferLocale(ctx router.Context) string {
	if locale, ok := ctx.Locals("locale").(string); ok && locale != "" {
		return locale
	}
	if locale := strings.TrimSpace(ctx.Query("locale")); locale != "" {
		return strings.ToLower(locale)
	}
	if header := ctx.Header("Accept-Language"); header != "" {
		if lang := parseAcceptLanguage(header); lang != "" {
			return lang
		}
	}
	return ""
}

func parseAcceptLanguage(header string) string {
	for _, token := range strings.Split(header, ",") {
		token = strings.TrimSpace(token)
		if token == "" {
			continue
		}
		if idx := strings.Index(token, ";"); idx >= 0 {
			token = token[:idx]
		}
		if token != "" {
			return strings.ToLower(token)
		}
	}
	return ""
}

func respondError(ctx router.Context, status int, err error) error {
	return ctx.JSON(status, map[string]string{"error": err.Error()})
}

func (cfg Config[T]) routes() RouteConfig {
	return defaultRouteConfig(cfg.Routes)
}

func defaultRouteConfig(routes RouteConfig) RouteConfig {
	if routes.Sessions == "" {
		routes.Sessions = "/designer/sessions"
	}
	if routes.Palette == "" {
		routes.Palette = "/designer/palette"
	}
	if routes.NodeTypes == "" {
		routes.NodeTypes = "/designer/node-types"
	}
	if routes.Canvas == "" {
		routes.Canvas = "/designer/canvas"
	}
	if routes.Workflow == "" {
		routes.Workflow = "/designer/workflow"
	}
	if routes.Configs == "" {
		routes.Configs = "/designer/configs"
	}
	if routes.Definitions == "" {
		routes.Definitions = "/designer/workflows"
	}
	if routes.WebSocket == "" {
		routes.WebSocket = "/designer/ws"
	}
	return routes
}
