package main

import (
	"bytes"
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"os"

	"github.com/golang/freetype/truetype"
	"golang.org/x/image/font"

	"github.com/goliatone/go-designer/components/canvas"
	"github.com/goliatone/go-designer/components/designer"
	"github.com/goliatone/go-designer/components/workflow"
)

const cliSession = "designctl"

type documentKind string

const (
	kindAuto     documentKind = "auto"
	kindCanvas   documentKind = "canvas"
	kindWorkflow documentKind = "workflow"
)

// detectKind treats a top-level JSON array as a canvas export and an object
// as a workflow graph.
func detectKind(data []byte, kind documentKind) (documentKind, error) {
	if kind != "" && kind != kindAuto {
		return kind, nil
	}
	trimmed := bytes.TrimSpace(data)
	if len(trimmed) == 0 {
		return "", errors.New("designctl: document is empty")
	}
	switch trimmed[0] {
	case '[':
		return kindCanvas, nil
	case '{':
		return kindWorkflow, nil
	default:
		return "", errors.New("designctl: document is neither a component list nor a workflow graph")
	}
}

// CatalogFlags extends the built-in catalogs with manifest files.
type CatalogFlags struct {
	Catalog   string `type:"existingfile" env:"DESIGNER_CATALOG" help:"Extra component catalog manifest."`
	NodeTypes string `name:"node-types" type:"existingfile" env:"DESIGNER_NODE_TYPES" help:"Extra node-type manifest."`
}

func (f CatalogFlags) options() (designer.Options, error) {
	registry := canvas.NewRegistry()
	if f.Catalog != "" {
		if _, err := registry.LoadManifestFile(f.Catalog); err != nil {
			return designer.Options{}, err
		}
	}
	types := workflow.NewTypeRegistry()
	if f.NodeTypes != "" {
		if _, err := types.LoadManifestFile(f.NodeTypes); err != nil {
			return designer.Options{}, err
		}
	}
	return designer.Options{Catalog: registry, NodeTypes: types}, nil
}

// loadDocument imports the file into a fresh session of the matching editor.
func loadDocument(ctx context.Context, flags CatalogFlags, path string, kind documentKind) (*designer.Service, documentKind, error) {
	data, err := os.ReadFile(path) //nolint:gosec
	if err != nil {
		return nil, "", fmt.Errorf("designctl: read %s: %w", path, err)
	}
	kind, err = detectKind(data, kind)
	if err != nil {
		return nil, "", err
	}
	opts, err := flags.options()
	if err != nil {
		return nil, "", err
	}
	service := designer.NewService(opts)
	switch kind {
	case kindCanvas:
		if _, err := service.OpenCanvas(ctx, cliSession); err != nil {
			return nil, "", err
		}
		err = service.ImportComponents(ctx, cliSession, data)
	case kindWorkflow:
		if _, err := service.OpenWorkflow(ctx, cliSession); err != nil {
			return nil, "", err
		}
		err = service.ImportGraph(ctx, cliSession, data)
	default:
		return nil, "", fmt.Errorf("designctl: unknown document kind %q", kind)
	}
	if err != nil {
		return nil, "", err
	}
	return service, kind, nil
}

type validateCmd struct {
	CatalogFlags `embed:""`
	Path string       `arg:"" type:"existingfile" help:"Document to validate."`
	Kind documentKind `enum:"auto,canvas,workflow" default:"auto" help:"Document kind."`
}

func (cmd *validateCmd) Run() error {
	ctx := context.Background()
	service, kind, err := loadDocument(ctx, cmd.CatalogFlags, cmd.Path, cmd.Kind)
	if err != nil {
		fmt.Fprintln(os.Stderr, errStyle.Render("✗")+" "+err.Error())
		return err
	}
	count := 0
	switch kind {
	case kindCanvas:
		state, _ := service.CanvasState(ctx, cliSession)
		count = len(state.Components)
	case kindWorkflow:
		state, _ := service.WorkflowState(ctx, cliSession)
		count = len(state.Graph.Nodes)
	}
	fmt.Fprintf(os.Stdout, "%s %s is a valid %s document (%d items)\n", okStyle.Render("✓"), cmd.Path, kind, count)
	return nil
}

type exportPNGCmd struct {
	CatalogFlags `embed:""`
	Path    string  `arg:"" type:"existingfile" help:"Workflow graph JSON."`
	Out     string  `short:"o" required:"" type:"path" help:"PNG destination."`
	Scale   float64 `default:"1" help:"Coordinate scale."`
	Padding float64 `default:"40" help:"Padding around the graph in pixels."`
	Font    string  `type:"existingfile" env:"DESIGNER_FONT" help:"TrueType font for labels, e.g. a CJK face."`
}

func (cmd *exportPNGCmd) Run() error {
	ctx := context.Background()
	service, _, err := loadDocument(ctx, cmd.CatalogFlags, cmd.Path, kindWorkflow)
	if err != nil {
		return err
	}
	face, err := loadFace(cmd.Font, 12*cmd.scale())
	if err != nil {
		return err
	}
	var buf bytes.Buffer
	if err := service.ExportPNG(ctx, cliSession, &buf, workflow.RenderOptions{
		Scale:   cmd.Scale,
		Padding: cmd.Padding,
		Face:    face,
	}); err != nil {
		return err
	}
	if err := os.WriteFile(cmd.Out, buf.Bytes(), 0o644); err != nil {
		return fmt.Errorf("designctl: write %s: %w", cmd.Out, err)
	}
	fmt.Fprintf(os.Stdout, "%s wrote %s (%d bytes)\n", okStyle.Render("✓"), cmd.Out, buf.Len())
	return nil
}

func (cmd *exportPNGCmd) scale() float64 {
	if cmd.Scale <= 0 {
		return 1
	}
	return cmd.Scale
}

func loadFace(path string, size float64) (font.Face, error) {
	if path == "" {
		return nil, nil
	}
	data, err := os.ReadFile(path) //nolint:gosec
	if err != nil {
		return nil, fmt.Errorf("designctl: read font %s: %w", path, err)
	}
	ttf, err := truetype.Parse(data)
	if err != nil {
		return nil, fmt.Errorf("designctl: parse font %s: %w", path, err)
	}
	return truetype.NewFace(ttf, &truetype.Options{Size: size}), nil
}

type inspectCmd struct {
	CatalogFlags `embed:""`
	Path string       `arg:"" type:"existingfile" help:"Document to inspect."`
	Kind documentKind `enum:"auto,canvas,workflow" default:"auto" help:"Document kind."`
	JSON bool         `name:"json" help:"Print the normalized document instead of the summary."`
}

func (cmd *inspectCmd) Run() error {
	ctx := context.Background()
	service, kind, err := loadDocument(ctx, cmd.CatalogFlags, cmd.Path, cmd.Kind)
	if err != nil {
		return err
	}
	if cmd.JSON {
		if kind == kindCanvas {
			return service.ExportComponents(ctx, cliSession, os.Stdout)
		}
		return service.ExportGraph(ctx, cliSession, os.Stdout)
	}
	switch kind {
	case kindCanvas:
		state, err := service.CanvasState(ctx, cliSession)
		if err != nil {
			return err
		}
		fmt.Fprintln(os.Stdout, renderCanvasSummary(cmd.Path, state.Components))
	default:
		state, err := service.WorkflowState(ctx, cliSession)
		if err != nil {
			return err
		}
		fmt.Fprintln(os.Stdout, renderWorkflowSummary(cmd.Path, state.Graph))
	}
	return nil
}

func compactJSON(v any) string {
	data, err := json.Marshal(v)
	if err != nil {
		return fmt.Sprint(v)
	}
	return string(data)
}
