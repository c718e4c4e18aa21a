package main

import (
	"context"
	"os"
	"path/filepath"
	"strings"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/goliatone/go-designer/components/canvas"
	"github.com/goliatone/go-designer/components/workflow"
)

func TestDetectKind(t *testing.T) {
	kind, err := detectKind([]byte(" [ ]"), kindAuto)
	require.NoError(t, err)
	assert.Equal(t, kindCanvas, kind)

	kind, err = detectKind([]byte(`{"nodes":[],"edges":[]}`), "")
	require.NoError(t, err)
	assert.Equal(t, kindWorkflow, kind)

	kind, err = detectKind([]byte(`[]`), kindWorkflow)
	require.NoError(t, err)
	assert.Equal(t, kindWorkflow, kind)

	_, err = detectKind([]byte("  "), kindAuto)
	assert.Error(t, err)
}

func TestEnvFileFrom(t *testing.T) {
	assert.Equal(t, ".env", envFileFrom([]string{"validate", "doc.json"}))
	assert.Equal(t, "prod.env", envFileFrom([]string{"--env-file", "prod.env", "serve"}))
	assert.Equal(t, "x.env", envFileFrom([]string{"serve", "--env-file=x.env"}))
}

func TestEventName(t *testing.T) {
	assert.Equal(t, "onClick", eventName("click"))
	assert.Equal(t, "onValueChange", eventName("value_change"))
	assert.Equal(t, "onBlur", eventName("onBlur"))
}

func TestScaffoldWritesManifest(t *testing.T) {
	path := filepath.Join(t.TempDir(), "catalog.yaml")
	cmd := &scaffoldCmd{
		Type:         "rating-input",
		Label:        "Rating",
		Category:     "form",
		Locale:       []string{"ZH=评分"},
		Prop:         []string{"max_stars:number:Max", "readonly:boolean"},
		Event:        []string{"change"},
		ManifestPath: path,
	}
	require.NoError(t, cmd.Run())

	doc, err := canvas.ReadManifest(path)
	require.NoError(t, err)
	require.Len(t, doc.Components, 1)
	def := doc.Components[0].Definition
	assert.Equal(t, "RatingInput", def.Type)
	assert.Equal(t, "评分", def.LabelLocalized["zh"])
	require.Len(t, def.Properties, 2)
	assert.Equal(t, "maxStars", def.Properties[0].Describe().Name)
	assert.Equal(t, "Max", def.Properties[0].Describe().Label)
	require.Len(t, def.Events, 1)
	assert.Equal(t, "onChange", def.Events[0].Name)

	err = cmd.Run()
	assert.ErrorContains(t, err, "already defines RatingInput")

	cmd.Overwrite = true
	cmd.Label = "Stars"
	require.NoError(t, cmd.Run())
	doc, err = canvas.ReadManifest(path)
	require.NoError(t, err)
	require.Len(t, doc.Components, 1)
	assert.Equal(t, "Stars", doc.Components[0].Definition.Label)
}

func TestParsePropsRejectsMalformed(t *testing.T) {
	_, err := parseProps([]string{"nokind"})
	assert.Error(t, err)
	_, err = parseProps([]string{"x:color"})
	assert.Error(t, err)
}

func TestLoadDocumentCanvas(t *testing.T) {
	path := filepath.Join(t.TempDir(), "page.json")
	require.NoError(t, os.WriteFile(path, []byte(`[{"id":"a","type":"Button"},{"id":"b","type":"Input"}]`), 0o644))

	service, kind, err := loadDocument(context.Background(), CatalogFlags{}, path, kindAuto)
	require.NoError(t, err)
	assert.Equal(t, kindCanvas, kind)
	state, err := service.CanvasState(context.Background(), cliSession)
	require.NoError(t, err)
	assert.Len(t, state.Components, 2)
}

func TestLoadDocumentRejectsUnknownType(t *testing.T) {
	path := filepath.Join(t.TempDir(), "page.json")
	require.NoError(t, os.WriteFile(path, []byte(`[{"id":"a","type":"Nope"}]`), 0o644))

	_, _, err := loadDocument(context.Background(), CatalogFlags{}, path, kindCanvas)
	assert.ErrorIs(t, err, canvas.ErrUnknownComponentType)
}

func TestRenderWorkflowSummary(t *testing.T) {
	out := renderWorkflowSummary("flow.json", workflow.Graph{
		Nodes: []workflow.Node{
			{ID: "n1", Type: workflow.NodeStart, Title: "Begin"},
			{ID: "n2", Type: workflow.NodeEnd, Title: "Finish"},
		},
		Edges: []workflow.Edge{{ID: "e1", Source: "n1", Target: "n2", Label: "go"}},
	})
	assert.True(t, strings.Contains(out, "Begin -> Finish [go]"), out)
}
