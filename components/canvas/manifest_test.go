package canvas

import (
	"bytes"
	"os"
	"path/filepath"
	"strings"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/goliatone/go-designer/components/schema"
)

func TestDefaultCatalog(t *testing.T) {
	defs := DefaultDefinitions()
	require.Len(t, defs, 20)
	reg := NewRegistry()
	assert.Equal(t, "AIChat", reg.Types()[0])

	btn, ok := reg.Definition("Button")
	require.True(t, ok)
	assert.Equal(t, "按钮", btn.Label)
	assert.Equal(t, "Button", btn.LabelForLocale("en-US"))
	assert.Equal(t, "按钮", btn.LabelForLocale("zh"))
	assert.True(t, btn.HasEvent("onClick"))
	assert.Equal(t, "按钮", btn.DefaultProps["children"])

	size, ok := btn.Properties.Lookup("size")
	require.True(t, ok)
	sel, ok := size.(schema.SelectProp)
	require.True(t, ok)
	assert.Equal(t, []any{"large", "middle", "small"}, sel.OptionValues())

	table, _ := reg.Definition("Table")
	cols, _ := table.Properties.Lookup("columns")
	assert.Equal(t, schema.KindArray, cols.Kind())
}

func TestDecodeManifest(t *testing.T) {
	const payload = `
version: "1"
name: community-pack
components:
  - definition:
      type: ColorPicker
      label: 颜色选择器
      label_localized: {EN: Color Picker}
      properties:
        - {name: value, label: 颜色, type: string}
      events:
        - {name: onChange, label: 值变化事件}
    tags: [input]
    maintainers: [ui-team]
`
	doc, err := DecodeManifest(strings.NewReader(payload))
	require.NoError(t, err)
	require.Len(t, doc.Components, 1)

	reg := NewEmptyRegistry()
	require.NoError(t, reg.LoadManifestDocument(doc))
	def, ok := reg.Definition("ColorPicker")
	require.True(t, ok)
	assert.Equal(t, "Color Picker", def.LabelForLocale("en"))
	meta, ok := reg.ManifestMetadata("ColorPicker")
	require.True(t, ok)
	assert.Equal(t, []string{"input"}, meta.Tags)
}

func TestDecodeManifestValidation(t *testing.T) {
	cases := map[string]string{
		"empty":          ``,
		"version":        "version: \"2\"\ncomponents: []\n",
		"unknown field":  "version: \"1\"\nwidgets: []\n",
		"missing type":   "components:\n  - definition: {label: x}\n",
		"missing label":  "components:\n  - definition: {type: X}\n",
		"duplicate type": "components:\n  - definition: {type: X, label: x}\n  - definition: {type: X, label: y}\n",
		"bad kind":       "components:\n  - definition: {type: X, label: x, properties: [{name: f, type: function}]}\n",
		"dup event":      "components:\n  - definition: {type: X, label: x, events: [{name: a}, {name: a}]}\n",
	}
	for name, payload := range cases {
		t.Run(name, func(t *testing.T) {
			_, err := DecodeManifest(strings.NewReader(payload))
			assert.Error(t, err)
		})
	}
}

func TestManifestEncodeRoundTrip(t *testing.T) {
	doc := &CatalogManifest{
		Version: ManifestVersion,
		Components: []ManifestComponent{{
			Definition: ComponentDefinition{
				Type:       "Badge",
				Label:      "徽标",
				Properties: schema.Properties{schema.NumberProp{Meta: schema.Meta{Name: "count", Label: "数量"}}},
				Events:     []EventDefinition{},
			},
		}},
	}
	var buf bytes.Buffer
	require.NoError(t, doc.Encode(&buf))
	decoded, err := DecodeManifest(&buf)
	require.NoError(t, err)
	assert.Equal(t, doc.Components[0].Definition.Properties, decoded.Components[0].Definition.Properties)

	path := filepath.Join(t.TempDir(), "catalog.yaml")
	require.NoError(t, os.WriteFile(path, []byte("components:\n  - definition: {type: Badge, label: 徽标}\n"), 0o600))
	reg := NewEmptyRegistry()
	loaded, err := reg.LoadManifestFile(path)
	require.NoError(t, err)
	assert.Equal(t, path, loaded.Source)
	_, ok := reg.Definition("Badge")
	assert.True(t, ok)
}

func TestCatalogHooks(t *testing.T) {
	RegisterCatalogHook(func(reg *Registry) error {
		return reg.RegisterDefinition(ComponentDefinition{Type: "HookPanel"})
	})
	defer func() {
		globalHookMu.Lock()
		globalHooks = nil
		globalHookMu.Unlock()
	}()
	reg := NewRegistry()
	def, ok := reg.Definition("HookPanel")
	require.True(t, ok)
	assert.Equal(t, "HookPanel", def.Label)
	assert.Error(t, reg.RegisterDefinition(ComponentDefinition{}))
}
