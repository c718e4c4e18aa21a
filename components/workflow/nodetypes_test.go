package workflow

import (
	"os"
	"path/filepath"
	"strings"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/goliatone/go-designer/components/schema"
)

func TestDefaultNodeTypes(t *testing.T) {
	reg := NewTypeRegistry()
	defs := reg.Definitions()
	require.Len(t, defs, 5)

	types := make([]NodeType, len(defs))
	for i, def := range defs {
		types[i] = def.Type
	}
	assert.Equal(t, []NodeType{NodeStart, NodeApproval, NodeCondition, NodeTask, NodeEnd}, types)

	approval, ok := reg.NodeType(NodeApproval)
	require.True(t, ok)
	assert.Equal(t, "#52c41a", approval.Color)
	assert.Equal(t, 24.0, approval.Properties[2].Value)
	assert.Equal(t, schema.KindNumber, approval.Properties[2].Type)

	approval.Properties[0].Value = "mutated"
	again, _ := reg.NodeType(NodeApproval)
	assert.Equal(t, "", again.Properties[0].Value)

	assert.Equal(t, "#f5222d", reg.Color(NodeEnd))
	assert.Equal(t, DefaultNodeColor, reg.Color("unknown"))
}

func TestRegisterNodeTypeValidation(t *testing.T) {
	reg := NewEmptyTypeRegistry()
	assert.Error(t, reg.Register(NodeTypeDefinition{}))
	assert.Error(t, reg.Register(NodeTypeDefinition{Type: "x", Properties: []NodeProperty{{Name: "no id"}}}))
	assert.Error(t, reg.Register(NodeTypeDefinition{Type: "x", Properties: []NodeProperty{{ID: "a", Type: schema.KindSelect}}}))
	assert.Error(t, reg.Register(NodeTypeDefinition{Type: "x", Properties: []NodeProperty{{ID: "a", Type: schema.KindArray}}}))
	assert.Error(t, reg.Register(NodeTypeDefinition{Type: "x", Properties: []NodeProperty{{ID: "a", Type: schema.KindNumber, Value: "many"}}}))
	assert.Error(t, reg.Register(NodeTypeDefinition{Type: "x", Properties: []NodeProperty{{ID: "a"}, {ID: "a"}}}))

	require.NoError(t, reg.Register(NodeTypeDefinition{Type: "notify", Properties: []NodeProperty{{ID: "a", Name: "渠道"}}}))
	def, ok := reg.NodeType("notify")
	require.True(t, ok)
	assert.Equal(t, "notify", def.Title)
	assert.Equal(t, DefaultNodeColor, def.Color)
	assert.Equal(t, schema.KindString, def.Properties[0].Type)
	assert.Equal(t, "", def.Properties[0].Value)
}

func TestNodeTypeManifestFile(t *testing.T) {
	manifest := `version: "1"
types:
  - type: notify
    title: 通知
    color: "#13c2c2"
    properties:
      - id: prop1
        name: 重试次数
        type: number
        value: 3
`
	path := filepath.Join(t.TempDir(), "nodes.yaml")
	require.NoError(t, os.WriteFile(path, []byte(manifest), 0o600))

	reg := NewTypeRegistry()
	doc, err := reg.LoadManifestFile(path)
	require.NoError(t, err)
	assert.Equal(t, path, doc.Source)

	e := NewEngine(EngineOptions{Types: reg})
	n, err := e.AddNode("notify", Position{})
	require.NoError(t, err)
	assert.Equal(t, "通知", n.Title)
	assert.Equal(t, 3.0, n.Properties[0].Value)
}

func TestDecodeNodeTypeManifestErrors(t *testing.T) {
	for name, doc := range map[string]string{
		"empty":     ``,
		"version":   `version: "2"`,
		"unknown":   "types:\n  - type: a\n    icon: x\n",
		"duplicate": "types:\n  - type: a\n  - type: a\n",
	} {
		t.Run(name, func(t *testing.T) {
			_, err := DecodeNodeTypeManifest(strings.NewReader(doc))
			assert.Error(t, err)
		})
	}
}

func TestNodeTypeHooks(t *testing.T) {
	t.Cleanup(func() {
		nodeHookMu.Lock()
		nodeHooks = nil
		nodeHookMu.Unlock()
	})
	RegisterNodeTypeHook(func(reg *TypeRegistry) error {
		return reg.Register(NodeTypeDefinition{Type: "parallel", Title: "并行"})
	})
	reg := NewTypeRegistry()
	_, ok := reg.NodeType("parallel")
	assert.True(t, ok)
}
