package workflow

import (
	"encoding/json"
	"fmt"
	"io"

	"github.com/goliatone/go-designer/components/schema"
)

const graphSchema = `{
	"$schema": "http://json-schema.org/draft-07/schema#",
	"type": "object",
	"required": ["nodes", "edges"],
	"properties": {
		"nodes": {
			"type": "array",
			"items": {
				"type": "object",
				"required": ["id", "type", "position"],
				"properties": {
					"id": {"type": "string", "minLength": 1},
					"type": {"type": "string", "minLength": 1},
					"title": {"type": "string"},
					"position": {
						"type": "object",
						"required": ["x", "y"],
						"properties": {
							"x": {"type": "number"},
							"y": {"type": "number"}
						}
					},
					"properties": {
						"type": "array",
						"items": {
							"type": "object",
							"required": ["id", "name", "type"],
							"properties": {
								"id": {"type": "string", "minLength": 1},
								"name": {"type": "string"},
								"type": {"enum": ["string", "number", "boolean", "select"]},
								"options": {"type": "array", "items": {"type": "string"}}
							}
						}
					}
				}
			}
		},
		"edges": {
			"type": "array",
			"items": {
				"type": "object",
				"required": ["id", "source", "target"],
				"properties": {
					"id": {"type": "string", "minLength": 1},
					"source": {"type": "string", "minLength": 1},
					"target": {"type": "string", "minLength": 1},
					"label": {"type": "string"},
					"condition": {"type": "string"}
				}
			}
		}
	}
}`

var graphValidator = schema.NewJSONValidator("workflow-graph.json", []byte(graphSchema))

// EncodeGraph writes g as indented JSON.
func EncodeGraph(w io.Writer, g Graph) error {
	if g.Nodes == nil {
		g.Nodes = []Node{}
	}
	if g.Edges == nil {
		g.Edges = []Edge{}
	}
	encoder := json.NewEncoder(w)
	encoder.SetIndent("", "  ")
	if err := encoder.Encode(g); err != nil {
		return fmt.Errorf("workflow: encode graph: %w", err)
	}
	return nil
}

// DecodeGraph reads a graph document.
func DecodeGraph(r io.Reader) (Graph, error) {
	data, err := io.ReadAll(r)
	if err != nil {
		return Graph{}, fmt.Errorf("workflow: read graph: %w", err)
	}
	return ParseGraph(data)
}

// ParseGraph validates required fields, decodes the document, and checks
// edge references. Node types are checked when the graph is loaded into an
// Engine.
func ParseGraph(data []byte) (Graph, error) {
	if err := graphValidator.ValidateJSON(data); err != nil {
		return Graph{}, fmt.Errorf("workflow: invalid graph document: %w", err)
	}
	var g Graph
	if err := json.Unmarshal(data, &g); err != nil {
		return Graph{}, fmt.Errorf("workflow: decode graph: %w", err)
	}
	if g.Nodes == nil {
		g.Nodes = []Node{}
	}
	if g.Edges == nil {
		g.Edges = []Edge{}
	}
	for i := range g.Nodes {
		if g.Nodes[i].Properties == nil {
			g.Nodes[i].Properties = []NodeProperty{}
		}
	}
	if err := g.Validate(); err != nil {
		return Graph{}, err
	}
	return g, nil
}

// Validate checks node ids and edge references without consulting a type catalog.
func (g Graph) Validate() error {
	index := make(map[string]int, len(g.Nodes))
	for i, n := range g.Nodes {
		if n.ID == "" {
			return fmt.Errorf("%w: node at index %d", ErrDuplicateID, i)
		}
		if _, dup := index[n.ID]; dup {
			return fmt.Errorf("%w: node %s", ErrDuplicateID, n.ID)
		}
		index[n.ID] = i
	}
	return validateEdges(index, g.Edges)
}
