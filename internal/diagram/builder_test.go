package diagram

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/HenryWConklin/blackjack/pkg/schema"
)

func boxGraph() *schema.GraphDefinition {
	return &schema.GraphDefinition{
		DefaultTarget: "out",
		Metadata:      map[string]any{"name": "boxes"},
		Nodes: []schema.NodeDefinition{
			{ID: "box", Op: "mesh.box", Inputs: []schema.Input{
				{Name: "size", Kind: schema.InputExternal, Promoted: true},
			}},
			{ID: "out", Op: "util.echo", ReturnOutput: "mesh", Inputs: []schema.Input{
				{Name: "mesh", Kind: schema.InputConnection, Node: "box", Output: "mesh"},
			}},
		},
	}
}

func TestBuildModel(t *testing.T) {
	model := BuildModel(boxGraph(), "")

	assert.Equal(t, "boxes", model.Title)
	// Two graph nodes plus one param pseudo-node.
	require.Len(t, model.Nodes, 3)
	require.Len(t, model.Edges, 2)

	byID := map[string]Node{}
	for _, n := range model.Nodes {
		byID[n.ID] = n
	}

	assert.Equal(t, NodeKindOp, byID["box"].Kind)
	assert.Equal(t, NodeKindTarget, byID["out"].Kind, "default target picked up")

	param := byID["param_box_size"]
	assert.Equal(t, NodeKindParam, param.Kind)
	assert.True(t, param.Promoted)
}

func TestBuildModel_ExplicitTarget(t *testing.T) {
	model := BuildModel(boxGraph(), "box")

	byID := map[string]Node{}
	for _, n := range model.Nodes {
		byID[n.ID] = n
	}
	assert.Equal(t, NodeKindTarget, byID["box"].Kind)
	assert.Equal(t, NodeKindOp, byID["out"].Kind)
}

func TestBuildModel_EdgeLabels(t *testing.T) {
	def := &schema.GraphDefinition{
		Nodes: []schema.NodeDefinition{
			{ID: "a", Op: "util.echo"},
			{ID: "b", Op: "util.echo", Inputs: []schema.Input{
				{Name: "in", Kind: schema.InputConnection, Node: "a", Output: "out"},
				{Name: "same", Kind: schema.InputConnection, Node: "a", Output: "same"},
			}},
		},
	}
	model := BuildModel(def, "")
	require.Len(t, model.Edges, 2)
	assert.Equal(t, "out→in", model.Edges[0].Label)
	assert.Equal(t, "same", model.Edges[1].Label, "matching names collapse to one label")
}
