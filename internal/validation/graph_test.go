package validation

import (
	"testing"

	"github.com/HenryWConklin/blackjack/pkg/schema"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func newPipeline(t *testing.T, lookup OpLookup) *GraphValidator {
	t.Helper()
	gv, err := NewGraphValidator(lookup)
	require.NoError(t, err)
	return gv
}

func TestPipeline_ValidGraph(t *testing.T) {
	gv := newPipeline(t, fakeLookup{"util.echo": true})
	def := &schema.GraphDefinition{
		DefaultTarget: "b",
		Nodes: []schema.NodeDefinition{
			{ID: "a", Op: "util.echo", Inputs: []schema.Input{extInput("x")}},
			{ID: "b", Op: "util.echo", ReturnOutput: "x", Inputs: []schema.Input{
				connInput("x", "a", "x"),
			}},
		},
	}
	result := gv.Validate(def)
	assert.True(t, result.Valid())
	assert.NoError(t, gv.ValidateDefinition(def))
}

func TestPipeline_NilDefinition(t *testing.T) {
	gv := newPipeline(t, nil)
	result := gv.Validate(nil)
	require.Len(t, result.Errors, 1)
}

func TestPipeline_StructuralShortCircuits(t *testing.T) {
	// Missing op is a structural error; the unknown op name must not also
	// surface as a semantic error.
	gv := newPipeline(t, fakeLookup{})
	def := &schema.GraphDefinition{
		Nodes: []schema.NodeDefinition{{ID: "a"}},
	}
	result := gv.Validate(def)
	assert.False(t, result.Valid())
	for _, issue := range result.Errors {
		assert.NotEqual(t, schema.ErrCodeUnknownOperation, issue.Code)
	}
}

func TestPipeline_SemanticBlocksDAG(t *testing.T) {
	// A dangling ref is a semantic error; the DAG stage is skipped so a
	// cycle among the remaining nodes is not double-reported.
	gv := newPipeline(t, nil)
	def := &schema.GraphDefinition{
		Nodes: []schema.NodeDefinition{
			{ID: "a", Op: "util.echo", Inputs: []schema.Input{connInput("in", "ghost", "out")}},
			{ID: "b", Op: "util.echo", Inputs: []schema.Input{connInput("in", "c", "out")}},
			{ID: "c", Op: "util.echo", Inputs: []schema.Input{connInput("in", "b", "out")}},
		},
	}
	result := gv.Validate(def)
	assert.False(t, result.Valid())
	for _, issue := range result.Errors {
		assert.NotEqual(t, "nodes", issue.Path)
	}
}

func TestPipeline_CycleReported(t *testing.T) {
	gv := newPipeline(t, fakeLookup{"util.echo": true})
	def := &schema.GraphDefinition{
		Nodes: []schema.NodeDefinition{
			{ID: "a", Op: "util.echo", Inputs: []schema.Input{connInput("in", "b", "out")}},
			{ID: "b", Op: "util.echo", Inputs: []schema.Input{connInput("in", "a", "out")}},
		},
	}
	result := gv.Validate(def)
	require.Len(t, result.Errors, 1)
	assert.Equal(t, schema.ErrCodeCycleDetected, result.Errors[0].Code)
}

func TestPipeline_ToError(t *testing.T) {
	gv := newPipeline(t, nil)
	err := gv.ValidateDefinition(&schema.GraphDefinition{
		Nodes: []schema.NodeDefinition{{ID: ""}},
	})
	require.Error(t, err)
	assert.Equal(t, schema.ErrCodeValidation, err.(*schema.Error).Code)
}
