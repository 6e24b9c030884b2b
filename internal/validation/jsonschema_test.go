package validation

import (
	"testing"

	"github.com/HenryWConklin/blackjack/pkg/schema"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func newJSV(t *testing.T) *JSONSchemaValidator {
	t.Helper()
	v, err := NewJSONSchemaValidator()
	require.NoError(t, err)
	return v
}

func TestJSONSchema_ValidGraph(t *testing.T) {
	v := newJSV(t)
	def := &schema.GraphDefinition{
		DefaultTarget: "b",
		Nodes: []schema.NodeDefinition{
			{ID: "a", Op: "util.echo", Inputs: []schema.Input{extInput("x")}},
			{ID: "b", Op: "util.echo", ReturnOutput: "x", Inputs: []schema.Input{
				connInput("x", "a", "x"),
			}},
		},
	}
	assert.NoError(t, v.ValidateDefinition(def))
}

func TestJSONSchema_NilDefinition(t *testing.T) {
	v := newJSV(t)
	err := v.ValidateDefinition(nil)
	require.Error(t, err)
	assert.Equal(t, schema.ErrCodeValidation, err.(*schema.Error).Code)
}

func TestJSONSchema_EmptyNodeID(t *testing.T) {
	v := newJSV(t)
	def := &schema.GraphDefinition{
		Nodes: []schema.NodeDefinition{{ID: "", Op: "util.echo"}},
	}
	err := v.ValidateDefinition(def)
	require.Error(t, err)
	assert.Equal(t, schema.ErrCodeValidation, err.(*schema.Error).Code)
}

func TestJSONSchema_MissingOp(t *testing.T) {
	v := newJSV(t)
	def := &schema.GraphDefinition{
		Nodes: []schema.NodeDefinition{{ID: "a"}},
	}
	err := v.ValidateDefinition(def)
	require.Error(t, err)
}

func TestJSONSchema_BadInputKind(t *testing.T) {
	v := newJSV(t)
	def := &schema.GraphDefinition{
		Nodes: []schema.NodeDefinition{
			{ID: "a", Op: "util.echo", Inputs: []schema.Input{
				{Name: "x", Kind: "telepathy"},
			}},
		},
	}
	err := v.ValidateDefinition(def)
	require.Error(t, err)
}

func TestJSONSchema_DuplicateNodeID(t *testing.T) {
	v := newJSV(t)
	def := &schema.GraphDefinition{
		Nodes: []schema.NodeDefinition{
			{ID: "a", Op: "util.echo"},
			{ID: "a", Op: "util.echo"},
		},
	}
	err := v.ValidateDefinition(def)
	require.Error(t, err)
	assert.Contains(t, err.(*schema.Error).Message, "duplicate node id")
}

func TestJSONSchema_ParamValue(t *testing.T) {
	v := newJSV(t)
	valueSchema := []byte(`{"type": "number", "minimum": 0}`)

	assert.NoError(t, v.ValidateParamValue(3.5, valueSchema))

	err := v.ValidateParamValue(-1, valueSchema)
	require.Error(t, err)
	assert.Equal(t, schema.ErrCodeValidation, err.(*schema.Error).Code)

	// No schema means no validation.
	assert.NoError(t, v.ValidateParamValue("anything", nil))
}

func TestJSONSchema_ParamValueCache(t *testing.T) {
	v := newJSV(t)
	valueSchema := []byte(`{"type": "string"}`)

	require.NoError(t, v.ValidateParamValue("a", valueSchema))
	require.NoError(t, v.ValidateParamValue("b", valueSchema))
	assert.Len(t, v.cache, 1)
}

func TestJSONSchema_InvalidParamSchema(t *testing.T) {
	v := newJSV(t)
	err := v.ValidateParamValue(1, []byte(`{not json`))
	require.Error(t, err)
	assert.Equal(t, schema.ErrCodeValidation, err.(*schema.Error).Code)
}
