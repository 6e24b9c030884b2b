package schema

import (
	"encoding/json"
	"errors"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestExternalParameter_Equality(t *testing.T) {
	a := NewExternalParameter("n1", "size")
	b := NewExternalParameter("n1", "size")
	c := NewExternalParameter("n2", "size")
	d := NewExternalParameter("n1", "width")

	assert.Equal(t, a, b)
	assert.NotEqual(t, a, c)
	assert.NotEqual(t, a, d)

	// Usable as a map key: equal keys collide, unequal keys do not.
	values := ExternalParameterValues{}
	values.Set(a, 1)
	values.Set(b, 2)
	values.Set(c, 3)
	assert.Len(t, values, 2)

	got, ok := values.Get(a)
	require.True(t, ok)
	assert.Equal(t, 2, got)
}

func TestExternalParameterValues_Clone(t *testing.T) {
	orig := ExternalParameterValues{
		NewExternalParameter("n1", "x"): 5,
	}
	cp := orig.Clone()
	cp.Set(NewExternalParameter("n1", "y"), 6)

	assert.Len(t, orig, 1)
	assert.Len(t, cp, 2)
}

func TestGraphDefinition_Node(t *testing.T) {
	g := GraphDefinition{Nodes: []NodeDefinition{
		{ID: "a", Op: "util.echo"},
		{ID: "b", Op: "util.echo"},
	}}

	require.NotNil(t, g.Node("b"))
	assert.Equal(t, "util.echo", g.Node("b").Op)
	assert.Nil(t, g.Node("missing"))
}

func TestGraphDefinition_PromotedParams(t *testing.T) {
	g := GraphDefinition{Nodes: []NodeDefinition{
		{ID: "a", Op: "util.echo", Inputs: []Input{
			{Name: "size", Kind: InputExternal, Promoted: true},
			{Name: "hidden", Kind: InputExternal},
			{Name: "in", Kind: InputConnection, Node: "b", Output: "out"},
		}},
		{ID: "b", Op: "util.echo", Inputs: []Input{
			{Name: "offset", Kind: InputExternal, Promoted: true},
		}},
	}}

	params := g.PromotedParams()
	require.Len(t, params, 2)
	assert.Equal(t, NewExternalParameter("a", "size"), params[0])
	assert.Equal(t, NewExternalParameter("b", "offset"), params[1])
}

func TestGraphDefinition_JSONRoundTrip(t *testing.T) {
	doc := `{
		"nodes": [
			{"id": "box", "op": "mesh.box", "inputs": [
				{"name": "size", "kind": "external", "promoted": true}
			]},
			{"id": "out", "op": "util.echo", "return_output": "result", "inputs": [
				{"name": "result", "kind": "connection", "node": "box", "output": "mesh"}
			]}
		],
		"default_target": "out"
	}`

	var g GraphDefinition
	require.NoError(t, json.Unmarshal([]byte(doc), &g))
	require.Len(t, g.Nodes, 2)
	assert.Equal(t, NodeID("out"), g.DefaultTarget)
	assert.Equal(t, InputConnection, g.Nodes[1].Inputs[0].Kind)
	assert.Equal(t, NodeID("box"), g.Nodes[1].Inputs[0].Node)
}

func TestError_Format(t *testing.T) {
	err := NewErrorf(ErrCodeMissingParam, "could not retrieve external parameter %q", "size").WithNode("box")
	assert.Equal(t, `[MISSING_EXTERNAL_PARAMETER] node box: could not retrieve external parameter "size"`, err.Error())

	bare := NewError(ErrCodeValidation, "graph has no nodes")
	assert.Equal(t, "[VALIDATION_ERROR] graph has no nodes", bare.Error())
}

func TestError_Unwrap(t *testing.T) {
	cause := errors.New("boom")
	err := NewError(ErrCodeExecution, "op failed").WithCause(cause)
	assert.ErrorIs(t, err, cause)

	var typed *Error
	require.True(t, errors.As(error(err), &typed))
	assert.Equal(t, ErrCodeExecution, typed.Code)
}

func TestValidationResult_ToError(t *testing.T) {
	var r ValidationResult
	assert.True(t, r.Valid())
	assert.NoError(t, r.ToError())

	r.AddWarning("nodes[a]", ErrCodeValidation, "node has no consumers")
	assert.True(t, r.Valid())

	r.AddError("nodes[b]", ErrCodeCycleDetected, "graph contains a dependency cycle")
	assert.False(t, r.Valid())

	err := r.ToError()
	require.Error(t, err)
	var typed *Error
	require.True(t, errors.As(err, &typed))
	assert.Equal(t, ErrCodeValidation, typed.Code)
}
