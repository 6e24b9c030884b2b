package expressions

import (
	"context"
	"errors"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/HenryWConklin/blackjack/pkg/schema"
)

func assertCode(t *testing.T, err error, code string) {
	t.Helper()
	var typed *schema.Error
	require.Error(t, err)
	require.True(t, errors.As(err, &typed), "expected *schema.Error, got %T", err)
	assert.Equal(t, code, typed.Code)
}

func TestExprEngine_Evaluate(t *testing.T) {
	e := NewExprEngine()
	ctx := context.Background()

	out, err := e.Evaluate(ctx, "a + b", map[string]any{"a": 2, "b": 3})
	require.NoError(t, err)
	assert.EqualValues(t, 5, out)

	// Input names are top-level variables.
	out, err = e.Evaluate(ctx, "size * factor", map[string]any{"size": 2.0, "factor": 1.5})
	require.NoError(t, err)
	assert.EqualValues(t, 3.0, out)
}

func TestExprEngine_Errors(t *testing.T) {
	e := NewExprEngine()
	ctx := context.Background()

	_, err := e.Evaluate(ctx, "", nil)
	assertCode(t, err, schema.ErrCodeValidation)

	_, err = e.Evaluate(ctx, "a +", map[string]any{"a": 1})
	assertCode(t, err, schema.ErrCodeValidation)
}

func TestExprEngine_CacheReuse(t *testing.T) {
	e := NewExprEngine()
	ctx := context.Background()

	for i := 0; i < 3; i++ {
		out, err := e.Evaluate(ctx, "n * 2", map[string]any{"n": i})
		require.NoError(t, err)
		assert.EqualValues(t, i*2, out)
	}
	assert.Len(t, e.cache, 1)
}

func TestCELEngine_Evaluate(t *testing.T) {
	e, err := NewCELEngine()
	require.NoError(t, err)
	ctx := context.Background()

	out, err := e.Evaluate(ctx, `inputs.cond ? inputs.a : inputs.b`, map[string]any{
		"inputs": map[string]any{"cond": true, "a": "yes", "b": "no"},
	})
	require.NoError(t, err)
	assert.Equal(t, "yes", out)

	// Missing inputs key defaults to an empty map rather than erroring out
	// at activation time.
	out, err = e.Evaluate(ctx, `size(inputs) == 0`, nil)
	require.NoError(t, err)
	assert.Equal(t, true, out)
}

func TestCELEngine_CompileError(t *testing.T) {
	e, err := NewCELEngine()
	require.NoError(t, err)

	_, err = e.Evaluate(context.Background(), "inputs.(", nil)
	assertCode(t, err, schema.ErrCodeValidation)
}

func TestGoJQEngine_Evaluate(t *testing.T) {
	e := NewGoJQEngine()
	ctx := context.Background()

	out, err := e.Evaluate(ctx, `{sum: (.a + .b)}`, map[string]any{"a": 1, "b": 2})
	require.NoError(t, err)
	assert.Equal(t, map[string]any{"sum": 3.0}, out)
}

func TestGoJQEngine_MultipleOutputs(t *testing.T) {
	e := NewGoJQEngine()

	out, err := e.Evaluate(context.Background(), `.items[]`, map[string]any{
		"items": []any{1, 2},
	})
	require.NoError(t, err)
	assert.Equal(t, []any{1.0, 2.0}, out)
}

func TestGoJQEngine_ParseError(t *testing.T) {
	e := NewGoJQEngine()
	_, err := e.Evaluate(context.Background(), `.a |`, nil)
	assertCode(t, err, schema.ErrCodeValidation)
}

func TestEngineNames(t *testing.T) {
	assert.Equal(t, "expr", NewExprEngine().Name())
	assert.Equal(t, "jq", NewGoJQEngine().Name())
	cel, err := NewCELEngine()
	require.NoError(t, err)
	assert.Equal(t, "cel", cel.Name())
}
