package ops

import (
	"context"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/HenryWConklin/blackjack/pkg/schema"
)

func TestExprOp_Call(t *testing.T) {
	op := NewExprOp("math.add", "", map[string]string{
		"sum":  "a + b",
		"diff": "a - b",
	})

	out, err := op.Call(context.Background(), map[string]any{"a": 5, "b": 3})
	require.NoError(t, err)
	assert.EqualValues(t, 8, out["sum"])
	assert.EqualValues(t, 2, out["diff"])
	assert.False(t, op.Info().HasGizmo)
}

func TestExprOp_BadExpression(t *testing.T) {
	op := NewExprOp("bad", "", map[string]string{"out": "a +"})
	_, err := op.Call(context.Background(), map[string]any{"a": 1})
	require.Error(t, err)
	var typed *schema.Error
	require.ErrorAs(t, err, &typed)
	assert.Equal(t, schema.ErrCodeValidation, typed.Code)
}

func TestCELOp_Call(t *testing.T) {
	op, err := NewCELOp("logic.select", "", map[string]string{
		"value": "inputs.cond ? inputs.a : inputs.b",
	})
	require.NoError(t, err)

	out, err := op.Call(context.Background(), map[string]any{
		"cond": false, "a": "yes", "b": "no",
	})
	require.NoError(t, err)
	assert.Equal(t, "no", out["value"])
}

func TestJQOp_Call(t *testing.T) {
	op := NewJQOp("reshape", "", `{total: (.x + .y), pair: [.x, .y]}`)

	out, err := op.Call(context.Background(), map[string]any{"x": 1, "y": 2})
	require.NoError(t, err)
	assert.Equal(t, 3.0, out["total"])
	assert.Equal(t, []any{1.0, 2.0}, out["pair"])
}

func TestJQOp_NonObjectResult(t *testing.T) {
	op := NewJQOp("scalar", "", `.x + .y`)

	_, err := op.Call(context.Background(), map[string]any{"x": 1, "y": 2})
	require.Error(t, err)
	var typed *schema.Error
	require.ErrorAs(t, err, &typed)
	assert.Equal(t, schema.ErrCodeExecution, typed.Code)
}

func TestFuncOp_GizmoInterface(t *testing.T) {
	plain := NewFuncOp(FuncOpConfig{
		Name: "plain",
		Fn: func(_ context.Context, in map[string]any) (map[string]any, error) {
			return in, nil
		},
	})
	_, isGizmo := plain.(GizmoOperation)
	assert.False(t, isGizmo)
	assert.False(t, plain.Info().HasGizmo)

	// Claims gizmo support without hooks: Info advertises it, the
	// interface assertion fails, the combination the engine reports
	// as GIZMO_HOOK_MISSING.
	claiming := NewFuncOp(FuncOpConfig{
		Name:     "claiming",
		HasGizmo: true,
		Fn: func(_ context.Context, in map[string]any) (map[string]any, error) {
			return in, nil
		},
	})
	_, isGizmo = claiming.(GizmoOperation)
	assert.False(t, isGizmo)
	assert.True(t, claiming.Info().HasGizmo)
}

func TestTranslateOp_GizmoRoundTrip(t *testing.T) {
	op := newTranslateOp()
	gop, ok := op.(GizmoOperation)
	require.True(t, ok)
	ctx := context.Background()

	// Prior gizmo state overrides the offset input.
	inputs := map[string]any{"point": 1.0, "offset": 2.0}
	rewritten, err := gop.PreGizmo(ctx, inputs, []schema.Gizmo{
		{Kind: GizmoKindTranslate, State: map[string]any{"offset": 10.0}},
	})
	require.NoError(t, err)
	assert.Equal(t, 10.0, rewritten["offset"])

	out, err := op.Call(ctx, rewritten)
	require.NoError(t, err)
	assert.Equal(t, 11.0, out["point"])

	gizmos, err := gop.PostGizmo(ctx, out)
	require.NoError(t, err)
	require.Len(t, gizmos, 1)
	assert.Equal(t, GizmoKindTranslate, gizmos[0].Kind)
	assert.Equal(t, 11.0, gizmos[0].State["position"])
}
