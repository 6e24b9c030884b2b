package ops

import (
	"context"
	"errors"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/HenryWConklin/blackjack/pkg/schema"
)

// stubOp is a minimal Operation for registry tests.
type stubOp struct {
	name string
	desc string
}

func (s *stubOp) Name() string { return s.name }
func (s *stubOp) Info() OpInfo {
	return OpInfo{Description: s.desc}
}
func (s *stubOp) Call(_ context.Context, _ map[string]any) (map[string]any, error) {
	return map[string]any{"ok": true}, nil
}

func TestRegistry_Register_Success(t *testing.T) {
	reg := NewRegistry()
	err := reg.Register(&stubOp{name: "test.op", desc: "A test op"})
	require.NoError(t, err)
	assert.Equal(t, 1, reg.Count())
	assert.True(t, reg.Has("test.op"))
}

func TestRegistry_Register_Duplicate(t *testing.T) {
	reg := NewRegistry()
	require.NoError(t, reg.Register(&stubOp{name: "dup"}))

	err := reg.Register(&stubOp{name: "dup"})
	require.Error(t, err)

	var typed *schema.Error
	require.True(t, errors.As(err, &typed))
	assert.Equal(t, schema.ErrCodeConflict, typed.Code)
}

func TestRegistry_Register_Nil(t *testing.T) {
	reg := NewRegistry()
	err := reg.Register(nil)
	require.Error(t, err)

	var typed *schema.Error
	require.True(t, errors.As(err, &typed))
	assert.Equal(t, schema.ErrCodeValidation, typed.Code)
}

func TestRegistry_Register_EmptyName(t *testing.T) {
	reg := NewRegistry()
	err := reg.Register(&stubOp{name: ""})
	require.Error(t, err)

	var typed *schema.Error
	require.True(t, errors.As(err, &typed))
	assert.Equal(t, schema.ErrCodeValidation, typed.Code)
}

func TestRegistry_Get_Unknown(t *testing.T) {
	reg := NewRegistry()
	_, err := reg.Get("nope")
	require.Error(t, err)

	var typed *schema.Error
	require.True(t, errors.As(err, &typed))
	assert.Equal(t, schema.ErrCodeUnknownOperation, typed.Code)
}

func TestRegistry_Get_Found(t *testing.T) {
	reg := NewRegistry()
	require.NoError(t, reg.Register(&stubOp{name: "test.op"}))

	op, err := reg.Get("test.op")
	require.NoError(t, err)
	assert.Equal(t, "test.op", op.Name())
}

func TestRegistry_List_Sorted(t *testing.T) {
	reg := NewRegistry()
	require.NoError(t, reg.Register(&stubOp{name: "zeta", desc: "last"}))
	require.NoError(t, reg.Register(&stubOp{name: "alpha", desc: "first"}))

	list := reg.List()
	require.Len(t, list, 2)
	assert.Equal(t, "alpha", list[0].Name)
	assert.Equal(t, "zeta", list[1].Name)
}

func TestRegisterBuiltins(t *testing.T) {
	reg := NewRegistry()
	require.NoError(t, RegisterBuiltins(reg))

	for _, name := range []string{
		"util.echo", "math.add", "math.scale",
		"transform.identity", "logic.select", "point.translate",
	} {
		assert.True(t, reg.Has(name), "missing builtin %s", name)
	}

	// point.translate is the gizmo-enabled builtin.
	op, err := reg.Get("point.translate")
	require.NoError(t, err)
	assert.True(t, op.Info().HasGizmo)
	_, isGizmo := op.(GizmoOperation)
	assert.True(t, isGizmo)
}
