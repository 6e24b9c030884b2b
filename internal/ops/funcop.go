package ops

import (
	"context"

	"github.com/HenryWConklin/blackjack/pkg/schema"
)

// OpFunc is the signature of a plain-function operation body.
type OpFunc func(ctx context.Context, inputs map[string]any) (map[string]any, error)

// PreGizmoFunc rewrites the input map from prior gizmo state.
type PreGizmoFunc func(ctx context.Context, inputs map[string]any, gizmosIn []schema.Gizmo) (map[string]any, error)

// PostGizmoFunc derives gizmo state from the output map.
type PostGizmoFunc func(ctx context.Context, outputs map[string]any) ([]schema.Gizmo, error)

// FuncOpConfig declares a function-backed operation.
type FuncOpConfig struct {
	Name        string
	Description string
	HasGizmo    bool
	Fn          OpFunc
	PreFn       PreGizmoFunc
	PostFn      PostGizmoFunc
}

// NewFuncOp builds an Operation from plain functions. When both gizmo hooks
// are provided the returned value also implements GizmoOperation. Setting
// HasGizmo without hooks yields an operation that claims gizmo support but
// cannot honor it, which the engine reports as GIZMO_HOOK_MISSING.
func NewFuncOp(cfg FuncOpConfig) Operation {
	base := &funcOp{cfg: cfg}
	if cfg.PreFn != nil && cfg.PostFn != nil {
		return &gizmoFuncOp{funcOp: base}
	}
	return base
}

type funcOp struct {
	cfg FuncOpConfig
}

func (o *funcOp) Name() string { return o.cfg.Name }

func (o *funcOp) Info() OpInfo {
	return OpInfo{
		Description: o.cfg.Description,
		HasGizmo:    o.cfg.HasGizmo || (o.cfg.PreFn != nil && o.cfg.PostFn != nil),
	}
}

func (o *funcOp) Call(ctx context.Context, inputs map[string]any) (map[string]any, error) {
	if o.cfg.Fn == nil {
		return nil, schema.NewErrorf(schema.ErrCodeOpContract, "operation %q has no body", o.cfg.Name)
	}
	return o.cfg.Fn(ctx, inputs)
}

type gizmoFuncOp struct {
	*funcOp
}

func (o *gizmoFuncOp) PreGizmo(ctx context.Context, inputs map[string]any, gizmosIn []schema.Gizmo) (map[string]any, error) {
	return o.cfg.PreFn(ctx, inputs, gizmosIn)
}

func (o *gizmoFuncOp) PostGizmo(ctx context.Context, outputs map[string]any) ([]schema.Gizmo, error) {
	return o.cfg.PostFn(ctx, outputs)
}

var (
	_ Operation      = (*funcOp)(nil)
	_ GizmoOperation = (*gizmoFuncOp)(nil)
)
