package ops

import (
	"context"

	"github.com/HenryWConklin/blackjack/pkg/schema"
)

// Operation is an executable unit of work bound to a graph node.
// Call receives the node's resolved input map and must return the output
// map consumed by downstream nodes. A nil output map without an error is a
// contract violation reported by the engine.
type Operation interface {
	Name() string
	Info() OpInfo
	Call(ctx context.Context, inputs map[string]any) (map[string]any, error)
}

// GizmoOperation is implemented by operations that expose interactive
// gizmos. The engine invokes the hooks only on the evaluation target:
// PreGizmo may rewrite the input map from prior gizmo state before the
// main call, PostGizmo derives fresh gizmo state from the outputs.
type GizmoOperation interface {
	Operation
	PreGizmo(ctx context.Context, inputs map[string]any, gizmosIn []schema.Gizmo) (map[string]any, error)
	PostGizmo(ctx context.Context, outputs map[string]any) ([]schema.Gizmo, error)
}

// OpInfo describes a registered operation.
type OpInfo struct {
	Description string `json:"description,omitempty"`

	// HasGizmo declares gizmo support. An operation declaring it without
	// implementing GizmoOperation fails the pass with GIZMO_HOOK_MISSING.
	HasGizmo bool `json:"has_gizmo,omitempty"`
}

// Resolver is the lookup surface the engine needs. Satisfied by *Registry
// and test mocks.
type Resolver interface {
	Get(name string) (Operation, error)
}

type paramValuesKey struct{}

// WithParamValues attaches the pass's external parameter store to the
// context handed to operations and gizmo hooks. The engine sets this so
// interactive hooks can write edited values back without widening the
// hook signatures.
func WithParamValues(ctx context.Context, values schema.ExternalParameterValues) context.Context {
	return context.WithValue(ctx, paramValuesKey{}, values)
}

// ParamValues extracts the pass's external parameter store from the
// context, or nil if the caller did not attach one.
func ParamValues(ctx context.Context) schema.ExternalParameterValues {
	v, _ := ctx.Value(paramValuesKey{}).(schema.ExternalParameterValues)
	return v
}
