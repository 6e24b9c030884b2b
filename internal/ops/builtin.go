package ops

import (
	"context"

	"github.com/HenryWConklin/blackjack/pkg/schema"
)

// RegisterBuiltins registers the built-in operation library in the given
// registry. Concrete node semantics (meshes, curves) live in external op
// packs; the builtins are the generic plumbing nodes every graph needs.
func RegisterBuiltins(reg *Registry) error {
	all := []Operation{
		// util.echo copies its inputs to its outputs unchanged. Useful as a
		// terminal node that just forwards a value under a declared name.
		NewFuncOp(FuncOpConfig{
			Name:        "util.echo",
			Description: "Copy all inputs to outputs unchanged",
			Fn: func(_ context.Context, inputs map[string]any) (map[string]any, error) {
				out := make(map[string]any, len(inputs))
				for k, v := range inputs {
					out[k] = v
				}
				return out, nil
			},
		}),

		NewExprOp("math.add", "Sum two numbers", map[string]string{
			"sum": "a + b",
		}),
		NewExprOp("math.scale", "Multiply a value by a factor", map[string]string{
			"result": "value * factor",
		}),

		NewJQOp("transform.identity", "Pass the input object through jq unchanged", "."),

		newTranslateOp(),
	}

	selectOp, err := NewCELOp("logic.select", "Choose between two inputs by condition", map[string]string{
		"value": "inputs.cond ? inputs.a : inputs.b",
	})
	if err != nil {
		return err
	}
	all = append(all, selectOp)

	for _, op := range all {
		if err := reg.Register(op); err != nil {
			return err
		}
	}
	return nil
}

// GizmoKindTranslate is the gizmo kind emitted by point.translate.
const GizmoKindTranslate = "translate"

// newTranslateOp builds the one gizmo-enabled builtin: point.translate adds
// an offset to a point and exposes the offset through a translate gizmo so
// a UI can drag the result and feed the new offset back into the next pass.
func newTranslateOp() Operation {
	return NewFuncOp(FuncOpConfig{
		Name:        "point.translate",
		Description: "Translate a point by an offset, with an interactive translate gizmo",
		Fn: func(_ context.Context, inputs map[string]any) (map[string]any, error) {
			point, _ := toFloat(inputs["point"])
			offset, _ := toFloat(inputs["offset"])
			return map[string]any{"point": point + offset}, nil
		},
		PreFn: func(_ context.Context, inputs map[string]any, gizmosIn []schema.Gizmo) (map[string]any, error) {
			for _, g := range gizmosIn {
				if g.Kind != GizmoKindTranslate {
					continue
				}
				if v, ok := g.State["offset"]; ok {
					inputs["offset"] = v
				}
			}
			return inputs, nil
		},
		PostFn: func(_ context.Context, outputs map[string]any) ([]schema.Gizmo, error) {
			return []schema.Gizmo{{
				Kind:  GizmoKindTranslate,
				State: map[string]any{"position": outputs["point"]},
			}}, nil
		},
	})
}

func toFloat(v any) (float64, bool) {
	switch n := v.(type) {
	case float64:
		return n, true
	case float32:
		return float64(n), true
	case int:
		return float64(n), true
	case int64:
		return float64(n), true
	default:
		return 0, false
	}
}
