package ops

import (
	"context"
	"sort"

	"github.com/HenryWConklin/blackjack/internal/expressions"
)

// ExprOp is an operation whose outputs are Expr expressions over its input
// map. Node kinds can be declared as expression sets and registered by name
// without recompiling the engine, a stand-in for a scripted node library.
type ExprOp struct {
	name        string
	description string
	outputs     map[string]string // output name → expr source
	engine      *expressions.ExprEngine
}

// NewExprOp declares an expression-backed operation. Each entry in outputs
// maps an output name to an Expr expression; input names are available as
// top-level variables inside the expressions.
func NewExprOp(name, description string, outputs map[string]string) *ExprOp {
	return &ExprOp{
		name:        name,
		description: description,
		outputs:     outputs,
		engine:      expressions.NewExprEngine(),
	}
}

func (o *ExprOp) Name() string { return o.name }

func (o *ExprOp) Info() OpInfo {
	return OpInfo{Description: o.description}
}

// Call evaluates every output expression against the input map. Outputs are
// evaluated in name order so failures are deterministic.
func (o *ExprOp) Call(ctx context.Context, inputs map[string]any) (map[string]any, error) {
	names := make([]string, 0, len(o.outputs))
	for name := range o.outputs {
		names = append(names, name)
	}
	sort.Strings(names)

	out := make(map[string]any, len(names))
	for _, name := range names {
		val, err := o.engine.Evaluate(ctx, o.outputs[name], inputs)
		if err != nil {
			return nil, err
		}
		out[name] = val
	}
	return out, nil
}

var _ Operation = (*ExprOp)(nil)
