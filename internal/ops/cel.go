package ops

import (
	"context"
	"fmt"
	"sort"

	"github.com/HenryWConklin/blackjack/internal/expressions"
)

// CELOp is an operation whose outputs are CEL expressions over its input
// map. Used for guard and selector style nodes where CEL's sandboxed,
// non-Turing-complete semantics are a better fit than full expressions.
type CELOp struct {
	name        string
	description string
	outputs     map[string]string // output name → CEL source
	engine      *expressions.CELEngine
}

// NewCELOp declares a CEL-backed operation. Inputs are reachable inside the
// expressions under the "inputs" variable, e.g. "inputs.cond ? inputs.a : inputs.b".
func NewCELOp(name, description string, outputs map[string]string) (*CELOp, error) {
	engine, err := expressions.NewCELEngine()
	if err != nil {
		return nil, fmt.Errorf("cel op %s: %w", name, err)
	}
	return &CELOp{
		name:        name,
		description: description,
		outputs:     outputs,
		engine:      engine,
	}, nil
}

func (o *CELOp) Name() string { return o.name }

func (o *CELOp) Info() OpInfo {
	return OpInfo{Description: o.description}
}

// Call evaluates every output expression, in name order, against the inputs.
func (o *CELOp) Call(ctx context.Context, inputs map[string]any) (map[string]any, error) {
	names := make([]string, 0, len(o.outputs))
	for name := range o.outputs {
		names = append(names, name)
	}
	sort.Strings(names)

	data := map[string]any{"inputs": inputs}
	out := make(map[string]any, len(names))
	for _, name := range names {
		val, err := o.engine.Evaluate(ctx, o.outputs[name], data)
		if err != nil {
			return nil, err
		}
		out[name] = val
	}
	return out, nil
}

var _ Operation = (*CELOp)(nil)
