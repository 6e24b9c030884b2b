package ops

import (
	"context"

	"github.com/HenryWConklin/blackjack/internal/expressions"
	"github.com/HenryWConklin/blackjack/pkg/schema"
)

// JQOp is an operation backed by a single jq program that reshapes the
// input map into the output map. The program must produce a JSON object;
// anything else is an execution error since downstream nodes read outputs
// by name.
type JQOp struct {
	name        string
	description string
	program     string
	engine      *expressions.GoJQEngine
}

// NewJQOp declares a jq-backed operation.
func NewJQOp(name, description, program string) *JQOp {
	return &JQOp{
		name:        name,
		description: description,
		program:     program,
		engine:      expressions.NewGoJQEngine(),
	}
}

func (o *JQOp) Name() string { return o.name }

func (o *JQOp) Info() OpInfo {
	return OpInfo{Description: o.description}
}

func (o *JQOp) Call(ctx context.Context, inputs map[string]any) (map[string]any, error) {
	result, err := o.engine.Evaluate(ctx, o.program, inputs)
	if err != nil {
		return nil, err
	}

	out, ok := result.(map[string]any)
	if !ok {
		return nil, schema.NewErrorf(schema.ErrCodeExecution,
			"jq operation %q must produce an object, got %T", o.name, result)
	}
	return out, nil
}

var _ Operation = (*JQOp)(nil)
