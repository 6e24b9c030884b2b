package expressions

import "context"

// Engine evaluates expressions inside node operations.
// Three implementations: Expr (arithmetic/logic outputs), CEL (guards and
// selectors), GoJQ (reshaping input maps into output maps).
type Engine interface {
	Name() string
	Evaluate(ctx context.Context, expression string, data map[string]any) (any, error)
}
