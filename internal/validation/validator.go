package validation

import "github.com/HenryWConklin/blackjack/pkg/schema"

// Validator checks graph definitions for correctness before evaluation.
// Uses JSON Schema Draft 2020-12 for structural validation.
type Validator interface {
	ValidateDefinition(def *schema.GraphDefinition) error
	ValidateParamValue(value any, valueSchema []byte) error
}

// OpLookup answers whether an operation name is registered. The op
// registry satisfies it.
type OpLookup interface {
	Has(name string) bool
}
