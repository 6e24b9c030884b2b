package engine

import "github.com/HenryWConklin/blackjack/pkg/schema"

// Renderable wraps the value extracted from the target node's declared
// return output. What the value means (a mesh, a curve, a scalar) is
// the renderer's business; the engine only carries it out of the pass.
type Renderable struct {
	Value any `json:"value"`
}

// ProgramResult is the bundle produced by one evaluation pass.
type ProgramResult struct {
	// Renderable is the target's extracted return output. Nil when the
	// target declares no return output, which is valid: some targets
	// exist only for their gizmo side effects.
	Renderable *Renderable

	// UpdatedGizmos is the gizmo state produced by the target's post-gizmo
	// hook. Non-nil (possibly empty) iff gizmos were enabled for the pass.
	UpdatedGizmos []schema.Gizmo

	// UpdatedValues is the external parameter store handed back to the
	// caller, including any writes made by gizmo hooks during the pass.
	UpdatedValues schema.ExternalParameterValues
}
