package schema

// Gizmo is one piece of interactive state attached to the evaluation
// target: derived from the target's outputs by its post-gizmo hook, and
// optionally fed back into its inputs by the pre-gizmo hook on the next
// pass. The engine treats the state as opaque; its meaning belongs to the
// operation and the UI layer driving it.
type Gizmo struct {
	Kind  string         `json:"kind"`
	State map[string]any `json:"state,omitempty"`
}
