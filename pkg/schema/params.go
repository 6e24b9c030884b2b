package schema

// ExternalParameter identifies one user-set leaf input: the (node, input
// name) pair. Comparable by value, usable as a map key.
type ExternalParameter struct {
	NodeID    NodeID `json:"node_id"`
	ParamName string `json:"param_name"`
}

// NewExternalParameter builds an ExternalParameter key.
func NewExternalParameter(nodeID NodeID, paramName string) ExternalParameter {
	return ExternalParameter{NodeID: nodeID, ParamName: paramName}
}

// ExternalParameterValues maps external parameters to their user-provided
// values. The engine borrows it mutably for one evaluation pass (gizmo
// pre-hooks may write into it) and hands it back in the result.
type ExternalParameterValues map[ExternalParameter]any

// Get looks up a parameter value.
func (v ExternalParameterValues) Get(p ExternalParameter) (any, bool) {
	val, ok := v[p]
	return val, ok
}

// Set stores a parameter value.
func (v ExternalParameterValues) Set(p ExternalParameter, value any) {
	v[p] = value
}

// Clone returns a shallow copy. Values are opaque to the engine, so a
// shallow copy is as deep as the engine can meaningfully go.
func (v ExternalParameterValues) Clone() ExternalParameterValues {
	out := make(ExternalParameterValues, len(v))
	for k, val := range v {
		out[k] = val
	}
	return out
}
