package schema

// NodeID uniquely identifies a node within a graph.
type NodeID string

// GraphDefinition is the JSON-serializable graph format: a flat list of
// nodes wired together by name. Editors and the store exchange graphs in
// this shape; the engine parses it into an indexed form before evaluation.
type GraphDefinition struct {
	Nodes []NodeDefinition `json:"nodes"`

	// DefaultTarget is the node evaluated by headless runs (CLI, bake jobs)
	// when the caller does not name an explicit target.
	DefaultTarget NodeID `json:"default_target,omitempty"`

	Metadata map[string]any `json:"metadata,omitempty"`
}

// NodeDefinition describes a single computation node.
type NodeDefinition struct {
	ID NodeID `json:"id"`

	// Op is the operation name, resolved against the op registry at run time.
	Op string `json:"op"`

	// Inputs is the ordered list of declared inputs.
	Inputs []Input `json:"inputs,omitempty"`

	// ReturnOutput selects which output becomes the graph's final result.
	// Only meaningful on the node chosen as evaluation target. Empty means
	// the node produces no renderable (it may exist for gizmo side effects).
	ReturnOutput string `json:"return_output,omitempty"`
}

// InputKind discriminates how an input gets its value.
type InputKind string

const (
	// InputConnection means the value comes from another node's output.
	InputConnection InputKind = "connection"
	// InputExternal means the value is user-set via the external parameter store.
	InputExternal InputKind = "external"
)

// Input is one named input of a node.
type Input struct {
	Name string    `json:"name"`
	Kind InputKind `json:"kind"`

	// Node and Output identify the producer for connection inputs.
	Node   NodeID `json:"node,omitempty"`
	Output string `json:"output,omitempty"`

	// Promoted marks an external input as exposed upward for editing.
	// Metadata for UI layers; irrelevant to evaluation.
	Promoted bool `json:"promoted,omitempty"`
}

// Node returns the node with the given id, or nil if absent.
func (g *GraphDefinition) Node(id NodeID) *NodeDefinition {
	for i := range g.Nodes {
		if g.Nodes[i].ID == id {
			return &g.Nodes[i]
		}
	}
	return nil
}

// PromotedParams lists the external parameters flagged as promoted,
// in node declaration order. UI layers use this to build editing panels.
func (g *GraphDefinition) PromotedParams() []ExternalParameter {
	var params []ExternalParameter
	for _, n := range g.Nodes {
		for _, in := range n.Inputs {
			if in.Kind == InputExternal && in.Promoted {
				params = append(params, ExternalParameter{NodeID: n.ID, ParamName: in.Name})
			}
		}
	}
	return params
}
