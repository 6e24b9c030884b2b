package diagram

// NodeKind classifies a diagram node for shape and styling.
type NodeKind string

const (
	// NodeKindOp is a regular computation node.
	NodeKindOp NodeKind = "op"
	// NodeKindTarget is the evaluation target.
	NodeKindTarget NodeKind = "target"
	// NodeKindParam is an external parameter pseudo-node.
	NodeKindParam NodeKind = "param"
)

// Model is the intermediate representation used by all renderers.
type Model struct {
	Title string
	Nodes []Node
	Edges []Edge
}

// Node is a single box in the diagram.
type Node struct {
	ID       string
	Label    string
	Kind     NodeKind
	Promoted bool // param pseudo-nodes only
}

// Edge is a directed dependency between two nodes.
type Edge struct {
	From  string
	To    string
	Label string
	// Dashed marks external parameter feeds.
	Dashed bool
}
