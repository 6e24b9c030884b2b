package engine

import (
	"fmt"

	"github.com/HenryWConklin/blackjack/pkg/schema"
)

// Graph is the in-memory indexed form of a GraphDefinition, used by the
// interpreter to resolve nodes by id. Immutable for the duration of an
// evaluation pass.
type Graph struct {
	Nodes  map[schema.NodeID]*schema.NodeDefinition // node ID → definition
	Sorted []schema.NodeID                          // topological order, dependencies first
	Roots  []schema.NodeID                          // nodes with no connection inputs
}

// ParseGraph parses a GraphDefinition into an evaluable Graph.
// It validates node ids and input wiring, builds the id index, performs
// topological sorting using Kahn's algorithm, and detects cycles.
func ParseGraph(def *schema.GraphDefinition) (*Graph, error) {
	if def == nil {
		return nil, schema.NewError(schema.ErrCodeValidation, "graph definition is nil")
	}

	if len(def.Nodes) == 0 {
		return nil, schema.NewError(schema.ErrCodeValidation, "graph has no nodes")
	}

	g := &Graph{
		Nodes: make(map[schema.NodeID]*schema.NodeDefinition, len(def.Nodes)),
	}

	// First pass: register all nodes and check for duplicates.
	for i := range def.Nodes {
		node := &def.Nodes[i]

		if node.ID == "" {
			return nil, schema.NewError(schema.ErrCodeValidation, fmt.Sprintf("node at index %d has empty ID", i))
		}

		if _, exists := g.Nodes[node.ID]; exists {
			return nil, schema.NewErrorf(schema.ErrCodeValidation, "duplicate node ID: %s", node.ID)
		}

		if node.Op == "" {
			return nil, schema.NewErrorf(schema.ErrCodeValidation, "node %s has no operation name", node.ID)
		}

		g.Nodes[node.ID] = node
	}

	// Second pass: validate input wiring and build adjacency lists.
	// edges[id] = producers node id depends on, reverse[id] = consumers.
	edges := make(map[schema.NodeID][]schema.NodeID, len(def.Nodes))
	reverse := make(map[schema.NodeID][]schema.NodeID, len(def.Nodes))

	for id, node := range g.Nodes {
		seenInputs := make(map[string]bool, len(node.Inputs))
		seenDeps := make(map[schema.NodeID]bool, len(node.Inputs))

		for _, in := range node.Inputs {
			if in.Name == "" {
				return nil, schema.NewErrorf(schema.ErrCodeValidation, "node %s has an unnamed input", id)
			}
			if seenInputs[in.Name] {
				return nil, schema.NewErrorf(schema.ErrCodeValidation, "node %s has duplicate input: %s", id, in.Name)
			}
			seenInputs[in.Name] = true

			switch in.Kind {
			case schema.InputExternal:
				// Leaf input, no edge.

			case schema.InputConnection:
				if in.Node == "" || in.Output == "" {
					return nil, schema.NewErrorf(schema.ErrCodeValidation,
						"node %s input %s is a connection without a producer node and output", id, in.Name)
				}
				if _, exists := g.Nodes[in.Node]; !exists {
					return nil, schema.NewErrorf(schema.ErrCodeValidation,
						"node %s input %s references non-existent node: %s", id, in.Name, in.Node)
				}
				if in.Node == id {
					return nil, schema.NewErrorf(schema.ErrCodeCycleDetected, "node %s depends on itself", id)
				}
				// Two inputs fed by the same producer count as one edge.
				if !seenDeps[in.Node] {
					seenDeps[in.Node] = true
					edges[id] = append(edges[id], in.Node)
					reverse[in.Node] = append(reverse[in.Node], id)
				}

			default:
				return nil, schema.NewErrorf(schema.ErrCodeValidation,
					"node %s input %s has unknown kind: %s", id, in.Name, in.Kind)
			}
		}
	}

	// Kahn's algorithm: topological sort + cycle detection.
	inDegree := make(map[schema.NodeID]int, len(g.Nodes))
	for id := range g.Nodes {
		inDegree[id] = len(edges[id])
	}

	// Queue nodes with in-degree 0 (roots).
	queue := make([]schema.NodeID, 0)
	for id, deg := range inDegree {
		if deg == 0 {
			queue = append(queue, id)
		}
	}

	// Sort roots for deterministic ordering.
	sortNodeIDs(queue)
	g.Roots = make([]schema.NodeID, len(queue))
	copy(g.Roots, queue)

	sorted := make([]schema.NodeID, 0, len(g.Nodes))
	for len(queue) > 0 {
		node := queue[0]
		queue = queue[1:]
		sorted = append(sorted, node)

		// For each consumer of this node, decrement its in-degree.
		consumers := make([]schema.NodeID, len(reverse[node]))
		copy(consumers, reverse[node])
		sortNodeIDs(consumers)

		for _, c := range consumers {
			inDegree[c]--
			if inDegree[c] == 0 {
				queue = append(queue, c)
			}
		}
	}

	if len(sorted) != len(g.Nodes) {
		return nil, schema.NewError(schema.ErrCodeCycleDetected, "graph contains a dependency cycle")
	}

	g.Sorted = sorted

	if def.DefaultTarget != "" {
		if _, exists := g.Nodes[def.DefaultTarget]; !exists {
			return nil, schema.NewErrorf(schema.ErrCodeValidation,
				"default target references non-existent node: %s", def.DefaultTarget)
		}
	}

	return g, nil
}

// sortNodeIDs sorts a slice of node ids in-place using insertion sort.
// Used for small slices to avoid importing sort package.
func sortNodeIDs(s []schema.NodeID) {
	for i := 1; i < len(s); i++ {
		key := s[i]
		j := i - 1
		for j >= 0 && s[j] > key {
			s[j+1] = s[j]
			j--
		}
		s[j+1] = key
	}
}
