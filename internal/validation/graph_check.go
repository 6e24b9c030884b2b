package validation

import (
	"fmt"
	"sort"

	"github.com/HenryWConklin/blackjack/pkg/schema"
)

// validateDAG performs graph analysis: cycle detection (Kahn's algorithm)
// and, when a default target is declared, a dead-node check against the
// target's dependency closure.
func validateDAG(def *schema.GraphDefinition) *schema.ValidationResult {
	result := &schema.ValidationResult{}

	nodeIDs := make(map[schema.NodeID]bool, len(def.Nodes))
	for _, n := range def.Nodes {
		nodeIDs[n.ID] = true
	}

	// deps[id] = producers of node id, dependents[id] = consumers of node id.
	deps := make(map[schema.NodeID][]schema.NodeID, len(def.Nodes))
	dependents := make(map[schema.NodeID][]schema.NodeID, len(def.Nodes))

	for _, n := range def.Nodes {
		seen := make(map[schema.NodeID]bool, len(n.Inputs))
		for _, in := range n.Inputs {
			if in.Kind != schema.InputConnection {
				continue
			}
			if !nodeIDs[in.Node] || in.Node == n.ID || seen[in.Node] {
				continue // invalid refs already caught by semantic
			}
			seen[in.Node] = true
			deps[n.ID] = append(deps[n.ID], in.Node)
			dependents[in.Node] = append(dependents[in.Node], n.ID)
		}
	}

	// Kahn's algorithm for cycle detection.
	inDegree := make(map[schema.NodeID]int, len(def.Nodes))
	for id := range nodeIDs {
		inDegree[id] = len(deps[id])
	}

	queue := make([]schema.NodeID, 0, len(def.Nodes))
	for id, deg := range inDegree {
		if deg == 0 {
			queue = append(queue, id)
		}
	}
	// Sort roots for deterministic output.
	sort.Slice(queue, func(i, j int) bool { return queue[i] < queue[j] })

	visited := 0
	for len(queue) > 0 {
		node := queue[0]
		queue = queue[1:]
		visited++
		for _, dep := range dependents[node] {
			inDegree[dep]--
			if inDegree[dep] == 0 {
				queue = append(queue, dep)
			}
		}
	}

	if visited != len(nodeIDs) {
		result.AddError("nodes", schema.ErrCodeCycleDetected, "graph contains a dependency cycle")
		return result // cycle makes the closure analysis meaningless
	}

	// Dead-node check: everything outside the default target's dependency
	// closure is never evaluated by a headless run.
	if def.DefaultTarget == "" || !nodeIDs[def.DefaultTarget] {
		return result
	}

	needed := map[schema.NodeID]bool{def.DefaultTarget: true}
	bfsQueue := []schema.NodeID{def.DefaultTarget}
	for len(bfsQueue) > 0 {
		node := bfsQueue[0]
		bfsQueue = bfsQueue[1:]
		for _, dep := range deps[node] {
			if !needed[dep] {
				needed[dep] = true
				bfsQueue = append(bfsQueue, dep)
			}
		}
	}

	for _, n := range def.Nodes {
		if !needed[n.ID] {
			result.AddWarning(fmt.Sprintf("nodes[%s]", n.ID),
				schema.ErrCodeValidation,
				fmt.Sprintf("node %q is not a dependency of default target %q", n.ID, def.DefaultTarget))
		}
	}

	return result
}
