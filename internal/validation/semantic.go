package validation

import (
	"fmt"

	"github.com/HenryWConklin/blackjack/pkg/schema"
)

// validateSemantic performs semantic analysis on the graph definition.
// Checks: op names registered, connection references resolve, input names
// unique per node, input fields consistent with their kind.
func validateSemantic(def *schema.GraphDefinition, lookup OpLookup) *schema.ValidationResult {
	result := &schema.ValidationResult{}

	nodeIDs := make(map[schema.NodeID]bool, len(def.Nodes))
	for _, n := range def.Nodes {
		nodeIDs[n.ID] = true
	}

	for i := range def.Nodes {
		path := fmt.Sprintf("nodes[%d]", i)
		validateNodeSemantic(&def.Nodes[i], path, nodeIDs, lookup, result)
	}

	if def.DefaultTarget != "" && !nodeIDs[def.DefaultTarget] {
		result.AddError("default_target", schema.ErrCodeValidation,
			fmt.Sprintf("references non-existent node %q", def.DefaultTarget))
	}

	return result
}

func validateNodeSemantic(node *schema.NodeDefinition, path string, nodeIDs map[schema.NodeID]bool, lookup OpLookup, result *schema.ValidationResult) {
	// Op existence.
	if node.Op != "" && lookup != nil && !lookup.Has(node.Op) {
		result.AddError(path+".op", schema.ErrCodeUnknownOperation,
			fmt.Sprintf("operation %q not registered", node.Op))
	}

	seen := make(map[string]bool, len(node.Inputs))
	for j, in := range node.Inputs {
		inPath := fmt.Sprintf("%s.inputs[%d]", path, j)

		if seen[in.Name] {
			result.AddError(inPath+".name", schema.ErrCodeValidation,
				fmt.Sprintf("duplicate input name %q", in.Name))
		}
		seen[in.Name] = true

		switch in.Kind {
		case schema.InputConnection:
			if in.Node == "" || in.Output == "" {
				result.AddError(inPath, schema.ErrCodeValidation,
					"connection input requires node and output")
				continue
			}
			if !nodeIDs[in.Node] {
				result.AddError(inPath+".node", schema.ErrCodeValidation,
					fmt.Sprintf("references non-existent node %q", in.Node))
			}
			if in.Node == node.ID {
				result.AddError(inPath+".node", schema.ErrCodeCycleDetected,
					fmt.Sprintf("node %q connects to itself", node.ID))
			}
			if in.Promoted {
				result.AddWarning(inPath+".promoted", schema.ErrCodeValidation,
					"promoted is only meaningful on external inputs (ignored)")
			}
		case schema.InputExternal:
			if in.Node != "" || in.Output != "" {
				result.AddWarning(inPath, schema.ErrCodeValidation,
					"external input carries producer fields (ignored)")
			}
		}
	}
}
