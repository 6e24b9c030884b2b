package diagram

import (
	"fmt"

	"github.com/HenryWConklin/blackjack/pkg/schema"
)

// BuildModel converts a graph definition into the renderer-neutral model.
// target marks which node gets the target styling; pass "" to fall back to
// the definition's default target.
func BuildModel(def *schema.GraphDefinition, target schema.NodeID) *Model {
	if target == "" {
		target = def.DefaultTarget
	}

	model := &Model{}
	if title, ok := def.Metadata["name"].(string); ok {
		model.Title = title
	}

	for _, n := range def.Nodes {
		kind := NodeKindOp
		if n.ID == target {
			kind = NodeKindTarget
		}
		label := fmt.Sprintf("%s\n%s", n.ID, n.Op)
		model.Nodes = append(model.Nodes, Node{ID: string(n.ID), Label: label, Kind: kind})

		for _, in := range n.Inputs {
			switch in.Kind {
			case schema.InputConnection:
				label := in.Output
				if in.Output != in.Name {
					label = fmt.Sprintf("%s→%s", in.Output, in.Name)
				}
				model.Edges = append(model.Edges, Edge{
					From:  string(in.Node),
					To:    string(n.ID),
					Label: label,
				})
			case schema.InputExternal:
				paramID := paramNodeID(n.ID, in.Name)
				model.Nodes = append(model.Nodes, Node{
					ID:       paramID,
					Label:    in.Name,
					Kind:     NodeKindParam,
					Promoted: in.Promoted,
				})
				model.Edges = append(model.Edges, Edge{
					From:   paramID,
					To:     string(n.ID),
					Dashed: true,
				})
			}
		}
	}

	return model
}

func paramNodeID(node schema.NodeID, param string) string {
	return fmt.Sprintf("param_%s_%s", node, param)
}
