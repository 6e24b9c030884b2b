package diagram

import (
	"fmt"
	"strings"
)

// RenderMermaid renders a Model as a Mermaid flowchart string.
func RenderMermaid(model *Model) string {
	var b strings.Builder

	b.WriteString("graph TD\n")

	// Title as comment.
	if model.Title != "" {
		b.WriteString(fmt.Sprintf("    %%%% %s\n", model.Title))
	}

	for _, node := range model.Nodes {
		b.WriteString(fmt.Sprintf("    %s\n", mermaidNodeDef(node)))
	}

	for _, edge := range model.Edges {
		arrow := "-->"
		if edge.Dashed {
			arrow = "-.->"
		}
		label := ""
		if edge.Label != "" {
			label = fmt.Sprintf("|%s|", edge.Label)
		}
		b.WriteString(fmt.Sprintf("    %s %s%s %s\n",
			mermaidSafeID(edge.From), arrow, label, mermaidSafeID(edge.To)))
	}

	b.WriteString("\n")
	b.WriteString("    classDef target fill:#1a5276,stroke:#0e3a52,color:#fff\n")
	b.WriteString("    classDef param fill:#4a4a4a,stroke:#333,color:#ddd\n")
	b.WriteString("    classDef promoted fill:#b7791a,stroke:#8a5c14,color:#fff\n")

	for _, node := range model.Nodes {
		switch {
		case node.Kind == NodeKindTarget:
			b.WriteString(fmt.Sprintf("    class %s target\n", mermaidSafeID(node.ID)))
		case node.Kind == NodeKindParam && node.Promoted:
			b.WriteString(fmt.Sprintf("    class %s promoted\n", mermaidSafeID(node.ID)))
		case node.Kind == NodeKindParam:
			b.WriteString(fmt.Sprintf("    class %s param\n", mermaidSafeID(node.ID)))
		}
	}

	return b.String()
}

// mermaidNodeDef returns a Mermaid node definition with the appropriate shape.
func mermaidNodeDef(node Node) string {
	id := mermaidSafeID(node.ID)
	label := firstLine(node.Label)
	if node.Kind != NodeKindParam {
		// Two-line op labels collapse to "id / op".
		label = strings.ReplaceAll(node.Label, "\n", " / ")
	}

	if node.Kind == NodeKindParam {
		return fmt.Sprintf("%s([%q])", id, label)
	}
	return fmt.Sprintf("%s[%q]", id, label)
}

// mermaidSafeID converts a node ID to a Mermaid-safe identifier.
// Replaces dots and dashes with underscores.
func mermaidSafeID(id string) string {
	r := strings.NewReplacer(".", "_", "-", "_", " ", "_")
	return r.Replace(id)
}

func firstLine(s string) string {
	if i := strings.IndexByte(s, '\n'); i >= 0 {
		return s[:i]
	}
	return s
}
