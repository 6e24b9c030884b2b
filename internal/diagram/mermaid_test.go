package diagram

import (
	"strings"
	"testing"

	"github.com/stretchr/testify/assert"
)

func TestRenderMermaid(t *testing.T) {
	out := RenderMermaid(BuildModel(boxGraph(), ""))

	assert.True(t, strings.HasPrefix(out, "graph TD\n"))
	assert.Contains(t, out, "%% boxes")
	assert.Contains(t, out, `box["box / mesh.box"]`)
	assert.Contains(t, out, `out["out / util.echo"]`)
	assert.Contains(t, out, "box -->|mesh| out")
	// External params show up as dashed feeds.
	assert.Contains(t, out, "param_box_size -.-> box")
	assert.Contains(t, out, "class out target")
	assert.Contains(t, out, "class param_box_size promoted")
}

func TestRenderMermaid_SafeIDs(t *testing.T) {
	model := &Model{
		Nodes: []Node{{ID: "my.node-1", Label: "my.node-1\nutil.echo", Kind: NodeKindOp}},
	}
	out := RenderMermaid(model)
	assert.Contains(t, out, "my_node_1[")
	assert.NotContains(t, out, "my.node-1[")
}

func TestRenderMermaid_NoTitle(t *testing.T) {
	out := RenderMermaid(&Model{})
	assert.NotContains(t, out, "%%")
}
