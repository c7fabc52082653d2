package hclcircuit

import (
	"context"
	"os"
	"path/filepath"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"github.com/theFisher86/coolChat-sub000/internal/engine"
)

func writeFile(t *testing.T, dir, name, content string) string {
	t.Helper()
	path := filepath.Join(dir, name)
	require.NoError(t, os.WriteFile(path, []byte(content), 0644))
	return path
}

const promptCircuit = `
block "text" "greeting" {
  settings {
    content = "You are "
  }
}

block "current_character" "who" {
}

block "combiner" "prompt" {
  settings {
    inputs    = 2
    separator = ""
  }
}

connect {
  from = "greeting.output"
  to   = "prompt.input1"
}

connect {
  from = "who.name"
  to   = "prompt.input2"
}

output "prompt" {
  from = "prompt.output"
}
`

func TestLoad_SingleFile(t *testing.T) {
	t.Parallel()
	path := writeFile(t, t.TempDir(), "prompt.hcl", promptCircuit)

	g, sinks, err := Load(context.Background(), path)
	require.NoError(t, err)

	require.Len(t, g.Nodes, 3)
	assert.Equal(t, "greeting", g.Nodes[0].ID)
	assert.Equal(t, "text", g.Nodes[0].Kind)
	assert.Equal(t, "You are ", g.Nodes[0].Settings["content"])
	assert.Nil(t, g.Nodes[1].Settings)
	assert.Equal(t, float64(2), g.Nodes[2].Settings["inputs"])

	require.Len(t, g.Edges, 2)
	assert.Equal(t, "c1", g.Edges[0].ID)
	assert.Equal(t, "greeting", g.Edges[0].Source)
	assert.Equal(t, "output", g.Edges[0].SourcePort)
	assert.Equal(t, "prompt", g.Edges[0].Target)
	assert.Equal(t, "input1", g.Edges[0].TargetPort)
	assert.Equal(t, "c2", g.Edges[1].ID)

	require.Len(t, sinks, 1)
	assert.Equal(t, engine.Sink{NodeID: "prompt", Port: "output"}, sinks[0])
}

func TestLoad_DirectoryMergesFilesInSortedOrder(t *testing.T) {
	t.Parallel()
	dir := t.TempDir()
	writeFile(t, dir, "b_wiring.hcl", `
connect {
  from = "one.output"
  to   = "both.input1"
}
`)
	writeFile(t, dir, "a_blocks.hcl", `
block "text" "one" {
  settings {
    content = "1"
  }
}

block "combiner" "both" {
}
`)

	g, _, err := Load(context.Background(), dir)
	require.NoError(t, err)
	require.Len(t, g.Nodes, 2)
	assert.Equal(t, "one", g.Nodes[0].ID)
	require.Len(t, g.Edges, 1)
	assert.Equal(t, "c1", g.Edges[0].ID)
}

func TestLoad_EmptyDirectory(t *testing.T) {
	t.Parallel()
	_, _, err := Load(context.Background(), t.TempDir())
	require.Error(t, err)
	assert.Contains(t, err.Error(), "no .hcl circuit files")
}

func TestLoad_MissingPath(t *testing.T) {
	t.Parallel()
	_, _, err := Load(context.Background(), filepath.Join(t.TempDir(), "nope.hcl"))
	require.Error(t, err)
}

func TestLoad_RejectsBadPortRef(t *testing.T) {
	t.Parallel()
	path := writeFile(t, t.TempDir(), "bad.hcl", `
connect {
  from = "noport"
  to   = "a.input1"
}
`)
	_, _, err := Load(context.Background(), path)
	require.Error(t, err)
	assert.Contains(t, err.Error(), "invalid port reference")
}

func TestLoad_RejectsNonLiteralSetting(t *testing.T) {
	t.Parallel()
	path := writeFile(t, t.TempDir(), "expr.hcl", `
block "text" "a" {
  settings {
    content = some.reference
  }
}
`)
	_, _, err := Load(context.Background(), path)
	require.Error(t, err)
}

func TestSplitPortRef(t *testing.T) {
	t.Parallel()
	node, port, err := splitPortRef("greeting.output")
	require.NoError(t, err)
	assert.Equal(t, "greeting", node)
	assert.Equal(t, "output", port)

	node, port, err = splitPortRef("my.node.output")
	require.NoError(t, err)
	assert.Equal(t, "my.node", node)
	assert.Equal(t, "output", port)

	for _, bad := range []string{"", "noport", ".output", "node."} {
		_, _, err := splitPortRef(bad)
		require.Error(t, err, "ref %q", bad)
	}
}
