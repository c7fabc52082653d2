// Package hclcircuit loads circuits authored in HCL into the plain graph
// model. It is host-side sugar over the serialized document format: the
// engine itself only ever sees a circuit.Graph.
package hclcircuit

import (
	"context"
	"fmt"
	"os"

	"github.com/hashicorp/hcl/v2"
	"github.com/hashicorp/hcl/v2/gohcl"
	"github.com/hashicorp/hcl/v2/hclparse"
	"github.com/theFisher86/coolChat-sub000/internal/circuit"
	"github.com/theFisher86/coolChat-sub000/internal/ctxlog"
	"github.com/theFisher86/coolChat-sub000/internal/engine"
	"github.com/theFisher86/coolChat-sub000/internal/fsutil"
)

// fileRoot decodes the top-level blocks of a circuit file.
type fileRoot struct {
	Blocks   []*blockHCL   `hcl:"block,block"`
	Connects []*connectHCL `hcl:"connect,block"`
	Outputs  []*outputHCL  `hcl:"output,block"`
}

// blockHCL is one `block "<kind>" "<name>" { settings { ... } }` entry.
type blockHCL struct {
	Kind     string       `hcl:"kind,label"`
	Name     string       `hcl:"name,label"`
	Settings *settingsHCL `hcl:"settings,block"`
}

type settingsHCL struct {
	Body hcl.Body `hcl:",remain"`
}

// connectHCL wires one output port to one input port, both addressed as
// "node.port".
type connectHCL struct {
	From string `hcl:"from"`
	To   string `hcl:"to"`
}

// outputHCL declares a named sink for the circuit.
type outputHCL struct {
	Name string `hcl:"name,label"`
	From string `hcl:"from"`
}

// Load reads a circuit from a .hcl file or a directory of .hcl files
// (discovered recursively, in sorted order) and returns the graph plus the
// sinks the circuit declares.
func Load(ctx context.Context, path string) (*circuit.Graph, []engine.Sink, error) {
	logger := ctxlog.FromContext(ctx)

	info, err := os.Stat(path)
	if err != nil {
		return nil, nil, fmt.Errorf("cannot read circuit path %s: %w", path, err)
	}

	files := []string{path}
	if info.IsDir() {
		files, err = fsutil.FindFilesByExtension(path, ".hcl")
		if err != nil {
			return nil, nil, err
		}
		if len(files) == 0 {
			return nil, nil, fmt.Errorf("no .hcl circuit files found in %s", path)
		}
	}
	logger.Debug("Loading circuit from HCL.", "files", len(files))

	parser := hclparse.NewParser()
	graph := &circuit.Graph{}
	var sinks []engine.Sink
	edgeSeq := 0

	for _, file := range files {
		hclFile, diags := parser.ParseHCLFile(file)
		if diags.HasErrors() {
			return nil, nil, fmt.Errorf("failed to parse circuit file %s: %w", file, diags)
		}

		var root fileRoot
		if diags := gohcl.DecodeBody(hclFile.Body, nil, &root); diags.HasErrors() {
			return nil, nil, fmt.Errorf("failed to decode circuit file %s: %w", file, diags)
		}

		for _, b := range root.Blocks {
			settings, err := decodeSettings(b.Settings)
			if err != nil {
				return nil, nil, fmt.Errorf("block %q in %s: %w", b.Name, file, err)
			}
			graph.Nodes = append(graph.Nodes, &circuit.Node{
				ID:       b.Name,
				Kind:     b.Kind,
				Settings: settings,
			})
		}

		for _, c := range root.Connects {
			srcNode, srcPort, err := splitPortRef(c.From)
			if err != nil {
				return nil, nil, fmt.Errorf("connect in %s: %w", file, err)
			}
			dstNode, dstPort, err := splitPortRef(c.To)
			if err != nil {
				return nil, nil, fmt.Errorf("connect in %s: %w", file, err)
			}
			edgeSeq++
			graph.Edges = append(graph.Edges, &circuit.Edge{
				ID:         fmt.Sprintf("c%d", edgeSeq),
				Source:     srcNode,
				SourcePort: srcPort,
				Target:     dstNode,
				TargetPort: dstPort,
			})
		}

		for _, o := range root.Outputs {
			node, port, err := splitPortRef(o.From)
			if err != nil {
				return nil, nil, fmt.Errorf("output %q in %s: %w", o.Name, file, err)
			}
			sinks = append(sinks, engine.Sink{NodeID: node, Port: port})
		}
	}

	logger.Debug("Circuit loaded.", "nodes", len(graph.Nodes), "edges", len(graph.Edges), "sinks", len(sinks))
	return graph, sinks, nil
}
