package circuit

import (
	"encoding/json"
	"fmt"
	"io"
)

// Decode reads a plain {nodes, edges} JSON document into a Graph. It
// rejects duplicate node or edge IDs immediately; all deeper structural
// checks belong to the validator.
func Decode(r io.Reader) (*Graph, error) {
	// Unknown fields are tolerated: hosts may decorate the document with
	// editor metadata (canvas positions and the like) the engine ignores.
	dec := json.NewDecoder(r)

	var g Graph
	if err := dec.Decode(&g); err != nil {
		return nil, fmt.Errorf("failed to decode circuit document: %w", err)
	}

	seenNodes := make(map[string]struct{}, len(g.Nodes))
	for _, n := range g.Nodes {
		// A JSON null in the array unmarshals to a nil pointer.
		if n == nil {
			return nil, fmt.Errorf("circuit document contains a null node entry")
		}
		if n.ID == "" {
			return nil, fmt.Errorf("circuit document contains a node with an empty id")
		}
		if _, dup := seenNodes[n.ID]; dup {
			return nil, fmt.Errorf("duplicate node id %q in circuit document", n.ID)
		}
		seenNodes[n.ID] = struct{}{}
	}

	seenEdges := make(map[string]struct{}, len(g.Edges))
	for _, e := range g.Edges {
		if e == nil {
			return nil, fmt.Errorf("circuit document contains a null edge entry")
		}
		if e.ID == "" {
			return nil, fmt.Errorf("circuit document contains an edge with an empty id")
		}
		if _, dup := seenEdges[e.ID]; dup {
			return nil, fmt.Errorf("duplicate edge id %q in circuit document", e.ID)
		}
		seenEdges[e.ID] = struct{}{}
	}

	return &g, nil
}

// Encode writes the graph as the plain {nodes, edges} JSON document.
func Encode(w io.Writer, g *Graph) error {
	enc := json.NewEncoder(w)
	enc.SetIndent("", "  ")
	if err := enc.Encode(g); err != nil {
		return fmt.Errorf("failed to encode circuit document: %w", err)
	}
	return nil
}
