// Package circuit defines the format-agnostic model of a prompt circuit:
// nodes (block instances with raw settings) and directed, port-to-port
// edges. The model is authored externally, passed to the engine as an
// immutable snapshot, and never mutated by this module.
package circuit

// Node is a single block instance placed in a circuit.
type Node struct {
	// ID is unique within the graph.
	ID string `json:"id"`
	// Kind names a registered block kind, e.g. "text" or "combiner".
	Kind string `json:"kind"`
	// Settings holds the block's configuration as plain JSON-shaped values.
	// They are decoded and validated against the kind's setting schema
	// before any evaluation.
	Settings map[string]any `json:"settings,omitempty"`
}

// Edge connects one output port to one input port. A given (Target,
// TargetPort) pair accepts at most one incoming edge; a (Source,
// SourcePort) pair may fan out to many edges.
type Edge struct {
	ID         string `json:"id"`
	Source     string `json:"source"`
	SourcePort string `json:"sourcePort"`
	Target     string `json:"target"`
	TargetPort string `json:"targetPort"`
}

// Graph is the complete circuit document: the exact shape a host persists.
type Graph struct {
	Nodes []*Node `json:"nodes"`
	Edges []*Edge `json:"edges"`
}
