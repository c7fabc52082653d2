// Package validate checks a circuit's structure before any evaluation:
// edge endpoints and ports (including dynamically-sized port sets),
// single-writer inputs, acyclicity, and setting schemas. Execution never
// starts on a graph that fails validation.
package validate

import (
	"context"
	"fmt"
	"sort"
	"strings"

	"github.com/theFisher86/coolChat-sub000/internal/circuit"
	"github.com/theFisher86/coolChat-sub000/internal/ctxlog"
	"github.com/theFisher86/coolChat-sub000/internal/schema"
)

// Mode selects whether validation stops at the first problem or collects
// the full list. CollectAll suits batch runs; FailFast suits live editor
// feedback.
type Mode int

const (
	CollectAll Mode = iota
	FailFast
)

// Code classifies a validation problem.
type Code string

const (
	CodeDuplicateID     Code = "duplicate-id"
	CodeUnknownKind     Code = "unknown-kind"
	CodeBadEdge         Code = "bad-edge"
	CodeUnknownPort     Code = "unknown-port"
	CodeDuplicateWriter Code = "duplicate-writer"
	CodeCycle           Code = "cycle"
	CodeBadSetting      Code = "bad-setting"
)

// Problem is one validation failure. It implements error.
type Problem struct {
	Code   Code
	NodeID string
	EdgeID string
	Err    error
}

func (p *Problem) Error() string {
	var loc string
	switch {
	case p.NodeID != "" && p.EdgeID != "":
		loc = fmt.Sprintf("node %q, edge %q", p.NodeID, p.EdgeID)
	case p.NodeID != "":
		loc = fmt.Sprintf("node %q", p.NodeID)
	case p.EdgeID != "":
		loc = fmt.Sprintf("edge %q", p.EdgeID)
	default:
		loc = "circuit"
	}
	return fmt.Sprintf("%s: %s: %v", p.Code, loc, p.Err)
}

func (p *Problem) Unwrap() error {
	return p.Err
}

// Result is the outcome of validating one graph.
type Result struct {
	Problems []*Problem
}

// OK reports whether the graph passed every check.
func (r *Result) OK() bool {
	return len(r.Problems) == 0
}

// Err folds all problems into a single error, or nil when the graph is
// valid.
func (r *Result) Err() error {
	if r.OK() {
		return nil
	}
	msgs := make([]string, len(r.Problems))
	for i, p := range r.Problems {
		msgs[i] = p.Error()
	}
	return fmt.Errorf("circuit validation failed:\n- %s", strings.Join(msgs, "\n- "))
}

// Validator checks graphs against a kind registry.
type Validator struct {
	reg *schema.Registry
}

// New creates a validator backed by the given registry.
func New(reg *schema.Registry) *Validator {
	return &Validator{reg: reg}
}

// Validate runs all checks in order: identifiers, edge endpoints and
// ports, duplicate input writers, cycles, then setting schemas.
func (v *Validator) Validate(ctx context.Context, g *circuit.Graph, mode Mode) *Result {
	logger := ctxlog.FromContext(ctx)
	res := &Result{}

	add := func(p *Problem) bool {
		res.Problems = append(res.Problems, p)
		return mode == FailFast
	}

	if stop := v.checkIDs(g, add); stop {
		return res
	}

	idx := circuit.NewIndex(g)

	// Resolve each node's kind once. Unknown kinds suppress the port and
	// setting checks for that node; everything else still runs.
	kinds := make(map[string]*schema.Kind, len(g.Nodes))
	for _, n := range g.Nodes {
		kind, err := v.reg.Get(n.Kind)
		if err != nil {
			if add(&Problem{Code: CodeUnknownKind, NodeID: n.ID, Err: err}) {
				return res
			}
			continue
		}
		kinds[n.ID] = kind
	}

	if stop := v.checkEdges(g, idx, kinds, add); stop {
		return res
	}
	if stop := v.checkWriters(g, idx, add); stop {
		return res
	}
	if stop := v.checkCycles(g, idx, add); stop {
		return res
	}
	if stop := v.checkSettings(g, kinds, add); stop {
		return res
	}

	if !res.OK() {
		logger.Debug("Circuit validation found problems.", "count", len(res.Problems))
	}
	return res
}

// checkIDs rejects duplicate node and edge identifiers.
func (v *Validator) checkIDs(g *circuit.Graph, add func(*Problem) bool) bool {
	seenNodes := make(map[string]struct{}, len(g.Nodes))
	for _, n := range g.Nodes {
		if _, dup := seenNodes[n.ID]; dup {
			if add(&Problem{Code: CodeDuplicateID, NodeID: n.ID, Err: fmt.Errorf("node id declared more than once")}) {
				return true
			}
			continue
		}
		seenNodes[n.ID] = struct{}{}
	}
	seenEdges := make(map[string]struct{}, len(g.Edges))
	for _, e := range g.Edges {
		if _, dup := seenEdges[e.ID]; dup {
			if add(&Problem{Code: CodeDuplicateID, EdgeID: e.ID, Err: fmt.Errorf("edge id declared more than once")}) {
				return true
			}
			continue
		}
		seenEdges[e.ID] = struct{}{}
	}
	return false
}

// checkEdges verifies that every edge references existing nodes and
// currently-declared ports. Dynamic port sets are re-derived from each
// node's settings with defaults standing in for invalid values; the
// setting violation itself is reported by checkSettings.
func (v *Validator) checkEdges(g *circuit.Graph, idx *circuit.Index, kinds map[string]*schema.Kind, add func(*Problem) bool) bool {
	livePorts := func(n *circuit.Node, input bool) ([]schema.Port, bool) {
		kind, ok := kinds[n.ID]
		if !ok {
			return nil, false
		}
		settings := kind.PortSettings(n.Settings)
		if input {
			return kind.InputPorts(settings), true
		}
		return kind.OutputPorts(settings), true
	}

	for _, e := range g.Edges {
		src, srcOK := idx.Node(e.Source)
		if !srcOK {
			if add(&Problem{Code: CodeBadEdge, EdgeID: e.ID, Err: fmt.Errorf("source node %q does not exist", e.Source)}) {
				return true
			}
		}
		dst, dstOK := idx.Node(e.Target)
		if !dstOK {
			if add(&Problem{Code: CodeBadEdge, EdgeID: e.ID, Err: fmt.Errorf("target node %q does not exist", e.Target)}) {
				return true
			}
		}

		if srcOK {
			if ports, known := livePorts(src, false); known && !hasPort(ports, e.SourcePort) {
				if add(&Problem{Code: CodeUnknownPort, NodeID: src.ID, EdgeID: e.ID,
					Err: fmt.Errorf("kind %q declares no output port %q", src.Kind, e.SourcePort)}) {
					return true
				}
			}
		}
		if dstOK {
			if ports, known := livePorts(dst, true); known && !hasPort(ports, e.TargetPort) {
				if add(&Problem{Code: CodeUnknownPort, NodeID: dst.ID, EdgeID: e.ID,
					Err: fmt.Errorf("kind %q declares no input port %q", dst.Kind, e.TargetPort)}) {
					return true
				}
			}
		}
	}
	return false
}

// checkWriters enforces the single-writer invariant: at most one edge per
// (target, input port).
func (v *Validator) checkWriters(g *circuit.Graph, idx *circuit.Index, add func(*Problem) bool) bool {
	reported := make(map[circuit.PortRef]struct{})
	for _, e := range g.Edges {
		ref := circuit.PortRef{Node: e.Target, Port: e.TargetPort}
		edges := idx.IncomingEdges(e.Target, e.TargetPort)
		if len(edges) < 2 {
			continue
		}
		if _, done := reported[ref]; done {
			continue
		}
		reported[ref] = struct{}{}
		ids := make([]string, len(edges))
		for i, dup := range edges {
			ids[i] = dup.ID
		}
		if add(&Problem{Code: CodeDuplicateWriter, NodeID: e.Target,
			Err: fmt.Errorf("input port %q has %d incoming edges (%s)", e.TargetPort, len(edges), strings.Join(ids, ", "))}) {
			return true
		}
	}
	return false
}

// checkSettings decodes every node's settings against its kind's schema.
func (v *Validator) checkSettings(g *circuit.Graph, kinds map[string]*schema.Kind, add func(*Problem) bool) bool {
	for _, n := range g.Nodes {
		kind, ok := kinds[n.ID]
		if !ok {
			continue
		}
		if _, err := kind.DecodeSettings(n.Settings); err != nil {
			if add(&Problem{Code: CodeBadSetting, NodeID: n.ID, Err: err}) {
				return true
			}
		}
	}
	return false
}

func hasPort(ports []schema.Port, name string) bool {
	for _, p := range ports {
		if p.Name == name {
			return true
		}
	}
	return false
}

// sortedNodeIDs returns the graph's node ids in ascending order for
// deterministic traversal.
func sortedNodeIDs(g *circuit.Graph) []string {
	ids := make([]string, 0, len(g.Nodes))
	for _, n := range g.Nodes {
		ids = append(ids, n.ID)
	}
	sort.Strings(ids)
	return ids
}
