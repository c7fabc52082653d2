package engine

import (
	"fmt"
	"log/slog"
	"strings"

	"github.com/zclconf/go-cty/cty"
)

// State is a node's position in the per-run state machine:
// Pending -> Ready -> Evaluated, or Failed at any point after Pending.
type State int

const (
	StatePending State = iota
	StateReady
	StateEvaluated
	StateFailed
)

func (s State) String() string {
	switch s {
	case StatePending:
		return "pending"
	case StateReady:
		return "ready"
	case StateEvaluated:
		return "evaluated"
	case StateFailed:
		return "failed"
	default:
		return "unknown"
	}
}

// NodeResult is produced exactly once per node per run.
type NodeResult struct {
	NodeID  string
	State   State
	Outputs map[string]cty.Value
	Err     error
}

// Sink names a node output port constituting part of a circuit's final
// output.
type Sink struct {
	NodeID string
	Port   string
}

// Key is the form sinks are addressed by in Result.Outputs.
func (s Sink) Key() string {
	return s.NodeID + "." + s.Port
}

// ParseSink parses a "node.port" address, splitting at the last dot so
// node ids may themselves contain dots. The core API imposes no syntax;
// this is a convenience for hosts taking sinks as strings.
func ParseSink(ref string) (Sink, error) {
	at := strings.LastIndex(ref, ".")
	if at <= 0 || at == len(ref)-1 {
		return Sink{}, fmt.Errorf("invalid sink %q: want \"node.port\"", ref)
	}
	return Sink{NodeID: ref[:at], Port: ref[at+1:]}, nil
}

// LogEntry is one line of the per-run execution log.
type LogEntry struct {
	Level   slog.Level
	NodeID  string
	Message string
}

// Result packages everything a caller gets back from one run: the
// requested sink outputs, whatever partial outputs survived node-local
// failures, and the structured error list.
type Result struct {
	// RunID uniquely identifies this run in logs and diagnostics.
	RunID string
	// Success is false iff validation failed or any requested sink could
	// not be produced.
	Success bool
	// Outputs maps each resolved sink key ("nodeID.port") to its value.
	Outputs map[string]cty.Value
	// Logs records node evaluations in execution order.
	Logs []LogEntry
	// Errors lists validation problems and node-local failures in
	// deterministic order.
	Errors []error
	// Nodes exposes every per-node result for partial-result UX.
	Nodes map[string]*NodeResult
}

func (r *Result) log(level slog.Level, nodeID, message string) {
	r.Logs = append(r.Logs, LogEntry{Level: level, NodeID: nodeID, Message: message})
}
