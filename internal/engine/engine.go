// Package engine evaluates a validated circuit: it orders nodes
// topologically, resolves each node's inputs from upstream outputs,
// dispatches to the registered block processors, and aggregates the
// requested sink outputs. Execution is a deterministic, synchronous fold:
// identical (graph, context) snapshots always yield identical results, and
// no state survives a run.
package engine

import (
	"context"
	"fmt"
	"log/slog"

	"github.com/google/uuid"
	"github.com/theFisher86/coolChat-sub000/internal/chatctx"
	"github.com/theFisher86/coolChat-sub000/internal/circuit"
	"github.com/theFisher86/coolChat-sub000/internal/ctxlog"
	"github.com/theFisher86/coolChat-sub000/internal/schema"
	"github.com/theFisher86/coolChat-sub000/internal/validate"
	"github.com/zclconf/go-cty/cty"
)

// Engine executes circuits against a block-kind registry. It holds no
// mutable state and is safe for concurrent use without locking.
type Engine struct {
	reg       *schema.Registry
	validator *validate.Validator
}

// New creates an engine backed by the given registry.
func New(reg *schema.Registry) *Engine {
	return &Engine{
		reg:       reg,
		validator: validate.New(reg),
	}
}

// ListKinds returns every registered block kind, letting a host render a
// palette and settings forms purely from schema.
func (e *Engine) ListKinds() []*schema.Kind {
	return e.reg.List()
}

// Validate checks a graph without executing it, for live editor feedback.
func (e *Engine) Validate(ctx context.Context, g *circuit.Graph, mode validate.Mode) *validate.Result {
	return e.validator.Validate(ctx, g, mode)
}

// Execute is the sole run entry point. Validation failures abort before
// any processor runs; node-local failures are isolated to their dependency
// subtree so one misconfigured block does not blank the whole prompt.
func (e *Engine) Execute(ctx context.Context, g *circuit.Graph, chat chatctx.Provider, sinks []Sink) *Result {
	res := &Result{
		RunID:   uuid.NewString(),
		Outputs: make(map[string]cty.Value, len(sinks)),
		Nodes:   make(map[string]*NodeResult, len(g.Nodes)),
	}
	logger := ctxlog.FromContext(ctx).With("run_id", res.RunID)
	logger.Debug("Starting circuit execution.", "nodes", len(g.Nodes), "edges", len(g.Edges), "sinks", len(sinks))

	vres := e.validator.Validate(ctx, g, validate.CollectAll)
	if !vres.OK() {
		for _, p := range vres.Problems {
			res.Errors = append(res.Errors, p)
			res.log(slog.LevelError, p.NodeID, p.Error())
		}
		logger.Warn("Circuit rejected by validation.", "problems", len(vres.Problems))
		return res
	}

	idx := circuit.NewIndex(g)
	order, err := topoOrder(g, idx)
	if err != nil {
		res.Errors = append(res.Errors, err)
		return res
	}

	aborted := false
	for _, id := range order {
		if ctxErr := ctx.Err(); ctxErr != nil {
			res.Errors = append(res.Errors, fmt.Errorf("execution aborted: %w", ctxErr))
			aborted = true
			break
		}
		node, _ := idx.Node(id)
		res.Nodes[id] = e.evaluate(ctx, node, idx, res, chat)
	}

	for _, id := range order {
		if nr, ok := res.Nodes[id]; ok && nr.Err != nil {
			res.Errors = append(res.Errors, nr.Err)
		}
	}

	res.Success = !aborted && e.collectSinks(res, sinks)
	logger.Debug("Circuit execution finished.", "success", res.Success, "errors", len(res.Errors))
	return res
}

// evaluate resolves one node's inputs and dispatches its processor.
func (e *Engine) evaluate(ctx context.Context, node *circuit.Node, idx *circuit.Index, res *Result, chat chatctx.Provider) *NodeResult {
	nr := &NodeResult{NodeID: node.ID, State: StatePending}

	// Validation already proved the kind exists and the settings decode.
	kind, err := e.reg.Get(node.Kind)
	if err != nil {
		nr.State = StateFailed
		nr.Err = &NodeExecutionError{NodeID: node.ID, Err: err}
		return nr
	}
	settings, err := kind.DecodeSettings(node.Settings)
	if err != nil {
		nr.State = StateFailed
		nr.Err = &NodeExecutionError{NodeID: node.ID, Err: err}
		return nr
	}

	inputs := make(map[string]cty.Value)
	for _, port := range kind.InputPorts(settings) {
		edge, connected := idx.IncomingEdge(node.ID, port.Name)
		if !connected {
			// Unconnected inputs resolve to the kind's documented default.
			continue
		}
		upstream := res.Nodes[edge.Source]
		if upstream.State == StateFailed {
			nr.State = StateFailed
			nr.Err = &PropagatedError{NodeID: node.ID, Upstream: edge.Source}
			res.log(slog.LevelWarn, node.ID, nr.Err.Error())
			return nr
		}
		if val, has := upstream.Outputs[edge.SourcePort]; has {
			inputs[port.Name] = val
		}
	}

	nr.State = StateReady
	outputs, err := dispatch(ctx, kind, settings, inputs, chat)
	if err != nil {
		nr.State = StateFailed
		nr.Err = &NodeExecutionError{NodeID: node.ID, Err: err}
		res.log(slog.LevelError, node.ID, nr.Err.Error())
		return nr
	}

	nr.State = StateEvaluated
	nr.Outputs = outputs
	res.log(slog.LevelDebug, node.ID, "node evaluated")
	return nr
}

// dispatch calls the processor, converting a panic into an ordinary error
// so a single faulty block cannot take down the host.
func dispatch(ctx context.Context, kind *schema.Kind, settings schema.Settings, inputs map[string]cty.Value, chat chatctx.Provider) (outputs map[string]cty.Value, err error) {
	defer func() {
		if r := recover(); r != nil {
			outputs = nil
			err = fmt.Errorf("processor panic: %v", r)
		}
	}()
	return kind.Run(ctx, settings, inputs, chat)
}

// collectSinks copies the requested sink outputs into the result, and
// reports whether every sink resolved.
func (e *Engine) collectSinks(res *Result, sinks []Sink) bool {
	ok := true
	for _, sink := range sinks {
		nr, found := res.Nodes[sink.NodeID]
		if !found {
			res.Errors = append(res.Errors, fmt.Errorf("sink %s references an unknown node", sink.Key()))
			ok = false
			continue
		}
		if nr.State != StateEvaluated {
			// The node's own error is already in the error list.
			ok = false
			continue
		}
		val, has := nr.Outputs[sink.Port]
		if !has {
			res.Errors = append(res.Errors, fmt.Errorf("sink %s references an output the node did not produce", sink.Key()))
			ok = false
			continue
		}
		res.Outputs[sink.Key()] = val
	}
	return ok
}
