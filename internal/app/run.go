package app

import (
	"context"
	"fmt"
	"os"
	"strings"

	"github.com/theFisher86/coolChat-sub000/internal/chatctx"
	"github.com/theFisher86/coolChat-sub000/internal/circuit"
	"github.com/theFisher86/coolChat-sub000/internal/ctxlog"
	"github.com/theFisher86/coolChat-sub000/internal/engine"
	"github.com/theFisher86/coolChat-sub000/internal/hclcircuit"
	"github.com/theFisher86/coolChat-sub000/internal/validate"
	"github.com/zclconf/go-cty/cty"
)

// Run loads the configured circuit and context, then validates or executes
// it. A non-nil error means the circuit was invalid, failed to load, or
// produced a failed run.
func (a *App) Run(ctx context.Context) error {
	ctx = ctxlog.WithLogger(ctx, a.logger)

	graph, fileSinks, err := a.loadCircuit(ctx)
	if err != nil {
		return err
	}

	if a.config.ValidateOnly {
		res := a.engine.Validate(ctx, graph, validate.CollectAll)
		if !res.OK() {
			return res.Err()
		}
		fmt.Fprintln(a.outW, "circuit is valid")
		return nil
	}

	provider, err := a.loadContext()
	if err != nil {
		return err
	}

	sinks, err := a.resolveSinks(fileSinks)
	if err != nil {
		return err
	}

	result := a.engine.Execute(ctx, graph, provider, sinks)
	for _, sink := range sinks {
		if val, ok := result.Outputs[sink.Key()]; ok {
			fmt.Fprintf(a.outW, "%s = %s\n", sink.Key(), formatValue(val))
		}
	}
	if !result.Success {
		msgs := make([]string, len(result.Errors))
		for i, e := range result.Errors {
			msgs[i] = e.Error()
		}
		return fmt.Errorf("circuit run %s failed:\n- %s", result.RunID, strings.Join(msgs, "\n- "))
	}
	return nil
}

// loadCircuit reads the circuit document, choosing the codec by file
// extension: .json for the plain document, anything else is HCL.
func (a *App) loadCircuit(ctx context.Context) (*circuit.Graph, []engine.Sink, error) {
	path := a.config.CircuitPath
	if strings.HasSuffix(path, ".json") {
		f, err := os.Open(path)
		if err != nil {
			return nil, nil, fmt.Errorf("cannot open circuit %s: %w", path, err)
		}
		defer f.Close()
		graph, err := circuit.Decode(f)
		if err != nil {
			return nil, nil, err
		}
		return graph, nil, nil
	}
	return hclcircuit.Load(ctx, path)
}

// loadContext builds the chat context the circuit executes against. With
// no context file, the run sees an empty chat: no character, no history,
// no variables.
func (a *App) loadContext() (chatctx.Provider, error) {
	if a.config.ContextPath == "" {
		return chatctx.NewSnapshot(nil, nil, nil, nil), nil
	}
	f, err := os.Open(a.config.ContextPath)
	if err != nil {
		return nil, fmt.Errorf("cannot open context %s: %w", a.config.ContextPath, err)
	}
	defer f.Close()
	return chatctx.DecodeSnapshot(f)
}

// resolveSinks prefers explicitly requested sinks over the ones declared
// in the circuit file.
func (a *App) resolveSinks(fileSinks []engine.Sink) ([]engine.Sink, error) {
	if len(a.config.Sinks) == 0 {
		if len(fileSinks) == 0 {
			return nil, fmt.Errorf("no sinks requested: pass -sink or declare an output block in the circuit")
		}
		return fileSinks, nil
	}
	sinks := make([]engine.Sink, 0, len(a.config.Sinks))
	for _, ref := range a.config.Sinks {
		sink, err := engine.ParseSink(ref)
		if err != nil {
			return nil, err
		}
		sinks = append(sinks, sink)
	}
	return sinks, nil
}

// formatValue renders a sink value for terminal output.
func formatValue(val cty.Value) string {
	if val.IsNull() {
		return "(null)"
	}
	switch val.Type() {
	case cty.String:
		return val.AsString()
	case cty.Number:
		return val.AsBigFloat().Text('f', -1)
	case cty.Bool:
		return fmt.Sprintf("%t", val.True())
	default:
		return val.GoString()
	}
}
