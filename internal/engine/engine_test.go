package engine

import (
	"context"
	"errors"
	"sync/atomic"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"github.com/theFisher86/coolChat-sub000/internal/blocks"
	"github.com/theFisher86/coolChat-sub000/internal/chatctx"
	"github.com/theFisher86/coolChat-sub000/internal/circuit"
	"github.com/theFisher86/coolChat-sub000/internal/schema"
	"github.com/theFisher86/coolChat-sub000/internal/validate"
	"github.com/zclconf/go-cty/cty"
)

// countingModule registers a pass-through kind that counts how many times
// its processor ran, to prove fan-out does not re-evaluate a node.
type countingModule struct {
	runs atomic.Int64
}

func (m *countingModule) Register(r *schema.Registry) {
	r.Register(&schema.Kind{
		ID:      "counting",
		Inputs:  []schema.Port{{Name: "input", Type: cty.String}},
		Outputs: []schema.Port{{Name: "output", Type: cty.String}},
		Run: func(ctx context.Context, settings schema.Settings, inputs map[string]cty.Value, chat chatctx.Provider) (map[string]cty.Value, error) {
			m.runs.Add(1)
			val, ok := inputs["input"]
			if !ok {
				val = cty.StringVal("")
			}
			return map[string]cty.Value{"output": val}, nil
		},
	})
}

// panickyModule registers a kind whose processor always panics.
type panickyModule struct{}

func (m *panickyModule) Register(r *schema.Registry) {
	r.Register(&schema.Kind{
		ID:      "panicky",
		Outputs: []schema.Port{{Name: "output", Type: cty.String}},
		Run: func(ctx context.Context, settings schema.Settings, inputs map[string]cty.Value, chat chatctx.Provider) (map[string]cty.Value, error) {
			panic("boom")
		},
	})
}

func emptyChat() chatctx.Provider {
	return chatctx.NewSnapshot(nil, nil, nil, nil)
}

func promptGraph() *circuit.Graph {
	return &circuit.Graph{
		Nodes: []*circuit.Node{
			{ID: "greeting", Kind: "text", Settings: map[string]any{"content": "You are "}},
			{ID: "who", Kind: "current_character"},
			{ID: "prompt", Kind: "combiner", Settings: map[string]any{"inputs": 2}},
		},
		Edges: []*circuit.Edge{
			{ID: "e1", Source: "greeting", SourcePort: "output", Target: "prompt", TargetPort: "input1"},
			{ID: "e2", Source: "who", SourcePort: "name", Target: "prompt", TargetPort: "input2"},
		},
	}
}

func TestExecute_AssemblesPrompt(t *testing.T) {
	t.Parallel()
	e := New(blocks.NewRegistry())
	chat := chatctx.NewSnapshot(&chatctx.Character{Name: "Mira", ID: 7}, nil, nil, nil)
	sinks := []Sink{{NodeID: "prompt", Port: "output"}}

	res := e.Execute(context.Background(), promptGraph(), chat, sinks)
	require.True(t, res.Success, "errors: %v", res.Errors)
	require.NotEmpty(t, res.RunID)
	assert.Equal(t, "You are Mira", res.Outputs["prompt.output"].AsString())
	assert.Equal(t, StateEvaluated, res.Nodes["prompt"].State)
}

func TestExecute_Deterministic(t *testing.T) {
	t.Parallel()
	e := New(blocks.NewRegistry())
	chat := chatctx.NewSnapshot(&chatctx.Character{Name: "Mira"}, nil, nil, nil)
	sinks := []Sink{{NodeID: "prompt", Port: "output"}}

	first := e.Execute(context.Background(), promptGraph(), chat, sinks)
	require.True(t, first.Success)
	for i := 0; i < 10; i++ {
		again := e.Execute(context.Background(), promptGraph(), chat, sinks)
		require.True(t, again.Success)
		assert.NotEqual(t, first.RunID, again.RunID)
		assert.True(t, first.Outputs["prompt.output"].RawEquals(again.Outputs["prompt.output"]))
	}
}

func TestExecute_FanOutEvaluatesOnce(t *testing.T) {
	t.Parallel()
	counting := &countingModule{}
	e := New(blocks.NewRegistry(counting))
	g := &circuit.Graph{
		Nodes: []*circuit.Node{
			{ID: "src", Kind: "counting"},
			{ID: "a", Kind: "counting"},
			{ID: "b", Kind: "counting"},
			{ID: "c", Kind: "counting"},
		},
		Edges: []*circuit.Edge{
			{ID: "e1", Source: "src", SourcePort: "output", Target: "a", TargetPort: "input"},
			{ID: "e2", Source: "src", SourcePort: "output", Target: "b", TargetPort: "input"},
			{ID: "e3", Source: "src", SourcePort: "output", Target: "c", TargetPort: "input"},
		},
	}

	res := e.Execute(context.Background(), g, emptyChat(), nil)
	require.True(t, res.Success)
	assert.EqualValues(t, 4, counting.runs.Load(), "each node runs exactly once")
}

func TestExecute_FailureIsolatedToDependents(t *testing.T) {
	t.Parallel()
	e := New(blocks.NewRegistry())
	// Two disconnected chains: one poisoned by an unresolvable variable,
	// one healthy.
	g := &circuit.Graph{
		Nodes: []*circuit.Node{
			{ID: "bad", Kind: "variable", Settings: map[string]any{"variable": "ghost"}},
			{ID: "after_bad", Kind: "combiner"},
			{ID: "ok", Kind: "text", Settings: map[string]any{"content": "fine"}},
		},
		Edges: []*circuit.Edge{
			{ID: "e1", Source: "bad", SourcePort: "output", Target: "after_bad", TargetPort: "input1"},
		},
	}
	sinks := []Sink{
		{NodeID: "after_bad", Port: "output"},
		{NodeID: "ok", Port: "output"},
	}

	res := e.Execute(context.Background(), g, emptyChat(), sinks)
	assert.False(t, res.Success)

	assert.Equal(t, StateFailed, res.Nodes["bad"].State)
	assert.Equal(t, StateFailed, res.Nodes["after_bad"].State)
	assert.Equal(t, StateEvaluated, res.Nodes["ok"].State)

	// The healthy chain's output is still delivered.
	assert.Equal(t, "fine", res.Outputs["ok.output"].AsString())
	_, produced := res.Outputs["after_bad.output"]
	assert.False(t, produced)

	var execErr *NodeExecutionError
	require.ErrorAs(t, res.Nodes["bad"].Err, &execErr)
	assert.Equal(t, "bad", execErr.NodeID)

	var propErr *PropagatedError
	require.ErrorAs(t, res.Nodes["after_bad"].Err, &propErr)
	assert.Equal(t, "bad", propErr.Upstream)
}

func TestExecute_PanicBecomesNodeError(t *testing.T) {
	t.Parallel()
	e := New(blocks.NewRegistry(&panickyModule{}))
	g := &circuit.Graph{
		Nodes: []*circuit.Node{{ID: "n1", Kind: "panicky"}},
	}

	res := e.Execute(context.Background(), g, emptyChat(), []Sink{{NodeID: "n1", Port: "output"}})
	assert.False(t, res.Success)
	require.Equal(t, StateFailed, res.Nodes["n1"].State)
	assert.Contains(t, res.Nodes["n1"].Err.Error(), "processor panic")
}

func TestExecute_ValidationFailureRunsNothing(t *testing.T) {
	t.Parallel()
	counting := &countingModule{}
	e := New(blocks.NewRegistry(counting))
	g := &circuit.Graph{
		Nodes: []*circuit.Node{
			{ID: "a", Kind: "counting"},
			{ID: "b", Kind: "counting"},
		},
		Edges: []*circuit.Edge{
			{ID: "e1", Source: "a", SourcePort: "output", Target: "b", TargetPort: "input"},
			{ID: "e2", Source: "b", SourcePort: "output", Target: "a", TargetPort: "input"},
		},
	}

	res := e.Execute(context.Background(), g, emptyChat(), nil)
	assert.False(t, res.Success)
	assert.Zero(t, counting.runs.Load(), "no processor may run on an invalid graph")
	require.NotEmpty(t, res.Errors)

	var problem *validate.Problem
	require.ErrorAs(t, res.Errors[0], &problem)
	assert.Equal(t, validate.CodeCycle, problem.Code)
}

func TestExecute_UnresolvableSinks(t *testing.T) {
	t.Parallel()
	e := New(blocks.NewRegistry())
	g := &circuit.Graph{
		Nodes: []*circuit.Node{{ID: "greeting", Kind: "text", Settings: map[string]any{"content": "hi"}}},
	}
	sinks := []Sink{
		{NodeID: "greeting", Port: "output"},
		{NodeID: "missing", Port: "output"},
	}

	res := e.Execute(context.Background(), g, emptyChat(), sinks)
	assert.False(t, res.Success)
	assert.Equal(t, "hi", res.Outputs["greeting.output"].AsString())
	require.Len(t, res.Errors, 1)
	assert.Contains(t, res.Errors[0].Error(), "missing.output")
}

func TestExecute_CancelledContextAborts(t *testing.T) {
	t.Parallel()
	e := New(blocks.NewRegistry())
	ctx, cancel := context.WithCancel(context.Background())
	cancel()

	res := e.Execute(ctx, promptGraph(), emptyChat(), []Sink{{NodeID: "prompt", Port: "output"}})
	assert.False(t, res.Success)
	require.NotEmpty(t, res.Errors)
	assert.ErrorIs(t, res.Errors[0], context.Canceled)
	assert.Empty(t, res.Nodes)
}

func TestTopoOrder_TieBreaksByNodeID(t *testing.T) {
	t.Parallel()
	g := &circuit.Graph{
		Nodes: []*circuit.Node{
			{ID: "zeta", Kind: "text"},
			{ID: "alpha", Kind: "text"},
			{ID: "mid", Kind: "combiner"},
		},
		Edges: []*circuit.Edge{
			{ID: "e1", Source: "zeta", SourcePort: "output", Target: "mid", TargetPort: "input1"},
			{ID: "e2", Source: "alpha", SourcePort: "output", Target: "mid", TargetPort: "input2"},
		},
	}

	order, err := topoOrder(g, circuit.NewIndex(g))
	require.NoError(t, err)
	assert.Equal(t, []string{"alpha", "zeta", "mid"}, order)
}

func TestParseSink(t *testing.T) {
	t.Parallel()
	sink, err := ParseSink("prompt.output")
	require.NoError(t, err)
	assert.Equal(t, Sink{NodeID: "prompt", Port: "output"}, sink)

	sink, err = ParseSink("my.node.output")
	require.NoError(t, err)
	assert.Equal(t, Sink{NodeID: "my.node", Port: "output"}, sink)

	for _, bad := range []string{"", "noport", ".output", "node."} {
		_, err := ParseSink(bad)
		require.Error(t, err, "ref %q", bad)
	}
}

func TestListKinds(t *testing.T) {
	t.Parallel()
	e := New(blocks.NewRegistry())
	kinds := e.ListKinds()
	ids := make([]string, len(kinds))
	for i, k := range kinds {
		ids[i] = k.ID
	}
	assert.Equal(t, []string{"chat_history", "combiner", "current_character", "text", "variable"}, ids)
}

func TestValidateEntryPoint(t *testing.T) {
	t.Parallel()
	e := New(blocks.NewRegistry())
	res := e.Validate(context.Background(), promptGraph(), validate.CollectAll)
	assert.True(t, res.OK())
	assert.False(t, errors.Is(res.Err(), context.Canceled))
}
