package validate

import (
	"fmt"
	"sort"
	"strings"

	"github.com/theFisher86/coolChat-sub000/internal/circuit"
)

// CycleDetectedError names the nodes on a directed cycle. A cycle is
// always fatal: the graph never reaches execution.
type CycleDetectedError struct {
	Nodes []string
}

func (e *CycleDetectedError) Error() string {
	return fmt.Sprintf("cycle detected involving %s", strings.Join(e.Nodes, " -> "))
}

// checkCycles runs a DFS with recursion-stack coloring over the edge
// adjacency. Nodes and neighbors are visited in ascending id order so the
// reported cycle is deterministic.
func (v *Validator) checkCycles(g *circuit.Graph, idx *circuit.Index, add func(*Problem) bool) bool {
	adjacency := make(map[string][]string, len(g.Nodes))
	for _, e := range g.Edges {
		if _, ok := idx.Node(e.Source); !ok {
			continue
		}
		if _, ok := idx.Node(e.Target); !ok {
			continue
		}
		adjacency[e.Source] = append(adjacency[e.Source], e.Target)
	}
	for _, targets := range adjacency {
		sort.Strings(targets)
	}

	visiting := make(map[string]bool)
	visited := make(map[string]bool)
	var stack []string

	var visit func(id string) *CycleDetectedError
	visit = func(id string) *CycleDetectedError {
		visiting[id] = true
		stack = append(stack, id)
		for _, next := range adjacency[id] {
			if visiting[next] {
				return &CycleDetectedError{Nodes: cycleFromStack(stack, next)}
			}
			if !visited[next] {
				if err := visit(next); err != nil {
					return err
				}
			}
		}
		stack = stack[:len(stack)-1]
		delete(visiting, id)
		visited[id] = true
		return nil
	}

	for _, id := range sortedNodeIDs(g) {
		if visited[id] {
			continue
		}
		if err := visit(id); err != nil {
			if add(&Problem{Code: CodeCycle, NodeID: err.Nodes[0], Err: err}) {
				return true
			}
			// One cycle report per run is enough; further cycles would
			// largely repeat the same nodes.
			return false
		}
	}
	return false
}

// cycleFromStack extracts the closed walk ending at the node that was
// found on the recursion stack.
func cycleFromStack(stack []string, repeat string) []string {
	start := 0
	for i, id := range stack {
		if id == repeat {
			start = i
			break
		}
	}
	cycle := make([]string, 0, len(stack)-start+1)
	cycle = append(cycle, stack[start:]...)
	cycle = append(cycle, repeat)
	return cycle
}
