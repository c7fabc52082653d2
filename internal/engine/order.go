package engine

import (
	"fmt"
	"sort"

	"github.com/theFisher86/coolChat-sub000/internal/circuit"
)

// topoOrder computes a topological order over the graph using Kahn's
// in-degree counting, breaking ties by ascending node id so execution
// order is fully deterministic. The graph is validated before ordering, so
// a leftover node means a cycle and is reported as an internal error.
func topoOrder(g *circuit.Graph, idx *circuit.Index) ([]string, error) {
	indegree := make(map[string]int, len(g.Nodes))
	for _, n := range g.Nodes {
		indegree[n.ID] = 0
	}
	for _, e := range g.Edges {
		if _, ok := indegree[e.Target]; ok {
			indegree[e.Target]++
		}
	}

	ready := make([]string, 0, len(g.Nodes))
	for id, deg := range indegree {
		if deg == 0 {
			ready = append(ready, id)
		}
	}
	sort.Strings(ready)

	order := make([]string, 0, len(g.Nodes))
	for len(ready) > 0 {
		id := ready[0]
		ready = ready[1:]
		order = append(order, id)

		for _, e := range idx.Outgoing(id) {
			if _, ok := indegree[e.Target]; !ok {
				continue
			}
			indegree[e.Target]--
			if indegree[e.Target] == 0 {
				at := sort.SearchStrings(ready, e.Target)
				ready = append(ready, "")
				copy(ready[at+1:], ready[at:])
				ready[at] = e.Target
			}
		}
	}

	if len(order) != len(g.Nodes) {
		return nil, fmt.Errorf("internal error: %d of %d nodes unreachable by topological order", len(g.Nodes)-len(order), len(g.Nodes))
	}
	return order, nil
}
