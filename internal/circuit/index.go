package circuit

// PortRef addresses one input port on one node.
type PortRef struct {
	Node string
	Port string
}

// Index is a read-only lookup structure over a Graph, shared by the
// validator and the execution engine. Building an Index does not verify the
// graph; duplicate writers and dangling references are the validator's job.
type Index struct {
	nodes    map[string]*Node
	incoming map[PortRef][]*Edge
	outgoing map[string][]*Edge
}

// NewIndex builds the lookup tables for a graph.
func NewIndex(g *Graph) *Index {
	idx := &Index{
		nodes:    make(map[string]*Node, len(g.Nodes)),
		incoming: make(map[PortRef][]*Edge),
		outgoing: make(map[string][]*Edge),
	}
	for _, n := range g.Nodes {
		idx.nodes[n.ID] = n
	}
	for _, e := range g.Edges {
		ref := PortRef{Node: e.Target, Port: e.TargetPort}
		idx.incoming[ref] = append(idx.incoming[ref], e)
		idx.outgoing[e.Source] = append(idx.outgoing[e.Source], e)
	}
	return idx
}

// Node returns the node with the given ID.
func (idx *Index) Node(id string) (*Node, bool) {
	n, ok := idx.nodes[id]
	return n, ok
}

// IncomingEdge returns the unique edge feeding the given input port, if any.
// When the graph is invalid and several edges target the same port, the
// first one in document order is returned; the validator rejects such
// graphs before execution.
func (idx *Index) IncomingEdge(node, port string) (*Edge, bool) {
	edges := idx.incoming[PortRef{Node: node, Port: port}]
	if len(edges) == 0 {
		return nil, false
	}
	return edges[0], true
}

// IncomingEdges returns every edge targeting the given input port.
func (idx *Index) IncomingEdges(node, port string) []*Edge {
	return idx.incoming[PortRef{Node: node, Port: port}]
}

// Outgoing returns every edge originating at the given node.
func (idx *Index) Outgoing(node string) []*Edge {
	return idx.outgoing[node]
}
