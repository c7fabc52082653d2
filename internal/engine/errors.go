package engine

import "fmt"

// NodeExecutionError wraps any fault raised by a block processor, including
// recovered panics. It is node-local: unrelated branches keep evaluating.
type NodeExecutionError struct {
	NodeID string
	Err    error
}

func (e *NodeExecutionError) Error() string {
	return fmt.Sprintf("node %q failed: %v", e.NodeID, e.Err)
}

func (e *NodeExecutionError) Unwrap() error {
	return e.Err
}

// PropagatedError marks a node skipped because an upstream dependency
// failed. The node is never dispatched; there is no partial evaluation.
type PropagatedError struct {
	NodeID   string
	Upstream string
}

func (e *PropagatedError) Error() string {
	return fmt.Sprintf("node %q skipped: upstream node %q failed", e.NodeID, e.Upstream)
}
