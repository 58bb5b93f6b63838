package taskgraph

import (
	"slices"
	"strings"
)

// NodeError is the failure of a single node's action.
type NodeError struct {
	Node *Node
	Err  error
}

func (e *NodeError) Error() string {
	return e.Node.name + ": " + e.Err.Error()
}

func (e *NodeError) Unwrap() error {
	return e.Err
}

// AggregateError collects every failure of one Run.
type AggregateError struct {
	// Errors holds node failures ordered dependencies first, then by declaration order.
	Errors []*NodeError
	// Skipped holds nodes that never started because a dependency failed or the run was cancelled.
	Skipped []*Node
	// Cause is the context error if the run was cancelled.
	Cause error
}

func (e *AggregateError) Error() string {
	msgs := make([]string, 0, len(e.Errors)+1)
	for _, ne := range e.Errors {
		msgs = append(msgs, ne.Error())
	}
	if e.Cause != nil {
		msgs = append(msgs, e.Cause.Error())
	}
	if len(msgs) == 0 {
		return "task graph did not complete"
	}
	return strings.Join(msgs, "\n")
}

// Unwrap exposes every node failure and the cancellation cause to errors.Is and errors.As.
func (e *AggregateError) Unwrap() []error {
	errs := make([]error, 0, len(e.Errors)+1)
	for _, ne := range e.Errors {
		errs = append(errs, ne)
	}
	if e.Cause != nil {
		errs = append(errs, e.Cause)
	}
	return errs
}

func sortByOrder(errs []*NodeError, order map[*Node]int) {
	slices.SortStableFunc(errs, func(a, b *NodeError) int {
		return order[a.Node] - order[b.Node]
	})
}
