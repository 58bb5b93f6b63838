// Package taskgraph executes a directed acyclic graph of actions concurrently.
package taskgraph

import (
	"context"
	"fmt"
	"runtime"
	"strings"

	"go.trai.ch/bud/internal/core/domain"
	"go.trai.ch/zerr"
)

// ErrActionPanicked is returned for a node whose action panicked.
var ErrActionPanicked = zerr.New("action panicked")

// Action is the unit of work attached to a node.
type Action func(ctx context.Context) error

// Node is a vertex of the graph. Nodes are identified by pointer, so a node
// reachable through several parents is still executed once.
type Node struct {
	name   string
	action Action
	deps   []*Node
}

// NewNode creates a node running action after every node in deps has succeeded.
func NewNode(name string, action Action, deps ...*Node) *Node {
	return &Node{name: name, action: action, deps: deps}
}

// Name returns the display name of the node.
func (n *Node) Name() string {
	return n.name
}

// Dependencies returns the nodes n waits for.
func (n *Node) Dependencies() []*Node {
	return n.deps
}

// Runner schedules nodes on a bounded number of goroutines.
type Runner struct {
	parallelism int
}

// NewRunner creates a Runner. A non-positive parallelism uses runtime.NumCPU().
func NewRunner(parallelism int) *Runner {
	if parallelism <= 0 {
		parallelism = runtime.NumCPU()
	}
	return &Runner{parallelism: parallelism}
}

// Parallelism returns the maximum number of actions run at once.
func (r *Runner) Parallelism() int {
	return r.parallelism
}

// Run executes every node reachable from roots.
//
// A node starts only after all of its dependencies succeeded. Dependents of a
// failed node are never started, while unrelated branches keep running.
// Once no more progress is possible, every failure is returned together as an
// *AggregateError. Cancelling ctx stops scheduling new nodes.
func (r *Runner) Run(ctx context.Context, roots ...*Node) error {
	state, err := r.newRunState(ctx, roots)
	if err != nil {
		return err
	}

	for !state.isDone() {
		state.schedule()

		if state.isDone() {
			break
		}

		if state.ctx.Err() != nil {
			if state.active == 0 {
				break
			}
			state.handleResult(<-state.resultsCh)
			continue
		}

		select {
		case res := <-state.resultsCh:
			state.handleResult(res)
		case <-state.ctx.Done():
		}
	}

	return state.finish()
}

type result struct {
	node *Node
	err  error
}

type nodeState int

const (
	nodePending nodeState = iota
	nodeRunning
	nodeSucceeded
	nodeFailed
)

type runState struct {
	nodes       []*Node
	order       map[*Node]int
	inDegree    map[*Node]int
	dependents  map[*Node][]*Node
	states      map[*Node]nodeState
	ready       []*Node
	active      int
	resultsCh   chan result
	errs        []*NodeError
	ctx         context.Context
	parallelism int
}

func (r *Runner) newRunState(ctx context.Context, roots []*Node) (*runState, error) {
	state := &runState{
		order:       make(map[*Node]int),
		inDegree:    make(map[*Node]int),
		dependents:  make(map[*Node][]*Node),
		states:      make(map[*Node]nodeState),
		resultsCh:   make(chan result, r.parallelism),
		ctx:         ctx,
		parallelism: r.parallelism,
	}

	if err := state.discover(roots); err != nil {
		return nil, err
	}

	for _, n := range state.nodes {
		if state.inDegree[n] == 0 {
			state.ready = append(state.ready, n)
		}
	}

	return state, nil
}

// discover walks the graph depth-first, recording nodes dependencies first,
// counting distinct incoming edges and rejecting cycles.
func (state *runState) discover(roots []*Node) error {
	visiting := make(map[*Node]bool)
	var path []*Node

	var visit func(n *Node) error
	visit = func(n *Node) error {
		visiting[n] = true
		path = append(path, n)

		seen := make(map[*Node]struct{}, len(n.deps))
		for _, dep := range n.deps {
			if _, dup := seen[dep]; dup {
				continue
			}
			seen[dep] = struct{}{}

			if visiting[dep] {
				return cycleError(path, dep)
			}
			if _, done := state.order[dep]; !done {
				if err := visit(dep); err != nil {
					return err
				}
			}
			state.inDegree[n]++
			state.dependents[dep] = append(state.dependents[dep], n)
		}

		visiting[n] = false
		path = path[:len(path)-1]
		state.order[n] = len(state.nodes)
		state.nodes = append(state.nodes, n)
		return nil
	}

	for _, root := range roots {
		if _, done := state.order[root]; done {
			continue
		}
		if err := visit(root); err != nil {
			return err
		}
	}
	return nil
}

func cycleError(path []*Node, dep *Node) error {
	start := 0
	for i, n := range path {
		if n == dep {
			start = i
			break
		}
	}
	names := make([]string, 0, len(path)-start+1)
	for _, n := range path[start:] {
		names = append(names, n.name)
	}
	names = append(names, dep.name)
	return zerr.With(domain.ErrCycleDetected, "cycle", strings.Join(names, " -> "))
}

func (state *runState) isDone() bool {
	return state.active == 0 && len(state.ready) == 0
}

func (state *runState) schedule() {
	for len(state.ready) > 0 && state.active < state.parallelism && state.ctx.Err() == nil {
		n := state.ready[0]
		state.ready = state.ready[1:]

		state.active++
		state.states[n] = nodeRunning

		go func(n *Node) {
			state.resultsCh <- result{node: n, err: runAction(state.ctx, n)}
		}(n)
	}
}

func runAction(ctx context.Context, n *Node) (err error) {
	defer func() {
		if r := recover(); r != nil {
			err = zerr.With(ErrActionPanicked, "panic", fmt.Sprint(r))
		}
	}()
	if n.action == nil {
		return nil
	}
	return n.action(ctx)
}

func (state *runState) handleResult(res result) {
	state.active--
	if res.err != nil {
		state.states[res.node] = nodeFailed
		state.errs = append(state.errs, &NodeError{Node: res.node, Err: res.err})
		return
	}

	state.states[res.node] = nodeSucceeded
	for _, dependent := range state.dependents[res.node] {
		state.inDegree[dependent]--
		if state.inDegree[dependent] == 0 {
			state.ready = append(state.ready, dependent)
		}
	}
}

func (state *runState) finish() error {
	ctxErr := state.ctx.Err()
	if len(state.errs) == 0 && ctxErr == nil {
		return nil
	}

	agg := &AggregateError{Cause: ctxErr}

	errs := make([]*NodeError, len(state.errs))
	copy(errs, state.errs)
	sortByOrder(errs, state.order)
	agg.Errors = errs

	for _, n := range state.nodes {
		if state.states[n] == nodePending {
			agg.Skipped = append(agg.Skipped, n)
		}
	}

	if len(agg.Errors) == 0 && len(agg.Skipped) == 0 {
		return nil
	}
	return agg
}
