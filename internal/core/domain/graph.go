// Package domain contains the core domain models of the build engine.
package domain

import (
	"iter"
	"reflect"

	"go.trai.ch/zerr"
)

// Graph is the validated set of tasks reachable from the roots of one build.
type Graph struct {
	roots          []BuildTask
	executionOrder []BuildTask
}

// NewGraph collects every task reachable from roots and validates the result.
// Tasks are identified by identity, so a shared dependency appears once.
// It fails if two distinct tasks share a name or if the dependency relation has a cycle.
func NewGraph(roots ...BuildTask) (*Graph, error) {
	g := &Graph{roots: roots}

	tasks, err := collect(roots)
	if err != nil {
		return nil, err
	}

	if err := checkNames(tasks); err != nil {
		return nil, err
	}

	if err := g.Validate(); err != nil {
		return nil, err
	}

	return g, nil
}

// collect returns the distinct tasks reachable from roots in discovery order.
func collect(roots []BuildTask) ([]BuildTask, error) {
	seen := make(map[BuildTask]struct{})
	var tasks []BuildTask

	stack := make([]BuildTask, 0, len(roots))
	for i := len(roots) - 1; i >= 0; i-- {
		stack = append(stack, roots[i])
	}

	for len(stack) > 0 {
		t := stack[len(stack)-1]
		stack = stack[:len(stack)-1]

		if t == nil {
			return nil, ErrNilTask
		}
		if !reflect.TypeOf(t).Comparable() {
			return nil, zerr.With(ErrTaskNotComparable, "type", reflect.TypeOf(t).String())
		}
		if _, ok := seen[t]; ok {
			continue
		}
		seen[t] = struct{}{}
		tasks = append(tasks, t)

		deps := t.Dependencies()
		for i := len(deps) - 1; i >= 0; i-- {
			stack = append(stack, deps[i])
		}
	}

	return tasks, nil
}

func checkNames(tasks []BuildTask) error {
	names := make(map[TaskName]BuildTask, len(tasks))
	for _, t := range tasks {
		name := NameOf(t)
		if _, exists := names[name]; exists {
			return &DuplicateNameError{Name: name.String()}
		}
		names[name] = t
	}
	return nil
}

// Validate checks the dependency relation for cycles using a depth-first search.
// It populates the execution order, dependencies before dependents, if successful.
func (g *Graph) Validate() error {
	g.executionOrder = g.executionOrder[:0]

	visited := make(map[BuildTask]int) // 0: unvisited, 1: visiting, 2: visited
	var path []BuildTask

	var visit func(u BuildTask) error
	visit = func(u BuildTask) error {
		visited[u] = 1
		path = append(path, u)

		for _, dep := range u.Dependencies() {
			if visited[dep] == 1 {
				return buildCycleError(path, dep)
			}
			if visited[dep] == 0 {
				if err := visit(dep); err != nil {
					return err
				}
			}
		}

		visited[u] = 2
		path = path[:len(path)-1]
		g.executionOrder = append(g.executionOrder, u)
		return nil
	}

	for _, root := range g.roots {
		if visited[root] == 0 {
			if err := visit(root); err != nil {
				return err
			}
		}
	}

	return nil
}

// buildCycleError reconstructs the cycle from the point where dep entered the path.
func buildCycleError(path []BuildTask, dep BuildTask) error {
	startIdx := 0
	for i, node := range path {
		if node == dep {
			startIdx = i
			break
		}
	}

	names := make([]string, 0, len(path)-startIdx+1)
	for _, node := range path[startIdx:] {
		names = append(names, node.Name())
	}
	names = append(names, dep.Name())

	return &CycleError{Path: names}
}

// Walk returns an iterator that yields tasks in execution order.
func (g *Graph) Walk() iter.Seq[BuildTask] {
	return func(yield func(BuildTask) bool) {
		for _, t := range g.executionOrder {
			if !yield(t) {
				return
			}
		}
	}
}

// Roots returns the tasks the graph was built from.
func (g *Graph) Roots() []BuildTask {
	return g.roots
}

// TaskCount returns the number of distinct tasks in the graph.
func (g *Graph) TaskCount() int {
	return len(g.executionOrder)
}
