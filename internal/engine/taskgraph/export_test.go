package taskgraph

// SetDependencies replaces the dependencies of n.
// This is exported for testing purposes only, to build cyclic graphs.
func (n *Node) SetDependencies(deps ...*Node) {
	n.deps = deps
}
