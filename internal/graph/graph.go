// Package graph implements the dependency DAG over component names:
// add component, add dependency, and topological resolution (spec §4.4).
package graph

import "github.com/containust/containust/internal/primitives"

// NodeHandle is an opaque index into the graph's node vector.
type NodeHandle int

// Graph is a set of nodes plus an adjacency list keyed by node handle. Edge
// direction runs from dependency to dependent, so a topological sort yields
// dependencies first.
type Graph struct {
	names []string
	index map[string]NodeHandle
	// edges[h] lists the handles of nodes that depend on h (h's dependents).
	edges map[NodeHandle][]NodeHandle
}

// New returns an empty graph.
func New() *Graph {
	return &Graph{
		index: make(map[string]NodeHandle),
		edges: make(map[NodeHandle][]NodeHandle),
	}
}

// AddComponent registers name if not already present and returns its handle.
func (g *Graph) AddComponent(name string) NodeHandle {
	if h, ok := g.index[name]; ok {
		return h
	}
	h := NodeHandle(len(g.names))
	g.names = append(g.names, name)
	g.index[name] = h
	return h
}

// AddDependency records that dependent depends on dependency: dependency
// must be started before dependent. An edge is inserted only if both
// endpoints are already registered nodes.
func (g *Graph) AddDependency(dependent, dependency string) {
	dh, dhOK := g.index[dependency]
	pn, pnOK := g.index[dependent]
	if !dhOK || !pnOK {
		return
	}
	g.edges[dh] = append(g.edges[dh], pn)
}

// ResolveOrder performs a topological sort via iterative depth-first
// traversal. For every acyclic input, every node appears exactly once, with
// every dependency preceding its dependent. A cycle yields a single Config
// error (spec §4.4, §8 property 4).
func (g *Graph) ResolveOrder() ([]string, error) {
	const (
		white = 0 // unvisited
		gray  = 1 // on the current DFS stack
		black = 2 // finished
	)
	color := make([]int, len(g.names))
	var order []string

	var visit func(h NodeHandle) error
	visit = func(h NodeHandle) error {
		color[h] = gray
		for _, dep := range g.edges[h] {
			switch color[dep] {
			case white:
				if err := visit(dep); err != nil {
					return err
				}
			case gray:
				return primitives.NewConfig("cyclic dependency detected involving component %q", g.names[dep])
			}
		}
		color[h] = black
		order = append(order, g.names[h])
		return nil
	}

	for h := range g.names {
		if color[h] == white {
			if err := visit(NodeHandle(h)); err != nil {
				return nil, err
			}
		}
	}

	// order was built in post-order (a node is appended only after every
	// node that depends on it); reversing yields dependencies-first order.
	for i, j := 0, len(order)-1; i < j; i, j = i+1, j-1 {
		order[i], order[j] = order[j], order[i]
	}
	return order, nil
}
