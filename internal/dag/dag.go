package dag

import (
	"fmt"
	"strings"
)

// New creates and returns an initialized, empty Graph.
func New() *Graph {
	return &Graph{
		nodes: make(map[string]*node),
	}
}

// AddNode adds a new node with the given ID to the graph. If a node with
// the same ID already exists, the function does nothing.
func (g *Graph) AddNode(id string) {
	g.mutex.Lock()
	defer g.mutex.Unlock()

	if _, ok := g.nodes[id]; ok {
		return
	}

	n := &node{
		id:         id,
		dependents: make(map[string]*node),
	}
	g.nodes[id] = n
	g.order = append(g.order, n)
}

// AddEdge creates a directed edge from the `fromID` node to the `toID` node.
// This signifies that `toID` has a dependency on `fromID`. An error is returned
// if either node does not exist or if the edge would create a self-reference.
func (g *Graph) AddEdge(fromID, toID string) error {
	if fromID == toID {
		return fmt.Errorf("self-referential edge not allowed: %s -> %s", fromID, fromID)
	}

	g.mutex.Lock()
	defer g.mutex.Unlock()

	fromNode, ok := g.nodes[fromID]
	if !ok {
		return fmt.Errorf("source node not found: %s", fromID)
	}

	toNode, ok := g.nodes[toID]
	if !ok {
		return fmt.Errorf("destination node not found: %s", toID)
	}

	if _, exists := fromNode.dependents[toID]; exists {
		return nil
	}
	toNode.deps = append(toNode.deps, fromNode)
	fromNode.dependents[toID] = toNode

	return nil
}

// Dependencies returns the IDs of the nodes the given node depends on, in
// the order the edges were added.
func (g *Graph) Dependencies(id string) ([]string, error) {
	g.mutex.RLock()
	defer g.mutex.RUnlock()

	n, ok := g.nodes[id]
	if !ok {
		return nil, fmt.Errorf("node not found: %s", id)
	}

	deps := make([]string, 0, len(n.deps))
	for _, dep := range n.deps {
		deps = append(deps, dep.id)
	}
	return deps, nil
}

// Sort returns every node ID ordered so that each node follows all of its
// dependencies. Nodes are visited in insertion order and each node's
// dependencies are emitted just before it, so unrelated nodes keep their
// relative order. A cycle is reported as an error naming its path.
func (g *Graph) Sort() ([]string, error) {
	g.mutex.RLock()
	defer g.mutex.RUnlock()

	// Use classic depth-first search with three sets of nodes:
	// permanent: nodes already emitted.
	// temporary: nodes currently in the recursion stack.
	// unvisited: all other nodes.
	permanent := make(map[string]bool, len(g.nodes))
	temporary := make(map[string]bool)
	var stack []string
	sorted := make([]string, 0, len(g.nodes))

	var visit func(n *node) error
	visit = func(n *node) error {
		if permanent[n.id] {
			return nil
		}
		if temporary[n.id] {
			return fmt.Errorf("cycle detected: %s -> %s", strings.Join(stack, " -> "), n.id)
		}

		temporary[n.id] = true
		stack = append(stack, n.id)
		for _, dep := range n.deps {
			if err := visit(dep); err != nil {
				return err
			}
		}
		stack = stack[:len(stack)-1]
		delete(temporary, n.id)
		permanent[n.id] = true
		sorted = append(sorted, n.id)
		return nil
	}

	for _, n := range g.order {
		if err := visit(n); err != nil {
			return nil, err
		}
	}
	return sorted, nil
}

// DetectCycles checks the graph for any cycles.
func (g *Graph) DetectCycles() error {
	_, err := g.Sort()
	return err
}
