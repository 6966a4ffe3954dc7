package graph

import (
	"slices"
	"sync"
)

type Node struct {
	ID           string
	Dependencies []string
}

// Graph holds the constructor dependency edges observed while building
// instances. Edges point from a type to its constructor parameter types.
type Graph struct {
	mu    sync.RWMutex
	nodes map[string]*Node
}

func New() *Graph {
	return &Graph{
		nodes: make(map[string]*Node),
	}
}

func (g *Graph) AddNode(id string, dependencies []string) {
	g.mu.Lock()
	defer g.mu.Unlock()

	deps := make([]string, len(dependencies))
	copy(deps, dependencies)
	g.nodes[id] = &Node{
		ID:           id,
		Dependencies: deps,
	}
}

func (g *Graph) HasNode(id string) bool {
	g.mu.RLock()
	defer g.mu.RUnlock()

	_, exists := g.nodes[id]
	return exists
}

func (g *Graph) GetDependencies(id string) []string {
	g.mu.RLock()
	defer g.mu.RUnlock()

	node, exists := g.nodes[id]
	if !exists {
		return nil
	}

	result := make([]string, len(node.Dependencies))
	copy(result, node.Dependencies)
	return result
}

func (g *Graph) GetDependents(id string) []string {
	g.mu.RLock()
	defer g.mu.RUnlock()

	var dependents []string
	for nodeID, node := range g.nodes {
		if slices.Contains(node.Dependencies, id) {
			dependents = append(dependents, nodeID)
		}
	}
	slices.Sort(dependents)
	return dependents
}

// Nodes returns node ids in sorted order.
func (g *Graph) Nodes() []string {
	g.mu.RLock()
	defer g.mu.RUnlock()

	nodes := make([]string, 0, len(g.nodes))
	for id := range g.nodes {
		nodes = append(nodes, id)
	}
	slices.Sort(nodes)
	return nodes
}

func (g *Graph) Size() int {
	g.mu.RLock()
	defer g.mu.RUnlock()

	return len(g.nodes)
}

// Missing returns dependencies that were referenced but never became nodes,
// sorted.
func (g *Graph) Missing() []string {
	g.mu.RLock()
	defer g.mu.RUnlock()

	var missing []string
	seen := make(map[string]bool)

	for _, node := range g.nodes {
		for _, dep := range node.Dependencies {
			if _, exists := g.nodes[dep]; !exists && !seen[dep] {
				missing = append(missing, dep)
				seen[dep] = true
			}
		}
	}

	slices.Sort(missing)
	return missing
}
