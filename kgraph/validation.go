package kgraph

import (
	"fmt"

	"go.uber.org/multierr"
)

// Validation limits to prevent pathological cases
const (
	MaxNodesPerGraph = 10000
	MaxArgsPerNode   = 1000
)

// Validate checks the structure of the graph and annotates every node with
// its parents and depth.
//
// Every declared dependency must name a node of the graph; all offending
// declarations are reported at once. The dependency relation must be
// acyclic; the first cycle found is reported with its path.
func (g *Graph) Validate() error {
	if len(g.Nodes) > MaxNodesPerGraph {
		return fmt.Errorf("%w: node count %d exceeds maximum %d",
			ErrInvalidGraph, len(g.Nodes), MaxNodesPerGraph)
	}

	if err := g.linkParents(); err != nil {
		return fmt.Errorf("graph validation failed: %w", err)
	}

	if err := g.annotateDepths(); err != nil {
		return fmt.Errorf("graph validation failed: %w", err)
	}

	return nil
}

// linkParents resolves declared argument names to arena indices.
// Repeated names collapse onto one parent.
func (g *Graph) linkParents() error {
	var err error
	for _, node := range g.Nodes {
		node.Parents = node.Parents[:0]
		seen := make(map[int]bool, len(node.Args))
		for _, arg := range node.Args {
			idx, ok := g.byID[arg]
			if !ok {
				err = multierr.Append(err, &DependencyError{Node: node.ID, Missing: arg})
				continue
			}
			if seen[idx] {
				continue
			}
			seen[idx] = true
			node.Parents = append(node.Parents, idx)
		}
	}
	return err
}

type color uint8

const (
	white color = iota // not visited
	gray               // on the current path
	black              // depth known
)

// annotateDepths computes the longest dependency chain of every node with a
// memoized DFS over parents. A parent found on the current path is a cycle.
func (g *Graph) annotateDepths() error {
	colors := make([]color, len(g.Nodes))
	stack := make([]int, 0, len(g.Nodes))

	var explore func(int) error
	explore = func(u int) error {
		colors[u] = gray
		stack = append(stack, u)

		node := g.Nodes[u]
		depth := 0
		for _, p := range node.Parents {
			switch colors[p] {
			case gray:
				return g.cycleFrom(stack, p)
			case white:
				if err := explore(p); err != nil {
					return err
				}
			}
			if d := g.Nodes[p].Depth + 1; d > depth {
				depth = d
			}
		}
		node.Depth = depth

		stack = stack[:len(stack)-1]
		colors[u] = black
		return nil
	}

	for i, node := range g.Nodes {
		node.Depth = unannotated
		colors[i] = white
	}
	for i := range g.Nodes {
		if colors[i] == white {
			if err := explore(i); err != nil {
				return err
			}
		}
	}
	return nil
}

func (g *Graph) cycleFrom(stack []int, start int) error {
	from := 0
	for i, idx := range stack {
		if idx == start {
			from = i
			break
		}
	}
	path := make([]NodeID, 0, len(stack)-from+1)
	for _, idx := range stack[from:] {
		path = append(path, g.Nodes[idx].ID)
	}
	path = append(path, g.Nodes[start].ID)
	return &CycleError{Path: path}
}
