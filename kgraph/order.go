package kgraph

import (
	"slices"
	"strings"
)

// Entry is one position of the resolved evaluation order.
//
// Offsets encode where the node's dependencies sit relative to its own
// position: slot j holds the name of the node emitted j+1 positions earlier
// when that node is a dependency, and Placeholder otherwise. The slice ends at
// the furthest dependency, so an executor can satisfy the node from the last
// len(Offsets) outputs read newest first.
type Entry struct {
	Name NodeID
	Kind NodeKind

	// Args is the declaration as given: nil for KindValue nodes, possibly
	// empty for KindFunc nodes.
	Args []NodeID

	// Offsets is nil for KindValue nodes and empty for zero-argument nodes.
	Offsets []NodeID
}

// Window is the number of trailing outputs the entry reads.
func (e Entry) Window() int {
	return len(e.Offsets)
}

func (e Entry) String() string {
	var sb strings.Builder
	sb.WriteString(string(e.Name))
	if e.Kind == KindValue {
		return sb.String()
	}
	sb.WriteByte('(')
	for i, o := range e.Offsets {
		if i > 0 {
			sb.WriteString(", ")
		}
		if o == Placeholder {
			sb.WriteByte('_')
		} else {
			sb.WriteString(string(o))
		}
	}
	sb.WriteByte(')')
	return sb.String()
}

// packOrder linearizes the annotated graph.
//
// Explorations start from the deepest unvisited node. Each exploration emits a
// node only after all of its dependencies, visiting the deepest dependency
// first so the shallow ones land right before the node and the offset windows
// stay short. Ties keep insertion order for starting nodes and put the first
// declared dependency closest to the node. Explorations are emitted in the
// order they run, so independent nodes keep insertion order.
func (g *Graph) packOrder() []Entry {
	starts := make([]*Node, len(g.Nodes))
	copy(starts, g.Nodes)
	slices.SortStableFunc(starts, func(a, b *Node) int {
		return b.Depth - a.Depth
	})

	visited := make([]bool, len(g.Nodes))
	seq := make([]int, 0, len(g.Nodes))

	var explore func(int)
	explore = func(u int) {
		if visited[u] {
			return
		}
		visited[u] = true

		parents := g.parentsByDepth(u)
		for i := len(parents) - 1; i >= 0; i-- {
			explore(parents[i])
		}
		seq = append(seq, u)
	}

	for _, node := range starts {
		explore(node.index)
	}

	return g.encodeOffsets(seq)
}

// parentsByDepth returns the parents of u sorted by ascending depth, stable on
// declaration order.
func (g *Graph) parentsByDepth(u int) []int {
	parents := slices.Clone(g.Nodes[u].Parents)
	slices.SortStableFunc(parents, func(a, b int) int {
		return g.Nodes[a].Depth - g.Nodes[b].Depth
	})
	return parents
}

func (g *Graph) encodeOffsets(seq []int) []Entry {
	pos := make([]int, len(g.Nodes))
	for i, idx := range seq {
		pos[idx] = i
	}

	order := make([]Entry, len(seq))
	for i, idx := range seq {
		node := g.Nodes[idx]
		entry := Entry{
			Name: node.ID,
			Kind: node.Kind,
		}
		if node.Kind == KindValue {
			order[i] = entry
			continue
		}
		entry.Args = slices.Clone(node.Args)

		furthest := i
		isParent := make(map[int]bool, len(node.Parents))
		for _, p := range node.Parents {
			isParent[p] = true
			furthest = min(furthest, pos[p])
		}

		entry.Offsets = make([]NodeID, i-furthest)
		for j := range entry.Offsets {
			prev := seq[i-1-j]
			if isParent[prev] {
				entry.Offsets[j] = g.Nodes[prev].ID
			}
		}
		order[i] = entry
	}
	return order
}
