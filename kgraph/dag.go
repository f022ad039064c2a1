package kgraph

import "slices"

// DAG is a validated graph together with its resolved evaluation order.
// It is immutable and safe for concurrent use.
type DAG struct {
	graph *Graph
	order []Entry
}

// Order returns the resolved entries. Every entry comes after all of its
// dependencies.
func (d *DAG) Order() []Entry {
	out := make([]Entry, len(d.order))
	for i, e := range d.order {
		out[i] = Entry{
			Name:    e.Name,
			Kind:    e.Kind,
			Args:    slices.Clone(e.Args),
			Offsets: slices.Clone(e.Offsets),
		}
	}
	return out
}

// Names returns the node names in resolved order.
func (d *DAG) Names() []NodeID {
	names := make([]NodeID, len(d.order))
	for i, e := range d.order {
		names[i] = e.Name
	}
	return names
}

// Len returns the number of nodes.
func (d *DAG) Len() int {
	return len(d.order)
}

// Depth returns the longest dependency chain length of the named node.
func (d *DAG) Depth(id NodeID) (int, bool) {
	node, ok := d.graph.Node(id)
	if !ok {
		return 0, false
	}
	return node.Depth, true
}
