package kgraph

import (
	"fmt"
	"strings"
)

// NodeID is a strongly-typed identifier for graph nodes.
// NodeIDs must be non-empty and cannot contain whitespace.
type NodeID string

// Placeholder marks an offset slot that does not hold a parent. It is the
// empty NodeID, which Validate rejects as a node name.
const Placeholder NodeID = ""

// Validate checks if the NodeID is valid.
// Returns ErrInvalidNodeID if the ID is empty or contains whitespace.
func (id NodeID) Validate() error {
	if id == "" {
		return fmt.Errorf("%w: NodeID cannot be empty", ErrInvalidNodeID)
	}
	if strings.ContainsAny(string(id), " \t\n\r") {
		return fmt.Errorf("%w: NodeID %q cannot contain whitespace", ErrInvalidNodeID, id)
	}
	return nil
}

// NodeKind tells whether a node is a ready-made value or a producer that has
// to be invoked with its dependencies.
type NodeKind int

const (
	// KindValue nodes carry no dependency declaration at all.
	KindValue NodeKind = iota
	// KindFunc nodes declare a (possibly empty) tuple of argument names.
	KindFunc
)

func (k NodeKind) String() string {
	switch k {
	case KindValue:
		return "Value"
	case KindFunc:
		return "Func"
	default:
		return "Unknown"
	}
}

const unannotated = -1

// Node is the build-time representation of a producer in the graph.
type Node struct {
	ID   NodeID
	Kind NodeKind

	// Args are the declared dependency names in declaration order. They may
	// repeat a name. Nil for KindValue nodes.
	Args []NodeID

	// Parents are arena indices of the distinct dependencies, in first
	// declaration order. Filled in by Build.
	Parents []int

	// Depth is the number of edges on the longest dependency chain starting
	// at this node. Filled in by Build.
	Depth int

	index int
}

// Graph is an arena of nodes indexed by insertion position.
type Graph struct {
	Nodes []*Node

	byID map[NodeID]int
}

// NewGraph creates a new empty graph.
func NewGraph() *Graph {
	return &Graph{
		Nodes: make([]*Node, 0),
		byID:  make(map[NodeID]int),
	}
}

// AddNode adds a node to the graph.
func (g *Graph) AddNode(node *Node) error {
	if err := node.ID.Validate(); err != nil {
		return err
	}
	if _, exists := g.byID[node.ID]; exists {
		return fmt.Errorf("%w: %s", ErrNodeAlreadyExists, node.ID)
	}
	node.index = len(g.Nodes)
	node.Depth = unannotated
	g.byID[node.ID] = node.index
	g.Nodes = append(g.Nodes, node)
	return nil
}

// Node returns the node with the given ID.
func (g *Graph) Node(id NodeID) (*Node, bool) {
	idx, ok := g.byID[id]
	if !ok {
		return nil, false
	}
	return g.Nodes[idx], true
}

// Len returns the number of nodes.
func (g *Graph) Len() int {
	return len(g.Nodes)
}
