package kgraph

import "fmt"

// Builder collects named nodes and their declared dependencies.
//
// A Builder is used from one goroutine and stops accepting nodes once built.
// The DAG it returns is read-only.
type Builder struct {
	graph *Graph
	built bool
}

// NewBuilder creates a new graph builder.
func NewBuilder() *Builder {
	return &Builder{
		graph: NewGraph(),
	}
}

// AddValueNode adds a ready-made node that declares no dependencies.
func (b *Builder) AddValueNode(name string) error {
	return b.add(&Node{
		ID:   NodeID(name),
		Kind: KindValue,
	})
}

// AddFuncNode adds a node that is invoked with the values of deps.
// An empty deps list declares a zero-argument producer.
func (b *Builder) AddFuncNode(name string, deps ...string) error {
	args := make([]NodeID, len(deps))
	for i, d := range deps {
		args[i] = NodeID(d)
	}
	return b.add(&Node{
		ID:   NodeID(name),
		Kind: KindFunc,
		Args: args,
	})
}

func (b *Builder) add(node *Node) error {
	if b.built {
		return fmt.Errorf("%w: builder already built", ErrInvalidGraph)
	}
	if len(node.Args) > MaxArgsPerNode {
		return fmt.Errorf("%w: node %s declares %d arguments, exceeds maximum %d",
			ErrInvalidGraph, node.ID, len(node.Args), MaxArgsPerNode)
	}
	return b.graph.AddNode(node)
}

// Build validates the graph, annotates depths and packs the evaluation order.
// The builder cannot be used for further registration afterwards.
func (b *Builder) Build() (*DAG, error) {
	if err := b.graph.Validate(); err != nil {
		return nil, err
	}
	b.built = true

	order := b.graph.packOrder()
	return &DAG{
		graph: b.graph,
		order: order,
	}, nil
}

// MustBuild is like Build but panics on error.
func (b *Builder) MustBuild() *DAG {
	dag, err := b.Build()
	if err != nil {
		panic(err)
	}
	return dag
}

// GetGraph returns the underlying graph for read-only access.
func (b *Builder) GetGraph() *Graph {
	return b.graph
}

// GetNode returns a node by ID if it exists.
func (b *Builder) GetNode(id NodeID) (*Node, bool) {
	return b.graph.Node(id)
}

// MustAddValueNode is like AddValueNode but panics on error.
func MustAddValueNode(b *Builder, name string) {
	must(b.AddValueNode(name))
}

// MustAddFuncNode is like AddFuncNode but panics on error.
func MustAddFuncNode(b *Builder, name string, deps ...string) {
	must(b.AddFuncNode(name, deps...))
}

func must(err error) {
	if err != nil {
		panic(err)
	}
}
