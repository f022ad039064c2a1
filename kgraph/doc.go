// Package kgraph resolves a named collection of producers into an evaluation
// order that a purely sequential executor can follow.
//
// # Overview
//
// Every node is either a ready-made value (KindValue) or a producer that
// declares the names of the sibling nodes it needs (KindFunc, possibly with
// zero arguments). Build validates the declarations, annotates each node with
// the length of its longest dependency chain and packs the nodes into a
// linear order.
//
// # Trailing-window offsets
//
// The executor that consumes the order keeps an append-only list of outputs
// and never looks values up by name. Instead each entry carries Offsets: the
// names of its dependencies laid out by how far back they were produced,
// newest first, with Placeholder filling positions that belong to unrelated
// nodes. Given outputs xs, the arguments of an entry e are
//
//	window := xs[len(xs)-e.Window():]
//	for j, name := range e.Offsets {
//	    if name != kgraph.Placeholder {
//	        args[name] = window[len(window)-1-j]
//	    }
//	}
//
// # Basic Usage
//
//	b := kgraph.NewBuilder()
//	kgraph.MustAddValueNode(b, "e")
//	kgraph.MustAddFuncNode(b, "g", "e")
//	kgraph.MustAddValueNode(b, "n")
//	kgraph.MustAddFuncNode(b, "m", "n", "g")
//	kgraph.MustAddFuncNode(b, "x", "m")
//
//	dag := b.MustBuild()
//	for _, e := range dag.Order() {
//	    fmt.Println(e) // e, g(e), n, m(n, g), x(m)
//	}
//
// # Validation
//
// Build checks:
//
//   - **Unknown dependencies**: every declared name must be a node; all
//     offending declarations are reported as *DependencyError values
//     matching ErrUnknownDependency.
//   - **Cycles**: reported as a *CycleError matching ErrCycleDetected,
//     naming the path, e.g. "a -> b -> a".
//   - **Size Limits**: MaxNodesPerGraph and MaxArgsPerNode.
//
// # Determinism
//
// Nodes with equal depth are explored in insertion order and dependencies with
// equal depth in declaration order, so the same registrations always produce
// the same order and offsets.
//
// # Thread Safety
//
// Builder is NOT safe for concurrent use. The resulting DAG is immutable and
// safe to use concurrently.
package kgraph
