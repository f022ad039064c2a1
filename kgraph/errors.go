package kgraph

import (
	"errors"
	"fmt"
	"strings"
)

// Sentinel errors for common failure cases.
var (
	ErrNodeAlreadyExists = errors.New("node already exists")
	ErrUnknownDependency = errors.New("unknown dependency")
	ErrCycleDetected     = errors.New("cycle detected in graph")
	ErrInvalidNodeID     = errors.New("invalid node ID")
	ErrInvalidGraph      = errors.New("invalid graph")
)

// DependencyError reports a declared dependency that is not a node of the
// graph.
type DependencyError struct {
	Node    NodeID
	Missing NodeID
}

func (e *DependencyError) Error() string {
	return fmt.Sprintf("%s: %s depends on %q", ErrUnknownDependency, e.Node, e.Missing)
}

func (e *DependencyError) Unwrap() error { return ErrUnknownDependency }

// CycleError reports a dependency cycle. Path starts and ends with the same
// node; each element depends on the next one.
type CycleError struct {
	Path []NodeID
}

func (e *CycleError) Error() string {
	parts := make([]string, len(e.Path))
	for i, id := range e.Path {
		parts[i] = string(id)
	}
	return fmt.Sprintf("%s: %s", ErrCycleDetected, strings.Join(parts, " -> "))
}

func (e *CycleError) Unwrap() error { return ErrCycleDetected }
