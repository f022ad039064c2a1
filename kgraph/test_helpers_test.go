package kgraph

import (
	"fmt"
	"math/rand/v2"
	"testing"

	"github.com/alecthomas/assert/v2"
)

// decl is a test node declaration. A nil deps slice registers a value node.
type decl struct {
	name string
	deps []string
}

func value(name string) decl { return decl{name: name} }

func fn(name string, deps ...string) decl {
	if deps == nil {
		deps = []string{}
	}
	return decl{name: name, deps: deps}
}

func buildFrom(decls ...decl) (*DAG, error) {
	b := NewBuilder()
	for _, d := range decls {
		var err error
		if d.deps == nil {
			err = b.AddValueNode(d.name)
		} else {
			err = b.AddFuncNode(d.name, d.deps...)
		}
		if err != nil {
			return nil, err
		}
	}
	return b.Build()
}

func mustBuildFrom(t testing.TB, decls ...decl) *DAG {
	t.Helper()
	dag, err := buildFrom(decls...)
	assert.NoError(t, err)
	return dag
}

func names(order []Entry) []NodeID {
	out := make([]NodeID, len(order))
	for i, e := range order {
		out[i] = e.Name
	}
	return out
}

// assertResolved checks the ordering and offset contract for every entry.
func assertResolved(t testing.TB, order []Entry) {
	t.Helper()
	pos := make(map[NodeID]int, len(order))
	for i, e := range order {
		pos[e.Name] = i
	}

	for i, e := range order {
		if e.Kind == KindValue {
			assert.Zero(t, e.Args, "value node %s has args", e.Name)
			assert.Zero(t, e.Offsets, "value node %s has offsets", e.Name)
			continue
		}

		distinct := map[NodeID]bool{}
		for _, a := range e.Args {
			p, ok := pos[a]
			assert.True(t, ok, "dependency %s of %s not emitted", a, e.Name)
			assert.True(t, p < i, "dependency %s (pos %d) not before %s (pos %d)", a, p, e.Name, i)
			distinct[a] = true
		}

		assert.True(t, e.Window() <= i, "window of %s reaches before start", e.Name)
		seen := map[NodeID]int{}
		for j, o := range e.Offsets {
			if o == Placeholder {
				continue
			}
			seen[o]++
			assert.Equal(t, o, order[i-1-j].Name, "slot %d of %s", j, e.Name)
		}
		assert.Equal(t, len(distinct), len(seen), "slots of %s", e.Name)
		for a := range distinct {
			assert.Equal(t, 1, seen[a], "dependency %s of %s", a, e.Name)
		}
		if len(e.Offsets) > 0 {
			assert.NotEqual(t, Placeholder, e.Offsets[len(e.Offsets)-1], "trailing placeholder in %s", e.Name)
		}
	}
}

// randomDecls generates an acyclic declaration list: node i may only depend
// on nodes with a larger index, and nodes are registered in shuffled order.
func randomDecls(r *rand.Rand, n int) []decl {
	decls := make([]decl, n)
	for i := range decls {
		name := fmt.Sprintf("n%d", i)
		if r.IntN(4) == 0 {
			decls[i] = value(name)
			continue
		}
		deps := []string{}
		for j := i + 1; j < n; j++ {
			if r.IntN(5) == 0 {
				deps = append(deps, fmt.Sprintf("n%d", j))
			}
		}
		decls[i] = fn(name, deps...)
	}
	r.Shuffle(len(decls), func(i, j int) { decls[i], decls[j] = decls[j], decls[i] })
	return decls
}
