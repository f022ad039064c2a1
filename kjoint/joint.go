package kjoint

import (
	"context"
	"fmt"
	"log/slog"
	"slices"

	"github.com/birdayz/kjoint/kgraph"
)

// WrappedFunc builds the distribution of one position from the outputs of all
// earlier positions, oldest first.
type WrappedFunc func(history []any) (Distribution, error)

// Chain is the resolved model as four index-aligned slices. Position i comes
// after every position holding one of its dependencies.
type Chain struct {
	// Makers are the model entries.
	Makers []Maker
	// Wrapped adapt each maker to the positional calling convention.
	Wrapped []WrappedFunc
	// Args are the declared dependency names; nil for fixed makers.
	Args [][]string
	// Names are the entry names.
	Names []string
}

// Joint is a resolved model. It is immutable and safe for concurrent use.
type Joint struct {
	log     *slog.Logger
	workers int

	dag   *kgraph.DAG
	chain Chain
}

// New resolves the model. Unknown dependencies and cycles are reported here,
// before any maker is invoked.
func New(m *Model, opts ...Option) (*Joint, error) {
	if m == nil {
		return nil, fmt.Errorf("%w: nil model", ErrInvalidModel)
	}
	j := &Joint{
		log:     NullLogger(),
		workers: 1,
	}
	for _, opt := range opts {
		opt(j)
	}

	b := kgraph.NewBuilder()
	for _, name := range m.names {
		mk := m.makers[name]
		var err error
		if mk.IsFixed() {
			err = b.AddValueNode(name)
		} else {
			err = b.AddFuncNode(name, mk.args...)
		}
		if err != nil {
			return nil, err
		}
	}

	dag, err := b.Build()
	if err != nil {
		return nil, fmt.Errorf("failed to resolve model: %w", err)
	}
	j.dag = dag

	order := dag.Order()
	j.chain = Chain{
		Makers:  make([]Maker, len(order)),
		Wrapped: make([]WrappedFunc, len(order)),
		Args:    make([][]string, len(order)),
		Names:   make([]string, len(order)),
	}
	for i, e := range order {
		mk := m.makers[string(e.Name)]
		j.chain.Makers[i] = mk
		j.chain.Wrapped[i] = wrap(mk, e)
		j.chain.Args[i] = mk.Args()
		j.chain.Names[i] = string(e.Name)
	}

	if j.log.Enabled(context.Background(), slog.LevelDebug) {
		resolved := make([]string, len(order))
		for i, e := range order {
			resolved[i] = e.String()
		}
		j.log.Debug("Resolved model", "entries", len(order), "order", resolved)
	}

	return j, nil
}

// MustNew is like New but panics on error.
func MustNew(m *Model, opts ...Option) *Joint {
	j, err := New(m, opts...)
	if err != nil {
		panic(err)
	}
	return j
}

// Resolved returns the resolved entries with their offsets.
func (j *Joint) Resolved() []kgraph.Entry {
	return j.dag.Order()
}

// Names returns the entry names in resolved order.
func (j *Joint) Names() []string {
	return slices.Clone(j.chain.Names)
}

// Chain returns a copy of the resolved chain.
func (j *Joint) Chain() Chain {
	args := make([][]string, len(j.chain.Args))
	for i, a := range j.chain.Args {
		args[i] = slices.Clone(a)
	}
	return Chain{
		Makers:  slices.Clone(j.chain.Makers),
		Wrapped: slices.Clone(j.chain.Wrapped),
		Args:    args,
		Names:   slices.Clone(j.chain.Names),
	}
}

// wrap adapts a maker to read its arguments from the trailing window of the
// history described by the entry's offsets.
func wrap(mk Maker, e kgraph.Entry) WrappedFunc {
	if mk.IsFixed() {
		return func([]any) (Distribution, error) {
			return mk.dist, nil
		}
	}
	if len(e.Offsets) == 0 {
		return func([]any) (Distribution, error) {
			return mk.fn(map[string]any{})
		}
	}

	offsets := slices.Clone(e.Offsets)
	k := len(offsets)
	return func(history []any) (Distribution, error) {
		if len(history) < k {
			return nil, fmt.Errorf("%w: %s reads %d values, have %d", ErrShortHistory, e.Name, k, len(history))
		}
		window := history[len(history)-k:]
		args := make(map[string]any, k)
		for i, name := range offsets {
			if name == kgraph.Placeholder {
				continue
			}
			args[string(name)] = window[k-1-i]
		}
		return mk.fn(args)
	}
}
