// Package kjoint evaluates a joint model given as named, possibly
// interdependent distribution makers.
//
// Each entry of a Model is either a ready-made Distribution (Fixed) or a
// MakeFunc whose declared argument names refer to other entries (Func). New
// resolves the model into a Chain: entries in an order where dependencies come
// first, each wrapped so that it reads its arguments from the trailing window
// of previously drawn values instead of looking them up by name.
//
//	m := kjoint.NewModel().
//	    MustAdd("e", kjoint.Fixed(exponential)).
//	    MustAdd("g", kjoint.Func(gamma, "e")).
//	    MustAdd("n", kjoint.Fixed(normal)).
//	    MustAdd("m", kjoint.Func(normalFrom, "n", "g")).
//	    MustAdd("x", kjoint.Func(bernoulli, "m"))
//
//	j, err := kjoint.New(m)
//	if err != nil {
//	    // errors.Is(err, kgraph.ErrUnknownDependency) or kgraph.ErrCycleDetected
//	}
//	values, err := j.Sample(ctx, rng, nil)
//	lp, err := j.LogProb(ctx, values)
//
// Flatten and Unflatten convert between named structures (maps with string
// keys or structs) and the positional slices the chain works on.
//
// A Joint is immutable. Sample and LogProb may be called concurrently as long
// as the makers and distributions themselves are safe for concurrent use;
// LogProbParts calls them from several goroutines when WithWorkersCount is
// above one.
package kjoint
