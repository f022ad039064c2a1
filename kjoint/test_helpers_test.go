package kjoint

import (
	"fmt"
	"math"
	"math/rand/v2"
	"sync/atomic"
)

// point is a degenerate distribution at v. Its log density falls off linearly
// with the distance to v, which keeps expected sums easy to write down.
type point struct {
	v float64
}

func (p point) Sample(*rand.Rand) (any, error) { return p.v, nil }

func (p point) LogProb(x any) (float64, error) {
	f, ok := x.(float64)
	if !ok {
		return 0, fmt.Errorf("point: want float64, got %T", x)
	}
	if f == p.v {
		return 0, nil
	}
	return -math.Abs(f - p.v), nil
}

// uniform draws from [0, 1) and is used to check rng plumbing.
type uniform struct{}

func (uniform) Sample(rng *rand.Rand) (any, error) { return rng.Float64(), nil }
func (uniform) LogProb(any) (float64, error)       { return 0, nil }

type failing struct{ err error }

func (f failing) Sample(*rand.Rand) (any, error) { return nil, f.err }
func (f failing) LogProb(any) (float64, error)   { return 0, f.err }

// derived returns a MakeFunc that combines its float64 arguments with op and
// counts its invocations.
func derived(calls *atomic.Int32, op func(args map[string]float64) float64) MakeFunc {
	return func(args map[string]any) (Distribution, error) {
		if calls != nil {
			calls.Add(1)
		}
		fs := make(map[string]float64, len(args))
		for k, v := range args {
			f, ok := v.(float64)
			if !ok {
				return nil, fmt.Errorf("argument %s is %T", k, v)
			}
			fs[k] = f
		}
		return point{v: op(fs)}, nil
	}
}

// chainRuleModel is
//
//	e = 2, g = 10e, n = 3, m = n + g, x = 2m
func chainRuleModel() *Model {
	return NewModel().
		MustAdd("e", Fixed(point{v: 2})).
		MustAdd("g", Func(derived(nil, func(a map[string]float64) float64 { return 10 * a["e"] }), "e")).
		MustAdd("n", Fixed(point{v: 3})).
		MustAdd("m", Func(derived(nil, func(a map[string]float64) float64 { return a["n"] + a["g"] }), "n", "g")).
		MustAdd("x", Func(derived(nil, func(a map[string]float64) float64 { return 2 * a["m"] }), "m"))
}

type chainRuleValues struct {
	E float64 `joint:"e"`
	G float64 `joint:"g"`
	N float64 `joint:"n"`
	M float64 `joint:"m"`
	X float64 `joint:"x"`
}
