package kjoint

import (
	"math/rand/v2"
	"slices"
)

// Distribution is the capability every model entry eventually provides.
type Distribution interface {
	// Sample draws one value.
	Sample(rng *rand.Rand) (any, error)
	// LogProb returns the log density of x.
	LogProb(x any) (float64, error)
}

// MakeFunc builds a Distribution from the values of its dependencies, keyed
// by name.
type MakeFunc func(args map[string]any) (Distribution, error)

// Maker is one entry of a Model: either a ready-made Distribution or a
// MakeFunc together with the names of the entries it depends on.
type Maker struct {
	dist Distribution
	fn   MakeFunc
	args []string
}

// Fixed returns a Maker for a ready-made distribution. It declares no
// dependencies and is never invoked.
func Fixed(d Distribution) Maker {
	return Maker{dist: d}
}

// Func returns a Maker that calls fn with the values of args. Without args the
// function is still invoked, just with an empty mapping.
func Func(fn MakeFunc, args ...string) Maker {
	return Maker{
		fn:   fn,
		args: append([]string{}, args...),
	}
}

// IsFixed reports whether the maker holds a ready-made distribution.
func (m Maker) IsFixed() bool {
	return m.fn == nil
}

// Args returns the declared dependency names. It is nil for fixed makers and
// non-nil (possibly empty) otherwise.
func (m Maker) Args() []string {
	if m.IsFixed() {
		return nil
	}
	return slices.Clone(m.args)
}

// Make returns the distribution for the given dependency values.
func (m Maker) Make(args map[string]any) (Distribution, error) {
	if m.IsFixed() {
		return m.dist, nil
	}
	return m.fn(args)
}
