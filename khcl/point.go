package khcl

import (
	"math"
	"math/rand/v2"

	"github.com/zclconf/go-cty/cty"
)

// Point is the distribution of a producer: all mass sits on Value.
type Point struct {
	Value cty.Value
}

func (p Point) Sample(*rand.Rand) (any, error) {
	return p.Value, nil
}

// LogProb is 0 at Value and -Inf everywhere else. Go values are converted
// with ToCty before comparing, so a pinned float64 matches a cty number.
func (p Point) LogProb(x any) (float64, error) {
	v, err := ToCty(x)
	if err != nil {
		return 0, err
	}
	eq := p.Value.Equals(v)
	if eq.IsKnown() && !eq.IsNull() && eq.True() {
		return 0, nil
	}
	return math.Inf(-1), nil
}
