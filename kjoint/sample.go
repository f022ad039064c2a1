package kjoint

import (
	"context"
	"fmt"
	"math/rand/v2"

	"golang.org/x/sync/errgroup"
)

// SampleFlat draws one value per position, in resolved order. Non-nil entries
// of pinned are used instead of drawing; pinned may be nil.
func (j *Joint) SampleFlat(ctx context.Context, rng *rand.Rand, pinned []any) ([]any, error) {
	_, xs, err := j.run(ctx, rng, pinned)
	return xs, err
}

// Sample draws one value per entry. pinned is a named structure as accepted
// by Flatten; its non-nil values are used instead of drawing.
func (j *Joint) Sample(ctx context.Context, rng *rand.Rand, pinned any) (map[string]any, error) {
	fixed, err := j.Flatten(pinned)
	if err != nil {
		return nil, err
	}
	xs, err := j.SampleFlat(ctx, rng, fixed)
	if err != nil {
		return nil, err
	}
	return j.Unflatten(xs)
}

// SampleDistributions is like Sample but also returns the distribution each
// value was drawn from (or, for pinned values, would have been).
func (j *Joint) SampleDistributions(ctx context.Context, rng *rand.Rand, pinned any) (map[string]Distribution, map[string]any, error) {
	fixed, err := j.Flatten(pinned)
	if err != nil {
		return nil, nil, err
	}
	ds, xs, err := j.run(ctx, rng, fixed)
	if err != nil {
		return nil, nil, err
	}

	dists := make(map[string]Distribution, len(ds))
	for i, name := range j.chain.Names {
		dists[name] = ds[i]
	}
	values, err := j.Unflatten(xs)
	if err != nil {
		return nil, nil, err
	}
	return dists, values, nil
}

// run is the sequential executor: every position sees the outputs of all
// earlier positions and appends its own.
func (j *Joint) run(ctx context.Context, rng *rand.Rand, pinned []any) ([]Distribution, []any, error) {
	n := len(j.chain.Names)
	if pinned != nil && len(pinned) != n {
		return nil, nil, fmt.Errorf("%w: got %d pinned values for %d names", ErrLengthMismatch, len(pinned), n)
	}
	if rng == nil {
		rng = rand.New(rand.NewPCG(rand.Uint64(), rand.Uint64()))
	}

	ds := make([]Distribution, 0, n)
	xs := make([]any, 0, n)
	for i, wrapped := range j.chain.Wrapped {
		if err := ctx.Err(); err != nil {
			return nil, nil, err
		}
		name := j.chain.Names[i]

		d, err := wrapped(xs)
		if err != nil {
			return nil, nil, fmt.Errorf("make %q: %w", name, err)
		}
		ds = append(ds, d)

		if pinned != nil && pinned[i] != nil {
			xs = append(xs, pinned[i])
			continue
		}
		x, err := d.Sample(rng)
		if err != nil {
			return nil, nil, fmt.Errorf("sample %q: %w", name, err)
		}
		xs = append(xs, x)
	}

	j.log.Debug("Sampled model", "entries", n)
	return ds, xs, nil
}

// LogProbParts returns the log density of every entry of x given the entries
// it depends on. x must carry a non-nil value for every name.
//
// Once all values are known the positions are independent, so they are scored
// concurrently by up to WithWorkersCount goroutines.
func (j *Joint) LogProbParts(ctx context.Context, x any) (map[string]float64, error) {
	xs, err := j.Flatten(x)
	if err != nil {
		return nil, err
	}
	for i, v := range xs {
		if v == nil {
			return nil, fmt.Errorf("%w: %q", ErrMissingValue, j.chain.Names[i])
		}
	}

	parts := make([]float64, len(xs))
	g, gctx := errgroup.WithContext(ctx)
	g.SetLimit(j.workers)
	for i, wrapped := range j.chain.Wrapped {
		g.Go(func() error {
			if err := gctx.Err(); err != nil {
				return err
			}
			name := j.chain.Names[i]

			d, err := wrapped(xs[:i])
			if err != nil {
				return fmt.Errorf("make %q: %w", name, err)
			}
			lp, err := d.LogProb(xs[i])
			if err != nil {
				return fmt.Errorf("log prob %q: %w", name, err)
			}
			parts[i] = lp
			return nil
		})
	}
	if err := g.Wait(); err != nil {
		return nil, err
	}

	out := make(map[string]float64, len(parts))
	for i, name := range j.chain.Names {
		out[name] = parts[i]
	}
	return out, nil
}

// LogProb returns the joint log density of x, the sum of LogProbParts.
func (j *Joint) LogProb(ctx context.Context, x any) (float64, error) {
	parts, err := j.LogProbParts(ctx, x)
	if err != nil {
		return 0, err
	}
	total := 0.0
	for _, name := range j.chain.Names {
		total += parts[name]
	}
	return total, nil
}
