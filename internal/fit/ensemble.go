package fit

import (
	"context"
	"errors"
	"math/rand"
	"sync"

	"github.com/san-kum/labfit/internal/model"
)

// Ensemble repeats a fit from perturbed initial guesses and keeps the best.
// Start 0 always uses the unperturbed guess.
type Ensemble struct {
	numStarts int
	seed      int64
	spread    float64
}

// NewEnsemble returns an ensemble of numStarts fits. Each parameter of the
// guess is scaled by a factor drawn uniformly from [1-spread, 1+spread].
func NewEnsemble(numStarts int, seed int64, spread float64) *Ensemble {
	if numStarts < 1 {
		numStarts = 1
	}
	return &Ensemble{numStarts: numStarts, seed: seed, spread: spread}
}

// Run fits every start concurrently and returns the result with the lowest
// chi-squared. It fails only if every start fails, joining their errors.
func (e *Ensemble) Run(ctx context.Context, m model.Model, x, y []float64, opts Options) (*Result, error) {
	results := make([]*Result, e.numStarts)
	errs := make([]error, e.numStarts)

	var wg sync.WaitGroup
	for i := 0; i < e.numStarts; i++ {
		wg.Add(1)
		go func(idx int) {
			defer wg.Done()

			if err := ctx.Err(); err != nil {
				errs[idx] = err
				return
			}

			optsCopy := opts
			optsCopy.InitialGuess = e.perturb(opts.InitialGuess, idx)
			results[idx], errs[idx] = CurveFit(m, x, y, optsCopy)
		}(i)
	}

	wg.Wait()

	var best *Result
	for _, r := range results {
		if r != nil && (best == nil || r.ChiSquared < best.ChiSquared) {
			best = r
		}
	}
	if best != nil {
		return best, nil
	}
	return nil, errors.Join(errs...)
}

func (e *Ensemble) perturb(p0 []float64, idx int) []float64 {
	out := append([]float64(nil), p0...)
	if idx == 0 || e.spread == 0 {
		return out
	}

	rng := rand.New(rand.NewSource(e.seed + int64(idx)))
	for i := range out {
		u := 2*rng.Float64() - 1
		if out[i] == 0 {
			out[i] = e.spread * u
			continue
		}
		out[i] *= 1 + e.spread*u
	}
	return out
}
