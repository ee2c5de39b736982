package simulation

import (
	"errors"
	"fmt"
	"math"
)

// ErrInvalidResult is returned for counts that cannot come from a run.
var ErrInvalidResult = errors.New("simulation: inconsistent result")

// Result is the outcome of a Monte Carlo run. Partial results written by
// workers and aggregated results share this shape.
type Result struct {
	PValue     float64 `json:"p_value"`
	NTrials    int     `json:"n_trials"`
	NSuccesses int     `json:"n_successes"`
}

// NewResult builds a result from raw counts and derives the p-value.
func NewResult(trials, successes int) (Result, error) {
	if trials < 1 {
		return Result{}, fmt.Errorf("%w: got %d", ErrInvalidTrialCount, trials)
	}
	if successes < 0 || successes > trials {
		return Result{}, fmt.Errorf("%w: %d successes out of %d trials", ErrInvalidResult, successes, trials)
	}
	return Result{
		PValue:     float64(successes) / float64(trials),
		NTrials:    trials,
		NSuccesses: successes,
	}, nil
}

// Validate checks that the counts are in range and that PValue agrees with them.
func (r Result) Validate() error {
	want, err := NewResult(r.NTrials, r.NSuccesses)
	if err != nil {
		return err
	}
	if math.Abs(want.PValue-r.PValue) > 1e-9 {
		return fmt.Errorf("%w: p-value %g does not match %d/%d", ErrInvalidResult, r.PValue, r.NSuccesses, r.NTrials)
	}
	return nil
}

// Merge sums trials and successes across results and recomputes the p-value.
// Merging is associative, so any split of the same trials gives the same total.
func Merge(results ...Result) (Result, error) {
	if len(results) == 0 {
		return Result{}, fmt.Errorf("%w: nothing to merge", ErrInvalidTrialCount)
	}
	trials, successes := 0, 0
	for i, r := range results {
		if err := r.Validate(); err != nil {
			return Result{}, fmt.Errorf("result %d: %w", i, err)
		}
		trials += r.NTrials
		successes += r.NSuccesses
	}
	return NewResult(trials, successes)
}

// Format renders the result for humans.
func (r Result) Format() string {
	return fmt.Sprintf("Monte Carlo simulation result\n\np-value: %g\ntrials: %d\nsuccesses: %d\n",
		r.PValue, r.NTrials, r.NSuccesses)
}

func (r Result) String() string {
	return fmt.Sprintf("p=%g (%d/%d)", r.PValue, r.NSuccesses, r.NTrials)
}
