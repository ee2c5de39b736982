// Package clustering tests whether the mismatches between two sequences are
// more clustered than chance.
//
// The observed statistic is the variance of mismatch counts across k windows
// of the alignment of query against reference. Each Monte Carlo trial shuffles
// a copy of the query, aligns it against the unchanged reference and computes
// the same variance.
package clustering

import (
	"context"
	"errors"
	"fmt"
	"math/rand/v2"
	"time"

	"github.com/aria-lang/mismatch-go/internal/alignment"
	"github.com/aria-lang/mismatch-go/internal/metrics"
	"github.com/aria-lang/mismatch-go/internal/sequence"
	"github.com/aria-lang/mismatch-go/internal/simulation"
)

// ErrMissingSequence is returned by Job.Validate when a sequence is nil.
var ErrMissingSequence = errors.New("clustering: query and reference are required")

// ShuffleGenerator produces one alignment of a permuted query per call.
// It owns its random source and must not be shared between goroutines.
type ShuffleGenerator struct {
	query     *sequence.Sequence
	reference *sequence.Sequence
	mode      alignment.Mode
	rng       *rand.Rand
}

// NewShuffleGenerator returns a generator drawing permutations from rng.
func NewShuffleGenerator(query, reference *sequence.Sequence, mode alignment.Mode, rng *rand.Rand) *ShuffleGenerator {
	return &ShuffleGenerator{
		query:     query,
		reference: reference,
		mode:      mode,
		rng:       rng,
	}
}

// Generate aligns a fresh permutation of the query against the reference.
func (g *ShuffleGenerator) Generate(ctx context.Context) (*alignment.Result, error) {
	if err := ctx.Err(); err != nil {
		return nil, err
	}
	shuffled := g.query.Shuffled(g.rng)
	return timedAlign(shuffled.Residues(), g.reference.Residues(), g.mode)
}

// VarianceEffect scores an alignment by its clustered mismatch variance.
type VarianceEffect struct {
	Clusters int
}

// EffectSize returns r.ClusteredMismatchVariance(Clusters).
func (v VarianceEffect) EffectSize(r *alignment.Result) (float64, error) {
	return r.ClusteredMismatchVariance(v.Clusters)
}

// Job describes one clustering significance test.
type Job struct {
	Query         *sequence.Sequence
	Reference     *sequence.Sequence
	Mode          alignment.Mode
	ClusterCounts []int
}

// Validate checks the job before any alignment is computed.
func (j Job) Validate() error {
	if j.Query == nil || j.Reference == nil {
		return ErrMissingSequence
	}
	if len(j.ClusterCounts) == 0 {
		return fmt.Errorf("%w: no cluster counts given", alignment.ErrInvalidClusterCount)
	}
	for _, k := range j.ClusterCounts {
		if k < 1 {
			return fmt.Errorf("%w: got %d", alignment.ErrInvalidClusterCount, k)
		}
	}
	return nil
}

// Observe aligns the unshuffled query against the reference.
func (j Job) Observe() (*alignment.Result, error) {
	return timedAlign(j.Query.Residues(), j.Reference.Residues(), j.Mode)
}

// Outcome is the test result for one cluster count.
type Outcome struct {
	Clusters int
	Observed float64
	Result   simulation.Result
}

// Run performs trials Monte Carlo trials for every cluster count. Cluster
// counts are processed in order and share rng. opts is called once per
// cluster count and may return nil.
func (j Job) Run(ctx context.Context, trials int, rng *rand.Rand, opts func(clusters int) []simulation.Option) ([]Outcome, error) {
	if err := j.Validate(); err != nil {
		return nil, err
	}
	if trials < 1 {
		return nil, fmt.Errorf("%w: got %d", simulation.ErrInvalidTrialCount, trials)
	}

	observed, err := j.Observe()
	if err != nil {
		return nil, fmt.Errorf("observed alignment: %w", err)
	}

	gen := NewShuffleGenerator(j.Query, j.Reference, j.Mode, rng)
	outcomes := make([]Outcome, 0, len(j.ClusterCounts))
	for _, k := range j.ClusterCounts {
		effect := VarianceEffect{Clusters: k}
		obs, err := effect.EffectSize(observed)
		if err != nil {
			return nil, err
		}

		runOpts := []simulation.Option{simulation.WithTrialHook(metrics.TrialHook(k))}
		if opts != nil {
			runOpts = append(runOpts, opts(k)...)
		}

		res, err := simulation.MonteCarlo[*alignment.Result](ctx, gen, effect, obs, trials, runOpts...)
		if err != nil {
			return nil, fmt.Errorf("%d clusters: %w", k, err)
		}
		outcomes = append(outcomes, Outcome{Clusters: k, Observed: obs, Result: res})
	}
	return outcomes, nil
}

func timedAlign(a, b string, mode alignment.Mode) (*alignment.Result, error) {
	start := time.Now()
	res, err := alignment.Align(a, b, mode)
	if err != nil {
		return nil, err
	}
	metrics.ObserveAlignment(mode.String(), res.Length(), time.Since(start))
	return res, nil
}
