package clustering

import (
	"context"
	"fmt"
	"log/slog"
	"math/rand/v2"
	"time"

	"github.com/aria-lang/mismatch-go/internal/logging"
	"github.com/aria-lang/mismatch-go/internal/simulation"
	"github.com/aria-lang/mismatch-go/internal/store"
)

// Worker runs one share of a Job and persists a partial result per cluster
// count. Worker id draws from the stream PCG(Seed, id), so workers with the
// same seed never share random numbers.
type Worker struct {
	Job    Job
	Store  *store.Store
	Seed   uint64
	Logger *slog.Logger

	// Options, when set, adds simulation options per cluster count
	// (the CLI uses it for progress bars).
	Options func(id, clusters int) []simulation.Option
}

// Run executes trials trials for every cluster count and writes
// monte_carlo_<k>.<id>.json for each.
func (w *Worker) Run(ctx context.Context, id, trials int) error {
	logger := w.Logger
	if logger == nil {
		logger = logging.Discard()
	}
	logger = logger.With(slog.Int("worker", id))

	var opts func(int) []simulation.Option
	if w.Options != nil {
		opts = func(k int) []simulation.Option { return w.Options(id, k) }
	}

	start := time.Now()
	rng := rand.New(rand.NewPCG(w.Seed, uint64(id)))
	outcomes, err := w.Job.Run(ctx, trials, rng, opts)
	if err != nil {
		return fmt.Errorf("worker %d: %w", id, err)
	}

	for _, o := range outcomes {
		if err := w.Store.WritePartial(o.Clusters, id, o.Result); err != nil {
			return fmt.Errorf("worker %d: %w", id, err)
		}
		logger.Debug("partial result written",
			slog.Int("clusters", o.Clusters),
			slog.Float64("observed_variance", o.Observed),
			slog.Int("n_trials", o.Result.NTrials),
			slog.Int("n_successes", o.Result.NSuccesses),
		)
	}

	logger.Info("worker finished",
		slog.Int("trials", trials),
		slog.Int("cluster_counts", len(outcomes)),
		slog.Duration("duration", time.Since(start)),
	)
	return nil
}
