// Package orchestrator splits a Monte Carlo trial budget across independent
// workers, waits for all of them and aggregates their persisted partial
// results.
//
// Workers share nothing at run time. Coordination happens only before launch
// (splitting the budget) and after the join (reading and summing counts).
package orchestrator

import (
	"context"
	"errors"
	"fmt"
	"log/slog"
	"time"

	"golang.org/x/sync/errgroup"

	"github.com/aria-lang/mismatch-go/internal/alignment"
	"github.com/aria-lang/mismatch-go/internal/logging"
	"github.com/aria-lang/mismatch-go/internal/metrics"
	"github.com/aria-lang/mismatch-go/internal/simulation"
	"github.com/aria-lang/mismatch-go/internal/store"
)

var (
	// ErrInvalidWorkers is returned for a worker count below 1.
	ErrInvalidWorkers = errors.New("orchestrator: worker count must be at least 1")
	// ErrUnevenSplit is returned when the trial budget does not divide evenly
	// across workers.
	ErrUnevenSplit = errors.New("orchestrator: trials cannot be divided evenly across workers")
)

// Split returns the number of trials each of workers runs.
func Split(total, workers int) (int, error) {
	if workers < 1 {
		return 0, fmt.Errorf("%w: got %d", ErrInvalidWorkers, workers)
	}
	if total < 1 {
		return 0, fmt.Errorf("%w: got %d", simulation.ErrInvalidTrialCount, total)
	}
	if total%workers != 0 {
		return 0, fmt.Errorf("%w: %d trials, %d workers", ErrUnevenSplit, total, workers)
	}
	return total / workers, nil
}

// Worker runs trials trials and persists one partial result per cluster
// count under its id.
type Worker interface {
	Run(ctx context.Context, id, trials int) error
}

// WorkerFunc adapts a function to the Worker interface.
type WorkerFunc func(ctx context.Context, id, trials int) error

// Run calls f(ctx, id, trials).
func (f WorkerFunc) Run(ctx context.Context, id, trials int) error {
	return f(ctx, id, trials)
}

// Config describes one orchestrated run.
type Config struct {
	TotalTrials   int
	Workers       int
	ClusterCounts []int
	// Timeout bounds the join; zero waits forever.
	Timeout time.Duration
}

// Validate reports configuration errors before anything is launched.
func (c Config) Validate() error {
	if _, err := Split(c.TotalTrials, c.Workers); err != nil {
		return err
	}
	if len(c.ClusterCounts) == 0 {
		return fmt.Errorf("%w: no cluster counts given", alignment.ErrInvalidClusterCount)
	}
	for _, k := range c.ClusterCounts {
		if k < 1 {
			return fmt.Errorf("%w: got %d", alignment.ErrInvalidClusterCount, k)
		}
	}
	if c.Timeout < 0 {
		return fmt.Errorf("orchestrator: negative timeout %s", c.Timeout)
	}
	return nil
}

// Aggregate is the combined result for one cluster count.
type Aggregate struct {
	Clusters int
	Result   simulation.Result
}

// Orchestrator fans a trial budget out to workers.
type Orchestrator struct {
	cfg    Config
	worker Worker
	store  *store.Store
	logger *slog.Logger
}

// New validates cfg and returns an orchestrator. A nil logger discards output.
func New(cfg Config, worker Worker, st *store.Store, logger *slog.Logger) (*Orchestrator, error) {
	if err := cfg.Validate(); err != nil {
		return nil, err
	}
	if worker == nil || st == nil {
		return nil, errors.New("orchestrator: worker and store are required")
	}
	if logger == nil {
		logger = logging.Discard()
	}
	return &Orchestrator{cfg: cfg, worker: worker, store: st, logger: logger}, nil
}

// Run launches every worker, waits for all of them and aggregates the
// partial results per cluster count. Any worker failure, missing partial or
// unreadable partial fails the whole run; nothing is aggregated from an
// incomplete set. Aggregates are written to the store and returned in
// ClusterCounts order.
func (o *Orchestrator) Run(ctx context.Context) ([]Aggregate, error) {
	perWorker, err := Split(o.cfg.TotalTrials, o.cfg.Workers)
	if err != nil {
		return nil, err
	}

	// Stale partials from an earlier run must never be aggregated.
	for _, k := range o.cfg.ClusterCounts {
		for id := 0; id < o.cfg.Workers; id++ {
			if err := o.store.RemovePartial(k, id); err != nil {
				return nil, err
			}
		}
	}

	if o.cfg.Timeout > 0 {
		var cancel context.CancelFunc
		ctx, cancel = context.WithTimeout(ctx, o.cfg.Timeout)
		defer cancel()
	}

	o.logger.Info("launching workers",
		slog.Int("workers", o.cfg.Workers),
		slog.Int("trials_per_worker", perWorker),
		slog.Any("cluster_counts", o.cfg.ClusterCounts),
	)

	g, gctx := errgroup.WithContext(ctx)
	for id := 0; id < o.cfg.Workers; id++ {
		g.Go(func() error {
			start := time.Now()
			err := o.worker.Run(gctx, id, perWorker)
			metrics.ObserveWorker(err, time.Since(start))
			if err != nil {
				o.logger.Error("worker failed", slog.Int("worker", id), slog.String("error", err.Error()))
				return fmt.Errorf("worker %d: %w", id, err)
			}
			return nil
		})
	}
	if err := g.Wait(); err != nil {
		if ctxErr := ctx.Err(); ctxErr != nil && !errors.Is(err, ctxErr) {
			return nil, fmt.Errorf("%w: %w", ctxErr, err)
		}
		return nil, err
	}

	aggregates := make([]Aggregate, 0, len(o.cfg.ClusterCounts))
	for _, k := range o.cfg.ClusterCounts {
		agg, err := o.aggregate(k, perWorker)
		if err != nil {
			return nil, err
		}
		aggregates = append(aggregates, agg)
	}
	return aggregates, nil
}

func (o *Orchestrator) aggregate(clusters, perWorker int) (Aggregate, error) {
	parts := make([]simulation.Result, 0, o.cfg.Workers)
	for id := 0; id < o.cfg.Workers; id++ {
		r, err := o.store.ReadPartial(clusters, id)
		if err != nil {
			return Aggregate{}, fmt.Errorf("worker %d, %d clusters: %w", id, clusters, err)
		}
		if r.NTrials != perWorker {
			return Aggregate{}, fmt.Errorf("%w: worker %d reported %d trials, expected %d",
				store.ErrCorruptResult, id, r.NTrials, perWorker)
		}
		parts = append(parts, r)
	}

	total, err := simulation.Merge(parts...)
	if err != nil {
		return Aggregate{}, fmt.Errorf("%d clusters: %w", clusters, err)
	}
	if err := o.store.WriteAggregate(clusters, total); err != nil {
		return Aggregate{}, err
	}

	o.logger.Info("aggregated",
		slog.Int("clusters", clusters),
		slog.Float64("p_value", total.PValue),
		slog.Int("n_trials", total.NTrials),
		slog.Int("n_successes", total.NSuccesses),
	)
	return Aggregate{Clusters: clusters, Result: total}, nil
}
