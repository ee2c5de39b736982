package main

import (
	"context"
	"flag"
	"fmt"
	"os"
	"os/signal"
	"strconv"
	"strings"
	"syscall"
	"time"

	"github.com/dustin/go-humanize"

	"github.com/aria-lang/mismatch-go/internal/clustering"
	"github.com/aria-lang/mismatch-go/internal/config"
	"github.com/aria-lang/mismatch-go/internal/orchestrator"
	"github.com/aria-lang/mismatch-go/internal/simulation"
	"github.com/aria-lang/mismatch-go/internal/store"
	"github.com/aria-lang/mismatch-go/pkg/mismatch"
)

// runFlags are shared by simulate and orchestrate.
type runFlags struct {
	inputs
	output   string
	clusters string
	seed     uint64
	progress bool
}

func (rf *runFlags) register(fs *flag.FlagSet) {
	rf.inputs.register(fs)
	fs.StringVar(&rf.output, "output", "", "Directory for partial and aggregate results (default from config)")
	fs.StringVar(&rf.clusters, "clusters", "", "Comma separated cluster counts (default from config)")
	fs.Uint64Var(&rf.seed, "seed", 0, "Random seed; 0 uses the config seed or the clock")
	fs.BoolVar(&rf.progress, "progress", false, "Show progress bars on stderr")
}

func (rf *runFlags) apply(opts *config.Options) {
	if rf.output != "" {
		opts.OutputDir = rf.output
	}
	if rf.clusters != "" {
		counts, err := parseClusters(rf.clusters)
		if err != nil {
			fatal("%v", err)
		}
		opts.ClusterCounts = counts
	}
	if rf.seed != 0 {
		opts.Seed = rf.seed
	}
}

func signalContext() (context.Context, context.CancelFunc) {
	return signal.NotifyContext(context.Background(), syscall.SIGINT, syscall.SIGTERM)
}

func joinInts(values []int) string {
	parts := make([]string, len(values))
	for i, v := range values {
		parts[i] = strconv.Itoa(v)
	}
	return strings.Join(parts, ",")
}

func simulateCmd(args []string) {
	fs := flag.NewFlagSet("simulate", flag.ExitOnError)
	var rf runFlags
	rf.register(fs)
	id := fs.Int("id", 0, "Worker id; selects the random stream and partial file names")
	trials := fs.Int("trials", 0, "Trials to run per cluster count (default: simulation_count)")
	fs.Parse(args)

	opts := rf.options(fs)
	rf.apply(&opts)
	if *trials == 0 {
		*trials = opts.SimulationCount
	}
	if *id < 0 {
		fatal("worker id must not be negative")
	}
	logger := newLogger(opts)

	query, reference := rf.pair(fs, opts)
	st, err := store.New(opts.OutputDir)
	if err != nil {
		fatal("%v", err)
	}

	worker := &clustering.Worker{
		Job: clustering.Job{
			Query:         query,
			Reference:     reference,
			Mode:          mismatch.ModeOf(opts.Nucleotides),
			ClusterCounts: opts.ClusterCounts,
		},
		Store:  st,
		Seed:   opts.ResolveSeed(),
		Logger: logger,
	}

	var bars *progress
	if rf.progress {
		bars = newProgress(os.Stderr)
		step := bars.bar(fmt.Sprintf("worker %d:", *id), *trials*len(opts.ClusterCounts))
		worker.Options = func(int, int) []simulation.Option {
			return []simulation.Option{simulation.WithProgress(step)}
		}
	}

	ctx, stop := signalContext()
	defer stop()
	err = worker.Run(ctx, *id, *trials)
	if bars != nil {
		bars.wait()
	}
	if err != nil {
		fatal("%v", err)
	}
}

func orchestrateCmd(args []string) {
	fs := flag.NewFlagSet("orchestrate", flag.ExitOnError)
	var rf runFlags
	rf.register(fs)
	workers := fs.Int("workers", 0, "Number of workers (default from config)")
	trials := fs.Int("trials", 0, "Total trial budget per cluster count (default: simulation_count)")
	timeout := fs.Duration("timeout", 0, "Abort when workers take longer than this (default from config)")
	inProcess := fs.Bool("inprocess", false, "Run workers as goroutines instead of child processes")
	fs.Parse(args)

	opts := rf.options(fs)
	rf.apply(&opts)
	if *workers > 0 {
		opts.Workers = *workers
	}
	if *trials > 0 {
		opts.SimulationCount = *trials
	}
	if *timeout > 0 {
		opts.WorkerTimeout = *timeout
	}
	if err := opts.Validate(); err != nil {
		fatal("%v", err)
	}
	logger := newLogger(opts)
	seed := opts.ResolveSeed()

	query, reference := rf.pair(fs, opts)
	job := clustering.Job{
		Query:         query,
		Reference:     reference,
		Mode:          mismatch.ModeOf(opts.Nucleotides),
		ClusterCounts: opts.ClusterCounts,
	}
	observed, err := job.Observe()
	if err != nil {
		fatal("aligning sequences: %v", err)
	}

	st, err := store.New(opts.OutputDir)
	if err != nil {
		fatal("%v", err)
	}

	var bars *progress
	var worker orchestrator.Worker
	if *inProcess {
		w := &clustering.Worker{Job: job, Store: st, Seed: seed, Logger: logger}
		if rf.progress {
			bars = newProgress(os.Stderr)
			perWorker := opts.SimulationCount / opts.Workers
			steps := make([]func(int, int), opts.Workers)
			for id := range steps {
				steps[id] = bars.bar(fmt.Sprintf("worker %d:", id), perWorker*len(opts.ClusterCounts))
			}
			w.Options = func(id, _ int) []simulation.Option {
				return []simulation.Option{simulation.WithProgress(steps[id])}
			}
		}
		worker = w
	} else {
		childArgs := []string{"simulate",
			"-query", rf.query,
			"-reference", rf.reference,
			"-nucleotides=" + strconv.FormatBool(opts.Nucleotides),
			"-output", opts.OutputDir,
			"-clusters", joinInts(opts.ClusterCounts),
			"-seed", strconv.FormatUint(seed, 10),
		}
		if rf.config != "" {
			childArgs = append(childArgs, "-config", rf.config)
		}
		cw, err := orchestrator.NewSelfWorker(childArgs...)
		if err != nil {
			fatal("%v", err)
		}
		worker = cw
	}

	orch, err := orchestrator.New(orchestrator.Config{
		TotalTrials:   opts.SimulationCount,
		Workers:       opts.Workers,
		ClusterCounts: opts.ClusterCounts,
		Timeout:       opts.WorkerTimeout,
	}, worker, st, logger)
	if err != nil {
		fatal("%v", err)
	}

	ctx, stop := signalContext()
	defer stop()
	start := time.Now()
	aggregates, err := orch.Run(ctx)
	if bars != nil {
		bars.wait()
	}
	if err != nil {
		fatal("%v", err)
	}

	fmt.Printf("Monte Carlo results (%s trials, %d workers, seed %d, %s)\n",
		humanize.Comma(int64(opts.SimulationCount)), opts.Workers, seed, time.Since(start).Round(time.Millisecond))
	fmt.Println(strings.Repeat("-", 60))
	for _, agg := range aggregates {
		variance, err := observed.ClusteredMismatchVariance(agg.Clusters)
		if err != nil {
			fatal("%v", err)
		}
		fmt.Printf("clusters=%-4d observed variance=%-10.4g p=%-8.4g successes=%s/%s\n",
			agg.Clusters, variance, agg.Result.PValue,
			humanize.Comma(int64(agg.Result.NSuccesses)), humanize.Comma(int64(agg.Result.NTrials)))
	}
	fmt.Printf("Aggregates written to %s\n", st.Dir())
}
