// Package simulation runs Monte Carlo significance tests.
//
// MonteCarlo knows nothing about alignments: a trial comes from a Generator
// and is reduced to a scalar by an EffectSizer. Any randomized strategy that
// satisfies the two interfaces can be tested.
package simulation

import (
	"context"
	"errors"
	"fmt"
)

// ErrInvalidTrialCount is returned when fewer than one trial is requested.
var ErrInvalidTrialCount = errors.New("simulation: trial count must be at least 1")

// Generator produces one random trial outcome.
type Generator[T any] interface {
	Generate(ctx context.Context) (T, error)
}

// GeneratorFunc adapts a function to the Generator interface.
type GeneratorFunc[T any] func(ctx context.Context) (T, error)

// Generate calls f(ctx).
func (f GeneratorFunc[T]) Generate(ctx context.Context) (T, error) {
	return f(ctx)
}

// EffectSizer maps a trial outcome to the statistic under test.
type EffectSizer[T any] interface {
	EffectSize(outcome T) (float64, error)
}

// EffectSizeFunc adapts a function to the EffectSizer interface.
type EffectSizeFunc[T any] func(outcome T) (float64, error)

// EffectSize calls f(outcome).
func (f EffectSizeFunc[T]) EffectSize(outcome T) (float64, error) {
	return f(outcome)
}

// TrialHook is called after every trial with the trial's effect size and
// whether it counted as a success.
type TrialHook func(effect float64, success bool)

type runConfig struct {
	progress func(done, total int)
	hooks    []TrialHook
}

// Option configures a MonteCarlo run.
type Option func(*runConfig)

// WithProgress reports the number of finished trials after each trial.
func WithProgress(fn func(done, total int)) Option {
	return func(c *runConfig) {
		c.progress = fn
	}
}

// WithTrialHook registers a hook that observes every trial.
func WithTrialHook(hook TrialHook) Option {
	return func(c *runConfig) {
		c.hooks = append(c.hooks, hook)
	}
}

// MonteCarlo runs n independent trials. A trial is a success when its effect
// size is at least observed. The p-value is successes/n.
//
// The context is checked between trials; a cancelled run returns ctx.Err()
// and no result.
func MonteCarlo[T any](ctx context.Context, gen Generator[T], eff EffectSizer[T], observed float64, n int, opts ...Option) (Result, error) {
	if n < 1 {
		return Result{}, fmt.Errorf("%w: got %d", ErrInvalidTrialCount, n)
	}

	var cfg runConfig
	for _, opt := range opts {
		opt(&cfg)
	}

	successes := 0
	for trial := 0; trial < n; trial++ {
		if err := ctx.Err(); err != nil {
			return Result{}, err
		}

		outcome, err := gen.Generate(ctx)
		if err != nil {
			return Result{}, fmt.Errorf("trial %d: generate: %w", trial, err)
		}
		effect, err := eff.EffectSize(outcome)
		if err != nil {
			return Result{}, fmt.Errorf("trial %d: effect size: %w", trial, err)
		}

		success := effect >= observed
		if success {
			successes++
		}
		for _, hook := range cfg.hooks {
			hook(effect, success)
		}
		if cfg.progress != nil {
			cfg.progress(trial+1, n)
		}
	}

	return NewResult(n, successes)
}
