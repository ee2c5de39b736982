package simulation

import (
	"context"
	"encoding/json"
	"errors"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func constant(v float64) (Generator[float64], EffectSizer[float64]) {
	gen := GeneratorFunc[float64](func(context.Context) (float64, error) { return v, nil })
	eff := EffectSizeFunc[float64](func(x float64) (float64, error) { return x, nil })
	return gen, eff
}

// sequenceGen yields values from a fixed list, cycling.
func sequenceGen(values ...float64) Generator[float64] {
	i := 0
	return GeneratorFunc[float64](func(context.Context) (float64, error) {
		v := values[i%len(values)]
		i++
		return v, nil
	})
}

var identity = EffectSizeFunc[float64](func(x float64) (float64, error) { return x, nil })

func TestMonteCarlo(t *testing.T) {
	ctx := context.Background()

	t.Run("equal effect always succeeds", func(t *testing.T) {
		gen, eff := constant(2.5)
		res, err := MonteCarlo(ctx, gen, eff, 2.5, 50)
		require.NoError(t, err)
		assert.Equal(t, 1.0, res.PValue)
		assert.Equal(t, 50, res.NTrials)
		assert.Equal(t, 50, res.NSuccesses)
	})

	t.Run("smaller effect never succeeds", func(t *testing.T) {
		gen, eff := constant(2.4)
		res, err := MonteCarlo(ctx, gen, eff, 2.5, 50)
		require.NoError(t, err)
		assert.Equal(t, 0.0, res.PValue)
		assert.Equal(t, 0, res.NSuccesses)
	})

	t.Run("mixed", func(t *testing.T) {
		res, err := MonteCarlo(ctx, sequenceGen(0, 1, 2, 3), identity, 2, 8)
		require.NoError(t, err)
		assert.Equal(t, 4, res.NSuccesses)
		assert.Equal(t, 0.5, res.PValue)
	})

	t.Run("invalid trial count", func(t *testing.T) {
		gen, eff := constant(1)
		for _, n := range []int{0, -1} {
			_, err := MonteCarlo(ctx, gen, eff, 1, n)
			assert.ErrorIs(t, err, ErrInvalidTrialCount)
		}
	})
}

func TestMonteCarloErrors(t *testing.T) {
	ctx := context.Background()
	boom := errors.New("boom")

	t.Run("generator", func(t *testing.T) {
		gen := GeneratorFunc[float64](func(context.Context) (float64, error) { return 0, boom })
		_, err := MonteCarlo(ctx, gen, identity, 0, 3)
		assert.ErrorIs(t, err, boom)
	})

	t.Run("effect size", func(t *testing.T) {
		eff := EffectSizeFunc[float64](func(float64) (float64, error) { return 0, boom })
		_, err := MonteCarlo(ctx, sequenceGen(1), eff, 0, 3)
		assert.ErrorIs(t, err, boom)
	})

	t.Run("cancelled", func(t *testing.T) {
		ctx, cancel := context.WithCancel(context.Background())
		defer cancel()
		calls := 0
		gen := GeneratorFunc[float64](func(context.Context) (float64, error) {
			calls++
			if calls == 3 {
				cancel()
			}
			return 1, nil
		})
		_, err := MonteCarlo(ctx, gen, identity, 0, 100)
		assert.ErrorIs(t, err, context.Canceled)
		assert.Equal(t, 3, calls)
	})
}

func TestMonteCarloOptions(t *testing.T) {
	var progress []int
	var effects []float64
	successes := 0

	res, err := MonteCarlo(context.Background(), sequenceGen(1, 5), identity, 3, 4,
		WithProgress(func(done, total int) {
			assert.Equal(t, 4, total)
			progress = append(progress, done)
		}),
		WithTrialHook(func(effect float64, success bool) {
			effects = append(effects, effect)
			if success {
				successes++
			}
		}),
	)
	require.NoError(t, err)
	assert.Equal(t, []int{1, 2, 3, 4}, progress)
	assert.Equal(t, []float64{1, 5, 1, 5}, effects)
	assert.Equal(t, res.NSuccesses, successes)
}

func TestNewResult(t *testing.T) {
	res, err := NewResult(4, 1)
	require.NoError(t, err)
	assert.Equal(t, 0.25, res.PValue)

	_, err = NewResult(0, 0)
	assert.ErrorIs(t, err, ErrInvalidTrialCount)

	_, err = NewResult(3, 4)
	assert.ErrorIs(t, err, ErrInvalidResult)

	_, err = NewResult(3, -1)
	assert.ErrorIs(t, err, ErrInvalidResult)
}

func TestValidate(t *testing.T) {
	assert.NoError(t, Result{PValue: 0.5, NTrials: 10, NSuccesses: 5}.Validate())
	assert.ErrorIs(t, Result{PValue: 0.9, NTrials: 10, NSuccesses: 5}.Validate(), ErrInvalidResult)
	assert.ErrorIs(t, Result{}.Validate(), ErrInvalidTrialCount)
}

func TestMerge(t *testing.T) {
	parts := []Result{
		{PValue: 0.2, NTrials: 5, NSuccesses: 1},
		{PValue: 0.4, NTrials: 5, NSuccesses: 2},
		{PValue: 0, NTrials: 5, NSuccesses: 0},
		{PValue: 1, NTrials: 5, NSuccesses: 5},
	}

	all, err := Merge(parts...)
	require.NoError(t, err)
	assert.Equal(t, Result{PValue: 0.4, NTrials: 20, NSuccesses: 8}, all)

	left, err := Merge(parts[:2]...)
	require.NoError(t, err)
	right, err := Merge(parts[2:]...)
	require.NoError(t, err)
	halves, err := Merge(left, right)
	require.NoError(t, err)
	assert.Equal(t, all, halves)

	_, err = Merge()
	assert.ErrorIs(t, err, ErrInvalidTrialCount)

	_, err = Merge(parts[0], Result{PValue: 0.3, NTrials: 2, NSuccesses: 5})
	assert.ErrorIs(t, err, ErrInvalidResult)
}

func TestResultRendering(t *testing.T) {
	res := Result{PValue: 0.25, NTrials: 8, NSuccesses: 2}

	assert.Equal(t, "Monte Carlo simulation result\n\np-value: 0.25\ntrials: 8\nsuccesses: 2\n", res.Format())
	assert.Equal(t, "p=0.25 (2/8)", res.String())

	data, err := json.Marshal(res)
	require.NoError(t, err)
	assert.JSONEq(t, `{"p_value": 0.25, "n_trials": 8, "n_successes": 2}`, string(data))
}

func BenchmarkMonteCarlo(b *testing.B) {
	gen := sequenceGen(0, 1, 2, 3)
	ctx := context.Background()
	for i := 0; i < b.N; i++ {
		_, _ = MonteCarlo(ctx, gen, identity, 2, 1000)
	}
}
