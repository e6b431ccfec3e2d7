package fuzz_test

import (
	"context"
	"testing"

	"github.com/brimdata/funcsig"
	"github.com/brimdata/funcsig/catalog"
	"github.com/brimdata/funcsig/function"
	"github.com/brimdata/funcsig/fuzz"
	"github.com/brimdata/funcsig/sig"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"go.uber.org/zap"
	"go.uber.org/zap/zapcore"
	"go.uber.org/zap/zaptest/observer"
)

func builtins(t *testing.T) *function.Registry {
	sigs, err := catalog.LoadSignatures(funcsig.NewContext(), "../catalog/testdata/builtins.yaml")
	require.NoError(t, err)
	reg, err := function.NewRegistry(nil, nil)
	require.NoError(t, err)
	require.NoError(t, catalog.Register(context.Background(), reg, sigs))
	return reg
}

// checkedArgs runs r with an observed logger and returns the argument
// list of every checked call.
func checkedArgs(t *testing.T, r *fuzz.Runner, seed int64) []string {
	core, logs := observer.New(zapcore.DebugLevel)
	r.Logger = zap.New(core)
	_, err := r.Run(context.Background(), seed)
	require.NoError(t, err)
	var out []string
	for _, e := range logs.FilterMessage("Call checked").All() {
		out = append(out, e.ContextMap()["args"].(string))
	}
	return out
}

func TestRunner(t *testing.T) {
	r := &fuzz.Runner{Registry: builtins(t), Steps: 500}
	stats, err := r.Run(context.Background(), 1)
	require.NoError(t, err)
	assert.Equal(t, fuzz.Stats{Seed: 1, Steps: 500, Functions: 6}, stats)
	assert.Equal(t, "seed: 1\nsteps: 500\nfunctions: 6\nfailures: 0\n", stats.String())
}

func TestRunnerSeedReproduces(t *testing.T) {
	reg := builtins(t)
	first := checkedArgs(t, &fuzz.Runner{Registry: reg, Steps: 100}, 42)
	second := checkedArgs(t, &fuzz.Runner{Registry: reg, Steps: 100}, 42)
	require.Len(t, first, 100)
	assert.Equal(t, first, second)
}

func TestRunnerOnlyAndSkip(t *testing.T) {
	reg := builtins(t)
	stats, err := (&fuzz.Runner{Registry: reg, Only: []string{"abs", "now"}, Steps: 10}).Run(context.Background(), 3)
	require.NoError(t, err)
	assert.Equal(t, 2, stats.Functions)

	stats, err = (&fuzz.Runner{Registry: reg, Skip: []string{"abs"}, Steps: 10}).Run(context.Background(), 3)
	require.NoError(t, err)
	assert.Equal(t, 5, stats.Functions)

	_, err = (&fuzz.Runner{Registry: reg, Only: []string{"nope"}}).Run(context.Background(), 3)
	assert.ErrorIs(t, err, function.ErrNoSuchFunction)

	_, err = (&fuzz.Runner{Registry: reg, Only: []string{"abs"}, Skip: []string{"abs"}}).Run(context.Background(), 3)
	assert.ErrorIs(t, err, fuzz.ErrNoFunctions)
}

func TestRunnerBindsVariablesOnce(t *testing.T) {
	reg := builtins(t)
	sctx := funcsig.NewContext()
	for _, s := range checkedArgs(t, &fuzz.Runner{Registry: reg, Only: []string{"element_at"}, Steps: 50}, 7) {
		args, err := sig.ParseArgs(sctx, s)
		require.NoError(t, err)
		require.Len(t, args, 2, s)
		m, ok := args[0].(*funcsig.TypeMap)
		require.True(t, ok, s)
		assert.Same(t, m.KeyType, args[1], s)
		// K is comparable so it never binds to a map.
		assert.NotContains(t, sig.FormatType(args[1]), "map", s)
	}
}

func TestRunnerExpandsVariadic(t *testing.T) {
	reg := builtins(t)
	sctx := funcsig.NewContext()
	lengths := make(map[int]bool)
	r := &fuzz.Runner{Registry: reg, Only: []string{"coalesce"}, Steps: 100, MaxVariadic: 3}
	for _, s := range checkedArgs(t, r, 11) {
		args, err := sig.ParseArgs(sctx, s)
		require.NoError(t, err)
		require.NotEmpty(t, args)
		require.LessOrEqual(t, len(args), 4)
		lengths[len(args)] = true
		for _, arg := range args {
			assert.Same(t, args[0], arg, s)
		}
	}
	assert.Len(t, lengths, 4)
}

func TestRunnerCanceled(t *testing.T) {
	ctx, cancel := context.WithCancel(context.Background())
	cancel()
	_, err := (&fuzz.Runner{Registry: builtins(t)}).Run(ctx, 1)
	assert.ErrorIs(t, err, context.Canceled)
}
