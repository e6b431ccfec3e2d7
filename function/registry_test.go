package function_test

import (
	"fmt"
	"sync"
	"testing"

	"github.com/brimdata/funcsig"
	"github.com/brimdata/funcsig/analysis"
	"github.com/brimdata/funcsig/function"
	"github.com/brimdata/funcsig/sig"
	"github.com/prometheus/client_golang/prometheus"
	dto "github.com/prometheus/client_model/go"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"go.uber.org/zap"
	"go.uber.org/zap/zapcore"
	"go.uber.org/zap/zaptest/observer"
)

func newSignature(sctx *funcsig.Context, name, args, ret string, vars ...string) *function.Signature {
	s := &function.Signature{
		Name:   name,
		Args:   sig.MustParseArgs(sctx, args),
		Return: sig.MustParseType(sctx, ret),
	}
	for _, v := range vars {
		s.Variables = append(s.Variables, function.Variable{Name: v})
	}
	return s
}

func newRegistry(t *testing.T) *function.Registry {
	r, err := function.NewRegistry(nil, nil)
	require.NoError(t, err)
	return r
}

func entryStrings(entries []*function.Entry) []string {
	var out []string
	for _, e := range entries {
		out = append(out, e.String())
	}
	return out
}

func TestRegistryOrdersOverloads(t *testing.T) {
	sctx := funcsig.NewContext()
	r := newRegistry(t)
	for _, s := range []*function.Signature{
		newSignature(sctx, "concat", "__user_T,variadic(__user_T)", "__user_T", "T"),
		newSignature(sctx, "concat", "any,any", "varchar"),
		newSignature(sctx, "concat", "varchar,variadic(varchar)", "varchar"),
		newSignature(sctx, "concat", "varchar,varchar", "varchar"),
	} {
		_, err := r.Register(s)
		require.NoError(t, err)
	}
	entries, err := r.Lookup("concat", 2)
	require.NoError(t, err)
	assert.Equal(t, []string{
		"concat(varchar,varchar) -> varchar [concrete]",
		"concat(varchar,variadic(varchar)) -> varchar [variadic]",
		"concat(any,any) -> varchar [generic]",
		"concat(__user_T,variadic(__user_T)) -> __user_T [variadic-of-generic]",
	}, entryStrings(entries))

	entries, err = r.Lookup("concat", 1)
	require.NoError(t, err)
	assert.Equal(t, []string{
		"concat(varchar,variadic(varchar)) -> varchar [variadic]",
		"concat(__user_T,variadic(__user_T)) -> __user_T [variadic-of-generic]",
	}, entryStrings(entries))

	entries, err = r.Lookup("concat", 7)
	require.NoError(t, err)
	assert.Len(t, entries, 2)

	_, err = r.Lookup("concat", 0)
	assert.ErrorIs(t, err, function.ErrTooFewArgs)
	assert.Len(t, r.Entries("concat"), 4)
}

func TestRegistryConcreteCountBreaksTies(t *testing.T) {
	sctx := funcsig.NewContext()
	r := newRegistry(t)
	_, err := r.Register(newSignature(sctx, "f", "array(any)", "bigint"))
	require.NoError(t, err)
	_, err = r.Register(newSignature(sctx, "f", "map(varchar,any)", "bigint"))
	require.NoError(t, err)
	entries, err := r.Lookup("f", 1)
	require.NoError(t, err)
	assert.Equal(t, []string{
		"f(map(varchar,any)) -> bigint [generic]",
		"f(array(any)) -> bigint [generic]",
	}, entryStrings(entries))
}

func TestRegistryEntry(t *testing.T) {
	sctx := funcsig.NewContext()
	r := newRegistry(t)
	e, err := r.Register(newSignature(sctx, "coalesce", "__user_T,variadic(__user_T)", "__user_T", "T"))
	require.NoError(t, err)
	assert.Equal(t, 1, e.MinArgs)
	assert.Equal(t, -1, e.MaxArgs)
	assert.Equal(t, analysis.PriorityVariadicOfGeneric, e.Priority())
	assert.Equal(t, []string{"__user_T"}, e.Summary.Variables)

	e, err = r.Register(newSignature(sctx, "abs", "integer", "integer"))
	require.NoError(t, err)
	assert.Equal(t, 1, e.MinArgs)
	assert.Equal(t, 1, e.MaxArgs)
	assert.Equal(t, []string{"abs", "coalesce"}, r.Names())
}

func TestRegistryLookupErrors(t *testing.T) {
	sctx := funcsig.NewContext()
	r := newRegistry(t)
	_, err := r.Register(newSignature(sctx, "substr", "varchar,bigint", "varchar"))
	require.NoError(t, err)
	_, err = r.Register(newSignature(sctx, "substr", "varchar,bigint,bigint", "varchar"))
	require.NoError(t, err)

	_, err = r.Lookup("nope", 1)
	assert.ErrorIs(t, err, function.ErrNoSuchFunction)
	_, err = r.Lookup("substr", 1)
	assert.ErrorIs(t, err, function.ErrTooFewArgs)
	_, err = r.Lookup("substr", 4)
	assert.ErrorIs(t, err, function.ErrTooManyArgs)
	assert.Nil(t, r.Entries("nope"))
}

func TestRegistryRejects(t *testing.T) {
	sctx := funcsig.NewContext()
	cases := []struct {
		name string
		sig  *function.Signature
		err  error
	}{
		{"bad name", newSignature(sctx, "Abs", "integer", "integer"), function.ErrBadName},
		{"variadic not last", newSignature(sctx, "f", "variadic(integer),integer", "integer"), function.ErrVariadicPosition},
		{"variadic return", newSignature(sctx, "f", "integer", "variadic(integer)"), function.ErrVariadicPosition},
		{"missing return", &function.Signature{Name: "f", Args: sig.MustParseArgs(sctx, "integer")}, function.ErrBadSignature},
		{"nested variadic", newSignature(sctx, "f", "array(variadic(integer))", "integer"), analysis.ErrNestedVariadic},
		{"undeclared", newSignature(sctx, "f", "__user_T", "__user_T"), function.ErrUndeclaredVariable},
		{"unused", newSignature(sctx, "f", "integer", "integer", "T"), function.ErrUnusedVariable},
		{"duplicate variable", newSignature(sctx, "f", "__user_T", "__user_T", "T", "T"), function.ErrDuplicateVariable},
		{"bad variable", newSignature(sctx, "f", "integer", "integer", "varchar"), funcsig.ErrBadVariable},
		{"unbound return variable", newSignature(sctx, "f", "__user_T", "__user_U", "T"), function.ErrUnboundReturnType},
		{"unbound any return", newSignature(sctx, "f", "integer", "array(any)"), function.ErrUnboundReturnType},
	}
	for _, c := range cases {
		t.Run(c.name, func(t *testing.T) {
			r := newRegistry(t)
			_, err := r.Register(c.sig)
			assert.ErrorIs(t, err, c.err)
			assert.Empty(t, r.Names())
		})
	}
}

func TestRegistryDuplicate(t *testing.T) {
	sctx := funcsig.NewContext()
	r := newRegistry(t)
	_, err := r.Register(newSignature(sctx, "f", "varchar", "varchar"))
	require.NoError(t, err)
	_, err = r.Register(newSignature(sctx, "f", "variadic(varchar)", "varchar"))
	require.NoError(t, err)
	_, err = r.Register(newSignature(sctx, "f", "varchar", "bigint"))
	assert.ErrorIs(t, err, function.ErrDuplicateSignature)
	assert.EqualError(t, err, `function "f": duplicate signature: f(varchar) -> varchar`)
}

func counterValue(t *testing.T, families []*dto.MetricFamily, name string, labels ...string) float64 {
	for _, f := range families {
		if f.GetName() != name {
			continue
		}
	metrics:
		for _, m := range f.GetMetric() {
			for k, l := range m.GetLabel() {
				if k*2+1 >= len(labels) || l.GetName() != labels[k*2] || l.GetValue() != labels[k*2+1] {
					continue metrics
				}
			}
			if m.Counter != nil {
				return m.GetCounter().GetValue()
			}
			return m.GetGauge().GetValue()
		}
	}
	t.Fatalf("no metric %s%v", name, labels)
	return 0
}

func TestRegistryMetrics(t *testing.T) {
	sctx := funcsig.NewContext()
	reg := prometheus.NewPedanticRegistry()
	r, err := function.NewRegistry(nil, reg)
	require.NoError(t, err)
	_, err = r.Register(newSignature(sctx, "abs", "integer", "integer"))
	require.NoError(t, err)
	_, err = r.Register(newSignature(sctx, "negate", "integer", "integer"))
	require.NoError(t, err)
	_, err = r.Register(newSignature(sctx, "negate", "integer", "bigint"))
	require.Error(t, err)

	families, err := reg.Gather()
	require.NoError(t, err)
	assert.Equal(t, 2.0, counterValue(t, families, "funcsig_registrations_total", "result", "accepted"))
	assert.Equal(t, 1.0, counterValue(t, families, "funcsig_registrations_total", "result", "rejected"))
	assert.Equal(t, 2.0, counterValue(t, families, "funcsig_functions"))
	assert.Equal(t, 2.0, counterValue(t, families, "funcsig_analysis_cache_hits_total"))
}

func TestRegistryAnalyze(t *testing.T) {
	sctx := funcsig.NewContext()
	reg := prometheus.NewPedanticRegistry()
	r, err := function.NewRegistry(nil, reg)
	require.NoError(t, err)
	args := sig.MustParseArgs(sctx, "__user_T,variadic(integer)")
	first, err := r.Analyze(args)
	require.NoError(t, err)
	assert.True(t, first.HasGeneric)
	assert.True(t, first.HasVariadic)
	assert.Equal(t, 1, first.ConcreteCount)
	second, err := r.Analyze(args)
	require.NoError(t, err)
	assert.Same(t, first, second)

	_, err = r.Analyze([]funcsig.Type{(*funcsig.TypeArray)(nil)})
	assert.ErrorIs(t, err, function.ErrBadSignature)
	assert.ErrorIs(t, err, analysis.ErrUnsupportedType)

	families, err := reg.Gather()
	require.NoError(t, err)
	assert.Equal(t, 1.0, counterValue(t, families, "funcsig_analysis_cache_hits_total"))
}

func TestRegistryLogging(t *testing.T) {
	sctx := funcsig.NewContext()
	core, logs := observer.New(zapcore.DebugLevel)
	r, err := function.NewRegistry(zap.New(core), nil)
	require.NoError(t, err)
	_, err = r.Register(newSignature(sctx, "abs", "integer", "integer"))
	require.NoError(t, err)
	_, err = r.Register(newSignature(sctx, "abs", "variadic(integer),integer", "integer"))
	require.Error(t, err)

	registered := logs.FilterMessage("Signature registered").All()
	require.Len(t, registered, 1)
	assert.Equal(t, zapcore.DebugLevel, registered[0].Level)
	assert.Equal(t, "registry", registered[0].LoggerName)
	assert.Equal(t, map[string]any{
		"function":  "abs",
		"signature": "abs(integer) -> integer",
		"priority":  "concrete",
	}, registered[0].ContextMap())

	rejected := logs.FilterMessage("Signature rejected").All()
	require.Len(t, rejected, 1)
	assert.Equal(t, zapcore.WarnLevel, rejected[0].Level)
	assert.Equal(t, "abs", rejected[0].ContextMap()["function"])
}

func TestRegistryConcurrent(t *testing.T) {
	sctx := funcsig.NewContext()
	r := newRegistry(t)
	var wg sync.WaitGroup
	for k := range 16 {
		wg.Add(1)
		go func() {
			defer wg.Done()
			name := fmt.Sprintf("f%d", k)
			for _, args := range []string{"integer", "integer,integer", "variadic(any)"} {
				_, err := r.Register(newSignature(sctx, name, args, "integer"))
				assert.NoError(t, err)
			}
		}()
	}
	wg.Wait()
	assert.Len(t, r.Names(), 16)
	entries, err := r.Lookup("f3", 1)
	require.NoError(t, err)
	assert.Equal(t, []string{
		"f3(integer) -> integer [concrete]",
		"f3(variadic(any)) -> integer [variadic-of-generic]",
	}, entryStrings(entries))
}

func TestCheckArgCount(t *testing.T) {
	assert.NoError(t, function.CheckArgCount(2, 1, -1))
	assert.NoError(t, function.CheckArgCount(0, -1, -1))
	assert.ErrorIs(t, function.CheckArgCount(0, 1, 2), function.ErrTooFewArgs)
	assert.ErrorIs(t, function.CheckArgCount(3, 1, 2), function.ErrTooManyArgs)
}
