package fuzz

import (
	"context"
	"errors"
	"fmt"
	"math/rand"
	"slices"

	"github.com/brimdata/funcsig"
	"github.com/brimdata/funcsig/function"
	"github.com/brimdata/funcsig/sig"
	"go.uber.org/zap"
)

const (
	DefaultSteps       = 1000
	DefaultMaxVariadic = 4
)

var ErrNoFunctions = errors.New("no functions to fuzz")

// Runner repeatedly picks a registered overload, binds its type variables
// and generics to random concrete types, and checks that looking up a call
// with the resulting number of arguments offers that overload.
type Runner struct {
	Registry *function.Registry
	// Only restricts the run to these functions when not empty.
	Only []string
	Skip []string
	// Steps is the number of calls to check.
	Steps int
	// MaxVariadic bounds the number of values a variadic tail expands to.
	MaxVariadic int
	Logger      *zap.Logger
}

type Stats struct {
	Seed      int64
	Steps     int
	Functions int
	Failures  int
}

func (s Stats) String() string {
	return fmt.Sprintf("seed: %d\nsteps: %d\nfunctions: %d\nfailures: %d\n", s.Seed, s.Steps, s.Functions, s.Failures)
}

// Run performs the steps with a random source seeded by seed so that any
// failure can be reproduced.  The returned error joins every failure.
func (r *Runner) Run(ctx context.Context, seed int64) (Stats, error) {
	stats := Stats{Seed: seed}
	logger := r.Logger
	if logger == nil {
		logger = zap.NewNop()
	}
	logger = logger.Named("fuzz").With(zap.Int64("seed", seed))
	names, err := r.functions()
	if err != nil {
		return stats, err
	}
	stats.Functions = len(names)
	steps := r.Steps
	if steps <= 0 {
		steps = DefaultSteps
	}
	maxVariadic := r.MaxVariadic
	if maxVariadic <= 0 {
		maxVariadic = DefaultMaxVariadic
	}
	b := newBinder(rand.New(rand.NewSource(seed)), funcsig.NewContext())
	var errs []error
	for step := range steps {
		if err := ctx.Err(); err != nil {
			return stats, err
		}
		name := names[b.rng.Intn(len(names))]
		entries := r.Registry.Entries(name)
		entry := entries[b.rng.Intn(len(entries))]
		args, err := b.bindArgs(entry, maxVariadic)
		if err == nil {
			err = check(r.Registry, entry, args)
		}
		stats.Steps++
		if err != nil {
			stats.Failures++
			err = fmt.Errorf("step %d: %s(%s): %w", step, name, sig.FormatArgs(args), err)
			logger.Error("Call check failed", zap.Int("step", step), zap.Error(err))
			errs = append(errs, err)
			continue
		}
		logger.Debug("Call checked",
			zap.Int("step", step),
			zap.Stringer("signature", entry.Signature),
			zap.String("args", sig.FormatArgs(args)),
		)
	}
	return stats, errors.Join(errs...)
}

func (r *Runner) functions() ([]string, error) {
	registered := r.Registry.Names()
	for _, name := range r.Only {
		if !slices.Contains(registered, name) {
			return nil, fmt.Errorf("%w: %s", function.ErrNoSuchFunction, name)
		}
	}
	var names []string
	for _, name := range registered {
		if len(r.Only) > 0 && !slices.Contains(r.Only, name) {
			continue
		}
		if slices.Contains(r.Skip, name) {
			continue
		}
		names = append(names, name)
	}
	if len(names) == 0 {
		return nil, ErrNoFunctions
	}
	return names, nil
}

func check(reg *function.Registry, entry *function.Entry, args []funcsig.Type) error {
	for _, arg := range args {
		if HasGeneric(arg) {
			return fmt.Errorf("unbound generic in %s", sig.FormatType(arg))
		}
	}
	candidates, err := reg.Lookup(entry.Signature.Name, len(args))
	if err != nil {
		return err
	}
	if !slices.Contains(candidates, entry) {
		return fmt.Errorf("overload %s not offered", entry.Signature)
	}
	return nil
}

type binder struct {
	rng      *rand.Rand
	sctx     *funcsig.Context
	scalars  []funcsig.Type
	bindings map[string]funcsig.Type
	vars     map[string]function.Variable
}

func newBinder(rng *rand.Rand, sctx *funcsig.Context) *binder {
	var scalars []funcsig.Type
	for _, name := range funcsig.ScalarNames() {
		if typ := funcsig.LookupScalar(name); typ != funcsig.TypeUnknown {
			scalars = append(scalars, typ)
		}
	}
	return &binder{rng: rng, sctx: sctx, scalars: scalars}
}

// bindArgs returns a concrete argument list matching entry.  Each type
// variable is bound once for the whole list and each anonymous generic
// independently.
func (b *binder) bindArgs(entry *function.Entry, maxVariadic int) ([]funcsig.Type, error) {
	b.bindings = make(map[string]funcsig.Type)
	b.vars = make(map[string]function.Variable)
	for _, v := range entry.Signature.Variables {
		b.vars[funcsig.VariableName(v.Name)] = v
	}
	var args []funcsig.Type
	for _, arg := range entry.Signature.Args {
		if v, ok := arg.(*funcsig.TypeVariadic); ok {
			for range b.rng.Intn(maxVariadic + 1) {
				typ, err := b.bind(v.Type)
				if err != nil {
					return nil, err
				}
				args = append(args, typ)
			}
			continue
		}
		typ, err := b.bind(arg)
		if err != nil {
			return nil, err
		}
		args = append(args, typ)
	}
	return args, nil
}

func (b *binder) bind(typ funcsig.Type) (funcsig.Type, error) {
	switch t := typ.(type) {
	case *funcsig.TypeScalar:
		return t, nil
	case *funcsig.TypeGeneric:
		if t.IsAnonymous() {
			return b.concrete(2, false, false), nil
		}
		name := t.String()
		if bound, ok := b.bindings[name]; ok {
			return bound, nil
		}
		v := b.vars[name]
		bound := b.concrete(2, v.IsComparable(), v.Orderable)
		b.bindings[name] = bound
		return bound, nil
	case *funcsig.TypeArray:
		elem, err := b.bind(t.Type)
		if err != nil {
			return nil, err
		}
		return b.sctx.LookupTypeArray(elem), nil
	case *funcsig.TypeMap:
		key, err := b.bind(t.KeyType)
		if err != nil {
			return nil, err
		}
		val, err := b.bind(t.ValType)
		if err != nil {
			return nil, err
		}
		return b.sctx.LookupTypeMap(key, val), nil
	case *funcsig.TypeRow:
		types := make([]funcsig.Type, 0, len(t.Types))
		for _, child := range t.Types {
			typ, err := b.bind(child)
			if err != nil {
				return nil, err
			}
			types = append(types, typ)
		}
		return b.sctx.LookupTypeRow(types)
	}
	return nil, fmt.Errorf("cannot bind %T", typ)
}

// concrete returns a random concrete type.  Orderable types are scalars
// and comparable types contain no maps.
func (b *binder) concrete(depth int, comparable, orderable bool) funcsig.Type {
	scalar := b.scalars[b.rng.Intn(len(b.scalars))]
	if orderable || depth <= 0 {
		return scalar
	}
	switch b.rng.Intn(4) {
	case 1:
		return b.sctx.LookupTypeArray(b.concrete(depth-1, comparable, false))
	case 2:
		if !comparable {
			return b.sctx.LookupTypeMap(scalar, b.concrete(depth-1, false, false))
		}
	}
	return scalar
}
