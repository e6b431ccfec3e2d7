package fuzzer

import (
	"flag"
	"fmt"
	"strings"
	"time"

	"github.com/brimdata/funcsig"
	"github.com/brimdata/funcsig/catalog"
	"github.com/brimdata/funcsig/cli/logflags"
	"github.com/brimdata/funcsig/cmd/funcsig/root"
	"github.com/brimdata/funcsig/function"
	"github.com/brimdata/funcsig/fuzz"
	"github.com/brimdata/funcsig/pkg/charm"
	"go.uber.org/zap/zapcore"
)

var spec = &charm.Spec{
	Name:  "fuzz",
	Usage: "fuzz [options] catalog.yaml ...",
	Short: "check overload lookup with random calls",
	Long: `
fuzz registers the signatures of each catalog and then, for -steps steps,
picks a random function and overload, binds every type variable and any to
a random concrete type, expands a variadic tail to between zero and
-max-variadic values, and checks that looking up a call with that many
arguments offers the chosen overload.

The random choices are determined by -seed.  If -seed is not given, a seed
is chosen from the clock.  The seed is printed with the results so a failing
run can be repeated.

-only limits the run to the named functions and -skip leaves the named
functions out.  Both take comma-separated names and may be repeated.`,
	New: New,
}

func init() {
	root.Funcsig.Add(spec)
}

type Command struct {
	*root.Command
	logFlags    logflags.Flags
	seed        int64
	steps       int
	maxVariadic int
	only        []string
	skip        []string
}

func New(parent charm.Command, f *flag.FlagSet) (charm.Command, error) {
	c := &Command{Command: parent.(*root.Command)}
	c.logFlags.Level = zapcore.WarnLevel
	c.logFlags.SetFlags(f)
	f.Int64Var(&c.seed, "seed", 0, "seed of the random choices (0 for a clock-based seed)")
	f.IntVar(&c.steps, "steps", fuzz.DefaultSteps, "number of calls to check")
	f.IntVar(&c.maxVariadic, "max-variadic", fuzz.DefaultMaxVariadic, "maximum number of values a variadic tail expands to")
	f.Func("only", "comma-separated functions to fuzz (all if unset)", func(s string) error {
		c.only = append(c.only, names(s)...)
		return nil
	})
	f.Func("skip", "comma-separated functions to leave out", func(s string) error {
		c.skip = append(c.skip, names(s)...)
		return nil
	})
	return c, nil
}

func names(s string) []string {
	return strings.Fields(strings.ReplaceAll(s, ",", " "))
}

func (c *Command) Run(args []string) error {
	ctx, cleanup, err := c.Init()
	if err != nil {
		return err
	}
	defer cleanup()
	if len(args) == 0 {
		return charm.NeedHelp
	}
	logger, err := c.logFlags.Open()
	if err != nil {
		return err
	}
	defer logger.Sync()
	sigs, err := catalog.LoadSignatures(funcsig.NewContext(), args...)
	if err != nil {
		return err
	}
	reg, err := function.NewRegistry(logger, nil)
	if err != nil {
		return err
	}
	if err := catalog.Register(ctx, reg, sigs); err != nil {
		return err
	}
	seed := c.seed
	if seed == 0 {
		seed = time.Now().UnixNano()
	}
	runner := &fuzz.Runner{
		Registry:    reg,
		Only:        c.only,
		Skip:        c.skip,
		Steps:       c.steps,
		MaxVariadic: c.maxVariadic,
		Logger:      logger,
	}
	stats, err := runner.Run(ctx, seed)
	fmt.Print(stats)
	return err
}
