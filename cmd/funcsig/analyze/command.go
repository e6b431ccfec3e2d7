package analyze

import (
	"errors"
	"flag"
	"fmt"
	"os"
	"strings"

	"github.com/brimdata/funcsig"
	"github.com/brimdata/funcsig/analysis"
	"github.com/brimdata/funcsig/cli/outputflags"
	"github.com/brimdata/funcsig/cmd/funcsig/root"
	"github.com/brimdata/funcsig/pkg/charm"
	"github.com/brimdata/funcsig/sig"
	"github.com/kr/pretty"
)

var spec = &charm.Spec{
	Name:  "analyze",
	Usage: "analyze [-f text|json|yaml] [-debug] [-vars T,U] type ...",
	Short: "analyze a function argument list",
	Long: `
analyze parses each argument as one type of a function's argument list,
analyzes the list, and prints whether it has generics, a variadic tail, or a
variadic tail of a generic, the number of concrete type nodes, the named type
variables it uses, and the canonical form of each argument.

Type variables may be written as __user_T or, if listed with -vars, as T.
With -debug, the parsed types are dumped to stderr.

When writing to a terminal, the default output format is text.
Otherwise, the default format is json.`,
	New: New,
}

func init() {
	root.Funcsig.Add(spec)
}

type Command struct {
	*root.Command
	outputFlags outputflags.Flags
	debug       bool
	vars        []string
}

func New(parent charm.Command, f *flag.FlagSet) (charm.Command, error) {
	c := &Command{Command: parent.(*root.Command)}
	c.outputFlags.SetFlags(f)
	f.BoolVar(&c.debug, "debug", false, "dump parsed types to stderr")
	f.Func("vars", "comma-separated type variables that may appear as bare names", func(s string) error {
		c.vars = append(c.vars, strings.Fields(strings.ReplaceAll(s, ",", " "))...)
		return nil
	})
	return c, nil
}

func (c *Command) Run(args []string) error {
	_, cleanup, err := c.Init(&c.outputFlags)
	if err != nil {
		return err
	}
	defer cleanup()
	if len(args) == 0 {
		return charm.NeedHelp
	}
	types, err := sig.ParseTypes(funcsig.NewContext(), args, c.vars...)
	if err != nil {
		return err
	}
	if c.debug {
		for _, typ := range types {
			fmt.Fprintf(os.Stderr, "%# v\n", pretty.Formatter(typ))
		}
	}
	summary, err := analysis.Summarize(types)
	if err != nil {
		return err
	}
	b, err := c.outputFlags.Marshal(summary)
	if err != nil {
		return err
	}
	w, err := c.outputFlags.Open()
	if err != nil {
		return err
	}
	_, err = w.Write(b)
	return errors.Join(err, w.Close())
}
