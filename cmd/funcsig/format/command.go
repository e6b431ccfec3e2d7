package format

import (
	"flag"
	"fmt"
	"strings"

	"github.com/brimdata/funcsig"
	"github.com/brimdata/funcsig/cmd/funcsig/root"
	"github.com/brimdata/funcsig/pkg/charm"
	"github.com/brimdata/funcsig/sig"
)

var spec = &charm.Spec{
	Name:  "fmt",
	Usage: "fmt [-vars T,U] type ...",
	Short: "print types in canonical form",
	Long: `
fmt parses each argument as a type and prints its canonical form on its own
line.  Keywords and scalar names are case-insensitive on input and lowercase
on output, whitespace is removed, and type variables are written with the
__user_ prefix.`,
	New: New,
}

func init() {
	root.Funcsig.Add(spec)
}

type Command struct {
	*root.Command
	vars []string
}

func New(parent charm.Command, f *flag.FlagSet) (charm.Command, error) {
	c := &Command{Command: parent.(*root.Command)}
	f.Func("vars", "comma-separated type variables that may appear as bare names", func(s string) error {
		c.vars = append(c.vars, strings.Fields(strings.ReplaceAll(s, ",", " "))...)
		return nil
	})
	return c, nil
}

func (c *Command) Run(args []string) error {
	_, cleanup, err := c.Init()
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
	for _, typ := range types {
		fmt.Println(sig.FormatType(typ))
	}
	return nil
}
