package root

import (
	"flag"

	"github.com/brimdata/funcsig/cli"
	"github.com/brimdata/funcsig/pkg/charm"
)

var Funcsig = &charm.Spec{
	Name:  "funcsig",
	Usage: "funcsig [options] <command> [arguments...]",
	Short: "analyze and check function signatures",
	Long: `
The "funcsig" command works with the type signatures of scalar functions.

Types are written in canonical form: scalar names such as integer or
varchar; containers array(T), map(K,V), and row(T,...); the anonymous
generic any; named type variables __user_T; and variadic(T) as the last
argument of a signature.

"funcsig analyze" prints the analysis of an argument list.
"funcsig check" loads YAML signature catalogs, registers every signature,
and prints each function's overloads in the order they are tried.
"funcsig fmt" prints types in canonical form.
`,
	New: New,
}

type Command struct {
	cli.Flags
}

func New(parent charm.Command, f *flag.FlagSet) (charm.Command, error) {
	c := &Command{}
	c.SetFlags(f)
	return c, nil
}

func (c *Command) Run(args []string) error {
	return charm.NoRun(args)
}
