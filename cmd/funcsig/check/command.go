package check

import (
	"flag"
	"fmt"

	"github.com/brimdata/funcsig"
	"github.com/brimdata/funcsig/catalog"
	"github.com/brimdata/funcsig/cli/logflags"
	"github.com/brimdata/funcsig/cmd/funcsig/root"
	"github.com/brimdata/funcsig/function"
	"github.com/brimdata/funcsig/pkg/charm"
	"go.uber.org/zap"
	"go.uber.org/zap/zapcore"
)

var spec = &charm.Spec{
	Name:  "check",
	Usage: "check [options] catalog.yaml ...",
	Short: "check signature catalogs",
	Long: `
check loads each YAML signature catalog, registers every signature it
declares, and prints the overloads of each function in the order they are
tried when resolving a call.  Each overload is followed by its priority
class in brackets.

A catalog looks like

  functions:
    - name: element_at
      variables:
        - name: K
          comparable: true
        - name: V
      args: ["map(K,V)", K]
      returns: V

Signatures that fail validation are reported on stderr and cause a
non-zero exit after the accepted overloads are printed.

Registration is logged with the -log flags.  By default only warnings are
logged.`,
	New: New,
}

func init() {
	root.Funcsig.Add(spec)
}

type Command struct {
	*root.Command
	logFlags logflags.Flags
}

func New(parent charm.Command, f *flag.FlagSet) (charm.Command, error) {
	c := &Command{Command: parent.(*root.Command)}
	c.logFlags.Level = zapcore.WarnLevel
	c.logFlags.SetFlags(f)
	return c, nil
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
	logger.Debug("Catalogs loaded", zap.Strings("paths", args), zap.Int("signatures", len(sigs)))
	reg, err := function.NewRegistry(logger, nil)
	if err != nil {
		return err
	}
	regErr := catalog.Register(ctx, reg, sigs)
	for _, name := range reg.Names() {
		for _, e := range reg.Entries(name) {
			fmt.Println(e)
		}
	}
	return regErr
}
