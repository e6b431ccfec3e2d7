package charm

import (
	"errors"
	"flag"
	"io"
)

type instance struct {
	spec    *Spec
	command Command
	flags   *flag.FlagSet
}

// path is the chain of commands selected by the command line, from the
// root to the command that runs.
type path []instance

func (p path) last() instance {
	return p[len(p)-1]
}

func (p path) run(args []string) error {
	if len(p) == 0 {
		return NeedHelp
	}
	return p.last().command.Run(args)
}

// parse builds the command path for args.  Flags of each command must
// precede the name of its sub-command.
func parse(spec *Spec, args []string) (path, []string, bool, error) {
	var p path
	var parent Command
	var help, hidden bool
	for {
		flags := flag.NewFlagSet(spec.Name, flag.ContinueOnError)
		flags.SetOutput(io.Discard)
		flags.BoolVar(&help, "h", false, "display help")
		flags.BoolVar(&help, "help", false, "display help")
		if spec.parent == nil {
			flags.BoolVar(&hidden, "hidden", false, "show hidden options")
		}
		cmd, err := spec.New(parent, flags)
		if err != nil {
			return p, nil, hidden, err
		}
		p = append(p, instance{spec, cmd, flags})
		if err := flags.Parse(args); err != nil {
			if errors.Is(err, flag.ErrHelp) {
				return p, nil, hidden, NeedHelp
			}
			return p, nil, hidden, err
		}
		if help {
			return p, nil, hidden, NeedHelp
		}
		args = flags.Args()
		if len(args) == 0 {
			return p, args, hidden, nil
		}
		child := spec.lookupSub(args[0])
		if child == nil {
			return p, args, hidden, nil
		}
		spec, parent, args = child, cmd, args[1:]
	}
}
