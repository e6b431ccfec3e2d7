package charm

import (
	"flag"
	"fmt"
	"io"
	"strings"
	"text/tabwriter"
)

func displayHelp(w io.Writer, p path, showHidden bool) {
	if len(p) == 0 {
		return
	}
	last := p.last()
	spec := last.spec
	var names []string
	for _, inst := range p {
		names = append(names, inst.spec.Name)
	}
	fmt.Fprintf(w, "NAME\n    %s - %s\n\n", strings.Join(names, " "), spec.Short)
	if spec.Usage != "" {
		fmt.Fprintf(w, "USAGE\n    %s\n\n", spec.Usage)
	}
	if opts := options(last.flags, spec, showHidden); opts != "" {
		fmt.Fprintf(w, "OPTIONS\n%s\n", opts)
	}
	if cmds := commands(spec, showHidden); cmds != "" {
		fmt.Fprintf(w, "COMMANDS\n%s\n", cmds)
	}
	if long := strings.TrimSpace(spec.Long); long != "" {
		fmt.Fprintf(w, "DESCRIPTION\n%s\n", indent(long, "    "))
	}
}

func options(flags *flag.FlagSet, spec *Spec, showHidden bool) string {
	hidden := list(spec.HiddenFlags)
	redacted := list(spec.RedactedFlags)
	var b strings.Builder
	tw := tabwriter.NewWriter(&b, 0, 8, 2, ' ', 0)
	flags.VisitAll(func(f *flag.Flag) {
		if f.Name == "h" || f.Name == "help" || f.Name == "hidden" {
			return
		}
		if hidden[f.Name] && !showHidden {
			return
		}
		name, usage := flag.UnquoteUsage(f)
		arg := "-" + f.Name
		if name != "" {
			arg += " " + name
		}
		if f.DefValue != "" && f.DefValue != "false" && !redacted[f.Name] {
			usage += fmt.Sprintf(" (default %q)", f.DefValue)
		}
		fmt.Fprintf(tw, "    %s\t%s\n", arg, usage)
	})
	tw.Flush()
	return b.String()
}

func commands(spec *Spec, showHidden bool) string {
	var b strings.Builder
	tw := tabwriter.NewWriter(&b, 0, 8, 2, ' ', 0)
	for _, child := range spec.children {
		if child.Hidden && !showHidden {
			continue
		}
		fmt.Fprintf(tw, "    %s\t%s\n", child.Name, child.Short)
	}
	tw.Flush()
	return b.String()
}

func list(s string) map[string]bool {
	m := make(map[string]bool)
	for _, name := range strings.Split(s, ",") {
		if name = strings.TrimSpace(name); name != "" {
			m[name] = true
		}
	}
	return m
}

func indent(s, prefix string) string {
	lines := strings.Split(s, "\n")
	for k, line := range lines {
		if line != "" {
			lines[k] = prefix + line
		}
	}
	return strings.Join(lines, "\n") + "\n"
}
