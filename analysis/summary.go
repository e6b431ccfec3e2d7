package analysis

import (
	"fmt"
	"strings"

	"github.com/brimdata/funcsig"
)

// Summary is the analysis of a complete argument list.
type Summary struct {
	HasGeneric           bool     `json:"has_generic" yaml:"has_generic"`
	HasVariadic          bool     `json:"has_variadic" yaml:"has_variadic"`
	HasVariadicOfGeneric bool     `json:"has_variadic_of_generic" yaml:"has_variadic_of_generic"`
	ConcreteCount        int      `json:"concrete_count" yaml:"concrete_count"`
	Variables            []string `json:"variables" yaml:"variables"`
	Types                []string `json:"types" yaml:"types"`
}

// Summarize analyzes each argument in order with a single Results,
// resetting the type string before each argument to capture the canonical
// string of every argument.
func Summarize(args []funcsig.Type) (*Summary, error) {
	var r Results
	types := make([]string, 0, len(args))
	for k, arg := range args {
		r.ResetTypeString()
		if err := Analyze(arg, &r); err != nil {
			return nil, fmt.Errorf("argument %d: %w", k+1, err)
		}
		types = append(types, r.TypeAsString())
	}
	return &Summary{
		HasGeneric:           r.HasGeneric(),
		HasVariadic:          r.HasVariadic(),
		HasVariadicOfGeneric: r.HasVariadicOfGeneric(),
		ConcreteCount:        r.ConcreteCount(),
		Variables:            r.Variables(),
		Types:                types,
	}, nil
}

// Priority orders the overloads of a function from most to least specific.
// Lower values are preferred.
type Priority int

const (
	PriorityConcrete Priority = iota
	PriorityVariadic
	PriorityGeneric
	PriorityGenericVariadic
	PriorityVariadicOfGeneric
)

func (p Priority) String() string {
	switch p {
	case PriorityConcrete:
		return "concrete"
	case PriorityVariadic:
		return "variadic"
	case PriorityGeneric:
		return "generic"
	case PriorityGenericVariadic:
		return "generic-variadic"
	case PriorityVariadicOfGeneric:
		return "variadic-of-generic"
	}
	return fmt.Sprintf("priority(%d)", int(p))
}

func (s *Summary) Priority() Priority {
	switch {
	case s.HasVariadicOfGeneric:
		return PriorityVariadicOfGeneric
	case s.HasGeneric && s.HasVariadic:
		return PriorityGenericVariadic
	case s.HasGeneric:
		return PriorityGeneric
	case s.HasVariadic:
		return PriorityVariadic
	}
	return PriorityConcrete
}

// Less reports whether s should be tried before o when both match a call.
// Within a priority class, the signature with more concrete nodes wins.
func (s *Summary) Less(o *Summary) bool {
	if p, op := s.Priority(), o.Priority(); p != op {
		return p < op
	}
	return s.ConcreteCount > o.ConcreteCount
}

func (s *Summary) String() string {
	var b strings.Builder
	fmt.Fprintf(&b, "has_generic: %t\n", s.HasGeneric)
	fmt.Fprintf(&b, "has_variadic: %t\n", s.HasVariadic)
	fmt.Fprintf(&b, "has_variadic_of_generic: %t\n", s.HasVariadicOfGeneric)
	fmt.Fprintf(&b, "concrete_count: %d\n", s.ConcreteCount)
	writeList(&b, "variables", s.Variables)
	writeList(&b, "types", s.Types)
	return b.String()
}

func writeList(b *strings.Builder, name string, list []string) {
	b.WriteString(name)
	b.WriteByte(':')
	for _, s := range list {
		b.WriteByte(' ')
		b.WriteString(s)
	}
	b.WriteByte('\n')
}
