package function

import (
	"fmt"
	"strings"

	"github.com/brimdata/funcsig"
	"github.com/brimdata/funcsig/analysis"
	"github.com/brimdata/funcsig/sig"
)

// Variable declares a type variable of a signature.  Constraints are
// recorded for the type resolver and are not checked here.
type Variable struct {
	Name       string `json:"name" yaml:"name"`
	Comparable bool   `json:"comparable,omitempty" yaml:"comparable,omitempty"`
	Orderable  bool   `json:"orderable,omitempty" yaml:"orderable,omitempty"`
}

// IsComparable is true if values bound to the variable must support
// equality.  Orderable variables are always comparable.
func (v Variable) IsComparable() bool {
	return v.Comparable || v.Orderable
}

type Signature struct {
	Name      string
	Variables []Variable
	Args      []funcsig.Type
	Return    funcsig.Type
}

// String renders the signature as, e.g., "concat(varchar,variadic(varchar)) -> varchar".
func (s *Signature) String() string {
	var b strings.Builder
	b.WriteString(s.Name)
	b.WriteByte('(')
	b.WriteString(sig.FormatArgs(s.Args))
	b.WriteString(") -> ")
	if s.Return != nil {
		b.WriteString(sig.FormatType(s.Return))
	}
	return b.String()
}

// validate checks s against the analysis of its arguments.
func (s *Signature) validate(summary *analysis.Summary) error {
	if !nameRE.MatchString(s.Name) {
		return fmt.Errorf("%w %q", ErrBadName, s.Name)
	}
	for k, arg := range s.Args {
		if funcsig.IsVariadic(arg) && k != len(s.Args)-1 {
			return fmt.Errorf("%w: argument %d", ErrVariadicPosition, k+1)
		}
	}
	if s.Return == nil {
		return fmt.Errorf("%w: missing return type", ErrBadSignature)
	}
	if funcsig.IsVariadic(s.Return) {
		return fmt.Errorf("%w: return type", ErrVariadicPosition)
	}
	var ret analysis.Results
	if err := analysis.Analyze(s.Return, &ret); err != nil {
		return fmt.Errorf("%w: return type: %w", ErrBadSignature, err)
	}
	declared := make(map[string]struct{}, len(s.Variables))
	for _, v := range s.Variables {
		if err := funcsig.CheckVariableName(v.Name); err != nil {
			return err
		}
		name := funcsig.VariableName(v.Name)
		if _, ok := declared[name]; ok {
			return fmt.Errorf("%w %q", ErrDuplicateVariable, v.Name)
		}
		declared[name] = struct{}{}
	}
	used := make(map[string]struct{}, len(summary.Variables))
	for _, name := range summary.Variables {
		if _, ok := declared[name]; !ok {
			return fmt.Errorf("%w %q", ErrUndeclaredVariable, bareName(name))
		}
		used[name] = struct{}{}
	}
	for _, v := range s.Variables {
		if _, ok := used[funcsig.VariableName(v.Name)]; !ok {
			return fmt.Errorf("%w: %q", ErrUnusedVariable, v.Name)
		}
	}
	for _, name := range ret.Variables() {
		if _, ok := used[name]; !ok {
			return fmt.Errorf("%w: %q", ErrUnboundReturnType, bareName(name))
		}
	}
	if ret.HasGeneric() && !summary.HasGeneric {
		return fmt.Errorf("%w: %s", ErrUnboundReturnType, ret.TypeAsString())
	}
	return nil
}

func bareName(name string) string {
	return strings.TrimPrefix(name, funcsig.VariablePrefix)
}
