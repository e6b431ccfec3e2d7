// Package sig implements the text form of the function-signature type
// language.  The grammar is
//
//	args      = [ type { "," type } ]
//	type      = scalar | "any" | variable | container | "variadic" "(" type ")"
//	container = "array" "(" type ")"
//	          | "map" "(" type "," type ")"
//	          | "row" "(" type { "," type } ")"
//	variable  = "__user_" ident | ident
//
// where a bare ident is a variable only if declared with
// Parser.SetVariables.  Whitespace between tokens is ignored on input and
// never produced on output.  Scalar and container names are case
// insensitive on input and lowercase in canonical form.
package sig

import (
	"fmt"

	"github.com/brimdata/funcsig"
)

func ParseType(sctx *funcsig.Context, s string) (funcsig.Type, error) {
	return newStringParser(s).ParseType(sctx)
}

func MustParseType(sctx *funcsig.Context, s string) funcsig.Type {
	typ, err := ParseType(sctx, s)
	if err != nil {
		panic(err)
	}
	return typ
}

func ParseArgs(sctx *funcsig.Context, s string) ([]funcsig.Type, error) {
	return newStringParser(s).ParseArgs(sctx)
}

func MustParseArgs(sctx *funcsig.Context, s string) []funcsig.Type {
	args, err := ParseArgs(sctx, s)
	if err != nil {
		panic(err)
	}
	return args
}

// ParseTypes parses each input as a single type.  The names in vars may
// appear as bare type variables.
func ParseTypes(sctx *funcsig.Context, inputs []string, vars ...string) ([]funcsig.Type, error) {
	types := make([]funcsig.Type, 0, len(inputs))
	for k, s := range inputs {
		p := newStringParser(s)
		p.SetVariables(vars...)
		typ, err := p.ParseType(sctx)
		if err != nil {
			return nil, fmt.Errorf("argument %d: %w", k+1, err)
		}
		types = append(types, typ)
	}
	return types, nil
}
