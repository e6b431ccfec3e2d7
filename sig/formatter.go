package sig

import (
	"fmt"
	"strings"

	"github.com/brimdata/funcsig"
)

// FormatType returns the canonical text of typ.  A variadic is rendered
// as "variadic(T)" so that a formatted signature parses back to the same
// argument list.
func FormatType(typ funcsig.Type) string {
	var b strings.Builder
	formatType(&b, typ)
	return b.String()
}

// FormatArgs returns the canonical text of an argument list.
func FormatArgs(args []funcsig.Type) string {
	var b strings.Builder
	for k, typ := range args {
		if k > 0 {
			b.WriteByte(',')
		}
		formatType(&b, typ)
	}
	return b.String()
}

func formatType(b *strings.Builder, typ funcsig.Type) {
	if typ == nil {
		b.WriteString("<nil>")
		return
	}
	if funcsig.IsNil(typ) {
		fmt.Fprintf(b, "<nil %T>", typ)
		return
	}
	switch t := typ.(type) {
	case *funcsig.TypeScalar:
		b.WriteString(t.Name())
	case *funcsig.TypeGeneric:
		b.WriteString(t.String())
	case *funcsig.TypeArray:
		b.WriteString("array(")
		formatType(b, t.Type)
		b.WriteByte(')')
	case *funcsig.TypeMap:
		b.WriteString("map(")
		formatType(b, t.KeyType)
		b.WriteByte(',')
		formatType(b, t.ValType)
		b.WriteByte(')')
	case *funcsig.TypeRow:
		b.WriteString("row(")
		for k, typ := range t.Types {
			if k > 0 {
				b.WriteByte(',')
			}
			formatType(b, typ)
		}
		b.WriteByte(')')
	case *funcsig.TypeVariadic:
		b.WriteString("variadic(")
		formatType(b, t.Type)
		b.WriteByte(')')
	default:
		fmt.Fprintf(b, "<%T>", typ)
	}
}

// Unwrap strips a top-level variadic, leaving the type whose rendering
// is the canonical string of a variadic argument.
func Unwrap(typ funcsig.Type) funcsig.Type {
	return funcsig.TypeUnder(typ)
}
