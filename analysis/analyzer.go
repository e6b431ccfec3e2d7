// Package analysis extracts the metadata the function registry needs from
// the argument list of a scalar function signature: whether any argument
// is generic, whether the list ends in a variadic and whether that variadic
// is generic, how many concrete type nodes the signature has, the type
// variables it mentions, and the canonical string of each argument.
//
// Analyze visits one argument and folds its metadata into a Results.
// Summarize applies Analyze to a whole argument list and returns an
// immutable Summary.
package analysis

import (
	"errors"
	"fmt"

	"github.com/brimdata/funcsig"
)

var (
	ErrUnsupportedType = errors.New("unsupported type descriptor")
	ErrNestedVariadic  = errors.New("variadic type is only allowed as a top-level argument")
)

// Analyze analyzes typ as a top-level argument and folds the result into r.
// On error, r is left as it was before the call.
func Analyze(typ funcsig.Type, r *Results) error {
	var scratch Results
	if err := scratch.analyze(typ, true); err != nil {
		return err
	}
	r.merge(&scratch)
	return nil
}

func (r *Results) analyze(typ funcsig.Type, top bool) error {
	if typ != nil && funcsig.IsNil(typ) {
		return fmt.Errorf("%w: nil %T", ErrUnsupportedType, typ)
	}
	switch t := typ.(type) {
	case nil:
		return fmt.Errorf("%w: nil type", ErrUnsupportedType)
	case *funcsig.TypeScalar:
		if funcsig.LookupScalar(t.Name()) != typ {
			return fmt.Errorf("%w: unknown scalar %q", ErrUnsupportedType, t.Name())
		}
		r.typeString.WriteString(t.Name())
		r.concreteCount++
	case *funcsig.TypeArray:
		return r.analyzeContainer("array", t.Type)
	case *funcsig.TypeMap:
		return r.analyzeContainer("map", t.KeyType, t.ValType)
	case *funcsig.TypeRow:
		if len(t.Types) == 0 {
			return fmt.Errorf("%w: row with no fields", ErrUnsupportedType)
		}
		return r.analyzeContainer("row", t.Types...)
	case *funcsig.TypeGeneric:
		r.hasGeneric = true
		name := t.String()
		if !t.IsAnonymous() {
			r.addVariable(name)
		}
		r.typeString.WriteString(name)
	case *funcsig.TypeVariadic:
		if !top {
			return ErrNestedVariadic
		}
		r.hasVariadic = true
		// The element is analyzed on its own so we can tell whether
		// the generics it contains came from below the variadic.
		var elem Results
		if err := elem.analyze(t.Type, false); err != nil {
			return err
		}
		if elem.hasGeneric {
			r.hasVariadicOfGeneric = true
		}
		r.merge(&elem)
	default:
		return fmt.Errorf("%w: %T", ErrUnsupportedType, typ)
	}
	return nil
}

func (r *Results) analyzeContainer(name string, types ...funcsig.Type) error {
	r.typeString.WriteString(name)
	r.typeString.WriteByte('(')
	r.concreteCount++
	for k, typ := range types {
		if k > 0 {
			r.typeString.WriteByte(',')
		}
		if err := r.analyze(typ, false); err != nil {
			return err
		}
	}
	r.typeString.WriteByte(')')
	return nil
}
