// Package fuzz generates types and argument lists from fuzzer input.
package fuzz

import (
	"bytes"
	"errors"
	"fmt"
	"io"

	"github.com/brimdata/funcsig"
)

// GenArgs returns an argument list of zero or more types, optionally
// followed by a variadic tail.
func GenArgs(b *bytes.Reader, sctx *funcsig.Context, depth int) []funcsig.Type {
	var args []funcsig.Type
	for GenByte(b) != 0 {
		args = append(args, GenType(b, sctx, depth))
	}
	if GenByte(b)%2 == 1 {
		args = append(args, sctx.LookupTypeVariadic(GenType(b, sctx, depth)))
	}
	return args
}

func GenTypes(b *bytes.Reader, sctx *funcsig.Context, depth int) []funcsig.Type {
	var types []funcsig.Type
	for len(types) == 0 || GenByte(b) != 0 {
		types = append(types, GenType(b, sctx, depth))
	}
	return types
}

func GenType(b *bytes.Reader, sctx *funcsig.Context, depth int) funcsig.Type {
	if depth < 0 || GenByte(b)%2 == 0 {
		switch GenByte(b) % 3 {
		case 0:
			names := funcsig.ScalarNames()
			return funcsig.LookupScalar(names[int(GenByte(b))%len(names)])
		case 1:
			return funcsig.TypeAny
		case 2:
			return sctx.MustLookupTypeGeneric(fmt.Sprintf("T%d", GenByte(b)%4))
		default:
			panic("Unreachable")
		}
	}
	depth--
	switch GenByte(b) % 3 {
	case 0:
		typ, err := sctx.LookupTypeRow(GenTypes(b, sctx, depth))
		if err != nil {
			panic(err)
		}
		return typ
	case 1:
		return sctx.LookupTypeArray(GenType(b, sctx, depth))
	case 2:
		key := GenType(b, sctx, depth)
		val := GenType(b, sctx, depth)
		return sctx.LookupTypeMap(key, val)
	default:
		panic("Unreachable")
	}
}

// Variables returns the names of the named generics in typ in the order
// they occur, with repeats.
func Variables(typ funcsig.Type) []string {
	if g, ok := typ.(*funcsig.TypeGeneric); ok {
		if g.IsAnonymous() {
			return nil
		}
		return []string{g.String()}
	}
	var names []string
	for _, child := range funcsig.Children(typ) {
		names = append(names, Variables(child)...)
	}
	return names
}

// HasGeneric is true if a generic occurs anywhere in typ.
func HasGeneric(typ funcsig.Type) bool {
	if funcsig.IsGeneric(typ) {
		return true
	}
	for _, child := range funcsig.Children(typ) {
		if HasGeneric(child) {
			return true
		}
	}
	return false
}

// ConcreteCount counts the scalar and container nodes of typ.  Generics
// count zero and a variadic counts its element.
func ConcreteCount(typ funcsig.Type) int {
	var n int
	switch typ.(type) {
	case *funcsig.TypeScalar, *funcsig.TypeArray, *funcsig.TypeMap, *funcsig.TypeRow:
		n = 1
	}
	for _, child := range funcsig.Children(typ) {
		n += ConcreteCount(child)
	}
	return n
}

func GenByte(b *bytes.Reader) byte {
	// If we're out of bytes, return 0.
	byte, err := b.ReadByte()
	if err != nil && !errors.Is(err, io.EOF) {
		panic(err)
	}
	return byte
}
