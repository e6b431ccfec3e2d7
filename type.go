// Package funcsig defines the type algebra used to declare the argument and
// return types of scalar functions: primitive scalars, fixed-arity containers,
// generic type variables, and a variadic tail.  Composite types are interned
// by a Context so that structurally equal types are the same pointer.
package funcsig

import "fmt"

// Type is the interface implemented by every node of the type algebra.
// The set of implementations is closed: *TypeScalar, *TypeArray, *TypeMap,
// *TypeRow, *TypeGeneric, and *TypeVariadic.
type Type interface {
	ID() int
	Kind() Kind
}

type Kind int

const (
	ScalarKind Kind = iota
	ArrayKind
	MapKind
	RowKind
	GenericKind
	VariadicKind
)

func (k Kind) String() string {
	switch k {
	case ScalarKind:
		return "scalar"
	case ArrayKind:
		return "array"
	case MapKind:
		return "map"
	case RowKind:
		return "row"
	case GenericKind:
		return "generic"
	case VariadicKind:
		return "variadic"
	}
	return fmt.Sprintf("<unknown kind %d>", int(k))
}

// IsContainer returns true for the fixed-arity container kinds.
func (k Kind) IsContainer() bool {
	return k == ArrayKind || k == MapKind || k == RowKind
}

// TypeID returns the ID of typ or -1 for a nil type.
func TypeID(typ Type) int {
	if typ == nil {
		return -1
	}
	return typ.ID()
}

// TypeUnder returns the element type of a variadic and typ otherwise.
func TypeUnder(typ Type) Type {
	if v, ok := typ.(*TypeVariadic); ok {
		return v.Type
	}
	return typ
}

func IsGeneric(typ Type) bool {
	_, ok := typ.(*TypeGeneric)
	return ok
}

func IsVariadic(typ Type) bool {
	_, ok := typ.(*TypeVariadic)
	return ok
}

// IsNil is true for a nil Type and for a non-nil Type holding a nil
// pointer.
func IsNil(typ Type) bool {
	switch t := typ.(type) {
	case nil:
		return true
	case *TypeScalar:
		return t == nil
	case *TypeArray:
		return t == nil
	case *TypeMap:
		return t == nil
	case *TypeRow:
		return t == nil
	case *TypeGeneric:
		return t == nil
	case *TypeVariadic:
		return t == nil
	}
	return false
}
