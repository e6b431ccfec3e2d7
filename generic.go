package funcsig

// VariablePrefix is prepended to the name of a named generic to form its
// canonical rendering.  The prefix keeps user type variables disjoint from
// scalar and container names.
const VariablePrefix = "__user_"

// TypeGeneric is an unresolved type position.  An empty Name denotes the
// anonymous generic "any".  A non-empty Name binds the position to a type
// variable so that every occurrence of the same name resolves to the same
// type.
type TypeGeneric struct {
	id   int
	Name string
}

// TypeAny is the anonymous generic.
var TypeAny = &TypeGeneric{id: IDTypeComplex - 1}

func NewTypeGeneric(id int, name string) *TypeGeneric {
	return &TypeGeneric{id, name}
}

func (t *TypeGeneric) ID() int {
	return t.id
}

func (t *TypeGeneric) Kind() Kind {
	return GenericKind
}

func (t *TypeGeneric) IsAnonymous() bool {
	return t.Name == ""
}

// String returns "any" for the anonymous generic and the prefixed
// variable name otherwise.
func (t *TypeGeneric) String() string {
	if t.Name == "" {
		return "any"
	}
	return VariableName(t.Name)
}

// VariableName returns the canonical rendering of the type variable name.
func VariableName(name string) string {
	return VariablePrefix + name
}

// TypeVariadic matches zero or more trailing values of its element type.
// It is only meaningful as the last argument of a signature.
type TypeVariadic struct {
	id   int
	Type Type
}

func NewTypeVariadic(id int, typ Type) *TypeVariadic {
	return &TypeVariadic{id, typ}
}

func (t *TypeVariadic) ID() int {
	return t.id
}

func (t *TypeVariadic) Kind() Kind {
	return VariadicKind
}
