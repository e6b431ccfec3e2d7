package funcsig

// TypeArray is an ordered container of a single element type.
type TypeArray struct {
	id   int
	Type Type
}

func NewTypeArray(id int, typ Type) *TypeArray {
	return &TypeArray{id, typ}
}

func (t *TypeArray) ID() int {
	return t.id
}

func (t *TypeArray) Kind() Kind {
	return ArrayKind
}

// TypeMap is a keyed container.
type TypeMap struct {
	id      int
	KeyType Type
	ValType Type
}

func NewTypeMap(id int, keyType, valType Type) *TypeMap {
	return &TypeMap{id, keyType, valType}
}

func (t *TypeMap) ID() int {
	return t.id
}

func (t *TypeMap) Kind() Kind {
	return MapKind
}

// TypeRow is a positional container with one or more children.  Field
// names are not part of a function signature so a row is identified by
// its child types alone.
type TypeRow struct {
	id    int
	Types []Type
}

func NewTypeRow(id int, types []Type) *TypeRow {
	return &TypeRow{id, types}
}

func (t *TypeRow) ID() int {
	return t.id
}

func (t *TypeRow) Kind() Kind {
	return RowKind
}

// ContainerName returns the keyword of a container type or the empty string.
func ContainerName(typ Type) string {
	switch typ.(type) {
	case *TypeArray:
		return "array"
	case *TypeMap:
		return "map"
	case *TypeRow:
		return "row"
	}
	return ""
}

// Children returns the child types of a container or variadic type in
// declaration order and nil for all other types.
func Children(typ Type) []Type {
	switch t := typ.(type) {
	case *TypeArray:
		return []Type{t.Type}
	case *TypeMap:
		return []Type{t.KeyType, t.ValType}
	case *TypeRow:
		return t.Types
	case *TypeVariadic:
		return []Type{t.Type}
	}
	return nil
}
