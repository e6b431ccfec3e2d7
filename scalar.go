package funcsig

const (
	IDBoolean = iota
	IDTinyint
	IDSmallint
	IDInteger
	IDBigint
	IDHugeint
	IDReal
	IDDouble
	IDVarchar
	IDVarbinary
	IDTimestamp
	IDDate
	IDUnknown

	// IDTypeComplex is the first ID available to interned types.
	IDTypeComplex = 32
)

// TypeScalar is a fully concrete primitive type.  There is exactly one
// TypeScalar for each scalar kind so scalars compare by pointer.
type TypeScalar struct {
	id   int
	name string
}

func (t *TypeScalar) ID() int {
	return t.id
}

func (t *TypeScalar) Kind() Kind {
	return ScalarKind
}

func (t *TypeScalar) Name() string {
	return t.name
}

func (t *TypeScalar) String() string {
	return t.name
}

var (
	TypeBoolean   = &TypeScalar{IDBoolean, "boolean"}
	TypeTinyint   = &TypeScalar{IDTinyint, "tinyint"}
	TypeSmallint  = &TypeScalar{IDSmallint, "smallint"}
	TypeInteger   = &TypeScalar{IDInteger, "integer"}
	TypeBigint    = &TypeScalar{IDBigint, "bigint"}
	TypeHugeint   = &TypeScalar{IDHugeint, "hugeint"}
	TypeReal      = &TypeScalar{IDReal, "real"}
	TypeDouble    = &TypeScalar{IDDouble, "double"}
	TypeVarchar   = &TypeScalar{IDVarchar, "varchar"}
	TypeVarbinary = &TypeScalar{IDVarbinary, "varbinary"}
	TypeTimestamp = &TypeScalar{IDTimestamp, "timestamp"}
	TypeDate      = &TypeScalar{IDDate, "date"}
	TypeUnknown   = &TypeScalar{IDUnknown, "unknown"}
)

var scalars = []*TypeScalar{
	TypeBoolean,
	TypeTinyint,
	TypeSmallint,
	TypeInteger,
	TypeBigint,
	TypeHugeint,
	TypeReal,
	TypeDouble,
	TypeVarchar,
	TypeVarbinary,
	TypeTimestamp,
	TypeDate,
	TypeUnknown,
}

var scalarsByName = func() map[string]*TypeScalar {
	m := make(map[string]*TypeScalar, len(scalars))
	for _, s := range scalars {
		m[s.name] = s
	}
	return m
}()

// LookupScalar returns the scalar type called name or nil if there is none.
func LookupScalar(name string) Type {
	// Avoid returning a non-nil interface holding a nil pointer.
	if s, ok := scalarsByName[name]; ok {
		return s
	}
	return nil
}

// ScalarName returns the canonical name of a scalar type or the empty
// string if typ is not a scalar.
func ScalarName(typ Type) string {
	if s, ok := typ.(*TypeScalar); ok {
		return s.name
	}
	return ""
}

// ScalarNames returns the canonical scalar names in ID order.
func ScalarNames() []string {
	names := make([]string, 0, len(scalars))
	for _, s := range scalars {
		names = append(names, s.name)
	}
	return names
}
