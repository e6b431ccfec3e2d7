package funcsig

import (
	"encoding/binary"
	"errors"
	"fmt"
	"slices"
	"strings"
	"sync"
	"unicode"
	"unicode/utf8"

	"golang.org/x/text/unicode/norm"
)

const MaxRowFields = 100_000

var ErrBadVariable = errors.New("bad type variable name")

// A Context interns the composite types of one or more related signatures.
// Each structurally distinct type corresponds to exactly one Type pointer
// so type equivalence is pointer comparison.  (Type pointers from distinct
// Contexts obviously do not have this property.)  Scalars and TypeAny are
// shared by every Context.
type Context struct {
	mu        sync.RWMutex
	byID      []Type
	arrays    map[Type]*TypeArray
	maps      map[string]*TypeMap
	rows      map[string]*TypeRow
	generics  map[string]*TypeGeneric
	variadics map[Type]*TypeVariadic
}

func NewContext() *Context {
	return &Context{
		byID: make([]Type, IDTypeComplex, 2*IDTypeComplex),
	}
}

func (c *Context) Reset() {
	c.mu.Lock()
	defer c.mu.Unlock()
	c.byID = c.byID[:IDTypeComplex]
	c.arrays = nil
	c.maps = nil
	c.rows = nil
	c.generics = nil
	c.variadics = nil
}

func (c *Context) nextIDWithLock() int {
	return len(c.byID)
}

func (c *Context) enterWithLock(typ Type) {
	c.byID = append(c.byID, typ)
}

func (c *Context) LookupType(id int) (Type, error) {
	if id < 0 {
		return nil, fmt.Errorf("type id (%d) cannot be negative", id)
	}
	if id < IDTypeComplex {
		if id < len(scalars) {
			return scalars[id], nil
		}
		if id == TypeAny.id {
			return TypeAny, nil
		}
		return nil, fmt.Errorf("no scalar type for type id %d", id)
	}
	c.mu.RLock()
	defer c.mu.RUnlock()
	if id >= len(c.byID) {
		return nil, fmt.Errorf("type id (%d) not in type context (size %d)", id, len(c.byID))
	}
	if typ := c.byID[id]; typ != nil {
		return typ, nil
	}
	return nil, fmt.Errorf("no type found for type id %d", id)
}

var keyPool = sync.Pool{
	New: func() interface{} {
		// Return a pointer to avoid allocation on conversion to
		// interface.
		buf := make([]byte, 64)
		return &buf
	},
}

func (c *Context) LookupTypeArray(inner Type) *TypeArray {
	c.mu.Lock()
	defer c.mu.Unlock()
	if c.arrays == nil {
		c.arrays = make(map[Type]*TypeArray)
	}
	if typ, ok := c.arrays[inner]; ok {
		return typ
	}
	typ := NewTypeArray(c.nextIDWithLock(), inner)
	c.enterWithLock(typ)
	c.arrays[inner] = typ
	return typ
}

func (c *Context) LookupTypeMap(keyType, valType Type) *TypeMap {
	key := keyPool.Get().(*[]byte)
	bytes := (*key)[:0]
	bytes = binary.LittleEndian.AppendUint32(bytes, uint32(TypeID(keyType)))
	bytes = binary.LittleEndian.AppendUint32(bytes, uint32(TypeID(valType)))
	*key = bytes
	c.mu.Lock()
	defer c.mu.Unlock()
	if c.maps == nil {
		c.maps = make(map[string]*TypeMap)
	}
	if typ, ok := c.maps[string(bytes)]; ok {
		keyPool.Put(key)
		return typ
	}
	typ := NewTypeMap(c.nextIDWithLock(), keyType, valType)
	c.enterWithLock(typ)
	c.maps[string(bytes)] = typ
	return typ
}

func (c *Context) LookupTypeRow(types []Type) (*TypeRow, error) {
	if len(types) == 0 {
		return nil, errors.New("row type must have at least one field")
	}
	if len(types) > MaxRowFields {
		return nil, fmt.Errorf("row type exceeds %d fields", MaxRowFields)
	}
	key := keyPool.Get().(*[]byte)
	bytes := (*key)[:0]
	for _, typ := range types {
		bytes = binary.LittleEndian.AppendUint32(bytes, uint32(TypeID(typ)))
	}
	*key = bytes
	c.mu.Lock()
	defer c.mu.Unlock()
	if c.rows == nil {
		c.rows = make(map[string]*TypeRow)
	}
	if typ, ok := c.rows[string(bytes)]; ok {
		keyPool.Put(key)
		return typ, nil
	}
	typ := NewTypeRow(c.nextIDWithLock(), slices.Clone(types))
	c.enterWithLock(typ)
	c.rows[string(bytes)] = typ
	return typ, nil
}

// LookupTypeGeneric returns the generic for the type variable name or
// TypeAny if name is empty.
func (c *Context) LookupTypeGeneric(name string) (*TypeGeneric, error) {
	if name == "" {
		return TypeAny, nil
	}
	if err := CheckVariableName(name); err != nil {
		return nil, err
	}
	c.mu.Lock()
	defer c.mu.Unlock()
	if c.generics == nil {
		c.generics = make(map[string]*TypeGeneric)
	}
	if typ, ok := c.generics[name]; ok {
		return typ, nil
	}
	typ := NewTypeGeneric(c.nextIDWithLock(), name)
	c.enterWithLock(typ)
	c.generics[name] = typ
	return typ, nil
}

func (c *Context) MustLookupTypeGeneric(name string) *TypeGeneric {
	typ, err := c.LookupTypeGeneric(name)
	if err != nil {
		panic(err)
	}
	return typ
}

func (c *Context) LookupTypeVariadic(inner Type) *TypeVariadic {
	c.mu.Lock()
	defer c.mu.Unlock()
	if c.variadics == nil {
		c.variadics = make(map[Type]*TypeVariadic)
	}
	if typ, ok := c.variadics[inner]; ok {
		return typ
	}
	typ := NewTypeVariadic(c.nextIDWithLock(), inner)
	c.enterWithLock(typ)
	c.variadics[inner] = typ
	return typ
}

// TranslateType takes a type from another context and creates and returns
// that type in this context.
func (c *Context) TranslateType(ext Type) (Type, error) {
	switch t := ext.(type) {
	case *TypeScalar:
		return t, nil
	case *TypeGeneric:
		return c.LookupTypeGeneric(t.Name)
	case *TypeArray:
		inner, err := c.TranslateType(t.Type)
		if err != nil {
			return nil, err
		}
		return c.LookupTypeArray(inner), nil
	case *TypeMap:
		keyType, err := c.TranslateType(t.KeyType)
		if err != nil {
			return nil, err
		}
		valType, err := c.TranslateType(t.ValType)
		if err != nil {
			return nil, err
		}
		return c.LookupTypeMap(keyType, valType), nil
	case *TypeRow:
		types := make([]Type, 0, len(t.Types))
		for _, typ := range t.Types {
			typ, err := c.TranslateType(typ)
			if err != nil {
				return nil, err
			}
			types = append(types, typ)
		}
		return c.LookupTypeRow(types)
	case *TypeVariadic:
		inner, err := c.TranslateType(t.Type)
		if err != nil {
			return nil, err
		}
		return c.LookupTypeVariadic(inner), nil
	}
	return nil, fmt.Errorf("unknown type in Context.TranslateType: %T", ext)
}

// Keywords are the names reserved by the signature language in addition
// to the scalar names.
var Keywords = []string{"any", "array", "map", "row", "variadic"}

// CheckVariableName returns an error wrapping ErrBadVariable if name cannot
// name a type variable.
func CheckVariableName(name string) error {
	switch {
	case !utf8.ValidString(name):
		return fmt.Errorf("%w %q: invalid UTF-8", ErrBadVariable, name)
	case !norm.NFC.IsNormalString(name):
		return fmt.Errorf("%w %q: not in normalization form C", ErrBadVariable, name)
	case !isIdentifier(name):
		return fmt.Errorf("%w %q: not an identifier", ErrBadVariable, name)
	case strings.HasPrefix(name, VariablePrefix):
		return fmt.Errorf("%w %q: reserved prefix %q", ErrBadVariable, name, VariablePrefix)
	case LookupScalar(strings.ToLower(name)) != nil:
		return fmt.Errorf("%w %q: scalar type name", ErrBadVariable, name)
	case slices.Contains(Keywords, strings.ToLower(name)):
		return fmt.Errorf("%w %q: reserved word", ErrBadVariable, name)
	}
	return nil
}

func isIdentifier(s string) bool {
	for k, r := range s {
		if !IDChar(r) || (k == 0 && unicode.IsDigit(r)) {
			return false
		}
	}
	return s != ""
}

func IDChar(r rune) bool {
	return unicode.IsLetter(r) || unicode.IsDigit(r) || r == '_'
}
