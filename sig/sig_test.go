package sig_test

import (
	"errors"
	"strings"
	"testing"

	"github.com/brimdata/funcsig"
	"github.com/brimdata/funcsig/sig"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestParseTypeCanonical(t *testing.T) {
	sctx := funcsig.NewContext()
	for _, s := range []string{
		"integer",
		"bigint",
		"double",
		"real",
		"any",
		"__user_T1",
		"array(integer)",
		"map(any,integer)",
		"map(array(integer),__user_T2)",
		"row(varchar,array(__user_K),map(date,timestamp))",
		"variadic(array(any))",
	} {
		typ, err := sig.ParseType(sctx, s)
		require.NoError(t, err, s)
		assert.Equal(t, s, sig.FormatType(typ))
		again, err := sig.ParseType(sctx, sig.FormatType(typ))
		require.NoError(t, err)
		assert.Same(t, typ, again)
	}
}

func TestParseTypeWhitespaceAndCase(t *testing.T) {
	sctx := funcsig.NewContext()
	typ, err := sig.ParseType(sctx, "  Map( ARRAY(Integer) ,\n any )  ")
	require.NoError(t, err)
	assert.Equal(t, "map(array(integer),any)", sig.FormatType(typ))
	assert.Same(t, sig.MustParseType(sctx, "map(array(integer),any)"), typ)
}

func TestParseArgs(t *testing.T) {
	sctx := funcsig.NewContext()
	args, err := sig.ParseArgs(sctx, "integer, __user_T5, map(array(integer), __user_T2)")
	require.NoError(t, err)
	require.Len(t, args, 3)
	assert.Same(t, funcsig.TypeInteger, args[0])
	assert.Same(t, sctx.MustLookupTypeGeneric("T5"), args[1])
	assert.Equal(t, "integer,__user_T5,map(array(integer),__user_T2)", sig.FormatArgs(args))

	args, err = sig.ParseArgs(sctx, "   ")
	require.NoError(t, err)
	assert.Empty(t, args)

	args, err = sig.ParseArgs(sctx, "integer,variadic(array(integer))")
	require.NoError(t, err)
	assert.True(t, funcsig.IsVariadic(args[1]))
	assert.Equal(t, "array(integer)", sig.FormatType(sig.Unwrap(args[1])))
	assert.Same(t, args[0], sig.Unwrap(args[0]))
}

func TestParseDeclaredVariables(t *testing.T) {
	sctx := funcsig.NewContext()
	p := sig.NewParser(strings.NewReader("map(K, V), K"))
	p.SetVariables("K", "V")
	args, err := p.ParseArgs(sctx)
	require.NoError(t, err)
	assert.Equal(t, "map(__user_K,__user_V),__user_K", sig.FormatArgs(args))
	assert.Same(t, sctx.MustLookupTypeGeneric("K"), args[1])
}

func TestParseErrors(t *testing.T) {
	sctx := funcsig.NewContext()
	cases := []struct {
		input string
		err   string
	}{
		{"intger", `signature syntax error at position 1: unknown type name "intger" (did you mean "integer"?)`},
		{"array(integer", "signature syntax error at position 14: mismatched parentheses while parsing array type"},
		{"map(integer)", "signature syntax error at position 13: map type takes 2 type parameters but 1 given"},
		{"array(integer,bigint)", "signature syntax error at position 22: array type takes 1 type parameter but 2 given"},
		{"array", "signature syntax error at position 6: no opening parenthesis in array type"},
		{"integer bigint", `signature syntax error at position 9: unexpected input "bigint"`},
		{"", "signature syntax error at position 1: type expected at end of input"},
		{"row()", `signature syntax error at position 5: type expected at ")"`},
		{"__user_", "signature syntax error at position 1: empty type variable name"},
		{"T", `signature syntax error at position 1: unknown type name "T"`},
		{"array(__user_integer)", `signature syntax error at position 7: bad type variable name "integer": scalar type name`},
	}
	for _, c := range cases {
		_, err := sig.ParseType(sctx, c.input)
		assert.EqualError(t, err, c.err, "input %q", c.input)
		assert.True(t, errors.Is(err, sig.ErrSyntax))
	}
}

func TestParseArgsErrors(t *testing.T) {
	sctx := funcsig.NewContext()
	_, err := sig.ParseArgs(sctx, "integer,")
	assert.EqualError(t, err, "signature syntax error at position 9: type expected at end of input")
	_, err = sig.ParseArgs(sctx, "integer;bigint")
	assert.EqualError(t, err, `signature syntax error at position 8: unexpected input ";bigint"`)
}

func TestFormatUnknownType(t *testing.T) {
	assert.Equal(t, "array(<*sig_test.bogus>)", sig.FormatType(&funcsig.TypeArray{Type: &bogus{}}))
	assert.Equal(t, "<nil *funcsig.TypeMap>", sig.FormatType((*funcsig.TypeMap)(nil)))
	assert.Equal(t, "integer,array(<nil *funcsig.TypeScalar>),<nil>",
		sig.FormatArgs([]funcsig.Type{funcsig.TypeInteger, &funcsig.TypeArray{Type: (*funcsig.TypeScalar)(nil)}, nil}))
}

type bogus struct{}

func (*bogus) ID() int             { return -1 }
func (*bogus) Kind() funcsig.Kind { return funcsig.Kind(99) }

func TestParseTypes(t *testing.T) {
	sctx := funcsig.NewContext()
	types, err := sig.ParseTypes(sctx, []string{"map(K,V)", "K", "variadic(integer)"}, "K", "V")
	require.NoError(t, err)
	assert.Equal(t, "map(__user_K,__user_V),__user_K,variadic(integer)", sig.FormatArgs(types))

	_, err = sig.ParseTypes(sctx, []string{"integer", "K"})
	assert.ErrorIs(t, err, sig.ErrSyntax)
	assert.EqualError(t, err, `argument 2: signature syntax error at position 1: unknown type name "K"`)
}
