package sig

import (
	"errors"
	"fmt"
	"io"
	"slices"
	"strings"

	"github.com/agnivade/levenshtein"
	"github.com/brimdata/funcsig"
)

var ErrSyntax = errors.New("signature syntax error")

// Parser translates the text form of types and argument lists into types
// interned in a funcsig.Context.  Type variables are written in their
// canonical form "__user_<Name>" or, when declared with SetVariables, as
// the bare name.
type Parser struct {
	lexer *Lexer
	vars  map[string]struct{}
	err   error
}

func NewParser(r io.Reader) *Parser {
	b, err := io.ReadAll(r)
	return &Parser{
		lexer: NewLexer(string(b)),
		err:   err,
	}
}

func newStringParser(s string) *Parser {
	return &Parser{lexer: NewLexer(s)}
}

// SetVariables declares type variables that may appear as bare names.
func (p *Parser) SetVariables(names ...string) {
	if p.vars == nil {
		p.vars = make(map[string]struct{})
	}
	for _, name := range names {
		p.vars[name] = struct{}{}
	}
}

// ParseType parses a single type spanning the entire input.
func (p *Parser) ParseType(sctx *funcsig.Context) (funcsig.Type, error) {
	if p.err != nil {
		return nil, p.err
	}
	typ, err := p.parseType(sctx)
	if err != nil {
		return nil, err
	}
	if err := p.expectEOF(); err != nil {
		return nil, err
	}
	return typ, nil
}

// ParseArgs parses a comma-separated argument list spanning the entire
// input.  Empty input is an empty list.
func (p *Parser) ParseArgs(sctx *funcsig.Context) ([]funcsig.Type, error) {
	if p.err != nil {
		return nil, p.err
	}
	l := p.lexer
	if l.skipSpace(); l.atEOF() {
		return nil, nil
	}
	var args []funcsig.Type
	for {
		typ, err := p.parseType(sctx)
		if err != nil {
			return nil, err
		}
		args = append(args, typ)
		if !l.match(',') {
			break
		}
	}
	if err := p.expectEOF(); err != nil {
		return nil, err
	}
	return args, nil
}

func (p *Parser) expectEOF() error {
	l := p.lexer
	if l.skipSpace(); !l.atEOF() {
		return p.errorf("unexpected input %q", l.rest())
	}
	return nil
}

func (p *Parser) parseType(sctx *funcsig.Context) (funcsig.Type, error) {
	l := p.lexer
	l.skipSpace()
	pos := l.Pos()
	name := l.scanIdentifier()
	if name == "" {
		if l.atEOF() {
			return nil, p.error("type expected at end of input")
		}
		return nil, p.errorf("type expected at %q", l.rest())
	}
	if strings.HasPrefix(name, funcsig.VariablePrefix) {
		return p.lookupVariable(sctx, strings.TrimPrefix(name, funcsig.VariablePrefix), pos)
	}
	keyword := strings.ToLower(name)
	switch keyword {
	case "any":
		return funcsig.TypeAny, nil
	case "array":
		types, err := p.parseTypeArgs(sctx, keyword, 1)
		if err != nil {
			return nil, err
		}
		return sctx.LookupTypeArray(types[0]), nil
	case "map":
		types, err := p.parseTypeArgs(sctx, keyword, 2)
		if err != nil {
			return nil, err
		}
		return sctx.LookupTypeMap(types[0], types[1]), nil
	case "row":
		types, err := p.parseTypeArgs(sctx, keyword, -1)
		if err != nil {
			return nil, err
		}
		return sctx.LookupTypeRow(types)
	case "variadic":
		types, err := p.parseTypeArgs(sctx, keyword, 1)
		if err != nil {
			return nil, err
		}
		return sctx.LookupTypeVariadic(types[0]), nil
	}
	if typ := funcsig.LookupScalar(keyword); typ != nil {
		return typ, nil
	}
	if _, ok := p.vars[name]; ok {
		return p.lookupVariable(sctx, name, pos)
	}
	msg := fmt.Sprintf("unknown type name %q", name)
	if s := p.suggest(keyword); s != "" {
		msg += fmt.Sprintf(" (did you mean %q?)", s)
	}
	return nil, p.errorAt(pos, msg)
}

func (p *Parser) lookupVariable(sctx *funcsig.Context, name string, pos int) (funcsig.Type, error) {
	if name == "" {
		return nil, p.errorAt(pos, "empty type variable name")
	}
	typ, err := sctx.LookupTypeGeneric(name)
	if err != nil {
		return nil, p.errorAt(pos, err.Error())
	}
	return typ, nil
}

// parseTypeArgs parses the parenthesized children of a container.  An
// arity of -1 accepts one or more children.
func (p *Parser) parseTypeArgs(sctx *funcsig.Context, which string, arity int) ([]funcsig.Type, error) {
	l := p.lexer
	if !l.match('(') {
		return nil, p.errorf("no opening parenthesis in %s type", which)
	}
	var types []funcsig.Type
	for {
		typ, err := p.parseType(sctx)
		if err != nil {
			return nil, err
		}
		types = append(types, typ)
		if !l.match(',') {
			break
		}
	}
	if !l.match(')') {
		return nil, p.errorf("mismatched parentheses while parsing %s type", which)
	}
	if arity >= 0 && len(types) != arity {
		return nil, p.errorf("%s type takes %d type %s but %d given", which, arity, plural(arity, "parameter"), len(types))
	}
	return types, nil
}

func plural(n int, s string) string {
	if n == 1 {
		return s
	}
	return s + "s"
}

// suggest returns the known type name or declared variable closest to name
// if it is within a small edit distance.
func (p *Parser) suggest(name string) string {
	candidates := append(funcsig.ScalarNames(), funcsig.Keywords...)
	for v := range p.vars {
		candidates = append(candidates, v)
	}
	slices.Sort(candidates)
	best, bestDist := "", 3
	for _, c := range candidates {
		if d := levenshtein.ComputeDistance(name, c); d < bestDist && d < len(name) {
			best, bestDist = c, d
		}
	}
	return best
}

func (p *Parser) error(msg string) error {
	return p.errorAt(p.lexer.Pos(), msg)
}

func (p *Parser) errorf(format string, args ...any) error {
	return p.error(fmt.Sprintf(format, args...))
}

func (p *Parser) errorAt(pos int, msg string) error {
	return fmt.Errorf("%w at position %d: %s", ErrSyntax, pos+1, msg)
}
