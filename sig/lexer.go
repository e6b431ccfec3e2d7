package sig

import (
	"strings"
	"unicode"
	"unicode/utf8"

	"github.com/brimdata/funcsig"
	"golang.org/x/text/unicode/norm"
)

// Lexer scans the tokens of the signature language from an in-memory
// buffer.  Signatures are short so the whole input is held in memory.
type Lexer struct {
	input string
	pos   int
}

func NewLexer(input string) *Lexer {
	return &Lexer{input: input}
}

func (l *Lexer) Pos() int {
	return l.pos
}

func (l *Lexer) atEOF() bool {
	return l.pos >= len(l.input)
}

func (l *Lexer) peekRune() (rune, int) {
	if l.atEOF() {
		return utf8.RuneError, 0
	}
	return utf8.DecodeRuneInString(l.input[l.pos:])
}

func (l *Lexer) skipSpace() {
	for !l.atEOF() {
		r, n := l.peekRune()
		if !unicode.IsSpace(r) {
			return
		}
		l.pos += n
	}
}

// match skips whitespace and consumes r if it is the next rune.
func (l *Lexer) match(r rune) bool {
	l.skipSpace()
	return l.matchTight(r)
}

// matchTight consumes r if it is the very next rune.
func (l *Lexer) matchTight(r rune) bool {
	next, n := l.peekRune()
	if n == 0 || next != r {
		return false
	}
	l.pos += n
	return true
}

// scanIdentifier returns the identifier at the current position in
// normalization form C or the empty string if there is none.
func (l *Lexer) scanIdentifier() string {
	l.skipSpace()
	start := l.pos
	for !l.atEOF() {
		r, n := l.peekRune()
		if !funcsig.IDChar(r) {
			break
		}
		l.pos += n
	}
	return norm.NFC.String(l.input[start:l.pos])
}

// rest returns a short excerpt of the unconsumed input for error messages.
func (l *Lexer) rest() string {
	s := strings.TrimSpace(l.input[l.pos:])
	if len(s) > 16 {
		s = s[:16] + "..."
	}
	return s
}
