package jsep

import (
	"strings"
	"unicode/utf8"

	"github.com/alecthomas/participle/v2/lexer"
)

// cursor is a read position in an immutable input. Productions receive a
// cursor and return the advanced one; the input itself never changes.
//
// line and col (zero-based, col in runes) follow off so that pos is O(1).
type cursor struct {
	src   string
	off   int
	line  int
	col   int
	depth int
}

func newCursor(src string) cursor {
	return cursor{src: src}
}

// rest returns the unconsumed input.
func (c cursor) rest() string {
	return c.src[c.off:]
}

func (c cursor) eof() bool {
	return c.off >= len(c.src)
}

func (c cursor) peek() byte {
	if c.eof() {
		return 0
	}

	return c.src[c.off]
}

func (c cursor) hasPrefix(s string) bool {
	return strings.HasPrefix(c.rest(), s)
}

func (c cursor) advance(n int) cursor {
	end := min(c.off+n, len(c.src))
	chunk := c.src[c.off:end]

	if nl := strings.LastIndexByte(chunk, '\n'); nl >= 0 {
		c.line += strings.Count(chunk, "\n")
		c.col = utf8.RuneCountInString(chunk[nl+1:])
	} else {
		c.col += utf8.RuneCountInString(chunk)
	}

	c.off = end

	return c
}

// skipSpace consumes leading whitespace.
func (c cursor) skipSpace() cursor {
	for !c.eof() && isSpace(c.src[c.off]) {
		if c.src[c.off] == '\n' {
			c.line++
			c.col = 0
		} else {
			c.col++
		}

		c.off++
	}

	return c
}

// pos returns the cursor's line/column position (both 1-based).
func (c cursor) pos() lexer.Position {
	return lexer.Position{Offset: c.off, Line: c.line + 1, Column: c.col + 1}
}

// errorf builds a *ParseError of the given kind at the cursor.
func (c cursor) errorf(kind error) *ParseError {
	return &ParseError{Kind: kind, Pos: c.pos(), Rest: c.rest()}
}

// Character helpers.

func isSpace(b byte) bool {
	return b == ' ' || b == '\t' || b == '\n' || b == '\r'
}

func isDigit(b byte) bool {
	return b >= '0' && b <= '9'
}

func isIdentStart(b byte) bool {
	return b == '$' || b == '_' || (b >= 'a' && b <= 'z') || (b >= 'A' && b <= 'Z')
}

func isIdentContinue(b byte) bool {
	return isIdentStart(b) || isDigit(b)
}
