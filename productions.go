package jsep

import (
	"strconv"
	"strings"
)

// Atomic productions. Except for member access, they only start an
// expression: an atom directly after another atom ends the expression.

// keyword matches a configured keyword followed by a non-identifier
// character or the end of input.
func (p *Parser) keyword(c cursor, active Node) (result, error) {
	if active != nil {
		return none()
	}

	for _, kw := range p.cfg.Keywords {
		if kw == "" || !c.hasPrefix(kw) {
			continue
		}

		next := c.advance(len(kw))
		if !next.eof() && isIdentContinue(next.peek()) {
			continue
		}

		meta := NodeMeta{Pos: c.pos(), EndPos: next.pos()}
		if kw == "this" {
			return produce(&ThisExpression{NodeMeta: meta}, next)
		}

		return produce(&Literal{NodeMeta: meta, Value: kw == "true", Raw: kw}, next)
	}

	return none()
}

func (p *Parser) identifier(c cursor, active Node) (result, error) {
	if active != nil {
		return none()
	}

	id, next, ok := scanIdentifier(c)
	if !ok {
		return none()
	}

	return produce(id, next)
}

func scanIdentifier(c cursor) (*Identifier, cursor, bool) {
	if c.eof() || !isIdentStart(c.peek()) {
		return nil, c, false
	}

	next := c.advance(1)
	for !next.eof() && isIdentContinue(next.peek()) {
		next = next.advance(1)
	}

	return &Identifier{
		NodeMeta: NodeMeta{Pos: c.pos(), EndPos: next.pos()},
		Name:     c.src[c.off:next.off],
	}, next, true
}

// dotProperty matches ".name" after an object.
func (p *Parser) dotProperty(c cursor, active Node) (result, error) {
	if c.peek() != '.' {
		return none()
	}

	if active == nil {
		return fail(c.errorf(ErrUnexpectedDotProperty))
	}

	after := c.advance(1)

	prop, next, ok := scanIdentifier(after)
	if !ok {
		return fail(after.errorf(ErrUnexpectedProperty))
	}

	return produce(&MemberExpression{
		NodeMeta: NodeMeta{Pos: active.Span().Start, EndPos: next.pos()},
		Object:   active,
		Property: prop,
	}, next)
}

// bracketProperty matches "[expr]" after an object.
func (p *Parser) bracketProperty(c cursor, active Node) (result, error) {
	if active == nil || c.peek() != '[' {
		return none()
	}

	prop, next, err := p.sub(c.advance(1), p.expr)
	if err != nil {
		return fail(err)
	}

	next = next.skipSpace()

	switch {
	case next.peek() != ']':
		return fail(next.errorf(ErrUnclosedBracket))
	case prop == nil:
		return fail(next.errorf(ErrUnexpectedProperty))
	}

	next = next.advance(1)

	return produce(&MemberExpression{
		NodeMeta: NodeMeta{Pos: active.Span().Start, EndPos: next.pos()},
		Object:   active,
		Property: prop,
		Computed: true,
	}, next)
}

// number matches \d+(\.\d+)?.
func (p *Parser) number(c cursor, active Node) (result, error) {
	if active != nil || !isDigit(c.peek()) {
		return none()
	}

	next := c
	for !next.eof() && isDigit(next.peek()) {
		next = next.advance(1)
	}

	if next.peek() == '.' {
		frac := next.advance(1)
		if !frac.eof() && isDigit(frac.peek()) {
			for !frac.eof() && isDigit(frac.peek()) {
				frac = frac.advance(1)
			}

			next = frac
		}
	}

	raw := c.src[c.off:next.off]

	// Only digits reach here, so the one possible error is ErrRange, for
	// which ParseFloat already returns ±Inf.
	value, _ := strconv.ParseFloat(raw, 64)

	return produce(&Literal{
		NodeMeta: NodeMeta{Pos: c.pos(), EndPos: next.pos()},
		Value:    value,
		Raw:      raw,
	}, next)
}

// str matches a single- or double-quoted string. There are no escapes: the
// string ends at the next occurrence of its opening quote.
func (p *Parser) str(c cursor, active Node) (result, error) {
	quote := c.peek()
	if active != nil || (quote != '"' && quote != '\'') {
		return none()
	}

	end := strings.IndexByte(c.src[c.off+1:], quote)
	if end < 0 {
		return fail(c.errorf(ErrUnclosedQuote))
	}

	next := c.advance(end + 2)
	raw := c.src[c.off:next.off]

	return produce(&Literal{
		NodeMeta: NodeMeta{Pos: c.pos(), EndPos: next.pos()},
		Value:    raw[1 : len(raw)-1],
		Raw:      raw,
	}, next)
}
