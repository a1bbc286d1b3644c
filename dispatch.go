package jsep

// result is the outcome of a production. When ok is false the production did
// not apply and node and next are meaningless.
type result struct {
	node Node
	next cursor
	ok   bool
}

// production tries to consume a prefix of the input at c. active is the most
// recently completed node of the current expression, or nil at its start.
// A production either applies and returns a cursor strictly past c, reports
// that it does not apply, or fails with a *ParseError.
type production func(p *Parser, c cursor, active Node) (result, error)

func none() (result, error) {
	return result{}, nil
}

func produce(n Node, next cursor) (result, error) {
	return result{node: n, next: next, ok: true}, nil
}

func fail(err error) (result, error) {
	return result{}, err
}

// firstOf tries each production in order; the first that applies wins.
func firstOf(prods ...production) production {
	return func(p *Parser, c cursor, active Node) (result, error) {
		for _, prod := range prods {
			r, err := prod(p, c, active)
			if err != nil || r.ok {
				return r, err
			}
		}

		return none()
	}
}

// dispatch assembles one expression starting at c by applying g until it no
// longer applies. A separator is never consumed here: it stops this loop and
// every enclosing one up to the construct that owns the sequence.
func (p *Parser) dispatch(c cursor, g production) (Node, cursor, error) {
	var active Node

	for {
		c = c.skipSpace()

		r, err := g(p, c, active)
		if err != nil {
			return nil, c, err
		}

		if !r.ok {
			return active, c, nil
		}

		if r.next.off <= c.off {
			return nil, c, c.errorf(ErrNoProgress)
		}

		active, c = r.node, r.next
	}
}

// sub parses a nested expression in a fresh context, one level deeper.
func (p *Parser) sub(c cursor, g production) (Node, cursor, error) {
	if c.depth >= p.cfg.MaxDepth {
		return nil, c, c.errorf(ErrTooDeep)
	}

	depth := c.depth
	c.depth++

	n, next, err := p.dispatch(c, g)
	next.depth = depth

	return n, next, err
}

// separator matches ';' or ','.
func separator(c cursor) (cursor, bool) {
	if b := c.peek(); b == ';' || b == ',' {
		return c.advance(1), true
	}

	return c, false
}

// matchOp returns the first operator of ops that prefixes the input.
func matchOp(c cursor, ops []string) (string, bool) {
	for _, op := range ops {
		if op != "" && c.hasPrefix(op) {
			return op, true
		}
	}

	return "", false
}
