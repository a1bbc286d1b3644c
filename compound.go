package jsep

// call matches "(args...)" after a callable node.
func (p *Parser) call(c cursor, active Node) (result, error) {
	if active == nil || !callable(active) || c.peek() != '(' {
		return none()
	}

	args := []Node{}
	next := c.advance(1)

	for {
		arg, after, err := p.sub(next, p.expr)
		if err != nil {
			return fail(err)
		}

		after = after.skipSpace()

		if arg != nil {
			args = append(args, arg)
		}

		if after.peek() == ')' {
			end := after.advance(1)

			return produce(&CallExpression{
				NodeMeta:  NodeMeta{Pos: active.Span().Start, EndPos: end.pos()},
				Callee:    active,
				Arguments: args,
			}, end)
		}

		if sep, ok := separator(after); ok && arg != nil {
			next = sep
			continue
		}

		if !after.eof() {
			return fail(after.errorf(ErrUnexpectedToken))
		}

		return fail(after.errorf(ErrUnclosedParen))
	}
}

// group matches "(expr)" and returns expr itself.
func (p *Parser) group(c cursor, active Node) (result, error) {
	if active != nil || c.peek() != '(' {
		return none()
	}

	inner, next, err := p.sub(c.advance(1), p.expr)
	if err != nil {
		return fail(err)
	}

	next = next.skipSpace()

	switch {
	case next.peek() != ')':
		return fail(next.errorf(ErrUnclosedParen))
	case inner == nil:
		return fail(next.errorf(ErrUnexpectedToken))
	}

	return produce(inner, next.advance(1))
}

// binaryRest matches an operator after a left operand and takes everything
// that follows, up to the end of the current expression, as the right
// operand. The leftmost operator therefore always becomes the root.
func (p *Parser) binaryRest(c cursor, active Node) (result, error) {
	if active == nil {
		return none()
	}

	op, ok := matchOp(c, p.cfg.BinaryOps)
	if !ok {
		return none()
	}

	after := c.advance(len(op))

	right, next, err := p.sub(after, p.expr)
	if err != nil {
		return fail(err)
	}

	if right == nil {
		return fail(after.skipSpace().errorf(ErrMissingOperand))
	}

	return produce(newBinary(op, active, right), next)
}

// binaryClimb matches a run of operator/operand pairs after a left operand
// and groups them by BinaryPrecedence.
func (p *Parser) binaryClimb(c cursor, active Node) (result, error) {
	if active == nil {
		return none()
	}

	op, ok := matchOp(c, p.cfg.BinaryOps)
	if !ok {
		return none()
	}

	operands := []Node{active}

	var ops []string

	for ok {
		after := c.advance(len(op))

		right, next, err := p.sub(after, p.operand)
		if err != nil {
			return fail(err)
		}

		if right == nil {
			return fail(after.skipSpace().errorf(ErrMissingOperand))
		}

		operands = append(operands, right)
		ops = append(ops, op)

		c = next.skipSpace()
		op, ok = matchOp(c, p.cfg.BinaryOps)
	}

	return produce(foldPrecedence(operands, ops), c)
}

// unaryRest applies a prefix operator to the rest of the current expression.
func (p *Parser) unaryRest(c cursor, active Node) (result, error) {
	return p.unary(c, active, p.expr)
}

// unaryOperand applies a prefix operator to the next operand only.
func (p *Parser) unaryOperand(c cursor, active Node) (result, error) {
	return p.unary(c, active, p.operand)
}

func (p *Parser) unary(c cursor, active Node, g production) (result, error) {
	if active != nil {
		return none()
	}

	op, ok := matchOp(c, p.cfg.UnaryOps)
	if !ok {
		return none()
	}

	after := c.advance(len(op))

	arg, next, err := p.sub(after, g)
	if err != nil {
		return fail(err)
	}

	if arg == nil {
		return fail(after.skipSpace().errorf(ErrMissingOperand))
	}

	return produce(&UnaryExpression{
		NodeMeta: NodeMeta{Pos: c.pos(), EndPos: arg.Span().End},
		Operator: op,
		Argument: arg,
		Prefix:   true,
	}, next)
}

func newBinary(op string, left, right Node) *BinaryExpression {
	return &BinaryExpression{
		NodeMeta: NodeMeta{Pos: left.Span().Start, EndPos: right.Span().End},
		Operator: op,
		Left:     left,
		Right:    right,
	}
}
