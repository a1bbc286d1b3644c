package jsep

import (
	"strings"
)

// Sexpr renders n as an s-expression, e.g. (+ 2 (* 3 4)).
//
// Member access renders as (. obj name) or ([] obj prop), calls as
// (call callee args...), compounds as (; a b). A nil node renders as nil.
func Sexpr(n Node) string {
	var b strings.Builder

	f := &formatter{b: &b}
	f.sexpr(n)

	return b.String()
}

// Source renders n back into expression syntax. Every binary expression is
// parenthesized, so the result parses to the same tree in either grouping mode.
func Source(n Node) string {
	var b strings.Builder

	f := &formatter{b: &b}
	f.source(n)

	return b.String()
}

type formatter struct {
	b *strings.Builder
}

func (f *formatter) write(s string) {
	f.b.WriteString(s)
}

func (f *formatter) sexpr(n Node) {
	switch n := n.(type) {
	case nil:
		f.write("nil")
	case *Compound:
		f.list(";", n.Body...)
	case *Identifier:
		f.write(n.Name)
	case *ThisExpression:
		f.write("this")
	case *Literal:
		f.write(n.Raw)
	case *MemberExpression:
		op := "."
		if n.Computed {
			op = "[]"
		}

		f.list(op, n.Object, n.Property)
	case *CallExpression:
		f.list("call", append([]Node{n.Callee}, n.Arguments...)...)
	case *UnaryExpression:
		f.list(n.Operator, n.Argument)
	case *BinaryExpression:
		f.list(n.Operator, n.Left, n.Right)
	}
}

func (f *formatter) list(head string, items ...Node) {
	f.write("(")
	f.write(head)

	for _, item := range items {
		f.write(" ")
		f.sexpr(item)
	}

	f.write(")")
}

func (f *formatter) source(n Node) {
	switch n := n.(type) {
	case *Compound:
		for i, stmt := range n.Body {
			if i > 0 {
				f.write("; ")
			}

			f.source(stmt)
		}
	case *Identifier:
		f.write(n.Name)
	case *ThisExpression:
		f.write("this")
	case *Literal:
		f.write(n.Raw)
	case *MemberExpression:
		f.operand(n.Object)

		if n.Computed {
			f.write("[")
			f.source(n.Property)
			f.write("]")
		} else {
			f.write(".")
			f.source(n.Property)
		}
	case *CallExpression:
		f.operand(n.Callee)
		f.write("(")

		for i, arg := range n.Arguments {
			if i > 0 {
				f.write(", ")
			}

			f.source(arg)
		}

		f.write(")")
	case *UnaryExpression:
		f.write(n.Operator)

		if n.Operator != "" && isIdentContinue(n.Operator[len(n.Operator)-1]) {
			f.write(" ")
		}

		f.operand(n.Argument)
	case *BinaryExpression:
		f.write("(")
		f.operand(n.Left)
		f.write(" " + n.Operator + " ")
		f.operand(n.Right)
		f.write(")")
	}
}

// operand renders n where a unary expression would otherwise absorb
// whatever follows it.
func (f *formatter) operand(n Node) {
	if _, ok := n.(*UnaryExpression); ok {
		f.write("(")
		f.source(n)
		f.write(")")

		return
	}

	f.source(n)
}
