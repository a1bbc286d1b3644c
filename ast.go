// Package jsep parses single-line C-family expressions into an abstract syntax tree.
//
// The parser is a cursor-driven recursive descent over the unconsumed input:
// lexing and parsing happen in the same pass, and the recognised unary
// operators, binary operators and keywords are configurable.
package jsep

import (
	"github.com/alecthomas/participle/v2/lexer"
)

// NodeType names the variant of a Node.
type NodeType string

// Node types, named as in ESTree.
const (
	TypeCompound         NodeType = "Compound"
	TypeIdentifier       NodeType = "Identifier"
	TypeThis             NodeType = "ThisExpression"
	TypeLiteral          NodeType = "Literal"
	TypeMemberExpression NodeType = "MemberExpression"
	TypeCallExpression   NodeType = "CallExpression"
	TypeUnaryExpression  NodeType = "UnaryExpression"
	TypeBinaryExpression NodeType = "BinaryExpression"
)

// Span is a range of source text.
type Span struct {
	Start lexer.Position
	End   lexer.Position
}

// NodeMeta contains the position information common to all AST nodes.
type NodeMeta struct {
	Pos    lexer.Position
	EndPos lexer.Position
}

// Span returns the source span of this node.
func (n *NodeMeta) Span() Span { return Span{Start: n.Pos, End: n.EndPos} }

// Node is the interface implemented by all AST nodes.
type Node interface {
	Span() Span
	Type() NodeType
}

// Compound holds several expressions separated by ';' or ','.
type Compound struct {
	NodeMeta

	Body []Node
}

// Identifier is a variable reference, or the property name of a dotted member access.
type Identifier struct {
	NodeMeta

	Name string
}

// ThisExpression is the "this" keyword.
type ThisExpression struct {
	NodeMeta
}

// Literal is a number, string or boolean constant.
//
// Value holds a float64, a string or a bool. Raw is the source text it was read from.
type Literal struct {
	NodeMeta

	Value any
	Raw   string
}

// MemberExpression is a property access.
// For dotted access (a.b) Computed is false and Property is an *Identifier;
// for bracketed access (a[expr]) Computed is true.
type MemberExpression struct {
	NodeMeta

	Object   Node
	Property Node
	Computed bool
}

// CallExpression is a function call.
type CallExpression struct {
	NodeMeta

	Callee    Node
	Arguments []Node
}

// UnaryExpression is a prefix operator applied to an argument. Prefix is always true.
type UnaryExpression struct {
	NodeMeta

	Operator string
	Argument Node
	Prefix   bool
}

// BinaryExpression is an infix operator applied to two operands.
type BinaryExpression struct {
	NodeMeta

	Operator string
	Left     Node
	Right    Node
}

// Type implements Node.
func (*Compound) Type() NodeType { return TypeCompound }

// Type implements Node.
func (*Identifier) Type() NodeType { return TypeIdentifier }

// Type implements Node.
func (*ThisExpression) Type() NodeType { return TypeThis }

// Type implements Node.
func (*Literal) Type() NodeType { return TypeLiteral }

// Type implements Node.
func (*MemberExpression) Type() NodeType { return TypeMemberExpression }

// Type implements Node.
func (*CallExpression) Type() NodeType { return TypeCallExpression }

// Type implements Node.
func (*UnaryExpression) Type() NodeType { return TypeUnaryExpression }

// Type implements Node.
func (*BinaryExpression) Type() NodeType { return TypeBinaryExpression }

// IsNumber reports whether the literal holds a number.
func (l *Literal) IsNumber() bool {
	_, ok := l.Value.(float64)
	return ok
}

// IsString reports whether the literal holds a string.
func (l *Literal) IsString() bool {
	_, ok := l.Value.(string)
	return ok
}

// IsBool reports whether the literal holds a boolean.
func (l *Literal) IsBool() bool {
	_, ok := l.Value.(bool)
	return ok
}

// callable reports whether n may be the callee of a function call.
func callable(n Node) bool {
	switch n.(type) {
	case *Identifier, *MemberExpression, *CallExpression:
		return true
	default:
		return false
	}
}

// Walk calls fn for n and each of its descendants in depth-first order.
// Children are skipped when fn returns false.
func Walk(n Node, fn func(Node) bool) {
	if n == nil || !fn(n) {
		return
	}

	switch n := n.(type) {
	case *Compound:
		for _, c := range n.Body {
			Walk(c, fn)
		}
	case *MemberExpression:
		Walk(n.Object, fn)
		Walk(n.Property, fn)
	case *CallExpression:
		Walk(n.Callee, fn)

		for _, a := range n.Arguments {
			Walk(a, fn)
		}
	case *UnaryExpression:
		Walk(n.Argument, fn)
	case *BinaryExpression:
		Walk(n.Left, fn)
		Walk(n.Right, fn)
	}
}
