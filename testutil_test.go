package jsep_test

import (
	"strconv"

	"github.com/Aintaer/jsep"
	"github.com/alecthomas/participle/v2/lexer"
	"github.com/google/go-cmp/cmp"
	"github.com/google/go-cmp/cmp/cmpopts"
)

// cmpIgnorePos compares trees by structure only.
var cmpIgnorePos = cmp.Options{
	cmpopts.IgnoreTypes(lexer.Position{}),
}

func id(name string) *jsep.Identifier {
	return &jsep.Identifier{Name: name}
}

func num(raw string) *jsep.Literal {
	v, err := strconv.ParseFloat(raw, 64)
	if err != nil {
		panic(err)
	}

	return &jsep.Literal{Value: v, Raw: raw}
}

func str(raw string) *jsep.Literal {
	return &jsep.Literal{Value: raw[1 : len(raw)-1], Raw: raw}
}

func boolean(v bool) *jsep.Literal {
	return &jsep.Literal{Value: v, Raw: strconv.FormatBool(v)}
}

func this() *jsep.ThisExpression {
	return &jsep.ThisExpression{}
}

func dot(obj jsep.Node, name string) *jsep.MemberExpression {
	return &jsep.MemberExpression{Object: obj, Property: id(name)}
}

func index(obj, prop jsep.Node) *jsep.MemberExpression {
	return &jsep.MemberExpression{Object: obj, Property: prop, Computed: true}
}

func call(callee jsep.Node, args ...jsep.Node) *jsep.CallExpression {
	return &jsep.CallExpression{Callee: callee, Arguments: append([]jsep.Node{}, args...)}
}

func un(op string, arg jsep.Node) *jsep.UnaryExpression {
	return &jsep.UnaryExpression{Operator: op, Argument: arg, Prefix: true}
}

func bin(op string, left, right jsep.Node) *jsep.BinaryExpression {
	return &jsep.BinaryExpression{Operator: op, Left: left, Right: right}
}

func compound(body ...jsep.Node) *jsep.Compound {
	return &jsep.Compound{Body: append([]jsep.Node{}, body...)}
}
