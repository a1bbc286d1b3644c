package jsep

// binaryPrecedence ranks binary operators for precedence mode. Higher binds
// tighter. Operators missing from the table rank 0, below everything.
var binaryPrecedence = map[string]int{
	"||":  1,
	"&&":  2,
	"|":   3,
	"^":   4,
	"&":   5,
	"==":  6,
	"!=":  6,
	"===": 6,
	"!==": 6,
	"<":   7,
	">":   7,
	"<=":  7,
	">=":  7,
	"<<":  8,
	">>":  8,
	">>>": 8,
	"+":   9,
	"-":   9,
	"*":   11,
	"/":   11,
	"%":   11,
}

// BinaryPrecedence returns the binding strength of op in precedence mode.
func BinaryPrecedence(op string) int {
	return binaryPrecedence[op]
}

// foldPrecedence groups operands[0] ops[0] operands[1] ops[1] ... into a
// tree. Equal precedence associates to the left.
func foldPrecedence(operands []Node, ops []string) Node {
	out := []Node{operands[0]}

	var stack []string

	reduce := func() {
		op := stack[len(stack)-1]
		stack = stack[:len(stack)-1]

		left, right := out[len(out)-2], out[len(out)-1]
		out = append(out[:len(out)-2], newBinary(op, left, right))
	}

	for i, op := range ops {
		for len(stack) > 0 && BinaryPrecedence(stack[len(stack)-1]) >= BinaryPrecedence(op) {
			reduce()
		}

		stack = append(stack, op)
		out = append(out, operands[i+1])
	}

	for len(stack) > 0 {
		reduce()
	}

	return out[0]
}
