package jsep

import (
	"errors"
	"strconv"

	"github.com/alecthomas/participle/v2/lexer"
)

// Sentinel errors. Every parse failure is a *ParseError wrapping one of the
// parse kinds below, so callers can match with errors.Is.
var (
	ErrUnexpectedToken       = errors.New("unexpected token")
	ErrNoProgress            = errors.New("could not parse")
	ErrUnexpectedDotProperty = errors.New("unexpected .")
	ErrUnexpectedProperty    = errors.New("unexpected property")
	ErrUnclosedBracket       = errors.New("unclosed [")
	ErrUnclosedParen         = errors.New("unclosed (")
	ErrUnclosedQuote         = errors.New("unclosed quote")
	ErrMissingOperand        = errors.New("missing operand")
	ErrTooDeep               = errors.New("expression nested too deeply")

	// ErrConfigNotFound is returned when no .jsep.yaml is found.
	ErrConfigNotFound = errors.New("jsep: no .jsep.yaml found")
)

var kindNames = map[error]string{
	ErrUnexpectedToken:       "UnexpectedToken",
	ErrNoProgress:            "NoProgress",
	ErrUnexpectedDotProperty: "UnexpectedDotProperty",
	ErrUnexpectedProperty:    "UnexpectedProperty",
	ErrUnclosedBracket:       "UnclosedBracket",
	ErrUnclosedParen:         "UnclosedParen",
	ErrUnclosedQuote:         "UnclosedQuote",
	ErrMissingOperand:        "MissingOperand",
	ErrTooDeep:               "TooDeep",
}

// ParseError is a parse failure at a position in the input.
type ParseError struct {
	Kind error
	Pos  lexer.Position
	// Rest is the input that was still unconsumed at the failure point.
	Rest string
}

func (e *ParseError) Error() string {
	msg := e.Pos.String() + ": " + e.Kind.Error()
	if e.Rest == "" {
		return msg + " at end of input"
	}

	return msg + ": " + strconv.Quote(truncate(e.Rest, 32))
}

// Unwrap returns the error kind.
func (e *ParseError) Unwrap() error {
	return e.Kind
}

// KindName returns the stable name of the parse error kind wrapped by err,
// such as "UnclosedParen", or "" when err is not a parse error.
func KindName(err error) string {
	var perr *ParseError
	if !errors.As(err, &perr) {
		return ""
	}

	return kindNames[perr.Kind]
}

// KindByName is the inverse of KindName.
func KindByName(name string) (error, bool) {
	for kind, n := range kindNames {
		if n == name {
			return kind, true
		}
	}

	return nil, false
}

func truncate(s string, n int) string {
	if len(s) <= n {
		return s
	}

	return s[:n] + "..."
}
