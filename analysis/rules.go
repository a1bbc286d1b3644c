package analysis

import (
	"fmt"
	"strings"

	"github.com/Aintaer/jsep"
)

// Rule represents an analysis check.
// Inspired by go/analysis.Analyzer pattern.
type Rule struct {
	// Name is a short identifier for the rule (used in diagnostic codes).
	Name string

	// Doc is a brief description of what the rule checks.
	Doc string

	// Severity is the default severity for diagnostics from this rule.
	Severity DiagnosticSeverity

	// Run executes the rule and appends any diagnostics to the result.
	Run func(f *AnalyzedExpr)
}

// DefaultRules returns all built-in rules.
func DefaultRules() []*Rule {
	return []*Rule{
		// Warning-level checks.
		precedenceHazardRule,
		shadowedOperatorRule,

		// Information-level checks.
		unaryScopeRule,
	}
}

// ----------------------------------------------------------------------------
// Rule: precedence-hazard
// ----------------------------------------------------------------------------

var precedenceHazardRule = &Rule{
	Name:     "precedence-hazard",
	Doc:      "Reports statements whose operators group differently than conventional precedence would.",
	Severity: SeverityWarning,
	Run:      checkPrecedenceHazards,
}

func checkPrecedenceHazards(f *AnalyzedExpr) {
	if f.Reference == nil || len(f.Reference) != len(f.Statements) {
		return
	}

	for i, stmt := range f.Statements {
		got, want := jsep.Sexpr(stmt), jsep.Sexpr(f.Reference[i])
		if got == want {
			continue
		}

		f.Diagnostics = append(f.Diagnostics, Diagnostic{
			Span:     stmt.Span(),
			Severity: SeverityWarning,
			Message:  fmt.Sprintf("groups as %s, not %s; add parentheses or enable precedence", got, want),
			Code:     "precedence-hazard",
			Source:   "jsep",
		})
	}
}

// ----------------------------------------------------------------------------
// Rule: unary-scope
// ----------------------------------------------------------------------------

var unaryScopeRule = &Rule{
	Name:     "unary-scope",
	Doc:      "Reports unary operators that apply to an unparenthesized binary expression.",
	Severity: SeverityInformation,
	Run:      checkUnaryScope,
}

func checkUnaryScope(f *AnalyzedExpr) {
	for _, stmt := range f.Statements {
		jsep.Walk(stmt, func(n jsep.Node) bool {
			u, ok := n.(*jsep.UnaryExpression)
			if !ok {
				return true
			}

			if _, ok := u.Argument.(*jsep.BinaryExpression); !ok {
				return true
			}

			opEnd := u.Span().Start.Offset + len(u.Operator)
			if wrapped(f.Source, opEnd, u.Argument.Span().End.Offset) {
				return true
			}

			f.Diagnostics = append(f.Diagnostics, Diagnostic{
				Span:     u.Span(),
				Severity: SeverityInformation,
				Message:  fmt.Sprintf("unary %s applies to the whole of %s", u.Operator, jsep.Source(u.Argument)),
				Code:     "unary-scope",
				Source:   "jsep",
			})

			return true
		})
	}
}

// wrapped reports whether src[from:] starts, after whitespace, with a
// parenthesis whose match closes at or after end.
func wrapped(src string, from, end int) bool {
	i := from
	for i < len(src) && strings.IndexByte(" \t\r\n", src[i]) >= 0 {
		i++
	}

	if i >= len(src) || src[i] != '(' {
		return false
	}

	depth := 0

	for ; i < len(src); i++ {
		switch src[i] {
		case '\'', '"':
			closing := strings.IndexByte(src[i+1:], src[i])
			if closing < 0 {
				return false
			}

			i += closing + 1
		case '(':
			depth++
		case ')':
			depth--
			if depth == 0 {
				return i >= end
			}
		}
	}

	return false
}

// ----------------------------------------------------------------------------
// Rule: shadowed-operator
// ----------------------------------------------------------------------------

var shadowedOperatorRule = &Rule{
	Name:     "shadowed-operator",
	Doc:      "Reports operators that can never match because an earlier operator is their prefix.",
	Severity: SeverityWarning,
	Run:      checkShadowedOperators,
}

func checkShadowedOperators(f *AnalyzedExpr) {
	if f.Config == nil {
		return
	}

	checkOperatorList(f, "unary", f.Config.UnaryOps)
	checkOperatorList(f, "binary", f.Config.BinaryOps)
}

func checkOperatorList(f *AnalyzedExpr, kind string, ops []string) {
	for j, op := range ops {
		for _, earlier := range ops[:j] {
			if earlier == "" || !strings.HasPrefix(op, earlier) {
				continue
			}

			msg := fmt.Sprintf("%s operator %q is shadowed by %q listed before it", kind, op, earlier)
			if op == earlier {
				msg = fmt.Sprintf("%s operator %q is listed twice", kind, op)
			}

			f.Diagnostics = append(f.Diagnostics, Diagnostic{
				Severity: SeverityWarning,
				Message:  msg,
				Code:     "shadowed-operator",
				Source:   "jsep",
			})

			break
		}
	}
}
