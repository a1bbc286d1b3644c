// Package analysis provides diagnostics for jsep expressions.
package analysis

import (
	"errors"

	"github.com/Aintaer/jsep"
)

// Analyzer parses expressions and runs rules over the result.
type Analyzer struct {
	cfg *jsep.Config

	// parser reads expressions the way callers will.
	parser *jsep.Parser

	// reference groups by conventional precedence. It is nil when parser
	// already does.
	reference *jsep.Parser

	// rules is the set of checks to run.
	rules []*Rule
}

// NewAnalyzer creates an analyzer with default rules.
// cfg is overlaid on the defaults and may be nil.
func NewAnalyzer(cfg *jsep.Config) *Analyzer {
	return NewAnalyzerWithRules(cfg, DefaultRules())
}

// NewAnalyzerWithRules creates an analyzer with custom rules.
func NewAnalyzerWithRules(cfg *jsep.Config, rules []*Rule) *Analyzer {
	a := &Analyzer{
		parser: jsep.New(jsep.WithConfig(cfg)),
		rules:  rules,
	}

	a.cfg = a.parser.Config()

	if !a.cfg.Precedence {
		a.reference = jsep.New(jsep.WithConfig(a.cfg), jsep.WithPrecedence(true))
	}

	return a
}

// Config returns the effective configuration.
func (a *Analyzer) Config() *jsep.Config {
	return a.cfg
}

// Analyze parses and checks src. It always returns a result; a parse failure
// becomes a "parse-error" diagnostic and rules that need a tree are skipped.
func (a *Analyzer) Analyze(src string) *AnalyzedExpr {
	result := &AnalyzedExpr{
		Source:      src,
		Config:      a.cfg,
		Diagnostics: []Diagnostic{},
	}

	root, err := a.parser.Parse(src)
	result.Root = root
	result.ParseError = err

	if err != nil {
		result.Diagnostics = append(result.Diagnostics, parseErrorToDiagnostic(err))
	} else {
		result.Statements = statements(root)
	}

	if err == nil && a.reference != nil {
		// A failure here means the two modes disagree on validity, which only
		// happens for inputs the primary parse already rejected.
		ref, refErr := a.reference.Parse(src)
		if refErr == nil {
			result.Reference = statements(ref)
		}
	}

	for _, rule := range a.rules {
		rule.Run(result)
	}

	return result
}

// parseErrorToDiagnostic converts a parse error to a diagnostic.
func parseErrorToDiagnostic(err error) Diagnostic {
	span := jsep.Span{}
	msg := err.Error()

	var perr *jsep.ParseError
	if errors.As(err, &perr) {
		span = jsep.Span{Start: perr.Pos, End: perr.Pos}
		msg = perr.Kind.Error()
	}

	return Diagnostic{
		Span:     span,
		Severity: SeverityError,
		Message:  msg,
		Code:     "parse-error",
		Source:   "jsep",
	}
}

// statements splits a top-level result into its statements.
func statements(root jsep.Node) []jsep.Node {
	if c, ok := root.(*jsep.Compound); ok {
		return c.Body
	}

	return []jsep.Node{root}
}
