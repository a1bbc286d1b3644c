package analysis

import (
	"fmt"

	"github.com/Aintaer/jsep"
)

// DiagnosticSeverity ranks diagnostics. Values match the LSP protocol.
type DiagnosticSeverity int

// Severity levels.
const (
	SeverityError DiagnosticSeverity = iota + 1
	SeverityWarning
	SeverityInformation
	SeverityHint
)

func (s DiagnosticSeverity) String() string {
	switch s {
	case SeverityError:
		return "error"
	case SeverityWarning:
		return "warning"
	case SeverityInformation:
		return "info"
	case SeverityHint:
		return "hint"
	default:
		return fmt.Sprintf("severity(%d)", int(s))
	}
}

// Diagnostic is a single finding.
type Diagnostic struct {
	Span     jsep.Span
	Severity DiagnosticSeverity
	Message  string
	Code     string
	Source   string
}

func (d Diagnostic) String() string {
	return fmt.Sprintf("%s: %s: %s [%s]", d.Span.Start, d.Severity, d.Message, d.Code)
}

// AnalyzedExpr is the result of analyzing one expression string.
type AnalyzedExpr struct {
	Source string

	// Config is the effective configuration the expression was read with.
	Config *jsep.Config

	// Root is the parse result, nil when ParseError is set.
	Root       jsep.Node
	ParseError error

	// Statements are the top-level statements of Root.
	Statements []jsep.Node

	// Reference holds the statements as conventional precedence would group
	// them. It is nil in precedence mode or when that reading fails.
	Reference []jsep.Node

	Diagnostics []Diagnostic
}

// HasErrors reports whether any diagnostic is error-level.
func (f *AnalyzedExpr) HasErrors() bool {
	for _, d := range f.Diagnostics {
		if d.Severity == SeverityError {
			return true
		}
	}

	return false
}
