package main

import (
	"context"
	"errors"
	"fmt"
	"io"

	"github.com/charmbracelet/lipgloss"
	"github.com/urfave/cli/v3"

	"github.com/Aintaer/jsep/analysis"
	"github.com/Aintaer/jsep/runner"
)

// ErrLintErrors is returned when any expression has error-level diagnostics.
var ErrLintErrors = errors.New("expressions contain errors")

func lintCommand() *cli.Command {
	return &cli.Command{
		Name:      "lint",
		Usage:     "Report grouping hazards and configuration problems",
		ArgsUsage: "[expressions...]",
		Flags:     configFlags(),
		Action:    runLint,
	}
}

func runLint(_ context.Context, cmd *cli.Command) error {
	cfg, err := loadConfig(cmd)
	if err != nil {
		return err
	}

	inputs, err := readInputs(cmd)
	if err != nil {
		return err
	}

	analyzer := analysis.NewAnalyzer(cfg)
	out := cmd.Root().Writer
	styles := runner.StylesFor(out)
	hasErrors := false

	for _, in := range inputs {
		result := analyzer.Analyze(in.expr)
		if result.HasErrors() {
			hasErrors = true
		}

		for _, d := range result.Diagnostics {
			printDiagnostic(out, styles, in.label, d)
		}
	}

	if hasErrors {
		return ErrLintErrors
	}

	return nil
}

func printDiagnostic(w io.Writer, styles *runner.Styles, label string, d analysis.Diagnostic) {
	loc := label
	if d.Span.Start.Line > 0 {
		loc = fmt.Sprintf("%s:%d:%d", label, d.Span.Start.Line, d.Span.Start.Column)
	}

	fmt.Fprintf(w, "%s: %s: %s %s\n",
		loc,
		severityStyle(styles, d.Severity).Render(d.Severity.String()),
		d.Message,
		styles.Muted.Render("["+d.Code+"]"))
}

func severityStyle(styles *runner.Styles, sev analysis.DiagnosticSeverity) lipgloss.Style {
	switch sev {
	case analysis.SeverityError:
		return styles.Fail
	case analysis.SeverityWarning:
		return styles.Skip
	default:
		return styles.Muted
	}
}
