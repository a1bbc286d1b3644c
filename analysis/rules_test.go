package analysis_test

import (
	"testing"

	"github.com/Aintaer/jsep"
	"github.com/Aintaer/jsep/analysis"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestAnalyze_ParseError(t *testing.T) {
	t.Parallel()

	result := analyze(t, nil, "(1+2")

	require.Error(t, result.ParseError)
	assert.Nil(t, result.Root)
	assert.True(t, result.HasErrors())
	assertHasDiagnostic(t, result, "parse-error")

	d := result.Diagnostics[0]
	assert.Equal(t, "unclosed (", d.Message)
	assert.Equal(t, 4, d.Span.Start.Offset)
	assert.Equal(t, "jsep", d.Source)
}

func TestAnalyze_Clean(t *testing.T) {
	t.Parallel()

	result := analyze(t, nil, "a.b(c) && d[0]")

	require.NoError(t, result.ParseError)
	assert.False(t, result.HasErrors())
	assert.Empty(t, result.Diagnostics)
	assert.Len(t, result.Statements, 1)
}

func TestRule_PrecedenceHazard(t *testing.T) {
	t.Parallel()

	result := analyze(t, nil, "a + b; 2*3+4")

	assertHasDiagnostic(t, result, "precedence-hazard")

	var found []analysis.Diagnostic

	for _, d := range result.Diagnostics {
		if d.Code == "precedence-hazard" {
			found = append(found, d)
		}
	}

	require.Len(t, found, 1)
	assert.Equal(t, 7, found[0].Span.Start.Offset)
	assert.Contains(t, found[0].Message, "(* 2 (+ 3 4))")
	assert.Contains(t, found[0].Message, "(+ (* 2 3) 4)")
}

func TestRule_PrecedenceHazard_Agreeing(t *testing.T) {
	t.Parallel()

	// Right-grouped by both readings.
	result := analyze(t, nil, "2+3*4")
	assertNoDiagnostic(t, result, "precedence-hazard")

	result = analyze(t, nil, "(2*3)+4")
	assertNoDiagnostic(t, result, "precedence-hazard")
}

func TestRule_PrecedenceHazard_PrecedenceMode(t *testing.T) {
	t.Parallel()

	result := analyze(t, &jsep.Config{Precedence: true}, "2*3+4")

	assertNoDiagnostic(t, result, "precedence-hazard")
	assert.Nil(t, result.Reference)
}

func TestRule_UnaryScope(t *testing.T) {
	t.Parallel()

	tests := []struct {
		input string
		want  bool
	}{
		{"-a+b", true},
		{"!a == b", true},
		{"-(a)+b", true},
		{"-(a+b)", false},
		{"- ( a + b )", false},
		{"-a", false},
		{"-a.b", false},
		{"-f('(', b)", false},
	}

	for _, tt := range tests {
		t.Run(tt.input, func(t *testing.T) {
			t.Parallel()

			result := analyze(t, nil, tt.input)
			require.NoError(t, result.ParseError)

			if tt.want {
				assertHasDiagnostic(t, result, "unary-scope")
			} else {
				assertNoDiagnostic(t, result, "unary-scope")
			}
		})
	}
}

func TestRule_ShadowedOperator(t *testing.T) {
	t.Parallel()

	cfg := &jsep.Config{
		BinaryOps: []string{"<", "<=", "+", "+"},
	}

	result := analyze(t, cfg, "a < b")

	var messages []string

	for _, d := range result.Diagnostics {
		if d.Code == "shadowed-operator" {
			messages = append(messages, d.Message)
		}
	}

	assert.Equal(t, []string{
		`binary operator "<=" is shadowed by "<" listed before it`,
		`binary operator "+" is listed twice`,
	}, messages)
}

func TestRule_ShadowedOperator_Defaults(t *testing.T) {
	t.Parallel()

	result := analyze(t, nil, "a")
	assertNoDiagnostic(t, result, "shadowed-operator")
}

func TestRule_ShadowedOperator_EvenOnParseError(t *testing.T) {
	t.Parallel()

	result := analyze(t, &jsep.Config{UnaryOps: []string{"-", "--"}}, "(")

	assertHasDiagnostic(t, result, "parse-error")
	assertHasDiagnostic(t, result, "shadowed-operator")
}

func TestNewAnalyzerWithRules(t *testing.T) {
	t.Parallel()

	ran := 0
	rule := &analysis.Rule{
		Name:     "count",
		Severity: analysis.SeverityHint,
		Run: func(f *analysis.AnalyzedExpr) {
			ran++
			f.Diagnostics = append(f.Diagnostics, analysis.Diagnostic{Code: "count", Severity: analysis.SeverityHint})
		},
	}

	a := analysis.NewAnalyzerWithRules(nil, []*analysis.Rule{rule})
	result := a.Analyze("2*3+4")

	assert.Equal(t, 1, ran)
	assertHasDiagnostic(t, result, "count")
	assertNoDiagnostic(t, result, "precedence-hazard")
	assert.False(t, result.HasErrors())
}

func TestSeverityString(t *testing.T) {
	t.Parallel()

	assert.Equal(t, "error", analysis.SeverityError.String())
	assert.Equal(t, "warning", analysis.SeverityWarning.String())
	assert.Equal(t, "info", analysis.SeverityInformation.String())
	assert.Equal(t, "hint", analysis.SeverityHint.String())
}

func analyze(t *testing.T, cfg *jsep.Config, input string) *analysis.AnalyzedExpr {
	t.Helper()

	analyzer := analysis.NewAnalyzer(cfg)

	return analyzer.Analyze(input)
}

func assertHasDiagnostic(t *testing.T, result *analysis.AnalyzedExpr, code string) {
	t.Helper()

	for _, d := range result.Diagnostics {
		if d.Code == code {
			return
		}
	}

	t.Errorf("expected diagnostic %q, got:", code)

	for _, d := range result.Diagnostics {
		t.Logf("  %s: %s", d.Code, d.Message)
	}
}

func assertNoDiagnostic(t *testing.T, result *analysis.AnalyzedExpr, code string) {
	t.Helper()

	for _, d := range result.Diagnostics {
		if d.Code == code {
			t.Errorf("unexpected diagnostic %q: %s", code, d.Message)
		}
	}
}
