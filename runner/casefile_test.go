package runner_test

import (
	"testing"

	"github.com/Aintaer/jsep/runner"
	"github.com/google/go-cmp/cmp"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestParseCaseFile(t *testing.T) {
	t.Parallel()

	content := `# header comment
2*3+4 => (* 2 (+ 3 4))   # trailing comment
a == b

%precedence
-a+b => (+ (- a) b)
%skip
x => y
(1 => error: UnclosedParen
%faithful
c >= d`

	file, err := runner.ParseCaseFile("cases.jsep", content)
	require.NoError(t, err)

	expected := []*runner.Case{
		{Line: 2, Expression: "2*3+4", Expect: runner.Expectation{Sexpr: "(* 2 (+ 3 4))"}},
		{Line: 3, Expression: "a == b"},
		{Line: 6, Expression: "-a+b", Precedence: true, Expect: runner.Expectation{Sexpr: "(+ (- a) b)"}},
		{Line: 8, Expression: "x", Precedence: true, Skip: true, Expect: runner.Expectation{Sexpr: "y"}},
		{Line: 9, Expression: "(1", Precedence: true, Expect: runner.Expectation{ErrorKind: "UnclosedParen"}},
		{Line: 11, Expression: "c >= d"},
	}

	if diff := cmp.Diff(expected, file.Cases); diff != "" {
		t.Errorf("ParseCaseFile() mismatch (-want +got):\n%s", diff)
	}

	assert.Equal(t, "cases.jsep", file.Name())
}

func TestParseCaseFile_QuotedHash(t *testing.T) {
	t.Parallel()

	content := `'a#b' => 'a#b'  # comment
f("x#y", 'a=>b') => (call f "x#y" 'a=>b')
'abc => error: UnclosedQuote # unclosed
`

	file, err := runner.ParseCaseFile("quotes.jsep", content)
	require.NoError(t, err)

	expected := []*runner.Case{
		{Line: 1, Expression: "'a#b'", Expect: runner.Expectation{Sexpr: "'a#b'"}},
		{Line: 2, Expression: `f("x#y", 'a=>b')`, Expect: runner.Expectation{Sexpr: `(call f "x#y" 'a=>b')`}},
		{Line: 3, Expression: "'abc", Expect: runner.Expectation{ErrorKind: "UnclosedQuote"}},
	}

	if diff := cmp.Diff(expected, file.Cases); diff != "" {
		t.Errorf("ParseCaseFile() mismatch (-want +got):\n%s", diff)
	}
}

func TestParseCaseFile_Empty(t *testing.T) {
	t.Parallel()

	file, err := runner.ParseCaseFile("empty.jsep", "\n# nothing\n\n")
	require.NoError(t, err)
	assert.Empty(t, file.Cases)
}

func TestParseCaseFile_UnknownDirective(t *testing.T) {
	t.Parallel()

	_, err := runner.ParseCaseFile("bad.jsep", "%bogus\na\n")
	require.ErrorIs(t, err, runner.ErrUnknownDirective)
	assert.Contains(t, err.Error(), "bad.jsep:1:1")
}

func TestLoadCaseFile(t *testing.T) {
	t.Parallel()

	file, err := runner.LoadCaseFile("testdata/errors.jsep")
	require.NoError(t, err)
	require.Len(t, file.Cases, 6)

	for _, c := range file.Cases {
		assert.NotEmpty(t, c.Expect.ErrorKind, c.Expression)
	}

	_, err = runner.LoadCaseFile("testdata/missing.jsep")
	require.Error(t, err)
}

func TestExpectationString(t *testing.T) {
	t.Parallel()

	assert.Equal(t, "error: TooDeep", runner.Expectation{ErrorKind: "TooDeep"}.String())
	assert.Equal(t, "(+ a b)", runner.Expectation{Sexpr: "(+ a b)"}.String())
	assert.Equal(t, "<any tree>", runner.Expectation{}.String())
	assert.True(t, runner.Expectation{}.Empty())
}
