package runner

import (
	"fmt"
	"os"
	"path/filepath"
	"strings"

	"github.com/alecthomas/participle/v2"
	"github.com/alecthomas/participle/v2/lexer"
)

// CaseFileExt is the extension of conformance case files.
const CaseFileExt = ".jsep"

// quoted is a string literal closed on the same line. Inside it "#" and
// "=>" are plain text.
const quoted = `'[^'\n]*'|"[^"\n]*"`

// caseLexer tokenizes case files line by line. An expression runs up to
// "=>", a comment, or the end of the line.
var caseLexer = lexer.MustSimple([]lexer.SimpleRule{
	{Name: "Comment", Pattern: `#[^\n]*`},
	{Name: "Newline", Pattern: `\n`},
	{Name: "Whitespace", Pattern: `[ \t\r]+`},
	{Name: "Directive", Pattern: `%[a-zA-Z]+`},
	{Name: "Expect", Pattern: `=>(?:` + quoted + `|[^\n#])*`},
	{Name: "Text", Pattern: `(?:` + quoted + `|[^\n=#]|=[^>\n#])+`},
})

var caseParser = participle.MustBuild[caseFileAST](
	participle.Lexer(caseLexer),
	participle.Elide("Whitespace", "Comment"),
)

type caseFileAST struct {
	Lines []*caseLineAST `( @@ | Newline )*`
}

type caseLineAST struct {
	Pos lexer.Position

	Directive *string  `  @Directive`
	Case      *caseAST `| @@`
}

type caseAST struct {
	Text   string  `@Text`
	Expect *string `@Expect?`
}

// CaseFile is a parsed conformance case file.
type CaseFile struct {
	Path  string
	Cases []*Case
}

// Name returns the file's base name, used as the first path element of its cases.
func (f *CaseFile) Name() string {
	return baseName(f.Path)
}

func baseName(path string) string {
	if path == "" {
		return "cases"
	}

	return filepath.Base(path)
}

// Case is a single expression and what parsing it must produce.
type Case struct {
	Line       int
	Expression string

	// Precedence selects precedence grouping for this case.
	Precedence bool

	// Skip marks the case as not to be run.
	Skip bool

	Expect Expectation
}

// Name identifies the case within its file, e.g. "3: 2*3+4".
func (c *Case) Name() string {
	return fmt.Sprintf("%d: %s", c.Line, c.Expression)
}

// Mode names the grouping the case is parsed with.
func (c *Case) Mode() string {
	if c.Precedence {
		return "precedence"
	}

	return "faithful"
}

// Expectation is the outcome a case asserts. When both fields are empty the
// expression only has to parse.
type Expectation struct {
	// Sexpr is the expected s-expression rendering.
	Sexpr string

	// ErrorKind is the expected parse error kind, e.g. "UnclosedParen".
	ErrorKind string
}

// Empty reports whether nothing beyond a successful parse is expected.
func (e Expectation) Empty() bool {
	return e.Sexpr == "" && e.ErrorKind == ""
}

func (e Expectation) String() string {
	switch {
	case e.ErrorKind != "":
		return "error: " + e.ErrorKind
	case e.Sexpr != "":
		return e.Sexpr
	default:
		return "<any tree>"
	}
}

// LoadCaseFile reads and parses a case file.
func LoadCaseFile(path string) (*CaseFile, error) {
	data, err := os.ReadFile(filepath.Clean(path))
	if err != nil {
		return nil, err
	}

	return ParseCaseFile(path, string(data))
}

// ParseCaseFile parses case file content. path is used in positions only.
//
// A "#" starts a comment unless it is inside a quoted string that closes on
// the same line. An unclosed quote is plain text up to "=>" or "#".
//
// Directives apply to the cases that follow them:
//
//	%precedence  precedence grouping
//	%faithful    leftmost-operator-is-root grouping (the default)
//	%skip        skip the next case only
func ParseCaseFile(path, content string) (*CaseFile, error) {
	ast, err := caseParser.ParseString(path, content)
	if err != nil {
		return nil, err
	}

	file := &CaseFile{Path: path}
	precedence := false
	skipNext := false

	for _, line := range ast.Lines {
		if line.Directive != nil {
			switch *line.Directive {
			case "%precedence":
				precedence = true
			case "%faithful":
				precedence = false
			case "%skip":
				skipNext = true
			default:
				return nil, fmt.Errorf("%s: %w: %s", line.Pos, ErrUnknownDirective, *line.Directive)
			}

			continue
		}

		c := &Case{
			Line:       line.Pos.Line,
			Expression: strings.TrimSpace(line.Case.Text),
			Precedence: precedence,
			Skip:       skipNext,
		}
		skipNext = false

		if line.Case.Expect != nil {
			c.Expect = parseExpectation(*line.Case.Expect)
		}

		file.Cases = append(file.Cases, c)
	}

	return file, nil
}

func parseExpectation(raw string) Expectation {
	want := strings.TrimSpace(strings.TrimPrefix(raw, "=>"))

	if kind, ok := strings.CutPrefix(want, "error:"); ok {
		return Expectation{ErrorKind: strings.TrimSpace(kind)}
	}

	return Expectation{Sexpr: want}
}
