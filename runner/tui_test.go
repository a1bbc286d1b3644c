package runner

import (
	"strings"
	"testing"

	tea "github.com/charmbracelet/bubbletea"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func tuiFixture(t *testing.T) (*tuiModel, *CaseFile) {
	t.Helper()

	file, err := ParseCaseFile("testdata/t.jsep", "a => a\n%precedence\nb+c => (+ b c)\nd\n")
	require.NoError(t, err)

	return newTUIModel([]SuiteTree{BuildSuiteTree(file, file.Cases)}, PlainStyles()), file
}

func send(m *tuiModel, action Action, file *CaseFile, c *Case) {
	m.Update(caseEventMsg(Event{Action: action, File: file.Path, Case: c}))
}

func TestBuildSuiteTree(t *testing.T) {
	t.Parallel()

	file, err := ParseCaseFile("x/y.jsep", "a\nb\n")
	require.NoError(t, err)

	st := BuildSuiteTree(file, file.Cases[1:])

	require.Len(t, st.cases, 1)
	assert.Equal(t, "2: b", st.cases[0].name)
	assert.Contains(t, st.idx, Event{File: "x/y.jsep", Case: file.Cases[1]}.Key())
}

func TestTUIModel_Events(t *testing.T) {
	t.Parallel()

	m, file := tuiFixture(t)
	assert.Equal(t, 3, m.total)

	send(m, ActionRun, file, file.Cases[0])
	assert.Equal(t, statusRunning, m.suites[0].cases[0].status)

	send(m, ActionPass, file, file.Cases[0])

	fail := Event{
		Action:   ActionFail,
		File:     file.Path,
		Case:     file.Cases[1],
		Field:    "sexpr",
		Expected: "(+ b c)",
		Actual:   "(- b c)",
	}
	m.Update(caseEventMsg(fail))

	// Unknown cases are ignored.
	send(m, ActionPass, &CaseFile{Path: "other.jsep"}, file.Cases[2])

	assert.Equal(t, Counts{Total: 2, Passed: 1, Failed: 1}, m.counts)
	assert.Equal(t, statusPass, m.suites[0].cases[0].status)
	assert.Equal(t, statusFail, m.suites[0].cases[1].status)
	assert.Equal(t, statusPending, m.suites[0].cases[2].status)

	view := m.View()
	assert.Contains(t, view, "running")
	assert.Contains(t, view, "2/3")
	assert.NotContains(t, view, "(3 total)")
}

func TestTUIModel_FinalView(t *testing.T) {
	t.Parallel()

	m, file := tuiFixture(t)

	send(m, ActionPass, file, file.Cases[0])
	m.Update(caseEventMsg(Event{
		Action:   ActionFail,
		File:     file.Path,
		Case:     file.Cases[1],
		Field:    "sexpr",
		Expected: "(+ b c)",
		Actual:   "(- b c)",
	}))
	send(m, ActionSkip, file, file.Cases[2])

	_, cmd := m.Update(doneMsg{elapsed: 1_500_000_000})
	assert.Nil(t, cmd)
	assert.True(t, m.isDone)

	view := m.FinalView()
	lines := strings.Split(view, "\n")

	assert.Equal(t, "jsep test  FAIL", lines[0])
	assert.Contains(t, lines[1], "[1.5s]")
	assert.Contains(t, lines[1], "3/3")
	assert.Equal(t, "testdata/t.jsep", lines[3])
	assert.True(t, strings.HasPrefix(lines[4], "├─ ok 1: a"), lines[4])
	assert.True(t, strings.HasPrefix(lines[5], "├─ FAIL 3: b+c [precedence]"), lines[5])
	assert.Equal(t, "│    sexpr: expected (+ b c), got (- b c)", lines[6])
	assert.True(t, strings.HasPrefix(lines[7], "╰─ skip 4: d"), lines[7])
	assert.Contains(t, view, "1 passed │ 1 failed │ 1 skipped (3 total)")
	assert.NotContains(t, view, clearEOL)
}

func TestTUIModel_Interrupt(t *testing.T) {
	t.Parallel()

	m, _ := tuiFixture(t)

	interrupted := false
	m.interrupt = func() { interrupted = true }

	_, cmd := m.Update(tea.KeyMsg{Type: tea.KeyCtrlC})

	assert.True(t, interrupted)
	require.NotNil(t, cmd)
	assert.IsType(t, tea.QuitMsg{}, cmd())
}

func TestFormatDuration(t *testing.T) {
	t.Parallel()

	assert.Equal(t, "<1ms", formatDuration(0))
	assert.Equal(t, "12ms", formatDuration(12_000_000))
	assert.Equal(t, "1.5s", formatDuration(1_500_000_000))
	assert.Equal(t, "2m5s", formatDuration(125_000_000_000))
}
