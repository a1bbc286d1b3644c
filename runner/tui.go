package runner

import (
	"context"
	"fmt"
	"io"
	"strings"
	"sync"
	"time"

	"github.com/charmbracelet/bubbles/spinner"
	tea "github.com/charmbracelet/bubbletea"
	"github.com/charmbracelet/lipgloss"
)

// TUIFormatter implements Formatter with a live tree of case files and cases.
type TUIFormatter struct {
	w        io.Writer
	program  *tea.Program
	model    *tuiModel
	exited   chan struct{}
	mu       sync.Mutex
	finished bool
}

// NewTUIFormatter creates a TUI formatter drawing to w.
func NewTUIFormatter(w io.Writer, suites []SuiteTree) *TUIFormatter {
	model := newTUIModel(suites, StylesFor(w))

	opts := []tea.ProgramOption{
		tea.WithOutput(w),
		tea.WithoutSignalHandler(),
		tea.WithAltScreen(),
	}

	// Keys are only read from a terminal.
	if !IsTerminal(w) {
		opts = append(opts, tea.WithInput(nil))
	}

	return &TUIFormatter{
		w:       w,
		program: tea.NewProgram(model, opts...),
		model:   model,
		exited:  make(chan struct{}),
	}
}

// Start runs the UI in the background. Call it before the first event.
func (t *TUIFormatter) Start() error {
	go func() {
		defer close(t.exited)

		_, _ = t.program.Run()
	}()

	return nil
}

// Format sends an event to the UI.
func (t *TUIFormatter) Format(event Event, _ *Result) error {
	t.mu.Lock()
	defer t.mu.Unlock()

	if t.finished {
		return nil
	}

	t.program.Send(caseEventMsg(event))

	return nil
}

// Summary stops the UI and prints the final tree to the main screen.
func (t *TUIFormatter) Summary(result *Result) error {
	t.mu.Lock()
	t.finished = true
	t.mu.Unlock()

	t.program.Send(doneMsg{elapsed: result.Elapsed()})
	t.program.Quit()
	<-t.exited

	_, err := fmt.Fprintln(t.w, t.model.FinalView())

	return err
}

// -----------------------------------------------------------------------------
// Case tree
// -----------------------------------------------------------------------------

// caseStatus tracks the execution state of a case.
type caseStatus int

const (
	statusPending caseStatus = iota
	statusRunning
	statusPass
	statusFail
	statusSkip
	statusError
)

// caseNode is one case in the tree.
type caseNode struct {
	name       string
	precedence bool
	status     caseStatus
	elapsed    time.Duration

	field  string
	expect any
	actual any
	err    error
}

// SuiteTree is the display tree of one case file.
type SuiteTree struct {
	path  string
	cases []*caseNode
	idx   map[string]*caseNode // Event.Key() -> node
}

// BuildSuiteTree creates the tree for the given cases of file, normally
// those Runner.Selected returns.
func BuildSuiteTree(file *CaseFile, cases []*Case) SuiteTree {
	st := SuiteTree{
		path: file.Path,
		idx:  make(map[string]*caseNode, len(cases)),
	}

	for _, c := range cases {
		node := &caseNode{name: c.Name(), precedence: c.Precedence}
		st.cases = append(st.cases, node)
		st.idx[file.Path+"::"+c.Name()] = node
	}

	return st
}

// -----------------------------------------------------------------------------
// Bubbletea model
// -----------------------------------------------------------------------------

type tuiModel struct {
	styles  *Styles
	spinner spinner.Model

	suites []SuiteTree
	allIdx map[string]*caseNode

	total  int
	counts Counts

	startTime time.Time
	elapsed   time.Duration // run time once done
	isDone    bool

	// interrupt is called when the user quits before the run ends.
	interrupt func()
}

type (
	caseEventMsg Event
	doneMsg      struct{ elapsed time.Duration }
)

func newTUIModel(suites []SuiteTree, styles *Styles) *tuiModel {
	s := spinner.New()
	s.Spinner = spinner.Spinner{
		Frames: SpinnerFrames(),
		FPS:    time.Second / 10,
	}
	s.Style = styles.Running

	allIdx := make(map[string]*caseNode)

	for i := range suites {
		for key, node := range suites[i].idx {
			allIdx[key] = node
		}
	}

	return &tuiModel{
		styles:    styles,
		spinner:   s,
		suites:    suites,
		allIdx:    allIdx,
		total:     len(allIdx),
		startTime: time.Now(),
	}
}

func (m *tuiModel) Init() tea.Cmd {
	return m.spinner.Tick
}

func (m *tuiModel) Update(msg tea.Msg) (tea.Model, tea.Cmd) {
	switch msg := msg.(type) {
	case tea.KeyMsg:
		if msg.String() == "ctrl+c" && !m.isDone {
			if m.interrupt != nil {
				m.interrupt()
			}

			return m, tea.Quit
		}

	case spinner.TickMsg:
		if !m.isDone {
			var cmd tea.Cmd
			m.spinner, cmd = m.spinner.Update(msg)

			return m, cmd
		}

	case caseEventMsg:
		m.handleEvent(Event(msg))

	case doneMsg:
		m.isDone = true
		m.elapsed = msg.elapsed
	}

	return m, nil
}

var statusOf = map[Action]caseStatus{
	ActionRun:   statusRunning,
	ActionPass:  statusPass,
	ActionFail:  statusFail,
	ActionSkip:  statusSkip,
	ActionError: statusError,
}

func (m *tuiModel) handleEvent(event Event) {
	node, ok := m.allIdx[event.Key()]
	if !ok {
		return
	}

	status, ok := statusOf[event.Action]
	if !ok {
		return
	}

	node.status = status
	node.err = event.Error

	if event.Action.IsTerminal() {
		node.elapsed = event.Elapsed
		m.counts.add(event.Action)
	}

	if event.Action == ActionFail {
		node.field, node.expect, node.actual = event.Field, event.Expected, event.Actual
	}
}

// clearEOL is the ANSI escape sequence to clear from cursor to end of line.
const clearEOL = "\033[K"

// FinalView renders the finished tree for printing after the UI exits.
func (m *tuiModel) FinalView() string {
	return strings.Join(m.lines(true), "\n")
}

func (m *tuiModel) View() string {
	lines := m.lines(m.isDone)

	for i := range lines {
		lines[i] += clearEOL
	}

	return strings.Join(lines, "\n") + "\n"
}

func (m *tuiModel) lines(withSummary bool) []string {
	lines := []string{m.renderHeader(), m.renderProgress(), ""}

	for _, st := range m.suites {
		lines = append(lines, m.renderSuite(st)...)
		lines = append(lines, "")
	}

	if withSummary {
		lines = append(lines, m.renderSummary())
	}

	return lines
}

func (m *tuiModel) renderHeader() string {
	title := m.styles.Bold.Render("jsep") + m.styles.Dim.Render(" test")

	var status string

	switch {
	case m.isDone && m.counts.Ok():
		status = m.styles.Pass.Render("PASS")
	case m.isDone:
		status = m.styles.Fail.Render("FAIL")
	default:
		status = m.styles.Running.Render("running")
	}

	return title + "  " + status
}

func (m *tuiModel) renderProgress() string {
	done := m.counts.Total

	total := m.total
	if total == 0 {
		total = 1
	}

	elapsed := m.elapsed
	if !m.isDone {
		elapsed = time.Since(m.startTime)
	}

	const barWidth = 30

	filled := done * barWidth / total
	filledChar, emptyChar := ProgressChars()

	bar := m.styles.ProgressFilled.Render(strings.Repeat(filledChar, filled)) +
		m.styles.ProgressEmpty.Render(strings.Repeat(emptyChar, barWidth-filled))

	return fmt.Sprintf("%s %s %s",
		m.styles.Dim.Render("["+formatDuration(elapsed)+"]"),
		bar,
		m.styles.Muted.Render(fmt.Sprintf("%d/%d", done, m.total)))
}

func (m *tuiModel) renderSuite(st SuiteTree) []string {
	lines := []string{m.styles.Path.Render(st.path)}

	for i, node := range st.cases {
		isLast := i == len(st.cases)-1

		branch, indent := "├─", "│ "
		if isLast {
			branch, indent = "╰─", "  "
		}

		name := m.styles.Expression.Render(node.name)
		if node.precedence {
			name += m.styles.Dim.Render(" [precedence]")
		}

		if node.status != statusPending && node.status != statusRunning {
			name += m.styles.Dim.Render(fmt.Sprintf("  [%s]", formatDuration(node.elapsed)))
		}

		lines = append(lines, m.styles.Dim.Render(branch+" ")+m.renderSymbol(node.status)+" "+name)

		if detail := m.renderDetail(node); detail != "" {
			lines = append(lines, m.styles.Dim.Render(indent+"   ")+detail)
		}
	}

	return lines
}

func (m *tuiModel) renderDetail(node *caseNode) string {
	switch {
	case node.status == statusFail && node.field != "":
		return m.styles.Fail.Render(fmt.Sprintf("%s: expected %v, got %v", node.field, node.expect, node.actual))
	case node.status == statusError && node.err != nil:
		return m.styles.Error.Render(node.err.Error())
	default:
		return ""
	}
}

func (m *tuiModel) renderSymbol(status caseStatus) string {
	st := m.styles

	switch status {
	case statusRunning:
		return m.spinner.View()
	case statusPass:
		return st.Pass.Render(st.SymbolPass)
	case statusFail, statusError:
		return st.Fail.Render(st.SymbolFail)
	case statusSkip:
		return st.Skip.Render(st.SymbolSkip)
	default:
		return st.Dim.Render("·")
	}
}

func (m *tuiModel) renderSummary() string {
	st := m.styles
	tallies := []struct {
		n     int
		label string
		style lipgloss.Style
	}{
		{m.counts.Passed, "passed", st.Pass},
		{m.counts.Failed, "failed", st.Fail},
		{m.counts.Skipped, "skipped", st.Skip},
		{m.counts.Errors, "errors", st.Error},
	}

	var parts []string

	for _, t := range tallies {
		if t.n > 0 {
			parts = append(parts, t.style.Render(fmt.Sprintf("%d %s", t.n, t.label)))
		}
	}

	if len(parts) == 0 {
		return st.Dim.Render("  No cases run")
	}

	return "  " + strings.Join(parts, st.Dim.Render(" │ ")) + " " + st.Muted.Render(fmt.Sprintf("(%d total)", m.total))
}

func formatDuration(d time.Duration) string {
	switch {
	case d < time.Millisecond:
		return "<1ms"
	case d < time.Second:
		return fmt.Sprintf("%dms", d.Milliseconds())
	case d < time.Minute:
		return fmt.Sprintf("%.1fs", d.Seconds())
	default:
		return fmt.Sprintf("%dm%ds", int(d.Minutes()), int(d.Seconds())%60)
	}
}

// -----------------------------------------------------------------------------
// TUIHandler
// -----------------------------------------------------------------------------

// TUIHandler adapts TUIFormatter to Handler.
type TUIHandler struct {
	w         io.Writer
	stderr    io.Writer
	formatter *TUIFormatter
	cancel    context.CancelFunc
}

// NewTUIHandler creates a handler drawing to w. Call SetSuites, then Start.
func NewTUIHandler(w, stderr io.Writer) *TUIHandler {
	return &TUIHandler{w: w, stderr: stderr}
}

// SetSuites sets the trees to display.
func (h *TUIHandler) SetSuites(suites []SuiteTree) {
	h.formatter = NewTUIFormatter(h.w, suites)
}

// SetCancel registers a function called when the user interrupts the run.
func (h *TUIHandler) SetCancel(cancel context.CancelFunc) {
	h.cancel = cancel
}

// Start starts the UI.
func (h *TUIHandler) Start() error {
	if h.formatter == nil {
		h.formatter = NewTUIFormatter(h.w, nil)
	}

	h.formatter.model.interrupt = h.cancel

	return h.formatter.Start()
}

// Event sends an event to the UI.
func (h *TUIHandler) Event(_ context.Context, event Event, result *Result) error {
	if h.formatter == nil {
		return nil
	}

	return h.formatter.Format(event, result)
}

// Err writes to stderr.
func (h *TUIHandler) Err(text string) error {
	_, err := h.stderr.Write([]byte(text + "\n"))

	return err
}

// Summary stops the UI and prints the final tree.
func (h *TUIHandler) Summary(result *Result) error {
	if h.formatter == nil {
		return nil
	}

	return h.formatter.Summary(result)
}
