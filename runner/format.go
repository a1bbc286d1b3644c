package runner

import (
	"context"
	"fmt"
	"io"
	"time"

	"github.com/segmentio/encoding/json"
)

// Formatter renders case events and results.
type Formatter interface {
	Format(event Event, result *Result) error
	Summary(result *Result) error
}

// FormatHandler is a Handler that delegates to a Formatter.
type FormatHandler struct {
	formatter Formatter
	stderr    io.Writer
}

// NewFormatHandler creates a handler that formats events.
func NewFormatHandler(f Formatter, stderr io.Writer) *FormatHandler {
	return &FormatHandler{formatter: f, stderr: stderr}
}

// Event formats the event.
func (h *FormatHandler) Event(_ context.Context, event Event, result *Result) error {
	return h.formatter.Format(event, result)
}

// Err writes to stderr.
func (h *FormatHandler) Err(text string) error {
	_, err := h.stderr.Write([]byte(text + "\n"))

	return err
}

// Summary renders the final summary.
func (h *FormatHandler) Summary(result *Result) error {
	return h.formatter.Summary(result)
}

// FormatterNames lists the names NewFormatter accepts.
var FormatterNames = []string{"dots", "verbose", "json"}

// NewFormatter creates a formatter by name. Unknown names select dots.
func NewFormatter(name string, w io.Writer) Formatter {
	switch name {
	case "verbose":
		return NewVerboseFormatter(w)
	case "json":
		return NewJSONFormatter(w)
	default:
		return NewDotsFormatter(w)
	}
}

// -----------------------------------------------------------------------------
// Dots Formatter
// -----------------------------------------------------------------------------

// DotsFormatter prints one character per finished case.
type DotsFormatter struct {
	w     io.Writer
	count int
}

// NewDotsFormatter creates a dots formatter.
func NewDotsFormatter(w io.Writer) *DotsFormatter {
	return &DotsFormatter{w: w}
}

const lineWidth = 80

var dots = map[Action]string{
	ActionPass:  ".",
	ActionFail:  "F",
	ActionSkip:  "S",
	ActionError: "E",
}

// Format prints the character for a terminal event.
func (d *DotsFormatter) Format(event Event, _ *Result) error {
	char, ok := dots[event.Action]
	if !ok {
		return nil
	}

	_, err := fmt.Fprint(d.w, char)
	d.count++

	if d.count%lineWidth == 0 {
		_, _ = fmt.Fprintln(d.w)
	}

	return err
}

// Summary lists failures, then one status line.
func (d *DotsFormatter) Summary(result *Result) error {
	if d.count > 0 && d.count%lineWidth != 0 {
		_, _ = fmt.Fprintln(d.w)
	}

	_, _ = fmt.Fprintln(d.w)

	for _, cr := range result.Failures() {
		writeFailure(d.w, cr)
		_, _ = fmt.Fprintln(d.w)
	}

	status := "PASS"
	if !result.Ok() {
		status = "FAIL"
	}

	_, err := fmt.Fprintf(d.w, "%s %d cases, %d passed, %d failed, %d skipped in %s\n",
		status,
		result.Total,
		result.Passed,
		result.Failed,
		result.Skipped,
		result.Elapsed().Round(time.Millisecond),
	)

	return err
}

func writeFailure(w io.Writer, cr *CaseResult) {
	if cr.Status == ActionError {
		_, _ = fmt.Fprintf(w, "ERROR %s: %v\n", cr.PathString(), cr.Error)
		return
	}

	_, _ = fmt.Fprintf(w, "FAIL %s\n", cr.PathString())

	if cr.Precedence {
		_, _ = fmt.Fprintln(w, "  (precedence grouping)")
	}

	if cr.Error != nil {
		_, _ = fmt.Fprintf(w, "  %v\n", cr.Error)
	}

	if cr.Field != "" {
		_, _ = fmt.Fprintf(w, "  %s:\n", cr.Field)
		_, _ = fmt.Fprintf(w, "    expected: %v\n", cr.Expected)
		_, _ = fmt.Fprintf(w, "    actual:   %v\n", cr.Actual)
	}
}

// -----------------------------------------------------------------------------
// Verbose Formatter
// -----------------------------------------------------------------------------

// VerboseFormatter prints every case, its outcome and any rendered tree.
type VerboseFormatter struct {
	w      io.Writer
	styles *Styles
}

// NewVerboseFormatter creates a verbose formatter, colored when w is a terminal.
func NewVerboseFormatter(w io.Writer) *VerboseFormatter {
	return &VerboseFormatter{w: w, styles: StylesFor(w)}
}

// Format prints each event as it occurs.
func (v *VerboseFormatter) Format(event Event, _ *Result) error {
	st := v.styles
	name := event.PathString()

	if event.Case != nil && event.Case.Precedence {
		name += " " + st.Muted.Render("[precedence]")
	}

	switch event.Action {
	case ActionRun:
		_, _ = fmt.Fprintf(v.w, "%s   %s\n", st.Running.Render("=== RUN"), name)
	case ActionPass:
		_, _ = fmt.Fprintf(v.w, "%s %s (%s)\n", st.Pass.Render("--- PASS:"), name, event.Elapsed)
	case ActionFail:
		_, _ = fmt.Fprintf(v.w, "%s %s (%s)\n", st.Fail.Render("--- FAIL:"), name, event.Elapsed)

		if event.Field != "" {
			_, _ = fmt.Fprintf(v.w, "    %s:\n", event.Field)
			_, _ = fmt.Fprintf(v.w, "        expected: %v\n", event.Expected)
			_, _ = fmt.Fprintf(v.w, "        actual:   %v\n", event.Actual)
		}
	case ActionSkip:
		_, _ = fmt.Fprintf(v.w, "%s %s (%s)\n", st.Skip.Render("--- SKIP:"), name, event.Elapsed)
	case ActionError:
		_, _ = fmt.Fprintf(v.w, "%s %s (%s)\n", st.Error.Render("--- ERROR:"), name, event.Elapsed)
		_, _ = fmt.Fprintf(v.w, "    %v\n", event.Error)
	case ActionOutput:
		_, _ = fmt.Fprintf(v.w, "    %s\n", st.Muted.Render(event.Output))
	}

	return nil
}

// Summary prints per-file tallies and the totals.
func (v *VerboseFormatter) Summary(result *Result) error {
	_, _ = fmt.Fprintln(v.w)

	for _, file := range result.Files {
		c := result.FileCounts(file)

		status := v.styles.Pass.Render("ok  ")
		if !c.Ok() {
			status = v.styles.Fail.Render("FAIL")
		}

		_, _ = fmt.Fprintf(v.w, "%s %s  %d/%d\n", status, file, c.Passed, c.Total-c.Skipped)
	}

	status := v.styles.Pass.Render("PASS")
	if !result.Ok() {
		status = v.styles.Fail.Render("FAIL")
	}

	_, _ = fmt.Fprintf(v.w, "%s\n", status)
	_, _ = fmt.Fprintf(v.w, "  %d total, %d passed, %d failed, %d skipped, %d errors\n",
		result.Total,
		result.Passed,
		result.Failed,
		result.Skipped,
		result.Errors,
	)
	_, err := fmt.Fprintf(v.w, "  elapsed: %s\n", result.Elapsed().Round(time.Millisecond))

	return err
}

// -----------------------------------------------------------------------------
// JSON Formatter
// -----------------------------------------------------------------------------

// JSONFormatter outputs newline-delimited JSON events.
type JSONFormatter struct {
	enc *json.Encoder
}

// NewJSONFormatter creates a JSON formatter.
func NewJSONFormatter(w io.Writer) *JSONFormatter {
	return &JSONFormatter{enc: json.NewEncoder(w)}
}

type jsonEvent struct {
	Time       string  `json:"time"`
	Action     string  `json:"action"`
	File       string  `json:"file,omitempty"`
	Case       string  `json:"case,omitempty"`
	Line       int     `json:"line,omitempty"`
	Expression string  `json:"expression"`
	Mode       string  `json:"mode,omitempty"`
	Elapsed    float64 `json:"elapsed,omitempty"`
	Output     string  `json:"output,omitempty"`
	Error      string  `json:"error,omitempty"`
	Field      string  `json:"field,omitempty"`
	Expected   any     `json:"expected,omitempty"`
	Actual     any     `json:"actual,omitempty"`
}

// Format outputs a JSON event.
func (j *JSONFormatter) Format(event Event, _ *Result) error {
	je := jsonEvent{
		Time:   event.Time.Format(time.RFC3339Nano),
		Action: string(event.Action),
		File:   event.File,
		Case:   event.Name(),
		Line:   event.Line(),
		Output: event.Output,
	}

	if event.Case != nil {
		je.Expression = event.Case.Expression
		je.Mode = event.Case.Mode()
	}

	if event.Action.IsTerminal() {
		je.Elapsed = event.Elapsed.Seconds()
	}

	if event.Error != nil {
		je.Error = event.Error.Error()
	}

	if event.Action == ActionFail {
		je.Field = event.Field
		je.Expected = event.Expected
		je.Actual = event.Actual
	}

	return j.enc.Encode(je)
}

type jsonSummary struct {
	Counts

	Action  string             `json:"action"`
	Files   map[string]*Counts `json:"files"`
	Elapsed float64            `json:"elapsed"`
	Ok      bool               `json:"ok"`
}

// Summary outputs the totals and per-file tallies as a final JSON line.
func (j *JSONFormatter) Summary(result *Result) error {
	files := make(map[string]*Counts, len(result.Files))
	for _, file := range result.Files {
		c := result.FileCounts(file)
		files[file] = &c
	}

	return j.enc.Encode(jsonSummary{
		Action:  "summary",
		Counts:  result.Counts,
		Files:   files,
		Elapsed: result.Elapsed().Seconds(),
		Ok:      result.Ok(),
	})
}
