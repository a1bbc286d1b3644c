package runner

import (
	"bytes"
	"context"
	"strings"
	"testing"
	"time"

	"github.com/segmentio/encoding/json"
	"go.uber.org/zap"
	"go.uber.org/zap/zapcore"
	"go.uber.org/zap/zaptest/observer"
)

func event(action Action, line int, expr string) Event {
	return Event{
		Action: action,
		File:   "testdata/t.jsep",
		Case:   &Case{Line: line, Expression: expr},
	}
}

func TestDotsFormatter_Format(t *testing.T) {
	var buf bytes.Buffer

	f := NewDotsFormatter(&buf)

	_ = f.Format(Event{Action: ActionRun}, nil)

	if buf.Len() != 0 {
		t.Error("Non-terminal should produce no output")
	}

	_ = f.Format(Event{Action: ActionPass}, nil)
	_ = f.Format(Event{Action: ActionFail}, nil)
	_ = f.Format(Event{Action: ActionSkip}, nil)
	_ = f.Format(Event{Action: ActionError}, nil)

	if got := buf.String(); got != ".FSE" {
		t.Errorf("got %q, want %q", got, ".FSE")
	}
}

func TestDotsFormatter_Summary(t *testing.T) {
	var buf bytes.Buffer

	f := NewDotsFormatter(&buf)

	fail := event(ActionFail, 2, "b")
	fail.Case.Precedence = true
	fail.Field, fail.Expected, fail.Actual, fail.Error = "sexpr", "a", "b", ErrUnexpectedSuccess

	result := NewResult()
	result.Add(event(ActionPass, 1, "a"))
	result.Add(fail)
	result.Finish()

	_ = f.Summary(result)

	got := buf.String()

	for _, want := range []string{
		"FAIL t.jsep/2: b",
		"(precedence grouping)",
		"expected a parse error",
		"expected: a",
		"FAIL 2 cases, 1 passed, 1 failed",
	} {
		if !strings.Contains(got, want) {
			t.Errorf("missing %q in:\n%s", want, got)
		}
	}
}

func TestDotsFormatter_SummaryError(t *testing.T) {
	var buf bytes.Buffer

	f := NewDotsFormatter(&buf)

	ev := event(ActionError, 4, "a")
	ev.Error = ErrUnknownKind

	result := NewResult()
	result.Add(ev)
	result.Finish()

	_ = f.Summary(result)

	if got := buf.String(); !strings.Contains(got, "ERROR t.jsep/4: a: runner: unknown error kind") {
		t.Errorf("missing error line in:\n%s", got)
	}
}

func TestVerboseFormatter_Format(t *testing.T) {
	var buf bytes.Buffer

	f := NewVerboseFormatter(&buf)

	_ = f.Format(event(ActionRun, 1, "a"), nil)

	if got, want := buf.String(), "=== RUN   t.jsep/1: a\n"; got != want {
		t.Errorf("got %q, want %q", got, want)
	}

	buf.Reset()

	pass := event(ActionPass, 1, "a")
	pass.Elapsed = 10 * time.Millisecond
	_ = f.Format(pass, nil)

	if got, want := buf.String(), "--- PASS: t.jsep/1: a (10ms)\n"; got != want {
		t.Errorf("got %q, want %q", got, want)
	}

	buf.Reset()

	fail := event(ActionFail, 1, "a")
	fail.Field, fail.Expected, fail.Actual = "sexpr", 1, 2
	_ = f.Format(fail, nil)

	want := `--- FAIL: t.jsep/1: a (0s)
    sexpr:
        expected: 1
        actual:   2
`
	if got := buf.String(); got != want {
		t.Errorf("got:\n%s\nwant:\n%s", got, want)
	}
}

func TestVerboseFormatter_PrecedenceTag(t *testing.T) {
	var buf bytes.Buffer

	f := NewVerboseFormatter(&buf)

	ev := event(ActionRun, 3, "a+b")
	ev.Case.Precedence = true
	_ = f.Format(ev, nil)

	if got, want := buf.String(), "=== RUN   t.jsep/3: a+b [precedence]\n"; got != want {
		t.Errorf("got %q, want %q", got, want)
	}
}

func TestVerboseFormatter_Output(t *testing.T) {
	var buf bytes.Buffer

	f := NewVerboseFormatter(&buf)

	ev := event(ActionOutput, 1, "a.b")
	ev.Output = "(. a b)"
	_ = f.Format(ev, nil)

	if got, want := buf.String(), "    (. a b)\n"; got != want {
		t.Errorf("got %q, want %q", got, want)
	}
}

func TestVerboseFormatter_Summary(t *testing.T) {
	var buf bytes.Buffer

	f := NewVerboseFormatter(&buf)

	result := NewResult()
	result.Add(event(ActionPass, 1, "a"))
	result.Add(event(ActionSkip, 2, "b"))
	result.Finish()

	_ = f.Summary(result)

	got := buf.String()

	for _, want := range []string{
		"ok   testdata/t.jsep  1/1",
		"PASS\n",
		"2 total, 1 passed, 0 failed, 1 skipped, 0 errors",
	} {
		if !strings.Contains(got, want) {
			t.Errorf("missing %q in:\n%s", want, got)
		}
	}
}

func TestJSONFormatter_Format(t *testing.T) {
	var buf bytes.Buffer

	f := NewJSONFormatter(&buf)

	ev := event(ActionPass, 2, "2*3+4")
	ev.Time = time.Date(2024, 1, 15, 10, 30, 0, 0, time.UTC)
	ev.Elapsed = 50 * time.Millisecond
	ev.Case.Precedence = true
	_ = f.Format(ev, nil)

	var got map[string]any
	if err := json.Unmarshal(buf.Bytes(), &got); err != nil {
		t.Fatalf("invalid JSON: %v", err)
	}

	want := map[string]any{
		"time":       "2024-01-15T10:30:00Z",
		"action":     "passed",
		"file":       "testdata/t.jsep",
		"case":       "2: 2*3+4",
		"line":       float64(2),
		"expression": "2*3+4",
		"mode":       "precedence",
		"elapsed":    0.05,
	}

	for key, value := range want {
		if got[key] != value {
			t.Errorf("%s = %v, want %v", key, got[key], value)
		}
	}

	if _, ok := got["field"]; ok {
		t.Error("field should be omitted on pass")
	}
}

func TestJSONFormatter_Summary(t *testing.T) {
	var buf bytes.Buffer

	f := NewJSONFormatter(&buf)

	result := NewResult()
	result.Add(event(ActionPass, 1, "a"))
	result.Add(event(ActionFail, 2, "b"))
	result.Finish()

	_ = f.Summary(result)

	var got struct {
		Action string `json:"action"`
		Total  int    `json:"total"`
		Failed int    `json:"failed"`
		Ok     bool   `json:"ok"`
		Files  map[string]Counts
	}

	if err := json.Unmarshal(buf.Bytes(), &got); err != nil {
		t.Fatalf("invalid JSON: %v", err)
	}

	if got.Action != "summary" {
		t.Errorf("action = %v, want summary", got.Action)
	}

	if got.Total != 2 || got.Failed != 1 || got.Ok {
		t.Errorf("got total=%d failed=%d ok=%v", got.Total, got.Failed, got.Ok)
	}

	if c := got.Files["testdata/t.jsep"]; c.Passed != 1 || c.Failed != 1 {
		t.Errorf("file counts = %+v", c)
	}
}

func TestNewFormatter(t *testing.T) {
	var buf bytes.Buffer

	if _, ok := NewFormatter("json", &buf).(*JSONFormatter); !ok {
		t.Error("json should select JSONFormatter")
	}

	if _, ok := NewFormatter("verbose", &buf).(*VerboseFormatter); !ok {
		t.Error("verbose should select VerboseFormatter")
	}

	if _, ok := NewFormatter("bogus", &buf).(*DotsFormatter); !ok {
		t.Error("unknown names should select DotsFormatter")
	}
}

// -----------------------------------------------------------------------------
// Handlers
// -----------------------------------------------------------------------------

type countingHandler struct {
	events int
	errs   []string
	err    error
}

func (h *countingHandler) Event(context.Context, Event, *Result) error {
	h.events++
	return h.err
}

func (h *countingHandler) Err(text string) error {
	h.errs = append(h.errs, text)
	return h.err
}

func TestMultiHandler(t *testing.T) {
	a := &countingHandler{err: ErrMaxFailures}
	b := &countingHandler{}

	m := NewMultiHandler(a, b)

	if err := m.Event(context.Background(), Event{}, NewResult()); err != ErrMaxFailures {
		t.Errorf("err = %v, want ErrMaxFailures", err)
	}

	if b.events != 1 {
		t.Error("later handlers should still see the event")
	}

	if err := m.Err("boom"); err == nil {
		t.Error("Err should join handler errors")
	}

	if len(b.errs) != 1 || b.errs[0] != "boom" {
		t.Errorf("errs = %v", b.errs)
	}
}

func TestStopOnFailHandler(t *testing.T) {
	ctx := context.Background()
	h := NewStopOnFailHandler(2)

	for _, action := range []Action{ActionRun, ActionPass, ActionFail, ActionSkip} {
		if err := h.Event(ctx, Event{Action: action}, nil); err != nil {
			t.Fatalf("%s: unexpected %v", action, err)
		}
	}

	if err := h.Event(ctx, Event{Action: ActionError}, nil); err != ErrMaxFailures {
		t.Errorf("err = %v, want ErrMaxFailures", err)
	}

	if err := NewStopOnFailHandler(0).Event(ctx, Event{Action: ActionFail}, nil); err != nil {
		t.Errorf("zero limit should never stop, got %v", err)
	}
}

func TestLogHandler(t *testing.T) {
	core, logs := observer.New(zapcore.DebugLevel)
	h := NewLogHandler(zap.New(core))
	ctx := context.Background()

	_ = h.Event(ctx, event(ActionRun, 1, "a"), nil)
	_ = h.Event(ctx, event(ActionPass, 1, "a"), nil)

	fail := event(ActionFail, 2, "b")
	fail.Error = ErrUnexpectedSuccess
	_ = h.Event(ctx, fail, nil)

	_ = h.Err("unreadable")

	entries := logs.All()
	if len(entries) != 3 {
		t.Fatalf("got %d entries, want 3", len(entries))
	}

	if entries[0].Level != zapcore.DebugLevel || entries[0].Message != "case finished" {
		t.Errorf("entry 0 = %v %q", entries[0].Level, entries[0].Message)
	}

	if entries[1].Level != zapcore.InfoLevel || entries[1].ContextMap()["expression"] != "b" {
		t.Errorf("entry 1 = %v %v", entries[1].Level, entries[1].ContextMap())
	}

	if entries[2].Level != zapcore.WarnLevel || entries[2].Message != "unreadable" {
		t.Errorf("entry 2 = %v %q", entries[2].Level, entries[2].Message)
	}
}
