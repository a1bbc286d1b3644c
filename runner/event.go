// Package runner executes jsep conformance case files.
package runner

import "time"

// Action represents the type of case event.
type Action string

// Action constants for case events.
const (
	ActionRun    Action = "run"
	ActionPass   Action = "passed"
	ActionFail   Action = "failed"
	ActionSkip   Action = "skipped"
	ActionError  Action = "error"
	ActionOutput Action = "output"
)

// IsTerminal returns true if this action ends a case.
func (a Action) IsTerminal() bool {
	return a == ActionPass || a == ActionFail || a == ActionSkip || a == ActionError
}

// Event is a single step in the life of a case.
type Event struct {
	Time    time.Time
	Action  Action
	File    string // case file path
	Case    *Case
	Elapsed time.Duration // set on terminal events
	Output  string        // rendered tree, for ActionOutput
	Error   error

	// Set on ActionFail. Field is what was compared: "sexpr" or "error".
	Field    string
	Expected any
	Actual   any
}

// Name returns the case name, e.g. "3: 2*3+4".
func (e Event) Name() string {
	if e.Case == nil {
		return ""
	}

	return e.Case.Name()
}

// Line returns the case's line in its file, or 0.
func (e Event) Line() int {
	if e.Case == nil {
		return 0
	}

	return e.Case.Line
}

// PathString returns "file.jsep/3: 2*3+4", the string filters match against.
func (e Event) PathString() string {
	return baseName(e.File) + "/" + e.Name()
}

// Key identifies the case across files that share a base name.
func (e Event) Key() string {
	return e.File + "::" + e.Name()
}
