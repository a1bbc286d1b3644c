package runner

import (
	"sync"
	"time"
)

// Counts tallies terminal case outcomes.
type Counts struct {
	Total   int `json:"total"`
	Passed  int `json:"passed"`
	Failed  int `json:"failed"`
	Skipped int `json:"skipped"`
	Errors  int `json:"errors"`
}

// Ok reports whether nothing failed or errored.
func (c Counts) Ok() bool {
	return c.Failed == 0 && c.Errors == 0
}

func (c *Counts) add(action Action) {
	c.Total++

	switch action {
	case ActionPass:
		c.Passed++
	case ActionFail:
		c.Failed++
	case ActionSkip:
		c.Skipped++
	case ActionError:
		c.Errors++
	case ActionRun, ActionOutput:
		// not terminal
	}
}

// Result accumulates case outcomes across one or more files.
type Result struct {
	mu sync.RWMutex

	StartTime time.Time
	EndTime   time.Time

	Counts

	// Files lists case file paths in the order their first case finished.
	Files   []string
	PerFile map[string]*Counts

	// Cases is keyed by path string, e.g. "grouping.jsep/3: 2*3+4".
	Cases map[string]*CaseResult
	Order []string
}

// NewResult creates an initialized Result.
func NewResult() *Result {
	return &Result{
		StartTime: time.Now(),
		PerFile:   make(map[string]*Counts),
		Cases:     make(map[string]*CaseResult),
	}
}

// Add records a terminal event.
func (r *Result) Add(event Event) {
	if !event.Action.IsTerminal() {
		return
	}

	r.mu.Lock()
	defer r.mu.Unlock()

	cr := &CaseResult{
		File:    event.File,
		Status:  event.Action,
		Elapsed: event.Elapsed,
		Error:   event.Error,
	}

	if event.Case != nil {
		cr.Line = event.Case.Line
		cr.Expression = event.Case.Expression
		cr.Precedence = event.Case.Precedence
	}

	if event.Action == ActionFail {
		cr.Field = event.Field
		cr.Expected = event.Expected
		cr.Actual = event.Actual
	}

	path := event.PathString()
	r.Cases[path] = cr
	r.Order = append(r.Order, path)
	r.Counts.add(event.Action)

	counts, ok := r.PerFile[event.File]
	if !ok {
		counts = &Counts{}
		r.PerFile[event.File] = counts
		r.Files = append(r.Files, event.File)
	}

	counts.add(event.Action)
}

// AddOutput attaches an output event to its case.
func (r *Result) AddOutput(event Event) {
	if event.Action != ActionOutput {
		return
	}

	r.mu.Lock()
	defer r.mu.Unlock()

	if cr, ok := r.Cases[event.PathString()]; ok {
		cr.Output = append(cr.Output, event.Output)
	}
}

// Finish marks the result as complete.
func (r *Result) Finish() {
	r.mu.Lock()
	defer r.mu.Unlock()

	r.EndTime = time.Now()
}

// Elapsed returns the total execution time.
func (r *Result) Elapsed() time.Duration {
	r.mu.RLock()
	defer r.mu.RUnlock()

	if r.EndTime.IsZero() {
		return time.Since(r.StartTime)
	}

	return r.EndTime.Sub(r.StartTime)
}

// Ok returns true if no case failed or errored.
func (r *Result) Ok() bool {
	r.mu.RLock()
	defer r.mu.RUnlock()

	return r.Counts.Ok()
}

// FileCounts returns the tally for one case file.
func (r *Result) FileCounts(path string) Counts {
	r.mu.RLock()
	defer r.mu.RUnlock()

	if c, ok := r.PerFile[path]; ok {
		return *c
	}

	return Counts{}
}

// Failures returns failed and errored cases in run order.
func (r *Result) Failures() []*CaseResult {
	r.mu.RLock()
	defer r.mu.RUnlock()

	var failed []*CaseResult

	for _, path := range r.Order {
		cr := r.Cases[path]
		if cr.Status == ActionFail || cr.Status == ActionError {
			failed = append(failed, cr)
		}
	}

	return failed
}

// CaseResult holds the outcome of a single case.
type CaseResult struct {
	File       string
	Line       int
	Expression string
	Precedence bool

	Status  Action
	Elapsed time.Duration
	Error   error
	Output  []string

	Field    string
	Expected any
	Actual   any
}

// PathString returns "file.jsep/3: 2*3+4".
func (cr *CaseResult) PathString() string {
	return baseName(cr.File) + "/" + (&Case{Line: cr.Line, Expression: cr.Expression}).Name()
}
