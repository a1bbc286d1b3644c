package runner

import (
	"context"
	"errors"
	"fmt"
	"regexp"
	"strings"
	"time"

	"github.com/Aintaer/jsep"
	"go.uber.org/zap"
)

// Runner executes conformance case files.
type Runner struct {
	cfg      *jsep.Config
	logger   *zap.Logger
	handler  Handler
	failFast bool
	filter   *regexp.Regexp
	err      error
}

// Option configures a Runner.
type Option func(*Runner)

// WithConfig sets the parser configuration cases run under. The grouping
// mode is chosen per case by the case file.
func WithConfig(cfg *jsep.Config) Option {
	return func(r *Runner) {
		r.cfg = cfg
	}
}

// WithLogger sets the logger.
func WithLogger(logger *zap.Logger) Option {
	return func(r *Runner) {
		if logger != nil {
			r.logger = logger
		}
	}
}

// WithHandler sets the event handler.
func WithHandler(h Handler) Option {
	return func(r *Runner) {
		r.handler = h
	}
}

// WithFailFast stops on first failure.
func WithFailFast(enabled bool) Option {
	return func(r *Runner) {
		r.failFast = enabled
	}
}

// WithFilter sets a regex pattern to filter which cases run.
// Cases whose path matches the pattern will be executed. An invalid pattern
// selects nothing and makes Run and RunAll fail with ErrInvalidFilter.
func WithFilter(pattern string) Option {
	return func(r *Runner) {
		if pattern == "" {
			return
		}

		filter, err := regexp.Compile(pattern)
		if err != nil {
			r.err = fmt.Errorf("%w: %w", ErrInvalidFilter, err)
			return
		}

		r.filter = filter
	}
}

// New creates a Runner with the given options.
func New(opts ...Option) *Runner {
	r := &Runner{logger: zap.NewNop()}
	for _, opt := range opts {
		opt(r)
	}

	return r
}

// Run executes the cases of one file and returns the results.
func (r *Runner) Run(ctx context.Context, file *CaseFile) (*Result, error) {
	return r.RunAll(ctx, []*CaseFile{file})
}

// RunAll executes the cases of several files into a single Result.
func (r *Runner) RunAll(ctx context.Context, files []*CaseFile) (*Result, error) {
	result := NewResult()

	if r.err != nil {
		result.Finish()

		return result, r.err
	}

	handlers := []Handler{NewResultHandler(), NewLogHandler(r.logger)}
	if r.handler != nil {
		handlers = append(handlers, r.handler)
	}

	if r.failFast {
		handlers = append(handlers, NewStopOnFailHandler(1))
	}

	handler := NewMultiHandler(handlers...)

	parsers := map[bool]*jsep.Parser{
		false: jsep.New(jsep.WithConfig(r.cfg), jsep.WithPrecedence(false), jsep.WithLogger(r.logger)),
		true:  jsep.New(jsep.WithConfig(r.cfg), jsep.WithPrecedence(true), jsep.WithLogger(r.logger)),
	}

	for _, file := range files {
		r.logger.Debug("running case file",
			zap.String("path", file.Path),
			zap.Int("cases", len(file.Cases)))

		err := r.runFile(ctx, file, parsers, handler, result)
		if errors.Is(err, ErrMaxFailures) {
			break
		}

		if err != nil {
			result.Finish()

			return result, err
		}
	}

	result.Finish()

	return result, nil
}

func (r *Runner) runFile(
	ctx context.Context,
	file *CaseFile,
	parsers map[bool]*jsep.Parser,
	handler Handler,
	result *Result,
) error {
	for _, c := range file.Cases {
		if err := ctx.Err(); err != nil {
			return err
		}

		err := r.runCase(ctx, c, file, parsers[c.Precedence], handler, result)
		if errors.Is(err, ErrMaxFailures) {
			return err
		}
	}

	return nil
}

func (r *Runner) runCase(
	ctx context.Context,
	c *Case,
	file *CaseFile,
	parser *jsep.Parser,
	handler Handler,
	result *Result,
) error {
	if !r.matches(file, c) {
		return nil
	}

	start := time.Now()
	base := Event{File: file.Path, Case: c}

	_ = handler.Event(ctx, base.with(ActionRun, start), result)

	if c.Skip {
		return handler.Event(ctx, base.with(ActionSkip, start), result)
	}

	tree, parseErr := parser.Parse(c.Expression)

	ev := base.with(ActionPass, start)

	switch {
	case c.Expect.ErrorKind != "":
		want, known := jsep.KindByName(c.Expect.ErrorKind)

		switch {
		case !known:
			ev.Action = ActionError
			ev.Error = fmt.Errorf("%w: %s", ErrUnknownKind, c.Expect.ErrorKind)
		case parseErr == nil:
			ev.fail("error", c.Expect.ErrorKind, jsep.Sexpr(tree), ErrUnexpectedSuccess)
		case !errors.Is(parseErr, want):
			ev.fail("error", c.Expect.ErrorKind, jsep.KindName(parseErr), parseErr)
		}
	case parseErr != nil:
		ev.fail("error", c.Expect.String(), jsep.KindName(parseErr), parseErr)
	case c.Expect.Sexpr != "":
		if got := jsep.Sexpr(tree); normalizeSexpr(got) != normalizeSexpr(c.Expect.Sexpr) {
			ev.fail("sexpr", c.Expect.Sexpr, got, nil)
		}
	}

	if err := handler.Event(ctx, ev, result); err != nil {
		return err
	}

	if ev.Action == ActionPass && c.Expect.Empty() {
		out := base.with(ActionOutput, start)
		out.Output = jsep.Sexpr(tree)

		return handler.Event(ctx, out, result)
	}

	return nil
}

// with stamps a copy of e with an action and timing.
func (e Event) with(action Action, start time.Time) Event {
	e.Time = time.Now()
	e.Action = action

	if action.IsTerminal() {
		e.Elapsed = time.Since(start)
	}

	return e
}

func (e *Event) fail(field string, expected, actual any, err error) {
	e.Action = ActionFail
	e.Field = field
	e.Expected = expected
	e.Actual = actual
	e.Error = err
}

// normalizeSexpr collapses runs of whitespace so expectations may be spaced freely.
func normalizeSexpr(s string) string {
	return strings.Join(strings.Fields(s), " ")
}

// Selected returns the cases of file that the filter lets through.
func (r *Runner) Selected(file *CaseFile) []*Case {
	var cases []*Case

	for _, c := range file.Cases {
		if r.matches(file, c) {
			cases = append(cases, c)
		}
	}

	return cases
}

// matches reports whether the case path "file.jsep/3: expr" matches the
// filter. Everything matches when no filter is set.
func (r *Runner) matches(file *CaseFile, c *Case) bool {
	if r.err != nil {
		return false
	}

	if r.filter == nil {
		return true
	}

	return r.filter.MatchString(file.Name() + "/" + c.Name())
}
