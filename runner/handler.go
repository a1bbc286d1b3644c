package runner

import (
	"context"
	"errors"

	"go.uber.org/zap"
)

// Handler receives case events during execution.
type Handler interface {
	// Event is called for each case event as it occurs.
	Event(ctx context.Context, event Event, result *Result) error

	// Err is called for errors outside any case, such as unreadable files.
	Err(text string) error
}

// Summarizer is a Handler that renders a final report once the run ends.
type Summarizer interface {
	Handler
	Summary(result *Result) error
}

// MultiHandler fans out events to multiple handlers.
type MultiHandler struct {
	handlers []Handler
}

// NewMultiHandler creates a handler that dispatches to multiple handlers.
func NewMultiHandler(handlers ...Handler) *MultiHandler {
	return &MultiHandler{handlers: handlers}
}

// Event dispatches to every handler and returns the first error.
func (m *MultiHandler) Event(ctx context.Context, event Event, result *Result) error {
	var first error

	for _, h := range m.handlers {
		if err := h.Event(ctx, event, result); err != nil && first == nil {
			first = err
		}
	}

	return first
}

// Err dispatches to all handlers.
func (m *MultiHandler) Err(text string) error {
	var errs []error

	for _, h := range m.handlers {
		errs = append(errs, h.Err(text))
	}

	return errors.Join(errs...)
}

// ResultHandler records events into the Result.
type ResultHandler struct{}

// NewResultHandler creates a handler that accumulates results.
func NewResultHandler() *ResultHandler {
	return &ResultHandler{}
}

// Event updates the result accumulator.
func (h *ResultHandler) Event(_ context.Context, event Event, result *Result) error {
	if event.Action == ActionOutput {
		result.AddOutput(event)
	} else {
		result.Add(event)
	}

	return nil
}

// Err is a no-op.
func (h *ResultHandler) Err(_ string) error {
	return nil
}

// StopOnFailHandler requests a stop after a number of failed or errored cases.
type StopOnFailHandler struct {
	maxFails int
	fails    int
}

// NewStopOnFailHandler creates a handler that stops after maxFails failures.
// Zero or less never stops.
func NewStopOnFailHandler(maxFails int) *StopOnFailHandler {
	return &StopOnFailHandler{maxFails: maxFails}
}

// Event returns ErrMaxFailures once the limit is reached.
func (h *StopOnFailHandler) Event(_ context.Context, event Event, _ *Result) error {
	if h.maxFails <= 0 {
		return nil
	}

	if event.Action == ActionFail || event.Action == ActionError {
		h.fails++
	}

	if h.fails >= h.maxFails {
		return ErrMaxFailures
	}

	return nil
}

// Err is a no-op.
func (h *StopOnFailHandler) Err(_ string) error {
	return nil
}

// LogHandler writes case outcomes to a zap logger at debug level, and
// failures at info.
type LogHandler struct {
	logger *zap.Logger
}

// NewLogHandler creates a logging handler.
func NewLogHandler(logger *zap.Logger) *LogHandler {
	return &LogHandler{logger: logger}
}

// Event logs terminal events.
func (h *LogHandler) Event(_ context.Context, event Event, _ *Result) error {
	if !event.Action.IsTerminal() {
		return nil
	}

	fields := []zap.Field{
		zap.String("file", event.File),
		zap.Int("line", event.Line()),
		zap.String("action", string(event.Action)),
		zap.Duration("elapsed", event.Elapsed),
	}

	if event.Case != nil {
		fields = append(fields,
			zap.String("expression", event.Case.Expression),
			zap.String("mode", event.Case.Mode()))
	}

	switch event.Action {
	case ActionFail, ActionError:
		if event.Error != nil {
			fields = append(fields, zap.Error(event.Error))
		}

		h.logger.Info("case failed", fields...)
	default:
		h.logger.Debug("case finished", fields...)
	}

	return nil
}

// Err logs the text as a warning.
func (h *LogHandler) Err(text string) error {
	h.logger.Warn(text)

	return nil
}
