package runner

import "errors"

// Sentinel errors for the runner package.
var (
	// ErrMaxFailures is returned when the max failure limit is reached.
	ErrMaxFailures = errors.New("runner: max failures reached")

	// ErrUnknownDirective is returned for a %directive the case file format
	// does not define.
	ErrUnknownDirective = errors.New("runner: unknown directive")

	// ErrUnknownKind is reported for an expected error kind that does not exist.
	ErrUnknownKind = errors.New("runner: unknown error kind")

	// ErrUnexpectedSuccess is reported when a case expecting an error parses.
	ErrUnexpectedSuccess = errors.New("runner: expected a parse error")

	// ErrInvalidFilter is returned when the case filter is not a valid regexp.
	ErrInvalidFilter = errors.New("runner: invalid filter")
)
