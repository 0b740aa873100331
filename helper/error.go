package helper

import (
	"errors"
	"strings"
)

// Error wraps an error with the chain of operations it passed through.
type Error struct {
	Original error
	Trace    []string
}

// NewError wraps err with the given trace step.
// If err is already an *Error the step is prepended to its trace.
func NewError(trace string, err error) error {
	if err == nil {
		return nil
	}

	var e *Error
	if errors.As(err, &e) {
		return &Error{
			Original: e.Original,
			Trace:    append([]string{trace}, e.Trace...),
		}
	}

	return &Error{
		Original: err,
		Trace:    []string{trace},
	}
}

// Error returns the trace followed by the original error message
func (e *Error) Error() string {
	return strings.Join(e.Trace, ": ") + ": " + e.Original.Error()
}

// Unwrap returns the original error so errors.Is works on sentinel errors
func (e *Error) Unwrap() error {
	return e.Original
}
