// SPDX-License-Identifier: MIT

package tabular

import (
	"errors"
	"fmt"
)

// Sentinel errors.
var (
	// ErrEmptyInput indicates a file without records.
	ErrEmptyInput = errors.New("tabular: empty input")

	// ErrMalformed indicates a record of the wrong shape.
	ErrMalformed = errors.New("tabular: malformed record")

	// ErrBadNumber indicates a cell that is not a number.
	ErrBadNumber = errors.New("tabular: not a number")

	// ErrRowMismatch indicates row ids that differ from the header ids.
	ErrRowMismatch = errors.New("tabular: row ids do not match header")

	// ErrDuplicateName indicates a name listed twice.
	ErrDuplicateName = errors.New("tabular: duplicate name")
)

// LineError locates a failure in its input.
type LineError struct {
	Line int
	Err  error
}

// Error implements error.
func (e *LineError) Error() string { return fmt.Sprintf("tabular: line %d: %v", e.Line, e.Err) }

// Unwrap exposes the cause.
func (e *LineError) Unwrap() error { return e.Err }

func lineErrorf(line int, sentinel error, format string, args ...any) error {
	return &LineError{Line: line, Err: fmt.Errorf("%s: %w", fmt.Sprintf(format, args...), sentinel)}
}
