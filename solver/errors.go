// SPDX-License-Identifier: MIT

package solver

import (
	"errors"
	"fmt"
)

// Sentinel errors.
var (
	// ErrNilModel indicates a nil model.
	ErrNilModel = errors.New("solver: nil model")

	// ErrUnknownAlgorithm indicates an Algorithm outside the enum.
	ErrUnknownAlgorithm = errors.New("solver: unknown algorithm")

	// ErrBadOptions indicates a negative limit or tolerance.
	ErrBadOptions = errors.New("solver: invalid options")

	// ErrTooLarge indicates an LP whose dense tableau exceeds Options.MaxLPCells.
	ErrTooLarge = errors.New("solver: LP relaxation too large")

	// ErrInfeasible, ErrNonConvergence and ErrTimeout are matched by *Error
	// of the corresponding Kind.
	ErrInfeasible     = errors.New("solver: infeasible")
	ErrNonConvergence = errors.New("solver: did not converge")
	ErrTimeout        = errors.New("solver: time budget exhausted")
)

// Kind classifies a solver failure.
type Kind int

const (
	// Infeasible means no admissible partition was produced.
	Infeasible Kind = iota
	// NonConvergence means the numeric backend failed.
	NonConvergence
	// Timeout means the time budget or context ran out.
	Timeout
)

// String implements fmt.Stringer.
func (k Kind) String() string {
	switch k {
	case Infeasible:
		return "infeasible"
	case NonConvergence:
		return "non-convergence"
	case Timeout:
		return "timeout"
	default:
		return fmt.Sprintf("Kind(%d)", int(k))
	}
}

// Error is a structured solver failure.
type Error struct {
	Kind Kind
	Algo Algorithm
	// Best is the best admissible sample-level assignment found before a
	// Timeout, canonically labelled; nil for other kinds.
	Best []int
	// Err is the underlying cause (backend error, context error), may be nil.
	Err error
}

// Error implements error.
func (e *Error) Error() string {
	if e.Err != nil {
		return fmt.Sprintf("solver: %s (%s): %v", e.Kind, e.Algo, e.Err)
	}

	return fmt.Sprintf("solver: %s (%s)", e.Kind, e.Algo)
}

// Is matches the sentinel of e.Kind.
func (e *Error) Is(target error) bool {
	switch e.Kind {
	case Infeasible:
		return target == ErrInfeasible
	case NonConvergence:
		return target == ErrNonConvergence
	case Timeout:
		return target == ErrTimeout
	}

	return false
}

// Unwrap exposes the underlying cause.
func (e *Error) Unwrap() error { return e.Err }
