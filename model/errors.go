// SPDX-License-Identifier: MIT

package model

import (
	"errors"
	"fmt"
	"strings"
)

// Sentinel errors returned by the model builders.
var (
	// ErrNilInput indicates a nil matrix or partition.
	ErrNilInput = errors.New("model: nil input")

	// ErrNoInputs indicates a consensus build without partitions.
	ErrNoInputs = errors.New("model: no partitions supplied")

	// ErrBadThreshold indicates a NaN or infinite threshold.
	ErrBadThreshold = errors.New("model: threshold must be finite")

	// ErrBadWeight indicates a non-positive or non-finite modality weight.
	ErrBadWeight = errors.New("model: weight must be finite and > 0")

	// ErrSampleMismatch indicates partitions over different sample sets.
	ErrSampleMismatch = errors.New("model: partitions differ in sample set")

	// ErrUnknownSample indicates a hard link naming a sample outside the model.
	ErrUnknownSample = errors.New("model: unknown sample id")

	// ErrConflict is the sentinel matched by every *ConflictError.
	ErrConflict = errors.New("model: hard constraints are mutually unsatisfiable")
)

// ConflictError reports a pair that hard constraints both force together
// (through a chain of MustLink constraints) and apart (CannotLink).
type ConflictError struct {
	// Pair is the conflicting sample pair, sorted.
	Pair [2]string
	// SeparatedBy lists the sources (fine modalities) that separate the pair.
	SeparatedBy []string
	// Group is the MustLink component that contains both samples.
	Group []string
}

// Error implements error.
func (e *ConflictError) Error() string {
	return fmt.Sprintf("%s: %s and %s are separated by %s but linked through {%s}",
		ErrConflict.Error(), e.Pair[0], e.Pair[1],
		strings.Join(e.SeparatedBy, ", "), strings.Join(e.Group, ", "))
}

// Unwrap exposes ErrConflict to errors.Is.
func (e *ConflictError) Unwrap() error { return ErrConflict }
