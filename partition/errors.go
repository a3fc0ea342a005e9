// SPDX-License-Identifier: MIT

package partition

import "errors"

// Sentinel errors returned by the partition package.
var (
	// ErrEmpty is returned when a partition over zero samples is requested.
	ErrEmpty = errors.New("partition: empty sample set")

	// ErrEmptySample indicates an empty sample identifier.
	ErrEmptySample = errors.New("partition: empty sample id")

	// ErrEmptyLabel indicates an empty cluster label.
	ErrEmptyLabel = errors.New("partition: empty cluster label")

	// ErrDuplicateSample indicates that a sample was assigned twice.
	ErrDuplicateSample = errors.New("partition: duplicate sample id")

	// ErrUnknownSample indicates that a referenced sample is not in the partition.
	ErrUnknownSample = errors.New("partition: unknown sample id")

	// ErrLengthMismatch indicates that samples and assignments differ in length.
	ErrLengthMismatch = errors.New("partition: samples and assignment differ in length")

	// ErrNonSquare indicates a co-clustering indicator table that is not n×n.
	ErrNonSquare = errors.New("partition: indicator table is not square")

	// ErrBadIndicator indicates an indicator entry other than 0 or 1.
	ErrBadIndicator = errors.New("partition: indicator entries must be 0 or 1")

	// ErrNotEquivalence indicates an indicator table that is not symmetric or
	// not transitive, so it does not describe a partition.
	ErrNotEquivalence = errors.New("partition: indicator is not an equivalence relation")
)
