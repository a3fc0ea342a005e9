// SPDX-License-Identifier: MIT

package genotype

import "errors"

// Sentinel errors.
var (
	// ErrUnknownKind indicates a kind name outside SNP, MLST and CNV.
	ErrUnknownKind = errors.New("genotype: unknown kind")

	// ErrKindMismatch indicates calls handed to the builder of another kind.
	ErrKindMismatch = errors.New("genotype: calls of another kind")

	// ErrBadCopyNumber indicates a copy number that is not a finite,
	// non-negative number.
	ErrBadCopyNumber = errors.New("genotype: bad copy number")

	// ErrDuplicateCall indicates one sample called twice at the same locus
	// or region.
	ErrDuplicateCall = errors.New("genotype: duplicate call")

	// ErrNoSamples indicates calls without any sample.
	ErrNoSamples = errors.New("genotype: no samples")
)
