// SPDX-License-Identifier: MIT

// Package matrix: sentinel error set.
// This file defines ONLY package-level sentinel errors. Constructors and
// accessors return these sentinels (optionally wrapped with call-site context
// via fmt.Errorf("ctx: %w", ErrX)); tests match them with errors.Is.
// No function panics on user-triggered error conditions.

package matrix

import "errors"

// ERROR PRIORITY (documented, enforced in tests):
// empty/duplicate sample ids -> shape -> NaN/Inf -> negative -> symmetry.

var (
	// ErrEmpty is returned when a matrix is requested over zero samples.
	ErrEmpty = errors.New("matrix: empty sample set")

	// ErrEmptySample indicates an empty sample identifier.
	ErrEmptySample = errors.New("matrix: empty sample id")

	// ErrDuplicateSample indicates that a sample identifier occurs twice.
	ErrDuplicateSample = errors.New("matrix: duplicate sample id")

	// ErrUnknownSample indicates that a referenced sample is not in the matrix.
	ErrUnknownSample = errors.New("matrix: unknown sample id")

	// ErrNonSquare signals that a square table was required but the input wasn't.
	ErrNonSquare = errors.New("matrix: table is not square")

	// ErrAsymmetry signals that value(a,b) and value(b,a) differ by more than eps.
	ErrAsymmetry = errors.New("matrix: table is not symmetric within eps")

	// ErrNonZeroDiagonal signals a non-zero self-dissimilarity under the
	// strict-diagonal policy (the default policy ignores the diagonal).
	ErrNonZeroDiagonal = errors.New("matrix: diagonal not zero within eps")

	// ErrNaNInf signals a NaN or ±Inf value where finite values are required.
	ErrNaNInf = errors.New("matrix: NaN or Inf encountered")

	// ErrNegativeValue signals a negative dissimilarity.
	ErrNegativeValue = errors.New("matrix: negative dissimilarity")

	// ErrOutOfRange indicates that a positional index is outside valid bounds.
	ErrOutOfRange = errors.New("matrix: index out of range")
)
