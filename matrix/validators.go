// SPDX-License-Identifier: MIT
// Package: matrix
//
// Purpose:
//   - Provide a single source of truth for sample-id and value checks.
//   - Return sentinel errors wrapped with a validator tag so call sites can
//     match them via errors.Is and users can see which check failed.
//
// Determinism & Performance:
//   - All checks are pure and deterministic.
//   - Symmetry check runs O(n²) on the upper triangle only.

package matrix

import (
	"fmt"
	"math"
)

// validatorErrorf wraps an underlying error with the given validator tag.
func validatorErrorf(tag string, err error) error {
	return fmt.Errorf("%s: %w", tag, err)
}

// ValidateSampleIDs ensures ids is non-empty, has no empty strings and no
// duplicates.
//
// Errors: ErrEmpty, ErrEmptySample, ErrDuplicateSample.
// Complexity: O(n) time, O(n) space.
func ValidateSampleIDs(ids []string) error {
	if len(ids) == 0 {
		return validatorErrorf("ValidateSampleIDs", ErrEmpty)
	}
	seen := make(map[string]struct{}, len(ids))

	var (
		id string
		ok bool
	)
	for _, id = range ids {
		if id == "" {
			return validatorErrorf("ValidateSampleIDs", ErrEmptySample)
		}
		if _, ok = seen[id]; ok {
			return validatorErrorf(fmt.Sprintf("ValidateSampleIDs(%q)", id), ErrDuplicateSample)
		}
		seen[id] = struct{}{}
	}

	return nil
}

// ValidateValue checks that v is a usable dissimilarity: finite and ≥ 0.
//
// Errors: ErrNaNInf, ErrNegativeValue.
// Complexity: O(1).
func ValidateValue(v float64) error {
	if math.IsNaN(v) || math.IsInf(v, 0) {
		return ErrNaNInf
	}
	if v < 0 {
		return ErrNegativeValue
	}

	return nil
}

// ValidateTable checks a full square table against ids under the given options:
//   - len(rows) == len(ids) and every row has len(ids) entries,
//   - off-diagonal values finite and non-negative,
//   - |a_ij − a_ji| ≤ eps,
//   - strict diagonal policy: |a_ii| ≤ eps.
//
// Errors: ErrNonSquare, ErrNaNInf, ErrNegativeValue, ErrAsymmetry,
// ErrNonZeroDiagonal; each wrapped with the offending sample pair.
// Complexity: O(n²).
func ValidateTable(ids []string, rows [][]float64, opts ...Option) error {
	o := gatherOptions(opts...)

	var n = len(ids)
	if len(rows) != n {
		return validatorErrorf("ValidateTable", ErrNonSquare)
	}

	var (
		i, j int
		err  error
	)
	for i = 0; i < n; i++ {
		if len(rows[i]) != n {
			return validatorErrorf(fmt.Sprintf("ValidateTable: row %q", ids[i]), ErrNonSquare)
		}
	}

	for i = 0; i < n; i++ {
		if o.strictDiagonal && math.Abs(rows[i][i]) > o.eps {
			return validatorErrorf(fmt.Sprintf("ValidateTable(%q)", ids[i]), ErrNonZeroDiagonal)
		}
		for j = 0; j < n; j++ {
			if i == j {
				continue // diagonal handled above
			}
			if err = ValidateValue(rows[i][j]); err != nil {
				return validatorErrorf(fmt.Sprintf("ValidateTable(%q,%q)", ids[i], ids[j]), err)
			}
		}
	}

	// Symmetry on the upper triangle only.
	for i = 0; i < n; i++ {
		for j = i + 1; j < n; j++ {
			if math.Abs(rows[i][j]-rows[j][i]) > o.eps {
				return validatorErrorf(fmt.Sprintf("ValidateTable(%q,%q)", ids[i], ids[j]), ErrAsymmetry)
			}
		}
	}

	return nil
}
