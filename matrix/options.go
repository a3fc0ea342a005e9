// SPDX-License-Identifier: MIT

// Package matrix: functional configuration for Dissimilarity construction.
//
// Design goals:
//   - Deterministic behavior: no global state, no implicit randomness.
//   - Safe by construction: panic only on nonsensical option values (programmer error).
//   - Options fields are unexported; public constructors consume ...Option.
package matrix

import "math"

// DefaultEpsilon is the tolerance used by symmetry and diagonal checks.
const DefaultEpsilon = 1e-9

// DefaultStrictDiagonal controls the diagonal policy. The default ignores
// diagonal entries of ingested tables and stores 0.
const DefaultStrictDiagonal = false

const panicEpsilonInvalid = "matrix: WithEpsilon: eps must be finite, non-negative"

// Option mutates internal options. Safe to apply repeatedly.
type Option func(*Options)

// Options stores the effective configuration after applying Option setters.
type Options struct {
	eps            float64 // >= 0; DefaultEpsilon
	strictDiagonal bool    // DefaultStrictDiagonal
}

// WithEpsilon sets the tolerance used when comparing a[i][j] with a[j][i]
// and, under the strict policy, a[i][i] with 0.
//
// Panics when eps is negative, NaN or infinite.
func WithEpsilon(eps float64) Option {
	if math.IsNaN(eps) || math.IsInf(eps, 0) || eps < 0 {
		panic(panicEpsilonInvalid)
	}

	return func(o *Options) { o.eps = eps }
}

// WithStrictDiagonal makes table ingestion reject diagonal entries whose
// magnitude exceeds eps, instead of silently zeroing them.
func WithStrictDiagonal() Option {
	return func(o *Options) { o.strictDiagonal = true }
}

// gatherOptions applies user setters over the documented defaults.
func gatherOptions(user ...Option) Options {
	o := Options{
		eps:            DefaultEpsilon,
		strictDiagonal: DefaultStrictDiagonal,
	}
	for _, set := range user {
		set(&o) // last-writer-wins
	}

	return o
}
