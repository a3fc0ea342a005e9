// SPDX-License-Identifier: MIT

// Package matrix: Dissimilarity, a sample-keyed symmetric value table.
//
// Storage is a gonum *mat.SymDense, so value(a,b) == value(b,a) holds by
// construction. Samples are kept in lexicographic order; positional accessors
// (AtIndex, Sample) use that order, which is also the canonical order of every
// solver built on top of this package.
package matrix

import (
	"fmt"
	"sort"

	"gonum.org/v1/gonum/mat"
)

// Dissimilarity maps each unordered pair of samples to a non-negative value.
// The diagonal is always 0. Values are immutable after construction.
type Dissimilarity struct {
	samples []string       // sorted, unique
	index   map[string]int // sample -> position in samples
	data    *mat.SymDense  // n×n, upper triangle authoritative
}

// FromTable builds a Dissimilarity from a full square table whose rows and
// columns follow ids. The table is validated with ValidateTable; diagonal
// entries are ignored unless WithStrictDiagonal is given.
//
// Stage 1 (Validate): ids, shape, values, symmetry.
// Stage 2 (Prepare): sort ids and build the permutation.
// Stage 3 (Finalize): copy the upper triangle into a SymDense.
//
// Complexity: O(n²) time and memory.
func FromTable(ids []string, rows [][]float64, opts ...Option) (*Dissimilarity, error) {
	if err := ValidateSampleIDs(ids); err != nil {
		return nil, err
	}
	if err := ValidateTable(ids, rows, opts...); err != nil {
		return nil, err
	}

	d := newEmpty(ids)

	var (
		i, j   int
		pi, pj int
	)
	for i = 0; i < len(ids); i++ {
		pi = d.index[ids[i]]
		for j = i + 1; j < len(ids); j++ {
			pj = d.index[ids[j]]
			d.data.SetSym(pi, pj, rows[i][j])
		}
	}

	return d, nil
}

// Build constructs a Dissimilarity over ids by evaluating fn once per
// unordered pair of distinct samples. fn receives samples in sorted order
// (a < b lexicographically).
//
// Errors: sample-id sentinels; ErrNaNInf / ErrNegativeValue (wrapped with the
// pair) for invalid values returned by fn.
// Complexity: O(n²) calls to fn.
func Build(ids []string, fn func(a, b string) float64) (*Dissimilarity, error) {
	if err := ValidateSampleIDs(ids); err != nil {
		return nil, err
	}
	d := newEmpty(ids)

	var (
		i, j int
		v    float64
		n    = len(d.samples)
	)
	for i = 0; i < n; i++ {
		for j = i + 1; j < n; j++ {
			v = fn(d.samples[i], d.samples[j])
			if err := ValidateValue(v); err != nil {
				return nil, validatorErrorf(fmt.Sprintf("Build(%q,%q)", d.samples[i], d.samples[j]), err)
			}
			d.data.SetSym(i, j, v)
		}
	}

	return d, nil
}

// newEmpty allocates a zero matrix over the sorted copy of ids.
// ids must already be validated (non-empty, unique).
func newEmpty(ids []string) *Dissimilarity {
	samples := append([]string(nil), ids...)
	sort.Strings(samples)

	index := make(map[string]int, len(samples))
	for i, s := range samples {
		index[s] = i
	}

	return &Dissimilarity{
		samples: samples,
		index:   index,
		data:    mat.NewSymDense(len(samples), nil),
	}
}

// N returns the number of samples.
func (d *Dissimilarity) N() int { return len(d.samples) }

// Samples returns a copy of the sorted sample ids.
func (d *Dissimilarity) Samples() []string {
	return append([]string(nil), d.samples...)
}

// Sample returns the id at sorted position i.
func (d *Dissimilarity) Sample(i int) string { return d.samples[i] }

// Index returns the sorted position of sample s.
func (d *Dissimilarity) Index(s string) (int, bool) {
	i, ok := d.index[s]
	return i, ok
}

// Has reports whether s belongs to the sample set.
func (d *Dissimilarity) Has(s string) bool {
	_, ok := d.index[s]
	return ok
}

// At returns value(a, b). value(a, a) is 0.
//
// Errors: ErrUnknownSample (wrapped with the missing id).
// Complexity: O(1).
func (d *Dissimilarity) At(a, b string) (float64, error) {
	i, ok := d.index[a]
	if !ok {
		return 0, fmt.Errorf("Dissimilarity.At(%q): %w", a, ErrUnknownSample)
	}
	j, ok := d.index[b]
	if !ok {
		return 0, fmt.Errorf("Dissimilarity.At(%q): %w", b, ErrUnknownSample)
	}

	return d.AtIndex(i, j), nil
}

// AtIndex returns the value at sorted positions (i, j) without error
// reporting; it is meant for hot loops over 0..N()-1. Out-of-range indices
// are a programmer error and panic inside gonum.
func (d *Dissimilarity) AtIndex(i, j int) float64 {
	if i == j {
		return 0
	}

	return d.data.At(i, j)
}

// Restrict returns the sub-matrix over keep. Order of keep is irrelevant.
// If keep equals the full sample set, d itself is returned.
//
// Errors: sample-id sentinels, ErrUnknownSample.
// Complexity: O(k²) for k = len(keep).
func (d *Dissimilarity) Restrict(keep []string) (*Dissimilarity, error) {
	if err := ValidateSampleIDs(keep); err != nil {
		return nil, err
	}
	for _, s := range keep {
		if !d.Has(s) {
			return nil, fmt.Errorf("Dissimilarity.Restrict(%q): %w", s, ErrUnknownSample)
		}
	}
	if len(keep) == d.N() {
		return d, nil
	}

	out := newEmpty(keep)

	var (
		i, j int
		k    = out.N()
	)
	for i = 0; i < k; i++ {
		for j = i + 1; j < k; j++ {
			out.data.SetSym(i, j, d.data.At(d.index[out.samples[i]], d.index[out.samples[j]]))
		}
	}

	return out, nil
}

// Rows returns the full n×n table in sorted sample order (diagonal zero).
// The result is a fresh copy.
func (d *Dissimilarity) Rows() [][]float64 {
	n := d.N()
	out := make([][]float64, n)

	var i, j int
	for i = 0; i < n; i++ {
		out[i] = make([]float64, n)
		for j = 0; j < n; j++ {
			out[i][j] = d.AtIndex(i, j)
		}
	}

	return out
}

// SameSamples reports whether d and o are defined over the identical set.
func (d *Dissimilarity) SameSamples(o *Dissimilarity) bool {
	if d.N() != o.N() {
		return false
	}
	for i, s := range d.samples {
		if o.samples[i] != s {
			return false
		}
	}

	return true
}
