// SPDX-License-Identifier: MIT

package partition

import (
	"fmt"
	"sort"
	"strconv"
)

// Partition assigns every sample of a fixed set exactly one cluster label.
// Two samples are co-clustered iff their labels are equal. Labels are opaque.
// A Partition is immutable after construction.
type Partition struct {
	samples []string          // sorted, unique
	labels  map[string]string // sample -> label
}

// New builds a Partition from a sample -> label map.
//
// Errors: ErrEmpty, ErrEmptySample, ErrEmptyLabel.
// Complexity: O(n log n).
func New(assign map[string]string) (*Partition, error) {
	if len(assign) == 0 {
		return nil, ErrEmpty
	}

	p := &Partition{
		samples: make([]string, 0, len(assign)),
		labels:  make(map[string]string, len(assign)),
	}
	for s, l := range assign {
		if s == "" {
			return nil, ErrEmptySample
		}
		if l == "" {
			return nil, fmt.Errorf("partition.New(%q): %w", s, ErrEmptyLabel)
		}
		p.samples = append(p.samples, s)
		p.labels[s] = l
	}
	sort.Strings(p.samples)

	return p, nil
}

// FromAssignment builds a canonical Partition from parallel slices:
// samples[i] belongs to cluster assign[i]. Cluster numbers are arbitrary ints.
//
// Errors: ErrEmpty, ErrLengthMismatch, ErrEmptySample, ErrDuplicateSample.
// Complexity: O(n log n).
func FromAssignment(samples []string, assign []int) (*Partition, error) {
	if len(samples) == 0 {
		return nil, ErrEmpty
	}
	if len(samples) != len(assign) {
		return nil, ErrLengthMismatch
	}

	m := make(map[string]string, len(samples))
	for i, s := range samples {
		if s == "" {
			return nil, ErrEmptySample
		}
		if _, ok := m[s]; ok {
			return nil, fmt.Errorf("partition.FromAssignment(%q): %w", s, ErrDuplicateSample)
		}
		m[s] = strconv.Itoa(assign[i])
	}
	p, err := New(m)
	if err != nil {
		return nil, err
	}

	return p.Canonical(), nil
}

// FromClusters builds a canonical Partition from explicit clusters.
//
// Errors: ErrEmpty, ErrEmptySample, ErrDuplicateSample.
func FromClusters(clusters [][]string) (*Partition, error) {
	var (
		samples []string
		assign  []int
	)
	for c, members := range clusters {
		for _, s := range members {
			samples = append(samples, s)
			assign = append(assign, c)
		}
	}

	return FromAssignment(samples, assign)
}

// FromIndicator decodes a square pairwise co-clustering table (1 = same
// cluster, 0 = different) keyed by ids. The diagonal is ignored. The table must
// describe an equivalence relation: symmetric and transitive.
//
// Errors: ErrEmpty, ErrDuplicateSample, ErrNonSquare, ErrBadIndicator,
// ErrNotEquivalence (wrapped with the offending pair).
// Complexity: O(n²).
func FromIndicator(ids []string, rows [][]float64) (*Partition, error) {
	var n = len(ids)
	if n == 0 {
		return nil, ErrEmpty
	}
	if len(rows) != n {
		return nil, ErrNonSquare
	}

	var i, j int
	for i = 0; i < n; i++ {
		if len(rows[i]) != n {
			return nil, ErrNonSquare
		}
		for j = 0; j < n; j++ {
			if i != j && rows[i][j] != 0 && rows[i][j] != 1 {
				return nil, fmt.Errorf("partition.FromIndicator(%q,%q): %w", ids[i], ids[j], ErrBadIndicator)
			}
		}
	}

	// Components of the "1" relation.
	comp := make([]int, n)
	for i = range comp {
		comp[i] = i
	}
	var find func(x int) int
	find = func(x int) int {
		for comp[x] != x {
			comp[x] = comp[comp[x]]
			x = comp[x]
		}
		return x
	}
	for i = 0; i < n; i++ {
		for j = i + 1; j < n; j++ {
			if rows[i][j] != rows[j][i] {
				return nil, fmt.Errorf("partition.FromIndicator(%q,%q): asymmetric: %w", ids[i], ids[j], ErrNotEquivalence)
			}
			if rows[i][j] == 1 {
				ri, rj := find(i), find(j)
				if ri != rj {
					comp[ri] = rj
				}
			}
		}
	}

	// Transitivity: every pair inside a component must be marked 1.
	for i = 0; i < n; i++ {
		for j = i + 1; j < n; j++ {
			if rows[i][j] == 0 && find(i) == find(j) {
				return nil, fmt.Errorf("partition.FromIndicator(%q,%q): not transitive: %w", ids[i], ids[j], ErrNotEquivalence)
			}
		}
	}

	assign := make([]int, n)
	for i = 0; i < n; i++ {
		assign[i] = find(i)
	}

	return FromAssignment(ids, assign)
}

// N returns the number of samples.
func (p *Partition) N() int { return len(p.samples) }

// Samples returns a copy of the sorted sample ids.
func (p *Partition) Samples() []string { return append([]string(nil), p.samples...) }

// Has reports whether s belongs to the sample set.
func (p *Partition) Has(s string) bool {
	_, ok := p.labels[s]
	return ok
}

// Label returns the cluster label of s.
func (p *Partition) Label(s string) (string, bool) {
	l, ok := p.labels[s]
	return l, ok
}

// Together reports whether a and b are co-clustered.
//
// Errors: ErrUnknownSample.
func (p *Partition) Together(a, b string) (bool, error) {
	la, ok := p.labels[a]
	if !ok {
		return false, fmt.Errorf("Partition.Together(%q): %w", a, ErrUnknownSample)
	}
	lb, ok := p.labels[b]
	if !ok {
		return false, fmt.Errorf("Partition.Together(%q): %w", b, ErrUnknownSample)
	}

	return la == lb, nil
}

// Clusters returns the clusters in canonical form: members sorted, clusters
// ordered by their first member.
//
// Complexity: O(n).
func (p *Partition) Clusters() [][]string {
	var (
		out   [][]string
		slot  = make(map[string]int)
		s     string
		l     string
		idx   int
		found bool
	)
	for _, s = range p.samples { // sorted, so first members arrive in order
		l = p.labels[s]
		if idx, found = slot[l]; !found {
			idx = len(out)
			slot[l] = idx
			out = append(out, nil)
		}
		out[idx] = append(out[idx], s)
	}

	return out
}

// NumClusters returns the number of distinct labels.
func (p *Partition) NumClusters() int {
	seen := make(map[string]struct{}, len(p.samples))
	for _, l := range p.labels {
		seen[l] = struct{}{}
	}

	return len(seen)
}

// Assignment returns, for each sorted sample, the index of its canonical
// cluster (0-based, ordered by first member).
func (p *Partition) Assignment() []int {
	var (
		out  = make([]int, len(p.samples))
		slot = make(map[string]int)
	)
	for i, s := range p.samples {
		l := p.labels[s]
		idx, ok := slot[l]
		if !ok {
			idx = len(slot)
			slot[l] = idx
		}
		out[i] = idx
	}

	return out
}

// Canonical returns an equivalent Partition labelled "1".."k" in canonical
// cluster order. Two equivalent partitions have identical canonical forms.
func (p *Partition) Canonical() *Partition {
	assign := p.Assignment()
	out := &Partition{
		samples: append([]string(nil), p.samples...),
		labels:  make(map[string]string, len(p.samples)),
	}
	for i, s := range p.samples {
		out.labels[s] = strconv.Itoa(assign[i] + 1)
	}

	return out
}

// Equivalent reports whether p and q describe the same equivalence relation
// over the same sample set, ignoring label names.
//
// Complexity: O(n).
func (p *Partition) Equivalent(q *Partition) bool {
	if !p.SameSamples(q) {
		return false
	}
	a, b := p.Assignment(), q.Assignment()
	for i := range a {
		if a[i] != b[i] {
			return false
		}
	}

	return true
}

// SameSamples reports whether p and q are defined over the identical set.
func (p *Partition) SameSamples(q *Partition) bool {
	if p.N() != q.N() {
		return false
	}
	for i, s := range p.samples {
		if q.samples[i] != s {
			return false
		}
	}

	return true
}

// Restrict returns the partition induced on keep, preserving labels.
// If keep equals the full sample set, p itself is returned.
//
// Errors: ErrEmpty, ErrDuplicateSample, ErrUnknownSample.
func (p *Partition) Restrict(keep []string) (*Partition, error) {
	if len(keep) == 0 {
		return nil, ErrEmpty
	}
	m := make(map[string]string, len(keep))
	for _, s := range keep {
		l, ok := p.labels[s]
		if !ok {
			return nil, fmt.Errorf("Partition.Restrict(%q): %w", s, ErrUnknownSample)
		}
		if _, dup := m[s]; dup {
			return nil, fmt.Errorf("Partition.Restrict(%q): %w", s, ErrDuplicateSample)
		}
		m[s] = l
	}
	if len(m) == len(p.samples) {
		return p, nil
	}

	return New(m)
}
