// SPDX-License-Identifier: MIT

package model

import (
	"fmt"
	"sort"
)

// Density selects which triangle constraints a model carries.
type Density int

const (
	// MixedTriangles constrains only triples whose pair signs are mixed.
	MixedTriangles Density = iota
	// AllTriangles constrains every triple (exact formulation).
	AllTriangles
)

// String returns the configuration spelling of d.
func (d Density) String() string {
	if d == AllTriangles {
		return "all"
	}

	return "mixed"
}

// DensityFor maps the "all constraints" flag onto a Density.
func DensityFor(allConstraints bool) Density {
	if allConstraints {
		return AllTriangles
	}

	return MixedTriangles
}

// Kind is the direction of a pairwise constraint.
type Kind int

const (
	// MustLink asks for the pair to be co-clustered.
	MustLink Kind = iota
	// CannotLink asks for the pair to be separated.
	CannotLink
)

// String implements fmt.Stringer.
func (k Kind) String() string {
	if k == CannotLink {
		return "cannot-link"
	}

	return "must-link"
}

// Constraint is a fact about a pair of samples. Soft constraints carry a
// positive Weight paid when violated; hard constraints are inviolable.
type Constraint struct {
	A, B   string // sorted: A < B
	Kind   Kind
	Hard   bool
	Weight float64 // soft only
	Source string  // modality or link source
}

// Triangle is a triple of sample (or super-node) indices i < j < k. Each
// triangle stands for three transitivity rows, one per rotation.
type Triangle struct {
	I, J, K int
}

// Model is a correlation-clustering optimization model over a fixed,
// sorted sample set. It is built per solve and never mutated afterwards.
type Model struct {
	samples []string
	index   map[string]int
	join    []float64 // per pair: penalty if same=1
	split   []float64 // per pair: penalty if same=0
	density Density

	cannot map[int][]string // pair -> sources forbidding it (hard)
	must   []Constraint     // hard must-link constraints
}

// newModel allocates an empty model over sorted, unique samples.
func newModel(samples []string, density Density) *Model {
	n := len(samples)
	index := make(map[string]int, n)
	for i, s := range samples {
		index[s] = i
	}
	pairs := n * (n - 1) / 2

	return &Model{
		samples: samples,
		index:   index,
		join:    make([]float64, pairs),
		split:   make([]float64, pairs),
		density: density,
		cannot:  make(map[int][]string),
	}
}

// N returns the number of samples.
func (m *Model) N() int { return len(m.samples) }

// Samples returns a copy of the sorted sample ids.
func (m *Model) Samples() []string { return append([]string(nil), m.samples...) }

// Sample returns the id at sorted position i.
func (m *Model) Sample(i int) string { return m.samples[i] }

// Pairs returns the number of decision variables, n(n−1)/2.
func (m *Model) Pairs() int { return len(m.join) }

// Density returns the triangle density the model was built with.
func (m *Model) Density() Density { return m.density }

// PairIndex returns the variable index of the unordered pair (i, j), i ≠ j.
//
// Complexity: O(1).
func (m *Model) PairIndex(i, j int) int {
	if i > j {
		i, j = j, i
	}
	n := len(m.samples)

	return i*(2*n-i-1)/2 + (j - i - 1)
}

// JoinCost is the penalty paid when i and j are co-clustered.
func (m *Model) JoinCost(i, j int) float64 { return m.join[m.PairIndex(i, j)] }

// SplitCost is the penalty paid when i and j are separated.
func (m *Model) SplitCost(i, j int) float64 { return m.split[m.PairIndex(i, j)] }

// Delta is JoinCost − SplitCost: the objective change of merging i and j.
// Negative values attract, non-negative values repel.
func (m *Model) Delta(i, j int) float64 {
	p := m.PairIndex(i, j)
	return m.join[p] - m.split[p]
}

// Forbidden reports whether a hard CannotLink separates i and j.
func (m *Model) Forbidden(i, j int) bool {
	_, ok := m.cannot[m.PairIndex(i, j)]
	return ok
}

// Hard returns every hard constraint, CannotLink first, each group sorted by
// pair. Sources of a CannotLink shared by several modalities are listed in
// one constraint per source.
func (m *Model) Hard() []Constraint {
	var out []Constraint

	var i, j int
	for i = 0; i < len(m.samples); i++ {
		for j = i + 1; j < len(m.samples); j++ {
			for _, src := range m.cannot[m.PairIndex(i, j)] {
				out = append(out, Constraint{
					A: m.samples[i], B: m.samples[j],
					Kind: CannotLink, Hard: true, Source: src,
				})
			}
		}
	}

	return append(out, m.must...)
}

// Soft returns the soft constraints implied by the penalties: a positive
// split penalty is a weighted MustLink, a positive join penalty is a weighted
// CannotLink. Pairs are visited in sorted order.
func (m *Model) Soft() []Constraint {
	var out []Constraint

	var (
		i, j int
		p    int
	)
	for i = 0; i < len(m.samples); i++ {
		for j = i + 1; j < len(m.samples); j++ {
			p = m.PairIndex(i, j)
			if m.split[p] > 0 {
				out = append(out, Constraint{A: m.samples[i], B: m.samples[j], Kind: MustLink, Weight: m.split[p]})
			}
			if m.join[p] > 0 {
				out = append(out, Constraint{A: m.samples[i], B: m.samples[j], Kind: CannotLink, Weight: m.join[p]})
			}
		}
	}

	return out
}

// Triangles enumerates the transitivity triples selected by the model's
// density, in lexicographic (i, j, k) order. A pair is "attractive" when its
// Delta is negative and it is not forbidden; a triple is mixed when its three
// pairs are not all attractive or all repulsive.
//
// Complexity: O(n³).
func (m *Model) Triangles() []Triangle {
	n := len(m.samples)
	attract := func(i, j int) bool { return m.Delta(i, j) < 0 && !m.Forbidden(i, j) }

	return enumerateTriangles(n, m.density, attract)
}

// enumerateTriangles is shared by Model and Reduced.
func enumerateTriangles(n int, density Density, attract func(i, j int) bool) []Triangle {
	var (
		out     []Triangle
		i, j, k int
		a, b, c bool
	)
	for i = 0; i < n; i++ {
		for j = i + 1; j < n; j++ {
			a = attract(i, j)
			for k = j + 1; k < n; k++ {
				if density == MixedTriangles {
					b, c = attract(j, k), attract(i, k)
					if a == b && b == c {
						continue
					}
				}
				out = append(out, Triangle{I: i, J: j, K: k})
			}
		}
	}

	return out
}

// Objective evaluates the full penalty of a sample-level assignment
// (assign[i] is the cluster of sample i; numbering is arbitrary).
//
// Complexity: O(n²).
func (m *Model) Objective(assign []int) float64 {
	var (
		total float64
		i, j  int
		p     int
	)
	for i = 0; i < len(m.samples); i++ {
		for j = i + 1; j < len(m.samples); j++ {
			p = m.PairIndex(i, j)
			if assign[i] == assign[j] {
				total += m.join[p]
			} else {
				total += m.split[p]
			}
		}
	}

	return total
}

// Violations lists the hard constraints a sample-level assignment breaks.
// An empty result means the assignment is admissible.
func (m *Model) Violations(assign []int) []Constraint {
	var out []Constraint
	for _, c := range m.Hard() {
		i, j := m.index[c.A], m.index[c.B]
		together := assign[i] == assign[j]
		if (c.Kind == CannotLink && together) || (c.Kind == MustLink && !together) {
			out = append(out, c)
		}
	}

	return out
}

// addCannot records a hard CannotLink from source on pair (i, j).
func (m *Model) addCannot(i, j int, source string) {
	p := m.PairIndex(i, j)
	m.cannot[p] = append(m.cannot[p], source)
}

// addMust records a hard MustLink between samples a and b.
func (m *Model) addMust(a, b, source string) error {
	if _, ok := m.index[a]; !ok {
		return fmt.Errorf("model: link %s-%s: %q: %w", a, b, a, ErrUnknownSample)
	}
	if _, ok := m.index[b]; !ok {
		return fmt.Errorf("model: link %s-%s: %q: %w", a, b, b, ErrUnknownSample)
	}
	if a == b {
		return nil
	}
	if a > b {
		a, b = b, a
	}
	m.must = append(m.must, Constraint{A: a, B: b, Kind: MustLink, Hard: true, Source: source})

	return nil
}

// sortMust orders MustLink constraints by pair; the builder calls it once.
func (m *Model) sortMust() {
	sort.SliceStable(m.must, func(x, y int) bool {
		if m.must[x].A != m.must[y].A {
			return m.must[x].A < m.must[y].A
		}
		return m.must[x].B < m.must[y].B
	})
}
