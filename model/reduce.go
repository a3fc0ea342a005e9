// SPDX-License-Identifier: MIT

package model

// Reduced is a Model whose MustLink components have been merged into
// super-nodes. Super-node pair (a, b) carries the summed Delta of all member
// pairs and is forbidden when any member pair is a hard CannotLink. Solvers
// work on a Reduced instance and map results back with Expand.
type Reduced struct {
	m         *Model
	groups    [][]int // super-node -> sorted sample indices
	of        []int   // sample index -> super-node
	delta     []float64
	forbidden []bool
	base      float64
}

// Contract merges the hard MustLink components of m.
//
// Stage 1 (Components): union-find over MustLink pairs; super-nodes are
// numbered by their smallest member so the order follows the samples.
// Stage 2 (Aggregate): sum deltas and forbidden flags per super-node pair.
// Stage 3 (Conflicts): a CannotLink between two members of one component is
// reported as *ConflictError (first offending pair in sample order).
//
// Complexity: O(n²).
func (m *Model) Contract() (*Reduced, error) {
	n := m.N()

	// Stage 1.
	parent := make([]int, n)
	for i := range parent {
		parent[i] = i
	}
	find := func(x int) int {
		for parent[x] != x {
			parent[x] = parent[parent[x]]
			x = parent[x]
		}
		return x
	}
	for _, c := range m.must {
		ra, rb := find(m.index[c.A]), find(m.index[c.B])
		if ra == rb {
			continue
		}
		// Keep the smaller index as root.
		if ra < rb {
			parent[rb] = ra
		} else {
			parent[ra] = rb
		}
	}

	r := &Reduced{m: m, of: make([]int, n)}
	slot := make(map[int]int, n)
	var i, j int
	for i = 0; i < n; i++ {
		root := find(i)
		g, ok := slot[root]
		if !ok {
			g = len(r.groups)
			slot[root] = g
			r.groups = append(r.groups, nil)
		}
		r.groups[g] = append(r.groups[g], i)
		r.of[i] = g
	}

	// Stage 2 and 3.
	k := len(r.groups)
	r.delta = make([]float64, k*(k-1)/2)
	r.forbidden = make([]bool, len(r.delta))

	var (
		p      int
		ga, gb int
	)
	for i = 0; i < n; i++ {
		for j = i + 1; j < n; j++ {
			p = m.PairIndex(i, j)
			r.base += m.split[p]
			ga, gb = r.of[i], r.of[j]
			if ga == gb {
				if srcs, bad := m.cannot[p]; bad {
					return nil, r.conflict(i, j, srcs)
				}
				r.base += m.join[p] - m.split[p]
				continue
			}
			q := r.PairIndex(ga, gb)
			r.delta[q] += m.join[p] - m.split[p]
			if m.Forbidden(i, j) {
				r.forbidden[q] = true
			}
		}
	}

	return r, nil
}

// conflict builds the error for a CannotLink pair (i, j) inside one group.
func (r *Reduced) conflict(i, j int, sources []string) *ConflictError {
	e := &ConflictError{
		Pair:        [2]string{r.m.samples[i], r.m.samples[j]},
		SeparatedBy: append([]string(nil), sources...),
	}
	for _, s := range r.groups[r.of[i]] {
		e.Group = append(e.Group, r.m.samples[s])
	}

	return e
}

// Model returns the sample-level model r was contracted from.
func (r *Reduced) Model() *Model { return r.m }

// K returns the number of super-nodes.
func (r *Reduced) K() int { return len(r.groups) }

// Group returns the sorted sample indices merged into super-node a.
func (r *Reduced) Group(a int) []int { return append([]int(nil), r.groups[a]...) }

// Of returns the super-node holding sample index i.
func (r *Reduced) Of(i int) int { return r.of[i] }

// Density returns the triangle density of the underlying model.
func (r *Reduced) Density() Density { return r.m.density }

// Base is the objective contribution that no super-node assignment can
// change: every split penalty plus the deltas of pairs inside a group.
func (r *Reduced) Base() float64 { return r.base }

// PairIndex returns the variable index of super-node pair (a, b), a ≠ b.
func (r *Reduced) PairIndex(a, b int) int {
	if a > b {
		a, b = b, a
	}
	k := len(r.groups)

	return a*(2*k-a-1)/2 + (b - a - 1)
}

// Pairs returns the number of super-node pairs.
func (r *Reduced) Pairs() int { return len(r.delta) }

// Delta returns the objective change of placing a and b together.
func (r *Reduced) Delta(a, b int) float64 { return r.delta[r.PairIndex(a, b)] }

// Forbidden reports whether a and b must stay apart.
func (r *Reduced) Forbidden(a, b int) bool { return r.forbidden[r.PairIndex(a, b)] }

// Triangles enumerates super-node triples per the model density.
func (r *Reduced) Triangles() []Triangle {
	attract := func(a, b int) bool { return r.Delta(a, b) < 0 && !r.Forbidden(a, b) }
	return enumerateTriangles(len(r.groups), r.m.density, attract)
}

// Objective evaluates a super-node assignment; it equals the Model objective
// of Expand(assign).
//
// Complexity: O(k²).
func (r *Reduced) Objective(assign []int) float64 {
	var (
		total = r.base
		a, b  int
		k     = len(r.groups)
	)
	for a = 0; a < k; a++ {
		for b = a + 1; b < k; b++ {
			if assign[a] == assign[b] {
				total += r.delta[r.PairIndex(a, b)]
			}
		}
	}

	return total
}

// Admissible reports whether a super-node assignment keeps every forbidden
// pair apart.
func (r *Reduced) Admissible(assign []int) bool {
	var (
		a, b int
		k    = len(r.groups)
	)
	for a = 0; a < k; a++ {
		for b = a + 1; b < k; b++ {
			if assign[a] == assign[b] && r.forbidden[r.PairIndex(a, b)] {
				return false
			}
		}
	}

	return true
}

// Expand maps a super-node assignment back to samples.
func (r *Reduced) Expand(assign []int) []int {
	out := make([]int, len(r.of))
	for i, g := range r.of {
		out[i] = assign[g]
	}

	return out
}
