// SPDX-License-Identifier: MIT

// Branch-and-bound over restricted-growth assignments.
//
// Super-nodes are placed in index order; node a joins one of the clusters
// opened so far or opens the next one, so every partition is visited once.
//
// Lower bound at depth a, with placed nodes 0..a-1 and cost-so-far C:
//
//	LB = C + Σ_{r ≥ a} min(0, min_c g(r,c)) + Σ_{a ≤ r < s} min(0, D(r,s))
//
// where g(r,c) sums D(r,·) over the placed members of an admissible cluster
// c. Each remaining node pays at least its cheapest attachment to placed
// nodes (a fresh cluster pays 0), and remaining pairs pay at least their
// negative part, so LB never exceeds any completion. Prune when
// LB ≥ UB − eps. The incumbent UB starts from Pivot with local search.

package solver

import (
	"sort"

	"github.com/katalvlaran/pathogist/model"
)

// bbEngine holds the search state.
type bbEngine struct {
	k   int
	eps float64

	d    []float64 // k×k dense Delta
	forb []bool    // k×k forbidden flags
	neg  []float64 // neg[a] = Σ_{a ≤ r < s} min(0, D(r,s))

	assign   []int
	clusters int

	// Per-depth scratch to keep the recursion allocation-free.
	gain [][]float64
	ok   [][]bool
	cand [][]int

	best     []int
	bestCost float64 // excludes Reduced.Base
	nodes    int

	budget  *budget
	aborted bool
}

func newBBEngine(r *model.Reduced, eps float64, b *budget) *bbEngine {
	k := r.K()
	e := &bbEngine{
		k:      k,
		eps:    eps,
		d:      make([]float64, k*k),
		forb:   make([]bool, k*k),
		neg:    make([]float64, k+1),
		assign: make([]int, k),
		gain:   make([][]float64, k+1),
		ok:     make([][]bool, k+1),
		cand:   make([][]int, k+1),
		best:   make([]int, k),
		budget: b,
	}

	var (
		a, s int
		v    float64
	)
	for a = 0; a < k; a++ {
		for s = a + 1; s < k; s++ {
			v = r.Delta(a, s)
			e.d[a*k+s], e.d[s*k+a] = v, v
			if r.Forbidden(a, s) {
				e.forb[a*k+s], e.forb[s*k+a] = true, true
			}
		}
	}
	for a = k - 1; a >= 0; a-- {
		e.neg[a] = e.neg[a+1]
		for s = a + 1; s < k; s++ {
			if e.d[a*k+s] < 0 {
				e.neg[a] += e.d[a*k+s]
			}
		}
	}
	for a = 0; a <= k; a++ {
		e.gain[a] = make([]float64, k+1)
		e.ok[a] = make([]bool, k+1)
		e.cand[a] = make([]int, 0, k+1)
	}

	return e
}

// attach fills gain/ok for node r against the clusters of placed nodes
// 0..depth-1 and returns the cheapest admissible attachment (at most 0).
func (e *bbEngine) attach(r, depth int, gain []float64, ok []bool) float64 {
	var c, b int
	for c = 0; c < e.clusters; c++ {
		gain[c], ok[c] = 0, true
	}
	for b = 0; b < depth; b++ {
		c = e.assign[b]
		gain[c] += e.d[r*e.k+b]
		if e.forb[r*e.k+b] {
			ok[c] = false
		}
	}

	lo := 0.0
	for c = 0; c < e.clusters; c++ {
		if ok[c] && gain[c] < lo {
			lo = gain[c]
		}
	}

	return lo
}

func (e *bbEngine) dfs(a int, cost float64) {
	e.nodes++
	if e.budget.tick() {
		e.aborted = true
		return
	}
	if a == e.k {
		if cost < e.bestCost-e.eps {
			copy(e.best, e.assign)
			e.bestCost = cost
		}
		return
	}

	gain, ok := e.gain[a], e.ok[a]
	lb := cost + e.neg[a] + e.attach(a, a, gain, ok)
	if lb >= e.bestCost-e.eps {
		return
	}
	// The remaining nodes' attachments use scratch of the next level,
	// which is rebuilt before that level reads it.
	scratchG, scratchOK := e.gain[a+1], e.ok[a+1]
	for r := a + 1; r < e.k; r++ {
		lb += e.attach(r, a, scratchG, scratchOK)
		if lb >= e.bestCost-e.eps {
			return
		}
	}

	// Candidates: admissible open clusters, then a fresh one (gain 0),
	// cheapest first.
	cand := e.cand[a][:0]
	for c := 0; c < e.clusters; c++ {
		if ok[c] {
			cand = append(cand, c)
		}
	}
	open := e.clusters
	gain[open] = 0
	cand = append(cand, open)
	sort.SliceStable(cand, func(x, y int) bool { return gain[cand[x]] < gain[cand[y]] })
	e.cand[a] = cand

	for _, c := range cand {
		e.assign[a] = c
		if c == open {
			e.clusters++
		}
		e.dfs(a+1, cost+gain[c])
		if c == open {
			e.clusters--
		}
		if e.aborted {
			return
		}
	}
}

// solveBB returns the optimal super-node assignment, or the incumbent when
// the budget runs out (complete == false), and the number of search nodes.
func solveBB(r *model.Reduced, opts Options, b *budget) (assign []int, complete bool, nodes int) {
	seed := solvePivot(r, Options{Eps: opts.Eps}, b)

	e := newBBEngine(r, opts.Eps, b)
	copy(e.best, seed)
	e.bestCost = r.Objective(seed) - r.Base()
	if !b.expired() {
		e.dfs(0, 0)
	}

	return e.best, !b.expired(), e.nodes
}
