// SPDX-License-Identifier: MIT

// LP relaxation and rounding.
//
// Variables are the non-forbidden super-node pairs; forbidden pairs are fixed
// at 0 and dropped. With slack s the standard form handed to lp.Simplex is
//
//	minimize  Σ D(q)·x(q)
//	subject to [G | I]·[x; s] = 1,  x, s ≥ 0
//
// where G holds one row x(q) ≤ 1 per variable and, per triangle of the
// model density, the three rotations x(ab) + x(bc) − x(ac) ≤ 1. Rows with
// fewer than two positive live coefficients are implied by the bounds and
// skipped. The all-slack basis is feasible because every right-hand side is 1.

package solver

import (
	"errors"
	"fmt"
	"math"

	"gonum.org/v1/gonum/mat"
	"gonum.org/v1/gonum/optimize/convex/lp"

	"github.com/katalvlaran/pathogist/model"
)

const (
	// roundAt is the rounding threshold for pair variables.
	roundAt = 0.5
	// lpTol is handed to lp.Simplex.
	lpTol = 1e-10
	// boundTol is the relative gap under which a rounded partition is
	// reported optimal.
	boundTol = 1e-7
)

// lpTerm is one coefficient of a sparse row.
type lpTerm struct {
	col  int
	coef float64
}

// lpProblem is the relaxation before densification.
type lpProblem struct {
	col  []int // super-pair -> column, -1 when forbidden
	nv   int
	rows [][]lpTerm
}

// buildLP collects variables and rows of r.
//
// Complexity: O(K² + T) for T triangles.
func buildLP(r *model.Reduced) *lpProblem {
	p := &lpProblem{col: make([]int, r.Pairs())}
	var a, b int
	for a = 0; a < r.K(); a++ {
		for b = a + 1; b < r.K(); b++ {
			q := r.PairIndex(a, b)
			if r.Forbidden(a, b) {
				p.col[q] = -1
				continue
			}
			p.col[q] = p.nv
			p.rows = append(p.rows, []lpTerm{{col: p.nv, coef: 1}})
			p.nv++
		}
	}

	for _, t := range r.Triangles() {
		ab, bc, ac := p.col[r.PairIndex(t.I, t.J)], p.col[r.PairIndex(t.J, t.K)], p.col[r.PairIndex(t.I, t.K)]
		p.addRow(ab, bc, ac)
		p.addRow(ab, ac, bc)
		p.addRow(ac, bc, ab)
	}

	return p
}

// addRow appends x(u) + x(v) − x(w) ≤ 1 when u and v are both live.
func (p *lpProblem) addRow(u, v, w int) {
	if u < 0 || v < 0 {
		return
	}
	row := []lpTerm{{col: u, coef: 1}, {col: v, coef: 1}}
	if w >= 0 {
		row = append(row, lpTerm{col: w, coef: -1})
	}
	p.rows = append(p.rows, row)
}

// cells is the size of the dense tableau: rows × (variables + slacks).
func (p *lpProblem) cells() int {
	m := len(p.rows)
	return m * (p.nv + m)
}

// solve densifies the problem and runs the simplex. It returns the value of
// every super-pair (0 for forbidden ones) and the relaxation optimum.
func (p *lpProblem) solve(r *model.Reduced, maxCells int) ([]float64, float64, error) {
	x := make([]float64, r.Pairs())
	if p.nv == 0 {
		return x, 0, nil
	}

	m := len(p.rows)
	cols := p.nv + m
	if p.cells() > maxCells {
		return nil, 0, fmt.Errorf("solver: LP %d×%d exceeds %d cells: %w", m, cols, maxCells, ErrTooLarge)
	}

	var (
		A       = mat.NewDense(m, cols, nil)
		c       = make([]float64, cols)
		h       = make([]float64, m)
		basic   = make([]int, m)
		i       int
		a, b, q int
	)
	for i = range p.rows {
		for _, t := range p.rows[i] {
			A.Set(i, t.col, t.coef)
		}
		A.Set(i, p.nv+i, 1)
		h[i] = 1
		basic[i] = p.nv + i
	}
	for a = 0; a < r.K(); a++ {
		for b = a + 1; b < r.K(); b++ {
			q = r.PairIndex(a, b)
			if p.col[q] >= 0 {
				c[p.col[q]] = r.Delta(a, b)
			}
		}
	}

	opt, sol, err := lp.Simplex(c, A, h, lpTol, basic)
	if err != nil {
		return nil, 0, err
	}
	for q = range x {
		if p.col[q] >= 0 {
			x[q] = sol[p.col[q]]
		}
	}

	return x, opt, nil
}

// roundLP turns pair values into a super-node assignment: pairs at or above
// roundAt are merged by union-find; a component holding a forbidden pair is
// re-clustered by pivoting on the same pairs.
func roundLP(r *model.Reduced, x []float64) []int {
	k := r.K()
	d := newDSU(k)

	var a, b int
	for a = 0; a < k; a++ {
		for b = a + 1; b < k; b++ {
			if x[r.PairIndex(a, b)] >= roundAt {
				d.union(a, b)
			}
		}
	}

	assign := make([]int, k)
	for i := range assign {
		assign[i] = -1
	}
	attract := func(u, v int) bool { return x[r.PairIndex(u, v)] >= roundAt }

	next := 0
	for _, comp := range d.components() {
		if !hasForbidden(r, comp) {
			for _, v := range comp {
				assign[v] = next
			}
			next++
			continue
		}
		next = pivotInto(r, comp, attract, assign, next)
	}

	return assign
}

// hasForbidden reports whether any pair inside members is forbidden.
func hasForbidden(r *model.Reduced, members []int) bool {
	for i, u := range members {
		if blocked(r, u, members[i+1:]) {
			return true
		}
	}

	return false
}

// solveLPRounding runs the relaxation p of r, rounds, and optionally
// polishes. optimal is set when the rounded cost meets the relaxation bound.
func solveLPRounding(r *model.Reduced, p *lpProblem, opts Options, b *budget) (assign []int, optimal bool, err error) {
	if b.check() {
		return nil, false, &Error{Kind: Timeout, Algo: LPRounding, Err: b.err}
	}

	x, bound, err := p.solve(r, opts.MaxLPCells)
	switch {
	case errors.Is(err, ErrTooLarge):
		return nil, false, err
	case errors.Is(err, lp.ErrInfeasible):
		return nil, false, &Error{Kind: Infeasible, Algo: LPRounding, Err: err}
	case err != nil:
		return nil, false, &Error{Kind: NonConvergence, Algo: LPRounding, Err: err}
	}

	assign = roundLP(r, x)
	if b.check() {
		return assign, false, nil
	}
	if opts.Polish {
		localSearch(r, assign, opts.Eps, b)
	}
	cost := r.Objective(assign) - r.Base()
	optimal = cost-bound <= boundTol*math.Max(1, math.Abs(bound))

	return assign, optimal, nil
}
