// SPDX-License-Identifier: MIT

package solver

import (
	"context"
	"errors"
	"fmt"

	"github.com/katalvlaran/pathogist/model"
)

// ErrConstraintViolated is wrapped by an Infeasible *Error when a backend
// result breaks a hard constraint.
var ErrConstraintViolated = errors.New("solver: hard constraint violated")

// Result is a solved partition.
type Result struct {
	// Assignment maps each sample (model order) to a cluster number;
	// numbers follow first occurrence, starting at 0.
	Assignment []int
	// Objective is the full model penalty of Assignment.
	Objective float64
	// Algo is the backend that ran (never Auto).
	Algo Algorithm
	// Optimal is set when the backend proved optimality.
	Optimal bool
	// Nodes counts branch-and-bound search nodes.
	Nodes int
}

// Solve minimizes the penalty of m.
//
// Stage 1 (Validate): options, contraction (may return *model.ConflictError).
// Stage 2 (Dispatch): resolve Auto by density and size, then run the backend
// on the reduced model.
// Stage 3 (Finalize): expand, verify hard constraints, relabel.
//
// Errors: ErrNilModel, ErrUnknownAlgorithm, ErrBadOptions, ErrTooLarge,
// *model.ConflictError, *Error (Infeasible, NonConvergence, Timeout).
func Solve(ctx context.Context, m *model.Model, opts Options) (Result, error) {
	if m == nil {
		return Result{}, ErrNilModel
	}
	opts, err := normalize(opts)
	if err != nil {
		return Result{}, err
	}
	r, err := m.Contract()
	if err != nil {
		return Result{}, err
	}

	var (
		algo = opts.Algo
		lpp  *lpProblem
	)
	if algo == LPRounding {
		lpp = buildLP(r)
	}
	if algo == Auto {
		algo, lpp = dispatch(r, opts)
	}

	var (
		b       = newBudget(ctx, opts.TimeLimit)
		super   []int
		optimal bool
		nodes   int
	)
	switch algo {
	case BranchAndBound:
		super, optimal, nodes = solveBB(r, opts, b)
	case LPRounding:
		super, optimal, err = solveLPRounding(r, lpp, opts, b)
		if err != nil {
			return Result{}, err
		}
	case Pivot:
		super = solvePivot(r, opts, b)
		optimal = r.K() == 1
	}

	assign := relabel(r.Expand(super))
	if bad := m.Violations(assign); len(bad) > 0 {
		c := bad[0]
		return Result{}, &Error{
			Kind: Infeasible,
			Algo: algo,
			Err:  fmt.Errorf("%s %s-%s (%s): %w", c.Kind, c.A, c.B, c.Source, ErrConstraintViolated),
		}
	}
	if b.expired() {
		return Result{}, &Error{Kind: Timeout, Algo: algo, Best: assign, Err: b.err}
	}

	return Result{
		Assignment: assign,
		Objective:  m.Objective(assign),
		Algo:       algo,
		Optimal:    optimal,
		Nodes:      nodes,
	}, nil
}

// dispatch resolves Auto. All triangles mean the exact formulation, which
// BranchAndBound and Pivot both search; mixed triangles mean the reduced
// formulation, which only the LP relaxation expresses. The built LP is
// returned for reuse.
func dispatch(r *model.Reduced, opts Options) (Algorithm, *lpProblem) {
	if r.Density() == model.MixedTriangles {
		if p := buildLP(r); p.cells() <= opts.AutoLPCells {
			return LPRounding, p
		}
		return Pivot, nil
	}
	if r.K() <= opts.ExactLimit {
		return BranchAndBound, nil
	}

	return Pivot, nil
}

// relabel renumbers clusters by first occurrence.
func relabel(assign []int) []int {
	var (
		out  = make([]int, len(assign))
		seen = make(map[int]int)
	)
	for i, c := range assign {
		l, ok := seen[c]
		if !ok {
			l = len(seen)
			seen[c] = l
		}
		out[i] = l
	}

	return out
}
