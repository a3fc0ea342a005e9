// SPDX-License-Identifier: MIT

package solver

import (
	"fmt"
	"strings"
	"time"
)

// Algorithm selects a backend.
type Algorithm int

const (
	// Auto follows the model density: all triangles go to BranchAndBound
	// (small) or Pivot; mixed triangles go to LPRounding over the reduced
	// formulation while its tableau fits AutoLPCells, Pivot otherwise.
	Auto Algorithm = iota
	// BranchAndBound is the exact search.
	BranchAndBound
	// LPRounding solves the LP relaxation and rounds it.
	LPRounding
	// Pivot is the pivot heuristic with local search.
	Pivot
)

var algorithmNames = [...]string{"auto", "exact", "lp", "pivot"}

// String returns the configuration spelling of a.
func (a Algorithm) String() string {
	if a < 0 || int(a) >= len(algorithmNames) {
		return fmt.Sprintf("Algorithm(%d)", int(a))
	}

	return algorithmNames[a]
}

// ParseAlgorithm maps "auto", "exact", "lp" or "pivot" (case-insensitive)
// onto an Algorithm.
func ParseAlgorithm(s string) (Algorithm, error) {
	key := strings.ToLower(strings.TrimSpace(s))
	for i, name := range algorithmNames {
		if name == key {
			return Algorithm(i), nil
		}
	}

	return Auto, fmt.Errorf("solver.ParseAlgorithm(%q): %w", s, ErrUnknownAlgorithm)
}

// Defaults used by DefaultOptions and for zero-valued limits.
const (
	DefaultExactLimit = 12
	DefaultMaxLPCells = 4_000_000
	// DefaultAutoLPCells keeps Auto away from dense tableaus the simplex
	// cannot finish quickly.
	DefaultAutoLPCells = 250_000
	DefaultEps        = 1e-9
	defaultMaxPasses  = 200
)

// Options configures Solve. The zero value is usable: a zero ExactLimit,
// MaxLPCells or AutoLPCells means the package default.
type Options struct {
	// Algo selects the backend.
	Algo Algorithm
	// TimeLimit bounds one Solve call; 0 means unlimited.
	TimeLimit time.Duration
	// Eps is the improvement tolerance for pruning and local moves.
	Eps float64
	// ExactLimit is the largest super-node count Auto sends to
	// BranchAndBound.
	ExactLimit int
	// Restarts adds seeded random-order runs to Pivot.
	Restarts int
	// Seed drives the restart stream; 0 means a fixed default.
	Seed int64
	// Polish runs local search after LP rounding.
	Polish bool
	// MaxLPCells caps rows×columns of the LP tableau.
	MaxLPCells int
	// AutoLPCells is the largest tableau Auto sends to LPRounding.
	AutoLPCells int
}

// DefaultOptions returns Auto with the package defaults and polishing on.
func DefaultOptions() Options {
	return Options{
		Algo:        Auto,
		Eps:         DefaultEps,
		ExactLimit:  DefaultExactLimit,
		Polish:      true,
		MaxLPCells:  DefaultMaxLPCells,
		AutoLPCells: DefaultAutoLPCells,
	}
}

// normalize validates opts and fills zero limits.
//
// Errors: ErrUnknownAlgorithm, ErrBadOptions.
func normalize(opts Options) (Options, error) {
	if opts.Algo < Auto || opts.Algo > Pivot {
		return opts, fmt.Errorf("solver: %v: %w", opts.Algo, ErrUnknownAlgorithm)
	}
	switch {
	case opts.TimeLimit < 0:
		return opts, fmt.Errorf("solver: TimeLimit %v: %w", opts.TimeLimit, ErrBadOptions)
	case opts.Eps < 0:
		return opts, fmt.Errorf("solver: Eps %v: %w", opts.Eps, ErrBadOptions)
	case opts.ExactLimit < 0:
		return opts, fmt.Errorf("solver: ExactLimit %d: %w", opts.ExactLimit, ErrBadOptions)
	case opts.Restarts < 0:
		return opts, fmt.Errorf("solver: Restarts %d: %w", opts.Restarts, ErrBadOptions)
	case opts.MaxLPCells < 0:
		return opts, fmt.Errorf("solver: MaxLPCells %d: %w", opts.MaxLPCells, ErrBadOptions)
	case opts.AutoLPCells < 0:
		return opts, fmt.Errorf("solver: AutoLPCells %d: %w", opts.AutoLPCells, ErrBadOptions)
	}
	if opts.ExactLimit == 0 {
		opts.ExactLimit = DefaultExactLimit
	}
	if opts.MaxLPCells == 0 {
		opts.MaxLPCells = DefaultMaxLPCells
	}
	if opts.AutoLPCells == 0 {
		opts.AutoLPCells = DefaultAutoLPCells
	}

	return opts, nil
}
