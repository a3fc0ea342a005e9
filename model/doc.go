// Package model builds the optimization model behind correlation and
// consensus clustering.
//
// For n samples the model has one binary decision variable same(i,j) per
// unordered pair, meaning "i and j end up in the same cluster". Each pair
// carries two non-negative penalties:
//
//   - join  - paid when same(i,j) = 1,
//   - split - paid when same(i,j) = 0.
//
// The objective Σ (same ? join : split) is minimized subject to transitivity
// (triangle) constraints
//
//	same(i,j) + same(j,k) − same(i,k) ≤ 1   and its two rotations
//
// and to hard constraints: MustLink fixes same(i,j)=1, CannotLink fixes
// same(i,j)=0.
//
// Builders:
//
//   - BuildCorrelation: one dissimilarity matrix and a threshold θ. A pair with
//     value v < θ gets split = |v−θ|; a pair with v ≥ θ gets join = |v−θ|.
//   - BuildConsensus: several partitions. Modality m with weight w adds w to
//     split where it co-clusters the pair and to join where it separates it.
//     Fine modalities also add a hard CannotLink for each pair they separate.
//
// Density selects the triangle set: AllTriangles constrains every triple
// (exact, O(n³) rows); MixedTriangles constrains only triples whose three pair
// signs are not uniform, trading completeness for solver speed. The choice is
// always the caller's.
//
// Contract() merges MustLink components into super-nodes so that solvers work
// on a smaller instance in which only CannotLink ("forbidden") pairs remain
// hard. A CannotLink inside a MustLink component is a *ConflictError.
package model
