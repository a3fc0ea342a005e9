// Package solver finds minimum-penalty partitions of a model.Model.
//
// Every backend works on the contracted instance (model.Reduced): hard
// MustLink components are merged into super-nodes first, so only CannotLink
// ("forbidden") pairs remain hard. The backend result is expanded back to
// samples, checked against every hard constraint, and relabelled so that
// cluster numbers follow the first occurrence in sample order.
//
// Backends:
//
//   - BranchAndBound: exact. Depth-first search over restricted-growth
//     assignments of super-nodes with an admissible lower bound; the
//     incumbent is seeded by Pivot.
//   - LPRounding: the linear relaxation over the model's triangle rows is
//     solved with gonum's simplex (optimize/convex/lp); pair variables of
//     at least one half are rounded up, connected components become
//     clusters, and components holding a forbidden pair are split by
//     pivoting on the LP values. Reports Optimal when the rounded
//     partition attains the LP bound under AllTriangles.
//   - Pivot: deterministic pivot clustering in sample order, optional
//     seeded restarts, then single-node-move local search.
//   - Auto: under AllTriangles, BranchAndBound up to Options.ExactLimit
//     super-nodes and Pivot beyond; under MixedTriangles, LPRounding while
//     the tableau fits Options.AutoLPCells and Pivot beyond.
//
// Only LPRounding reads the model's triangle density; the other backends
// enumerate partitions directly and are therefore always transitive.
//
// Time budget: Options.TimeLimit and the context are checked sparsely. An
// exhausted budget yields *Error with Kind Timeout and the best admissible
// assignment found so far in Error.Best.
//
// Determinism: identical inputs and Options give identical results. The only
// randomness is the seeded restart stream of Pivot.
package solver
