// Package matrix provides the dissimilarity table consumed by the clustering
// solvers.
//
// The matrix package provides:
//
//   - Dissimilarity: an immutable, sample-keyed, symmetric table of
//     non-negative values with a zero diagonal, stored in a gonum SymDense.
//   - Validators (ValidateSampleIDs, ValidateValue, ValidateTable) that return
//     wrapped sentinel errors from errors.go.
//   - Functional options controlling the numeric policy (WithEpsilon,
//     WithStrictDiagonal).
//
// Samples are always held in lexicographic order. Two matrices built from the
// same data in different input orders are therefore identical, which is what
// makes downstream solvers invariant under sample reordering.
//
// Complexity: construction and Restrict are O(n²); At is O(1).
package matrix
