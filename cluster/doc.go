// Package cluster is the clustering engine: correlation clustering of one
// dissimilarity matrix, consensus clustering of several partitions, the
// per-sample summary that joins them, and a bounded fan-out that runs
// independent correlation solves in parallel.
//
// Every entry point is deterministic for fixed inputs and options. Results
// are canonical partitions: clusters labelled "1".."k" in order of their
// lexicographically first member.
//
// Preconditions that cannot be repaired are reported as *PreconditionError
// naming the invariant and the modality. Solver failures surface as
// *solver.Error, unsatisfiable hard constraints as *model.ConflictError.
package cluster
