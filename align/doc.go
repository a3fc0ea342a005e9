// Package align restricts matrices and partitions coming from different
// sources to the samples they all share.
//
// Alignment discards information, so every non-trivial alignment is logged at
// warning level with the samples dropped from each input. An empty
// intersection is a *ShapeError. Inputs that already agree are returned
// untouched (same pointers) and nothing is logged.
//
// Consensus inputs are deliberately not routed through this package; the
// consensus solver requires identical sample sets and rejects mismatches.
package align
