// Package pathogist clusters bacterial isolates from several genotyping
// signals at once and reconciles the results into one consensus clustering.
//
// Every modality (SNP calls, MLST profiles, CNV calls or any precomputed
// distance matrix such as PFGE) is turned into a dissimilarity matrix and
// clustered independently by correlation clustering around a per-modality
// threshold. The per-modality partitions are then combined by weighted
// consensus clustering, in which modalities marked "fine" act as hard
// cannot-link constraints.
//
// Layout:
//
//	matrix/        immutable sample-keyed dissimilarity matrices
//	partition/     clusterings, canonical labels, co-membership
//	genotype/      SNP, MLST and CNV calls and their distances
//	tabular/       TSV readers and writers for matrices, clusterings, lists
//	align/         restriction of several matrices to their common samples
//	model/         correlation and consensus objectives with triangle constraints
//	solver/        exact branch-and-bound, LP relaxation with rounding, pivot
//	cluster/       correlation, consensus and batch orchestration
//	pipeline/      YAML configuration, end-to-end run, metrics
//	cmd/pathogist  command line front-end (all, correlation, consensus, distance)
//
// Everything is deterministic for a fixed solver seed: samples are kept in
// lexicographic order and clusters are labelled by their smallest member.
package pathogist
