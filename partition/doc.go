// Package partition models a clustering of a sample set: a map from sample to
// an opaque cluster label, equivalently an equivalence relation.
//
// Partitions are immutable. Canonical() relabels clusters "1".."k" ordered by
// their lexicographically smallest member, so equivalent partitions compare
// equal after canonicalisation regardless of the labels they were built with.
// FromIndicator decodes the pairwise 0/1 co-clustering table format and
// rejects tables that are not equivalence relations.
package partition
