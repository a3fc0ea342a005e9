// Package genotype turns genotype calls into dissimilarity matrices.
//
// A Kind names one assay: SNP (called variant sets), MLST (allele profiles)
// or CNV (copy numbers per region). The set is closed; every Kind carries
// its call reader and its distance builder as a Modality, and unknown kinds
// fail with ErrUnknownKind at parse time.
//
// Calls come either as a single table or as a list file of "sample<TAB>path"
// lines pointing at one calls file per sample (see ReadList). The distances
// are simple defaults:
//
//	SNP   size of the symmetric difference of the variant sets
//	MLST  loci where both alleles are known and differ
//	CNV   L1 distance over the union of regions, absent regions at 2
package genotype
