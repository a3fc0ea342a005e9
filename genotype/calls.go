// SPDX-License-Identifier: MIT

package genotype

import (
	"math"
	"sort"
)

// Calls is the parsed genotype of every sample for one kind. The
// implementations are SNPCalls, MLSTCalls and CNVCalls.
type Calls interface {
	// Kind returns the assay the calls belong to.
	Kind() Kind
	// Samples returns the called samples in lexicographic order.
	Samples() []string
	// Distance returns the dissimilarity of two called samples.
	Distance(a, b string) float64

	sealed()
}

// SNPCalls maps sample -> set of called variants.
type SNPCalls struct {
	variants map[string]map[string]struct{}
}

// NewSNPCalls builds calls from variant lists; repeats are ignored and a
// sample with no variant is kept.
func NewSNPCalls(variants map[string][]string) *SNPCalls {
	c := &SNPCalls{variants: make(map[string]map[string]struct{}, len(variants))}
	for s, vs := range variants {
		c.add(s)
		for _, v := range vs {
			c.variants[s][v] = struct{}{}
		}
	}

	return c
}

func (c *SNPCalls) add(sample string) {
	if _, ok := c.variants[sample]; !ok {
		c.variants[sample] = make(map[string]struct{})
	}
}

func (*SNPCalls) sealed() {}

// Kind returns SNP.
func (*SNPCalls) Kind() Kind { return SNP }

// Samples returns the called samples in lexicographic order.
func (c *SNPCalls) Samples() []string { return sortedSamples(c.variants) }

// Distance is the size of the symmetric difference of the variant sets.
//
// Complexity: O(|a| + |b|).
func (c *SNPCalls) Distance(a, b string) float64 {
	va, vb := c.variants[a], c.variants[b]
	shared := 0
	for v := range va {
		if _, ok := vb[v]; ok {
			shared++
		}
	}

	return float64(len(va) + len(vb) - 2*shared)
}

// MLSTCalls maps sample -> locus -> allele id. Missing alleles are absent.
type MLSTCalls struct {
	alleles map[string]map[string]string
}

// NewMLSTCalls builds calls from allele profiles. Empty and "-" alleles
// are treated as missing.
func NewMLSTCalls(profiles map[string]map[string]string) *MLSTCalls {
	c := &MLSTCalls{alleles: make(map[string]map[string]string, len(profiles))}
	for s, loci := range profiles {
		c.add(s)
		for locus, allele := range loci {
			if known(allele) {
				c.alleles[s][locus] = allele
			}
		}
	}

	return c
}

func (c *MLSTCalls) add(sample string) {
	if _, ok := c.alleles[sample]; !ok {
		c.alleles[sample] = make(map[string]string)
	}
}

// known reports whether an allele cell carries a call.
func known(allele string) bool { return allele != "" && allele != "-" }

func (*MLSTCalls) sealed() {}

// Kind returns MLST.
func (*MLSTCalls) Kind() Kind { return MLST }

// Samples returns the called samples in lexicographic order.
func (c *MLSTCalls) Samples() []string { return sortedSamples(c.alleles) }

// Distance counts loci where both alleles are known and differ.
func (c *MLSTCalls) Distance(a, b string) float64 {
	pa, pb := c.alleles[a], c.alleles[b]
	diff := 0
	for locus, x := range pa {
		if y, ok := pb[locus]; ok && x != y {
			diff++
		}
	}

	return float64(diff)
}

// Baseline is the copy number of a region a CNV sample does not list.
const Baseline = 2.0

// CNVCalls maps sample -> region -> copy number.
type CNVCalls struct {
	copies map[string]map[string]float64
}

// NewCNVCalls builds calls from copy-number profiles.
//
// Errors: ErrBadCopyNumber.
func NewCNVCalls(profiles map[string]map[string]float64) (*CNVCalls, error) {
	c := &CNVCalls{copies: make(map[string]map[string]float64, len(profiles))}
	for s, regions := range profiles {
		c.add(s)
		for region, cn := range regions {
			if !validCopyNumber(cn) {
				return nil, ErrBadCopyNumber
			}
			c.copies[s][region] = cn
		}
	}

	return c, nil
}

func (c *CNVCalls) add(sample string) {
	if _, ok := c.copies[sample]; !ok {
		c.copies[sample] = make(map[string]float64)
	}
}

func validCopyNumber(cn float64) bool {
	return cn >= 0 && !math.IsInf(cn, 0) && !math.IsNaN(cn)
}

func (*CNVCalls) sealed() {}

// Kind returns CNV.
func (*CNVCalls) Kind() Kind { return CNV }

// Samples returns the called samples in lexicographic order.
func (c *CNVCalls) Samples() []string { return sortedSamples(c.copies) }

// Distance is Σ |cn_a(r) − cn_b(r)| over the regions either sample lists,
// reading absent regions as Baseline.
func (c *CNVCalls) Distance(a, b string) float64 {
	ca, cb := c.copies[a], c.copies[b]
	var sum float64
	for r, x := range ca {
		y, ok := cb[r]
		if !ok {
			y = Baseline
		}
		sum += math.Abs(x - y)
	}
	for r, y := range cb {
		if _, ok := ca[r]; !ok {
			sum += math.Abs(Baseline - y)
		}
	}

	return sum
}

func sortedSamples[V any](m map[string]V) []string {
	out := make([]string, 0, len(m))
	for s := range m {
		out = append(out, s)
	}
	sort.Strings(out)

	return out
}
