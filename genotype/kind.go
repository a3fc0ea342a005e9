// SPDX-License-Identifier: MIT

package genotype

import (
	"fmt"
	"io"
	"strings"

	"github.com/katalvlaran/pathogist/matrix"
)

// Kind is a genotyping assay.
type Kind int

const (
	// SNP calls are sets of variants per sample.
	SNP Kind = iota
	// MLST calls are allele ids per locus.
	MLST
	// CNV calls are copy numbers per genomic region.
	CNV
)

var kindNames = [...]string{SNP: "SNP", MLST: "MLST", CNV: "CNV"}

// Kinds returns every kind in declaration order.
func Kinds() []Kind { return []Kind{SNP, MLST, CNV} }

// String returns the upper-case assay name.
func (k Kind) String() string {
	if k < 0 || int(k) >= len(kindNames) {
		return fmt.Sprintf("Kind(%d)", int(k))
	}

	return kindNames[k]
}

// ParseKind resolves an assay name, case-insensitively.
func ParseKind(s string) (Kind, error) {
	for _, k := range Kinds() {
		if strings.EqualFold(strings.TrimSpace(s), k.String()) {
			return k, nil
		}
	}

	return 0, fmt.Errorf("%w: %q", ErrUnknownKind, s)
}

// Modality binds a kind to its call reader and its distance builder.
type Modality struct {
	Kind  Kind
	Read  func(io.Reader) (Calls, error)
	Build func(Calls) (*matrix.Dissimilarity, error)
}

// Modality returns the reader and builder of k.
//
// Errors: ErrUnknownKind.
func (k Kind) Modality() (Modality, error) {
	var read func(io.Reader) (Calls, error)
	switch k {
	case SNP:
		read = func(r io.Reader) (Calls, error) { return ReadSNP(r) }
	case MLST:
		read = func(r io.Reader) (Calls, error) { return ReadMLST(r) }
	case CNV:
		read = func(r io.Reader) (Calls, error) { return ReadCNV(r) }
	default:
		return Modality{}, fmt.Errorf("%w: %v", ErrUnknownKind, k)
	}

	return Modality{
		Kind:  k,
		Read:  read,
		Build: func(c Calls) (*matrix.Dissimilarity, error) { return buildKind(k, c) },
	}, nil
}

// BuildMatrix reads single-table calls of the given kind from r and returns
// their dissimilarity matrix.
//
// Stage 1 (Dispatch): kind -> Modality.
// Stage 2 (Read): parse calls.
// Stage 3 (Build): one distance per unordered sample pair.
func BuildMatrix(kind Kind, r io.Reader) (*matrix.Dissimilarity, error) {
	mod, err := kind.Modality()
	if err != nil {
		return nil, err
	}
	calls, err := mod.Read(r)
	if err != nil {
		return nil, fmt.Errorf("genotype: read %v calls: %w", kind, err)
	}

	return mod.Build(calls)
}

// buildKind checks that c belongs to k and evaluates its distance on every
// pair.
//
// Complexity: O(n²·c) where c is the cost of one distance.
func buildKind(k Kind, c Calls) (*matrix.Dissimilarity, error) {
	if c == nil {
		return nil, fmt.Errorf("%w: nil calls", ErrKindMismatch)
	}
	if c.Kind() != k {
		return nil, fmt.Errorf("%w: %v calls for %v", ErrKindMismatch, c.Kind(), k)
	}
	samples := c.Samples()
	if len(samples) == 0 {
		return nil, ErrNoSamples
	}

	return matrix.Build(samples, c.Distance)
}
