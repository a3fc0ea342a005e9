// SPDX-License-Identifier: MIT

package genotype

import (
	"errors"
	"fmt"
	"io"
	"os"
	"path/filepath"
	"strconv"
	"strings"

	"github.com/katalvlaran/pathogist/matrix"
	"github.com/katalvlaran/pathogist/tabular"
)

// ListExt marks a calls path as a list of per-sample files.
const ListExt = ".list"

// Opener opens one per-sample calls file named by a list.
type Opener func(path string) (io.ReadCloser, error)

// OpenFile is the Opener of the local file system.
func OpenFile(path string) (io.ReadCloser, error) { return os.Open(path) }

func lineErr(line int, sentinel error, format string, args ...any) error {
	return &tabular.LineError{Line: line, Err: fmt.Errorf("%s: %w", fmt.Sprintf(format, args...), sentinel)}
}

// dropHeader skips a first row whose first cell is "sample".
func dropHeader(recs []tabular.Record) []tabular.Record {
	if len(recs) > 0 && strings.EqualFold(recs[0].Fields[0], "sample") {
		return recs[1:]
	}

	return recs
}

// ReadSNP reads "sample<TAB>variant" rows. A row holding only a sample id
// declares a sample without variants.
//
// Errors: tabular errors, *tabular.LineError.
func ReadSNP(r io.Reader) (*SNPCalls, error) {
	recs, err := tabular.ReadRecords(r)
	if err != nil {
		return nil, err
	}
	c := &SNPCalls{variants: make(map[string]map[string]struct{})}
	for _, rec := range dropHeader(recs) {
		switch len(rec.Fields) {
		case 1:
			c.add(rec.Fields[0])
		case 2:
			c.add(rec.Fields[0])
			c.variants[rec.Fields[0]][rec.Fields[1]] = struct{}{}
		default:
			return nil, lineErr(rec.Line, tabular.ErrMalformed, "want sample and variant, got %d cells", len(rec.Fields))
		}
	}

	return c, nil
}

// ReadMLST reads an allele profile table: a header "sample locus1 locus2
// ..." (first cell ignored) and one row per sample. Empty and "-" cells
// are missing alleles.
//
// Errors: tabular errors, *tabular.LineError, ErrDuplicateCall for a
// repeated locus.
func ReadMLST(r io.Reader) (*MLSTCalls, error) {
	recs, err := tabular.ReadRecords(r)
	if err != nil {
		return nil, err
	}
	header := recs[0]
	loci := header.Fields[1:]
	if len(loci) == 0 {
		return nil, lineErr(header.Line, tabular.ErrMalformed, "header has no loci")
	}
	seen := make(map[string]bool, len(loci))
	for _, l := range loci {
		if seen[l] {
			return nil, lineErr(header.Line, ErrDuplicateCall, "locus %q", l)
		}
		seen[l] = true
	}

	c := &MLSTCalls{alleles: make(map[string]map[string]string, len(recs)-1)}
	for _, rec := range recs[1:] {
		if len(rec.Fields) != len(loci)+1 {
			return nil, lineErr(rec.Line, tabular.ErrMalformed, "want %d cells, got %d", len(loci)+1, len(rec.Fields))
		}
		s := rec.Fields[0]
		if _, dup := c.alleles[s]; dup {
			return nil, lineErr(rec.Line, tabular.ErrDuplicateName, "sample %q", s)
		}
		c.add(s)
		for i, allele := range rec.Fields[1:] {
			if known(allele) {
				c.alleles[s][loci[i]] = allele
			}
		}
	}

	return c, nil
}

// ReadCNV reads "sample<TAB>region<TAB>copy_number" rows.
//
// Errors: tabular errors, *tabular.LineError wrapping ErrBadCopyNumber or
// ErrDuplicateCall.
func ReadCNV(r io.Reader) (*CNVCalls, error) {
	recs, err := tabular.ReadRecords(r)
	if err != nil {
		return nil, err
	}
	c := &CNVCalls{copies: make(map[string]map[string]float64)}
	for _, rec := range dropHeader(recs) {
		if len(rec.Fields) != 3 {
			return nil, lineErr(rec.Line, tabular.ErrMalformed, "want sample, region and copy number, got %d cells", len(rec.Fields))
		}
		if err = c.set(rec.Line, rec.Fields[0], rec.Fields[1], rec.Fields[2]); err != nil {
			return nil, err
		}
	}

	return c, nil
}

func (c *CNVCalls) set(line int, sample, region, cell string) error {
	cn, err := strconv.ParseFloat(cell, 64)
	if err != nil || !validCopyNumber(cn) {
		return lineErr(line, ErrBadCopyNumber, "sample %q region %q: %q", sample, region, cell)
	}
	c.add(sample)
	if _, dup := c.copies[sample][region]; dup {
		return lineErr(line, ErrDuplicateCall, "sample %q region %q", sample, region)
	}
	c.copies[sample][region] = cn

	return nil
}

// ReadList reads "sample<TAB>path" lines and parses one calls file per
// sample with open. Per-sample formats:
//
//	SNP   one variant per line
//	MLST  "locus<TAB>allele" lines
//	CNV   "region<TAB>copy_number" lines
//
// An empty per-sample file is a sample without calls.
//
// Errors: ErrUnknownKind, tabular errors, open errors prefixed with the
// sample.
func ReadList(kind Kind, r io.Reader, open Opener) (Calls, error) {
	if open == nil {
		open = OpenFile
	}

	var (
		snp  *SNPCalls
		mlst *MLSTCalls
		cnv  *CNVCalls
		out  Calls
		per  func(sample string, recs []tabular.Record) error
	)
	switch kind {
	case SNP:
		snp = &SNPCalls{variants: make(map[string]map[string]struct{})}
		out, per = snp, func(s string, recs []tabular.Record) error {
			snp.add(s)
			for _, rec := range recs {
				if len(rec.Fields) != 1 {
					return lineErr(rec.Line, tabular.ErrMalformed, "want one variant, got %d cells", len(rec.Fields))
				}
				snp.variants[s][rec.Fields[0]] = struct{}{}
			}
			return nil
		}
	case MLST:
		mlst = &MLSTCalls{alleles: make(map[string]map[string]string)}
		out, per = mlst, func(s string, recs []tabular.Record) error {
			mlst.add(s)
			seen := make(map[string]bool, len(recs))
			for _, rec := range recs {
				if len(rec.Fields) != 2 {
					return lineErr(rec.Line, tabular.ErrMalformed, "want locus and allele, got %d cells", len(rec.Fields))
				}
				locus, allele := rec.Fields[0], rec.Fields[1]
				if seen[locus] {
					return lineErr(rec.Line, ErrDuplicateCall, "locus %q", locus)
				}
				seen[locus] = true
				if known(allele) {
					mlst.alleles[s][locus] = allele
				}
			}
			return nil
		}
	case CNV:
		cnv = &CNVCalls{copies: make(map[string]map[string]float64)}
		out, per = cnv, func(s string, recs []tabular.Record) error {
			cnv.add(s)
			for _, rec := range recs {
				if len(rec.Fields) != 2 {
					return lineErr(rec.Line, tabular.ErrMalformed, "want region and copy number, got %d cells", len(rec.Fields))
				}
				if err := cnv.set(rec.Line, s, rec.Fields[0], rec.Fields[1]); err != nil {
					return err
				}
			}
			return nil
		}
	default:
		return nil, fmt.Errorf("%w: %v", ErrUnknownKind, kind)
	}

	entries, err := tabular.ReadRecords(r)
	if err != nil {
		return nil, err
	}
	seen := make(map[string]bool, len(entries))
	for _, e := range entries {
		if len(e.Fields) != 2 {
			return nil, lineErr(e.Line, tabular.ErrMalformed, "want sample and path, got %d cells", len(e.Fields))
		}
		sample, path := e.Fields[0], e.Fields[1]
		if seen[sample] {
			return nil, lineErr(e.Line, tabular.ErrDuplicateName, "sample %q", sample)
		}
		seen[sample] = true

		recs, err := readSample(open, path)
		if err != nil {
			return nil, fmt.Errorf("genotype: sample %q (%s): %w", sample, path, err)
		}
		if err = per(sample, recs); err != nil {
			return nil, fmt.Errorf("genotype: sample %q (%s): %w", sample, path, err)
		}
	}

	return out, nil
}

// readSample returns the records of one per-sample file; an empty file
// yields none.
func readSample(open Opener, path string) ([]tabular.Record, error) {
	rc, err := open(path)
	if err != nil {
		return nil, err
	}
	defer rc.Close()

	recs, err := tabular.ReadRecords(rc)
	if errors.Is(err, tabular.ErrEmptyInput) {
		return nil, nil
	}

	return recs, err
}

// ReadFile reads calls from path: a list of per-sample files when the
// extension is ListExt, a single table otherwise. Relative paths inside a
// list resolve against the list's directory.
func ReadFile(kind Kind, path string, open Opener) (Calls, error) {
	if open == nil {
		open = OpenFile
	}
	rc, err := open(path)
	if err != nil {
		return nil, err
	}
	defer rc.Close()

	if strings.EqualFold(filepath.Ext(path), ListExt) {
		dir := filepath.Dir(path)
		return ReadList(kind, rc, func(p string) (io.ReadCloser, error) {
			if !filepath.IsAbs(p) {
				p = filepath.Join(dir, p)
			}
			return open(p)
		})
	}

	mod, err := kind.Modality()
	if err != nil {
		return nil, err
	}
	calls, err := mod.Read(rc)
	if err != nil {
		return nil, fmt.Errorf("%s: %w", path, err)
	}

	return calls, nil
}

// BuildMatrixFile is ReadFile followed by the kind's distance builder.
func BuildMatrixFile(kind Kind, path string, open Opener) (*matrix.Dissimilarity, error) {
	calls, err := ReadFile(kind, path, open)
	if err != nil {
		return nil, err
	}

	return buildKind(kind, calls)
}
