// SPDX-License-Identifier: MIT

package tabular

import (
	"io"
	"strconv"
	"strings"

	"github.com/katalvlaran/pathogist/cluster"
	"github.com/katalvlaran/pathogist/partition"
)

// ReadPartition reads either layout:
//
//   - indicator: a square 0/1 co-clustering matrix with a header row whose
//     first cell is empty, as written for dissimilarity matrices;
//   - assignment: two columns "sample label", optionally headed by
//     "Sample<TAB>Cluster" (case-insensitive).
//
// A first row wider than two cells, or starting with an empty cell, selects
// the indicator layout; its first cell is ignored like a matrix header.
//
// Errors: ErrEmptyInput, *LineError, partition errors.
func ReadPartition(r io.Reader) (*partition.Partition, error) {
	recs, err := ReadRecords(r)
	if err != nil {
		return nil, err
	}

	if isIndicator(recs) {
		return readIndicator(recs)
	}

	if h := recs[0].Fields; len(h) == 2 && strings.EqualFold(h[0], "sample") && strings.EqualFold(h[1], "cluster") {
		recs = recs[1:]
	}
	if len(recs) == 0 {
		return nil, ErrEmptyInput
	}
	labels := make(map[string]string, len(recs))
	for _, rec := range recs {
		if len(rec.Fields) != 2 {
			return nil, lineErrorf(rec.Line, ErrMalformed, "want 2 cells, got %d", len(rec.Fields))
		}
		if _, dup := labels[rec.Fields[0]]; dup {
			return nil, lineErrorf(rec.Line, ErrDuplicateName, "sample %q", rec.Fields[0])
		}
		labels[rec.Fields[0]] = rec.Fields[1]
	}

	return partition.New(labels)
}

func isIndicator(recs []Record) bool {
	first := recs[0].Fields
	return len(first) > 2 || first[0] == ""
}

func readIndicator(recs []Record) (*partition.Partition, error) {
	header := recs[0]
	ids := header.Fields[1:]
	n := len(ids)
	if len(recs)-1 != n {
		return nil, lineErrorf(header.Line, ErrMalformed, "%d header ids but %d rows", n, len(recs)-1)
	}
	col, err := headerIndex(header)
	if err != nil {
		return nil, err
	}

	rows := make([][]float64, n)
	for _, rec := range recs[1:] {
		if len(rec.Fields) != n+1 {
			return nil, lineErrorf(rec.Line, ErrMalformed, "want %d cells, got %d", n+1, len(rec.Fields))
		}
		i, ok := col[rec.Fields[0]]
		if !ok || rows[i] != nil {
			return nil, lineErrorf(rec.Line, ErrRowMismatch, "row %q", rec.Fields[0])
		}
		rows[i] = make([]float64, n)
		for j := 0; j < n; j++ {
			v, err := strconv.ParseFloat(rec.Fields[j+1], 64)
			if err != nil {
				return nil, lineErrorf(rec.Line, ErrBadNumber, "row %q column %q: %q", rec.Fields[0], ids[j], rec.Fields[j+1])
			}
			rows[i][j] = v
		}
	}

	return partition.FromIndicator(ids, rows)
}

// ReadPartitionFile is ReadPartition on the file at path.
func ReadPartitionFile(path string) (*partition.Partition, error) {
	return withFile(path, ReadPartition)
}

// WritePartition writes p in assignment layout with canonical labels.
func WritePartition(w io.Writer, p *partition.Partition) error {
	c := p.Canonical()
	rows := [][]string{{"Sample", "Cluster"}}
	for _, s := range c.Samples() {
		l, _ := c.Label(s)
		rows = append(rows, []string{s, l})
	}

	return writeRows(w, rows)
}

// WriteSummary writes Sample, Final and one column per modality.
func WriteSummary(w io.Writer, s *cluster.Summary) error {
	return writeRows(w, append([][]string{s.Header()}, s.Rows()...))
}
