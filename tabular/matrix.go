// SPDX-License-Identifier: MIT

package tabular

import (
	"io"
	"strconv"

	"github.com/katalvlaran/pathogist/matrix"
)

// ReadMatrix reads a square dissimilarity table: a header row of sample ids
// (its first cell is ignored) and one row per sample, "id v1 v2 ...". Rows
// may come in any order but their ids must be exactly the header ids.
//
// Errors: ErrEmptyInput, *LineError (ErrMalformed, ErrBadNumber,
// ErrRowMismatch), matrix validation errors.
// Complexity: O(n²).
func ReadMatrix(r io.Reader, opts ...matrix.Option) (*matrix.Dissimilarity, error) {
	recs, err := ReadRecords(r)
	if err != nil {
		return nil, err
	}

	header := recs[0]
	if len(header.Fields) < 2 {
		return nil, lineErrorf(header.Line, ErrMalformed, "header has no sample ids")
	}
	ids := header.Fields[1:]
	n := len(ids)
	if len(recs)-1 != n {
		return nil, lineErrorf(header.Line, ErrMalformed, "%d header ids but %d rows", n, len(recs)-1)
	}

	col, err := headerIndex(header)
	if err != nil {
		return nil, err
	}

	var (
		rows = make([][]float64, n)
		j    int
		v    float64
	)
	for _, rec := range recs[1:] {
		if len(rec.Fields) != n+1 {
			return nil, lineErrorf(rec.Line, ErrMalformed, "want %d cells, got %d", n+1, len(rec.Fields))
		}
		i, ok := col[rec.Fields[0]]
		if !ok {
			return nil, lineErrorf(rec.Line, ErrRowMismatch, "row %q", rec.Fields[0])
		}
		if rows[i] != nil {
			return nil, lineErrorf(rec.Line, ErrRowMismatch, "row %q repeated", rec.Fields[0])
		}
		rows[i] = make([]float64, n)
		for j = 0; j < n; j++ {
			if v, err = strconv.ParseFloat(rec.Fields[j+1], 64); err != nil {
				return nil, lineErrorf(rec.Line, ErrBadNumber, "row %q column %q: %q", rec.Fields[0], ids[j], rec.Fields[j+1])
			}
			rows[i][j] = v
		}
	}

	return matrix.FromTable(ids, rows, opts...)
}

// headerIndex maps every header id to its column.
func headerIndex(header Record) (map[string]int, error) {
	ids := header.Fields[1:]
	col := make(map[string]int, len(ids))
	for i, id := range ids {
		if _, dup := col[id]; dup {
			return nil, lineErrorf(header.Line, ErrDuplicateName, "header id %q", id)
		}
		col[id] = i
	}

	return col, nil
}

// ReadMatrixFile is ReadMatrix on the file at path.
func ReadMatrixFile(path string, opts ...matrix.Option) (*matrix.Dissimilarity, error) {
	return withFile(path, func(r io.Reader) (*matrix.Dissimilarity, error) { return ReadMatrix(r, opts...) })
}

// WriteMatrix writes d in the format read by ReadMatrix, samples sorted.
func WriteMatrix(w io.Writer, d *matrix.Dissimilarity) error {
	samples := d.Samples()
	rows := make([][]string, 0, len(samples)+1)
	rows = append(rows, append([]string{""}, samples...))

	values := d.Rows()
	for i, s := range samples {
		row := make([]string, 0, len(samples)+1)
		row = append(row, s)
		for _, v := range values[i] {
			row = append(row, strconv.FormatFloat(v, 'g', -1, 64))
		}
		rows = append(rows, row)
	}

	return writeRows(w, rows)
}
