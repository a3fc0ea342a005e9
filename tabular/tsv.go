// SPDX-License-Identifier: MIT

package tabular

import (
	"encoding/csv"
	"errors"
	"fmt"
	"io"
	"os"
	"strings"
)

// Record is one tab-separated row with its 1-based line number.
type Record struct {
	Line   int
	Fields []string
}

// ReadRecords reads every non-blank, non-comment row of r. Fields are
// trimmed of surrounding spaces; rows may differ in width.
//
// Errors: ErrEmptyInput, csv parse errors as *LineError.
func ReadRecords(r io.Reader) ([]Record, error) {
	cr := csv.NewReader(r)
	cr.Comma = '\t'
	cr.Comment = '#'
	cr.FieldsPerRecord = -1
	cr.LazyQuotes = true
	cr.ReuseRecord = false

	var out []Record
	for {
		fields, err := cr.Read()
		if errors.Is(err, io.EOF) {
			break
		}
		if err != nil {
			var pe *csv.ParseError
			if errors.As(err, &pe) {
				return nil, &LineError{Line: pe.Line, Err: fmt.Errorf("%v: %w", pe.Err, ErrMalformed)}
			}
			return nil, err
		}
		line, _ := cr.FieldPos(0)
		blank := true
		for i := range fields {
			fields[i] = strings.TrimSpace(fields[i])
			if fields[i] != "" {
				blank = false
			}
		}
		if blank {
			continue
		}
		out = append(out, Record{Line: line, Fields: fields})
	}
	if len(out) == 0 {
		return nil, ErrEmptyInput
	}

	return out, nil
}

// withFile opens path, applies read, and prefixes errors with the path.
func withFile[T any](path string, read func(io.Reader) (T, error)) (T, error) {
	var zero T
	f, err := os.Open(path)
	if err != nil {
		return zero, err
	}
	defer f.Close()

	v, err := read(f)
	if err != nil {
		return zero, fmt.Errorf("%s: %w", path, err)
	}

	return v, nil
}

// writeRows writes tab-separated rows terminated by '\n'.
func writeRows(w io.Writer, rows [][]string) error {
	cw := csv.NewWriter(w)
	cw.Comma = '\t'

	return cw.WriteAll(rows)
}
