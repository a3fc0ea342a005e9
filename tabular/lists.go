// SPDX-License-Identifier: MIT

package tabular

import (
	"bufio"
	"io"
	"strings"
)

// NamedPath is one "name=path" entry of a batch list.
type NamedPath struct {
	Name string
	Path string
}

// ReadBatchList reads "name=path" lines. Blank lines and lines starting
// with '#' are skipped; the path is everything after the first '='.
//
// Errors: ErrEmptyInput, *LineError (ErrMalformed, ErrDuplicateName).
func ReadBatchList(r io.Reader) ([]NamedPath, error) {
	var (
		out  []NamedPath
		seen = make(map[string]bool)
	)
	err := scanLines(r, func(line int, text string) error {
		name, path, ok := strings.Cut(text, "=")
		name, path = strings.TrimSpace(name), strings.TrimSpace(path)
		if !ok || name == "" || path == "" {
			return lineErrorf(line, ErrMalformed, "want name=path, got %q", text)
		}
		if seen[name] {
			return lineErrorf(line, ErrDuplicateName, "%q", name)
		}
		seen[name] = true
		out = append(out, NamedPath{Name: name, Path: path})

		return nil
	})
	if err != nil {
		return nil, err
	}
	if len(out) == 0 {
		return nil, ErrEmptyInput
	}

	return out, nil
}

// ReadBatchListFile is ReadBatchList on the file at path.
func ReadBatchListFile(path string) ([]NamedPath, error) {
	return withFile(path, ReadBatchList)
}

// ReadNameList reads one name per line, skipping blanks, comments and
// repeats. An empty list is valid.
func ReadNameList(r io.Reader) ([]string, error) {
	var (
		out  []string
		seen = make(map[string]bool)
	)
	err := scanLines(r, func(_ int, text string) error {
		if !seen[text] {
			seen[text] = true
			out = append(out, text)
		}
		return nil
	})

	return out, err
}

// ReadNameListFile is ReadNameList on the file at path.
func ReadNameListFile(path string) ([]string, error) {
	return withFile(path, ReadNameList)
}

// scanLines calls fn with every trimmed, non-blank, non-comment line.
func scanLines(r io.Reader, fn func(line int, text string) error) error {
	sc := bufio.NewScanner(r)
	line := 0
	for sc.Scan() {
		line++
		text := strings.TrimSpace(sc.Text())
		if text == "" || strings.HasPrefix(text, "#") {
			continue
		}
		if err := fn(line, text); err != nil {
			return err
		}
	}

	return sc.Err()
}
