// SPDX-License-Identifier: MIT

package align

import (
	"errors"
	"fmt"
	"sort"
	"strings"
)

// ErrShape is the sentinel matched by every *ShapeError.
var ErrShape = errors.New("align: inputs share no samples")

// ShapeError reports that the sample sets of the named inputs do not intersect.
type ShapeError struct {
	// Sizes maps each input name to the size of its sample set.
	Sizes map[string]int
}

// Error implements error.
func (e *ShapeError) Error() string {
	names := make([]string, 0, len(e.Sizes))
	for name := range e.Sizes {
		names = append(names, name)
	}
	sort.Strings(names)

	parts := make([]string, len(names))
	for i, name := range names {
		parts[i] = fmt.Sprintf("%s(%d)", name, e.Sizes[name])
	}

	return fmt.Sprintf("%s: %s", ErrShape.Error(), strings.Join(parts, ", "))
}

// Unwrap exposes ErrShape to errors.Is.
func (e *ShapeError) Unwrap() error { return ErrShape }
