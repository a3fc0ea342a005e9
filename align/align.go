// SPDX-License-Identifier: MIT

package align

import (
	"sort"

	"go.uber.org/zap"

	"github.com/katalvlaran/pathogist/matrix"
	"github.com/katalvlaran/pathogist/partition"
)

// Aligner intersects sample sets across named inputs.
type Aligner struct {
	logger *zap.Logger
}

// Report describes what an alignment did.
type Report struct {
	// Common is the sorted intersection of all input sample sets.
	Common []string
	// Dropped maps input name to the sorted samples removed from it.
	// Inputs that lost nothing are absent.
	Dropped map[string][]string
	// Changed is true when at least one input was restricted.
	Changed bool
}

// NewAligner returns an Aligner logging to logger (nil means no logging).
func NewAligner(logger *zap.Logger) *Aligner {
	if logger == nil {
		logger = zap.NewNop()
	}

	return &Aligner{logger: logger.Named("align")}
}

// Intersect returns the sorted intersection of the given sample sets.
// Duplicates inside one set are ignored.
//
// Complexity: O(total size).
func Intersect(sets ...[]string) []string {
	if len(sets) == 0 {
		return nil
	}

	count := make(map[string]int)
	for _, set := range sets {
		seen := make(map[string]struct{}, len(set))
		for _, s := range set {
			if _, dup := seen[s]; dup {
				continue
			}
			seen[s] = struct{}{}
			count[s]++
		}
	}

	var out []string
	for s, c := range count {
		if c == len(sets) {
			out = append(out, s)
		}
	}
	sort.Strings(out)

	return out
}

// plan computes the common set and the per-input drop lists.
func plan(samples map[string][]string) (Report, error) {
	var (
		names = sortedKeys(samples)
		sets  = make([][]string, len(names))
		rep   = Report{Dropped: make(map[string][]string)}
	)
	if len(names) == 0 {
		return rep, nil
	}
	for i, name := range names {
		sets[i] = samples[name]
	}
	rep.Common = Intersect(sets...)
	if len(rep.Common) == 0 {
		sizes := make(map[string]int, len(names))
		for _, name := range names {
			sizes[name] = len(samples[name])
		}
		return rep, &ShapeError{Sizes: sizes}
	}

	keep := make(map[string]struct{}, len(rep.Common))
	for _, s := range rep.Common {
		keep[s] = struct{}{}
	}
	for _, name := range names {
		var dropped []string
		for _, s := range samples[name] {
			if _, ok := keep[s]; !ok {
				dropped = append(dropped, s)
			}
		}
		if len(dropped) > 0 {
			sort.Strings(dropped)
			rep.Dropped[name] = dropped
			rep.Changed = true
		}
	}

	return rep, nil
}

// warn emits one warning per restricted input.
func (a *Aligner) warn(kind string, rep Report) {
	if !rep.Changed {
		return
	}
	a.logger.Warn("samples differ across inputs; restricting to common samples",
		zap.String("inputs", kind),
		zap.Int("common", len(rep.Common)),
	)
	for _, name := range sortedKeys(rep.Dropped) {
		a.logger.Warn("dropping samples",
			zap.String("input", name),
			zap.Strings("samples", rep.Dropped[name]),
		)
	}
}

// AlignMatrices restricts every matrix to the common sample set.
//
// Errors: *ShapeError when the intersection is empty.
func (a *Aligner) AlignMatrices(in map[string]*matrix.Dissimilarity) (map[string]*matrix.Dissimilarity, Report, error) {
	samples := make(map[string][]string, len(in))
	for name, m := range in {
		samples[name] = m.Samples()
	}
	rep, err := plan(samples)
	if err != nil {
		return nil, rep, err
	}

	out := make(map[string]*matrix.Dissimilarity, len(in))
	for name, m := range in {
		if _, dropped := rep.Dropped[name]; !dropped {
			out[name] = m
			continue
		}
		if out[name], err = m.Restrict(rep.Common); err != nil {
			return nil, rep, err
		}
	}
	a.warn("matrices", rep)

	return out, rep, nil
}

// AlignPartitions restricts every partition to the common sample set,
// preserving labels.
//
// Errors: *ShapeError when the intersection is empty.
func (a *Aligner) AlignPartitions(in map[string]*partition.Partition) (map[string]*partition.Partition, Report, error) {
	samples := make(map[string][]string, len(in))
	for name, p := range in {
		samples[name] = p.Samples()
	}
	rep, err := plan(samples)
	if err != nil {
		return nil, rep, err
	}

	out := make(map[string]*partition.Partition, len(in))
	for name, p := range in {
		if _, dropped := rep.Dropped[name]; !dropped {
			out[name] = p
			continue
		}
		if out[name], err = p.Restrict(rep.Common); err != nil {
			return nil, rep, err
		}
	}
	a.warn("partitions", rep)

	return out, rep, nil
}

func sortedKeys[V any](m map[string]V) []string {
	keys := make([]string, 0, len(m))
	for k := range m {
		keys = append(keys, k)
	}
	sort.Strings(keys)

	return keys
}
