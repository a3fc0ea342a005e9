// SPDX-License-Identifier: MIT

package model

import (
	"fmt"
	"math"
	"sort"

	"github.com/katalvlaran/pathogist/matrix"
	"github.com/katalvlaran/pathogist/partition"
)

// Input is one modality taking part in a consensus model.
type Input struct {
	Name      string
	Partition *partition.Partition
	Weight    float64 // must be finite and > 0
	Fine      bool    // separations become hard CannotLink constraints
}

// BuildCorrelation builds the correlation-clustering model of m at threshold.
// A pair with value v below threshold is attracted with split penalty
// |v−threshold|; any other pair is repelled with join penalty |v−threshold|.
// A pair exactly at threshold therefore costs nothing either way.
//
// Errors: ErrNilInput, ErrBadThreshold.
// Complexity: O(n²) time and memory; Triangles() is computed lazily.
func BuildCorrelation(m *matrix.Dissimilarity, threshold float64, density Density) (*Model, error) {
	if m == nil {
		return nil, ErrNilInput
	}
	if math.IsNaN(threshold) || math.IsInf(threshold, 0) {
		return nil, fmt.Errorf("model.BuildCorrelation(%v): %w", threshold, ErrBadThreshold)
	}

	md := newModel(m.Samples(), density)

	var (
		i, j int
		p    int
		v    float64
		n    = md.N()
	)
	for i = 0; i < n; i++ {
		for j = i + 1; j < n; j++ {
			p = md.PairIndex(i, j)
			v = m.AtIndex(i, j)
			if v < threshold {
				md.split[p] = threshold - v
			} else {
				md.join[p] = v - threshold
			}
		}
	}

	return md, nil
}

// BuildConsensus builds the weighted consensus model of inputs. All
// partitions must share one sample set. links lists pairs that must end up
// together (hard MustLink, source "links").
//
// Stage 1 (Validate): names, weights, sample sets.
// Stage 2 (Penalties): per modality, w to split where it co-clusters and to
// join where it separates.
// Stage 3 (Hard): CannotLink per fine separation, MustLink per link.
//
// Errors: ErrNoInputs, ErrNilInput, ErrBadWeight, ErrSampleMismatch,
// ErrUnknownSample.
// Complexity: O(k·n²) for k inputs.
func BuildConsensus(inputs []Input, links [][2]string, density Density) (*Model, error) {
	if len(inputs) == 0 {
		return nil, ErrNoInputs
	}

	// Stable processing order regardless of caller order.
	ordered := append([]Input(nil), inputs...)
	sort.SliceStable(ordered, func(a, b int) bool { return ordered[a].Name < ordered[b].Name })

	var ref *partition.Partition
	for _, in := range ordered {
		if in.Partition == nil {
			return nil, fmt.Errorf("model.BuildConsensus(%q): %w", in.Name, ErrNilInput)
		}
		if in.Weight <= 0 || math.IsNaN(in.Weight) || math.IsInf(in.Weight, 0) {
			return nil, fmt.Errorf("model.BuildConsensus(%q, w=%v): %w", in.Name, in.Weight, ErrBadWeight)
		}
		if ref == nil {
			ref = in.Partition
			continue
		}
		if !ref.SameSamples(in.Partition) {
			return nil, fmt.Errorf("model.BuildConsensus(%q): %w", in.Name, ErrSampleMismatch)
		}
	}

	md := newModel(ref.Samples(), density)

	var (
		i, j   int
		p      int
		assign []int
		n      = md.N()
	)
	for _, in := range ordered {
		assign = in.Partition.Assignment()
		for i = 0; i < n; i++ {
			for j = i + 1; j < n; j++ {
				p = md.PairIndex(i, j)
				if assign[i] == assign[j] {
					md.split[p] += in.Weight
					continue
				}
				md.join[p] += in.Weight
				if in.Fine {
					md.addCannot(i, j, in.Name)
				}
			}
		}
	}

	for _, l := range links {
		if err := md.addMust(l[0], l[1], "links"); err != nil {
			return nil, err
		}
	}
	md.sortMust()

	return md, nil
}
