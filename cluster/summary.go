// SPDX-License-Identifier: MIT

package cluster

import (
	"fmt"

	"github.com/katalvlaran/pathogist/partition"
)

// Summary joins the consensus partition with every modality partition.
type Summary struct {
	// Samples in lexicographic order.
	Samples []string
	// Modalities in lexicographic order.
	Modalities []string
	// Final maps sample -> consensus label.
	Final map[string]string
	// Labels maps modality -> sample -> label.
	Labels map[string]map[string]string
}

// Summarize builds the per-sample report. Every sample of consensus must be
// labelled by every modality partition.
//
// Errors: *PreconditionError (InvInputPresent, InvSampleCovered).
// Complexity: O(n·m) for m modalities.
func Summarize(consensus *partition.Partition, parts map[string]*partition.Partition) (*Summary, error) {
	if consensus == nil {
		return nil, &PreconditionError{Invariant: InvInputPresent, Detail: "nil consensus partition"}
	}

	s := &Summary{
		Samples:    consensus.Samples(),
		Modalities: sortedKeys(parts),
		Final:      make(map[string]string, consensus.N()),
		Labels:     make(map[string]map[string]string, len(parts)),
	}
	for _, sample := range s.Samples {
		s.Final[sample], _ = consensus.Label(sample)
	}

	for _, name := range s.Modalities {
		p := parts[name]
		if p == nil {
			return nil, &PreconditionError{Invariant: InvInputPresent, Modality: name, Detail: "nil partition"}
		}
		labels := make(map[string]string, len(s.Samples))
		for _, sample := range s.Samples {
			l, ok := p.Label(sample)
			if !ok {
				return nil, &PreconditionError{
					Invariant: InvSampleCovered,
					Modality:  name,
					Detail:    fmt.Sprintf("sample %q has no label", sample),
				}
			}
			labels[sample] = l
		}
		s.Labels[name] = labels
	}

	return s, nil
}

// Header returns the table header: Sample, Final, then the modalities.
func (s *Summary) Header() []string {
	return append([]string{"Sample", "Final"}, s.Modalities...)
}

// Rows returns one row per sample: sample, final label, modality labels.
func (s *Summary) Rows() [][]string {
	out := make([][]string, 0, len(s.Samples))
	for _, sample := range s.Samples {
		row := make([]string, 0, 2+len(s.Modalities))
		row = append(row, sample, s.Final[sample])
		for _, name := range s.Modalities {
			row = append(row, s.Labels[name][sample])
		}
		out = append(out, row)
	}

	return out
}
