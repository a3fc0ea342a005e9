// SPDX-License-Identifier: MIT

package cluster

import (
	"context"
	"errors"
	"fmt"
	"math"
	"sort"

	"go.uber.org/zap"

	"github.com/katalvlaran/pathogist/matrix"
	"github.com/katalvlaran/pathogist/model"
	"github.com/katalvlaran/pathogist/partition"
	"github.com/katalvlaran/pathogist/solver"
)

// ConsensusInput holds the per-modality inputs of a consensus solve.
type ConsensusInput struct {
	// Matrices are optional; when present they must share the partitions'
	// sample set.
	Matrices map[string]*matrix.Dissimilarity
	// Partitions are the votes, one per modality.
	Partitions map[string]*partition.Partition
	// Fine names modalities whose separations are hard.
	Fine []string
	// Weights overrides the default weight 1 per modality.
	Weights map[string]float64
	// Links lists sample pairs that must share a cluster.
	Links [][2]string
}

// ConsensusOptions configures Consensus.
type ConsensusOptions struct {
	Density model.Density
	Solver  solver.Options
	Logger  *zap.Logger
}

// DefaultConsensusOptions returns all triangles and solver defaults.
func DefaultConsensusOptions() ConsensusOptions {
	return ConsensusOptions{
		Density: model.AllTriangles,
		Solver:  solver.DefaultOptions(),
		Logger:  zap.NewNop(),
	}
}

// Consensus reconciles several partitions of one sample set into the
// partition of least total weighted disagreement. A pair separated by any
// fine modality is never co-clustered; pairs a fine modality joins carry no
// hard constraint.
//
// Stage 1 (Validate): presence, identical sample sets, fine names, weights.
// Stage 2 (Model): model.BuildConsensus with links.
// Stage 3 (Solve): solver.Solve and canonical decoding.
//
// Errors: *PreconditionError, *model.ConflictError, *solver.Error.
func Consensus(ctx context.Context, in ConsensusInput, opts ConsensusOptions) (*partition.Partition, error) {
	if err := checkConsensus(in); err != nil {
		return nil, err
	}

	fine := make(map[string]bool, len(in.Fine))
	for _, name := range in.Fine {
		fine[name] = true
	}
	inputs := make([]model.Input, 0, len(in.Partitions))
	for _, name := range sortedKeys(in.Partitions) {
		w, ok := in.Weights[name]
		if !ok {
			w = 1
		}
		inputs = append(inputs, model.Input{
			Name:      name,
			Partition: in.Partitions[name],
			Weight:    w,
			Fine:      fine[name],
		})
	}

	md, err := model.BuildConsensus(inputs, in.Links, opts.Density)
	if err != nil {
		if errors.Is(err, model.ErrUnknownSample) {
			return nil, &PreconditionError{Invariant: InvLinksKnown, Detail: err.Error()}
		}
		return nil, err
	}

	log := opts.Logger
	if log == nil {
		log = zap.NewNop()
	}

	return solve(ctx, md, opts.Solver, log.With(
		zap.String("stage", "consensus"),
		zap.Int("modalities", len(inputs)),
		zap.Strings("fine", sortedNames(in.Fine)),
	))
}

// checkConsensus validates the inputs. Sample sets must match exactly;
// mismatches are never aligned here.
func checkConsensus(in ConsensusInput) error {
	if len(in.Partitions) == 0 {
		return &PreconditionError{Invariant: InvPartitionsPresent, Detail: "no partitions supplied"}
	}
	if err := checkIdentical(in.Matrices, in.Partitions); err != nil {
		return err
	}
	for _, name := range in.Fine {
		if _, ok := in.Partitions[name]; !ok {
			return &PreconditionError{Invariant: InvFineKnown, Modality: name, Detail: "fine modality has no partition"}
		}
	}
	for _, name := range sortedKeys(in.Weights) {
		w := in.Weights[name]
		if _, ok := in.Partitions[name]; !ok {
			return &PreconditionError{Invariant: InvWeightKnown, Modality: name, Detail: "weight for a modality without partition"}
		}
		if w <= 0 || math.IsNaN(w) || math.IsInf(w, 0) {
			return &PreconditionError{Invariant: InvWeightPositive, Modality: name, Detail: fmt.Sprintf("weight %v", w)}
		}
	}

	return nil
}

// checkIdentical requires every partition and matrix to share the sample
// set of the first partition in name order.
func checkIdentical(mats map[string]*matrix.Dissimilarity, parts map[string]*partition.Partition) error {
	names := sortedKeys(parts)
	for _, name := range names {
		if parts[name] == nil {
			return &PreconditionError{Invariant: InvInputPresent, Modality: name, Detail: "nil partition"}
		}
	}
	refName := names[0]
	ref := parts[refName].Samples()

	for _, name := range names[1:] {
		if d := sampleDiff(ref, parts[name].Samples()); d != "" {
			return &PreconditionError{
				Invariant: InvIdenticalSamples,
				Modality:  name,
				Detail:    fmt.Sprintf("partition differs from %q: %s", refName, d),
			}
		}
	}
	for _, name := range sortedKeys(mats) {
		if mats[name] == nil {
			return &PreconditionError{Invariant: InvInputPresent, Modality: name, Detail: "nil matrix"}
		}
		if d := sampleDiff(ref, mats[name].Samples()); d != "" {
			return &PreconditionError{
				Invariant: InvIdenticalSamples,
				Modality:  name,
				Detail:    fmt.Sprintf("matrix differs from partition %q: %s", refName, d),
			}
		}
	}

	return nil
}

// sampleDiff describes the first difference between two sorted sample
// lists, or returns "" when they are equal.
func sampleDiff(want, got []string) string {
	var i, j int
	for i < len(want) && j < len(got) {
		switch {
		case want[i] == got[j]:
			i++
			j++
		case want[i] < got[j]:
			return fmt.Sprintf("missing sample %q (%d vs %d samples)", want[i], len(got), len(want))
		default:
			return fmt.Sprintf("extra sample %q (%d vs %d samples)", got[j], len(got), len(want))
		}
	}
	if i < len(want) {
		return fmt.Sprintf("missing sample %q (%d vs %d samples)", want[i], len(got), len(want))
	}
	if j < len(got) {
		return fmt.Sprintf("extra sample %q (%d vs %d samples)", got[j], len(got), len(want))
	}

	return ""
}

func sortedKeys[V any](m map[string]V) []string {
	out := make([]string, 0, len(m))
	for k := range m {
		out = append(out, k)
	}
	sort.Strings(out)

	return out
}

func sortedNames(names []string) []string {
	out := append([]string(nil), names...)
	sort.Strings(out)

	return out
}
