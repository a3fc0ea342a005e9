// SPDX-License-Identifier: MIT

package cluster

import (
	"context"
	"time"

	"go.uber.org/zap"

	"github.com/katalvlaran/pathogist/matrix"
	"github.com/katalvlaran/pathogist/model"
	"github.com/katalvlaran/pathogist/partition"
	"github.com/katalvlaran/pathogist/solver"
)

// CorrelationOptions configures Correlation and CorrelateAll.
type CorrelationOptions struct {
	// Density selects the triangle set of the model. Under solver.Auto it
	// also picks the formulation: AllTriangles solves exactly (or by pivot
	// on large inputs), MixedTriangles solves the reduced LP relaxation.
	Density model.Density
	// Solver selects and tunes the backend.
	Solver solver.Options
	// Logger receives one debug event per solve; nil means no logging.
	Logger *zap.Logger
}

// DefaultCorrelationOptions returns mixed triangles and solver defaults.
func DefaultCorrelationOptions() CorrelationOptions {
	return CorrelationOptions{
		Density: model.MixedTriangles,
		Solver:  solver.DefaultOptions(),
		Logger:  zap.NewNop(),
	}
}

func (o CorrelationOptions) logger() *zap.Logger {
	if o.Logger == nil {
		return zap.NewNop()
	}

	return o.Logger
}

// Correlation partitions the samples of m so that pairs below threshold tend
// to share a cluster and pairs at or above it tend to be apart, minimizing
// the total disagreement |value − threshold|.
//
// Errors: *PreconditionError (nil matrix), model.ErrBadThreshold,
// *solver.Error, solver option errors.
func Correlation(ctx context.Context, m *matrix.Dissimilarity, threshold float64, opts CorrelationOptions) (*partition.Partition, error) {
	if m == nil {
		return nil, &PreconditionError{Invariant: InvInputPresent, Detail: "nil matrix"}
	}

	md, err := model.BuildCorrelation(m, threshold, opts.Density)
	if err != nil {
		return nil, err
	}

	return solve(ctx, md, opts.Solver, opts.logger().With(
		zap.String("stage", "correlation"),
		zap.Float64("threshold", threshold),
	))
}

// solve runs the backend and decodes a canonical partition.
func solve(ctx context.Context, md *model.Model, opts solver.Options, log *zap.Logger) (*partition.Partition, error) {
	if md.Density() == model.MixedTriangles && (opts.Algo == solver.BranchAndBound || opts.Algo == solver.Pivot) {
		log.Warn("mixed triangle density is ignored by this backend; every triangle holds",
			zap.Stringer("algorithm", opts.Algo))
	}
	start := time.Now()
	res, err := solver.Solve(ctx, md, opts)
	if err != nil {
		log.Debug("solve failed",
			zap.Int("samples", md.N()),
			zap.Duration("elapsed", time.Since(start)),
			zap.Error(err),
		)
		return nil, err
	}
	log.Debug("solved",
		zap.Int("samples", md.N()),
		zap.Stringer("density", md.Density()),
		zap.Stringer("algorithm", res.Algo),
		zap.Bool("optimal", res.Optimal),
		zap.Float64("objective", res.Objective),
		zap.Int("nodes", res.Nodes),
		zap.Duration("elapsed", time.Since(start)),
	)

	return partition.FromAssignment(md.Samples(), res.Assignment)
}
