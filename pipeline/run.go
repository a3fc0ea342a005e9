// SPDX-License-Identifier: MIT

package pipeline

import (
	"context"
	"errors"
	"fmt"
	"os"
	"path/filepath"
	"time"

	"github.com/google/uuid"
	"go.uber.org/zap"

	"github.com/katalvlaran/pathogist/align"
	"github.com/katalvlaran/pathogist/cluster"
	"github.com/katalvlaran/pathogist/genotype"
	"github.com/katalvlaran/pathogist/matrix"
	"github.com/katalvlaran/pathogist/partition"
	"github.com/katalvlaran/pathogist/tabular"
)

// Deps are the collaborators of one Run. Every field is optional.
type Deps struct {
	// Logger is tagged with the run id; nil means no logging.
	Logger *zap.Logger
	// Metrics receives one observation per solve.
	Metrics *Metrics
	// Open reads input files; nil means the local file system.
	Open genotype.Opener
}

// Report is the outcome of a Run. After a *cluster.PartialFailure it holds
// the alignment and the partitions that did solve, and nothing else.
type Report struct {
	RunID string
	// Partitions holds the correlation partition of every modality.
	Partitions map[string]*partition.Partition
	// Consensus is the final partition.
	Consensus *partition.Partition
	Summary   *cluster.Summary
	// Alignment describes samples dropped to match the matrices.
	Alignment align.Report
	Elapsed   time.Duration
}

// Run executes the configured pipeline and writes the summary table to
// cfg.Output.
//
// Stage 1 (Matrices): build genotype matrices, read precomputed ones.
// Stage 2 (Align): restrict all matrices to their common samples.
// Stage 3 (Correlation): one solve per modality, in parallel.
// Stage 4 (Consensus): reconcile the partitions with fine modalities hard.
// Stage 5 (Output): summarize and write.
//
// On *cluster.PartialFailure the partial Report is returned with the error
// and no output is written. Every other error returns a nil Report.
//
// Errors: *ConfigError, file and format errors naming the modality,
// *align.ShapeError, *cluster.PartialFailure, *cluster.PreconditionError,
// *model.ConflictError, *solver.Error.
func Run(ctx context.Context, cfg *Config, deps Deps) (*Report, error) {
	if cfg == nil {
		return nil, &ConfigError{Invariant: InvParse, Err: errors.New("nil configuration")}
	}
	if err := cfg.Validate(); err != nil {
		return nil, err
	}
	solverOpts, err := cfg.SolverOptions()
	if err != nil {
		return nil, err
	}
	open := deps.Open
	if open == nil {
		open = genotype.OpenFile
	}
	log := deps.Logger
	if log == nil {
		log = zap.NewNop()
	}

	start := time.Now()
	rep := &Report{RunID: uuid.NewString()}
	log = log.With(zap.String("run_id", rep.RunID))
	log.Info("pipeline started", zap.Strings("modalities", cfg.Modalities()))

	// Stage 1
	mats, err := loadMatrices(cfg, open, log)
	if err != nil {
		return nil, err
	}

	// Stage 2
	mats, rep.Alignment, err = align.NewAligner(log).AlignMatrices(mats)
	if err != nil {
		return nil, err
	}

	// Stage 3
	copts := cluster.CorrelationOptions{Density: cfg.Density(), Solver: solverOpts, Logger: log}
	jobs := make([]cluster.Job, 0, len(mats))
	for _, name := range keys(mats) {
		jobs = append(jobs, cluster.Job{Name: name, Matrix: mats[name], Threshold: cfg.Thresholds[name]})
	}
	log.Info("clustering modalities", zap.Int("jobs", len(jobs)), zap.Stringer("density", copts.Density))
	batch, err := cluster.CorrelateAll(ctx, jobs, cfg.Workers, copts)
	if batch != nil {
		observeBatch(deps.Metrics, batch, err)
		rep.Partitions = batch.Partitions
	}
	var pf *cluster.PartialFailure
	if errors.As(err, &pf) {
		rep.Elapsed = time.Since(start)
		log.Warn("correlation failed for some modalities",
			zap.Strings("failed", keys(pf.Failed)),
			zap.Strings("solved", keys(rep.Partitions)),
		)
		return rep, err
	}
	if err != nil {
		return nil, err
	}

	// Stage 4
	log.Info("consensus clustering", zap.Strings("fine", cfg.FineClusterings))
	consOpts := cluster.DefaultConsensusOptions()
	consOpts.Solver = solverOpts
	consOpts.Logger = log
	cstart := time.Now()
	rep.Consensus, err = cluster.Consensus(ctx, cluster.ConsensusInput{
		Matrices:   mats,
		Partitions: batch.Partitions,
		Fine:       cfg.FineClusterings,
		Weights:    cfg.Weights,
	}, consOpts)
	deps.Metrics.ObserveSolve(StageConsensus, time.Since(cstart), err)
	if err != nil {
		return nil, err
	}

	// Stage 5
	if rep.Summary, err = cluster.Summarize(rep.Consensus, batch.Partitions); err != nil {
		return nil, err
	}
	if err = writeSummary(cfg.Output, rep.Summary); err != nil {
		return nil, err
	}
	rep.Elapsed = time.Since(start)
	log.Info("pipeline finished",
		zap.String("output", cfg.Output),
		zap.Int("samples", rep.Consensus.N()),
		zap.Int("clusters", rep.Consensus.NumClusters()),
		zap.Duration("elapsed", rep.Elapsed),
	)

	return rep, nil
}

// loadMatrices builds the genotyping matrices and reads the precomputed
// ones, in name order.
func loadMatrices(cfg *Config, open genotype.Opener, log *zap.Logger) (map[string]*matrix.Dissimilarity, error) {
	mats := make(map[string]*matrix.Dissimilarity, len(cfg.Genotyping)+len(cfg.Distances))
	for _, name := range keys(cfg.Genotyping) {
		kind, err := genotype.ParseKind(name)
		if err != nil {
			return nil, &ConfigError{Invariant: InvGenotypingKindKnown, Keys: []string{name}, Err: err}
		}
		path := cfg.Genotyping[name]
		log.Info("building distance matrix", zap.String("modality", name), zap.String("calls", path))
		if mats[name], err = genotype.BuildMatrixFile(kind, path, open); err != nil {
			return nil, fmt.Errorf("pipeline: genotyping %q: %w", name, err)
		}
	}
	for _, name := range keys(cfg.Distances) {
		path := cfg.Distances[name]
		log.Info("reading distance matrix", zap.String("modality", name), zap.String("path", path))
		m, err := readMatrix(open, path)
		if err != nil {
			return nil, fmt.Errorf("pipeline: distances %q: %w", name, err)
		}
		mats[name] = m
	}

	return mats, nil
}

func readMatrix(open genotype.Opener, path string) (*matrix.Dissimilarity, error) {
	rc, err := open(path)
	if err != nil {
		return nil, err
	}
	defer rc.Close()

	m, err := tabular.ReadMatrix(rc)
	if err != nil {
		return nil, fmt.Errorf("%s: %w", path, err)
	}

	return m, nil
}

// observeBatch records every correlation job; failed jobs are taken from
// the partial failure.
func observeBatch(m *Metrics, batch *cluster.Batch, err error) {
	var (
		failed map[string]error
		pf     *cluster.PartialFailure
	)
	if errors.As(err, &pf) {
		failed = pf.Failed
	}
	for _, name := range keys(batch.Elapsed) {
		m.ObserveSolve(StageCorrelation, batch.Elapsed[name], failed[name])
	}
}

// writeSummary writes s to path, creating parent directories.
func writeSummary(path string, s *cluster.Summary) (err error) {
	if dir := filepath.Dir(path); dir != "." {
		if err = os.MkdirAll(dir, 0o755); err != nil {
			return err
		}
	}
	f, err := os.Create(path)
	if err != nil {
		return err
	}
	defer func() {
		if cerr := f.Close(); err == nil {
			err = cerr
		}
	}()

	return tabular.WriteSummary(f, s)
}
