// SPDX-License-Identifier: MIT

package main

import (
	"errors"
	"fmt"
	"io"
	"os"
	"sort"
	"strconv"
	"time"

	"github.com/spf13/cobra"
	"go.uber.org/zap"

	"github.com/katalvlaran/pathogist/cluster"
	"github.com/katalvlaran/pathogist/genotype"
	"github.com/katalvlaran/pathogist/matrix"
	"github.com/katalvlaran/pathogist/model"
	"github.com/katalvlaran/pathogist/partition"
	"github.com/katalvlaran/pathogist/pipeline"
	"github.com/katalvlaran/pathogist/solver"
	"github.com/katalvlaran/pathogist/tabular"
)

// solverFlags are the backend knobs shared by correlation and consensus.
type solverFlags struct {
	algorithm string
	timeLimit time.Duration
}

func (f *solverFlags) register(cmd *cobra.Command) {
	cmd.Flags().StringVar(&f.algorithm, "algorithm", solver.Auto.String(), "solver backend: auto, exact, lp or pivot")
	cmd.Flags().DurationVar(&f.timeLimit, "time-limit", 0, "time limit per solve (0 = unlimited)")
}

func (f *solverFlags) options() (solver.Options, error) {
	opts := solver.DefaultOptions()
	algo, err := solver.ParseAlgorithm(f.algorithm)
	if err != nil {
		return opts, err
	}
	opts.Algo = algo
	opts.TimeLimit = f.timeLimit

	return opts, nil
}

func newAllCmd(a *app) *cobra.Command {
	var newConfig bool
	cmd := &cobra.Command{
		Use:   "all CONFIG",
		Short: "Run the whole pipeline from a YAML configuration",
		Long: `Runs distance matrix creation, correlation clustering of every modality and
consensus clustering as described by CONFIG. With -n a blank configuration is
written to CONFIG instead.`,
		Args: cobra.ExactArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			if newConfig {
				if err := pipeline.WriteTemplate(args[0]); err != nil {
					return err
				}
				fmt.Fprintf(cmd.OutOrStdout(), "New configuration file written at %s\n", args[0])
				return nil
			}

			cfg, err := pipeline.Load(args[0])
			if err != nil {
				return err
			}
			rep, err := pipeline.Run(cmd.Context(), cfg, pipeline.Deps{Logger: a.logger, Metrics: a.metrics})
			var pf *cluster.PartialFailure
			if errors.As(err, &pf) && rep != nil {
				logSolved(a.logger, rep)
			}
			return err
		},
	}
	cmd.Flags().BoolVarP(&newConfig, "new-config", "n", false, "write a blank configuration to CONFIG")

	return cmd
}

// logSolved reports the modalities that clustered before a partial failure.
func logSolved(log *zap.Logger, rep *pipeline.Report) {
	names := make([]string, 0, len(rep.Partitions))
	for name := range rep.Partitions {
		names = append(names, name)
	}
	sort.Strings(names)
	for _, name := range names {
		log.Warn("modality clustered before the run failed",
			zap.String("run_id", rep.RunID),
			zap.String("modality", name),
			zap.Int("clusters", rep.Partitions[name].NumClusters()),
		)
	}
}

func newCorrelationCmd(a *app) *cobra.Command {
	var (
		all bool
		sf  solverFlags
	)
	cmd := &cobra.Command{
		Use:   "correlation MATRIX THRESHOLD OUTPUT",
		Short: "Cluster one distance matrix by correlation clustering",
		Args:  cobra.ExactArgs(3),
		RunE: func(cmd *cobra.Command, args []string) error {
			threshold, err := strconv.ParseFloat(args[1], 64)
			if err != nil {
				return fmt.Errorf("threshold %q: %w", args[1], err)
			}
			opts, err := sf.options()
			if err != nil {
				return err
			}
			a.logger.Debug("opening distance matrix", zap.String("path", args[0]))
			m, err := tabular.ReadMatrixFile(args[0])
			if err != nil {
				return err
			}

			start := time.Now()
			p, err := cluster.Correlation(cmd.Context(), m, threshold, cluster.CorrelationOptions{
				Density: model.DensityFor(all),
				Solver:  opts,
				Logger:  a.logger,
			})
			a.metrics.ObserveSolve(pipeline.StageCorrelation, time.Since(start), err)
			if err != nil {
				return err
			}
			a.logger.Debug("writing clustering", zap.String("path", args[2]))
			return writeFile(args[2], func(w io.Writer) error { return tabular.WritePartition(w, p) })
		},
	}
	cmd.Flags().BoolVarP(&all, "all-constraints", "a", false, "use every triangle constraint (exact formulation); without it auto solves the mixed-triangle LP relaxation")
	sf.register(cmd)

	return cmd
}

func newConsensusCmd(a *app) *cobra.Command {
	var (
		all     bool
		summary bool
		links   string
		weights map[string]string
		sf      solverFlags
	)
	cmd := &cobra.Command{
		Use:   "consensus MATRICES_LIST CLUSTERINGS_LIST FINE_LIST OUTPUT",
		Short: "Reconcile per-modality clusterings by consensus clustering",
		Long: `MATRICES_LIST and CLUSTERINGS_LIST hold name=path lines; FINE_LIST holds
one modality name per line. Every matrix and clustering must cover exactly the
same samples. Pairs listed in the --links file (sample<TAB>sample) are always
clustered together. With --summary OUTPUT holds the consensus next to every
input clustering instead of the consensus alone.`,
		Args: cobra.ExactArgs(4),
		RunE: func(cmd *cobra.Command, args []string) error {
			opts, err := sf.options()
			if err != nil {
				return err
			}
			in, err := readConsensusInput(args[0], args[1], args[2], links, weights)
			if err != nil {
				return err
			}

			copts := cluster.ConsensusOptions{Density: model.DensityFor(all), Solver: opts, Logger: a.logger}
			start := time.Now()
			p, err := cluster.Consensus(cmd.Context(), in, copts)
			a.metrics.ObserveSolve(pipeline.StageConsensus, time.Since(start), err)
			if err != nil {
				return err
			}
			if !summary {
				return writeFile(args[3], func(w io.Writer) error { return tabular.WritePartition(w, p) })
			}
			s, err := cluster.Summarize(p, in.Partitions)
			if err != nil {
				return err
			}
			return writeFile(args[3], func(w io.Writer) error { return tabular.WriteSummary(w, s) })
		},
	}
	cmd.Flags().BoolVarP(&all, "all-constraints", "a", false, "use every triangle constraint (exact formulation); without it auto solves the mixed-triangle LP relaxation")
	cmd.Flags().BoolVarP(&summary, "summary", "s", false, "write the summary table (consensus and every input clustering)")
	cmd.Flags().StringVar(&links, "links", "", "file of sample pairs that must share a cluster")
	cmd.Flags().StringToStringVar(&weights, "weight", nil, "modality weight as name=w (repeatable)")
	sf.register(cmd)

	return cmd
}

// readConsensusInput loads every file the consensus command names.
func readConsensusInput(matricesList, clusteringsList, fineList, linksPath string, weights map[string]string) (cluster.ConsensusInput, error) {
	var in cluster.ConsensusInput

	mats, err := tabular.ReadBatchListFile(matricesList)
	if err != nil {
		return in, err
	}
	in.Matrices = make(map[string]*matrix.Dissimilarity, len(mats))
	for _, np := range mats {
		if in.Matrices[np.Name], err = tabular.ReadMatrixFile(np.Path); err != nil {
			return in, fmt.Errorf("matrix %q: %w", np.Name, err)
		}
	}

	parts, err := tabular.ReadBatchListFile(clusteringsList)
	if err != nil {
		return in, err
	}
	in.Partitions = make(map[string]*partition.Partition, len(parts))
	for _, np := range parts {
		if in.Partitions[np.Name], err = tabular.ReadPartitionFile(np.Path); err != nil {
			return in, fmt.Errorf("clustering %q: %w", np.Name, err)
		}
	}

	if in.Fine, err = tabular.ReadNameListFile(fineList); err != nil {
		return in, err
	}

	if linksPath != "" {
		if in.Links, err = readLinks(linksPath); err != nil {
			return in, err
		}
	}

	if len(weights) > 0 {
		in.Weights = make(map[string]float64, len(weights))
		names := make([]string, 0, len(weights))
		for name := range weights {
			names = append(names, name)
		}
		sort.Strings(names)
		for _, name := range names {
			w, err := strconv.ParseFloat(weights[name], 64)
			if err != nil {
				return in, fmt.Errorf("weight %s=%s: %w", name, weights[name], err)
			}
			in.Weights[name] = w
		}
	}

	return in, nil
}

// readLinks reads "sample<TAB>sample" lines.
func readLinks(path string) ([][2]string, error) {
	return withRecords(path, func(recs []tabular.Record) ([][2]string, error) {
		out := make([][2]string, 0, len(recs))
		for _, rec := range recs {
			if len(rec.Fields) != 2 {
				return nil, &tabular.LineError{Line: rec.Line, Err: fmt.Errorf("want two samples: %w", tabular.ErrMalformed)}
			}
			out = append(out, [2]string{rec.Fields[0], rec.Fields[1]})
		}
		return out, nil
	})
}

func withRecords[T any](path string, fn func([]tabular.Record) (T, error)) (T, error) {
	var zero T
	rc, err := os.Open(path)
	if err != nil {
		return zero, err
	}
	defer rc.Close()

	recs, err := tabular.ReadRecords(rc)
	if err != nil {
		return zero, fmt.Errorf("%s: %w", path, err)
	}
	v, err := fn(recs)
	if err != nil {
		return zero, fmt.Errorf("%s: %w", path, err)
	}

	return v, nil
}

func newDistanceCmd(a *app) *cobra.Command {
	return &cobra.Command{
		Use:   "distance CALLS {SNP|MLST|CNV} OUTPUT",
		Short: "Build a distance matrix from genotype calls",
		Long: `CALLS is either a single calls table or, with the .list extension, a file of
sample<TAB>path lines naming one calls file per sample.`,
		Args: cobra.ExactArgs(3),
		RunE: func(cmd *cobra.Command, args []string) error {
			kind, err := genotype.ParseKind(args[1])
			if err != nil {
				return err
			}
			a.logger.Debug("building distance matrix", zap.Stringer("kind", kind), zap.String("calls", args[0]))
			m, err := genotype.BuildMatrixFile(kind, args[0], nil)
			if err != nil {
				return err
			}
			return writeFile(args[2], func(w io.Writer) error { return tabular.WriteMatrix(w, m) })
		},
	}
}
