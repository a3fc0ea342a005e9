// SPDX-License-Identifier: MIT

// Command pathogist clusters genotyped samples per assay by correlation
// clustering and reconciles the assays by consensus clustering.
//
//	pathogist all CONFIG              run the configured pipeline
//	pathogist all -n CONFIG           write a blank configuration
//	pathogist correlation MATRIX THRESHOLD OUTPUT
//	pathogist consensus MATRICES CLUSTERINGS FINE OUTPUT
//	pathogist distance CALLS {SNP|MLST|CNV} OUTPUT
package main

import (
	"context"
	"fmt"
	"io"
	"os"
	"os/signal"
	"strings"
	"syscall"

	"github.com/spf13/cobra"
	"go.uber.org/zap"
	"go.uber.org/zap/zapcore"

	"github.com/katalvlaran/pathogist/pipeline"
)

var logLevels = []string{"debug", "info", "warn", "error"}

// app holds the state shared by every subcommand of one invocation.
type app struct {
	logLevel    string
	metricsFile string

	logger  *zap.Logger
	metrics *pipeline.Metrics

	// buildLogger turns the parsed level into a logger.
	buildLogger func(level zapcore.Level) (*zap.Logger, error)
}

func productionLogger(level zapcore.Level) (*zap.Logger, error) {
	config := zap.NewProductionConfig()
	config.Level = zap.NewAtomicLevelAt(level)

	return config.Build()
}

func newRootCmd() *cobra.Command {
	return (&app{buildLogger: productionLogger}).rootCmd()
}

func (a *app) rootCmd() *cobra.Command {
	root := &cobra.Command{
		Use:   "pathogist",
		Short: "Correlation and consensus clustering of genotyped samples",
		Long: `pathogist clusters samples typed by several assays (SNP, MLST, CNV or any
precomputed distance matrix). Each assay is clustered by correlation
clustering at its own threshold; the per-assay partitions are reconciled by
consensus clustering in which "fine" assays may never be merged across.`,
		SilenceUsage:      true,
		PersistentPreRunE: a.setup,
		PersistentPostRunE: func(cmd *cobra.Command, _ []string) error {
			return a.teardown()
		},
	}
	root.PersistentFlags().StringVar(&a.logLevel, "log-level", "info",
		"log level: "+strings.Join(logLevels, ", "))
	root.PersistentFlags().StringVar(&a.metricsFile, "metrics-file", "",
		"write solve metrics in Prometheus text format to this file")

	root.AddCommand(
		newAllCmd(a),
		newCorrelationCmd(a),
		newConsensusCmd(a),
		newDistanceCmd(a),
	)

	return root
}

// setup builds the logger and, when requested, the metrics collector.
func (a *app) setup(*cobra.Command, []string) error {
	level, err := parseLevel(a.logLevel)
	if err != nil {
		return err
	}
	if a.logger, err = a.buildLogger(level); err != nil {
		return fmt.Errorf("initialize logger: %w", err)
	}
	if a.metricsFile != "" {
		a.metrics = pipeline.NewMetrics()
	}

	return nil
}

func (a *app) teardown() error {
	if a.logger != nil {
		_ = a.logger.Sync()
	}
	if a.metrics != nil {
		if err := a.metrics.WriteFile(a.metricsFile); err != nil {
			return fmt.Errorf("write metrics: %w", err)
		}
	}

	return nil
}

func parseLevel(s string) (zapcore.Level, error) {
	for _, name := range logLevels {
		if strings.EqualFold(s, name) {
			return zapcore.ParseLevel(name)
		}
	}

	return zapcore.InfoLevel, fmt.Errorf("invalid --log-level %q (want one of %s)", s, strings.Join(logLevels, ", "))
}

// writeFile creates path and hands it to write.
func writeFile(path string, write func(io.Writer) error) (err error) {
	f, err := os.Create(path)
	if err != nil {
		return err
	}
	defer func() {
		if cerr := f.Close(); err == nil {
			err = cerr
		}
	}()

	return write(f)
}

func main() {
	ctx, stop := signal.NotifyContext(context.Background(), os.Interrupt, syscall.SIGTERM)
	defer stop()

	if err := newRootCmd().ExecuteContext(ctx); err != nil {
		stop()
		os.Exit(1)
	}
}
