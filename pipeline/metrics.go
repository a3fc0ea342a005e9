// SPDX-License-Identifier: MIT

package pipeline

import (
	"errors"
	"io"
	"os"
	"time"

	"github.com/prometheus/client_golang/prometheus"
	"github.com/prometheus/common/expfmt"

	"github.com/katalvlaran/pathogist/cluster"
	"github.com/katalvlaran/pathogist/model"
	"github.com/katalvlaran/pathogist/solver"
)

// Stage labels.
const (
	StageCorrelation = "correlation"
	StageConsensus   = "consensus"
)

// Metrics collects solve counts and durations on a private registry. A nil
// *Metrics records nothing.
type Metrics struct {
	registry *prometheus.Registry

	solves   *prometheus.CounterVec
	duration *prometheus.HistogramVec
}

// NewMetrics registers the collectors on a fresh registry.
func NewMetrics() *Metrics {
	m := &Metrics{
		registry: prometheus.NewRegistry(),
		solves: prometheus.NewCounterVec(
			prometheus.CounterOpts{
				Namespace: "pathogist",
				Name:      "solves_total",
				Help:      "Clustering solves by stage and outcome.",
			},
			[]string{"stage", "outcome"},
		),
		duration: prometheus.NewHistogramVec(
			prometheus.HistogramOpts{
				Namespace: "pathogist",
				Name:      "solve_duration_seconds",
				Help:      "Wall time of clustering solves.",
				Buckets:   prometheus.ExponentialBuckets(0.001, 4, 10),
			},
			[]string{"stage"},
		),
	}
	m.registry.MustRegister(m.solves, m.duration)

	return m
}

// Registry exposes the private registry, e.g. for a push gateway.
func (m *Metrics) Registry() *prometheus.Registry {
	if m == nil {
		return nil
	}

	return m.registry
}

// ObserveSolve records one solve of stage that took elapsed and ended
// with err.
func (m *Metrics) ObserveSolve(stage string, elapsed time.Duration, err error) {
	if m == nil {
		return
	}
	m.solves.WithLabelValues(stage, Outcome(err)).Inc()
	m.duration.WithLabelValues(stage).Observe(elapsed.Seconds())
}

// Outcome maps a solve error onto its metric label.
func Outcome(err error) string {
	switch {
	case err == nil:
		return "ok"
	case errors.Is(err, solver.ErrTimeout):
		return "timeout"
	case errors.Is(err, solver.ErrInfeasible):
		return "infeasible"
	case errors.Is(err, solver.ErrNonConvergence):
		return "non_convergence"
	case errors.Is(err, model.ErrConflict):
		return "conflict"
	case errors.Is(err, cluster.ErrPrecondition):
		return "precondition"
	default:
		return "error"
	}
}

// WriteText writes every collected family in the Prometheus text format.
func (m *Metrics) WriteText(w io.Writer) error {
	if m == nil {
		return nil
	}
	families, err := m.registry.Gather()
	if err != nil {
		return err
	}
	for _, mf := range families {
		if _, err = expfmt.MetricFamilyToText(w, mf); err != nil {
			return err
		}
	}

	return nil
}

// WriteFile is WriteText into the file at path.
func (m *Metrics) WriteFile(path string) (err error) {
	f, err := os.Create(path)
	if err != nil {
		return err
	}
	defer func() {
		if cerr := f.Close(); err == nil {
			err = cerr
		}
	}()

	return m.WriteText(f)
}
