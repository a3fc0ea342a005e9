// SPDX-License-Identifier: MIT

package pipeline_test

import (
	"bytes"
	"context"
	"errors"
	"os"
	"path/filepath"
	"sort"
	"strings"
	"testing"
	"time"

	"github.com/google/go-cmp/cmp"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"go.uber.org/zap"
	"go.uber.org/zap/zapcore"
	"go.uber.org/zap/zaptest/observer"

	"github.com/katalvlaran/pathogist/cluster"
	"github.com/katalvlaran/pathogist/model"
	"github.com/katalvlaran/pathogist/pipeline"
	"github.com/katalvlaran/pathogist/solver"
)

func parse(t *testing.T, doc string) (*pipeline.Config, error) {
	t.Helper()
	return pipeline.Parse(strings.NewReader(doc))
}

const validDoc = `
distances:
  PFGE: /data/pfge.tsv
genotyping:
  SNP: /data/snp.tsv
thresholds:
  PFGE: 5
  SNP: 2
all_constraints: true
fine_clusterings: [PFGE]
weights:
  SNP: 2
workers: 2
solver:
  algorithm: pivot
  time_limit: 1m30s
  restarts: 4
  seed: 7
  max_lp_cells: 5000
output: /data/out.tsv
`

func TestParse_Valid(t *testing.T) {
	t.Parallel()

	cfg, err := parse(t, validDoc)
	require.NoError(t, err)
	assert.Equal(t, []string{"PFGE", "SNP"}, cfg.Modalities())
	assert.Equal(t, model.AllTriangles, cfg.Density())
	assert.Equal(t, 2.0, cfg.Weights["SNP"])

	opts, err := cfg.SolverOptions()
	require.NoError(t, err)
	want := solver.DefaultOptions()
	want.Algo = solver.Pivot
	want.TimeLimit = 90 * time.Second
	want.Restarts = 4
	want.Seed = 7
	want.MaxLPCells = 5000
	if diff := cmp.Diff(want, opts); diff != "" {
		t.Fatalf("solver options (-want +got):\n%s", diff)
	}
}

func TestParse_Invariants(t *testing.T) {
	t.Parallel()

	tests := []struct {
		name      string
		doc       string
		invariant string
		keys      []string
	}{
		{
			name:      "not yaml",
			doc:       "distances: [unterminated",
			invariant: pipeline.InvParse,
		},
		{
			name:      "empty document",
			doc:       "",
			invariant: pipeline.InvParse,
		},
		{
			name:      "unknown key",
			doc:       "distancez: {}\noutput: o.tsv\n",
			invariant: pipeline.InvParse,
		},
		{
			name:      "missing output",
			doc:       "distances: {A: a.tsv}\nthresholds: {A: 1}\n",
			invariant: pipeline.InvSchema,
			keys:      []string{"output"},
		},
		{
			name:      "nan threshold",
			doc:       "distances: {A: a.tsv}\nthresholds: {A: .nan}\noutput: o.tsv\n",
			invariant: pipeline.InvSchema,
			keys:      []string{"thresholds[A]"},
		},
		{
			name:      "infinite threshold",
			doc:       "distances: {A: a.tsv}\nthresholds: {A: -.inf}\noutput: o.tsv\n",
			invariant: pipeline.InvSchema,
		},
		{
			name:      "negative max lp cells",
			doc:       "distances: {A: a.tsv}\nthresholds: {A: 1}\nsolver: {max_lp_cells: -1}\noutput: o.tsv\n",
			invariant: pipeline.InvSchema,
		},
		{
			name:      "bad algorithm",
			doc:       "distances: {A: a.tsv}\nthresholds: {A: 1}\nsolver: {algorithm: annealing}\noutput: o.tsv\n",
			invariant: pipeline.InvSchema,
		},
		{
			name:      "shared key",
			doc:       "distances: {SNP: a.tsv}\ngenotyping: {SNP: b.tsv}\nthresholds: {SNP: 1}\noutput: o.tsv\n",
			invariant: pipeline.InvDisjoint,
			keys:      []string{"SNP"},
		},
		{
			name:      "no modality",
			doc:       "output: o.tsv\n",
			invariant: pipeline.InvAtLeastOneModality,
			keys:      []string{"distances", "genotyping"},
		},
		{
			name:      "unknown kind",
			doc:       "genotyping: {RFLP: a.tsv}\nthresholds: {RFLP: 1}\noutput: o.tsv\n",
			invariant: pipeline.InvGenotypingKindKnown,
			keys:      []string{"RFLP"},
		},
		{
			name:      "threshold missing and extra",
			doc:       "distances: {A: a.tsv, B: b.tsv}\nthresholds: {A: 1, C: 2}\noutput: o.tsv\n",
			invariant: pipeline.InvThresholdsCover,
			keys:      []string{"B", "C"},
		},
		{
			name:      "fine not a modality",
			doc:       "distances: {A: a.tsv}\nthresholds: {A: 1}\nfine_clusterings: [Z, A, Z]\noutput: o.tsv\n",
			invariant: pipeline.InvFineSubset,
			keys:      []string{"Z"},
		},
		{
			name:      "weight not a modality",
			doc:       "distances: {A: a.tsv}\nthresholds: {A: 1}\nweights: {B: 2}\noutput: o.tsv\n",
			invariant: pipeline.InvWeightsSubset,
			keys:      []string{"B"},
		},
		{
			name:      "zero weight",
			doc:       "distances: {A: a.tsv}\nthresholds: {A: 1}\nweights: {A: 0}\noutput: o.tsv\n",
			invariant: pipeline.InvSchema,
		},
	}
	for _, tc := range tests {
		tc := tc
		t.Run(tc.name, func(t *testing.T) {
			t.Parallel()
			_, err := parse(t, tc.doc)
			require.ErrorIs(t, err, pipeline.ErrConfig)

			var ce *pipeline.ConfigError
			require.True(t, errors.As(err, &ce))
			assert.Equal(t, tc.invariant, ce.Invariant)
			if tc.keys != nil {
				assert.Equal(t, tc.keys, ce.Keys)
			}
		})
	}
}

func TestTemplate(t *testing.T) {
	t.Parallel()

	path := filepath.Join(t.TempDir(), "config.yaml")
	require.NoError(t, pipeline.WriteTemplate(path))
	body, err := os.ReadFile(path)
	require.NoError(t, err)
	assert.Equal(t, pipeline.Template(), body)

	// The blank template parses but names no output yet.
	_, err = pipeline.Load(path)
	var ce *pipeline.ConfigError
	require.True(t, errors.As(err, &ce))
	assert.Equal(t, pipeline.InvSchema, ce.Invariant)
	assert.Equal(t, []string{"output"}, ce.Keys)
}

func TestConfigError_Message(t *testing.T) {
	t.Parallel()

	err := &pipeline.ConfigError{Invariant: pipeline.InvFineSubset, Keys: []string{"X", "Y"}}
	assert.Equal(t, "pipeline: config fine_subset_of_modalities [X, Y]", err.Error())
}

// fixture writes a run over four samples: SNP calls pair A-B and C-D,
// PFGE separates C from D and carries an extra sample E.
func fixture(t *testing.T) (dir string, doc string) {
	t.Helper()
	dir = t.TempDir()
	write := func(name, body string) string {
		p := filepath.Join(dir, name)
		require.NoError(t, os.WriteFile(p, []byte(body), 0o600))
		return p
	}
	snp := write("snp.tsv", "sample\tvariant\nA\tv1\nB\tv1\nC\tv5\nC\tv6\nC\tv7\nD\tv5\nD\tv6\nD\tv7\nD\tv8\n")
	pfge := write("pfge.tsv", "\tA\tB\tC\tD\tE\n"+
		"A\t0\t1\t9\t9\t9\n"+
		"B\t1\t0\t9\t9\t9\n"+
		"C\t9\t9\t0\t9\t9\n"+
		"D\t9\t9\t9\t0\t9\n"+
		"E\t9\t9\t9\t9\t0\n")
	doc = "genotyping: {SNP: " + snp + "}\n" +
		"distances: {PFGE: " + pfge + "}\n" +
		"thresholds: {SNP: 2, PFGE: 5}\n" +
		"fine_clusterings: [PFGE]\n" +
		"output: " + filepath.Join(dir, "out", "summary.tsv") + "\n"

	return dir, doc
}

func TestRun_EndToEnd(t *testing.T) {
	t.Parallel()

	dir, doc := fixture(t)
	cfg, err := parse(t, doc)
	require.NoError(t, err)

	core, logs := observer.New(zapcore.DebugLevel)
	metrics := pipeline.NewMetrics()
	rep, err := pipeline.Run(context.Background(), cfg, pipeline.Deps{Logger: zap.New(core), Metrics: metrics})
	require.NoError(t, err)

	assert.Equal(t, [][]string{{"A", "B"}, {"C", "D"}}, rep.Partitions["SNP"].Clusters())
	assert.Equal(t, [][]string{{"A", "B"}, {"C"}, {"D"}}, rep.Partitions["PFGE"].Clusters())
	assert.Equal(t, [][]string{{"A", "B"}, {"C"}, {"D"}}, rep.Consensus.Clusters())
	assert.Equal(t, map[string][]string{"PFGE": {"E"}}, rep.Alignment.Dropped)

	out, err := os.ReadFile(filepath.Join(dir, "out", "summary.tsv"))
	require.NoError(t, err)
	assert.Equal(t, "Sample\tFinal\tPFGE\tSNP\n"+
		"A\t1\t1\t1\n"+
		"B\t1\t1\t1\n"+
		"C\t2\t2\t2\n"+
		"D\t3\t3\t2\n", string(out))

	require.Equal(t, 1, logs.FilterMessage("dropping samples").Len())
	for _, e := range logs.All() {
		assert.Equal(t, rep.RunID, e.ContextMap()["run_id"], e.Message)
	}

	var text bytes.Buffer
	require.NoError(t, metrics.WriteText(&text))
	assert.Contains(t, text.String(), `pathogist_solves_total{outcome="ok",stage="correlation"} 2`)
	assert.Contains(t, text.String(), `pathogist_solves_total{outcome="ok",stage="consensus"} 1`)
	assert.Contains(t, text.String(), `pathogist_solve_duration_seconds_count{stage="correlation"} 2`)
}

func TestRun_Deterministic(t *testing.T) {
	t.Parallel()

	_, doc := fixture(t)
	cfg, err := parse(t, doc)
	require.NoError(t, err)

	first, err := pipeline.Run(context.Background(), cfg, pipeline.Deps{})
	require.NoError(t, err)
	second, err := pipeline.Run(context.Background(), cfg, pipeline.Deps{})
	require.NoError(t, err)

	assert.NotEqual(t, first.RunID, second.RunID)
	assert.Equal(t, first.Summary, second.Summary)
}

func TestRun_Failures(t *testing.T) {
	t.Parallel()

	_, doc := fixture(t)
	cfg, err := parse(t, doc)
	require.NoError(t, err)

	ctx, cancel := context.WithCancel(context.Background())
	cancel()
	metrics := pipeline.NewMetrics()
	rep, err := pipeline.Run(ctx, cfg, pipeline.Deps{Metrics: metrics})
	var pf *cluster.PartialFailure
	require.True(t, errors.As(err, &pf))
	assert.Len(t, pf.Failed, 2)
	require.ErrorIs(t, err, solver.ErrTimeout)
	require.NotNil(t, rep)
	assert.Empty(t, rep.Partitions)
	assert.Nil(t, rep.Consensus)

	var text bytes.Buffer
	require.NoError(t, metrics.WriteText(&text))
	assert.Contains(t, text.String(), `pathogist_solves_total{outcome="timeout",stage="correlation"} 2`)

	missing := *cfg
	missing.Distances = map[string]string{"PFGE": filepath.Join(t.TempDir(), "absent.tsv")}
	_, err = pipeline.Run(context.Background(), &missing, pipeline.Deps{})
	require.ErrorIs(t, err, os.ErrNotExist)
	require.ErrorContains(t, err, `distances "PFGE"`)

	_, err = pipeline.Run(context.Background(), nil, pipeline.Deps{})
	require.ErrorIs(t, err, pipeline.ErrConfig)
}

func TestRun_PartialFailureKeepsSolvedModalities(t *testing.T) {
	t.Parallel()

	// The SNP tableau has 432 cells and the aligned PFGE one 216.
	dir, doc := fixture(t)
	cfg, err := parse(t, doc+"solver: {algorithm: lp, max_lp_cells: 300}\n")
	require.NoError(t, err)

	core, logs := observer.New(zapcore.WarnLevel)
	rep, err := pipeline.Run(context.Background(), cfg, pipeline.Deps{Logger: zap.New(core)})
	var pf *cluster.PartialFailure
	require.True(t, errors.As(err, &pf))
	assert.Equal(t, []string{"SNP"}, keysOf(pf.Failed))
	require.ErrorIs(t, err, solver.ErrTooLarge)

	require.NotNil(t, rep)
	assert.NotEmpty(t, rep.RunID)
	assert.Equal(t, []string{"PFGE"}, keysOf(rep.Partitions))
	assert.Equal(t, [][]string{{"A", "B"}, {"C"}, {"D"}}, rep.Partitions["PFGE"].Clusters())
	assert.Equal(t, map[string][]string{"PFGE": {"E"}}, rep.Alignment.Dropped)
	assert.Nil(t, rep.Consensus)
	assert.Nil(t, rep.Summary)

	_, err = os.Stat(filepath.Join(dir, "out", "summary.tsv"))
	require.ErrorIs(t, err, os.ErrNotExist)

	entries := logs.FilterMessage("correlation failed for some modalities").All()
	require.Len(t, entries, 1)
	assert.Equal(t, rep.RunID, entries[0].ContextMap()["run_id"])
}

func TestParse_NegativeThreshold(t *testing.T) {
	t.Parallel()

	cfg, err := parse(t, "distances: {A: a.tsv}\nthresholds: {A: -1.5}\noutput: o.tsv\n")
	require.NoError(t, err)
	assert.Equal(t, -1.5, cfg.Thresholds["A"])
}

func keysOf[V any](m map[string]V) []string {
	out := make([]string, 0, len(m))
	for k := range m {
		out = append(out, k)
	}
	sort.Strings(out)

	return out
}

func TestOutcome(t *testing.T) {
	t.Parallel()

	tests := []struct {
		err  error
		want string
	}{
		{nil, "ok"},
		{&solver.Error{Kind: solver.Timeout}, "timeout"},
		{&solver.Error{Kind: solver.Infeasible}, "infeasible"},
		{&solver.Error{Kind: solver.NonConvergence}, "non_convergence"},
		{&model.ConflictError{Pair: [2]string{"A", "B"}}, "conflict"},
		{&cluster.PreconditionError{Invariant: cluster.InvFineKnown}, "precondition"},
		{errors.New("disk full"), "error"},
	}
	for _, tc := range tests {
		assert.Equal(t, tc.want, pipeline.Outcome(tc.err))
	}

	var m *pipeline.Metrics
	m.ObserveSolve(pipeline.StageConsensus, time.Second, nil)
	require.NoError(t, m.WriteText(&bytes.Buffer{}))
}
