// SPDX-License-Identifier: MIT
package align_test

import (
	"errors"
	"testing"

	"github.com/stretchr/testify/require"
	"go.uber.org/zap"
	"go.uber.org/zap/zapcore"
	"go.uber.org/zap/zaptest/observer"

	"github.com/katalvlaran/pathogist/align"
	"github.com/katalvlaran/pathogist/matrix"
	"github.com/katalvlaran/pathogist/partition"
)

func uniform(t *testing.T, ids ...string) *matrix.Dissimilarity {
	t.Helper()
	m, err := matrix.Build(ids, func(a, b string) float64 { return float64(len(a) + len(b)) })
	require.NoError(t, err)
	return m
}

func TestIntersect(t *testing.T) {
	t.Parallel()

	require.Nil(t, align.Intersect())
	require.Equal(t, []string{"b", "c"}, align.Intersect(
		[]string{"c", "a", "b"},
		[]string{"b", "c", "d", "c"},
	))
	require.Empty(t, align.Intersect([]string{"a"}, []string{"b"}))
}

func TestAlignMatrices_NoOpWhenIdentical(t *testing.T) {
	t.Parallel()

	core, logs := observer.New(zapcore.WarnLevel)
	a := align.NewAligner(zap.New(core))

	snp := uniform(t, "A", "B", "C")
	mlst := uniform(t, "C", "B", "A")
	out, rep, err := a.AlignMatrices(map[string]*matrix.Dissimilarity{"SNP": snp, "MLST": mlst})
	require.NoError(t, err)
	require.False(t, rep.Changed)
	require.Same(t, snp, out["SNP"])
	require.Same(t, mlst, out["MLST"])
	require.Zero(t, logs.Len())
}

func TestAlignMatrices_RestrictsAndWarns(t *testing.T) {
	t.Parallel()

	core, logs := observer.New(zapcore.WarnLevel)
	a := align.NewAligner(zap.New(core))

	snp := uniform(t, "A", "B", "C", "X")
	mlst := uniform(t, "A", "B", "C", "Y")
	cnv := uniform(t, "A", "B", "C")
	out, rep, err := a.AlignMatrices(map[string]*matrix.Dissimilarity{"SNP": snp, "MLST": mlst, "CNV": cnv})
	require.NoError(t, err)
	require.True(t, rep.Changed)
	require.Equal(t, []string{"A", "B", "C"}, rep.Common)
	require.Equal(t, map[string][]string{"SNP": {"X"}, "MLST": {"Y"}}, rep.Dropped)

	for name, m := range out {
		require.Equalf(t, rep.Common, m.Samples(), "input %s", name)
		require.False(t, m.Has("X"))
		require.False(t, m.Has("Y"))
	}
	require.Same(t, cnv, out["CNV"])

	v, err := out["SNP"].At("A", "B")
	require.NoError(t, err)
	require.Equal(t, 2.0, v)

	require.Equal(t, 3, logs.Len()) // summary + one per restricted input
	require.Equal(t, zapcore.WarnLevel, logs.All()[0].Level)
}

func TestAlignMatrices_EmptyIntersection(t *testing.T) {
	t.Parallel()

	a := align.NewAligner(nil)
	_, _, err := a.AlignMatrices(map[string]*matrix.Dissimilarity{
		"SNP": uniform(t, "A", "B"),
		"CNV": uniform(t, "C", "D"),
	})
	require.Error(t, err)
	require.True(t, errors.Is(err, align.ErrShape))

	var se *align.ShapeError
	require.True(t, errors.As(err, &se))
	require.Equal(t, map[string]int{"SNP": 2, "CNV": 2}, se.Sizes)
	require.Contains(t, err.Error(), "CNV(2), SNP(2)")
}

func TestAlignPartitions(t *testing.T) {
	t.Parallel()

	a := align.NewAligner(zap.NewNop())
	p, err := partition.New(map[string]string{"A": "1", "B": "1", "C": "2", "Z": "3"})
	require.NoError(t, err)
	q, err := partition.New(map[string]string{"A": "x", "B": "y", "C": "y"})
	require.NoError(t, err)

	out, rep, err := a.AlignPartitions(map[string]*partition.Partition{"p": p, "q": q})
	require.NoError(t, err)
	require.Equal(t, []string{"A", "B", "C"}, rep.Common)
	require.Equal(t, []string{"A", "B", "C"}, out["p"].Samples())
	l, _ := out["p"].Label("C")
	require.Equal(t, "2", l)
	require.Same(t, q, out["q"])
}
