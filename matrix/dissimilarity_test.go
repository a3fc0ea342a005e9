// SPDX-License-Identifier: MIT
// Package matrix_test covers Dissimilarity construction, lookup and restriction.
package matrix_test

import (
	"errors"
	"math"
	"testing"

	"github.com/katalvlaran/pathogist/matrix"
	"github.com/stretchr/testify/require"
)

// fourSamples is the A/B/C/D table used across the module's tests.
func fourSamples(t *testing.T) *matrix.Dissimilarity {
	t.Helper()
	d, err := matrix.FromTable(
		[]string{"D", "C", "B", "A"},
		[][]float64{
			{0, 1, 9, 9},
			{1, 0, 9, 9},
			{9, 9, 0, 1},
			{9, 9, 1, 0},
		},
	)
	require.NoError(t, err)

	return d
}

func TestFromTable_SortsSamples(t *testing.T) {
	t.Parallel()

	d := fourSamples(t)
	require.Equal(t, []string{"A", "B", "C", "D"}, d.Samples())
	require.Equal(t, 4, d.N())

	v, err := d.At("A", "B")
	require.NoError(t, err)
	require.Equal(t, 1.0, v)

	v, err = d.At("C", "A")
	require.NoError(t, err)
	require.Equal(t, 9.0, v)

	require.Equal(t, 0.0, d.AtIndex(2, 2))
}

func TestFromTable_Errors(t *testing.T) {
	t.Parallel()

	tests := []struct {
		name string
		ids  []string
		rows [][]float64
		opts []matrix.Option
		want error
	}{
		{"empty", nil, nil, nil, matrix.ErrEmpty},
		{"empty id", []string{"a", ""}, [][]float64{{0, 1}, {1, 0}}, nil, matrix.ErrEmptySample},
		{"duplicate", []string{"a", "a"}, [][]float64{{0, 1}, {1, 0}}, nil, matrix.ErrDuplicateSample},
		{"ragged", []string{"a", "b"}, [][]float64{{0, 1}, {1}}, nil, matrix.ErrNonSquare},
		{"short", []string{"a", "b"}, [][]float64{{0, 1}}, nil, matrix.ErrNonSquare},
		{"nan", []string{"a", "b"}, [][]float64{{0, math.NaN()}, {1, 0}}, nil, matrix.ErrNaNInf},
		{"negative", []string{"a", "b"}, [][]float64{{0, -1}, {-1, 0}}, nil, matrix.ErrNegativeValue},
		{"asymmetric", []string{"a", "b"}, [][]float64{{0, 1}, {2, 0}}, nil, matrix.ErrAsymmetry},
		{"strict diagonal", []string{"a", "b"}, [][]float64{{3, 1}, {1, 0}},
			[]matrix.Option{matrix.WithStrictDiagonal()}, matrix.ErrNonZeroDiagonal},
	}

	for _, tc := range tests {
		tc := tc
		t.Run(tc.name, func(t *testing.T) {
			t.Parallel()
			_, err := matrix.FromTable(tc.ids, tc.rows, tc.opts...)
			require.Error(t, err)
			require.Truef(t, errors.Is(err, tc.want), "expected errors.Is(%v, %v)", err, tc.want)
		})
	}
}

func TestFromTable_IgnoresDiagonalByDefault(t *testing.T) {
	t.Parallel()

	d, err := matrix.FromTable([]string{"x", "y"}, [][]float64{{7, 2}, {2, 5}})
	require.NoError(t, err)
	v, err := d.At("x", "x")
	require.NoError(t, err)
	require.Zero(t, v)
}

func TestFromTable_EpsilonTolerance(t *testing.T) {
	t.Parallel()

	rows := [][]float64{{0, 1}, {1.001, 0}}
	_, err := matrix.FromTable([]string{"a", "b"}, rows)
	require.ErrorIs(t, err, matrix.ErrAsymmetry)

	_, err = matrix.FromTable([]string{"a", "b"}, rows, matrix.WithEpsilon(0.01))
	require.NoError(t, err)

	require.Panics(t, func() { matrix.WithEpsilon(-1) })
}

func TestBuild(t *testing.T) {
	t.Parallel()

	d, err := matrix.Build([]string{"c", "a", "b"}, func(a, b string) float64 {
		return float64(len(a+b)) + float64(a[0]-'a') + float64(b[0]-'a')
	})
	require.NoError(t, err)
	v, err := d.At("c", "a")
	require.NoError(t, err)
	require.Equal(t, 4.0, v) // 2 + 0 + 2

	_, err = matrix.Build([]string{"a", "b"}, func(string, string) float64 { return -1 })
	require.ErrorIs(t, err, matrix.ErrNegativeValue)
}

func TestAt_UnknownSample(t *testing.T) {
	t.Parallel()

	d := fourSamples(t)
	_, err := d.At("A", "Z")
	require.ErrorIs(t, err, matrix.ErrUnknownSample)
}

func TestRestrict(t *testing.T) {
	t.Parallel()

	d := fourSamples(t)

	sub, err := d.Restrict([]string{"D", "A", "C"})
	require.NoError(t, err)
	require.Equal(t, []string{"A", "C", "D"}, sub.Samples())
	v, err := sub.At("C", "D")
	require.NoError(t, err)
	require.Equal(t, 1.0, v)
	require.False(t, sub.Has("B"))

	same, err := d.Restrict(d.Samples())
	require.NoError(t, err)
	require.Same(t, d, same)

	_, err = d.Restrict([]string{"A", "Q"})
	require.ErrorIs(t, err, matrix.ErrUnknownSample)
}

func TestRowsAndSameSamples(t *testing.T) {
	t.Parallel()

	d := fourSamples(t)
	rows := d.Rows()
	require.Len(t, rows, 4)
	require.Equal(t, []float64{0, 1, 9, 9}, rows[0])

	rebuilt, err := matrix.FromTable(d.Samples(), rows)
	require.NoError(t, err)
	require.True(t, d.SameSamples(rebuilt))

	sub, err := d.Restrict([]string{"A", "B"})
	require.NoError(t, err)
	require.False(t, d.SameSamples(sub))
}
