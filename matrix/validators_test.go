// SPDX-License-Identifier: MIT
package matrix_test

import (
	"math"
	"testing"

	"github.com/katalvlaran/pathogist/matrix"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestValidateSampleIDs(t *testing.T) {
	t.Parallel()

	require.NoError(t, matrix.ValidateSampleIDs([]string{"a", "b"}))
	require.ErrorIs(t, matrix.ValidateSampleIDs(nil), matrix.ErrEmpty)
	require.ErrorIs(t, matrix.ValidateSampleIDs([]string{"a", ""}), matrix.ErrEmptySample)

	err := matrix.ValidateSampleIDs([]string{"a", "b", "a"})
	require.ErrorIs(t, err, matrix.ErrDuplicateSample)
	assert.Contains(t, err.Error(), `"a"`)
}

func TestValidateValue(t *testing.T) {
	t.Parallel()

	tests := []struct {
		v    float64
		want error
	}{
		{0, nil},
		{3.5, nil},
		{-0.1, matrix.ErrNegativeValue},
		{math.NaN(), matrix.ErrNaNInf},
		{math.Inf(1), matrix.ErrNaNInf},
	}
	for _, tc := range tests {
		if tc.want == nil {
			assert.NoError(t, matrix.ValidateValue(tc.v))
			continue
		}
		assert.ErrorIs(t, matrix.ValidateValue(tc.v), tc.want)
	}
}

func TestValidateTable(t *testing.T) {
	t.Parallel()

	ids := []string{"a", "b"}
	tests := []struct {
		name string
		rows [][]float64
		opts []matrix.Option
		want error
	}{
		{"ok", [][]float64{{0, 1}, {1, 0}}, nil, nil},
		{"diagonal ignored", [][]float64{{5, 1}, {1, 0}}, nil, nil},
		{"strict diagonal", [][]float64{{5, 1}, {1, 0}}, []matrix.Option{matrix.WithStrictDiagonal()}, matrix.ErrNonZeroDiagonal},
		{"short", [][]float64{{0, 1}}, nil, matrix.ErrNonSquare},
		{"ragged", [][]float64{{0, 1}, {1}}, nil, matrix.ErrNonSquare},
		{"negative", [][]float64{{0, -1}, {-1, 0}}, nil, matrix.ErrNegativeValue},
		{"asymmetric", [][]float64{{0, 1}, {2, 0}}, nil, matrix.ErrAsymmetry},
		{"within eps", [][]float64{{0, 1}, {1.05, 0}}, []matrix.Option{matrix.WithEpsilon(0.1)}, nil},
	}
	for _, tc := range tests {
		tc := tc
		t.Run(tc.name, func(t *testing.T) {
			t.Parallel()
			err := matrix.ValidateTable(ids, tc.rows, tc.opts...)
			if tc.want == nil {
				require.NoError(t, err)
				return
			}
			require.ErrorIs(t, err, tc.want)
		})
	}

	assert.Panics(t, func() { matrix.WithEpsilon(-1) })
}
