// SPDX-License-Identifier: MIT

package genotype_test

import (
	"fmt"
	"io"
	"os"
	"path/filepath"
	"strings"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/katalvlaran/pathogist/genotype"
	"github.com/katalvlaran/pathogist/matrix"
	"github.com/katalvlaran/pathogist/tabular"
)

func at(t *testing.T, d *matrix.Dissimilarity, a, b string) float64 {
	t.Helper()
	v, err := d.At(a, b)
	require.NoError(t, err)

	return v
}

func TestParseKind(t *testing.T) {
	t.Parallel()

	for _, k := range genotype.Kinds() {
		got, err := genotype.ParseKind(strings.ToLower(k.String()))
		require.NoError(t, err)
		assert.Equal(t, k, got)
	}
	_, err := genotype.ParseKind("wgMLST")
	require.ErrorIs(t, err, genotype.ErrUnknownKind)

	_, err = genotype.Kind(7).Modality()
	require.ErrorIs(t, err, genotype.ErrUnknownKind)
	assert.Equal(t, "Kind(7)", genotype.Kind(7).String())
}

func TestBuildMatrix(t *testing.T) {
	t.Parallel()

	tests := []struct {
		name string
		kind genotype.Kind
		in   string
		want map[[2]string]float64
	}{
		{
			name: "snp symmetric difference",
			kind: genotype.SNP,
			in:   "sample\tvariant\nA\tv1\nA\tv2\nB\tv2\nB\tv3\nC\n",
			want: map[[2]string]float64{{"A", "B"}: 2, {"A", "C"}: 2, {"B", "C"}: 2},
		},
		{
			name: "mlst known differing loci",
			kind: genotype.MLST,
			in:   "ST\tadk\tfumC\tgyrB\nA\t1\t4\t-\nB\t1\t5\t7\nC\t2\t\t8\n",
			want: map[[2]string]float64{{"A", "B"}: 1, {"A", "C"}: 1, {"B", "C"}: 2},
		},
		{
			name: "cnv l1 with diploid baseline",
			kind: genotype.CNV,
			in:   "A\tr1\t3\nA\tr2\t2\nB\tr1\t1\nC\tr3\t0\n",
			want: map[[2]string]float64{{"A", "B"}: 2, {"A", "C"}: 3, {"B", "C"}: 3},
		},
	}
	for _, tc := range tests {
		tc := tc
		t.Run(tc.name, func(t *testing.T) {
			t.Parallel()
			d, err := genotype.BuildMatrix(tc.kind, strings.NewReader(tc.in))
			require.NoError(t, err)
			require.Equal(t, []string{"A", "B", "C"}, d.Samples())
			for pair, want := range tc.want {
				assert.Equal(t, want, at(t, d, pair[0], pair[1]), pair)
			}
		})
	}
}

func TestBuildMatrix_Errors(t *testing.T) {
	t.Parallel()

	tests := []struct {
		name string
		kind genotype.Kind
		in   string
		want error
	}{
		{"snp wide row", genotype.SNP, "A\tv1\textra\n", tabular.ErrMalformed},
		{"mlst no loci", genotype.MLST, "sample\n", tabular.ErrMalformed},
		{"mlst repeated locus", genotype.MLST, "s\tadk\tadk\nA\t1\t2\n", genotype.ErrDuplicateCall},
		{"mlst repeated sample", genotype.MLST, "s\tadk\nA\t1\nA\t2\n", tabular.ErrDuplicateName},
		{"mlst short row", genotype.MLST, "s\tadk\tfumC\nA\t1\n", tabular.ErrMalformed},
		{"mlst no samples", genotype.MLST, "s\tadk\n", genotype.ErrNoSamples},
		{"cnv negative", genotype.CNV, "A\tr1\t-1\n", genotype.ErrBadCopyNumber},
		{"cnv not a number", genotype.CNV, "A\tr1\tmany\n", genotype.ErrBadCopyNumber},
		{"cnv repeated region", genotype.CNV, "A\tr1\t1\nA\tr1\t3\n", genotype.ErrDuplicateCall},
		{"cnv short row", genotype.CNV, "A\tr1\n", tabular.ErrMalformed},
		{"empty", genotype.SNP, "", tabular.ErrEmptyInput},
		{"unknown kind", genotype.Kind(-1), "A\tv\n", genotype.ErrUnknownKind},
	}
	for _, tc := range tests {
		tc := tc
		t.Run(tc.name, func(t *testing.T) {
			t.Parallel()
			_, err := genotype.BuildMatrix(tc.kind, strings.NewReader(tc.in))
			require.ErrorIs(t, err, tc.want)
		})
	}
}

func TestModality_KindMismatch(t *testing.T) {
	t.Parallel()

	mod, err := genotype.MLST.Modality()
	require.NoError(t, err)
	require.Equal(t, genotype.MLST, mod.Kind)

	_, err = mod.Build(genotype.NewSNPCalls(map[string][]string{"A": {"v"}}))
	require.ErrorIs(t, err, genotype.ErrKindMismatch)
}

func TestCalls_Constructors(t *testing.T) {
	t.Parallel()

	snp := genotype.NewSNPCalls(map[string][]string{"A": {"x", "x", "y"}, "B": nil})
	assert.Equal(t, []string{"A", "B"}, snp.Samples())
	assert.Equal(t, 2.0, snp.Distance("A", "B"))

	mlst := genotype.NewMLSTCalls(map[string]map[string]string{
		"A": {"adk": "1", "fumC": "-"},
		"B": {"adk": "2", "fumC": "3"},
	})
	assert.Equal(t, 1.0, mlst.Distance("A", "B"))

	cnv, err := genotype.NewCNVCalls(map[string]map[string]float64{"A": {"r": 4}, "B": {}})
	require.NoError(t, err)
	assert.Equal(t, 2.0, cnv.Distance("A", "B"))
	assert.Equal(t, cnv.Distance("A", "B"), cnv.Distance("B", "A"))

	_, err = genotype.NewCNVCalls(map[string]map[string]float64{"A": {"r": -2}})
	require.ErrorIs(t, err, genotype.ErrBadCopyNumber)
}

// memFS serves per-sample files from memory.
type memFS map[string]string

func (fs memFS) open(path string) (io.ReadCloser, error) {
	body, ok := fs[path]
	if !ok {
		return nil, fmt.Errorf("open %s: %w", path, os.ErrNotExist)
	}

	return io.NopCloser(strings.NewReader(body)), nil
}

func TestReadList(t *testing.T) {
	t.Parallel()

	fs := memFS{
		"a.snp": "v1\nv2\n",
		"b.snp": "v2\n",
		"c.snp": "# nothing called\n",
		"a.st":  "adk\t1\nfumC\t4\n",
		"b.st":  "adk\t1\nfumC\t5\ngyrB\t-\n",
		"a.cn":  "r1\t3\n",
		"b.cn":  "r2\t0\n",
		"x.cn":  "r1\tlots\n",
	}

	snp, err := genotype.ReadList(genotype.SNP, strings.NewReader("A\ta.snp\nB\tb.snp\nC\tc.snp\n"), fs.open)
	require.NoError(t, err)
	assert.Equal(t, []string{"A", "B", "C"}, snp.Samples())
	assert.Equal(t, 1.0, snp.Distance("A", "B"))
	assert.Equal(t, 2.0, snp.Distance("A", "C"))

	mlst, err := genotype.ReadList(genotype.MLST, strings.NewReader("A\ta.st\nB\tb.st\n"), fs.open)
	require.NoError(t, err)
	assert.Equal(t, 1.0, mlst.Distance("A", "B"))

	cnv, err := genotype.ReadList(genotype.CNV, strings.NewReader("A\ta.cn\nB\tb.cn\n"), fs.open)
	require.NoError(t, err)
	assert.Equal(t, 3.0, cnv.Distance("A", "B"))

	_, err = genotype.ReadList(genotype.SNP, strings.NewReader("A\ta.snp\nA\tb.snp\n"), fs.open)
	require.ErrorIs(t, err, tabular.ErrDuplicateName)
	_, err = genotype.ReadList(genotype.SNP, strings.NewReader("A\tmissing.snp\n"), fs.open)
	require.ErrorIs(t, err, os.ErrNotExist)
	require.ErrorContains(t, err, `sample "A"`)
	_, err = genotype.ReadList(genotype.CNV, strings.NewReader("A\tx.cn\n"), fs.open)
	require.ErrorIs(t, err, genotype.ErrBadCopyNumber)
	_, err = genotype.ReadList(genotype.Kind(5), strings.NewReader("A\ta.snp\n"), fs.open)
	require.ErrorIs(t, err, genotype.ErrUnknownKind)
}

func TestBuildMatrixFile(t *testing.T) {
	t.Parallel()

	dir := t.TempDir()
	write := func(name, body string) string {
		path := filepath.Join(dir, name)
		require.NoError(t, os.WriteFile(path, []byte(body), 0o600))
		return path
	}
	write("a.txt", "v1\n")
	write("b.txt", "v1\nv2\nv3\n")
	list := write("calls.list", "A\ta.txt\nB\t"+filepath.Join(dir, "b.txt")+"\n")
	table := write("calls.tsv", "A\tv1\nB\tv1\nB\tv2\nB\tv3\n")

	fromList, err := genotype.BuildMatrixFile(genotype.SNP, list, nil)
	require.NoError(t, err)
	fromTable, err := genotype.BuildMatrixFile(genotype.SNP, table, nil)
	require.NoError(t, err)

	assert.Equal(t, 2.0, at(t, fromList, "A", "B"))
	assert.Equal(t, fromTable.Rows(), fromList.Rows())

	_, err = genotype.BuildMatrixFile(genotype.SNP, filepath.Join(dir, "absent.tsv"), nil)
	require.ErrorIs(t, err, os.ErrNotExist)
}

func ExampleBuildMatrix() {
	calls := "sample\tadk\tfumC\tgyrB\n" +
		"ec1\t1\t4\t7\n" +
		"ec2\t1\t4\t8\n" +
		"ec3\t2\t-\t8\n"
	d, err := genotype.BuildMatrix(genotype.MLST, strings.NewReader(calls))
	if err != nil {
		fmt.Println(err)
		return
	}
	fmt.Println(d.Rows())
	// Output: [[0 1 2] [1 0 1] [2 1 0]]
}
