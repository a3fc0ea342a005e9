// SPDX-License-Identifier: MIT
package solver_test

import (
	"context"
	"fmt"

	"github.com/katalvlaran/pathogist/matrix"
	"github.com/katalvlaran/pathogist/model"
	"github.com/katalvlaran/pathogist/solver"
)

// ExampleSolve clusters five samples: two tight groups and an outlier.
func ExampleSolve() {
	ids := []string{"a", "b", "c", "d", "e"}
	rows := [][]float64{
		{0, 1, 2, 8, 9},
		{1, 0, 1, 8, 9},
		{2, 1, 0, 9, 9},
		{8, 8, 9, 0, 9},
		{9, 9, 9, 9, 0},
	}
	d, err := matrix.FromTable(ids, rows)
	if err != nil {
		fmt.Println(err)
		return
	}
	m, err := model.BuildCorrelation(d, 5, model.AllTriangles)
	if err != nil {
		fmt.Println(err)
		return
	}

	res, err := solver.Solve(context.Background(), m, solver.DefaultOptions())
	if err != nil {
		fmt.Println(err)
		return
	}
	fmt.Println(res.Algo, res.Optimal, res.Assignment, res.Objective)
	// Output: exact true [0 0 0 1 2] 0
}
