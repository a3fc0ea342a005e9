// SPDX-License-Identifier: MIT

package solver

// dsu is a disjoint-set forest with path halving and union by rank.
type dsu struct {
	parent []int
	rank   []int
}

func newDSU(n int) *dsu {
	d := &dsu{parent: make([]int, n), rank: make([]int, n)}
	for i := range d.parent {
		d.parent[i] = i
	}

	return d
}

func (d *dsu) find(x int) int {
	for d.parent[x] != x {
		d.parent[x] = d.parent[d.parent[x]]
		x = d.parent[x]
	}

	return x
}

func (d *dsu) union(a, b int) {
	ra, rb := d.find(a), d.find(b)
	if ra == rb {
		return
	}
	switch {
	case d.rank[ra] < d.rank[rb]:
		d.parent[ra] = rb
	case d.rank[ra] > d.rank[rb]:
		d.parent[rb] = ra
	default:
		d.parent[rb] = ra
		d.rank[ra]++
	}
}

// components groups 0..n-1 by root; groups are ordered by smallest member
// and members are ascending.
func (d *dsu) components() [][]int {
	var (
		out  [][]int
		slot = make(map[int]int)
	)
	for i := range d.parent {
		r := d.find(i)
		g, ok := slot[r]
		if !ok {
			g = len(out)
			slot[r] = g
			out = append(out, nil)
		}
		out[g] = append(out[g], i)
	}

	return out
}
