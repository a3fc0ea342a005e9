// SPDX-License-Identifier: MIT

package solver

import "github.com/katalvlaran/pathogist/model"

// blocked reports whether u is forbidden with any of members.
func blocked(r *model.Reduced, u int, members []int) bool {
	for _, v := range members {
		if r.Forbidden(u, v) {
			return true
		}
	}

	return false
}

// pivotInto clusters the unassigned super-nodes of order. The first
// unassigned node becomes a pivot and absorbs, in order, every unassigned
// node it attracts unless that node is forbidden with a current member.
// Clusters are numbered from next; the next free number is returned.
//
// Complexity: O(|order|²·c) for largest cluster size c.
func pivotInto(r *model.Reduced, order []int, attract func(a, b int) bool, assign []int, next int) int {
	var members []int
	for _, p := range order {
		if assign[p] >= 0 {
			continue
		}
		assign[p] = next
		members = append(members[:0], p)
		for _, u := range order {
			if assign[u] >= 0 || !attract(p, u) || blocked(r, u, members) {
				continue
			}
			assign[u] = next
			members = append(members, u)
		}
		next++
	}

	return next
}

// pivotOnce runs pivotInto over all super-nodes with Delta < 0 as attraction.
func pivotOnce(r *model.Reduced, order []int) []int {
	assign := make([]int, r.K())
	for i := range assign {
		assign[i] = -1
	}
	attract := func(a, b int) bool { return r.Delta(a, b) < 0 }
	pivotInto(r, order, attract, assign, 0)

	return assign
}

// localSearch improves assign in place by single-node moves: each super-node
// in turn moves to the admissible cluster (or a fresh singleton) that lowers
// the objective most, if by more than eps. Passes repeat until none moves.
// Labels stay within 0..K-1. It stops early when b runs out; assign is
// admissible at every step.
//
// Complexity: O(K²) per pass.
func localSearch(r *model.Reduced, assign []int, eps float64, b *budget) {
	k := r.K()
	if k < 2 {
		return
	}

	var (
		size    = make([]int, k)
		sum     = make([]float64, k)
		barred  = make([]bool, k)
		a, v, c int
		cur     int
		bestC   int
		bestG   float64
		g       float64
		moved   bool
	)
	for _, c = range assign {
		size[c]++
	}

	for pass := 0; pass < defaultMaxPasses; pass++ {
		moved = false
		for a = 0; a < k; a++ {
			if b.tick() {
				return
			}
			for c = 0; c < k; c++ {
				sum[c], barred[c] = 0, false
			}
			for v = 0; v < k; v++ {
				if v == a {
					continue
				}
				sum[assign[v]] += r.Delta(a, v)
				if r.Forbidden(a, v) {
					barred[assign[v]] = true
				}
			}

			cur = assign[a]
			bestC, bestG = -1, 0
			if size[cur] > 1 {
				bestG = -sum[cur] // leave for a fresh singleton
				bestC = k
			}
			for c = 0; c < k; c++ {
				if c == cur || size[c] == 0 || barred[c] {
					continue
				}
				g = sum[c] - sum[cur]
				if bestC < 0 || g < bestG {
					bestC, bestG = c, g
				}
			}
			if bestC < 0 || bestG >= -eps {
				continue
			}
			if bestC == k {
				for c = 0; c < k; c++ {
					if size[c] == 0 {
						bestC = c
						break
					}
				}
			}
			size[cur]--
			size[bestC]++
			assign[a] = bestC
			moved = true
		}
		if !moved {
			return
		}
	}
}

// solvePivot runs the deterministic pivot in super-node order, then
// opts.Restarts seeded random orders, each followed by local search, and
// keeps the cheapest (earliest on ties).
func solvePivot(r *model.Reduced, opts Options, b *budget) []int {
	k := r.K()
	order := make([]int, k)
	for i := range order {
		order[i] = i
	}

	best := pivotOnce(r, order)
	localSearch(r, best, opts.Eps, b)
	bestCost := r.Objective(best)

	base := rngFromSeed(opts.Seed)
	for i := 0; i < opts.Restarts; i++ {
		if b.check() {
			break
		}
		cand := pivotOnce(r, permutation(k, deriveRNG(base, uint64(i))))
		localSearch(r, cand, opts.Eps, b)
		if c := r.Objective(cand); c < bestCost-opts.Eps {
			best, bestCost = cand, c
		}
	}

	return best
}
