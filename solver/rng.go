// SPDX-License-Identifier: MIT

package solver

import "math/rand"

// defaultSeed replaces a zero Options.Seed.
const defaultSeed int64 = 1

// rngFromSeed returns a deterministic source; seed 0 means defaultSeed.
func rngFromSeed(seed int64) *rand.Rand {
	if seed == 0 {
		seed = defaultSeed
	}

	return rand.New(rand.NewSource(seed))
}

// deriveSeed mixes a parent seed and a stream id (SplitMix64 finalizer).
//
// Complexity: O(1).
func deriveSeed(parent int64, stream uint64) int64 {
	var x uint64
	x = uint64(parent) ^ (stream + 0x9e3779b97f4a7c15)
	x += 0x9e3779b97f4a7c15
	x = (x ^ (x >> 30)) * 0xbf58476d1ce4e5b9
	x = (x ^ (x >> 27)) * 0x94d049bb133111eb
	x ^= x >> 31

	return int64(x)
}

// deriveRNG returns an independent stream for restart number stream.
// base advances by one draw per call.
func deriveRNG(base *rand.Rand, stream uint64) *rand.Rand {
	parent := defaultSeed
	if base != nil {
		parent = base.Int63()
	}

	return rand.New(rand.NewSource(deriveSeed(parent, stream)))
}

// permutation returns a shuffled 0..n-1 (Fisher–Yates).
//
// Complexity: O(n).
func permutation(n int, rng *rand.Rand) []int {
	p := make([]int, n)

	var i, j int
	for i = 0; i < n; i++ {
		p[i] = i
	}
	for i = n - 1; i > 0; i-- {
		j = rng.Intn(i + 1)
		p[i], p[j] = p[j], p[i]
	}

	return p
}
