package core

import (
	"fmt"
	"slices"
)

// Shuffle returns a shuffled copy of vs.
func Shuffle[T any](vs []T, rng *RNG) []T {
	out := slices.Clone(vs)
	rng.Shuffle(len(out), func(i, j int) { out[i], out[j] = out[j], out[i] })
	return out
}

// Choose picks one element uniformly.
func Choose(vs []Value, rng *RNG) (Value, error) {
	if len(vs) == 0 {
		return nil, ErrEmpty
	}
	return vs[rng.IntN(len(vs))], nil
}

// SampleWithReplacement draws n elements independently.
func SampleWithReplacement(vs []Value, n int, rng *RNG) ([]Value, error) {
	if n < 0 {
		return nil, fmt.Errorf("sample count %d: %w", n, ErrInvalidParameter)
	}
	if n > 0 && len(vs) == 0 {
		return nil, ErrEmpty
	}
	out := make([]Value, n)
	for i := range out {
		out[i] = vs[rng.IntN(len(vs))]
	}
	return out, nil
}

// SampleWithoutReplacement draws min(n, len(vs)) distinct positions, in draw
// order.
func SampleWithoutReplacement(vs []Value, n int, rng *RNG) []Value {
	idx := SampleIndices(len(vs), n, rng)
	out := make([]Value, len(idx))
	for i, j := range idx {
		out[i] = vs[j]
	}
	return out
}

// SampleIndices returns min(k, n) distinct indices from [0, n) using a
// partial Fisher-Yates shuffle.
func SampleIndices(n, k int, rng *RNG) []int {
	if k > n {
		k = n
	}
	if k <= 0 {
		return []int{}
	}
	perm := make([]int, n)
	for i := range perm {
		perm[i] = i
	}
	for i := range k {
		j := i + rng.IntN(n-i)
		perm[i], perm[j] = perm[j], perm[i]
	}
	return perm[:k]
}
