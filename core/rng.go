package core

import (
	"math/rand/v2"
	"sync"

	"github.com/hyperpolymath/betlang/decl"
)

// RNG is a seeded PCG generator that is safe for concurrent use.  It
// implements rand.Source so it can drive gonum samplers directly.
type RNG struct {
	mu   sync.Mutex
	src  *rand.PCG
	rand *rand.Rand
	seed uint64
}

const seedMix = 0x9e3779b97f4a7c15

func NewRNG(seed uint64) *RNG {
	r := &RNG{src: rand.NewPCG(seed, seed^seedMix), seed: seed}
	r.rand = rand.New(r)
	return r
}

// NewRandomRNG seeds a generator from the runtime's entropy source.
func NewRandomRNG() *RNG {
	return NewRNG(rand.Uint64())
}

func (r *RNG) Seed() uint64 { return r.seed }

func (r *RNG) Uint64() uint64 {
	r.mu.Lock()
	defer r.mu.Unlock()
	return r.src.Uint64()
}

// Split derives an independent generator from this one's stream.  Splitting
// the same generator state twice yields the same child.
func (r *RNG) Split() *RNG {
	r.mu.Lock()
	a, b := r.src.Uint64(), r.src.Uint64()
	r.mu.Unlock()
	child := &RNG{src: rand.NewPCG(a, b), seed: a}
	child.rand = rand.New(child)
	return child
}

// SplitN derives n generators in order.
func (r *RNG) SplitN(n int) []*RNG {
	out := make([]*RNG, n)
	for i := range out {
		out[i] = r.Split()
	}
	return out
}

// Float64 returns a value in [0, 1).
func (r *RNG) Float64() float64 { return r.rand.Float64() }

// IntN returns a value in [0, n).  It panics if n <= 0.
func (r *RNG) IntN(n int) int { return r.rand.IntN(n) }

// Uint64N returns a value in [0, n).  It panics if n == 0.
func (r *RNG) Uint64N(n uint64) uint64 { return r.rand.Uint64N(n) }

func (r *RNG) NormFloat64() float64 { return r.rand.NormFloat64() }

func (r *RNG) Shuffle(n int, swap func(i, j int)) { r.rand.Shuffle(n, swap) }

func (r *RNG) Perm(n int) []int { return r.rand.Perm(n) }

// Index3 draws 0, 1 or 2 with equal probability.
func (r *RNG) Index3() int { return r.rand.IntN(3) }

// Ternary draws True, False or Unknown with equal probability.
func (r *RNG) Ternary() decl.TernaryValue {
	return decl.TernaryValues[r.Index3()]
}

// WeightedIndex3 draws 0, 1 or 2 in proportion to the weights.  Weights must
// already be validated.
func (r *RNG) WeightedIndex3(w0, w1, w2 float64) int {
	u := r.Float64() * (w0 + w1 + w2)
	switch {
	case u < w0:
		return 0
	case u < w0+w1:
		return 1
	}
	return 2
}
