package solver

import (
	"math/rand"
)

// Tour is an ordered sequence of node indices representing a cyclic route:
// the edge after the last element wraps back to the first. Every node in
// [0, N) appears exactly once, and node 0 stays fixed at position 0 as the
// rotation anchor (all rotations of a cycle are equivalent).
type Tour []int

// NewRandomTour returns a uniformly random tour over n nodes with node 0
// fixed at position 0 and the remaining n-1 nodes shuffled. The same rng
// state always produces the same tour.
func NewRandomTour(n int, rng *rand.Rand) Tour {
	t := make(Tour, n)
	for i := range t {
		t[i] = i
	}
	if n > 2 {
		suffix := t[1:]
		rng.Shuffle(len(suffix), func(i, j int) {
			suffix[i], suffix[j] = suffix[j], suffix[i]
		})
	}
	return t
}

// Clone returns an independent copy of the tour.
func (t Tour) Clone() Tour {
	out := make(Tour, len(t))
	copy(out, t)
	return out
}

// Reverse reverses the segment [i, j] of the tour in place. Applied with
// 1 <= i < j <= len(t)-1 this is the classic 2-opt move: it removes edges
// (t[i-1], t[i]) and (t[j], t[j+1 mod n]) and reconnects the cycle through
// (t[i-1], t[j]) and (t[i], t[j+1 mod n]).
func (t Tour) Reverse(i, j int) {
	for i < j {
		t[i], t[j] = t[j], t[i]
		i++
		j--
	}
}

// splitmix64 finalizer constants; strong bit diffusion so that consecutive
// restart indices yield uncorrelated streams.
const (
	splitmixGamma = 0x9e3779b97f4a7c15
	splitmixMulA  = 0xbf58476d1ce4e5b9
	splitmixMulB  = 0x94d049bb133111eb
)

// deriveSeed mixes the base seed with a restart index into an independent
// 64-bit stream seed. Same (seed, run) pair, same stream, on any platform
// and regardless of which worker picks the restart up.
func deriveSeed(seed uint64, run uint64) int64 {
	x := seed ^ (run + splitmixGamma)
	x += splitmixGamma
	x = (x ^ (x >> 30)) * splitmixMulA
	x = (x ^ (x >> 27)) * splitmixMulB
	x ^= x >> 31
	return int64(x)
}

// runRNG returns the dedicated random source for one restart. Each restart
// owns its rng outright, so no synchronization is needed around random
// number generation.
func runRNG(seed uint64, run int) *rand.Rand {
	return rand.New(rand.NewSource(deriveSeed(seed, uint64(run))))
}
