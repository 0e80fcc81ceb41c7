package engine

import (
	"math/rand"
	"time"
)

// NewRNG returns a time-seeded source. One source backs one engine.
func NewRNG() *rand.Rand { return rand.New(rand.NewSource(time.Now().UnixNano())) }

// NewSeededRNG returns a source with a fixed seed so a run can be replayed.
func NewSeededRNG(seed int64) *rand.Rand { return rand.New(rand.NewSource(seed)) }

// Shuffle returns a uniformly shuffled copy of in (Fisher-Yates, last index down to 1).
// The input slice is left untouched.
func Shuffle[T any](r *rand.Rand, in []T) []T {
	out := make([]T, len(in))
	copy(out, in)
	for i := len(out) - 1; i > 0; i-- {
		j := r.Intn(i + 1)
		out[i], out[j] = out[j], out[i]
	}
	return out
}
