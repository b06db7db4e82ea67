package randutil

import (
	"math/rand"
	"sync"
)

// Rand is the source of randomness injected into sampling call sites.
// Production uses NewLockedRand; tests inject a seeded one to make
// selections reproducible.
type Rand interface {
	Intn(n int) int
}

type lockedRand struct {
	mutex sync.Mutex
	rng   *rand.Rand
}

func NewLockedRand(seed int64) Rand {
	return &lockedRand{rng: rand.New(rand.NewSource(seed))}
}

func (r *lockedRand) Intn(n int) int {
	r.mutex.Lock()
	defer r.mutex.Unlock()
	return r.rng.Intn(n)
}

// SampleWithoutReplacement picks up to n elements of pool uniformly at
// random. If the pool is smaller than n, the whole pool is returned in
// shuffled order. The input slice is not modified.
func SampleWithoutReplacement[T any](rng Rand, pool []T, n int) []T {
	if n > len(pool) {
		n = len(pool)
	}

	shuffled := make([]T, len(pool))
	copy(shuffled, pool)
	for i := 0; i < n; i++ {
		j := i + rng.Intn(len(shuffled)-i)
		shuffled[i], shuffled[j] = shuffled[j], shuffled[i]
	}

	return shuffled[:n]
}
