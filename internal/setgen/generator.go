package setgen

import "math/rand"

// Sample draws size ids uniformly at random from candidates without
// replacement, using the injected random source so tests can reproduce
// exact selections. Returns false when the pool is too small; callers
// surface that as an insufficient-candidates failure, never a short set.
//
// The input slice is not modified.
func Sample(rnd *rand.Rand, candidates []string, size int) ([]string, bool) {
	if size <= 0 || len(candidates) < size {
		return nil, false
	}

	pool := make([]string, len(candidates))
	copy(pool, candidates)

	// Partial Fisher-Yates: only the first size positions need shuffling.
	for i := 0; i < size; i++ {
		j := i + rnd.Intn(len(pool)-i)
		pool[i], pool[j] = pool[j], pool[i]
	}
	return pool[:size], true
}
