package setgen

import (
	"math/rand"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func ids(n int) []string {
	out := make([]string, n)
	for i := range out {
		out[i] = string(rune('a' + i%26)) + string(rune('0'+i/26))
	}
	return out
}

func TestSample_ExactSize(t *testing.T) {
	rnd := rand.New(rand.NewSource(1))
	pool := ids(50)

	got, ok := Sample(rnd, pool, 20)
	require.True(t, ok)
	assert.Len(t, got, 20)
}

func TestSample_NoDuplicates(t *testing.T) {
	rnd := rand.New(rand.NewSource(42))
	pool := ids(100)

	got, ok := Sample(rnd, pool, 100)
	require.True(t, ok)

	seen := make(map[string]bool, len(got))
	for _, id := range got {
		assert.False(t, seen[id], "duplicate id %q", id)
		seen[id] = true
	}
	assert.Len(t, seen, 100)
}

func TestSample_InsufficientPool(t *testing.T) {
	rnd := rand.New(rand.NewSource(1))

	got, ok := Sample(rnd, ids(10), 11)
	assert.False(t, ok)
	assert.Nil(t, got)
}

func TestSample_ZeroSize(t *testing.T) {
	rnd := rand.New(rand.NewSource(1))

	_, ok := Sample(rnd, ids(10), 0)
	assert.False(t, ok)
}

func TestSample_Deterministic(t *testing.T) {
	pool := ids(200)

	a, ok := Sample(rand.New(rand.NewSource(7)), pool, 30)
	require.True(t, ok)
	b, ok := Sample(rand.New(rand.NewSource(7)), pool, 30)
	require.True(t, ok)

	assert.Equal(t, a, b)
}

func TestSample_DoesNotMutateInput(t *testing.T) {
	pool := ids(30)
	orig := make([]string, len(pool))
	copy(orig, pool)

	_, ok := Sample(rand.New(rand.NewSource(3)), pool, 15)
	require.True(t, ok)
	assert.Equal(t, orig, pool)
}

func TestSample_SubsetOfCandidates(t *testing.T) {
	pool := ids(40)
	members := make(map[string]bool, len(pool))
	for _, id := range pool {
		members[id] = true
	}

	got, ok := Sample(rand.New(rand.NewSource(9)), pool, 25)
	require.True(t, ok)
	for _, id := range got {
		assert.True(t, members[id], "sampled id %q not in pool", id)
	}
}
