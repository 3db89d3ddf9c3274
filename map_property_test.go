package rhmap

import (
	"fmt"
	"testing"

	"github.com/google/go-cmp/cmp"
	"github.com/stretchr/testify/require"
	"pgregory.net/rand"
)

// snapshot drains a Map into a plain Go map via Iterate, for diffing
// against the reference oracle with go-cmp.
func snapshot[K comparable, V any](m *Map[K, V]) map[K]V {
	out := map[K]V{}
	m.Iterate(func(key K, val V) bool {
		out[key] = val
		return true
	})
	return out
}

// TestOracleRandomOps runs a long randomized stream of Put/Remove
// against both a Map and a reference map[int]int, then diffs the two
// final key sets. A seeded rand.Rand keeps the run reproducible.
func TestOracleRandomOps(t *testing.T) {
	rng := rand.New(rand.NewSource(1))
	m, err := New[int, int](NewComparableContext[int]())
	require.NoError(t, err)
	oracle := map[int]int{}

	const universe = 400
	const ops = 20000
	for i := 0; i < ops; i++ {
		key := rng.Intn(universe)
		if rng.Intn(3) == 0 {
			oracle[key] = -1
			delete(oracle, key)
			m.Remove(key)
			continue
		}
		val := rng.Int()
		oracle[key] = val
		require.NoError(t, m.Put(key, val))
	}

	got := snapshot(m)
	if diff := cmp.Diff(oracle, got); diff != "" {
		t.Fatalf("map diverged from oracle (-want +got):\n%s", diff)
	}

	for k, want := range oracle {
		v, ok := m.Get(k)
		require.True(t, ok)
		require.Equal(t, want, v)
	}
}

// TestFillUpdateDeleteRefill exercises the same key set being filled,
// overwritten, partially deleted, and refilled, checking the oracle
// after each phase.
func TestFillUpdateDeleteRefill(t *testing.T) {
	rng := rand.New(rand.NewSource(2))
	m, err := New[string, int](StringContext{})
	require.NoError(t, err)
	oracle := map[string]int{}

	keys := make([]string, 800)
	for i := range keys {
		keys[i] = fmt.Sprintf("churn-%d", i)
	}

	fill := func() {
		for _, k := range keys {
			v := rng.Int()
			oracle[k] = v
			require.NoError(t, m.Put(k, v))
		}
	}
	deleteHalf := func() {
		for i, k := range keys {
			if i%2 == 0 {
				delete(oracle, k)
				m.Remove(k)
			}
		}
	}

	fill()
	require.Equal(t, oracle, snapshot(m))

	deleteHalf()
	require.Equal(t, oracle, snapshot(m))

	fill() // refill, including the deleted half
	require.Equal(t, oracle, snapshot(m))
}

// TestChurnWithoutGrowth repeatedly inserts and removes a bounded key
// set that stays well under the grow threshold, and checks capacity
// never increases from churn alone.
func TestChurnWithoutGrowth(t *testing.T) {
	rng := rand.New(rand.NewSource(3))
	m, err := ForLen[int, int](NewComparableContext[int](), 64, WithGrowAtPercent[int, int](50))
	require.NoError(t, err)
	initialCap := m.Capacity()

	present := map[int]bool{}
	for round := 0; round < 5000; round++ {
		key := rng.Intn(32) // stays well under growAt (64) at every round
		if present[key] {
			m.Remove(key)
			present[key] = false
		} else {
			require.NoError(t, m.Put(key, key))
			present[key] = true
		}
	}

	require.Equal(t, initialCap, m.Capacity())
}

// TestLargeFillAtFullLoad fills a large map to 100% of its capacity
// (grow_at_percent = 100, the MPHF configuration) and checks every key
// is retrievable and every slot index is unique.
func TestLargeFillAtFullLoad(t *testing.T) {
	m, err := ForLen[int, int](NewComparableContext[int](), 20000, WithGrowAtPercent[int, int](100))
	require.NoError(t, err)

	seen := make([]bool, m.Capacity())
	for i := 0; i < 20000; i++ {
		require.NoError(t, m.Put(i, i*7))
	}
	require.Equal(t, 20000, m.Len())

	for i := 0; i < 20000; i++ {
		v, ok := m.Get(i)
		require.True(t, ok)
		require.Equal(t, i*7, v)

		idx, ok := m.GetIndex(i)
		require.True(t, ok)
		require.False(t, seen[idx], "slot %d reused as a minimal perfect hash index", idx)
		seen[idx] = true
	}
}
