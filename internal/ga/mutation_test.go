package ga_test

import (
	"fmt"
	"math/rand"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"tourga/internal/catalog"
	"tourga/internal/ga"
	"tourga/internal/route"
)

// grid builds a catalog of n destinations on a line so every pair has a distance
func grid(t *testing.T, n int) *catalog.Catalog {
	t.Helper()
	f := catalog.File{}
	for i := 0; i < n; i++ {
		x, y := float64(i), float64(i%3)
		f.Destinations = append(f.Destinations, catalog.DestinationSpec{
			Name: fmt.Sprintf("D%02d", i),
			X:    &x,
			Y:    &y,
		})
	}
	cat, err := catalog.New(f)
	require.NoError(t, err)
	return cat
}

func names(r *route.Route) []string {
	var out []string
	for _, d := range r.Destinations() {
		out = append(out, d.Name())
	}
	return out
}

func assertPermutation(t *testing.T, want, got *route.Route) {
	t.Helper()
	require.Equal(t, want.Len(), got.Len())
	assert.ElementsMatch(t, names(want), names(got))

	seen := make(map[string]bool)
	for _, n := range names(got) {
		require.False(t, seen[n], "duplicate %s", n)
		seen[n] = true
	}
}

// changedPositions lists the indices where a and b differ
func changedPositions(a, b *route.Route) []int {
	var out []int
	x, y := a.Destinations(), b.Destinations()
	for i := range x {
		if x[i] != y[i] {
			out = append(out, i)
		}
	}
	return out
}

func TestSwapNeighbours_PreservesSetAndIsLocal(t *testing.T) {
	cat := grid(t, 9)
	rng := rand.New(rand.NewSource(21))

	for i := 0; i < 200; i++ {
		r := route.New()
		r.Randomize(cat, rng)
		before := r.Clone()

		require.NoError(t, ga.SwapNeighbours(r, rng))
		assertPermutation(t, before, r)

		changed := changedPositions(before, r)
		require.Len(t, changed, 2)
		a, b := changed[0], changed[1]
		adjacent := b-a == 1 || (a == 0 && b == r.Len()-1)
		assert.True(t, adjacent, "positions %d and %d are not neighbours", a, b)
	}
}

func TestSwapNeighbours_TwoDestinations(t *testing.T) {
	cat := grid(t, 2)
	r := route.FromDestinations(cat.Destinations())

	require.NoError(t, ga.SwapNeighbours(r, rand.New(rand.NewSource(1))))
	assert.Equal(t, []string{"D01", "D00"}, names(r))
}

func TestRelocate_MovesExactlyOneDestination(t *testing.T) {
	cat := grid(t, 8)
	rng := rand.New(rand.NewSource(22))

	for i := 0; i < 200; i++ {
		r := route.New()
		r.Randomize(cat, rng)
		before := r.Clone()

		require.NoError(t, ga.Relocate(r, rng))
		assertPermutation(t, before, r)
		require.NotEqual(t, names(before), names(r))

		// Removing the moved destination from both orders leaves the same sequence
		moved := findMoved(t, before, r)
		assert.Equal(t, without(names(before), moved), without(names(r), moved))
	}
}

func findMoved(t *testing.T, before, after *route.Route) string {
	t.Helper()
	for _, candidate := range names(before) {
		if assert.ObjectsAreEqual(without(names(before), candidate), without(names(after), candidate)) {
			return candidate
		}
	}
	t.Fatalf("no single relocated destination between %v and %v", names(before), names(after))
	return ""
}

func without(seq []string, drop string) []string {
	var out []string
	for _, s := range seq {
		if s != drop {
			out = append(out, s)
		}
	}
	return out
}

func TestMutate_PreservesSet(t *testing.T) {
	cat := grid(t, 10)
	rng := rand.New(rand.NewSource(23))

	for _, bias := range []float64{0, 0.3, 1} {
		r := route.New()
		r.Randomize(cat, rng)
		original := r.Clone()
		for i := 0; i < 100; i++ {
			require.NoError(t, ga.Mutate(r, bias, rng))
			assertPermutation(t, original, r)
		}
	}
}

func TestMutate_BiasOneAlwaysSwaps(t *testing.T) {
	cat := grid(t, 7)
	rng := rand.New(rand.NewSource(24))

	for i := 0; i < 100; i++ {
		r := route.New()
		r.Randomize(cat, rng)
		before := r.Clone()

		require.NoError(t, ga.Mutate(r, 1, rng))
		changed := changedPositions(before, r)
		require.Len(t, changed, 2)
		a, b := changed[0], changed[1]
		assert.True(t, b-a == 1 || (a == 0 && b == r.Len()-1))
	}
}

func TestMutate_SameSeedSameResult(t *testing.T) {
	cat := grid(t, 10)

	run := func() []string {
		rng := rand.New(rand.NewSource(77))
		r := route.New()
		r.Randomize(cat, rng)
		for i := 0; i < 25; i++ {
			require.NoError(t, ga.Mutate(r, 0.5, rng))
		}
		return names(r)
	}
	assert.Equal(t, run(), run())
}

func TestMutate_LeavesCacheStale(t *testing.T) {
	cat := grid(t, 6)
	rng := rand.New(rand.NewSource(25))

	r := route.New()
	r.Randomize(cat, rng)
	require.NoError(t, r.Evaluate(cat))
	cached, err := r.TotalDistance()
	require.NoError(t, err)

	for i := 0; i < 20; i++ {
		require.NoError(t, ga.Mutate(r, 0.5, rng))
	}

	stale, err := r.TotalDistance()
	require.NoError(t, err)
	assert.Equal(t, cached, stale)

	fresh := route.FromDestinations(r.Destinations())
	require.NoError(t, fresh.Evaluate(cat))
	want, err := fresh.TotalDistance()
	require.NoError(t, err)

	require.NoError(t, r.Evaluate(cat))
	got, err := r.TotalDistance()
	require.NoError(t, err)
	assert.Equal(t, want, got)
}

func TestMutate_NotEvaluatedStaysUnevaluated(t *testing.T) {
	cat := grid(t, 5)
	rng := rand.New(rand.NewSource(26))

	r := route.New()
	r.Randomize(cat, rng)
	require.NoError(t, ga.Mutate(r, 0.5, rng))

	_, err := r.TotalDistance()
	assert.ErrorIs(t, err, route.ErrNotEvaluated)
}

func TestMutate_Preconditions(t *testing.T) {
	cat := grid(t, 1)
	rng := rand.New(rand.NewSource(27))

	for _, r := range []*route.Route{route.New(), route.FromDestinations(cat.Destinations())} {
		assert.ErrorIs(t, ga.Mutate(r, 0.5, rng), route.ErrTooFewDestinations)
		assert.ErrorIs(t, ga.SwapNeighbours(r, rng), route.ErrTooFewDestinations)
		assert.ErrorIs(t, ga.Relocate(r, rng), route.ErrTooFewDestinations)
	}

	r := route.FromDestinations(grid(t, 3).Destinations())
	assert.ErrorIs(t, ga.Mutate(r, -0.1, rng), ga.ErrInvalidBias)
	assert.ErrorIs(t, ga.Mutate(r, 1.5, rng), ga.ErrInvalidBias)
}
