package route

import (
	"fmt"
	"math/rand"
)

// NoIndex disables the exclusion in RandomIndexExcluding
const NoIndex = -1

func (r *Route) requireTwo() error {
	if len(r.stops) < 2 {
		return fmt.Errorf("%w: have %d, need at least 2", ErrTooFewDestinations, len(r.stops))
	}
	return nil
}

// RandomIndex picks a position uniformly from [0, Len)
func (r *Route) RandomIndex(rng *rand.Rand) (int, error) {
	if err := r.requireTwo(); err != nil {
		return 0, err
	}
	return rng.Intn(len(r.stops)), nil
}

// RandomIndexExcluding picks a position uniformly from [0, Len) other than
// exclude, by redrawing until it differs. NoIndex excludes nothing.
func (r *Route) RandomIndexExcluding(rng *rand.Rand, exclude int) (int, error) {
	if err := r.requireTwo(); err != nil {
		return 0, err
	}
	i := rng.Intn(len(r.stops))
	for i == exclude {
		i = rng.Intn(len(r.stops))
	}
	return i, nil
}

// TwoUniqueIndices picks two distinct positions
func (r *Route) TwoUniqueIndices(rng *rand.Rand) (int, int, error) {
	i, err := r.RandomIndexExcluding(rng, NoIndex)
	if err != nil {
		return 0, 0, err
	}
	j, err := r.RandomIndexExcluding(rng, i)
	if err != nil {
		return 0, 0, err
	}
	return i, j, nil
}

// TwoNeighbouringIndices picks a position and its cyclic predecessor.
// Position 0's predecessor is Len()-1.
func (r *Route) TwoNeighbouringIndices(rng *rand.Rand) (int, int, error) {
	i, err := r.RandomIndexExcluding(rng, NoIndex)
	if err != nil {
		return 0, 0, err
	}
	j := i - 1
	if i == 0 {
		j = len(r.stops) - 1
	}
	return i, j, nil
}
