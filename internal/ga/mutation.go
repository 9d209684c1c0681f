package ga

import (
	"errors"
	"fmt"
	"math/rand"

	"tourga/internal/route"
)

// ErrInvalidBias is returned when the swap bias is outside [0, 1]
var ErrInvalidBias = errors.New("ga: swap bias must be within [0, 1]")

// Mutate applies one in-place mutation to r. With probability
// biasTowardsSwap two neighbouring destinations are switched, otherwise one
// destination is moved elsewhere in the route.
//
// The cached total distance is left as it was; re-evaluate r afterwards.
func Mutate(r *route.Route, biasTowardsSwap float64, rng *rand.Rand) error {
	if biasTowardsSwap < 0 || biasTowardsSwap > 1 {
		return fmt.Errorf("%w: got %v", ErrInvalidBias, biasTowardsSwap)
	}
	if r.Len() < 2 {
		return fmt.Errorf("mutate: %w", route.ErrTooFewDestinations)
	}

	if rng.Float64() < biasTowardsSwap {
		return SwapNeighbours(r, rng)
	}
	return Relocate(r, rng)
}

// SwapNeighbours switches a random destination with the one before it,
// wrapping from the first position to the last
func SwapNeighbours(r *route.Route, rng *rand.Rand) error {
	i, j, err := r.TwoNeighbouringIndices(rng)
	if err != nil {
		return fmt.Errorf("swap neighbours: %w", err)
	}
	return r.Swap(i, j)
}

// Relocate takes a random destination out of the route and inserts it at a
// different random position
func Relocate(r *route.Route, rng *rand.Rand) error {
	extraction, err := r.RandomIndex(rng)
	if err != nil {
		return fmt.Errorf("relocate: %w", err)
	}
	insertion, err := r.RandomIndexExcluding(rng, extraction)
	if err != nil {
		return fmt.Errorf("relocate: %w", err)
	}
	return r.Move(extraction, insertion)
}
