// Package ga implements the genetic operators over routes: in-place mutation
// and ordered crossover. Every operator takes the random source explicitly.
package ga

import (
	"fmt"
	"math/rand"

	"tourga/internal/route"
)

// SpawnFromParents creates a child route from two parents of equal length,
// cutting at a midpoint drawn uniformly from [0, N]
func SpawnFromParents(p1, p2 *route.Route, rng *rand.Rand) (*route.Route, error) {
	n := p1.Len()
	if p2.Len() != n {
		return nil, fmt.Errorf("%w: %d vs %d", route.ErrLengthMismatch, n, p2.Len())
	}

	midpoint := rng.Intn(n + 1)
	return SpawnAtMidpoint(p1, p2, midpoint)
}

// SpawnAtMidpoint builds a child whose first midpoint destinations are copied
// from p1. The rest are taken from p2 in p2's order, skipping anything the
// child already holds.
//
// Both parents are expected to hold the same destinations. That is only
// checked indirectly: a child of the wrong length yields route.ErrChildLength.
// The child is not evaluated.
func SpawnAtMidpoint(p1, p2 *route.Route, midpoint int) (*route.Route, error) {
	n := p1.Len()
	if p2.Len() != n {
		return nil, fmt.Errorf("%w: %d vs %d", route.ErrLengthMismatch, n, p2.Len())
	}
	if midpoint < 0 || midpoint > n {
		return nil, fmt.Errorf("%w: midpoint %d not in [0, %d]", route.ErrIndexOutOfRange, midpoint, n)
	}

	first := p1.Destinations()
	second := p2.Destinations()

	stops := make([]route.Destination, 0, n)
	present := make(map[route.Destination]struct{}, n)

	for _, d := range first[:midpoint] {
		stops = append(stops, d)
		present[d] = struct{}{}
	}

	for _, d := range second {
		if _, ok := present[d]; ok {
			continue
		}
		stops = append(stops, d)
		present[d] = struct{}{}
	}

	if len(stops) != n {
		return nil, fmt.Errorf("%w: got %d, want %d", route.ErrChildLength, len(stops), n)
	}

	return route.FromDestinations(stops), nil
}
