// Package route holds a single candidate tour and the positional primitives
// the genetic operators in internal/ga are built from.
//
// A Route only ever stores references to destinations owned by a Catalog.
// Randomness is always passed in as a *rand.Rand so runs can be replayed
// from a seed; a *rand.Rand must not be shared across goroutines.
package route

import (
	"fmt"
	"math/rand"
	"strings"
)

// Destination is an externally owned stop. Implementations must be
// comparable; routes compare destinations with ==.
type Destination interface {
	Name() string
}

// Catalog supplies the full destination set.
type Catalog interface {
	// Destinations returns a new slice on every call.
	Destinations() []Destination
}

// DistanceOracle returns the travel distance from one destination to another.
// Distances may be asymmetric.
type DistanceOracle interface {
	Distance(from, to Destination) (float64, error)
}

// Route is an ordered, duplicate-free cyclic tour plus its cached total distance
type Route struct {
	stops     []Destination
	total     float64
	evaluated bool
}

// New creates an empty, unevaluated route
func New() *Route {
	return &Route{}
}

// FromDestinations creates an unevaluated route with the given order
func FromDestinations(seq []Destination) *Route {
	r := New()
	r.SetDestinations(seq)
	return r
}

// Randomize replaces the route with a uniformly random permutation of the catalog
func (r *Route) Randomize(cat Catalog, rng *rand.Rand) {
	stops := cat.Destinations()
	rng.Shuffle(len(stops), func(i, j int) {
		stops[i], stops[j] = stops[j], stops[i]
	})
	r.stops = stops
}

// SetDestinations replaces the order verbatim. No validation is done.
func (r *Route) SetDestinations(seq []Destination) {
	r.stops = append([]Destination(nil), seq...)
}

// Evaluate computes the cyclic tour length, including the leg from the last
// destination back to the first, and caches it. Routes with fewer than two
// destinations evaluate to 0.
func (r *Route) Evaluate(oracle DistanceOracle) error {
	n := len(r.stops)
	if n < 2 {
		r.total = 0
		r.evaluated = true
		return nil
	}

	total := 0.0
	for i := 0; i < n; i++ {
		from := r.stops[i]
		to := r.stops[(i+1)%n]
		d, err := oracle.Distance(from, to)
		if err != nil {
			return fmt.Errorf("evaluate leg %d (%s -> %s): %w", i, from.Name(), to.Name(), err)
		}
		total += d
	}

	r.total = total
	r.evaluated = true
	return nil
}

// TotalDistance returns the cached distance from the last Evaluate.
// Mutations do not clear the cache, so after mutating a route the caller
// must evaluate it again to get a fresh value.
func (r *Route) TotalDistance() (float64, error) {
	if !r.evaluated {
		return 0, ErrNotEvaluated
	}
	return r.total, nil
}

// Evaluated reports whether a total distance is cached
func (r *Route) Evaluated() bool {
	return r.evaluated
}

// Len returns the number of destinations
func (r *Route) Len() int {
	return len(r.stops)
}

// DestinationAt returns the destination at position i
func (r *Route) DestinationAt(i int) (Destination, error) {
	if i < 0 || i >= len(r.stops) {
		return nil, fmt.Errorf("%w: %d not in [0, %d)", ErrIndexOutOfRange, i, len(r.stops))
	}
	return r.stops[i], nil
}

// Destinations returns a copy of the current order
func (r *Route) Destinations() []Destination {
	return append([]Destination(nil), r.stops...)
}

// Contains reports whether d is somewhere in the route
func (r *Route) Contains(d Destination) bool {
	for _, s := range r.stops {
		if s == d {
			return true
		}
	}
	return false
}

// Clone creates a deep copy of the order and the cache state
func (r *Route) Clone() *Route {
	return &Route{
		stops:     r.Destinations(),
		total:     r.total,
		evaluated: r.evaluated,
	}
}

// Swap exchanges the destinations at positions i and j
func (r *Route) Swap(i, j int) error {
	if err := r.checkIndex(i); err != nil {
		return err
	}
	if err := r.checkIndex(j); err != nil {
		return err
	}
	r.stops[i], r.stops[j] = r.stops[j], r.stops[i]
	return nil
}

// Move removes the destination at from, shifting later ones left, and then
// inserts it at position to of the shortened sequence. to may equal Len()-1,
// which puts the destination last.
func (r *Route) Move(from, to int) error {
	if err := r.checkIndex(from); err != nil {
		return err
	}
	if err := r.checkIndex(to); err != nil {
		return err
	}

	moving := r.stops[from]
	copy(r.stops[from:], r.stops[from+1:])
	rest := r.stops[:len(r.stops)-1]

	// Grow back by one and open a gap at to
	rest = append(rest, nil)
	copy(rest[to+1:], rest[to:])
	rest[to] = moving
	r.stops = rest
	return nil
}

func (r *Route) checkIndex(i int) error {
	if i < 0 || i >= len(r.stops) {
		return fmt.Errorf("%w: %d not in [0, %d)", ErrIndexOutOfRange, i, len(r.stops))
	}
	return nil
}

// Format renders the tour for diagnostics: the names in order, the first
// name again in parentheses to close the loop, then the distance if known.
func (r *Route) Format(prefix string) string {
	var b strings.Builder
	b.WriteString(prefix)

	for _, d := range r.stops {
		b.WriteString(" ")
		b.WriteString(d.Name())
	}
	if len(r.stops) > 0 {
		fmt.Fprintf(&b, " (%s)", r.stops[0].Name())
	}

	if r.evaluated {
		fmt.Fprintf(&b, " - total distance of %g", r.total)
	} else {
		b.WriteString(" (route not yet evaluated)")
	}
	return b.String()
}

// String implements fmt.Stringer
func (r *Route) String() string {
	return r.Format("Route:")
}
