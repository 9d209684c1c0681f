// Package catalog loads the destination set and the distances between
// destinations from a YAML file. A *Catalog satisfies both route.Catalog and
// route.DistanceOracle.
package catalog

import (
	"errors"
	"fmt"
	"math"
	"os"

	"gopkg.in/yaml.v3"

	"tourga/internal/route"
)

var (
	ErrEmptyCatalog         = errors.New("catalog: no destinations")
	ErrDuplicateDestination = errors.New("catalog: duplicate destination")
	ErrUnknownDestination   = errors.New("catalog: unknown destination")
	ErrMissingDistance      = errors.New("catalog: no distance for pair")
	ErrNegativeDistance     = errors.New("catalog: negative distance")
)

// Destination is a named stop with optional planar coordinates
type Destination struct {
	name string
	X, Y float64
}

// Name returns the destination name
func (d *Destination) Name() string { return d.name }

func (d *Destination) String() string { return d.name }

// File is the on-disk catalog layout
type File struct {
	// Symmetric mirrors every listed pair in the reverse direction unless
	// the reverse is listed too.
	Symmetric    bool              `yaml:"symmetric"`
	Destinations []DestinationSpec `yaml:"destinations"`
	Distances    []DistanceSpec    `yaml:"distances"`
}

// DestinationSpec describes one destination. X and Y are only used when a
// pair has no explicit distance.
type DestinationSpec struct {
	Name string   `yaml:"name"`
	X    *float64 `yaml:"x"`
	Y    *float64 `yaml:"y"`
}

// DistanceSpec is one directed distance
type DistanceSpec struct {
	From     string  `yaml:"from"`
	To       string  `yaml:"to"`
	Distance float64 `yaml:"distance"`
}

type pair struct {
	from, to *Destination
}

// Catalog owns the destinations and their pairwise distances. It is read-only
// after construction and safe to share.
type Catalog struct {
	dests     []*Destination
	byName    map[string]*Destination
	distances map[pair]float64
	hasCoords map[*Destination]bool
}

// Load reads a YAML catalog file
func Load(path string) (*Catalog, error) {
	data, err := os.ReadFile(path)
	if err != nil {
		return nil, fmt.Errorf("load catalog %q: %w", path, err)
	}

	var f File
	if err := yaml.Unmarshal(data, &f); err != nil {
		return nil, fmt.Errorf("load catalog %q: %w", path, err)
	}

	c, err := New(f)
	if err != nil {
		return nil, fmt.Errorf("load catalog %q: %w", path, err)
	}
	return c, nil
}

// New validates f and builds a catalog from it
func New(f File) (*Catalog, error) {
	if len(f.Destinations) == 0 {
		return nil, ErrEmptyCatalog
	}

	c := &Catalog{
		dests:     make([]*Destination, 0, len(f.Destinations)),
		byName:    make(map[string]*Destination, len(f.Destinations)),
		distances: make(map[pair]float64, len(f.Distances)*2),
		hasCoords: make(map[*Destination]bool),
	}

	for _, spec := range f.Destinations {
		if _, ok := c.byName[spec.Name]; ok {
			return nil, fmt.Errorf("%w: %q", ErrDuplicateDestination, spec.Name)
		}
		d := &Destination{name: spec.Name}
		if spec.X != nil && spec.Y != nil {
			d.X, d.Y = *spec.X, *spec.Y
			c.hasCoords[d] = true
		}
		c.dests = append(c.dests, d)
		c.byName[spec.Name] = d
	}

	explicit := make(map[pair]bool, len(f.Distances))
	for _, spec := range f.Distances {
		from, ok := c.byName[spec.From]
		if !ok {
			return nil, fmt.Errorf("%w: %q", ErrUnknownDestination, spec.From)
		}
		to, ok := c.byName[spec.To]
		if !ok {
			return nil, fmt.Errorf("%w: %q", ErrUnknownDestination, spec.To)
		}
		if spec.Distance < 0 || math.IsNaN(spec.Distance) {
			return nil, fmt.Errorf("%w: %s -> %s = %v", ErrNegativeDistance, spec.From, spec.To, spec.Distance)
		}

		p := pair{from, to}
		c.distances[p] = spec.Distance
		explicit[p] = true
	}

	if f.Symmetric {
		for _, spec := range f.Distances {
			rev := pair{c.byName[spec.To], c.byName[spec.From]}
			if !explicit[rev] {
				c.distances[rev] = spec.Distance
			}
		}
	}

	return c, nil
}

// Len returns the number of destinations
func (c *Catalog) Len() int {
	return len(c.dests)
}

// Destinations returns the destinations in file order, in a new slice
func (c *Catalog) Destinations() []route.Destination {
	out := make([]route.Destination, len(c.dests))
	for i, d := range c.dests {
		out[i] = d
	}
	return out
}

// Lookup resolves names to destinations, preserving order
func (c *Catalog) Lookup(names ...string) ([]route.Destination, error) {
	out := make([]route.Destination, 0, len(names))
	for _, name := range names {
		d, ok := c.byName[name]
		if !ok {
			return nil, fmt.Errorf("%w: %q", ErrUnknownDestination, name)
		}
		out = append(out, d)
	}
	return out, nil
}

// Distance returns the directed distance from one destination to another.
// Explicit pairs win; otherwise the Euclidean distance is used when both ends
// have coordinates. A destination is always 0 away from itself.
func (c *Catalog) Distance(from, to route.Destination) (float64, error) {
	a, err := c.own(from)
	if err != nil {
		return 0, err
	}
	b, err := c.own(to)
	if err != nil {
		return 0, err
	}

	if d, ok := c.distances[pair{a, b}]; ok {
		return d, nil
	}
	if a == b {
		return 0, nil
	}
	if c.hasCoords[a] && c.hasCoords[b] {
		return math.Hypot(a.X-b.X, a.Y-b.Y), nil
	}
	return 0, fmt.Errorf("%w: %s -> %s", ErrMissingDistance, a.name, b.name)
}

func (c *Catalog) own(d route.Destination) (*Destination, error) {
	cd, ok := d.(*Destination)
	if !ok {
		if d == nil {
			return nil, fmt.Errorf("%w: <nil>", ErrUnknownDestination)
		}
		return nil, fmt.Errorf("%w: %q", ErrUnknownDestination, d.Name())
	}
	if cd == nil || c.byName[cd.name] != cd {
		return nil, fmt.Errorf("%w: foreign destination", ErrUnknownDestination)
	}
	return cd, nil
}
