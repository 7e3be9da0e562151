package decluster

import (
	"math"
	"math/rand/v2"
	"sync"

	"epd-map-api/internal/models"
)

// DefaultMaxRadius is the spread, in coordinate degrees, around a shared point.
const DefaultMaxRadius = 2.0

// RandomSource yields values in [0, 1). *rand.Rand satisfies it.
type RandomSource interface {
	Float64() float64
}

// LockedSource makes a RandomSource safe for concurrent callers.
type LockedSource struct {
	mu  sync.Mutex
	src RandomSource
}

// NewLockedSource wraps src.
func NewLockedSource(src RandomSource) *LockedSource {
	return &LockedSource{src: src}
}

// NewSeededSource returns a concurrency-safe PCG source for the given seed.
func NewSeededSource(seed uint64) *LockedSource {
	return NewLockedSource(rand.New(rand.NewPCG(seed, seed^0x9e3779b97f4a7c15)))
}

func (s *LockedSource) Float64() float64 {
	s.mu.Lock()
	defer s.mu.Unlock()
	return s.src.Float64()
}

// Declusterer spreads entities sharing a coordinate around it so that each
// stays individually clickable. Points sit at evenly spaced angles with a
// random radius, so they may still overlap.
type Declusterer struct {
	rnd       RandomSource
	maxRadius float64
}

// Option configures a Declusterer.
type Option func(*Declusterer)

// WithMaxRadius overrides DefaultMaxRadius.
func WithMaxRadius(r float64) Option {
	return func(d *Declusterer) {
		d.maxRadius = r
	}
}

// New creates a declusterer drawing radii from rnd.
func New(rnd RandomSource, opts ...Option) *Declusterer {
	if rnd == nil {
		panic("decluster: nil random source")
	}
	d := &Declusterer{rnd: rnd, maxRadius: DefaultMaxRadius}
	for _, opt := range opts {
		opt(d)
	}
	if d.maxRadius < 0 || math.IsNaN(d.maxRadius) || math.IsInf(d.maxRadius, 0) {
		d.maxRadius = DefaultMaxRadius
	}
	return d
}

// MaxRadius returns the configured spread.
func (d *Declusterer) MaxRadius() float64 {
	return d.maxRadius
}

// Group returns count points around (lat, lng). Point i sits at angle
// i*2π/count and a random radius in [0, maxRadius]. A group of one is placed
// like any other, at angle 0.
func (d *Declusterer) Group(lat, lng float64, count int) []models.Point {
	if count <= 0 {
		return []models.Point{}
	}

	step := 2 * math.Pi / float64(count)
	points := make([]models.Point, count)
	for i := range points {
		angle := float64(i) * step
		radius := d.rnd.Float64() * d.maxRadius
		points[i] = models.Point{
			Lat: lat + radius*math.Sin(angle),
			Lng: lng + radius*math.Cos(angle),
		}
	}
	return points
}

// All groups locations by country and spreads each group around the
// coordinate of its first member. Output order matches input order.
func (d *Declusterer) All(locations []models.Location) []models.Location {
	groups := make(map[string][]int)
	var order []string
	for i, loc := range locations {
		if _, ok := groups[loc.Country]; !ok {
			order = append(order, loc.Country)
		}
		groups[loc.Country] = append(groups[loc.Country], i)
	}

	out := make([]models.Location, len(locations))
	for _, country := range order {
		members := groups[country]
		first := locations[members[0]]
		points := d.Group(first.Latitude, first.Longitude, len(members))
		for j, idx := range members {
			out[idx] = locations[idx].WithCoordinates(points[j].Lat, points[j].Lng)
		}
	}
	return out
}
