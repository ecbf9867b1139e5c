package testutil

import (
	"math/rand"
	"sync"

	"github.com/hupe1980/geoclass/geo"
)

// RNG struct encapsulates the random number generator and seed.
// It is thread-safe.
type RNG struct {
	rand *rand.Rand
	seed int64
	mu   sync.Mutex
}

// NewRNG creates a new RNG instance with the specified seed.
func NewRNG(seed int64) *RNG {
	return &RNG{
		rand: rand.New(rand.NewSource(seed)),
		seed: seed,
	}
}

// Reset resets the RNG to its initial seed.
func (r *RNG) Reset() {
	r.mu.Lock()
	defer r.mu.Unlock()
	r.rand.Seed(r.seed)
}

// Seed returns the initial seed.
func (r *RNG) Seed() int64 {
	return r.seed
}

// Intn returns a non-negative pseudo-random number in [0,n).
func (r *RNG) Intn(n int) int {
	r.mu.Lock()
	defer r.mu.Unlock()
	return r.rand.Intn(n)
}

// Float64 returns a pseudo-random number in [0.0,1.0).
func (r *RNG) Float64() float64 {
	r.mu.Lock()
	defer r.mu.Unlock()
	return r.rand.Float64()
}

// Point returns a uniformly drawn valid coordinate.
func (r *RNG) Point() geo.Point {
	r.mu.Lock()
	defer r.mu.Unlock()
	return geo.Point{
		Lat: r.rand.Float64()*180 - 90,
		Lon: r.rand.Float64()*360 - 180,
	}
}

// Points returns n uniformly drawn coordinates.
func (r *RNG) Points(n int) []geo.Point {
	out := make([]geo.Point, n)
	for i := range out {
		out[i] = r.Point()
	}
	return out
}

// Near returns a coordinate within spread degrees of center, clamped to the
// valid range.
func (r *RNG) Near(center geo.Point, spread float64) geo.Point {
	r.mu.Lock()
	defer r.mu.Unlock()
	p := geo.Point{
		Lat: center.Lat + (r.rand.Float64()*2-1)*spread,
		Lon: center.Lon + (r.rand.Float64()*2-1)*spread,
	}
	p.Lat = min(max(p.Lat, -90), 90)
	p.Lon = min(max(p.Lon, -180), 180)
	return p
}

// Tags draws n tokens from vocab with replacement.
func (r *RNG) Tags(vocab []string, n int) []string {
	r.mu.Lock()
	defer r.mu.Unlock()
	out := make([]string, n)
	for i := range out {
		out[i] = vocab[r.rand.Intn(len(vocab))]
	}
	return out
}
