// Package entropy provides injectable random sources for the simulation's
// probability gates. The scheduler never calls math/rand directly; it draws
// from a Source so tests can script exact outcomes.
package entropy

import (
	"crypto/rand"
	"encoding/binary"
	mrand "math/rand"
	"sync"
)

// Source yields uniform floats in [0, 1).
type Source interface {
	Float() float64
}

// Seeded is a deterministic Source backed by math/rand. Safe for use from
// a single goroutine, which matches the single-threaded timestep loop.
type Seeded struct {
	rng *mrand.Rand
}

// NewSeeded creates a reproducible Source from a seed.
func NewSeeded(seed int64) *Seeded {
	return &Seeded{rng: mrand.New(mrand.NewSource(seed))}
}

// Float returns the next uniform float in [0, 1).
func (s *Seeded) Float() float64 {
	return s.rng.Float64()
}

// Intn returns a uniform int in [0, n).
func (s *Seeded) Intn(n int) int {
	return s.rng.Intn(n)
}

// Shuffle permutes n elements using the swap function.
func (s *Seeded) Shuffle(n int, swap func(i, j int)) {
	s.rng.Shuffle(n, swap)
}

// NormFloat returns a normally distributed float (mean 0, stddev 1).
func (s *Seeded) NormFloat() float64 {
	return s.rng.NormFloat64()
}

// Sequence is a scripted Source for tests: it replays the given values in
// order, then repeats the last one forever.
type Sequence struct {
	mu     sync.Mutex
	values []float64
	pos    int
}

// NewSequence creates a Source that replays values.
func NewSequence(values ...float64) *Sequence {
	if len(values) == 0 {
		values = []float64{0.5}
	}
	return &Sequence{values: values}
}

// Float returns the next scripted value.
func (s *Sequence) Float() float64 {
	s.mu.Lock()
	defer s.mu.Unlock()
	v := s.values[s.pos]
	if s.pos < len(s.values)-1 {
		s.pos++
	}
	return v
}

// Constant returns a Source that always yields v. A Constant(0) source
// forces every probability gate open; Constant(1) forces them all shut.
func Constant(v float64) *Sequence {
	return NewSequence(v)
}

// CryptoFloat generates a random float64 using crypto/rand. Used to seed
// worlds when no explicit seed is configured.
func CryptoFloat() float64 {
	var buf [8]byte
	if _, err := rand.Read(buf[:]); err != nil {
		// Should never happen; 0.5 is a safe default.
		return 0.5
	}
	// Use only 53 bits for a uniform float64 in [0, 1).
	n := binary.LittleEndian.Uint64(buf[:]) >> 11
	return float64(n) / float64(1<<53)
}
