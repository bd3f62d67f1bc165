// Package relations maintains the affinity record for every agent pair:
// charge (platonic) and spark (romantic), one record per unordered pair.
package relations

import (
	"github.com/oakvale/townsim/internal/agents"
)

// Scalar bounds and the per-interaction drift cap. A single interaction
// may never move charge or spark by more than MaxStepDelta.
const (
	ChargeMin    = -100.0
	ChargeMax    = 100.0
	SparkMin     = 0.0
	SparkMax     = 100.0
	MaxStepDelta = 5.0
)

// CompatibilityBaseline is the default per-timestep charge drift for a
// socializing pair. A placeholder for a trait-derived score; positive so
// repeated contact trends toward friendship.
const CompatibilityBaseline = 0.5

// PairKey is the canonical unordered key for an agent pair. The ordering
// is enforced here, at the store boundary, so callers never produce
// duplicate records by swapping arguments.
type PairKey struct {
	Low  agents.AgentID
	High agents.AgentID
}

// NewPairKey normalizes (a, b) into canonical order.
func NewPairKey(a, b agents.AgentID) PairKey {
	if a > b {
		a, b = b, a
	}
	return PairKey{Low: a, High: b}
}

// Relationship is the affinity record for one unordered pair. Records are
// never deleted, even after a participant dies; posthumous sentiment
// (grief, old grudges) stays addressable.
type Relationship struct {
	Pair         PairKey `json:"pair"`
	Charge       float64 `json:"charge"` // Platonic affinity, ChargeMin..ChargeMax
	Spark        float64 `json:"spark"`  // Romantic attraction, SparkMin..SparkMax
	Interactions uint64  `json:"interactions"`
	LastTick     uint64  `json:"last_tick"`
}

// Store holds all relationship records for one world.
type Store struct {
	records map[PairKey]*Relationship
}

// NewStore creates an empty relationship store.
func NewStore() *Store {
	return &Store{records: make(map[PairKey]*Relationship)}
}

// Get returns the record for (a, b) or nil. Commutative in its arguments.
func (s *Store) Get(a, b agents.AgentID) *Relationship {
	return s.records[NewPairKey(a, b)]
}

// GetOrCreate returns the record for (a, b), creating a neutral one if
// absent.
func (s *Store) GetOrCreate(a, b agents.AgentID) *Relationship {
	key := NewPairKey(a, b)
	r, ok := s.records[key]
	if !ok {
		r = &Relationship{Pair: key}
		s.records[key] = r
	}
	return r
}

// UpdateCharge nudges the pair's charge by delta, creating the record if
// absent. The delta is capped to MaxStepDelta per call and the result is
// clamped to the legal range.
func (s *Store) UpdateCharge(a, b agents.AgentID, delta float64, tick uint64) *Relationship {
	r := s.GetOrCreate(a, b)
	r.Charge = clamp(r.Charge+capDelta(delta), ChargeMin, ChargeMax)
	r.Interactions++
	r.LastTick = tick
	return r
}

// UpdateSpark nudges the pair's spark by delta with the same capping and
// clamping rules. Orientation gating happens in the caller via
// MutualAttractionPossible; the store stays mechanical.
func (s *Store) UpdateSpark(a, b agents.AgentID, delta float64, tick uint64) *Relationship {
	r := s.GetOrCreate(a, b)
	r.Spark = clamp(r.Spark+capDelta(delta), SparkMin, SparkMax)
	r.LastTick = tick
	return r
}

// Progress advances a pair's charge as if `steps` timesteps of routine
// contact had occurred. Used by the low-fidelity scheduler to catch up
// skipped time in one call; each represented step still respects the
// per-interaction cap.
func (s *Store) Progress(a, b agents.AgentID, steps int, tick uint64) *Relationship {
	if steps < 1 {
		steps = 1
	}
	delta := CompatibilityBaseline * float64(steps)
	max := MaxStepDelta * float64(steps)
	if delta > max {
		delta = max
	} else if delta < -max {
		delta = -max
	}
	r := s.GetOrCreate(a, b)
	r.Charge = clamp(r.Charge+delta, ChargeMin, ChargeMax)
	r.Interactions += uint64(steps)
	r.LastTick = tick
	return r
}

// All returns every record. Iteration order is map order; callers needing
// determinism sort by key.
func (s *Store) All() []*Relationship {
	out := make([]*Relationship, 0, len(s.records))
	for _, r := range s.records {
		out = append(out, r)
	}
	return out
}

// Len returns the number of pair records.
func (s *Store) Len() int {
	return len(s.records)
}

// Put inserts a record directly (used when restoring from persistence).
// The pair key is re-normalized before indexing.
func (s *Store) Put(r *Relationship) {
	r.Pair = NewPairKey(r.Pair.Low, r.Pair.High)
	s.records[r.Pair] = r
}

func capDelta(d float64) float64 {
	if d > MaxStepDelta {
		return MaxStepDelta
	}
	if d < -MaxStepDelta {
		return -MaxStepDelta
	}
	return d
}

func clamp(v, lo, hi float64) float64 {
	if v < lo {
		return lo
	}
	if v > hi {
		return hi
	}
	return v
}
