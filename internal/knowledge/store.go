package knowledge

import (
	"github.com/oakvale/townsim/internal/agents"
)

// Store holds all mental models for one world, keyed by ordered
// (observer, subject) pair. Models are created lazily and never deleted.
type Store struct {
	models map[ModelKey]*MentalModel

	// byObserver indexes subject ids per observer for gossip candidate
	// scans without walking the whole map.
	byObserver map[agents.AgentID][]agents.AgentID
}

// NewStore creates an empty knowledge store.
func NewStore() *Store {
	return &Store{
		models:     make(map[ModelKey]*MentalModel),
		byObserver: make(map[agents.AgentID][]agents.AgentID),
	}
}

// GetOrCreate returns observer's model of subject. With autoCreate false
// it returns (nil, false) when no model exists yet; with autoCreate true
// a fresh empty model is created and returned.
func (s *Store) GetOrCreate(observer, subject agents.AgentID, autoCreate bool) (*MentalModel, bool) {
	key := ModelKey{Observer: observer, Subject: subject}
	if m, ok := s.models[key]; ok {
		return m, true
	}
	if !autoCreate {
		return nil, false
	}
	m := &MentalModel{
		Observer: observer,
		Subject:  subject,
		Facts:    make(map[Fact]uint64),
	}
	s.models[key] = m
	s.byObserver[observer] = append(s.byObserver[observer], subject)
	return m, true
}

// Get returns observer's model of subject, or nil.
func (s *Store) Get(observer, subject agents.AgentID) *MentalModel {
	return s.models[ModelKey{Observer: observer, Subject: subject}]
}

// AddFact idempotently marks a fact as known, stamping the timestep it
// was learned. Re-learning a known fact is a no-op and keeps the original
// timestamp. Returns true if the fact was new.
func (s *Store) AddFact(observer, subject agents.AgentID, f Fact, tick uint64) bool {
	m, _ := s.GetOrCreate(observer, subject, true)
	if m.Knows(f) {
		return false
	}
	m.Facts[f] = tick
	return true
}

// SubjectsKnownBy returns the ids the observer holds any model of, in
// insertion order.
func (s *Store) SubjectsKnownBy(observer agents.AgentID) []agents.AgentID {
	return s.byObserver[observer]
}

// All returns every model. Order is map order.
func (s *Store) All() []*MentalModel {
	out := make([]*MentalModel, 0, len(s.models))
	for _, m := range s.models {
		out = append(out, m)
	}
	return out
}

// Len returns the number of directed models held.
func (s *Store) Len() int {
	return len(s.models)
}

// Put inserts a model directly (used when restoring from persistence).
func (s *Store) Put(m *MentalModel) {
	key := ModelKey{Observer: m.Observer, Subject: m.Subject}
	if _, exists := s.models[key]; !exists {
		s.byObserver[m.Observer] = append(s.byObserver[m.Observer], m.Subject)
	}
	if m.Facts == nil {
		m.Facts = make(map[Fact]uint64)
	}
	s.models[key] = m
}
