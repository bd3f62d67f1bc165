// Package knowledge tracks what each agent believes about every other
// agent, and spreads those beliefs through conversation.
package knowledge

import (
	"github.com/oakvale/townsim/internal/agents"
)

// Fact is a tag for one category of knowable information about an agent.
type Fact string

const (
	FactName        Fact = "name"
	FactOccupation  Fact = "occupation"
	FactLocation    Fact = "location"
	FactFamily      Fact = "family"
	FactPersonality Fact = "personality"
	FactWealth      Fact = "wealth"
)

// AllFacts lists every fact tag. Familiarity is fact count over this total.
var AllFacts = []Fact{
	FactName, FactOccupation, FactLocation, FactFamily, FactPersonality, FactWealth,
}

// ModelKey identifies one directed belief record. Ordered: A's model of B
// is independent of B's model of A.
type ModelKey struct {
	Observer agents.AgentID
	Subject  agents.AgentID
}

// MentalModel is one agent's belief record about another. Facts only
// accumulate; a forgotten fact can always be re-taught, so nothing is
// ever removed.
type MentalModel struct {
	Observer agents.AgentID  `json:"observer"`
	Subject  agents.AgentID  `json:"subject"`
	Facts    map[Fact]uint64 `json:"facts"` // fact → timestep learned
}

// Knows reports whether the fact is already part of the model.
func (m *MentalModel) Knows(f Fact) bool {
	_, ok := m.Facts[f]
	return ok
}

// LearnedAt returns the timestep a fact was learned, or false.
func (m *MentalModel) LearnedAt(f Fact) (uint64, bool) {
	t, ok := m.Facts[f]
	return t, ok
}

// Familiarity is a confidence measure in [0, 1] derived from how many
// fact categories the observer has filled in.
func (m *MentalModel) Familiarity() float64 {
	return float64(len(m.Facts)) / float64(len(AllFacts))
}
