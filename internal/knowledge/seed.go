// Bulk knowledge seeding at world bootstrap: household members know each
// other, coworkers know each other.
package knowledge

import (
	"github.com/oakvale/townsim/internal/agents"
)

// familyFacts are what household members know about each other from the
// start.
var familyFacts = []Fact{FactName, FactOccupation, FactLocation, FactFamily, FactPersonality}

// coworkerFacts are what workplace colleagues know about each other from
// the start.
var coworkerFacts = []Fact{FactName, FactOccupation, FactLocation}

// InitializeFamilyKnowledge seeds mutual models between every pair of
// household members.
func (s *Store) InitializeFamilyKnowledge(members []*agents.Agent, tick uint64) {
	seedGroup(s, members, familyFacts, tick)
}

// InitializeCoworkerKnowledge seeds mutual models between every pair of
// employees at one workplace.
func (s *Store) InitializeCoworkerKnowledge(employees []*agents.Agent, tick uint64) {
	seedGroup(s, employees, coworkerFacts, tick)
}

func seedGroup(s *Store, group []*agents.Agent, facts []Fact, tick uint64) {
	for _, a := range group {
		for _, b := range group {
			if a.ID == b.ID {
				continue
			}
			for _, f := range facts {
				s.AddFact(a.ID, b.ID, f, tick)
			}
		}
	}
}
