// Package town provides the settlement data model this core simulates
// within: places, households, and businesses.
package town

import (
	"github.com/oakvale/townsim/internal/agents"
)

// PlaceKind classifies a location.
type PlaceKind uint8

const (
	PlaceHome PlaceKind = iota
	PlaceBusiness
	PlacePublic
)

// Place is a location agents can be at.
type Place struct {
	ID   agents.LocationID `json:"id"`
	Name string            `json:"name"`
	Kind PlaceKind         `json:"kind"`
}

// Household groups agents who live together. Households on the same
// street are neighbors.
type Household struct {
	ID      uint64            `json:"id"`
	Home    agents.LocationID `json:"home"`
	Street  int               `json:"street"`
	Members []agents.AgentID  `json:"members"`
}

// Business is a workplace employing agents.
type Business struct {
	ID         uint64            `json:"id"`
	Name       string            `json:"name"`
	Place      agents.LocationID `json:"place"`
	Occupation agents.Occupation `json:"occupation"`
	Employees  []agents.AgentID  `json:"employees"`
}

// Town is the static geography and grouping this world simulates within.
// Generated once at bootstrap; membership lists mutate as agents are
// born, hired, and die.
type Town struct {
	Name       string                       `json:"name"`
	Places     map[agents.LocationID]*Place `json:"places"`
	Households map[uint64]*Household        `json:"households"`
	Businesses map[uint64]*Business         `json:"businesses"`
	Square     agents.LocationID            `json:"square"` // The public gathering place.
}

// HouseholdOf returns the household an agent belongs to, or nil.
func (t *Town) HouseholdOf(a *agents.Agent) *Household {
	if a.HouseholdID == nil {
		return nil
	}
	return t.Households[*a.HouseholdID]
}

// BusinessOf returns the business employing an agent, or nil.
func (t *Town) BusinessOf(a *agents.Agent) *Business {
	if a.EmployerID == nil {
		return nil
	}
	return t.Businesses[*a.EmployerID]
}

// AddMember appends an agent to a household's member list.
func (h *Household) AddMember(id agents.AgentID) {
	for _, m := range h.Members {
		if m == id {
			return
		}
	}
	h.Members = append(h.Members, id)
}

// AddEmployee appends an agent to a business's employee list.
func (b *Business) AddEmployee(id agents.AgentID) {
	for _, e := range b.Employees {
		if e == id {
			return
		}
	}
	b.Employees = append(b.Employees, id)
}
