// Package agents provides the agent data model and the spawner that
// creates the initial town population and newborns.
package agents

import (
	"github.com/oakvale/townsim/internal/personality"
)

// AgentID is a unique identifier for an agent.
type AgentID uint64

// Sex represents biological sex for demographic simulation.
type Sex uint8

const (
	SexMale   Sex = 0
	SexFemale Sex = 1
)

// Orientation gates whether a directed romantic interest is possible.
type Orientation uint8

const (
	OrientationHeterosexual Orientation = iota
	OrientationHomosexual
	OrientationBisexual
	OrientationAsexual
)

// LocationID identifies a place in the town (home, business, public square).
type LocationID uint64

// Occupation is an agent's job role. Used to gate routine and coworker
// tracking; the economy behind it lives outside this core.
type Occupation uint8

const (
	OccupationNone Occupation = iota
	OccupationFarmer
	OccupationMiller
	OccupationBlacksmith
	OccupationShopkeeper
	OccupationInnkeeper
	OccupationCarpenter
	OccupationTailor
	OccupationTeacher
	OccupationDoctor
	OccupationLaborer
)

// TimestepsPerYear is the number of simulated days in one simulated year.
const TimestepsPerYear = 360

// MinSocialAge is the age (in years) below which agents neither observe
// nor socialize. Toddlers are present but socially inert.
const MinSocialAge = 3

// AdultAge gates marriage and employment.
const AdultAge = 18

// SocialTracking holds an agent's dynamic neighbor and coworker sets.
// Stale entries migrate to the former lists and are never discarded, so
// "we used to work together" stays knowable.
type SocialTracking struct {
	Neighbors       []AgentID `json:"neighbors,omitempty"`
	Coworkers       []AgentID `json:"coworkers,omitempty"`
	FormerNeighbors []AgentID `json:"former_neighbors,omitempty"`
	FormerCoworkers []AgentID `json:"former_coworkers,omitempty"`
}

// Agent is a persistent character in the simulated town.
type Agent struct {
	ID   AgentID `json:"id"`
	Name string  `json:"name"`

	// Demographics
	Age         uint16      `json:"age"` // Sim-years
	Sex         Sex         `json:"sex"`
	Orientation Orientation `json:"orientation"`
	Alive       bool        `json:"alive"`
	BornTick    uint64      `json:"born_tick"`

	// Personality — immutable once generated.
	Traits personality.Traits `json:"traits"`

	// Location & affiliation
	Location    LocationID  `json:"location"`
	HouseholdID *uint64     `json:"household_id,omitempty"`
	EmployerID  *uint64     `json:"employer_id,omitempty"`
	Occupation  Occupation  `json:"occupation"`

	// Family links
	Spouse   *AgentID  `json:"spouse,omitempty"`
	MotherID *AgentID  `json:"mother_id,omitempty"`
	FatherID *AgentID  `json:"father_id,omitempty"`
	Children []AgentID `json:"children,omitempty"`

	// Reproduction state
	Pregnant   bool     `json:"pregnant,omitempty"`
	DueTick    uint64   `json:"due_tick,omitempty"`
	PregnantBy *AgentID `json:"pregnant_by,omitempty"`

	// Money, maintained through the economy collaborator.
	Money int64 `json:"money"`

	// Dynamic social tracking, refreshed once per timestep.
	Tracking SocialTracking `json:"tracking"`
}

// Adult reports whether the agent is of marriageable age.
func (a *Agent) Adult() bool {
	return a.Age >= AdultAge
}

// Married reports whether the agent has a living spouse link.
func (a *Agent) Married() bool {
	return a.Spouse != nil
}

// SociallyActive reports whether the agent takes part in observation and
// socialization this timestep.
func (a *Agent) SociallyActive() bool {
	return a.Alive && a.Age > MinSocialAge
}
