package engine

import (
	"fmt"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/oakvale/townsim/internal/agents"
	"github.com/oakvale/townsim/internal/knowledge"
	"github.com/oakvale/townsim/internal/personality"
	"github.com/oakvale/townsim/internal/town"
)

// Test fixtures: hand-built towns with known ids, so every assertion can
// name exact agents instead of fishing through generated rosters.

func testTown() *town.Town {
	tw := &town.Town{
		Name:       "Testville",
		Places:     make(map[agents.LocationID]*town.Place),
		Households: make(map[uint64]*town.Household),
		Businesses: make(map[uint64]*town.Business),
	}
	tw.Square = 1
	tw.Places[1] = &town.Place{ID: 1, Name: "the town square", Kind: town.PlacePublic}
	return tw
}

func addHousehold(tw *town.Town, id uint64, street int, members ...*agents.Agent) *town.Household {
	home := agents.LocationID(100 + id)
	tw.Places[home] = &town.Place{ID: home, Name: fmt.Sprintf("house %d", id), Kind: town.PlaceHome}
	h := &town.Household{ID: id, Home: home, Street: street}
	tw.Households[id] = h
	for _, a := range members {
		hid := id
		a.HouseholdID = &hid
		a.Location = home
		h.AddMember(a.ID)
	}
	return h
}

func addBusiness(tw *town.Town, id uint64, employees ...*agents.Agent) *town.Business {
	place := agents.LocationID(200 + id)
	tw.Places[place] = &town.Place{ID: place, Name: fmt.Sprintf("shop %d", id), Kind: town.PlaceBusiness}
	b := &town.Business{ID: id, Name: fmt.Sprintf("shop %d", id), Place: place, Occupation: agents.OccupationShopkeeper}
	tw.Businesses[id] = b
	for _, a := range employees {
		eid := id
		a.EmployerID = &eid
		a.Occupation = b.Occupation
		b.AddEmployee(a.ID)
	}
	return b
}

func newAgent(id agents.AgentID, name string, age uint16, sex agents.Sex) *agents.Agent {
	return &agents.Agent{
		ID:          id,
		Name:        name,
		Age:         age,
		Sex:         sex,
		Orientation: agents.OrientationHeterosexual,
		Alive:       true,
		Money:       50,
		Traits: personality.Traits{
			Openness:          0.5,
			Conscientiousness: 0.5,
			Extroversion:      0.5,
			Agreeableness:     0.5,
			Neuroticism:       0.5,
		},
	}
}

func newTestWorld(tw *town.Town, roster []*agents.Agent) *World {
	sp := agents.NewSpawner(99)
	sp.SetNextID(1000) // Keep newborn ids clear of the fixture range.
	return NewWorld(tw, roster, sp, Options{Name: "test", Seed: 1})
}

func TestNewWorld_SeedsHouseholdFamiliarity(t *testing.T) {
	tw := testTown()
	a := newAgent(1, "Alden Oakes", 30, agents.SexMale)
	b := newAgent(2, "Cora Oakes", 28, agents.SexFemale)
	addHousehold(tw, 1, 0, a, b)

	w := newTestWorld(tw, []*agents.Agent{a, b})

	m := w.Knowledge.Get(a.ID, b.ID)
	require.NotNil(t, m)
	assert.True(t, m.Knows(knowledge.FactName))
	assert.True(t, m.Knows(knowledge.FactPersonality))

	// Cohabitants start warm, not strangers.
	rel := w.Relations.Get(a.ID, b.ID)
	require.NotNil(t, rel)
	assert.Equal(t, 20.0, rel.Charge)

	assert.Equal(t, MoraleBaseline, w.Morale)
	assert.Equal(t, 2, w.Stats.Population)
}

func TestNewWorld_CoworkersKnowBasicsOnly(t *testing.T) {
	tw := testTown()
	a := newAgent(1, "Alden Oakes", 30, agents.SexMale)
	b := newAgent(2, "Bram Dray", 40, agents.SexMale)
	addHousehold(tw, 1, 0, a)
	addHousehold(tw, 2, 1, b)
	addBusiness(tw, 1, a, b)

	w := newTestWorld(tw, []*agents.Agent{a, b})

	m := w.Knowledge.Get(a.ID, b.ID)
	require.NotNil(t, m)
	assert.True(t, m.Knows(knowledge.FactOccupation))
	assert.False(t, m.Knows(knowledge.FactPersonality))

	// No shared household, no seeded warmth.
	assert.Nil(t, w.Relations.Get(a.ID, b.ID))
}

func TestRefreshTracking_MigratesToFormer(t *testing.T) {
	tw := testTown()
	a := newAgent(1, "Alden Oakes", 30, agents.SexMale)
	b := newAgent(2, "Bram Dray", 40, agents.SexMale)
	c := newAgent(3, "Cora Vance", 35, agents.SexFemale)
	addHousehold(tw, 1, 0, a)
	addHousehold(tw, 2, 0, b) // Same street as a.
	addHousehold(tw, 3, 5, c)
	addBusiness(tw, 1, a, c)

	w := newTestWorld(tw, []*agents.Agent{a, b, c})

	w.refreshTracking()
	assert.Equal(t, []agents.AgentID{2}, a.Tracking.Neighbors)
	assert.Equal(t, []agents.AgentID{3}, a.Tracking.Coworkers)
	assert.Empty(t, a.Tracking.FormerNeighbors)

	// The neighbor dies; the history remembers them.
	b.Alive = false
	w.refreshTracking()
	assert.Empty(t, a.Tracking.Neighbors)
	assert.Equal(t, []agents.AgentID{2}, a.Tracking.FormerNeighbors)

	// Repeat refreshes do not duplicate history entries.
	w.refreshTracking()
	assert.Equal(t, []agents.AgentID{2}, a.Tracking.FormerNeighbors)
}

func TestAgentLookup_WrapsNotFound(t *testing.T) {
	tw := testTown()
	a := newAgent(1, "Alden Oakes", 30, agents.SexMale)
	addHousehold(tw, 1, 0, a)
	w := newTestWorld(tw, []*agents.Agent{a})

	_, err := w.agent(99)
	require.Error(t, err)
	assert.ErrorIs(t, err, ErrAgentNotFound)
}
