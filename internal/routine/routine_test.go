package routine

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/oakvale/townsim/internal/agents"
	"github.com/oakvale/townsim/internal/town"
)

func fixtureTown() (*town.Town, *agents.Agent) {
	tw := &town.Town{
		Name:       "Testville",
		Places:     make(map[agents.LocationID]*town.Place),
		Households: make(map[uint64]*town.Household),
		Businesses: make(map[uint64]*town.Business),
		Square:     1,
	}
	tw.Places[1] = &town.Place{ID: 1, Kind: town.PlacePublic}
	tw.Places[2] = &town.Place{ID: 2, Kind: town.PlaceHome}
	tw.Places[3] = &town.Place{ID: 3, Kind: town.PlaceBusiness}

	hid, bid := uint64(1), uint64(1)
	tw.Households[hid] = &town.Household{ID: hid, Home: 2, Members: []agents.AgentID{1}}
	tw.Businesses[bid] = &town.Business{ID: bid, Place: 3, Employees: []agents.AgentID{1}}

	a := &agents.Agent{
		ID: 1, Age: 30, Alive: true,
		HouseholdID: &hid,
		EmployerID:  &bid,
	}
	return tw, a
}

func TestWhereabouts_WorkdaySchedule(t *testing.T) {
	tw, a := fixtureTown()
	p := NewTownProvider(tw)

	loc, err := p.Whereabouts(a, Day, 10)
	require.NoError(t, err)
	assert.Equal(t, agents.LocationID(3), loc, "working hours put employed adults at work")

	loc, err = p.Whereabouts(a, Day, 18)
	require.NoError(t, err)
	assert.Equal(t, tw.Square, loc, "early evening drifts to the square")

	loc, err = p.Whereabouts(a, Night, 22)
	require.NoError(t, err)
	assert.Equal(t, agents.LocationID(2), loc, "night means home")
}

func TestWhereabouts_ChildrenStayHome(t *testing.T) {
	tw, a := fixtureTown()
	a.Age = 10
	p := NewTownProvider(tw)

	loc, err := p.Whereabouts(a, Day, 10)
	require.NoError(t, err)
	assert.Equal(t, agents.LocationID(2), loc)
}

func TestWhereabouts_UnemployedAtHomeDuringDay(t *testing.T) {
	tw, a := fixtureTown()
	a.EmployerID = nil
	p := NewTownProvider(tw)

	loc, err := p.Whereabouts(a, Day, 10)
	require.NoError(t, err)
	assert.Equal(t, agents.LocationID(2), loc)
}

func TestWhereabouts_UnhousedFallsBackToSquare(t *testing.T) {
	tw, a := fixtureTown()
	a.HouseholdID = nil
	a.EmployerID = nil
	p := NewTownProvider(tw)

	loc, err := p.Whereabouts(a, Night, 23)
	require.NoError(t, err)
	assert.Equal(t, tw.Square, loc)
}
