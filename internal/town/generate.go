// Town bootstrap — builds the places, households, and businesses for a
// fresh world and populates them with spawned agents.
package town

import (
	"fmt"

	"github.com/oakvale/townsim/internal/agents"
	"github.com/oakvale/townsim/internal/entropy"
)

// GenConfig controls initial town generation.
type GenConfig struct {
	Name       string
	Population int
	Seed       int64
}

// DefaultGenConfig returns sensible bootstrap settings.
func DefaultGenConfig() GenConfig {
	return GenConfig{
		Name:       "Oakvale",
		Population: 120,
		Seed:       42,
	}
}

var businessNames = []struct {
	name string
	occ  agents.Occupation
}{
	{"the mill", agents.OccupationMiller},
	{"the forge", agents.OccupationBlacksmith},
	{"the general store", agents.OccupationShopkeeper},
	{"the inn", agents.OccupationInnkeeper},
	{"the carpentry shop", agents.OccupationCarpenter},
	{"the tailor shop", agents.OccupationTailor},
	{"the schoolhouse", agents.OccupationTeacher},
	{"the surgery", agents.OccupationDoctor},
	{"the north farm", agents.OccupationFarmer},
	{"the south farm", agents.OccupationFarmer},
}

// Generate builds a town and its starting population. Adults are grouped
// into households of one or two (couples share a surname-free pairing;
// marriage proper happens in the simulation), each household gets a home
// place on a street, and working adults are spread across businesses.
func Generate(cfg GenConfig, spawner *agents.Spawner) (*Town, []*agents.Agent) {
	rng := entropy.NewSeeded(cfg.Seed + 700)

	t := &Town{
		Name:       cfg.Name,
		Places:     make(map[agents.LocationID]*Place),
		Households: make(map[uint64]*Household),
		Businesses: make(map[uint64]*Business),
	}

	nextPlace := agents.LocationID(1)
	addPlace := func(name string, kind PlaceKind) agents.LocationID {
		id := nextPlace
		nextPlace++
		t.Places[id] = &Place{ID: id, Name: name, Kind: kind}
		return id
	}

	t.Square = addPlace("the town square", PlacePublic)

	// Businesses first, so employment can be assigned as people spawn.
	for i, b := range businessNames {
		place := addPlace(b.name, PlaceBusiness)
		t.Businesses[uint64(i+1)] = &Business{
			ID:         uint64(i + 1),
			Name:       b.name,
			Place:      place,
			Occupation: b.occ,
		}
	}

	var roster []*agents.Agent
	nextHousehold := uint64(1)
	remaining := cfg.Population

	for remaining > 0 {
		hid := nextHousehold
		nextHousehold++
		home := addPlace(fmt.Sprintf("house %d", hid), PlaceHome)
		h := &Household{
			ID:     hid,
			Home:   home,
			Street: int(hid) % 6,
		}
		t.Households[hid] = h

		// One or two adults per starting household.
		size := 1
		if remaining >= 2 && rng.Float() < 0.6 {
			size = 2
		}
		for i := 0; i < size; i++ {
			a := spawner.SpawnAdult()
			a.HouseholdID = &hid
			a.Location = home
			assignEmployment(t, a, rng)
			h.AddMember(a.ID)
			roster = append(roster, a)
			remaining--
		}
	}

	return t, roster
}

// assignEmployment places an adult at a business, weighted toward the
// farms and workshops; roughly one in five stays unemployed.
func assignEmployment(t *Town, a *agents.Agent, rng *entropy.Seeded) {
	if rng.Float() < 0.2 {
		a.Occupation = agents.OccupationNone
		return
	}
	bid := uint64(rng.Intn(len(t.Businesses))) + 1
	b := t.Businesses[bid]
	a.EmployerID = &bid
	a.Occupation = b.Occupation
	b.AddEmployee(a.ID)
}
