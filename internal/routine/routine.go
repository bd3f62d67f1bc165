// Package routine answers "where is this agent right now". The scheduler
// treats it as an external collaborator; this default implementation
// derives whereabouts from employment and the hour of day.
package routine

import (
	"github.com/oakvale/townsim/internal/agents"
	"github.com/oakvale/townsim/internal/town"
)

// TimeOfDay partitions the day into the two shifts the scheduler steps
// through.
type TimeOfDay string

const (
	Day   TimeOfDay = "day"
	Night TimeOfDay = "night"
)

// Provider resolves an agent's scheduled location for a given time.
type Provider interface {
	Whereabouts(a *agents.Agent, timeOfDay TimeOfDay, hour int) (agents.LocationID, error)
}

// Working hours for employed adults.
const (
	workStartHour = 8
	workEndHour   = 17
)

// TownProvider is the default Provider: employed adults are at their
// workplace during working hours, everyone else is home, and early
// evenings see some foot traffic on the square.
type TownProvider struct {
	Town *town.Town
}

// NewTownProvider creates a Provider over the given town.
func NewTownProvider(t *town.Town) *TownProvider {
	return &TownProvider{Town: t}
}

// Whereabouts implements Provider.
func (p *TownProvider) Whereabouts(a *agents.Agent, timeOfDay TimeOfDay, hour int) (agents.LocationID, error) {
	working := timeOfDay == Day && hour >= workStartHour && hour < workEndHour

	if working && a.Adult() && a.EmployerID != nil {
		if b := p.Town.BusinessOf(a); b != nil {
			return b.Place, nil
		}
	}

	// Early evening: agents drift to the square.
	if timeOfDay == Day && hour >= workEndHour && hour < workEndHour+2 {
		return p.Town.Square, nil
	}

	if h := p.Town.HouseholdOf(a); h != nil {
		return h.Home, nil
	}
	// No household on file: the square is where the unhoused end up.
	return p.Town.Square, nil
}
