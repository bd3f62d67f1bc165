// Death evaluator — old-age mortality, plus the shared kill pathway that
// disasters route casualties through.
package engine

import (
	"fmt"
	"log/slog"

	"github.com/oakvale/townsim/internal/agents"
	"github.com/oakvale/townsim/internal/chronicle"
)

// Mortality: no natural deaths below MortalityAge; above it, the
// per-timestep chance climbs linearly with each year.
const (
	MortalityAge     = 65
	MortalityPerYear = 0.00005
)

// FuneralMoraleHit is applied town-wide per death.
const FuneralMoraleHit = 5.0

// CheckForDeaths rolls old-age mortality for every living agent.
func (w *World) CheckForDeaths(tick uint64) ([]chronicle.Record, error) {
	var out []chronicle.Record
	for _, a := range w.Agents {
		if !a.Alive || a.Age <= MortalityAge {
			continue
		}
		chance := float64(a.Age-MortalityAge) * MortalityPerYear
		if w.Rand.Float() >= chance {
			continue
		}
		rec, err := w.kill(a, tick, "old age")
		if err != nil {
			return out, err
		}
		out = append(out, rec)
	}
	return out, nil
}

// kill marks an agent dead and applies the downstream effects: widowed
// spouses can remarry, the town mourns. Relationship and mental-model
// records are left untouched; grief needs something to point at.
func (w *World) kill(a *agents.Agent, tick uint64, cause string) (chronicle.Record, error) {
	a.Alive = false

	if a.Spouse != nil {
		if spouse, ok := w.AgentIndex[*a.Spouse]; ok {
			spouse.Spouse = nil
		}
		a.Spouse = nil
	}

	w.bumpMorale(-FuneralMoraleHit)
	w.Stats.Deaths++

	rec, err := w.record(tick, chronicle.KindDeath, []agents.AgentID{a.ID},
		fmt.Sprintf("%s died of %s at %d", a.Name, cause, a.Age))
	if err != nil {
		return rec, err
	}
	slog.Info("death", "tick", tick, "agent", a.Name, "cause", cause, "age", a.Age)
	return rec, nil
}
