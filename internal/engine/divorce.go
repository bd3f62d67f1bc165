// Divorce evaluator — each married couple is checked exactly once per
// timestep.
package engine

import (
	"fmt"
	"log/slog"

	"github.com/oakvale/townsim/internal/agents"
	"github.com/oakvale/townsim/internal/chronicle"
)

// Divorce thresholds and per-timestep probability.
const (
	DivorceCharge = -50.0
	DivorceSpark  = 10.0
	DivorceChance = 0.02
)

// CheckForDivorces scans married pairs. The lower agent id carries the
// check, which deduplicates each couple to a single evaluation per
// timestep. A missing spouse record is skipped silently; the spouse may
// have died earlier in this same timestep.
func (w *World) CheckForDivorces(tick uint64) ([]chronicle.Record, error) {
	var out []chronicle.Record
	for _, a := range w.Agents {
		if !a.Alive || !a.Married() || a.ID > *a.Spouse {
			continue
		}
		spouse, err := w.agent(*a.Spouse)
		if err != nil {
			continue
		}

		rel := w.Relations.Get(a.ID, spouse.ID)
		if rel == nil {
			continue
		}
		if rel.Charge >= DivorceCharge && rel.Spark >= DivorceSpark {
			continue
		}
		if w.Rand.Float() >= DivorceChance {
			continue
		}

		// Both links clear together; no observable half-divorced state.
		a.Spouse = nil
		spouse.Spouse = nil
		w.Stats.Divorces++

		rec, recErr := w.record(tick, chronicle.KindDivorce, []agents.AgentID{a.ID, spouse.ID},
			fmt.Sprintf("%s and %s divorced", a.Name, spouse.Name))
		if recErr != nil {
			return out, recErr
		}
		out = append(out, rec)
		slog.Info("divorce", "tick", tick, "a", a.Name, "b", spouse.Name)
	}
	return out, nil
}
