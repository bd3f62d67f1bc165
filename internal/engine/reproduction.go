// Conception and birth evaluators.
package engine

import (
	"fmt"
	"log/slog"
	"math"

	"github.com/oakvale/townsim/internal/agents"
	"github.com/oakvale/townsim/internal/chronicle"
	"github.com/oakvale/townsim/internal/knowledge"
)

// Reproduction parameters.
const (
	ConceptionBaseChance = 0.10
	ConceptionMinAge     = 18
	ConceptionMaxAge     = 45
	ChildCountFactor     = 0.7 // Geometric damping per existing child.
	GestationTicks       = 270
)

// CheckForReproduction rolls conception for every married woman of
// childbearing age. The base chance shrinks linearly with age (to half
// at the upper bound) and geometrically with existing children.
func (w *World) CheckForReproduction(tick uint64) ([]chronicle.Record, error) {
	for _, a := range w.Agents {
		if !a.Alive || a.Sex != agents.SexFemale || !a.Married() || a.Pregnant {
			continue
		}
		if a.Age < ConceptionMinAge || a.Age > ConceptionMaxAge {
			continue
		}
		spouse, err := w.agent(*a.Spouse)
		if err != nil || !spouse.Alive {
			// Widowed or dangling spouse link; skip quietly.
			continue
		}

		ageScale := 1.0 - 0.5*float64(a.Age-ConceptionMinAge)/float64(ConceptionMaxAge-ConceptionMinAge)
		chance := ConceptionBaseChance * ageScale * math.Pow(ChildCountFactor, float64(len(a.Children)))

		if w.Rand.Float() >= chance {
			continue
		}

		sid := spouse.ID
		a.Pregnant = true
		a.DueTick = tick + GestationTicks
		a.PregnantBy = &sid
		slog.Debug("conception", "tick", tick, "mother", a.Name, "due", a.DueTick)
	}
	// Conception itself is private state, not a chronicle entry; the
	// record comes at birth.
	return nil, nil
}

// CheckForBirths delivers every pregnancy whose due timestep has arrived.
// The newborn gets lineage links to both parents, joins the mother's
// household, and the household's mutual knowledge is reseeded so the
// family knows the child from day one.
func (w *World) CheckForBirths(tick uint64) ([]chronicle.Record, error) {
	var out []chronicle.Record

	// Snapshot the roster: newborns appended mid-scan must not be scanned.
	roster := w.Agents
	for _, mother := range roster {
		if !mother.Alive || !mother.Pregnant || tick < mother.DueTick {
			continue
		}

		var father *agents.Agent
		if mother.PregnantBy != nil {
			// The father may have died during the pregnancy; lineage is
			// still recorded from the stored id.
			father = w.AgentIndex[*mother.PregnantBy]
		}

		child := w.Spawner.SpawnChildOf(mother, father, tick)
		w.addAgent(child)

		mother.Children = append(mother.Children, child.ID)
		if father != nil {
			father.Children = append(father.Children, child.ID)
		}

		// Parental bonds start warm; these are seeded directly rather
		// than accumulated through interactions.
		w.Relations.GetOrCreate(mother.ID, child.ID).Charge = 40
		if father != nil {
			w.Relations.GetOrCreate(father.ID, child.ID).Charge = 40
		}

		if h := w.Town.HouseholdOf(mother); h != nil {
			w.Knowledge.InitializeFamilyKnowledge(w.livingMembers(h.Members), tick)
		}
		w.Knowledge.AddFact(mother.ID, child.ID, knowledge.FactFamily, tick)

		mother.Pregnant = false
		mother.DueTick = 0
		mother.PregnantBy = nil

		w.Stats.Births++
		rec, err := w.record(tick, chronicle.KindBirth, birthParticipants(mother, father, child),
			fmt.Sprintf("%s was born", child.Name))
		if err != nil {
			return out, err
		}
		out = append(out, rec)
		slog.Info("birth", "tick", tick, "child", child.Name, "mother", mother.Name)
	}
	return out, nil
}

func birthParticipants(mother, father, child *agents.Agent) []agents.AgentID {
	ids := []agents.AgentID{child.ID, mother.ID}
	if father != nil {
		ids = append(ids, father.ID)
	}
	return ids
}
