// Dynamic tracking — neighbor and coworker sets, refreshed at the end of
// each timestep. Stale entries move to the "former" lists and stay there.
package engine

import (
	"github.com/oakvale/townsim/internal/agents"
)

// refreshTracking recomputes every living agent's current neighbor and
// coworker sets and migrates dropped entries into history. Returns the
// number of agents whose sets changed.
func (w *World) refreshTracking() int {
	changed := 0
	for _, a := range w.Agents {
		if !a.Alive {
			continue
		}
		neighbors := w.currentNeighbors(a)
		coworkers := w.currentCoworkers(a)

		moved := migrate(a.Tracking.Neighbors, neighbors, &a.Tracking.FormerNeighbors)
		moved = migrate(a.Tracking.Coworkers, coworkers, &a.Tracking.FormerCoworkers) || moved

		if moved || !sameSet(a.Tracking.Neighbors, neighbors) || !sameSet(a.Tracking.Coworkers, coworkers) {
			changed++
		}
		a.Tracking.Neighbors = neighbors
		a.Tracking.Coworkers = coworkers
	}
	return changed
}

// currentNeighbors returns living members of other households on the same
// street.
func (w *World) currentNeighbors(a *agents.Agent) []agents.AgentID {
	h := w.Town.HouseholdOf(a)
	if h == nil {
		return nil
	}
	var out []agents.AgentID
	for _, other := range w.Town.Households {
		if other.ID == h.ID || other.Street != h.Street {
			continue
		}
		for _, id := range other.Members {
			if b, ok := w.AgentIndex[id]; ok && b.Alive {
				out = append(out, id)
			}
		}
	}
	return out
}

// currentCoworkers returns the other living employees at a's workplace.
func (w *World) currentCoworkers(a *agents.Agent) []agents.AgentID {
	b := w.Town.BusinessOf(a)
	if b == nil {
		return nil
	}
	var out []agents.AgentID
	for _, id := range b.Employees {
		if id == a.ID {
			continue
		}
		if c, ok := w.AgentIndex[id]; ok && c.Alive {
			out = append(out, id)
		}
	}
	return out
}

// migrate appends entries of old that are absent from current onto the
// history list, deduplicated. Reports whether anything moved.
func migrate(old, current []agents.AgentID, history *[]agents.AgentID) bool {
	cur := make(map[agents.AgentID]bool, len(current))
	for _, id := range current {
		cur[id] = true
	}
	hist := make(map[agents.AgentID]bool, len(*history))
	for _, id := range *history {
		hist[id] = true
	}

	moved := false
	for _, id := range old {
		if cur[id] || hist[id] {
			continue
		}
		*history = append(*history, id)
		hist[id] = true
		moved = true
	}
	return moved
}

func sameSet(a, b []agents.AgentID) bool {
	if len(a) != len(b) {
		return false
	}
	set := make(map[agents.AgentID]bool, len(a))
	for _, id := range a {
		set[id] = true
	}
	for _, id := range b {
		if !set[id] {
			return false
		}
	}
	return true
}
