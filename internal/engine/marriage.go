// Marriage proposals — one scan over qualifying pair records per timestep.
package engine

import (
	"fmt"
	"log/slog"
	"sort"

	"github.com/oakvale/townsim/internal/agents"
	"github.com/oakvale/townsim/internal/chronicle"
	"github.com/oakvale/townsim/internal/relations"
)

// Marriage thresholds and per-timestep probability.
const (
	ProposalSpark    = 75.0
	ProposalCharge   = 50.0
	ProposalChance   = 0.05
	AcceptanceSpark  = 60.0
	AcceptanceCharge = 40.0
)

// WeddingMoraleBoost is applied town-wide when a proposal is accepted.
const WeddingMoraleBoost = 5.0

// CheckForMarriageProposals scans all pair records for couples ready to
// marry. Candidate order is shuffled each timestep so the same early-id
// couple does not soak up every qualifying day. On acceptance both spouse
// links are set together; there is no observable half-married state.
func (w *World) CheckForMarriageProposals(tick uint64) ([]chronicle.Record, error) {
	candidates := w.marriageCandidates()

	var out []chronicle.Record
	for _, rel := range candidates {
		a, errA := w.agent(rel.Pair.Low)
		b, errB := w.agent(rel.Pair.High)
		if errA != nil || errB != nil {
			// A participant vanished mid-timestep; expected under
			// concurrent life events.
			continue
		}
		if !marriageable(a) || !marriageable(b) {
			continue
		}
		if !relations.MutualAttractionPossible(a, b) {
			continue
		}

		if w.Rand.Float() >= ProposalChance {
			continue
		}
		// Acceptance reads the same shared record; the thresholds are
		// looser than the proposal's, so they gate re-evaluated state,
		// not a second record.
		if rel.Spark <= AcceptanceSpark || rel.Charge <= AcceptanceCharge {
			continue
		}

		w.marry(a, b)
		w.bumpMorale(WeddingMoraleBoost)
		w.Stats.Marriages++

		rec, err := w.record(tick, chronicle.KindMarriage, []agents.AgentID{a.ID, b.ID},
			fmt.Sprintf("%s married %s", a.Name, b.Name))
		if err != nil {
			return out, err
		}
		out = append(out, rec)
		slog.Info("marriage", "tick", tick, "a", a.Name, "b", b.Name)
	}
	return out, nil
}

// marriageCandidates returns qualifying pair records in shuffled order.
// The records are first sorted by pair key so the shuffle is a pure
// function of the injected random source.
func (w *World) marriageCandidates() []*relations.Relationship {
	var candidates []*relations.Relationship
	for _, rel := range w.Relations.All() {
		if rel.Spark > ProposalSpark && rel.Charge > ProposalCharge {
			candidates = append(candidates, rel)
		}
	}
	sort.Slice(candidates, func(i, j int) bool {
		a, b := candidates[i].Pair, candidates[j].Pair
		if a.Low != b.Low {
			return a.Low < b.Low
		}
		return a.High < b.High
	})
	// Fisher-Yates using the injected source.
	for i := len(candidates) - 1; i > 0; i-- {
		j := int(w.Rand.Float() * float64(i+1))
		if j > i {
			j = i
		}
		candidates[i], candidates[j] = candidates[j], candidates[i]
	}
	return candidates
}

func marriageable(a *agents.Agent) bool {
	return a.Alive && a.Adult() && !a.Married()
}

// marry sets both spouse links. Callers rely on this being all-or-nothing.
func (w *World) marry(a, b *agents.Agent) {
	aID, bID := a.ID, b.ID
	a.Spouse = &bID
	b.Spouse = &aID
}
