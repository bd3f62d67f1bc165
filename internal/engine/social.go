// Socialization — per-agent instigation decisions, relationship
// progression, and conversation-driven information exchange.
package engine

import (
	"github.com/oakvale/townsim/internal/agents"
	"github.com/oakvale/townsim/internal/knowledge"
	"github.com/oakvale/townsim/internal/personality"
	"github.com/oakvale/townsim/internal/relations"
)

// Instigation adjustment weights: warmth pulls agreeable agents in,
// grudges push neurotic agents away.
const (
	warmthPull      = 0.3
	grudgePush      = 0.4
	grudgeThreshold = -30.0
)

// runSocialization iterates every socially active agent's contact set.
// Contacts are the co-located plus household members; household members
// count regardless of location, so families stay aware of each other
// across work shifts. exchange controls whether conversations also
// transfer knowledge (high fidelity) or only move relationship scalars.
func (w *World) runSocialization(tick uint64, exchange bool) int {
	socializations := 0
	for _, a := range w.Agents {
		if !a.SociallyActive() {
			continue
		}
		for _, b := range w.socialContacts(a) {
			if !w.decideToInstigate(a, b) {
				continue
			}
			w.converse(a, b, tick, exchange)
			socializations++
		}
	}
	return socializations
}

// socialContacts returns the agents a can interact with this timestep:
// everyone sharing a's location, plus household members wherever they are.
func (w *World) socialContacts(a *agents.Agent) []*agents.Agent {
	seen := map[agents.AgentID]bool{a.ID: true}
	var out []*agents.Agent

	for _, b := range w.Agents {
		if seen[b.ID] || !b.SociallyActive() || b.Location != a.Location {
			continue
		}
		seen[b.ID] = true
		out = append(out, b)
	}

	if h := w.Town.HouseholdOf(a); h != nil {
		for _, id := range h.Members {
			if seen[id] {
				continue
			}
			b, ok := w.AgentIndex[id]
			if !ok || !b.SociallyActive() {
				continue
			}
			seen[id] = true
			out = append(out, b)
		}
	}
	return out
}

// routineContacts is the low-fidelity contact set: household members and
// coworkers, the people an agent would have seen during skipped days.
func (w *World) routineContacts(a *agents.Agent) []*agents.Agent {
	seen := map[agents.AgentID]bool{a.ID: true}
	var out []*agents.Agent

	collect := func(ids []agents.AgentID) {
		for _, id := range ids {
			if seen[id] {
				continue
			}
			b, ok := w.AgentIndex[id]
			if !ok || !b.SociallyActive() {
				continue
			}
			seen[id] = true
			out = append(out, b)
		}
	}

	if h := w.Town.HouseholdOf(a); h != nil {
		collect(h.Members)
	}
	if b := w.Town.BusinessOf(a); b != nil {
		collect(b.Employees)
	}
	return out
}

// decideToInstigate runs the personality-driven instigation decision for
// a approaching b. Starts from social desire, or the stranger-approach
// propensity if a holds no mental model of b; positive charge raises the
// chance in proportion to agreeableness, a strong grudge lowers it in
// proportion to neuroticism. One uniform draw decides.
func (w *World) decideToInstigate(a, b *agents.Agent) bool {
	p := personality.SocialDesire(a.Traits)
	if _, known := w.Knowledge.GetOrCreate(a.ID, b.ID, false); !known {
		p = personality.StrangerApproach(a.Traits)
	}

	if rel := w.Relations.Get(a.ID, b.ID); rel != nil {
		if rel.Charge > 0 {
			p += (rel.Charge / relations.ChargeMax) * warmthPull * a.Traits.Agreeableness
		} else if rel.Charge < grudgeThreshold {
			p -= (-rel.Charge / relations.ChargeMax) * grudgePush * a.Traits.Neuroticism
		}
	}

	return w.Rand.Float() < personality.ClampProb(p)
}

// converse applies one successful interaction: charge drifts by the
// compatibility baseline scaled by the instigator's conversation-length
// preference, spark accumulates where orientations allow, and in high
// fidelity both parties introduce themselves and gossip.
func (w *World) converse(a, b *agents.Agent, tick uint64, exchange bool) {
	length := personality.ConversationLength(a.Traits)
	delta := relations.CompatibilityBaseline * length
	rel := w.Relations.UpdateCharge(a.ID, b.ID, delta, tick)

	w.progressSpark(a, b, 0.4*length, tick)

	if !exchange {
		return
	}

	// Conversation teaches the basics about the partner directly.
	w.Knowledge.AddFact(a.ID, b.ID, knowledge.FactName, tick)
	w.Knowledge.AddFact(a.ID, b.ID, knowledge.FactOccupation, tick)
	w.Knowledge.AddFact(b.ID, a.ID, knowledge.FactName, tick)
	w.Knowledge.AddFact(b.ID, a.ID, knowledge.FactOccupation, tick)

	// Each side acts as talker in turn.
	knowledge.Exchange(w.Knowledge, a, b, rel.Charge, tick, w.Rand)
	knowledge.Exchange(w.Knowledge, b, a, rel.Charge, tick, w.Rand)
}

// progressSpark accumulates romantic attraction on the pair record, gated
// on mutual orientation compatibility and adulthood.
func (w *World) progressSpark(a, b *agents.Agent, delta float64, tick uint64) {
	if !a.Adult() || !b.Adult() {
		return
	}
	if !relations.MutualAttractionPossible(a, b) {
		return
	}
	w.Relations.UpdateSpark(a.ID, b.ID, delta, tick)
}
