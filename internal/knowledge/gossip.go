// Gossip propagation — facts about third parties transfer from talker to
// listener during conversation.
package knowledge

import (
	"github.com/oakvale/townsim/internal/agents"
	"github.com/oakvale/townsim/internal/entropy"
	"github.com/oakvale/townsim/internal/personality"
)

// GossipCharge is the charge level above which a pair counts as friends
// and discusses more third parties.
const GossipCharge = 30.0

// Exchange runs one direction of a conversation: the talker passes facts
// about third parties to the listener. The number of people discussed
// scales with both agents' extroversion and the pair's charge; each fact
// transfers with the talker's personality-driven gossip propensity.
// Personality facts transfer only if the talker is open enough to confide.
// Returns the number of facts the listener actually learned. Partial
// transfer is the normal case, not a failure.
func Exchange(store *Store, talker, listener *agents.Agent, charge float64, tick uint64, rng entropy.Source) int {
	subjects := store.SubjectsKnownBy(talker.ID)
	if len(subjects) == 0 {
		return 0
	}

	// How many third parties come up.
	avgExtro := (talker.Traits.Extroversion + listener.Traits.Extroversion) / 2
	count := 1 + int(avgExtro*3)
	if charge > GossipCharge {
		count += 2
	}

	gossipChance := personality.GossipChance(talker.Traits)

	learned := 0
	discussed := 0
	for _, subjectID := range subjects {
		if discussed >= count {
			break
		}
		if subjectID == listener.ID || subjectID == talker.ID {
			continue
		}
		talkerModel := store.Get(talker.ID, subjectID)
		if talkerModel == nil || len(talkerModel.Facts) == 0 {
			continue
		}
		discussed++

		for fact := range talkerModel.Facts {
			listenerModel := store.Get(listener.ID, subjectID)
			if listenerModel != nil && listenerModel.Knows(fact) {
				continue
			}
			if fact == FactPersonality && talker.Traits.Openness <= personality.OpennessConfideThreshold {
				continue
			}
			if rng.Float() < gossipChance {
				if store.AddFact(listener.ID, subjectID, fact, tick) {
					learned++
				}
			}
		}
	}
	return learned
}
