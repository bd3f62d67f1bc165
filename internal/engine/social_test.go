package engine

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/oakvale/townsim/internal/agents"
	"github.com/oakvale/townsim/internal/entropy"
	"github.com/oakvale/townsim/internal/knowledge"
	"github.com/oakvale/townsim/internal/personality"
)

func TestRunObservation_TogglesOnSocialAge(t *testing.T) {
	tw := testTown()
	adult := newAgent(1, "Alden Oakes", 30, agents.SexMale)
	toddler := newAgent(2, "Tobin Oakes", 2, agents.SexMale)
	addHousehold(tw, 1, 0, adult, toddler)

	w := newTestWorld(tw, []*agents.Agent{adult, toddler})
	w.Rand = entropy.Constant(0) // Every observation roll succeeds.

	// Seeding already taught them each other's names; clear to isolate
	// the observation pathway.
	w.Knowledge = knowledge.NewStore()

	w.runObservation(5)

	// The adult notices the co-located toddler; the toddler is too
	// young to observe anyone.
	assert.NotNil(t, w.Knowledge.Get(adult.ID, toddler.ID))
	assert.Nil(t, w.Knowledge.Get(toddler.ID, adult.ID))
}

func TestRunObservation_RepeatAddsLocation(t *testing.T) {
	tw := testTown()
	a := newAgent(1, "Alden Oakes", 30, agents.SexMale)
	b := newAgent(2, "Bram Dray", 40, agents.SexMale)
	addHousehold(tw, 1, 0, a, b)

	w := newTestWorld(tw, []*agents.Agent{a, b})
	w.Rand = entropy.Constant(0)
	w.Knowledge = knowledge.NewStore()

	w.runObservation(1)
	m := w.Knowledge.Get(a.ID, b.ID)
	require.NotNil(t, m)
	assert.True(t, m.Knows(knowledge.FactName))
	assert.False(t, m.Knows(knowledge.FactLocation))

	w.runObservation(2)
	assert.True(t, m.Knows(knowledge.FactLocation))
}

func TestDecideToInstigate_StrangersApproachedLess(t *testing.T) {
	tw := testTown()
	a := newAgent(1, "Alden Oakes", 30, agents.SexMale)
	b := newAgent(2, "Bram Dray", 40, agents.SexMale)
	a.Traits = personality.Traits{} // Desire 0.3 known, 0.1 stranger.
	addHousehold(tw, 1, 0, a)
	addHousehold(tw, 2, 1, b)

	w := newTestWorld(tw, []*agents.Agent{a, b})
	w.Rand = entropy.Constant(0.2)

	// No mental model of b: the stranger propensity loses to the draw.
	assert.False(t, w.decideToInstigate(a, b))

	w.Knowledge.AddFact(a.ID, b.ID, knowledge.FactName, 1)
	assert.True(t, w.decideToInstigate(a, b))
}

func TestDecideToInstigate_GrudgeSuppresses(t *testing.T) {
	tw := testTown()
	a := newAgent(1, "Alden Oakes", 30, agents.SexMale)
	b := newAgent(2, "Bram Dray", 40, agents.SexMale)
	a.Traits = personality.Traits{Neuroticism: 1}
	addHousehold(tw, 1, 0, a)
	addHousehold(tw, 2, 1, b)

	w := newTestWorld(tw, []*agents.Agent{a, b})
	w.Knowledge.AddFact(a.ID, b.ID, knowledge.FactName, 1)
	w.Rand = entropy.Constant(0.06)

	// Desire 0.15 clears a 0.06 draw while the grudge is mild.
	rel := w.Relations.GetOrCreate(a.ID, b.ID)
	rel.Charge = -20
	assert.True(t, w.decideToInstigate(a, b))

	// A deep grudge drives the chance to the floor, below the draw.
	rel.Charge = -90
	assert.False(t, w.decideToInstigate(a, b))
}

func TestDecideToInstigate_WarmthPulls(t *testing.T) {
	tw := testTown()
	a := newAgent(1, "Alden Oakes", 30, agents.SexMale)
	b := newAgent(2, "Bram Dray", 40, agents.SexMale)
	a.Traits = personality.Traits{Agreeableness: 1}
	addHousehold(tw, 1, 0, a)
	addHousehold(tw, 2, 1, b)

	w := newTestWorld(tw, []*agents.Agent{a, b})
	w.Knowledge.AddFact(a.ID, b.ID, knowledge.FactName, 1)
	w.Rand = entropy.Constant(0.45)

	// Desire alone is 0.3 and loses the draw.
	assert.False(t, w.decideToInstigate(a, b))

	// Warm charge lifts it past the draw in proportion to agreeableness.
	w.Relations.GetOrCreate(a.ID, b.ID).Charge = 90
	assert.True(t, w.decideToInstigate(a, b))
}

func TestConverse_ProgressesPairAndTeachesBasics(t *testing.T) {
	tw := testTown()
	a := newAgent(1, "Alden Oakes", 30, agents.SexMale)
	b := newAgent(2, "Cora Vance", 28, agents.SexFemale)
	a.Traits = personality.Traits{Extroversion: 1, Agreeableness: 1} // Length 2.0.
	addHousehold(tw, 1, 0, a)
	addHousehold(tw, 2, 1, b)

	w := newTestWorld(tw, []*agents.Agent{a, b})
	w.Rand = entropy.Constant(0.99) // No gossip transfers fire.

	w.converse(a, b, 7, true)

	rel := w.Relations.Get(a.ID, b.ID)
	require.NotNil(t, rel)
	assert.InDelta(t, 1.0, rel.Charge, 1e-9) // Baseline 0.5 x length 2.
	assert.InDelta(t, 0.8, rel.Spark, 1e-9)  // 0.4 x length 2.
	assert.Equal(t, uint64(1), rel.Interactions)

	// Introductions go both ways even when only a instigated.
	assert.True(t, w.Knowledge.Get(a.ID, b.ID).Knows(knowledge.FactName))
	assert.True(t, w.Knowledge.Get(b.ID, a.ID).Knows(knowledge.FactOccupation))
}

func TestProgressSpark_Gated(t *testing.T) {
	tw := testTown()
	adultM := newAgent(1, "Alden Oakes", 30, agents.SexMale)
	adultF := newAgent(2, "Cora Vance", 28, agents.SexFemale)
	minor := newAgent(3, "Tobin Oakes", 15, agents.SexMale)
	aceF := newAgent(4, "Sybil Quill", 33, agents.SexFemale)
	aceF.Orientation = agents.OrientationAsexual
	addHousehold(tw, 1, 0, adultM, adultF, minor, aceF)

	w := newTestWorld(tw, []*agents.Agent{adultM, adultF, minor, aceF})

	w.progressSpark(adultM, adultF, 2, 1)
	assert.Equal(t, 2.0, w.Relations.GetOrCreate(adultM.ID, adultF.ID).Spark)

	// Minors accumulate no spark regardless of orientation.
	w.progressSpark(adultM, minor, 2, 1)
	assert.Equal(t, 0.0, w.Relations.GetOrCreate(adultM.ID, minor.ID).Spark)

	// Asexual pairs never accumulate spark.
	w.progressSpark(adultM, aceF, 2, 1)
	assert.Equal(t, 0.0, w.Relations.GetOrCreate(adultM.ID, aceF.ID).Spark)
}

func TestSocialContacts_IncludesHouseholdAcrossTown(t *testing.T) {
	tw := testTown()
	a := newAgent(1, "Alden Oakes", 30, agents.SexMale)
	spouse := newAgent(2, "Cora Oakes", 28, agents.SexFemale)
	stranger := newAgent(3, "Bram Dray", 40, agents.SexMale)
	addHousehold(tw, 1, 0, a, spouse)
	addHousehold(tw, 2, 1, stranger)

	w := newTestWorld(tw, []*agents.Agent{a, spouse, stranger})

	// The spouse is at work across town; the stranger shares a's location.
	spouse.Location = tw.Square
	stranger.Location = a.Location

	contacts := w.socialContacts(a)
	ids := make([]agents.AgentID, len(contacts))
	for i, c := range contacts {
		ids[i] = c.ID
	}
	assert.ElementsMatch(t, []agents.AgentID{2, 3}, ids)
}
