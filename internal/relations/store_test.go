package relations

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/oakvale/townsim/internal/agents"
)

func TestNewPairKey_Canonical(t *testing.T) {
	assert.Equal(t, NewPairKey(3, 7), NewPairKey(7, 3))
	k := NewPairKey(9, 2)
	assert.Equal(t, agents.AgentID(2), k.Low)
	assert.Equal(t, agents.AgentID(9), k.High)
}

func TestStore_GetOrCreate_SharedRecord(t *testing.T) {
	s := NewStore()
	r1 := s.GetOrCreate(1, 2)
	r2 := s.GetOrCreate(2, 1)
	require.Same(t, r1, r2)
	assert.Equal(t, 1, s.Len())
	assert.Equal(t, 0.0, r1.Charge)
	assert.Equal(t, 0.0, r1.Spark)
}

func TestUpdateCharge_PerInteractionCap(t *testing.T) {
	s := NewStore()
	r := s.UpdateCharge(1, 2, 100, 5)
	assert.Equal(t, MaxStepDelta, r.Charge)
	assert.Equal(t, uint64(5), r.LastTick)

	r = s.UpdateCharge(1, 2, -100, 6)
	assert.Equal(t, 0.0, r.Charge)
}

func TestUpdateCharge_ClampedToRange(t *testing.T) {
	s := NewStore()
	r := s.GetOrCreate(1, 2)
	r.Charge = ChargeMax - 1
	s.UpdateCharge(1, 2, 5, 1)
	assert.Equal(t, ChargeMax, r.Charge)

	r.Charge = ChargeMin + 1
	s.UpdateCharge(2, 1, -5, 2)
	assert.Equal(t, ChargeMin, r.Charge)
}

func TestUpdateSpark_NeverNegative(t *testing.T) {
	s := NewStore()
	r := s.UpdateSpark(1, 2, -3, 1)
	assert.Equal(t, SparkMin, r.Spark)

	s.UpdateSpark(1, 2, 2, 2)
	s.UpdateSpark(1, 2, 2, 3)
	assert.Equal(t, 4.0, r.Spark)
}

func TestProgress_BatchRespectsCap(t *testing.T) {
	s := NewStore()
	r := s.Progress(1, 2, 10, 100)
	// Baseline drift of 0.5 per represented step.
	assert.InDelta(t, 5.0, r.Charge, 1e-9)
	assert.Equal(t, uint64(10), r.Interactions)
	assert.Equal(t, uint64(100), r.LastTick)

	// A single batched call never moves charge more than one hi-fi
	// step could have per represented step.
	s2 := NewStore()
	r2 := s2.Progress(5, 6, 1000, 1)
	assert.LessOrEqual(t, r2.Charge, ChargeMax)
}

func newTestAgent(id agents.AgentID, sex agents.Sex, or agents.Orientation) *agents.Agent {
	return &agents.Agent{ID: id, Sex: sex, Orientation: or, Alive: true}
}

func TestAttractionPossible_Directional(t *testing.T) {
	heteroM := newTestAgent(1, agents.SexMale, agents.OrientationHeterosexual)
	heteroF := newTestAgent(2, agents.SexFemale, agents.OrientationHeterosexual)
	homoM := newTestAgent(3, agents.SexMale, agents.OrientationHomosexual)
	biF := newTestAgent(4, agents.SexFemale, agents.OrientationBisexual)
	aceM := newTestAgent(5, agents.SexMale, agents.OrientationAsexual)

	assert.True(t, AttractionPossible(heteroM, heteroF))
	assert.True(t, AttractionPossible(heteroF, heteroM))
	assert.False(t, AttractionPossible(heteroM, homoM))
	// Directional asymmetry: the homosexual man is interested, the
	// heterosexual man is not.
	assert.True(t, AttractionPossible(homoM, heteroM))
	assert.True(t, AttractionPossible(biF, heteroM))
	assert.True(t, AttractionPossible(biF, heteroF))
	assert.False(t, AttractionPossible(aceM, heteroF))
	assert.False(t, AttractionPossible(heteroM, heteroM))
}

func TestMutualAttractionPossible(t *testing.T) {
	heteroM := newTestAgent(1, agents.SexMale, agents.OrientationHeterosexual)
	heteroF := newTestAgent(2, agents.SexFemale, agents.OrientationHeterosexual)
	homoM := newTestAgent(3, agents.SexMale, agents.OrientationHomosexual)
	aceF := newTestAgent(4, agents.SexFemale, agents.OrientationAsexual)

	assert.True(t, MutualAttractionPossible(heteroM, heteroF))
	assert.False(t, MutualAttractionPossible(homoM, heteroM))
	assert.False(t, MutualAttractionPossible(heteroM, aceF))
}
