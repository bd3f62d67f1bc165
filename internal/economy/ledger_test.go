package economy

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/oakvale/townsim/internal/agents"
)

func TestAgentLedger_DebitFloorsAtZero(t *testing.T) {
	a := &agents.Agent{ID: 1, Money: 10}
	l := NewAgentLedger(map[agents.AgentID]*agents.Agent{1: a})

	require.NoError(t, l.Debit(1, 4))
	assert.Equal(t, int64(6), a.Money)

	// Overdraw takes what there is, nothing more.
	require.NoError(t, l.Debit(1, 100))
	assert.Equal(t, int64(0), a.Money)
}

func TestAgentLedger_Credit(t *testing.T) {
	a := &agents.Agent{ID: 1, Money: 10}
	l := NewAgentLedger(map[agents.AgentID]*agents.Agent{1: a})

	require.NoError(t, l.Credit(1, 15))
	assert.Equal(t, int64(25), a.Money)
}

func TestAgentLedger_UnknownAgent(t *testing.T) {
	l := NewAgentLedger(map[agents.AgentID]*agents.Agent{})

	assert.ErrorIs(t, l.Debit(9, 1), ErrUnknownAgent)
	assert.ErrorIs(t, l.Credit(9, 1), ErrUnknownAgent)
}
