// Package economy provides the money collaborator: debit and credit of
// agent balances. The market behind prices and wages lives outside this
// core.
package economy

import (
	"errors"
	"fmt"

	"github.com/oakvale/townsim/internal/agents"
)

// ErrUnknownAgent is returned when a balance operation references an
// agent the ledger has no account for.
var ErrUnknownAgent = errors.New("economy: unknown agent")

// Ledger moves money in and out of agent balances.
type Ledger interface {
	// Debit removes up to amount from the agent's balance. Balances
	// floor at zero; a poor festival-goer simply pays what they have.
	Debit(id agents.AgentID, amount int64) error
	// Credit adds amount to the agent's balance.
	Credit(id agents.AgentID, amount int64) error
}

// AgentLedger is a Ledger over the live roster index, adjusting the
// Money field on each agent.
type AgentLedger struct {
	Index map[agents.AgentID]*agents.Agent
}

// NewAgentLedger creates a ledger over the given roster index.
func NewAgentLedger(index map[agents.AgentID]*agents.Agent) *AgentLedger {
	return &AgentLedger{Index: index}
}

// Debit implements Ledger.
func (l *AgentLedger) Debit(id agents.AgentID, amount int64) error {
	a, ok := l.Index[id]
	if !ok {
		return fmt.Errorf("debit %d: %w", id, ErrUnknownAgent)
	}
	a.Money -= amount
	if a.Money < 0 {
		a.Money = 0
	}
	return nil
}

// Credit implements Ledger.
func (l *AgentLedger) Credit(id agents.AgentID, amount int64) error {
	a, ok := l.Index[id]
	if !ok {
		return fmt.Errorf("credit %d: %w", id, ErrUnknownAgent)
	}
	a.Money += amount
	return nil
}
