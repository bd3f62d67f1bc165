// Package chronicle records life events as immutable append-only entries
// for narrative collaborators to render later.
package chronicle

import (
	"sync"

	"github.com/google/uuid"

	"github.com/oakvale/townsim/internal/agents"
)

// Kind is the closed set of recordable event kinds. Consumers switch on
// it exhaustively; there is no free-form category string.
type Kind uint8

const (
	KindMarriage Kind = iota
	KindBirth
	KindDivorce
	KindDeath
	KindFestival
	KindDisaster
)

// String returns the kind's wire name.
func (k Kind) String() string {
	switch k {
	case KindMarriage:
		return "marriage"
	case KindBirth:
		return "birth"
	case KindDivorce:
		return "divorce"
	case KindDeath:
		return "death"
	case KindFestival:
		return "festival"
	case KindDisaster:
		return "disaster"
	}
	return "unknown"
}

// KindFromString parses a wire name back into a Kind.
func KindFromString(s string) (Kind, bool) {
	switch s {
	case "marriage":
		return KindMarriage, true
	case "birth":
		return KindBirth, true
	case "divorce":
		return KindDivorce, true
	case "death":
		return KindDeath, true
	case "festival":
		return KindFestival, true
	case "disaster":
		return KindDisaster, true
	}
	return 0, false
}

// Record is one life event. Immutable once written.
type Record struct {
	ID           uuid.UUID        `json:"id"`
	Tick         uint64           `json:"tick"`
	Kind         Kind             `json:"kind"`
	Participants []agents.AgentID `json:"participants"`
	Outcome      string           `json:"outcome"`
}

// New creates a record with a fresh id.
func New(tick uint64, kind Kind, participants []agents.AgentID, outcome string) Record {
	return Record{
		ID:           uuid.New(),
		Tick:         tick,
		Kind:         kind,
		Participants: participants,
		Outcome:      outcome,
	}
}

// Sink receives life-event records. The core writes; collaborators read.
type Sink interface {
	Append(Record) error
}

// Memory is an in-process Sink holding records in order. The zero value
// is usable.
type Memory struct {
	mu      sync.Mutex
	records []Record
}

// Append stores the record.
func (m *Memory) Append(r Record) error {
	m.mu.Lock()
	defer m.mu.Unlock()
	m.records = append(m.records, r)
	return nil
}

// Records returns a copy of everything appended so far.
func (m *Memory) Records() []Record {
	m.mu.Lock()
	defer m.mu.Unlock()
	out := make([]Record, len(m.records))
	copy(out, m.records)
	return out
}

// Recent returns the last n records.
func (m *Memory) Recent(n int) []Record {
	m.mu.Lock()
	defer m.mu.Unlock()
	if n > len(m.records) {
		n = len(m.records)
	}
	out := make([]Record, n)
	copy(out, m.records[len(m.records)-n:])
	return out
}
