// Package engine drives the social simulation: the per-timestep phase
// loop, the life-event evaluators, and the community event scheduler.
package engine

import (
	"errors"
	"fmt"
	"log/slog"

	"github.com/google/uuid"
	opensimplex "github.com/ojrac/opensimplex-go"

	"github.com/oakvale/townsim/internal/agents"
	"github.com/oakvale/townsim/internal/chronicle"
	"github.com/oakvale/townsim/internal/economy"
	"github.com/oakvale/townsim/internal/entropy"
	"github.com/oakvale/townsim/internal/knowledge"
	"github.com/oakvale/townsim/internal/relations"
	"github.com/oakvale/townsim/internal/routine"
	"github.com/oakvale/townsim/internal/town"
)

// Sentinel errors for the recoverable failure class. A not-found skips
// the enclosing per-agent operation; anything else aborts the timestep.
var (
	ErrAgentNotFound = errors.New("engine: agent not found")
	ErrWorldNotFound = errors.New("engine: world not found")
)

// Stats tracks aggregate world statistics, refreshed once per timestep.
type Stats struct {
	Population int     `json:"population"`
	Married    int     `json:"married"`
	Births     int     `json:"births"`
	Deaths     int     `json:"deaths"`
	Marriages  int     `json:"marriages"`
	Divorces   int     `json:"divorces"`
	AvgCharge  float64 `json:"avg_charge"`
}

// World is the per-world simulation context. Everything one world needs
// lives here; there is no package-level state, so multiple worlds can be
// simulated side by side.
type World struct {
	ID   uuid.UUID
	Name string

	Town       *town.Town
	Agents     []*agents.Agent
	AgentIndex map[agents.AgentID]*agents.Agent

	Relations *relations.Store
	Knowledge *knowledge.Store

	// Community morale, 0–100, decaying toward MoraleBaseline.
	Morale         float64
	MoraleBaseline float64
	Scheduled      []*CommunityEvent

	// Collaborators.
	Routine   routine.Provider
	Ledger    economy.Ledger
	Chronicle chronicle.Sink
	Spawner   *agents.Spawner

	Rand     entropy.Source
	LastTick uint64
	Stats    Stats

	// Smooth severity field for disasters; consecutive storms in the
	// same stretch of simulated time have correlated intensity.
	severity opensimplex.Noise
}

// Options configures a new world.
type Options struct {
	Name           string
	Seed           int64
	MoraleBaseline float64
}

// NewWorld wires a simulation context around a generated town and roster.
// Household and coworker knowledge is bulk-seeded so nobody starts as a
// stranger to their own family.
func NewWorld(t *town.Town, roster []*agents.Agent, spawner *agents.Spawner, opts Options) *World {
	w := newContext(t, roster, spawner, opts)
	w.seedStartingKnowledge()
	w.updateStats()
	return w
}

// RestoreWorld wires a context around previously saved state. No
// bootstrap seeding happens; the caller fills the stores, morale, and
// tick from persistence.
func RestoreWorld(t *town.Town, roster []*agents.Agent, spawner *agents.Spawner, opts Options) *World {
	return newContext(t, roster, spawner, opts)
}

func newContext(t *town.Town, roster []*agents.Agent, spawner *agents.Spawner, opts Options) *World {
	if opts.MoraleBaseline == 0 {
		opts.MoraleBaseline = MoraleBaseline
	}
	index := make(map[agents.AgentID]*agents.Agent, len(roster))
	for _, a := range roster {
		index[a.ID] = a
	}

	w := &World{
		ID:             uuid.New(),
		Name:           opts.Name,
		Town:           t,
		Agents:         roster,
		AgentIndex:     index,
		Relations:      relations.NewStore(),
		Knowledge:      knowledge.NewStore(),
		Morale:         opts.MoraleBaseline,
		MoraleBaseline: opts.MoraleBaseline,
		Routine:        routine.NewTownProvider(t),
		Ledger:         economy.NewAgentLedger(index),
		Chronicle:      &chronicle.Memory{},
		Spawner:        spawner,
		Rand:           entropy.NewSeeded(opts.Seed),
		severity:       opensimplex.NewNormalized(opts.Seed + 17),
	}
	return w
}

// seedStartingKnowledge bulk-seeds household and workplace familiarity,
// and gives cohabiting pairs a warm starting charge.
func (w *World) seedStartingKnowledge() {
	for _, h := range w.Town.Households {
		members := w.livingMembers(h.Members)
		w.Knowledge.InitializeFamilyKnowledge(members, 0)
		for i, a := range members {
			for _, b := range members[i+1:] {
				r := w.Relations.GetOrCreate(a.ID, b.ID)
				r.Charge = 20
			}
		}
	}
	for _, b := range w.Town.Businesses {
		w.Knowledge.InitializeCoworkerKnowledge(w.livingMembers(b.Employees), 0)
	}
}

// livingMembers resolves ids to living agents, dropping the missing.
func (w *World) livingMembers(ids []agents.AgentID) []*agents.Agent {
	out := make([]*agents.Agent, 0, len(ids))
	for _, id := range ids {
		if a, ok := w.AgentIndex[id]; ok && a.Alive {
			out = append(out, a)
		}
	}
	return out
}

// agent resolves an id, mapping absence onto ErrAgentNotFound.
func (w *World) agent(id agents.AgentID) (*agents.Agent, error) {
	a, ok := w.AgentIndex[id]
	if !ok {
		return nil, fmt.Errorf("agent %d: %w", id, ErrAgentNotFound)
	}
	return a, nil
}

// addAgent registers a newborn in the roster and all indexes.
func (w *World) addAgent(a *agents.Agent) {
	w.Agents = append(w.Agents, a)
	w.AgentIndex[a.ID] = a
	if a.HouseholdID != nil {
		if h, ok := w.Town.Households[*a.HouseholdID]; ok {
			h.AddMember(a.ID)
		}
	}
}

// record appends a life event to the chronicle sink and returns it.
func (w *World) record(tick uint64, kind chronicle.Kind, participants []agents.AgentID, outcome string) (chronicle.Record, error) {
	rec := chronicle.New(tick, kind, participants, outcome)
	if err := w.Chronicle.Append(rec); err != nil {
		return rec, fmt.Errorf("chronicle append: %w", err)
	}
	return rec, nil
}

// updateStats recomputes the aggregate counters that are derived rather
// than accumulated.
func (w *World) updateStats() {
	living := 0
	married := 0
	for _, a := range w.Agents {
		if !a.Alive {
			continue
		}
		living++
		if a.Married() {
			married++
		}
	}
	w.Stats.Population = living
	w.Stats.Married = married

	total := 0.0
	n := 0
	for _, r := range w.Relations.All() {
		total += r.Charge
		n++
	}
	if n > 0 {
		w.Stats.AvgCharge = total / float64(n)
	}
}

// LogDailyReport emits the structured summary line for a timestep.
func (w *World) LogDailyReport(tick uint64) {
	slog.Info("timestep report",
		"tick", tick,
		"population", w.Stats.Population,
		"married", w.Stats.Married,
		"births", w.Stats.Births,
		"deaths", w.Stats.Deaths,
		"marriages", w.Stats.Marriages,
		"divorces", w.Stats.Divorces,
		"morale", fmt.Sprintf("%.1f", w.Morale),
		"relationships", w.Relations.Len(),
		"mental_models", w.Knowledge.Len(),
	)
}
