// Community events — town morale, festivals, and disasters.
package engine

import (
	"fmt"
	"log/slog"

	"github.com/google/uuid"

	"github.com/oakvale/townsim/internal/agents"
	"github.com/oakvale/townsim/internal/chronicle"
)

// Morale bounds and decay. Morale drifts 5% of the way back to baseline
// every timestep; events push it around.
const (
	MoraleMin      = 0.0
	MoraleMax      = 100.0
	MoraleBaseline = 50.0
	MoraleDecay    = 0.05
)

// Festival effects.
const (
	FestivalMoraleBoost   = 10.0
	FestivalChargeBoost   = 2.0
	FestivalCostPerGuest  = 2
	festivalMinglePartner = 3 // Relationship boosts per attendee.
)

// Spontaneous disaster probabilities per timestep.
const (
	FireChance  = 0.005
	StormChance = 0.01
)

// EventKind is the closed set of schedulable community events. applyEvent
// switches on it exhaustively.
type EventKind uint8

const (
	EventFestival EventKind = iota
	EventFire
	EventStorm
)

// String returns the kind's display name.
func (k EventKind) String() string {
	switch k {
	case EventFestival:
		return "festival"
	case EventFire:
		return "fire"
	case EventStorm:
		return "storm"
	}
	return "unknown"
}

// CommunityEvent is a pure data record scheduled for a future timestep.
// Effects apply when the end timestep is reached.
type CommunityEvent struct {
	ID       uuid.UUID `json:"id"`
	Kind     EventKind `json:"kind"`
	EndTick  uint64    `json:"end_tick"`
	Severity float64   `json:"severity"` // 0–1, disasters only.
}

// ScheduleFestival queues a festival to take place at the given timestep.
func (w *World) ScheduleFestival(endTick uint64) *CommunityEvent {
	ev := &CommunityEvent{ID: uuid.New(), Kind: EventFestival, EndTick: endTick}
	w.Scheduled = append(w.Scheduled, ev)
	slog.Info("festival scheduled", "tick", endTick)
	return ev
}

// scheduleDisaster queues a disaster with severity read from the smooth
// noise field at the scheduling tick.
func (w *World) scheduleDisaster(kind EventKind, tick uint64) *CommunityEvent {
	severity := w.severity.Eval2(float64(tick)*0.01, float64(kind))
	ev := &CommunityEvent{ID: uuid.New(), Kind: kind, EndTick: tick + 1, Severity: severity}
	w.Scheduled = append(w.Scheduled, ev)
	slog.Info("disaster brewing", "kind", kind.String(), "severity", fmt.Sprintf("%.2f", severity), "lands", ev.EndTick)
	return ev
}

// runCommunityEvents decays morale, rolls spontaneous disasters, and
// executes every scheduled event whose end timestep has arrived.
func (w *World) runCommunityEvents(tick uint64) ([]chronicle.Record, error) {
	w.Morale += (w.MoraleBaseline - w.Morale) * MoraleDecay
	w.clampMorale()

	if w.Rand.Float() < FireChance {
		w.scheduleDisaster(EventFire, tick)
	}
	if w.Rand.Float() < StormChance {
		w.scheduleDisaster(EventStorm, tick)
	}

	var out []chronicle.Record
	var pending []*CommunityEvent
	for _, ev := range w.Scheduled {
		if tick < ev.EndTick {
			pending = append(pending, ev)
			continue
		}
		recs, err := w.applyEvent(ev, tick)
		if err != nil {
			return out, err
		}
		out = append(out, recs...)
	}
	w.Scheduled = pending
	return out, nil
}

// applyEvent executes one due event's effects.
func (w *World) applyEvent(ev *CommunityEvent, tick uint64) ([]chronicle.Record, error) {
	switch ev.Kind {
	case EventFestival:
		return w.applyFestival(tick)
	case EventFire, EventStorm:
		return w.applyDisaster(ev, tick)
	}
	return nil, fmt.Errorf("community event %s: unknown kind %d", ev.ID, ev.Kind)
}

// applyFestival gathers every living adult on the square: morale rises,
// attendees mingle, and everyone pays a small cost to the stallholders.
func (w *World) applyFestival(tick uint64) ([]chronicle.Record, error) {
	w.bumpMorale(FestivalMoraleBoost)

	var attendees []*agents.Agent
	for _, a := range w.Agents {
		if a.SociallyActive() {
			attendees = append(attendees, a)
		}
	}

	for i, a := range attendees {
		if err := w.Ledger.Debit(a.ID, FestivalCostPerGuest); err != nil {
			slog.Warn("festival cost skipped", "agent", a.ID, "error", err)
		}
		// Mingle with a few neighbors in attendance order; the shared
		// day leaves everyone a touch warmer.
		for j := 1; j <= festivalMinglePartner; j++ {
			b := attendees[(i+j)%len(attendees)]
			if b.ID == a.ID {
				break
			}
			w.Relations.UpdateCharge(a.ID, b.ID, FestivalChargeBoost, tick)
		}
	}

	ids := make([]agents.AgentID, len(attendees))
	for i, a := range attendees {
		ids[i] = a.ID
	}
	rec, err := w.record(tick, chronicle.KindFestival, ids,
		fmt.Sprintf("festival on the square, %d attended", len(attendees)))
	if err != nil {
		return nil, err
	}
	slog.Info("festival", "tick", tick, "attendees", len(attendees), "morale", fmt.Sprintf("%.1f", w.Morale))
	return []chronicle.Record{rec}, nil
}

// applyDisaster applies severity-scaled morale damage and kills the
// selected casualties through the shared death pathway.
func (w *World) applyDisaster(ev *CommunityEvent, tick uint64) ([]chronicle.Record, error) {
	impact := 5.0 + ev.Severity*45.0
	w.bumpMorale(-impact)

	casualties := int(ev.Severity * 3)
	if ev.Kind == EventStorm {
		casualties = int(ev.Severity * 2)
	}

	var living []*agents.Agent
	for _, a := range w.Agents {
		if a.Alive {
			living = append(living, a)
		}
	}

	var out []chronicle.Record
	var lost []agents.AgentID
	for i := 0; i < casualties && len(living) > 0; i++ {
		idx := int(w.Rand.Float() * float64(len(living)))
		if idx >= len(living) {
			idx = len(living) - 1
		}
		victim := living[idx]
		living = append(living[:idx], living[idx+1:]...)

		rec, err := w.kill(victim, tick, ev.Kind.String())
		if err != nil {
			return out, err
		}
		out = append(out, rec)
		lost = append(lost, victim.ID)
	}

	rec, err := w.record(tick, chronicle.KindDisaster, lost,
		fmt.Sprintf("%s struck the town, severity %.2f, %d lost", ev.Kind, ev.Severity, len(lost)))
	if err != nil {
		return out, err
	}
	out = append(out, rec)
	slog.Info("disaster", "tick", tick, "kind", ev.Kind.String(),
		"severity", fmt.Sprintf("%.2f", ev.Severity), "casualties", len(lost),
		"morale", fmt.Sprintf("%.1f", w.Morale))
	return out, nil
}

// bumpMorale shifts town morale, clamped to the legal range.
func (w *World) bumpMorale(delta float64) {
	w.Morale += delta
	w.clampMorale()
}

func (w *World) clampMorale() {
	if w.Morale < MoraleMin {
		w.Morale = MoraleMin
	}
	if w.Morale > MoraleMax {
		w.Morale = MoraleMax
	}
}
